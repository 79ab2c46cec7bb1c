package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getBoolFromRecord(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return false
	}
	b, _ := val.(bool)
	return b
}

// getTimeFromRecord converts Neo4j temporal values; datetime() comes back as time.Time
func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	switch t := val.(type) {
	case time.Time:
		return t
	case neo4j.LocalDateTime:
		return t.Time()
	case neo4j.Date:
		return t.Time()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	if slice, ok := val.([]string); ok {
		return append([]string{}, slice...)
	}
	return []string{}
}

func userSummariesFromRecords(records []*neo4j.Record) []UserSummary {
	users := make([]UserSummary, 0, len(records))
	for _, record := range records {
		users = append(users, UserSummary{
			UserID:   getStringFromRecord(record, "userId"),
			Username: getStringFromRecord(record, "username"),
		})
	}
	return users
}

// nowParam formats the current time for datetime($param)
func nowParam() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// missingEndpoint reads the existence flags returned by a conditional MERGE
func missingEndpoint(records []*neo4j.Record, fromKey, toKey string, fromMissing, toMissing error) error {
	if len(records) == 0 {
		return fromMissing
	}
	record := records[0]
	if !getBoolFromRecord(record, fromKey) {
		return fromMissing
	}
	if !getBoolFromRecord(record, toKey) {
		return toMissing
	}
	return nil
}
