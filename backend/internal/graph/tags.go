package graph

import "strings"

// ============================================================================
// Tag Normalization
// ============================================================================

// NormalizeTagName lower-cases and trims a tag name
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTags normalizes every tag, drops blanks and collapses duplicates.
// The first occurrence decides the position, so caller order is kept.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, tag := range tags {
		name := NormalizeTagName(tag)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		normalized = append(normalized, name)
	}

	return normalized
}
