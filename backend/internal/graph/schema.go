package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"socialgraph/backend/pkg/logger"
)

// schemaConstraints back the unique keys of the data model. Username uniqueness
// relies on user_username_unique to reject concurrent duplicate creates.
var schemaConstraints = []struct {
	name  string
	query string
}{
	{"user_id_unique", "CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.userId IS UNIQUE"},
	{"user_username_unique", "CREATE CONSTRAINT user_username_unique IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE"},
	{"post_id_unique", "CREATE CONSTRAINT post_id_unique IF NOT EXISTS FOR (p:Post) REQUIRE p.postId IS UNIQUE"},
	{"tag_name_unique", "CREATE CONSTRAINT tag_name_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE"},
}

// EnsureSchema creates the uniqueness constraints if they do not exist yet
func (c *Client) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, c)
}

// EnsureSchema runs every constraint statement through exec. Safe to repeat.
func EnsureSchema(ctx context.Context, exec Executor) error {
	for _, constraint := range schemaConstraints {
		if _, err := exec.RunWrite(ctx, "ensure_schema", constraint.query, nil); err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", constraint.name, err)
		}
	}

	logger.Named("graph").Info("Schema constraints ensured", zap.Int("constraints", len(schemaConstraints)))
	return nil
}
