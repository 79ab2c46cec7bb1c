package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	exec := newFakeExecutor()
	require.NoError(t, EnsureSchema(context.Background(), exec))

	require.Len(t, exec.calls, len(schemaConstraints))
	for i, call := range exec.calls {
		assert.Equal(t, modeWrite, call.mode)
		assert.Contains(t, call.cypher, "IF NOT EXISTS")
		assert.Contains(t, call.cypher, schemaConstraints[i].name)
	}

	// a second run issues the same idempotent statements
	require.NoError(t, EnsureSchema(context.Background(), exec))
	assert.Len(t, exec.calls, 2*len(schemaConstraints))
}

func TestEnsureSchema_StopsOnFailure(t *testing.T) {
	exec := newFakeExecutor().on("ensure_schema", nil, errors.New("unauthorized"))

	err := EnsureSchema(context.Background(), exec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id_unique")
	assert.Len(t, exec.calls, 1)
}
