package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialgraph/backend/pkg/config"
	apperrors "socialgraph/backend/pkg/errors"
)

func TestRun_FailsFastWhenNeo4jUnreachable(t *testing.T) {
	cfg := &config.Config{
		Port:                "0",
		Env:                 "development",
		Neo4jURI:            "bolt://127.0.0.1:1",
		Neo4jUser:           "neo4j",
		Neo4jPassword:       "secret",
		Neo4jDatabase:       "neo4j",
		Neo4jMaxPoolSize:    1,
		Neo4jAcquireTimeout: time.Second,
		RecommendationLimit: 10,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := run(ctx, cfg, zap.NewNop())
	require.Error(t, err)
	var failed *apperrors.ErrGraphConnectionFailed
	assert.True(t, errors.As(err, &failed))
}
