package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/config"
	apperrors "socialgraph/backend/pkg/errors"
)

func TestConnect_MissingConfig(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, Config{Username: "neo4j", Password: "pw"})
	var missing *apperrors.ErrConfigMissingRequired
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "NEO4J_URI", missing.Field)

	_, err = Connect(ctx, Config{URI: "bolt://localhost:7687", Password: "pw"})
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "NEO4J_USER", missing.Field)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Config{URI: "bolt://127.0.0.1:1", Username: "neo4j", Password: "pw"})
	require.Error(t, err)
	var failed *apperrors.ErrGraphConnectionFailed
	assert.True(t, errors.As(err, &failed))
}

func TestClient_CloseNil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close(context.Background()))
}

func TestClassifyError(t *testing.T) {
	err := classifyError("find_user", fmt.Errorf("run: %w", context.DeadlineExceeded))
	assert.Equal(t, apperrors.ErrorTypeContext, apperrors.TypeOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	err = classifyError("find_user", errors.New("connection reset"))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestIsConstraintViolation(t *testing.T) {
	violation := &neo4j.Neo4jError{Code: constants.Neo4jConstraintViolation}
	assert.True(t, isConstraintViolation(violation))
	assert.True(t, isConstraintViolation(apperrors.NewGraphQueryFailed("create_user", violation)))
	assert.False(t, isConstraintViolation(&neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError"}))
	assert.False(t, isConstraintViolation(errors.New("plain")))
}

func TestInTransaction_Typed(t *testing.T) {
	exec := newFakeExecutor()

	n, err := InTransaction(context.Background(), exec, "count", func(ctx context.Context, tx Tx) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, 1, exec.commits)

	boom := errors.New("boom")
	n, err = InTransaction(context.Background(), exec, "count", func(ctx context.Context, tx Tx) (int, error) {
		return 7, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	assert.Equal(t, 1, exec.rollbacks)
}

// mistypedExecutor hands back a transaction result of the wrong type
type mistypedExecutor struct {
	*fakeExecutor
}

func (m mistypedExecutor) ExecuteInTransaction(ctx context.Context, operation string, work TxWork) (any, error) {
	return "not a post", nil
}

func TestInTransaction_UnexpectedResultType(t *testing.T) {
	exec := mistypedExecutor{newFakeExecutor()}

	n, err := InTransaction(context.Background(), exec, "count", func(ctx context.Context, tx Tx) (int, error) {
		return 1, nil
	})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "string")

	var post *CreatedPost
	assert.NotPanics(t, func() {
		post, err = NewPostStore(exec).CreatePost(context.Background(), "hello", "a", nil)
	})
	assert.Nil(t, post)
	assert.Error(t, err)
}

func TestNewConfig(t *testing.T) {
	cfg := &config.Config{
		Neo4jURI:            "bolt://db:7687",
		Neo4jUser:           "neo4j",
		Neo4jPassword:       "secret",
		Neo4jDatabase:       "social",
		Neo4jMaxPoolSize:    20,
		Neo4jAcquireTimeout: 5 * time.Second,
	}

	assert.Equal(t, Config{
		URI:            "bolt://db:7687",
		Username:       "neo4j",
		Password:       "secret",
		Database:       "social",
		MaxPoolSize:    20,
		AcquireTimeout: 5 * time.Second,
	}, NewConfig(cfg))
}

func TestObserveMetrics(t *testing.T) {
	before := testutil.ToFloat64(queryTotal.WithLabelValues("metrics_probe", modeRead, "error"))
	observeQuery("metrics_probe", modeRead, time.Now(), errors.New("x"))
	assert.Equal(t, before+1, testutil.ToFloat64(queryTotal.WithLabelValues("metrics_probe", modeRead, "error")))

	before = testutil.ToFloat64(transactionTotal.WithLabelValues("metrics_probe", "rollback"))
	observeTransaction("metrics_probe", time.Now(), errors.New("x"))
	assert.Equal(t, before+1, testutil.ToFloat64(transactionTotal.WithLabelValues("metrics_probe", "rollback")))
}

func createTestClient(t *testing.T) *Client {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	password := os.Getenv("NEO4J_PASSWORD")
	if password == "" {
		password = "password"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, Config{URI: uri, Username: user, Password: password, Database: os.Getenv("NEO4J_DATABASE")})
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	require.NoError(t, client.EnsureSchema(ctx))
	return client
}
