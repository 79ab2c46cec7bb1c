package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/config"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

var tracer = otel.Tracer("socialgraph/graph")

const (
	modeRead  = "read"
	modeWrite = "write"
	modeTx    = "tx"
)

// Config holds Neo4j connection configuration
type Config struct {
	URI            string
	Username       string
	Password       string
	Database       string
	MaxPoolSize    int
	AcquireTimeout time.Duration
}

// NewConfig projects the Neo4j settings of the application config
func NewConfig(cfg *config.Config) Config {
	return Config{
		URI:            cfg.Neo4jURI,
		Username:       cfg.Neo4jUser,
		Password:       cfg.Neo4jPassword,
		Database:       cfg.Neo4jDatabase,
		MaxPoolSize:    cfg.Neo4jMaxPoolSize,
		AcquireTimeout: cfg.Neo4jAcquireTimeout,
	}
}

// Tx is the handle a unit of work uses to issue statements inside a transaction
type Tx interface {
	Query(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// TxWork is a unit of work run inside a single write transaction
type TxWork func(ctx context.Context, tx Tx) (any, error)

// Executor is what the stores need from the session manager.
// Records are collected eagerly so the session is already released when they are returned.
type Executor interface {
	RunRead(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error)
	RunWrite(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error)
	ExecuteInTransaction(ctx context.Context, operation string, work TxWork) (any, error)
}

// Client owns the Neo4j driver and hands out scoped sessions and transactions
type Client struct {
	driver    neo4j.DriverWithContext
	database  string
	logger    *zap.Logger
	closeOnce sync.Once
}

// Connect creates the driver and verifies connectivity before returning
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if cfg.Username == "" {
		return nil, apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if cfg.Password == "" {
		return nil, apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neo4jconfig.Config) {
			if cfg.MaxPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxPoolSize
			}
			if cfg.AcquireTimeout > 0 {
				c.ConnectionAcquisitionTimeout = cfg.AcquireTimeout
			}
		},
	)
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(cfg.URI, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(cfg.URI, err)
	}

	client := NewClient(driver, cfg.Database)
	client.logger.Info("Connected to Neo4j",
		zap.String("uri", cfg.URI),
		zap.String("database", client.database),
	)
	return client, nil
}

// NewClient wraps an already connected driver
func NewClient(driver neo4j.DriverWithContext, database string) *Client {
	return &Client{
		driver:   driver,
		database: database,
		logger:   logger.Named("graph"),
	}
}

// Close closes the driver and its connection pool. Safe to call more than once.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	var err error
	c.closeOnce.Do(func() {
		err = c.driver.Close(ctx)
		c.logger.Info("Neo4j driver closed")
	})
	return err
}

// Ping verifies the driver can still reach the server
func (c *Client) Ping(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return classifyError("ping", err)
	}
	return nil
}

// Database returns the default database sessions bind to
func (c *Client) Database() string {
	return c.database
}

// ReadSession opens a read-mode session. The caller must close it.
func (c *Client) ReadSession(ctx context.Context, database ...string) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, c.sessionConfig(neo4j.AccessModeRead, database))
}

// WriteSession opens a write-mode session. The caller must close it.
func (c *Client) WriteSession(ctx context.Context, database ...string) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, c.sessionConfig(neo4j.AccessModeWrite, database))
}

func (c *Client) sessionConfig(mode neo4j.AccessMode, database []string) neo4j.SessionConfig {
	name := c.database
	if len(database) > 0 && database[0] != "" {
		name = database[0]
	}
	return neo4j.SessionConfig{AccessMode: mode, DatabaseName: name}
}

// RunRead runs a single statement in a read session
func (c *Client) RunRead(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.ReadSession(ctx)
	defer session.Close(ctx)

	return c.collect(ctx, modeRead, operation, func(ctx context.Context) (neo4j.ResultWithContext, error) {
		return session.Run(ctx, cypher, params)
	})
}

// RunWrite runs a single statement in a write session
func (c *Client) RunWrite(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.WriteSession(ctx)
	defer session.Close(ctx)

	return c.collect(ctx, modeWrite, operation, func(ctx context.Context) (neo4j.ResultWithContext, error) {
		return session.Run(ctx, cypher, params)
	})
}

// ExecuteInTransaction runs work exactly once inside an explicit write transaction.
// The transaction commits if work returns nil and rolls back otherwise; the
// error from work is returned unchanged.
func (c *Client) ExecuteInTransaction(ctx context.Context, operation string, work TxWork) (result any, err error) {
	ctx, span := tracer.Start(ctx, "graph.tx."+operation, trace.WithAttributes(c.spanAttributes(modeTx, operation)...))
	start := time.Now()
	defer func() {
		observeTransaction(operation, start, err)
		endSpan(span, err)
	}()

	session := c.WriteSession(ctx)
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return nil, classifyError(operation, err)
	}
	// Close rolls back anything not committed, including after a panic in work
	defer tx.Close(ctx)

	result, err = work(ctx, &explicitTx{tx: tx, client: c})
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			c.logger.Warn("Transaction rollback failed",
				zap.String("operation", operation),
				zap.Error(rbErr),
			)
		}
		return nil, err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return nil, classifyError(operation, commitErr)
	}
	return result, nil
}

// InTransaction is the typed form of ExecuteInTransaction
func InTransaction[T any](ctx context.Context, exec Executor, operation string, work func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	var zero T
	out, err := exec.ExecuteInTransaction(ctx, operation, func(ctx context.Context, tx Tx) (any, error) {
		return work(ctx, tx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, apperrors.NewGraphQueryFailed(operation, fmt.Errorf("unexpected result type %T", out))
	}
	return typed, nil
}

type explicitTx struct {
	tx     neo4j.ExplicitTransaction
	client *Client
}

func (t *explicitTx) Query(ctx context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return t.client.collect(ctx, modeTx, operation, func(ctx context.Context) (neo4j.ResultWithContext, error) {
		return t.tx.Run(ctx, cypher, params)
	})
}

func (c *Client) collect(ctx context.Context, mode, operation string, run func(ctx context.Context) (neo4j.ResultWithContext, error)) (records []*neo4j.Record, err error) {
	ctx, span := tracer.Start(ctx, "graph."+operation, trace.WithAttributes(c.spanAttributes(mode, operation)...))
	start := time.Now()
	defer func() {
		observeQuery(operation, mode, start, err)
		endSpan(span, err)
	}()

	result, err := run(ctx)
	if err != nil {
		return nil, classifyError(operation, err)
	}
	records, err = result.Collect(ctx)
	if err != nil {
		return nil, classifyError(operation, err)
	}
	return records, nil
}

func (c *Client) spanAttributes(mode, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.system", "neo4j"),
		attribute.String("db.name", c.database),
		attribute.String("db.operation", operation),
		attribute.String("graph.mode", mode),
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func classifyError(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewContextCancelled(operation, err)
	}
	return apperrors.NewGraphQueryFailed(operation, err)
}

// isConstraintViolation reports whether err carries a Neo4j uniqueness violation
func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return neoErr.Code == constants.Neo4jConstraintViolation
	}
	return false
}
