package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"socialgraph/backend/internal/api"
	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/config"
	"socialgraph/backend/pkg/logger"
)

// app carries the stores a command runs against
type app struct {
	users  api.UserService
	posts  api.PostService
	recs   api.RecommendationService
	schema func(ctx context.Context) error
	close  func(ctx context.Context) error
	out    io.Writer
}

// connectFunc fills in the stores of an app before a command runs
type connectFunc func(ctx context.Context, a *app) error

func main() {
	a := &app{out: os.Stdout}
	root := newRootCmd(a, connectNeo4j)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app, connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "socialctl",
		Short:        "Operate the social graph directly against Neo4j",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.users != nil {
				return nil
			}
			return connect(cmd.Context(), a)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.close == nil {
				return nil
			}
			return a.close(context.Background())
		},
	}

	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newUserCmd(a))
	root.AddCommand(newPostCmd(a))
	root.AddCommand(newSeedCmd(a))
	return root
}

func connectNeo4j(ctx context.Context, a *app) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := graph.Connect(ctx, graph.NewConfig(cfg))
	if err != nil {
		return err
	}

	a.users = graph.NewUserStore(client)
	a.posts = graph.NewPostStore(client)
	a.recs = graph.NewRecommender(client, cfg.RecommendationLimit)
	a.schema = client.EnsureSchema
	a.close = func(ctx context.Context) error {
		logger.Sync()
		return client.Close(ctx)
	}
	logger.Get().Debug("socialctl connected", zap.String("uri", cfg.Neo4jURI))
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the uniqueness constraints if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.schema(cmd.Context()); err != nil {
				return err
			}
			return a.print(map[string]string{"status": "ok"})
		},
	}
}
