package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rendis/t2d/internal/logging"
	"github.com/rendis/t2d/internal/query"
	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/internal/state"
	"github.com/rendis/t2d/internal/validation"
	t2dmcp "github.com/rendis/t2d/pkg/mcp"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "t2d",
		Short:         "Recipe validation and pipeline state engine for diagram/documentation generation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newValidateCmd(),
		newTransformCmd(),
		newStatusCmd(),
		newQueryCmd(),
		newInferCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(logging.NewCorrelationHandler(handler))
}

func newValidator() (*validation.RecipeValidator, error) {
	return validation.NewRecipeValidator(registry.Default())
}

func newStore(ctx context.Context, cfg Config, logger *slog.Logger) (state.Store, error) {
	if cfg.StateBackend == "libsql" {
		return state.NewLibSQLStore(ctx, cfg.DBPath, logger)
	}
	return state.NewFileStore(cfg.StateDir, logger)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation and state tools over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := newLogger(cfg)

			v, err := newValidator()
			if err != nil {
				return err
			}
			store, err := newStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := t2dmcp.NewT2DServer(t2dmcp.T2DServerDeps{
				Validator:   v,
				Coordinator: state.NewCoordinator(store, logger),
				Query:       query.NewEngine(),
				Logger:      logger,
			})
			logger.Info("serving MCP on stdio", slog.String("state_backend", cfg.StateBackend))
			return srv.Serve(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the t2d version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "t2d", version)
		},
	}
}
