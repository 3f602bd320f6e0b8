// Package cmd builds vibemcp's command tree, following the teacher's
// cmd/amanmcp/cmd split between a root command carrying the "smart
// default" behavior and a handful of named subcommands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/macward/vibemcp/internal/auth"
	"github.com/macward/vibemcp/internal/config"
	"github.com/macward/vibemcp/internal/facade"
	"github.com/macward/vibemcp/internal/indexer"
	"github.com/macward/vibemcp/internal/logging"
	"github.com/macward/vibemcp/internal/mcpserver"
	"github.com/macward/vibemcp/internal/store"
	"github.com/macward/vibemcp/internal/sync"
	"github.com/macward/vibemcp/internal/webhook"
	"github.com/macward/vibemcp/internal/write"
	"github.com/macward/vibemcp/pkg/version"
)

var (
	forceReindex bool
	readOnlyFlag bool
)

// NewRootCmd builds the root command. With no subcommand named, it
// serves the MCP server directly — the teacher's smart-default flow —
// while "serve" and "index" remain available as explicit subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibemcp",
		Short: "Personal knowledge and work indexing MCP server",
		RunE:  runServe,
	}

	root.PersistentFlags().BoolVar(&forceReindex, "reindex", false, "force a full reindex before serving")
	root.PersistentFlags().BoolVar(&readOnlyFlag, "read-only", false, "force read-only mode regardless of VIBE_READ_ONLY")

	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexCmd())

	return root
}

func readOnlyOverride(cmd *cobra.Command) config.ReadOnlyOverride {
	return config.ReadOnlyOverride{
		Set:   cmd.Flags().Changed("read-only"),
		Value: readOnlyFlag,
	}
}

// bootstrap wires the logger, config, store and indexer shared by every
// subcommand. Callers are responsible for calling the returned cleanup
// func and closing the store once done.
func bootstrap(cmd *cobra.Command) (logger *slog.Logger, cleanup func(), cfg *config.Config, st *store.Store, ix *indexer.Indexer, err error) {
	logger, cleanup, err = logging.Setup(logging.Config{
		Level:         "info",
		FilePath:      logging.DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	})
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(logger)
	logger.Info("vibemcp_starting", slog.String("version", version.Version))

	cfg, err = config.FromEnv(readOnlyOverride(cmd))
	if err != nil {
		logger.Error("config_invalid", slog.String("error", err.Error()))
		cleanup()
		return nil, nil, nil, nil, nil, err
	}

	if err = os.MkdirAll(cfg.WorkspaceRoot, 0o755); err != nil {
		logger.Error("workspace_root_unavailable", slog.String("error", err.Error()))
		cleanup()
		return nil, nil, nil, nil, nil, fmt.Errorf("fatal-init: cannot create workspace root: %w", err)
	}

	st, err = store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("db_open_failed", slog.String("error", err.Error()))
		cleanup()
		return nil, nil, nil, nil, nil, fmt.Errorf("fatal-init: cannot open database: %w", err)
	}

	ix = indexer.New(cfg.WorkspaceRoot, st, logger)
	if err = ix.Initialize(); err != nil {
		logger.Error("schema_init_failed", slog.String("error", err.Error()))
		st.Close()
		cleanup()
		return nil, nil, nil, nil, nil, fmt.Errorf("fatal-init: cannot initialize schema: %w", err)
	}

	return logger, cleanup, cfg, st, ix, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, cleanup, cfg, st, ix, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer st.Close()

	projects, err := ix.ListProjects()
	if err != nil {
		logger.Error("list_projects_failed", slog.String("error", err.Error()))
		return fmt.Errorf("fatal-init: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if forceReindex || len(projects) == 0 {
		logger.Info("reindex_on_boot", slog.Bool("forced", forceReindex), slog.Int("known_projects", len(projects)))
		if _, err := ix.Reindex(ctx); err != nil {
			logger.Error("boot_reindex_failed", slog.String("error", err.Error()))
			return fmt.Errorf("fatal-init: boot reindex failed: %w", err)
		}
	}

	gate := auth.New(cfg.AuthToken, cfg.ReadOnly)

	webhookWorkers := 10
	if cfg.Advanced.WebhookWorkers > 0 {
		webhookWorkers = cfg.Advanced.WebhookWorkers
	}
	wh := webhook.New(st, cfg.WebhooksEnabled, webhookWorkers, logger)

	we := write.New(cfg.WorkspaceRoot, gate, ix, wh)

	var syncer *sync.Syncer
	if cfg.SyncInterval > 0 {
		syncer = sync.New(ix, time.Duration(cfg.SyncInterval)*time.Second, logger)
		syncer.WatchFS(cfg.WorkspaceRoot)
		syncer.Start(ctx)
	}

	f := facade.New(cfg.WorkspaceRoot, ix, we, wh)

	srv, err := mcpserver.New(f, logger)
	if err != nil {
		logger.Error("mcp_server_init_failed", slog.String("error", err.Error()))
		return fmt.Errorf("fatal-init: %w", err)
	}

	runErr := srv.Run(ctx)

	if syncer != nil {
		syncer.Stop()
	}
	wh.Shutdown(10 * time.Second)

	return runErr
}
