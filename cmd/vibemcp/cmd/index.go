package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newIndexCmd runs one manual reindex and exits, grounded on the
// teacher's cmd/amanmcp/cmd/index.go one-shot reindex command — useful
// for scripting without booting the long-running server.
func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Run a full reindex and exit",
		RunE:  runIndex,
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	logger, cleanup, _, st, ix, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := ix.Reindex(ctx)
	if err != nil {
		logger.Error("index_failed", slog.String("error", err.Error()))
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "indexed %d files\n", count)
	logger.Info("index_complete", slog.Int("files", count))
	return nil
}
