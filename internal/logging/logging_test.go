package logging_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/logging"
)

func TestSetupWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         "info",
		FilePath:      path,
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("indexed", slog.Int("added", 3))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"indexed"`)
	require.Contains(t, string(contents), `"added":3`)
}

func TestDefaultLogPathUnderHome(t *testing.T) {
	p := logging.DefaultLogPath()
	require.True(t, filepath.IsAbs(p))
	require.Equal(t, "server.log", filepath.Base(p))
}
