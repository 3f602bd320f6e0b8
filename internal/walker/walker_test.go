package walker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/walker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p1", "status.md"), "# p1")
	writeFile(t, filepath.Join(root, "p1", "tasks", "001-a.md"), "# a")
	writeFile(t, filepath.Join(root, "p1", ".hidden", "x.md"), "# hidden")
	writeFile(t, filepath.Join(root, "p2", "plans", "p.md"), "# plan")
	writeFile(t, filepath.Join(root, ".dotproj", "x.md"), "# dot")

	files, err := walker.Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	byRel := map[string]walker.FileDescriptor{}
	for _, f := range files {
		byRel[f.RelPath] = f
	}

	require.Contains(t, byRel, "p1/status.md")
	require.Equal(t, "", byRel["p1/status.md"].Folder)
	require.Equal(t, "p1", byRel["p1/status.md"].Project)

	require.Contains(t, byRel, "p1/tasks/001-a.md")
	require.Equal(t, "tasks", byRel["p1/tasks/001-a.md"].Folder)

	require.Contains(t, byRel, "p2/plans/p.md")
	require.NotContains(t, byRel, "p1/.hidden/x.md")
	require.NotContains(t, byRel, ".dotproj/x.md")
}

func TestWalkMissingRootIsEmpty(t *testing.T) {
	files, err := walker.Walk(context.Background(), "/nonexistent/path/for/vibemcp")
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestWalkHashChangesWithContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "p1", "status.md")
	writeFile(t, path, "one")

	files, err := walker.Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	hash1 := files[0].ContentHash

	writeFile(t, path, "two")
	files, err = walker.Walk(context.Background(), root)
	require.NoError(t, err)
	require.NotEqual(t, hash1, files[0].ContentHash)
}
