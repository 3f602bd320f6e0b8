// Package write implements the write engine's filesystem operations,
// grounded on the teacher repo's os.MkdirAll/os.WriteFile idiom used
// throughout internal/mcp/project.go for scaffolding detection; the
// teacher has no analogous write surface, so this package's structure
// (auth check, then path safety, then filesystem touch, then reindex,
// then best-effort webhook) is new but follows the teacher's plain
// stdlib-file-I/O-plus-coded-errors style rather than reaching for an
// unneeded ecosystem filesystem library.
package write

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/indexer"
	"github.com/macward/vibemcp/internal/walker"
)

// AuthGate is the subset of *auth.Gate the write engine depends on.
type AuthGate interface {
	CheckWrite() error
}

// WebhookEngine is the subset of *webhook.Engine the write engine depends
// on. FireEvent must never return an error that aborts the calling write.
type WebhookEngine interface {
	FireEvent(eventType, project string, data map[string]any)
}

// standardFolders are created under every new project, matching the
// header parser's folder→type inference table.
var standardFolders = []string{"tasks", "plans", "sessions", "reports", "changelog", "references", "scratch", "assets"}

// Engine implements the write-side operations of the design: every
// entrypoint checks write permission, validates paths, touches the
// filesystem, reindexes the touched file, and fires a webhook event.
type Engine struct {
	root    string
	auth    AuthGate
	indexer *indexer.Indexer
	webhook WebhookEngine

	taskLocksMu sync.Mutex
	taskLocks   map[string]*sync.Mutex
}

// New builds a write Engine rooted at root.
func New(root string, auth AuthGate, ix *indexer.Indexer, wh WebhookEngine) *Engine {
	return &Engine{root: root, auth: auth, indexer: ix, webhook: wh, taskLocks: make(map[string]*sync.Mutex)}
}

func (e *Engine) taskLock(project string) *sync.Mutex {
	e.taskLocksMu.Lock()
	defer e.taskLocksMu.Unlock()
	m, ok := e.taskLocks[project]
	if !ok {
		m = &sync.Mutex{}
		e.taskLocks[project] = m
	}
	return m
}

// reindexFile runs the indexer's per-file pipeline on a path this engine
// just wrote, so that a subsequent search observes the write immediately
// (read-your-writes, per the concurrency model).
func (e *Engine) reindexFile(absPath string) error {
	d, err := walker.Describe(e.root, absPath)
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "describe written file", err)
	}
	return e.indexer.IndexFile(d)
}

func (e *Engine) fire(eventType, project string, data map[string]any) {
	if e.webhook == nil {
		return
	}
	e.webhook.FireEvent(eventType, project, data)
}

// InitProjectResult is init_project's success record.
type InitProjectResult struct {
	Project string
	Path    string
	Folders []string
}

// InitProject creates a new project directory, its eight standard
// subfolders, and a seeded status.md.
func (e *Engine) InitProject(name string) (InitProjectResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return InitProjectResult{}, err
	}
	if !validProjectName(name) {
		return InitProjectResult{}, apperr.Invalid("invalid project name: %q", name)
	}

	projectPath := filepath.Join(e.root, name)
	if _, err := os.Stat(projectPath); err == nil {
		return InitProjectResult{}, apperr.Conflict("project %q already exists", name)
	}

	if err := os.MkdirAll(projectPath, 0o755); err != nil {
		return InitProjectResult{}, apperr.Wrap(apperr.KindIOTransient, "create project directory", err)
	}
	for _, folder := range standardFolders {
		if err := os.MkdirAll(filepath.Join(projectPath, folder), 0o755); err != nil {
			return InitProjectResult{}, apperr.Wrap(apperr.KindIOTransient, "create project subfolder", err)
		}
	}

	statusPath := filepath.Join(projectPath, "status.md")
	content := "# " + name + "\n\nStatus: setup\n"
	if err := os.WriteFile(statusPath, []byte(content), 0o644); err != nil {
		return InitProjectResult{}, apperr.Wrap(apperr.KindIOTransient, "write status.md", err)
	}

	if err := e.reindexFile(statusPath); err != nil {
		return InitProjectResult{}, err
	}

	e.fire("project.initialized", name, map[string]any{
		"project": name,
		"path":    projectPath,
		"folders": standardFolders,
	})

	return InitProjectResult{Project: name, Path: projectPath, Folders: standardFolders}, nil
}

// ReindexResult is reindex's success record.
type ReindexResult struct {
	DocumentCount int
}

// Reindex delegates to the indexer's full reindex and emits index.reindexed
// with a null project field.
func (e *Engine) Reindex(ctx context.Context) (ReindexResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return ReindexResult{}, err
	}

	count, err := e.indexer.Reindex(ctx)
	if err != nil {
		return ReindexResult{}, err
	}

	e.fire("index.reindexed", "", map[string]any{"document_count": count})
	return ReindexResult{DocumentCount: count}, nil
}
