package write

import (
	"os"
	"path/filepath"
	"strings"

	apperr "github.com/macward/vibemcp/internal/errors"
)

// CreateDocResult is create_doc's success record.
type CreateDocResult struct {
	Project  string
	Folder   string
	Filename string
	Path     string
}

// CreateDoc writes a new document, auto-appending .md and failing if the
// target already exists.
func (e *Engine) CreateDoc(project, folder, filename, content string) (CreateDocResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return CreateDocResult{}, err
	}
	if !strings.HasSuffix(filename, ".md") {
		filename += ".md"
	}

	fullPath, err := e.resolve(project, folder, filename)
	if err != nil {
		return CreateDocResult{}, err
	}

	if _, err := os.Stat(fullPath); err == nil {
		return CreateDocResult{}, apperr.Conflict("document %q already exists", filename)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return CreateDocResult{}, apperr.Wrap(apperr.KindIOTransient, "create document directory", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return CreateDocResult{}, apperr.Wrap(apperr.KindIOTransient, "write document", err)
	}

	if err := e.reindexFile(fullPath); err != nil {
		return CreateDocResult{}, err
	}

	e.fire("doc.created", project, map[string]any{
		"project": project, "folder": folder, "filename": filename,
	})

	return CreateDocResult{Project: project, Folder: folder, Filename: filename, Path: fullPath}, nil
}

// CreatePlanResult is create_plan's success record.
type CreatePlanResult struct {
	Project  string
	Filename string
	Path     string
	Action   string // "created" or "updated"
}

// CreatePlan creates or overwrites a plan document in <project>/plans/.
func (e *Engine) CreatePlan(project, content, filename string) (CreatePlanResult, error) {
	if err := e.auth.CheckWrite(); err != nil {
		return CreatePlanResult{}, err
	}
	if filename == "" {
		filename = "execution-plan.md"
	}

	fullPath, err := e.resolve(project, "plans", filename)
	if err != nil {
		return CreatePlanResult{}, err
	}

	action := "created"
	if _, err := os.Stat(fullPath); err == nil {
		action = "updated"
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return CreatePlanResult{}, apperr.Wrap(apperr.KindIOTransient, "create plans directory", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return CreatePlanResult{}, apperr.Wrap(apperr.KindIOTransient, "write plan", err)
	}

	if err := e.reindexFile(fullPath); err != nil {
		return CreatePlanResult{}, err
	}

	eventType := "plan.created"
	if action == "updated" {
		eventType = "plan.updated"
	}
	e.fire(eventType, project, map[string]any{
		"project": project, "filename": filename,
	})

	return CreatePlanResult{Project: project, Filename: filename, Path: fullPath, Action: action}, nil
}
