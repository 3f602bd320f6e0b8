package facade

import (
	"os"
	"path/filepath"

	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/store"
	"github.com/macward/vibemcp/internal/walker"
)

// SearchHit is one ranked row of a search operation's result list.
type SearchHit struct {
	ProjectName  string  `json:"project_name"`
	DocumentPath string  `json:"document_path"`
	Folder       string  `json:"folder"`
	Heading      string  `json:"heading,omitempty"`
	Snippet      string  `json:"snippet"`
	Score        float64 `json:"score"`
}

// Search runs a ranked full-text search, optionally narrowed to project.
func (f *Facade) Search(query, project string, limit int) ([]SearchHit, *OperationError) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := f.indexer.Search(query, project, limit)
	if err != nil {
		return nil, toOperationError(err)
	}
	out := make([]SearchHit, 0, len(rows))
	for _, r := range rows {
		out = append(out, SearchHit{
			ProjectName:  r.ProjectName,
			DocumentPath: r.DocumentPath,
			Folder:       r.Folder,
			Heading:      r.Heading,
			Snippet:      r.Snippet,
			Score:        r.Score,
		})
	}
	return out, nil
}

// DocumentMetadata mirrors the header block fields surfaced to callers.
type DocumentMetadata struct {
	Type    string   `json:"type,omitempty"`
	Status  string   `json:"status,omitempty"`
	Owner   string   `json:"owner,omitempty"`
	Updated string   `json:"updated,omitempty"`
	Feature string   `json:"feature,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ReadDocResult is read_doc's output record.
type ReadDocResult struct {
	Project  string            `json:"project"`
	Folder   string            `json:"folder"`
	Filename string            `json:"filename"`
	Path     string            `json:"path"`
	Metadata *DocumentMetadata `json:"metadata,omitempty"`
	Content  string            `json:"content,omitempty"`
	Exists   bool              `json:"exists"`
	Error    string            `json:"error,omitempty"`
}

// ReadDoc reads a document's raw content and indexed metadata by name.
// Non-existence is reported in the result record (exists=false), not as an
// OperationError — only a genuine path-safety violation is.
func (f *Facade) ReadDoc(project, folder, filename string) (ReadDocResult, *OperationError) {
	absPath, err := walker.ResolvePath(f.root, project, folder, filename)
	if err != nil {
		return ReadDocResult{}, toOperationError(apperr.Invalid("%s", err.Error()))
	}
	relPath := absPath
	if rel, err := filepath.Rel(f.root, absPath); err == nil {
		relPath = filepath.ToSlash(rel)
	}

	result := ReadDocResult{Project: project, Folder: folder, Filename: filename, Path: absPath}

	content, readErr := walker.ReadUTF8(absPath)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			result.Exists = false
			return result, nil
		}
		result.Exists = false
		result.Error = readErr.Error()
		return result, nil
	}
	result.Exists = true
	result.Content = content

	if doc, err := f.indexer.GetDocument(relPath); err == nil && doc != nil {
		result.Metadata = &DocumentMetadata{
			Type: doc.Type, Status: doc.Status, Owner: doc.Owner,
			Updated: doc.Updated, Feature: doc.Feature, Tags: doc.Tags,
		}
	}

	return result, nil
}

// TaskRow is one row of list_tasks' result list.
type TaskRow struct {
	ProjectName string `json:"project_name"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Status      string `json:"status,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// ListTasks lists indexed task documents, optionally filtered by project
// and/or status.
func (f *Facade) ListTasks(project, status string) ([]TaskRow, *OperationError) {
	docs, err := f.indexer.ListDocuments(store.DocumentFilter{Project: project, Folder: "tasks", Status: status})
	if err != nil {
		return nil, toOperationError(err)
	}
	out := make([]TaskRow, 0, len(docs))
	for _, d := range docs {
		out = append(out, TaskRow{
			ProjectName: d.ProjectName, Path: d.Path, Filename: d.Filename,
			Status: d.Status, Owner: d.Owner, Updated: d.Updated,
		})
	}
	return out, nil
}

// GetPlanResult is get_plan's output record.
type GetPlanResult struct {
	Project  string            `json:"project"`
	Filename string            `json:"filename"`
	Path     string            `json:"path"`
	Exists   bool              `json:"exists"`
	Metadata *DocumentMetadata `json:"metadata,omitempty"`
	Content  string            `json:"content,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// GetPlan reads a project's execution plan document, defaulting to
// execution-plan.md.
func (f *Facade) GetPlan(project, filename string) (GetPlanResult, *OperationError) {
	if filename == "" {
		filename = "execution-plan.md"
	}
	doc, opErr := f.ReadDoc(project, "plans", filename)
	if opErr != nil {
		return GetPlanResult{}, opErr
	}
	return GetPlanResult{
		Project: project, Filename: filename, Path: doc.Path,
		Exists: doc.Exists, Metadata: doc.Metadata, Content: doc.Content, Error: doc.Error,
	}, nil
}
