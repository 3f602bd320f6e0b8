package facade

import (
	"time"

	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/store"
)

// ProjectSummary is project_summary's output record, grounded on the
// original implementation's vibe://projects resource (original_source/
// src/vibe_mcp/resources.py): open task count, per-folder file counts, and
// the most recent session date, all read through the already-built index
// rather than re-walking the filesystem the way the original does.
type ProjectSummary struct {
	Project          string         `json:"project"`
	Path             string         `json:"path"`
	UpdatedAt        string         `json:"updated_at"`
	OpenTasks        int            `json:"open_tasks"`
	TaskStatusCounts map[string]int `json:"task_status_counts"`
	LastSessionDate  string         `json:"last_session_date,omitempty"`
	FolderCounts     map[string]int `json:"folder_counts"`
}

// ProjectSummary summarizes a single project by name.
func (f *Facade) ProjectSummary(project string) (ProjectSummary, *OperationError) {
	projects, err := f.indexer.ListProjects()
	if err != nil {
		return ProjectSummary{}, toOperationError(err)
	}
	var match *store.Project
	for i := range projects {
		if projects[i].Name == project {
			match = &projects[i]
			break
		}
	}
	if match == nil {
		return ProjectSummary{}, toOperationError(apperr.NotFound("project %q not found", project))
	}

	docs, err := f.indexer.ListDocuments(store.DocumentFilter{Project: project})
	if err != nil {
		return ProjectSummary{}, toOperationError(err)
	}

	summary := summarize(docs)
	summary.Project = match.Name
	summary.Path = match.Path
	summary.UpdatedAt = match.UpdatedAt
	return summary, nil
}

// ListProjectSummaries summarizes every indexed project.
func (f *Facade) ListProjectSummaries() ([]ProjectSummary, *OperationError) {
	projects, err := f.indexer.ListProjects()
	if err != nil {
		return nil, toOperationError(err)
	}

	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		docs, err := f.indexer.ListDocuments(store.DocumentFilter{Project: p.Name})
		if err != nil {
			return nil, toOperationError(err)
		}
		summary := summarize(docs)
		summary.Project = p.Name
		summary.Path = p.Path
		summary.UpdatedAt = p.UpdatedAt
		out = append(out, summary)
	}
	return out, nil
}

func summarize(docs []store.Document) ProjectSummary {
	summary := ProjectSummary{
		TaskStatusCounts: make(map[string]int),
		FolderCounts:     make(map[string]int),
	}

	var lastSessionMTime float64
	for _, d := range docs {
		folder := d.Folder
		if folder == "" {
			continue
		}
		summary.FolderCounts[folder]++

		if folder == "tasks" {
			status := d.Status
			if status == "" {
				status = "unknown"
			}
			summary.TaskStatusCounts[status]++
			if status != "done" {
				summary.OpenTasks++
			}
		}

		if folder == "sessions" && d.MTime > lastSessionMTime {
			lastSessionMTime = d.MTime
		}
	}
	if lastSessionMTime > 0 {
		summary.LastSessionDate = time.Unix(int64(lastSessionMTime), 0).UTC().Format(time.RFC3339)
	}
	return summary
}
