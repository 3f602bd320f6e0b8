package facade

import "context"

// InitProjectResult is init_project's output record.
type InitProjectResult struct {
	Project string   `json:"project"`
	Path    string   `json:"path"`
	Folders []string `json:"folders"`
}

// InitProject scaffolds a new project directory tree.
func (f *Facade) InitProject(name string) (InitProjectResult, *OperationError) {
	r, err := f.write.InitProject(name)
	if err != nil {
		return InitProjectResult{}, toOperationError(err)
	}
	return InitProjectResult{Project: r.Project, Path: r.Path, Folders: r.Folders}, nil
}

// CreateTaskResult is create_task's output record.
type CreateTaskResult struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// CreateTask creates a new numbered, slugified task file.
func (f *Facade) CreateTask(project, title, objective string, steps []string, feature string) (CreateTaskResult, *OperationError) {
	r, err := f.write.CreateTask(project, title, objective, steps, feature)
	if err != nil {
		return CreateTaskResult{}, toOperationError(err)
	}
	return CreateTaskResult{Project: r.Project, Filename: r.Filename, Path: r.Path}, nil
}

// UpdateTaskStatusResult is update_task_status's output record.
type UpdateTaskStatusResult struct {
	Project  string `json:"project"`
	TaskFile string `json:"task_file"`
	Status   string `json:"status"`
}

// UpdateTaskStatus rewrites a task file's status line.
func (f *Facade) UpdateTaskStatus(project, taskFile, status string) (UpdateTaskStatusResult, *OperationError) {
	r, err := f.write.UpdateTaskStatus(project, taskFile, status)
	if err != nil {
		return UpdateTaskStatusResult{}, toOperationError(err)
	}
	return UpdateTaskStatusResult{Project: r.Project, TaskFile: r.TaskFile, Status: r.Status}, nil
}

// CreateDocResult is create_doc's output record.
type CreateDocResult struct {
	Project  string `json:"project"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// CreateDoc writes a new document, failing if the target already exists.
func (f *Facade) CreateDoc(project, folder, filename, content string) (CreateDocResult, *OperationError) {
	r, err := f.write.CreateDoc(project, folder, filename, content)
	if err != nil {
		return CreateDocResult{}, toOperationError(err)
	}
	return CreateDocResult{Project: r.Project, Folder: r.Folder, Filename: r.Filename, Path: r.Path}, nil
}

// CreatePlanResult is create_plan's output record.
type CreatePlanResult struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Action   string `json:"action"`
}

// CreatePlan creates or overwrites a project's execution plan.
func (f *Facade) CreatePlan(project, content, filename string) (CreatePlanResult, *OperationError) {
	r, err := f.write.CreatePlan(project, content, filename)
	if err != nil {
		return CreatePlanResult{}, toOperationError(err)
	}
	return CreatePlanResult{Project: r.Project, Filename: r.Filename, Path: r.Path, Action: r.Action}, nil
}

// LogSessionResult is log_session's output record.
type LogSessionResult struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Action   string `json:"action"`
}

// LogSession appends to (or creates) today's session log.
func (f *Facade) LogSession(project, content string) (LogSessionResult, *OperationError) {
	r, err := f.write.LogSession(project, content)
	if err != nil {
		return LogSessionResult{}, toOperationError(err)
	}
	return LogSessionResult{Project: r.Project, Filename: r.Filename, Path: r.Path, Action: r.Action}, nil
}

// ReindexResult is reindex's output record.
type ReindexResult struct {
	DocumentCount int `json:"document_count"`
}

// Reindex forces a full workspace reindex.
func (f *Facade) Reindex(ctx context.Context) (ReindexResult, *OperationError) {
	r, err := f.write.Reindex(ctx)
	if err != nil {
		return ReindexResult{}, toOperationError(err)
	}
	return ReindexResult{DocumentCount: r.DocumentCount}, nil
}
