package mcpserver

// Typed per-tool input/output records, grounded on the teacher's
// tools.go convention of one struct pair per MCP tool with jsonschema
// struct tags describing each field to the calling model.

// SearchInput is the search tool's input.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the full-text query to run against indexed documents"`
	Project string `json:"project,omitempty" jsonschema:"restrict results to this project, omit to search everything"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 20"`
}

// SearchOutput is the search tool's output.
type SearchOutput struct {
	Results []SearchHitOutput `json:"results" jsonschema:"ranked search hits"`
}

// SearchHitOutput is one ranked search result.
type SearchHitOutput struct {
	ProjectName  string  `json:"project_name"`
	DocumentPath string  `json:"document_path"`
	Folder       string  `json:"folder"`
	Heading      string  `json:"heading,omitempty"`
	Snippet      string  `json:"snippet" jsonschema:"matched text bounded by >>> and <<< delimiters, ... marks an elided run"`
	Score        float64 `json:"score"`
}

// ReadDocInput is the read_doc tool's input.
type ReadDocInput struct {
	Project  string `json:"project" jsonschema:"project name"`
	Folder   string `json:"folder" jsonschema:"subfolder under the project root, empty string for top-level files"`
	Filename string `json:"filename" jsonschema:"file name within folder"`
}

// ReadDocOutput is the read_doc tool's output.
type ReadDocOutput struct {
	Project  string             `json:"project"`
	Folder   string             `json:"folder"`
	Filename string             `json:"filename"`
	Path     string             `json:"path"`
	Metadata *DocumentMetaOutput `json:"metadata,omitempty"`
	Content  string             `json:"content,omitempty"`
	Exists   bool               `json:"exists"`
	Error    string             `json:"error,omitempty"`
}

// DocumentMetaOutput mirrors the parsed frontmatter fields of a document.
type DocumentMetaOutput struct {
	Type    string   `json:"type,omitempty"`
	Status  string   `json:"status,omitempty"`
	Owner   string   `json:"owner,omitempty"`
	Updated string   `json:"updated,omitempty"`
	Feature string   `json:"feature,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ListTasksInput is the list_tasks tool's input.
type ListTasksInput struct {
	Project string `json:"project,omitempty" jsonschema:"restrict to this project, omit to list across all projects"`
	Status  string `json:"status,omitempty" jsonschema:"restrict to this status, e.g. pending, in-progress, blocked, done"`
}

// ListTasksOutput is the list_tasks tool's output.
type ListTasksOutput struct {
	Tasks []TaskRowOutput `json:"tasks"`
}

// TaskRowOutput is one indexed task document.
type TaskRowOutput struct {
	ProjectName string `json:"project_name"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Status      string `json:"status,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// GetPlanInput is the get_plan tool's input.
type GetPlanInput struct {
	Project  string `json:"project" jsonschema:"project name"`
	Filename string `json:"filename,omitempty" jsonschema:"plan filename, defaults to execution-plan.md"`
}

// GetPlanOutput is the get_plan tool's output.
type GetPlanOutput struct {
	Project  string              `json:"project"`
	Filename string              `json:"filename"`
	Path     string              `json:"path"`
	Exists   bool                `json:"exists"`
	Metadata *DocumentMetaOutput `json:"metadata,omitempty"`
	Content  string              `json:"content,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// InitProjectInput is the init_project tool's input.
type InitProjectInput struct {
	Name string `json:"name" jsonschema:"new project name, must not already exist"`
}

// InitProjectOutput is the init_project tool's output.
type InitProjectOutput struct {
	Project string   `json:"project"`
	Path    string   `json:"path"`
	Folders []string `json:"folders"`
}

// CreateTaskInput is the create_task tool's input.
type CreateTaskInput struct {
	Project   string   `json:"project"`
	Title     string   `json:"title"`
	Objective string   `json:"objective"`
	Steps     []string `json:"steps,omitempty"`
	Feature   string   `json:"feature,omitempty"`
}

// CreateTaskOutput is the create_task tool's output.
type CreateTaskOutput struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// UpdateTaskStatusInput is the update_task_status tool's input.
type UpdateTaskStatusInput struct {
	Project  string `json:"project"`
	TaskFile string `json:"task_file" jsonschema:"the task's filename, as returned by create_task or list_tasks"`
	Status   string `json:"status" jsonschema:"one of pending, in-progress, blocked, done"`
}

// UpdateTaskStatusOutput is the update_task_status tool's output.
type UpdateTaskStatusOutput struct {
	Project  string `json:"project"`
	TaskFile string `json:"task_file"`
	Status   string `json:"status"`
}

// CreateDocInput is the create_doc tool's input.
type CreateDocInput struct {
	Project  string `json:"project"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// CreateDocOutput is the create_doc tool's output.
type CreateDocOutput struct {
	Project  string `json:"project"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// CreatePlanInput is the create_plan tool's input.
type CreatePlanInput struct {
	Project  string `json:"project"`
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty" jsonschema:"defaults to execution-plan.md"`
}

// CreatePlanOutput is the create_plan tool's output.
type CreatePlanOutput struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Action   string `json:"action" jsonschema:"created or updated"`
}

// LogSessionInput is the log_session tool's input.
type LogSessionInput struct {
	Project string `json:"project"`
	Content string `json:"content" jsonschema:"markdown content appended to today's session log"`
}

// LogSessionOutput is the log_session tool's output.
type LogSessionOutput struct {
	Project  string `json:"project"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Action   string `json:"action" jsonschema:"created or appended"`
}

// ReindexInput is the reindex tool's input. It takes no parameters.
type ReindexInput struct{}

// ReindexOutput is the reindex tool's output.
type ReindexOutput struct {
	DocumentCount int `json:"document_count"`
}

// ProjectSummaryInput is the project_summary tool's input.
type ProjectSummaryInput struct {
	Project string `json:"project,omitempty" jsonschema:"project to summarize, omit to summarize every indexed project"`
}

// ProjectSummaryOutput is the project_summary tool's output.
type ProjectSummaryOutput struct {
	Summaries []ProjectSummaryRow `json:"summaries"`
}

// ProjectSummaryRow mirrors facade.ProjectSummary.
type ProjectSummaryRow struct {
	Project          string         `json:"project"`
	Path             string         `json:"path"`
	UpdatedAt        string         `json:"updated_at"`
	OpenTasks        int            `json:"open_tasks"`
	TaskStatusCounts map[string]int `json:"task_status_counts"`
	LastSessionDate  string         `json:"last_session_date,omitempty"`
	FolderCounts     map[string]int `json:"folder_counts"`
}

// RegisterWebhookInput is the register_webhook tool's input.
type RegisterWebhookInput struct {
	URL         string   `json:"url" jsonschema:"https or http receiver URL, must not resolve to a private/loopback address"`
	Secret      string   `json:"secret" jsonschema:"shared HMAC secret, at least 32 characters"`
	EventTypes  []string `json:"event_types" jsonschema:"event types to subscribe to, or [\"*\"] for all"`
	Project     string   `json:"project,omitempty" jsonschema:"restrict delivery to events from this project, omit for every project"`
	Description string   `json:"description,omitempty"`
}

// RegisterWebhookOutput is the register_webhook tool's output.
type RegisterWebhookOutput struct {
	Status         string   `json:"status"`
	SubscriptionID int64    `json:"subscription_id"`
	URL            string   `json:"url"`
	EventTypes     []string `json:"event_types"`
	Project        string   `json:"project,omitempty"`
}

// UnregisterWebhookInput is the unregister_webhook tool's input.
type UnregisterWebhookInput struct {
	SubscriptionID int64 `json:"subscription_id"`
}

// UnregisterWebhookOutput is the unregister_webhook tool's output.
type UnregisterWebhookOutput struct {
	Status         string `json:"status"`
	SubscriptionID int64  `json:"subscription_id"`
}

// ListWebhooksInput is the list_webhooks tool's input.
type ListWebhooksInput struct {
	Project string `json:"project,omitempty"`
}

// ListWebhooksOutput is the list_webhooks tool's output. The shared secret
// is never included in any row.
type ListWebhooksOutput struct {
	Webhooks []WebhookRowOutput `json:"webhooks"`
}

// WebhookRowOutput is one registered subscription.
type WebhookRowOutput struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	EventTypes  []string `json:"event_types"`
	Project     string   `json:"project,omitempty"`
	Description string   `json:"description,omitempty"`
	Active      bool     `json:"active"`
	CreatedAt   string   `json:"created_at"`
}
