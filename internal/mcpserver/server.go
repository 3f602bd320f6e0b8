// Package mcpserver bridges the operation façade to the Model Context
// Protocol, grounded on the teacher repo's internal/mcp package: a Server
// struct wrapping *mcp.Server, one typed Input/Output struct pair per
// tool, and a registerTools method that calls mcp.AddTool once per
// operation (internal/mcp/server.go, internal/mcp/tools.go).
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macward/vibemcp/internal/facade"
	"github.com/macward/vibemcp/pkg/version"
)

// Server is vibemcp's MCP server: a thin adapter with no state of its own
// beyond the façade and server handle it wraps.
type Server struct {
	mcp    *mcp.Server
	facade *facade.Facade
	log    *slog.Logger
}

// New builds a Server and registers every tool, resource, and prompt.
func New(f *facade.Facade, log *slog.Logger) (*Server, error) {
	if f == nil {
		return nil, fmt.Errorf("facade is required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{facade: f, log: log}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "vibemcp",
		Version: version.Version,
	}, nil)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s, nil
}

// Run serves the protocol over stdio until ctx is cancelled or the
// transport's input stream closes, mirroring the teacher's Serve method.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp_server_starting", slog.String("version", version.Version))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.log.Error("mcp_server_stopped", slog.String("error", err.Error()))
		return err
	}
	s.log.Info("mcp_server_stopped")
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Full-text search across every indexed project's markdown documents. Returns ranked snippets with >>> <<< match delimiters.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "read_doc",
		Description: "Read a single document's raw content and parsed metadata by project/folder/filename.",
	}, s.handleReadDoc)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List indexed task documents, optionally filtered by project and/or status.",
	}, s.handleListTasks)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_plan",
		Description: "Read a project's execution plan, defaulting to execution-plan.md.",
	}, s.handleGetPlan)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "init_project",
		Description: "Scaffold a new project's folder tree (tasks, plans, sessions, reports, changelog, references, scratch, assets) under the workspace root.",
	}, s.handleInitProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a new numbered task file for a project.",
	}, s.handleCreateTask)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_task_status",
		Description: "Rewrite a task file's status line (pending, in-progress, blocked, done).",
	}, s.handleUpdateTaskStatus)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_doc",
		Description: "Write a new document under a project folder. Fails if the target already exists.",
	}, s.handleCreateDoc)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_plan",
		Description: "Create or overwrite a project's execution plan.",
	}, s.handleCreatePlan)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "log_session",
		Description: "Append an entry to (or create) a project's session log for today.",
	}, s.handleLogSession)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "reindex",
		Description: "Force a full reindex of the workspace, picking up any edits made outside this server.",
	}, s.handleReindex)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "project_summary",
		Description: "Summarize one or every indexed project: open task counts by status, per-folder file counts, and the most recent session date.",
	}, s.handleProjectSummary)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "register_webhook",
		Description: "Register an HTTP receiver to be notified of index events (task/doc/session/plan/project changes). The target URL is rejected if it resolves to a private or loopback address.",
	}, s.handleRegisterWebhook)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "unregister_webhook",
		Description: "Delete a webhook subscription by id.",
	}, s.handleUnregisterWebhook)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_webhooks",
		Description: "List registered webhook subscriptions, optionally filtered by project. The shared secret is never returned.",
	}, s.handleListWebhooks)

	s.log.Debug("mcp_tools_registered", slog.Int("count", 15))
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	hits, opErr := s.facade.Search(in.Query, in.Project, in.Limit)
	if opErr != nil {
		return nil, SearchOutput{}, toolError(opErr)
	}
	out := SearchOutput{Results: make([]SearchHitOutput, 0, len(hits))}
	for _, h := range hits {
		out.Results = append(out.Results, SearchHitOutput{
			ProjectName: h.ProjectName, DocumentPath: h.DocumentPath, Folder: h.Folder,
			Heading: h.Heading, Snippet: h.Snippet, Score: h.Score,
		})
	}
	return nil, out, nil
}

func (s *Server) handleReadDoc(ctx context.Context, _ *mcp.CallToolRequest, in ReadDocInput) (*mcp.CallToolResult, ReadDocOutput, error) {
	r, opErr := s.facade.ReadDoc(in.Project, in.Folder, in.Filename)
	if opErr != nil {
		return nil, ReadDocOutput{}, toolError(opErr)
	}
	out := ReadDocOutput{
		Project: r.Project, Folder: r.Folder, Filename: r.Filename, Path: r.Path,
		Content: r.Content, Exists: r.Exists, Error: r.Error,
	}
	if r.Metadata != nil {
		out.Metadata = &DocumentMetaOutput{
			Type: r.Metadata.Type, Status: r.Metadata.Status, Owner: r.Metadata.Owner,
			Updated: r.Metadata.Updated, Feature: r.Metadata.Feature, Tags: r.Metadata.Tags,
		}
	}
	return nil, out, nil
}

func (s *Server) handleListTasks(ctx context.Context, _ *mcp.CallToolRequest, in ListTasksInput) (*mcp.CallToolResult, ListTasksOutput, error) {
	rows, opErr := s.facade.ListTasks(in.Project, in.Status)
	if opErr != nil {
		return nil, ListTasksOutput{}, toolError(opErr)
	}
	out := ListTasksOutput{Tasks: make([]TaskRowOutput, 0, len(rows))}
	for _, r := range rows {
		out.Tasks = append(out.Tasks, TaskRowOutput{
			ProjectName: r.ProjectName, Path: r.Path, Filename: r.Filename,
			Status: r.Status, Owner: r.Owner, Updated: r.Updated,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetPlan(ctx context.Context, _ *mcp.CallToolRequest, in GetPlanInput) (*mcp.CallToolResult, GetPlanOutput, error) {
	r, opErr := s.facade.GetPlan(in.Project, in.Filename)
	if opErr != nil {
		return nil, GetPlanOutput{}, toolError(opErr)
	}
	out := GetPlanOutput{
		Project: r.Project, Filename: r.Filename, Path: r.Path,
		Exists: r.Exists, Content: r.Content, Error: r.Error,
	}
	if r.Metadata != nil {
		out.Metadata = &DocumentMetaOutput{
			Type: r.Metadata.Type, Status: r.Metadata.Status, Owner: r.Metadata.Owner,
			Updated: r.Metadata.Updated, Feature: r.Metadata.Feature, Tags: r.Metadata.Tags,
		}
	}
	return nil, out, nil
}

func (s *Server) handleInitProject(ctx context.Context, _ *mcp.CallToolRequest, in InitProjectInput) (*mcp.CallToolResult, InitProjectOutput, error) {
	r, opErr := s.facade.InitProject(in.Name)
	if opErr != nil {
		return nil, InitProjectOutput{}, toolError(opErr)
	}
	return nil, InitProjectOutput{Project: r.Project, Path: r.Path, Folders: r.Folders}, nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *mcp.CallToolRequest, in CreateTaskInput) (*mcp.CallToolResult, CreateTaskOutput, error) {
	r, opErr := s.facade.CreateTask(in.Project, in.Title, in.Objective, in.Steps, in.Feature)
	if opErr != nil {
		return nil, CreateTaskOutput{}, toolError(opErr)
	}
	return nil, CreateTaskOutput{Project: r.Project, Filename: r.Filename, Path: r.Path}, nil
}

func (s *Server) handleUpdateTaskStatus(ctx context.Context, _ *mcp.CallToolRequest, in UpdateTaskStatusInput) (*mcp.CallToolResult, UpdateTaskStatusOutput, error) {
	r, opErr := s.facade.UpdateTaskStatus(in.Project, in.TaskFile, in.Status)
	if opErr != nil {
		return nil, UpdateTaskStatusOutput{}, toolError(opErr)
	}
	return nil, UpdateTaskStatusOutput{Project: r.Project, TaskFile: r.TaskFile, Status: r.Status}, nil
}

func (s *Server) handleCreateDoc(ctx context.Context, _ *mcp.CallToolRequest, in CreateDocInput) (*mcp.CallToolResult, CreateDocOutput, error) {
	r, opErr := s.facade.CreateDoc(in.Project, in.Folder, in.Filename, in.Content)
	if opErr != nil {
		return nil, CreateDocOutput{}, toolError(opErr)
	}
	return nil, CreateDocOutput{Project: r.Project, Folder: r.Folder, Filename: r.Filename, Path: r.Path}, nil
}

func (s *Server) handleCreatePlan(ctx context.Context, _ *mcp.CallToolRequest, in CreatePlanInput) (*mcp.CallToolResult, CreatePlanOutput, error) {
	r, opErr := s.facade.CreatePlan(in.Project, in.Content, in.Filename)
	if opErr != nil {
		return nil, CreatePlanOutput{}, toolError(opErr)
	}
	return nil, CreatePlanOutput{Project: r.Project, Filename: r.Filename, Path: r.Path, Action: r.Action}, nil
}

func (s *Server) handleLogSession(ctx context.Context, _ *mcp.CallToolRequest, in LogSessionInput) (*mcp.CallToolResult, LogSessionOutput, error) {
	r, opErr := s.facade.LogSession(in.Project, in.Content)
	if opErr != nil {
		return nil, LogSessionOutput{}, toolError(opErr)
	}
	return nil, LogSessionOutput{Project: r.Project, Filename: r.Filename, Path: r.Path, Action: r.Action}, nil
}

func (s *Server) handleReindex(ctx context.Context, _ *mcp.CallToolRequest, _ ReindexInput) (*mcp.CallToolResult, ReindexOutput, error) {
	r, opErr := s.facade.Reindex(ctx)
	if opErr != nil {
		return nil, ReindexOutput{}, toolError(opErr)
	}
	return nil, ReindexOutput{DocumentCount: r.DocumentCount}, nil
}

func (s *Server) handleProjectSummary(ctx context.Context, _ *mcp.CallToolRequest, in ProjectSummaryInput) (*mcp.CallToolResult, ProjectSummaryOutput, error) {
	if in.Project != "" {
		summary, opErr := s.facade.ProjectSummary(in.Project)
		if opErr != nil {
			return nil, ProjectSummaryOutput{}, toolError(opErr)
		}
		return nil, ProjectSummaryOutput{Summaries: []ProjectSummaryRow{toSummaryRow(summary)}}, nil
	}

	summaries, opErr := s.facade.ListProjectSummaries()
	if opErr != nil {
		return nil, ProjectSummaryOutput{}, toolError(opErr)
	}
	out := ProjectSummaryOutput{Summaries: make([]ProjectSummaryRow, 0, len(summaries))}
	for _, summary := range summaries {
		out.Summaries = append(out.Summaries, toSummaryRow(summary))
	}
	return nil, out, nil
}

func toSummaryRow(s facade.ProjectSummary) ProjectSummaryRow {
	return ProjectSummaryRow{
		Project: s.Project, Path: s.Path, UpdatedAt: s.UpdatedAt,
		OpenTasks: s.OpenTasks, TaskStatusCounts: s.TaskStatusCounts,
		LastSessionDate: s.LastSessionDate, FolderCounts: s.FolderCounts,
	}
}

func (s *Server) handleRegisterWebhook(ctx context.Context, _ *mcp.CallToolRequest, in RegisterWebhookInput) (*mcp.CallToolResult, RegisterWebhookOutput, error) {
	r, opErr := s.facade.RegisterWebhook(in.URL, in.Secret, in.EventTypes, in.Project, in.Description)
	if opErr != nil {
		return nil, RegisterWebhookOutput{}, toolError(opErr)
	}
	return nil, RegisterWebhookOutput{
		Status: r.Status, SubscriptionID: r.SubscriptionID, URL: r.URL,
		EventTypes: r.EventTypes, Project: r.Project,
	}, nil
}

func (s *Server) handleUnregisterWebhook(ctx context.Context, _ *mcp.CallToolRequest, in UnregisterWebhookInput) (*mcp.CallToolResult, UnregisterWebhookOutput, error) {
	r, opErr := s.facade.UnregisterWebhook(in.SubscriptionID)
	if opErr != nil {
		return nil, UnregisterWebhookOutput{}, toolError(opErr)
	}
	return nil, UnregisterWebhookOutput{Status: r.Status, SubscriptionID: r.SubscriptionID}, nil
}

func (s *Server) handleListWebhooks(ctx context.Context, _ *mcp.CallToolRequest, in ListWebhooksInput) (*mcp.CallToolResult, ListWebhooksOutput, error) {
	rows, opErr := s.facade.ListWebhooks(in.Project)
	if opErr != nil {
		return nil, ListWebhooksOutput{}, toolError(opErr)
	}
	out := ListWebhooksOutput{Webhooks: make([]WebhookRowOutput, 0, len(rows))}
	for _, r := range rows {
		out.Webhooks = append(out.Webhooks, WebhookRowOutput{
			ID: r.ID, URL: r.URL, EventTypes: r.EventTypes, Project: r.Project,
			Description: r.Description, Active: r.Active, CreatedAt: r.CreatedAt,
		})
	}
	return nil, out, nil
}
