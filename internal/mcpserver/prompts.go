package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds the two canned prompt templates supplemented from
// the original implementation (original_source/src/vibe_mcp/prompts.py):
// project_briefing, a concise current-state summary, and session_start, a
// fuller context dump meant to open a working session. Both read through
// the façade rather than the filesystem directly, consistent with every
// other read path in this server.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "project_briefing",
		Description: "A concise briefing of a project's current status, active tasks, and recent sessions.",
		Arguments: []*mcp.PromptArgument{
			{Name: "project", Description: "Project to brief", Required: true},
		},
	}, s.handleProjectBriefingPrompt)

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "session_start",
		Description: "Full working context for a project: status, execution plan, and tasks grouped by state.",
		Arguments: []*mcp.PromptArgument{
			{Name: "project", Description: "Project to start a session for", Required: true},
		},
	}, s.handleSessionStartPrompt)
}

func promptArg(req *mcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil {
		return ""
	}
	return req.Params.Arguments[name]
}

func promptMessage(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (s *Server) handleProjectBriefingPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	project := promptArg(req, "project")

	summary, opErr := s.facade.ProjectSummary(project)
	if opErr != nil {
		return promptMessage(fmt.Sprintf("# Project Briefing: %s\n\nProject %q was not found in the index.\n", project, project)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project Briefing: %s\n\n", project)

	status, _ := s.facade.ReadDoc(project, "", "status.md")
	fmt.Fprintf(&b, "## Current Status\n\n")
	if status.Exists {
		b.WriteString(strings.TrimSpace(status.Content))
		b.WriteString("\n\n")
	} else {
		b.WriteString("_No status file found_\n\n")
	}

	tasks, opErr := s.facade.ListTasks(project, "")
	if opErr != nil {
		tasks = nil
	}
	b.WriteString("## Active Tasks\n\n")
	active := false
	for _, taskStatus := range []string{"in-progress", "blocked", "pending"} {
		for _, t := range tasks {
			if t.Status != taskStatus {
				continue
			}
			active = true
			doc, _ := s.facade.ReadDoc(project, "tasks", t.Filename)
			objective := extractSection(doc.Content, "## Objective")
			fmt.Fprintf(&b, "- **[%s]** %s: %s\n", taskStatus, t.Filename, orPlaceholder(objective, "_no objective found_"))
		}
	}
	if !active {
		b.WriteString("_No active tasks_\n\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("## Recent Sessions\n\n")
	if summary.LastSessionDate != "" {
		fmt.Fprintf(&b, "Most recent session activity: %s\n", summary.LastSessionDate)
	} else {
		b.WriteString("_No recent sessions_\n")
	}

	return promptMessage(b.String()), nil
}

func (s *Server) handleSessionStartPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	project := promptArg(req, "project")

	if _, opErr := s.facade.ProjectSummary(project); opErr != nil {
		return promptMessage(fmt.Sprintf("# Session Start: %s\n\nProject %q was not found in the index.\n", project, project)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Session Start: %s\n\n", project)

	status, _ := s.facade.ReadDoc(project, "", "status.md")
	b.WriteString("## Current Status\n\n")
	if status.Exists {
		b.WriteString(strings.TrimSpace(status.Content))
		b.WriteString("\n\n")
	} else {
		b.WriteString("_No status file found_\n\n")
	}

	plan, opErr := s.facade.GetPlan(project, "")
	if opErr == nil && plan.Exists {
		b.WriteString("## Execution Plan\n\n")
		b.WriteString(strings.TrimSpace(plan.Content))
		b.WriteString("\n\n")
	}

	tasks, opErr := s.facade.ListTasks(project, "")
	if opErr != nil {
		tasks = nil
	}

	writeTaskGroup(&b, s, project, tasks, "in-progress", "In-Progress Tasks", true)
	writeTaskGroup(&b, s, project, tasks, "blocked", "Blocked Tasks", true)
	writeTaskGroup(&b, s, project, tasks, "pending", "Pending Tasks", false)

	return promptMessage(b.String()), nil
}

func writeTaskGroup(b *strings.Builder, s *Server, project string, tasks []TaskRowOutput, status, heading string, fullBody bool) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	found := false
	for _, t := range tasks {
		if t.Status != status {
			continue
		}
		found = true
		if fullBody {
			doc, _ := s.facade.ReadDoc(project, "tasks", t.Filename)
			fmt.Fprintf(b, "### %s\n\n%s\n\n", t.Filename, strings.TrimSpace(doc.Content))
		} else {
			doc, _ := s.facade.ReadDoc(project, "tasks", t.Filename)
			objective := extractSection(doc.Content, "## Objective")
			fmt.Fprintf(b, "- **%s**: %s\n", t.Filename, orPlaceholder(objective, "_no objective found_"))
		}
	}
	if !found {
		fmt.Fprintf(b, "_No %s tasks_\n\n", strings.ToLower(heading))
	} else {
		b.WriteString("\n")
	}
}

// extractSection pulls the text between a markdown heading and the next
// line that starts with "#", whatever that heading's level, mirroring the
// original implementation's _extract_section helper.
func extractSection(content, heading string) string {
	idx := strings.Index(content, heading)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(heading):]
	if next := strings.Index(rest, "\n#"); next >= 0 {
		rest = rest[:next]
	}
	return strings.TrimSpace(rest)
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
