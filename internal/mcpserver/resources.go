package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerResources exposes the supplemented project-summary feature
// (original_source/src/vibe_mcp/resources.py's get_projects_resource) as
// one read-only MCP resource, following the teacher's
// AddResource(&mcp.Resource{...}, handler) idiom
// (internal/mcp/resources.go). Per-project detail is reachable through
// the project_summary tool instead of a second resource, since the go-sdk
// version this repo targets registers one handler per concrete URI
// rather than a URI template.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        "projects",
		URI:         "vibe://projects",
		Description: "Every indexed project with open task counts, per-folder file counts, and last session date.",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)
}

func (s *Server) handleProjectsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summaries, opErr := s.facade.ListProjectSummaries()
	if opErr != nil {
		return nil, toolError(opErr)
	}
	rows := make([]ProjectSummaryRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, toSummaryRow(summary))
	}
	return jsonResourceResult("vibe://projects", rows)
}

func jsonResourceResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(body)},
		},
	}, nil
}
