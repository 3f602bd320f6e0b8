package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/auth"
	"github.com/macward/vibemcp/internal/facade"
	"github.com/macward/vibemcp/internal/indexer"
	"github.com/macward/vibemcp/internal/store"
	"github.com/macward/vibemcp/internal/webhook"
	"github.com/macward/vibemcp/internal/write"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ix := indexer.New(root, st, nil)
	require.NoError(t, ix.Initialize())

	gate := auth.New("", false)
	wh := webhook.New(st, true, 4, nil)
	we := write.New(root, gate, ix, wh)

	f := facade.New(root, ix, we, wh)
	s, err := New(f, nil)
	require.NoError(t, err)
	return s
}

func TestHandleInitProjectThenSearch(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, initOut, err := s.handleInitProject(ctx, nil, InitProjectInput{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo", initOut.Project)

	_, _, err = s.handleCreateDoc(ctx, nil, CreateDocInput{
		Project: "demo", Folder: "references", Filename: "notes.md", Content: "# Notes\n\nAlpha bravo charlie.\n",
	})
	require.NoError(t, err)

	_, searchOut, err := s.handleSearch(ctx, nil, SearchInput{Query: "alpha bravo", Project: "demo"})
	require.NoError(t, err)
	require.NotEmpty(t, searchOut.Results)
	assert.Equal(t, "demo", searchOut.Results[0].ProjectName)
}

func TestHandleCreateTaskAndUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleInitProject(ctx, nil, InitProjectInput{Name: "demo"})
	require.NoError(t, err)

	_, taskOut, err := s.handleCreateTask(ctx, nil, CreateTaskInput{
		Project: "demo", Title: "Write docs", Objective: "document things",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, taskOut.Filename)

	_, statusOut, err := s.handleUpdateTaskStatus(ctx, nil, UpdateTaskStatusInput{
		Project: "demo", TaskFile: taskOut.Filename, Status: "done",
	})
	require.NoError(t, err)
	assert.Equal(t, "done", statusOut.Status)

	_, listOut, err := s.handleListTasks(ctx, nil, ListTasksInput{Project: "demo", Status: "done"})
	require.NoError(t, err)
	require.Len(t, listOut.Tasks, 1)
}

func TestHandleReadDocRejectsPathEscape(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleReadDoc(context.Background(), nil, ReadDocInput{Project: "..", Folder: "", Filename: "x.md"})
	require.Error(t, err)
}

func TestHandleWebhookLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, reg, err := s.handleRegisterWebhook(ctx, nil, RegisterWebhookInput{
		URL: "https://example.com/hook", Secret: "a-secret-that-is-at-least-32-characters", EventTypes: []string{"*"},
	})
	require.NoError(t, err)
	assert.Equal(t, "registered", reg.Status)

	_, listOut, err := s.handleListWebhooks(ctx, nil, ListWebhooksInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Webhooks, 1)

	_, unreg, err := s.handleUnregisterWebhook(ctx, nil, UnregisterWebhookInput{SubscriptionID: reg.SubscriptionID})
	require.NoError(t, err)
	assert.Equal(t, "unregistered", unreg.Status)
}

func TestHandleProjectSummaryAggregatesAllProjects(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleInitProject(ctx, nil, InitProjectInput{Name: "demo"})
	require.NoError(t, err)
	_, _, err = s.handleCreateTask(ctx, nil, CreateTaskInput{Project: "demo", Title: "First", Objective: "x"})
	require.NoError(t, err)

	_, out, err := s.handleProjectSummary(ctx, nil, ProjectSummaryInput{})
	require.NoError(t, err)
	require.Len(t, out.Summaries, 1)
	assert.Equal(t, "demo", out.Summaries[0].Project)
	assert.Equal(t, 1, out.Summaries[0].OpenTasks)
}

func TestExtractSectionReturnsBodyUntilNextHeading(t *testing.T) {
	content := "# Task\n\n## Objective\n\ndo the thing\n\n## Steps\n\n1. one\n"
	assert.Equal(t, "do the thing", extractSection(content, "## Objective"))
	assert.Equal(t, "", extractSection(content, "## Missing"))
}
