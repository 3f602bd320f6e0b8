package facade_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/auth"
	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/facade"
	"github.com/macward/vibemcp/internal/indexer"
	"github.com/macward/vibemcp/internal/store"
	"github.com/macward/vibemcp/internal/webhook"
	"github.com/macward/vibemcp/internal/write"
)

func newFacade(t *testing.T) (*facade.Facade, string) {
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

	return facade.New(root, ix, we, wh), root
}

func TestInitProjectThenSearchFindsContent(t *testing.T) {
	f, _ := newFacade(t)

	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	_, opErr = f.CreateDoc("demo", "references", "notes", "# Notes\n\nAlpha bravo charlie.\n")
	require.Nil(t, opErr)

	hits, opErr := f.Search("alpha bravo", "demo", 10)
	require.Nil(t, opErr)
	require.NotEmpty(t, hits)
	assert.Equal(t, "demo", hits[0].ProjectName)
}

func TestReadDocReturnsContentAndMetadata(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	_, opErr = f.CreateTask("demo", "Write docs", "do it", nil, "")
	require.Nil(t, opErr)

	result, opErr := f.ReadDoc("demo", "tasks", "001-write-docs.md")
	require.Nil(t, opErr)
	assert.True(t, result.Exists)
	assert.Contains(t, result.Content, "Write docs")
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "pending", result.Metadata.Status)
}

func TestReadDocMissingFileReportsNotExists(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	result, opErr := f.ReadDoc("demo", "scratch", "missing.md")
	require.Nil(t, opErr)
	assert.False(t, result.Exists)
}

func TestReadDocRejectsPathEscape(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.ReadDoc("demo", "..", "x.md")
	require.NotNil(t, opErr)
	assert.Equal(t, string(apperr.KindInputInvalid), opErr.Kind)
}

func TestListTasksFiltersByStatus(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	t1, opErr := f.CreateTask("demo", "First", "x", nil, "")
	require.Nil(t, opErr)
	_, opErr = f.CreateTask("demo", "Second", "y", nil, "")
	require.Nil(t, opErr)

	_, opErr = f.UpdateTaskStatus("demo", t1.Filename, "done")
	require.Nil(t, opErr)

	pending, opErr := f.ListTasks("demo", "pending")
	require.Nil(t, opErr)
	require.Len(t, pending, 1)

	done, opErr := f.ListTasks("demo", "done")
	require.Nil(t, opErr)
	require.Len(t, done, 1)
}

func TestGetPlanDefaultsFilename(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)
	_, opErr = f.CreatePlan("demo", "plan body", "")
	require.Nil(t, opErr)

	plan, opErr := f.GetPlan("demo", "")
	require.Nil(t, opErr)
	assert.Equal(t, "execution-plan.md", plan.Filename)
	assert.True(t, plan.Exists)
	assert.Equal(t, "plan body", plan.Content)
}

func TestReindexReportsDocumentCount(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	result, opErr := f.Reindex(context.Background())
	require.Nil(t, opErr)
	assert.GreaterOrEqual(t, result.DocumentCount, 1)
}

func TestWebhookLifecycleThroughFacade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, _ := newFacade(t)
	reg, opErr := f.RegisterWebhook(srv.URL, "a-secret-that-is-at-least-32-characters", []string{"*"}, "", "")
	require.Nil(t, opErr)
	assert.Equal(t, "registered", reg.Status)

	listing, opErr := f.ListWebhooks("")
	require.Nil(t, opErr)
	require.Len(t, listing, 1)
	assert.Equal(t, reg.SubscriptionID, listing[0].ID)

	unreg, opErr := f.UnregisterWebhook(reg.SubscriptionID)
	require.Nil(t, opErr)
	assert.Equal(t, "unregistered", unreg.Status)

	_, opErr = f.UnregisterWebhook(reg.SubscriptionID)
	require.NotNil(t, opErr)
	assert.Equal(t, string(apperr.KindNotFound), opErr.Kind)
}

func TestProjectSummaryCountsOpenTasksAndFolders(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.InitProject("demo")
	require.Nil(t, opErr)

	t1, opErr := f.CreateTask("demo", "First", "x", nil, "")
	require.Nil(t, opErr)
	_, opErr = f.CreateTask("demo", "Second", "y", nil, "")
	require.Nil(t, opErr)
	_, opErr = f.UpdateTaskStatus("demo", t1.Filename, "done")
	require.Nil(t, opErr)

	_, opErr = f.LogSession("demo", "worked on stuff")
	require.Nil(t, opErr)

	summary, opErr := f.ProjectSummary("demo")
	require.Nil(t, opErr)
	assert.Equal(t, "demo", summary.Project)
	assert.Equal(t, 1, summary.OpenTasks)
	assert.Equal(t, 1, summary.TaskStatusCounts["done"])
	assert.Equal(t, 2, summary.FolderCounts["tasks"])
	assert.NotEmpty(t, summary.LastSessionDate)
}

func TestProjectSummaryUnknownProjectNotFound(t *testing.T) {
	f, _ := newFacade(t)
	_, opErr := f.ProjectSummary("nope")
	require.NotNil(t, opErr)
	assert.Equal(t, string(apperr.KindNotFound), opErr.Kind)
}
