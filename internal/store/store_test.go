package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProjectUpsertIsIdempotentByName(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)

	id1, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)
	id2, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	projects, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "demo", projects[0].Name)
}

func TestDocumentUpsertAndFetch(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	projectID, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)

	doc := store.Document{
		ProjectID:   projectID,
		Path:        "demo/tasks/001-a.md",
		Folder:      "tasks",
		Filename:    "001-a.md",
		Type:        "task",
		Status:      "pending",
		Tags:        []string{"x", "y"},
		ContentHash: "abc123",
		MTime:       1000.5,
	}
	docID, err := s.UpsertDocument(doc)
	require.NoError(t, err)
	require.NotZero(t, docID)

	fetched, err := s.GetDocument("demo/tasks/001-a.md")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, "demo", fetched.ProjectName)
	require.Equal(t, []string{"x", "y"}, fetched.Tags)

	hash, ok, err := s.GetDocumentHash("demo/tasks/001-a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", hash)

	doc.Status = "done"
	doc.ContentHash = "def456"
	_, err = s.UpsertDocument(doc)
	require.NoError(t, err)

	hash, ok, err = s.GetDocumentHash("demo/tasks/001-a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "def456", hash)

	require.NoError(t, s.DeleteDocument("demo/tasks/001-a.md"))
	gone, err := s.GetDocument("demo/tasks/001-a.md")
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestChunksInsertDeleteAndOrder(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	projectID, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)
	docID, err := s.UpsertDocument(store.Document{
		ProjectID: projectID, Path: "demo/status.md", Filename: "status.md", ContentHash: "h", MTime: 1,
	})
	require.NoError(t, err)

	chunks := []store.Chunk{
		{DocumentID: docID, Heading: "Current Status", HeadingLevel: 1, Body: "all good", Order: 0, PriorityHeading: true},
		{DocumentID: docID, Heading: "", HeadingLevel: 0, Body: "continued", Order: 1},
	}
	require.NoError(t, s.InsertChunks(docID, chunks))

	got, err := s.GetChunks(docID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 0, got[0].Order)
	require.True(t, got[0].PriorityHeading)

	require.NoError(t, s.DeleteChunks(docID))
	got, err = s.GetChunks(docID)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClearPreservesWebhookSubscriptions(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)
	_, err = s.CreateSubscription(store.WebhookSubscription{
		URL: "https://example.com/hook", Secret: "x", EventTypes: []string{"*"}, CreatedAt: now,
	})
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	projects, err := s.ListProjects()
	require.NoError(t, err)
	require.Empty(t, projects)

	subs, err := s.ListSubscriptions("")
	require.NoError(t, err)
	require.Len(t, subs, 1)
}

func TestSearchRanksTasksAboveReferencesAtEqualBM25(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	projectID, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)

	taskDocID, err := s.UpsertDocument(store.Document{
		ProjectID: projectID, Path: "demo/tasks/001-a.md", Folder: "tasks", Filename: "001-a.md", ContentHash: "h1", MTime: float64(time.Now().Unix()),
	})
	require.NoError(t, err)
	refDocID, err := s.UpsertDocument(store.Document{
		ProjectID: projectID, Path: "demo/references/001-a.md", Folder: "references", Filename: "001-a.md", ContentHash: "h2", MTime: float64(time.Now().Unix()),
	})
	require.NoError(t, err)

	require.NoError(t, s.InsertChunks(taskDocID, []store.Chunk{{DocumentID: taskDocID, Body: "widgets are great", Order: 0}}))
	require.NoError(t, s.InsertChunks(refDocID, []store.Chunk{{DocumentID: refDocID, Body: "widgets are great", Order: 0}}))

	results, err := s.Search("widgets", "demo", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "tasks", results[0].Folder)
	require.Contains(t, results[0].Snippet, ">>>")
	require.Contains(t, results[0].Snippet, "<<<")
}

func TestSearchRanksPriorityHeadingHigher(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	projectID, err := s.UpsertProject("demo", "/root/.vibe/demo", now)
	require.NoError(t, err)

	doc1, err := s.UpsertDocument(store.Document{ProjectID: projectID, Path: "demo/a.md", Filename: "a.md", ContentHash: "h1", MTime: 1})
	require.NoError(t, err)
	doc2, err := s.UpsertDocument(store.Document{ProjectID: projectID, Path: "demo/b.md", Filename: "b.md", ContentHash: "h2", MTime: 1})
	require.NoError(t, err)

	require.NoError(t, s.InsertChunks(doc1, []store.Chunk{{DocumentID: doc1, Heading: "Next Steps", Body: "gadgets here", Order: 0, PriorityHeading: true}}))
	require.NoError(t, s.InsertChunks(doc2, []store.Chunk{{DocumentID: doc2, Heading: "Overview", Body: "gadgets here", Order: 0}}))

	results, err := s.Search("gadgets", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Next Steps", results[0].Heading)
}

func TestMatchingSubscriptionsFiltersByEventAndProject(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)

	scoped, err := s.CreateSubscription(store.WebhookSubscription{
		URL: "https://example.com/a", Secret: "x", EventTypes: []string{"task.created"}, Project: "p", CreatedAt: now,
	})
	require.NoError(t, err)
	global, err := s.CreateSubscription(store.WebhookSubscription{
		URL: "https://example.com/b", Secret: "x", EventTypes: []string{"*"}, CreatedAt: now,
	})
	require.NoError(t, err)

	matches, err := s.MatchingSubscriptions("task.created", "p")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	matches, err = s.MatchingSubscriptions("task.created", "q")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, global, matches[0].ID)

	_ = scoped
}

func TestDeliveryLogAppendAndFilter(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	subID, err := s.CreateSubscription(store.WebhookSubscription{
		URL: "https://example.com/a", Secret: "x", EventTypes: []string{"*"}, CreatedAt: now,
	})
	require.NoError(t, err)

	status := 200
	require.NoError(t, s.AppendDeliveryLog(store.DeliveryLog{
		SubscriptionID: subID, EventType: "task.created", EventID: "e1", Payload: "{}", StatusCode: &status, Success: true, Timestamp: now,
	}))
	require.NoError(t, s.AppendDeliveryLog(store.DeliveryLog{
		SubscriptionID: subID, EventType: "task.created", EventID: "e2", Payload: "{}", Success: false, ErrorMessage: "timeout", Timestamp: now,
	}))

	logs, err := s.ListDeliveryLogs(&subID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "e2", logs[0].EventID)
	require.Nil(t, logs[0].StatusCode)
}

func TestDeleteSubscriptionNotFound(t *testing.T) {
	s := newStore(t)
	err := s.DeleteSubscription(999)
	require.Error(t, err)
}
