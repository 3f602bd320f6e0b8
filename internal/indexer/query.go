package indexer

import "github.com/macward/vibemcp/internal/store"

// Search is a pass-through to the store's ranked search. Reads never take
// the writer mutex and may run freely alongside reindex/sync.
func (ix *Indexer) Search(query, project string, limit int) ([]store.SearchResult, error) {
	return ix.store.Search(query, project, limit)
}

// ListProjects returns every indexed project.
func (ix *Indexer) ListProjects() ([]store.Project, error) {
	return ix.store.ListProjects()
}

// ListDocuments returns documents matching the given filter.
func (ix *Indexer) ListDocuments(filter store.DocumentFilter) ([]store.Document, error) {
	return ix.store.ListDocuments(filter)
}

// GetDocument fetches a single document by its workspace-relative path.
func (ix *Indexer) GetDocument(path string) (*store.Document, error) {
	return ix.store.GetDocument(path)
}

// GetChunks returns a document's chunks ordered by chunk_order.
func (ix *Indexer) GetChunks(documentID int64) ([]store.Chunk, error) {
	return ix.store.GetChunks(documentID)
}
