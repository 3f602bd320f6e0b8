// Package indexer drives the Walker/header/chunker pipeline against the
// store, grounded on the teacher repo's internal/index coordinator
// (internal/index/coordinator.go) for the writer-mutex discipline and
// reconcile-by-walking approach.
package indexer

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	apperr "github.com/macward/vibemcp/internal/errors"

	"github.com/macward/vibemcp/internal/chunk"
	"github.com/macward/vibemcp/internal/header"
	"github.com/macward/vibemcp/internal/store"
	"github.com/macward/vibemcp/internal/walker"
)

// Indexer exposes the reconcile and query surface over a workspace root.
// All mutators share a single process-wide writer mutex; reads do not
// take it and may run freely alongside writers.
type Indexer struct {
	root  string
	store *store.Store
	log   *slog.Logger
	wmu   sync.Mutex
	nowFn func() time.Time
}

// New builds an Indexer over root using store for persistence.
func New(root string, st *store.Store, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{root: root, store: st, log: log, nowFn: time.Now}
}

// SyncResult is the (added, updated, deleted) triple sync reports to the
// background syncer and façade.
type SyncResult struct {
	Added   int
	Updated int
	Deleted int
}

// Initialize applies the store's schema. Safe to call repeatedly.
func (ix *Indexer) Initialize() error {
	return ix.store.Initialize()
}

// Reindex clears the store and rebuilds it from a full walk of root.
func (ix *Indexer) Reindex(ctx context.Context) (int, error) {
	ix.wmu.Lock()
	defer ix.wmu.Unlock()

	if err := ix.store.Clear(); err != nil {
		return 0, err
	}

	descriptors, err := walker.Walk(ctx, ix.root)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range descriptors {
		if err := ix.indexFileLocked(d); err != nil {
			ix.log.Warn("index_file_skipped", slog.String("path", d.RelPath), slog.String("error", err.Error()))
			continue
		}
		count++
	}
	return count, nil
}

// Sync reconciles the store against the current state of the filesystem:
// new files are added, changed files are reindexed, and vanished files are
// deleted. It never re-chunks a file whose content hash is unchanged, even
// if its mtime moved.
func (ix *Indexer) Sync(ctx context.Context) (SyncResult, error) {
	ix.wmu.Lock()
	defer ix.wmu.Unlock()

	descriptors, err := walker.Walk(ctx, ix.root)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	seen := make(map[string]bool, len(descriptors))
	projectsTouched := make(map[string]bool)

	for _, d := range descriptors {
		seen[d.RelPath] = true
		projectsTouched[d.Project] = true

		storedMTime, ok, err := ix.store.GetDocumentMTime(d.RelPath)
		if err != nil {
			return result, err
		}
		if !ok {
			if err := ix.indexFileLocked(d); err != nil {
				ix.log.Warn("index_file_skipped", slog.String("path", d.RelPath), slog.String("error", err.Error()))
				continue
			}
			result.Added++
			continue
		}

		if math.Abs(storedMTime-d.ModTime) <= 0.001 {
			continue
		}

		storedHash, _, err := ix.store.GetDocumentHash(d.RelPath)
		if err != nil {
			return result, err
		}
		if storedHash == d.ContentHash {
			if err := ix.touchMTime(d); err != nil {
				return result, err
			}
			continue
		}

		if err := ix.indexFileLocked(d); err != nil {
			ix.log.Warn("index_file_skipped", slog.String("path", d.RelPath), slog.String("error", err.Error()))
			continue
		}
		result.Updated++
	}

	projects, err := ix.store.ListProjects()
	if err != nil {
		return result, err
	}
	for _, p := range projects {
		paths, err := ix.store.ListIndexedPaths(p.Name)
		if err != nil {
			return result, err
		}
		for _, path := range paths {
			if seen[path] {
				continue
			}
			if err := ix.store.DeleteDocument(path); err != nil {
				return result, err
			}
			result.Deleted++
		}
	}

	return result, nil
}

// IndexProject walks and indexes a single project directory by name.
func (ix *Indexer) IndexProject(ctx context.Context, project string) (int, error) {
	ix.wmu.Lock()
	defer ix.wmu.Unlock()

	descriptors, err := walker.Walk(ctx, ix.root)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range descriptors {
		if d.Project != project {
			continue
		}
		if err := ix.indexFileLocked(d); err != nil {
			ix.log.Warn("index_file_skipped", slog.String("path", d.RelPath), slog.String("error", err.Error()))
			continue
		}
		count++
	}
	return count, nil
}

// IndexFile runs the per-file pipeline for a single already-resolved
// descriptor, taking the writer mutex itself. Used by the write engine
// after a filesystem mutation.
func (ix *Indexer) IndexFile(d walker.FileDescriptor) error {
	ix.wmu.Lock()
	defer ix.wmu.Unlock()
	return ix.indexFileLocked(d)
}

// touchMTime updates only the stored mtime, skipping header reparse and
// rechunking, per the sync contract's mtime-only-change path.
func (ix *Indexer) touchMTime(d walker.FileDescriptor) error {
	existing, err := ix.store.GetDocument(d.RelPath)
	if err != nil || existing == nil {
		return err
	}
	existing.MTime = d.ModTime
	_, err = ix.store.UpsertDocument(*existing)
	return err
}

// indexFileLocked is the per-file pipeline: resolve the file's project,
// parse its header, rebuild its chunks. Callers must hold wmu.
func (ix *Indexer) indexFileLocked(d walker.FileDescriptor) error {
	if !walker.UnderRoot(ix.root, d.AbsPath) {
		return apperr.Invalid("path escapes workspace root: %s", d.RelPath)
	}

	body, err := walker.ReadUTF8(d.AbsPath)
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "decode file", err)
	}

	now := ix.nowFn().UTC().Format(time.RFC3339)
	projectID, err := ix.store.UpsertProject(d.Project, projectPath(ix.root, d.Project), now)
	if err != nil {
		return err
	}

	parsed := header.Parse(body, d.RelPath)

	doc := store.Document{
		ProjectID:   projectID,
		Path:        d.RelPath,
		Folder:      d.Folder,
		Filename:    d.Filename,
		Type:        parsed.Metadata.Type,
		Status:      parsed.Metadata.Status,
		Owner:       parsed.Metadata.Owner,
		Feature:     parsed.Metadata.Feature,
		Tags:        parsed.Metadata.Tags,
		Updated:     parsed.Metadata.Updated,
		ContentHash: d.ContentHash,
		MTime:       d.ModTime,
	}

	docID, err := ix.store.UpsertDocument(doc)
	if err != nil {
		return err
	}

	if err := ix.store.DeleteChunks(docID); err != nil {
		return err
	}

	chunks := chunk.Split(parsed.Body)
	storeChunks := make([]store.Chunk, len(chunks))
	for i, c := range chunks {
		storeChunks[i] = store.Chunk{
			DocumentID:      docID,
			Heading:         c.Heading,
			HeadingLevel:    c.HeadingLevel,
			Body:            c.Body,
			Order:           c.Order,
			Offset:          c.Offset,
			PriorityHeading: c.PriorityHeading,
		}
	}
	if len(storeChunks) == 0 {
		return nil
	}
	return ix.store.InsertChunks(docID, storeChunks)
}

func projectPath(root, project string) string {
	return root + "/" + project
}
