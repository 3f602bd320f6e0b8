package store

import (
	"sort"
	"strings"
	"time"

	apperr "github.com/macward/vibemcp/internal/errors"
)

// Search runs a ranked full-text query against the chunk shadow table and
// scores candidates by the five-factor product from the design's indexer
// section: bm25, type boost, recency boost, heading boost, status boost.
func (s *Store) Search(query, project string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	// Overfetch the raw bm25 ranking so that boost-reordering still has a
	// meaningful candidate pool to work with before the final cap.
	candidatePool := limit * 5
	if candidatePool < 50 {
		candidatePool = 50
	}
	if candidatePool > 500 {
		candidatePool = 500
	}

	q := `
		SELECT d.path, p.name, d.folder, d.status, d.updated, d.mtime,
			c.heading, c.priority_heading,
			bm25(chunks_fts) AS raw_bm25,
			snippet(chunks_fts, 0, '>>>', '<<<', '...', 64) AS snippet
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.rowid
		JOIN documents d ON d.id = c.document_id
		JOIN projects p ON p.id = d.project_id
		WHERE chunks_fts MATCH ?
	`
	args := []any{query}
	if project != "" {
		q += ` AND p.name = ?`
		args = append(args, project)
	}
	q += ` ORDER BY raw_bm25 LIMIT ?`
	args = append(args, candidatePool)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return nil, apperr.Invalid("malformed search query")
		}
		return nil, apperr.Wrap(apperr.KindIOTransient, "search", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	var results []SearchResult
	for rows.Next() {
		var path, projectName, folder, status, updated, heading, snippet string
		var mtime, rawBM25 float64
		var priority int
		if err := rows.Scan(&path, &projectName, &folder, &status, &updated, &mtime, &heading, &priority, &rawBM25, &snippet); err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan search row", err)
		}

		bm25 := -rawBM25 // higher is better, matching the other boost factors' convention
		typeBoost := typeBoostFor(path, folder)
		recencyBoost := recencyBoostFor(updated, mtime, now)
		headingBoost := headingBoostFor(heading, priority != 0)
		statusBoost := statusBoostFor(status)

		results = append(results, SearchResult{
			ProjectName:  projectName,
			DocumentPath: path,
			Folder:       folder,
			Heading:      heading,
			Snippet:      snippet,
			BM25:         bm25,
			TypeBoost:    typeBoost,
			RecencyBoost: recencyBoost,
			HeadingBoost: headingBoost,
			StatusBoost:  statusBoost,
			Score:        bm25 * typeBoost * recencyBoost * headingBoost * statusBoost,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "search", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func typeBoostFor(path, folder string) float64 {
	if path == "status.md" || strings.HasSuffix(path, "/status.md") {
		return 3.0
	}
	switch folder {
	case "tasks":
		return 2.0
	case "plans":
		return 1.8
	case "sessions":
		return 1.5
	case "changelog":
		return 1.2
	case "reports":
		return 1.0
	case "references":
		return 0.8
	case "scratch":
		return 0.5
	default:
		return 0.3
	}
}

func recencyBoostFor(updated string, mtime float64, now time.Time) float64 {
	effective := time.Unix(int64(mtime), 0).UTC()
	if updated != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, updated); err == nil {
				effective = t.UTC()
				break
			}
		}
	}

	days := now.Sub(effective).Hours() / 24
	switch {
	case days <= 1:
		return 2.0
	case days <= 7:
		return 1.5
	case days <= 30:
		return 1.2
	case days <= 90:
		return 1.0
	default:
		return 0.8
	}
}

func headingBoostFor(heading string, priority bool) float64 {
	if priority {
		return 2.5
	}
	if strings.Contains(heading, "Objective") || strings.Contains(heading, "Acceptance") {
		return 1.5
	}
	return 1.0
}

func statusBoostFor(status string) float64 {
	switch status {
	case "in-progress":
		return 2.0
	case "blocked":
		return 1.8
	case "pending":
		return 1.2
	case "done":
		return 0.6
	default:
		return 1.0
	}
}
