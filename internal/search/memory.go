package search

import (
	"strings"

	"precinct/internal/forum"
)

const snippetLength = 160

// SnapshotSource hands out the current forum snapshot. Satisfied by
// *forum.MemStore.
type SnapshotSource interface {
	Snapshot() forum.Snapshot
}

// Memory is the fallback backend: case-insensitive substring scan over the
// live collections. It needs no index maintenance and is always healthy.
type Memory struct {
	source SnapshotSource
}

func NewMemory(source SnapshotSource) *Memory {
	return &Memory{source: source}
}

func (m *Memory) Healthy() bool {
	return true
}

func (m *Memory) Search(q Query) (Results, error) {
	results := Results{Threads: []ThreadHit{}, Posts: []PostHit{}, Query: q.Text}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return results, nil
	}

	snap := m.source.Snapshot()
	for _, t := range snap.Threads {
		if q.Limit > 0 && len(results.Threads) >= q.Limit {
			break
		}
		if strings.Contains(strings.ToLower(t.Title), needle) {
			results.Threads = append(results.Threads, ThreadHit{
				ID:         t.ID,
				Title:      t.Title,
				CategoryID: t.CategoryID,
				AuthorID:   t.AuthorID,
			})
		}
	}
	for _, p := range snap.Posts {
		if q.Limit > 0 && len(results.Posts) >= q.Limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Content), needle) {
			results.Posts = append(results.Posts, PostHit{
				ID:       p.ID,
				ThreadID: p.ThreadID,
				AuthorID: p.AuthorID,
				Snippet:  snippet(p.Content),
			})
		}
	}
	return results, nil
}

func snippet(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= snippetLength {
		return content
	}
	cut := content[:snippetLength]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
