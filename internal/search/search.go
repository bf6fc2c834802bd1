// Package search finds threads and posts matching a query string. Thread
// titles and post bodies are searched independently and produce two separate
// result lists; an empty query matches nothing.
package search

// ThreadHit is a thread whose title matched the query.
type ThreadHit struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CategoryID string `json:"categoryId"`
	AuthorID   string `json:"authorId"`
}

// PostHit is a post whose body matched the query.
type PostHit struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	AuthorID string `json:"authorId"`
	Snippet  string `json:"snippet"`
}

type Query struct {
	Text  string
	Limit int
}

// Results is the envelope returned to the caller: thread matches and post
// matches, never merged.
type Results struct {
	Threads []ThreadHit `json:"threads"`
	Posts   []PostHit   `json:"posts"`
	Query   string      `json:"query"`
}

// Searcher executes a search against one backend.
type Searcher interface {
	Search(q Query) (Results, error)
	Healthy() bool
}

// Indexer pushes records into a search index. The in-memory backend reads
// live snapshots and does not need it; Meilisearch does.
type Indexer interface {
	IndexThread(t ThreadRecord) error
	IndexPost(p PostRecord) error
	DeletePost(id string) error
}

// ThreadRecord is the data indexed per thread.
type ThreadRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CategoryID string `json:"categoryId"`
	AuthorID   string `json:"authorId"`
}

// PostRecord is the data indexed per post.
type PostRecord struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	AuthorID string `json:"authorId"`
	Body     string `json:"body"`
}
