package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	idxThreads = "precinct_threads"
	idxPosts   = "precinct_posts"
)

// Meili is the primary backend when a Meilisearch instance is configured.
// It degrades to unhealthy instead of failing requests; the facade falls
// back to the in-memory scan.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili connects to Meilisearch and configures the two indexes. The
// returned backend monitors health in the background.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndexes()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndexes() {
	indexes := []struct {
		uid        string
		searchable []string
		filterable []string
	}{
		{
			uid:        idxThreads,
			searchable: []string{"title"},
			filterable: []string{"categoryId", "authorId"},
		},
		{
			uid:        idxPosts,
			searchable: []string{"body"},
			filterable: []string{"threadId", "authorId"},
		},
	}

	for _, idx := range indexes {
		if _, err := m.client.CreateIndex(&meili.IndexConfig{
			Uid:        idx.uid,
			PrimaryKey: "id",
		}); err != nil {
			log.Printf("search: create index %s (may already exist): %v", idx.uid, err)
		}

		index := m.client.Index(idx.uid)
		filterable := make([]interface{}, len(idx.filterable))
		for i, v := range idx.filterable {
			filterable[i] = v
		}
		if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
			log.Printf("search: update filterable attrs for %s: %v", idx.uid, err)
		}
		if _, err := index.UpdateSearchableAttributes(&idx.searchable); err != nil {
			log.Printf("search: update searchable attrs for %s: %v", idx.uid, err)
		}
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring indexes")
				m.configureIndexes()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the thread and post indexes in one multi-search call.
func (m *Meili) Search(q Query) (Results, error) {
	results := Results{Threads: []ThreadHit{}, Posts: []PostHit{}, Query: q.Text}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return results, nil
	}
	if !m.healthy.Load() {
		return results, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: []*meili.SearchRequest{
			{IndexUID: idxThreads, Query: text, Limit: limit},
			{IndexUID: idxPosts, Query: text, Limit: limit},
		},
	})
	if err != nil {
		m.healthy.Store(false)
		return results, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	for _, sr := range resp.Results {
		for _, hit := range sr.Hits {
			switch sr.IndexUID {
			case idxThreads:
				results.Threads = append(results.Threads, ThreadHit{
					ID:         decodeString(hit, "id"),
					Title:      decodeString(hit, "title"),
					CategoryID: decodeString(hit, "categoryId"),
					AuthorID:   decodeString(hit, "authorId"),
				})
			case idxPosts:
				results.Posts = append(results.Posts, PostHit{
					ID:       decodeString(hit, "id"),
					ThreadID: decodeString(hit, "threadId"),
					AuthorID: decodeString(hit, "authorId"),
					Snippet:  snippet(decodeString(hit, "body")),
				})
			}
		}
	}
	return results, nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// IndexThread adds or updates a thread title in the index.
func (m *Meili) IndexThread(t ThreadRecord) error {
	_, err := m.client.Index(idxThreads).AddDocuments([]ThreadRecord{t}, nil)
	return err
}

// IndexPost adds or updates a post body in the index.
func (m *Meili) IndexPost(p PostRecord) error {
	_, err := m.client.Index(idxPosts).AddDocuments([]PostRecord{p}, nil)
	return err
}

// DeletePost removes a post from the index.
func (m *Meili) DeletePost(id string) error {
	_, err := m.client.Index(idxPosts).DeleteDocument(id, nil)
	return err
}

// IndexAll bulk-loads the current threads and posts, used at startup.
func (m *Meili) IndexAll(threads []ThreadRecord, posts []PostRecord) error {
	if len(threads) > 0 {
		if _, err := m.client.Index(idxThreads).AddDocuments(threads, nil); err != nil {
			return err
		}
	}
	if len(posts) > 0 {
		if _, err := m.client.Index(idxPosts).AddDocuments(posts, nil); err != nil {
			return err
		}
	}
	return nil
}
