package search

import "log"

// Service is the facade that prefers Meilisearch and falls back to the
// in-memory scan. Both backends return results in the same shape, so
// callers never notice the switch.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates the facade. meili may be nil when Meilisearch is not
// configured.
func NewService(meili *Meili, memory *Memory) *Service {
	return &Service{meili: meili, memory: memory}
}

func (s *Service) Search(q Query) Results {
	if s.meili != nil && s.meili.Healthy() {
		results, err := s.meili.Search(q)
		if err == nil {
			return results
		}
		log.Printf("search: meilisearch error, falling back to memory scan: %v", err)
	}

	results, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: memory scan error: %v", err)
		return Results{Threads: []ThreadHit{}, Posts: []PostHit{}, Query: q.Text}
	}
	return results
}

// IndexThread pushes a thread into Meilisearch, fire-and-forget.
func (s *Service) IndexThread(t ThreadRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexThread(t); err != nil {
			log.Printf("search: index thread %s: %v", t.ID, err)
		}
	}()
}

// IndexPost pushes a post into Meilisearch, fire-and-forget.
func (s *Service) IndexPost(p PostRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexPost(p); err != nil {
			log.Printf("search: index post %s: %v", p.ID, err)
		}
	}()
}

// DeletePost removes a post from the Meilisearch index, fire-and-forget.
func (s *Service) DeletePost(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeletePost(id); err != nil {
			log.Printf("search: delete post %s: %v", id, err)
		}
	}()
}

// Bootstrap bulk-loads the current collections into Meilisearch at startup.
func (s *Service) Bootstrap(threads []ThreadRecord, posts []PostRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	if err := s.meili.IndexAll(threads, posts); err != nil {
		log.Printf("search: bootstrap index: %v", err)
	}
}
