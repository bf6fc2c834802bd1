package forum

import (
	"errors"
	"strings"
	"sync"
	"time"

	"precinct/internal/identity"
	"precinct/internal/util"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Snapshot is an immutable view of the live collections. Mutations never
// modify a snapshot after it has been handed out; each one produces new
// collection values instead.
type Snapshot struct {
	Users   []User
	Threads []Thread
	Posts   []Post
	Viewer  *User
}

// MemStore owns the canonical users/threads/posts collections and the
// current viewer. It is the only stateful component; all derived views are
// computed by the access and stats packages over read-only snapshots.
//
// Every mutation is applied copy-on-write under the lock, so it is atomic
// from the caller's perspective and concurrent readers keep observing the
// snapshot they already hold.
type MemStore struct {
	mu       sync.RWMutex
	catalog  *Catalog
	users    []User
	threads  []Thread
	posts    []Post
	viewerID string

	now   func() time.Time
	newID func(prefix string) string
}

func NewMemStore(catalog *Catalog, users []User, threads []Thread, posts []Post) *MemStore {
	s := &MemStore{
		catalog: catalog,
		users:   make([]User, len(users)),
		threads: make([]Thread, len(threads)),
		posts:   make([]Post, len(posts)),
		now:     time.Now,
		newID:   util.NewID,
	}
	copy(s.users, users)
	copy(s.threads, threads)
	copy(s.posts, posts)
	return s
}

func (s *MemStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Users:   s.users,
		Threads: s.threads,
		Posts:   s.posts,
		Viewer:  s.viewerLocked(),
	}
}

// Viewer returns a copy of the current viewer, or nil when anonymous.
func (s *MemStore) Viewer() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewerLocked()
}

func (s *MemStore) viewerLocked() *User {
	if s.viewerID == "" {
		return nil
	}
	if i, ok := s.findUser(s.viewerID); ok {
		viewer := s.users[i]
		return &viewer
	}
	return nil
}

func (s *MemStore) Catalog() *Catalog {
	return s.catalog
}

// Login matches the given name case-insensitively against every user's
// username or OOC name and makes the match the current viewer.
func (s *MemStore) Login(name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, name) ||
			(u.OOCName != "" && strings.EqualFold(u.OOCName, name)) {
			s.viewerID = u.ID
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// Register creates a fresh Civilian account and signs it in. The username
// must be unique under case-insensitive comparison.
func (s *MemStore) Register(username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return User{}, ErrAlreadyExists
		}
	}

	user := User{
		ID:       s.newID("u"),
		Username: username,
		Rank:     identity.RankCivilian,
		JoinedAt: s.now(),
		Badges:   []identity.Plaque{identity.PlaqueCivilian},
		Status:   StatusOnline,
	}

	users := make([]User, 0, len(s.users)+1)
	users = append(users, s.users...)
	s.users = append(users, user)
	s.viewerID = user.ID
	return user, nil
}

func (s *MemStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = ""
}

// UserPatch holds the optional fields of a profile update; nil fields are
// left untouched.
type UserPatch struct {
	Username  *string
	Rank      *identity.Rank
	Status    *Status
	AvatarURL *string
	Signature *string
	OOCName   *string
	Discord   *string
}

func (s *MemStore) UpdateUser(id string, patch UserPatch) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateUser(id, func(u *User) {
		if patch.Username != nil {
			u.Username = *patch.Username
		}
		if patch.Rank != nil {
			u.Rank = *patch.Rank
		}
		if patch.Status != nil {
			u.Status = *patch.Status
		}
		if patch.AvatarURL != nil {
			u.AvatarURL = *patch.AvatarURL
		}
		if patch.Signature != nil {
			u.Signature = *patch.Signature
		}
		if patch.OOCName != nil {
			u.OOCName = *patch.OOCName
		}
		if patch.Discord != nil {
			u.Discord = *patch.Discord
		}
	})
}

// AssignPlaque is idempotent; granting a plaque the user already holds
// changes nothing.
func (s *MemStore) AssignPlaque(id string, p identity.Plaque) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateUser(id, func(u *User) {
		u.Badges = identity.AddPlaque(u.Badges, p)
	})
}

// RemovePlaque is idempotent; revoking an absent plaque changes nothing.
func (s *MemStore) RemovePlaque(id string, p identity.Plaque) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateUser(id, func(u *User) {
		u.Badges = identity.RemovePlaque(u.Badges, p)
	})
}

// CreateThread opens a new thread with its first post. The thread is
// prepended so the category's most recent thread sits at index 0.
func (s *MemStore) CreateThread(categoryID, title, content string) (Thread, Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer := s.viewerLocked()
	if viewer == nil {
		return Thread{}, Post{}, ErrUnauthenticated
	}
	if _, ok := s.catalog.Get(categoryID); !ok {
		return Thread{}, Post{}, ErrNotFound
	}

	now := s.now()
	thread := Thread{
		ID:               s.newID("t"),
		CategoryID:       categoryID,
		Title:            title,
		AuthorID:         viewer.ID,
		CreatedAt:        now,
		LastPostAt:       now,
		LastPostAuthorID: viewer.ID,
	}
	post := Post{
		ID:        s.newID("p"),
		ThreadID:  thread.ID,
		AuthorID:  viewer.ID,
		Content:   content,
		CreatedAt: now,
	}

	threads := make([]Thread, 0, len(s.threads)+1)
	threads = append(threads, thread)
	s.threads = append(threads, s.threads...)

	posts := make([]Post, 0, len(s.posts)+1)
	posts = append(posts, s.posts...)
	s.posts = append(posts, post)

	s.bumpCachedPostCount(viewer.ID)
	return thread, post, nil
}

// ReplyToThread appends a post, refreshes the thread's denormalized
// last-post fields and moves the thread to the front of the list so the
// "most recently bumped first" ordering holds for the aggregator.
func (s *MemStore) ReplyToThread(threadID, content string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer := s.viewerLocked()
	if viewer == nil {
		return Post{}, ErrUnauthenticated
	}
	idx, ok := s.findThread(threadID)
	if !ok {
		return Post{}, ErrNotFound
	}

	now := s.now()
	post := Post{
		ID:        s.newID("p"),
		ThreadID:  threadID,
		AuthorID:  viewer.ID,
		Content:   content,
		CreatedAt: now,
	}

	bumped := s.threads[idx]
	bumped.Replies++
	bumped.LastPostAt = now
	bumped.LastPostAuthorID = viewer.ID

	threads := make([]Thread, 0, len(s.threads))
	threads = append(threads, bumped)
	threads = append(threads, s.threads[:idx]...)
	threads = append(threads, s.threads[idx+1:]...)
	s.threads = threads

	posts := make([]Post, 0, len(s.posts)+1)
	posts = append(posts, s.posts...)
	s.posts = append(posts, post)

	s.bumpCachedPostCount(viewer.ID)
	return post, nil
}

// EditPost replaces the post content. Only the author or a Faction
// Management holder may edit.
func (s *MemStore) EditPost(postID, content string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer := s.viewerLocked()
	if viewer == nil {
		return Post{}, ErrUnauthenticated
	}
	idx, ok := s.findPost(postID)
	if !ok {
		return Post{}, ErrNotFound
	}
	if s.posts[idx].AuthorID != viewer.ID && !viewer.IsFactionManagement() {
		return Post{}, ErrUnauthorized
	}

	posts := make([]Post, len(s.posts))
	copy(posts, s.posts)
	posts[idx].Content = content
	s.posts = posts
	return posts[idx], nil
}

// DeletePost removes the post and, when it was the thread's most recent,
// recomputes the thread's last-post pointer from the remaining posts. The
// thread's reply counter and the author's cached post counter are left
// untouched, and a thread whose only post is deleted stays in place.
func (s *MemStore) DeletePost(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer := s.viewerLocked()
	if viewer == nil {
		return ErrUnauthenticated
	}
	idx, ok := s.findPost(postID)
	if !ok {
		return ErrNotFound
	}
	removed := s.posts[idx]
	if removed.AuthorID != viewer.ID && !viewer.IsFactionManagement() {
		return ErrUnauthorized
	}

	posts := make([]Post, 0, len(s.posts)-1)
	posts = append(posts, s.posts[:idx]...)
	posts = append(posts, s.posts[idx+1:]...)
	s.posts = posts

	s.repairLastPost(removed.ThreadID)
	return nil
}

func (s *MemStore) findUser(id string) (int, bool) {
	for i := range s.users {
		if s.users[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *MemStore) findThread(id string) (int, bool) {
	for i := range s.threads {
		if s.threads[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *MemStore) findPost(id string) (int, bool) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// mutateUser applies fn to a copy of the user and swaps in a new users
// slice. Callers must hold the write lock.
func (s *MemStore) mutateUser(id string, fn func(*User)) (User, error) {
	idx, ok := s.findUser(id)
	if !ok {
		return User{}, ErrNotFound
	}
	users := make([]User, len(s.users))
	copy(users, s.users)
	fn(&users[idx])
	s.users = users
	return users[idx], nil
}

func (s *MemStore) bumpCachedPostCount(userID string) {
	_, _ = s.mutateUser(userID, func(u *User) {
		u.Posts++
	})
}

func (s *MemStore) repairLastPost(threadID string) {
	idx, ok := s.findThread(threadID)
	if !ok {
		return
	}

	thread := s.threads[idx]
	latest := Post{}
	found := false
	for _, p := range s.posts {
		if p.ThreadID != threadID {
			continue
		}
		if !found || !p.CreatedAt.Before(latest.CreatedAt) {
			latest = p
			found = true
		}
	}

	if found {
		thread.LastPostAt = latest.CreatedAt
		thread.LastPostAuthorID = latest.AuthorID
	} else {
		thread.LastPostAt = thread.CreatedAt
		thread.LastPostAuthorID = thread.AuthorID
	}

	threads := make([]Thread, len(s.threads))
	copy(threads, s.threads)
	threads[idx] = thread
	s.threads = threads
}
