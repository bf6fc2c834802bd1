package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"precinct/internal/access"
	"precinct/internal/forum"
	"precinct/internal/identity"
	"precinct/internal/search"
	"precinct/internal/session"
	"precinct/internal/stats"
)

// SessionStore maps opaque bearer tokens to signed-in users.
type SessionStore interface {
	Save(ctx context.Context, token string, data session.TokenData) error
	Lookup(ctx context.Context, token string) (session.TokenData, error)
	Revoke(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// Session is the handle handed to the client after login or registration.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Rank     string `json:"rank"`
}

// Service composes the store, catalog, access resolver, aggregator, search
// and sessions. Every domain decision lives here or below; the HTTP layer
// only decodes, dispatches and encodes.
type Service struct {
	store    *forum.MemStore
	catalog  *forum.Catalog
	search   *search.Service
	sessions SessionStore
}

func NewService(store *forum.MemStore, searchSvc *search.Service, sessions SessionStore) *Service {
	return &Service{
		store:    store,
		catalog:  store.Catalog(),
		search:   searchSvc,
		sessions: sessions,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

// ── Sessions ──

// Login signs in by name. The match is case-insensitive against both the
// character name and the OOC name.
func (s *Service) Login(ctx context.Context, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
	}

	user, err := s.store.Login(name)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Register creates a fresh civilian account and signs it in.
func (s *Service) Register(ctx context.Context, username string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username is required")
	}

	user, err := s.store.Register(username)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user forum.User) (Session, error) {
	token := uuid.NewString()
	data := session.TokenData{
		UserID:    user.ID,
		Username:  user.Username,
		Rank:      string(user.Rank),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Save(ctx, token, data); err != nil {
		return Session{}, err
	}
	return Session{Token: token, UserID: user.ID, Username: user.Username, Rank: data.Rank}, nil
}

func (s *Service) Logout(ctx context.Context, token string) {
	if token != "" {
		_ = s.sessions.Revoke(ctx, token)
	}
	s.store.Logout()
}

// SessionFromToken resolves a bearer token back into a session.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	data, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Session{}, forum.ErrUnauthenticated
		}
		return Session{}, err
	}
	return Session{Token: token, UserID: data.UserID, Username: data.Username, Rank: data.Rank}, nil
}

// ── View payloads ──

type UserRef struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Rank      string `json:"rank"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type CategoryView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Image        string             `json:"image,omitempty"`
	Kind         forum.CategoryKind `json:"kind"`
	ExternalLink string             `json:"externalLink,omitempty"`
	ThreadCount  int                `json:"threadCount"`
	PostCount    int                `json:"postCount"`
	LastActive   *ThreadRef         `json:"lastActive,omitempty"`
}

type ThreadRef struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	LastPostAt time.Time `json:"lastPostAt"`
	LastPostBy *UserRef  `json:"lastPostBy,omitempty"`
}

type SectionView struct {
	Name       string         `json:"name"`
	Categories []CategoryView `json:"categories"`
}

type RosterView struct {
	Online []UserRef `json:"online"`
	Guests int       `json:"guests"`
}

type HomePage struct {
	Sections []SectionView `json:"sections"`
	Roster   RosterView    `json:"roster"`
}

type SubforumView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ThreadView struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Title      string    `json:"title"`
	Author     UserRef   `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	Views      int       `json:"views"`
	Replies    int       `json:"replies"`
	LastPostAt time.Time `json:"lastPostAt"`
	LastPostBy *UserRef  `json:"lastPostBy,omitempty"`
	Pinned     bool      `json:"pinned"`
	Locked     bool      `json:"locked"`
}

type CategoryPage struct {
	Category  CategoryView   `json:"category"`
	Children  []CategoryView `json:"children"`
	Subforums []SubforumView `json:"subforums"`
	Threads   []ThreadView   `json:"threads"`
}

type PostView struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Signature string    `json:"signature,omitempty"`
}

type ThreadPage struct {
	Thread ThreadView `json:"thread"`
	Posts  []PostView `json:"posts"`
}

type ProfileView struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Rank      string           `json:"rank"`
	JoinedAt  time.Time        `json:"joinedAt"`
	Posts     int              `json:"posts"`
	AvatarURL string           `json:"avatarUrl,omitempty"`
	Badges    []string         `json:"badges"`
	Signature string           `json:"signature,omitempty"`
	Status    forum.Status     `json:"status"`
	OOCName   string           `json:"oocName,omitempty"`
	Discord   string           `json:"discord,omitempty"`
	Stats     ProfileStatsView `json:"stats"`
}

type ProfileStatsView struct {
	TotalPosts         int     `json:"totalPosts"`
	MostActiveThreadID string  `json:"mostActiveThreadId,omitempty"`
	MostActiveTitle    string  `json:"mostActiveTitle,omitempty"`
	MostActivePosts    int     `json:"mostActivePosts"`
	MostActivePercent  float64 `json:"mostActivePercent"`
}

type GroupRosterView struct {
	Group   identity.Group `json:"group"`
	Members []GroupMember  `json:"members"`
}

type GroupMember struct {
	UserRef
	Plaques []string `json:"plaques"`
}

// ── Read queries ──

// Home assembles the landing page for the current viewer: visible sections
// with per-category stats, plus the who's-online roster.
func (s *Service) Home() HomePage {
	snap := s.store.Snapshot()

	page := HomePage{Sections: []SectionView{}}
	for _, sec := range access.VisibleSections(snap.Viewer, s.catalog) {
		view := SectionView{Name: sec.Name, Categories: []CategoryView{}}
		for _, cat := range sec.Categories {
			view.Categories = append(view.Categories, s.categoryView(cat, snap))
		}
		page.Sections = append(page.Sections, view)
	}

	roster := stats.OnlineRoster(snap.Users, snap.Viewer)
	page.Roster = RosterView{Online: []UserRef{}, Guests: roster.Guests}
	for _, u := range roster.Online {
		page.Roster.Online = append(page.Roster.Online, userRef(u))
	}
	return page
}

// CategoryPage returns a category with its children, subforum links and
// threads. A category the viewer may not see answers NotFound, exactly like
// one that does not exist.
func (s *Service) CategoryPage(categoryID string) (CategoryPage, error) {
	snap := s.store.Snapshot()

	cat, ok := s.catalog.Get(categoryID)
	if !ok || !access.CanView(snap.Viewer, cat) {
		return CategoryPage{}, forum.ErrNotFound
	}

	page := CategoryPage{
		Category:  s.categoryView(cat, snap),
		Children:  []CategoryView{},
		Subforums: []SubforumView{},
		Threads:   []ThreadView{},
	}
	for _, child := range access.VisibleCategories(snap.Viewer, s.catalog.Children(cat.ID)) {
		page.Children = append(page.Children, s.categoryView(child, snap))
	}
	for _, link := range access.VisibleSubforums(snap.Viewer, cat, s.catalog) {
		page.Subforums = append(page.Subforums, SubforumView{ID: link.ID, Name: link.Name})
	}
	for _, t := range snap.Threads {
		if t.CategoryID == cat.ID {
			page.Threads = append(page.Threads, threadView(t, snap))
		}
	}
	return page, nil
}

// ThreadPage returns a thread with its posts. The thread is gated by its
// category's visibility; a thread behind an invisible category answers
// NotFound.
func (s *Service) ThreadPage(threadID string) (ThreadPage, error) {
	snap := s.store.Snapshot()

	thread, ok := findThread(snap.Threads, threadID)
	if !ok {
		return ThreadPage{}, forum.ErrNotFound
	}
	if cat, catOK := s.catalog.Get(thread.CategoryID); !catOK || !access.CanView(snap.Viewer, cat) {
		return ThreadPage{}, forum.ErrNotFound
	}

	page := ThreadPage{Thread: threadView(thread, snap), Posts: []PostView{}}
	for _, p := range snap.Posts {
		if p.ThreadID != thread.ID {
			continue
		}
		view := PostView{
			ID:        p.ID,
			ThreadID:  p.ThreadID,
			Author:    userRef(lookupUser(snap.Users, p.AuthorID)),
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		}
		if author, found := findUser(snap.Users, p.AuthorID); found {
			view.Signature = author.Signature
		}
		page.Posts = append(page.Posts, view)
	}
	return page, nil
}

// SearchAll runs the query against thread titles and post bodies.
func (s *Service) SearchAll(q string, limit int) search.Results {
	return s.search.Search(search.Query{Text: q, Limit: limit})
}

// Profile returns a user's public profile with derived posting stats.
func (s *Service) Profile(userID string) (ProfileView, error) {
	snap := s.store.Snapshot()

	user, ok := findUser(snap.Users, userID)
	if !ok {
		return ProfileView{}, forum.ErrNotFound
	}

	userStats := stats.ForUser(user.ID, snap.Posts)
	view := ProfileView{
		ID:        user.ID,
		Username:  user.Username,
		Rank:      string(user.Rank),
		JoinedAt:  user.JoinedAt,
		Posts:     user.Posts,
		AvatarURL: user.AvatarURL,
		Badges:    plaqueStrings(user.Badges),
		Signature: user.Signature,
		Status:    user.Status,
		OOCName:   user.OOCName,
		Discord:   user.Discord,
		Stats: ProfileStatsView{
			TotalPosts:         userStats.TotalPosts,
			MostActiveThreadID: userStats.MostActiveThreadID,
			MostActivePosts:    userStats.MostActivePosts,
			MostActivePercent:  userStats.MostActivePercent,
		},
	}
	if userStats.MostActiveThreadID != "" {
		if t, found := findThread(snap.Threads, userStats.MostActiveThreadID); found {
			view.Stats.MostActiveTitle = t.Title
		}
	}
	return view, nil
}

// GroupRoster lists the users holding any plaque in the given display group.
func (s *Service) GroupRoster(group identity.Group) (GroupRosterView, error) {
	switch group {
	case identity.GroupMetro, identity.GroupDetective, identity.GroupPatrol,
		identity.GroupField, identity.GroupTraining, identity.GroupGeneral:
	default:
		return GroupRosterView{}, forum.ErrNotFound
	}

	snap := s.store.Snapshot()
	view := GroupRosterView{Group: group, Members: []GroupMember{}}
	for _, u := range snap.Users {
		var matched []string
		for _, p := range u.Badges {
			if p.Group() == group {
				matched = append(matched, string(p))
			}
		}
		if len(matched) > 0 {
			view.Members = append(view.Members, GroupMember{UserRef: userRef(u), Plaques: matched})
		}
	}
	return view, nil
}

// ── Write commands ──

// CreateThread opens a thread in a category the viewer can see. The category
// gate runs here so a write cannot probe for hidden categories either.
func (s *Service) CreateThread(categoryID, title, content string) (ThreadView, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return ThreadView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title and content are required")
	}

	viewer := s.store.Viewer()
	if viewer == nil {
		return ThreadView{}, forum.ErrUnauthenticated
	}
	cat, ok := s.catalog.Get(categoryID)
	if !ok || !access.CanView(viewer, cat) {
		return ThreadView{}, forum.ErrNotFound
	}
	if cat.Kind != forum.KindLeaf {
		return ThreadView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "category does not hold threads")
	}

	thread, post, err := s.store.CreateThread(categoryID, title, content)
	if err != nil {
		return ThreadView{}, err
	}

	s.search.IndexThread(search.ThreadRecord{
		ID: thread.ID, Title: thread.Title, CategoryID: thread.CategoryID, AuthorID: thread.AuthorID,
	})
	s.search.IndexPost(search.PostRecord{
		ID: post.ID, ThreadID: post.ThreadID, AuthorID: post.AuthorID, Body: post.Content,
	})

	return threadView(thread, s.store.Snapshot()), nil
}

// Reply appends a post to a thread and bumps the thread.
func (s *Service) Reply(threadID, content string) (PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return PostView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required")
	}

	post, err := s.store.ReplyToThread(threadID, content)
	if err != nil {
		return PostView{}, err
	}

	s.search.IndexPost(search.PostRecord{
		ID: post.ID, ThreadID: post.ThreadID, AuthorID: post.AuthorID, Body: post.Content,
	})

	snap := s.store.Snapshot()
	return PostView{
		ID:        post.ID,
		ThreadID:  post.ThreadID,
		Author:    userRef(lookupUser(snap.Users, post.AuthorID)),
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}, nil
}

// EditPost rewrites a post's content. Authorization lives in the store.
func (s *Service) EditPost(postID, content string) (PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return PostView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required")
	}

	post, err := s.store.EditPost(postID, content)
	if err != nil {
		return PostView{}, err
	}

	s.search.IndexPost(search.PostRecord{
		ID: post.ID, ThreadID: post.ThreadID, AuthorID: post.AuthorID, Body: post.Content,
	})

	snap := s.store.Snapshot()
	return PostView{
		ID:        post.ID,
		ThreadID:  post.ThreadID,
		Author:    userRef(lookupUser(snap.Users, post.AuthorID)),
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}, nil
}

// DeletePost removes a post.
func (s *Service) DeletePost(postID string) error {
	if err := s.store.DeletePost(postID); err != nil {
		return err
	}
	s.search.DeletePost(postID)
	return nil
}

// ProfilePatchInput is the JSON shape of a profile update. Nil fields are
// left untouched.
type ProfilePatchInput struct {
	Username  *string `json:"username"`
	Rank      *string `json:"rank"`
	Status    *string `json:"status"`
	AvatarURL *string `json:"avatarUrl"`
	Signature *string `json:"signature"`
	OOCName   *string `json:"oocName"`
	Discord   *string `json:"discord"`
}

// UpdateProfile applies a profile patch. Users edit their own profile; only
// Faction Management edits other users or changes anyone's rank.
func (s *Service) UpdateProfile(userID string, input ProfilePatchInput) (ProfileView, error) {
	viewer := s.store.Viewer()
	if viewer == nil {
		return ProfileView{}, forum.ErrUnauthenticated
	}
	if viewer.ID != userID && !viewer.IsFactionManagement() {
		return ProfileView{}, forum.ErrUnauthorized
	}
	if input.Rank != nil && !viewer.IsFactionManagement() {
		return ProfileView{}, forum.ErrUnauthorized
	}

	patch := forum.UserPatch{
		Username:  input.Username,
		AvatarURL: input.AvatarURL,
		Signature: input.Signature,
		OOCName:   input.OOCName,
		Discord:   input.Discord,
	}
	if input.Rank != nil {
		rank := identity.Rank(*input.Rank)
		if !rank.Valid() {
			return ProfileView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown rank")
		}
		patch.Rank = &rank
	}
	if input.Status != nil {
		status := forum.Status(*input.Status)
		if status != forum.StatusOnline && status != forum.StatusOffline && status != forum.StatusPatrolling {
			return ProfileView{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown status")
		}
		patch.Status = &status
	}

	user, err := s.store.UpdateUser(userID, patch)
	if err != nil {
		return ProfileView{}, err
	}
	return s.Profile(user.ID)
}

// AssignPlaque grants a plaque. Faction Management only.
func (s *Service) AssignPlaque(userID string, plaque identity.Plaque) (ProfileView, error) {
	if err := s.requireFactionManagement(); err != nil {
		return ProfileView{}, err
	}
	user, err := s.store.AssignPlaque(userID, plaque)
	if err != nil {
		return ProfileView{}, err
	}
	return s.Profile(user.ID)
}

// RemovePlaque revokes a plaque. Faction Management only.
func (s *Service) RemovePlaque(userID string, plaque identity.Plaque) (ProfileView, error) {
	if err := s.requireFactionManagement(); err != nil {
		return ProfileView{}, err
	}
	user, err := s.store.RemovePlaque(userID, plaque)
	if err != nil {
		return ProfileView{}, err
	}
	return s.Profile(user.ID)
}

func (s *Service) requireFactionManagement() error {
	viewer := s.store.Viewer()
	if viewer == nil {
		return forum.ErrUnauthenticated
	}
	if !viewer.IsFactionManagement() {
		return forum.ErrUnauthorized
	}
	return nil
}

// ── Helpers ──

func (s *Service) categoryView(cat forum.Category, snap forum.Snapshot) CategoryView {
	catStats := stats.ForCategory(cat.ID, snap.Threads, snap.Posts)
	view := CategoryView{
		ID:           cat.ID,
		Name:         cat.Name,
		Description:  cat.Description,
		Image:        cat.Image,
		Kind:         cat.Kind,
		ExternalLink: cat.ExternalLink,
		ThreadCount:  catStats.ThreadCount,
		PostCount:    catStats.PostCount,
	}
	if catStats.LastActiveThread != nil {
		t := catStats.LastActiveThread
		ref := ThreadRef{ID: t.ID, Title: t.Title, LastPostAt: t.LastPostAt}
		if author, ok := findUser(snap.Users, t.LastPostAuthorID); ok {
			authorRef := userRef(author)
			ref.LastPostBy = &authorRef
		}
		view.LastActive = &ref
	}
	return view
}

func threadView(t forum.Thread, snap forum.Snapshot) ThreadView {
	view := ThreadView{
		ID:         t.ID,
		CategoryID: t.CategoryID,
		Title:      t.Title,
		Author:     userRef(lookupUser(snap.Users, t.AuthorID)),
		CreatedAt:  t.CreatedAt,
		Views:      t.Views,
		Replies:    t.Replies,
		LastPostAt: t.LastPostAt,
		Pinned:     t.Pinned,
		Locked:     t.Locked,
	}
	if author, ok := findUser(snap.Users, t.LastPostAuthorID); ok {
		ref := userRef(author)
		view.LastPostBy = &ref
	}
	return view
}

func userRef(u forum.User) UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Rank: string(u.Rank), AvatarURL: u.AvatarURL}
}

func findUser(users []forum.User, id string) (forum.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return forum.User{}, false
}

// lookupUser tolerates dangling author ids and falls back to a bare ref.
func lookupUser(users []forum.User, id string) forum.User {
	if u, ok := findUser(users, id); ok {
		return u
	}
	return forum.User{ID: id, Username: "Unknown"}
}

func findThread(threads []forum.Thread, id string) (forum.Thread, bool) {
	for _, t := range threads {
		if t.ID == id {
			return t, true
		}
	}
	return forum.Thread{}, false
}

func plaqueStrings(plaques []identity.Plaque) []string {
	out := make([]string, len(plaques))
	for i, p := range plaques {
		out[i] = string(p)
	}
	return out
}
