package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"precinct/internal/forum"
	"precinct/internal/identity"
	"precinct/internal/search"
	"precinct/internal/session"
)

// fakeSessions is an in-memory SessionStore for tests.
type fakeSessions struct {
	mu   sync.Mutex
	data map[string]session.TokenData
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: make(map[string]session.TokenData)}
}

func (f *fakeSessions) Save(_ context.Context, token string, data session.TokenData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[token] = data
	return nil
}

func (f *fakeSessions) Lookup(_ context.Context, token string) (session.TokenData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[token]
	if !ok {
		return session.TokenData{}, session.ErrNotFound
	}
	return data, nil
}

func (f *fakeSessions) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, token)
	return nil
}

func (f *fakeSessions) Ping(context.Context) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeSessions) {
	t.Helper()
	catalog, err := forum.NewCatalog(forum.SeedCategories())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	store := forum.NewMemStore(catalog, forum.SeedUsers(), forum.SeedThreads(), forum.SeedPosts())
	searchSvc := search.NewService(nil, search.NewMemory(store))
	sessions := newFakeSessions()
	return NewService(store, searchSvc, sessions), sessions
}

func signIn(t *testing.T, svc *Service, name string) Session {
	t.Helper()
	sess, err := svc.Login(context.Background(), name)
	if err != nil {
		t.Fatalf("Login(%q): %v", name, err)
	}
	return sess
}

func TestLoginIssuesSessionToken(t *testing.T) {
	svc, sessions := newTestService(t)

	sess := signIn(t, svc, "lucy chen")
	if sess.UserID != "u2" {
		t.Fatalf("UserID = %s, want u2", sess.UserID)
	}
	if sess.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if _, err := sessions.Lookup(context.Background(), sess.Token); err != nil {
		t.Fatalf("token not stored: %v", err)
	}
}

func TestLoginUnknownName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "Nobody Home")
	if !errors.Is(err, forum.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)

	sess := signIn(t, svc, "Lucy Chen")
	svc.Logout(context.Background(), sess.Token)

	if _, err := svc.SessionFromToken(context.Background(), sess.Token); !errors.Is(err, forum.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestHomeGuestSeesOnlyPublicSection(t *testing.T) {
	svc, _ := newTestService(t)

	page := svc.Home()
	if len(page.Sections) != 1 {
		t.Fatalf("guest sections = %d, want 1", len(page.Sections))
	}
	if page.Sections[0].Name != forum.SectionPublic {
		t.Fatalf("guest section = %q, want public", page.Sections[0].Name)
	}
	if page.Roster.Guests != 1 {
		t.Fatalf("guest slot = %d, want 1", page.Roster.Guests)
	}
}

func TestHomeFactionManagementSeesEverySection(t *testing.T) {
	svc, _ := newTestService(t)

	signIn(t, svc, "Miguel Martins")
	page := svc.Home()
	if len(page.Sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(page.Sections))
	}
	if page.Roster.Guests != 0 {
		t.Fatalf("guest slot = %d, want 0 when signed in", page.Roster.Guests)
	}
}

func TestHomeCategoryStats(t *testing.T) {
	svc, _ := newTestService(t)

	page := svc.Home()
	var public *CategoryView
	for i := range page.Sections[0].Categories {
		if page.Sections[0].Categories[i].ID == "c_public_1" {
			public = &page.Sections[0].Categories[i]
		}
	}
	if public == nil {
		t.Fatal("c_public_1 missing from guest home page")
	}
	if public.ThreadCount != 1 {
		t.Fatalf("c_public_1 thread count = %d, want 1", public.ThreadCount)
	}
	if public.LastActive == nil || public.LastActive.ID != "t4" {
		t.Fatalf("c_public_1 last active = %+v, want t4", public.LastActive)
	}
}

func TestCategoryPageHiddenAnswersNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	for _, id := range []string{"c_ops_metro", "c_no_such_category"} {
		if _, err := svc.CategoryPage(id); !errors.Is(err, forum.ErrNotFound) {
			t.Fatalf("CategoryPage(%s) as guest: got %v, want ErrNotFound", id, err)
		}
	}
}

func TestCategoryPageSubforumGating(t *testing.T) {
	svc, _ := newTestService(t)

	// Lopez holds only the RHD plaque.
	signIn(t, svc, "Angela Lopez")
	page, err := svc.CategoryPage("c_ops_detective")
	if err != nil {
		t.Fatalf("CategoryPage: %v", err)
	}
	if len(page.Subforums) != 1 || page.Subforums[0].ID != "c_det_rhd" {
		t.Fatalf("subforums = %+v, want only c_det_rhd", page.Subforums)
	}
	if len(page.Children) != 1 || page.Children[0].ID != "c_det_rhd" {
		t.Fatalf("children = %+v, want only c_det_rhd", page.Children)
	}
}

func TestThreadPageGatedByCategory(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.ThreadPage("t1"); !errors.Is(err, forum.ErrNotFound) {
		t.Fatalf("guest ThreadPage(t1): got %v, want ErrNotFound", err)
	}

	signIn(t, svc, "Lucy Chen")
	page, err := svc.ThreadPage("t1")
	if err != nil {
		t.Fatalf("ThreadPage(t1): %v", err)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("t1 posts = %d, want 2", len(page.Posts))
	}
	if page.Posts[0].Author.Username != "John Nolan" {
		t.Fatalf("first post author = %s, want John Nolan", page.Posts[0].Author.Username)
	}
}

func TestCreateThreadRequiresVisibleLeaf(t *testing.T) {
	svc, _ := newTestService(t)

	signIn(t, svc, "Lucy Chen")

	if _, err := svc.CreateThread("c_ops_metro", "Title", "Body"); !errors.Is(err, forum.ErrNotFound) {
		t.Fatalf("hidden category: got %v, want ErrNotFound", err)
	}

	var domainErr *DomainError
	if _, err := svc.CreateThread("c_ops_foothill", "Title", "Body"); !errors.As(err, &domainErr) {
		t.Fatalf("hub category: got %v, want validation error", err)
	}

	thread, err := svc.CreateThread("c_fh_info", "Shift swap request", "Anyone free on Friday?")
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	page, err := svc.CategoryPage("c_fh_info")
	if err != nil {
		t.Fatalf("CategoryPage: %v", err)
	}
	if len(page.Threads) == 0 || page.Threads[0].ID != thread.ID {
		t.Fatalf("new thread not first in category, got %+v", page.Threads)
	}
}

func TestCreateThreadValidation(t *testing.T) {
	svc, _ := newTestService(t)
	signIn(t, svc, "Lucy Chen")

	var domainErr *DomainError
	if _, err := svc.CreateThread("c_fh_info", "  ", "body"); !errors.As(err, &domainErr) {
		t.Fatalf("blank title: got %v, want validation error", err)
	}
}

func TestUpdateProfileAuthorization(t *testing.T) {
	svc, _ := newTestService(t)

	signIn(t, svc, "Lucy Chen")

	sig := "New signature"
	profile, err := svc.UpdateProfile("u2", ProfilePatchInput{Signature: &sig})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if profile.Signature != sig {
		t.Fatalf("signature = %q, want %q", profile.Signature, sig)
	}

	if _, err := svc.UpdateProfile("u5", ProfilePatchInput{Signature: &sig}); !errors.Is(err, forum.ErrUnauthorized) {
		t.Fatalf("other user update: got %v, want ErrUnauthorized", err)
	}

	rank := string(identity.RankSergeantI)
	if _, err := svc.UpdateProfile("u2", ProfilePatchInput{Rank: &rank}); !errors.Is(err, forum.ErrUnauthorized) {
		t.Fatalf("self rank change: got %v, want ErrUnauthorized", err)
	}

	signIn(t, svc, "Miguel Martins")
	profile, err = svc.UpdateProfile("u5", ProfilePatchInput{Rank: &rank})
	if err != nil {
		t.Fatalf("admin rank change: %v", err)
	}
	if profile.Rank != rank {
		t.Fatalf("rank = %q, want %q", profile.Rank, rank)
	}

	bogus := "Space Marshal"
	var domainErr *DomainError
	if _, err := svc.UpdateProfile("u5", ProfilePatchInput{Rank: &bogus}); !errors.As(err, &domainErr) {
		t.Fatalf("bogus rank: got %v, want validation error", err)
	}
}

func TestPlaqueAdministration(t *testing.T) {
	svc, _ := newTestService(t)

	signIn(t, svc, "Lucy Chen")
	if _, err := svc.AssignPlaque("u5", identity.PlaqueMDPlatoonD); !errors.Is(err, forum.ErrUnauthorized) {
		t.Fatalf("non-admin assign: got %v, want ErrUnauthorized", err)
	}

	signIn(t, svc, "Miguel Martins")
	profile, err := svc.AssignPlaque("u5", identity.PlaqueMDPlatoonD)
	if err != nil {
		t.Fatalf("AssignPlaque: %v", err)
	}
	if !containsString(profile.Badges, string(identity.PlaqueMDPlatoonD)) {
		t.Fatalf("badges = %v, plaque missing", profile.Badges)
	}

	profile, err = svc.RemovePlaque("u5", identity.PlaqueMDPlatoonD)
	if err != nil {
		t.Fatalf("RemovePlaque: %v", err)
	}
	if containsString(profile.Badges, string(identity.PlaqueMDPlatoonD)) {
		t.Fatalf("badges = %v, plaque still present", profile.Badges)
	}
}

func TestProfileStats(t *testing.T) {
	svc, _ := newTestService(t)

	// Bosch authored p3 in t2 and p6 in t6.
	profile, err := svc.Profile("u7")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Stats.TotalPosts != 2 {
		t.Fatalf("total posts = %d, want 2", profile.Stats.TotalPosts)
	}
	if profile.Stats.MostActiveThreadID != "t2" {
		t.Fatalf("most active = %s, want t2 (first encountered)", profile.Stats.MostActiveThreadID)
	}
	if profile.Stats.MostActivePercent != 50.00 {
		t.Fatalf("percent = %v, want 50.00", profile.Stats.MostActivePercent)
	}

	if _, err := svc.Profile("u_missing"); !errors.Is(err, forum.ErrNotFound) {
		t.Fatalf("unknown profile: got %v, want ErrNotFound", err)
	}
}

func TestGroupRoster(t *testing.T) {
	svc, _ := newTestService(t)

	roster, err := svc.GroupRoster(identity.GroupMetro)
	if err != nil {
		t.Fatalf("GroupRoster: %v", err)
	}
	ids := make(map[string]bool)
	for _, m := range roster.Members {
		ids[m.ID] = true
	}
	for _, want := range []string{"u_admin", "u1", "u6"} {
		if !ids[want] {
			t.Fatalf("metro roster missing %s: %v", want, roster.Members)
		}
	}

	if _, err := svc.GroupRoster("starfleet"); !errors.Is(err, forum.ErrNotFound) {
		t.Fatalf("unknown group: got %v, want ErrNotFound", err)
	}
}

func TestSearchAll(t *testing.T) {
	svc, _ := newTestService(t)

	results := svc.SearchAll("swat", 10)
	if len(results.Threads) != 1 || results.Threads[0].ID != "t3" {
		t.Fatalf("thread hits = %+v, want t3", results.Threads)
	}

	results = svc.SearchAll("", 10)
	if len(results.Threads) != 0 || len(results.Posts) != 0 {
		t.Fatalf("empty query returned hits: %+v", results)
	}
}

func TestDeletePostRemovesFromSearch(t *testing.T) {
	svc, _ := newTestService(t)

	signIn(t, svc, "Harry Bosch")
	if err := svc.DeletePost("p6"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	results := svc.SearchAll("injunction protocols", 10)
	if len(results.Posts) != 0 {
		t.Fatalf("deleted post still searchable: %+v", results.Posts)
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
