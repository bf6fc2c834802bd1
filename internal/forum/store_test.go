package forum

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"precinct/internal/identity"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]Category{
		{ID: "c1", Name: "General"},
		{ID: "c2", Name: "Internal", Restricted: true},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return catalog
}

func testStore(t *testing.T) *MemStore {
	t.Helper()
	users := []User{
		{ID: "u1", Username: "Timothy Bradford", OOCName: "TimTheTank", Rank: identity.RankSergeantII,
			Badges: []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaqueFactionManagement}, Posts: 10},
		{ID: "u2", Username: "Lucy Chen", Rank: identity.RankOfficerII,
			Badges: []identity.Plaque{identity.PlaqueOOCBFoothill}, Posts: 3},
	}
	threads := []Thread{
		{ID: "t1", CategoryID: "c1", Title: "Patrol notes", AuthorID: "u1",
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			LastPostAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), LastPostAuthorID: "u2"},
	}
	posts := []Post{
		{ID: "p1", ThreadID: "t1", AuthorID: "u1", Content: "first", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", ThreadID: "t1", AuthorID: "u2", Content: "second", CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	s := NewMemStore(testCatalog(t), users, threads, posts)
	seq := 0
	s.newID = func(prefix string) string {
		seq++
		return fmt.Sprintf("%s_test%d", prefix, seq)
	}
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func mustLogin(t *testing.T, s *MemStore, name string) User {
	t.Helper()
	u, err := s.Login(name)
	if err != nil {
		t.Fatalf("Login(%q): %v", name, err)
	}
	return u
}

func TestLoginCaseInsensitive(t *testing.T) {
	s := testStore(t)

	u := mustLogin(t, s, "tImOtHy bRaDfOrD")
	if u.ID != "u1" {
		t.Fatalf("logged in as %s, want u1", u.ID)
	}

	// OOC name matches too.
	u = mustLogin(t, s, "timthetank")
	if u.ID != "u1" {
		t.Fatalf("OOC login matched %s, want u1", u.ID)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	s := testStore(t)

	_, err := s.Login("Nobody Special")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if s.Viewer() != nil {
		t.Fatal("failed login must not set a viewer")
	}
}

func TestRegisterDefaults(t *testing.T) {
	s := testStore(t)

	u, err := s.Register("Celina Juarez")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Rank != identity.RankCivilian {
		t.Fatalf("new user rank = %q, want Civilian", u.Rank)
	}
	if len(u.Badges) != 1 || u.Badges[0] != identity.PlaqueCivilian {
		t.Fatalf("new user badges = %v, want {Civilian}", u.Badges)
	}
	if u.Posts != 0 {
		t.Fatalf("new user posts = %d, want 0", u.Posts)
	}
	viewer := s.Viewer()
	if viewer == nil || viewer.ID != u.ID {
		t.Fatal("registration must sign the new user in")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := testStore(t)
	before := len(s.Snapshot().Users)

	_, err := s.Register("TIMOTHY BRADFORD")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if got := len(s.Snapshot().Users); got != before {
		t.Fatalf("user count changed %d -> %d on failed registration", before, got)
	}
}

func TestLogout(t *testing.T) {
	s := testStore(t)
	mustLogin(t, s, "Lucy Chen")
	s.Logout()
	if s.Viewer() != nil {
		t.Fatal("viewer still set after logout")
	}
	// Logging out twice is fine.
	s.Logout()
}

func TestUpdateUser(t *testing.T) {
	s := testStore(t)

	sig := "New signature"
	status := StatusPatrolling
	u, err := s.UpdateUser("u2", UserPatch{Signature: &sig, Status: &status})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.Signature != sig || u.Status != StatusPatrolling {
		t.Fatalf("patch not applied: %+v", u)
	}
	if u.Username != "Lucy Chen" {
		t.Fatal("unpatched fields must be preserved")
	}

	_, err = s.UpdateUser("u_missing", UserPatch{Signature: &sig})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown user", err)
	}
}

func TestAssignPlaqueIdempotent(t *testing.T) {
	s := testStore(t)

	first, err := s.AssignPlaque("u2", identity.PlaqueMDTraining)
	if err != nil {
		t.Fatalf("AssignPlaque: %v", err)
	}
	second, err := s.AssignPlaque("u2", identity.PlaqueMDTraining)
	if err != nil {
		t.Fatalf("AssignPlaque again: %v", err)
	}
	if len(first.Badges) != len(second.Badges) {
		t.Fatalf("duplicate assign grew badge set: %v -> %v", first.Badges, second.Badges)
	}
}

func TestRemovePlaqueIdempotent(t *testing.T) {
	s := testStore(t)

	u, err := s.RemovePlaque("u2", identity.PlaqueMDESD) // not held
	if err != nil {
		t.Fatalf("RemovePlaque of absent plaque: %v", err)
	}
	if len(u.Badges) != 1 {
		t.Fatalf("badge set changed by no-op removal: %v", u.Badges)
	}

	u, err = s.RemovePlaque("u2", identity.PlaqueOOCBFoothill)
	if err != nil {
		t.Fatalf("RemovePlaque: %v", err)
	}
	if u.HasPlaque(identity.PlaqueOOCBFoothill) {
		t.Fatal("plaque still held after removal")
	}
}

func TestCreateThreadRequiresViewer(t *testing.T) {
	s := testStore(t)

	_, _, err := s.CreateThread("c1", "Title", "body")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestCreateThreadUnknownCategory(t *testing.T) {
	s := testStore(t)
	mustLogin(t, s, "Lucy Chen")

	_, _, err := s.CreateThread("c_missing", "Title", "body")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateThreadRoundTrip(t *testing.T) {
	s := testStore(t)
	author := mustLogin(t, s, "Lucy Chen")

	thread, post, err := s.CreateThread("c1", "Shift swap board", "Anyone covering Tuesday?")
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	snap := s.Snapshot()
	if snap.Threads[0].ID != thread.ID {
		t.Fatalf("new thread is at index %d, want 0", indexOfThread(snap.Threads, thread.ID))
	}
	if post.ThreadID != thread.ID {
		t.Fatalf("first post belongs to %s, want %s", post.ThreadID, thread.ID)
	}

	count := 0
	for _, p := range snap.Posts {
		if p.ThreadID == thread.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("new thread has %d posts, want 1", count)
	}

	if thread.LastPostAuthorID != author.ID {
		t.Fatalf("last post author = %s, want %s", thread.LastPostAuthorID, author.ID)
	}
	if got := s.Viewer().Posts; got != author.Posts+1 {
		t.Fatalf("cached post counter = %d, want %d", got, author.Posts+1)
	}
}

func TestReplyToThread(t *testing.T) {
	s := testStore(t)
	author := mustLogin(t, s, "Timothy Bradford")

	// Push another thread in front so the reply has to bump t1 back up.
	if _, _, err := s.CreateThread("c1", "Roll call", "morning"); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	post, err := s.ReplyToThread("t1", "Noted, thanks.")
	if err != nil {
		t.Fatalf("ReplyToThread: %v", err)
	}

	snap := s.Snapshot()
	if snap.Threads[0].ID != "t1" {
		t.Fatalf("bumped thread at index %d, want 0", indexOfThread(snap.Threads, "t1"))
	}
	bumped := snap.Threads[0]
	if bumped.Replies != 1 {
		t.Fatalf("reply counter = %d, want 1", bumped.Replies)
	}
	if bumped.LastPostAuthorID != author.ID || !bumped.LastPostAt.Equal(post.CreatedAt) {
		t.Fatalf("last-post fields not updated: %+v", bumped)
	}
}

func TestReplyToUnknownThread(t *testing.T) {
	s := testStore(t)
	mustLogin(t, s, "Lucy Chen")
	before := len(s.Snapshot().Posts)

	_, err := s.ReplyToThread("t_missing", "hello?")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if got := len(s.Snapshot().Posts); got != before {
		t.Fatalf("posts changed %d -> %d on failed reply", before, got)
	}
}

func TestEditPostAuthorization(t *testing.T) {
	s := testStore(t)

	// Not signed in.
	if _, err := s.EditPost("p1", "x"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}

	// u2 is neither author of p1 nor Faction Management.
	mustLogin(t, s, "Lucy Chen")
	if _, err := s.EditPost("p1", "x"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	// Author edits own post.
	if _, err := s.EditPost("p2", "edited by author"); err != nil {
		t.Fatalf("author edit: %v", err)
	}

	// Faction Management edits anyone's post.
	mustLogin(t, s, "Timothy Bradford")
	post, err := s.EditPost("p2", "edited by management")
	if err != nil {
		t.Fatalf("faction management edit: %v", err)
	}
	if post.Content != "edited by management" {
		t.Fatalf("content = %q", post.Content)
	}

	if _, err := s.EditPost("p_missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePostRepairsLastPost(t *testing.T) {
	s := testStore(t)
	mustLogin(t, s, "Timothy Bradford")

	// p2 is the latest post in t1; deleting it must roll the pointer back to p1.
	if err := s.DeletePost("p2"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	snap := s.Snapshot()
	thread := snap.Threads[indexOfThread(snap.Threads, "t1")]
	if thread.LastPostAuthorID != "u1" {
		t.Fatalf("last post author = %s, want u1 after repair", thread.LastPostAuthorID)
	}
	if !thread.LastPostAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last post date not rolled back: %v", thread.LastPostAt)
	}
	// Reply counter is intentionally left alone.
	if thread.Replies != 0 {
		t.Fatalf("reply counter = %d, want untouched 0", thread.Replies)
	}
}

func TestDeleteOnlyPostKeepsThread(t *testing.T) {
	s := testStore(t)
	mustLogin(t, s, "Timothy Bradford")

	if err := s.DeletePost("p2"); err != nil {
		t.Fatalf("DeletePost p2: %v", err)
	}
	if err := s.DeletePost("p1"); err != nil {
		t.Fatalf("DeletePost p1: %v", err)
	}

	snap := s.Snapshot()
	if indexOfThread(snap.Threads, "t1") < 0 {
		t.Fatal("thread removed along with its last post")
	}
	for _, p := range snap.Posts {
		if p.ThreadID == "t1" {
			t.Fatalf("post %s still present", p.ID)
		}
	}
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := testStore(t)
	before := s.Snapshot()
	beforeThreads := len(before.Threads)
	beforePosts := len(before.Posts)
	beforeTitle := before.Threads[0].Title

	mustLogin(t, s, "Lucy Chen")
	if _, _, err := s.CreateThread("c1", "New business", "text"); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if _, err := s.ReplyToThread("t1", "bump"); err != nil {
		t.Fatalf("ReplyToThread: %v", err)
	}

	if len(before.Threads) != beforeThreads || len(before.Posts) != beforePosts {
		t.Fatal("earlier snapshot changed size after mutations")
	}
	if before.Threads[0].Title != beforeTitle {
		t.Fatal("earlier snapshot contents changed after mutations")
	}
}

func indexOfThread(threads []Thread, id string) int {
	for i := range threads {
		if threads[i].ID == id {
			return i
		}
	}
	return -1
}
