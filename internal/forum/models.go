// Package forum holds the intranet data model and the in-memory mutation
// store that owns the live collections.
package forum

import (
	"time"

	"precinct/internal/identity"
)

type Status string

const (
	StatusOnline     Status = "Online"
	StatusOffline    Status = "Offline"
	StatusPatrolling Status = "Patrolling"
)

type User struct {
	ID        string
	Username  string
	Rank      identity.Rank
	JoinedAt  time.Time
	// Posts is the cached display counter, incremented on every create/reply.
	// The real count is derived by the stats package from the post records.
	Posts     int
	AvatarURL string
	Badges    []identity.Plaque
	Signature string
	Status    Status
	OOCName   string
	Discord   string
}

// HasPlaque reports whether the user holds the plaque.
func (u User) HasPlaque(p identity.Plaque) bool {
	return identity.HasPlaque(u.Badges, p)
}

// IsFactionManagement reports whether the user holds the super-admin plaque.
func (u User) IsFactionManagement() bool {
	return u.HasPlaque(identity.PlaqueFactionManagement)
}

type Thread struct {
	ID         string
	CategoryID string
	Title      string
	AuthorID   string
	CreatedAt  time.Time
	Views      int
	Replies    int
	// Denormalized pointer to the most recent post in the thread.
	LastPostAt       time.Time
	LastPostAuthorID string
	Pinned           bool
	Locked           bool
}

type Post struct {
	ID        string
	ThreadID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// SubforumLink is a navigational shortcut to another category. The target
// must exist in the catalog; links are validated at construction time.
type SubforumLink struct {
	ID   string
	Name string
}

// CategoryKind is resolved once during catalog construction instead of being
// re-derived from optional fields at render time.
type CategoryKind string

const (
	// KindLeaf is an ordinary forum holding threads.
	KindLeaf CategoryKind = "leaf"
	// KindHub carries subforum links to other categories.
	KindHub CategoryKind = "hub"
	// KindLink points at an external URL and holds no content.
	KindLink CategoryKind = "link"
)

type Category struct {
	ID          string
	Name        string
	Description string
	// ParentID is empty for root categories.
	ParentID string
	// Section groups root categories on the landing page.
	Section   string
	Image     string
	Subforums []SubforumLink
	// Restricted hides the category from guests and civilians. A category's
	// restriction is independent of its parent's; visibility is evaluated
	// per node, never inherited.
	Restricted bool
	// AllowedPlaques, when non-empty, gates the category behind an exact
	// set-intersection check against the viewer's badges.
	AllowedPlaques []identity.Plaque
	ExternalLink   string
	Kind           CategoryKind
}
