// Package stats derives display numbers from the flat thread/post/user
// collections. Everything here is a pure function over a snapshot.
package stats

import (
	"math"

	"precinct/internal/forum"
)

// CategoryStats is the per-category summary shown on listing pages.
type CategoryStats struct {
	ThreadCount int
	PostCount   int
	// LastActiveThread is the first of the category's threads in storage
	// order. The store keeps the most recently bumped thread at index 0, so
	// no sorting happens here.
	LastActiveThread *forum.Thread
}

// ForCategory counts the category's threads and, transitively, the posts
// belonging to those threads. Posts carry no category id of their own.
func ForCategory(categoryID string, threads []forum.Thread, posts []forum.Post) CategoryStats {
	stats := CategoryStats{}
	inCategory := make(map[string]bool)

	for i := range threads {
		if threads[i].CategoryID != categoryID {
			continue
		}
		stats.ThreadCount++
		inCategory[threads[i].ID] = true
		if stats.LastActiveThread == nil {
			first := threads[i]
			stats.LastActiveThread = &first
		}
	}
	for i := range posts {
		if inCategory[posts[i].ThreadID] {
			stats.PostCount++
		}
	}
	return stats
}

// Roster is the who's-online box. Guests counts a single anonymous slot when
// nobody is signed in, not an exact visitor count.
type Roster struct {
	Online []forum.User
	Guests int
}

// OnlineRoster lists users whose status is Online or Patrolling.
func OnlineRoster(users []forum.User, viewer *forum.User) Roster {
	roster := Roster{}
	for _, u := range users {
		if u.Status == forum.StatusOnline || u.Status == forum.StatusPatrolling {
			roster.Online = append(roster.Online, u)
		}
	}
	if viewer == nil {
		roster.Guests = 1
	}
	return roster
}

// PostCountBy is the real number of posts authored by the user, as opposed
// to the cached User.Posts display counter.
func PostCountBy(userID string, posts []forum.Post) int {
	count := 0
	for i := range posts {
		if posts[i].AuthorID == userID {
			count++
		}
	}
	return count
}

// UserStats summarizes a user's posting activity.
type UserStats struct {
	TotalPosts int
	// MostActiveThreadID is empty when the user has no posts.
	MostActiveThreadID string
	MostActivePosts    int
	// MostActivePercent is the share of the user's posts in their most
	// active thread, rounded to two decimals.
	MostActivePercent float64
}

// ForUser groups the user's posts by thread and picks the busiest one. Ties
// keep the thread encountered first, so the result is deterministic for a
// given post order.
func ForUser(userID string, posts []forum.Post) UserStats {
	counts := make(map[string]int)
	var order []string
	total := 0

	for i := range posts {
		if posts[i].AuthorID != userID {
			continue
		}
		total++
		if _, seen := counts[posts[i].ThreadID]; !seen {
			order = append(order, posts[i].ThreadID)
		}
		counts[posts[i].ThreadID]++
	}

	stats := UserStats{TotalPosts: total}
	if total == 0 {
		return stats
	}

	for _, threadID := range order {
		if counts[threadID] > stats.MostActivePosts {
			stats.MostActivePosts = counts[threadID]
			stats.MostActiveThreadID = threadID
		}
	}
	stats.MostActivePercent = math.Round(float64(stats.MostActivePosts)/float64(total)*100*100) / 100
	return stats
}
