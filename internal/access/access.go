// Package access decides which categories a viewer may see. It is pure:
// every function works on the snapshot it is given and evaluates each
// category on its own, never walking the tree.
package access

import (
	"precinct/internal/forum"
	"precinct/internal/identity"
)

// CanView resolves viewer-to-category visibility. The rules short-circuit in
// order; later rules only apply when the earlier ones did not settle it:
//
//  1. unrestricted categories are visible to everyone, guests included
//  2. guests and civilians never see restricted categories
//  3. Faction Management bypasses every remaining check
//  4. a plaque allow-list admits viewers holding at least one listed plaque
//  5. restricted but ungated categories are visible to any sworn viewer
func CanView(viewer *forum.User, cat forum.Category) bool {
	if !cat.Restricted {
		return true
	}
	if viewer == nil || viewer.Rank == identity.RankCivilian {
		return false
	}
	if viewer.IsFactionManagement() {
		return true
	}
	if len(cat.AllowedPlaques) > 0 {
		for _, allowed := range cat.AllowedPlaques {
			if viewer.HasPlaque(allowed) {
				return true
			}
		}
		return false
	}
	return true
}

// VisibleCategories filters categories down to the viewer-visible subset,
// preserving order.
func VisibleCategories(viewer *forum.User, categories []forum.Category) []forum.Category {
	var out []forum.Category
	for _, cat := range categories {
		if CanView(viewer, cat) {
			out = append(out, cat)
		}
	}
	return out
}

// Section is a landing-page grouping of visible categories.
type Section struct {
	Name       string
	Categories []forum.Category
}

// VisibleSections groups the catalog's root categories by section, filtered
// for the viewer. Sections with no visible categories are dropped entirely.
func VisibleSections(viewer *forum.User, catalog *forum.Catalog) []Section {
	var out []Section
	for _, name := range catalog.Sections() {
		visible := VisibleCategories(viewer, catalog.BySection(name))
		if len(visible) == 0 {
			continue
		}
		out = append(out, Section{Name: name, Categories: visible})
	}
	return out
}

// VisibleSubforums keeps only the subforum links whose target category the
// viewer can independently see. A link never grants access by itself.
func VisibleSubforums(viewer *forum.User, cat forum.Category, catalog *forum.Catalog) []forum.SubforumLink {
	var out []forum.SubforumLink
	for _, link := range cat.Subforums {
		target, ok := catalog.Get(link.ID)
		if !ok {
			continue
		}
		if CanView(viewer, target) {
			out = append(out, link)
		}
	}
	return out
}
