package forum

import "fmt"

// Catalog is the immutable category forest. It is built once at startup;
// subforum links and parent references are validated here so the rest of the
// code can assume every id resolves.
type Catalog struct {
	categories []Category
	byID       map[string]int
	sections   []string
}

func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, len(categories)),
		byID:       make(map[string]int, len(categories)),
	}
	copy(c.categories, categories)

	for i, cat := range c.categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("category at index %d has no id", i)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", cat.ID)
		}
		c.byID[cat.ID] = i
	}

	seenSections := make(map[string]bool)
	for i := range c.categories {
		cat := &c.categories[i]

		if cat.ParentID != "" {
			if _, ok := c.byID[cat.ParentID]; !ok {
				return nil, fmt.Errorf("category %q: parent %q not found", cat.ID, cat.ParentID)
			}
		}
		for _, link := range cat.Subforums {
			if _, ok := c.byID[link.ID]; !ok {
				return nil, fmt.Errorf("category %q: subforum link %q does not resolve", cat.ID, link.ID)
			}
		}

		switch {
		case cat.ExternalLink != "":
			cat.Kind = KindLink
		case len(cat.Subforums) > 0:
			cat.Kind = KindHub
		default:
			cat.Kind = KindLeaf
		}

		if cat.Section != "" && !seenSections[cat.Section] {
			seenSections[cat.Section] = true
			c.sections = append(c.sections, cat.Section)
		}
	}

	return c, nil
}

func (c *Catalog) Get(id string) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// All returns the categories in declaration order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Children(parentID string) []Category {
	var out []Category
	for _, cat := range c.categories {
		if cat.ParentID == parentID {
			out = append(out, cat)
		}
	}
	return out
}

// Sections returns section names in first-seen order.
func (c *Catalog) Sections() []string {
	out := make([]string, len(c.sections))
	copy(out, c.sections)
	return out
}

func (c *Catalog) BySection(section string) []Category {
	var out []Category
	for _, cat := range c.categories {
		if cat.Section == section {
			out = append(out, cat)
		}
	}
	return out
}
