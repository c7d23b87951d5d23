// Package category manages the product category tree.
package category

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"posflow/pkg/listing"
)

// Category is a node in the category tree. Subcategories is only filled in
// by Hierarchy.
type Category struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	ParentCategoryID string     `json:"parentCategoryId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	Subcategories    []Category `json:"subcategories,omitempty"`
}

// Repository defines behavior for persisting categories.
type Repository interface {
	Create(ctx context.Context, c Category) error
	Get(ctx context.Context, id string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c Category) error
	Delete(ctx context.Context, id string) error
}

// Errors returned by the category package.
var (
	ErrNotFound         = errors.New("category not found")
	ErrNameRequired     = errors.New("category name is required")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrSelfParent       = errors.New("category cannot be its own parent")
	ErrCycle            = errors.New("category parent chain forms a cycle")
	ErrHasSubcategories = errors.New("cannot delete category with subcategories")
)

// Matches reports whether term occurs in the name or description.
func (c Category) Matches(term string) bool {
	return listing.ContainsFold(c.Name, term) || listing.ContainsFold(c.Description, term)
}

// Parents returns the categories without a parent.
func Parents(list []Category) []Category {
	return listing.Filter(list, func(c Category) bool { return c.ParentCategoryID == "" })
}

// Children returns the direct subcategories of parentID.
func Children(list []Category, parentID string) []Category {
	return listing.Filter(list, func(c Category) bool { return c.ParentCategoryID == parentID })
}

// Hierarchy groups list into an ordered forest. Categories whose parent is
// missing from list are treated as roots. A cycle anywhere in the parent
// links yields ErrCycle.
func Hierarchy(list []Category) ([]Category, error) {
	if err := checkAcyclic(list); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(list))
	for _, c := range list {
		known[c.ID] = true
	}
	children := make(map[string][]Category)
	var roots []Category
	for _, c := range list {
		if c.ParentCategoryID == "" || !known[c.ParentCategoryID] {
			roots = append(roots, c)
			continue
		}
		children[c.ParentCategoryID] = append(children[c.ParentCategoryID], c)
	}

	var build func(nodes []Category) []Category
	build = func(nodes []Category) []Category {
		out := make([]Category, len(nodes))
		for i, n := range nodes {
			n.Subcategories = build(children[n.ID])
			out[i] = n
		}
		return out
	}
	return build(roots), nil
}

// CheckParent validates setting parentID as the parent of id within list.
// An empty parentID is always valid.
func CheckParent(list []Category, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return ErrSelfParent
	}
	parents := make(map[string]string, len(list))
	for _, c := range list {
		parents[c.ID] = c.ParentCategoryID
	}
	if _, ok := parents[parentID]; !ok {
		return ErrParentNotFound
	}
	seen := map[string]bool{}
	for cur := parentID; cur != ""; cur = parents[cur] {
		if cur == id || seen[cur] {
			return ErrCycle
		}
		seen[cur] = true
	}
	return nil
}

func checkAcyclic(list []Category) error {
	parents := make(map[string]string, len(list))
	for _, c := range list {
		parents[c.ID] = c.ParentCategoryID
	}
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(list))
	for _, c := range list {
		var path []string
		cur := c.ID
		for cur != "" && state[cur] != done {
			if state[cur] == visiting {
				return errors.Wrapf(ErrCycle, "at %q", cur)
			}
			state[cur] = visiting
			path = append(path, cur)
			next, ok := parents[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return nil
}

// NormalizeParent maps the form placeholder "none" and blanks to no parent.
func NormalizeParent(parentID string) string {
	parentID = strings.TrimSpace(parentID)
	if parentID == "none" {
		return ""
	}
	return parentID
}

// Seed returns the demo category tree.
func Seed(now time.Time) []Category {
	return []Category{
		{ID: "1", Name: "Electronics", Description: "Electronic devices and gadgets", CreatedAt: now, UpdatedAt: now},
		{ID: "2", Name: "Smartphones", ParentCategoryID: "1", Description: "Mobile phones and accessories", CreatedAt: now, UpdatedAt: now},
		{ID: "3", Name: "Laptops", ParentCategoryID: "1", Description: "Portable computers", CreatedAt: now, UpdatedAt: now},
		{ID: "4", Name: "Clothing", Description: "Apparel and fashion items", CreatedAt: now, UpdatedAt: now},
	}
}
