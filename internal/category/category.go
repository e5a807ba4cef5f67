// Copyright (c) 2026 Epylog. All rights reserved.

/*
Package category implements the two-tier category hierarchy.

A category with no main category is a root ("main") category; a subcategory
references exactly one root. All queries treat the hierarchy as exactly two
tiers — there is no recursive ancestor walk anywhere in the system.
*/
package category

// Category represents a subject classification for articles.
//
// MainCategory is a populated reference, resolved one level deep at read time.
// A dangling MainCategoryID (parent deleted after the child was created)
// resolves to a nil MainCategory, not an error.
type Category struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MainCategoryID *string   `json:"mainCategoryId,omitempty"`
	MainCategory   *Category `json:"mainCategory,omitempty"`
}

// IsRoot reports whether the category is a root (main) category.
func (c *Category) IsRoot() bool {
	return c.MainCategoryID == nil
}

// Patch holds the optional fields of a partial category update.
//
// A nil field was absent from the request. A present-but-empty value is
// treated as absent too: the stored value is overwritten only by a non-zero
// replacement. This mirrors the platform's long-standing update semantics and
// is pinned by tests.
type Patch struct {
	Name           *string
	MainCategoryID *string
}

// Global field names for validation
const (
	FieldName         = "name"
	FieldMainCategory = "mainCategory"
)
