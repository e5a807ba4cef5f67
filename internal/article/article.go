// Copyright (c) 2026 Epylog. All rights reserved.

/*
Package article implements the publication catalogue: filtered search with
pagination, relational population of categories and authors, and the full
article lifecycle.

Articles reference categories by id and are linked to their authors through
the authorship package. Read operations return fully populated entities; the
raw id lists only exist on the write path.
*/
package article

import (
	"time"

	"github.com/epylog/epylog/internal/category"
)

// Article is a single publication.
//
// Categories and Authors are populated relations. CategoryIDs holds the raw
// references (including dangling ones) and is used on the write path only.
type Article struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	CategoryIDs []string             `json:"-"`
	Categories  []*category.Category `json:"categories"`
	ISCED       int                  `json:"ISCED"`
	PublishDate time.Time            `json:"publishDate"`
	UploadDate  time.Time            `json:"uploadDate"`
	Content     string               `json:"content"`
	Authors     []*Author            `json:"authors"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Author is the public projection of a user attached to an article.
// Credentials never appear here.
type Author struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	GivenName   string    `json:"givenName"`
	FamilyName  string    `json:"familyName"`
	BirthDate   time.Time `json:"birthDate"`
	Interests   []string  `json:"interests"`
	Description *string   `json:"description,omitempty"`
}

// Filter narrows an article search. Zero-valued fields are ignored.
type Filter struct {
	// Title is matched as a case-insensitive substring.
	Title string
	// CategoryID keeps only articles referencing the given category.
	CategoryID string
}

// Patch holds the optional fields of a partial article update.
//
// A nil field was absent from the request; a present-but-zero value leaves
// the stored field untouched. Note that this makes ISCED level 0 unreachable
// through an update — only creation can set it.
type Patch struct {
	Title       *string
	Description *string
	Categories  []string
	ISCED       *int
	PublishDate *time.Time
	Content     *string
}

// Global field names for validation
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategories  = "categories"
	FieldISCED       = "ISCED"
	FieldPublishDate = "publishDate"
	FieldContent     = "content"
	FieldAuthors     = "authors"
)
