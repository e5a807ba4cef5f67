// Copyright (c) 2026 Epylog. All rights reserved.

package authorship

import "context"

// Repository defines the data access contract for authorship links.
type Repository interface {
	// Link creates a new author-to-article link. Linking the same pair twice
	// fails with a Conflict error.
	Link(ctx context.Context, authorID, articleID string) (*Authorship, error)

	// UnlinkAllForArticle removes every link pointing at the given article and
	// returns the number of removed rows.
	UnlinkAllForArticle(ctx context.Context, articleID string) (int64, error)

	// AuthorsOf returns the links of a single article.
	AuthorsOf(ctx context.Context, articleID string) ([]*Authorship, error)

	// ArticlesOf returns the links held by a single author.
	ArticlesOf(ctx context.Context, authorID string) ([]*Authorship, error)
}
