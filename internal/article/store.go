// Copyright (c) 2026 Epylog. All rights reserved.

package article

import "context"

// Repository defines the data access contract for articles.
//
// Read operations return populated entities: categories (with their main
// category one level deep) and authors are resolved in batched lookups.
// Dangling references resolve to absent entries, never to errors.
type Repository interface {
	// ListArticles returns one page of matching articles plus the total match
	// count. The count reflects the filter, not the page.
	ListArticles(ctx context.Context, f Filter, limit, offset int) ([]*Article, int, error)

	GetArticle(ctx context.Context, id string) (*Article, error)

	// CreateArticle persists the article row and its ordered category
	// references in one transaction.
	CreateArticle(ctx context.Context, a *Article) error

	// UpdateArticle overwrites the article row and replaces its category
	// references with a.CategoryIDs.
	UpdateArticle(ctx context.Context, a *Article) error

	// DeleteArticle removes the article row and its category references,
	// returning the removed article. Authorship rows are not touched here.
	DeleteArticle(ctx context.Context, id string) (*Article, error)
}
