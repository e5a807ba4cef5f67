// Copyright (c) 2026 Epylog. All rights reserved.

package category

import "context"

// Repository defines the data access contract for categories.
//
// All read operations resolve the MainCategory reference one level deep.
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	ListRoots(ctx context.Context) ([]*Category, error)
	ListChildren(ctx context.Context, mainID string) ([]*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) (*Category, error)
}
