// Copyright (c) 2026 Epylog. All rights reserved.

package category_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epylog/epylog/internal/category"
	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/pkg/pointer"
)

// fakeRepository is an in-memory Repository honoring the same contracts as
// the Postgres store: NotFound on misses, Conflict on (name, parent)
// duplicates, one-level population, dangling parents resolving to nil.
type fakeRepository struct {
	categories map[string]*category.Category
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{categories: map[string]*category.Category{}}
}

func (f *fakeRepository) populate(c *category.Category) *category.Category {
	clone := *c
	clone.MainCategory = nil
	if clone.MainCategoryID != nil {
		if parent, ok := f.categories[*clone.MainCategoryID]; ok {
			parentClone := *parent
			parentClone.MainCategory = nil
			clone.MainCategory = &parentClone
		}
	}
	return &clone
}

func (f *fakeRepository) hasDuplicate(c *category.Category) bool {
	for _, other := range f.categories {
		if other.ID == c.ID || other.Name != c.Name {
			continue
		}
		switch {
		case other.MainCategoryID == nil && c.MainCategoryID == nil:
			return true
		case other.MainCategoryID != nil && c.MainCategoryID != nil && *other.MainCategoryID == *c.MainCategoryID:
			return true
		}
	}
	return false
}

func (f *fakeRepository) ListCategories(_ context.Context) ([]*category.Category, error) {
	out := []*category.Category{}
	for _, c := range f.categories {
		out = append(out, f.populate(c))
	}
	return out, nil
}

func (f *fakeRepository) ListRoots(_ context.Context) ([]*category.Category, error) {
	out := []*category.Category{}
	for _, c := range f.categories {
		if c.MainCategoryID == nil {
			out = append(out, f.populate(c))
		}
	}
	return out, nil
}

func (f *fakeRepository) ListChildren(_ context.Context, mainID string) ([]*category.Category, error) {
	out := []*category.Category{}
	for _, c := range f.categories {
		if c.MainCategoryID != nil && *c.MainCategoryID == mainID {
			out = append(out, f.populate(c))
		}
	}
	return out, nil
}

func (f *fakeRepository) GetCategory(_ context.Context, id string) (*category.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return f.populate(c), nil
}

func (f *fakeRepository) CreateCategory(_ context.Context, c *category.Category) error {
	if f.hasDuplicate(c) {
		return apperr.Conflict("Category already exists under this main category")
	}
	clone := *c
	f.categories[c.ID] = &clone
	return nil
}

func (f *fakeRepository) UpdateCategory(_ context.Context, c *category.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return dberr.ErrNotFound
	}
	if f.hasDuplicate(c) {
		return apperr.Conflict("Category already exists under this main category")
	}
	clone := *c
	f.categories[c.ID] = &clone
	return nil
}

func (f *fakeRepository) DeleteCategory(_ context.Context, id string) (*category.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	delete(f.categories, id)
	return c, nil
}

func newTestService() (*category.Service, *fakeRepository) {
	repo := newFakeRepository()
	return category.NewService(repo, slog.Default()), repo
}

/*
TestCreateCategory_Root verifies a plain root category is created.
*/
func TestCreateCategory_Root(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mathematics", created.Name)
	assert.True(t, created.IsRoot())
	assert.Nil(t, created.MainCategory)
}

/*
TestCreateCategory_Subcategory verifies a child is created under an existing
root, and the read returns the populated parent.
*/
func TestCreateCategory_Subcategory(t *testing.T) {
	service, _ := newTestService()

	root, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)

	child, err := service.CreateCategory(context.Background(), category.CreateInput{
		Name:           "Algebra",
		MainCategoryID: &root.ID,
	})
	require.NoError(t, err)

	assert.False(t, child.IsRoot())
	require.NotNil(t, child.MainCategory)
	assert.Equal(t, root.ID, child.MainCategory.ID)
	assert.Equal(t, "Mathematics", child.MainCategory.Name)
}

/*
TestCreateCategory_ParentMustExist rejects references to absent parents.
*/
func TestCreateCategory_ParentMustExist(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateCategory(context.Background(), category.CreateInput{
		Name:           "Algebra",
		MainCategoryID: pointer.To("01912345-89ab-7def-8123-456789abcdef"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestCreateCategory_ParentMustBeRoot enforces the two-tier limit: a
subcategory cannot itself become a parent.
*/
func TestCreateCategory_ParentMustBeRoot(t *testing.T) {
	service, _ := newTestService()

	root, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)
	child, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Algebra", MainCategoryID: &root.ID})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), category.CreateInput{
		Name:           "Linear Algebra",
		MainCategoryID: &child.ID,
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestCreateCategory_DuplicateUnderSameParent verifies the uniqueness scope:
same name under the same parent conflicts, same name under a different
parent does not.
*/
func TestCreateCategory_DuplicateUnderSameParent(t *testing.T) {
	service, _ := newTestService()

	math, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)
	physics, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Physics"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), category.CreateInput{Name: "Basics", MainCategoryID: &math.ID})
	require.NoError(t, err)

	// Same name, same parent: conflict.
	_, err = service.CreateCategory(context.Background(), category.CreateInput{Name: "Basics", MainCategoryID: &math.ID})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Same name, different parent: fine.
	_, err = service.CreateCategory(context.Background(), category.CreateInput{Name: "Basics", MainCategoryID: &physics.ID})
	assert.NoError(t, err)

	// Duplicate root name: conflict too (NULL parents are not distinct).
	_, err = service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestUpdateCategory_IgnoresZeroValues pins the partial-update rule: fields that
are absent or empty leave the stored value untouched.
*/
func TestUpdateCategory_IgnoresZeroValues(t *testing.T) {
	service, _ := newTestService()

	root, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)
	child, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Algebra", MainCategoryID: &root.ID})
	require.NoError(t, err)

	// 1. Empty name present in the patch does not blank the stored name.
	updated, err := service.UpdateCategory(context.Background(), child.ID, category.Patch{
		Name: pointer.To(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", updated.Name)

	// 2. Empty parent id does not detach the subcategory.
	updated, err = service.UpdateCategory(context.Background(), child.ID, category.Patch{
		MainCategoryID: pointer.To(""),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.MainCategoryID)
	assert.Equal(t, root.ID, *updated.MainCategoryID)

	// 3. A real value does apply.
	updated, err = service.UpdateCategory(context.Background(), child.ID, category.Patch{
		Name: pointer.To("Abstract Algebra"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Abstract Algebra", updated.Name)
}

/*
TestUpdateCategory_RootWithChildrenStaysRoot verifies the two-tier limit from
the other direction: a root that already has subcategories cannot itself be
moved under another root, while a childless root can.
*/
func TestUpdateCategory_RootWithChildrenStaysRoot(t *testing.T) {
	service, _ := newTestService()

	math, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)
	_, err = service.CreateCategory(context.Background(), category.CreateInput{Name: "Algebra", MainCategoryID: &math.ID})
	require.NoError(t, err)
	physics, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Physics"})
	require.NoError(t, err)

	// Mathematics has a child, so it must stay a root.
	_, err = service.UpdateCategory(context.Background(), math.ID, category.Patch{
		MainCategoryID: &physics.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	kept, err := service.GetCategory(context.Background(), math.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsRoot())

	// A childless root may become a subcategory.
	moved, err := service.UpdateCategory(context.Background(), physics.ID, category.Patch{
		MainCategoryID: &math.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, moved.MainCategoryID)
	assert.Equal(t, math.ID, *moved.MainCategoryID)
}

/*
TestGetCategory_NotFound maps a missing id to a 404.
*/
func TestGetCategory_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetCategory(context.Background(), "01912345-89ab-7def-8123-456789abcdef")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "Category not found", ae.Message)
}

/*
TestDeleteCategory_LeavesDanglingChildren verifies deletion does not cascade:
subcategories keep their reference and resolve to an absent parent.
*/
func TestDeleteCategory_LeavesDanglingChildren(t *testing.T) {
	service, _ := newTestService()

	root, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Mathematics"})
	require.NoError(t, err)
	child, err := service.CreateCategory(context.Background(), category.CreateInput{Name: "Algebra", MainCategoryID: &root.ID})
	require.NoError(t, err)

	removed, err := service.DeleteCategory(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, removed.ID)

	// The child still exists, still holds the raw reference, but the
	// populated parent is gone.
	orphan, err := service.GetCategory(context.Background(), child.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan.MainCategoryID)
	assert.Equal(t, root.ID, *orphan.MainCategoryID)
	assert.Nil(t, orphan.MainCategory)

	// Deleting twice is a 404.
	_, err = service.DeleteCategory(context.Background(), root.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
