// Copyright (c) 2026 Epylog. All rights reserved.

package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/internal/platform/validate"
	"github.com/epylog/epylog/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the accepted fields of a category creation request.
type CreateInput struct {
	Name           string  `json:"name"`
	MainCategoryID *string `json:"mainCategory"`
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) ListMainCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListRoots(context)
}

func (service *Service) ListSubcategories(context context.Context, mainID string) ([]*Category, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldMainCategory, mainID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.ListChildren(context, mainID)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	category, err := service.repo.GetCategory(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Category")
	}
	return category, err
}

func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.MainCategoryID != nil {
		if err := service.checkMainCategory(context, *input.MainCategoryID); err != nil {
			return nil, err
		}
	}

	category := &Category{
		ID:             uuidv7.New(),
		Name:           input.Name,
		MainCategoryID: input.MainCategoryID,
	}

	if err := service.repo.CreateCategory(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)

	return service.repo.GetCategory(context, category.ID)
}

// UpdateCategory applies a partial update. Absent and zero-valued fields leave
// the stored value untouched, so a subcategory can never be turned back into a
// root category through this operation.
func (service *Service) UpdateCategory(context context.Context, id string, patch Patch) (*Category, error) {
	existing, err := service.GetCategory(context, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		existing.Name = *patch.Name
	}
	if patch.MainCategoryID != nil && *patch.MainCategoryID != "" {
		if err := service.checkMainCategory(context, *patch.MainCategoryID); err != nil {
			return nil, err
		}

		// A root with subcategories cannot itself become a subcategory: its
		// children's parent would no longer be a root, creating a third tier.
		children, err := service.repo.ListChildren(context, id)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			return nil, validate.RequiredError(FieldMainCategory, "Category with subcategories must remain a root category")
		}

		existing.MainCategoryID = patch.MainCategoryID
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, existing.Name).MaxLen(FieldName, existing.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateCategory(context, existing); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}

	service.logger.Info("category_updated", slog.String("category_id", id))

	return service.repo.GetCategory(context, id)
}

// DeleteCategory removes the category row only. References held by articles
// and subcategories are left in place and resolve to an absent category on
// subsequent reads.
func (service *Service) DeleteCategory(context context.Context, id string) (*Category, error) {
	removed, err := service.repo.DeleteCategory(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Category")
	}
	if err != nil {
		return nil, err
	}

	service.logger.Warn("category_deleted",
		slog.String("category_id", id),
		slog.String("name", removed.Name),
	)
	return removed, nil
}

// checkMainCategory verifies that a referenced main category exists and is a
// root. Only two tiers are allowed: a subcategory cannot be a parent.
func (service *Service) checkMainCategory(context context.Context, mainID string) error {
	validator := &validate.Validator{}
	validator.UUID(FieldMainCategory, mainID)
	if err := validator.Err(); err != nil {
		return err
	}

	parent, err := service.repo.GetCategory(context, mainID)
	if errors.Is(err, dberr.ErrNotFound) {
		return validate.RequiredError(FieldMainCategory, "Main category does not exist")
	}
	if err != nil {
		return err
	}

	if !parent.IsRoot() {
		return validate.RequiredError(FieldMainCategory, "Main category must be a root category")
	}
	return nil
}
