// Copyright (c) 2026 Epylog. All rights reserved.

package article

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/epylog/epylog/internal/authorship"
	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/constants"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/internal/platform/validate"
	"github.com/epylog/epylog/pkg/pagination"
	"github.com/epylog/epylog/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	links  authorship.Repository
	logger *slog.Logger
}

func NewService(repo Repository, links authorship.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		links:  links,
		logger: logger,
	}
}

// CreateInput carries the accepted fields of an article creation request.
type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	ISCED       int       `json:"ISCED"`
	PublishDate time.Time `json:"publishDate"`
	UploadDate  time.Time `json:"uploadDate"`
	Content     string    `json:"content"`
	Authors     []string  `json:"authors"`
}

/*
SearchArticles returns one page of the filtered catalogue.

The outcome is three-way and driven by the total match count, not the page
content:

  - no matches at all: NotFound
  - matches exist but the page lies beyond them: PaginationOutOfRange
  - otherwise: the page plus metadata computed from the total

An in-range page therefore never succeeds emptily.
*/
func (service *Service) SearchArticles(context context.Context, filter Filter, params pagination.Params) ([]*Article, pagination.Meta, error) {
	articles, total, err := service.repo.ListArticles(context, filter, params.PerPage, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if total == 0 {
		return nil, pagination.Meta{}, apperr.NotFound("Articles")
	}
	if len(articles) == 0 {
		return nil, pagination.Meta{}, apperr.PaginationOutOfRange(total)
	}

	return articles, pagination.NewMeta(params.Page, params.PerPage, total), nil
}

func (service *Service) GetArticle(context context.Context, id string) (*Article, error) {
	article, err := service.repo.GetArticle(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Article")
	}
	return article, err
}

// CreateArticle persists a new article and links its authors.
//
// Author links are created one by one after the article row exists. The first
// duplicate pair aborts the whole operation with a Conflict; links created up
// to that point remain, matching the sequential write behavior of the API.
func (service *Service) CreateArticle(context context.Context, input CreateInput) (*Article, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 300).
		Required(FieldDescription, input.Description).
		Required(FieldContent, input.Content).
		NonEmpty(FieldCategories, len(input.Categories)).
		Range(FieldISCED, input.ISCED, constants.ISCEDMin, constants.ISCEDMax).
		RequiredDate(FieldPublishDate, input.PublishDate)

	for _, categoryID := range input.Categories {
		validator.UUID(FieldCategories, categoryID)
	}
	for _, authorID := range input.Authors {
		validator.UUID(FieldAuthors, authorID)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	uploadDate := input.UploadDate
	if uploadDate.IsZero() {
		uploadDate = time.Now().UTC()
	}

	article := &Article{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Description: input.Description,
		CategoryIDs: dedupe(input.Categories),
		ISCED:       input.ISCED,
		PublishDate: input.PublishDate,
		UploadDate:  uploadDate,
		Content:     input.Content,
	}

	if err := service.repo.CreateArticle(context, article); err != nil {
		return nil, err
	}

	for _, authorID := range dedupe(input.Authors) {
		if _, err := service.links.Link(context, authorID, article.ID); err != nil {
			return nil, err
		}
	}

	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("title", article.Title),
		slog.Int("author_count", len(input.Authors)),
	)

	return service.repo.GetArticle(context, article.ID)
}

// UpdateArticle applies a partial update. Absent and zero-valued fields leave
// the stored value untouched.
func (service *Service) UpdateArticle(context context.Context, id string, patch Patch) (*Article, error) {
	existing, err := service.GetArticle(context, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		existing.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != "" {
		existing.Description = *patch.Description
	}
	if patch.Content != nil && *patch.Content != "" {
		existing.Content = *patch.Content
	}
	if patch.ISCED != nil && *patch.ISCED != 0 {
		existing.ISCED = *patch.ISCED
	}
	if patch.PublishDate != nil && !patch.PublishDate.IsZero() {
		existing.PublishDate = *patch.PublishDate
	}
	if len(patch.Categories) > 0 {
		existing.CategoryIDs = dedupe(patch.Categories)
	}

	validator := &validate.Validator{}
	validator.
		MaxLen(FieldTitle, existing.Title, 300).
		Range(FieldISCED, existing.ISCED, constants.ISCEDMin, constants.ISCEDMax)
	for _, categoryID := range existing.CategoryIDs {
		validator.UUID(FieldCategories, categoryID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateArticle(context, existing); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Article")
		}
		return nil, err
	}

	service.logger.Info("article_updated", slog.String("article_id", id))

	return service.repo.GetArticle(context, id)
}

// DeleteArticle removes an article and cascades over its authorship links.
//
// The article row goes first; if it doesn't exist the operation aborts with
// NotFound and no links are touched. The cascade runs after the row is gone,
// so a crash in between leaves orphaned links rather than a half-deleted
// article.
func (service *Service) DeleteArticle(context context.Context, id string) (*Article, error) {
	removed, err := service.repo.DeleteArticle(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Article")
	}
	if err != nil {
		return nil, err
	}

	unlinked, err := service.links.UnlinkAllForArticle(context, id)
	if err != nil {
		return nil, err
	}

	service.logger.Warn("article_deleted",
		slog.String("article_id", id),
		slog.String("title", removed.Title),
		slog.Int64("authorships_removed", unlinked),
	)
	return removed, nil
}

// dedupe drops repeated ids while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
