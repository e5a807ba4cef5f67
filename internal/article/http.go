// Copyright (c) 2026 Epylog. All rights reserved.

package article

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/epylog/epylog/internal/platform/constants"
	requestutil "github.com/epylog/epylog/internal/platform/request"
	"github.com/epylog/epylog/internal/platform/respond"
	"github.com/epylog/epylog/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.searchArticles)
	router.Post("/", handler.createArticle)

	router.Route("/{articleId}", func(r chi.Router) {
		r.Get("/", handler.getArticle)
		r.Put("/", handler.updateArticle)
		r.Delete("/", handler.deleteArticle)
	})
}

// searchArticles handles GET /articles?title=&category=&page=&articlesPerPage=
func (handler *Handler) searchArticles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, constants.ParamArticlesPerPage)

	filter := Filter{
		Title:      request.URL.Query().Get("title"),
		CategoryID: request.URL.Query().Get("category"),
	}

	articles, meta, err := handler.service.SearchArticles(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, meta)
}

func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "articleId")

	article, err := handler.service.GetArticle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.CreateArticle(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, article)
}

type updateArticleRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Categories  []string   `json:"categories"`
	ISCED       *int       `json:"ISCED"`
	PublishDate *time.Time `json:"publishDate"`
	Content     *string    `json:"content"`
}

func (handler *Handler) updateArticle(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "articleId")

	var input updateArticleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.UpdateArticle(request.Context(), id, Patch{
		Title:       input.Title,
		Description: input.Description,
		Categories:  input.Categories,
		ISCED:       input.ISCED,
		PublishDate: input.PublishDate,
		Content:     input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "articleId")

	removed, err := handler.service.DeleteArticle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, removed)
}
