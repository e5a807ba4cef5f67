// Copyright (c) 2026 Epylog. All rights reserved.

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/epylog/epylog/internal/platform/request"
	"github.com/epylog/epylog/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)
	router.Get("/maincategories", handler.listMainCategories)

	router.Route("/{categoryId}", func(r chi.Router) {
		r.Get("/", handler.getCategory)
		r.Put("/", handler.updateCategory)
		r.Delete("/", handler.deleteCategory)
		r.Get("/subcategories", handler.listSubcategories)
	})
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listMainCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListMainCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) listSubcategories(writer http.ResponseWriter, request *http.Request) {
	mainID := requestutil.Param(request, "categoryId")

	categories, err := handler.service.ListSubcategories(request.Context(), mainID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "categoryId")

	category, err := handler.service.GetCategory(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

type updateCategoryRequest struct {
	Name           *string `json:"name"`
	MainCategoryID *string `json:"mainCategory"`
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "categoryId")

	var input updateCategoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), id, Patch{
		Name:           input.Name,
		MainCategoryID: input.MainCategoryID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "categoryId")

	removed, err := handler.service.DeleteCategory(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, removed)
}
