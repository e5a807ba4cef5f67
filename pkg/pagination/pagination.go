// Copyright (c) 2026 Epylog. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
//
// The per-page query parameter is named per domain (articlesPerPage,
// usersPerPage), so [FromRequest] takes the parameter name as an argument.
package pagination

import (
	"net/http"

	"github.com/epylog/epylog/pkg/convert"
)

const (
	// DefaultPerPage is the number of items per page if not specified.
	DefaultPerPage = 10
	// MaxPerPage is the upper bound for items per page to prevent system abuse.
	MaxPerPage = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// pageParam is the query parameter carrying the page number.
	pageParam = "page"
)

// Params holds the parsed page and per-page values from a request's query string.
type Params struct {
	Page    int
	PerPage int
}

// Offset returns the SQL OFFSET value derived from Page and PerPage.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is the ceiling of total/perPage, so a partially filled last page
// still counts as a page.
func NewMeta(page, perPage, total int) Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses the "page" and the named per-page query parameters.
//
// # Fallbacks
//
// An invalid or non-positive page becomes [DefaultPage]. A per-page value
// below 1 or above [MaxPerPage] falls back to [DefaultPerPage] — it is never
// capped at the maximum.
func FromRequest(r *http.Request, perPageParam string) Params {
	page := convert.ToIntD(r.URL.Query().Get(pageParam), DefaultPage)
	perPage := convert.ToIntD(r.URL.Query().Get(perPageParam), DefaultPerPage)

	if page < 1 {
		page = DefaultPage
	}

	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	return Params{Page: page, PerPage: perPage}
}
