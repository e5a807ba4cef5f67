// Copyright (c) 2026 Epylog. All rights reserved.

/*
Package user implements account management and authentication.

It handles registration, credential login, revocable bearer tokens, profile
reads with populated article relations, and partial profile updates.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout, Search).
  - Repository: Abstracted interfaces for Postgres (accounts) and Redis
    (active token sets).
  - Security: Bcrypt password hashing and HMAC-signed JWTs whose validity is
    additionally gated on membership in the user's Redis token set.
*/
package user

import (
	"time"

	"github.com/epylog/epylog/internal/article"
)

// User is a registered account.
//
// PasswordHash never leaves the server. Articles is the virtual authorship
// relation in its summary form, attached by list reads; the detail view uses
// [Profile] instead.
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	GivenName    string           `json:"givenName"`
	FamilyName   string           `json:"familyName"`
	BirthDate    time.Time        `json:"birthDate"`
	Interests    []string         `json:"interests"`
	Description  *string          `json:"description,omitempty"`
	Articles     []ArticleSummary `json:"articles,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ArticleSummary is the shallow article projection attached to user lists.
type ArticleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Profile is the detail view of a user: the account plus fully populated
// articles (categories and co-authors resolved). The outer Articles field
// replaces the summary list of the embedded User.
type Profile struct {
	User
	Articles []*article.Article `json:"articles"`
}

// Filter narrows a user search. Zero-valued fields are ignored.
type Filter struct {
	// FamilyName is matched as a case-insensitive substring.
	FamilyName string
}

// Patch holds the optional fields of a partial profile update.
//
// A nil field was absent from the request; a present-but-zero value leaves
// the stored field untouched.
type Patch struct {
	Email       *string
	Password    *string
	GivenName   *string
	FamilyName  *string
	BirthDate   *time.Time
	Interests   []string
	Description *string
}

// Global field names for validation
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldGivenName   = "givenName"
	FieldFamilyName  = "familyName"
	FieldBirthDate   = "birthDate"
	FieldInterests   = "interests"
	FieldDescription = "description"
)
