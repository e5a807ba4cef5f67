// Copyright (c) 2026 Epylog. All rights reserved.

package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/epylog/epylog/internal/article"
	"github.com/epylog/epylog/internal/authorship"
	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/constants"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/internal/platform/sec"
	"github.com/epylog/epylog/internal/platform/validate"
	"github.com/epylog/epylog/pkg/pagination"
	"github.com/epylog/epylog/pkg/uuidv7"
)

// TokenProvider defines the contract for minting and checking signed tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyToken parses and cryptographically validates a token string.
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// ArticleResolver is the slice of the article repository the profile view
// needs: full population of a single article.
type ArticleResolver interface {
	GetArticle(ctx context.Context, id string) (*article.Article, error)
}

// Service implements account and authentication use cases.
type Service struct {
	users         Repository
	tokens        TokenRepository
	links         authorship.Repository
	articles      ArticleResolver
	tokenProvider TokenProvider
	logger        *slog.Logger
}

func NewService(
	users Repository,
	tokens TokenRepository,
	links authorship.Repository,
	articles ArticleResolver,
	tokenProvider TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		links:         links,
		articles:      articles,
		tokenProvider: tokenProvider,
		logger:        logger,
	}
}

// # Registration & Login

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	GivenName   string    `json:"givenName"`
	FamilyName  string    `json:"familyName"`
	BirthDate   time.Time `json:"birthDate"`
	Interests   []string  `json:"interests"`
	Description *string   `json:"description"`
}

// Register validates, hashes, and persists a new account, then issues its
// first access token.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, string, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, constants.MinPasswordLength).
		Required(FieldGivenName, input.GivenName).
		Required(FieldFamilyName, input.FamilyName).
		RequiredDate(FieldBirthDate, input.BirthDate)

	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	interests := input.Interests
	if interests == nil {
		interests = []string{}
	}

	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		GivenName:    input.GivenName,
		FamilyName:   input.FamilyName,
		BirthDate:    input.BirthDate,
		Interests:    interests,
		Description:  input.Description,
	}

	// The unique index on email is the source of truth for duplicates; the
	// store maps its violation to a Conflict.
	if err := service.users.CreateUser(context, user); err != nil {
		return nil, "", err
	}

	token, err := service.issueToken(context, user.ID)
	if err != nil {
		return nil, "", err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login checks credentials and issues a new access token. The new token is
// added to the user's active set; previously issued tokens stay valid.
func (service *Service) Login(context context.Context, email, password string) (*User, string, error) {
	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		// A missing account and a bad password are indistinguishable to the
		// client.
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, "", apperr.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}

	token, err := service.issueToken(context, user.ID)
	if err != nil {
		return nil, "", err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return user, token, nil
}

func (service *Service) issueToken(context context.Context, userID string) (string, error) {
	token, err := service.tokenProvider.GenerateAccessToken(userID, constants.AccessTokenTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}

	if err := service.tokens.Add(context, userID, token, constants.AccessTokenTTL); err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// # Token Verification & Revocation

// VerifyToken authenticates a bearer token string.
//
// Two gates must pass: the signature and expiry of the JWT itself, and
// membership in the user's active token set. A logged-out token fails the
// second gate even though its signature is still valid.
func (service *Service) VerifyToken(context context.Context, tokenString string) (*sec.AuthClaims, error) {
	claims, err := service.tokenProvider.VerifyToken(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	active, err := service.tokens.Contains(context, claims.UserID, tokenString)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !active {
		return nil, apperr.Unauthorized("Token has been revoked")
	}

	return claims, nil
}

// Logout revokes the single token used for the current session.
func (service *Service) Logout(context context.Context, userID, token string) error {
	if err := service.tokens.Remove(context, userID, token); err != nil {
		return apperr.Internal(err)
	}

	service.logger.Info("user_logged_out", slog.String("user_id", userID))
	return nil
}

// LogoutAll revokes every active token of the user.
func (service *Service) LogoutAll(context context.Context, userID string) error {
	if err := service.tokens.RemoveAll(context, userID); err != nil {
		return apperr.Internal(err)
	}

	service.logger.Info("user_logged_out_everywhere", slog.String("user_id", userID))
	return nil
}

// # Reads

/*
SearchUsers returns one page of the filtered account list.

Same three-way outcome as the article search: NotFound when the filter
matches nothing at all, PaginationOutOfRange when matches exist but the page
lies beyond them, otherwise the page plus metadata.
*/
func (service *Service) SearchUsers(context context.Context, filter Filter, params pagination.Params) ([]*User, pagination.Meta, error) {
	users, total, err := service.users.ListUsers(context, filter, params.PerPage, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	if total == 0 {
		return nil, pagination.Meta{}, apperr.NotFound("Users")
	}
	if len(users) == 0 {
		return nil, pagination.Meta{}, apperr.PaginationOutOfRange(total)
	}

	return users, pagination.NewMeta(params.Page, params.PerPage, total), nil
}

// GetProfile returns a user with fully populated articles: each authored
// article carries its categories (main category resolved) and co-authors.
// Authorship links pointing at deleted articles are skipped silently.
func (service *Service) GetProfile(context context.Context, id string) (*Profile, error) {
	account, err := service.GetAccount(context, id)
	if err != nil {
		return nil, err
	}

	links, err := service.links.ArticlesOf(context, id)
	if err != nil {
		return nil, err
	}

	articles := make([]*article.Article, 0, len(links))
	for _, link := range links {
		populated, err := service.articles.GetArticle(context, link.ArticleID)
		if err != nil {
			if apperr.As(err) != nil && apperr.As(err).Code == "NOT_FOUND" {
				continue
			}
			return nil, err
		}
		articles = append(articles, populated)
	}

	return &Profile{User: *account, Articles: articles}, nil
}

// GetAccount returns the bare account row.
func (service *Service) GetAccount(context context.Context, id string) (*User, error) {
	account, err := service.users.GetUser(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("User")
	}
	return account, err
}

// # Updates

// UpdateAccount applies a partial profile update. Absent and zero-valued
// fields leave the stored value untouched. A new password is re-hashed before
// storage.
func (service *Service) UpdateAccount(context context.Context, id string, patch Patch) (*User, error) {
	existing, err := service.GetAccount(context, id)
	if err != nil {
		return nil, err
	}

	// The read projections never load the hash; fetch it up front (keyed on
	// the current email, before the patch may change it) so the full-row
	// update doesn't blank it.
	withHash, err := service.users.FindByEmail(context, existing.Email)
	if err != nil {
		return nil, err
	}
	existing.PasswordHash = withHash.PasswordHash

	validator := &validate.Validator{}

	if patch.Email != nil && *patch.Email != "" {
		validator.Email(FieldEmail, *patch.Email)
		existing.Email = *patch.Email
	}
	if patch.Password != nil && *patch.Password != "" {
		validator.MinLen(FieldPassword, *patch.Password, constants.MinPasswordLength)
	}
	if patch.GivenName != nil && *patch.GivenName != "" {
		existing.GivenName = *patch.GivenName
	}
	if patch.FamilyName != nil && *patch.FamilyName != "" {
		existing.FamilyName = *patch.FamilyName
	}
	if patch.BirthDate != nil && !patch.BirthDate.IsZero() {
		existing.BirthDate = *patch.BirthDate
	}
	if len(patch.Interests) > 0 {
		existing.Interests = patch.Interests
	}
	if patch.Description != nil && *patch.Description != "" {
		existing.Description = patch.Description
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.Password != nil && *patch.Password != "" {
		hashedPassword, err := sec.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		existing.PasswordHash = hashedPassword
	}

	if err := service.users.UpdateUser(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated", slog.String("user_id", id))
	return existing, nil
}
