// Copyright (c) 2026 Epylog. All rights reserved.

package user_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epylog/epylog/internal/article"
	"github.com/epylog/epylog/internal/authorship"
	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/internal/platform/sec"
	"github.com/epylog/epylog/internal/user"
	"github.com/epylog/epylog/pkg/pagination"
	"github.com/epylog/epylog/pkg/pointer"
)

// fakeRepository is an in-memory account store. Read projections strip the
// password hash, matching the Postgres store's column selection; only
// FindByEmail includes it.
type fakeRepository struct {
	users map[string]*user.User
	order []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*user.User{}}
}

func (f *fakeRepository) projection(u *user.User) *user.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

func (f *fakeRepository) emailTaken(email, excludeID string) bool {
	for _, other := range f.users {
		if other.ID != excludeID && other.Email == email {
			return true
		}
	}
	return false
}

func (f *fakeRepository) ListUsers(_ context.Context, filter user.Filter, limit, offset int) ([]*user.User, int, error) {
	var all []*user.User
	for _, id := range f.order {
		u := f.users[id]
		if filter.FamilyName != "" && !strings.Contains(strings.ToLower(u.FamilyName), strings.ToLower(filter.FamilyName)) {
			continue
		}
		all = append(all, f.projection(u))
	}

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepository) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return f.projection(u), nil
}

func (f *fakeRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRepository) CreateUser(_ context.Context, u *user.User) error {
	if f.emailTaken(u.Email, u.ID) {
		return apperr.Conflict("Email is already registered")
	}
	clone := *u
	f.users[u.ID] = &clone
	f.order = append(f.order, u.ID)
	return nil
}

func (f *fakeRepository) UpdateUser(_ context.Context, u *user.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return dberr.ErrNotFound
	}
	if f.emailTaken(u.Email, u.ID) {
		return apperr.Conflict("Email is already registered")
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

// fakeTokens is an in-memory stand-in for the Redis active-token sets.
type fakeTokens struct {
	sets map[string]map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{sets: map[string]map[string]bool{}}
}

func (f *fakeTokens) Add(_ context.Context, userID, token string, _ time.Duration) error {
	if f.sets[userID] == nil {
		f.sets[userID] = map[string]bool{}
	}
	f.sets[userID][token] = true
	return nil
}

func (f *fakeTokens) Contains(_ context.Context, userID, token string) (bool, error) {
	return f.sets[userID][token], nil
}

func (f *fakeTokens) Remove(_ context.Context, userID, token string) error {
	delete(f.sets[userID], token)
	return nil
}

func (f *fakeTokens) RemoveAll(_ context.Context, userID string) error {
	delete(f.sets, userID)
	return nil
}

// fakeLinks records authorship links for the profile view.
type fakeLinks struct {
	links []*authorship.Authorship
}

func (f *fakeLinks) Link(_ context.Context, authorID, articleID string) (*authorship.Authorship, error) {
	link := &authorship.Authorship{
		ID:        fmt.Sprintf("link-%d", len(f.links)+1),
		AuthorID:  authorID,
		ArticleID: articleID,
	}
	f.links = append(f.links, link)
	return link, nil
}

func (f *fakeLinks) UnlinkAllForArticle(_ context.Context, articleID string) (int64, error) {
	var kept []*authorship.Authorship
	var removed int64
	for _, link := range f.links {
		if link.ArticleID == articleID {
			removed++
			continue
		}
		kept = append(kept, link)
	}
	f.links = kept
	return removed, nil
}

func (f *fakeLinks) AuthorsOf(_ context.Context, articleID string) ([]*authorship.Authorship, error) {
	var out []*authorship.Authorship
	for _, link := range f.links {
		if link.ArticleID == articleID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (f *fakeLinks) ArticlesOf(_ context.Context, authorID string) ([]*authorship.Authorship, error) {
	var out []*authorship.Authorship
	for _, link := range f.links {
		if link.AuthorID == authorID {
			out = append(out, link)
		}
	}
	return out, nil
}

// fakeArticles resolves article ids for the profile view. Absent ids behave
// like the article service: NotFound.
type fakeArticles struct {
	articles map[string]*article.Article
}

func (f *fakeArticles) GetArticle(_ context.Context, id string) (*article.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, apperr.NotFound("Article")
	}
	return a, nil
}

type fixture struct {
	service  *user.Service
	repo     *fakeRepository
	tokens   *fakeTokens
	links    *fakeLinks
	articles *fakeArticles
	provider *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	provider, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", "epylog.app")
	require.NoError(t, err)

	repo := newFakeRepository()
	tokens := newFakeTokens()
	links := &fakeLinks{}
	articles := &fakeArticles{articles: map[string]*article.Article{}}

	return &fixture{
		service:  user.NewService(repo, tokens, links, articles, provider, slog.Default()),
		repo:     repo,
		tokens:   tokens,
		links:    links,
		articles: articles,
		provider: provider,
	}
}

func validRegistration(email string) user.RegisterInput {
	return user.RegisterInput{
		Email:      email,
		Password:   "hunter2hunter2",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		BirthDate:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
	}
}

// # Registration & Login

/*
TestRegister_IssuesVerifiableToken verifies registration returns an account
and a token that passes both verification gates.
*/
func TestRegister_IssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)

	created, token, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := f.service.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	// Interests default to an empty list, never null.
	assert.NotNil(t, created.Interests)
	assert.Empty(t, created.Interests)

	// The stored credential is a hash, not the plaintext.
	stored := f.repo.users[created.ID]
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter2hunter2", stored.PasswordHash))
}

/*
TestRegister_Validation rejects structurally invalid registrations.
*/
func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*user.RegisterInput)
	}{
		{"bad_email", func(i *user.RegisterInput) { i.Email = "not-an-email" }},
		{"short_password", func(i *user.RegisterInput) { i.Password = "short" }},
		{"missing_given_name", func(i *user.RegisterInput) { i.GivenName = "" }},
		{"missing_family_name", func(i *user.RegisterInput) { i.FamilyName = "" }},
		{"missing_birth_date", func(i *user.RegisterInput) { i.BirthDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			input := validRegistration("ada@example.com")
			tt.mutate(&input)

			_, _, err := f.service.Register(context.Background(), input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestRegister_DuplicateEmail verifies the email uniqueness conflict.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	_, _, err = f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestLogin_BadCredentials verifies an unknown email and a wrong password are
indistinguishable: same code, same message.
*/
func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	_, _, unknownErr := f.service.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	_, _, wrongErr := f.service.Login(context.Background(), "ada@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(unknownErr).Code)
	assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
}

// # Token Lifecycle

/*
TestLogout_RevokesSingleSession verifies logging out one session leaves the
other session's token valid.
*/
func TestLogout_RevokesSingleSession(t *testing.T) {
	f := newFixture(t)

	created, firstToken, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	// JWT timestamps have second precision; cross a second boundary so the
	// second token is a distinct string.
	time.Sleep(time.Second)

	_, secondToken, err := f.service.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, firstToken, secondToken)

	require.NoError(t, f.service.Logout(context.Background(), created.ID, secondToken))

	// The logged-out token fails the set-membership gate despite a valid
	// signature; the other stays usable.
	_, err = f.service.VerifyToken(context.Background(), secondToken)
	require.Error(t, err)
	assert.Equal(t, "Token has been revoked", apperr.As(err).Message)

	_, err = f.service.VerifyToken(context.Background(), firstToken)
	assert.NoError(t, err)
}

/*
TestLogoutAll_RevokesEverySession verifies all active tokens are dropped.
*/
func TestLogoutAll_RevokesEverySession(t *testing.T) {
	f := newFixture(t)

	created, firstToken, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)
	_, secondToken, err := f.service.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, f.service.LogoutAll(context.Background(), created.ID))

	for _, token := range []string{firstToken, secondToken} {
		_, err = f.service.VerifyToken(context.Background(), token)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}
}

/*
TestVerifyToken_TwoGates verifies both failure modes: a token that never
parses, and a well-signed token missing from the active set.
*/
func TestVerifyToken_TwoGates(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.VerifyToken(context.Background(), "not.a.jwt")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired token", apperr.As(err).Message)

	// Signed by our own provider but never issued through login, so it is
	// absent from the active set.
	orphan, err := f.provider.GenerateAccessToken("some-user", time.Hour)
	require.NoError(t, err)

	_, err = f.service.VerifyToken(context.Background(), orphan)
	require.Error(t, err)
	assert.Equal(t, "Token has been revoked", apperr.As(err).Message)
}

// # Search & Profile

/*
TestSearchUsers_ThreeOutcomes verifies the paginated listing semantics:
404 on an empty match set, a pagination error past the last page, data
otherwise.
*/
func TestSearchUsers_ThreeOutcomes(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.SearchUsers(context.Background(), user.Filter{}, pagination.Params{Page: 1, PerPage: 10})
	require.Error(t, err)
	ae := apperr.As(err)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "Users not found", ae.Message)

	for i := 0; i < 3; i++ {
		input := validRegistration(fmt.Sprintf("user%d@example.com", i))
		input.FamilyName = "Lovelace"
		_, _, err = f.service.Register(context.Background(), input)
		require.NoError(t, err)
	}

	_, _, err = f.service.SearchUsers(context.Background(), user.Filter{}, pagination.Params{Page: 2, PerPage: 10})
	require.Error(t, err)
	assert.Equal(t, "PAGINATION_OUT_OF_RANGE", apperr.As(err).Code)

	users, meta, err := f.service.SearchUsers(context.Background(),
		user.Filter{FamilyName: "love"}, pagination.Params{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestGetProfile_SkipsDanglingArticles verifies the profile view: authored
articles are resolved in full, and links pointing at deleted articles are
silently skipped.
*/
func TestGetProfile_SkipsDanglingArticles(t *testing.T) {
	f := newFixture(t)

	created, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	f.articles.articles["article-1"] = &article.Article{ID: "article-1", Title: "Analytical Engines"}
	_, err = f.links.Link(context.Background(), created.ID, "article-1")
	require.NoError(t, err)
	_, err = f.links.Link(context.Background(), created.ID, "article-gone")
	require.NoError(t, err)

	profile, err := f.service.GetProfile(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, profile.Articles, 1)
	assert.Equal(t, "Analytical Engines", profile.Articles[0].Title)
}

/*
TestGetProfile_NotFound maps a missing account to a 404.
*/
func TestGetProfile_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetProfile(context.Background(), "01912345-89ab-7def-8123-456789abcdef")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, "User not found", ae.Message)
}

// # Partial Update

/*
TestUpdateAccount_IgnoresZeroValues pins the partial-update rule for accounts
and, critically, that the stored password hash survives an update that does
not touch the password.
*/
func TestUpdateAccount_IgnoresZeroValues(t *testing.T) {
	f := newFixture(t)

	created, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	updated, err := f.service.UpdateAccount(context.Background(), created.ID, user.Patch{
		Email:      pointer.To(""),
		GivenName:  pointer.To(""),
		FamilyName: pointer.To("Byron"),
		Interests:  []string{},
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, "Ada", updated.GivenName)
	assert.Equal(t, "Byron", updated.FamilyName)

	// The old password still logs in.
	_, _, err = f.service.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	assert.NoError(t, err)
}

/*
TestUpdateAccount_ChangesPassword verifies a new password is re-hashed: the
new one logs in, the old one does not.
*/
func TestUpdateAccount_ChangesPassword(t *testing.T) {
	f := newFixture(t)

	created, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	_, err = f.service.UpdateAccount(context.Background(), created.ID, user.Patch{
		Password: pointer.To("correct-horse-battery"),
	})
	require.NoError(t, err)

	_, _, err = f.service.Login(context.Background(), "ada@example.com", "correct-horse-battery")
	assert.NoError(t, err)

	_, _, err = f.service.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestUpdateAccount_ChangesEmail verifies an email change keeps the credential
intact: the account logs in under the new address with the old password.
*/
func TestUpdateAccount_ChangesEmail(t *testing.T) {
	f := newFixture(t)

	created, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	updated, err := f.service.UpdateAccount(context.Background(), created.ID, user.Patch{
		Email: pointer.To("countess@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", updated.Email)

	_, _, err = f.service.Login(context.Background(), "countess@example.com", "hunter2hunter2")
	assert.NoError(t, err)
}

/*
TestUpdateAccount_RejectsShortPassword verifies patched credentials are still
validated.
*/
func TestUpdateAccount_RejectsShortPassword(t *testing.T) {
	f := newFixture(t)

	created, _, err := f.service.Register(context.Background(), validRegistration("ada@example.com"))
	require.NoError(t, err)

	_, err = f.service.UpdateAccount(context.Background(), created.ID, user.Patch{
		Password: pointer.To("short"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
