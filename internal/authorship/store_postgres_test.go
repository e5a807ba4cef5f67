// Copyright (c) 2026 Epylog. All rights reserved.

package authorship

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epylog/epylog/internal/platform/apperr"
)

/*
TestMapLinkError verifies the insert-error classification behind Link: a
duplicate (author, article) pair surfaces as a 409 with the domain message,
anything else as an opaque store failure.
*/
func TestMapLinkError(t *testing.T) {
	// Duplicate pair: the unique index on (authorid, articleid) fires.
	err := mapLinkError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "authorship_author_article_unique",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "Authorship already exists for this author and article", ae.Message)

	// Anything else stays a server-side failure with the cause preserved.
	cause := errors.New("dial tcp: connection refused")
	err = mapLinkError(cause)

	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STORE_UNAVAILABLE", ae.Code)
	assert.True(t, errors.Is(err, cause))
}
