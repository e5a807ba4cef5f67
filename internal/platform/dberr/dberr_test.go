// Copyright (c) 2026 Epylog. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/dberr"
)

/*
TestWrap_NoRowsBecomesNotFound verifies the pgx.ErrNoRows mapping both stores
rely on: a missing row surfaces as the NotFound sentinel and a 404.
*/
func TestWrap_NoRowsBecomesNotFound(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "get_article")

	assert.True(t, errors.Is(err, dberr.ErrNotFound))
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestWrap_UniqueViolationBecomesConflict verifies SQLSTATE 23505 maps to a 409,
including when the driver error arrives wrapped.
*/
func TestWrap_UniqueViolationBecomesConflict(t *testing.T) {
	violation := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	for _, err := range []error{
		dberr.Wrap(violation, "link_authorship"),
		dberr.Wrap(fmt.Errorf("exec: %w", violation), "link_authorship"),
	} {
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	}
}

/*
TestIsUniqueViolation verifies the SQLSTATE classification the stores use to
raise domain-specific conflict messages before falling back to Wrap.
*/
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, true},
		{"wrapped_unique_violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), true},
		{"foreign_key_violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, false},
		{"plain_error", errors.New("connection refused"), false},
		{"no_rows", pgx.ErrNoRows, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dberr.IsUniqueViolation(tt.err))
		})
	}
}

/*
TestWrap_UnknownBecomesStoreUnavailable verifies unclassified errors surface
as opaque 500s with the cause preserved for logging.
*/
func TestWrap_UnknownBecomesStoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := dberr.Wrap(cause, "count_articles")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STORE_UNAVAILABLE", ae.Code)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
	assert.True(t, errors.Is(err, cause))
	assert.NotContains(t, ae.Message, "dial tcp")
}

/*
TestWrap_Nil verifies a nil error stays nil.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
