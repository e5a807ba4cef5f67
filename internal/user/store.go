// Copyright (c) 2026 Epylog. All rights reserved.

package user

import (
	"context"
	"time"
)

// Repository defines the data access contract for user accounts.
type Repository interface {
	// ListUsers returns one page of matching users plus the total match
	// count. Each user carries its article summaries.
	ListUsers(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error)

	// GetUser returns the bare account row, without relations.
	GetUser(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, including the
	// password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*User, error)

	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
}

// TokenRepository tracks the set of currently valid bearer tokens per user.
//
// A signed JWT alone is not enough to authenticate: the token must also be a
// member of its user's active set. Removing it (logout) revokes it before its
// cryptographic expiry.
type TokenRepository interface {
	Add(ctx context.Context, userID, token string, ttl time.Duration) error
	Contains(ctx context.Context, userID, token string) (bool, error)
	Remove(ctx context.Context, userID, token string) error
	RemoveAll(ctx context.Context, userID string) error
}
