// Copyright (c) 2026 Epylog. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and Redis token-set taxonomy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "epylog-api"
	AppVersion = "1.0.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Core operations never self-impose timeouts; this is the transport-level bound.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Pagination

const (
	// DefaultPerPage is the number of items per page when the client doesn't specify one.
	DefaultPerPage = 10

	// MaxPerPage is the upper bound for items per page to prevent system abuse.
	MaxPerPage = 100

	// ParamPage is the query parameter carrying the 1-indexed page number.
	ParamPage = "page"

	// ParamArticlesPerPage is the per-page query parameter for article searches.
	ParamArticlesPerPage = "articlesPerPage"

	// ParamUsersPerPage is the per-page query parameter for user searches.
	ParamUsersPerPage = "usersPerPage"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "epylog.app"

	// AccessTokenTTL is the lifetime of an issued auth token. Tokens are also
	// revocable earlier via logout / logoutall.
	AccessTokenTTL = 30 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length on registration.
	MinPasswordLength = 8
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Response Status Values

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// # JSON Field Identifiers

const (
	FieldData   = "data"
	FieldMeta   = "meta"
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixAuthTokens is the key prefix of the per-user active token set.
	RedisPrefixAuthTokens = "auth:tokens:"
)

// # ISCED Classification

const (
	// ISCEDMin is the lowest educational level code.
	ISCEDMin = 0

	// ISCEDMax is the highest educational level code.
	ISCEDMax = 8
)
