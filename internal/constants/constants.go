package constants

import (
	"math"
	"time"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// DefaultHTTPTimeout is the default timeout of a single request attempt.
const DefaultHTTPTimeout = 30 * time.Second

// Retry and backoff.
const (
	// DefaultMaxAttempts is the default number of attempts per logical request.
	DefaultMaxAttempts = 3

	// DefaultBackoffBase is the base of the exponential backoff: the delay
	// after failed attempt n is DefaultBackoffBase^n backoff units.
	DefaultBackoffBase = 2.0

	// DefaultBackoffUnit is the backoff unit.
	DefaultBackoffUnit = time.Second

	// MaxBackoff caps a single backoff delay.
	MaxBackoff = 5 * time.Minute
)

// Discovery cache lifetimes.
const (
	// DefaultFailureCacheTTL never reuses a failed discovery.
	DefaultFailureCacheTTL = time.Duration(0)

	// DefaultSuccessCacheTTL keeps a successful discovery forever.
	DefaultSuccessCacheTTL = time.Duration(math.MaxInt64)
)

// Qodana Cloud endpoints and headers.
const (
	// DefaultFrontendURL is the public Qodana Cloud frontend.
	DefaultFrontendURL = "https://qodana.cloud"

	// VersionsPath is the discovery endpoint, relative to the frontend.
	VersionsPath = "api/versions"

	// ContentTypeJSON is sent as Content-Type on every request.
	ContentTypeJSON = "application/json"

	// RequestIDHeader carries the id shared by all attempts of a request.
	RequestIDHeader = "X-Request-ID"

	// DefaultUserAgent is sent unless overridden.
	DefaultUserAgent = "qdcloud-go"
)
