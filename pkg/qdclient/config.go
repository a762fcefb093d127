package qdclient

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// Config configures a Client.
type Config struct {
	// Required fields
	// FrontendURL: URL of the Qodana Cloud frontend, e.g. "https://qodana.cloud".
	// New trims a trailing slash and adds "https://" when no scheme is present.
	FrontendURL string

	// Optional configurations
	// HTTPTimeout: timeout of a single HTTP attempt. Default 30s.
	HTTPTimeout time.Duration
	// MaxAttempts: attempts per request, the first one included. Default 3.
	MaxAttempts int
	// BackoffBase: the delay after failed attempt n is BackoffBase^n * BackoffUnit. Default 2.
	BackoffBase float64
	// BackoffUnit: default 1s.
	BackoffUnit time.Duration
	// FailureCacheTTL: how long a failed version discovery is reused. Default 0.
	FailureCacheTTL time.Duration
	// SuccessCacheTTL: how long a successful version discovery is reused.
	// 0 keeps it for the lifetime of the client.
	SuccessCacheTTL time.Duration
	// UserAgent: User-Agent header of every request.
	UserAgent string
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger qdcloud.Logger
	// MetricsRegisterer: registers the client metrics when set.
	MetricsRegisterer prometheus.Registerer
	// HTTPClient: underlying client, a pooled client by default.
	HTTPClient *http.Client
}
