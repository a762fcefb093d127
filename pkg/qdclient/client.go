// Package qdclient provides the main entry point for creating Qodana Cloud clients.
package qdclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/qdcloud/internal/environment"
	"github.com/fivetwenty-io/qdcloud/internal/http"
	"github.com/fivetwenty-io/qdcloud/internal/metrics"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrFrontendURLRequired = errors.New("frontend URL is required")
)

// Client gives access to the versioned APIs of a Qodana Cloud deployment.
type Client struct {
	httpClient  qdcloud.HTTPClient
	environment qdcloud.Environment
}

// New creates a client for the deployment at config.FrontendURL. The
// supported API versions are discovered on first use; ctx bounds the
// lifetime of the discovery cache, cancelling it drops the cached result.
func New(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	frontendURL, err := NormalizeFrontendURL(config.FrontendURL)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if config.MetricsRegisterer != nil {
		collector = metrics.NewCollectorWithRegistry(config.MetricsRegisterer)
	}

	opts := []http.Option{
		http.WithRetryConfig(config.MaxAttempts, config.BackoffBase),
		http.WithDebug(config.Debug),
		http.WithLogger(config.Logger),
		http.WithMetrics(collector),
		http.WithHTTPClient(config.HTTPClient),
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.BackoffUnit > 0 {
		opts = append(opts, http.WithBackoffUnit(config.BackoffUnit))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	httpClient := http.NewClient(opts...)

	cacheOpts := []environment.Option{
		environment.WithFailureTTL(config.FailureCacheTTL),
		environment.WithLogger(config.Logger),
		environment.WithMetrics(collector),
	}

	if config.SuccessCacheTTL > 0 {
		cacheOpts = append(cacheOpts, environment.WithSuccessTTL(config.SuccessCacheTTL))
	}

	env := environment.RequestOn(ctx, environment.NewByFrontend(frontendURL, httpClient), cacheOpts...)

	return NewWithEnvironment(httpClient, env), nil
}

// NewWithEnvironment creates a client from its parts. env is used as is,
// wrap it with a cache if it is expensive.
func NewWithEnvironment(httpClient qdcloud.HTTPClient, env qdcloud.Environment) *Client {
	return &Client{
		httpClient:  httpClient,
		environment: env,
	}
}

// NormalizeFrontendURL trims a trailing slash and adds "https://" when
// frontendURL has no scheme.
func NormalizeFrontendURL(frontendURL string) (string, error) {
	normalized := strings.TrimSuffix(strings.TrimSpace(frontendURL), "/")
	if normalized == "" {
		return "", ErrFrontendURLRequired
	}

	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized, nil
}

// HTTPClient returns the transport of the client.
func (c *Client) HTTPClient() qdcloud.HTTPClient {
	return c.httpClient
}

// Environment returns the version discovery of the client.
func (c *Client) Environment() qdcloud.Environment {
	return c.environment
}

// API returns the host and minor version of the given major API version.
func (c *Client) API(ctx context.Context, majorVersion int) qdcloud.Response[qdcloud.API] {
	apis, err := c.environment.GetApis(ctx).Get()
	if err != nil {
		return qdcloud.FromError[qdcloud.API](err)
	}

	api, ok := apis.FindAPI(majorVersion)
	if !ok {
		return qdcloud.Failure[qdcloud.API](
			fmt.Sprintf("Qodana Cloud does not support V%d API", majorVersion),
			0,
			fmt.Errorf("%w: %d", qdcloud.ErrUnsupportedMajorVersion, majorVersion),
		)
	}

	return qdcloud.Success(api)
}

// V1 returns the V1 API facade.
func (c *Client) V1(ctx context.Context) qdcloud.Response[*v1.Client] {
	return qdcloud.Map(c.API(ctx, 1), func(api qdcloud.API) *v1.Client {
		return v1.New(api.Host, api.MinorVersion, c.httpClient)
	})
}
