// Package http implements the retrying Qodana Cloud transport.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/semaphore"

	"github.com/fivetwenty-io/qdcloud/internal/constants"
	"github.com/fivetwenty-io/qdcloud/internal/metrics"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// Static errors for err113 compliance.
var (
	ErrInvalidHost = errors.New("host must be an absolute http(s) URL")
)

// DefaultMaxConcurrentRequests bounds the attempts in flight per Client.
const DefaultMaxConcurrentRequests = 64

// Client sends requests to Qodana Cloud hosts, retrying transient failures
// with exponential backoff. It implements qdcloud.HTTPClient and keeps no
// state between calls.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	backoffBase float64
	backoffUnit time.Duration
	userAgent   string
	logger      qdcloud.Logger
	debug       bool
	metrics     *metrics.Collector
	limit       int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig sets the number of attempts per request and the base of
// the exponential backoff between them.
func WithRetryConfig(maxAttempts int, backoffBase float64) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}

		if backoffBase > 0 {
			c.backoffBase = backoffBase
		}
	}
}

// WithBackoffUnit sets the unit multiplied by backoffBase^attempt.
func WithBackoffUnit(unit time.Duration) Option {
	return func(c *Client) {
		c.backoffUnit = unit
	}
}

// WithLogger sets the logger.
func WithLogger(logger qdcloud.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMetrics records request metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithHTTPClient sets the underlying client. Its Timeout is replaced by the
// attempt timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMaxConcurrentRequests bounds the number of attempts in flight.
func WithMaxConcurrentRequests(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = int64(limit)
		}
	}
}

// NewClient creates a transport with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		timeout:     constants.DefaultHTTPTimeout,
		maxAttempts: constants.DefaultMaxAttempts,
		backoffBase: constants.DefaultBackoffBase,
		backoffUnit: constants.DefaultBackoffUnit,
		userAgent:   constants.DefaultUserAgent,
		logger:      qdcloud.NoopLogger{},
		limit:       DefaultMaxConcurrentRequests,
	}

	for _, opt := range opts {
		opt(client)
	}

	base := client.httpClient
	if base == nil {
		base = cleanhttp.DefaultPooledClient()
	}

	attemptClient := *base
	attemptClient.Timeout = client.timeout

	transport := attemptClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	attemptClient.Transport = &limitedTransport{
		next: transport,
		sem:  semaphore.NewWeighted(client.limit),
	}
	client.httpClient = &attemptClient

	return client
}

// DoRequest implements qdcloud.HTTPClient.
func (c *Client) DoRequest(ctx context.Context, host string, request qdcloud.Request, token string) qdcloud.Response[string] {
	method := request.MethodOrDefault()

	err := request.Validate()
	if err != nil {
		c.metrics.RecordRequest(method, metrics.OutcomeInvalid)

		return qdcloud.Failure[string](err.Error(), 0, err)
	}

	requestURL, err := BuildURL(host, request)
	if err != nil {
		c.metrics.RecordRequest(method, metrics.OutcomeInvalid)

		return qdcloud.Failure[string](err.Error(), 0, err)
	}

	req, err := c.newRequest(ctx, requestURL, request, token)
	if err != nil {
		c.metrics.RecordRequest(method, metrics.OutcomeInvalid)

		return qdcloud.Failure[string](err.Error(), 0, err)
	}

	resp, err := c.retryClient(method, requestURL, req.Header.Get(constants.RequestIDHeader)).Do(req)
	response := classifyResponse(resp, err)

	c.metrics.RecordRequest(method, outcome(response))

	return response
}

func (c *Client) newRequest(ctx context.Context, requestURL string, request qdcloud.Request, token string) (*retryablehttp.Request, error) {
	var body interface{}
	if request.HasBody() {
		body = []byte(request.Body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, request.MethodOrDefault(), requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(constants.RequestIDHeader, uuid.NewString())

	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// retryClient builds the retry loop of a single logical request.
func (c *Client) retryClient(method, requestURL, requestID string) *retryablehttp.Client {
	attempt := 0

	var lastErr error

	return &retryablehttp.Client{
		HTTPClient:   c.httpClient,
		RetryWaitMin: c.backoffUnit,
		RetryWaitMax: constants.MaxBackoff,
		RetryMax:     c.maxAttempts - 1,
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			attempt++
			lastErr = err

			if ctx.Err() != nil {
				return false, ctx.Err()
			}

			statusCode := 0
			if err == nil {
				statusCode = resp.StatusCode
			}

			c.metrics.RecordAttempt(method, statusCode)

			retry := err != nil || ShouldRetry(statusCode)
			if retry && attempt < c.maxAttempts {
				c.metrics.RecordRetry(method)
				c.logger.Warn("Retrying Qodana Cloud request", map[string]interface{}{
					"method":      method,
					"url":         requestURL,
					"request_id":  requestID,
					"attempt":     attempt,
					"status_code": statusCode,
					"error":       errorString(err),
				})
			}

			return retry, nil
		},
		Backoff: func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
			return Backoff(c.backoffBase, c.backoffUnit, attemptNum)
		},
		// The last response wins over the generic "giving up" error so that
		// callers see its status code and body.
		ErrorHandler: func(resp *http.Response, err error, _ int) (*http.Response, error) {
			if resp != nil && lastErr == nil && !isContextError(err) {
				return resp, nil
			}

			if resp != nil {
				_ = resp.Body.Close()
			}

			if lastErr != nil {
				return nil, lastErr
			}

			return nil, err
		},
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attemptNum int) {
			if !c.debug {
				return
			}

			c.logger.Debug("HTTP Request", map[string]interface{}{
				"method":     req.Method,
				"url":        req.URL.String(),
				"request_id": requestID,
				"attempt":    attemptNum,
			})
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			if !c.debug {
				return
			}

			c.logger.Debug("HTTP Response", map[string]interface{}{
				"method":      method,
				"url":         requestURL,
				"request_id":  requestID,
				"status_code": resp.StatusCode,
			})
		},
	}
}

// ShouldRetry reports whether a response with statusCode is worth another
// attempt. Client errors other than 408 are terminal.
func ShouldRetry(statusCode int) bool {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return false
	}

	if statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError {
		return statusCode == http.StatusRequestTimeout
	}

	return true
}

// Backoff returns the delay after failed attempt n (0-indexed): base^n units.
func Backoff(base float64, unit time.Duration, attempt int) time.Duration {
	delay := math.Pow(base, float64(attempt)) * float64(unit)
	if math.IsInf(delay, 0) || math.IsNaN(delay) || delay > float64(constants.MaxBackoff) {
		return constants.MaxBackoff
	}

	return time.Duration(delay)
}

// BuildURL joins host, the relative request path and the encoded parameters.
func BuildURL(host string, request qdcloud.Request) (string, error) {
	base := host
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	full := base + request.Path
	if query := request.EncodedParameters(); query != "" {
		full += "?" + query
	}

	parsed, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidHost, err)
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	return full, nil
}

func classifyResponse(resp *http.Response, err error) qdcloud.Response[string] {
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return qdcloud.Offline[string](err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return qdcloud.Offline[string](fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return qdcloud.Failure[string](string(body), resp.StatusCode, nil)
	}

	return qdcloud.Success(string(body))
}

func outcome(response qdcloud.Response[string]) string {
	if response.IsSuccess() {
		return metrics.OutcomeSuccess
	}

	if _, offline := response.AsOffline(); offline {
		return metrics.OutcomeOffline
	}

	return metrics.OutcomeFailure
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

// limitedTransport bounds the number of round trips in flight.
type limitedTransport struct {
	next http.RoundTripper
	sem  *semaphore.Weighted
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := t.sem.Acquire(req.Context(), 1)
	if err != nil {
		return nil, fmt.Errorf("waiting for a free connection slot: %w", err)
	}
	defer t.sem.Release(1)

	return t.next.RoundTrip(req)
}

func (t *limitedTransport) CloseIdleConnections() {
	if closer, ok := t.next.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
