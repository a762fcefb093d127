// Package qdcloudtest provides a scriptable qdcloud.HTTPClient for tests.
//
//	mock := qdcloudtest.NewMockHTTPClient()
//	mock.RespondOn("https://api.example.com/v1", "users/me", qdcloudtest.Body(`{"id":"u1"}`))
//
//	client := v1.New("https://api.example.com/v1", 5, mock)
package qdcloudtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// ErrNotSupported is the cause of the failure returned when no handler
// matches a request.
var ErrNotSupported = errors.New("no scripted response for request")

// Handler answers a request. It returns false to leave the request to
// older handlers.
type Handler func(host string, request qdcloud.Request, token string) (qdcloud.Response[string], bool)

// Call is a request received by MockHTTPClient.
type Call struct {
	Host    string
	Request qdcloud.Request
	Token   string
}

// MockHTTPClient answers requests with scripted responses. Handlers are
// consulted newest first, so a later Respond overrides an earlier one.
type MockHTTPClient struct {
	mu       sync.RWMutex
	handlers []Handler
	calls    []Call
}

var _ qdcloud.HTTPClient = (*MockHTTPClient)(nil)

// NewMockHTTPClient creates a mock without handlers.
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{}
}

// Respond registers handler.
func (m *MockHTTPClient) Respond(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers = append(m.handlers, handler)
}

// RespondOn registers handler for requests to path on host.
func (m *MockHTTPClient) RespondOn(host, path string, handler func(request qdcloud.Request) qdcloud.Response[string]) {
	m.Respond(func(requestHost string, request qdcloud.Request, _ string) (qdcloud.Response[string], bool) {
		if requestHost != host || request.Path != path {
			return qdcloud.Response[string]{}, false
		}

		return handler(request), true
	})
}

// Body returns a handler answering every request with body.
func Body(body string) func(qdcloud.Request) qdcloud.Response[string] {
	return func(qdcloud.Request) qdcloud.Response[string] {
		return qdcloud.Success(body)
	}
}

// Status returns a handler rejecting every request with statusCode.
func Status(statusCode int, message string) func(qdcloud.Request) qdcloud.Response[string] {
	return func(qdcloud.Request) qdcloud.Response[string] {
		return qdcloud.Failure[string](message, statusCode, nil)
	}
}

// DoRequest implements qdcloud.HTTPClient.
func (m *MockHTTPClient) DoRequest(_ context.Context, host string, request qdcloud.Request, token string) qdcloud.Response[string] {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Host: host, Request: request, Token: token})
	handlers := slices.Clone(m.handlers)
	m.mu.Unlock()

	for _, handler := range slices.Backward(handlers) {
		if response, ok := handler(host, request, token); ok {
			return response
		}
	}

	err := fmt.Errorf("%w: %s %s%s", ErrNotSupported, request.MethodOrDefault(), host, request.Path)

	return qdcloud.Failure[string](err.Error(), 0, err)
}

// RequestsCount returns the number of requests received.
func (m *MockHTTPClient) RequestsCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.calls)
}

// Calls returns the requests received, oldest first.
func (m *MockHTTPClient) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.calls)
}

// LastCall returns the most recent request.
func (m *MockHTTPClient) LastCall() (Call, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.calls) == 0 {
		return Call{}, false
	}

	return m.calls[len(m.calls)-1], true
}
