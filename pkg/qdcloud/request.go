package qdcloud

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// Request is a single logical call relative to an API host.
type Request struct {
	// Path is relative to the host, e.g. "users/me".
	Path string
	// Method is an HTTP method token: GET, POST, PUT, DELETE or any other name.
	Method string
	// Body is sent for every method except GET, DELETE and HEAD.
	Body       string
	Parameters map[string]string
	Headers    map[string]string
}

// Get creates a GET request.
func Get(path string) Request {
	return Request{Path: path, Method: http.MethodGet}
}

// Post creates a POST request.
func Post(path, body string) Request {
	return Request{Path: path, Method: http.MethodPost, Body: body}
}

// Put creates a PUT request.
func Put(path, body string) Request {
	return Request{Path: path, Method: http.MethodPut, Body: body}
}

// Delete creates a DELETE request.
func Delete(path string) Request {
	return Request{Path: path, Method: http.MethodDelete}
}

// Other creates a request with a custom method name.
func Other(method, path, body string) Request {
	return Request{Path: path, Method: strings.ToUpper(method), Body: body}
}

// WithParameters returns a copy of r with params merged into its query parameters.
func (r Request) WithParameters(params map[string]string) Request {
	merged := make(map[string]string, len(r.Parameters)+len(params))
	maps.Copy(merged, r.Parameters)
	maps.Copy(merged, params)
	r.Parameters = merged

	return r
}

// WithHeaders returns a copy of r with headers merged into its extra headers.
func (r Request) WithHeaders(headers map[string]string) Request {
	merged := make(map[string]string, len(r.Headers)+len(headers))
	maps.Copy(merged, r.Headers)
	maps.Copy(merged, headers)
	r.Headers = merged

	return r
}

// HasBody reports whether Body is sent for the request method.
func (r Request) HasBody() bool {
	switch r.MethodOrDefault() {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return false
	default:
		return true
	}
}

// Validate checks that Path is relative and does not escape the host.
func (r Request) Validate() error {
	if strings.HasPrefix(r.Path, "/") || strings.HasPrefix(r.Path, `\`) {
		return fmt.Errorf("%w: %q", ErrAbsolutePath, r.Path)
	}

	parsed, err := url.Parse(r.Path)
	if err == nil && (parsed.Scheme != "" || parsed.Host != "") {
		return fmt.Errorf("%w: %q", ErrAbsolutePath, r.Path)
	}

	segments := strings.FieldsFunc(r.Path, func(c rune) bool { return c == '/' || c == '\\' })
	for _, segment := range segments {
		if segment == ".." {
			return fmt.Errorf("%w: %q", ErrParentDirectory, r.Path)
		}
	}

	return nil
}

// EncodedParameters returns the query string for Parameters, without the leading '?'.
func (r Request) EncodedParameters() string {
	if len(r.Parameters) == 0 {
		return ""
	}

	values := make(url.Values, len(r.Parameters))
	for key, value := range r.Parameters {
		values.Set(key, value)
	}

	return values.Encode()
}

// MethodOrDefault returns Method, or GET when it is empty.
func (r Request) MethodOrDefault() string {
	if r.Method == "" {
		return http.MethodGet
	}

	return r.Method
}
