package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/internal/environment"
	qdhttp "github.com/fivetwenty-io/qdcloud/internal/http"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

func frontendServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/versions", request.URL.Path)
		assert.Empty(t, request.Header.Get("Authorization"))

		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func environmentByFrontend(server *httptest.Server) *environment.ByFrontend {
	client := qdhttp.NewClient(qdhttp.WithBackoffUnit(time.Millisecond))

	return environment.NewByFrontend(server.URL, client)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestByFrontend_GetApis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected qdcloud.Apis
	}{
		{
			name: "single api version",
			body: `{"api":{"versions":[{"version":"1.1","url":"backend-url"}]}}`,
			expected: qdcloud.Apis{
				API:     []qdcloud.API{{Host: "backend-url", MajorVersion: 1, MinorVersion: 1}},
				Linters: []qdcloud.API{},
			},
		},
		{
			name: "single api and linter version",
			body: `{
				"api": {"versions": [{"version": "1.1", "url": "backend-url"}]},
				"linters": {"versions": [{"version": "2.10", "url": "linters-backend-url"}]}
			}`,
			expected: qdcloud.Apis{
				API:     []qdcloud.API{{Host: "backend-url", MajorVersion: 1, MinorVersion: 1}},
				Linters: []qdcloud.API{{Host: "linters-backend-url", MajorVersion: 2, MinorVersion: 10}},
			},
		},
		{
			name: "multiple api versions",
			body: `{"api":{"versions":[{"version":"1.1","url":"backend-url"},{"version":"2.5","url":"backend-url-2"}]}}`,
			expected: qdcloud.Apis{
				API: []qdcloud.API{
					{Host: "backend-url", MajorVersion: 1, MinorVersion: 1},
					{Host: "backend-url-2", MajorVersion: 2, MinorVersion: 5},
				},
				Linters: []qdcloud.API{},
			},
		},
		{
			name: "unknown families and fields are ignored",
			body: `{"api":{"versions":[{"version":"1.0","url":"backend-url","deprecated":true}]},"plugins":{"versions":[]}}`,
			expected: qdcloud.Apis{
				API:     []qdcloud.API{{Host: "backend-url", MajorVersion: 1, MinorVersion: 0}},
				Linters: []qdcloud.API{},
			},
		},
		{
			name:     "no families",
			body:     `{}`,
			expected: qdcloud.Apis{API: []qdcloud.API{}, Linters: []qdcloud.API{}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := frontendServer(t, http.StatusOK, testCase.body)

			apis, err := environmentByFrontend(server).GetApis(context.Background()).Get()
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, apis)
		})
	}
}

func TestByFrontend_InvalidVersion(t *testing.T) {
	t.Parallel()

	server := frontendServer(t, http.StatusOK, `{"api":{"versions":[{"version":"1.invalid","url":"backend-url"}]}}`)

	response := environmentByFrontend(server).GetApis(context.Background())

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.False(t, failure.HasStatusCode())
	require.ErrorIs(t, response.Err(), qdcloud.ErrMalformedVersion)
}

func TestByFrontend_NotFound(t *testing.T) {
	t.Parallel()

	server := frontendServer(t, http.StatusNotFound, "")

	response := environmentByFrontend(server).GetApis(context.Background())

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.Equal(t, 404, failure.StatusCode)
}

func TestByFrontend_MalformedBody(t *testing.T) {
	t.Parallel()

	server := frontendServer(t, http.StatusOK, "<html>maintenance</html>")

	response := environmentByFrontend(server).GetApis(context.Background())

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.False(t, failure.HasStatusCode())
	require.ErrorIs(t, response.Err(), qdcloud.ErrDecodeResponse)
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		major   int
		minor   int
		wantErr bool
	}{
		{version: "1.0", major: 1, minor: 0},
		{version: "1.1", major: 1, minor: 1},
		{version: "2.10", major: 2, minor: 10},
		{version: "1.invalid", wantErr: true},
		{version: "1", wantErr: true},
		{version: "1.2.3", wantErr: true},
		{version: "v1.2", wantErr: true},
		{version: "", wantErr: true},
		{version: "-1.2", wantErr: true},
	}

	for _, testCase := range tests {
		major, minor, err := environment.ParseVersion(testCase.version)
		if testCase.wantErr {
			require.ErrorIs(t, err, qdcloud.ErrMalformedVersion, "version %q", testCase.version)

			continue
		}

		require.NoError(t, err, "version %q", testCase.version)
		assert.Equal(t, testCase.major, major)
		assert.Equal(t, testCase.minor, minor)
	}
}
