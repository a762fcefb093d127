package qdcloudtest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloudtest"
)

func TestMockHTTPClient_NoHandler(t *testing.T) {
	t.Parallel()

	mock := qdcloudtest.NewMockHTTPClient()

	response := mock.DoRequest(context.Background(), "host", qdcloud.Get("users/me"), "")

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.False(t, failure.HasStatusCode())
	require.ErrorIs(t, response.Err(), qdcloudtest.ErrNotSupported)
	assert.Equal(t, 1, mock.RequestsCount())
}

func TestMockHTTPClient_NewestHandlerFirst(t *testing.T) {
	t.Parallel()

	mock := qdcloudtest.NewMockHTTPClient()
	mock.RespondOn("host", "users/me", qdcloudtest.Body("first"))
	mock.RespondOn("host", "users/me", qdcloudtest.Body("second"))

	body, err := mock.DoRequest(context.Background(), "host", qdcloud.Get("users/me"), "").Get()
	require.NoError(t, err)
	assert.Equal(t, "second", body)
}

func TestMockHTTPClient_FallsBackToOlderHandlers(t *testing.T) {
	t.Parallel()

	mock := qdcloudtest.NewMockHTTPClient()
	mock.RespondOn("host", "organizations", qdcloudtest.Body("[]"))
	mock.RespondOn("host", "users/me", qdcloudtest.Status(401, "unauthorized"))
	mock.RespondOn("other-host", "organizations", qdcloudtest.Body("other"))

	body, err := mock.DoRequest(context.Background(), "host", qdcloud.Get("organizations"), "").Get()
	require.NoError(t, err)
	assert.Equal(t, "[]", body)

	assert.True(t, qdcloud.IsUnauthorized(mock.DoRequest(context.Background(), "host", qdcloud.Get("users/me"), "").Err()))
	assert.Equal(t, 2, mock.RequestsCount())
}

func TestMockHTTPClient_RecordsCalls(t *testing.T) {
	t.Parallel()

	mock := qdcloudtest.NewMockHTTPClient()
	mock.Respond(func(_ string, _ qdcloud.Request, token string) (qdcloud.Response[string], bool) {
		return qdcloud.Success(token), true
	})

	body, err := mock.DoRequest(context.Background(), "host", qdcloud.Post("reports", "{}"), "project-token").Get()
	require.NoError(t, err)
	assert.Equal(t, "project-token", body)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, qdcloudtest.Call{Host: "host", Request: qdcloud.Post("reports", "{}"), Token: "project-token"}, call)
	assert.Len(t, mock.Calls(), 1)
}
