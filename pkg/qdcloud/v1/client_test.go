package v1_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloudtest"
)

const testHost = "https://api.qodana.example/v1"

func newClient(minorVersion int) (*v1.Client, *qdcloudtest.MockHTTPClient) {
	mock := qdcloudtest.NewMockHTTPClient()

	return v1.New(testHost, minorVersion, mock), mock
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minorVersion int
		hasV3        bool
		hasV5        bool
	}{
		{minorVersion: 0, hasV3: false, hasV5: false},
		{minorVersion: 3, hasV3: true, hasV5: false},
		{minorVersion: 4, hasV3: true, hasV5: false},
		{minorVersion: 5, hasV3: true, hasV5: true},
		{minorVersion: 12, hasV3: true, hasV5: true},
	}

	for _, testCase := range tests {
		client, _ := newClient(testCase.minorVersion)

		user := client.UserAPI(v1.StaticUserToken("token"))
		assert.Equal(t, testCase.hasV3, user.V3() != nil, "user v3 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.hasV5, user.V5() != nil, "user v5 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.minorVersion, user.VersionNumber())

		project := client.ProjectAPI("token")
		assert.Equal(t, testCase.hasV3, project.V3() != nil, "project v3 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.hasV5, project.V5() != nil, "project v5 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.minorVersion, project.VersionNumber())

		notAuthorized := client.NotAuthorizedAPI()
		assert.Equal(t, testCase.hasV3, notAuthorized.V3() != nil, "not authorized v3 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.hasV5, notAuthorized.V5() != nil, "not authorized v5 at 1.%d", testCase.minorVersion)
		assert.Equal(t, testCase.minorVersion, notAuthorized.VersionNumber())
	}
}

func TestClient_TierNavigation(t *testing.T) {
	t.Parallel()

	client, _ := newClient(5)
	user := client.UserAPI(v1.StaticUserToken("token"))

	v5 := user.V5()
	require.NotNil(t, v5)

	assert.Same(t, v5, v5.V5())
	assert.Same(t, v5.UserAPIV3, v5.V3())
	assert.Same(t, user, v5.Base())
	assert.Same(t, user, v5.V3().Base())
	assert.Equal(t, 5, v5.VersionNumber())

	v3 := user.V3()
	require.NotNil(t, v3)
	assert.Same(t, v3, v3.V3())
	assert.NotNil(t, v3.V5())
}

func TestClient_TierForwardsRequests(t *testing.T) {
	t.Parallel()

	client, mock := newClient(5)
	mock.RespondOn(testHost, "users/me", qdcloudtest.Body(`{"id":"user-id"}`))

	v5 := client.UserAPI(v1.StaticUserToken("token")).V5()
	require.NotNil(t, v5)

	info, err := v5.GetUserInfo(context.Background()).Get()
	require.NoError(t, err)
	assert.Equal(t, "user-id", info.ID)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, testHost, call.Host)
	assert.Equal(t, "token", call.Token)
}

func TestRequest(t *testing.T) {
	t.Parallel()

	client, mock := newClient(0)
	mock.RespondOn(testHost, "custom/endpoint", qdcloudtest.Body(`{"value":42,"unknown":"ignored"}`))

	type custom struct {
		Value   int    `json:"value"`
		Missing string `json:"missing"`
	}

	value, err := v1.Request[custom](context.Background(), client.ProjectAPI("token"), qdcloud.Get("custom/endpoint")).Get()
	require.NoError(t, err)
	assert.Equal(t, custom{Value: 42}, value)
}

func TestRequest_DecodeFailure(t *testing.T) {
	t.Parallel()

	client, mock := newClient(0)
	mock.RespondOn(testHost, "users/me", qdcloudtest.Body("not json"))

	response := client.UserAPI(v1.StaticUserToken("token")).GetUserInfo(context.Background())

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.False(t, failure.HasStatusCode())
	require.ErrorIs(t, response.Err(), qdcloud.ErrDecodeResponse)
}
