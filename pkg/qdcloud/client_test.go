package qdcloud_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

type staticHTTPClient struct {
	response qdcloud.Response[string]
}

func (c staticHTTPClient) DoRequest(context.Context, string, qdcloud.Request, string) qdcloud.Response[string] {
	return c.response
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type user struct {
		ID       string  `json:"id"`
		FullName *string `json:"fullName"`
	}

	value, err := qdcloud.Decode[user](qdcloud.Success(`{"id":"u1","unknown":true}`)).Get()
	require.NoError(t, err)
	assert.Equal(t, "u1", value.ID)
	assert.Nil(t, value.FullName)

	response := qdcloud.Decode[user](qdcloud.Success(`{"id":`))
	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.False(t, failure.HasStatusCode())
	require.ErrorIs(t, response.Err(), qdcloud.ErrDecodeResponse)

	offline := qdcloud.Decode[user](qdcloud.Offline[string](context.DeadlineExceeded))
	assert.True(t, qdcloud.IsOffline(offline.Err()))
}

func TestFetch(t *testing.T) {
	t.Parallel()

	client := staticHTTPClient{response: qdcloud.Success(`[{"id":"o1"}]`)}

	organizations, err := qdcloud.Fetch[[]map[string]string](context.Background(), client, "host", qdcloud.Get("organizations"), "").Get()
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"id": "o1"}}, organizations)

	failing := staticHTTPClient{response: qdcloud.Failure[string]("nope", 500, nil)}

	code, ok := qdcloud.StatusCode(qdcloud.Fetch[[]string](context.Background(), failing, "host", qdcloud.Get("x"), "").Err())
	require.True(t, ok)
	assert.Equal(t, 500, code)
}

func TestApis_FindAPI(t *testing.T) {
	t.Parallel()

	apis := qdcloud.Apis{
		API: []qdcloud.API{
			{Host: "host-1", MajorVersion: 1, MinorVersion: 4},
			{Host: "host-2", MajorVersion: 2, MinorVersion: 0},
		},
	}

	api, ok := apis.FindAPI(1)
	require.True(t, ok)
	assert.Equal(t, "host-1", api.Host)
	assert.Equal(t, "1.4", api.String())

	_, ok = apis.FindAPI(3)
	assert.False(t, ok)
}

func TestEncodeBody(t *testing.T) {
	t.Parallel()

	body, err := qdcloud.EncodeBody(map[string]string{"name": "demo"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"demo"}`, body)

	_, err = qdcloud.EncodeBody(make(chan int))
	require.ErrorIs(t, err, qdcloud.ErrEncodeRequest)
}

func TestEnvironmentFunc(t *testing.T) {
	t.Parallel()

	env := qdcloud.EnvironmentFunc(func(context.Context) qdcloud.Response[qdcloud.Apis] {
		return qdcloud.Success(qdcloud.Apis{API: []qdcloud.API{{Host: "h", MajorVersion: 1}}})
	})

	apis, err := env.GetApis(context.Background()).Get()
	require.NoError(t, err)
	assert.Len(t, apis.API, 1)
}
