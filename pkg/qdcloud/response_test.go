package qdcloud_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

func TestResponse_Success(t *testing.T) {
	t.Parallel()

	response := qdcloud.Success(42)

	assert.True(t, response.IsSuccess())
	require.NoError(t, response.Err())

	value, err := response.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	value, ok := response.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, value)
	assert.Equal(t, 42, response.OrElse(0))

	_, offline := response.AsOffline()
	assert.False(t, offline)

	_, failed := response.AsFailure()
	assert.False(t, failed)
}

func TestResponse_Offline(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	response := qdcloud.Offline[int](cause)

	assert.False(t, response.IsSuccess())
	assert.Equal(t, 7, response.OrElse(7))

	value, err := response.Get()
	require.Error(t, err)
	assert.Zero(t, value)
	require.ErrorIs(t, err, cause)
	assert.True(t, qdcloud.IsOffline(err))

	offline, ok := response.AsOffline()
	require.True(t, ok)
	assert.Equal(t, cause, offline.Cause)
	assert.Contains(t, offline.Error(), "connection refused")
}

func TestResponse_Failure(t *testing.T) {
	t.Parallel()

	response := qdcloud.Failure[string]("forbidden", 403, nil)

	failure, ok := response.AsFailure()
	require.True(t, ok)
	assert.Equal(t, 403, failure.StatusCode)
	assert.True(t, failure.HasStatusCode())
	assert.Equal(t, "qodana cloud request failed (code: 403): forbidden", failure.Error())
	assert.True(t, qdcloud.IsForbidden(response.Err()))
	assert.False(t, qdcloud.IsOffline(response.Err()))
}

func TestFromError(t *testing.T) {
	t.Parallel()

	t.Run("keeps offline errors", func(t *testing.T) {
		t.Parallel()

		_, err := qdcloud.Offline[int](errors.New("reset")).Get()

		response := qdcloud.FromError[string](fmt.Errorf("loading user: %w", err))

		_, ok := response.AsOffline()
		assert.True(t, ok)
	})

	t.Run("keeps response errors", func(t *testing.T) {
		t.Parallel()

		_, err := qdcloud.Failure[int]("missing", 404, nil).Get()

		response := qdcloud.FromError[string](err)

		failure, ok := response.AsFailure()
		require.True(t, ok)
		assert.Equal(t, 404, failure.StatusCode)
		assert.Equal(t, "missing", failure.Message)
	})

	t.Run("wraps other errors without status code", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("boom")

		response := qdcloud.FromError[string](cause)

		failure, ok := response.AsFailure()
		require.True(t, ok)
		assert.False(t, failure.HasStatusCode())
		assert.Equal(t, "boom", failure.Message)
		require.ErrorIs(t, response.Err(), cause)
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		response := qdcloud.FromError[string](nil)

		assert.False(t, response.IsSuccess())
		require.ErrorIs(t, response.Err(), qdcloud.ErrUnclassified)
	})
}

func TestMapAndThen(t *testing.T) {
	t.Parallel()

	double := func(value int) int { return value * 2 }
	format := func(value int) qdcloud.Response[string] { return qdcloud.Success(strconv.Itoa(value)) }

	value, err := qdcloud.Then(qdcloud.Map(qdcloud.Success(21), double), format).Get()
	require.NoError(t, err)
	assert.Equal(t, "42", value)

	called := false
	failing := qdcloud.Failure[int]("bad request", 400, nil)

	response := qdcloud.Then(qdcloud.Map(failing, double), func(value int) qdcloud.Response[string] {
		called = true

		return format(value)
	})

	assert.False(t, called)

	code, ok := qdcloud.StatusCode(response.Err())
	require.True(t, ok)
	assert.Equal(t, 400, code)
}

func TestStraightLineComposition(t *testing.T) {
	t.Parallel()

	var calls []string

	step := func(name string, response qdcloud.Response[int]) qdcloud.Response[int] {
		calls = append(calls, name)

		return response
	}

	chain := func() qdcloud.Response[int] {
		first, err := step("first", qdcloud.Success(1)).Get()
		if err != nil {
			return qdcloud.FromError[int](err)
		}

		second, err := step("second", qdcloud.Offline[int](errors.New("timeout"))).Get()
		if err != nil {
			return qdcloud.FromError[int](err)
		}

		return step("third", qdcloud.Success(first+second))
	}

	response := chain()

	assert.True(t, qdcloud.IsOffline(response.Err()))
	assert.Equal(t, []string{"first", "second"}, calls)
}
