package qdcloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// HTTPClient sends a single logical request to a Qodana Cloud host.
//
// Implementations retry transient failures themselves and return the raw
// response body on success. token is sent as a bearer token unless empty.
type HTTPClient interface {
	DoRequest(ctx context.Context, host string, request Request, token string) Response[string]
}

// Environment reports which API versions a Qodana Cloud deployment exposes.
type Environment interface {
	GetApis(ctx context.Context) Response[Apis]
}

// Apis lists the hosts of the two API families of a deployment.
type Apis struct {
	API     []API `json:"api"     yaml:"api"`
	Linters []API `json:"linters" yaml:"linters"`
}

// API is one versioned API host.
type API struct {
	Host         string `json:"host"          yaml:"host"`
	MajorVersion int    `json:"major_version" yaml:"major_version"`
	MinorVersion int    `json:"minor_version" yaml:"minor_version"`
}

// String returns the "major.minor" version of the API.
func (a API) String() string {
	return fmt.Sprintf("%d.%d", a.MajorVersion, a.MinorVersion)
}

// FindAPI returns the first entry of the main API family with the given major version.
func (a Apis) FindAPI(majorVersion int) (API, bool) {
	return lo.Find(a.API, func(api API) bool {
		return api.MajorVersion == majorVersion
	})
}

// Fetch sends request through client and decodes the JSON response into T.
func Fetch[T any](ctx context.Context, client HTTPClient, host string, request Request, token string) Response[T] {
	return Decode[T](client.DoRequest(ctx, host, request, token))
}

// Decode decodes a successful raw response into T. Unknown fields are
// ignored and missing ones keep their zero value; a body that is not valid
// JSON for T is a ResponseError without status code.
func Decode[T any](content Response[string]) Response[T] {
	body, err := content.Get()
	if err != nil {
		return FromError[T](err)
	}

	var value T

	err = json.Unmarshal([]byte(body), &value)
	if err != nil {
		return Failure[T](ErrDecodeResponse.Error(), 0, fmt.Errorf("%w: %w", ErrDecodeResponse, err))
	}

	return Success(value)
}

// EncodeBody marshals value into a JSON request body.
func EncodeBody(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeRequest, err)
	}

	return string(data), nil
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func(ctx context.Context) Response[Apis]

// GetApis implements Environment.
func (f EnvironmentFunc) GetApis(ctx context.Context) Response[Apis] {
	return f(ctx)
}
