// Package v1 is the facade of the Qodana Cloud V1 API.
//
// The API is split into families by the identity the caller acts with:
// UserAPI for an end user, ProjectAPI for a project token and
// NotAuthorizedAPI for anonymous calls. Each family exposes tiers that are
// available only from a minimum minor version of the deployment on:
//
//	user := client.UserAPI(v1.StaticUserToken(token))
//	if v3 := user.V3(); v3 != nil {
//		project, err := v3.CreateProjectInTeam(ctx, teamID, "my-project").Get()
//		...
//	}
//
// A tier embeds the tier below it, so it offers every operation of the
// lower tiers plus its own. V3 and V5 return nil when the deployment is
// older than the tier.
package v1

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// Minimum minor versions of the tiers, shared by all families.
const (
	MinorVersionV3 = 3
	MinorVersionV5 = 5
)

// Static errors for err113 compliance.
var (
	ErrNoTokenProvider = errors.New("user token provider is not set")
)

// UserTokenProvider returns the user token. It is called for every request,
// so it can refresh expired tokens.
type UserTokenProvider func(ctx context.Context) qdcloud.Response[string]

// StaticUserToken returns a provider that always returns token.
func StaticUserToken(token string) UserTokenProvider {
	return func(context.Context) qdcloud.Response[string] {
		return qdcloud.Success(token)
	}
}

// Requester sends raw requests to the V1 host. Every family and tier
// implements it.
type Requester interface {
	DoRequest(ctx context.Context, request qdcloud.Request) qdcloud.Response[string]
}

// Request sends request through api and decodes the JSON response into T.
func Request[T any](ctx context.Context, api Requester, request qdcloud.Request) qdcloud.Response[T] {
	return qdcloud.Decode[T](api.DoRequest(ctx, request))
}

// Client is the root of the V1 facade, bound to one host and minor version.
type Client struct {
	host         string
	minorVersion int
	httpClient   qdcloud.HTTPClient
}

// New creates the V1 facade for a deployment serving V1 at host with the
// given minor version.
func New(host string, minorVersion int, httpClient qdcloud.HTTPClient) *Client {
	return &Client{
		host:         host,
		minorVersion: minorVersion,
		httpClient:   httpClient,
	}
}

// Host returns the API host.
func (c *Client) Host() string {
	return c.host
}

// MinorVersion returns the minor version of the deployment.
func (c *Client) MinorVersion() int {
	return c.minorVersion
}

// UserAPI returns the API acting as the user whose token provider returns.
func (c *Client) UserAPI(provider UserTokenProvider) *UserAPI {
	return &UserAPI{
		endpoint:      c.endpoint(),
		tokenProvider: provider,
	}
}

// ProjectAPI returns the API acting as the project owning token.
func (c *Client) ProjectAPI(token string) *ProjectAPI {
	return &ProjectAPI{
		endpoint: c.endpoint(),
		token:    token,
	}
}

// NotAuthorizedAPI returns the API for calls without identity.
func (c *Client) NotAuthorizedAPI() *NotAuthorizedAPI {
	return &NotAuthorizedAPI{
		endpoint: c.endpoint(),
	}
}

func (c *Client) endpoint() endpoint {
	return endpoint{
		host:         c.host,
		minorVersion: c.minorVersion,
		httpClient:   c.httpClient,
	}
}

// endpoint is what every family is bound to.
type endpoint struct {
	host         string
	minorVersion int
	httpClient   qdcloud.HTTPClient
}

func (e endpoint) do(ctx context.Context, request qdcloud.Request, token string) qdcloud.Response[string] {
	return e.httpClient.DoRequest(ctx, e.host, request, token)
}

func (e endpoint) supports(minimum int) bool {
	return e.minorVersion >= minimum
}
