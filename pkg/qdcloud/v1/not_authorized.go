package v1

import (
	"context"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// NotAuthorizedAPI is the V1 API for calls without identity.
type NotAuthorizedAPI struct {
	endpoint endpoint
}

// NotAuthorizedAPIV3 is the anonymous API of deployments with minor version 3 or newer.
type NotAuthorizedAPIV3 struct {
	*NotAuthorizedAPI
}

// NotAuthorizedAPIV5 is the anonymous API of deployments with minor version 5 or newer.
type NotAuthorizedAPIV5 struct {
	*NotAuthorizedAPIV3
}

// Base returns the base tier.
func (a *NotAuthorizedAPI) Base() *NotAuthorizedAPI {
	return a
}

// VersionNumber returns the minor version of the deployment.
func (a *NotAuthorizedAPI) VersionNumber() int {
	return a.endpoint.minorVersion
}

// V3 returns the V3 tier, or nil when the deployment is older.
func (a *NotAuthorizedAPI) V3() *NotAuthorizedAPIV3 {
	if !a.endpoint.supports(MinorVersionV3) {
		return nil
	}

	return &NotAuthorizedAPIV3{NotAuthorizedAPI: a}
}

// V5 returns the V5 tier, or nil when the deployment is older.
func (a *NotAuthorizedAPI) V5() *NotAuthorizedAPIV5 {
	v3 := a.V3()
	if v3 == nil || !a.endpoint.supports(MinorVersionV5) {
		return nil
	}

	return &NotAuthorizedAPIV5{NotAuthorizedAPIV3: v3}
}

// V3 returns the tier itself.
func (a *NotAuthorizedAPIV3) V3() *NotAuthorizedAPIV3 {
	return a
}

// V5 returns the tier itself.
func (a *NotAuthorizedAPIV5) V5() *NotAuthorizedAPIV5 {
	return a
}

// DoRequest sends request without a token.
func (a *NotAuthorizedAPI) DoRequest(ctx context.Context, request qdcloud.Request) qdcloud.Response[string] {
	return a.endpoint.do(ctx, request, "")
}

// GetCredentialsFromOAuthCode exchanges an OAuth code for user credentials.
func (a *NotAuthorizedAPI) GetCredentialsFromOAuthCode(ctx context.Context, code string) qdcloud.Response[AuthorizationData] {
	body, err := qdcloud.EncodeBody(map[string]string{"code": code})
	if err != nil {
		return qdcloud.Failure[AuthorizationData](err.Error(), 0, err)
	}

	return qdcloud.Decode[AuthorizationData](a.endpoint.do(ctx, qdcloud.Post("idea/auth/token/", body), ""))
}

// GetNewCredentialsFromRefreshCode exchanges a refresh code for new user
// credentials. The refresh code is sent as the bearer token.
func (a *NotAuthorizedAPI) GetNewCredentialsFromRefreshCode(ctx context.Context, refreshCode string) qdcloud.Response[AuthorizationData] {
	return qdcloud.Decode[AuthorizationData](a.endpoint.do(ctx, qdcloud.Post("idea/auth/refresh/", ""), refreshCode))
}

// GetOAuthProviderData returns the OAuth provider of the deployment.
func (a *NotAuthorizedAPI) GetOAuthProviderData(ctx context.Context) qdcloud.Response[OAuthProviderData] {
	return Request[OAuthProviderData](ctx, a, qdcloud.Get("oauth/configurations"))
}
