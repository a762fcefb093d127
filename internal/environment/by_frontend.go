// Package environment discovers the API hosts of a Qodana Cloud deployment.
package environment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/fivetwenty-io/qdcloud/internal/constants"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// ByFrontend asks the frontend of a deployment which API versions it serves.
type ByFrontend struct {
	frontendURL string
	httpClient  qdcloud.HTTPClient
}

var _ qdcloud.Environment = (*ByFrontend)(nil)

// NewByFrontend creates an environment that queries frontendURL through httpClient.
func NewByFrontend(frontendURL string, httpClient qdcloud.HTTPClient) *ByFrontend {
	return &ByFrontend{
		frontendURL: frontendURL,
		httpClient:  httpClient,
	}
}

type versionsResponse struct {
	API     versionsHolder `json:"api"`
	Linters versionsHolder `json:"linters"`
}

type versionsHolder struct {
	Versions []versionURL `json:"versions"`
}

type versionURL struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

// GetApis implements qdcloud.Environment. The versions endpoint is public,
// no token is sent.
func (e *ByFrontend) GetApis(ctx context.Context) qdcloud.Response[qdcloud.Apis] {
	versions, err := qdcloud.Fetch[versionsResponse](ctx, e.httpClient, e.frontendURL, qdcloud.Get(constants.VersionsPath), "").Get()
	if err != nil {
		return qdcloud.FromError[qdcloud.Apis](err)
	}

	api, err := toApis(versions.API.Versions)
	if err != nil {
		return qdcloud.Failure[qdcloud.Apis](err.Error(), 0, err)
	}

	linters, err := toApis(versions.Linters.Versions)
	if err != nil {
		return qdcloud.Failure[qdcloud.Apis](err.Error(), 0, err)
	}

	return qdcloud.Success(qdcloud.Apis{API: api, Linters: linters})
}

func toApis(versions []versionURL) ([]qdcloud.API, error) {
	apis := make([]qdcloud.API, 0, len(versions))

	for _, version := range versions {
		major, minor, err := ParseVersion(version.Version)
		if err != nil {
			return nil, err
		}

		apis = append(apis, qdcloud.API{
			Host:         version.URL,
			MajorVersion: major,
			MinorVersion: minor,
		})
	}

	return apis, nil
}

// ParseVersion parses a "major.minor" version string. Exactly two numeric
// components are accepted.
func ParseVersion(version string) (int, int, error) {
	if len(strings.Split(version, ".")) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", qdcloud.ErrMalformedVersion, version)
	}

	parsed, err := semver.StrictNewVersion(version + ".0")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", qdcloud.ErrMalformedVersion, version, err)
	}

	return int(parsed.Major()), int(parsed.Minor()), nil //nolint:gosec // versions are small
}
