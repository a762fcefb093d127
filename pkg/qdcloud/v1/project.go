package v1

import (
	"context"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// ProjectAPI is the V1 API acting as a project.
type ProjectAPI struct {
	endpoint endpoint
	token    string
}

// ProjectAPIV3 is the project API of deployments with minor version 3 or newer.
type ProjectAPIV3 struct {
	*ProjectAPI
}

// ProjectAPIV5 is the project API of deployments with minor version 5 or newer.
type ProjectAPIV5 struct {
	*ProjectAPIV3
}

// Base returns the base tier.
func (a *ProjectAPI) Base() *ProjectAPI {
	return a
}

// VersionNumber returns the minor version of the deployment.
func (a *ProjectAPI) VersionNumber() int {
	return a.endpoint.minorVersion
}

// V3 returns the V3 tier, or nil when the deployment is older.
func (a *ProjectAPI) V3() *ProjectAPIV3 {
	if !a.endpoint.supports(MinorVersionV3) {
		return nil
	}

	return &ProjectAPIV3{ProjectAPI: a}
}

// V5 returns the V5 tier, or nil when the deployment is older.
func (a *ProjectAPI) V5() *ProjectAPIV5 {
	v3 := a.V3()
	if v3 == nil || !a.endpoint.supports(MinorVersionV5) {
		return nil
	}

	return &ProjectAPIV5{ProjectAPIV3: v3}
}

// V3 returns the tier itself.
func (a *ProjectAPIV3) V3() *ProjectAPIV3 {
	return a
}

// V5 returns the tier itself.
func (a *ProjectAPIV5) V5() *ProjectAPIV5 {
	return a
}

// DoRequest sends request with the project token.
func (a *ProjectAPI) DoRequest(ctx context.Context, request qdcloud.Request) qdcloud.Response[string] {
	return a.endpoint.do(ctx, request, a.token)
}

// GetProjectProperties returns the project owning the token.
func (a *ProjectAPI) GetProjectProperties(ctx context.Context) qdcloud.Response[Project] {
	return Request[Project](ctx, a, qdcloud.Get("projects"))
}

// StartUpload registers a new report and returns the upload links of its files.
func (a *ProjectAPI) StartUpload(ctx context.Context, publish PublishRequest) qdcloud.Response[StartPublishReportData] {
	body, err := qdcloud.EncodeBody(publish)
	if err != nil {
		return qdcloud.Failure[StartPublishReportData](err.Error(), 0, err)
	}

	return Request[StartPublishReportData](ctx, a, qdcloud.Post("reports", body))
}

// FinishUpload marks the upload of a report as complete. languages maps
// language names to file counts and may be nil.
func (a *ProjectAPI) FinishUpload(ctx context.Context, reportID string, languages map[string]int) qdcloud.Response[FinishPublishReportData] {
	body := ""

	if languages != nil {
		encoded, err := qdcloud.EncodeBody(map[string]map[string]int{"languages": languages})
		if err != nil {
			return qdcloud.Failure[FinishPublishReportData](err.Error(), 0, err)
		}

		body = encoded
	}

	return Request[FinishPublishReportData](ctx, a, qdcloud.Post("reports/"+reportID+"/finish", body))
}
