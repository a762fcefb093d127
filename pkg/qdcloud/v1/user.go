package v1

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
)

// UserAPI is the V1 API acting as an end user.
type UserAPI struct {
	endpoint      endpoint
	tokenProvider UserTokenProvider
}

// UserAPIV3 is the user API of deployments with minor version 3 or newer.
type UserAPIV3 struct {
	*UserAPI
}

// UserAPIV5 is the user API of deployments with minor version 5 or newer.
type UserAPIV5 struct {
	*UserAPIV3
}

// Base returns the base tier.
func (a *UserAPI) Base() *UserAPI {
	return a
}

// VersionNumber returns the minor version of the deployment.
func (a *UserAPI) VersionNumber() int {
	return a.endpoint.minorVersion
}

// V3 returns the V3 tier, or nil when the deployment is older.
func (a *UserAPI) V3() *UserAPIV3 {
	if !a.endpoint.supports(MinorVersionV3) {
		return nil
	}

	return &UserAPIV3{UserAPI: a}
}

// V5 returns the V5 tier, or nil when the deployment is older.
func (a *UserAPI) V5() *UserAPIV5 {
	v3 := a.V3()
	if v3 == nil || !a.endpoint.supports(MinorVersionV5) {
		return nil
	}

	return &UserAPIV5{UserAPIV3: v3}
}

// V3 returns the tier itself.
func (a *UserAPIV3) V3() *UserAPIV3 {
	return a
}

// V5 returns the tier itself.
func (a *UserAPIV5) V5() *UserAPIV5 {
	return a
}

// DoRequest sends request with the token of the user. A failing token
// provider fails the request before anything is sent.
func (a *UserAPI) DoRequest(ctx context.Context, request qdcloud.Request) qdcloud.Response[string] {
	if a.tokenProvider == nil {
		return qdcloud.Failure[string](ErrNoTokenProvider.Error(), 0, ErrNoTokenProvider)
	}

	token, err := a.tokenProvider(ctx).Get()
	if err != nil {
		return qdcloud.FromError[string](err)
	}

	return a.endpoint.do(ctx, request, token)
}

// GetUserLicenses returns the licenses the user is missing.
func (a *UserAPI) GetUserLicenses(ctx context.Context) qdcloud.Response[UserLicenses] {
	return Request[UserLicenses](ctx, a, qdcloud.Get("users/me/licenses"))
}

// GetUserInfo returns the user.
func (a *UserAPI) GetUserInfo(ctx context.Context) qdcloud.Response[UserInfo] {
	return Request[UserInfo](ctx, a, qdcloud.Get("users/me"))
}

// GetOrganizations returns the organizations of the user.
func (a *UserAPI) GetOrganizations(ctx context.Context) qdcloud.Response[[]Organization] {
	return Request[[]Organization](ctx, a, qdcloud.Get("organizations"))
}

// GetTeams returns a page of the teams of an organization.
func (a *UserAPI) GetTeams(ctx context.Context, organizationID string, page PaginatedParams) qdcloud.Response[Paginated[Team]] {
	request := qdcloud.Get("organizations/" + organizationID + "/teams").WithParameters(page.ToMap())

	return Request[Paginated[Team]](ctx, a, request)
}

// GetProjectsOfTeam returns a page of the projects of a team.
func (a *UserAPI) GetProjectsOfTeam(ctx context.Context, teamID string, page PaginatedParams) qdcloud.Response[Paginated[ProjectInTeam]] {
	request := qdcloud.Get("teams/" + teamID + "/projects").WithParameters(page.ToMap())

	return Request[Paginated[ProjectInTeam]](ctx, a, request)
}

// GetProjectByOriginURL returns the projects analysing the repository at originURL.
func (a *UserAPI) GetProjectByOriginURL(ctx context.Context, originURL string) qdcloud.Response[ProjectsByOriginURL] {
	request := qdcloud.Get("projects/search").WithParameters(map[string]string{"originUrl": originURL})

	return Request[ProjectsByOriginURL](ctx, a, request)
}

// GetProjectProperties returns a project.
func (a *UserAPI) GetProjectProperties(ctx context.Context, projectID string) qdcloud.Response[Project] {
	return Request[Project](ctx, a, qdcloud.Get("projects/"+projectID))
}

// GetReportsTimeline returns a page of the reports of a project in the given states.
func (a *UserAPI) GetReportsTimeline(
	ctx context.Context,
	projectID string,
	states []ReportState,
	page PaginatedParams,
) qdcloud.Response[Paginated[Report]] {
	stateNames := lo.Map(states, func(state ReportState, _ int) string {
		return string(state)
	})

	request := qdcloud.Get("projects/" + projectID + "/timeline").
		WithParameters(page.ToMap()).
		WithParameters(map[string]string{"states": strings.Join(stateNames, ",")})

	return Request[Paginated[Report]](ctx, a, request)
}

// GetReportsWithRevisionsForPeriod returns a page of the reports of a project
// produced between from and to. A nil bound leaves that side open; to must
// not be before from.
func (a *UserAPI) GetReportsWithRevisionsForPeriod(
	ctx context.Context,
	projectID string,
	from, to *time.Time,
	page PaginatedParams,
) qdcloud.Response[Paginated[ReportWithRevision]] {
	if from != nil && to != nil && to.Before(*from) {
		err := fmt.Errorf("%w: %s > %s", qdcloud.ErrInvalidPeriod, formatInstant(*from), formatInstant(*to))

		return qdcloud.Failure[Paginated[ReportWithRevision]](err.Error(), 0, err)
	}

	params := page.ToMap()
	if from != nil {
		params["from"] = formatInstant(*from)
	}

	if to != nil {
		params["to"] = formatInstant(*to)
	}

	request := qdcloud.Get("projects/" + projectID + "/revisions").WithParameters(params)

	return Request[Paginated[ReportWithRevision]](ctx, a, request)
}

// GetReportFiles returns download links of the named files of a report.
func (a *UserAPI) GetReportFiles(ctx context.Context, reportID string, filenames []string) qdcloud.Response[Files] {
	request := qdcloud.Get("reports/" + reportID + "/files").
		WithParameters(map[string]string{"paths": strings.Join(filenames, ",")})

	return Request[Files](ctx, a, request)
}

// GetReportData returns a report.
func (a *UserAPI) GetReportData(ctx context.Context, reportID string) qdcloud.Response[ReportData] {
	return Request[ReportData](ctx, a, qdcloud.Get("reports/"+reportID))
}

// GenerateProjectToken creates a new upload token for a project.
func (a *UserAPI) GenerateProjectToken(ctx context.Context, projectID string) qdcloud.Response[ProjectToken] {
	return Request[ProjectToken](ctx, a, qdcloud.Post("projects/"+projectID+"/tokens", ""))
}

// GetProjectToken returns the current upload token of a project.
func (a *UserAPI) GetProjectToken(ctx context.Context, projectID string) qdcloud.Response[ProjectToken] {
	return Request[ProjectToken](ctx, a, qdcloud.Get("projects/"+projectID+"/tokens"))
}

// CreateProjectInTeam creates a project in a team.
func (a *UserAPIV3) CreateProjectInTeam(ctx context.Context, teamID, name string) qdcloud.Response[Project] {
	body, err := qdcloud.EncodeBody(map[string]string{"name": name})
	if err != nil {
		return qdcloud.Failure[Project](err.Error(), 0, err)
	}

	return Request[Project](ctx, a, qdcloud.Post("teams/"+teamID+"/projects/", body))
}

func formatInstant(instant time.Time) string {
	return instant.UTC().Format(time.RFC3339Nano)
}
