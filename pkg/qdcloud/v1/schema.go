package v1

import (
	"strconv"
	"time"
)

// UserLicenses lists the licenses the user is missing.
type UserLicenses struct {
	Missing []License `json:"missing" yaml:"missing"`
}

// License is a license ID.
type License struct {
	ID string `json:"id" yaml:"id"`
}

// Paginated is one page of a list. NextPageOffset is nil on the last page.
type Paginated[T any] struct {
	Items          []T  `json:"items"          yaml:"items"`
	NextPageOffset *int `json:"next,omitempty" yaml:"next,omitempty"`
}

// HasNextPage reports whether more items are available.
func (p Paginated[T]) HasNextPage() bool {
	return p.NextPageOffset != nil
}

// UserInfo describes the authenticated user.
type UserInfo struct {
	ID       string  `json:"id"                 yaml:"id"`
	FullName *string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Username *string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Organization is an organization the user belongs to.
type Organization struct {
	ID string `json:"id" yaml:"id"`
}

// Team is a team of an organization.
type Team struct {
	ID           string  `json:"id"             yaml:"id"`
	Name         *string `json:"name,omitempty" yaml:"name,omitempty"`
	ProjectCount int     `json:"projectCount"   yaml:"projectCount"`
	MembersCount int     `json:"membersCount"   yaml:"membersCount"`
}

// Project describes a project.
type Project struct {
	ID             string  `json:"id"             yaml:"id"`
	OrganizationID string  `json:"organizationId" yaml:"organizationId"`
	Name           *string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Problems counts the problems of the latest report.
type Problems struct {
	Total *int `json:"total,omitempty" yaml:"total,omitempty"`
}

// ProjectInTeam is a project as listed in a team.
type ProjectInTeam struct {
	ID            string    `json:"id"                      yaml:"id"`
	Name          *string   `json:"name,omitempty"          yaml:"name,omitempty"`
	Problems      *Problems `json:"problems,omitempty"      yaml:"problems,omitempty"`
	Branch        *string   `json:"branch,omitempty"        yaml:"branch,omitempty"`
	LastChecked   *string   `json:"lastChecked,omitempty"   yaml:"lastChecked,omitempty"`
	BaselineCount *int      `json:"baselineCount,omitempty" yaml:"baselineCount,omitempty"`
	URL           *string   `json:"url,omitempty"           yaml:"url,omitempty"`
}

// ProjectsByOriginURL lists the projects analysing a repository.
type ProjectsByOriginURL struct {
	MatchingProjects []MatchingProject `json:"matchingProjects" yaml:"matchingProjects"`
}

// MatchingProject is a project found by repository origin.
type MatchingProject struct {
	ProjectID        string      `json:"projectId"                  yaml:"projectId"`
	ProjectName      *string     `json:"projectName,omitempty"      yaml:"projectName,omitempty"`
	OrganizationName *string     `json:"organizationName,omitempty" yaml:"organizationName,omitempty"`
	TeamName         *string     `json:"teamName,omitempty"         yaml:"teamName,omitempty"`
	TeamID           *string     `json:"teamId,omitempty"           yaml:"teamId,omitempty"`
	ReportInfo       *ReportInfo `json:"reportInfo,omitempty"       yaml:"reportInfo,omitempty"`
}

// ReportInfo summarises the latest report of a matching project.
type ReportInfo struct {
	Problems      *Problems `json:"problems,omitempty"      yaml:"problems,omitempty"`
	Branch        *string   `json:"branch,omitempty"        yaml:"branch,omitempty"`
	LastChecked   *string   `json:"lastChecked,omitempty"   yaml:"lastChecked,omitempty"`
	BaselineCount *int      `json:"baselineCount,omitempty" yaml:"baselineCount,omitempty"`
	URL           *string   `json:"url,omitempty"           yaml:"url,omitempty"`
}

// Report identifies a report in a timeline.
type Report struct {
	ReportID string `json:"reportId" yaml:"reportId"`
}

// ReportWithRevision is a report and the commit it was produced for.
type ReportWithRevision struct {
	ReportID string  `json:"reportId"         yaml:"reportId"`
	Commit   *string `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// Files lists downloadable files of a report.
type Files struct {
	Files []File `json:"files" yaml:"files"`
}

// File is a report file and its download URL.
type File struct {
	File string  `json:"file"          yaml:"file"`
	URL  *string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ReportData describes a report.
type ReportData struct {
	ProjectID string `json:"projectId" yaml:"projectId"`
}

// ProjectToken is the token a project uploads reports with.
type ProjectToken struct {
	Token string `json:"token" yaml:"token"`
}

// AuthorizationData holds user credentials.
type AuthorizationData struct {
	Access    string    `json:"access"     yaml:"access"`
	Refresh   string    `json:"refresh"    yaml:"refresh"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// OAuthProviderData describes the OAuth provider of the deployment.
type OAuthProviderData struct {
	OAuthURL     string `json:"oauthUrl"     yaml:"oauthUrl"`
	ProviderName string `json:"providerName" yaml:"providerName"`
}

// StartPublishReportData tells where to upload the files of a new report.
type StartPublishReportData struct {
	ReportID      string            `json:"reportId"      yaml:"reportId"`
	FileLinks     map[string]string `json:"fileLinks"     yaml:"fileLinks"`
	LangsRequired bool              `json:"langsRequired" yaml:"langsRequired"`
}

// FinishPublishReportData points to the published report.
type FinishPublishReportData struct {
	Token string `json:"token" yaml:"token"`
	URL   string `json:"url"   yaml:"url"`
}

// PaginatedParams selects a page of a list.
type PaginatedParams struct {
	Offset int
	Limit  int
}

// ToMap returns the query parameters of the page.
func (p PaginatedParams) ToMap() map[string]string {
	return map[string]string{
		"offset": strconv.Itoa(p.Offset),
		"limit":  strconv.Itoa(p.Limit),
	}
}

// ReportState filters reports of a timeline.
type ReportState string

// Report states.
const (
	ReportStateUploaded  ReportState = "UPLOADED"
	ReportStateProcessed ReportState = "PROCESSED"
	ReportStatePinned    ReportState = "PINNED"
)

// ReportType is the format of an uploaded report.
type ReportType string

// Report types.
const (
	ReportTypeIDEA  ReportType = "idea"
	ReportTypeSARIF ReportType = "sarif"
)

// PublishRequest starts the upload of a report.
type PublishRequest struct {
	Type             ReportType   `json:"type"`
	Files            []ReportFile `json:"files"`
	AnalysisID       string       `json:"analysisId"`
	Tools            []string     `json:"tools,omitempty"`
	VCS              VCS          `json:"vcs"`
	ProjectURL       *string      `json:"projectUrl,omitempty"`
	SharedProjectID  *string      `json:"sharedProjectId,omitempty"`
	PublisherVersion *string      `json:"publisherVersion,omitempty"`
}

// ReportFile is a file of an uploaded report.
type ReportFile struct {
	Name     string `json:"name"`
	KBSize   int64  `json:"kbSize"`
	Checksum string `json:"checksum"`
}

// VCS describes the revision a report was produced for.
type VCS struct {
	Commit *string `json:"commit,omitempty"`
	Branch *string `json:"branch,omitempty"`
	Author *Author `json:"author,omitempty"`
	Origin *string `json:"origin,omitempty"`
}

// Author of a commit.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
