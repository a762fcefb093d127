package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
)

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Query Qodana Cloud as a user",
		Long:  "Query organizations, teams, projects and reports with a user token",
	}

	cmd.AddCommand(newUserInfoCommand())
	cmd.AddCommand(newUserLicensesCommand())
	cmd.AddCommand(newUserOrganizationsCommand())
	cmd.AddCommand(newUserTeamsCommand())
	cmd.AddCommand(newUserProjectsCommand())
	cmd.AddCommand(newUserSearchCommand())
	cmd.AddCommand(newUserReportsCommand())
	cmd.AddCommand(newUserRevisionsCommand())
	cmd.AddCommand(newUserReportCommand())
	cmd.AddCommand(newUserProjectTokenCommand())
	cmd.AddCommand(newUserCreateProjectCommand())

	return cmd
}

func userAPI(cmd *cobra.Command) (*v1.UserAPI, error) {
	client, err := createV1Client(cmd)
	if err != nil {
		return nil, err
	}

	return client.UserAPI(userTokenProvider(cmd, client)), nil
}

func newUserInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			info, err := api.GetUserInfo(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}

			rows := [][]string{
				{"ID", info.ID},
				{"Username", stringOrNA(info.Username)},
				{"Full Name", stringOrNA(info.FullName)},
			}

			return render(cmd, info, []string{"Property", "Value"}, rows)
		},
	}
}

func newUserLicensesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "licenses",
		Short: "List the licenses the user is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			licenses, err := api.GetUserLicenses(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get user licenses: %w", err)
			}

			rows := lo.Map(licenses.Missing, func(license v1.License, _ int) []string {
				return []string{license.ID}
			})

			return render(cmd, licenses, []string{"Missing License"}, rows)
		},
	}
}

func newUserOrganizationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "List the organizations of the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			organizations, err := api.GetOrganizations(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get organizations: %w", err)
			}

			rows := lo.Map(organizations, func(organization v1.Organization, _ int) []string {
				return []string{organization.ID}
			})

			return render(cmd, organizations, []string{"ID"}, rows)
		},
	}
}

func newUserTeamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams ORGANIZATION_ID",
		Short: "List the teams of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			teams, err := api.GetTeams(commandContext(cmd), args[0], pageParams(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get teams: %w", err)
			}

			rows := lo.Map(teams.Items, func(team v1.Team, _ int) []string {
				return []string{team.ID, stringOrNA(team.Name), strconv.Itoa(team.ProjectCount), strconv.Itoa(team.MembersCount)}
			})

			err = render(cmd, teams, []string{"ID", "Name", "Projects", "Members"}, rows)
			if err != nil {
				return err
			}

			printNextPage(cmd, teams.NextPageOffset)

			return nil
		},
	}

	pageFlags(cmd)

	return cmd
}

func newUserProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects TEAM_ID",
		Short: "List the projects of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			projects, err := api.GetProjectsOfTeam(commandContext(cmd), args[0], pageParams(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get projects: %w", err)
			}

			rows := lo.Map(projects.Items, func(project v1.ProjectInTeam, _ int) []string {
				total := NotAvailable
				if project.Problems != nil {
					total = intOrNA(project.Problems.Total)
				}

				return []string{project.ID, stringOrNA(project.Name), stringOrNA(project.Branch), total, stringOrNA(project.LastChecked)}
			})

			err = render(cmd, projects, []string{"ID", "Name", "Branch", "Problems", "Last Checked"}, rows)
			if err != nil {
				return err
			}

			printNextPage(cmd, projects.NextPageOffset)

			return nil
		},
	}

	pageFlags(cmd)

	return cmd
}

func newUserSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search ORIGIN_URL",
		Short: "Find the projects analysing a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			found, err := api.GetProjectByOriginURL(commandContext(cmd), args[0]).Get()
			if err != nil {
				return fmt.Errorf("failed to search projects: %w", err)
			}

			rows := lo.Map(found.MatchingProjects, func(project v1.MatchingProject, _ int) []string {
				return []string{project.ProjectID, stringOrNA(project.ProjectName), stringOrNA(project.TeamName), stringOrNA(project.OrganizationName)}
			})

			return render(cmd, found, []string{"ID", "Name", "Team", "Organization"}, rows)
		},
	}
}

func newUserReportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports PROJECT_ID",
		Short: "List the reports of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stateNames, _ := cmd.Flags().GetStringSlice("states")

			states, err := parseReportStates(stateNames)
			if err != nil {
				return err
			}

			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			reports, err := api.GetReportsTimeline(commandContext(cmd), args[0], states, pageParams(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get reports: %w", err)
			}

			rows := lo.Map(reports.Items, func(report v1.Report, _ int) []string {
				return []string{report.ReportID}
			})

			err = render(cmd, reports, []string{"Report ID"}, rows)
			if err != nil {
				return err
			}

			printNextPage(cmd, reports.NextPageOffset)

			return nil
		},
	}

	cmd.Flags().StringSlice("states", []string{string(v1.ReportStateProcessed)}, "report states (UPLOADED, PROCESSED, PINNED)")
	pageFlags(cmd)

	return cmd
}

func newUserRevisionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revisions PROJECT_ID",
		Short: "List the reports of a project with their commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseTimeFlag(cmd, "from")
			if err != nil {
				return err
			}

			to, err := parseTimeFlag(cmd, "to")
			if err != nil {
				return err
			}

			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			reports, err := api.GetReportsWithRevisionsForPeriod(commandContext(cmd), args[0], from, to, pageParams(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get revisions: %w", err)
			}

			rows := lo.Map(reports.Items, func(report v1.ReportWithRevision, _ int) []string {
				return []string{report.ReportID, stringOrNA(report.Commit)}
			})

			err = render(cmd, reports, []string{"Report ID", "Commit"}, rows)
			if err != nil {
				return err
			}

			printNextPage(cmd, reports.NextPageOffset)

			return nil
		},
	}

	cmd.Flags().String("from", "", "start of the period (RFC 3339)")
	cmd.Flags().String("to", "", "end of the period (RFC 3339)")
	pageFlags(cmd)

	return cmd
}

func newUserReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report REPORT_ID",
		Short: "Show a report and its file links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			data, err := api.GetReportData(ctx, args[0]).Get()
			if err != nil {
				return fmt.Errorf("failed to get report: %w", err)
			}

			filenames, _ := cmd.Flags().GetStringSlice("files")
			if len(filenames) == 0 {
				return render(cmd, data, []string{"Property", "Value"}, [][]string{{"Project ID", data.ProjectID}})
			}

			files, err := api.GetReportFiles(ctx, args[0], filenames).Get()
			if err != nil {
				return fmt.Errorf("failed to get report files: %w", err)
			}

			rows := lo.Map(files.Files, func(file v1.File, _ int) []string {
				return []string{file.File, stringOrNA(file.URL)}
			})

			return render(cmd, files, []string{"File", "URL"}, rows)
		},
	}

	cmd.Flags().StringSlice("files", nil, "report files to get download links for")

	return cmd
}

func newUserProjectTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project-token PROJECT_ID",
		Short: "Show or generate the upload token of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			response := api.GetProjectToken(ctx, args[0])
			if generate, _ := cmd.Flags().GetBool("generate"); generate {
				response = api.GenerateProjectToken(ctx, args[0])
			}

			token, err := response.Get()
			if err != nil {
				return fmt.Errorf("failed to get project token: %w", err)
			}

			return render(cmd, token, []string{"Property", "Value"}, [][]string{{"Token", token.Token}})
		},
	}

	cmd.Flags().Bool("generate", false, "generate a new token")

	return cmd
}

func newUserCreateProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-project TEAM_ID NAME",
		Short: "Create a project in a team",
		Long:  "Create a project in a team. Requires API version 1.3 or later",
		Args:  cobra.ExactArgs(2), //nolint:mnd // team and name
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := userAPI(cmd)
			if err != nil {
				return err
			}

			v3 := api.V3()
			if v3 == nil {
				return fmt.Errorf("%w: creating projects needs API 1.3, the deployment serves 1.%d",
					ErrFeatureNotSupported, api.VersionNumber())
			}

			project, err := v3.CreateProjectInTeam(commandContext(cmd), args[0], args[1]).Get()
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			return renderProject(cmd, project)
		},
	}
}

func renderProject(cmd *cobra.Command, project v1.Project) error {
	rows := [][]string{
		{"ID", project.ID},
		{"Name", stringOrNA(project.Name)},
		{"Organization ID", project.OrganizationID},
	}

	return render(cmd, project, []string{"Property", "Value"}, rows)
}

func parseReportStates(names []string) ([]v1.ReportState, error) {
	known := []v1.ReportState{v1.ReportStateUploaded, v1.ReportStateProcessed, v1.ReportStatePinned}
	states := make([]v1.ReportState, 0, len(names))

	for _, name := range names {
		state := v1.ReportState(strings.ToUpper(strings.TrimSpace(name)))
		if !lo.Contains(known, state) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReportState, name)
		}

		states = append(states, state)
	}

	return states, nil
}

func printNextPage(cmd *cobra.Command, next *int) {
	if next == nil || !isTableOutput() {
		return
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "More items available: use --offset %d\n", *next)
}
