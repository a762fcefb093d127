package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Query Qodana Cloud with a project token",
	}

	cmd.AddCommand(newProjectInfoCommand())

	return cmd
}

func newProjectInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the project the token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := projectToken()
			if err != nil {
				return err
			}

			client, err := createV1Client(cmd)
			if err != nil {
				return err
			}

			project, err := client.ProjectAPI(token).GetProjectProperties(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			return renderProject(cmd, project)
		},
	}
}
