package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// Families of the discovery table.
const (
	familyAPI     = "api"
	familyLinters = "linters"
)

// NewVersionsCommand creates the versions command.
func NewVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the API versions of the deployment",
		Long:  "Query the frontend for the API and linters hosts and versions it serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			apis, err := client.Environment().GetApis(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get API versions: %w", err)
			}

			rows := make([][]string, 0, len(apis.API)+len(apis.Linters))

			for _, api := range apis.API {
				rows = append(rows, []string{familyAPI, api.String(), strconv.Itoa(api.MajorVersion), api.Host})
			}

			for _, api := range apis.Linters {
				rows = append(rows, []string{familyLinters, api.String(), strconv.Itoa(api.MajorVersion), api.Host})
			}

			return render(cmd, apis, []string{"Family", "Version", "Major", "Host"}, rows)
		},
	}
}
