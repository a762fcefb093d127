package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
)

// NewOAuthCommand creates the oauth command group.
func NewOAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Unauthenticated OAuth endpoints",
	}

	cmd.AddCommand(newOAuthProviderCommand())
	cmd.AddCommand(newOAuthExchangeCommand())
	cmd.AddCommand(newOAuthRefreshCommand())

	return cmd
}

func notAuthorizedAPI(cmd *cobra.Command) (*v1.NotAuthorizedAPI, error) {
	client, err := createV1Client(cmd)
	if err != nil {
		return nil, err
	}

	return client.NotAuthorizedAPI(), nil
}

func newOAuthProviderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "provider",
		Short: "Show the OAuth provider of the deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := notAuthorizedAPI(cmd)
			if err != nil {
				return err
			}

			provider, err := api.GetOAuthProviderData(commandContext(cmd)).Get()
			if err != nil {
				return fmt.Errorf("failed to get OAuth provider: %w", err)
			}

			rows := [][]string{
				{"Provider", provider.ProviderName},
				{"OAuth URL", provider.OAuthURL},
			}

			return render(cmd, provider, []string{"Property", "Value"}, rows)
		},
	}
}

func newOAuthExchangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange CODE",
		Short: "Exchange an OAuth code for credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := notAuthorizedAPI(cmd)
			if err != nil {
				return err
			}

			credentials, err := api.GetCredentialsFromOAuthCode(commandContext(cmd), args[0]).Get()
			if err != nil {
				return fmt.Errorf("failed to exchange OAuth code: %w", err)
			}

			err = saveCredentials(cmd, credentials)
			if err != nil {
				return err
			}

			return renderCredentials(cmd, credentials)
		},
	}

	cmd.Flags().Bool("save", false, "store the credentials in the config file")

	return cmd
}

func newOAuthRefreshCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh REFRESH_CODE",
		Short: "Get new credentials from a refresh code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := notAuthorizedAPI(cmd)
			if err != nil {
				return err
			}

			credentials, err := api.GetNewCredentialsFromRefreshCode(commandContext(cmd), args[0]).Get()
			if err != nil {
				return fmt.Errorf("failed to refresh credentials: %w", err)
			}

			err = saveCredentials(cmd, credentials)
			if err != nil {
				return err
			}

			return renderCredentials(cmd, credentials)
		},
	}

	cmd.Flags().Bool("save", false, "store the credentials in the config file")

	return cmd
}

func saveCredentials(cmd *cobra.Command, credentials v1.AuthorizationData) error {
	if save, _ := cmd.Flags().GetBool("save"); !save {
		return nil
	}

	config := loadConfig()
	storeCredentials(config, credentials)

	return saveConfigStruct(config)
}

func renderCredentials(cmd *cobra.Command, credentials v1.AuthorizationData) error {
	rows := [][]string{
		{"Access", mask(credentials.Access)},
		{"Refresh", mask(credentials.Refresh)},
		{"Expires At", credentials.ExpiresAt.Format(time.RFC3339)},
	}

	return render(cmd, credentials, []string{"Property", "Value"}, rows)
}
