package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/qdcloud/internal/constants"
)

// ConfigDirName is the directory under the user home holding config.yml.
const ConfigDirName = ".qdcloud"

const (
	keyFrontendURL  = "frontend_url"
	keyToken        = "token"
	keyProjectToken = "project_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "token_expires_at"
	keyOutput       = "output"
	keyTimeout      = "timeout"
	keyRetries      = "retries"

	maskedSecret = "********"
)

var configKeys = []string{
	keyFrontendURL, keyToken, keyRefreshToken, keyExpiresAt, keyProjectToken, keyOutput, keyTimeout, keyRetries,
}

// Config represents the CLI configuration.
type Config struct {
	FrontendURL    string `json:"frontend_url,omitempty"     yaml:"frontend_url,omitempty"`
	Token          string `json:"token,omitempty"            yaml:"token,omitempty"`
	RefreshToken   string `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	TokenExpiresAt string `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	ProjectToken   string `json:"project_token,omitempty"    yaml:"project_token,omitempty"`
	Output         string `json:"output,omitempty"           yaml:"output,omitempty"`
	Timeout        string `json:"timeout,omitempty"          yaml:"timeout,omitempty"`
	Retries        int    `json:"retries,omitempty"          yaml:"retries,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the qdcloud CLI configuration stored in ~/.qdcloud/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration; tokens are masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = mask(config.Token)
			config.RefreshToken = mask(config.RefreshToken)
			config.ProjectToken = mask(config.ProjectToken)

			rows := [][]string{
				{keyFrontendURL, config.FrontendURL},
				{keyToken, config.Token},
				{keyRefreshToken, config.RefreshToken},
				{keyExpiresAt, config.TokenExpiresAt},
				{keyProjectToken, config.ProjectToken},
				{keyOutput, config.Output},
				{keyTimeout, config.Timeout},
				{keyRetries, strconv.Itoa(config.Retries)},
			}

			return render(cmd, config, []string{"Key", "Value"}, rows)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	timeout := ""
	if viper.IsSet(keyTimeout) {
		timeout = viper.GetDuration(keyTimeout).String()
	}

	return &Config{
		FrontendURL:    viper.GetString(keyFrontendURL),
		Token:          viper.GetString(keyToken),
		RefreshToken:   viper.GetString(keyRefreshToken),
		TokenExpiresAt: viper.GetString(keyExpiresAt),
		ProjectToken:   viper.GetString(keyProjectToken),
		Output:         viper.GetString(keyOutput),
		Timeout:        timeout,
		Retries:        viper.GetInt(keyRetries),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyFrontendURL:
		config.FrontendURL = value
	case keyToken:
		config.Token = value
	case keyRefreshToken:
		config.RefreshToken = value
	case keyExpiresAt:
		_, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid token expiry: %w", err)
		}

		config.TokenExpiresAt = value
	case keyProjectToken:
		config.ProjectToken = value
	case keyOutput:
		if !slices.Contains([]string{OutputFormatTable, OutputFormatJSON, OutputFormatYAML}, value) {
			return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, value)
		}

		config.Output = value
	case keyTimeout:
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}

		config.Timeout = value
	case keyRetries:
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries: %w", err)
		}

		config.Retries = retries
	default:
		return fmt.Errorf("%w: %s (valid keys: %v)", ErrUnknownConfigKey, key, configKeys)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case keyFrontendURL:
		config.FrontendURL = ""
	case keyToken:
		config.Token = ""
	case keyRefreshToken:
		config.RefreshToken = ""
	case keyExpiresAt:
		config.TokenExpiresAt = ""
	case keyProjectToken:
		config.ProjectToken = ""
	case keyOutput:
		config.Output = ""
	case keyTimeout:
		config.Timeout = ""
	case keyRetries:
		config.Retries = 0
	default:
		return fmt.Errorf("%w: %s (valid keys: %v)", ErrUnknownConfigKey, key, configKeys)
	}

	return nil
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ConfigDirName)

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return maskedSecret
}
