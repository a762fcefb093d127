package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/qdcloud/pkg/qdclient"
	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
)

// Output format constants.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Common constants.
const (
	NotAvailable     = "N/A"
	DefaultPageLimit = 50
)

// Static errors for err113 compliance.
var (
	ErrUserTokenRequired    = errors.New("user token is required: use --token, QDCLOUD_TOKEN or the config file")
	ErrProjectTokenRequired = errors.New("project token is required: use --project-token, QDCLOUD_PROJECT_TOKEN or the config file")
	ErrFeatureNotSupported  = errors.New("this Qodana Cloud deployment does not support the operation")
	ErrUnknownConfigKey     = errors.New("unknown config key")
	ErrUnknownReportState   = errors.New("unknown report state")
	ErrInvalidOutputFormat  = errors.New("invalid output format")
)

// newLogger returns the CLI logger; --verbose switches it to debug level.
func newLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if viper.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	return logger
}

// createClient builds a Qodana Cloud client from the viper configuration.
func createClient(cmd *cobra.Command) (*qdclient.Client, error) {
	config := &qdclient.Config{
		FrontendURL: viper.GetString("frontend_url"),
		HTTPTimeout: viper.GetDuration("timeout"),
		MaxAttempts: viper.GetInt("retries"),
		Debug:       viper.GetBool("verbose"),
		Logger:      qdcloud.NewLogrusLogger(newLogger(cmd.ErrOrStderr())),
	}

	client, err := qdclient.New(commandContext(cmd), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// createV1Client discovers the V1 API of the configured deployment.
func createV1Client(cmd *cobra.Command) (*v1.Client, error) {
	client, err := createClient(cmd)
	if err != nil {
		return nil, err
	}

	api, err := client.V1(commandContext(cmd)).Get()
	if err != nil {
		return nil, fmt.Errorf("failed to discover the V1 API: %w", err)
	}

	return api, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func projectToken() (string, error) {
	token := viper.GetString("project_token")
	if token == "" {
		return "", ErrProjectTokenRequired
	}

	return token, nil
}

func pageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("offset", 0, "offset of the first item")
	cmd.Flags().Int("limit", DefaultPageLimit, "maximum number of items")
}

func pageParams(cmd *cobra.Command) v1.PaginatedParams {
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")

	return v1.PaginatedParams{Offset: offset, Limit: limit}
}

// render writes value as JSON or YAML, or the given rows as a table.
func render(cmd *cobra.Command, value any, header []string, rows [][]string) error {
	out := cmd.OutOrStdout()

	switch format := viper.GetString("output"); format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(out)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	case OutputFormatTable, "":
		table := tablewriter.NewWriter(out)
		table.Header(lo.ToAnySlice(header)...)

		for _, row := range rows {
			_ = table.Append(lo.ToAnySlice(row)...)
		}

		return table.Render()
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, format)
	}
}

func stringOrNA(value *string) string {
	if value == nil || *value == "" {
		return NotAvailable
	}

	return *value
}

func intOrNA(value *int) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.Itoa(*value)
}

func parseTimeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return nil, nil //nolint:nilnil // an unset bound is open
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}

	return &parsed, nil
}

func isTableOutput() bool {
	format := viper.GetString("output")

	return format == "" || format == OutputFormatTable
}
