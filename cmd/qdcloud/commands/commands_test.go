package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/qdcloud/cmd/qdcloud/commands"
)

func TestNewUserCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewUserCommand()
	assert.Equal(t, "user", cmd.Use)
	assert.Equal(t, "Query Qodana Cloud as a user", cmd.Short)

	for _, name := range []string{
		"info", "licenses", "organizations", "teams", "projects", "search",
		"reports", "revisions", "report", "project-token", "create-project",
	} {
		assert.NotNil(t, findSubcommand(cmd, name), name)
	}

	organizations := findSubcommand(cmd, "organizations")
	require.NotNil(t, organizations)
	assert.Contains(t, organizations.Aliases, "orgs")
}

func TestUserPagedCommands(t *testing.T) {
	t.Parallel()

	cmd := commands.NewUserCommand()

	for _, name := range []string{"teams", "projects", "reports", "revisions"} {
		subcommand := findSubcommand(cmd, name)
		require.NotNil(t, subcommand, name)

		offset := subcommand.Flags().Lookup("offset")
		require.NotNil(t, offset, name)
		assert.Equal(t, "0", offset.DefValue)

		limit := subcommand.Flags().Lookup("limit")
		require.NotNil(t, limit, name)
		assert.Equal(t, "50", limit.DefValue)
	}

	revisions := findSubcommand(cmd, "revisions")
	assert.NotNil(t, revisions.Flags().Lookup("from"))
	assert.NotNil(t, revisions.Flags().Lookup("to"))

	reports := findSubcommand(cmd, "reports")
	states := reports.Flags().Lookup("states")
	require.NotNil(t, states)
	assert.Equal(t, "[PROCESSED]", states.DefValue)
}

func TestNewProjectCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewProjectCommand()
	assert.Equal(t, "project", cmd.Use)
	assert.NotNil(t, findSubcommand(cmd, "info"))
}

func TestNewOAuthCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewOAuthCommand()
	assert.Equal(t, "oauth", cmd.Use)

	for _, name := range []string{"provider", "exchange", "refresh"} {
		assert.NotNil(t, findSubcommand(cmd, name), name)
	}

	refresh := findSubcommand(cmd, "refresh")
	save := refresh.Flags().Lookup("save")
	require.NotNil(t, save)
	assert.Equal(t, "false", save.DefValue)
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	for _, name := range []string{"show", "set", "unset"} {
		assert.NotNil(t, findSubcommand(cmd, name), name)
	}
}

func TestNewVersionsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewVersionsCommand()
	assert.Equal(t, "versions", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
