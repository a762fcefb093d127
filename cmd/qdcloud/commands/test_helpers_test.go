package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// newFakeCloud starts a server acting as both the frontend and the V1 API
// host of a deployment serving API version 1.minor. routes maps request
// paths below /api/v1/ to response bodies.
func newFakeCloud(t *testing.T, minor string, routes map[string]string) *httptest.Server {
	t.Helper()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/versions" {
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"api": map[string]interface{}{
					"versions": []map[string]string{
						{"version": "1." + minor, "url": server.URL + "/api/v1"},
					},
				},
				"linters": map[string]interface{}{
					"versions": []map[string]string{
						{"version": "1.0", "url": server.URL + "/linters/v1"},
					},
				},
			})

			return
		}

		body, ok := routes[request.Method+" "+request.URL.Path]
		if !ok {
			http.Error(writer, "not found", http.StatusNotFound)

			return
		}

		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

// useViper points the global viper configuration at a fresh state and
// restores it when the test ends.
func useViper(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("retries", 1)

	for key, value := range values {
		viper.Set(key, value)
	}
}

// execute runs cmd with args and returns its standard output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}
