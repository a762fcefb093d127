package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/qdcloud/pkg/qdcloud"
	v1 "github.com/fivetwenty-io/qdcloud/pkg/qdcloud/v1"
)

// tokenExpiryLeeway refreshes a stored token slightly before it expires.
const tokenExpiryLeeway = 30 * time.Second

// userTokenProvider returns the user token for requests sent through client.
//
// A stored token past its expiry is refreshed with the stored refresh token
// on first use, and the new credentials are written back to the config
// file. Without any token the user is asked for one on the terminal.
func userTokenProvider(cmd *cobra.Command, client *v1.Client) v1.UserTokenProvider {
	config := loadConfig()

	switch {
	case config.Token != "" && (config.RefreshToken == "" || !tokenExpired(config, time.Now())):
		return v1.StaticUserToken(config.Token)
	case config.RefreshToken != "":
		return lazyToken(func(ctx context.Context) (string, error) {
			return refreshUserToken(ctx, client.NotAuthorizedAPI(), config)
		})
	default:
		return lazyToken(func(context.Context) (string, error) {
			return promptForToken(cmd.ErrOrStderr())
		})
	}
}

// lazyToken calls fetch on the first request and reuses its token after
// that. A failed fetch is retried by the next request.
func lazyToken(fetch func(ctx context.Context) (string, error)) v1.UserTokenProvider {
	var (
		mutex sync.Mutex
		token string
	)

	return func(ctx context.Context) qdcloud.Response[string] {
		mutex.Lock()
		defer mutex.Unlock()

		if token != "" {
			return qdcloud.Success(token)
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return qdcloud.FromError[string](err)
		}

		token = fetched

		return qdcloud.Success(token)
	}
}

func refreshUserToken(ctx context.Context, api *v1.NotAuthorizedAPI, config *Config) (string, error) {
	credentials, err := api.GetNewCredentialsFromRefreshCode(ctx, config.RefreshToken).Get()
	if err != nil {
		return "", fmt.Errorf("failed to refresh user token: %w", err)
	}

	storeCredentials(config, credentials)

	err = saveConfigStruct(config)
	if err != nil {
		return "", err
	}

	return credentials.Access, nil
}

func storeCredentials(config *Config, credentials v1.AuthorizationData) {
	config.Token = credentials.Access
	config.RefreshToken = credentials.Refresh
	config.TokenExpiresAt = credentials.ExpiresAt.UTC().Format(time.RFC3339)
}

// tokenExpired reports whether the stored token expires within the leeway.
// An unparsable expiry counts as expired.
func tokenExpired(config *Config, now time.Time) bool {
	if config.TokenExpiresAt == "" {
		return false
	}

	expiresAt, err := time.Parse(time.RFC3339, config.TokenExpiresAt)
	if err != nil {
		return true
	}

	return !now.Add(tokenExpiryLeeway).Before(expiresAt)
}

func promptForToken(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", ErrUserTokenRequired
	}

	_, _ = fmt.Fprint(out, "User token: ")

	tokenBytes, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	if len(tokenBytes) == 0 {
		return "", ErrUserTokenRequired
	}

	return string(tokenBytes), nil
}
