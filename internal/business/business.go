// Package business wires the authentication components together and runs
// them behind the command line.
package business

import (
	"context"
	"fmt"
	"io"
	"os"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/appstate"
	"github.com/openkcm/auth-session/internal/auth"
	"github.com/openkcm/auth-session/internal/browser"
	"github.com/openkcm/auth-session/internal/config"
	"github.com/openkcm/auth-session/internal/identity/appwrite"
	"github.com/openkcm/auth-session/internal/resource"
)

// Main runs the interactive session on the standard streams.
func Main(ctx context.Context, cfg *config.Config) error {
	state, closeFn, err := initAppState(ctx, cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("initialising the application state: %w", err)
	}

	defer closeFn()

	return NewConsole(state, os.Stdin, os.Stdout).Run(ctx)
}

// LoginMain logs in unless already logged in and prints the user.
func LoginMain(ctx context.Context, cfg *config.Config) error {
	state, closeFn, err := initAppState(ctx, cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("initialising the application state: %w", err)
	}

	defer closeFn()

	return Login(ctx, state, os.Stdout)
}

// Login runs a login on state unless a user is already known and writes
// the user to out.
func Login(ctx context.Context, state *appstate.Provider, out io.Writer) error {
	if !state.IsLoggedIn() {
		res := state.Login(ctx)
		if !res.OK() {
			return fmt.Errorf("logging in: %w", res.Err())
		}
	}

	user := state.User()
	if user == nil {
		return fmt.Errorf("loading the user: %s", state.Error())
	}

	return printUser(out, user)
}

func initAppState(ctx context.Context, cfg *config.Config, alerts io.Writer) (*appstate.Provider, func(), error) {
	identityValues, err := config.LoadIdentity(cfg.Identity)
	if err != nil {
		return nil, nil, fmt.Errorf("loading identity config: %w", err)
	}

	backend := appwrite.NewClient(identityValues)
	launcher := browser.NewSystem(browser.WithOpener(browser.CommandOpener(cfg.Browser.Command)))

	manager, err := auth.NewManager(ctx, cfg, backend, launcher)
	if err != nil {
		return nil, nil, fmt.Errorf("creating auth manager: %w", err)
	}

	slogctx.Info(ctx, "Identity backend configured",
		"endpoint", identityValues.Endpoint,
		"provider", cfg.OAuth.Provider,
		"redirect_uri", manager.RedirectURI())

	state, err := appstate.New(ctx, manager, resource.NewWriterAlerter(alerts))
	if err != nil {
		return nil, nil, fmt.Errorf("creating application state: %w", err)
	}

	return state, state.Close, nil
}
