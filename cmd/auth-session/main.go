package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/openkcm/common-sdk/pkg/utils"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/cmd/auth-session/login"
	"github.com/openkcm/auth-session/cmd/auth-session/run"
)

// BuildInfo will be set by the build system
var BuildInfo = "{}"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Auth Session Version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		value, err := utils.ExtractFromComplexValue(BuildInfo)
		if err != nil {
			return err
		}

		slog.InfoContext(cmd.Context(), value)

		return nil
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "auth-session",
		Short:        "Auth Session",
		Long:         "Signs in to the identity backend through the browser and keeps the session for the running process.",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		versionCmd,
		run.Cmd(BuildInfo),
		login.Cmd(BuildInfo),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "failed to run the application", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)

		return err
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
