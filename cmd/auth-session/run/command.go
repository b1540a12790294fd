package run

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/auth-session/internal/business"
	"github.com/openkcm/auth-session/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"run",
		"Interactive auth session",
		"Starts an interactive session to login, logout and inspect the current user",
		buildInfo,
		cmdutils.RunWithTelemetry,
		business.Main,
	)
}
