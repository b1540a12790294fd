package login

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/auth-session/internal/business"
	"github.com/openkcm/auth-session/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"login",
		"Login through the browser",
		"Logs in with the configured OAuth2 provider unless a session exists and prints the user",
		buildInfo,
		cmdutils.Run,
		business.LoginMain,
	)
}
