package business

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/appstate"
	"github.com/openkcm/auth-session/internal/auth"
)

const prompt = "> "

const help = `Commands:
  login    sign in with the configured provider
  logout   end the current session
  whoami   show the current user
  refetch  reload the current user
  help     show this help
  quit     leave
`

// Console is a line based front end over an appstate.Provider.
type Console struct {
	state *appstate.Provider
	in    io.Reader
	out   io.Writer
}

func NewConsole(state *appstate.Provider, in io.Reader, out io.Writer) *Console {
	return &Console{state: state, in: in, out: out}
}

// Run reads commands until quit, the end of the input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printf("%s", help)
	c.printStatus()

	for {
		c.printf(prompt)

		select {
		case <-ctx.Done():
			c.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				c.printf("\n")
				return readError(scanErr)
			}

			if quit := c.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

// handle runs one command and reports whether the console should stop.
func (c *Console) handle(ctx context.Context, command string) bool {
	slogctx.Debug(ctx, "Console command", "command", command)

	switch strings.ToLower(command) {
	case "":
	case "login":
		if c.state.IsLoggedIn() {
			c.printf("Already logged in.\n")
			return false
		}

		c.printf("Continue in the browser...\n")
		if res := c.state.Login(ctx); !res.OK() {
			c.printf("Login failed: %s\n", res.Code())
			return false
		}
		c.printStatus()
	case "logout":
		if res := c.state.Logout(ctx); !res.OK() {
			c.printf("Logout failed: %s\n", res.Code())
			return false
		}
		c.printf("Logged out.\n")
	case "whoami":
		c.printStatus()
	case "refetch":
		c.state.Refetch(ctx)
		c.printStatus()
	case "help", "?":
		c.printf("%s", help)
	case "quit", "exit":
		return true
	default:
		c.printf("Unknown command %q. Type help for a list.\n", command)
	}

	return false
}

func (c *Console) printStatus() {
	user := c.state.User()
	if user == nil {
		c.printf("Not logged in.\n")
		return
	}

	_ = printUser(c.out, user)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func printUser(out io.Writer, user *auth.User) error {
	_, err := fmt.Fprintf(out, "Logged in as %s <%s> (%s)\nAvatar: %s\n", user.Name, user.Email, user.ID, user.Avatar)
	if err != nil {
		return fmt.Errorf("writing user: %w", err)
	}

	return nil
}

func readError(scanErr <-chan error) error {
	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	default:
	}

	return nil
}
