package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener hands a URL to something able to display it.
type Opener func(ctx context.Context, url string) error

// CommandOpener returns an Opener running command with the URL as last
// argument. An empty command selects the platform default.
func CommandOpener(command string) Opener {
	return func(ctx context.Context, url string) error {
		name, args := openCommand(command)
		args = append(args, url)

		// detached from ctx: the browser keeps running after Open returns
		cmd := exec.Command(name, args...) //nolint:gosec,noctx
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting %s: %w", name, err)
		}

		go func() {
			_ = cmd.Wait()
		}()

		return ctx.Err()
	}
}

func openCommand(command string) (string, []string) {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0], fields[1:]
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
