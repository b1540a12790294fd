package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/linking"
	"github.com/openkcm/auth-session/internal/middleware/requestlog"
)

const (
	shutdownTimeout = 5 * time.Second

	completionPage = `<!doctype html><html><body><p>Signed in. You can close this window.</p></body></html>`
)

type SystemOption func(*System)

func WithOpener(opener Opener) SystemOption {
	return func(s *System) { s.open = opener }
}

// System opens the operating system browser and receives the redirect on a
// loopback HTTP listener bound to the host of the return prefix. Only a
// request for the exact redirect path completes the flow; anything else the
// browser asks for gets a 404.
type System struct {
	open Opener
}

var _ = Launcher(&System{})

func NewSystem(opts ...SystemOption) *System {
	s := &System{open: CommandOpener("")}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Open never times out on its own. Cancelling ctx is how the user dismisses
// the session.
func (s *System) Open(ctx context.Context, authURL, returnPrefix string) (Result, error) {
	prefix, err := url.Parse(returnPrefix)
	if err != nil {
		return Result{}, fmt.Errorf("parsing return prefix: %w", err)
	}
	if prefix.Scheme != "http" {
		return Result{}, fmt.Errorf("unsupported return prefix scheme %q", prefix.Scheme)
	}

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", prefix.Host)
	if err != nil {
		return Result{}, oops.In("Browser").
			WithContext(ctx).
			Wrapf(err, "Failed to create a callback listener")
	}

	redirects := make(chan string, 1)
	var once sync.Once

	callback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := "http://" + prefix.Host + r.URL.RequestURI()
		if !linking.Matches(target, returnPrefix) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(completionPage))
		once.Do(func() { redirects <- target })
	})

	server := &http.Server{
		ReadHeaderTimeout: shutdownTimeout,
		Handler:           requestlog.Middleware("browser.callback", callback),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		slogctx.Debug(ctx, "Serving the callback listener", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve the callback listener", "error", err)
		}
	}()

	defer func() {
		shutdownCtx, release := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer release()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogctx.Warn(ctx, "Failed shutting down the callback listener", "error", err)
		}
	}()

	slogctx.Info(ctx, "Opening the browser", "return_prefix", returnPrefix)
	if err := s.open(ctx, authURL); err != nil {
		if ctx.Err() != nil {
			return Result{Type: ResultDismiss}, nil
		}
		return Result{}, fmt.Errorf("opening browser: %w", err)
	}

	select {
	case target := <-redirects:
		return Result{Type: ResultSuccess, URL: target}, nil
	case <-ctx.Done():
		slogctx.Info(ctx, "Browser session dismissed")
		return Result{Type: ResultDismiss}, nil
	}
}
