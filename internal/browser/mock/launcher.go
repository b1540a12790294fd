package browsermock

import (
	"context"
	"sync"

	"github.com/openkcm/auth-session/internal/browser"
)

type LauncherOption func(*Launcher)

// Launcher returns a canned browser.Result and records what it was opened on.
type Launcher struct {
	mu sync.Mutex

	result browser.Result
	err    error

	opened       []string
	returnPrefix string
}

func WithRedirect(url string) LauncherOption {
	return func(l *Launcher) { l.result = browser.Result{Type: browser.ResultSuccess, URL: url} }
}
func WithResult(res browser.Result) LauncherOption {
	return func(l *Launcher) { l.result = res }
}
func WithError(err error) LauncherOption {
	return func(l *Launcher) { l.err = err }
}

var _ = browser.Launcher(&Launcher{})

func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{result: browser.Result{Type: browser.ResultCancel}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *Launcher) Open(_ context.Context, url, returnPrefix string) (browser.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, url)
	l.returnPrefix = returnPrefix
	if l.err != nil {
		return browser.Result{}, l.err
	}
	return l.result, nil
}

// Opened returns the URLs the launcher was opened on.
func (l *Launcher) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

func (l *Launcher) ReturnPrefix() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.returnPrefix
}
