// Package appstate holds the application wide authentication state: the
// current user and whether it is being loaded. One Provider is created at
// the application root and handed to whatever needs it.
package appstate

import (
	"context"
	"fmt"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/auth"
	"github.com/openkcm/auth-session/internal/identity"
	"github.com/openkcm/auth-session/internal/resource"
	"github.com/openkcm/auth-session/internal/serviceerr"
	"github.com/openkcm/auth-session/pkg/result"
)

// Authenticator is the part of auth.Manager the Provider depends on.
type Authenticator interface {
	Login(ctx context.Context) result.Result[identity.Session]
	Logout(ctx context.Context) result.Result[struct{}]
	CurrentUser(ctx context.Context) result.Result[auth.User]
}

type Provider struct {
	auth Authenticator
	user *resource.Resource[*auth.User, resource.NoParams]

	mu     sync.RWMutex
	closed bool
}

// New creates the Provider and loads the current user before returning.
func New(ctx context.Context, authenticator Authenticator, alerter resource.Alerter) (*Provider, error) {
	p := &Provider{auth: authenticator}

	user, err := resource.New(resource.Options[*auth.User, resource.NoParams]{
		Fn:      p.currentUser,
		Alerter: alerter,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user resource: %w", err)
	}
	p.user = user

	p.user.Activate(ctx)

	return p, nil
}

// currentUser treats a missing session as a nil user.
func (p *Provider) currentUser(ctx context.Context, _ resource.NoParams) (*auth.User, error) {
	res := p.auth.CurrentUser(ctx)

	user, ok := res.Value()
	switch {
	case ok:
		return &user, nil
	case res.Code() == serviceerr.CodeNotAuthenticated:
		return nil, nil
	default:
		cause := res.Err()
		return nil, serviceerr.ErrResourceFetch.WithDescription(cause.Error()).Wrap(cause)
	}
}

// User is nil until a user has been loaded and after a logout.
func (p *Provider) User() *auth.User {
	state := p.user.State()
	if state.Data == nil {
		return nil
	}

	return *state.Data
}

func (p *Provider) IsLoggedIn() bool {
	return p.User() != nil
}

func (p *Provider) Loading() bool {
	return p.user.State().Loading
}

// Error is the message of the latest failed load, if any.
func (p *Provider) Error() string {
	return p.user.State().Error
}

// Refetch reloads the current user. It does nothing once the Provider is
// closed.
func (p *Provider) Refetch(ctx context.Context) {
	if p.isClosed() {
		slogctx.Debug(ctx, "Skipped refetch of a closed provider")
		return
	}

	p.user.Refetch(ctx, resource.NoParams{})
}

// Login runs the login flow and reloads the user afterwards, whatever the
// outcome. A closed Provider fails with CodeClosed without contacting the
// backend.
func (p *Provider) Login(ctx context.Context) result.Result[identity.Session] {
	if p.isClosed() {
		return result.From[identity.Session](serviceerr.ErrClosed)
	}

	res := p.auth.Login(ctx)
	p.Refetch(ctx)

	return res
}

// Logout ends the session and reloads the user afterwards. Once the session
// is gone the user is cleared, so a failing reload cannot bring it back.
func (p *Provider) Logout(ctx context.Context) result.Result[struct{}] {
	if p.isClosed() {
		return result.From[struct{}](serviceerr.ErrClosed)
	}

	res := p.auth.Logout(ctx)
	if res.OK() {
		p.user.Reset()
	}
	p.Refetch(ctx)

	return res
}

// Close stops reloads, logins and logouts. The last known user stays
// readable. Close can be called any number of times.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
}

func (p *Provider) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.closed
}
