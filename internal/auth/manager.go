// Package auth runs the redirect based OAuth2 login against the identity
// backend and exposes the authenticated user.
//
// None of the operations return errors to their caller. Failures are logged
// and reported as a coded result.Result, whose OK method is the boolean
// outcome.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/browser"
	"github.com/openkcm/auth-session/internal/config"
	"github.com/openkcm/auth-session/internal/identity"
	"github.com/openkcm/auth-session/internal/linking"
	"github.com/openkcm/auth-session/internal/serviceerr"
	"github.com/openkcm/auth-session/pkg/result"
)

type Manager struct {
	backend  identity.Backend
	launcher browser.Launcher
	inst     instruments

	provider    identity.Provider
	redirectURI string
	avatars     *cache.Cache
}

func NewManager(
	ctx context.Context,
	cfg *config.Config,
	backend identity.Backend,
	launcher browser.Launcher,
) (*Manager, error) {
	redirectURI, err := linking.CreateURL(cfg.OAuth.RedirectBase, cfg.OAuth.RedirectPath)
	if err != nil {
		return nil, fmt.Errorf("creating redirect url: %w", err)
	}

	provider := identity.Provider(cfg.OAuth.Provider)
	if provider == "" {
		provider = identity.ProviderGoogle
	}

	avatarTTL := cfg.Avatars.CacheTTL
	if avatarTTL <= 0 {
		avatarTTL = time.Hour
	}

	return &Manager{
		backend:     backend,
		launcher:    launcher,
		inst:        newInstruments(ctx),
		provider:    provider,
		redirectURI: redirectURI,
		avatars:     cache.New(avatarTTL, 2*avatarTTL),
	}, nil
}

// RedirectURI is the callback URL used as OAuth2 redirect target and as the
// prefix the browser waits for.
func (m *Manager) RedirectURI() string {
	return m.redirectURI
}

// Login runs the three legs of the OAuth2 handshake. On success a session is
// active in the identity backend and its value is returned.
func (m *Manager) Login(ctx context.Context) result.Result[identity.Session] {
	ctx = slogctx.With(ctx, "login_id", uuid.NewString(), "provider", string(m.provider))

	ctx, span := m.inst.tracer.Start(ctx, "auth.login")
	defer span.End()

	sess, err := m.login(ctx)
	if err != nil {
		code := serviceerr.CodeOf(err)
		m.inst.recordLogin(ctx, code)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		slogctx.Error(ctx, "Failed to login", "error", err, "cause", errors.Unwrap(err))

		return result.Fail[identity.Session](err)
	}

	m.inst.recordLogin(ctx, "")
	slogctx.Info(ctx, "Logged in", "user_id", sess.UserID, "session_id", sess.ID)

	return result.Ok(sess)
}

func (m *Manager) login(ctx context.Context) (identity.Session, error) {
	pending, err := m.begin(ctx)
	if err != nil {
		return identity.Session{}, err
	}

	cb, err := m.authorize(ctx, pending)
	if err != nil {
		return identity.Session{}, err
	}

	return m.exchange(ctx, cb)
}

// begin requests the URL that starts the provider flow.
func (m *Manager) begin(ctx context.Context) (PendingLogin, error) {
	tokenURL, err := m.backend.CreateOAuth2Token(ctx, m.provider, m.redirectURI)
	if err != nil {
		return PendingLogin{}, serviceerr.ErrTokenRequest.Wrap(fmt.Errorf("creating oauth2 token: %w", err))
	}
	if tokenURL == "" {
		return PendingLogin{}, serviceerr.ErrTokenRequest.WithDescription("backend returned an empty token url")
	}

	slogctx.Debug(ctx, "Created OAuth2 token url")

	return PendingLogin{RedirectURL: tokenURL, ReturnPrefix: m.redirectURI}, nil
}

// authorize hands the pending login to the browser and parses where it
// came back to.
func (m *Manager) authorize(ctx context.Context, pending PendingLogin) (CallbackResult, error) {
	res, err := m.launcher.Open(ctx, pending.RedirectURL, pending.ReturnPrefix)
	if err != nil {
		return CallbackResult{}, serviceerr.ErrBrowserCancelled.Wrap(fmt.Errorf("opening browser: %w", err))
	}
	if res.Type != browser.ResultSuccess {
		return CallbackResult{}, serviceerr.ErrBrowserCancelled.WithDescription(fmt.Sprintf("browser session ended with %q", res.Type))
	}

	slogctx.Debug(ctx, "Browser returned to the app")

	return ParseCallback(res.URL)
}

func (m *Manager) exchange(ctx context.Context, cb CallbackResult) (identity.Session, error) {
	sess, err := m.backend.CreateSession(ctx, cb.UserID, cb.Secret)
	if err != nil {
		return identity.Session{}, serviceerr.ErrSessionCreation.Wrap(fmt.Errorf("creating session: %w", err))
	}
	if sess.ID == "" {
		return identity.Session{}, serviceerr.ErrSessionCreation.WithDescription("backend returned an empty session")
	}

	return sess, nil
}

// Logout deletes the current session.
func (m *Manager) Logout(ctx context.Context) result.Result[struct{}] {
	ctx, span := m.inst.tracer.Start(ctx, "auth.logout")
	defer span.End()

	if err := m.backend.DeleteSession(ctx, identity.CurrentSession); err != nil {
		m.inst.recordLogout(ctx, serviceerr.CodeBackendUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(serviceerr.CodeBackendUnavailable))
		slogctx.Error(ctx, "Failed to logout", "error", err)

		return result.Err[struct{}](serviceerr.CodeBackendUnavailable, err)
	}

	m.inst.recordLogout(ctx, "")
	slogctx.Info(ctx, "Logged out")

	return result.Ok(struct{}{})
}

// CurrentUser returns the authenticated user. A missing session yields
// CodeNotAuthenticated; any other failure CodeBackendUnavailable.
func (m *Manager) CurrentUser(ctx context.Context) result.Result[User] {
	ctx, span := m.inst.tracer.Start(ctx, "auth.current_user")
	defer span.End()

	ident, err := m.backend.Get(ctx)
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		slogctx.Info(ctx, "No authenticated identity", "error", err)
		return result.Err[User](serviceerr.CodeNotAuthenticated, err)
	case err != nil:
		span.RecordError(err)
		slogctx.Error(ctx, "Failed to get the current identity", "error", err)
		return result.Err[User](serviceerr.CodeBackendUnavailable, err)
	case ident.ID == "":
		slogctx.Info(ctx, "Backend returned an identity without id")
		return result.From[User](serviceerr.ErrNotAuthenticated)
	}

	span.SetAttributes(attribute.String("user_id", ident.ID))

	avatar, err := m.avatar(ctx, ident.Name)
	if err != nil {
		span.RecordError(err)
		slogctx.Error(ctx, "Failed to get the user avatar", "error", err, "user_id", ident.ID)
		return result.Err[User](serviceerr.CodeBackendUnavailable, err)
	}

	return result.Ok(User{Identity: ident, Avatar: avatar})
}

func (m *Manager) avatar(ctx context.Context, name string) (string, error) {
	if cached, ok := m.avatars.Get(name); ok {
		//nolint:forcetypeassert
		return cached.(string), nil
	}

	avatar, err := m.backend.AvatarInitials(ctx, name)
	if err != nil {
		return "", fmt.Errorf("getting initials avatar: %w", err)
	}
	m.avatars.SetDefault(name, avatar)

	return avatar, nil
}
