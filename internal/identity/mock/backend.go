package identitymock

import (
	"context"
	"sync"

	"github.com/openkcm/auth-session/internal/identity"
)

type BackendOption func(*Backend)

// Backend is an in-memory identity.Backend recording how often each call
// was made.
type Backend struct {
	mu sync.Mutex

	tokenURL string
	identity identity.Identity
	session  identity.Session
	active   bool

	createTokenErr, createSessionErr, deleteSessionErr error
	getErr, avatarErr                                  error

	calls map[string]int
}

func WithTokenURL(u string) BackendOption {
	return func(b *Backend) { b.tokenURL = u }
}
func WithIdentity(ident identity.Identity) BackendOption {
	return func(b *Backend) { b.identity = ident }
}
func WithSession(sess identity.Session) BackendOption {
	return func(b *Backend) { b.session = sess }
}
func WithActiveSession() BackendOption {
	return func(b *Backend) { b.active = true }
}
func WithCreateTokenError(err error) BackendOption {
	return func(b *Backend) { b.createTokenErr = err }
}
func WithCreateSessionError(err error) BackendOption {
	return func(b *Backend) { b.createSessionErr = err }
}
func WithDeleteSessionError(err error) BackendOption {
	return func(b *Backend) { b.deleteSessionErr = err }
}
func WithGetError(err error) BackendOption {
	return func(b *Backend) { b.getErr = err }
}
func WithAvatarError(err error) BackendOption {
	return func(b *Backend) { b.avatarErr = err }
}

var _ = identity.Backend(&Backend{})

func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		tokenURL: "https://identity.example.com/v1/account/tokens/oauth2/google",
		session:  identity.Session{ID: "sess-1", UserID: "u1", Secret: "session-secret"},
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Calls returns how many times the named method was invoked.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// Active reports whether a session is currently held.
func (b *Backend) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *Backend) CreateOAuth2Token(_ context.Context, _ identity.Provider, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateOAuth2Token"]++
	if b.createTokenErr != nil {
		return "", b.createTokenErr
	}
	return b.tokenURL, nil
}

func (b *Backend) CreateSession(_ context.Context, userID, secret string) (identity.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateSession"]++
	if b.createSessionErr != nil {
		return identity.Session{}, b.createSessionErr
	}
	sess := b.session
	sess.UserID = userID
	b.active = true
	return sess, nil
}

func (b *Backend) DeleteSession(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["DeleteSession"]++
	if b.deleteSessionErr != nil {
		return b.deleteSessionErr
	}
	if !b.active {
		return identity.ErrUnauthorized
	}
	b.active = false
	return nil
}

func (b *Backend) Get(_ context.Context) (identity.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["Get"]++
	if b.getErr != nil {
		return identity.Identity{}, b.getErr
	}
	if !b.active {
		return identity.Identity{}, identity.ErrUnauthorized
	}
	return b.identity, nil
}

func (b *Backend) AvatarInitials(_ context.Context, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["AvatarInitials"]++
	if b.avatarErr != nil {
		return "", b.avatarErr
	}
	return "https://identity.example.com/v1/avatars/initials?name=" + name, nil
}
