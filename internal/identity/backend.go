package identity

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by backends when the call requires a session
// the client does not hold.
var ErrUnauthorized = errors.New("unauthorized")

type Backend interface {
	// CreateOAuth2Token returns the URL that starts the OAuth2 flow for the
	// provider. The provider redirects to redirectURI when the flow is done.
	CreateOAuth2Token(ctx context.Context, provider Provider, redirectURI string) (string, error)
	// CreateSession exchanges the callback credentials for a session.
	CreateSession(ctx context.Context, userID, secret string) (Session, error)
	// DeleteSession deletes a session by ID or by CurrentSession.
	DeleteSession(ctx context.Context, sessionID string) error
	// Get returns the identity bound to the current session.
	Get(ctx context.Context) (Identity, error)
	// AvatarInitials returns an avatar handle derived from a display name.
	AvatarInitials(ctx context.Context, name string) (string, error)
}
