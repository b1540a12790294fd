package auth

import "github.com/openkcm/auth-session/internal/identity"

// PendingLogin holds what one login attempt needs between its legs.
type PendingLogin struct {
	RedirectURL  string // URL the browser is sent to
	ReturnPrefix string // URL prefix signalling the browser came back
}

// CallbackResult holds the credentials found in the redirect URL.
type CallbackResult struct {
	Secret string
	UserID string
}

// User is the authenticated identity augmented with an avatar.
type User struct {
	identity.Identity

	Avatar string `json:"avatar"`
}
