package identity

import "time"

// CurrentSession addresses the session the client is currently holding.
const CurrentSession = "current"

// Provider names an OAuth2 provider known to the identity backend.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
	ProviderApple  Provider = "apple"
)

// Session represents a backend issued credential. The backend owns it; the
// client only keeps it in process memory.
type Session struct {
	ID       string    `json:"$id"`
	UserID   string    `json:"userId"`
	Secret   string    `json:"secret"`
	Provider string    `json:"provider"`
	Expire   time.Time `json:"expire"`
	Current  bool      `json:"current"`
}

// Identity is the authenticated account as reported by the backend.
type Identity struct {
	ID     string `json:"$id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status bool   `json:"status"`
}
