package auth

import (
	"fmt"
	"net/url"

	"github.com/openkcm/auth-session/internal/serviceerr"
)

// ParseCallback extracts secret and userId from the query of the terminal
// redirect URL. Both must be present and non-empty.
func ParseCallback(redirectURL string) (CallbackResult, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return CallbackResult{}, serviceerr.ErrMalformedCallback.Wrap(fmt.Errorf("parsing callback url: %w", err))
	}

	q := u.Query()
	cb := CallbackResult{
		Secret: q.Get("secret"),
		UserID: q.Get("userId"),
	}
	if cb.Secret == "" || cb.UserID == "" {
		return CallbackResult{}, serviceerr.ErrMalformedCallback
	}

	return cb, nil
}
