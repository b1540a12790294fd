// Package linking builds the absolute URLs the identity backend and the
// browser redirect back to.
package linking

import (
	"fmt"
	"net/url"
	"strings"
)

// CreateURL returns the absolute URL of path on base. base must carry a
// scheme and a host.
func CreateURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", base)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

// Matches reports whether target is a request for the redirect URL: same
// scheme and host, and the same path up to a trailing slash. The query is
// not compared, so the callback parameters may be anything.
func Matches(target, redirect string) bool {
	t, err := url.Parse(target)
	if err != nil {
		return false
	}
	r, err := url.Parse(redirect)
	if err != nil {
		return false
	}

	if !strings.EqualFold(t.Scheme, r.Scheme) || !strings.EqualFold(t.Host, r.Host) {
		return false
	}

	return strings.TrimSuffix(t.Path, "/") == strings.TrimSuffix(r.Path, "/")
}
