// Package appwrite implements identity.Backend against the Appwrite REST API.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/config"
	"github.com/openkcm/auth-session/internal/identity"
)

const (
	headerProject = "X-Appwrite-Project"
	headerSession = "X-Appwrite-Session"

	sessionCacheKey = "session"
)

// Error is the error body returned by the API.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("appwrite: %s (%d %s)", e.Message, e.Code, e.Type)
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// Client talks to the account and avatars services. The session it creates
// lives in process memory only and expires together with the backend session.
type Client struct {
	endpoint   string
	project    string
	platform   string
	httpClient *http.Client
	sessions   *cache.Cache
}

var _ = identity.Backend(&Client{})

func NewClient(values config.IdentityValues, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   strings.TrimSuffix(values.Endpoint, "/"),
		project:    values.Project,
		platform:   values.Platform,
		httpClient: http.DefaultClient,
		sessions:   cache.New(cache.NoExpiration, 10*time.Minute),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// CreateOAuth2Token builds the URL starting the token based OAuth2 flow. The
// same URL is used for success and failure so the browser always returns to
// the app and the callback query decides the outcome.
func (c *Client) CreateOAuth2Token(_ context.Context, provider identity.Provider, redirectURI string) (string, error) {
	if provider == "" {
		return "", errors.New("empty oauth2 provider")
	}

	u, err := url.Parse(c.endpoint + "/account/tokens/oauth2/" + url.PathEscape(string(provider)))
	if err != nil {
		return "", fmt.Errorf("parsing oauth2 token url: %w", err)
	}

	q := u.Query()
	q.Set("project", c.project)
	q.Set("success", redirectURI)
	q.Set("failure", redirectURI)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) CreateSession(ctx context.Context, userID, secret string) (identity.Session, error) {
	body := map[string]string{
		"userId": userID,
		"secret": secret,
	}

	var sess identity.Session
	resp, err := c.do(ctx, http.MethodPost, "/account/sessions/token", body, &sess)
	if err != nil {
		return identity.Session{}, fmt.Errorf("creating session: %w", err)
	}

	if sess.Secret == "" {
		sess.Secret = c.sessionFromCookies(resp)
	}
	c.holdSession(sess)

	slogctx.Debug(ctx, "Created identity session", "session_id", sess.ID, "expire", sess.Expire)

	return sess, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if held, ok := c.heldSession(); ok && (sessionID == identity.CurrentSession || sessionID == held.ID) {
		c.sessions.Delete(sessionCacheKey)
	}

	return nil
}

func (c *Client) Get(ctx context.Context) (identity.Identity, error) {
	var ident identity.Identity
	if _, err := c.do(ctx, http.MethodGet, "/account", nil, &ident); err != nil {
		return identity.Identity{}, fmt.Errorf("getting account: %w", err)
	}

	return ident, nil
}

// AvatarInitials returns the URL of an initials avatar image for name.
func (c *Client) AvatarInitials(_ context.Context, name string) (string, error) {
	u, err := url.Parse(c.endpoint + "/avatars/initials")
	if err != nil {
		return "", fmt.Errorf("parsing avatars url: %w", err)
	}

	q := u.Query()
	q.Set("name", name)
	q.Set("project", c.project)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) holdSession(sess identity.Session) {
	ttl := cache.NoExpiration
	if !sess.Expire.IsZero() {
		ttl = time.Until(sess.Expire)
	}
	if ttl == cache.NoExpiration || ttl > 0 {
		c.sessions.Set(sessionCacheKey, sess, ttl)
	}
}

func (c *Client) heldSession() (identity.Session, bool) {
	v, ok := c.sessions.Get(sessionCacheKey)
	if !ok {
		return identity.Session{}, false
	}

	//nolint:forcetypeassert
	return v.(identity.Session), true
}

func (c *Client) sessionFromCookies(resp *http.Response) string {
	name := "a_session_" + c.project
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}

	return ""
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerProject, c.project)
	if c.platform != "" {
		req.Header.Set("Origin", "appwrite-callback-"+c.platform)
	}
	if sess, ok := c.heldSession(); ok && sess.Secret != "" {
		req.Header.Set(headerSession, sess.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp, errors.Join(identity.ErrUnauthorized, decodeError(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp, fmt.Errorf("decoding response: %w", err)
	}

	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Code: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
