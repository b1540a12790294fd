// Package browser opens a user facing browser on an authorisation URL and
// waits for it to come back to the app.
package browser

import "context"

type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultCancel  ResultType = "cancel"
	ResultDismiss ResultType = "dismiss"
)

// Result is the outcome of a browser session. URL is only set on success and
// holds the full redirect URL including its query.
type Result struct {
	Type ResultType
	URL  string
}

type Launcher interface {
	// Open shows url to the user and blocks until the browser navigates to a
	// URL starting with returnPrefix or the session ends otherwise.
	Open(ctx context.Context, url, returnPrefix string) (Result, error)
}
