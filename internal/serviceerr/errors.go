package serviceerr

import "errors"

type Code string

const (
	CodeUnknown              Code = "unknown"
	CodeTokenRequest         Code = "token_request"
	CodeBrowserCancelled     Code = "browser_cancelled"
	CodeMalformedCallback    Code = "malformed_callback"
	CodeSessionCreation      Code = "session_creation"
	CodeBackendUnavailable   Code = "backend_unavailable"
	CodeResourceFetch        Code = "resource_fetch"
	CodeNotAuthenticated     Code = "not_authenticated"
	CodeInvalidConfiguration Code = "invalid_configuration"
	CodeClosed               Code = "closed"
)

// Error is a coded error. Two errors match with errors.Is when their codes
// are equal, regardless of the description.
type Error struct {
	Err         Code
	Description string
	cause       error
}

var (
	ErrUnknown              = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrTokenRequest         = &Error{Err: CodeTokenRequest, Description: "failed to create OAuth2 token"}
	ErrBrowserCancelled     = &Error{Err: CodeBrowserCancelled, Description: "browser session did not succeed"}
	ErrMalformedCallback    = &Error{Err: CodeMalformedCallback, Description: "callback is missing secret or userId"}
	ErrSessionCreation      = &Error{Err: CodeSessionCreation, Description: "failed to create session"}
	ErrBackendUnavailable   = &Error{Err: CodeBackendUnavailable, Description: "identity backend unavailable"}
	ErrResourceFetch        = &Error{Err: CodeResourceFetch, Description: "failed to fetch resource"}
	ErrNotAuthenticated     = &Error{Err: CodeNotAuthenticated, Description: "no authenticated identity"}
	ErrInvalidConfiguration = &Error{Err: CodeInvalidConfiguration}
	ErrClosed               = &Error{Err: CodeClosed, Description: "application state is closed"}
)

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Err == e.Err
}

// WithDescription returns a copy of e with the given description.
func (e *Error) WithDescription(description string) *Error {
	return &Error{Err: e.Err, Description: description, cause: e.cause}
}

// Wrap returns a copy of e that carries cause in its chain.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Err: e.Err, Description: e.Description, cause: cause}
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Err
	}

	return CodeUnknown
}
