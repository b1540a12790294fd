package serviceerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkcm/auth-session/internal/serviceerr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedMsg string
	}{
		{
			name:        "Error with description",
			err:         &serviceerr.Error{Err: serviceerr.CodeSessionCreation, Description: "user blocked"},
			expectedMsg: "session_creation: user blocked",
		},
		{
			name:        "Error without description",
			err:         &serviceerr.Error{Err: serviceerr.CodeTokenRequest, Description: ""},
			expectedMsg: "token_request",
		},
		{
			name:        "Predefined error - ErrUnknown",
			err:         serviceerr.ErrUnknown,
			expectedMsg: "unknown: unknown error",
		},
		{
			name:        "Predefined error - ErrMalformedCallback",
			err:         serviceerr.ErrMalformedCallback,
			expectedMsg: "malformed_callback: callback is missing secret or userId",
		},
		{
			name:        "Predefined error - ErrInvalidConfiguration",
			err:         serviceerr.ErrInvalidConfiguration,
			expectedMsg: "invalid_configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("creating session: %w", serviceerr.ErrSessionCreation.Wrap(cause))

	assert.ErrorIs(t, err, serviceerr.ErrSessionCreation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, serviceerr.ErrTokenRequest)

	described := serviceerr.ErrInvalidConfiguration.WithDescription("identity endpoint is empty")
	assert.ErrorIs(t, described, serviceerr.ErrInvalidConfiguration)
	assert.Equal(t, "invalid_configuration: identity endpoint is empty", described.Error())
	assert.Empty(t, serviceerr.ErrInvalidConfiguration.Description, "predefined error must not be mutated")
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want serviceerr.Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: serviceerr.CodeUnknown},
		{name: "coded", err: serviceerr.ErrBrowserCancelled, want: serviceerr.CodeBrowserCancelled},
		{name: "wrapped", err: fmt.Errorf("login: %w", serviceerr.ErrNotAuthenticated), want: serviceerr.CodeNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceerr.CodeOf(tt.err))
		})
	}
}
