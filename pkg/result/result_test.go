package result_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/auth-session/internal/serviceerr"
	"github.com/openkcm/auth-session/pkg/result"
)

func TestOk(t *testing.T) {
	r := result.Ok("session-id")

	assert.True(t, r.OK())
	assert.Empty(t, r.Code())
	require.NoError(t, r.Err())

	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, "session-id", v)
}

func TestErr(t *testing.T) {
	cause := errors.New("network down")
	r := result.Err[string](serviceerr.CodeBackendUnavailable, cause)

	assert.False(t, r.OK())
	assert.Equal(t, serviceerr.CodeBackendUnavailable, r.Code())
	require.Error(t, r.Err())
	assert.ErrorIs(t, r.Err(), serviceerr.ErrBackendUnavailable)
	assert.ErrorIs(t, r.Err(), cause)
	assert.Equal(t, "backend_unavailable: network down", r.Err().Error())

	v, ok := r.Value()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestErr_NilCause(t *testing.T) {
	r := result.Err[struct{}](serviceerr.CodeMalformedCallback, nil)

	assert.False(t, r.OK())
	assert.Equal(t, "malformed_callback", r.Err().Error())
}

func TestFrom(t *testing.T) {
	r := result.From[int](serviceerr.ErrNotAuthenticated)

	assert.False(t, r.OK())
	assert.Equal(t, serviceerr.CodeNotAuthenticated, r.Code())
	assert.ErrorIs(t, r.Err(), serviceerr.ErrNotAuthenticated)
}

func TestFail(t *testing.T) {
	coded := fmt.Errorf("opening browser: %w", serviceerr.ErrBrowserCancelled)
	r := result.Fail[string](coded)
	assert.Equal(t, serviceerr.CodeBrowserCancelled, r.Code())
	assert.ErrorIs(t, r.Err(), serviceerr.ErrBrowserCancelled)

	plain := errors.New("boom")
	r = result.Fail[string](plain)
	assert.Equal(t, serviceerr.CodeUnknown, r.Code())
	assert.ErrorIs(t, r.Err(), plain)
}
