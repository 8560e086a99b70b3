package mcperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendUnavailable_Message(t *testing.T) {
	t.Parallel()

	err := BackendUnavailable("time")
	assert.Equal(t, "backend 'time' unavailable", err.Message)
	assert.Equal(t, CodeBackendUnavailable, err.Code())
	assert.True(t, Is(err, KindBackendUnavailable))
}

func TestBackendErrorFromMCP_PreservesCodeAndMessage(t *testing.T) {
	t.Parallel()

	err := BackendErrorFromMCP("github", -32050, "rate limited")
	assert.Equal(t, -32050, err.Code())
	assert.Equal(t, "rate limited", err.BackendMessage)
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := Internal("unreachable branch", cause)

	require.ErrorIs(t, err, cause)
}

func TestItemNotFound_Code(t *testing.T) {
	t.Parallel()

	err := ItemNotFound("tool", "frobnicate")
	assert.Equal(t, CodeItemNotFound, err.Code())
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestIs_FalseForNonMatchingKind(t *testing.T) {
	t.Parallel()

	err := Timeout("time", "deadline exceeded")
	assert.False(t, Is(err, KindCancelled))
	assert.True(t, Is(err, KindTimeout))
}

func TestIs_FalseForPlainError(t *testing.T) {
	t.Parallel()

	assert.False(t, Is(errors.New("plain"), KindInternal))
}
