package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "check the policy file")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the policy file", hints[0])
}

func TestNewInvariantf(t *testing.T) {
	err := NewInvariantf("placeholder %q survived", "Node`1")

	assert.True(t, IsInvariantViolation(err))
	assert.Contains(t, err.Error(), "Node`1")
	assert.False(t, IsInvariantViolation(New("other")))
	assert.False(t, IsInvariantViolation(nil))
}

func TestNewInvalidInputf(t *testing.T) {
	err := Wrap(NewInvalidInputf("bad reference %q", "List`1["), "loading graph")

	assert.True(t, IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "loading graph")
	assert.False(t, IsInvalidInputError(nil))
}

func TestPolicyAndBuildErrors(t *testing.T) {
	assert.True(t, Is(NewPolicyErrorf("bad %s", "x"), ErrInvalidPolicy))
	assert.True(t, IsBuildFailed(Wrap(ErrBuildFailed, "TBG3001")))
	assert.False(t, IsBuildFailed(ErrInvalidPolicy))
}
