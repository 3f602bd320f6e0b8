package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	vibeerrors "github.com/macward/vibemcp/internal/errors"
)

func TestErrorFormatting(t *testing.T) {
	err := vibeerrors.New(vibeerrors.KindNotFound, "project 'demo' not found")
	assert.Equal(t, "not-found: project 'demo' not found", err.Error())
}

func TestWrapIncludesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := vibeerrors.Wrap(vibeerrors.KindIOTransient, "failed to read file", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsComparesByKind(t *testing.T) {
	a := vibeerrors.New(vibeerrors.KindConflict, "file exists")
	b := vibeerrors.New(vibeerrors.KindConflict, "different message")
	c := vibeerrors.New(vibeerrors.KindInputInvalid, "file exists")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, vibeerrors.KindAuthDenied, vibeerrors.KindOf(vibeerrors.Denied("nope")))
	assert.Equal(t, vibeerrors.Kind(""), vibeerrors.KindOf(stderrors.New("plain")))
	assert.Equal(t, vibeerrors.Kind(""), vibeerrors.KindOf(nil))
}
