package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macward/vibemcp/internal/auth"
	apperr "github.com/macward/vibemcp/internal/errors"
)

func TestNoTokenConfiguredAllowsEverything(t *testing.T) {
	g := auth.New("", false)
	assert.True(t, g.Authenticate(""))
	assert.True(t, g.Authenticate("anything"))
}

func TestTokenMismatchRejected(t *testing.T) {
	g := auth.New("supersecrettoken1234567890123456", false)
	assert.False(t, g.Authenticate("wrong"))
	assert.True(t, g.Authenticate("supersecrettoken1234567890123456"))
}

func TestCheckWriteDeniedInReadOnly(t *testing.T) {
	g := auth.New("", true)
	err := g.CheckWrite()
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthDenied, apperr.KindOf(err))
}

func TestCheckWriteAllowedNormally(t *testing.T) {
	g := auth.New("", false)
	require.NoError(t, g.CheckWrite())
}
