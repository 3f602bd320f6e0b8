// Package auth implements the two checks in the design's auth gate:
// constant-time bearer token verification and read-only write gating.
package auth

import "crypto/subtle"

import apperr "github.com/macward/vibemcp/internal/errors"

// Gate holds the server's configured credential and write-mode state.
type Gate struct {
	token    string
	readOnly bool
}

// New builds a Gate. An empty token disables credential checking — every
// request is treated as authenticated.
func New(token string, readOnly bool) *Gate {
	return &Gate{token: token, readOnly: readOnly}
}

// Authenticate reports whether presented matches the configured token. If
// no token is configured, every request is allowed.
func (g *Gate) Authenticate(presented string) bool {
	if g.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(g.token), []byte(presented)) == 1
}

// CheckWrite rejects with an authorization-denied error when the server is
// running read-only. Every write-engine entry point calls this first.
func (g *Gate) CheckWrite() error {
	if g.readOnly {
		return apperr.Denied("server is running in read-only mode")
	}
	return nil
}

// ReadOnly reports the current write-gating state.
func (g *Gate) ReadOnly() bool {
	return g.readOnly
}
