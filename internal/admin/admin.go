// Package admin gates content editing behind a shared secret. Logging in
// stores a session flag in the local database; every admin command checks
// the flag before touching content.
package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/n0roo/audit-kit/internal/db"
)

var (
	// ErrNoSecret means no shared secret is configured on this machine.
	ErrNoSecret = errors.New("admin secret not configured")
	// ErrBadSecret means the supplied secret did not match.
	ErrBadSecret = errors.New("invalid admin secret")
	// ErrNotLoggedIn guards admin operations without an active session.
	ErrNotLoggedIn = errors.New("admin login required")
)

// Gate checks and records the admin session.
type Gate struct {
	db     *db.DB
	secret string
}

// NewGate creates a gate against the configured shared secret.
func NewGate(database *db.DB, secret string) *Gate {
	return &Gate{db: database, secret: secret}
}

// Login verifies the secret and records the session flag.
func (g *Gate) Login(secret string) error {
	if g.secret == "" {
		return ErrNoSecret
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(g.secret)) != 1 {
		return ErrBadSecret
	}
	value := time.Now().UTC().Format(time.RFC3339)
	if err := g.db.Set(db.KeyAdminSession, value); err != nil {
		return fmt.Errorf("record admin session: %w", err)
	}
	return nil
}

// Logout clears the session flag. Logging out while logged out is a no-op.
func (g *Gate) Logout() error {
	if err := g.db.Delete(db.KeyAdminSession); err != nil {
		return fmt.Errorf("clear admin session: %w", err)
	}
	return nil
}

// Active reports whether an admin session is recorded.
func (g *Gate) Active() (bool, error) {
	_, ok, err := g.db.Get(db.KeyAdminSession)
	if err != nil {
		return false, fmt.Errorf("check admin session: %w", err)
	}
	return ok, nil
}

// Require returns ErrNotLoggedIn unless a session is active.
func (g *Gate) Require() error {
	active, err := g.Active()
	if err != nil {
		return err
	}
	if !active {
		return ErrNotLoggedIn
	}
	return nil
}
