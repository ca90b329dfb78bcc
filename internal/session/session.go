// Package session keeps the clerk sessions opened by a successful PIN check.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Manager issues and validates opaque session tokens. Each successful
// validation extends the session by the configured TTL.
type Manager struct {
	tokens *cache.Cache
	ttl    time.Duration
}

// NewManager creates a Manager whose sessions expire after ttl of inactivity.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		tokens: cache.New(ttl, ttl/2+time.Minute),
		ttl:    ttl,
	}
}

// Open starts a new session and returns its token.
func (m *Manager) Open() string {
	token := uuid.NewString()
	m.tokens.Set(token, time.Now(), m.ttl)
	return token
}

// Touch reports whether token names a live session and, if so, extends it.
func (m *Manager) Touch(token string) bool {
	if token == "" {
		return false
	}
	if _, ok := m.tokens.Get(token); !ok {
		return false
	}
	m.tokens.Set(token, time.Now(), m.ttl)
	return true
}

// Close ends the session named by token. Unknown tokens are ignored.
func (m *Manager) Close(token string) {
	m.tokens.Delete(token)
}

// CloseAll ends every session, e.g. after the PIN changed.
func (m *Manager) CloseAll() {
	m.tokens.Flush()
}

// Active returns the number of sessions that have not expired.
func (m *Manager) Active() int {
	return m.tokens.ItemCount()
}

// TTL returns the inactivity timeout.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
