package session

import (
	"sync"

	"pos-system/internal/cart"
)

// Manager owns the per-session carts. Session IDs come from the auth
// tokens; each cashier session gets exactly one cart, created on first use.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*cart.Cart)}
}

func (m *Manager) Cart(sessionID string) *cart.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[sessionID]
	if !ok {
		c = cart.New()
		m.carts[sessionID] = c
	}
	return c
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		c.Reset()
	}
}

// Drop removes a session's cart entirely (session expiry).
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
