// Package split drives the transaction split workflow: picking a parent
// transaction, allocating its amount across its linked products, and writing
// the child records back to the sheet.
package split

import "sync"

// Guard remembers which transactions were already split this session so they
// stop appearing as candidates, even before the host view refreshes. The set
// only grows and is never persisted; a restart clears it.
type Guard struct {
	mu    sync.RWMutex
	split map[string]bool
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{split: make(map[string]bool)}
}

// Suppress marks a transaction as split.
func (g *Guard) Suppress(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.split[id] = true
}

// IsSuppressed reports whether a transaction was split this session.
func (g *Guard) IsSuppressed(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.split[id]
}

// Len returns the number of suppressed transactions.
func (g *Guard) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.split)
}
