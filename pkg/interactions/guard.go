// Package interactions applies likes and comments optimistically, guarding
// each entity against duplicate in-flight requests and rolling back local
// state when the backend rejects the change.
package interactions

import "sync"

// Guard tracks entity ids with a request in flight. At most one mutation per
// id may be active at a time.
type Guard struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewGuard creates an empty guard set
func NewGuard() *Guard {
	return &Guard{ids: make(map[string]struct{})}
}

// TryAcquire claims the id for an in-flight request. It returns false if the
// id is already claimed; the caller must then drop the action.
func (g *Guard) TryAcquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.ids[id]; busy {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

// Release frees the id once its request has settled
func (g *Guard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.ids, id)
}

// Pending reports whether the id has a request in flight
func (g *Guard) Pending(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, busy := g.ids[id]
	return busy
}
