// Package realtime owns the live-connection side of notification delivery:
// the presence registry, the best-effort dispatcher and the websocket gateway.
package realtime

import "sync"

// Pusher is the write side of one live client connection.
type Pusher interface {
	Push(event string, data interface{}) error
}

// Registry is the process-wide presence table: at most one live connection
// per user, with a reverse index so disconnects resolve without scanning.
type Registry struct {
	mu     sync.RWMutex
	byUser map[uint]Pusher
	byConn map[Pusher]uint
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[uint]Pusher),
		byConn: make(map[Pusher]uint),
	}
}

// Register records conn as the active connection for userID. A later
// connection for the same user wins; the displaced connection (if any) is
// returned so the caller can close it.
func (r *Registry) Register(userID uint, conn Pusher) Pusher {
	r.mu.Lock()
	defer r.mu.Unlock()

	var displaced Pusher
	if prev, ok := r.byUser[userID]; ok && prev != conn {
		delete(r.byConn, prev)
		displaced = prev
	}
	r.byUser[userID] = conn
	r.byConn[conn] = userID
	return displaced
}

// Unregister removes the entry for conn. Unknown or already-displaced
// connections are a no-op, so a stale disconnect never evicts a newer
// connection for the same user.
func (r *Registry) Unregister(conn Pusher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[conn]
	if !ok {
		return
	}
	delete(r.byConn, conn)
	if cur, ok := r.byUser[userID]; ok && cur == conn {
		delete(r.byUser, userID)
	}
}

// Lookup returns the user's active connection. Absence means offline and is
// a normal outcome, not an error.
func (r *Registry) Lookup(userID uint) (Pusher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// Conns snapshots every active connection, for broadcasts.
func (r *Registry) Conns() []Pusher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]Pusher, 0, len(r.byUser))
	for _, conn := range r.byUser {
		conns = append(conns, conn)
	}
	return conns
}

// Online reports the number of currently connected users.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
