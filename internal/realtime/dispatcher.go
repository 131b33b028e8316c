package realtime

import "go.uber.org/zap"

// EventNotification is the message channel used for outbound pushes.
const EventNotification = "notification"

// Dispatcher delivers payloads to online users, best-effort. Offline
// recipients are skipped silently; they rely on the durable record instead.
// There is no acknowledgement, retry or ordering guarantee.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// SendToUser pushes payload to the user's live connection if one exists and
// reports whether delivery was attempted successfully. A push failure is
// logged and treated like an offline recipient; the gateway's read loop
// reaps the broken connection.
func (d *Dispatcher) SendToUser(userID uint, payload interface{}) bool {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		d.log.Debug("recipient offline, skipping real-time delivery", zap.Uint("user_id", userID))
		return false
	}
	if err := conn.Push(EventNotification, payload); err != nil {
		d.log.Warn("real-time push failed", zap.Uint("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// SendToUsers pushes payload to each user independently and returns the
// number of recipients delivered to. Partial delivery is expected.
func (d *Dispatcher) SendToUsers(userIDs []uint, payload interface{}) int {
	delivered := 0
	for _, id := range userIDs {
		if d.SendToUser(id, payload) {
			delivered++
		}
	}
	return delivered
}

// Broadcast pushes payload to every connected client, bypassing interest
// resolution. Administrative use only.
func (d *Dispatcher) Broadcast(payload interface{}) {
	for _, conn := range d.registry.Conns() {
		if err := conn.Push(EventNotification, payload); err != nil {
			d.log.Warn("broadcast push failed", zap.Error(err))
		}
	}
}
