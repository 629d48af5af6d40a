package websocket

import (
	"github.com/Noor7086/Obyyo-sub002/internal/events"
)

// WebSocketObserver forwards dispatched events to WebSocket clients,
// honoring the event's user scope.
type WebSocketObserver struct {
	hub *Hub
}

// NewWebSocketObserver creates a new observer that forwards events to hub.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{hub: hub}
}

// OnEvent queues the event on the hub.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		return nil
	}
	o.hub.BroadcastEvent(Event{
		Type:      event.Type,
		Data:      event.Payload,
		Timestamp: event.Timestamp,
		UserID:    event.UserID,
	})
	return nil
}

// Name returns the observer's name.
func (o *WebSocketObserver) Name() string {
	return "WebSocketObserver"
}

// ShouldHandle returns true for all events.
func (o *WebSocketObserver) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*WebSocketObserver)(nil)
