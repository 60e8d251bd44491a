package websocket

import (
	"encoding/json"
	"log"
)

// Event is the JSON payload pushed to connected clients when something they
// should know about happens (workflow transitions, new notifications).
type Event struct {
	Type       string `json:"type"` // "notification", "workflow"
	UserID     string `json:"user_id,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// BroadcastEvent serializes an event and delivers it: to one user's
// connections when the event names a user, to every client otherwise.
func (h *Hub) BroadcastEvent(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Println("failed to encode websocket event:", err)
		return
	}
	if e.UserID != "" {
		h.SendToUser(e.UserID, payload)
		return
	}
	h.Broadcast <- payload
}
