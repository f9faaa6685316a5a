package socket

import (
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
)

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// AttendanceUpdated notifies watchers of an event's live attendance.
func (b *Broadcaster) AttendanceUpdated(eventID int64, action, userID string, rsvpCount, attendingCount int) {
	b.hub.SendToRoom(EventRoom(eventID), MessageAttendanceUpdated, map[string]interface{}{
		"eventId":        eventID,
		"action":         action,
		"userId":         userID,
		"rsvpCount":      rsvpCount,
		"attendingCount": attendingCount,
	}, "")
}

// EventCreated tells every connected client about a new event.
func (b *Broadcaster) EventCreated(event *repository.Event) {
	b.hub.SendToAll(MessageEventCreated, map[string]interface{}{
		"eventId": event.ID,
		"name":    event.Name,
		"date":    event.Date.Format("2006-01-02"),
	})
}

func (b *Broadcaster) EventDeleted(eventID int64) {
	b.hub.SendToAll(MessageEventDeleted, map[string]interface{}{"eventId": eventID})
}
