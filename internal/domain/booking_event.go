package domain

import "time"

type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventApproved  BookingEventType = "booking.approved"
	BookingEventRejected  BookingEventType = "booking.rejected"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	BookingEventCompleted BookingEventType = "booking.completed"
	BookingEventDeleted   BookingEventType = "booking.deleted"
)

// BookingEvent is pushed to websocket clients and the event stream whenever a
// booking changes state.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	SpotID     string           `json:"spot_id"`
	FinderID   string           `json:"finder_id"`
	OwnerID    string           `json:"owner_id,omitempty"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Recipients returns the distinct users that should hear about the event.
func (e BookingEvent) Recipients() []string {
	out := []string{e.FinderID}
	if e.OwnerID != "" && e.OwnerID != e.FinderID {
		out = append(out, e.OwnerID)
	}
	return out
}

// BookingCompletionMessage is the payload an external system sends when an
// approved booking has ended.
type BookingCompletionMessage struct {
	BookingID string `json:"booking_id"`
}
