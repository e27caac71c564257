package booking

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "reservation.created"
	EventUpdated EventType = "reservation.updated"
	EventDeleted EventType = "reservation.deleted"
)

// Event describes a committed change to a reservation.
type Event struct {
	Type          EventType `json:"type"`
	ReservationID string    `json:"reservation_id"`
	Kind          Kind      `json:"kind"`
	Unit          string    `json:"unit"`
	RequesterID   string    `json:"requester_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher receives an event after each successful write.
// Publishing is best effort: a failure never undoes the write.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

func newEvent(t EventType, res *Reservation, now time.Time) Event {
	return Event{
		Type:          t,
		ReservationID: res.ID,
		Kind:          res.Kind,
		Unit:          res.Unit().String(),
		RequesterID:   res.RequesterID,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		OccurredAt:    now,
	}
}
