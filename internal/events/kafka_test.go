package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
)

func TestNewMessage(t *testing.T) {
	start := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	e := booking.Event{
		Type:          booking.EventCreated,
		ReservationID: "res-1",
		Kind:          booking.KindKitchen,
		Unit:          "kitchen/fac-1",
		RequesterID:   "user-1",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		OccurredAt:    start.Add(-time.Hour),
	}

	msg, err := NewMessage(e)
	require.NoError(t, err)

	assert.Equal(t, "kitchen/fac-1", string(msg.Key))
	assert.True(t, msg.Time.Equal(e.OccurredAt))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, HeaderEventType, msg.Headers[0].Key)
	assert.Equal(t, "reservation.created", string(msg.Headers[0].Value))

	var decoded booking.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ReservationID, decoded.ReservationID)
	assert.Equal(t, e.Kind, decoded.Kind)
	assert.True(t, decoded.EndTime.Equal(e.EndTime))
}

func TestNewKafkaPublisherValidation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "reservations", zap.NewNop())
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", zap.NewNop())
	assert.Error(t, err)
}

func TestPublishAfterClose(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "reservations", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	err = p.Publish(context.Background(), booking.Event{Unit: "theater"})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
