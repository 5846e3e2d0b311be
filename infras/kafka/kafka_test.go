package kafka_test

import (
	"jumuia/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{Key: "booking-1", Value: event{Type: "booking.created", BookingID: "WEB-123456789"}}

	msg, err := message.ToKafkaMessage("booking.events")
	require.NoError(t, err)
	assert.Equal(t, "booking.events", msg.Topic)
	assert.Equal(t, []byte("booking-1"), msg.Key)

	decoded, err := kafka.Decode[event](msg)
	require.NoError(t, err)
	assert.Equal(t, "WEB-123456789", decoded.BookingID)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := kafka.Decode[event](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}
