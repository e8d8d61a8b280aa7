package kafka_test

import (
	"context"
	"encoding/json"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "b-1",
		Value: map[string]any{"event": "booking.created", "total_price": 2700000},
	}

	out, err := msg.ToKafkaMessage("hotel.bookings")
	require.NoError(t, err)

	assert.Equal(t, "hotel.bookings", out.Topic)
	assert.Equal(t, []byte("b-1"), out.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, "booking.created", decoded["event"])

	_, err = (&kafka.Message{Value: make(chan int)}).ToKafkaMessage("hotel.bookings")
	assert.Error(t, err)
}

func TestNew_Disabled(t *testing.T) {
	client := kafka.New(&config.Config{}, mocks.NewOtel())

	assert.NoError(t, client.SendMessages(context.Background(), "hotel.bookings", kafka.Message{Key: "b-1", Value: "x"}))
	assert.NoError(t, client.Close())
}
