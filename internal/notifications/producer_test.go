package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"staybook/internal/bookings"
	"staybook/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProducer(t *testing.T) (*KafkaBookingProducer, *mocks.SyncProducer) {
	t.Helper()

	mock := mocks.NewSyncProducer(t, nil)
	return &KafkaBookingProducer{
		producer: mock,
		config:   DefaultKafkaProducerConfig(),
		log:      logger.GetDefault(),
	}, mock
}

func TestPublishBookingStatusMessageShape(t *testing.T) {
	producer, mock := newMockProducer(t)

	booking := &bookings.Booking{
		ID:             uuid.New(),
		PartnerOrderID: "BK-1700000000-AB12CD",
		OrderID:        "9001",
		Amount:         199.00,
		Currency:       "USD",
		Email:          "a@b.com",
	}

	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, booking.PartnerOrderID, string(key))
		assert.Equal(t, "booking-events", msg.Topic)

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var event BookingEvent
		require.NoError(t, json.Unmarshal(value, &event))
		assert.Equal(t, EventBookingConfirmed, event.Type)
		assert.Equal(t, booking.PartnerOrderID, event.PartnerOrderID)
		assert.Equal(t, "9001", event.OrderID)
		assert.Equal(t, "CONFIRMED", event.Status)
		assert.Equal(t, 199.00, event.Amount)
		return nil
	})

	err := producer.PublishBookingStatus(context.Background(), booking, bookings.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishBookingStatusSendFailure(t *testing.T) {
	producer, mock := newMockProducer(t)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	booking := &bookings.Booking{
		ID:             uuid.New(),
		PartnerOrderID: "BK-1700000000-ZZ99XX",
	}

	err := producer.PublishBookingStatus(context.Background(), booking, bookings.StatusFailed)
	require.Error(t, err)
	require.NoError(t, producer.Close())
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, EventBookingConfirmed, eventTypeOf(bookings.StatusConfirmed))
	assert.Equal(t, EventBookingFailed, eventTypeOf(bookings.StatusFailed))
	assert.Equal(t, EventBookingCancelled, eventTypeOf(bookings.StatusCancelled))
	// Anything else that reaches the publisher is treated as confirmed; the
	// service only publishes terminal transitions.
	assert.Equal(t, EventBookingConfirmed, eventTypeOf(bookings.StatusUnknown))
}

func TestBookingEventPartitionKey(t *testing.T) {
	event := &BookingEvent{PartnerOrderID: "BK-1-AAAAAA"}
	assert.Equal(t, "BK-1-AAAAAA", event.GetPartitionKey())
}
