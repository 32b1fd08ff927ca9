package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"staybook/internal/bookings"
	"staybook/pkg/logger"

	"github.com/IBM/sarama"
)

// BookingEventProducer publishes settled-booking events.
type BookingEventProducer interface {
	PublishBookingStatus(ctx context.Context, booking *bookings.Booking, status bookings.Status) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka booking producer
type KafkaProducerConfig struct {
	Brokers          []string
	BookingTopic     string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		BookingTopic:     "booking-events",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaBookingProducer publishes booking events to Kafka
type KafkaBookingProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaBookingProducer creates a new Kafka booking event producer
func NewKafkaBookingProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaBookingProducer, error) {
	if log == nil {
		log = logger.GetDefault()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps all events of one booking attempt ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka booking event producer created",
		slog.String("topic", config.BookingTopic),
	)
	return &KafkaBookingProducer{
		producer: producer,
		config:   config,
		log:      log,
	}, nil
}

// PublishBookingStatus publishes the terminal transition of a booking.
func (p *KafkaBookingProducer) PublishBookingStatus(ctx context.Context, booking *bookings.Booking, status bookings.Status) error {
	event := &BookingEvent{
		Type:           eventTypeOf(status),
		BookingID:      booking.ID.String(),
		PartnerOrderID: booking.PartnerOrderID,
		OrderID:        booking.OrderID,
		Status:         status.String(),
		Multiroom:      booking.Multiroom,
		Recovered:      booking.Recovered,
		Amount:         booking.Amount,
		Currency:       booking.Currency,
		Email:          booking.Email,
		OccurredAt:     time.Now(),
	}

	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.BookingTopic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking event to Kafka: %w", err)
	}

	p.log.Info("booking event published",
		slog.String("type", string(event.Type)),
		slog.String("partner_order_id", event.PartnerOrderID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

// createHeaders creates Kafka headers for booking events
func (p *KafkaBookingProducer) createHeaders(event *BookingEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("booking_id"), Value: []byte(event.BookingID)},
		{Key: []byte("partner_order_id"), Value: []byte(event.PartnerOrderID)},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte("staybook-bookings")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

func eventTypeOf(status bookings.Status) BookingEventType {
	switch status {
	case bookings.StatusFailed:
		return EventBookingFailed
	case bookings.StatusCancelled:
		return EventBookingCancelled
	}
	return EventBookingConfirmed
}

// Close closes the Kafka producer
func (p *KafkaBookingProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		p.log.Info("Kafka booking event producer closed")
	}
	return nil
}
