package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/config"
	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces hazard events and CAP alerts to their Kafka topics.
// It implements pipeline.BatchLoader.
type Writer struct {
	events messageWriter
	alerts messageWriter
	logger *slog.Logger
}

// NewWriter creates Kafka producers for the configured events and alerts topics.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{
		events: newTopicWriter(cfg, cfg.KafkaEventsTopic),
		alerts: newTopicWriter(cfg, cfg.KafkaAlertsTopic),
		logger: logger,
	}
}

func newTopicWriter(cfg *config.Config, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchFlushInterval,
	}
}

// LoadEvents publishes events keyed by event ID in a single WriteMessages call.
func (w *Writer) LoadEvents(ctx context.Context, events []domain.HazardEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeEvent(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.events.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	w.logger.Debug("events written", "count", len(msgs))
	return nil
}

// LoadAlerts publishes alerts keyed by their source event ID so an event and
// its alert land on matching partitions.
func (w *Writer) LoadAlerts(ctx context.Context, alerts []domain.CAPAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeAlert(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.alerts.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write alerts: %w", err)
	}
	w.logger.Debug("alerts written", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return errors.Join(w.events.Close(), w.alerts.Close())
}

// serializeEvent marshals a HazardEvent into a Kafka message.
func serializeEvent(event domain.HazardEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hazard event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(event.HazardType)},
			{Key: "severity", Value: []byte(event.Severity)},
			{Key: "generated_at", Value: []byte(event.Provenance.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}

// serializeAlert marshals a CAPAlert into a Kafka message.
func serializeAlert(alert domain.CAPAlert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cap alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(alert.HazardType)},
			{Key: "severity", Value: []byte(alert.Severity)},
			{Key: "sent", Value: []byte(alert.Sent.Format(time.RFC3339))},
		},
	}, nil
}
