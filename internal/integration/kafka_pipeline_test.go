//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/adapter/kafka"
	"github.com/couchcryptid/ocean-hazard-engine/internal/config"
	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/couchcryptid/ocean-hazard-engine/internal/observability"
	"github.com/couchcryptid/ocean-hazard-engine/internal/pipeline"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testEventsTopic = "test-hazard-events"
	testAlertsTopic = "test-hazard-alerts"
)

var testNow = time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type received struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// readN reads n messages from topic starting at the first offset.
func readN(ctx context.Context, t *testing.T, broker, topic string, n int) []received {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]received, 0, n)
	for len(out) < n {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read from %s", topic)
		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		out = append(out, received{Key: string(msg.Key), Value: msg.Value, Headers: headers})
	}
	return out
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaEventsTopic:   testEventsTopic,
		KafkaAlertsTopic:   testAlertsTopic,
		BatchSize:          50,
		BatchFlushInterval: 100 * time.Millisecond,
	}
}

// TestWriterRoundTrip verifies kafka.Writer publishes events and alerts to
// their topics with the expected keys and headers.
func TestWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)
	createTopic(t, broker, testAlertsTopic)

	writer := kafka.NewWriter(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	gen := forecast.NewSeededGenerator(1, clockwork.NewFakeClockAt(testNow))
	events := gen.GenerateEvents(domain.HazardCyclone, 3)
	for i := range events {
		events[i].Severity = domain.SeverityExtreme
	}
	alerts := forecast.ToAlerts(events)

	require.NoError(t, writer.LoadEvents(ctx, events))
	require.NoError(t, writer.LoadAlerts(ctx, alerts))

	gotEvents := readN(ctx, t, broker, testEventsTopic, len(events))
	for i, msg := range gotEvents {
		assert.Equal(t, events[i].ID, msg.Key)
		assert.Equal(t, "cyclone", msg.Headers["hazard_type"])
		assert.Equal(t, "extreme", msg.Headers["severity"])
		_, err := time.Parse(time.RFC3339, msg.Headers["generated_at"])
		assert.NoError(t, err, "generated_at should be valid RFC3339")

		var e domain.HazardEvent
		require.NoError(t, json.Unmarshal(msg.Value, &e))
		assert.NoError(t, domain.Validate(e))
	}

	gotAlerts := readN(ctx, t, broker, testAlertsTopic, len(alerts))
	for i, msg := range gotAlerts {
		assert.Equal(t, alerts[i].EventID, msg.Key)
		var a domain.CAPAlert
		require.NoError(t, json.Unmarshal(msg.Value, &a))
		assert.Equal(t, "cap-"+events[i].ID, a.ID)
	}
}

// TestPipelineEndToEnd runs one refresh cycle against real Kafka and checks
// every generated event and alert arrives.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)
	createTopic(t, broker, testAlertsTopic)

	writer := kafka.NewWriter(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	clock := clockwork.NewFakeClockAt(testNow)
	p := pipeline.New(
		forecast.NewSeededGenerator(7, clock),
		writer,
		clock,
		discardLogger(),
		observability.NewMetricsForTesting(),
		pipeline.Options{EventsPerHazard: 2},
	)
	require.NoError(t, p.RunOnce(ctx))
	require.NoError(t, p.CheckReadiness(ctx))

	// Regenerate the same cycle to know what to expect.
	expected := make([]domain.HazardEvent, 0, 10)
	gen := forecast.NewSeededGenerator(7, clockwork.NewFakeClockAt(testNow))
	for _, h := range domain.HazardTypes() {
		expected = append(expected, gen.GenerateEvents(h, 2)...)
	}

	gotEvents := readN(ctx, t, broker, testEventsTopic, len(expected))
	counts := map[string]int{}
	for i, msg := range gotEvents {
		assert.Equal(t, expected[i].ID, msg.Key)
		counts[msg.Headers["hazard_type"]]++
	}
	for _, h := range domain.HazardTypes() {
		assert.Equal(t, 2, counts[string(h)], string(h))
	}

	wantAlerts := forecast.ToAlerts(expected)
	gotAlerts := readN(ctx, t, broker, testAlertsTopic, len(wantAlerts))
	for i, msg := range gotAlerts {
		assert.Equal(t, wantAlerts[i].EventID, msg.Key)
	}
}
