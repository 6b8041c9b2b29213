package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/couchcryptid/ocean-hazard-engine/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

// BatchLoader writes generated events and alerts to the destination.
type BatchLoader interface {
	LoadEvents(ctx context.Context, events []domain.HazardEvent) error
	LoadAlerts(ctx context.Context, alerts []domain.CAPAlert) error
}

// Options controls what each refresh cycle generates and how it publishes.
type Options struct {
	Hazards         []domain.HazardType
	EventsPerHazard int
	Interval        time.Duration
	BatchSize       int

	// Retry schedule for failed loads. Zero values use 200ms doubling to 5s
	// over at most 5 attempts.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxAttempts    int
}

func (o Options) withDefaults() Options {
	if len(o.Hazards) == 0 {
		o.Hazards = domain.HazardTypes()
	}
	if o.EventsPerHazard <= 0 {
		o.EventsPerHazard = 5
	}
	if o.Interval <= 0 {
		o.Interval = 5 * time.Minute
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 200 * time.Millisecond
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 5 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	return o
}

// Pipeline periodically regenerates the forecast set and publishes it.
type Pipeline struct {
	gen     *forecast.Generator
	loader  BatchLoader
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	ready   atomic.Bool
}

// New creates a Pipeline. A nil clock uses the real clock.
func New(gen *forecast.Generator, l BatchLoader, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		gen:     gen,
		loader:  l,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		opts:    opts.withDefaults(),
	}
}

// CheckReadiness returns nil once a refresh cycle has been published,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published a forecast cycle yet")
	}
	return nil
}

// Run publishes a cycle immediately and then once per interval until the
// context is cancelled. A failed cycle is logged and retried on the next tick.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"interval", p.opts.Interval,
		"hazards", len(p.opts.Hazards),
		"events_per_hazard", p.opts.EventsPerHazard,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		if err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("forecast cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// RunOnce generates events for every configured hazard, derives alerts, and
// publishes both. Events that fail invariant checks are dropped.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	start := p.clock.Now()

	events := p.generate()
	alerts := forecast.ToAlerts(events)
	for _, a := range alerts {
		p.metrics.AlertsGenerated.WithLabelValues(string(a.HazardType), string(a.Severity)).Inc()
	}

	for chunk := range slices.Chunk(events, p.opts.BatchSize) {
		if err := p.withRetry(ctx, func(ctx context.Context) error { return p.loader.LoadEvents(ctx, chunk) }); err != nil {
			return fmt.Errorf("publish events: %w", err)
		}
		p.metrics.EventsPublished.Add(float64(len(chunk)))
	}
	for chunk := range slices.Chunk(alerts, p.opts.BatchSize) {
		if err := p.withRetry(ctx, func(ctx context.Context) error { return p.loader.LoadAlerts(ctx, chunk) }); err != nil {
			return fmt.Errorf("publish alerts: %w", err)
		}
		p.metrics.AlertsPublished.Add(float64(len(chunk)))
	}

	elapsed := p.clock.Since(start)
	p.metrics.CycleDuration.Observe(elapsed.Seconds())
	p.metrics.LastCycleTime.Set(float64(p.clock.Now().Unix()))
	p.ready.Store(true)
	p.logger.Info("forecast cycle published",
		"events", len(events),
		"alerts", len(alerts),
		"duration", elapsed,
	)
	return nil
}

func (p *Pipeline) generate() []domain.HazardEvent {
	events := make([]domain.HazardEvent, 0, len(p.opts.Hazards)*p.opts.EventsPerHazard)
	for _, h := range p.opts.Hazards {
		kept := 0
		for _, e := range p.gen.GenerateEvents(h, p.opts.EventsPerHazard) {
			if err := domain.Validate(e); err != nil {
				p.logger.Warn("dropping invalid event", "error", err, "event_id", e.ID, "hazard", h)
				p.metrics.InvalidEvents.Inc()
				continue
			}
			events = append(events, e)
			kept++
		}
		p.metrics.EventsGenerated.WithLabelValues(string(h)).Add(float64(kept))
	}
	return events
}

// withRetry calls fn until it succeeds, the attempts run out, or ctx ends.
// Waits between attempts double from InitialBackoff up to MaxBackoff.
func (p *Pipeline) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := p.opts.InitialBackoff
	var err error
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		p.metrics.PublishErrors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("publish failed", "error", err, "attempt", attempt, "backoff", backoff)
		if attempt == p.opts.MaxAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, p.opts.MaxBackoff)
	}
	return fmt.Errorf("giving up after %d attempts: %w", p.opts.MaxAttempts, err)
}
