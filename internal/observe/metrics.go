// Package observe records engine metrics through the OpenTelemetry metrics
// API. Callers without a configured provider get the global no-op one.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/talgya/sengoku"

// Metrics holds the engine's instruments.
type Metrics struct {
	// Commands counts executed commands by action, grade and success.
	Commands metric.Int64Counter

	// Rejections counts commands refused at validation by action and reason.
	Rejections metric.Int64Counter

	// Defects counts internal-consistency failures.
	Defects metric.Int64Counter

	// Turns counts settled turns.
	Turns metric.Int64Counter

	// Dissolutions counts clans removed at settlement.
	Dissolutions metric.Int64Counter

	// Defections counts characters changing sides at settlement by kind.
	Defections metric.Int64Counter

	// TurnDuration tracks how long settlement takes.
	TurnDuration metric.Float64Histogram
}

var settleBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// NewMetrics creates every instrument on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Commands, err = m.Int64Counter("sengoku.commands",
		metric.WithDescription("Executed commands by action, grade and success."),
	); err != nil {
		return nil, err
	}
	if met.Rejections, err = m.Int64Counter("sengoku.command.rejections",
		metric.WithDescription("Commands refused at validation by action and reason."),
	); err != nil {
		return nil, err
	}
	if met.Defects, err = m.Int64Counter("sengoku.command.defects",
		metric.WithDescription("Internal-consistency failures detected after validation."),
	); err != nil {
		return nil, err
	}
	if met.Turns, err = m.Int64Counter("sengoku.turns",
		metric.WithDescription("Settled turns."),
	); err != nil {
		return nil, err
	}
	if met.Dissolutions, err = m.Int64Counter("sengoku.clans.dissolved",
		metric.WithDescription("Clans dissolved for holding no castles."),
	); err != nil {
		return nil, err
	}
	if met.Defections, err = m.Int64Counter("sengoku.defections",
		metric.WithDescription("Characters changing sides during settlement by kind."),
	); err != nil {
		return nil, err
	}
	if met.TurnDuration, err = m.Float64Histogram("sengoku.turn.duration",
		metric.WithDescription("Wall time spent settling a turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(settleBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level instance built on otel.GetMeterProvider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordCommand counts an executed command.
func (m *Metrics) RecordCommand(ctx context.Context, action, grade string, success bool) {
	m.Commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("grade", grade),
		attribute.Bool("success", success),
	))
}

// RecordRejection counts a refused command.
func (m *Metrics) RecordRejection(ctx context.Context, action, reason string) {
	m.Rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("reason", reason),
	))
}

// RecordDefect counts an internal-consistency failure.
func (m *Metrics) RecordDefect(ctx context.Context, action string) {
	m.Defects.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// RecordTurn counts a settled turn and its casualties.
func (m *Metrics) RecordTurn(ctx context.Context, seconds float64, dissolved int, defections map[string]int) {
	m.Turns.Add(ctx, 1)
	m.TurnDuration.Record(ctx, seconds)
	if dissolved > 0 {
		m.Dissolutions.Add(ctx, int64(dissolved))
	}
	for kind, n := range defections {
		m.Defections.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
	}
}
