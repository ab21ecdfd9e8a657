package render

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nmxmxh/xrscene/kernel/device"
)

const instrumentationName = "github.com/nmxmxh/xrscene/kernel/render"

// Metrics publishes snapshots as OpenTelemetry instruments. It uses the
// global meter provider, which is a no-op until the host installs one.
type Metrics struct {
	fps       metric.Float64ObservableGauge
	memory    metric.Int64ObservableGauge
	snapshots metric.Int64Counter
	drawCalls metric.Int64Histogram
	triangles metric.Int64Histogram
	reg       metric.Registration

	attrs     metric.MeasurementOption
	lastFPS   atomic.Uint64
	lastMem   atomic.Int64
	collected atomic.Int64
}

// NewMetrics registers the render instruments. profile labels every
// measurement with the device category and tier when non-nil.
func NewMetrics(profile *device.Profile) (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(instrumentationName), profile)
}

// NewMetricsWithMeter is NewMetrics with an explicit meter
func NewMetricsWithMeter(m metric.Meter, profile *device.Profile) (*Metrics, error) {
	attrs := []attribute.KeyValue{}
	if profile != nil {
		attrs = append(attrs,
			attribute.String("device.category", profile.Category.String()),
			attribute.String("device.tier", profile.Tier.String()),
		)
	}
	mt := &Metrics{attrs: metric.WithAttributes(attrs...)}

	var err error
	mt.fps, err = m.Float64ObservableGauge(
		"render.fps",
		metric.WithDescription("Frames per second at the last snapshot"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fps gauge: %w", err)
	}

	mt.memory, err = m.Int64ObservableGauge(
		"render.memory.used",
		metric.WithDescription("Heap bytes in use at the last snapshot"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating memory gauge: %w", err)
	}

	mt.reg, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveFloat64(mt.fps, math.Float64frombits(mt.lastFPS.Load()), mt.attrs)
			o.ObserveInt64(mt.memory, mt.lastMem.Load(), mt.attrs)
			return nil
		},
		mt.fps, mt.memory,
	)
	if err != nil {
		return nil, fmt.Errorf("registering snapshot callback: %w", err)
	}

	mt.snapshots, err = m.Int64Counter(
		"render.snapshots",
		metric.WithDescription("Total statistics snapshots taken"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot counter: %w", err)
	}

	mt.drawCalls, err = m.Int64Histogram(
		"render.draw_calls",
		metric.WithDescription("Draw calls per snapshot"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating draw call histogram: %w", err)
	}

	mt.triangles, err = m.Int64Histogram(
		"render.triangles",
		metric.WithDescription("Triangles per snapshot"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating triangle histogram: %w", err)
	}

	return mt, nil
}

func (m *Metrics) UpdatePerformanceData(s Stats) {
	ctx := context.Background()
	m.lastFPS.Store(math.Float64bits(s.FPS))
	if s.MemoryKnown {
		m.lastMem.Store(int64(s.MemoryUsedBytes))
	}
	m.collected.Add(1)

	attrs := m.attrs
	m.snapshots.Add(ctx, 1, attrs)
	m.drawCalls.Record(ctx, int64(s.DrawCalls), attrs)
	m.triangles.Record(ctx, int64(s.Triangles), attrs)
}

// Snapshots returns how many snapshots were recorded
func (m *Metrics) Snapshots() int64 {
	return m.collected.Load()
}

// LastFPS returns the fps of the most recent snapshot
func (m *Metrics) LastFPS() float64 {
	return math.Float64frombits(m.lastFPS.Load())
}

// Close unregisters the observable callback
func (m *Metrics) Close() error {
	if m.reg == nil {
		return nil
	}
	return m.reg.Unregister()
}
