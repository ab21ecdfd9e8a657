package render_test

import (
	"testing"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestCadence_OncePerSecond(t *testing.T) {
	var c render.Cadence

	fired := 0
	// 60 fps for three seconds
	for frame := 0; frame <= 180; frame++ {
		if c.Due(float64(frame) / 60) {
			fired++
		}
	}
	// rounded seconds 0,1,2,3
	assert.Equal(t, 4, fired)
}

func TestCadence_FirstCallAndRounding(t *testing.T) {
	var c render.Cadence
	assert.True(t, c.Due(0.2))
	assert.False(t, c.Due(0.49))
	assert.True(t, c.Due(0.5))
	assert.False(t, c.Due(1.4))
	assert.True(t, c.Due(1.6))

	c.Reset()
	assert.True(t, c.Due(1.7))
}

func TestCadence_LongFrameFiresOnce(t *testing.T) {
	var c render.Cadence
	c.Due(0)
	assert.True(t, c.Due(5))
	assert.False(t, c.Due(5.1))
}

type fakeInfo struct {
	info   render.RenderInfo
	resets int
}

func (f *fakeInfo) RenderInfo() render.RenderInfo { return f.info }
func (f *fakeInfo) ResetRenderInfo() {
	f.resets++
	f.info.Calls = 0
	f.info.Triangles = 0
}

func TestCollector_ReadsThenResets(t *testing.T) {
	info := &fakeInfo{info: render.RenderInfo{Calls: 3, Triangles: 140, Geometries: 2, Textures: 1}}
	mem := render.MemorySamplerFunc(func() (uint64, bool) { return 48 * 1024 * 1024, true })

	s := render.NewCollector(info, mem).Collect(59.6)
	assert.Equal(t, 59.6, s.FPS)
	assert.Equal(t, 3, s.DrawCalls)
	assert.Equal(t, 140, s.Triangles)
	assert.Equal(t, 2, s.Geometries)
	assert.Equal(t, 1, s.Textures)
	assert.True(t, s.MemoryKnown)
	assert.Equal(t, 1, info.resets)
	assert.Equal(t, 0, info.info.Calls)
}

func TestCollector_NilSources(t *testing.T) {
	s := render.NewCollector(nil, nil).Collect(30)
	assert.Equal(t, render.Stats{FPS: 30}, s)
	assert.Equal(t, "0 MB", s.Display().MemoryUsed)
}

func TestRuntimeMemory(t *testing.T) {
	used, ok := render.RuntimeMemory{}.UsedHeapBytes()
	assert.True(t, ok)
	assert.Greater(t, used, uint64(0))
}

func TestStats_Display(t *testing.T) {
	d := render.Stats{
		FPS:             59.94,
		Triangles:       1234567,
		DrawCalls:       12,
		Geometries:      3,
		Textures:        0,
		MemoryUsedBytes: 52 * 1024 * 1024,
		MemoryKnown:     true,
	}.Display()

	assert.Equal(t, "59.9", d.FPS)
	assert.Equal(t, "1,234,567", d.Triangles)
	assert.Equal(t, "12", d.DrawCalls)
	assert.Equal(t, "3", d.Geometries)
	assert.Equal(t, "0", d.Textures)
	assert.Equal(t, "52 MB", d.MemoryUsed)
}

func TestStats_DisplayGroupsOnlyTriangles(t *testing.T) {
	d := render.Stats{
		Triangles:       2500000,
		DrawCalls:       12345,
		Geometries:      1024,
		Textures:        2048,
		MemoryUsedBytes: 1500 * 1024 * 1024,
		MemoryKnown:     true,
	}.Display()

	assert.Equal(t, "2,500,000", d.Triangles)
	assert.Equal(t, "12345", d.DrawCalls)
	assert.Equal(t, "1024", d.Geometries)
	assert.Equal(t, "2048", d.Textures)
	assert.Equal(t, "1500 MB", d.MemoryUsed)
}

func TestFanOut(t *testing.T) {
	var got []float64
	sink := render.SinkFunc(func(s render.Stats) { got = append(got, s.FPS) })

	render.FanOut{sink, nil, sink}.UpdatePerformanceData(render.Stats{FPS: 42})
	assert.Equal(t, []float64{42, 42}, got)
}

func TestMetrics_RecordsSnapshots(t *testing.T) {
	profile := &device.Profile{Category: device.CategoryDesktop, Tier: device.TierHigh}
	m, err := render.NewMetricsWithMeter(noop.NewMeterProvider().Meter("test"), profile)
	require.NoError(t, err)
	defer func() { assert.NoError(t, m.Close()) }()

	m.UpdatePerformanceData(render.Stats{FPS: 60, DrawCalls: 4, Triangles: 200})
	m.UpdatePerformanceData(render.Stats{FPS: 58.5})

	assert.Equal(t, int64(2), m.Snapshots())
	assert.Equal(t, 58.5, m.LastFPS())
}

func TestMetrics_GlobalMeter(t *testing.T) {
	m, err := render.NewMetrics(nil)
	require.NoError(t, err)
	m.UpdatePerformanceData(render.Stats{FPS: 1})
	assert.NoError(t, m.Close())
}
