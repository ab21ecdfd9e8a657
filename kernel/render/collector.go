package render

import "runtime"

// RenderInfo mirrors the renderer's per-frame counters
type RenderInfo struct {
	Calls      int
	Triangles  int
	Geometries int
	Textures   int
}

// InfoSource exposes renderer counters. ResetRenderInfo clears the per-frame
// counters (calls, triangles); allocation counts survive.
type InfoSource interface {
	RenderInfo() RenderInfo
	ResetRenderInfo()
}

// MemorySampler reports current heap usage; ok is false when unknown
type MemorySampler interface {
	UsedHeapBytes() (bytes uint64, ok bool)
}

// MemorySamplerFunc adapts a function to MemorySampler
type MemorySamplerFunc func() (uint64, bool)

func (f MemorySamplerFunc) UsedHeapBytes() (uint64, bool) {
	return f()
}

// RuntimeMemory samples the Go heap
type RuntimeMemory struct{}

func (RuntimeMemory) UsedHeapBytes() (uint64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, true
}

// Collector reads the counters into a Stats snapshot
type Collector struct {
	source InfoSource
	memory MemorySampler
}

// NewCollector creates a collector. Either argument may be nil, in which case
// the matching fields stay zero.
func NewCollector(source InfoSource, memory MemorySampler) *Collector {
	return &Collector{source: source, memory: memory}
}

// Collect builds a snapshot and resets the renderer counters
func (c *Collector) Collect(fps float64) Stats {
	s := Stats{FPS: fps}
	if c.source != nil {
		info := c.source.RenderInfo()
		s.Triangles = info.Triangles
		s.DrawCalls = info.Calls
		s.Geometries = info.Geometries
		s.Textures = info.Textures
		c.source.ResetRenderInfo()
	}
	if c.memory != nil {
		s.MemoryUsedBytes, s.MemoryKnown = c.memory.UsedHeapBytes()
	}
	return s
}

// StatsSink receives snapshots at the cadence rate
type StatsSink interface {
	UpdatePerformanceData(s Stats)
}

// SinkFunc adapts a function to StatsSink
type SinkFunc func(Stats)

func (f SinkFunc) UpdatePerformanceData(s Stats) {
	f(s)
}

// FanOut forwards each snapshot to every non-nil sink in order
type FanOut []StatsSink

func (f FanOut) UpdatePerformanceData(s Stats) {
	for _, sink := range f {
		if sink != nil {
			sink.UpdatePerformanceData(s)
		}
	}
}
