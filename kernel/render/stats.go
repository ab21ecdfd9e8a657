package render

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is one per-second snapshot of the renderer counters
type Stats struct {
	FPS             float64
	Triangles       int
	DrawCalls       int
	Geometries      int
	Textures        int
	MemoryUsedBytes uint64
	// MemoryKnown is false when the host exposes no heap usage
	MemoryKnown bool
}

// StatsDisplay holds the panel strings for a snapshot
type StatsDisplay struct {
	FPS        string
	Triangles  string
	DrawCalls  string
	Geometries string
	Textures   string
	MemoryUsed string
}

// EmptyStatsDisplay is shown before the first snapshot arrives
var EmptyStatsDisplay = StatsDisplay{
	FPS:        "0",
	Triangles:  "0",
	DrawCalls:  "0",
	Geometries: "0",
	Textures:   "0",
	MemoryUsed: "0 MB",
}

var displayPrinter = message.NewPrinter(language.English)

// Display formats the snapshot: fps with one decimal, triangles grouped by
// thousands, the other counters plain, memory rounded to whole megabytes.
func (s Stats) Display() StatsDisplay {
	mb := int64(0)
	if s.MemoryKnown {
		mb = int64(math.Round(float64(s.MemoryUsedBytes) / 1024 / 1024))
	}
	fps := s.FPS
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = 0
	}
	return StatsDisplay{
		FPS:        displayPrinter.Sprintf("%.1f", fps),
		Triangles:  displayPrinter.Sprintf("%d", s.Triangles),
		DrawCalls:  strconv.Itoa(s.DrawCalls),
		Geometries: strconv.Itoa(s.Geometries),
		Textures:   strconv.Itoa(s.Textures),
		MemoryUsed: strconv.FormatInt(mb, 10) + " MB",
	}
}

// Cadence gates snapshot delivery to once per elapsed second. Elapsed time
// is rounded to the nearest second and a snapshot is due whenever that value
// changes; the first call is always due.
type Cadence struct {
	last    int64
	started bool
}

// Due reports whether a snapshot should be taken at elapsedSeconds
func (c *Cadence) Due(elapsedSeconds float64) bool {
	second := int64(math.Round(elapsedSeconds))
	if c.started && second == c.last {
		return false
	}
	c.started = true
	c.last = second
	return true
}

// Reset makes the next call due
func (c *Cadence) Reset() {
	c.started = false
}
