package scene

import (
	"image"
	"time"

	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// Loop advances the scene once per frame: fps, cube rotation and the
// once-per-second statistics snapshot.
type Loop struct {
	scene     *Scene
	raster    *Rasterizer
	collector *render.Collector
	sink      render.StatsSink
	cadence   render.Cadence
	elapsed   float64
	fps       float64
	frames    int64
	logger    *utils.Logger
}

// LoopConfig wires a Loop. Sink and Memory are optional.
type LoopConfig struct {
	Scene  *Scene
	Raster *Rasterizer
	Sink   render.StatsSink
	Memory render.MemorySampler
	Logger *utils.Logger
}

// NewLoop creates a frame loop over cfg.Scene
func NewLoop(cfg LoopConfig) *Loop {
	logger := utils.OrGlobal(cfg.Logger).Named("loop")
	raster := cfg.Raster
	if raster == nil {
		raster = NewRasterizer(logger)
	}
	return &Loop{
		scene:     cfg.Scene,
		raster:    raster,
		collector: render.NewCollector(cfg.Scene, cfg.Memory),
		sink:      cfg.Sink,
		logger:    logger,
	}
}

// SetSink replaces the statistics sink
func (l *Loop) SetSink(sink render.StatsSink) {
	l.sink = sink
}

// Tick advances time by delta. It returns the snapshot and true when one
// was due this frame.
func (l *Loop) Tick(delta time.Duration) (render.Stats, bool) {
	seconds := delta.Seconds()
	if seconds > 0 {
		l.fps = 1 / seconds
		l.elapsed += seconds
	}
	l.frames++

	l.scene.Cube.Rotation.X = l.elapsed
	l.scene.Cube.Rotation.Y = l.elapsed

	if !l.cadence.Due(l.elapsed) {
		return render.Stats{}, false
	}
	stats := l.collector.Collect(l.fps)
	if l.sink != nil {
		l.sink.UpdatePerformanceData(stats)
	}
	return stats, true
}

// Frame ticks and renders one frame
func (l *Loop) Frame(delta time.Duration) (*image.RGBA, error) {
	l.Tick(delta)
	img, err := l.raster.Render(l.scene)
	if err != nil {
		l.logger.Warn("Frame skipped", utils.Err(err))
		return nil, err
	}
	return img, nil
}

// Elapsed returns the simulated time since the first frame
func (l *Loop) Elapsed() time.Duration {
	return time.Duration(l.elapsed * float64(time.Second))
}

// FPS returns the frame rate computed on the last tick
func (l *Loop) FPS() float64 {
	return l.fps
}

// Frames returns the number of ticks so far
func (l *Loop) Frames() int64 {
	return l.frames
}

// Scene returns the driven scene
func (l *Loop) Scene() *Scene {
	return l.scene
}

// Resize forwards a viewport change to the scene
func (l *Loop) Resize(width, height int, nativePixelRatio float64) {
	l.scene.Resize(width, height, nativePixelRatio)
	l.logger.Debug("Viewport resized",
		utils.Int("width", width),
		utils.Int("height", height),
		utils.Float64("pixel_ratio", l.scene.Renderer.PixelRatio),
	)
}
