package main

import (
	"context"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nmxmxh/xrscene/kernel/debug"
	"github.com/nmxmxh/xrscene/kernel/scene"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// window adapts the frame loop to ebiten: Update advances time and handles
// keys, Draw rasterises the scene and overlays the debug panel.
type window struct {
	ctx    context.Context
	loop   *scene.Loop
	raster *scene.Rasterizer
	panel  *debug.Panel
	logger *utils.Logger

	frame      *ebiten.Image
	last       time.Time
	outW, outH int
	keys       []ebiten.Key
}

func newWindow(ctx context.Context, loop *scene.Loop, raster *scene.Rasterizer, panel *debug.Panel, logger *utils.Logger) *window {
	return &window{
		ctx:    ctx,
		loop:   loop,
		raster: raster,
		panel:  panel,
		logger: logger,
	}
}

func (w *window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	now := time.Now()
	var delta time.Duration
	if !w.last.IsZero() {
		delta = now.Sub(w.last)
	}
	w.last = now
	w.loop.Tick(delta)

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		w.panel.HandleKey(keyName(k))
	}
	return nil
}

// keyName maps ebiten keys onto the panel's key names: letters lower-case,
// everything else by its ebiten name (ArrowUp, ...).
func keyName(k ebiten.Key) string {
	name := k.String()
	if len(name) == 1 {
		return strings.ToLower(name)
	}
	return name
}

func (w *window) Draw(screen *ebiten.Image) {
	s := w.loop.Scene()
	img, err := w.raster.Render(s)
	if err != nil {
		w.logger.Debug("Frame skipped", utils.Err(err))
		return
	}

	b := img.Bounds()
	if w.frame == nil || w.frame.Bounds().Dx() != b.Dx() || w.frame.Bounds().Dy() != b.Dy() {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.frame.WritePixels(img.Pix)

	op := &ebiten.DrawImageOptions{}
	if pr := s.Renderer.PixelRatio; pr > 0 {
		op.GeoM.Scale(1/pr, 1/pr)
	}
	screen.DrawImage(w.frame, op)

	if lines := w.panel.Lines(); len(lines) > 0 {
		ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 8)
	}
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.outW || outsideHeight != w.outH {
		w.outW, w.outH = outsideWidth, outsideHeight
		w.loop.Resize(outsideWidth, outsideHeight, ebiten.Monitor().DeviceScaleFactor())
	}
	return outsideWidth, outsideHeight
}
