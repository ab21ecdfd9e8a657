package debug_test

import (
	"bytes"
	"testing"

	"github.com/nmxmxh/xrscene/kernel/debug"
	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachedControls(t *testing.T) (*render.Configurator, *scene.Scene, *debug.Panel) {
	t.Helper()
	settings := render.Resolve(device.TierHigh, device.CategoryDesktop, 1)
	cfg := render.NewConfigurator(settings, testLogger(&bytes.Buffer{}))
	s := scene.New(settings, 320, 240)
	cfg.Attach(s)

	p := debug.NewPanel(testLogger(&bytes.Buffer{}))
	p.Init()
	p.AddControls(debug.SceneControls(cfg))
	return cfg, s, p
}

func control(t *testing.T, p *debug.Panel, name string) debug.Control {
	t.Helper()
	c, ok := p.Control(name)
	require.True(t, ok, name)
	return c
}

func TestSceneControls_Order(t *testing.T) {
	cfg := render.NewConfigurator(render.Resolve(device.TierMedium, device.CategoryDesktop, 1), nil)
	var names []string
	for _, c := range debug.SceneControls(cfg) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"Shadows", "Antialias", "Wireframe", "Background",
		"Axes", "Light Helper", "Shadow Camera",
		"Ambient Intensity", "Directional Intensity",
		"Light X", "Light Y", "Light Z",
	}, names)
}

func TestSceneControls_Ranges(t *testing.T) {
	_, _, p := attachedControls(t)

	tests := []struct {
		name     string
		min, max float64
	}{
		{"Ambient Intensity", 0, 3},
		{"Directional Intensity", 0, 5},
		{"Light X", -5, 5},
		{"Light Y", -5, 5},
		{"Light Z", -5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := control(t, p, tt.name)
			assert.Equal(t, debug.KindSlider, c.Kind)
			assert.Equal(t, tt.min, c.Min)
			assert.Equal(t, tt.max, c.Max)
		})
	}
}

func TestControl_ToggleCoercion(t *testing.T) {
	_, s, p := attachedControls(t)
	shadows := control(t, p, "Shadows")

	for _, v := range []any{false, "false", "off", 0, "", nil} {
		shadows.Set(true)
		shadows.Set(v)
		assert.False(t, s.Renderer.ShadowMapEnabled, "%#v", v)
	}
	for _, v := range []any{true, "true", "yes", 1, 2.5, "1"} {
		shadows.Set(false)
		shadows.Set(v)
		assert.True(t, s.Renderer.ShadowMapEnabled, "%#v", v)
	}

	wire := control(t, p, "wireframe")
	wire.Toggle()
	assert.True(t, s.Cube.Material.Wireframe)
	assert.Equal(t, "on", wire.Display())
}

func TestControl_SliderCoercion(t *testing.T) {
	cfg, s, p := attachedControls(t)
	ambient := control(t, p, "Ambient Intensity")

	ambient.Set("1.25")
	assert.Equal(t, 1.25, s.Ambient.Intensity)

	ambient.Set(10)
	assert.Equal(t, 3.0, s.Ambient.Intensity, "clamped to the slider range")

	ambient.Set("bright")
	assert.Equal(t, 3.0, s.Ambient.Intensity, "unparseable input is ignored")

	ambient.Set(-1)
	assert.Equal(t, 0.0, cfg.Settings().AmbientIntensity)

	lightX := control(t, p, "Light X")
	lightX.Nudge(5)
	assert.InDelta(t, 2.5, s.Directional.Position.X, 1e-9)
	assert.Equal(t, 2.0, s.Directional.Position.Y)
	assert.Equal(t, 1.0, s.Directional.Position.Z)
}

func TestControl_ColorCoercion(t *testing.T) {
	_, s, p := attachedControls(t)
	bg := control(t, p, "Background")
	assert.Equal(t, debug.KindColor, bg.Kind)
	assert.Equal(t, "#000011", bg.Display())

	bg.Set("#336699")
	assert.Equal(t, render.Color(0x336699), s.Background)

	bg.Set(0xff0000)
	assert.Equal(t, render.Color(0xff0000), s.Background)

	bg.Set("not a colour")
	assert.Equal(t, render.Color(0xff0000), s.Background)

	bg.Set(render.Color(0x00ff00))
	assert.Equal(t, "#00ff00", bg.Display())
}

func TestControl_AntialiasRecordOnly(t *testing.T) {
	cfg, s, p := attachedControls(t)
	aa := control(t, p, "Antialias")
	aa.Set(false)
	assert.False(t, cfg.Settings().Antialias)
	assert.True(t, s.Renderer.Antialias)
}

func TestPanel_ControlsFolder(t *testing.T) {
	_, _, p := attachedControls(t)
	folders := p.Folders()
	require.Len(t, folders, 3)
	got := rows(folders[2])
	assert.Equal(t, debug.ControlsFolder, folders[2].Title)
	assert.Equal(t, "on", got["Shadows"])
	assert.Equal(t, "0.5", got["Ambient Intensity"])
	assert.Equal(t, "1.5", got["Directional Intensity"])
	assert.Equal(t, "#000011", got["Background"])
}

func TestPanel_BindControlKeys(t *testing.T) {
	_, s, p := attachedControls(t)
	fullscreen := 0
	p.SetFullscreenHandler(func() error { fullscreen++; return nil })
	p.BindControlKeys()

	require.True(t, p.HandleKey("s"))
	assert.False(t, s.Renderer.ShadowMapEnabled)
	require.True(t, p.HandleKey("s"))
	assert.True(t, s.Renderer.ShadowMapEnabled)

	p.HandleKey("a")
	p.HandleKey("c")
	assert.True(t, s.Axes.Visible)
	assert.True(t, s.ShadowCameraHelper.Visible)

	p.HandleKey("ArrowUp")
	assert.InDelta(t, 0.6, s.Ambient.Intensity, 1e-9)
	p.HandleKey("ArrowLeft")
	assert.InDelta(t, 1.9, s.Directional.Position.X, 1e-9)

	p.HandleKey("f")
	assert.Equal(t, 1, fullscreen)

	assert.False(t, p.HandleKey("q"))
	assert.True(t, p.HandleKey("h"))
	assert.False(t, p.Visible())
}
