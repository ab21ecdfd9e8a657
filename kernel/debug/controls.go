package debug

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nmxmxh/xrscene/kernel/render"
)

// ControlKind selects how a control coerces its input
type ControlKind int

const (
	KindToggle ControlKind = iota
	KindSlider
	KindColor
)

func (k ControlKind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindSlider:
		return "slider"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// Control is one live setting bound to a Configurator setter
type Control struct {
	Name string
	Kind ControlKind
	// Min, Max and Step apply to sliders
	Min, Max, Step float64

	read     func(render.Settings) any
	setBool  func(bool)
	setFloat func(float64)
	setColor func(render.Color)
	cfg      *render.Configurator
}

// Value returns the current setting
func (c Control) Value() any {
	if c.cfg == nil || c.read == nil {
		return nil
	}
	return c.read(c.cfg.Settings())
}

// Display formats the current setting for a text overlay
func (c Control) Display() string {
	switch v := c.Value().(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case render.Color:
		return v.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Set coerces value to the control's kind and forwards it. Input that cannot
// be interpreted is ignored; Set never fails.
func (c Control) Set(value any) {
	switch c.Kind {
	case KindToggle:
		if c.setBool != nil {
			c.setBool(truthy(value))
		}
	case KindSlider:
		f, ok := toFloat(value)
		if !ok || c.setFloat == nil {
			return
		}
		c.setFloat(math.Max(c.Min, math.Min(c.Max, f)))
	case KindColor:
		col, ok := toColor(value)
		if ok && c.setColor != nil {
			c.setColor(col)
		}
	}
}

// Toggle flips a toggle control. Other kinds are unaffected.
func (c Control) Toggle() {
	if c.Kind != KindToggle {
		return
	}
	v, _ := c.Value().(bool)
	c.Set(!v)
}

// Nudge moves a slider by steps increments, clamped to its range
func (c Control) Nudge(steps int) {
	if c.Kind != KindSlider {
		return
	}
	v, _ := c.Value().(float64)
	c.Set(v + float64(steps)*c.Step)
}

func toggle(cfg *render.Configurator, name string, read func(render.Settings) bool, set func(bool)) Control {
	return Control{
		Name:    name,
		Kind:    KindToggle,
		read:    func(s render.Settings) any { return read(s) },
		setBool: set,
		cfg:     cfg,
	}
}

func slider(cfg *render.Configurator, name string, lo, hi, step float64, read func(render.Settings) float64, set func(float64)) Control {
	return Control{
		Name:     name,
		Kind:     KindSlider,
		Min:      lo,
		Max:      hi,
		Step:     step,
		read:     func(s render.Settings) any { return read(s) },
		setFloat: set,
		cfg:      cfg,
	}
}

// SceneControls returns the live controls for cfg in panel order
func SceneControls(cfg *render.Configurator) []Control {
	return []Control{
		toggle(cfg, "Shadows", func(s render.Settings) bool { return s.Shadows }, cfg.SetShadows),
		toggle(cfg, "Antialias", func(s render.Settings) bool { return s.Antialias }, cfg.SetAntialias),
		toggle(cfg, "Wireframe", func(s render.Settings) bool { return s.Wireframe }, cfg.SetWireframe),
		{
			Name:     "Background",
			Kind:     KindColor,
			read:     func(s render.Settings) any { return s.Background },
			setColor: cfg.SetBackground,
			cfg:      cfg,
		},
		toggle(cfg, "Axes", func(s render.Settings) bool { return s.Helpers.Axes }, cfg.SetAxesVisible),
		toggle(cfg, "Light Helper", func(s render.Settings) bool { return s.Helpers.DirectionalLight }, cfg.SetLightHelperVisible),
		toggle(cfg, "Shadow Camera", func(s render.Settings) bool { return s.Helpers.ShadowCamera }, cfg.SetShadowCameraVisible),
		slider(cfg, "Ambient Intensity", 0, 3, 0.1, func(s render.Settings) float64 { return s.AmbientIntensity }, cfg.SetAmbientIntensity),
		slider(cfg, "Directional Intensity", 0, 5, 0.1, func(s render.Settings) float64 { return s.DirectionalIntensity }, cfg.SetDirectionalIntensity),
		slider(cfg, "Light X", -5, 5, 0.1, func(s render.Settings) float64 { return s.DirectionalPosition.X }, cfg.SetDirectionalX),
		slider(cfg, "Light Y", -5, 5, 0.1, func(s render.Settings) float64 { return s.DirectionalPosition.Y }, cfg.SetDirectionalY),
		slider(cfg, "Light Z", -5, 5, 0.1, func(s render.Settings) float64 { return s.DirectionalPosition.Z }, cfg.SetDirectionalZ),
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	default:
		f, ok := toFloat(v)
		return ok && f != 0
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint32:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toColor(v any) (render.Color, bool) {
	switch t := v.(type) {
	case render.Color:
		return t, true
	case string:
		c, err := render.ParseColor(t)
		return c, err == nil
	default:
		f, ok := toFloat(v)
		if !ok || f < 0 {
			return 0, false
		}
		return render.Color(uint32(f) & 0xffffff), true
	}
}
