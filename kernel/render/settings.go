package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB colour
type Color uint32

// DefaultBackground is the scene clear colour
const DefaultBackground Color = 0x000011

// ParseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb"
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// Hex returns the "#rrggbb" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) String() string {
	return c.Hex()
}

// RGB returns the channels scaled to [0, 1]
func (c Color) RGB() (r, g, b float64) {
	return float64((c>>16)&0xff) / 255, float64((c>>8)&0xff) / 255, float64(c&0xff) / 255
}

// Vec3 is a position in scene units
type Vec3 struct {
	X, Y, Z float64
}

// Helper identifies a debug overlay
type Helper int

const (
	HelperAxes Helper = iota
	HelperDirectionalLight
	HelperShadowCamera
)

func (h Helper) String() string {
	switch h {
	case HelperAxes:
		return "axes"
	case HelperDirectionalLight:
		return "light-helper"
	case HelperShadowCamera:
		return "shadow-camera"
	default:
		return "helper(" + strconv.Itoa(int(h)) + ")"
	}
}

// Helpers holds the visibility of each debug overlay
type Helpers struct {
	Axes             bool
	DirectionalLight bool
	ShadowCamera     bool
}

// Visible reports whether h is shown
func (hs Helpers) Visible(h Helper) bool {
	switch h {
	case HelperAxes:
		return hs.Axes
	case HelperDirectionalLight:
		return hs.DirectionalLight
	case HelperShadowCamera:
		return hs.ShadowCamera
	default:
		return false
	}
}

func (hs *Helpers) set(h Helper, visible bool) {
	switch h {
	case HelperAxes:
		hs.Axes = visible
	case HelperDirectionalLight:
		hs.DirectionalLight = visible
	case HelperShadowCamera:
		hs.ShadowCamera = visible
	}
}

// Settings is the session's render configuration. The first five fields come
// from the tier table; the rest are interactive and start at scene defaults.
type Settings struct {
	PixelRatio    float64
	Shadows       bool
	Antialias     bool
	ShadowMapSize int
	MaxLights     int

	Wireframe            bool
	Background           Color
	Helpers              Helpers
	AmbientIntensity     float64
	DirectionalIntensity float64
	DirectionalPosition  Vec3
}

// Scene defaults for the interactive fields
const (
	DefaultAmbientIntensity     = 0.5
	DefaultDirectionalIntensity = 1.5
)

// DefaultDirectionalPosition is where the key light starts
var DefaultDirectionalPosition = Vec3{X: 2, Y: 2, Z: 1}

func withSceneDefaults(s Settings) Settings {
	s.Wireframe = false
	s.Background = DefaultBackground
	s.Helpers = Helpers{}
	s.AmbientIntensity = DefaultAmbientIntensity
	s.DirectionalIntensity = DefaultDirectionalIntensity
	s.DirectionalPosition = DefaultDirectionalPosition
	return s
}
