package render

import (
	"math"

	"github.com/nmxmxh/xrscene/kernel/device"
)

// MaxPixelRatio caps the render resolution on every device
const MaxPixelRatio = 2.0

// TierProfile is one row of the tier table
type TierProfile struct {
	// PixelRatioCap bounds the native ratio; 1 pins it
	PixelRatioCap float64
	// DesktopOnly restricts shadows and antialias to the desktop category
	DesktopOnly   bool
	Shadows       bool
	Antialias     bool
	ShadowMapSize int
	MaxLights     int
}

// TierSettings maps tiers to their row. Tiers missing from the table use
// FallbackTierProfile.
var TierSettings = map[device.Tier]TierProfile{
	device.TierHigh: {
		PixelRatioCap: 2,
		Shadows:       true,
		Antialias:     true,
		ShadowMapSize: 2048,
		MaxLights:     4,
	},
	device.TierMedium: {
		PixelRatioCap: 1.5,
		DesktopOnly:   true,
		Shadows:       true,
		Antialias:     true,
		ShadowMapSize: 1024,
		MaxLights:     2,
	},
}

// FallbackTierProfile covers low, unknown and anything else
var FallbackTierProfile = TierProfile{
	PixelRatioCap: 1,
	ShadowMapSize: 512,
	MaxLights:     1,
}

// Resolve derives the session settings from the tier table, then applies the
// VR override. Interactive fields start at scene defaults.
func Resolve(tier device.Tier, category device.Category, nativePixelRatio float64) Settings {
	row, ok := TierSettings[tier]
	if !ok {
		row = FallbackTierProfile
	}

	s := Settings{
		PixelRatio:    ClampPixelRatio(nativePixelRatio, row.PixelRatioCap),
		Shadows:       row.Shadows,
		Antialias:     row.Antialias,
		ShadowMapSize: row.ShadowMapSize,
		MaxLights:     row.MaxLights,
	}
	if row.DesktopOnly && category != device.CategoryDesktop {
		s.Shadows = false
		s.Antialias = false
	}

	return withSceneDefaults(applyVROverride(s, category))
}

func applyVROverride(s Settings, category device.Category) Settings {
	if category.IsVR() {
		s.PixelRatio = 1
		s.Antialias = false
	}
	return s
}

// ClampPixelRatio returns native bounded to [1, min(limit, MaxPixelRatio)].
// Unknown (<= 0 or NaN) native ratios count as 1.
func ClampPixelRatio(native, limit float64) float64 {
	if math.IsNaN(native) || native <= 0 {
		native = 1
	}
	if math.IsNaN(limit) || limit <= 0 || limit > MaxPixelRatio {
		limit = MaxPixelRatio
	}
	return math.Max(1, math.Min(native, limit))
}

// ResizePixelRatio is the ratio applied when the viewport changes size
func ResizePixelRatio(native float64) float64 {
	return ClampPixelRatio(native, MaxPixelRatio)
}
