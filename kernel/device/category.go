package device

// Category is the coarse hardware/browser classification
type Category string

const (
	CategoryMetaQuest      Category = "meta-quest"
	CategoryPicoVR         Category = "pico-vr"
	CategorySteamVR        Category = "steamvr-vr"
	CategoryAppleVisionPro Category = "apple-vision-pro"
	CategoryPCVR           Category = "pc-vr"
	CategoryMobile         Category = "mobile"
	CategoryTablet         Category = "tablet"
	CategoryDesktop        Category = "desktop"
	CategoryUnknown        Category = "unknown"
)

// Categories lists every category in classification order
var Categories = []Category{
	CategoryMetaQuest,
	CategoryPicoVR,
	CategorySteamVR,
	CategoryAppleVisionPro,
	CategoryPCVR,
	CategoryMobile,
	CategoryTablet,
	CategoryDesktop,
	CategoryUnknown,
}

func (c Category) String() string {
	return string(c)
}

// IsVR reports whether c belongs to the VR family (standalone headsets and PC VR)
func (c Category) IsVR() bool {
	switch c {
	case CategoryMetaQuest, CategoryPicoVR, CategorySteamVR, CategoryAppleVisionPro, CategoryPCVR:
		return true
	default:
		return false
	}
}

// IsHandheld reports whether c is a touch-first phone or tablet
func (c Category) IsHandheld() bool {
	return c == CategoryMobile || c == CategoryTablet
}

// Emoji returns the icon shown next to the category in the debug panel
func (c Category) Emoji() string {
	switch {
	case c.IsVR():
		return "🥽"
	case c.IsHandheld():
		return "📱"
	case c == CategoryDesktop:
		return "💻"
	default:
		return "❓"
	}
}
