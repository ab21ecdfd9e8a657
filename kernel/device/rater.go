package device

import "strings"

// Tier is the rendering budget derived from category and capabilities
type Tier string

const (
	TierLow     Tier = "low"
	TierMedium  Tier = "medium"
	TierHigh    Tier = "high"
	TierUnknown Tier = "unknown"
)

func (t Tier) String() string {
	return string(t)
}

// DefaultHighEndGPUMarkers are lower-cased renderer substrings treated as
// discrete-class GPUs. Unlisted GPUs rate medium on desktop.
var DefaultHighEndGPUMarkers = []string{"rtx", "geforce gtx 1", "radeon rx", "apple m"}

// Rater maps (category, record) to a tier
type Rater struct {
	highEndGPU []string
}

// NewRater creates a rater using markers, or DefaultHighEndGPUMarkers when none are given
func NewRater(markers ...string) *Rater {
	if len(markers) == 0 {
		markers = DefaultHighEndGPUMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &Rater{highEndGPU: lowered}
}

// Rate returns the performance tier
func (r *Rater) Rate(category Category, record Record) Tier {
	switch {
	case category.IsVR():
		return TierHigh
	case category == CategoryMobile:
		return TierLow
	case category == CategoryTablet:
		return TierMedium
	case category == CategoryDesktop:
		if r.IsHighEndGPU(record.GPU) {
			return TierHigh
		}
		return TierMedium
	default:
		return TierUnknown
	}
}

// IsHighEndGPU reports whether the GPU descriptor contains a high-end marker
func (r *Rater) IsHighEndGPU(descriptor string) bool {
	gpu := strings.ToLower(descriptor)
	for _, marker := range r.highEndGPU {
		if strings.Contains(gpu, marker) {
			return true
		}
	}
	return false
}

var defaultRater = NewRater()

// Rate rates with the default GPU markers
func Rate(category Category, record Record) Tier {
	return defaultRater.Rate(category, record)
}
