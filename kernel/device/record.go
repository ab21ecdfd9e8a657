package device

// ScreenSize is the coarse viewport width class
type ScreenSize string

const (
	ScreenSmall  ScreenSize = "small"
	ScreenMedium ScreenSize = "medium"
	ScreenLarge  ScreenSize = "large"
)

// Viewport width breakpoints (CSS pixels)
const (
	SmallScreenMaxWidth  = 768
	MediumScreenMaxWidth = 1024
)

// ClassifyScreenWidth maps a viewport width to its size class
func ClassifyScreenWidth(width int) ScreenSize {
	switch {
	case width < SmallScreenMaxWidth:
		return ScreenSmall
	case width < MediumScreenMaxWidth:
		return ScreenMedium
	default:
		return ScreenLarge
	}
}

// Record is the immutable capability snapshot taken once per session.
// Classification and rating read it and nothing else.
type Record struct {
	ScreenSize     ScreenSize
	ScreenWidth    int
	ScreenHeight   int
	IsTouchDevice  bool
	HasVRSession   bool
	HasARSession   bool
	XRAPIAvailable bool
	GPU            string
	Memory         string
	Cores          string
	UserAgent      string
	PixelRatio     float64
}

// WebXRSupport returns the display string for XR API presence
func (r Record) WebXRSupport() string {
	if r.XRAPIAvailable {
		return "Available"
	}
	return "Not Available"
}

// FallbackReason explains why a Detection carries a default instead of a probed value
type FallbackReason string

const (
	FallbackNone         FallbackReason = ""
	FallbackNotAvailable FallbackReason = "not-available"
	FallbackUnsupported  FallbackReason = "unsupported"
	FallbackFailed       FallbackReason = "failed"
)

// Detection holds either a probed value or the documented default together
// with the reason the default was used. Err is set only for FallbackFailed
// and FallbackUnsupported.
type Detection[T any] struct {
	Value    T
	Fallback FallbackReason
	Err      error
}

// OK reports whether the value was actually detected
func (d Detection[T]) OK() bool {
	return d.Fallback == FallbackNone
}

func detected[T any](v T) Detection[T] {
	return Detection[T]{Value: v}
}

func fallback[T any](v T, reason FallbackReason, err error) Detection[T] {
	return Detection[T]{Value: v, Fallback: reason, Err: err}
}

// XRSupport is the outcome of the immersive session queries
type XRSupport struct {
	VR bool
	AR bool
}

// ProbeResult is the record plus the per-signal detection outcomes that produced it
type ProbeResult struct {
	Record Record
	XR     Detection[XRSupport]
	GPU    Detection[string]
	Memory Detection[string]
	Cores  Detection[string]
}

// Fallbacks lists the signals that resolved to a default, keyed by signal name
func (p ProbeResult) Fallbacks() map[string]FallbackReason {
	out := make(map[string]FallbackReason)
	if !p.XR.OK() {
		out["xr"] = p.XR.Fallback
	}
	if !p.GPU.OK() {
		out["gpu"] = p.GPU.Fallback
	}
	if !p.Memory.OK() {
		out["memory"] = p.Memory.Fallback
	}
	if !p.Cores.OK() {
		out["cores"] = p.Cores.Fallback
	}
	return out
}
