package device

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the host exposes no API for the signal
	ErrUnavailable = errors.New("device: signal not available")
	// ErrWebGLUnsupported means no WebGL context could be created
	ErrWebGLUnsupported = errors.New("device: webgl not supported")
)

// SessionMode is an XR session type passed to IsSessionSupported
type SessionMode string

const (
	SessionImmersiveVR SessionMode = "immersive-vr"
	SessionImmersiveAR SessionMode = "immersive-ar"
)

// XRSystem answers immersive session support queries. Queries may block
// until the host resolves them and must honour ctx cancellation.
type XRSystem interface {
	IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error)
}

// Environment exposes the ambient signals read by the probe. Every signal is
// best-effort: implementations return ErrUnavailable when the host has no API
// for it and any other error when reading it failed.
type Environment interface {
	InnerWidth() int
	InnerHeight() int
	// DevicePixelRatio returns <= 0 when unknown
	DevicePixelRatio() float64
	HasTouchStart() bool
	MaxTouchPoints() int
	UserAgent() string
	// XR returns false when the host has no XR API at all
	XR() (XRSystem, bool)
	GPURenderer() (string, error)
	HeapSizeLimit() (int64, error)
	DeviceMemory() (float64, error)
	HardwareConcurrency() (int, error)
}

// StaticXR is an XRSystem with fixed answers
type StaticXR struct {
	VR    bool
	AR    bool
	Err   error // returned for every query when set
	ARErr error // returned for the AR query only
}

func (x StaticXR) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if x.Err != nil {
		return false, x.Err
	}
	switch mode {
	case SessionImmersiveVR:
		return x.VR, nil
	case SessionImmersiveAR:
		if x.ARErr != nil {
			return false, x.ARErr
		}
		return x.AR, nil
	default:
		return false, nil
	}
}

// StaticEnvironment is a value-typed Environment used for simulation and tests.
// Zero error fields mean "available"; set them to ErrUnavailable (or any error)
// to exercise the fallback paths.
type StaticEnvironment struct {
	Width          int
	Height         int
	PixelRatio     float64
	TouchStart     bool
	TouchPoints    int
	Agent          string
	XRSystem       XRSystem // nil means no XR API
	GPU            string
	GPUErr         error
	HeapLimit      int64
	HeapErr        error
	DeviceMemoryGB float64
	DeviceMemErr   error
	Cores          int
	CoresErr       error
}

func (e StaticEnvironment) InnerWidth() int           { return e.Width }
func (e StaticEnvironment) InnerHeight() int          { return e.Height }
func (e StaticEnvironment) DevicePixelRatio() float64 { return e.PixelRatio }
func (e StaticEnvironment) HasTouchStart() bool       { return e.TouchStart }
func (e StaticEnvironment) MaxTouchPoints() int       { return e.TouchPoints }
func (e StaticEnvironment) UserAgent() string         { return e.Agent }

func (e StaticEnvironment) XR() (XRSystem, bool) {
	return e.XRSystem, e.XRSystem != nil
}

func (e StaticEnvironment) GPURenderer() (string, error) {
	return e.GPU, e.GPUErr
}

func (e StaticEnvironment) HeapSizeLimit() (int64, error) {
	return e.HeapLimit, e.HeapErr
}

func (e StaticEnvironment) DeviceMemory() (float64, error) {
	return e.DeviceMemoryGB, e.DeviceMemErr
}

func (e StaticEnvironment) HardwareConcurrency() (int, error) {
	return e.Cores, e.CoresErr
}
