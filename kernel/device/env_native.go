//go:build !js || !wasm

package device

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/pbnjay/memory"

	"github.com/nmxmxh/xrscene/kernel/utils"
)

// NativeOptions describes the host a native process is rendering for. Values
// normally come from configuration so a desktop build can simulate headsets,
// phones and tablets.
type NativeOptions struct {
	ScreenWidth    int
	ScreenHeight   int
	PixelRatio     float64
	UserAgent      string
	TouchStart     bool
	MaxTouchPoints int
	XREnabled      bool
	VRSupported    bool
	ARSupported    bool
	// GPURenderer overrides adapter enumeration when non-empty
	GPURenderer    string
	// DeviceMemoryGB overrides the installed memory reported by the OS
	DeviceMemoryGB float64
}

// DefaultNativeOptions describes a plain desktop window
func DefaultNativeOptions() NativeOptions {
	return NativeOptions{
		ScreenWidth:  1920,
		ScreenHeight: 1080,
		PixelRatio:   1,
		UserAgent:    fmt.Sprintf("xrscene/native (%s; %s)", runtime.GOOS, runtime.GOARCH),
	}
}

// GPUDescriber returns the renderer string of the active graphics adapter
type GPUDescriber interface {
	Describe() (string, error)
}

// NativeEnvironment is the Environment of a native (non-browser) process
type NativeEnvironment struct {
	opts NativeOptions
	gpu  GPUDescriber
}

// NewNativeEnvironment creates an environment from opts. gpu may be nil, in
// which case the GPU signal reports ErrUnavailable unless opts overrides it.
func NewNativeEnvironment(opts NativeOptions, gpu GPUDescriber) *NativeEnvironment {
	return &NativeEnvironment{opts: opts, gpu: gpu}
}

// NewHostEnvironment creates an environment that enumerates the host GPU
func NewHostEnvironment(opts NativeOptions, logger *utils.Logger) *NativeEnvironment {
	return NewNativeEnvironment(opts, NewAdapterProbe(logger))
}

// SetScreenSize updates the simulated viewport, e.g. after a window resize
func (e *NativeEnvironment) SetScreenSize(width, height int) {
	e.opts.ScreenWidth = width
	e.opts.ScreenHeight = height
}

// Options returns a copy of the environment options
func (e *NativeEnvironment) Options() NativeOptions {
	return e.opts
}

func (e *NativeEnvironment) InnerWidth() int           { return e.opts.ScreenWidth }
func (e *NativeEnvironment) InnerHeight() int          { return e.opts.ScreenHeight }
func (e *NativeEnvironment) DevicePixelRatio() float64 { return e.opts.PixelRatio }
func (e *NativeEnvironment) HasTouchStart() bool       { return e.opts.TouchStart }
func (e *NativeEnvironment) MaxTouchPoints() int       { return e.opts.MaxTouchPoints }
func (e *NativeEnvironment) UserAgent() string         { return e.opts.UserAgent }

func (e *NativeEnvironment) XR() (XRSystem, bool) {
	if !e.opts.XREnabled {
		return nil, false
	}
	return StaticXR{VR: e.opts.VRSupported, AR: e.opts.ARSupported}, true
}

func (e *NativeEnvironment) GPURenderer() (string, error) {
	if name := strings.TrimSpace(e.opts.GPURenderer); name != "" {
		return name, nil
	}
	if e.gpu == nil {
		return "", ErrUnavailable
	}
	return e.gpu.Describe()
}

// HeapSizeLimit reports the Go soft memory limit when one is configured
// (GOMEMLIMIT or debug.SetMemoryLimit).
func (e *NativeEnvironment) HeapSizeLimit() (int64, error) {
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit == math.MaxInt64 {
		return 0, ErrUnavailable
	}
	return limit, nil
}

// DeviceMemory reports installed memory in whole gigabytes
func (e *NativeEnvironment) DeviceMemory() (float64, error) {
	if e.opts.DeviceMemoryGB > 0 {
		return e.opts.DeviceMemoryGB, nil
	}
	total := memory.TotalMemory()
	if total == 0 {
		return 0, ErrUnavailable
	}
	return math.Max(1, math.Round(float64(total)/(1<<30))), nil
}

// HardwareConcurrency reports logical processors, falling back to the
// scheduler's view when CPUID is unavailable.
func (e *NativeEnvironment) HardwareConcurrency() (int, error) {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n, nil
	}
	return runtime.NumCPU(), nil
}

// CPUBrand returns the processor brand string, empty when unknown
func (e *NativeEnvironment) CPUBrand() string {
	return strings.TrimSpace(cpuid.CPU.BrandName)
}
