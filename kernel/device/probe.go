package device

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nmxmxh/xrscene/kernel/utils"
)

// Display strings used when a signal cannot be read
const (
	GPUWebGLUnsupported = "WebGL not supported"
	GPUNotAvailable     = "GPU info not available"
	GPUDetectionFailed  = "GPU detection failed"

	MemoryNotAvailable    = "Memory info not available"
	MemoryDetectionFailed = "Memory detection failed"

	CoresNotAvailable    = "CPU info not available"
	CoresDetectionFailed = "CPU detection failed"
)

// Prober reads an Environment into a ProbeResult. It never fails: every
// signal that cannot be read resolves to its documented default and a warning.
type Prober struct {
	logger *utils.Logger
}

// NewProber creates a prober logging through logger (the global logger when nil)
func NewProber(logger *utils.Logger) *Prober {
	return &Prober{logger: utils.OrGlobal(logger).Named("device")}
}

// Probe takes the capability snapshot. The XR queries are the only blocking
// step; when env has no XR API they are skipped entirely.
func (p *Prober) Probe(ctx context.Context, env Environment) ProbeResult {
	width := readInt(env.InnerWidth)
	pixelRatio := readFloat(env.DevicePixelRatio)
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) {
		pixelRatio = 1
	}

	xr := p.probeXR(ctx, env)

	result := ProbeResult{
		XR:     xr,
		GPU:    p.probeGPU(env),
		Memory: p.probeMemory(env),
		Cores:  p.probeCores(env),
	}

	result.Record = Record{
		ScreenSize:     ClassifyScreenWidth(width),
		ScreenWidth:    width,
		ScreenHeight:   readInt(env.InnerHeight),
		IsTouchDevice:  readBool(env.HasTouchStart) || readInt(env.MaxTouchPoints) > 0,
		HasVRSession:   xr.Value.VR,
		HasARSession:   xr.Value.AR,
		XRAPIAvailable: xr.Fallback != FallbackNotAvailable,
		GPU:            result.GPU.Value,
		Memory:         result.Memory.Value,
		Cores:          result.Cores.Value,
		UserAgent:      readString(env.UserAgent),
		PixelRatio:     pixelRatio,
	}

	return result
}

func (p *Prober) probeXR(ctx context.Context, env Environment) Detection[XRSupport] {
	xr, ok := readXR(env)
	if !ok {
		return fallback(XRSupport{}, FallbackNotAvailable, nil)
	}

	vr, err := querySession(ctx, xr, SessionImmersiveVR)
	var ar bool
	if err == nil {
		ar, err = querySession(ctx, xr, SessionImmersiveAR)
	}
	if err != nil {
		// Both flags fall back together, even if the VR query had succeeded.
		p.logger.Warn("WebXR detection failed", utils.Err(err))
		return fallback(XRSupport{}, FallbackFailed, err)
	}

	return detected(XRSupport{VR: vr, AR: ar})
}

func (p *Prober) probeGPU(env Environment) Detection[string] {
	name, err := guard("gpu", env.GPURenderer)
	switch {
	case errors.Is(err, ErrWebGLUnsupported):
		return fallback(GPUWebGLUnsupported, FallbackUnsupported, err)
	case errors.Is(err, ErrUnavailable):
		return fallback(GPUNotAvailable, FallbackNotAvailable, nil)
	case err != nil:
		p.logger.Warn("GPU detection failed", utils.Err(err))
		return fallback(GPUDetectionFailed, FallbackFailed, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fallback(GPUNotAvailable, FallbackNotAvailable, nil)
	}
	return detected(name)
}

func (p *Prober) probeMemory(env Environment) Detection[string] {
	limit, err := guard("memory", env.HeapSizeLimit)
	if err == nil {
		mb := int64(math.Round(float64(limit) / 1024 / 1024))
		return detected(fmt.Sprintf("~%dMB available", mb))
	}
	if !errors.Is(err, ErrUnavailable) {
		p.logger.Warn("Memory detection failed", utils.Err(err))
		return fallback(MemoryDetectionFailed, FallbackFailed, err)
	}

	gb, err := guard("memory", env.DeviceMemory)
	switch {
	case err == nil:
		return detected(strconv.FormatFloat(gb, 'f', -1, 64) + "GB")
	case errors.Is(err, ErrUnavailable):
		return fallback(MemoryNotAvailable, FallbackNotAvailable, nil)
	default:
		p.logger.Warn("Memory detection failed", utils.Err(err))
		return fallback(MemoryDetectionFailed, FallbackFailed, err)
	}
}

func (p *Prober) probeCores(env Environment) Detection[string] {
	cores, err := guard("cores", env.HardwareConcurrency)
	switch {
	case err == nil:
		return detected(fmt.Sprintf("%d cores", cores))
	case errors.Is(err, ErrUnavailable):
		return fallback(CoresNotAvailable, FallbackNotAvailable, nil)
	default:
		p.logger.Warn("CPU detection failed", utils.Err(err))
		return fallback(CoresDetectionFailed, FallbackFailed, err)
	}
}

func querySession(ctx context.Context, xr XRSystem, mode SessionMode) (supported bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer func() {
		if r := recover(); r != nil {
			supported, err = false, utils.RecoverError(r, string(mode))
		}
	}()
	return xr.IsSessionSupported(ctx, mode)
}

// guard runs a signal read, turning a panic from the host bridge into an error.
func guard[T any](name string, read func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, utils.RecoverError(r, name)
		}
	}()
	return read()
}

func readXR(env Environment) (xr XRSystem, ok bool) {
	defer func() {
		if recover() != nil {
			xr, ok = nil, false
		}
	}()
	xr, ok = env.XR()
	return xr, ok && xr != nil
}

func readInt(read func() int) int {
	v, _ := guard("int", func() (int, error) { return read(), nil })
	return v
}

func readFloat(read func() float64) float64 {
	v, _ := guard("float", func() (float64, error) { return read(), nil })
	return v
}

func readBool(read func() bool) bool {
	v, _ := guard("bool", func() (bool, error) { return read(), nil })
	return v
}

func readString(read func() string) string {
	v, _ := guard("string", func() (string, error) { return read(), nil })
	return v
}
