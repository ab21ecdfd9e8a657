package device_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *utils.Logger {
	return utils.NewLogger(utils.LoggerConfig{Level: utils.DEBUG, Output: buf})
}

// desktopEnv has every signal available
func desktopEnv() device.StaticEnvironment {
	return device.StaticEnvironment{
		Width:          1920,
		Height:         1080,
		PixelRatio:     1,
		Agent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0",
		XRSystem:       device.StaticXR{},
		GPU:            "ANGLE (NVIDIA GeForce RTX 3080)",
		HeapLimit:      4096 * 1024 * 1024,
		DeviceMemoryGB: 8,
		Cores:          16,
	}
}

func TestProber_AllSignalsAvailable(t *testing.T) {
	var buf bytes.Buffer
	p := device.NewProber(testLogger(&buf))

	res := p.Probe(context.Background(), desktopEnv())
	r := res.Record

	assert.Equal(t, device.ScreenLarge, r.ScreenSize)
	assert.Equal(t, 1920, r.ScreenWidth)
	assert.Equal(t, 1080, r.ScreenHeight)
	assert.False(t, r.IsTouchDevice)
	assert.True(t, r.XRAPIAvailable)
	assert.False(t, r.HasVRSession)
	assert.Equal(t, "ANGLE (NVIDIA GeForce RTX 3080)", r.GPU)
	assert.Equal(t, "~4096MB available", r.Memory)
	assert.Equal(t, "16 cores", r.Cores)
	assert.Equal(t, "Available", r.WebXRSupport())
	assert.Empty(t, res.Fallbacks())
	assert.NotContains(t, buf.String(), "WARN")
}

func TestProber_ScreenBreakpoints(t *testing.T) {
	cases := []struct {
		width int
		want  device.ScreenSize
	}{
		{0, device.ScreenSmall},
		{767, device.ScreenSmall},
		{768, device.ScreenMedium},
		{1023, device.ScreenMedium},
		{1024, device.ScreenLarge},
		{3840, device.ScreenLarge},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, device.ClassifyScreenWidth(tc.width), "width %d", tc.width)
	}
}

func TestProber_TouchFromEitherSignal(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))

	env := desktopEnv()
	env.TouchStart = true
	assert.True(t, p.Probe(context.Background(), env).Record.IsTouchDevice)

	env = desktopEnv()
	env.TouchPoints = 5
	assert.True(t, p.Probe(context.Background(), env).Record.IsTouchDevice)
}

func TestProber_NoXRAPI(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.XRSystem = nil

	res := p.Probe(context.Background(), env)
	assert.False(t, res.Record.XRAPIAvailable)
	assert.False(t, res.Record.HasVRSession)
	assert.False(t, res.Record.HasARSession)
	assert.Equal(t, device.FallbackNotAvailable, res.XR.Fallback)
	assert.Equal(t, "Not Available", res.Record.WebXRSupport())
}

func TestProber_XRQueryFailure(t *testing.T) {
	var buf bytes.Buffer
	p := device.NewProber(testLogger(&buf))
	env := desktopEnv()
	env.XRSystem = device.StaticXR{VR: true, ARErr: errors.New("security error")}

	res := p.Probe(context.Background(), env)
	assert.True(t, res.Record.XRAPIAvailable)
	assert.False(t, res.Record.HasVRSession)
	assert.False(t, res.Record.HasARSession)
	assert.Equal(t, device.FallbackFailed, res.XR.Fallback)
	require.Error(t, res.XR.Err)
	assert.Contains(t, buf.String(), "WebXR detection failed")
}

func TestProber_XRCancelled(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.XRSystem = device.StaticXR{VR: true, AR: true}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Probe(ctx, env)
	assert.False(t, res.Record.HasVRSession)
	assert.ErrorIs(t, res.XR.Err, context.Canceled)
}

type blockingXR struct{}

func (blockingXR) IsSessionSupported(ctx context.Context, _ device.SessionMode) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func TestProber_XRDeadline(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.XRSystem = blockingXR{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := p.Probe(ctx, env)
	assert.Equal(t, device.FallbackFailed, res.XR.Fallback)
	assert.ErrorIs(t, res.XR.Err, context.DeadlineExceeded)
}

type panickingXR struct{}

func (panickingXR) IsSessionSupported(context.Context, device.SessionMode) (bool, error) {
	panic("bridge gone")
}

func TestProber_XRPanicBecomesFallback(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.XRSystem = panickingXR{}

	res := p.Probe(context.Background(), env)
	assert.Equal(t, device.FallbackFailed, res.XR.Fallback)
	assert.Contains(t, res.XR.Err.Error(), "bridge gone")
}

func TestProber_GPUFallbacks(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))

	cases := []struct {
		name     string
		gpu      string
		err      error
		want     string
		fallback device.FallbackReason
	}{
		{"webgl missing", "", device.ErrWebGLUnsupported, device.GPUWebGLUnsupported, device.FallbackUnsupported},
		{"no renderer", "", device.ErrUnavailable, device.GPUNotAvailable, device.FallbackNotAvailable},
		{"empty renderer", "  ", nil, device.GPUNotAvailable, device.FallbackNotAvailable},
		{"read error", "", errors.New("context lost"), device.GPUDetectionFailed, device.FallbackFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := desktopEnv()
			env.GPU, env.GPUErr = tc.gpu, tc.err
			res := p.Probe(context.Background(), env)
			assert.Equal(t, tc.want, res.Record.GPU)
			assert.Equal(t, tc.fallback, res.GPU.Fallback)
		})
	}
}

func TestProber_MemoryFallbackChain(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))

	env := desktopEnv()
	env.HeapErr = device.ErrUnavailable
	assert.Equal(t, "8GB", p.Probe(context.Background(), env).Record.Memory)

	env.DeviceMemoryGB = 0.5
	assert.Equal(t, "0.5GB", p.Probe(context.Background(), env).Record.Memory)

	env.DeviceMemErr = device.ErrUnavailable
	res := p.Probe(context.Background(), env)
	assert.Equal(t, device.MemoryNotAvailable, res.Record.Memory)
	assert.Equal(t, device.FallbackNotAvailable, res.Fallbacks()["memory"])

	env.HeapErr = errors.New("boom")
	assert.Equal(t, device.MemoryDetectionFailed, p.Probe(context.Background(), env).Record.Memory)
}

func TestProber_CoresFallbacks(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))

	env := desktopEnv()
	env.CoresErr = device.ErrUnavailable
	assert.Equal(t, device.CoresNotAvailable, p.Probe(context.Background(), env).Record.Cores)

	env.CoresErr = errors.New("denied")
	assert.Equal(t, device.CoresDetectionFailed, p.Probe(context.Background(), env).Record.Cores)
}

func TestProber_PixelRatioDefaultsToOne(t *testing.T) {
	p := device.NewProber(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.PixelRatio = 0
	assert.Equal(t, 1.0, p.Probe(context.Background(), env).Record.PixelRatio)
}
