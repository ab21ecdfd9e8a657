package device_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_SmallTouchPhone(t *testing.T) {
	var buf bytes.Buffer
	d := device.NewDetector(testLogger(&buf))

	env := device.StaticEnvironment{
		Width:        390,
		Height:       844,
		PixelRatio:   3,
		TouchStart:   true,
		TouchPoints:  5,
		Agent:        "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		GPU:          "Apple GPU",
		HeapErr:      device.ErrUnavailable,
		DeviceMemErr: device.ErrUnavailable,
		CoresErr:     device.ErrUnavailable,
	}

	p := d.Detect(context.Background(), env)
	require.NotNil(t, p)
	assert.Equal(t, device.CategoryMobile, p.Category)
	assert.Equal(t, device.TierLow, p.Tier)
	assert.Equal(t, "touch-small", p.MatchedRule)
	assert.True(t, p.IsMobile())
	assert.False(t, p.IsVR())
	assert.False(t, p.Record.XRAPIAvailable)
	assert.Equal(t, device.MemoryNotAvailable, p.Record.Memory)
	assert.NotEmpty(t, p.SessionID)
	assert.False(t, p.DetectedAt.IsZero())

	out := buf.String()
	assert.Contains(t, out, "Detecting device...")
	assert.Contains(t, out, "Device detected")
	assert.Contains(t, out, `category="mobile"`)
}

func TestDetector_QuestHeadset(t *testing.T) {
	d := device.NewDetector(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.Agent = "Mozilla/5.0 (X11; Linux x86_64; Quest 2) OculusBrowser/28.0"
	env.XRSystem = device.StaticXR{VR: true, AR: true}

	p := d.Detect(context.Background(), env)
	assert.Equal(t, device.CategoryMetaQuest, p.Category)
	assert.Equal(t, device.TierHigh, p.Tier)
	assert.True(t, p.Record.HasVRSession)
	assert.True(t, p.Record.HasARSession)
	assert.Equal(t, "🥽", p.Emoji())
}

func TestDetector_DesktopIntegratedGPU(t *testing.T) {
	d := device.NewDetector(testLogger(&bytes.Buffer{}))
	env := desktopEnv()
	env.GPU = "ANGLE (Intel, Intel(R) UHD Graphics 620 Direct3D11)"

	p := d.Detect(context.Background(), env)
	assert.True(t, p.IsDesktop())
	assert.Equal(t, device.TierMedium, p.Tier)
	assert.Equal(t, device.FallbackRule, p.MatchedRule)
}

func TestDetector_Options(t *testing.T) {
	d := device.NewDetector(testLogger(&bytes.Buffer{}),
		device.WithRater(device.NewRater("uhd graphics")),
		device.WithClassifier(nil),
	)
	env := desktopEnv()
	env.GPU = "Intel(R) UHD Graphics 620"

	p := d.Detect(context.Background(), env)
	assert.Equal(t, device.CategoryDesktop, p.Category)
	assert.Equal(t, device.TierHigh, p.Tier)
}

func TestProfile_NilSafe(t *testing.T) {
	var p *device.Profile
	assert.False(t, p.IsVR())
	assert.False(t, p.IsMobile())
	assert.False(t, p.IsDesktop())
	assert.Equal(t, "❓", p.Emoji())
}
