package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nmxmxh/xrscene/internal/report"
	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabletProfile() *device.Profile {
	return &device.Profile{
		ProbeResult: device.ProbeResult{
			Record: device.Record{
				ScreenSize:    device.ScreenMedium,
				ScreenWidth:   820,
				ScreenHeight:  1180,
				IsTouchDevice: true,
				GPU:           "GPU info not available",
				Memory:        "4GB",
				Cores:         "8 cores",
				UserAgent:     "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)",
				PixelRatio:    2,
			},
			GPU: device.Detection[string]{Value: "GPU info not available", Fallback: device.FallbackNotAvailable},
		},
		SessionID:   "abc123",
		Category:    device.CategoryTablet,
		Tier:        device.TierMedium,
		MatchedRule: "touch-medium",
		DetectedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want report.Format
		err  bool
	}{
		{"", report.FormatText, false},
		{"text", report.FormatText, false},
		{"JSON", report.FormatJSON, false},
		{" proto ", report.FormatProto, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := report.ParseFormat(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_JSONRoundTrip(t *testing.T) {
	settings := render.Resolve(device.TierMedium, device.CategoryTablet, 2)
	data, err := report.Encode(report.FormatJSON, tabletProfile(), settings)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tablet"`)

	got, err := report.Decode(report.FormatJSON, data)
	require.NoError(t, err)

	profile := got["profile"].(map[string]any)
	assert.Equal(t, "tablet", profile["category"])
	assert.Equal(t, "medium", profile["tier"])
	assert.Equal(t, "📱", profile["emoji"])
	assert.Equal(t, "2026-03-01T12:00:00Z", profile["detectedAt"])
	assert.Equal(t, map[string]any{"gpu": "not-available"}, profile["fallbacks"])

	record := profile["record"].(map[string]any)
	assert.Equal(t, 820.0, record["screenWidth"])
	assert.Equal(t, true, record["isTouchDevice"])
	assert.Equal(t, "Not Available", record["webXRSupport"])

	s := got["settings"].(map[string]any)
	assert.Equal(t, 1.5, s["pixelRatio"])
	assert.Equal(t, false, s["shadows"], "medium shadows are desktop-only")
	assert.Equal(t, "#000011", s["background"])
	assert.Equal(t, map[string]any{"x": 2.0, "y": 2.0, "z": 1.0}, s["directionalPosition"])
}

func TestEncode_ProtoRoundTrip(t *testing.T) {
	settings := render.Resolve(device.TierHigh, device.CategoryDesktop, 1)
	data, err := report.Encode(report.FormatProto, tabletProfile(), settings)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	again, err := report.Encode(report.FormatProto, tabletProfile(), settings)
	require.NoError(t, err)
	assert.Equal(t, data, again, "deterministic encoding")

	got, err := report.Decode(report.FormatProto, data)
	require.NoError(t, err)
	assert.Equal(t, 2048.0, got["settings"].(map[string]any)["shadowMapSize"])
}

func TestDecode_TextUnsupported(t *testing.T) {
	_, err := report.Decode(report.FormatText, []byte("Device"))
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	require.NoError(t, report.WriteText(&b, tabletProfile(), render.Resolve(device.TierMedium, device.CategoryTablet, 2)))
	out := b.String()

	assert.Contains(t, out, "📱 tablet")
	assert.Contains(t, out, "touch-medium")
	assert.Contains(t, out, "medium (820x1180 @2x)")
	assert.Contains(t, out, "gpu=not-available")
	assert.Contains(t, out, "#000011")
}

func TestWriteText_NoProfile(t *testing.T) {
	var b strings.Builder
	require.NoError(t, report.WriteText(&b, nil, render.Resolve(device.TierLow, device.CategoryUnknown, 1)))
	assert.Contains(t, b.String(), "not detected")

	m := report.ProfileMap(nil)
	assert.Equal(t, "unknown", m["category"])
}
