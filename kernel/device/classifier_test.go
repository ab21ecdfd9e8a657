package device_test

import (
	"testing"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_UserAgentPrecedence(t *testing.T) {
	// UA markers win over capability and touch rules
	r := device.Record{
		UserAgent:     "Mozilla/5.0 (X11; Linux x86_64; Quest 3) OculusBrowser/30.0",
		ScreenSize:    device.ScreenSmall,
		IsTouchDevice: true,
		HasVRSession:  true,
	}
	category, rule := device.NewClassifier().Explain(r)
	assert.Equal(t, device.CategoryMetaQuest, category)
	assert.Equal(t, "ua-meta-quest", rule)
}

func TestClassifier_Rules(t *testing.T) {
	cases := []struct {
		name   string
		record device.Record
		want   device.Category
	}{
		{"pico", device.Record{UserAgent: "Mozilla/5.0 PicoBrowser/3.3"}, device.CategoryPicoVR},
		{"vive", device.Record{UserAgent: "Mozilla/5.0 Vive Browser"}, device.CategorySteamVR},
		{"steamvr", device.Record{UserAgent: "SteamVR/2.0"}, device.CategorySteamVR},
		{"vision pro", device.Record{UserAgent: "Mozilla/5.0 (visionOS 1.0)"}, device.CategoryAppleVisionPro},
		{"pc vr", device.Record{HasVRSession: true, ScreenSize: device.ScreenLarge}, device.CategoryPCVR},
		{"vr but touch", device.Record{HasVRSession: true, ScreenSize: device.ScreenLarge, IsTouchDevice: true}, device.CategoryDesktop},
		{"vr small screen", device.Record{HasVRSession: true, ScreenSize: device.ScreenMedium}, device.CategoryDesktop},
		{"phone", device.Record{IsTouchDevice: true, ScreenSize: device.ScreenSmall}, device.CategoryMobile},
		{"tablet", device.Record{IsTouchDevice: true, ScreenSize: device.ScreenMedium}, device.CategoryTablet},
		{"large touch", device.Record{IsTouchDevice: true, ScreenSize: device.ScreenLarge}, device.CategoryDesktop},
		{"small no touch", device.Record{ScreenSize: device.ScreenSmall}, device.CategoryDesktop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, device.Classify(tc.record))
		})
	}
}

func TestClassifier_DefaultRule(t *testing.T) {
	category, rule := device.NewClassifier().Explain(device.Record{ScreenSize: device.ScreenLarge})
	assert.Equal(t, device.CategoryDesktop, category)
	assert.Equal(t, device.FallbackRule, rule)
}

func TestClassifier_CustomRules(t *testing.T) {
	c := device.NewClassifier(device.Rule{
		Name:     "kiosk",
		Category: device.CategoryTablet,
		Match: func(ua string, _ device.Record) bool {
			return ua == "kiosk"
		},
	})
	assert.Equal(t, device.CategoryTablet, c.Classify(device.Record{UserAgent: "KIOSK"}))
	assert.Equal(t, device.CategoryDesktop, c.Classify(device.Record{UserAgent: "Quest"}))
}

func TestCategory_Family(t *testing.T) {
	for _, c := range device.Categories {
		switch c {
		case device.CategoryMetaQuest, device.CategoryPicoVR, device.CategorySteamVR,
			device.CategoryAppleVisionPro, device.CategoryPCVR:
			assert.True(t, c.IsVR(), c.String())
			assert.Equal(t, "🥽", c.Emoji())
		case device.CategoryMobile, device.CategoryTablet:
			assert.True(t, c.IsHandheld(), c.String())
			assert.Equal(t, "📱", c.Emoji())
		case device.CategoryDesktop:
			assert.Equal(t, "💻", c.Emoji())
		default:
			assert.False(t, c.IsVR())
			assert.Equal(t, "❓", c.Emoji())
		}
	}
}
