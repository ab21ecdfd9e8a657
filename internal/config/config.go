package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nmxmxh/xrscene/kernel/device"
)

// FileName is the optional configuration file looked up in the config directory
const FileName = "xrscene"

// EnvPrefix prefixes environment overrides, e.g. XRSCENE_DEVICE_PRESET
const EnvPrefix = "XRSCENE"

// PreviewConfig holds the preview window settings
type PreviewConfig struct {
	Width  int
	Height int
	Title  string
	Debug  bool
	TPS    int
}

// ProbeConfig holds the probe CLI settings
type ProbeConfig struct {
	Format   string
	Watch    time.Duration
	Snapshot string
}

// Config is the resolved native configuration
type Config struct {
	LogLevel   string
	Preset     string
	Device     device.NativeOptions
	XRTimeout  time.Duration
	GPUMarkers []string
	Preview    PreviewConfig
	Probe      ProbeConfig
}

// Presets are simulated hosts a desktop build can pretend to be
var Presets = map[string]device.NativeOptions{
	"desktop": device.DefaultNativeOptions(),
	"quest": {
		ScreenWidth:    1832,
		ScreenHeight:   1920,
		PixelRatio:     1,
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64; Quest 3) AppleWebKit/537.36 (KHTML, like Gecko) OculusBrowser/33.0 Chrome/126.0 VR Safari/537.36",
		XREnabled:      true,
		VRSupported:    true,
		ARSupported:    true,
		GPURenderer:    "Adreno (TM) 740",
		DeviceMemoryGB: 8,
	},
	"vision-pro": {
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		PixelRatio:     2,
		UserAgent:      "Mozilla/5.0 (visionOS 2.0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/2.0 Safari/605.1.15",
		XREnabled:      true,
		VRSupported:    true,
		GPURenderer:    "Apple GPU",
		DeviceMemoryGB: 16,
	},
	"pc-vr": {
		ScreenWidth:    2560,
		ScreenHeight:   1440,
		PixelRatio:     1,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
		XREnabled:      true,
		VRSupported:    true,
		GPURenderer:    "ANGLE (NVIDIA, NVIDIA GeForce RTX 4080 Direct3D11 vs_5_0 ps_5_0)",
		DeviceMemoryGB: 8,
	},
	"phone": {
		ScreenWidth:    390,
		ScreenHeight:   844,
		PixelRatio:     3,
		UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		TouchStart:     true,
		MaxTouchPoints: 5,
		GPURenderer:    "Apple GPU",
	},
	"tablet": {
		ScreenWidth:    820,
		ScreenHeight:   1180,
		PixelRatio:     2,
		UserAgent:      "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		TouchStart:     true,
		MaxTouchPoints: 5,
		GPURenderer:    "Apple GPU",
	},
}

// PresetNames returns the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load sets defaults, binds XRSCENE_* environment variables and reads
// xrscene.json from configDir when present. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("device.preset", "desktop")
	viper.SetDefault("device.xrTimeout", "3s")
	viper.SetDefault("device.gpuMarkers", []string{})

	viper.SetDefault("preview.width", 960)
	viper.SetDefault("preview.height", 600)
	viper.SetDefault("preview.title", "xrscene preview")
	viper.SetDefault("preview.debug", true)
	viper.SetDefault("preview.tps", 60)

	viper.SetDefault("probe.format", "text")
	viper.SetDefault("probe.watch", "0s")
	viper.SetDefault("probe.snapshot", "")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// deviceOverrides are the keys that replace preset fields when set
var deviceOverrides = []struct {
	key   string
	apply func(*device.NativeOptions)
}{
	{"device.screenWidth", func(o *device.NativeOptions) { o.ScreenWidth = viper.GetInt("device.screenWidth") }},
	{"device.screenHeight", func(o *device.NativeOptions) { o.ScreenHeight = viper.GetInt("device.screenHeight") }},
	{"device.pixelRatio", func(o *device.NativeOptions) { o.PixelRatio = viper.GetFloat64("device.pixelRatio") }},
	{"device.userAgent", func(o *device.NativeOptions) { o.UserAgent = viper.GetString("device.userAgent") }},
	{"device.touchStart", func(o *device.NativeOptions) { o.TouchStart = viper.GetBool("device.touchStart") }},
	{"device.maxTouchPoints", func(o *device.NativeOptions) { o.MaxTouchPoints = viper.GetInt("device.maxTouchPoints") }},
	{"device.xrEnabled", func(o *device.NativeOptions) { o.XREnabled = viper.GetBool("device.xrEnabled") }},
	{"device.vrSupported", func(o *device.NativeOptions) { o.VRSupported = viper.GetBool("device.vrSupported") }},
	{"device.arSupported", func(o *device.NativeOptions) { o.ARSupported = viper.GetBool("device.arSupported") }},
	{"device.gpuRenderer", func(o *device.NativeOptions) { o.GPURenderer = viper.GetString("device.gpuRenderer") }},
	{"device.deviceMemoryGB", func(o *device.NativeOptions) { o.DeviceMemoryGB = viper.GetFloat64("device.deviceMemoryGB") }},
}

// Get resolves the loaded configuration. Device fields start from the
// selected preset and are replaced by any explicitly set device.* key.
func Get() (Config, error) {
	preset := strings.ToLower(strings.TrimSpace(viper.GetString("device.preset")))
	base, ok := Presets[preset]
	if !ok {
		return Config{}, fmt.Errorf("unknown device preset %q (want one of %s)", preset, strings.Join(PresetNames(), ", "))
	}

	opts := base
	for _, o := range deviceOverrides {
		if viper.IsSet(o.key) {
			o.apply(&opts)
		}
	}

	return Config{
		LogLevel:   viper.GetString("logLevel"),
		Preset:     preset,
		Device:     opts,
		XRTimeout:  viper.GetDuration("device.xrTimeout"),
		GPUMarkers: viper.GetStringSlice("device.gpuMarkers"),
		Preview: PreviewConfig{
			Width:  viper.GetInt("preview.width"),
			Height: viper.GetInt("preview.height"),
			Title:  viper.GetString("preview.title"),
			Debug:  viper.GetBool("preview.debug"),
			TPS:    viper.GetInt("preview.tps"),
		},
		Probe: ProbeConfig{
			Format:   viper.GetString("probe.format"),
			Watch:    viper.GetDuration("probe.watch"),
			Snapshot: viper.GetString("probe.snapshot"),
		},
	}, nil
}

// Set overrides a key for the rest of the process, e.g. from a command line flag
func Set(key string, value any) {
	viper.Set(key, value)
}
