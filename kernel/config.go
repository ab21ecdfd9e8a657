//go:build js && wasm
// +build js,wasm

package main

import (
	"syscall/js"
	"time"

	"github.com/nmxmxh/xrscene/kernel/utils"
)

// SceneConfig is read from window.__XR_SCENE_CONFIG__ before boot
type SceneConfig struct {
	LogLevel        utils.LogLevel
	Debug           bool
	XRTimeout       time.Duration
	ShutdownTimeout time.Duration
	GPUMarkers      []string
}

func loadSceneConfig() SceneConfig {
	config := SceneConfig{
		LogLevel:        utils.INFO,
		Debug:           true,
		XRTimeout:       3 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}

	raw := js.Global().Get("__XR_SCENE_CONFIG__")
	if raw.IsUndefined() || raw.IsNull() {
		return config
	}

	if v := raw.Get("logLevel"); v.Type() == js.TypeString {
		config.LogLevel = utils.ParseLevel(v.String())
	}
	if v := raw.Get("debug"); v.Type() == js.TypeBoolean {
		config.Debug = v.Bool()
	}
	if v := raw.Get("xrTimeoutMs"); v.Type() == js.TypeNumber {
		config.XRTimeout = time.Duration(v.Int()) * time.Millisecond
	}
	if v := raw.Get("shutdownTimeoutMs"); v.Type() == js.TypeNumber {
		config.ShutdownTimeout = time.Duration(v.Int()) * time.Millisecond
	}
	if v := raw.Get("gpuMarkers"); v.Type() == js.TypeObject {
		config.GPUMarkers = readStringSlice(v)
	}

	utils.Info("Scene config loaded",
		utils.Bool("debug", config.Debug),
		utils.Duration("xr_timeout", config.XRTimeout),
		utils.Any("gpu_markers", config.GPUMarkers),
	)
	return config
}

func readStringSlice(val js.Value) []string {
	if val.IsUndefined() || val.IsNull() {
		return nil
	}
	length := val.Length()
	out := make([]string, 0, length)
	for i := 0; i < length; i++ {
		item := val.Index(i)
		if item.Type() == js.TypeString {
			out = append(out, item.String())
		}
	}
	return out
}
