//go:build js && wasm
// +build js,wasm

package main

import (
	"runtime/debug"
	"syscall/js"
)

// Global singleton
var kernelInstance *Kernel

func main() {
	// 1. Create Kernel Instance
	kernelInstance = NewKernel()

	// 2. Export Functions
	api := js.Global().Get("Object").New()
	api.Set("ready", js.FuncOf(jsReady))
	api.Set("profile", js.FuncOf(jsProfile))
	api.Set("settings", js.FuncOf(jsSettings))
	api.Set("controls", js.FuncOf(jsControls))
	api.Set("attachScene", js.FuncOf(jsAttachScene))
	api.Set("frame", js.FuncOf(jsFrame))
	api.Set("onStats", js.FuncOf(jsOnStats))
	api.Set("handleKey", js.FuncOf(jsHandleKey))
	api.Set("debugLines", js.FuncOf(jsDebugLines))
	api.Set("getStats", js.FuncOf(jsGetKernelStats))

	// Settings API
	api.Set("setShadows", setter("Shadows"))
	api.Set("setAntialias", setter("Antialias"))
	api.Set("setWireframe", setter("Wireframe"))
	api.Set("setBackground", setter("Background"))
	api.Set("setAxesVisible", setter("Axes"))
	api.Set("setLightHelperVisible", setter("Light Helper"))
	api.Set("setShadowCameraVisible", setter("Shadow Camera"))
	api.Set("setAmbientIntensity", setter("Ambient Intensity"))
	api.Set("setDirectionalIntensity", setter("Directional Intensity"))
	api.Set("setDirectionalPosition", js.FuncOf(jsSetDirectionalPosition))

	api.Set("shutdown", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if kernelInstance != nil {
			kernelInstance.Shutdown()
		}
		return nil
	}))
	js.Global().Set("xrscene", api)

	// Keyboard + shutdown hooks (main thread only)
	window := js.Global().Get("window")
	if !window.IsUndefined() && !window.IsNull() {
		window.Call("addEventListener", "keydown", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if kernelInstance.panel != nil && len(args) > 0 {
				kernelInstance.panel.HandleKey(args[0].Get("key").String())
			}
			return nil
		}))
		window.Call("addEventListener", "beforeunload", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			kernelInstance.Shutdown()
			return nil
		}))
	}

	go func() {
		kernelInstance.Boot()
		// Reclaim memory after detection
		debug.FreeOSMemory()
	}()

	// Block Main Thread
	select {}
}
