//go:build js && wasm
// +build js,wasm

package main

import (
	"syscall/js"
	"time"

	"github.com/nmxmxh/xrscene/internal/report"
	xrdebug "github.com/nmxmxh/xrscene/kernel/debug"
	"github.com/nmxmxh/xrscene/kernel/render"
)

// notifyHost sends events to the JS environment
func (k *Kernel) notifyHost(event string, data map[string]interface{}) {
	payload := map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().UnixNano(),
		"data":      data,
	}

	js.Global().Call("dispatchEvent",
		js.Global().Get("CustomEvent").New("xrscene:kernel", map[string]interface{}{
			"detail": payload,
		}),
	)
}

// --- Scene object adapter ---

// jsTarget forwards settings changes to the page's scene object. Each apply
// method is optional on the JS side.
type jsTarget struct {
	obj js.Value
}

func (t jsTarget) call(method string, args ...interface{}) {
	if fn := t.obj.Get(method); fn.Type() == js.TypeFunction {
		t.obj.Call(method, args...)
	}
}

func (t jsTarget) ApplyShadows(enabled bool)      { t.call("applyShadows", enabled) }
func (t jsTarget) ApplyWireframe(enabled bool)    { t.call("applyWireframe", enabled) }
func (t jsTarget) ApplyBackground(c render.Color) { t.call("applyBackground", int(c), c.Hex()) }
func (t jsTarget) ApplyHelperVisibility(h render.Helper, visible bool) {
	t.call("applyHelperVisibility", h.String(), visible)
}
func (t jsTarget) ApplyAmbientIntensity(v float64)     { t.call("applyAmbientIntensity", v) }
func (t jsTarget) ApplyDirectionalIntensity(v float64) { t.call("applyDirectionalIntensity", v) }
func (t jsTarget) ApplyDirectionalPosition(p render.Vec3) {
	t.call("applyDirectionalPosition", p.X, p.Y, p.Z)
}

// jsRenderInfo reads three.js style renderer.info
type jsRenderInfo struct {
	info js.Value
}

func (r jsRenderInfo) RenderInfo() render.RenderInfo {
	var out render.RenderInfo
	if r.info.Type() != js.TypeObject {
		return out
	}
	if rv := r.info.Get("render"); rv.Type() == js.TypeObject {
		out.Calls = intField(rv, "calls")
		out.Triangles = intField(rv, "triangles")
	}
	if mv := r.info.Get("memory"); mv.Type() == js.TypeObject {
		out.Geometries = intField(mv, "geometries")
		out.Textures = intField(mv, "textures")
	}
	return out
}

func (r jsRenderInfo) ResetRenderInfo() {
	if r.info.Type() == js.TypeObject && r.info.Get("reset").Type() == js.TypeFunction {
		r.info.Call("reset")
	}
}

func intField(v js.Value, name string) int {
	if f := v.Get(name); f.Type() == js.TypeNumber {
		return f.Int()
	}
	return 0
}

// performance.memory is Chromium only
func jsHeapUsed() (uint64, bool) {
	mem := js.Global().Get("performance").Get("memory")
	if mem.Type() != js.TypeObject {
		return 0, false
	}
	used := mem.Get("usedJSHeapSize")
	if used.Type() != js.TypeNumber {
		return 0, false
	}
	return uint64(used.Float()), true
}

func toggleFullscreen() error {
	doc := js.Global().Get("document")
	if doc.Get("fullscreenElement").Truthy() {
		if doc.Get("exitFullscreen").Type() != js.TypeFunction {
			return xrdebug.ErrFullscreenUnavailable
		}
		doc.Call("exitFullscreen")
		return nil
	}
	el := doc.Get("documentElement")
	if el.Get("requestFullscreen").Type() != js.TypeFunction {
		return xrdebug.ErrFullscreenUnavailable
	}
	el.Call("requestFullscreen")
	return nil
}

// jsToGo converts a JS argument for debug.Control.Set
func jsToGo(v js.Value) interface{} {
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		return v.String()
	default:
		return nil
	}
}

// --- JS Exports ---

func jsProfile(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(report.ProfileMap(kernelInstance.configurator.Profile()))
}

func jsSettings(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(report.SettingsMap(kernelInstance.configurator.Settings()))
}

func jsControls(this js.Value, args []js.Value) interface{} {
	controls := xrdebug.SceneControls(kernelInstance.configurator)
	out := make([]interface{}, 0, len(controls))
	for _, c := range controls {
		entry := map[string]interface{}{
			"name":    c.Name,
			"kind":    c.Kind.String(),
			"display": c.Display(),
		}
		if c.Kind == xrdebug.KindSlider {
			entry["min"] = c.Min
			entry["max"] = c.Max
			entry["step"] = c.Step
		}
		out = append(out, entry)
	}
	return js.ValueOf(out)
}

// setter returns an export that routes its first argument through the named
// control.
func setter(name string) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return js.ValueOf(map[string]interface{}{"error": "missing argument: (value)"})
		}
		for _, c := range xrdebug.SceneControls(kernelInstance.configurator) {
			if c.Name == name {
				c.Set(jsToGo(args[0]))
				return js.ValueOf(c.Display())
			}
		}
		return js.ValueOf(map[string]interface{}{"error": "unknown control " + name})
	})
}

func jsSetDirectionalPosition(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "missing arguments: (x, y, z)"})
	}
	kernelInstance.configurator.SetDirectionalPosition(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func jsAttachScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return js.ValueOf(map[string]interface{}{"success": false, "error": "missing argument: (scene)"})
	}
	kernelInstance.AttachScene(jsTarget{obj: args[0]})
	return js.ValueOf(map[string]interface{}{"success": true})
}

var statsCallback js.Value

// frame(deltaSeconds, renderer.info)
func jsFrame(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeNumber {
		return js.ValueOf(nil)
	}
	var info js.Value
	if len(args) > 1 {
		info = args[1]
	}
	stats, ok := kernelInstance.Frame(args[0].Float(), jsRenderInfo{info: info}, render.MemorySamplerFunc(jsHeapUsed))
	if !ok {
		return js.ValueOf(nil)
	}
	d := stats.Display()
	out := js.ValueOf(map[string]interface{}{
		"fps":        d.FPS,
		"triangles":  d.Triangles,
		"geometries": d.Geometries,
		"textures":   d.Textures,
		"drawCalls":  d.DrawCalls,
		"memoryUsed": d.MemoryUsed,
	})
	if statsCallback.Type() == js.TypeFunction {
		statsCallback.Invoke(out)
	}
	return out
}

func jsOnStats(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 && args[0].Type() == js.TypeFunction {
		statsCallback = args[0]
	} else {
		statsCallback = js.Undefined()
	}
	return nil
}

func jsHandleKey(this js.Value, args []js.Value) interface{} {
	if kernelInstance.panel == nil || len(args) < 1 || args[0].Type() != js.TypeString {
		return js.ValueOf(false)
	}
	return js.ValueOf(kernelInstance.panel.HandleKey(args[0].String()))
}

func jsDebugLines(this js.Value, args []js.Value) interface{} {
	if kernelInstance.panel == nil {
		return js.ValueOf([]interface{}{})
	}
	lines := kernelInstance.panel.Lines()
	out := make([]interface{}, len(lines))
	for i, l := range lines {
		out[i] = l
	}
	return js.ValueOf(out)
}

// jsReady returns a Promise resolved once detection finished
func jsReady(this js.Value, args []js.Value) interface{} {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		go func() {
			<-kernelInstance.Ready()
			resolve.Invoke(js.ValueOf(report.ProfileMap(kernelInstance.configurator.Profile())))
			executor.Release()
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

func jsGetKernelStats(this js.Value, args []js.Value) interface{} {
	if kernelInstance == nil {
		return js.ValueOf(nil)
	}
	uptime := time.Duration(0)
	if !kernelInstance.startTime.IsZero() {
		uptime = time.Since(kernelInstance.startTime)
	}
	return js.ValueOf(map[string]interface{}{
		"state":  kernelInstance.StateName(),
		"uptime": uptime.String(),
	})
}
