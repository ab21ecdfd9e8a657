//go:build js && wasm

package device

import (
	"context"
	"fmt"
	"syscall/js"
)

// BrowserEnvironment reads signals from window and navigator
type BrowserEnvironment struct {
	window    js.Value
	navigator js.Value
}

// NewBrowserEnvironment binds to the page globals
func NewBrowserEnvironment() *BrowserEnvironment {
	global := js.Global()
	return &BrowserEnvironment{
		window:    global,
		navigator: global.Get("navigator"),
	}
}

func (e *BrowserEnvironment) InnerWidth() int {
	return intProp(e.window, "innerWidth")
}

func (e *BrowserEnvironment) InnerHeight() int {
	return intProp(e.window, "innerHeight")
}

func (e *BrowserEnvironment) DevicePixelRatio() float64 {
	v := e.window.Get("devicePixelRatio")
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Float()
}

func (e *BrowserEnvironment) HasTouchStart() bool {
	reflect := js.Global().Get("Reflect")
	if !reflect.Truthy() {
		return e.window.Get("ontouchstart").Type() != js.TypeUndefined
	}
	return reflect.Call("has", e.window, "ontouchstart").Bool()
}

func (e *BrowserEnvironment) MaxTouchPoints() int {
	if !e.navigator.Truthy() {
		return 0
	}
	return intProp(e.navigator, "maxTouchPoints")
}

func (e *BrowserEnvironment) UserAgent() string {
	if !e.navigator.Truthy() {
		return ""
	}
	ua := e.navigator.Get("userAgent")
	if ua.Type() != js.TypeString {
		return ""
	}
	return ua.String()
}

func (e *BrowserEnvironment) XR() (XRSystem, bool) {
	if !e.navigator.Truthy() {
		return nil, false
	}
	xr := e.navigator.Get("xr")
	if !xr.Truthy() {
		return nil, false
	}
	return browserXR{xr: xr}, true
}

// GPURenderer creates a throwaway canvas and reads the unmasked renderer
// when WEBGL_debug_renderer_info is exposed, the plain RENDERER otherwise.
func (e *BrowserEnvironment) GPURenderer() (string, error) {
	document := e.window.Get("document")
	if !document.Truthy() {
		return "", ErrUnavailable
	}
	canvas := document.Call("createElement", "canvas")
	gl := canvas.Call("getContext", "webgl")
	if !gl.Truthy() {
		gl = canvas.Call("getContext", "experimental-webgl")
	}
	if !gl.Truthy() {
		return "", ErrWebGLUnsupported
	}

	param := gl.Get("RENDERER")
	if ext := gl.Call("getExtension", "WEBGL_debug_renderer_info"); ext.Truthy() {
		param = ext.Get("UNMASKED_RENDERER_WEBGL")
	}
	renderer := gl.Call("getParameter", param)
	if renderer.Type() != js.TypeString {
		return "", ErrUnavailable
	}
	return renderer.String(), nil
}

func (e *BrowserEnvironment) HeapSizeLimit() (int64, error) {
	perf := e.window.Get("performance")
	if !perf.Truthy() {
		return 0, ErrUnavailable
	}
	memory := perf.Get("memory")
	if !memory.Truthy() {
		return 0, ErrUnavailable
	}
	limit := memory.Get("jsHeapSizeLimit")
	if limit.Type() != js.TypeNumber {
		return 0, ErrUnavailable
	}
	return int64(limit.Float()), nil
}

func (e *BrowserEnvironment) DeviceMemory() (float64, error) {
	if !e.navigator.Truthy() {
		return 0, ErrUnavailable
	}
	v := e.navigator.Get("deviceMemory")
	if v.Type() != js.TypeNumber {
		return 0, ErrUnavailable
	}
	return v.Float(), nil
}

func (e *BrowserEnvironment) HardwareConcurrency() (int, error) {
	if !e.navigator.Truthy() {
		return 0, ErrUnavailable
	}
	v := e.navigator.Get("hardwareConcurrency")
	if v.Type() != js.TypeNumber {
		return 0, ErrUnavailable
	}
	return v.Int(), nil
}

func intProp(v js.Value, name string) int {
	p := v.Get(name)
	if p.Type() != js.TypeNumber {
		return 0
	}
	return p.Int()
}

type browserXR struct {
	xr js.Value
}

func (b browserXR) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	v, err := awaitPromise(ctx, b.xr.Call("isSessionSupported", string(mode)))
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// awaitPromise blocks until p settles or ctx is done. Callback funcs are
// released from inside the callbacks since ctx may win the race.
func awaitPromise(ctx context.Context, p js.Value) (js.Value, error) {
	type outcome struct {
		value js.Value
		err   error
	}
	done := make(chan outcome, 1)

	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		done <- outcome{value: v}
		release()
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		reason := "rejected"
		if len(args) > 0 {
			reason = jsErrorString(args[0])
		}
		done <- outcome{err: fmt.Errorf("promise rejected: %s", reason)}
		release()
		return nil
	})
	p.Call("then", onResolve, onReject)

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

func jsErrorString(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return v.String()
}
