//go:build js && wasm
// +build js,wasm

package utils

import (
	"strings"
	"syscall/js"
)

// redirectLogToBridge sends log lines to the browser console so warnings show
// up with the right severity in devtools.
func (l *Logger) redirectLogToBridge(level LogLevel, logLine string) bool {
	console := js.Global().Get("console")
	if isValueNil(console) {
		return false
	}
	method := "log"
	switch level {
	case DEBUG:
		method = "debug"
	case INFO:
		method = "info"
	case WARN:
		method = "warn"
	case ERROR, FATAL:
		method = "error"
	}
	// Devtools does not render ANSI colours.
	line := strings.TrimRight(logLine, "\n")
	if l.colorize {
		line = strings.ReplaceAll(strings.TrimPrefix(line, levelColors[level]), colorReset, "")
	}
	console.Call(method, line)
	return true
}

// isValueNil helper for js.Value
func isValueNil(v js.Value) bool {
	return v.Type() == js.TypeNull || v.Type() == js.TypeUndefined
}
