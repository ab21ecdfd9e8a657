//go:build (!js || !wasm) && nogpu

package device

import "github.com/nmxmxh/xrscene/kernel/utils"

// AdapterProbe is disabled in nogpu builds
type AdapterProbe struct{}

// NewAdapterProbe creates a probe that always reports ErrUnavailable
func NewAdapterProbe(logger *utils.Logger) *AdapterProbe {
	return &AdapterProbe{}
}

func (a *AdapterProbe) Describe() (string, error) {
	return "", ErrUnavailable
}
