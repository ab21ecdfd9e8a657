//go:build (!js || !wasm) && !nogpu

package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/sony/gobreaker"

	"github.com/nmxmxh/xrscene/kernel/utils"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// AdapterProbe describes the host GPU by enumerating Vulkan adapters. Calls
// go through a circuit breaker: a host without a working driver fails fast
// after a few attempts instead of re-creating an instance on every probe.
type AdapterProbe struct {
	breaker   *gobreaker.CircuitBreaker
	enumerate func() (string, error)
}

// NewAdapterProbe creates an adapter probe
func NewAdapterProbe(logger *utils.Logger) *AdapterProbe {
	logger = utils.OrGlobal(logger).Named("gpu")
	return newAdapterProbe(logger, enumerateAdapters)
}

func newAdapterProbe(logger *utils.Logger, enumerate func() (string, error)) *AdapterProbe {
	settings := gobreaker.Settings{
		Name:        "gpu-adapter",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		// a host without an adapter is a valid answer, not a driver failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnavailable)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Adapter probe breaker state changed",
				utils.String("breaker", name),
				utils.String("from", from.String()),
				utils.String("to", to.String()),
			)
		},
	}
	return &AdapterProbe{
		breaker:   gobreaker.NewCircuitBreaker(settings),
		enumerate: enumerate,
	}
}

// Describe returns the adapter name, preferring discrete over integrated GPUs
func (a *AdapterProbe) Describe() (string, error) {
	v, err := a.breaker.Execute(func() (interface{}, error) {
		return a.enumerate()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", utils.WrapError(err, "gpu adapter probe suspended")
		}
		return "", err
	}
	return v.(string), nil
}

func enumerateAdapters() (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			name, err = "", utils.RecoverError(r, "enumerate adapters")
		}
	}()

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return "", ErrUnavailable
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return "", fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return "", ErrUnavailable
	}

	selected := -1
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU:
			return adapters[i].Info.Name, nil
		case gputypes.DeviceTypeIntegratedGPU:
			if selected < 0 {
				selected = i
			}
		}
	}
	if selected < 0 {
		selected = 0
	}
	return adapters[selected].Info.Name, nil
}
