//go:build !js || !wasm

package device_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGPU struct {
	name string
	err  error
}

func (f fakeGPU) Describe() (string, error) { return f.name, f.err }

func TestNativeEnvironment_Defaults(t *testing.T) {
	env := device.NewNativeEnvironment(device.DefaultNativeOptions(), nil)

	assert.Equal(t, 1920, env.InnerWidth())
	assert.Equal(t, 1080, env.InnerHeight())
	assert.Contains(t, env.UserAgent(), runtime.GOOS)

	_, ok := env.XR()
	assert.False(t, ok)

	_, err := env.GPURenderer()
	assert.ErrorIs(t, err, device.ErrUnavailable)

	cores, err := env.HardwareConcurrency()
	require.NoError(t, err)
	assert.Positive(t, cores)

	if gb, err := env.DeviceMemory(); err == nil {
		assert.GreaterOrEqual(t, gb, 1.0)
	} else {
		assert.ErrorIs(t, err, device.ErrUnavailable)
	}
}

func TestNativeEnvironment_DeviceMemoryOverride(t *testing.T) {
	opts := device.DefaultNativeOptions()
	opts.DeviceMemoryGB = 4
	gb, err := device.NewNativeEnvironment(opts, nil).DeviceMemory()
	require.NoError(t, err)
	assert.Equal(t, 4.0, gb)
}

func TestNativeEnvironment_GPUOverride(t *testing.T) {
	opts := device.DefaultNativeOptions()
	opts.GPURenderer = "Simulated RTX 4090"
	env := device.NewNativeEnvironment(opts, fakeGPU{err: errors.New("unused")})

	name, err := env.GPURenderer()
	require.NoError(t, err)
	assert.Equal(t, "Simulated RTX 4090", name)

	env = device.NewNativeEnvironment(device.DefaultNativeOptions(), fakeGPU{name: "Mesa Intel(R) Xe Graphics"})
	name, err = env.GPURenderer()
	require.NoError(t, err)
	assert.Equal(t, "Mesa Intel(R) Xe Graphics", name)
}

func TestNativeEnvironment_SimulatedHeadset(t *testing.T) {
	opts := device.DefaultNativeOptions()
	opts.UserAgent = "Mozilla/5.0 (visionOS 2.0) AppleWebKit"
	opts.XREnabled = true
	opts.VRSupported = true
	opts.GPURenderer = "Apple GPU"

	env := device.NewNativeEnvironment(opts, nil)
	p := device.NewDetector(testLogger(&bytes.Buffer{})).Detect(context.Background(), env)
	assert.Equal(t, device.CategoryAppleVisionPro, p.Category)
	assert.True(t, p.Record.HasVRSession)
	assert.Equal(t, device.TierHigh, p.Tier)
}

func TestNativeEnvironment_Resize(t *testing.T) {
	env := device.NewNativeEnvironment(device.DefaultNativeOptions(), nil)
	env.SetScreenSize(800, 600)
	assert.Equal(t, 800, env.InnerWidth())
	assert.Equal(t, 800, env.Options().ScreenWidth)
}
