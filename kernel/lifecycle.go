//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	xrdebug "github.com/nmxmxh/xrscene/kernel/debug"
	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// KernelState represents the lifecycle state of the kernel
type KernelState int32

const (
	StateUninitialized KernelState = iota
	StateBooting
	StateDetecting
	StateRunning
	StateStopping
	StateStopped
	StatePanic
)

var stateNames = map[KernelState]string{
	StateUninitialized: "UNINITIALIZED",
	StateBooting:       "BOOTING",
	StateDetecting:     "DETECTING",
	StateRunning:       "RUNNING",
	StateStopping:      "STOPPING",
	StateStopped:       "STOPPED",
	StatePanic:         "PANIC",
}

// Kernel owns the detection session, the configurator and the debug panel
// of one page.
type Kernel struct {
	state  atomic.Int32
	config SceneConfig
	logger *utils.Logger

	env          *device.BrowserEnvironment
	detector     *device.Detector
	configurator *render.Configurator
	panel        *xrdebug.Panel
	metrics      *render.Metrics
	shutdown     *utils.GracefulShutdown

	// frame state, driven from requestAnimationFrame
	frameMu sync.Mutex
	cadence render.Cadence
	elapsed float64
	fps     float64
	sinks   render.FanOut

	startTime time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	ready     chan struct{}
	readyOnce sync.Once
}

// NewKernel creates a kernel configured from the page
func NewKernel() *Kernel {
	config := loadSceneConfig()

	logger := utils.NewLogger(utils.LoggerConfig{
		Level:      config.LogLevel,
		Component:  "kernel",
		Colorize:   true,
		ShowCaller: false,
	})
	utils.SetGlobalLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())

	k := &Kernel{
		config:       config,
		logger:       logger,
		env:          device.NewBrowserEnvironment(),
		detector:     device.NewDetector(logger, device.WithRater(device.NewRater(config.GPUMarkers...))),
		configurator: render.NewConfigurator(render.Settings{}, logger),
		shutdown:     utils.NewGracefulShutdown(config.ShutdownTimeout, logger),
		ctx:          ctx,
		cancel:       cancel,
		ready:        make(chan struct{}),
	}
	if config.Debug {
		k.panel = xrdebug.NewPanel(logger)
	}

	k.setState(StateUninitialized)
	return k
}

// Boot detects the device and resolves the render settings. Nothing that
// depends on the profile runs before the XR queries have settled.
func (k *Kernel) Boot() {
	k.startTime = time.Now()
	defer k.recoverPanic()

	if !k.transitionState(StateUninitialized, StateBooting) {
		k.logger.Error("Invalid boot transition", utils.String("current", k.StateName()))
		return
	}

	k.logger.Info("Scene kernel boot sequence", utils.Bool("debug", k.config.Debug))

	if k.panel != nil {
		k.panel.Init()
		k.panel.AddControls(xrdebug.SceneControls(k.configurator))
		k.panel.SetFullscreenHandler(toggleFullscreen)
		k.panel.BindControlKeys()
		k.shutdown.Register("debug-panel", func() error {
			k.panel.Dispose()
			return nil
		})
	}

	k.shutdown.Register("configurator", func() error {
		k.configurator.Detach()
		return nil
	})

	k.setState(StateDetecting)
	k.notifyHost("kernel:detecting", nil)

	detectCtx, cancel := context.WithTimeout(k.ctx, k.config.XRTimeout)
	profile := k.configurator.Configure(detectCtx, k.detector, k.env)
	cancel()

	if k.panel != nil {
		k.panel.AddDeviceInfo(profile)
	}

	metrics, err := render.NewMetrics(profile)
	if err != nil {
		k.logger.Warn("Metrics disabled", utils.Err(err))
	} else {
		k.metrics = metrics
		k.shutdown.Register("metrics", metrics.Close)
	}

	k.frameMu.Lock()
	k.sinks = render.FanOut{}
	if k.panel != nil {
		k.sinks = append(k.sinks, k.panel)
	}
	if k.metrics != nil {
		k.sinks = append(k.sinks, k.metrics)
	}
	k.frameMu.Unlock()

	if !k.transitionState(StateDetecting, StateRunning) {
		k.logger.Warn("Kernel left detection early", utils.String("state", k.StateName()))
		return
	}
	k.markReady()

	k.logger.Info("Scene kernel ready",
		utils.Stringer("category", profile.Category),
		utils.Stringer("tier", profile.Tier),
		utils.Duration("took", time.Since(k.startTime)),
	)
	k.notifyHost("kernel:ready", map[string]interface{}{
		"category": profile.Category.String(),
		"tier":     profile.Tier.String(),
	})
}

// AttachScene binds the page's scene object and starts performance monitoring
func (k *Kernel) AttachScene(t render.Target) {
	k.configurator.Attach(t)
	if k.panel != nil {
		k.panel.AddPerformanceMonitoring()
	}
}

// Frame advances the statistics clock by delta seconds and, once per elapsed
// second, collects a snapshot from source. It returns the snapshot when one
// was taken.
func (k *Kernel) Frame(delta float64, source render.InfoSource, memory render.MemorySampler) (render.Stats, bool) {
	k.frameMu.Lock()
	defer k.frameMu.Unlock()

	if delta > 0 {
		k.fps = 1 / delta
		k.elapsed += delta
	}
	if !k.cadence.Due(k.elapsed) {
		return render.Stats{}, false
	}
	stats := render.NewCollector(source, memory).Collect(k.fps)
	k.sinks.UpdatePerformanceData(stats)
	return stats, true
}

// Shutdown initiates a graceful shutdown
func (k *Kernel) Shutdown() {
	if KernelState(k.state.Load()) >= StateStopping {
		return
	}
	k.setState(StateStopping)
	k.logger.Info("Scene kernel shutting down...")

	k.cancel()
	if err := k.shutdown.Shutdown(context.Background()); err != nil {
		k.logger.Warn("Shutdown incomplete", utils.Err(err))
	}

	k.setState(StateStopped)
	k.markReady()
	k.logger.Info("Scene kernel stopped")
	k.notifyHost("kernel:shutdown", nil)
}

// Ready is closed once detection finished or the kernel stopped
func (k *Kernel) Ready() <-chan struct{} {
	return k.ready
}

func (k *Kernel) markReady() {
	k.readyOnce.Do(func() { close(k.ready) })
}

// State Management
func (k *Kernel) setState(s KernelState) {
	k.state.Store(int32(s))
}

func (k *Kernel) transitionState(from, to KernelState) bool {
	return k.state.CompareAndSwap(int32(from), int32(to))
}

func (k *Kernel) StateName() string {
	return stateNames[KernelState(k.state.Load())]
}

// Helper: Global Panic Recovery
func (k *Kernel) recoverPanic() {
	if r := recover(); r != nil {
		k.setState(StatePanic)
		stack := string(debug.Stack())
		k.logger.Error("KERNEL PANIC",
			utils.Any("reason", r),
			utils.String("stack", stack))

		k.notifyHost("kernel:panic", map[string]interface{}{
			"reason": fmt.Sprintf("%v", r),
			"stack":  stack,
		})
	}
}
