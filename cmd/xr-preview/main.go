package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nmxmxh/xrscene/internal/config"
	"github.com/nmxmxh/xrscene/kernel/debug"
	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/scene"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing xrscene.json.")
	preset := flag.String("preset", "", "Simulated host: "+fmt.Sprint(config.PresetNames())+".")
	noDebug := flag.Bool("no-debug", false, "Start with the debug panel hidden.")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configDir, *preset, *noDebug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configDir, preset string, noDebug bool) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	if preset != "" {
		config.Set("device.preset", preset)
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(utils.LoggerConfig{
		Level:     utils.ParseLevel(cfg.LogLevel),
		Component: "xr-preview",
		Output:    os.Stderr,
		Colorize:  true,
	})
	utils.SetGlobalLogger(logger)

	shutdown := utils.NewGracefulShutdown(5*time.Second, logger)
	defer func() {
		if err := shutdown.Shutdown(context.Background()); err != nil {
			logger.Warn("Shutdown incomplete", utils.Err(err))
		}
	}()

	panel := debug.NewPanel(logger)
	panel.Init()
	panel.SetVisible(cfg.Preview.Debug && !noDebug)
	shutdown.Register("debug-panel", func() error {
		panel.Dispose()
		return nil
	})

	env := device.NewHostEnvironment(cfg.Device, logger)
	env.SetScreenSize(cfg.Preview.Width, cfg.Preview.Height)
	detector := device.NewDetector(logger, device.WithRater(device.NewRater(cfg.GPUMarkers...)))
	configurator := render.NewConfigurator(render.Settings{}, logger)

	detectCtx := ctx
	if cfg.XRTimeout > 0 {
		var cancel context.CancelFunc
		detectCtx, cancel = context.WithTimeout(ctx, cfg.XRTimeout)
		defer cancel()
	}
	profile := configurator.Configure(detectCtx, detector, env)
	panel.AddDeviceInfo(profile)

	s := scene.New(configurator.Settings(), cfg.Preview.Width, cfg.Preview.Height)
	configurator.Attach(s)
	shutdown.Register("configurator", func() error {
		configurator.Detach()
		return nil
	})

	panel.AddControls(debug.SceneControls(configurator))
	panel.SetFullscreenHandler(func() error {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
		return nil
	})
	panel.BindControlKeys()

	metrics, err := render.NewMetrics(profile)
	if err != nil {
		return utils.WrapError(err, "register metrics")
	}
	shutdown.Register("metrics", metrics.Close)

	raster := scene.NewRasterizer(logger)
	loop := scene.NewLoop(scene.LoopConfig{
		Scene:  s,
		Raster: raster,
		Sink:   render.FanOut{panel, metrics},
		Memory: render.RuntimeMemory{},
		Logger: logger,
	})
	panel.AddPerformanceMonitoring()

	ebiten.SetWindowTitle(fmt.Sprintf("%s (%s %s)", cfg.Preview.Title, profile.Emoji(), profile.Category))
	ebiten.SetWindowSize(cfg.Preview.Width, cfg.Preview.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Preview.TPS > 0 {
		ebiten.SetTPS(cfg.Preview.TPS)
	}

	w := newWindow(ctx, loop, raster, panel, logger)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
