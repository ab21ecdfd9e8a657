package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nmxmxh/xrscene/internal/config"
	"github.com/nmxmxh/xrscene/internal/report"
	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/scene"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configDir string
	preset    string
	format    string
	logLevel  string
	snapshot  string
	watch     time.Duration
	frames    int
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("xr-probe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configDir, "config", ".", "Directory containing xrscene.json.")
	fs.StringVar(&o.preset, "preset", "", "Simulated host: "+fmt.Sprint(config.PresetNames())+".")
	fs.StringVar(&o.format, "format", "", "Report format: text, json or proto.")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error.")
	fs.StringVar(&o.snapshot, "snapshot", "", "Render one frame of the scene to this PNG file.")
	fs.DurationVar(&o.watch, "watch", 0, "Re-detect at this interval and report changes (0 = once).")
	fs.IntVar(&o.frames, "frames", 0, "Simulate N frames at 60 fps and log the statistics snapshots.")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if err := config.Load(opts.configDir); err != nil {
		return err
	}
	if set["preset"] {
		config.Set("device.preset", opts.preset)
	}
	if set["format"] {
		config.Set("probe.format", opts.format)
	}
	if set["log-level"] {
		config.Set("logLevel", opts.logLevel)
	}
	if set["snapshot"] {
		config.Set("probe.snapshot", opts.snapshot)
	}
	if set["watch"] {
		config.Set("probe.watch", opts.watch)
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Probe.Format)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(utils.LoggerConfig{
		Level:     utils.ParseLevel(cfg.LogLevel),
		Component: "xr-probe",
		Output:    stderr,
	})
	utils.SetGlobalLogger(logger)

	shutdown := utils.NewGracefulShutdown(5*time.Second, logger)
	defer func() {
		if err := shutdown.Shutdown(context.Background()); err != nil {
			logger.Warn("Shutdown incomplete", utils.Err(err))
		}
	}()

	env := device.NewHostEnvironment(cfg.Device, logger)
	logger.Debug("Host environment", utils.String("preset", cfg.Preset), utils.String("cpu", env.CPUBrand()))
	detector := device.NewDetector(logger, device.WithRater(device.NewRater(cfg.GPUMarkers...)))
	configurator := render.NewConfigurator(render.Settings{}, logger)
	shutdown.Register("configurator", func() error {
		configurator.Detach()
		return nil
	})

	profile := detect(ctx, configurator, detector, env, cfg.XRTimeout)
	if err := emit(stdout, format, profile, configurator.Settings()); err != nil {
		return err
	}

	metrics, err := render.NewMetrics(profile)
	if err != nil {
		return utils.WrapError(err, "register metrics")
	}
	shutdown.Register("metrics", metrics.Close)

	if cfg.Probe.Snapshot != "" || opts.frames > 0 {
		s := scene.New(configurator.Settings(), cfg.Device.ScreenWidth, cfg.Device.ScreenHeight)
		configurator.Attach(s)

		if opts.frames > 0 {
			simulate(s, opts.frames, metrics, logger)
		}
		if cfg.Probe.Snapshot != "" {
			if err := snapshot(s, cfg.Probe.Snapshot, logger); err != nil {
				return err
			}
		}
	}

	if cfg.Probe.Watch <= 0 {
		return nil
	}
	return watch(ctx, cfg.Probe.Watch, func() {
		next := detect(ctx, configurator, detector, env, cfg.XRTimeout)
		if next.Category == profile.Category && next.Tier == profile.Tier {
			logger.Debug("Profile unchanged", utils.Stringer("category", next.Category), utils.Stringer("tier", next.Tier))
			return
		}
		logger.Info("Profile changed",
			utils.Stringer("from", profile.Category),
			utils.Stringer("to", next.Category),
			utils.Stringer("tier", next.Tier),
		)
		profile = next
		if err := emit(stdout, format, profile, configurator.Settings()); err != nil {
			logger.Error("Report failed", utils.Err(err))
		}
	})
}

func detect(ctx context.Context, c *render.Configurator, d *device.Detector, env device.Environment, xrTimeout time.Duration) *device.Profile {
	if xrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, xrTimeout)
		defer cancel()
	}
	return c.Configure(ctx, d, env)
}

func emit(w io.Writer, format report.Format, p *device.Profile, s render.Settings) error {
	data, err := report.Encode(format, p, s)
	if err != nil {
		return utils.WrapError(err, "encode report")
	}
	if _, err := w.Write(data); err != nil {
		return utils.WrapError(err, "write report")
	}
	if format == report.FormatJSON {
		_, err = fmt.Fprintln(w)
	}
	return err
}

func simulate(s *scene.Scene, frames int, metrics *render.Metrics, logger *utils.Logger) {
	sink := render.FanOut{metrics, render.SinkFunc(func(st render.Stats) {
		d := st.Display()
		logger.Info("Performance snapshot",
			utils.String("fps", d.FPS),
			utils.String("triangles", d.Triangles),
			utils.String("draw_calls", d.DrawCalls),
			utils.String("geometries", d.Geometries),
			utils.String("memory", d.MemoryUsed),
		)
	})}
	loop := scene.NewLoop(scene.LoopConfig{
		Scene:  s,
		Sink:   sink,
		Memory: render.RuntimeMemory{},
		Logger: logger,
	})
	for i := 0; i < frames; i++ {
		if _, err := loop.Frame(time.Second / 60); err != nil {
			return
		}
	}
	logger.Info("Simulation finished",
		utils.Int64("frames", loop.Frames()),
		utils.Duration("elapsed", loop.Elapsed()),
		utils.Int64("snapshots", metrics.Snapshots()),
	)
}

func snapshot(s *scene.Scene, path string, logger *utils.Logger) error {
	if err := scene.NewRasterizer(logger).Snapshot(s, path); err != nil {
		return err
	}
	if fi, err := os.Stat(path); err == nil {
		logger.Info("Snapshot size", utils.String("path", path), utils.String("size", humanize.Bytes(uint64(fi.Size()))))
	}
	return nil
}

func watch(ctx context.Context, interval time.Duration, tick func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tick()
		}
	}
}
