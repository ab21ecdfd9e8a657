package render

import (
	"context"
	"sync"
	"time"

	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// Op names a configurator mutation
type Op string

const (
	OpShadows              Op = "shadows"
	OpAntialias            Op = "antialias"
	OpWireframe            Op = "wireframe"
	OpBackground           Op = "background"
	OpAxesHelper           Op = "axes-helper"
	OpLightHelper          Op = "light-helper"
	OpShadowCameraHelper   Op = "shadow-camera-helper"
	OpAmbientIntensity     Op = "ambient-intensity"
	OpDirectionalIntensity Op = "directional-intensity"
	OpDirectionalPosition  Op = "directional-position"
)

func helperOp(h Helper) Op {
	switch h {
	case HelperDirectionalLight:
		return OpLightHelper
	case HelperShadowCamera:
		return OpShadowCameraHelper
	default:
		return OpAxesHelper
	}
}

// NotReadyWarnInterval bounds how often a detached setter warns per operation
const NotReadyWarnInterval = 5 * time.Second

// Configurator owns the session Settings and forwards every mutation to the
// attached Target. Setters called before a Target is attached record the
// value, warn and are replayed on Attach.
type Configurator struct {
	mu       sync.Mutex
	settings Settings
	profile  *device.Profile
	target   Target
	pending  []Op
	warns    *limiter.TokenBucket
	warned   map[Op]struct{}
	logger   *utils.Logger
}

// NewConfigurator creates a configurator starting from settings
func NewConfigurator(settings Settings, logger *utils.Logger) *Configurator {
	logger = utils.OrGlobal(logger).Named("render")

	warns, err := limiter.NewTokenBucket(
		limiter.Config{
			Rate:     1,
			Duration: NotReadyWarnInterval,
			Burst:    1,
		},
		store.NewMemoryStore(time.Minute),
	)
	if err != nil {
		logger.Debug("Warning throttle disabled", utils.Err(err))
		warns = nil
	}

	return &Configurator{
		settings: settings,
		warns:    warns,
		warned:   make(map[Op]struct{}),
		logger:   logger,
	}
}

// Configure detects the device behind env, resolves its settings and
// replaces the current ones. An attached target receives the full new state.
func (c *Configurator) Configure(ctx context.Context, detector *device.Detector, env device.Environment) *device.Profile {
	profile := detector.Detect(ctx, env)
	settings := Resolve(profile.Tier, profile.Category, profile.Record.PixelRatio)

	c.logger.Info("Applying optimizations",
		utils.Stringer("category", profile.Category),
		utils.Stringer("tier", profile.Tier),
		utils.Float64("pixel_ratio", settings.PixelRatio),
		utils.Bool("shadows", settings.Shadows),
		utils.Bool("antialias", settings.Antialias),
		utils.Int("shadow_map", settings.ShadowMapSize),
		utils.Int("max_lights", settings.MaxLights),
	)
	if profile.IsVR() {
		c.logger.Info("VR optimizations applied")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
	c.profile = profile
	c.pending = nil
	if c.target != nil {
		c.syncLocked()
	}
	return profile
}

// Attach binds the scene collaborator and replays values set while detached
func (c *Configurator) Attach(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = t
	if t == nil {
		return
	}
	for _, op := range c.pending {
		c.applyLocked(op)
	}
	if n := len(c.pending); n > 0 {
		c.logger.Debug("Replayed pending settings", utils.Int("count", n))
	}
	c.pending = nil
}

// Detach unbinds the target, e.g. when the scene is torn down
func (c *Configurator) Detach() {
	c.mu.Lock()
	c.target = nil
	c.mu.Unlock()
}

// Settings returns a copy of the current settings
func (c *Configurator) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Profile returns the detection profile, nil before Configure
func (c *Configurator) Profile() *device.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

func (c *Configurator) SetShadows(enabled bool) {
	c.mutate(OpShadows, func(s *Settings) { s.Shadows = enabled })
}

// SetAntialias records the flag. The drawing surface keeps its current mode
// until the renderer is recreated.
func (c *Configurator) SetAntialias(enabled bool) {
	c.mu.Lock()
	c.settings.Antialias = enabled
	c.mu.Unlock()
	c.logger.Info("Antialias toggled, takes effect on next renderer init", utils.Bool("enabled", enabled))
}

func (c *Configurator) SetWireframe(enabled bool) {
	c.mutate(OpWireframe, func(s *Settings) { s.Wireframe = enabled })
}

func (c *Configurator) SetBackground(color Color) {
	c.mutate(OpBackground, func(s *Settings) { s.Background = color })
}

func (c *Configurator) SetHelperVisible(h Helper, visible bool) {
	c.mutate(helperOp(h), func(s *Settings) { s.Helpers.set(h, visible) })
}

func (c *Configurator) SetAxesVisible(visible bool) {
	c.SetHelperVisible(HelperAxes, visible)
}

func (c *Configurator) SetLightHelperVisible(visible bool) {
	c.SetHelperVisible(HelperDirectionalLight, visible)
}

func (c *Configurator) SetShadowCameraVisible(visible bool) {
	c.SetHelperVisible(HelperShadowCamera, visible)
}

func (c *Configurator) SetAmbientIntensity(v float64) {
	c.mutate(OpAmbientIntensity, func(s *Settings) { s.AmbientIntensity = v })
}

func (c *Configurator) SetDirectionalIntensity(v float64) {
	c.mutate(OpDirectionalIntensity, func(s *Settings) { s.DirectionalIntensity = v })
}

func (c *Configurator) SetDirectionalPosition(x, y, z float64) {
	c.mutate(OpDirectionalPosition, func(s *Settings) { s.DirectionalPosition = Vec3{X: x, Y: y, Z: z} })
}

func (c *Configurator) SetDirectionalX(x float64) {
	c.mutate(OpDirectionalPosition, func(s *Settings) { s.DirectionalPosition.X = x })
}

func (c *Configurator) SetDirectionalY(y float64) {
	c.mutate(OpDirectionalPosition, func(s *Settings) { s.DirectionalPosition.Y = y })
}

func (c *Configurator) SetDirectionalZ(z float64) {
	c.mutate(OpDirectionalPosition, func(s *Settings) { s.DirectionalPosition.Z = z })
}

func (c *Configurator) mutate(op Op, update func(*Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	update(&c.settings)
	if c.target == nil {
		c.deferLocked(op)
		return
	}
	c.applyLocked(op)
}

func (c *Configurator) deferLocked(op Op) {
	seen := false
	for _, p := range c.pending {
		if p == op {
			seen = true
			break
		}
	}
	if !seen {
		c.pending = append(c.pending, op)
	}
	if c.shouldWarnLocked(op) {
		c.logger.Warn("Scene not ready, setting recorded", utils.String("op", string(op)))
	}
}

// shouldWarnLocked always lets the first warning per op through; repeats are
// throttled by the token bucket.
func (c *Configurator) shouldWarnLocked(op Op) bool {
	if c.warns == nil {
		return true
	}
	allowed := c.warns.Allow(string(op))
	if _, seen := c.warned[op]; !seen {
		c.warned[op] = struct{}{}
		return true
	}
	return allowed
}

// applyLocked pushes the current value for op to the target. A panicking
// target is logged and otherwise ignored.
func (c *Configurator) applyLocked(op Op) {
	defer func() {
		if err := utils.RecoverError(recover(), string(op)); err != nil {
			c.logger.Error("Scene update failed", utils.Err(err))
		}
	}()

	s, t := c.settings, c.target
	switch op {
	case OpShadows:
		t.ApplyShadows(s.Shadows)
	case OpWireframe:
		t.ApplyWireframe(s.Wireframe)
	case OpBackground:
		t.ApplyBackground(s.Background)
	case OpAxesHelper:
		t.ApplyHelperVisibility(HelperAxes, s.Helpers.Axes)
	case OpLightHelper:
		t.ApplyHelperVisibility(HelperDirectionalLight, s.Helpers.DirectionalLight)
	case OpShadowCameraHelper:
		t.ApplyHelperVisibility(HelperShadowCamera, s.Helpers.ShadowCamera)
	case OpAmbientIntensity:
		t.ApplyAmbientIntensity(s.AmbientIntensity)
	case OpDirectionalIntensity:
		t.ApplyDirectionalIntensity(s.DirectionalIntensity)
	case OpDirectionalPosition:
		t.ApplyDirectionalPosition(s.DirectionalPosition)
	}
}

var syncOps = []Op{
	OpShadows, OpWireframe, OpBackground,
	OpAxesHelper, OpLightHelper, OpShadowCameraHelper,
	OpAmbientIntensity, OpDirectionalIntensity, OpDirectionalPosition,
}

func (c *Configurator) syncLocked() {
	for _, op := range syncOps {
		c.applyLocked(op)
	}
}
