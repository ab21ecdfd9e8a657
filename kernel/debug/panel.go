package debug

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// Panel title and folder names
const (
	Title             = "App Debug"
	DeviceFolder      = "Device Info"
	PerformanceFolder = "Performance"
	ControlsFolder    = "Scene"
)

// Placeholder statuses shown until the folders are populated
const (
	DeviceWaiting      = "Waiting for device detection..."
	PerformanceWaiting = "Waiting for scene initialization..."
)

// ErrFullscreenUnavailable is returned when no fullscreen handler is installed
var ErrFullscreenUnavailable = errors.New("debug: fullscreen not available")

// Row is one read-only entry in a folder
type Row struct {
	Name  string
	Value string
}

// Action is a button in a folder
type Action struct {
	Name string
	Run  func()
}

// Folder is a titled group of rows and actions
type Folder struct {
	Title   string
	Rows    []Row
	Actions []Action
	Open    bool
}

func placeholder(title, status string) *Folder {
	return &Folder{Title: title, Rows: []Row{{Name: "Status", Value: status}}, Open: true}
}

// Panel is the debug panel model: a device folder filled after detection, a
// performance folder fed by the stats cadence and the live scene controls.
// Hosts render it through Lines or Folders.
type Panel struct {
	mu          sync.Mutex
	visible     bool
	ready       bool
	device      *Folder
	performance *Folder
	monitoring  bool
	perf        render.StatsDisplay
	controls    []Control
	bindings    map[string]func()
	fullscreen  func() error
	logger      *utils.Logger
}

// NewPanel creates a visible, uninitialised panel
func NewPanel(logger *utils.Logger) *Panel {
	return &Panel{
		visible: true,
		perf:    render.EmptyStatsDisplay,
		logger:  utils.OrGlobal(logger).Named("debug"),
	}
}

// Init creates the folders with their placeholders
func (p *Panel) Init() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.device = placeholder(DeviceFolder, DeviceWaiting)
	p.performance = placeholder(PerformanceFolder, PerformanceWaiting)
	p.monitoring = false
	p.ready = true
	p.logger.Info("GUI created and ready")
}

// Ready reports whether Init ran and Dispose has not
func (p *Panel) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// AddDeviceInfo replaces the device placeholder with the detected profile.
// It warns and does nothing when the panel or the profile is not ready.
func (p *Panel) AddDeviceInfo(profile *device.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready || p.device == nil || profile == nil {
		p.logger.Warn("Device folder or device info not ready")
		return
	}

	rec := profile.Record
	ua := rec.UserAgent
	logger := p.logger
	p.device = &Folder{
		Title: DeviceFolder,
		Actions: []Action{{
			Name: "Log Full User Agent",
			Run:  func() { logger.Info("Full User Agent", utils.String("ua", ua)) },
		}},
		Rows: []Row{
			{"Device Type", profile.Category.String()},
			{"Icon", profile.Emoji()},
			{"User Agent", rec.UserAgent},
			{"Screen Size", string(rec.ScreenSize)},
			{"Touch Support", fmt.Sprint(rec.IsTouchDevice)},
			{"Pixel Ratio", fmt.Sprint(rec.PixelRatio)},
			{"VR Support", fmt.Sprint(rec.HasVRSession)},
			{"AR Support", fmt.Sprint(rec.HasARSession)},
			{"WebXR API", rec.WebXRSupport()},
			{"Performance Level", profile.Tier.String()},
			{"GPU", rec.GPU},
			{"Memory", rec.Memory},
			{"CPU Cores", rec.Cores},
		},
	}
	p.logger.Info("Device info displayed in panel")
}

// AddPerformanceMonitoring replaces the performance placeholder with the live counters
func (p *Panel) AddPerformanceMonitoring() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Debug("Adding performance monitoring...")
	if !p.ready || p.performance == nil {
		p.logger.Warn("Performance folder not ready")
		return
	}
	p.monitoring = true
	p.performance = &Folder{Title: PerformanceFolder, Open: true}
}

// UpdatePerformanceData stores the latest snapshot. Panel satisfies render.StatsSink.
func (p *Panel) UpdatePerformanceData(s render.Stats) {
	d := s.Display()
	p.mu.Lock()
	p.perf = d
	p.mu.Unlock()
}

// PerformanceData returns the strings currently shown in the performance folder
func (p *Panel) PerformanceData() render.StatsDisplay {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.perf
}

// AddControls attaches live controls, shown in their own folder
func (p *Panel) AddControls(controls []Control) {
	p.mu.Lock()
	p.controls = append([]Control(nil), controls...)
	p.mu.Unlock()
}

// Controls returns the attached controls
func (p *Panel) Controls() []Control {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Control(nil), p.controls...)
}

// Control looks up an attached control by name
func (p *Panel) Control(name string) (Control, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.controls {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Control{}, false
}

// Visible reports whether the panel is shown
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// SetVisible shows or hides the panel
func (p *Panel) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// ToggleVisibility flips visibility and returns the new state
func (p *Panel) ToggleVisibility() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = !p.visible
	return p.visible
}

// Bind runs fn when key is handled. Keys are case-sensitive; "h" and "H"
// are reserved for the visibility toggle.
func (p *Panel) Bind(key string, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bindings == nil {
		p.bindings = make(map[string]func())
	}
	p.bindings[key] = fn
}

// HandleKey toggles visibility on "h" or "H" and otherwise runs the bound
// action. It reports whether the key was consumed.
func (p *Panel) HandleKey(key string) bool {
	if key == "h" || key == "H" {
		p.ToggleVisibility()
		return true
	}
	p.mu.Lock()
	fn := p.bindings[key]
	p.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// BindControlKeys binds the default shortcuts to the attached controls:
// s shadows, w wireframe, a axes, l light helper, c shadow camera, f fullscreen,
// ArrowUp/ArrowDown ambient intensity, ArrowLeft/ArrowRight light X.
func (p *Panel) BindControlKeys() {
	toggleKeys := map[string]string{
		"s": "Shadows",
		"w": "Wireframe",
		"a": "Axes",
		"l": "Light Helper",
		"c": "Shadow Camera",
	}
	for key, name := range toggleKeys {
		if c, ok := p.Control(name); ok {
			p.Bind(key, c.Toggle)
		}
	}
	nudges := []struct {
		key   string
		name  string
		steps int
	}{
		{"ArrowUp", "Ambient Intensity", 1},
		{"ArrowDown", "Ambient Intensity", -1},
		{"ArrowRight", "Light X", 1},
		{"ArrowLeft", "Light X", -1},
	}
	for _, n := range nudges {
		if c, ok := p.Control(n.name); ok {
			steps := n.steps
			p.Bind(n.key, func() { c.Nudge(steps) })
		}
	}
	p.Bind("f", func() { _ = p.ToggleFullscreen() })
}

// SetFullscreenHandler installs the host's fullscreen toggle
func (p *Panel) SetFullscreenHandler(fn func() error) {
	p.mu.Lock()
	p.fullscreen = fn
	p.mu.Unlock()
}

// ToggleFullscreen runs the host's fullscreen toggle
func (p *Panel) ToggleFullscreen() error {
	p.mu.Lock()
	fn := p.fullscreen
	p.mu.Unlock()
	if fn == nil {
		return ErrFullscreenUnavailable
	}
	if err := fn(); err != nil {
		p.logger.Warn("Fullscreen toggle failed", utils.Err(err))
		return err
	}
	return nil
}

// Folders returns a snapshot of the panel contents in display order
func (p *Panel) Folders() []Folder {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return nil
	}
	out := make([]Folder, 0, 3)
	if p.device != nil {
		out = append(out, copyFolder(p.device))
	}
	if p.performance != nil {
		if p.monitoring {
			out = append(out, Folder{Title: PerformanceFolder, Open: true, Rows: []Row{
				{"FPS", p.perf.FPS},
				{"Triangles", p.perf.Triangles},
				{"Geometries", p.perf.Geometries},
				{"Textures", p.perf.Textures},
				{"Draw Calls", p.perf.DrawCalls},
				{"Memory Used", p.perf.MemoryUsed},
			}})
		} else {
			out = append(out, copyFolder(p.performance))
		}
	}
	if len(p.controls) > 0 {
		f := Folder{Title: ControlsFolder, Open: true}
		for _, c := range p.controls {
			f.Rows = append(f.Rows, Row{Name: c.Name, Value: c.Display()})
		}
		out = append(out, f)
	}
	return out
}

func copyFolder(f *Folder) Folder {
	c := *f
	c.Rows = append([]Row(nil), f.Rows...)
	c.Actions = append([]Action(nil), f.Actions...)
	return c
}

// Lines renders the panel as plain text for overlays. Hidden or
// uninitialised panels render nothing.
func (p *Panel) Lines() []string {
	if !p.Visible() {
		return nil
	}
	folders := p.Folders()
	if folders == nil {
		return nil
	}

	lines := []string{Title}
	for _, f := range folders {
		lines = append(lines, "["+f.Title+"]")
		for _, r := range f.Rows {
			lines = append(lines, "  "+r.Name+": "+r.Value)
		}
		for _, a := range f.Actions {
			lines = append(lines, "  > "+a.Name)
		}
	}
	return lines
}

// Dispose tears the panel down. Later calls warn as if Init never ran.
func (p *Panel) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = false
	p.device = nil
	p.performance = nil
	p.monitoring = false
	p.controls = nil
	p.bindings = nil
}
