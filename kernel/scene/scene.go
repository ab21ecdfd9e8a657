package scene

import (
	"github.com/nmxmxh/xrscene/kernel/render"
)

// Geometry is a mesh shape
type Geometry interface {
	Kind() string
	Triangles() int
}

// Box is an axis-aligned cube centred on the mesh position
type Box struct {
	Size float64
}

func (Box) Kind() string   { return "box" }
func (Box) Triangles() int { return 12 }

// Circle is a flat disc in the XZ plane
type Circle struct {
	Radius   float64
	Segments int
}

func (Circle) Kind() string     { return "circle" }
func (c Circle) Triangles() int { return c.Segments }

// Material is a flat-coloured, lit surface
type Material struct {
	Color     render.Color
	Wireframe bool
}

// Mesh is a geometry placed in the scene. Rotation is Euler XYZ in radians.
type Mesh struct {
	Name          string
	Geometry      Geometry
	Material      Material
	Position      render.Vec3
	Rotation      render.Vec3
	CastShadow    bool
	ReceiveShadow bool
}

// AmbientLight lights every surface evenly
type AmbientLight struct {
	Color     render.Color
	Intensity float64
}

// ShadowCamera is the orthographic frustum the directional light renders its shadow map with
type ShadowCamera struct {
	Left, Right, Top, Bottom float64
	Near, Far                float64
}

// DirectionalLight shines from Position towards Target
type DirectionalLight struct {
	Color         render.Color
	Intensity     float64
	Position      render.Vec3
	Target        render.Vec3
	CastShadow    bool
	ShadowMapSize int
	Shadow        ShadowCamera
}

// Camera is a perspective camera looking at Target
type Camera struct {
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position render.Vec3
	Target   render.Vec3
}

// Renderer is the drawing surface state
type Renderer struct {
	Width            int
	Height           int
	PixelRatio       float64
	Antialias        bool
	ShadowMapEnabled bool
	ShadowMapSize    int
}

// Overlay is a debug helper drawn on top of the scene
type Overlay struct {
	Visible bool
	Size    float64
}

// Scene holds everything the rasterizer draws. It is driven from a single
// goroutine (frame loop plus control callbacks) and is not safe for
// concurrent use.
type Scene struct {
	Renderer    Renderer
	Background  render.Color
	Ambient     AmbientLight
	Directional DirectionalLight
	Cube        *Mesh
	Floor       *Mesh
	Camera      Camera

	Axes               Overlay
	LightHelper        Overlay
	ShadowCameraHelper Overlay

	info     render.RenderInfo
	uploaded map[string]struct{}
}

const white render.Color = 0xffffff

// New builds the demo scene for settings at the given viewport size
func New(settings render.Settings, width, height int) *Scene {
	s := &Scene{
		Renderer: Renderer{
			Width:            width,
			Height:           height,
			PixelRatio:       settings.PixelRatio,
			Antialias:        settings.Antialias,
			ShadowMapEnabled: settings.Shadows,
			ShadowMapSize:    settings.ShadowMapSize,
		},
		Background: settings.Background,
		Ambient:    AmbientLight{Color: white, Intensity: settings.AmbientIntensity},
		Directional: DirectionalLight{
			Color:         white,
			Intensity:     settings.DirectionalIntensity,
			Position:      settings.DirectionalPosition,
			CastShadow:    settings.Shadows,
			ShadowMapSize: settings.ShadowMapSize,
			Shadow: ShadowCamera{
				Left: -2, Right: 2, Top: 2, Bottom: -2,
				Near: 1, Far: 20,
			},
		},
		Cube: &Mesh{
			Name:       "cube",
			Geometry:   Box{Size: 0.5},
			Material:   Material{Color: 0xff0000, Wireframe: settings.Wireframe},
			Position:   render.Vec3{Y: 0.5},
			CastShadow: settings.Shadows,
		},
		Floor: &Mesh{
			Name:          "floor",
			Geometry:      Circle{Radius: 2, Segments: 64},
			Material:      Material{Color: white, Wireframe: settings.Wireframe},
			ReceiveShadow: settings.Shadows,
		},
		Camera: Camera{
			FOV:      75,
			Aspect:   aspect(width, height),
			Near:     0.1,
			Far:      100,
			Position: render.Vec3{X: 5, Y: 4, Z: 5},
		},
		Axes:               Overlay{Visible: settings.Helpers.Axes, Size: 2},
		LightHelper:        Overlay{Visible: settings.Helpers.DirectionalLight, Size: 2},
		ShadowCameraHelper: Overlay{Visible: settings.Helpers.ShadowCamera},
		uploaded:           make(map[string]struct{}),
	}
	return s
}

func aspect(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// Meshes returns the scene meshes in draw order
func (s *Scene) Meshes() []*Mesh {
	return []*Mesh{s.Floor, s.Cube}
}

// Resize updates the viewport, camera aspect and pixel ratio
func (s *Scene) Resize(width, height int, nativePixelRatio float64) {
	s.Renderer.Width = width
	s.Renderer.Height = height
	s.Renderer.PixelRatio = render.ResizePixelRatio(nativePixelRatio)
	s.Camera.Aspect = aspect(width, height)
}

// ShadowsActive reports whether the cube shadow is drawn this frame
func (s *Scene) ShadowsActive() bool {
	return s.Renderer.ShadowMapEnabled && s.Directional.CastShadow && s.Cube.CastShadow && s.Floor.ReceiveShadow
}

func (s *Scene) ApplyShadows(enabled bool) {
	s.Renderer.ShadowMapEnabled = enabled
	s.Directional.CastShadow = enabled
	s.Cube.CastShadow = enabled
	s.Floor.ReceiveShadow = enabled
}

func (s *Scene) ApplyWireframe(enabled bool) {
	for _, m := range s.Meshes() {
		m.Material.Wireframe = enabled
	}
}

func (s *Scene) ApplyBackground(c render.Color) {
	s.Background = c
}

func (s *Scene) ApplyHelperVisibility(h render.Helper, visible bool) {
	switch h {
	case render.HelperAxes:
		s.Axes.Visible = visible
	case render.HelperDirectionalLight:
		s.LightHelper.Visible = visible
	case render.HelperShadowCamera:
		s.ShadowCameraHelper.Visible = visible
	}
}

func (s *Scene) ApplyAmbientIntensity(v float64) {
	s.Ambient.Intensity = v
}

func (s *Scene) ApplyDirectionalIntensity(v float64) {
	s.Directional.Intensity = v
}

func (s *Scene) ApplyDirectionalPosition(p render.Vec3) {
	s.Directional.Position = p
}

// RenderInfo returns the counters accumulated since the last reset
func (s *Scene) RenderInfo() render.RenderInfo {
	return s.info
}

// ResetRenderInfo clears the per-frame counters. Geometry and texture
// counts track allocations and are kept.
func (s *Scene) ResetRenderInfo() {
	s.info.Calls = 0
	s.info.Triangles = 0
}

// countDraw records one draw call of geometry id with the given triangle count
func (s *Scene) countDraw(id string, triangles int) {
	s.info.Calls++
	s.info.Triangles += triangles
	if _, ok := s.uploaded[id]; !ok {
		s.uploaded[id] = struct{}{}
		s.info.Geometries = len(s.uploaded)
	}
}
