package scene

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/gogpu/gg"

	"github.com/nmxmxh/xrscene/kernel/render"
	"github.com/nmxmxh/xrscene/kernel/utils"
)

// ErrEmptyViewport is returned when the scene has no drawable area
var ErrEmptyViewport = errors.New("scene: viewport has zero size")

// MaxSurfaceSide bounds the backing surface so a bogus resize cannot allocate gigabytes
const MaxSurfaceSide = 8192

const shadowOpacity = 0.45

const frustumColor render.Color = 0xffaa00

var axisColors = [3]render.Color{0xff0000, 0x00ff00, 0x0000ff}

// Rasterizer draws a Scene into an image with a software 2D canvas:
// perspective projection, painter's ordering and Lambert shading.
type Rasterizer struct {
	logger *utils.Logger
	frames int64
}

// NewRasterizer creates a rasterizer
func NewRasterizer(logger *utils.Logger) *Rasterizer {
	return &Rasterizer{logger: utils.OrGlobal(logger).Named("raster")}
}

// SurfaceSize returns the backing surface size in device pixels
func SurfaceSize(s *Scene) (int, int) {
	pr := s.Renderer.PixelRatio
	if pr <= 0 || math.IsNaN(pr) {
		pr = 1
	}
	w := int(math.Round(float64(s.Renderer.Width) * pr))
	h := int(math.Round(float64(s.Renderer.Height) * pr))
	if w > MaxSurfaceSide {
		w = MaxSurfaceSide
	}
	if h > MaxSurfaceSide {
		h = MaxSurfaceSide
	}
	return w, h
}

// Render draws one frame and updates the scene's render info counters
func (r *Rasterizer) Render(s *Scene) (*image.RGBA, error) {
	w, h := SurfaceSize(s)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyViewport
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	r.draw(dc, s, w, h)
	r.frames++

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, errors.New("scene: unexpected surface type")
	}
	return img, nil
}

// Snapshot renders one frame to a PNG file
func (r *Rasterizer) Snapshot(s *Scene, path string) error {
	w, h := SurfaceSize(s)
	if w <= 0 || h <= 0 {
		return ErrEmptyViewport
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	r.draw(dc, s, w, h)
	if err := dc.SavePNG(path); err != nil {
		return utils.WrapError(err, "save snapshot")
	}
	r.logger.Info("Snapshot written", utils.String("path", path), utils.Int("width", w), utils.Int("height", h))
	return nil
}

// Frames returns how many frames were rendered
func (r *Rasterizer) Frames() int64 {
	return r.frames
}

func (r *Rasterizer) draw(dc *gg.Context, s *Scene, w, h int) {
	// per-frame counters restart with every frame, like renderer.info.autoReset
	s.ResetRenderInfo()

	br, bg, bb := s.Background.RGB()
	dc.ClearWithColor(gg.RGB(br, bg, bb))

	proj := newProjector(s.Camera, float64(w), float64(h))
	lightDir := normalize(sub(s.Directional.Position, s.Directional.Target))
	lineWidth := math.Max(1, s.Renderer.PixelRatio)

	// the shadow pass renders the caster into the shadow map first
	if s.ShadowsActive() {
		s.countDraw("shadow:"+s.Cube.Geometry.Kind(), s.Cube.Geometry.Triangles())
	}

	r.drawFloor(dc, s, proj, lightDir, lineWidth)
	if s.ShadowsActive() {
		r.drawShadow(dc, s, proj, lightDir)
	}
	r.drawCube(dc, s, proj, lightDir, lineWidth)

	if s.Axes.Visible {
		r.drawAxes(dc, s, proj, lineWidth)
	}
	if s.LightHelper.Visible {
		r.drawLightHelper(dc, s, proj, lightDir, lineWidth)
	}
	if s.ShadowCameraHelper.Visible {
		r.drawShadowFrustum(dc, s, proj, lightDir, lineWidth)
	}
}

// shade returns the lit colour of a surface with normal n
func shade(s *Scene, base render.Color, n, lightDir vec3) (float64, float64, float64) {
	br, bg, bb := base.RGB()
	ar, ag, ab := s.Ambient.Color.RGB()
	lr, lg, lb := s.Directional.Color.RGB()

	diffuse := math.Max(0, dot(n, lightDir)) * s.Directional.Intensity
	ai := s.Ambient.Intensity
	return clamp01(br * (ar*ai + lr*diffuse)),
		clamp01(bg * (ag*ai + lg*diffuse)),
		clamp01(bb * (ab*ai + lb*diffuse))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func (r *Rasterizer) polygon(dc *gg.Context, proj projector, pts []vec3) bool {
	for i, p := range pts {
		sp, ok := proj.project(p)
		if !ok {
			dc.ClearPath()
			return false
		}
		if i == 0 {
			dc.MoveTo(sp.X, sp.Y)
		} else {
			dc.LineTo(sp.X, sp.Y)
		}
	}
	dc.ClosePath()
	return true
}

func (r *Rasterizer) line(dc *gg.Context, proj projector, a, b vec3) {
	pa, okA := proj.project(a)
	pb, okB := proj.project(b)
	if !okA || !okB {
		return
	}
	dc.DrawLine(pa.X, pa.Y, pb.X, pb.Y)
	_ = dc.Stroke()
}

func (r *Rasterizer) drawFloor(dc *gg.Context, s *Scene, proj projector, lightDir vec3, lineWidth float64) {
	floor := s.Floor
	circle, ok := floor.Geometry.(Circle)
	if !ok {
		return
	}
	rim := circlePoints(floor, circle)
	s.countDraw(floor.Geometry.Kind(), floor.Geometry.Triangles())

	// double sided: light whichever face points at the camera
	normal := vec3{Y: 1}
	if dot(sub(s.Camera.Position, floor.Position), normal) < 0 {
		normal = vec3{Y: -1}
	}
	cr, cg, cb := shade(s, floor.Material.Color, normal, lightDir)
	dc.SetRGB(cr, cg, cb)

	if floor.Material.Wireframe {
		dc.SetLineWidth(lineWidth)
		for i := range rim {
			r.line(dc, proj, floor.Position, rim[i])
			r.line(dc, proj, rim[i], rim[(i+1)%len(rim)])
		}
		return
	}
	if r.polygon(dc, proj, rim) {
		_ = dc.Fill()
	}
}

func (r *Rasterizer) drawShadow(dc *gg.Context, s *Scene, proj projector, lightDir vec3) {
	box, ok := s.Cube.Geometry.(Box)
	if !ok {
		return
	}
	corners := boxCorners(s.Cube, box.Size)
	outline, ok := shadowOnFloor(corners[:], lightDir)
	if !ok || len(outline) < 3 {
		return
	}
	dc.SetRGBA(0, 0, 0, shadowOpacity)
	if r.polygon(dc, proj, outline) {
		_ = dc.Fill()
	}
}

type projectedFace struct {
	pts    [4]vec3
	normal vec3
	depth  float64
}

func (r *Rasterizer) drawCube(dc *gg.Context, s *Scene, proj projector, lightDir vec3, lineWidth float64) {
	cube := s.Cube
	box, ok := cube.Geometry.(Box)
	if !ok {
		return
	}
	s.countDraw(cube.Geometry.Kind(), cube.Geometry.Triangles())
	corners := boxCorners(cube, box.Size)

	faces := make([]projectedFace, 0, len(boxFaces))
	for _, f := range boxFaces {
		var pf projectedFace
		var center vec3
		for i, idx := range f.idx {
			pf.pts[i] = corners[idx]
			center = add(center, corners[idx])
		}
		center = scale(center, 0.25)
		pf.normal = rotate(f.normal, cube.Rotation)
		if !cube.Material.Wireframe && dot(pf.normal, sub(s.Camera.Position, center)) <= 0 {
			continue
		}
		pf.depth = length(sub(center, s.Camera.Position))
		faces = append(faces, pf)
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	for _, f := range faces {
		cr, cg, cb := shade(s, cube.Material.Color, f.normal, lightDir)
		dc.SetRGB(cr, cg, cb)
		if cube.Material.Wireframe {
			dc.SetLineWidth(lineWidth)
			for i := 0; i < 4; i++ {
				r.line(dc, proj, f.pts[i], f.pts[(i+1)%4])
			}
			r.line(dc, proj, f.pts[0], f.pts[2])
			continue
		}
		if r.polygon(dc, proj, f.pts[:]) {
			_ = dc.Fill()
		}
	}
}

func (r *Rasterizer) drawAxes(dc *gg.Context, s *Scene, proj projector, lineWidth float64) {
	size := s.Axes.Size
	ends := [3]vec3{{X: size}, {Y: size}, {Z: size}}
	dc.SetLineWidth(lineWidth)
	for i, end := range ends {
		cr, cg, cb := axisColors[i].RGB()
		dc.SetRGB(cr, cg, cb)
		r.line(dc, proj, vec3{}, end)
	}
	s.countDraw("axes", 0)
}

func (r *Rasterizer) drawLightHelper(dc *gg.Context, s *Scene, proj projector, lightDir vec3, lineWidth float64) {
	pos := s.Directional.Position
	half := s.LightHelper.Size / 2
	u, v := lightBasis(lightDir)

	square := []vec3{
		add(pos, add(scale(u, -half), scale(v, half))),
		add(pos, add(scale(u, half), scale(v, half))),
		add(pos, add(scale(u, half), scale(v, -half))),
		add(pos, add(scale(u, -half), scale(v, -half))),
	}
	cr, cg, cb := s.Directional.Color.RGB()
	dc.SetRGB(cr, cg, cb)
	dc.SetLineWidth(lineWidth)
	for i := range square {
		r.line(dc, proj, square[i], square[(i+1)%len(square)])
	}
	r.line(dc, proj, pos, s.Directional.Target)
	s.countDraw("light-helper", 0)
}

func (r *Rasterizer) drawShadowFrustum(dc *gg.Context, s *Scene, proj projector, lightDir vec3, lineWidth float64) {
	sc := s.Directional.Shadow
	pos := s.Directional.Position
	u, v := lightBasis(lightDir)
	forward := scale(lightDir, -1)

	corner := func(depth, x, y float64) vec3 {
		return add(pos, add(scale(forward, depth), add(scale(u, x), scale(v, y))))
	}
	var near, far [4]vec3
	xs := [4]float64{sc.Left, sc.Right, sc.Right, sc.Left}
	ys := [4]float64{sc.Top, sc.Top, sc.Bottom, sc.Bottom}
	for i := 0; i < 4; i++ {
		near[i] = corner(sc.Near, xs[i], ys[i])
		far[i] = corner(sc.Far, xs[i], ys[i])
	}

	cr, cg, cb := frustumColor.RGB()
	dc.SetRGB(cr, cg, cb)
	dc.SetLineWidth(lineWidth)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		r.line(dc, proj, near[i], near[j])
		r.line(dc, proj, far[i], far[j])
		r.line(dc, proj, near[i], far[i])
	}
	s.countDraw("shadow-camera-helper", 0)
}
