package scene

import (
	"math"

	"github.com/nmxmxh/xrscene/kernel/render"
)

type vec3 = render.Vec3

func add(a, b vec3) vec3           { return vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
func sub(a, b vec3) vec3           { return vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func scale(a vec3, k float64) vec3 { return vec3{X: a.X * k, Y: a.Y * k, Z: a.Z * k} }
func dot(a, b vec3) float64        { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func cross(a, b vec3) vec3 {
	return vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func length(a vec3) float64 { return math.Sqrt(dot(a, a)) }

func normalize(a vec3) vec3 {
	l := length(a)
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}

// rotate applies Euler XYZ rotation r to v (Z first, then Y, then X)
func rotate(v, r vec3) vec3 {
	if r.Z != 0 {
		s, c := math.Sincos(r.Z)
		v = vec3{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c, Z: v.Z}
	}
	if r.Y != 0 {
		s, c := math.Sincos(r.Y)
		v = vec3{X: v.X*c + v.Z*s, Y: v.Y, Z: -v.X*s + v.Z*c}
	}
	if r.X != 0 {
		s, c := math.Sincos(r.X)
		v = vec3{X: v.X, Y: v.Y*c - v.Z*s, Z: v.Y*s + v.Z*c}
	}
	return v
}

// point2 is a projected point in device pixels with its view depth
type point2 struct {
	X, Y  float64
	Depth float64
}

// projector maps world positions to device pixels for one frame
type projector struct {
	eye                   vec3
	right, up, forward    vec3
	tanHalf, aspect, near float64
	width, height         float64
}

func newProjector(cam Camera, width, height float64) projector {
	forward := normalize(sub(cam.Target, cam.Position))
	worldUp := vec3{Y: 1}
	if math.Abs(dot(forward, worldUp)) > 0.999 {
		worldUp = vec3{Z: -1}
	}
	right := normalize(cross(forward, worldUp))
	up := cross(right, forward)

	near := cam.Near
	if near <= 0 {
		near = 0.1
	}
	a := cam.Aspect
	if a <= 0 {
		a = width / math.Max(height, 1)
	}
	return projector{
		eye:     cam.Position,
		right:   right,
		up:      up,
		forward: forward,
		tanHalf: math.Tan(cam.FOV * math.Pi / 360),
		aspect:  a,
		near:    near,
		width:   width,
		height:  height,
	}
}

// project returns false for points behind the near plane
func (p projector) project(v vec3) (point2, bool) {
	d := sub(v, p.eye)
	z := dot(d, p.forward)
	if z < p.near {
		return point2{}, false
	}
	ndcX := dot(d, p.right) / (z * p.tanHalf * p.aspect)
	ndcY := dot(d, p.up) / (z * p.tanHalf)
	return point2{
		X:     (ndcX + 1) / 2 * p.width,
		Y:     (1 - ndcY) / 2 * p.height,
		Depth: z,
	}, true
}

// boxCorners returns the eight transformed corners of a box mesh
func boxCorners(m *Mesh, size float64) [8]vec3 {
	h := size / 2
	var out [8]vec3
	for i := 0; i < 8; i++ {
		local := vec3{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			local.X = h
		}
		if i&2 != 0 {
			local.Y = h
		}
		if i&4 != 0 {
			local.Z = h
		}
		out[i] = add(m.Position, rotate(local, m.Rotation))
	}
	return out
}

// boxFaces indexes boxCorners, wound counter-clockwise seen from outside
var boxFaces = [6]struct {
	idx    [4]int
	normal vec3
}{
	{[4]int{1, 3, 7, 5}, vec3{X: 1}},
	{[4]int{0, 4, 6, 2}, vec3{X: -1}},
	{[4]int{2, 6, 7, 3}, vec3{Y: 1}},
	{[4]int{0, 1, 5, 4}, vec3{Y: -1}},
	{[4]int{4, 5, 7, 6}, vec3{Z: 1}},
	{[4]int{0, 2, 3, 1}, vec3{Z: -1}},
}

// circlePoints returns the rim of a disc lying in the XZ plane
func circlePoints(m *Mesh, c Circle) []vec3 {
	n := c.Segments
	if n < 3 {
		n = 3
	}
	pts := make([]vec3, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = add(m.Position, vec3{X: c.Radius * math.Cos(a), Z: c.Radius * math.Sin(a)})
	}
	return pts
}

// shadowOnFloor projects pts along the light direction onto y = 0 and
// returns the convex outline. ok is false when the light is at or below the floor.
func shadowOnFloor(pts []vec3, lightDir vec3) ([]vec3, bool) {
	if lightDir.Y <= 1e-6 {
		return nil, false
	}
	flat := make([]vec3, len(pts))
	for i, p := range pts {
		t := p.Y / lightDir.Y
		flat[i] = vec3{X: p.X - lightDir.X*t, Y: 0.001, Z: p.Z - lightDir.Z*t}
	}
	return convexHullXZ(flat), true
}

// convexHullXZ is Andrew's monotone chain over the X/Z coordinates
func convexHullXZ(pts []vec3) []vec3 {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]vec3(nil), pts...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && lessXZ(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	turn := func(o, a, b vec3) float64 {
		return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
	}
	hull := make([]vec3, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func lessXZ(a, b vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

// lightBasis returns two unit vectors spanning the plane perpendicular to dir
func lightBasis(dir vec3) (vec3, vec3) {
	ref := vec3{Y: 1}
	if math.Abs(dot(dir, ref)) > 0.999 {
		ref = vec3{X: 1}
	}
	r := normalize(cross(dir, ref))
	return r, cross(r, dir)
}
