package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type GeometryKind int

const (
	GeometryCylinder GeometryKind = iota
	GeometryTube                  // open-ended cylinder, lateral surface only
	GeometryDisc                  // circle in the local XY plane facing +Z
	GeometryRing
	GeometrySphere
	GeometryBox
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryCylinder:
		return "cylinder"
	case GeometryTube:
		return "tube"
	case GeometryDisc:
		return "disc"
	case GeometryRing:
		return "ring"
	case GeometrySphere:
		return "sphere"
	case GeometryBox:
		return "box"
	}
	return "unknown"
}

// Geometry is an indexed triangle list with a local-space bounding box.
type Geometry struct {
	Kind     GeometryKind
	Vertices []mgl32.Vec3
	Indices  []uint32
	Bounds   AABB

	disposed bool
}

func (g *Geometry) Dispose() {
	g.disposed = true
	g.Vertices = nil
	g.Indices = nil
}

func (g *Geometry) Disposed() bool {
	return g == nil || g.disposed
}

func newGeometry(kind GeometryKind, vertices []mgl32.Vec3, indices []uint32) *Geometry {
	return &Geometry{
		Kind:     kind,
		Vertices: vertices,
		Indices:  indices,
		Bounds:   boundsOf(vertices),
	}
}

func boundsOf(vertices []mgl32.Vec3) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	inf := float32(1e20)
	b := AABB{Min: mgl32.Vec3{inf, inf, inf}, Max: mgl32.Vec3{-inf, -inf, -inf}}
	for _, v := range vertices {
		b = b.Extend(v)
	}
	return b
}

func ringPoint(radius float32, i, segments int) (float32, float32) {
	theta := 2 * math.Pi * float64(i) / float64(segments)
	return radius * float32(math.Cos(theta)), radius * float32(math.Sin(theta))
}

// NewCylinderGeometry builds a capped cylinder centred on the origin along +Y.
func NewCylinderGeometry(radiusTop, radiusBottom, height float32, segments int) *Geometry {
	g := buildTube(radiusTop, radiusBottom, height, segments)
	half := height / 2

	// Caps: one centre vertex each, fanned over the existing rim vertices.
	rim := uint32(segments)
	topCenter := uint32(len(g.Vertices))
	g.Vertices = append(g.Vertices, mgl32.Vec3{0, half, 0})
	bottomCenter := uint32(len(g.Vertices))
	g.Vertices = append(g.Vertices, mgl32.Vec3{0, -half, 0})
	for i := uint32(0); i < rim; i++ {
		next := (i + 1) % rim
		g.Indices = append(g.Indices, topCenter, i, next)
		g.Indices = append(g.Indices, bottomCenter, rim+next, rim+i)
	}

	return newGeometry(GeometryCylinder, g.Vertices, g.Indices)
}

// NewTubeGeometry builds the lateral surface of a cylinder without caps.
func NewTubeGeometry(radius, height float32, segments int) *Geometry {
	g := buildTube(radius, radius, height, segments)
	return newGeometry(GeometryTube, g.Vertices, g.Indices)
}

func buildTube(radiusTop, radiusBottom, height float32, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	half := height / 2
	vertices := make([]mgl32.Vec3, 0, segments*2)
	for i := 0; i < segments; i++ {
		x, z := ringPoint(radiusTop, i, segments)
		vertices = append(vertices, mgl32.Vec3{x, half, z})
	}
	for i := 0; i < segments; i++ {
		x, z := ringPoint(radiusBottom, i, segments)
		vertices = append(vertices, mgl32.Vec3{x, -half, z})
	}

	n := uint32(segments)
	indices := make([]uint32, 0, segments*6)
	for i := uint32(0); i < n; i++ {
		next := (i + 1) % n
		indices = append(indices, i, n+i, next)
		indices = append(indices, next, n+i, n+next)
	}
	return &Geometry{Vertices: vertices, Indices: indices}
}

// NewDiscGeometry builds a filled circle in the XY plane. Rotate it by -90° about X
// to lay it flat.
func NewDiscGeometry(radius float32, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	vertices := []mgl32.Vec3{{0, 0, 0}}
	for i := 0; i < segments; i++ {
		x, y := ringPoint(radius, i, segments)
		vertices = append(vertices, mgl32.Vec3{x, y, 0})
	}
	indices := make([]uint32, 0, segments*3)
	for i := 1; i <= segments; i++ {
		next := i%segments + 1
		indices = append(indices, 0, uint32(i), uint32(next))
	}
	return newGeometry(GeometryDisc, vertices, indices)
}

// NewRingGeometry builds a flat annulus in the XY plane.
func NewRingGeometry(innerRadius, outerRadius float32, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	vertices := make([]mgl32.Vec3, 0, segments*2)
	for i := 0; i < segments; i++ {
		x, y := ringPoint(innerRadius, i, segments)
		vertices = append(vertices, mgl32.Vec3{x, y, 0})
		x, y = ringPoint(outerRadius, i, segments)
		vertices = append(vertices, mgl32.Vec3{x, y, 0})
	}
	n := uint32(segments)
	indices := make([]uint32, 0, segments*6)
	for i := uint32(0); i < n; i++ {
		in, out := 2*i, 2*i+1
		nextIn, nextOut := 2*((i+1)%n), 2*((i+1)%n)+1
		indices = append(indices, in, out, nextOut)
		indices = append(indices, in, nextOut, nextIn)
	}
	return newGeometry(GeometryRing, vertices, indices)
}

// NewSphereGeometry builds a UV sphere.
func NewSphereGeometry(radius float32, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	rings := segments / 2
	if rings < 2 {
		rings = 2
	}
	var vertices []mgl32.Vec3
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := radius * float32(math.Cos(phi))
		rr := radius * float32(math.Sin(phi))
		for s := 0; s < segments; s++ {
			x, z := ringPoint(rr, s, segments)
			vertices = append(vertices, mgl32.Vec3{x, y, z})
		}
	}
	var indices []uint32
	n := uint32(segments)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < n; s++ {
			a := r*n + s
			b := r*n + (s+1)%n
			c := (r+1)*n + s
			d := (r+1)*n + (s+1)%n
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return newGeometry(GeometrySphere, vertices, indices)
}

// NewBoxGeometry builds an axis-aligned box centred on the origin.
func NewBoxGeometry(w, h, d float32) *Geometry {
	hx, hy, hz := w/2, h/2, d/2
	vertices := []mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return newGeometry(GeometryBox, vertices, indices)
}
