package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b AABB) Extend(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(b.Min.X(), p.X()), min(b.Min.Y(), p.Y()), min(b.Min.Z(), p.Z())},
		Max: mgl32.Vec3{max(b.Max.X(), p.X()), max(b.Max.Y(), p.Y()), max(b.Max.Z(), p.Z())},
	}
}

// Inflate grows the box by pad on every side. Flat geometry (discs, rings) has a
// zero-thickness box that a slab test would otherwise never hit.
func (b AABB) Inflate(pad float32) AABB {
	p := mgl32.Vec3{pad, pad, pad}
	return AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}

// Ray is a half-line; Dir is expected to be normalized.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectAABB runs a slab test and returns the entry distance along the ray.
func (r Ray) IntersectAABB(b AABB) (float32, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		if math.Abs(float64(d)) < 1e-8 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (b.Min[axis] - o) * inv
		t2 := (b.Max[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// Origin inside the box.
		return 0, true
	}
	return tMin, true
}

// IntersectPlane returns the point where the ray meets the plane. Rays parallel to
// the plane or pointing away from it do not intersect.
func (r Ray) IntersectPlane(p Plane) (mgl32.Vec3, bool) {
	denom := r.Dir.Dot(p.Normal)
	if math.Abs(float64(denom)) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// Plane is defined by a unit normal and any point on it.
type Plane struct {
	Normal mgl32.Vec3
	Point  mgl32.Vec3
}

func NewPlane(normal, point mgl32.Vec3) Plane {
	return Plane{Normal: normal.Normalize(), Point: point}
}

// Distance is the signed distance from p to the plane.
func (pl Plane) Distance(p mgl32.Vec3) float32 {
	return p.Sub(pl.Point).Dot(pl.Normal)
}

// Project returns the closest point on the plane to p.
func (pl Plane) Project(p mgl32.Vec3) mgl32.Vec3 {
	return p.Sub(pl.Normal.Mul(pl.Distance(p)))
}
