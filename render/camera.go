package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a Y-up perspective camera looking at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // degrees
	Near     float32
	Far      float32

	Width  int
	Height int
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 5, 14},
		Target:   mgl32.Vec3{0, 2, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     45.0,
		Near:     0.1,
		Far:      1000.0,
		Width:    width,
		Height:   height,
	}
}

func (c *Camera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

func (c *Camera) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1.0
	}
	return float32(c.Width) / float32(c.Height)
}

func (c *Camera) Forward() mgl32.Vec3 {
	f := c.Target.Sub(c.Position)
	if f.Len() < 1e-6 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// ScreenToNDC converts pixel coordinates (origin top-left) to normalized device
// coordinates in [-1, 1] with +Y up.
func (c *Camera) ScreenToNDC(x, y float64) mgl32.Vec2 {
	w, h := float64(c.Width), float64(c.Height)
	if w <= 0 || h <= 0 {
		return mgl32.Vec2{0, 0}
	}
	return mgl32.Vec2{
		float32(2.0*x/w - 1.0),
		float32(1.0 - 2.0*y/h),
	}
}

// RayFromNDC unprojects the near and far points under ndc into a world ray.
func (c *Camera) RayFromNDC(ndc mgl32.Vec2) Ray {
	inv := c.ViewProjection().Inv()

	near := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})
	if near.W() != 0 {
		near = near.Mul(1.0 / near.W())
	}
	if far.W() != 0 {
		far = far.Mul(1.0 / far.W())
	}

	dir := far.Vec3().Sub(near.Vec3())
	if dir.Len() < 1e-9 {
		dir = c.Forward()
	}
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

func (c *Camera) ScreenRay(x, y float64) Ray {
	return c.RayFromNDC(c.ScreenToNDC(x, y))
}

// Project maps a world position to pixel coordinates. ok is false when the point
// is behind the camera or outside the viewport.
func (c *Camera) Project(pos mgl32.Vec3) (float64, float64, bool) {
	clip := c.ViewProjection().Mul4x1(pos.Vec4(1.0))
	if clip.W() < c.Near {
		return 0, 0, false
	}

	ndc := clip.Vec3().Mul(1.0 / clip.W())
	w, h := float64(c.Width), float64(c.Height)
	x := (float64(ndc.X())*0.5 + 0.5) * w
	y := (1.0 - (float64(ndc.Y())*0.5 + 0.5)) * h

	if x < 0 || x > w || y < 0 || y > h {
		return x, y, false
	}
	return x, y, true
}
