package assembly

import (
	"math"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControls is the ambient camera gesture handler. The drag controller
// disables it while an object is held.
type CameraControls interface {
	SetEnabled(enabled bool)
	Enabled() bool
	// Rotate orbits by a pointer delta in pixels.
	Rotate(dx, dy float64)
	// Zoom scales the orbit distance; factor > 1 moves closer.
	Zoom(factor float32)
}

// OrbitControls keeps the camera on a sphere around Target.
type OrbitControls struct {
	Camera      *render.Camera
	Target      mgl32.Vec3
	Distance    float32
	Yaw         float32 // degrees
	Pitch       float32 // degrees
	MinDistance float32
	MaxDistance float32
	RotateSpeed float32

	enabled bool
}

func NewOrbitControls(cam *render.Camera, cfg CameraConfig) *OrbitControls {
	o := &OrbitControls{
		Camera:      cam,
		Target:      mgl32.Vec3{0, cfg.TargetY, 0},
		Distance:    cfg.Distance,
		Yaw:         cfg.Yaw,
		Pitch:       cfg.Pitch,
		MinDistance: cfg.MinZoom,
		MaxDistance: cfg.MaxZoom,
		RotateSpeed: cfg.RotateSpeed,
		enabled:     true,
	}
	if o.RotateSpeed == 0 {
		o.RotateSpeed = 0.3
	}
	o.Update()
	return o
}

func (o *OrbitControls) SetEnabled(enabled bool) {
	o.enabled = enabled
}

func (o *OrbitControls) Enabled() bool {
	return o.enabled
}

func (o *OrbitControls) Rotate(dx, dy float64) {
	if !o.enabled {
		return
	}
	o.Yaw -= float32(dx) * o.RotateSpeed
	o.Pitch += float32(dy) * o.RotateSpeed
	o.Update()
}

func (o *OrbitControls) Zoom(factor float32) {
	if !o.enabled || factor <= 0 {
		return
	}
	o.Distance /= factor
	o.Update()
}

// Update clamps the orbit parameters and writes the camera pose.
func (o *OrbitControls) Update() {
	if o.Pitch > 89.0 {
		o.Pitch = 89.0
	}
	if o.Pitch < -89.0 {
		o.Pitch = -89.0
	}
	if o.MinDistance > 0 && o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.MaxDistance > 0 && o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}

	yawRad := float64(mgl32.DegToRad(o.Yaw))
	pitchRad := float64(mgl32.DegToRad(o.Pitch))
	offset := mgl32.Vec3{
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
	}.Mul(o.Distance)

	if o.Camera != nil {
		o.Camera.Position = o.Target.Add(offset)
		o.Camera.Target = o.Target
		o.Camera.Up = mgl32.Vec3{0, 1, 0}
	}
}
