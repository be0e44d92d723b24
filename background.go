package assembly

import (
	"math"
	"time"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

type orbiting struct {
	node   *render.Node
	center mgl32.Vec3
	radius float32
	speed  float32 // radians per second
	angle  float32
	spin   float32 // self rotation, radians per second
}

// SceneBackground is the decorative layer: a ground disc and a few ornaments
// circling the play area. It is never hit-tested and survives Reset.
type SceneBackground struct {
	group     *render.Node
	ornaments []*orbiting
}

func NewSceneBackground(ctx *Context) *SceneBackground {
	bg := &SceneBackground{
		group: render.NewGroup("background", render.Tag{Kind: render.KindDecoration, ItemIndex: -1}),
	}
	deco := render.Tag{Kind: render.KindDecoration, ItemIndex: -1}

	ground := render.NewMesh("ground", deco, render.NewDiscGeometry(12, 64), render.NewMaterial(mustColor("lightslategray")))
	ground.Transform.Position = mgl32.Vec3{0, -0.01, 0}
	ground.Transform.Rotation = flatRotation()
	bg.group.Add(ground)

	colors := []string{"lightcoral", "khaki", "plum", "paleturquoise"}
	for i, name := range colors {
		n := render.NewMesh("ornament", deco, render.NewSphereGeometry(0.25, 12), render.NewMaterial(mustColor(name)))
		o := &orbiting{
			node:   n,
			center: mgl32.Vec3{0, 6 + float32(i%2), 0},
			radius: 9,
			speed:  0.15 + 0.05*float32(i),
			angle:  float32(i) * math.Pi / 2,
			spin:   0.8,
		}
		o.apply()
		bg.group.Add(n)
		bg.ornaments = append(bg.ornaments, o)
	}

	ctx.Scene.Add(bg.group)
	return bg
}

func (o *orbiting) apply() {
	o.node.Transform.Position = o.center.Add(mgl32.Vec3{
		o.radius * float32(math.Cos(float64(o.angle))),
		0,
		o.radius * float32(math.Sin(float64(o.angle))),
	})
}

func (bg *SceneBackground) Advance(dt time.Duration) {
	secs := float32(dt.Seconds())
	if secs <= 0 {
		return
	}
	for _, o := range bg.ornaments {
		o.angle = float32(math.Mod(float64(o.angle+o.speed*secs), 2*math.Pi))
		o.apply()
		spin := mgl32.QuatRotate(o.spin*secs, mgl32.Vec3{0, 1, 0})
		o.node.Transform.Rotation = spin.Mul(o.node.Transform.Rotation).Normalize()
	}
}

func (bg *SceneBackground) Group() *render.Node {
	return bg.group
}
