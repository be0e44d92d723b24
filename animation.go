package assembly

import (
	"time"

	"github.com/gekko3d/assembly/render"
)

// Pose is a world transform.
type Pose = render.Transform

func NewPose() Pose {
	return render.NewTransform()
}

// SnapResult is handed to onComplete exactly once per snap.
type SnapResult struct {
	Component *Component
	Aborted   bool
}

func EaseOutCubic(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

type snapAnimation struct {
	component  *Component
	from       Pose
	to         Pose
	elapsed    time.Duration
	duration   time.Duration
	onComplete func(SnapResult)
	done       bool
}

func (a *snapAnimation) finish(aborted bool) {
	if a.done {
		return
	}
	a.done = true
	if a.onComplete != nil {
		a.onComplete(SnapResult{Component: a.component, Aborted: aborted})
	}
}

// AnimationController interpolates snapped components into their zone pose.
// It never blocks: the host calls Advance once per frame.
type AnimationController struct {
	ctx      *Context
	duration time.Duration
	active   []*snapAnimation
}

func NewAnimationController(ctx *Context) *AnimationController {
	return &AnimationController{
		ctx:      ctx,
		duration: ctx.Config.AnimationDuration,
	}
}

func (a *AnimationController) SetDuration(d time.Duration) {
	a.duration = d
}

func (a *AnimationController) Duration() time.Duration {
	return a.duration
}

// AnimateSnap starts moving c from its current pose to target. A component that
// is already gone completes immediately as aborted.
func (a *AnimationController) AnimateSnap(c *Component, target Pose, onComplete func(SnapResult)) {
	anim := &snapAnimation{
		component:  c,
		to:         target,
		duration:   a.duration,
		onComplete: onComplete,
	}
	if c == nil || !c.Alive() {
		a.ctx.logger().Warnf("snap requested for a disposed component")
		a.ctx.metrics().StaleAccess("snap_start")
		anim.finish(true)
		return
	}
	anim.from = c.Node.Transform
	a.active = append(a.active, anim)
}

// Advance moves every running animation forward by dt. Callbacks run after the
// component poses are updated and may start new animations.
func (a *AnimationController) Advance(dt time.Duration) {
	if len(a.active) == 0 {
		return
	}
	running := a.active
	a.active = nil

	var kept []*snapAnimation
	var finished []*snapAnimation
	var aborted []*snapAnimation
	for _, anim := range running {
		if !anim.component.Alive() {
			aborted = append(aborted, anim)
			continue
		}
		anim.elapsed += dt
		t := float32(1)
		if anim.duration > 0 {
			t = float32(anim.elapsed) / float32(anim.duration)
		}
		if t >= 1 {
			anim.component.Node.Transform = anim.to
			finished = append(finished, anim)
			continue
		}
		anim.component.Node.Transform = anim.from.Lerp(anim.to, EaseOutCubic(t))
		kept = append(kept, anim)
	}
	a.active = kept

	for _, anim := range aborted {
		a.ctx.logger().Warnf("snap of %s aborted: component disposed", anim.component.Type)
		a.ctx.metrics().StaleAccess("snap_advance")
		anim.finish(true)
	}
	for _, anim := range finished {
		anim.finish(false)
	}
}

// AbortAll stops every running animation; each onComplete still runs once.
func (a *AnimationController) AbortAll() {
	running := a.active
	a.active = nil
	for _, anim := range running {
		anim.finish(true)
	}
}

func (a *AnimationController) Active() int {
	return len(a.active)
}
