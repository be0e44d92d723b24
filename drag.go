package assembly

import (
	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// SnapTarget identifies the part a committed drop is heading for.
type SnapTarget struct {
	ItemIndex     int
	PartID        PartKind
	ComponentType string
}

// DragController turns pointer events into component drags. A drag starts on a
// component hit, follows a camera-facing plane through the component and ends
// in either a commit (hard match) or a reject.
type DragController struct {
	ctx      *Context
	zones    *HotspotZoneManager
	palette  *Palette
	anim     *AnimationController
	controls CameraControls

	// itemCount bounds zone item indices at commit time.
	itemCount int
	// OnSnapped runs when a committed snap finishes or aborts.
	OnSnapped func(res SnapResult, target SnapTarget)
	// OnRejected runs after a drop that did not commit.
	OnRejected func(c *Component)

	state     DragState
	pointerID int
	dragged   *Component
	plane     render.Plane
	offset    mgl32.Vec3
	pointers  pointerTracker
}

func NewDragController(ctx *Context, zones *HotspotZoneManager, palette *Palette, anim *AnimationController, controls CameraControls) *DragController {
	return &DragController{
		ctx:       ctx,
		zones:     zones,
		palette:   palette,
		anim:      anim,
		controls:  controls,
		pointerID: -1,
	}
}

func (d *DragController) State() DragState {
	return d.state
}

func (d *DragController) Dragged() *Component {
	return d.dragged
}

func (d *DragController) PointerDown(ev PointerEvent) {
	if !ev.valid() {
		return
	}
	if d.pointers.press(ev) > 1 {
		// Extra pointers belong to the camera.
		if d.state == DragDragging {
			d.ctx.logger().Debugf("second pointer down, cancelling drag of %s", d.dragged.Type)
			d.reject()
		}
		return
	}
	if d.state == DragDragging || d.palette == nil {
		return
	}

	ray := d.ctx.Camera.ScreenRay(ev.X, ev.Y)
	hits := render.NewRaycaster(ray).IntersectObjects(d.palette.Draggables(), true)
	if len(hits) == 0 {
		return
	}
	c := d.palette.ComponentForNode(hits[0].Object)
	if c == nil {
		return
	}

	pos := c.Position()
	d.plane = render.NewPlane(d.ctx.Camera.Forward().Mul(-1.0), pos)
	d.offset = mgl32.Vec3{}
	if p, ok := ray.IntersectPlane(d.plane); ok {
		d.offset = pos.Sub(p)
	}

	d.state = DragDragging
	d.pointerID = ev.ID
	d.dragged = c
	c.lift()
	if d.controls != nil {
		d.controls.SetEnabled(false)
	}
	d.zones.Evaluate(c.Type, pos)
	d.ctx.logger().Debugf("drag start %s at %v", c.Type, pos)
}

func (d *DragController) PointerMove(ev PointerEvent) {
	if !ev.valid() {
		return
	}
	dx, dy := d.pointers.move(ev)

	if d.pointers.inPinch(ev.ID) {
		if f, ok := d.pointers.pinchFactor(); ok && d.controls != nil {
			d.controls.Zoom(f)
		}
		return
	}

	if d.state == DragDragging {
		if ev.ID == d.pointerID {
			d.dragTo(ev.X, ev.Y)
		}
		return
	}

	if d.pointers.isDown(ev.ID) && d.controls != nil && d.controls.Enabled() {
		d.controls.Rotate(dx, dy)
	}
}

// PointerUp decides commit or reject before returning.
func (d *DragController) PointerUp(ev PointerEvent) {
	if !ev.valid() {
		return
	}
	d.pointers.release(ev)
	if d.state != DragDragging || ev.ID != d.pointerID {
		return
	}

	d.dragTo(ev.X, ev.Y)
	if d.state != DragDragging {
		// dragTo cancelled a drag on a disposed component.
		return
	}
	hover := d.zones.Evaluate(d.dragged.Type, d.dragged.Position())
	if !hover.Committable() {
		d.reject()
		return
	}
	target, ok := d.resolveTarget(hover.Zone)
	if !ok {
		d.ctx.logger().Warnf("dropped %s on a zone with no usable item index", d.dragged.Type)
		d.reject()
		return
	}
	d.commit(hover.Zone, target)
}

func (d *DragController) dragTo(x, y float64) {
	c := d.dragged
	if !c.Alive() {
		d.ctx.logger().Warnf("dragged component disposed mid-drag")
		d.ctx.metrics().StaleAccess("drag_move")
		d.Cancel()
		return
	}
	ray := d.ctx.Camera.ScreenRay(x, y)
	p, ok := ray.IntersectPlane(d.plane)
	if !ok {
		return
	}
	pos := d.clamp(p.Add(d.offset))
	c.Node.Transform.Position = pos
	d.zones.Evaluate(c.Type, pos)
}

func (d *DragController) clamp(p mgl32.Vec3) mgl32.Vec3 {
	area := d.ctx.Config.PlayArea
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), -area.Horizontal, area.Horizontal),
		mgl32.Clamp(p.Y(), area.MinY, area.MaxY),
		mgl32.Clamp(p.Z(), -area.Horizontal, area.Horizontal),
	}
}

// resolveTarget validates the zone's item index, falling back to the index
// encoded in the zone node name.
func (d *DragController) resolveTarget(z *Zone) (SnapTarget, bool) {
	target := SnapTarget{ItemIndex: z.ItemIndex, PartID: z.PartID, ComponentType: d.dragged.Type}
	if z.ItemIndex >= 0 && z.ItemIndex < d.itemCount && z.PartID.Valid() {
		return target, true
	}
	if z.Node == nil {
		return SnapTarget{}, false
	}
	idx, part, ok := parseZoneName(z.Node.Name)
	if !ok || idx >= d.itemCount {
		return SnapTarget{}, false
	}
	target.ItemIndex, target.PartID = idx, part
	return target, true
}

func (d *DragController) commit(z *Zone, target SnapTarget) {
	c := d.dragged
	c.settle()
	c.snapping = true
	d.release()

	d.ctx.metrics().SnapCommitted(c.Type)
	d.ctx.logger().Debugf("commit %s -> item %d %s", c.Type, target.ItemIndex, target.PartID)

	d.anim.AnimateSnap(c, z.TargetPose(), func(res SnapResult) {
		if d.OnSnapped != nil {
			d.OnSnapped(res, target)
		}
	})
}

// reject leaves the component where it was dropped.
func (d *DragController) reject() {
	c := d.dragged
	c.settle()
	c.restoreScale()
	d.release()

	d.ctx.metrics().DropRejected(c.Type)
	d.ctx.logger().Debugf("reject %s at %v", c.Type, c.Position())
	if d.OnRejected != nil {
		d.OnRejected(c)
	}
}

func (d *DragController) release() {
	d.zones.ClearHover()
	d.state = DragIdle
	d.dragged = nil
	d.pointerID = -1
	if d.controls != nil {
		d.controls.SetEnabled(true)
	}
}

// Cancel drops any drag without committing and forgets pointer state.
func (d *DragController) Cancel() {
	if d.state == DragDragging {
		c := d.dragged
		c.settle()
		c.restoreScale()
		d.release()
	}
	d.pointers.reset()
}

// Rebind points the controller at a new palette after Initialize.
func (d *DragController) Rebind(palette *Palette, itemCount int) {
	d.Cancel()
	d.palette = palette
	d.itemCount = itemCount
}
