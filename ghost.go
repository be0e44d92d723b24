package assembly

import (
	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	itemSegments   = 48
	ghostOpacity   = 0.25
	outlineOpacity = 0.6
)

// GhostSolidRenderer owns the item representations. Each item is a ghost until
// promoted; promotion is one way and remembered across re-renders.
type GhostSolidRenderer struct {
	ctx       *Context
	blueprint *Blueprint
	group     *render.Node
	promoted  map[int]bool
}

func NewGhostSolidRenderer(ctx *Context) *GhostSolidRenderer {
	return &GhostSolidRenderer{
		ctx:      ctx,
		promoted: make(map[int]bool),
	}
}

// RenderBlueprint replaces the previous item group: complete items come back as
// solids, the rest as ghosts.
func (r *GhostSolidRenderer) RenderBlueprint(bp *Blueprint, state CompletionState) *render.Node {
	r.Clear()
	r.blueprint = bp

	r.group = render.NewGroup("items", render.Tag{Kind: render.KindNone, ItemIndex: -1})
	for i, item := range bp.Items {
		if state.ItemComplete(bp, i) || r.promoted[i] {
			solid := r.buildSolid(i, item)
			solid.Transform.Position = r.itemPosition(item)
			r.group.Add(solid)
			r.promoted[i] = true
			continue
		}
		ghost := r.buildGhost(i, item)
		ghost.Transform.Position = r.itemPosition(item)
		r.group.Add(ghost)
	}
	r.ctx.Scene.Add(r.group)
	return r.group
}

func (r *GhostSolidRenderer) scale() float32 {
	if s := r.ctx.Config.Scale; s > 0 {
		return s
	}
	return 1
}

func (r *GhostSolidRenderer) itemPosition(item Item) mgl32.Vec3 {
	return item.Position.Mul(r.scale())
}

func (r *GhostSolidRenderer) buildGhost(itemIndex int, item Item) *render.Node {
	s := r.scale()
	radius, height := item.Params.Radius*s, item.Params.Height*s
	color := mustColor(item.Color)

	ghost := render.NewGroup("ghost:"+item.ID, render.Tag{Kind: render.KindGhost, ItemIndex: itemIndex})
	deco := render.Tag{Kind: render.KindDecoration, ItemIndex: itemIndex}

	body := render.NewMesh("body", deco,
		render.NewCylinderGeometry(radius, radius, height, itemSegments),
		render.NewTranslucentMaterial(color, ghostOpacity))

	outlineMat := render.NewTranslucentMaterial(color, outlineOpacity)
	outlineMat.Wireframe = true
	outline := render.NewMesh("outline", deco,
		render.NewCylinderGeometry(radius, radius, height, itemSegments/4),
		outlineMat)

	ghost.Add(body, outline)
	return ghost
}

func (r *GhostSolidRenderer) buildSolid(itemIndex int, item Item) *render.Node {
	s := r.scale()
	radius, height := item.Params.Radius*s, item.Params.Height*s
	color := mustColor(item.Color)

	solid := render.NewGroup("solid:"+item.ID, render.Tag{Kind: render.KindSolid, ItemIndex: itemIndex})
	deco := render.Tag{Kind: render.KindDecoration, ItemIndex: itemIndex}

	body := render.NewMesh("body", deco,
		render.NewCylinderGeometry(radius, radius, height, itemSegments),
		render.NewMaterial(color))
	solid.Add(body)

	// Caps sit a hair outside the body to avoid z-fighting.
	capColor := [4]float32{color[0] * 0.85, color[1] * 0.85, color[2] * 0.85, 1}
	for _, y := range []float32{height/2 + 0.002, -height/2 - 0.002} {
		cp := render.NewMesh("cap", deco, render.NewDiscGeometry(radius, itemSegments), render.NewMaterial(capColor))
		cp.Transform.Position = mgl32.Vec3{0, y, 0}
		cp.Transform.Rotation = flatRotation()
		solid.Add(cp)
	}
	return solid
}

// Promote swaps the ghost of itemIndex for a solid at the ghost's exact pose.
// Returns false when the item was already promoted or has no ghost.
func (r *GhostSolidRenderer) Promote(itemIndex int) bool {
	if r.promoted[itemIndex] {
		return false
	}
	if r.group == nil || r.blueprint == nil || itemIndex < 0 || itemIndex >= len(r.blueprint.Items) {
		return false
	}
	ghost := r.group.FindTagged(render.KindGhost, itemIndex)
	if ghost == nil || ghost.Disposed() {
		r.ctx.logger().Warnf("no ghost to promote for item %d", itemIndex)
		r.ctx.metrics().StaleAccess("promote")
		return false
	}

	solid := r.buildSolid(itemIndex, r.blueprint.Items[itemIndex])
	solid.Transform = ghost.Transform
	ghost.Dispose()
	r.group.Add(solid)
	r.promoted[itemIndex] = true

	r.ctx.metrics().ItemPromoted(itemIndex)
	r.ctx.logger().Infof("item %d (%s) promoted to solid", itemIndex, r.blueprint.Items[itemIndex].ID)
	return true
}

func (r *GhostSolidRenderer) IsGhost(itemIndex int) bool {
	return r.group != nil && r.group.FindTagged(render.KindGhost, itemIndex) != nil
}

func (r *GhostSolidRenderer) IsSolid(itemIndex int) bool {
	return r.group != nil && r.group.FindTagged(render.KindSolid, itemIndex) != nil
}

func (r *GhostSolidRenderer) IsPromoted(itemIndex int) bool {
	return r.promoted[itemIndex]
}

// ResetPromoted forgets every promotion. Call it together with the tracker reset.
func (r *GhostSolidRenderer) ResetPromoted() {
	r.promoted = make(map[int]bool)
}

func (r *GhostSolidRenderer) Group() *render.Node {
	return r.group
}

func (r *GhostSolidRenderer) Clear() {
	if r.group != nil {
		r.group.Dispose()
		r.group = nil
	}
}
