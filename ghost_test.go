package assembly

import (
	"testing"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBlueprintGhostsAndSolids(t *testing.T) {
	ctx := newTestContext()
	r := NewGhostSolidRenderer(ctx)
	bp := twoItemBlueprint()

	r.RenderBlueprint(bp, CompletionState{1: {PartBottom: true}})

	assert.True(t, r.IsGhost(0))
	assert.False(t, r.IsSolid(0))
	assert.True(t, r.IsSolid(1))
	assert.True(t, r.IsPromoted(1), "solids rendered directly count as promoted")
	assert.Equal(t, 1, ctx.Scene.Count(render.KindGhost))
	assert.Equal(t, 1, ctx.Scene.Count(render.KindSolid))

	ghost := ctx.Scene.FindTagged(render.KindGhost, 0)
	require.NotNil(t, ghost)
	assert.True(t, ghost.Transform.Position.ApproxEqual(bp.Items[0].Position))
	require.Len(t, ghost.Children(), 2)
	assert.True(t, ghost.Children()[0].Material.Transparent)
}

func TestPromoteSwapsAtGhostPose(t *testing.T) {
	ctx := newTestContext()
	r := NewGhostSolidRenderer(ctx)
	r.RenderBlueprint(singleItemBlueprint(), CompletionState{})

	ghost := ctx.Scene.FindTagged(render.KindGhost, 0)
	require.NotNil(t, ghost)
	// The swap copies whatever pose the ghost has, not the blueprint pose.
	ghost.Transform.Position = mgl32.Vec3{0.3, 1.2, -0.4}
	ghost.Transform.Rotation = mgl32.QuatRotate(0.2, mgl32.Vec3{0, 1, 0})
	ghostParts := ghost.Children()

	require.True(t, r.Promote(0))

	solid := ctx.Scene.FindTagged(render.KindSolid, 0)
	require.NotNil(t, solid)
	assert.Equal(t, ghost.Transform, solid.Transform)
	assert.True(t, ghost.Disposed())
	for _, c := range ghostParts {
		assert.True(t, c.Disposed())
		assert.True(t, c.Geometry.Disposed())
		assert.True(t, c.Material.Disposed())
	}
	assert.False(t, r.IsGhost(0))
	assert.True(t, r.IsSolid(0))
}

func TestPromoteIsOneWayAndIdempotent(t *testing.T) {
	ctx := newTestContext()
	r := NewGhostSolidRenderer(ctx)
	bp := singleItemBlueprint()
	r.RenderBlueprint(bp, CompletionState{})

	require.True(t, r.Promote(0))
	solid := ctx.Scene.FindTagged(render.KindSolid, 0)

	assert.False(t, r.Promote(0))
	assert.Same(t, solid, ctx.Scene.FindTagged(render.KindSolid, 0))
	assert.Equal(t, 1, ctx.Scene.Count(render.KindSolid))

	// The promoted set survives a re-render with an empty state.
	r.RenderBlueprint(bp, CompletionState{})
	assert.False(t, r.IsGhost(0))
	assert.True(t, r.IsSolid(0))

	r.ResetPromoted()
	r.RenderBlueprint(bp, CompletionState{})
	assert.True(t, r.IsGhost(0))
}

func TestPromoteWithoutGhost(t *testing.T) {
	ctx := newTestContext()
	r := NewGhostSolidRenderer(ctx)
	assert.False(t, r.Promote(0), "nothing rendered yet")

	r.RenderBlueprint(singleItemBlueprint(), CompletionState{})
	assert.False(t, r.Promote(3))
	ctx.Scene.FindTagged(render.KindGhost, 0).Dispose()
	assert.False(t, r.Promote(0))
	assert.False(t, r.IsPromoted(0))
}

func TestRenderBlueprintScalesItems(t *testing.T) {
	ctx := newTestContext()
	ctx.Config.Scale = 0.5
	r := NewGhostSolidRenderer(ctx)
	bp := singleItemBlueprint()
	r.RenderBlueprint(bp, CompletionState{})

	ghost := ctx.Scene.FindTagged(render.KindGhost, 0)
	assert.True(t, ghost.Transform.Position.ApproxEqual(mgl32.Vec3{0, 0.5, 0}))
	body := ghost.Children()[0]
	assert.InDelta(t, 0.5, body.Geometry.Bounds.Max.Y(), 1e-5)
}
