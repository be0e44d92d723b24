package assembly

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressOnEmptySpaceOrbitsCamera(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	before := e.Camera().Position

	e.PointerDown(PointerEvent{ID: 0, X: 5, Y: 5})
	assert.Equal(t, DragIdle, e.Drag().State())
	assert.True(t, e.Controls().Enabled())

	e.PointerMove(PointerEvent{ID: 0, X: 45, Y: 5})
	e.PointerUp(PointerEvent{ID: 0, X: 45, Y: 5})
	assert.False(t, e.Camera().Position.ApproxEqualThreshold(before, 1e-3), "camera should orbit")
}

func TestHoverWithoutPressDoesNothing(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	before := e.Camera().Position

	e.PointerMove(PointerEvent{ID: 0, X: 300, Y: 300})
	e.PointerMove(PointerEvent{ID: 0, X: 320, Y: 310})
	assert.True(t, e.Camera().Position.ApproxEqual(before))
}

func TestDragDisablesCameraControls(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	c, err := e.SpawnComponent("disc_bottom")
	require.NoError(t, err)

	grab(t, e, c)
	assert.False(t, e.Controls().Enabled())
	assert.True(t, c.Lifted())

	before := e.Camera().Position
	x, y := screenOf(t, e, c.Position().Add(mgl32.Vec3{-0.5, 0.3, 0}))
	e.PointerMove(PointerEvent{ID: 0, X: x, Y: y})
	assert.True(t, e.Camera().Position.ApproxEqual(before), "camera must not move while dragging")

	e.PointerUp(PointerEvent{ID: 0, X: x, Y: y})
	assert.True(t, e.Controls().Enabled())
}

func TestSecondPointerCancelsDrag(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	c, err := e.SpawnComponent("disc_bottom")
	require.NoError(t, err)

	grab(t, e, c)
	x, y := screenOf(t, e, c.Position().Add(mgl32.Vec3{-1, 0, 0}))
	e.PointerMove(PointerEvent{ID: 0, X: x, Y: y})
	dropped := c.Position()

	e.PointerDown(PointerEvent{ID: 1, X: 100, Y: 100})
	assert.Equal(t, DragIdle, e.Drag().State())
	assert.False(t, c.Lifted())
	assert.True(t, e.Controls().Enabled())
	assert.True(t, c.Position().ApproxEqual(dropped), "cancelled drag leaves the component where it was")

	// Releasing the original pointer afterwards does not commit anything.
	z := e.Zones().Find(0, PartBottom)
	zx, zy := screenOf(t, e, z.Center)
	e.PointerUp(PointerEvent{ID: 0, X: zx, Y: zy})
	assert.False(t, e.Animating())
	filled, _ := e.Progress()
	assert.Zero(t, filled)
}

func TestSecondPointerNeverStartsDrag(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	c, err := e.SpawnComponent("disc_bottom")
	require.NoError(t, err)

	e.PointerDown(PointerEvent{ID: 0, X: 5, Y: 5})
	x, y := screenOf(t, e, c.Position())
	e.PointerDown(PointerEvent{ID: 2, X: x, Y: y})
	assert.Equal(t, DragIdle, e.Drag().State())
}

func TestPinchZooms(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	orbit := e.Controls().(*OrbitControls)
	start := orbit.Distance

	e.PointerDown(PointerEvent{ID: 1, X: 600, Y: 360})
	e.PointerDown(PointerEvent{ID: 2, X: 700, Y: 360})
	e.PointerMove(PointerEvent{ID: 2, X: 800, Y: 360})

	assert.InDelta(t, start/2, orbit.Distance, 1e-3)
	dist := e.Camera().Position.Sub(orbit.Target).Len()
	assert.InDelta(t, orbit.Distance, dist, 1e-3)

	e.PointerUp(PointerEvent{ID: 2, X: 800, Y: 360})
	e.PointerUp(PointerEvent{ID: 1, X: 600, Y: 360})
}

func TestDragClampsToPlayArea(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	c, err := e.SpawnComponent("disc_bottom")
	require.NoError(t, err)

	grab(t, e, c)
	// The bottom-left corner is well outside the play area at this depth.
	e.PointerMove(PointerEvent{ID: 0, X: 0, Y: 720})

	area := e.Config().PlayArea
	p := c.Position()
	assert.LessOrEqual(t, p.X(), area.Horizontal)
	assert.GreaterOrEqual(t, p.X(), -area.Horizontal)
	assert.LessOrEqual(t, p.Y(), area.MaxY)
	assert.GreaterOrEqual(t, p.Y(), area.MinY)
	assert.InDelta(t, -area.Horizontal, p.X(), 1e-4)
	assert.InDelta(t, area.MinY, p.Y(), 1e-4)

	e.PointerUp(PointerEvent{ID: 0, X: 0, Y: 720})
}

func TestResolveTargetFallsBackToNodeName(t *testing.T) {
	e := newTestEngine(t, twoItemBlueprint())
	c, err := e.SpawnComponent("b_bottom")
	require.NoError(t, err)
	grab(t, e, c)

	z := e.Zones().Find(1, PartBottom)
	broken := *z
	broken.ItemIndex = -1

	target, ok := e.Drag().resolveTarget(&broken)
	require.True(t, ok)
	assert.Equal(t, 1, target.ItemIndex)
	assert.Equal(t, PartBottom, target.PartID)
	assert.Equal(t, "b_bottom", target.ComponentType)

	broken.Node = nil
	_, ok = e.Drag().resolveTarget(&broken)
	assert.False(t, ok)
}

func TestIgnoresOutOfRangePointerIDs(t *testing.T) {
	e := newTestEngine(t, singleItemBlueprint())
	assert.NotPanics(t, func() {
		e.PointerDown(PointerEvent{ID: maxPointers, X: 1, Y: 1})
		e.PointerMove(PointerEvent{ID: -1, X: 1, Y: 1})
		e.PointerUp(PointerEvent{ID: 99, X: 1, Y: 1})
	})
}
