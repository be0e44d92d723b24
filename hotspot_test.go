package assembly

import (
	"testing"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() *Context {
	return &Context{
		Scene:  render.NewScene(),
		Camera: render.NewCamera(1280, 720),
		Config: DefaultConfig(),
		Logger: NewNopLogger(),
	}
}

func TestCreateZonesPoses(t *testing.T) {
	ctx := newTestContext()
	m := NewHotspotZoneManager(ctx)

	zones := m.CreateZones(singleItemBlueprint(), CompletionState{})
	require.Len(t, zones, 3)

	bottom := m.Find(0, PartBottom)
	side := m.Find(0, PartSide)
	top := m.Find(0, PartTop)
	require.NotNil(t, bottom)
	require.NotNil(t, side)
	require.NotNil(t, top)

	assert.True(t, bottom.Center.ApproxEqual(mgl32.Vec3{0, 0, 0}))
	assert.True(t, side.Center.ApproxEqual(mgl32.Vec3{0, 1, 0}))
	assert.True(t, top.Center.ApproxEqual(mgl32.Vec3{0, 2, 0}))

	assert.True(t, side.Rotation.ApproxEqual(mgl32.QuatIdent()))
	// Flat discs face +Y.
	up := bottom.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 0, up.X(), 1e-5)
	assert.InDelta(t, 1, up.Y(), 1e-5)
	assert.InDelta(t, 0, up.Z(), 1e-5)

	assert.Equal(t, "hotspot:0:bottom", bottom.Node.Name)
	assert.Equal(t, render.GeometryDisc, bottom.Node.Geometry.Kind)
	assert.Equal(t, render.GeometryTube, side.Node.Geometry.Kind)
	assert.Equal(t, 3, ctx.Scene.Count(render.KindZone))
}

func TestCreateZonesSkipsCompleteItemsAndDisposesOld(t *testing.T) {
	ctx := newTestContext()
	m := NewHotspotZoneManager(ctx)
	bp := twoItemBlueprint()

	old := m.CreateZones(bp, CompletionState{})
	require.Len(t, old, 2)

	zones := m.CreateZones(bp, CompletionState{0: {PartBottom: true}})
	require.Len(t, zones, 1)
	assert.Equal(t, 1, zones[0].ItemIndex)
	assert.Empty(t, m.ZonesOf(0))

	for _, z := range old {
		assert.True(t, z.Node.Disposed())
		assert.True(t, z.Node.Geometry.Disposed())
		assert.True(t, z.Node.Material.Disposed())
	}
	assert.Equal(t, 1, ctx.Scene.Count(render.KindZone))
}

func TestCreateZonesMirrorsFilledParts(t *testing.T) {
	m := NewHotspotZoneManager(newTestContext())
	m.CreateZones(singleItemBlueprint(), CompletionState{0: {PartSide: true}})

	assert.True(t, m.Find(0, PartSide).Filled)
	assert.False(t, m.Find(0, PartTop).Filled)
}

func TestEvaluateHardSoftAndRestore(t *testing.T) {
	ctx := newTestContext()
	m := NewHotspotZoneManager(ctx)
	m.CreateZones(singleItemBlueprint(), CompletionState{})
	style := ctx.Config.ZoneStyle
	top := m.Find(0, PartTop)
	bottom := m.Find(0, PartBottom)

	res := m.Evaluate("disc_top", mgl32.Vec3{0, 2.5, 0})
	require.True(t, res.Committable())
	assert.Same(t, top, res.Zone)
	assert.Equal(t, MatchHard, res.Match)
	assert.InDelta(t, 0.5, res.Distance, 1e-5)
	assert.Equal(t, style.HardOpacity, top.Node.Material.Opacity)
	assert.InDelta(t, style.HardScale, top.Node.Transform.Scale.X(), 1e-6)
	assert.Equal(t, style.BaseOpacity, bottom.Node.Material.Opacity, "other zones untouched")

	res = m.Evaluate("disc_top", mgl32.Vec3{4, 2, 0})
	assert.False(t, res.Committable())
	assert.Equal(t, MatchSoft, res.Match)
	assert.Equal(t, style.SoftOpacity, top.Node.Material.Opacity)
	assert.InDelta(t, 1.0, top.Node.Transform.Scale.X(), 1e-6)

	m.Evaluate("disc_bottom", mgl32.Vec3{0, 0.2, 0})
	assert.Equal(t, style.BaseOpacity, top.Node.Material.Opacity, "previous hover fully restored")
	assert.InDelta(t, 1.0, top.Node.Transform.Scale.X(), 1e-6)
	assert.Equal(t, style.HardOpacity, bottom.Node.Material.Opacity)

	m.ClearHover()
	assert.Nil(t, m.Hovered().Zone)
	for _, z := range m.Zones() {
		assert.Equal(t, style.BaseOpacity, z.Node.Material.Opacity)
		assert.InDelta(t, 1.0, z.Node.Transform.Scale.X(), 1e-6)
	}
}

func TestEvaluateAtToleranceIsSoft(t *testing.T) {
	ctx := newTestContext()
	m := NewHotspotZoneManager(ctx)
	m.CreateZones(singleItemBlueprint(), CompletionState{})

	res := m.Evaluate("disc_bottom", mgl32.Vec3{ctx.Config.SnapTolerance, 0, 0})
	assert.Equal(t, MatchSoft, res.Match)
}

func TestFilledZonesNeverMatch(t *testing.T) {
	m := NewHotspotZoneManager(newTestContext())
	m.CreateZones(singleItemBlueprint(), CompletionState{})

	m.MarkFilled(0, PartBottom)
	res := m.Evaluate("disc_bottom", mgl32.Vec3{0, 0, 0})
	assert.Nil(t, res.Zone)
	assert.Equal(t, MatchNone, res.Match)
}

func TestRemoveZonesForDisposes(t *testing.T) {
	ctx := newTestContext()
	m := NewHotspotZoneManager(ctx)
	m.CreateZones(twoItemBlueprint(), CompletionState{})
	z := m.Find(0, PartBottom)
	m.Evaluate("a_bottom", z.Center)
	require.Same(t, z, m.Hovered().Zone)

	assert.Equal(t, 1, m.RemoveZonesFor(0))
	assert.True(t, z.Node.Disposed())
	assert.Nil(t, m.Hovered().Zone)
	assert.Empty(t, m.ZonesOf(0))
	assert.Len(t, m.Zones(), 1)
	assert.Zero(t, m.RemoveZonesFor(0))
}

func TestRestyleOfDisposedZoneIsNoop(t *testing.T) {
	m := NewHotspotZoneManager(newTestContext())
	m.CreateZones(singleItemBlueprint(), CompletionState{})
	z := m.Find(0, PartTop)
	z.Node.Dispose()

	assert.NotPanics(t, func() {
		m.Evaluate("disc_top", z.Center)
		m.MarkFilled(0, PartTop)
		m.ClearHover()
	})
}

func TestParseZoneName(t *testing.T) {
	idx, part, ok := parseZoneName(zoneName(7, PartSide))
	require.True(t, ok)
	assert.Equal(t, 7, idx)
	assert.Equal(t, PartSide, part)

	for _, bad := range []string{"", "hotspot:x:top", "hotspot:1:lid", "zone:1:top", "hotspot:-2:top"} {
		_, _, ok := parseZoneName(bad)
		assert.False(t, ok, bad)
	}
}

func TestZoneTargetPoseCarriesScale(t *testing.T) {
	ctx := newTestContext()
	ctx.Config.Scale = 2
	m := NewHotspotZoneManager(ctx)
	m.CreateZones(singleItemBlueprint(), CompletionState{})

	pose := m.Find(0, PartTop).TargetPose()
	assert.True(t, pose.Position.ApproxEqual(mgl32.Vec3{0, 4, 0}))
	assert.True(t, pose.Scale.ApproxEqual(mgl32.Vec3{2, 2, 2}))
}
