package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecInDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestTransformMatrixInverse(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	tr.Scale = mgl32.Vec3{2, 2, 2}

	p := mgl32.Vec3{0.5, -1, 4}
	world := tr.Matrix().Mul4x1(p.Vec4(1)).Vec3()
	back := tr.Inverse().Mul4x1(world.Vec4(1)).Vec3()

	vecInDelta(t, p, back, 1e-4)
}

func TestTransformLerpEndpoints(t *testing.T) {
	from := NewTransform()
	to := NewTransform()
	to.Position = mgl32.Vec3{4, 0, 0}
	to.Rotation = mgl32.QuatRotate(-mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0})
	to.Scale = mgl32.Vec3{1.5, 1.5, 1.5}

	mid := from.Lerp(to, 0.5)
	vecInDelta(t, mgl32.Vec3{2, 0, 0}, mid.Position, 1e-5)
	vecInDelta(t, mgl32.Vec3{1.25, 1.25, 1.25}, mid.Scale, 1e-5)

	end := from.Lerp(to, 1)
	assert.True(t, end.Rotation.ApproxEqualThreshold(to.Rotation, 1e-4))
}

func TestRayPlaneIntersection(t *testing.T) {
	plane := NewPlane(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, -5})
	assert.InDelta(t, 1.0, plane.Normal.Len(), 1e-6)

	ray := Ray{Origin: mgl32.Vec3{1, 1, 0}, Dir: mgl32.Vec3{0, 0, -1}}
	p, ok := ray.IntersectPlane(plane)
	require.True(t, ok)
	vecInDelta(t, mgl32.Vec3{1, 1, -5}, p, 1e-5)

	// Parallel
	_, ok = Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{1, 0, 0}}.IntersectPlane(plane)
	assert.False(t, ok)

	// Behind
	_, ok = Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{0, 0, 1}}.IntersectPlane(plane)
	assert.False(t, ok)

	proj := plane.Project(mgl32.Vec3{3, 4, 7})
	vecInDelta(t, mgl32.Vec3{3, 4, -5}, proj, 1e-5)
}

func TestRayAABB(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	d, ok := Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}}.IntersectAABB(box)
	require.True(t, ok)
	assert.InDelta(t, 9.0, d, 1e-5)

	d, ok = Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{0, 1, 0}}.IntersectAABB(box)
	require.True(t, ok)
	assert.Equal(t, float32(0), d)

	_, ok = Ray{Origin: mgl32.Vec3{5, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}}.IntersectAABB(box)
	assert.False(t, ok)
}

func TestRaycasterOrdersHitsByDistance(t *testing.T) {
	near := NewMesh("near", Tag{Kind: KindComponent, ItemIndex: 0}, NewBoxGeometry(2, 2, 2), NewMaterial([4]float32{1, 0, 0, 1}))
	near.Transform.Position = mgl32.Vec3{0, 0, -5}
	far := NewMesh("far", Tag{Kind: KindComponent, ItemIndex: 1}, NewBoxGeometry(2, 2, 2), NewMaterial([4]float32{0, 1, 0, 1}))
	far.Transform.Position = mgl32.Vec3{0, 0, -10}
	hidden := NewMesh("hidden", Tag{Kind: KindComponent, ItemIndex: 2}, NewBoxGeometry(2, 2, 2), NewMaterial([4]float32{0, 0, 1, 1}))
	hidden.Transform.Position = mgl32.Vec3{0, 0, -2}
	hidden.Visible = false

	rc := NewRaycaster(Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{0, 0, -1}})
	hits := rc.IntersectObjects([]*Node{far, hidden, near}, false)

	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Object)
	assert.Same(t, far, hits[1].Object)
	assert.InDelta(t, 4.0-pickPadding, hits[0].Distance, 1e-3)
}

func TestRaycasterRecursiveAndScaled(t *testing.T) {
	group := NewGroup("group", Tag{Kind: KindComponent, ItemIndex: 3})
	group.Transform.Position = mgl32.Vec3{0, 0, -20}
	group.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := NewMesh("body", Tag{Kind: KindDecoration, ItemIndex: 3}, NewBoxGeometry(1, 1, 1), NewMaterial([4]float32{1, 1, 1, 1}))
	group.Add(child)

	rc := NewRaycaster(Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{0, 0, -1}})

	assert.Empty(t, rc.IntersectObjects([]*Node{group}, false), "group has no geometry")

	hits := rc.IntersectObjects([]*Node{group}, true)
	require.Len(t, hits, 1)
	assert.Same(t, child, hits[0].Node)
	assert.Same(t, group, hits[0].Object)
	// Face at local z=0.5+pad, scaled by 2 around z=-20.
	assert.InDelta(t, 20-2*(0.5+pickPadding), hits[0].Distance, 1e-3)

	group.Dispose()
	assert.Empty(t, rc.IntersectObjects([]*Node{group}, true))
}

func TestNodeDisposeReleasesSubtree(t *testing.T) {
	scene := NewScene()
	ghost := NewGroup("ghost", Tag{Kind: KindGhost, ItemIndex: 1})
	body := NewMesh("body", Tag{Kind: KindGhost, ItemIndex: 1}, NewCylinderGeometry(1, 1, 2, 16), NewTranslucentMaterial([4]float32{1, 0, 0, 1}, 0.3))
	ghost.Add(body)
	scene.Add(ghost)

	assert.Same(t, ghost, scene.FindTagged(KindGhost, 1))
	assert.Nil(t, scene.FindTagged(KindGhost, 0))

	ghost.Dispose()
	assert.True(t, ghost.Disposed())
	assert.True(t, body.Disposed())
	assert.True(t, body.Geometry.Disposed())
	assert.True(t, body.Material.Disposed())
	assert.Nil(t, ghost.Parent())
	assert.Nil(t, scene.FindTagged(KindGhost, 1))

	assert.NotPanics(t, ghost.Dispose)
}

func TestNodeWorldPositionComposesParents(t *testing.T) {
	parent := NewGroup("p", Tag{})
	parent.Transform.Position = mgl32.Vec3{1, 0, 0}
	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := NewGroup("c", Tag{})
	child.Transform.Position = mgl32.Vec3{0, 1, 0}
	parent.Add(child)

	vecInDelta(t, mgl32.Vec3{1, 2, 0}, child.WorldPosition(), 1e-5)

	other := NewGroup("o", Tag{})
	other.Add(child)
	assert.Empty(t, parent.Children())
	assert.Same(t, other, child.Parent())
}

func TestNodeWorldInverse(t *testing.T) {
	parent := NewGroup("p", Tag{})
	parent.Transform.Position = mgl32.Vec3{1, -2, 3}
	parent.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(40), mgl32.Vec3{0, 1, 0})
	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := NewGroup("c", Tag{})
	child.Transform.Position = mgl32.Vec3{0, 1, 0}
	child.Transform.Rotation = mgl32.QuatRotate(-mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0})
	child.Transform.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
	parent.Add(child)

	local := mgl32.Vec3{0.3, -0.7, 1.1}
	world := child.WorldMatrix().Mul4x1(local.Vec4(1)).Vec3()
	back := child.WorldInverse().Mul4x1(world.Vec4(1)).Vec3()
	vecInDelta(t, local, back, 1e-4)

	vecInDelta(t, mgl32.Vec3{}, child.WorldInverse().Mul4x1(child.WorldPosition().Vec4(1)).Vec3(), 1e-4)
}

func TestCameraProjectAndUnproject(t *testing.T) {
	cam := NewCamera(800, 600)

	x, y, ok := cam.Project(cam.Target)
	require.True(t, ok)
	assert.InDelta(t, 400, x, 0.5)
	assert.InDelta(t, 300, y, 0.5)

	ray := cam.ScreenRay(400, 300)
	vecInDelta(t, cam.Forward(), ray.Dir, 1e-3)

	// Round trip an off-centre point.
	p := mgl32.Vec3{1.5, 3, -1}
	px, py, ok := cam.Project(p)
	require.True(t, ok)
	r := cam.ScreenRay(px, py)
	plane := NewPlane(cam.Forward().Mul(-1), p)
	hit, ok := r.IntersectPlane(plane)
	require.True(t, ok)
	vecInDelta(t, p, hit, 1e-2)

	_, _, ok = cam.Project(cam.Position.Sub(cam.Forward().Mul(5)))
	assert.False(t, ok, "points behind the camera do not project")
}

func TestCameraScreenToNDC(t *testing.T) {
	cam := NewCamera(200, 100)
	ndc := cam.ScreenToNDC(0, 0)
	assert.InDelta(t, -1, ndc.X(), 1e-6)
	assert.InDelta(t, 1, ndc.Y(), 1e-6)
	ndc = cam.ScreenToNDC(200, 100)
	assert.InDelta(t, 1, ndc.X(), 1e-6)
	assert.InDelta(t, -1, ndc.Y(), 1e-6)
}

func TestGeometryBounds(t *testing.T) {
	disc := NewDiscGeometry(2, 24)
	assert.Equal(t, GeometryDisc, disc.Kind)
	assert.InDelta(t, 2, disc.Bounds.Max.X(), 1e-4)
	assert.InDelta(t, 0, disc.Bounds.Max.Z()-disc.Bounds.Min.Z(), 1e-6)

	tube := NewTubeGeometry(1, 3, 16)
	assert.InDelta(t, 1.5, tube.Bounds.Max.Y(), 1e-5)
	assert.InDelta(t, -1.5, tube.Bounds.Min.Y(), 1e-5)
}
