package render

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// pickPadding inflates local bounds so flat meshes remain pickable.
const pickPadding = 0.05

// Hit is one ray intersection. Node is the mesh that was hit; Object is the
// entry of the candidate list it belongs to.
type Hit struct {
	Node     *Node
	Object   *Node
	Distance float32
	Point    mgl32.Vec3
}

type Raycaster struct {
	Ray Ray
	Far float32
}

func NewRaycaster(ray Ray) *Raycaster {
	return &Raycaster{Ray: ray, Far: 1000}
}

// IntersectObjects tests every candidate (and its descendants when recursive is
// set) and returns the hits ordered by distance, nearest first. Invisible and
// disposed nodes are skipped.
func (rc *Raycaster) IntersectObjects(objects []*Node, recursive bool) []Hit {
	var hits []Hit
	for _, obj := range objects {
		if obj.Disposed() || !obj.Visible {
			continue
		}
		if !recursive {
			if h, ok := rc.intersectNode(obj); ok {
				h.Object = obj
				hits = append(hits, h)
			}
			continue
		}
		hits = rc.intersectTree(obj, obj, hits)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// intersectTree walks visible descendants; an invisible node hides its subtree.
func (rc *Raycaster) intersectTree(obj, n *Node, hits []Hit) []Hit {
	if n.disposed || !n.Visible {
		return hits
	}
	if h, ok := rc.intersectNode(n); ok {
		h.Object = obj
		hits = append(hits, h)
	}
	for _, c := range n.children {
		hits = rc.intersectTree(obj, c, hits)
	}
	return hits
}

// intersectNode transforms the ray into object space, tests the padded local
// bounds and converts the hit back to a world distance.
func (rc *Raycaster) intersectNode(n *Node) (Hit, bool) {
	if n.Geometry.Disposed() {
		return Hit{}, false
	}

	o2w := n.WorldMatrix()
	w2o := n.WorldInverse()
	localOrigin := w2o.Mul4x1(rc.Ray.Origin.Vec4(1.0)).Vec3()
	localDirUnnorm := w2o.Mul4x1(rc.Ray.Dir.Vec4(0.0)).Vec3()
	scaleFactor := localDirUnnorm.Len()
	if scaleFactor < 1e-6 {
		return Hit{}, false
	}
	localRay := Ray{Origin: localOrigin, Dir: localDirUnnorm.Mul(1.0 / scaleFactor)}

	t, ok := localRay.IntersectAABB(n.Geometry.Bounds.Inflate(pickPadding))
	if !ok {
		return Hit{}, false
	}

	worldHit := o2w.Mul4x1(localRay.At(t).Vec4(1.0)).Vec3()
	worldT := worldHit.Sub(rc.Ray.Origin).Len()
	if rc.Far > 0 && worldT > rc.Far {
		return Hit{}, false
	}
	return Hit{Node: n, Distance: worldT, Point: worldHit}, true
}
