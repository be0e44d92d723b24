package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type NodeKind int

const (
	KindNone NodeKind = iota
	KindGhost
	KindSolid
	KindZone
	KindComponent
	KindDecoration
)

func (k NodeKind) String() string {
	switch k {
	case KindGhost:
		return "ghost"
	case KindSolid:
		return "solid"
	case KindZone:
		return "zone"
	case KindComponent:
		return "component"
	case KindDecoration:
		return "decoration"
	}
	return "none"
}

// Tag identifies what a node represents. It is fixed at construction; lookups go
// through the tag, never through a node's position among its siblings.
type Tag struct {
	Kind      NodeKind
	ItemIndex int
	PartID    string
}

// Node is either a group (no geometry) or a mesh. Children inherit the parent's
// transform.
type Node struct {
	ID        string
	Name      string
	Transform Transform
	Geometry  *Geometry
	Material  *Material
	Visible   bool

	tag      Tag
	parent   *Node
	children []*Node
	disposed bool
}

func NewGroup(name string, tag Tag) *Node {
	return &Node{
		ID:        uuid.NewString(),
		Name:      name,
		Transform: NewTransform(),
		Visible:   true,
		tag:       tag,
	}
}

func NewMesh(name string, tag Tag, geometry *Geometry, material *Material) *Node {
	n := NewGroup(name, tag)
	n.Geometry = geometry
	n.Material = material
	return n
}

func (n *Node) Tag() Tag {
	return n.tag
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy so callers may mutate the tree while iterating.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// WorldMatrix composes every ancestor transform.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// WorldInverse maps world space into the node's local space. It composes the
// per-node TRS inverses instead of inverting the world matrix.
func (n *Node) WorldInverse() mgl32.Mat4 {
	m := n.Transform.Inverse()
	for p := n.parent; p != nil; p = p.parent {
		m = m.Mul4(p.Transform.Inverse())
	}
	return m
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// Traverse visits the node and its descendants depth-first until fn returns false.
func (n *Node) Traverse(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Traverse(fn) {
			return false
		}
	}
	return true
}

// FindTagged returns the first descendant (or n itself) carrying the given kind
// and item index.
func (n *Node) FindTagged(kind NodeKind, itemIndex int) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if c.tag.Kind == kind && c.tag.ItemIndex == itemIndex {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant of the given kind.
func (n *Node) FindAll(kind NodeKind) []*Node {
	var out []*Node
	n.Traverse(func(c *Node) bool {
		if c.tag.Kind == kind {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Dispose detaches the node and releases geometry and materials of the whole
// subtree. Disposing twice is a no-op.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.Detach()
	n.disposeTree()
}

func (n *Node) disposeTree() {
	n.disposed = true
	if n.Geometry != nil {
		n.Geometry.Dispose()
	}
	if n.Material != nil {
		n.Material.Dispose()
	}
	for _, c := range n.children {
		c.parent = nil
		c.disposeTree()
	}
	n.children = nil
}

func (n *Node) Disposed() bool {
	return n == nil || n.disposed
}
