package assembly

import (
	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	componentSegments = 32
	liftScale         = 1.05
	liftEmissive      = 0.45
)

type ComponentKind int

const (
	ComponentDisc    ComponentKind = iota // flat cap piece
	ComponentLateral                      // rolled-up side wall
)

func (k ComponentKind) String() string {
	if k == ComponentLateral {
		return "lateral"
	}
	return "disc"
}

func componentKindFor(part PartKind) ComponentKind {
	if part.Disc() {
		return ComponentDisc
	}
	return ComponentLateral
}

// Component is a loose piece spawned from the palette.
type Component struct {
	ID        string
	Type      string
	Kind      ComponentKind
	ItemIndex int
	PartID    PartKind
	Node      *render.Node

	body        *render.Node
	decorations []*render.Node
	baseScale   float32
	lifted      bool
	snapping    bool
}

func newComponent(componentType string, itemIndex int, item Item, part PartKind) *Component {
	c := &Component{
		ID:        uuid.NewString(),
		Type:      componentType,
		Kind:      componentKindFor(part),
		ItemIndex: itemIndex,
		PartID:    part,
		baseScale: 1,
	}

	color := mustColor(item.Color)
	tag := render.Tag{Kind: render.KindComponent, ItemIndex: itemIndex, PartID: string(part)}
	c.Node = render.NewGroup("component:"+componentType, tag)

	decoTag := render.Tag{Kind: render.KindDecoration, ItemIndex: itemIndex, PartID: string(part)}
	radius, height := item.Params.Radius, item.Params.Height
	switch c.Kind {
	case ComponentDisc:
		c.body = render.NewMesh("body", decoTag, render.NewDiscGeometry(radius, componentSegments), render.NewMaterial(color))
		c.Node.Add(c.body)
	case ComponentLateral:
		c.body = render.NewMesh("body", decoTag, render.NewTubeGeometry(radius, height, componentSegments), render.NewMaterial(color))
		c.Node.Add(c.body)
		rimColor := mustColor("white")
		for _, y := range []float32{height / 2, -height / 2} {
			rim := render.NewMesh("rim", decoTag, render.NewRingGeometry(radius*0.98, radius*1.04, componentSegments), render.NewMaterial(rimColor))
			rim.Transform.Position = mgl32.Vec3{0, y, 0}
			rim.Transform.Rotation = flatRotation()
			c.Node.Add(rim)
			c.decorations = append(c.decorations, rim)
		}
	}
	return c
}

func (c *Component) Alive() bool {
	return c != nil && !c.Node.Disposed()
}

func (c *Component) Position() mgl32.Vec3 {
	return c.Node.Transform.Position
}

// Snapping reports whether the component is being animated into a zone.
func (c *Component) Snapping() bool {
	return c.snapping
}

func (c *Component) Lifted() bool {
	return c.lifted
}

func (c *Component) setScale(s float32) {
	c.baseScale = s
	if c.lifted {
		s *= liftScale
	}
	c.Node.Transform.Scale = mgl32.Vec3{s, s, s}
}

// lift gives the held look: emissive glow, slight scale-up and, for lateral
// pieces, hidden rims.
func (c *Component) lift() {
	if !c.Alive() || c.lifted {
		return
	}
	c.lifted = true
	if c.body.Material != nil {
		m := c.body.Material
		m.Emissive = [3]float32{m.Color[0], m.Color[1], m.Color[2]}
		m.EmissiveIntensity = liftEmissive
	}
	for _, d := range c.decorations {
		d.Visible = false
	}
	s := c.baseScale * liftScale
	c.Node.Transform.Scale = mgl32.Vec3{s, s, s}
}

// settle undoes the glow and rims of lift. Scale is left to the caller: a
// rejected drop restores it, a snap animates it.
func (c *Component) settle() {
	if !c.Alive() {
		c.lifted = false
		return
	}
	c.lifted = false
	if c.body.Material != nil {
		c.body.Material.Emissive = [3]float32{}
		c.body.Material.EmissiveIntensity = 0
	}
	for _, d := range c.decorations {
		d.Visible = true
	}
}

func (c *Component) restoreScale() {
	if !c.Alive() {
		return
	}
	s := c.baseScale
	c.Node.Transform.Scale = mgl32.Vec3{s, s, s}
}

func (c *Component) destroy() {
	if c.Node != nil {
		c.Node.Dispose()
	}
}
