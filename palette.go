package assembly

import (
	"fmt"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

// Palette spawns components. A type has at most one live component, and a type
// that has been placed stays closed until Reset.
type Palette struct {
	ctx       *Context
	blueprint *Blueprint
	group     *render.Node

	slots  map[string]int
	live   map[string]*Component
	placed map[string]bool
}

func NewPalette(ctx *Context, bp *Blueprint) *Palette {
	p := &Palette{
		ctx:       ctx,
		blueprint: bp,
		slots:     make(map[string]int),
		live:      make(map[string]*Component),
		placed:    make(map[string]bool),
	}
	for i, t := range bp.ComponentTypes() {
		p.slots[t] = i
	}
	p.group = render.NewGroup("components", render.Tag{Kind: render.KindNone, ItemIndex: -1})
	ctx.Scene.Add(p.group)
	return p
}

// SpawnPoint is where the slot's component appears.
func (p *Palette) SpawnPoint(slot int) mgl32.Vec3 {
	cfg := p.ctx.Config.Spawn
	x := cfg.OriginX + float32(slot/2)*cfg.Spacing
	if slot%2 == 1 {
		x = -x
	}
	return mgl32.Vec3{x, cfg.OriginY, cfg.OriginZ}
}

func (p *Palette) Spawn(componentType string) (*Component, error) {
	slot, ok := p.slots[componentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, componentType)
	}
	if p.placed[componentType] {
		return nil, fmt.Errorf("%w: %q has already been placed", ErrAlreadySpawned, componentType)
	}
	p.prune()
	if _, live := p.live[componentType]; live {
		return nil, fmt.Errorf("%w: %q is already in the scene", ErrAlreadySpawned, componentType)
	}

	itemIndex, part, _ := p.blueprint.LookupComponentType(componentType)
	c := newComponent(componentType, itemIndex, p.blueprint.Items[itemIndex], part.PartID)
	c.Node.Transform.Position = p.SpawnPoint(slot)
	c.setScale(p.scale())
	p.group.Add(c.Node)
	p.live[componentType] = c

	p.ctx.logger().Debugf("spawned %s (%s) at slot %d", componentType, c.Kind, slot)
	return c, nil
}

func (p *Palette) scale() float32 {
	if s := p.ctx.Config.Scale; s > 0 {
		return s
	}
	return 1
}

// Consume destroys a snapped component. Its type can never be spawned again.
func (p *Palette) Consume(c *Component) {
	p.placed[c.Type] = true
	p.remove(c)
}

// Release destroys a component whose snap never landed and reopens its slot.
func (p *Palette) Release(c *Component) {
	p.remove(c)
}

func (p *Palette) remove(c *Component) {
	if cur, ok := p.live[c.Type]; ok && cur == c {
		delete(p.live, c.Type)
	}
	c.snapping = false
	c.destroy()
}

// prune forgets components whose nodes were disposed behind the palette's back.
// A snap still running on one reports back through Release, which ignores it.
func (p *Palette) prune() {
	for t, c := range p.live {
		if !c.Alive() {
			p.ctx.logger().Warnf("dropping disposed %s from the palette", t)
			p.ctx.metrics().StaleAccess("palette_prune")
			delete(p.live, t)
		}
	}
}

func (p *Palette) IsLive(componentType string) bool {
	c, ok := p.live[componentType]
	return ok && c.Alive()
}

func (p *Palette) IsPlaced(componentType string) bool {
	return p.placed[componentType]
}

// Available lists the types that can be spawned right now, in blueprint order.
func (p *Palette) Available() []string {
	var out []string
	for _, t := range p.blueprint.ComponentTypes() {
		if !p.placed[t] && !p.IsLive(t) {
			out = append(out, t)
		}
	}
	return out
}

// Live returns live components in slot order.
func (p *Palette) Live() []*Component {
	var out []*Component
	for _, t := range p.blueprint.ComponentTypes() {
		if c, ok := p.live[t]; ok && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Draggables are the root nodes of live components not already snapping.
func (p *Palette) Draggables() []*render.Node {
	var out []*render.Node
	for _, c := range p.Live() {
		if !c.Snapping() {
			out = append(out, c.Node)
		}
	}
	return out
}

func (p *Palette) ComponentForNode(n *render.Node) *Component {
	for _, c := range p.live {
		if c.Node == n {
			return c
		}
	}
	return nil
}

func (p *Palette) SetScale(s float32) {
	for _, c := range p.live {
		c.setScale(s)
	}
}

// Reset destroys every component and reopens all slots.
func (p *Palette) Reset() {
	for _, c := range p.live {
		c.destroy()
	}
	p.live = make(map[string]*Component)
	p.placed = make(map[string]bool)
}

// Dispose removes the palette group from the scene.
func (p *Palette) Dispose() {
	p.Reset()
	if p.group != nil {
		p.group.Dispose()
		p.group = nil
	}
}
