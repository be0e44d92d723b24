package assembly

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
)

const zoneSegments = 48

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchSoft           // right type, too far to commit
	MatchHard           // right type, within snap tolerance
)

func (m MatchKind) String() string {
	switch m {
	case MatchSoft:
		return "soft"
	case MatchHard:
		return "hard"
	}
	return "none"
}

// Zone is a hover/snap target for one part of one item.
type Zone struct {
	ItemIndex            int
	PartID               PartKind
	AcceptsComponentType string
	Center               mgl32.Vec3
	Rotation             mgl32.Quat
	Filled               bool
	Node                 *render.Node

	targetScale float32
	match       MatchKind
}

// TargetPose is where a snapped component comes to rest.
func (z *Zone) TargetPose() Pose {
	s := z.targetScale
	if s <= 0 {
		s = 1
	}
	p := NewPose()
	p.Position = z.Center
	p.Rotation = z.Rotation
	p.Scale = mgl32.Vec3{s, s, s}
	return p
}

func zoneName(itemIndex int, part PartKind) string {
	return fmt.Sprintf("hotspot:%d:%s", itemIndex, part)
}

// parseZoneName recovers item index and part from a zone node name.
func parseZoneName(name string) (int, PartKind, bool) {
	fields := strings.Split(name, ":")
	if len(fields) != 3 || fields[0] != "hotspot" {
		return -1, "", false
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil || idx < 0 {
		return -1, "", false
	}
	part := PartKind(fields[2])
	if !part.Valid() {
		return -1, "", false
	}
	return idx, part, true
}

type HoverResult struct {
	Zone     *Zone
	Match    MatchKind
	Distance float32
}

func (h HoverResult) Committable() bool {
	return h.Zone != nil && h.Match == MatchHard
}

// better reports whether h should replace cur as the hovered zone: hard beats
// soft, then nearer wins.
func (h HoverResult) better(cur HoverResult) bool {
	if cur.Zone == nil {
		return true
	}
	if h.Match != cur.Match {
		return h.Match > cur.Match
	}
	return h.Distance < cur.Distance
}

// ZoneInfo is the read-only view of the hovered zone handed to UI hints.
type ZoneInfo struct {
	ItemIndex            int
	ItemID               string
	PartID               PartKind
	AcceptsComponentType string
	Match                MatchKind
	Distance             float32
}

type HotspotZoneManager struct {
	ctx     *Context
	group   *render.Node
	zones   []*Zone
	hovered HoverResult

	zoneColor   [4]float32
	filledColor [4]float32
}

func NewHotspotZoneManager(ctx *Context) *HotspotZoneManager {
	if ctx == nil {
		panic("assembly: nil context")
	}
	return &HotspotZoneManager{
		ctx:         ctx,
		zoneColor:   mustColor("deepskyblue"),
		filledColor: mustColor("limegreen"),
	}
}

// CreateZones discards every existing zone and builds one zone per part of each
// incomplete item. Complete items get none.
func (m *HotspotZoneManager) CreateZones(bp *Blueprint, state CompletionState) []*Zone {
	m.Clear()

	scale := m.ctx.Config.Scale
	if scale <= 0 {
		scale = 1
	}

	m.group = render.NewGroup("hotspots", render.Tag{Kind: render.KindNone, ItemIndex: -1})
	for i, item := range bp.Items {
		if state.ItemComplete(bp, i) {
			continue
		}
		for _, part := range item.Parts {
			z := m.buildZone(i, item, part, scale)
			z.Filled = state[i][part.PartID]
			m.applyStyle(z, MatchNone)
			m.group.Add(z.Node)
			m.zones = append(m.zones, z)
		}
	}
	m.ctx.Scene.Add(m.group)

	m.ctx.logger().Debugf("created %d hotspot zones", len(m.zones))
	return m.Zones()
}

func (m *HotspotZoneManager) buildZone(itemIndex int, item Item, part PartSpec, scale float32) *Zone {
	radius := item.Params.Radius * scale
	height := item.Params.Height * scale
	center := item.Position.Mul(scale)
	rotation := mgl32.QuatIdent()

	var geo *render.Geometry
	switch part.PartID {
	case PartBottom:
		center = center.Sub(mgl32.Vec3{0, height / 2, 0})
		rotation = flatRotation()
		geo = render.NewDiscGeometry(radius, zoneSegments)
	case PartTop:
		center = center.Add(mgl32.Vec3{0, height / 2, 0})
		rotation = flatRotation()
		geo = render.NewDiscGeometry(radius, zoneSegments)
	default:
		// Slightly larger than the ghost so the wrap stays visible around it.
		geo = render.NewTubeGeometry(radius*1.02, height, zoneSegments)
	}

	mat := render.NewTranslucentMaterial(m.zoneColor, m.ctx.Config.ZoneStyle.BaseOpacity)
	node := render.NewMesh(zoneName(itemIndex, part.PartID),
		render.Tag{Kind: render.KindZone, ItemIndex: itemIndex, PartID: string(part.PartID)},
		geo, mat)
	node.Transform.Position = center
	node.Transform.Rotation = rotation

	return &Zone{
		ItemIndex:            itemIndex,
		PartID:               part.PartID,
		AcceptsComponentType: part.AcceptsComponentType,
		Center:               center,
		Rotation:             rotation,
		Node:                 node,
		targetScale:          scale,
	}
}

// flatRotation lays XY-plane geometry onto the XZ plane.
func flatRotation() mgl32.Quat {
	return mgl32.QuatRotate(-math.Pi/2, mgl32.Vec3{1, 0, 0})
}

// Evaluate recomputes the style of every zone for a component of componentType
// at position and returns the hovered zone, if any.
func (m *HotspotZoneManager) Evaluate(componentType string, position mgl32.Vec3) HoverResult {
	tolerance := m.ctx.Config.SnapTolerance
	best := HoverResult{}

	for _, z := range m.zones {
		z.match = MatchNone
		if z.Filled || z.AcceptsComponentType != componentType {
			continue
		}
		d := position.Sub(z.Center).Len()
		cand := HoverResult{Zone: z, Match: MatchSoft, Distance: d}
		if d < tolerance {
			cand.Match = MatchHard
		}
		z.match = cand.Match
		if cand.better(best) {
			best = cand
		}
	}

	for _, z := range m.zones {
		m.applyStyle(z, z.match)
	}
	m.hovered = best
	return best
}

// ClearHover restores every zone to its resting style.
func (m *HotspotZoneManager) ClearHover() {
	for _, z := range m.zones {
		z.match = MatchNone
		m.applyStyle(z, MatchNone)
	}
	m.hovered = HoverResult{}
}

func (m *HotspotZoneManager) Hovered() HoverResult {
	return m.hovered
}

func (m *HotspotZoneManager) applyStyle(z *Zone, match MatchKind) {
	n := z.Node
	if n.Disposed() || n.Material.Disposed() {
		m.ctx.logger().Warnf("skipping restyle of disposed zone %s", zoneName(z.ItemIndex, z.PartID))
		m.ctx.metrics().StaleAccess("zone_restyle")
		return
	}

	style := m.ctx.Config.ZoneStyle
	opacity := style.BaseOpacity
	scale := float32(1)
	switch match {
	case MatchSoft:
		opacity = style.SoftOpacity
	case MatchHard:
		opacity = style.HardOpacity
		scale = style.HardScale
	}

	color := m.zoneColor
	if z.Filled {
		color = m.filledColor
	}
	n.Material.Color = color
	n.Material.Opacity = opacity
	n.Transform.Scale = mgl32.Vec3{scale, scale, scale}
}

// MarkFilled mirrors a filled part onto its zone.
func (m *HotspotZoneManager) MarkFilled(itemIndex int, part PartKind) {
	z := m.Find(itemIndex, part)
	if z == nil {
		return
	}
	z.Filled = true
	z.match = MatchNone
	if m.hovered.Zone == z {
		m.hovered = HoverResult{}
	}
	m.applyStyle(z, MatchNone)
}

// RemoveZonesFor disposes every zone of the item and drops it from the list.
func (m *HotspotZoneManager) RemoveZonesFor(itemIndex int) int {
	kept := m.zones[:0]
	removed := 0
	for _, z := range m.zones {
		if z.ItemIndex != itemIndex {
			kept = append(kept, z)
			continue
		}
		if m.hovered.Zone == z {
			m.hovered = HoverResult{}
		}
		z.Node.Dispose()
		removed++
	}
	for i := len(kept); i < len(m.zones); i++ {
		m.zones[i] = nil
	}
	m.zones = kept
	return removed
}

func (m *HotspotZoneManager) Find(itemIndex int, part PartKind) *Zone {
	for _, z := range m.zones {
		if z.ItemIndex == itemIndex && z.PartID == part {
			return z
		}
	}
	return nil
}

func (m *HotspotZoneManager) ZonesOf(itemIndex int) []*Zone {
	var out []*Zone
	for _, z := range m.zones {
		if z.ItemIndex == itemIndex {
			out = append(out, z)
		}
	}
	return out
}

func (m *HotspotZoneManager) Zones() []*Zone {
	out := make([]*Zone, len(m.zones))
	copy(out, m.zones)
	return out
}

// Clear disposes every zone and the hotspot group.
func (m *HotspotZoneManager) Clear() {
	for _, z := range m.zones {
		z.Node.Dispose()
	}
	m.zones = nil
	m.hovered = HoverResult{}
	if m.group != nil {
		m.group.Dispose()
		m.group = nil
	}
}
