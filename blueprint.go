package assembly

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

type PartKind string

const (
	PartBottom PartKind = "bottom"
	PartSide   PartKind = "side"
	PartTop    PartKind = "top"
)

func (k PartKind) Valid() bool {
	switch k {
	case PartBottom, PartSide, PartTop:
		return true
	}
	return false
}

// Disc reports whether the part is a flat cap rather than a lateral surface.
func (k PartKind) Disc() bool {
	return k == PartBottom || k == PartTop
}

type PartSpec struct {
	PartID               PartKind `json:"partId"`
	AcceptsComponentType string   `json:"acceptsComponentType"`
}

type ItemParams struct {
	Radius float32 `json:"radius"`
	Height float32 `json:"height"`
}

type Item struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Color    string     `json:"color"`
	Position mgl32.Vec3 `json:"position"`
	Params   ItemParams `json:"params"`
	Parts    []PartSpec `json:"parts"`
}

// Blueprint describes the target structure. It is not modified after the
// engine is initialized with it.
type Blueprint struct {
	Name                string  `json:"name,omitempty"`
	Items               []Item  `json:"items"`
	SnapTolerance       float32 `json:"snapTolerance,omitempty"`
	AnimationDurationMs int     `json:"animationDurationMs,omitempty"`
}

func (b *Blueprint) Validate() error {
	if b == nil || len(b.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidBlueprint)
	}
	if b.SnapTolerance < 0 {
		return fmt.Errorf("%w: negative snapTolerance", ErrInvalidBlueprint)
	}
	if b.AnimationDurationMs < 0 {
		return fmt.Errorf("%w: negative animationDurationMs", ErrInvalidBlueprint)
	}

	seenTypes := make(map[string]int)
	for i, item := range b.Items {
		if item.Params.Radius <= 0 || item.Params.Height <= 0 {
			return fmt.Errorf("%w: item %d (%s) needs positive radius and height", ErrInvalidBlueprint, i, item.ID)
		}
		if len(item.Parts) == 0 {
			return fmt.Errorf("%w: item %d (%s) has no parts", ErrInvalidBlueprint, i, item.ID)
		}
		if _, err := ParseColor(item.Color); err != nil {
			return fmt.Errorf("%w: item %d (%s): %v", ErrInvalidBlueprint, i, item.ID, err)
		}
		seenParts := make(map[PartKind]bool)
		for _, p := range item.Parts {
			if !p.PartID.Valid() {
				return fmt.Errorf("%w: item %d has unknown part %q", ErrInvalidBlueprint, i, p.PartID)
			}
			if seenParts[p.PartID] {
				return fmt.Errorf("%w: item %d lists part %q twice", ErrInvalidBlueprint, i, p.PartID)
			}
			seenParts[p.PartID] = true

			if p.AcceptsComponentType == "" {
				return fmt.Errorf("%w: item %d part %q accepts no component type", ErrInvalidBlueprint, i, p.PartID)
			}
			if prev, dup := seenTypes[p.AcceptsComponentType]; dup {
				return fmt.Errorf("%w: component type %q accepted by items %d and %d", ErrInvalidBlueprint, p.AcceptsComponentType, prev, i)
			}
			seenTypes[p.AcceptsComponentType] = i
		}
	}
	return nil
}

func (b *Blueprint) TotalParts() int {
	n := 0
	for _, item := range b.Items {
		n += len(item.Parts)
	}
	return n
}

// ComponentTypes lists every accepted component type in blueprint order.
func (b *Blueprint) ComponentTypes() []string {
	out := make([]string, 0, b.TotalParts())
	for _, item := range b.Items {
		for _, p := range item.Parts {
			out = append(out, p.AcceptsComponentType)
		}
	}
	return out
}

// LookupComponentType finds the item and part that accept componentType.
func (b *Blueprint) LookupComponentType(componentType string) (int, PartSpec, bool) {
	for i, item := range b.Items {
		for _, p := range item.Parts {
			if p.AcceptsComponentType == componentType {
				return i, p, true
			}
		}
	}
	return -1, PartSpec{}, false
}

func LoadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint: %w", err)
	}
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlueprint, err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

func SaveBlueprint(path string, bp *Blueprint) error {
	data, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseColor accepts SVG colour names ("steelblue") and #rgb / #rrggbb hex.
func ParseColor(s string) ([4]float32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return rgba(c), nil
	}
	if !strings.HasPrefix(s, "#") {
		return [4]float32{}, fmt.Errorf("unknown color %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return [4]float32{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("bad hex color %q", s)
	}
	return rgba(color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}), nil
}

func rgba(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func mustColor(s string) [4]float32 {
	c, err := ParseColor(s)
	if err != nil {
		return [4]float32{0.8, 0.8, 0.8, 1}
	}
	return c
}

func cylinderParts(size string) []PartSpec {
	return []PartSpec{
		{PartID: PartBottom, AcceptsComponentType: size + "_bottom"},
		{PartID: PartSide, AcceptsComponentType: size + "_side"},
		{PartID: PartTop, AcceptsComponentType: size + "_top"},
	}
}

// TowerBlueprint is three stacked cylinders, widest at the bottom.
func TowerBlueprint() *Blueprint {
	return &Blueprint{
		Name: "tower",
		Items: []Item{
			{
				ID: "large", Type: "cylinder_large", Color: "steelblue",
				Position: mgl32.Vec3{0, 0.75, 0},
				Params:   ItemParams{Radius: 1.5, Height: 1.5},
				Parts:    cylinderParts("large"),
			},
			{
				ID: "medium", Type: "cylinder_medium", Color: "seagreen",
				Position: mgl32.Vec3{0, 2.25, 0},
				Params:   ItemParams{Radius: 1.1, Height: 1.5},
				Parts:    cylinderParts("medium"),
			},
			{
				ID: "small", Type: "cylinder_small", Color: "goldenrod",
				Position: mgl32.Vec3{0, 3.5, 0},
				Params:   ItemParams{Radius: 0.7, Height: 1.0},
				Parts:    cylinderParts("small"),
			},
		},
		SnapTolerance:       1.0,
		AnimationDurationMs: 500,
	}
}
