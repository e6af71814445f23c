// Package schematic holds the editable wiring design: components, their
// anchors, the wires between them, and drag sessions.
//
// Components and wires live in an arena owned by Design and are addressed
// by integer IDs; nothing in this package holds a raw pointer across the
// arena boundary, so removal never leaves dangling references.
package schematic

import (
	"circuit-cad/internal/route"
	"circuit-cad/pkg/geometry"
)

// ComponentID addresses a component in the design arena.
type ComponentID int

// Kind is the closed set of electrical component categories.
type Kind int

const (
	KindCustom Kind = iota
	KindLighting
	KindReceptacle
	KindMotor
	KindAC
	KindPanel
	KindFeeder
)

// KindInfo carries display and load metadata for a component kind.
type KindInfo struct {
	Name       string
	Glyph      string // single-rune marker used in trees and labels
	DefaultVA  int
	Continuous bool // runs 3+ hours; affects load accounting downstream
}

var kindInfo = [...]KindInfo{
	KindCustom:     {Name: "Custom", Glyph: "🔹", DefaultVA: 0},
	KindLighting:   {Name: "Lighting", Glyph: "💡", DefaultVA: 100, Continuous: true},
	KindReceptacle: {Name: "Receptacle", Glyph: "🔌", DefaultVA: 180},
	KindMotor:      {Name: "Motor", Glyph: "⚙️", DefaultVA: 1500, Continuous: true},
	KindAC:         {Name: "AC", Glyph: "❄️", DefaultVA: 3500, Continuous: true},
	KindPanel:      {Name: "Panel", Glyph: "📉", DefaultVA: 0},
	KindFeeder:     {Name: "Feeder", Glyph: "⚡", DefaultVA: 0},
}

// Info returns the metadata for the kind. Unknown values map to Custom.
func (k Kind) Info() KindInfo {
	if k < 0 || int(k) >= len(kindInfo) {
		return kindInfo[KindCustom]
	}
	return kindInfo[k]
}

func (k Kind) String() string {
	return k.Info().Name
}

// Kinds lists all component kinds in display order.
func Kinds() []Kind {
	return []Kind{
		KindLighting, KindReceptacle, KindMotor,
		KindAC, KindPanel, KindFeeder, KindCustom,
	}
}

// Anchor is a connection point on a component where wires attach. Its
// scene position is the owning component's position plus Offset and is
// not grid-snapped; the planner snaps it when routing. Wires listed here
// are back-references only; the wire owns the relationship.
type Anchor struct {
	Owner  ComponentID
	Offset geometry.Point2D
	Wires  []WireID
}

// AnchorRef addresses one anchor of one component.
type AnchorRef struct {
	Component ComponentID
	Anchor    int
}

// Component is an electrical device placed on the floor plan.
// Connections is the undirected circuit adjacency, kept in insertion
// order because the homerun tree displays neighbors in that order.
type Component struct {
	ID          ComponentID
	Name        string
	Kind        Kind
	VA          int
	Continuous  bool
	Pos         geometry.Point2D
	Anchors     []*Anchor
	Connections []ComponentID
}

// Anchor returns the anchor at the given index, or nil.
func (c *Component) Anchor(i int) *Anchor {
	if i < 0 || i >= len(c.Anchors) {
		return nil
	}
	return c.Anchors[i]
}

// ConnectedTo reports whether the adjacency already contains other.
func (c *Component) ConnectedTo(other ComponentID) bool {
	for _, id := range c.Connections {
		if id == other {
			return true
		}
	}
	return false
}

// defaultAnchorOffset places the single default anchor at the visual
// center of the component symbol.
var defaultAnchorOffset = geometry.Point2D{X: route.GridUnit, Y: route.GridUnit}
