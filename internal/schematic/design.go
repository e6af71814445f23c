package schematic

import (
	"fmt"

	"circuit-cad/internal/route"
	"circuit-cad/pkg/geometry"
)

// Design is the arena of components and wires making up one project.
// All mutation goes through Design methods so that ID references and the
// undirected adjacency stay consistent. Design is not safe for concurrent
// mutation; the app serializes access on its state lock.
type Design struct {
	components map[ComponentID]*Component
	wires      map[WireID]*Wire

	// Insertion orders, for stable iteration and BFS child ordering.
	componentOrder []ComponentID
	wireOrder      []WireID

	nextComponent ComponentID
	nextWire      WireID
}

// NewDesign creates an empty design.
func NewDesign() *Design {
	return &Design{
		components: make(map[ComponentID]*Component),
		wires:      make(map[WireID]*Wire),
	}
}

// AddComponent places a new component at the given scene position and
// returns it. The position is snapped to the routing grid, and the
// component gets one default anchor at its symbol center.
func (d *Design) AddComponent(name string, kind Kind, va int, pos geometry.Point2D) *Component {
	d.nextComponent++
	c := &Component{
		ID:         d.nextComponent,
		Name:       name,
		Kind:       kind,
		VA:         va,
		Continuous: kind.Info().Continuous,
		Pos:        geometry.Point2D{X: route.SnapCoord(pos.X), Y: route.SnapCoord(pos.Y)},
	}
	c.Anchors = []*Anchor{{Owner: c.ID, Offset: defaultAnchorOffset}}
	d.components[c.ID] = c
	d.componentOrder = append(d.componentOrder, c.ID)
	return c
}

// Component returns the component with the given ID, or nil.
func (d *Design) Component(id ComponentID) *Component {
	return d.components[id]
}

// Components returns all components in insertion order.
func (d *Design) Components() []*Component {
	out := make([]*Component, 0, len(d.componentOrder))
	for _, id := range d.componentOrder {
		out = append(out, d.components[id])
	}
	return out
}

// Wire returns the wire with the given ID, or nil.
func (d *Design) Wire(id WireID) *Wire {
	return d.wires[id]
}

// Wires returns all wires in insertion order.
func (d *Design) Wires() []*Wire {
	out := make([]*Wire, 0, len(d.wireOrder))
	for _, id := range d.wireOrder {
		out = append(out, d.wires[id])
	}
	return out
}

// Connect creates a wire between the default anchors of two components
// and records the undirected adjacency. The wire kind is WireFeeder when
// either endpoint is a feeder, matching how feeder runs are drawn.
func (d *Design) Connect(a, b ComponentID) (*Wire, error) {
	if a == b {
		return nil, fmt.Errorf("cannot connect component %d to itself", a)
	}
	ca := d.components[a]
	cb := d.components[b]
	if ca == nil || cb == nil {
		return nil, fmt.Errorf("connect %d-%d: no such component", a, b)
	}

	kind := WireBranch
	if ca.Kind == KindFeeder || cb.Kind == KindFeeder {
		kind = WireFeeder
	}

	d.nextWire++
	w := &Wire{
		ID:    d.nextWire,
		Start: AnchorRef{Component: a, Anchor: 0},
		End:   AnchorRef{Component: b, Anchor: 0},
		Kind:  kind,
	}
	d.wires[w.ID] = w
	d.wireOrder = append(d.wireOrder, w.ID)

	ca.Anchors[0].Wires = append(ca.Anchors[0].Wires, w.ID)
	cb.Anchors[0].Wires = append(cb.Anchors[0].Wires, w.ID)

	if !ca.ConnectedTo(b) {
		ca.Connections = append(ca.Connections, b)
	}
	if !cb.ConnectedTo(a) {
		cb.Connections = append(cb.Connections, a)
	}
	return w, nil
}

// RemoveWire deletes a wire and its anchor back-references. The adjacency
// entry between the two components is dropped once no wire joins them.
func (d *Design) RemoveWire(id WireID) {
	w := d.wires[id]
	if w == nil {
		return
	}
	delete(d.wires, id)
	d.wireOrder = removeID(d.wireOrder, id)

	for _, ref := range []AnchorRef{w.Start, w.End} {
		if c := d.components[ref.Component]; c != nil {
			if a := c.Anchor(ref.Anchor); a != nil {
				a.Wires = removeID(a.Wires, id)
			}
		}
	}

	if !d.anyWireBetween(w.Start.Component, w.End.Component) {
		if c := d.components[w.Start.Component]; c != nil {
			c.Connections = removeID(c.Connections, w.End.Component)
		}
		if c := d.components[w.End.Component]; c != nil {
			c.Connections = removeID(c.Connections, w.Start.Component)
		}
	}
}

// RemoveComponent deletes a component along with every wire touching it.
func (d *Design) RemoveComponent(id ComponentID) {
	c := d.components[id]
	if c == nil {
		return
	}
	var doomed []WireID
	for _, wid := range d.wireOrder {
		if w := d.wires[wid]; w != nil && w.Touches(id) {
			doomed = append(doomed, wid)
		}
	}
	for _, wid := range doomed {
		d.RemoveWire(wid)
	}
	delete(d.components, id)
	d.componentOrder = removeID(d.componentOrder, id)
	for _, other := range d.components {
		other.Connections = removeID(other.Connections, id)
	}
}

// AnchorPos returns the scene position of the referenced anchor.
func (d *Design) AnchorPos(ref AnchorRef) geometry.Point2D {
	c := d.components[ref.Component]
	if c == nil {
		return geometry.Point2D{}
	}
	a := c.Anchor(ref.Anchor)
	if a == nil {
		return c.Pos
	}
	return c.Pos.Add(a.Offset)
}

// WirePath returns the wire's routed path, replanning first if the cache
// is uncomputed or stale. A search that falls back to the bend path still
// produces a valid cache entry; degraded geometry is not an error here.
func (d *Design) WirePath(id WireID, grid *route.ObstacleGrid) []geometry.Point2D {
	w := d.wires[id]
	if w == nil {
		return nil
	}
	if w.state != PathValid {
		start := d.AnchorPos(w.Start)
		end := d.AnchorPos(w.End)
		w.setPath(route.FindPath(start, end, grid))
	}
	return w.path
}

// InstallPath installs a path planned outside the lazy WirePath read, for
// example by the background route dispatcher. Unknown wires are ignored.
func (d *Design) InstallPath(id WireID, path []geometry.Point2D) {
	if w := d.wires[id]; w != nil {
		w.setPath(path)
	}
}

// ComponentWires returns the IDs of all wires attached to the component's
// anchors, in anchor order.
func (d *Design) ComponentWires(id ComponentID) []WireID {
	c := d.components[id]
	if c == nil {
		return nil
	}
	var out []WireID
	for _, a := range c.Anchors {
		out = append(out, a.Wires...)
	}
	return out
}

// InvalidateAllPaths marks every planned wire stale. Called when the
// floor plan (and with it the obstacle grid) is replaced.
func (d *Design) InvalidateAllPaths() {
	for _, w := range d.wires {
		w.Invalidate()
	}
}

// anyWireBetween reports whether some wire still joins the two components.
func (d *Design) anyWireBetween(a, b ComponentID) bool {
	for _, w := range d.wires {
		if (w.Start.Component == a && w.End.Component == b) ||
			(w.Start.Component == b && w.End.Component == a) {
			return true
		}
	}
	return false
}

func removeID[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
