package schematic

import (
	"circuit-cad/internal/route"
	"circuit-cad/pkg/geometry"
)

// DragSession is the explicit state of one drag gesture over a component.
// It is created at press, threaded through every move tick, and dropped at
// release; there is no ambient "currently dragging" state anywhere.
type DragSession struct {
	Component ComponentID
	Origin    geometry.Point2D // position at drag start, for cancellation

	lastNode route.GridNode
	moved    bool
}

// BeginDrag starts a drag gesture on a component. Returns nil if the
// component does not exist.
func (d *Design) BeginDrag(id ComponentID) *DragSession {
	c := d.components[id]
	if c == nil {
		return nil
	}
	return &DragSession{
		Component: id,
		Origin:    c.Pos,
		lastNode:  route.Snap(c.Pos),
	}
}

// DragMove moves the dragged component to pos, snapped to the routing
// grid. Wires touching the component are invalidated only when the
// component actually crossed into a new grid node; sub-grid jitter leaves
// cached paths alone. Reports whether anything changed.
func (d *Design) DragMove(sess *DragSession, pos geometry.Point2D) bool {
	c := d.components[sess.Component]
	if c == nil {
		return false
	}

	node := route.Snap(pos)
	if node == sess.lastNode {
		return false
	}
	sess.lastNode = node
	sess.moved = true

	c.Pos = node.Point()
	d.invalidateComponentWires(c)
	return true
}

// CancelDrag restores the component to its drag-start position.
func (d *Design) CancelDrag(sess *DragSession) {
	c := d.components[sess.Component]
	if c == nil || !sess.moved {
		return
	}
	c.Pos = sess.Origin
	d.invalidateComponentWires(c)
	sess.moved = false
}

// Moved reports whether the session changed the component's grid node.
func (s *DragSession) Moved() bool {
	return s.moved
}

func (d *Design) invalidateComponentWires(c *Component) {
	for _, a := range c.Anchors {
		for _, wid := range a.Wires {
			if w := d.wires[wid]; w != nil {
				w.Invalidate()
			}
		}
	}
}
