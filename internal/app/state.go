// Package app provides application state, events, and lifecycle glue
// between the wiring design, the routing engine, and the UI.
package app

import (
	"log"
	"sync"

	"circuit-cad/internal/circuit"
	"circuit-cad/internal/floorplan"
	"circuit-cad/internal/route"
	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventFloorplanLoaded EventType = iota
	EventComponentsChanged
	EventWiresChanged
	EventTopologyChanged
	EventSelectionChanged
	EventRoomsChanged
	// EventViewChanged signals a presentation-only change, for example the
	// floor plan being hidden. The design and grid are untouched.
	EventViewChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the wiring design, the loaded floor
// plan with its obstacle grid, rooms, and event listeners.
//
// The floor plan and obstacle grid are replaced as a single swap under the
// write lock when a new plan is imported; readers never observe a
// half-replaced bitmap. Design mutation happens only through State
// methods, all from the UI thread.
type State struct {
	mu sync.RWMutex

	Modified bool

	design *schematic.Design
	floor  *floorplan.Layer
	grid   *route.ObstacleGrid
	routes *route.Dispatcher

	wallThreshold int
	rooms         []circuit.Room

	selected schematic.ComponentID // 0 = nothing selected

	listeners map[EventType][]EventListener
}

// NewState creates a new application state with an empty design.
func NewState() *State {
	s := &State{
		design:        schematic.NewDesign(),
		grid:          route.NewObstacleGrid(nil, floorplan.DefaultWallThreshold),
		wallThreshold: floorplan.DefaultWallThreshold,
		listeners:     make(map[EventType][]EventListener),
	}
	s.rebuildDispatcher()
	return s
}

// rebuildDispatcher replaces the background route dispatcher after the grid
// changed. Results from the superseded dispatcher are discarded, since they
// were planned against the old walls. Caller holds the write lock, except
// during construction.
func (s *State) rebuildDispatcher() {
	var d *route.Dispatcher
	d = route.NewDispatcher(s.grid, func(key int, path []geometry.Point2D) {
		s.installRoute(d, key, path)
	})
	s.routes = d
}

// installRoute lands one background routing result. Called from dispatcher
// worker goroutines.
func (s *State) installRoute(from *route.Dispatcher, key int, path []geometry.Point2D) {
	s.mu.Lock()
	if s.routes != from {
		s.mu.Unlock()
		return
	}
	s.design.InstallPath(schematic.WireID(key), path)
	s.mu.Unlock()
	s.Emit(EventWiresChanged, schematic.WireID(key))
}

// FlushRoutes blocks until every submitted background route has landed.
func (s *State) FlushRoutes() {
	s.mu.RLock()
	d := s.routes
	s.mu.RUnlock()
	d.Wait()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the design as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadFloorplan imports a floor-plan image and swaps it in as the routing
// obstacle source. Every planned wire path is invalidated, since walls may
// have moved under it.
func (s *State) LoadFloorplan(path string) error {
	layer, err := floorplan.Load(path)
	if err != nil {
		return err
	}

	threshold := floorplan.SuggestWallThreshold(layer)
	log.Printf("Floor plan loaded: %s (%dx%d, wall threshold %d)",
		path, layer.Width(), layer.Height(), threshold)

	s.mu.Lock()
	s.floor = layer
	s.wallThreshold = threshold
	s.grid = newObstacleGrid(layer, threshold)
	s.rebuildDispatcher()
	s.design.InvalidateAllPaths()
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventFloorplanLoaded, layer)
	s.Emit(EventWiresChanged, nil)
	return nil
}

// SetFloorplanVisible toggles floor-plan rendering. Routing is unaffected;
// hidden walls still block wires.
func (s *State) SetFloorplanVisible(visible bool) {
	s.mu.Lock()
	if s.floor == nil {
		s.mu.Unlock()
		return
	}
	s.floor.Visible = visible
	s.mu.Unlock()
	s.Emit(EventViewChanged, visible)
}

// Floorplan returns the current floor-plan layer, or nil.
func (s *State) Floorplan() *floorplan.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.floor
}

// Grid returns the current obstacle grid. Never nil; with no floor plan
// loaded it reports every node free.
func (s *State) Grid() *route.ObstacleGrid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// WallThreshold returns the active wall-detection threshold.
func (s *State) WallThreshold() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallThreshold
}

// SetWallThreshold overrides the wall threshold and rebuilds the grid.
func (s *State) SetWallThreshold(threshold int) {
	s.mu.Lock()
	s.wallThreshold = threshold
	s.grid = newObstacleGrid(s.floor, threshold)
	s.rebuildDispatcher()
	s.design.InvalidateAllPaths()
	s.mu.Unlock()
	s.Emit(EventWiresChanged, nil)
}

// newObstacleGrid builds the routing grid for the given floor plan. A nil
// layer must become a nil interface, not a typed-nil BitmapProvider, so
// that routing degrades to open-space bends instead of dereferencing it.
func newObstacleGrid(floor *floorplan.Layer, threshold int) *route.ObstacleGrid {
	if floor == nil {
		return route.NewObstacleGrid(nil, threshold)
	}
	return route.NewObstacleGrid(floor, threshold)
}

// RerouteAll marks every planned wire path stale so the next read replans
// it against the current grid.
func (s *State) RerouteAll() {
	s.mu.Lock()
	s.design.InvalidateAllPaths()
	s.mu.Unlock()
	s.Emit(EventWiresChanged, nil)
}

// Design returns the wiring design. Mutate only via State methods.
func (s *State) Design() *schematic.Design {
	return s.design
}

// AddComponent places a component and announces the change.
func (s *State) AddComponent(name string, kind schematic.Kind, va int, pos geometry.Point2D) *schematic.Component {
	s.mu.Lock()
	c := s.design.AddComponent(name, kind, va, pos)
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventComponentsChanged, c.ID)
	s.Emit(EventTopologyChanged, nil)
	return c
}

// Connect wires two components together and announces the change.
func (s *State) Connect(a, b schematic.ComponentID) (*schematic.Wire, error) {
	s.mu.Lock()
	w, err := s.design.Connect(a, b)
	if err == nil {
		s.Modified = true
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.Emit(EventWiresChanged, w.ID)
	s.Emit(EventTopologyChanged, nil)
	return w, nil
}

// RemoveComponent deletes a component and its wires, then announces the
// change.
func (s *State) RemoveComponent(id schematic.ComponentID) {
	s.mu.Lock()
	s.design.RemoveComponent(id)
	if s.selected == id {
		s.selected = 0
	}
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventComponentsChanged, nil)
	s.Emit(EventWiresChanged, nil)
	s.Emit(EventTopologyChanged, nil)
}

// WirePath returns the routed path for a wire, replanning if stale.
func (s *State) WirePath(id schematic.WireID) []geometry.Point2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.design.WirePath(id, s.grid)
}

// BeginDrag starts a drag gesture on a component.
func (s *State) BeginDrag(id schematic.ComponentID) *schematic.DragSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.design.BeginDrag(id)
}

// DragMove applies one drag tick. When the component crossed into a new
// grid node its wires are invalidated and handed to the background
// dispatcher, which computes only the newest pending request per wire.
func (s *State) DragMove(sess *schematic.DragSession, pos geometry.Point2D) {
	s.mu.Lock()
	changed := s.design.DragMove(sess, pos)
	var reqs []route.Request
	if changed {
		s.Modified = true
		for _, wid := range s.design.ComponentWires(sess.Component) {
			w := s.design.Wire(wid)
			reqs = append(reqs, route.Request{
				Key:   int(wid),
				Start: s.design.AnchorPos(w.Start),
				End:   s.design.AnchorPos(w.End),
			})
		}
	}
	routes := s.routes
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, req := range reqs {
		routes.Submit(req)
	}
	s.Emit(EventWiresChanged, sess.Component)
}

// EndDrag finishes a drag gesture.
func (s *State) EndDrag(sess *schematic.DragSession) {
	if sess != nil && sess.Moved() {
		s.Emit(EventComponentsChanged, sess.Component)
	}
}

// Select marks a component as selected (0 clears) and announces it.
func (s *State) Select(id schematic.ComponentID) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, id)
}

// Selected returns the selected component ID, 0 if none.
func (s *State) Selected() schematic.ComponentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// AddRoom adds a load-analysis room and announces it.
func (s *State) AddRoom(room circuit.Room) {
	s.mu.Lock()
	s.rooms = append(s.rooms, room)
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventRoomsChanged, nil)
}

// Rooms returns the load-analysis rooms.
func (s *State) Rooms() []circuit.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]circuit.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}
