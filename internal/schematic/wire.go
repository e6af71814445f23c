package schematic

import (
	"circuit-cad/pkg/geometry"
)

// WireID addresses a wire in the design arena.
type WireID int

// WireKind distinguishes branch circuit wires from feeder runs. It only
// affects rendering style, never routing.
type WireKind int

const (
	WireBranch WireKind = iota
	WireFeeder
)

func (k WireKind) String() string {
	if k == WireFeeder {
		return "Feeder"
	}
	return "Branch"
}

// WireStyle is the stroke metadata for a wire kind.
type WireStyle struct {
	CoreWidth float32
	GlowWidth float32
}

// Style returns the stroke widths for the kind. Feeder runs draw heavier.
func (k WireKind) Style() WireStyle {
	if k == WireFeeder {
		return WireStyle{CoreWidth: 4, GlowWidth: 10}
	}
	return WireStyle{CoreWidth: 2, GlowWidth: 6}
}

// PathState tracks the wire's cached path through its lifecycle.
type PathState int

const (
	// PathUncomputed means no path has been planned yet; the first read
	// triggers planning.
	PathUncomputed PathState = iota
	// PathValid means the cached path reflects the current endpoints.
	PathValid
	// PathStale means an endpoint moved since the path was planned; the
	// next read replans synchronously.
	PathStale
)

// Wire connects two anchors and caches its routed path. The cache holds
// only the latest result; superseded paths are discarded, and a fallback
// bend produced after a failed search is still a valid cached path.
type Wire struct {
	ID    WireID
	Start AnchorRef
	End   AnchorRef
	Kind  WireKind

	path  []geometry.Point2D
	state PathState
}

// State returns the cache state.
func (w *Wire) State() PathState {
	return w.state
}

// Invalidate marks a previously planned path as stale.
func (w *Wire) Invalidate() {
	if w.state == PathValid {
		w.state = PathStale
	}
}

// CachedPath returns the cached path without triggering a recompute.
// Nil until the first Design.WirePath read.
func (w *Wire) CachedPath() []geometry.Point2D {
	return w.path
}

// setPath installs a freshly planned path and marks the cache valid.
func (w *Wire) setPath(path []geometry.Point2D) {
	w.path = path
	w.state = PathValid
}

// Touches reports whether the wire attaches to the given component.
func (w *Wire) Touches(id ComponentID) bool {
	return w.Start.Component == id || w.End.Component == id
}
