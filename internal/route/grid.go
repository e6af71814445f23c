// Package route implements obstacle-aware orthogonal wire routing.
//
// Routing runs on an implicit grid of GridUnit-spaced nodes laid over the
// floor-plan raster. An ObstacleGrid answers blocked/free per node by
// lightness thresholding; the planner in planner.go searches that grid.
package route

import (
	"math"

	"circuit-cad/pkg/geometry"
)

// GridUnit is the snap resolution for all routable coordinates.
// Component positions and every path node are integer multiples of it.
const GridUnit = 20

// GridNode is a grid-aligned coordinate pair. Both X and Y are always
// multiples of GridUnit.
type GridNode struct {
	X int
	Y int
}

// Point returns the node's position as a scene point.
func (n GridNode) Point() geometry.Point2D {
	return geometry.Point2D{X: float64(n.X), Y: float64(n.Y)}
}

// Snap rounds a continuous scene position to the nearest GridNode.
func Snap(p geometry.Point2D) GridNode {
	return GridNode{
		X: int(math.Round(p.X/GridUnit)) * GridUnit,
		Y: int(math.Round(p.Y/GridUnit)) * GridUnit,
	}
}

// SnapCoord rounds a single scene coordinate to the nearest grid multiple.
func SnapCoord(v float64) float64 {
	return math.Round(v/GridUnit) * GridUnit
}

// BitmapProvider supplies per-pixel lightness for the imported floor plan.
// Implemented by floorplan.Layer.
type BitmapProvider interface {
	Width() int
	Height() int
	// LightnessAt returns HSL lightness 0-255 for the pixel at x, y.
	LightnessAt(x, y int) int
}

// ObstacleGrid answers blocked/free queries for grid nodes against a
// floor-plan bitmap. Safe for concurrent readers; the bitmap itself is
// swapped atomically by the owner when a new plan is imported.
type ObstacleGrid struct {
	bitmap    BitmapProvider
	threshold int
}

// NewObstacleGrid creates an obstacle grid over the given bitmap. A pixel
// with lightness below threshold is a wall. bitmap may be nil, in which
// case every node is free and routing degrades to open-space bends.
func NewObstacleGrid(bitmap BitmapProvider, threshold int) *ObstacleGrid {
	return &ObstacleGrid{bitmap: bitmap, threshold: threshold}
}

// HasBitmap reports whether an obstacle bitmap is loaded.
func (g *ObstacleGrid) HasBitmap() bool {
	return g != nil && g.bitmap != nil
}

// Threshold returns the wall-detection lightness threshold.
func (g *ObstacleGrid) Threshold() int {
	if g == nil {
		return 0
	}
	return g.threshold
}

// IsBlocked reports whether the node lies on a wall. Nodes outside the
// bitmap bounds are free: paths may route through space beyond the
// imported drawing. That is accepted policy, not a defect.
func (g *ObstacleGrid) IsBlocked(n GridNode) bool {
	if !g.HasBitmap() {
		return false
	}
	if n.X < 0 || n.X >= g.bitmap.Width() || n.Y < 0 || n.Y >= g.bitmap.Height() {
		return false
	}
	return g.bitmap.LightnessAt(n.X, n.Y) < g.threshold
}

// IsBlockedAt snaps a continuous position to the grid and queries it.
func (g *ObstacleGrid) IsBlockedAt(p geometry.Point2D) bool {
	return g.IsBlocked(Snap(p))
}
