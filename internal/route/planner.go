package route

import (
	"container/heap"

	"circuit-cad/pkg/geometry"
)

// searchMargin extends the A* search window beyond the bitmap bounds, in
// scene units. Matches the canvas margin around the floor plan, and keeps
// the search domain finite so an unreachable target exhausts the frontier
// instead of expanding forever across free off-plan space.
const searchMargin = 500

// FindPath computes an orthogonal wire path from start to end that avoids
// walls in the obstacle grid. The result is always renderable:
//
//   - with no bitmap loaded, the direct three-point bend is returned
//     without searching;
//   - if the search exhausts without reaching the target, the same bend
//     is substituted, degrading quietly to an obstacle-ignoring route;
//   - if both endpoints snap to the same node, that single node is
//     returned.
//
// Two calls with the same grid and endpoints return identical paths.
func FindPath(start, end geometry.Point2D, grid *ObstacleGrid) []geometry.Point2D {
	if !grid.HasBitmap() {
		return BendPath(start, end)
	}

	s := Snap(start)
	e := Snap(end)
	if s == e {
		return []geometry.Point2D{s.Point()}
	}

	path, ok := search(s, e, grid)
	if !ok {
		return BendPath(start, end)
	}
	return path
}

// BendPath returns the unconditional two-segment orthogonal route: across
// to the target's x at the start's y, then down to the target.
func BendPath(start, end geometry.Point2D) []geometry.Point2D {
	return []geometry.Point2D{
		start,
		{X: end.X, Y: start.Y},
		end,
	}
}

// search runs A* over the 4-connected grid from s to e. Moves cost one
// GridUnit; the heuristic is Manhattan distance, which is admissible and
// consistent under uniform axis-aligned steps. Returns the node chain
// from s to e inclusive, or false if the frontier empties first.
func search(s, e GridNode, grid *ObstacleGrid) ([]geometry.Point2D, bool) {
	minX := -searchMargin
	minY := -searchMargin
	maxX := grid.bitmap.Width() + searchMargin
	maxY := grid.bitmap.Height() + searchMargin

	gScore := map[GridNode]int{s: 0}
	cameFrom := make(map[GridNode]GridNode)
	visited := make(map[GridNode]bool)

	pq := &frontier{}
	heap.Init(pq)
	heap.Push(pq, &frontierItem{node: s, f: manhattan(s, e)})

	// Neighbor order is fixed; together with the frontier's total order
	// it keeps path shape reproducible on symmetric layouts.
	steps := [4]GridNode{
		{X: GridUnit}, {X: -GridUnit}, {Y: GridUnit}, {Y: -GridUnit},
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*frontierItem)
		cur := item.node

		if cur == e {
			return reconstruct(cameFrom, s, e), true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		curG := gScore[cur]
		for _, step := range steps {
			next := GridNode{X: cur.X + step.X, Y: cur.Y + step.Y}
			if next.X < minX || next.X > maxX || next.Y < minY || next.Y > maxY {
				continue
			}
			if visited[next] || grid.IsBlocked(next) {
				continue
			}

			tentativeG := curG + GridUnit
			prevG, seen := gScore[next]
			if !seen || tentativeG < prevG {
				gScore[next] = tentativeG
				cameFrom[next] = cur
				heap.Push(pq, &frontierItem{node: next, f: tentativeG + manhattan(next, e)})
			}
		}
	}

	return nil, false
}

// reconstruct walks the predecessor chain from e back to s and reverses it.
func reconstruct(cameFrom map[GridNode]GridNode, s, e GridNode) []geometry.Point2D {
	var path []geometry.Point2D
	n := e
	for {
		path = append(path, n.Point())
		if n == s {
			break
		}
		n = cameFrom[n]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b GridNode) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// frontierItem is a node in the A* priority queue.
type frontierItem struct {
	node  GridNode
	f     int
	index int
}

// frontier implements heap.Interface. Ties on f break on (y, x) so that
// equal-priority pops happen in a deterministic total order.
type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].node.Y != pq[j].node.Y {
		return pq[i].node.Y < pq[j].node.Y
	}
	return pq[i].node.X < pq[j].node.X
}

func (pq frontier) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontier) Push(x interface{}) {
	n := len(*pq)
	item := x.(*frontierItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
