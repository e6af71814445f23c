// Package circuit derives display groupings and load summaries from the
// wiring design: homerun trees for the navigation panel and per-room VA
// totals.
package circuit

import (
	"strings"

	"circuit-cad/internal/schematic"
)

// TreeNode is one entry of a homerun tree. Children appear in the order
// BFS discovered them, which the navigation panel preserves.
type TreeNode struct {
	ID       schematic.ComponentID
	Name     string
	Kind     schematic.Kind
	Children []*TreeNode
}

// Label returns the node's display label, glyph included.
func (n *TreeNode) Label() string {
	return n.Kind.Info().Glyph + " " + n.Name
}

// BuildHomerunTree walks the circuit adjacency breadth-first from root and
// returns the reachable components as a tree. Each node's parent is the
// component that first discovered it; neighbor lists are visited in
// connection insertion order, so direct children of a star root come out
// in the order they were wired. The visited set makes cyclic adjacency
// safe: every component appears at most once and the walk takes at most
// one step per component.
//
// Trees are rebuilt from scratch on every topology change; no identity is
// preserved across rebuilds beyond display names.
func BuildHomerunTree(d *schematic.Design, root schematic.ComponentID) *TreeNode {
	rc := d.Component(root)
	if rc == nil {
		return nil
	}

	rootNode := &TreeNode{ID: rc.ID, Name: rc.Name, Kind: rc.Kind}
	visited := map[schematic.ComponentID]bool{root: true}
	nodes := map[schematic.ComponentID]*TreeNode{root: rootNode}
	queue := []schematic.ComponentID{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		parent := nodes[current]

		for _, nid := range d.Component(current).Connections {
			if visited[nid] {
				continue
			}
			visited[nid] = true
			nc := d.Component(nid)
			if nc == nil {
				continue
			}
			child := &TreeNode{ID: nc.ID, Name: nc.Name, Kind: nc.Kind}
			parent.Children = append(parent.Children, child)
			nodes[nid] = child
			queue = append(queue, nid)
		}
	}
	return rootNode
}

// HomerunRoots returns the components that root a circuit grouping, in
// insertion order: feeders, plus anything named as a homerun.
func HomerunRoots(d *schematic.Design) []schematic.ComponentID {
	var roots []schematic.ComponentID
	for _, c := range d.Components() {
		if c.Kind == schematic.KindFeeder || strings.Contains(c.Name, "Homerun") {
			roots = append(roots, c.ID)
		}
	}
	return roots
}
