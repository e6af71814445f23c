package circuit

import (
	"testing"

	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, d *schematic.Design, a, b schematic.ComponentID) {
	t.Helper()
	_, err := d.Connect(a, b)
	require.NoError(t, err)
}

func TestBuildHomerunTreeStarOrder(t *testing.T) {
	d := schematic.NewDesign()
	root := d.AddComponent("Homerun 1", schematic.KindFeeder, 0, geometry.Point2D{})
	a := d.AddComponent("A", schematic.KindLighting, 100, geometry.Point2D{X: 100})
	b := d.AddComponent("B", schematic.KindReceptacle, 180, geometry.Point2D{X: 200})
	c := d.AddComponent("C", schematic.KindMotor, 1500, geometry.Point2D{X: 300})

	// Wired in order A, B, C; the displayed children must keep that order.
	connect(t, d, root.ID, a.ID)
	connect(t, d, root.ID, b.ID)
	connect(t, d, root.ID, c.ID)

	tree := BuildHomerunTree(d, root.ID)
	require.NotNil(t, tree)
	assert.Equal(t, "Homerun 1", tree.Name)

	var names []string
	for _, child := range tree.Children {
		names = append(names, child.Name)
		assert.Empty(t, child.Children)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestBuildHomerunTreeBreadthFirstDepth(t *testing.T) {
	// root - a - a1, root - b; a1 must hang under a, not under root.
	d := schematic.NewDesign()
	root := d.AddComponent("Feeder", schematic.KindFeeder, 0, geometry.Point2D{})
	a := d.AddComponent("a", schematic.KindPanel, 0, geometry.Point2D{X: 100})
	b := d.AddComponent("b", schematic.KindLighting, 100, geometry.Point2D{X: 200})
	a1 := d.AddComponent("a1", schematic.KindReceptacle, 180, geometry.Point2D{X: 300})

	connect(t, d, root.ID, a.ID)
	connect(t, d, root.ID, b.ID)
	connect(t, d, a.ID, a1.ID)

	tree := BuildHomerunTree(d, root.ID)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "a", tree.Children[0].Name)
	assert.Equal(t, "b", tree.Children[1].Name)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "a1", tree.Children[0].Children[0].Name)
}

func TestBuildHomerunTreeCycleTerminates(t *testing.T) {
	d := schematic.NewDesign()
	a := d.AddComponent("A", schematic.KindFeeder, 0, geometry.Point2D{})
	b := d.AddComponent("B", schematic.KindLighting, 100, geometry.Point2D{X: 100})
	c := d.AddComponent("C", schematic.KindReceptacle, 180, geometry.Point2D{X: 200})

	// Triangle: A-B, B-C, C-A.
	connect(t, d, a.ID, b.ID)
	connect(t, d, b.ID, c.ID)
	connect(t, d, c.ID, a.ID)

	tree := BuildHomerunTree(d, a.ID)
	require.NotNil(t, tree)

	seen := map[string]int{}
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		seen[n.Name]++
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(tree)

	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, seen,
		"every component visited exactly once despite the cycle")
}

func TestBuildHomerunTreeUnknownRoot(t *testing.T) {
	d := schematic.NewDesign()
	assert.Nil(t, BuildHomerunTree(d, schematic.ComponentID(42)))
}

func TestHomerunRoots(t *testing.T) {
	d := schematic.NewDesign()
	d.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{})
	f1 := d.AddComponent("Feeder 1", schematic.KindFeeder, 0, geometry.Point2D{X: 100})
	hr := d.AddComponent("Homerun East", schematic.KindPanel, 0, geometry.Point2D{X: 200})
	f2 := d.AddComponent("Feeder 2", schematic.KindFeeder, 0, geometry.Point2D{X: 300})

	roots := HomerunRoots(d)
	assert.Equal(t, []schematic.ComponentID{f1.ID, hr.ID, f2.ID}, roots)
}

func TestTreeNodeLabel(t *testing.T) {
	n := &TreeNode{Name: "Kitchen Light", Kind: schematic.KindLighting}
	assert.Equal(t, "💡 Kitchen Light", n.Label())
}
