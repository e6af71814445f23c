package schematic

import (
	"testing"

	"circuit-cad/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComponentSnapsPosition(t *testing.T) {
	d := NewDesign()
	c := d.AddComponent("Light 1", KindLighting, 100, geometry.Point2D{X: 33, Y: 47})
	assert.Equal(t, geometry.Point2D{X: 40, Y: 40}, c.Pos)
	require.Len(t, c.Anchors, 1)
	assert.Equal(t, c.ID, c.Anchors[0].Owner)
}

func TestConnectBuildsUndirectedAdjacency(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Feeder", KindFeeder, 0, geometry.Point2D{})
	b := d.AddComponent("Duplex", KindReceptacle, 180, geometry.Point2D{X: 200})

	w, err := d.Connect(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, WireFeeder, w.Kind, "wires touching a feeder are feeder runs")

	assert.Equal(t, []ComponentID{b.ID}, a.Connections)
	assert.Equal(t, []ComponentID{a.ID}, b.Connections)
	assert.Equal(t, []WireID{w.ID}, a.Anchors[0].Wires)
	assert.Equal(t, []WireID{w.ID}, b.Anchors[0].Wires)

	// A second wire between the same pair does not duplicate adjacency.
	_, err = d.Connect(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []ComponentID{b.ID}, a.Connections)
}

func TestConnectRejectsSelfAndUnknown(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{})

	_, err := d.Connect(a.ID, a.ID)
	assert.Error(t, err)

	_, err = d.Connect(a.ID, ComponentID(99))
	assert.Error(t, err)
}

func TestWireLifecycle(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{})
	b := d.AddComponent("Duplex", KindReceptacle, 180, geometry.Point2D{X: 200, Y: 100})
	w, err := d.Connect(a.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, PathUncomputed, w.State())
	assert.Nil(t, w.CachedPath())

	// First read plans the path (open space: direct bend between anchors).
	path := d.WirePath(w.ID, nil)
	require.NotEmpty(t, path)
	assert.Equal(t, PathValid, w.State())
	assert.Equal(t, d.AnchorPos(w.Start), path[0])
	assert.Equal(t, d.AnchorPos(w.End), path[len(path)-1])

	// Moving an endpoint component invalidates; next read replans.
	sess := d.BeginDrag(b.ID)
	require.NotNil(t, sess)
	d.DragMove(sess, geometry.Point2D{X: 400, Y: 300})
	assert.Equal(t, PathStale, w.State())

	replanned := d.WirePath(w.ID, nil)
	assert.Equal(t, PathValid, w.State())
	assert.Equal(t, geometry.Point2D{X: 400 + 20, Y: 300 + 20}, replanned[len(replanned)-1])
}

func TestDragMoveIgnoresSubGridJitter(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{})
	b := d.AddComponent("Duplex", KindReceptacle, 180, geometry.Point2D{X: 200})
	w, err := d.Connect(a.ID, b.ID)
	require.NoError(t, err)
	d.WirePath(w.ID, nil)

	sess := d.BeginDrag(b.ID)
	// Both positions snap to the component's current node (200, 0).
	assert.False(t, d.DragMove(sess, geometry.Point2D{X: 203, Y: 4}))
	assert.False(t, d.DragMove(sess, geometry.Point2D{X: 196, Y: -6}))
	assert.Equal(t, PathValid, w.State(), "jitter within the node must not invalidate")
	assert.False(t, sess.Moved())

	assert.True(t, d.DragMove(sess, geometry.Point2D{X: 215, Y: 4}))
	assert.Equal(t, PathStale, w.State())
	assert.True(t, sess.Moved())
}

func TestCancelDragRestoresOrigin(t *testing.T) {
	d := NewDesign()
	c := d.AddComponent("Motor", KindMotor, 1500, geometry.Point2D{X: 100, Y: 100})

	sess := d.BeginDrag(c.ID)
	d.DragMove(sess, geometry.Point2D{X: 300, Y: 300})
	assert.Equal(t, geometry.Point2D{X: 300, Y: 300}, c.Pos)

	d.CancelDrag(sess)
	assert.Equal(t, geometry.Point2D{X: 100, Y: 100}, c.Pos)
}

func TestRemoveComponentDestroysWires(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Feeder", KindFeeder, 0, geometry.Point2D{})
	b := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{X: 100})
	c := d.AddComponent("Duplex", KindReceptacle, 180, geometry.Point2D{X: 200})
	wab, _ := d.Connect(a.ID, b.ID)
	wbc, _ := d.Connect(b.ID, c.ID)

	d.RemoveComponent(b.ID)

	assert.Nil(t, d.Component(b.ID))
	assert.Nil(t, d.Wire(wab.ID), "wire dies with either endpoint")
	assert.Nil(t, d.Wire(wbc.ID))
	assert.Empty(t, d.Component(a.ID).Connections)
	assert.Empty(t, d.Component(c.ID).Connections)
	assert.Empty(t, d.Component(a.ID).Anchors[0].Wires)
}

func TestRemoveWireDropsAdjacencyWhenLastWire(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Panel", KindPanel, 0, geometry.Point2D{})
	b := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{X: 100})
	w1, _ := d.Connect(a.ID, b.ID)
	w2, _ := d.Connect(a.ID, b.ID)

	d.RemoveWire(w1.ID)
	assert.True(t, d.Component(a.ID).ConnectedTo(b.ID), "second wire still joins them")

	d.RemoveWire(w2.ID)
	assert.False(t, d.Component(a.ID).ConnectedTo(b.ID))
}

func TestInstallPathAndComponentWires(t *testing.T) {
	d := NewDesign()
	a := d.AddComponent("Panel", KindPanel, 0, geometry.Point2D{})
	b := d.AddComponent("Light", KindLighting, 100, geometry.Point2D{X: 200})
	w, err := d.Connect(a.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, []WireID{w.ID}, d.ComponentWires(a.ID))
	assert.Nil(t, d.ComponentWires(ComponentID(99)))

	path := []geometry.Point2D{{X: 20, Y: 20}, {X: 220, Y: 20}}
	d.InstallPath(w.ID, path)
	assert.Equal(t, PathValid, w.State())
	assert.Equal(t, path, w.CachedPath())

	d.InstallPath(WireID(42), path) // unknown wire: no panic, no effect
}

func TestKindMetadata(t *testing.T) {
	assert.Equal(t, "Feeder", KindFeeder.String())
	assert.Equal(t, "⚡", KindFeeder.Info().Glyph)
	assert.True(t, KindLighting.Info().Continuous)
	assert.Equal(t, 180, KindReceptacle.Info().DefaultVA)
	assert.Equal(t, "Custom", Kind(99).Info().Name, "unknown kinds map to Custom")

	feeder := WireFeeder.Style()
	branch := WireBranch.Style()
	assert.Greater(t, feeder.CoreWidth, branch.CoreWidth)
	assert.Greater(t, feeder.GlowWidth, branch.GlowWidth)
}
