package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"circuit-cad/internal/circuit"
	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateEvents(t *testing.T) {
	s := NewState()

	var topologyEvents, wireEvents int
	s.On(EventTopologyChanged, func(interface{}) { topologyEvents++ })
	s.On(EventWiresChanged, func(interface{}) { wireEvents++ })

	a := s.AddComponent("Feeder", schematic.KindFeeder, 0, geometry.Point2D{})
	b := s.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{X: 200})
	assert.Equal(t, 2, topologyEvents)

	_, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, topologyEvents)
	assert.Equal(t, 1, wireEvents)
	assert.True(t, s.Modified)

	s.RemoveComponent(b.ID)
	assert.Equal(t, 4, topologyEvents)
	assert.Equal(t, 2, wireEvents)
}

func TestStateConnectErrorDoesNotEmit(t *testing.T) {
	s := NewState()
	a := s.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{})

	var wireEvents int
	s.On(EventWiresChanged, func(interface{}) { wireEvents++ })

	_, err := s.Connect(a.ID, a.ID)
	assert.Error(t, err)
	assert.Zero(t, wireEvents)
}

func TestStateThresholdSwapInvalidatesPaths(t *testing.T) {
	s := NewState()
	a := s.AddComponent("Feeder", schematic.KindFeeder, 0, geometry.Point2D{})
	b := s.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{X: 300})
	w, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)

	path := s.WirePath(w.ID)
	require.NotEmpty(t, path)
	assert.Equal(t, schematic.PathValid, w.State())

	s.SetWallThreshold(150)
	assert.Equal(t, schematic.PathStale, w.State())
	assert.Equal(t, 150, s.WallThreshold())
	assert.False(t, s.Grid().HasBitmap(),
		"rebuilt grid must stay bitmap-free while no plan is loaded")

	replanned := s.WirePath(w.ID)
	assert.Equal(t, path, replanned, "no bitmap: same open-space route either way")
	assert.Equal(t, schematic.PathValid, w.State())
}

func TestStateRerouteAll(t *testing.T) {
	s := NewState()
	a := s.AddComponent("Feeder", schematic.KindFeeder, 0, geometry.Point2D{})
	b := s.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{X: 200})
	w, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	s.WirePath(w.ID)
	require.Equal(t, schematic.PathValid, w.State())

	var wireEvents int
	s.On(EventWiresChanged, func(interface{}) { wireEvents++ })

	s.RerouteAll()
	assert.Equal(t, 1, wireEvents)
	assert.Equal(t, schematic.PathStale, w.State())

	s.WirePath(w.ID)
	assert.Equal(t, schematic.PathValid, w.State())
}

// writePlanPNG saves a small all-white plan image for load tests.
func writePlanPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "plan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestStateFloorplanVisibility(t *testing.T) {
	s := NewState()

	var viewEvents, loadEvents int
	s.On(EventViewChanged, func(interface{}) { viewEvents++ })
	s.On(EventFloorplanLoaded, func(interface{}) { loadEvents++ })

	// No plan loaded: the toggle is a silent no-op.
	s.SetFloorplanVisible(false)
	assert.Zero(t, viewEvents)

	require.NoError(t, s.LoadFloorplan(writePlanPNG(t, 40, 40)))
	assert.Equal(t, 1, loadEvents)

	s.SetFloorplanVisible(false)
	assert.Equal(t, 1, viewEvents)
	assert.False(t, s.Floorplan().Visible)
	assert.Equal(t, 1, loadEvents, "visibility toggles must not replay the load event")

	s.SetFloorplanVisible(true)
	assert.True(t, s.Floorplan().Visible)
}

func TestStateDragFlow(t *testing.T) {
	s := NewState()
	a := s.AddComponent("Feeder", schematic.KindFeeder, 0, geometry.Point2D{})
	b := s.AddComponent("Light", schematic.KindLighting, 100, geometry.Point2D{X: 200})
	w, err := s.Connect(a.ID, b.ID)
	require.NoError(t, err)
	s.WirePath(w.ID)

	// Background route results also emit, so count atomically.
	var wireEvents atomic.Int32
	s.On(EventWiresChanged, func(interface{}) { wireEvents.Add(1) })

	sess := s.BeginDrag(b.ID)
	require.NotNil(t, sess)

	s.DragMove(sess, geometry.Point2D{X: 204, Y: 3}) // same node, no event
	assert.Zero(t, wireEvents.Load())

	s.DragMove(sess, geometry.Point2D{X: 260, Y: 40})
	s.FlushRoutes()
	assert.GreaterOrEqual(t, wireEvents.Load(), int32(1))

	// The dispatcher has landed the replanned path by now.
	assert.Equal(t, schematic.PathValid, w.State())
	path := w.CachedPath()
	require.NotEmpty(t, path)
	assert.Equal(t, geometry.Point2D{X: 20, Y: 20}, path[0])
	assert.Equal(t, geometry.Point2D{X: 280, Y: 60}, path[len(path)-1])

	s.EndDrag(sess)
	assert.Equal(t, geometry.Point2D{X: 260, Y: 40}, s.Design().Component(b.ID).Pos)
}

func TestStateSelection(t *testing.T) {
	s := NewState()
	c := s.AddComponent("Motor", schematic.KindMotor, 1500, geometry.Point2D{})

	var selected schematic.ComponentID
	s.On(EventSelectionChanged, func(data interface{}) {
		selected = data.(schematic.ComponentID)
	})

	s.Select(c.ID)
	assert.Equal(t, c.ID, selected)
	assert.Equal(t, c.ID, s.Selected())

	s.RemoveComponent(c.ID)
	assert.Zero(t, s.Selected(), "removing the selected component clears selection")
}

func TestStateRooms(t *testing.T) {
	s := NewState()
	s.AddRoom(circuit.Room{Name: "Bedroom", Bounds: geometry.NewRect(0, 0, 300, 300)})

	rooms := s.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "Bedroom", rooms[0].Name)

	rooms[0].Name = "changed"
	assert.Equal(t, "Bedroom", s.Rooms()[0].Name, "Rooms returns a copy")
}
