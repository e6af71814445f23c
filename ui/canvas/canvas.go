// Package canvas provides the interactive floor-plan design canvas.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"circuit-cad/internal/app"
	"circuit-cad/internal/route"
	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.25
	maxZoom  = 4.0
	zoomStep = 1.25

	// Component symbols occupy a 2x2 grid cell square, anchor at center.
	symbolSize = 2 * route.GridUnit

	// Minimum scene extent with nothing loaded.
	minSceneWidth  = 800
	minSceneHeight = 600
)

var (
	colorBackground = color.RGBA{R: 0x0d, G: 0x0f, B: 0x14, A: 0xff}
	colorGridLine   = color.RGBA{R: 0x1c, G: 0x22, B: 0x2d, A: 0xff}
	colorAccent     = color.RGBA{R: 0x00, G: 0xe5, B: 0xff, A: 0xff}
	colorAccentFill = color.RGBA{R: 0x00, G: 0x72, B: 0x80, A: 0x50}
	colorWire       = color.RGBA{R: 0x34, G: 0xe7, B: 0xe4, A: 0xff}
	colorWireGlow   = color.RGBA{R: 0x34, G: 0xe7, B: 0xe4, A: 0x3c}
	colorRoomFill   = color.RGBA{R: 0x00, G: 0xe5, B: 0xff, A: 0x19}
	colorSelected   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// DesignCanvas is the floor-plan editor surface. It rasterizes the plan,
// rooms, routed wires, and component symbols, and translates pointer
// gestures into design mutations on the app state.
type DesignCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster
	zoom   float64

	// Wire mode: first tap picks the start component, second creates the
	// wire. wireStart is 0 between gestures; hover feeds the rubber-band
	// preview between the taps.
	wireMode  bool
	wireStart schematic.ComponentID
	hover     geometry.Point2D

	drag *schematic.DragSession

	onStatus func(msg string)
}

// NewDesignCanvas creates the canvas bound to the application state.
func NewDesignCanvas(state *app.State) *DesignCanvas {
	dc := &DesignCanvas{
		state: state,
		zoom:  1.0,
	}
	dc.raster = fynecanvas.NewRaster(dc.render)
	dc.ExtendBaseWidget(dc)

	state.On(app.EventFloorplanLoaded, func(interface{}) { dc.Refresh() })
	state.On(app.EventComponentsChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventWiresChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventRoomsChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventSelectionChanged, func(interface{}) { dc.Refresh() })
	state.On(app.EventViewChanged, func(interface{}) { dc.Refresh() })
	return dc
}

// CreateRenderer implements fyne.Widget.
func (dc *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.raster)
}

// MinSize grows with the scene extent so a scroll container can pan the
// whole plan at the current zoom.
func (dc *DesignCanvas) MinSize() fyne.Size {
	extent := dc.sceneExtent()
	return fyne.NewSize(
		float32((extent.X+extent.Width)*dc.zoom),
		float32((extent.Y+extent.Height)*dc.zoom),
	)
}

// sceneExtent returns the bounding rectangle of everything drawable: the
// floor plan, the rooms, and every component symbol.
func (dc *DesignCanvas) sceneExtent() geometry.Rect {
	extent := geometry.NewRect(0, 0, minSceneWidth, minSceneHeight)

	if floor := dc.state.Floorplan(); floor != nil {
		size := floor.Size()
		extent = extent.Union(geometry.NewRect(0, 0, size.Width, size.Height))
	}
	for _, room := range dc.state.Rooms() {
		extent = extent.Union(room.Bounds)
	}

	var corners []geometry.Point2D
	for _, c := range dc.state.Design().Components() {
		corners = append(corners, c.Pos,
			c.Pos.Add(geometry.Point2D{X: symbolSize, Y: symbolSize}))
	}
	if len(corners) > 0 {
		extent = extent.Union(geometry.BoundingBox(corners))
	}
	return extent
}

// OnStatus registers a status-line callback.
func (dc *DesignCanvas) OnStatus(fn func(msg string)) {
	dc.onStatus = fn
}

// SetWireMode toggles wire-drawing mode.
func (dc *DesignCanvas) SetWireMode(enabled bool) {
	dc.wireMode = enabled
	dc.wireStart = 0
	if dc.onStatus != nil {
		if enabled {
			dc.onStatus("Wire mode: tap two components to connect them")
		} else {
			dc.onStatus("Ready")
		}
	}
}

// WireMode reports whether wire-drawing mode is active.
func (dc *DesignCanvas) WireMode() bool {
	return dc.wireMode
}

// ZoomIn increases the zoom level.
func (dc *DesignCanvas) ZoomIn() { dc.setZoom(dc.zoom * zoomStep) }

// ZoomOut decreases the zoom level.
func (dc *DesignCanvas) ZoomOut() { dc.setZoom(dc.zoom / zoomStep) }

func (dc *DesignCanvas) setZoom(z float64) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	dc.zoom = z
	dc.Refresh()
}

// toScene converts a widget position to scene coordinates.
func (dc *DesignCanvas) toScene(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X) / dc.zoom,
		Y: float64(pos.Y) / dc.zoom,
	}
}

// componentAt returns the topmost component whose symbol covers the scene
// point, or 0.
func (dc *DesignCanvas) componentAt(p geometry.Point2D) schematic.ComponentID {
	comps := dc.state.Design().Components()
	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		r := geometry.NewRect(c.Pos.X, c.Pos.Y, symbolSize, symbolSize)
		if r.Contains(p) {
			return c.ID
		}
	}
	return 0
}

// Tapped selects components, or connects them in wire mode.
func (dc *DesignCanvas) Tapped(ev *fyne.PointEvent) {
	hit := dc.componentAt(dc.toScene(ev.Position))

	if !dc.wireMode {
		dc.state.Select(hit)
		return
	}

	switch {
	case hit == 0:
		dc.wireStart = 0
	case dc.wireStart == 0:
		dc.wireStart = hit
		dc.hover = dc.toScene(ev.Position)
		dc.Refresh()
		if dc.onStatus != nil {
			dc.onStatus("Wire mode: tap the destination component")
		}
	case hit != dc.wireStart:
		if _, err := dc.state.Connect(dc.wireStart, hit); err == nil {
			if dc.onStatus != nil {
				dc.onStatus("Connected")
			}
		}
		dc.wireStart = 0
	}
}

// TappedSecondary clears wire mode state and selection.
func (dc *DesignCanvas) TappedSecondary(*fyne.PointEvent) {
	dc.wireStart = 0
	dc.state.Select(0)
}

// MouseIn implements desktop.Hoverable.
func (dc *DesignCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved feeds the rubber-band preview while a wire gesture is open.
func (dc *DesignCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if dc.wireMode && dc.wireStart != 0 {
		dc.hover = dc.toScene(ev.Position)
		dc.Refresh()
	}
}

// MouseOut implements desktop.Hoverable.
func (dc *DesignCanvas) MouseOut() {}

// Dragged moves the component under the cursor, re-routing its wires live.
func (dc *DesignCanvas) Dragged(ev *fyne.DragEvent) {
	scene := dc.toScene(ev.Position)

	if dc.drag == nil {
		origin := dc.toScene(fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY))
		hit := dc.componentAt(origin)
		if hit == 0 {
			return
		}
		dc.drag = dc.state.BeginDrag(hit)
	}
	if dc.drag != nil {
		dc.state.DragMove(dc.drag, scene)
	}
}

// DragEnd finishes an in-progress component drag.
func (dc *DesignCanvas) DragEnd() {
	if dc.drag != nil {
		dc.state.EndDrag(dc.drag)
		dc.drag = nil
	}
}

// render rasterizes the whole scene at the current zoom.
func (dc *DesignCanvas) render(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	if w == 0 || h == 0 {
		return out
	}

	if floor := dc.state.Floorplan(); floor != nil && floor.Visible {
		fw := int(float64(floor.Width()) * dc.zoom)
		fh := int(float64(floor.Height()) * dc.zoom)
		scaled := floor.Scaled(fw, fh)
		draw.Draw(out, scaled.Bounds(), scaled, image.Point{}, draw.Over)
	}

	dc.drawGrid(out, w, h)

	for _, room := range dc.state.Rooms() {
		dc.fillSceneRect(out, room.Bounds, colorRoomFill)
		dc.strokeSceneRect(out, room.Bounds, colorAccent)
	}

	design := dc.state.Design()
	for _, wire := range design.Wires() {
		path := dc.state.WirePath(wire.ID)
		style := wire.Kind.Style()
		dc.drawPolyline(out, path, colorWireGlow, float64(style.GlowWidth))
		dc.drawPolyline(out, path, colorWire, float64(style.CoreWidth))
	}

	if dc.wireMode && dc.wireStart != 0 {
		origin := design.AnchorPos(schematic.AnchorRef{Component: dc.wireStart})
		preview := route.BendPath(origin, dc.hover)
		dc.drawPolyline(out, preview, colorWireGlow, 2)
	}

	selected := dc.state.Selected()
	for _, c := range design.Components() {
		r := geometry.NewRect(c.Pos.X, c.Pos.Y, symbolSize, symbolSize)
		dc.fillSceneRect(out, r, colorAccentFill)
		border := colorAccent
		if c.ID == selected {
			border = colorSelected
		}
		dc.strokeSceneRect(out, r, border)
	}

	return out
}

// drawGrid draws the snap grid when zoomed in enough to resolve it.
func (dc *DesignCanvas) drawGrid(out *image.RGBA, w, h int) {
	if dc.zoom < 0.5 {
		return
	}
	step := route.GridUnit * dc.zoom
	for x := 0.0; x < float64(w); x += step {
		for y := 0; y < h; y++ {
			out.SetRGBA(int(x), y, colorGridLine)
		}
	}
	for y := 0.0; y < float64(h); y += step {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, int(y), colorGridLine)
		}
	}
}

// drawPolyline strokes consecutive path points as axis-aligned segments.
func (dc *DesignCanvas) drawPolyline(out *image.RGBA, path []geometry.Point2D, c color.RGBA, width float64) {
	half := int(width * dc.zoom / 2)
	if half < 1 {
		half = 1
	}
	for i := 1; i < len(path); i++ {
		x0 := int(path[i-1].X * dc.zoom)
		y0 := int(path[i-1].Y * dc.zoom)
		x1 := int(path[i].X * dc.zoom)
		y1 := int(path[i].Y * dc.zoom)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		fillPixels(out, x0-half, y0-half, x1+half, y1+half, c)
	}
}

func (dc *DesignCanvas) fillSceneRect(out *image.RGBA, r geometry.Rect, c color.RGBA) {
	fillPixels(out,
		int(r.X*dc.zoom), int(r.Y*dc.zoom),
		int((r.X+r.Width)*dc.zoom), int((r.Y+r.Height)*dc.zoom), c)
}

func (dc *DesignCanvas) strokeSceneRect(out *image.RGBA, r geometry.Rect, c color.RGBA) {
	x0 := int(r.X * dc.zoom)
	y0 := int(r.Y * dc.zoom)
	x1 := int((r.X + r.Width) * dc.zoom)
	y1 := int((r.Y + r.Height) * dc.zoom)
	fillPixels(out, x0, y0, x1, y0+1, c)
	fillPixels(out, x0, y1-1, x1, y1, c)
	fillPixels(out, x0, y0, x0+1, y1, c)
	fillPixels(out, x1-1, y0, x1, y1, c)
}

// fillPixels blends a solid color over the pixel span, clipped to bounds.
func fillPixels(out *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	bounds := out.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}
	src := image.NewUniform(c)
	draw.Draw(out, image.Rect(x0, y0, x1, y1), src, image.Point{}, draw.Over)
}
