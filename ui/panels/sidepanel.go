// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strconv"

	"circuit-cad/internal/app"
	"circuit-cad/internal/circuit"
	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"
	designcanvas "circuit-cad/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *designcanvas.DesignCanvas
	container *container.AppTabs

	palettePanel  *PalettePanel
	circuitsPanel *CircuitsPanel
	loadsPanel    *LoadsPanel
	planPanel     *PlanPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *designcanvas.DesignCanvas) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	sp.palettePanel = NewPalettePanel(state, cvs)
	sp.circuitsPanel = NewCircuitsPanel(state)
	sp.loadsPanel = NewLoadsPanel(state)
	sp.planPanel = NewPlanPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Palette", sp.palettePanel.Container()),
		container.NewTabItem("Circuits", sp.circuitsPanel.Container()),
		container.NewTabItem("Loads", sp.loadsPanel.Container()),
		container.NewTabItem("Plan", sp.planPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// PalettePanel places new components and toggles wire mode.
type PalettePanel struct {
	state     *app.State
	canvas    *designcanvas.DesignCanvas
	container fyne.CanvasObject

	wireModeCheck *widget.Check
	detailLabel   *widget.Label

	// Counter per kind for auto names like "Lighting 3".
	placed map[schematic.Kind]int
	// Drop positions stagger so new symbols do not pile up.
	drops int
}

// NewPalettePanel creates a new palette panel.
func NewPalettePanel(state *app.State, cvs *designcanvas.DesignCanvas) *PalettePanel {
	pp := &PalettePanel{
		state:  state,
		canvas: cvs,
		placed: make(map[schematic.Kind]int),
	}

	pp.detailLabel = widget.NewLabel("Nothing selected")
	pp.detailLabel.Wrapping = fyne.TextWrapWord

	var kindButtons []fyne.CanvasObject
	for _, kind := range schematic.Kinds() {
		kind := kind
		info := kind.Info()
		kindButtons = append(kindButtons, widget.NewButton(
			fmt.Sprintf("%s %s", info.Glyph, info.Name),
			func() { pp.place(kind) },
		))
	}

	pp.wireModeCheck = widget.NewCheck("Wire mode", func(checked bool) {
		cvs.SetWireMode(checked)
	})

	deleteButton := widget.NewButton("Delete Selected", func() {
		if id := state.Selected(); id != 0 {
			state.RemoveComponent(id)
		}
	})

	state.On(app.EventSelectionChanged, func(interface{}) { pp.updateDetail() })
	state.On(app.EventComponentsChanged, func(interface{}) { pp.updateDetail() })

	pp.container = container.NewVBox(
		widget.NewCard("Add Component", "", container.NewVBox(kindButtons...)),
		widget.NewCard("Wiring", "", container.NewVBox(
			pp.wireModeCheck,
			deleteButton,
		)),
		widget.NewCard("Selection", "", pp.detailLabel),
	)

	return pp
}

// Container returns the panel container.
func (pp *PalettePanel) Container() fyne.CanvasObject {
	return pp.container
}

// place drops a new component of the given kind onto the canvas.
func (pp *PalettePanel) place(kind schematic.Kind) {
	info := kind.Info()
	pp.placed[kind]++
	name := fmt.Sprintf("%s %d", info.Name, pp.placed[kind])

	// Stagger drops diagonally from the top-left corner.
	pos := geometry.Point2D{
		X: 100 + float64(pp.drops%8)*60,
		Y: 100 + float64(pp.drops/8%8)*60,
	}
	pp.drops++

	c := pp.state.AddComponent(name, kind, info.DefaultVA, pos)
	pp.state.Select(c.ID)
}

func (pp *PalettePanel) updateDetail() {
	id := pp.state.Selected()
	if id == 0 {
		pp.detailLabel.SetText("Nothing selected")
		return
	}
	c := pp.state.Design().Component(id)
	if c == nil {
		pp.detailLabel.SetText("Nothing selected")
		return
	}

	load := fmt.Sprintf("%d VA", c.VA)
	if c.Continuous {
		load += " (continuous)"
	}
	pp.detailLabel.SetText(fmt.Sprintf("%s %s\n%s\nLoad: %s\nConnections: %d",
		c.Kind.Info().Glyph, c.Name, c.Kind.Info().Name, load, len(c.Connections)))
}

// CircuitsPanel shows every homerun circuit as a tree rooted at its feeder.
type CircuitsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	tree *widget.Tree

	// Flattened tree index, rebuilt whenever the topology changes.
	children map[widget.TreeNodeID][]widget.TreeNodeID
	labels   map[widget.TreeNodeID]string
	selects  map[widget.TreeNodeID]schematic.ComponentID
}

// NewCircuitsPanel creates a new circuits panel.
func NewCircuitsPanel(state *app.State) *CircuitsPanel {
	cp := &CircuitsPanel{
		state:    state,
		children: make(map[widget.TreeNodeID][]widget.TreeNodeID),
		labels:   make(map[widget.TreeNodeID]string),
		selects:  make(map[widget.TreeNodeID]schematic.ComponentID),
	}

	cp.tree = widget.NewTree(
		func(uid widget.TreeNodeID) []widget.TreeNodeID {
			return cp.children[uid]
		},
		func(uid widget.TreeNodeID) bool {
			return len(cp.children[uid]) > 0
		},
		func(bool) fyne.CanvasObject {
			return widget.NewLabel("circuit")
		},
		func(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(cp.labels[uid])
		},
	)
	cp.tree.OnSelected = func(uid widget.TreeNodeID) {
		if id, ok := cp.selects[uid]; ok {
			state.Select(id)
		}
	}

	state.On(app.EventTopologyChanged, func(interface{}) { cp.rebuild() })
	state.On(app.EventComponentsChanged, func(interface{}) { cp.rebuild() })

	cp.rebuild()
	cp.container = container.NewBorder(
		widget.NewLabel("Homerun Circuits"), nil, nil, nil,
		cp.tree,
	)
	return cp
}

// Container returns the panel container.
func (cp *CircuitsPanel) Container() fyne.CanvasObject {
	return cp.container
}

// rebuild re-walks every homerun tree into the flat widget.Tree index.
// UIDs carry the root so a component reached from two homeruns gets a
// distinct node in each.
func (cp *CircuitsPanel) rebuild() {
	cp.children = make(map[widget.TreeNodeID][]widget.TreeNodeID)
	cp.labels = make(map[widget.TreeNodeID]string)
	cp.selects = make(map[widget.TreeNodeID]schematic.ComponentID)

	design := cp.state.Design()
	for _, rootID := range circuit.HomerunRoots(design) {
		node := circuit.BuildHomerunTree(design, rootID)
		if node == nil {
			continue
		}
		uid := "hr" + strconv.Itoa(int(rootID))
		cp.children[""] = append(cp.children[""], uid)
		cp.index(uid, node)
	}
	if len(cp.children[""]) == 0 {
		cp.children[""] = []widget.TreeNodeID{"none"}
		cp.labels["none"] = "No homerun circuits"
	}
	cp.tree.Refresh()
}

func (cp *CircuitsPanel) index(uid widget.TreeNodeID, node *circuit.TreeNode) {
	cp.labels[uid] = node.Label()
	cp.selects[uid] = node.ID
	for _, child := range node.Children {
		childUID := uid + "/" + strconv.Itoa(int(child.ID))
		cp.children[uid] = append(cp.children[uid], childUID)
		cp.index(childUID, child)
	}
}

// LoadsPanel shows the per-room connected load summary.
type LoadsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	report *widget.Label

	nameEntry   *widget.Entry
	boundsEntry *widget.Entry
}

// NewLoadsPanel creates a new loads panel.
func NewLoadsPanel(state *app.State) *LoadsPanel {
	lp := &LoadsPanel{
		state: state,
	}

	lp.report = widget.NewLabel("")
	lp.report.TextStyle = fyne.TextStyle{Monospace: true}

	lp.nameEntry = widget.NewEntry()
	lp.nameEntry.SetPlaceHolder("Room name")
	lp.boundsEntry = widget.NewEntry()
	lp.boundsEntry.SetPlaceHolder("x,y,w,h")

	addButton := widget.NewButton("Add Room", func() { lp.addRoom() })

	state.On(app.EventComponentsChanged, func(interface{}) { lp.update() })
	state.On(app.EventTopologyChanged, func(interface{}) { lp.update() })
	state.On(app.EventRoomsChanged, func(interface{}) { lp.update() })

	lp.update()
	lp.container = container.NewVBox(
		widget.NewCard("Rooms", "", container.NewVBox(
			lp.nameEntry,
			lp.boundsEntry,
			addButton,
		)),
		widget.NewCard("Connected Load", "", lp.report),
	)
	return lp
}

// Container returns the panel container.
func (lp *LoadsPanel) Container() fyne.CanvasObject {
	return lp.container
}

func (lp *LoadsPanel) addRoom() {
	name := lp.nameEntry.Text
	if name == "" {
		return
	}
	bounds, err := parseBounds(lp.boundsEntry.Text)
	if err != nil {
		lp.report.SetText(err.Error())
		return
	}
	lp.state.AddRoom(circuit.Room{Name: name, Bounds: bounds})
	lp.nameEntry.SetText("")
	lp.boundsEntry.SetText("")
}

func (lp *LoadsPanel) update() {
	loads, total := circuit.SummarizeLoads(lp.state.Design(), lp.state.Rooms())
	lp.report.SetText(circuit.FormatLoadReport(loads, total))
}

// parseBounds parses "x,y,w,h" into a scene rectangle.
func parseBounds(s string) (geometry.Rect, error) {
	var x, y, w, h float64
	n, err := fmt.Sscanf(s, "%f,%f,%f,%f", &x, &y, &w, &h)
	if err != nil || n != 4 {
		return geometry.Rect{}, fmt.Errorf("bounds must be x,y,w,h")
	}
	if w <= 0 || h <= 0 {
		return geometry.Rect{}, fmt.Errorf("room width and height must be positive")
	}
	return geometry.NewRect(x, y, w, h), nil
}

// PlanPanel controls the floor plan layer and wall detection.
type PlanPanel struct {
	state     *app.State
	container fyne.CanvasObject

	infoLabel       *widget.Label
	visibleCheck    *widget.Check
	thresholdSlider *widget.Slider
	thresholdLabel  *widget.Label
}

// NewPlanPanel creates a new plan panel.
func NewPlanPanel(state *app.State) *PlanPanel {
	pl := &PlanPanel{
		state: state,
	}

	pl.infoLabel = widget.NewLabel("No floor plan loaded")
	pl.infoLabel.Wrapping = fyne.TextWrapWord

	pl.visibleCheck = widget.NewCheck("Show floor plan", func(checked bool) {
		state.SetFloorplanVisible(checked)
	})
	pl.visibleCheck.SetChecked(true)

	pl.thresholdLabel = widget.NewLabel(fmt.Sprintf("Wall threshold: %d", state.WallThreshold()))
	pl.thresholdSlider = widget.NewSlider(0, 255)
	pl.thresholdSlider.SetValue(float64(state.WallThreshold()))
	pl.thresholdSlider.OnChanged = func(val float64) {
		threshold := int(val)
		pl.thresholdLabel.SetText(fmt.Sprintf("Wall threshold: %d", threshold))
		state.SetWallThreshold(threshold)
	}

	state.On(app.EventFloorplanLoaded, func(interface{}) { pl.update() })

	pl.container = container.NewVBox(
		widget.NewCard("Floor Plan", "", container.NewVBox(
			pl.infoLabel,
			pl.visibleCheck,
		)),
		widget.NewCard("Wall Detection", "", container.NewVBox(
			pl.thresholdLabel,
			pl.thresholdSlider,
		)),
	)
	return pl
}

// Container returns the panel container.
func (pl *PlanPanel) Container() fyne.CanvasObject {
	return pl.container
}

func (pl *PlanPanel) update() {
	floor := pl.state.Floorplan()
	if floor == nil {
		pl.infoLabel.SetText("No floor plan loaded")
		return
	}
	pl.infoLabel.SetText(fmt.Sprintf("%s\n%dx%d pixels",
		floor.Path, floor.Width(), floor.Height()))
	pl.thresholdSlider.SetValue(float64(pl.state.WallThreshold()))
	pl.thresholdLabel.SetText(fmt.Sprintf("Wall threshold: %d", pl.state.WallThreshold()))
}
