// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"circuit-cad/internal/app"
	"circuit-cad/internal/floorplan"
	"circuit-cad/internal/version"
	designcanvas "circuit-cad/ui/canvas"
	"circuit-cad/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *designcanvas.DesignCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	wireModeItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("Circuit CAD")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = designcanvas.NewDesignCanvas(mw.state)
	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)

	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnStatus(mw.updateStatus)

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewScroll(mw.canvas),
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom and mode controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", func() { mw.canvas.ZoomOut() })
	zoomInBtn := widget.NewButton("+", func() { mw.canvas.ZoomIn() })
	wireBtn := widget.NewButton("Wire", func() { mw.onToggleWireMode() })

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		widget.NewSeparator(),
		wireBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Import Floor Plan...", mw.onImportFloorplan),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
	)

	mw.wireModeItem = fyne.NewMenuItem("  Wire Mode", mw.onToggleWireMode)

	toolsMenu := fyne.NewMenu("Tools",
		mw.wireModeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Re-route All Wires", mw.onRerouteAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.ZoomOut() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventFloorplanLoaded, func(data interface{}) {
		if layer, ok := data.(*floorplan.Layer); ok && layer != nil {
			mw.SetTitle("Circuit CAD - " + filepath.Base(layer.Path))
			mw.updateStatus(fmt.Sprintf("Floor plan loaded: %dx%d, wall threshold %d",
				layer.Width(), layer.Height(), mw.state.WallThreshold()))
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onImportFloorplan() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadFloorplan(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(floorplan.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDeleteSelected() {
	if id := mw.state.Selected(); id != 0 {
		mw.state.RemoveComponent(id)
		mw.updateStatus("Component deleted")
	}
}

func (mw *MainWindow) onToggleWireMode() {
	enabled := !mw.canvas.WireMode()
	mw.canvas.SetWireMode(enabled)
	if enabled {
		mw.wireModeItem.Label = "✓ Wire Mode"
	} else {
		mw.wireModeItem.Label = "  Wire Mode"
	}
}

func (mw *MainWindow) onRerouteAll() {
	mw.state.RerouteAll()
	mw.updateStatus("All wires re-routed")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Circuit CAD",
		fmt.Sprintf("Circuit CAD %s\n\n"+
			"Electrical circuit design on scanned floor plans,\n"+
			"with obstacle-aware wire auto-routing.",
			version.String()),
		mw.Window)
}
