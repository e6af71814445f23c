// Circuit CAD is a desktop tool for laying out electrical circuits on
// scanned floor plans, with obstacle-aware wire auto-routing.
package main

import (
	"flag"
	"log"

	intapp "circuit-cad/internal/app"
	"circuit-cad/internal/version"
	"circuit-cad/ui/mainwindow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	planPath := flag.String("plan", "", "floor plan image to load on startup")
	flag.Parse()

	log.Printf("Circuit CAD %s starting", version.String())

	fyneApp := app.NewWithID("io.circuitcad.app")
	state := intapp.NewState()

	win := mainwindow.New(fyneApp, state)
	win.Resize(fyne.NewSize(1400, 900))

	if *planPath != "" {
		if err := state.LoadFloorplan(*planPath); err != nil {
			log.Printf("failed to load floor plan %s: %v", *planPath, err)
		}
	}

	win.ShowAndRun()
}
