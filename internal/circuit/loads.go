package circuit

import (
	"fmt"
	"strings"

	"circuit-cad/internal/schematic"
	"circuit-cad/pkg/geometry"
)

// Room is a named rectangular region of the floor plan used to group
// component loads for density analysis.
type Room struct {
	Name   string
	Bounds geometry.Rect
}

// RoomLoad is the aggregated connected load inside one room.
type RoomLoad struct {
	Room    string
	TotalVA int
}

// SummarizeLoads aggregates component VA per room by position containment
// and returns the per-room loads plus the total connected load across the
// whole design. Components outside every room still count toward the
// total. Room order is preserved.
func SummarizeLoads(d *schematic.Design, rooms []Room) ([]RoomLoad, int) {
	loads := make([]RoomLoad, len(rooms))
	for i, r := range rooms {
		loads[i] = RoomLoad{Room: r.Name}
	}

	total := 0
	for _, c := range d.Components() {
		total += c.VA
		for i, r := range rooms {
			if r.Bounds.Contains(c.Pos) {
				loads[i].TotalVA += c.VA
			}
		}
	}
	return loads, total
}

// FormatLoadReport renders the load summary as display text.
func FormatLoadReport(loads []RoomLoad, total int) string {
	var b strings.Builder
	for _, l := range loads {
		fmt.Fprintf(&b, "%s: %d VA\n", l.Room, l.TotalVA)
	}
	fmt.Fprintf(&b, "\nTOTAL CONNECTED LOAD: %d VA", total)
	return b.String()
}
