// Command routecheck routes a wire across a floor-plan image and reports
// the resulting path. Useful for tuning wall thresholds without the UI.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"circuit-cad/internal/floorplan"
	"circuit-cad/internal/route"
	"circuit-cad/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to floor-plan image (PNG, JPEG, or TIFF); omit for open-space routing")
	threshold := flag.Int("threshold", 0, "Wall lightness threshold (0 = auto-suggest)")
	from := flag.String("from", "0,0", "Start point as x,y in scene units")
	to := flag.String("to", "", "End point as x,y in scene units")
	outPath := flag.String("out", "", "Optional PNG overlay output path")
	flag.Parse()

	if *to == "" {
		fmt.Println("Usage: routecheck -from x,y -to x,y [-image <path>] [-threshold N] [-out overlay.png]")
		os.Exit(1)
	}

	start, err := parsePoint(*from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad -from: %v\n", err)
		os.Exit(1)
	}
	end, err := parsePoint(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad -to: %v\n", err)
		os.Exit(1)
	}

	var layer *floorplan.Layer
	if *imagePath != "" {
		layer, err = floorplan.Load(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load floor plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded floor plan: %dx%d pixels\n", layer.Width(), layer.Height())
	} else {
		fmt.Println("No floor plan: routing through open space")
	}

	wallCut := *threshold
	if wallCut == 0 {
		wallCut = floorplan.SuggestWallThreshold(layer)
	}
	fmt.Printf("Wall threshold: %d\n", wallCut)

	var grid *route.ObstacleGrid
	if layer != nil {
		grid = route.NewObstacleGrid(layer, wallCut)
	}

	path := route.FindPath(start, end, grid)

	fallback := samePath(path, route.BendPath(start, end))
	fmt.Printf("\nPath (%d points, length %.0f):\n", len(path), geometry.PathLength(path))
	for _, p := range path {
		fmt.Printf("  (%.0f, %.0f)\n", p.X, p.Y)
	}
	if fallback && grid.HasBitmap() {
		fmt.Println("\nNote: search failed; direct bend substituted (may cross walls)")
	}

	if *outPath != "" && layer != nil {
		if err := writeOverlay(*outPath, layer, path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %s\n", *outPath)
	}
}

func parsePoint(s string) (geometry.Point2D, error) {
	var p geometry.Point2D
	if _, err := fmt.Sscanf(s, "%f,%f", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("expected x,y: %w", err)
	}
	return p, nil
}

func samePath(a, b []geometry.Point2D) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writeOverlay renders the routed path over the floor plan and saves a PNG.
func writeOverlay(path string, layer *floorplan.Layer, pts []geometry.Point2D) error {
	bounds := layer.Image.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), layer.Image, bounds.Min, draw.Src)

	wireColor := color.RGBA{R: 0x34, G: 0xe7, B: 0xe4, A: 0xff}
	for i := 1; i < len(pts); i++ {
		drawSegment(out, pts[i-1], pts[i], wireColor)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

// drawSegment strokes an axis-aligned segment 3 pixels wide.
func drawSegment(img *image.RGBA, a, b geometry.Point2D, c color.RGBA) {
	x0, y0 := int(a.X), int(a.Y)
	x1, y1 := int(b.X), int(b.Y)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0 - 1; y <= y1+1; y++ {
		for x := x0 - 1; x <= x1+1; x++ {
			if (image.Point{X: x, Y: y}).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
