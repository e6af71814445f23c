// Package floorplan provides floor-plan raster loading and pixel queries.
//
// A loaded Layer is the obstacle source for wire routing: dark pixels are
// walls, bright pixels are open floor. Layers are replaced wholesale when a
// new plan is imported, never patched in place.
package floorplan

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"circuit-cad/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Layer represents a single imported floor-plan raster.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Loaded image data
	Visible bool        // Layer visibility on the canvas
	Opacity float64     // Layer opacity (0.0 - 1.0)
}

// NewLayer creates a new Layer with default settings.
func NewLayer() *Layer {
	return &Layer{
		Visible: true,
		Opacity: 1.0,
	}
}

// Load loads a floor-plan image from the specified path and returns a Layer.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open floor plan: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode floor plan: %w", err)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img
	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// LightnessAt returns the HSL lightness (0-255) of the pixel at x, y.
// Coordinates outside the image report full lightness, matching the
// routing policy that off-plan space is open floor.
func (l *Layer) LightnessAt(x, y int) int {
	if l.Image == nil {
		return 255
	}
	bounds := l.Image.Bounds()
	px := bounds.Min.X + x
	py := bounds.Min.Y + y
	if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
		return 255
	}
	return Lightness(l.Image.At(px, py))
}

// Lightness converts a color to HSL lightness scaled to 0-255.
func Lightness(c color.Color) int {
	r, g, b, _ := c.RGBA()
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	// Average of the extremes, scaled from 16-bit to 8-bit
	return int((max + min) / 2 >> 8)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
