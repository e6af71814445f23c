package floorplan

import (
	"image"

	"golang.org/x/image/draw"
)

// Scaled renders the layer into an RGBA image of the given size.
// Used by the canvas to rasterize the floor plan at the current zoom.
func (l *Layer) Scaled(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if l == nil || l.Image == nil || width <= 0 || height <= 0 {
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), l.Image, l.Image.Bounds(), draw.Src, nil)
	return dst
}
