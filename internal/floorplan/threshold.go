package floorplan

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultWallThreshold separates wall pixels (lightness below) from
	// open floor on typical black-on-white plan scans.
	DefaultWallThreshold = 120

	thresholdSampleStride = 4
	thresholdMin          = 40
	thresholdMax          = 200
)

// SuggestWallThreshold estimates a wall-detection lightness threshold for
// this layer from its lightness distribution. Plans scanned with grey
// linework or tinted backgrounds sit away from the usual black-on-white
// split, so the midpoint between the dark and bright populations is a
// better cut than the fixed default.
//
// Returns DefaultWallThreshold if the layer has no image or is too uniform
// to split.
func SuggestWallThreshold(l *Layer) int {
	if l == nil || l.Image == nil {
		return DefaultWallThreshold
	}

	samples := sampleLightness(l, thresholdSampleStride)
	if len(samples) == 0 {
		return DefaultWallThreshold
	}

	mean, std := stat.MeanStdDev(samples, nil)
	if std < 8 {
		// Near-uniform image: no wall/floor split to find.
		return DefaultWallThreshold
	}

	// Split the samples at the mean and cut halfway between the two
	// population means. Two rounds of refinement are enough in practice.
	cut := mean
	for i := 0; i < 2; i++ {
		var dark, bright []float64
		for _, v := range samples {
			if v < cut {
				dark = append(dark, v)
			} else {
				bright = append(bright, v)
			}
		}
		if len(dark) == 0 || len(bright) == 0 {
			break
		}
		cut = (stat.Mean(dark, nil) + stat.Mean(bright, nil)) / 2
	}

	threshold := int(cut)
	if threshold < thresholdMin {
		threshold = thresholdMin
	}
	if threshold > thresholdMax {
		threshold = thresholdMax
	}
	return threshold
}

// sampleLightness collects lightness values on a subsampled pixel grid.
func sampleLightness(l *Layer, stride int) []float64 {
	w, h := l.Width(), l.Height()
	if w == 0 || h == 0 {
		return nil
	}
	samples := make([]float64, 0, (w/stride+1)*(h/stride+1))
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			samples = append(samples, float64(l.LightnessAt(x, y)))
		}
	}
	return samples
}
