package analyzer

import (
	"image"
	"image/color"
	"math"
)

// makeRingImage renders a synthetic Newton rings pattern centered at
// (cx, cy): I(r) = 127.5 * (1 - cos(2*pi*r^2/k)), which has dark fringes at
// r_n = sqrt(n*k) and a dark contact spot at the center.
func makeRingImage(size int, cx, cy, k float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r2 := dx*dx + dy*dy
			v := 127.5 * (1 - math.Cos(2*math.Pi*r2/k))
			img.SetGray(x, y, grayValue(v))
		}
	}
	return img
}

func grayValue(v float64) color.Gray {
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return color.Gray{Y: uint8(math.Round(v))}
}

// expectedRingRadii lists the dark fringe radii sqrt(n*k) up to maxRadius.
func expectedRingRadii(k, maxRadius float64) []float64 {
	var radii []float64
	for n := 1; ; n++ {
		r := math.Sqrt(float64(n) * k)
		if r > maxRadius {
			return radii
		}
		radii = append(radii, r)
	}
}

// testOptions returns measurement options tuned for the synthetic pattern
// used throughout these tests (501x501, k=8100: rings at 90*sqrt(n)).
func testOptions() MeasurementOptions {
	return DefaultMeasurementOptions()
}

const (
	testImageSize = 501
	testPatternK  = 8100.0
)
