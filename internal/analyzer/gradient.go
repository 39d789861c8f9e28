package analyzer

import "math"

// edgePoint is a pixel whose gradient magnitude passed the edge threshold,
// together with its unit gradient direction.
type edgePoint struct {
	x, y   float64
	ux, uy float64
	weight float64
}

// sobelEdges runs a 3x3 Sobel operator over the image and returns the edge
// points, in row-major order. The magnitude threshold is adaptive (mean plus
// one standard deviation over interior pixels), so the same settings work
// for both low and high contrast imagery.
func sobelEdges(img *IntensityImage) []edgePoint {
	w, h := img.Width(), img.Height()
	if w < 3 || h < 3 {
		return nil
	}

	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	mag := make([]float64, w*h)

	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			dx := img.At(x+1, y-1) + 2*img.At(x+1, y) + img.At(x+1, y+1) -
				img.At(x-1, y-1) - 2*img.At(x-1, y) - img.At(x-1, y+1)
			dy := img.At(x-1, y+1) + 2*img.At(x, y+1) + img.At(x+1, y+1) -
				img.At(x-1, y-1) - 2*img.At(x, y-1) - img.At(x+1, y-1)
			m := math.Hypot(dx, dy)

			i := y*w + x
			gx[i], gy[i], mag[i] = dx, dy, m
			sum += m
			sumSq += m * m
			n++
		}
	}
	if n == 0 {
		return nil
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	threshold := mean + math.Sqrt(variance)

	var edges []edgePoint
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if mag[i] <= threshold || mag[i] == 0 {
				continue
			}
			edges = append(edges, edgePoint{
				x:      float64(x),
				y:      float64(y),
				ux:     gx[i] / mag[i],
				uy:     gy[i] / mag[i],
				weight: mag[i],
			})
		}
	}
	return edges
}
