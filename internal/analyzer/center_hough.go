package analyzer

import (
	"fmt"
	"math"

	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/pkg/models"
)

// minEdgePoints is the minimum number of Sobel edge pixels required before
// either center estimator will attempt a fit. Below this there is no ring
// structure to speak of.
const minEdgePoints = 64

// houghCenterEstimator votes for circle centers along edge gradient
// directions. Every edge pixel votes at distance r along both gradient
// directions for every candidate radius, so concentric rings of different
// radii reinforce the same center cell. The accumulator peak is refined to
// sub-pixel precision with a 3x3 vote centroid.
type houghCenterEstimator struct{}

// NewHoughCenterEstimator returns the gradient-directed hough estimator.
func NewHoughCenterEstimator() CenterEstimator {
	return &houghCenterEstimator{}
}

func (e *houghCenterEstimator) MethodName() string { return "hough" }

func (e *houghCenterEstimator) EstimateCenter(img *IntensityImage, options MeasurementOptions) (models.Center, error) {
	w, h := img.Width(), img.Height()

	edges := sobelEdges(img)
	if len(edges) < minEdgePoints {
		return models.Center{}, apperrors.NewCenterDetectionError(
			"too few edge pixels for center voting",
			fmt.Sprintf("found %d edge pixels, need %d", len(edges), minEdgePoints))
	}

	rMin := options.MinRadiusPx
	if rMin < 1 {
		rMin = 1
	}
	rMax := options.MaxRadiusPx
	if rMax <= 0 || rMax > min(w, h)/2 {
		rMax = min(w, h) / 2
	}
	if rMax <= rMin {
		return models.Center{}, apperrors.NewCenterDetectionError(
			"radius search range is empty",
			fmt.Sprintf("min_radius=%d, max_radius=%d", rMin, rMax))
	}

	acc := make([]int, w*h)
	for _, p := range edges {
		for r := rMin; r <= rMax; r++ {
			fr := float64(r)
			vote(acc, w, h, p.x-fr*p.ux, p.y-fr*p.uy)
			vote(acc, w, h, p.x+fr*p.ux, p.y+fr*p.uy)
		}
	}

	// Row-major scan with strict > keeps the winner stable under ties.
	best, bestX, bestY := 0, 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v := acc[y*w+x]; v > best {
				best, bestX, bestY = v, x, y
			}
		}
	}

	var votes, sx, sy float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := bestX+dx, bestY+dy
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			v := float64(acc[y*w+x])
			votes += v
			sx += v * float64(x)
			sy += v * float64(y)
		}
	}

	score := votes / float64(len(edges))
	if score > 1 {
		score = 1
	}
	if best == 0 || score < options.MinCenterScore {
		return models.Center{}, apperrors.NewCenterDetectionError(
			"no dominant center in vote accumulator",
			fmt.Sprintf("peak score %.3f below floor %.3f", score, options.MinCenterScore))
	}

	return models.Center{
		X:      sx / votes,
		Y:      sy / votes,
		Method: e.MethodName(),
		Score:  score,
	}, nil
}

func vote(acc []int, w, h int, x, y float64) {
	xi := int(math.Round(x))
	yi := int(math.Round(y))
	if xi < 0 || xi >= w || yi < 0 || yi >= h {
		return
	}
	acc[yi*w+xi]++
}
