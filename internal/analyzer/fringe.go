package analyzer

import (
	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/pkg/models"
)

// fringeExtractor finds dark fringes as prominent local minima of the
// smoothed radial profile. Detection order is fixed: smooth, locate minima,
// drop minima outside the radius bounds, merge close pairs keeping the
// deeper one, cap at max_rings, then check min_rings.
type fringeExtractor struct{}

func newFringeExtractor() *fringeExtractor { return &fringeExtractor{} }

func (fe *fringeExtractor) ExtractFringes(profile models.RadialProfile, options MeasurementOptions) (models.FringeSet, error) {
	intensity := make([]float64, len(profile.Samples))
	for i, s := range profile.Samples {
		intensity[i] = s.Intensity
	}
	smoothed := movingAverage(intensity, options.SmoothWindow)

	minR := float64(options.MinRadiusPx)
	maxR := float64(profile.MaxRadius)
	if options.MaxRadiusPx > 0 && float64(options.MaxRadiusPx) < maxR {
		maxR = float64(options.MaxRadiusPx)
	}

	var candidates []minimum
	for _, m := range localMinima(smoothed, options.MinimaProminence) {
		if m.radius < minR || m.radius > maxR {
			continue
		}
		candidates = append(candidates, m)
	}
	merged := mergeClose(candidates, float64(options.MinimaSpacingPx))

	if options.MaxRings > 0 && len(merged) > options.MaxRings {
		merged = merged[:options.MaxRings]
	}
	if len(merged) < options.MinRings {
		return models.FringeSet{}, apperrors.NewInsufficientRingsError(len(merged), options.MinRings)
	}

	fringes := make([]models.Fringe, len(merged))
	for i, m := range merged {
		fringes[i] = models.Fringe{
			Order:    i + 1,
			RadiusPx: m.radius,
			RadiusMM: m.radius * options.PixelToMM,
		}
	}
	return models.FringeSet{Fringes: fringes, PixelToMM: options.PixelToMM}, nil
}

type minimum struct {
	radius float64
	value  float64
}

// movingAverage smooths with a centered window, shrinking it at the array
// ends. Even windows are widened by one; windows below 3 disable smoothing.
func movingAverage(values []float64, window int) []float64 {
	if window < 3 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	out := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(values) {
			hi = len(values) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// localMinima returns interior minima whose prominence reaches the given
// floor. Prominence of a minimum is measured against the lower of the two
// highest values reached before hitting a deeper minimum on either side.
// The sub-pixel radius comes from a parabola through the minimum and its
// neighbours.
func localMinima(values []float64, prominence float64) []minimum {
	var out []minimum
	for i := 1; i < len(values)-1; i++ {
		if !(values[i] < values[i-1] && values[i] <= values[i+1]) {
			continue
		}

		leftMax := values[i]
		for j := i - 1; j >= 0; j-- {
			if values[j] < values[i] {
				break
			}
			if values[j] > leftMax {
				leftMax = values[j]
			}
		}
		rightMax := values[i]
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[i] {
				break
			}
			if values[j] > rightMax {
				rightMax = values[j]
			}
		}

		prom := leftMax - values[i]
		if rightMax-values[i] < prom {
			prom = rightMax - values[i]
		}
		if prom < prominence {
			continue
		}

		out = append(out, minimum{radius: refineMinimum(values, i), value: values[i]})
	}
	return out
}

// refineMinimum fits a parabola through (i-1, i, i+1) and returns the vertex
// position. Falls back to the integer index for flat neighbourhoods.
func refineMinimum(values []float64, i int) float64 {
	a := values[i-1]
	b := values[i]
	c := values[i+1]
	denom := a - 2*b + c
	if denom <= 0 {
		return float64(i)
	}
	offset := 0.5 * (a - c) / denom
	if offset > 0.5 {
		offset = 0.5
	} else if offset < -0.5 {
		offset = -0.5
	}
	return float64(i) + offset
}

// mergeClose collapses minima closer together than spacing, keeping the
// deeper of each pair. Input and output are radius ascending.
func mergeClose(minima []minimum, spacing float64) []minimum {
	if len(minima) == 0 {
		return nil
	}
	out := []minimum{minima[0]}
	for _, m := range minima[1:] {
		last := &out[len(out)-1]
		if m.radius-last.radius < spacing {
			if m.value < last.value {
				*last = m
			}
			continue
		}
		out = append(out, m)
	}
	return out
}
