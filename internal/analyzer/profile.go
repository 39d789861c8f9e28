package analyzer

import (
	"math"

	"go-newton-rings/pkg/models"
)

// radialProfiler averages bilinear intensity samples over evenly spaced
// angles at each integer radius. Angles are split into contiguous chunks
// processed by the worker pool; per-chunk sums are merged in chunk order so
// the floating point result is identical run to run.
type radialProfiler struct {
	pool *workerPool
}

func newRadialProfiler(pool *workerPool) *radialProfiler {
	return &radialProfiler{pool: pool}
}

func (rp *radialProfiler) BuildProfile(img *IntensityImage, center models.Center, options MeasurementOptions) models.RadialProfile {
	maxR := img.usableRadius(center.X, center.Y)
	if options.MaxRadiusPx > 0 && options.MaxRadiusPx < maxR {
		maxR = options.MaxRadiusPx
	}
	numAngles := options.NumAngles
	if maxR < 1 || numAngles < 1 {
		return models.RadialProfile{NumAngles: numAngles}
	}

	chunks := options.Workers
	if chunks < 1 {
		chunks = 1
	}
	if chunks > numAngles {
		chunks = numAngles
	}
	partial := make([][]float64, chunks)

	step := 2 * math.Pi / float64(numAngles)
	chunkSize := (numAngles + chunks - 1) / chunks
	run := rp.pool.NewBatch()
	for c := 0; c < chunks; c++ {
		c := c
		lo := c * chunkSize
		hi := lo + chunkSize
		if hi > numAngles {
			hi = numAngles
		}
		run.Submit(func() {
			sums := make([]float64, maxR+1)
			for a := lo; a < hi; a++ {
				theta := float64(a) * step
				cos, sin := math.Cos(theta), math.Sin(theta)
				for r := 0; r <= maxR; r++ {
					fr := float64(r)
					sums[r] += img.Bilinear(center.X+fr*cos, center.Y+fr*sin)
				}
			}
			partial[c] = sums
		})
	}
	run.Wait()

	samples := make([]models.ProfileSample, maxR+1)
	for r := 0; r <= maxR; r++ {
		var sum float64
		for c := 0; c < chunks; c++ {
			sum += partial[c][r]
		}
		samples[r] = models.ProfileSample{
			RadiusPx:  float64(r),
			Intensity: sum / float64(numAngles),
		}
	}

	return models.RadialProfile{
		Samples:   samples,
		NumAngles: numAngles,
		MaxRadius: maxR,
	}
}
