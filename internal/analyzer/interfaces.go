package analyzer

import (
	"image"

	"go-newton-rings/pkg/models"
)

// RingAnalyzer runs the full Newton rings measurement pipeline on one image.
type RingAnalyzer interface {
	// Measure runs center location, radial profiling, fringe extraction,
	// curve fitting and error analysis on img. Fatal pipeline errors
	// (calibration, center detection, insufficient rings) abort the run;
	// fit-quality violations are reported on the result, not returned.
	Measure(img image.Image, options MeasurementOptions) (*models.MeasurementResult, error)

	// Lifecycle management
	Close() error
}

// CenterEstimator locates the ring system center in an intensity image.
// Implementations must be deterministic for a fixed image and options.
type CenterEstimator interface {
	EstimateCenter(img *IntensityImage, options MeasurementOptions) (models.Center, error)
	MethodName() string
}

// ProfileBuilder produces the angularly averaged radial intensity profile.
type ProfileBuilder interface {
	BuildProfile(img *IntensityImage, center models.Center, options MeasurementOptions) models.RadialProfile
}

// FringeExtractor finds dark fringe radii in a radial profile and assigns
// fringe orders.
type FringeExtractor interface {
	ExtractFringes(profile models.RadialProfile, options MeasurementOptions) (models.FringeSet, error)
}
