package analyzer

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/internal/logger"
	"go-newton-rings/pkg/models"
)

// ringAnalyzer is the production RingAnalyzer. It is safe for concurrent use;
// all per-run state lives on the stack and the worker pool is shared.
type ringAnalyzer struct {
	pool       *workerPool
	estimators map[string]CenterEstimator
	profiler   ProfileBuilder
	extractor  FringeExtractor
	fitter     *curveFitter
	errorStage *errorAnalyzer
}

// NewRingAnalyzer creates a measurement pipeline with the given worker count
// for the radial profiler. workers below one falls back to a single worker.
func NewRingAnalyzer(workers int) RingAnalyzer {
	pool := newWorkerPool(workers)
	return &ringAnalyzer{
		pool: pool,
		estimators: map[string]CenterEstimator{
			"hough":    NewHoughCenterEstimator(),
			"gradient": NewGradientCenterEstimator(),
		},
		profiler:   newRadialProfiler(pool),
		extractor:  newFringeExtractor(),
		fitter:     newCurveFitter(),
		errorStage: newErrorAnalyzer(),
	}
}

func (ra *ringAnalyzer) Measure(img image.Image, options MeasurementOptions) (*models.MeasurementResult, error) {
	start := time.Now()

	if img == nil {
		return nil, apperrors.NewValidationError("image is nil", nil)
	}
	if err := validateCalibration(options); err != nil {
		return nil, err
	}
	estimator, ok := ra.estimators[options.CenterMethod]
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown center detection method %q", options.CenterMethod), nil)
	}

	intensity := NewIntensityImage(img, options.GaussianKernel)

	center, err := estimator.EstimateCenter(intensity, options)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"center_x": center.X,
		"center_y": center.Y,
		"method":   center.Method,
		"score":    center.Score,
	}).Debug("located ring center")

	profile := ra.profiler.BuildProfile(intensity, center, options)
	if len(profile.Samples) == 0 {
		return nil, apperrors.NewCenterDetectionError(
			"center too close to the image border",
			fmt.Sprintf("center (%.1f, %.1f) leaves no usable radius", center.X, center.Y))
	}

	fringes, err := ra.extractor.ExtractFringes(profile, options)
	if err != nil {
		return nil, err
	}

	fit := ra.fitter.Fit(fringes, options)
	report := ra.errorStage.Analyze(fit, options)
	if report != nil && !report.Passed {
		flag := apperrors.NewFitQualityError(strings.Join(report.Issues, "; "))
		logger.WithError(flag).Warn("fit quality below thresholds")
	}

	elapsed := time.Since(start)
	result := &models.MeasurementResult{
		ID:                fmt.Sprintf("meas_%d", start.UnixNano()),
		Timestamp:         start.UTC(),
		ProcessingTimeSec: elapsed.Seconds(),
		Center:            center,
		Profile:           profile,
		Fringes:           fringes,
		Fit:               fit,
		ErrorReport:       report,
	}

	logger.WithFields(logrus.Fields{
		"fringes":      len(fringes.Fringes),
		"r_squared":    fit.RSquared,
		"radius_mm":    fit.RadiusMM,
		"elapsed_msec": elapsed.Milliseconds(),
	}).Info("measurement complete")

	return result, nil
}

func (ra *ringAnalyzer) Close() error {
	ra.pool.Close()
	return nil
}

// validateCalibration rejects unusable calibration constants before any
// detection work starts.
func validateCalibration(options MeasurementOptions) error {
	if options.PixelToMM <= 0 {
		return apperrors.NewCalibrationError("pixel_to_mm must be positive",
			fmt.Sprintf("got %g", options.PixelToMM))
	}
	if options.WavelengthNM <= 0 {
		return apperrors.NewCalibrationError("wavelength must be positive",
			fmt.Sprintf("got %gnm", options.WavelengthNM))
	}
	if options.MinRings < 2 {
		return apperrors.NewCalibrationError("min_rings must be at least 2",
			fmt.Sprintf("got %d", options.MinRings))
	}
	if options.NumAngles < 1 {
		return apperrors.NewCalibrationError("profile_num_angles must be positive",
			fmt.Sprintf("got %d", options.NumAngles))
	}
	return nil
}
