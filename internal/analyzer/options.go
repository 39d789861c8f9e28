package analyzer

import "go-newton-rings/internal/config"

// DefaultWorkers is the profiler worker count. A constant (rather than
// GOMAXPROCS) keeps the angle partition, and with it the floating point
// accumulation order, identical across machines.
const DefaultWorkers = 4

// ErrorAnalysisOptions configures the error analyzer stage.
type ErrorAnalysisOptions struct {
	Enabled      bool
	ReferenceRMM *float64
	MinRSquared  float64
	MaxRelError  *float64
}

// MeasurementOptions configures a single measurement run. The zero value is
// not usable; start from DefaultMeasurementOptions or OptionsFromConfig and
// derive variants with the With* methods, which copy rather than mutate.
type MeasurementOptions struct {
	PixelToMM        float64
	WavelengthNM     float64
	MinRings         int
	MaxRings         int
	CenterMethod     string
	NumAngles        int
	MinRadiusPx      int
	MaxRadiusPx      int
	SmoothWindow     int
	MinimaProminence float64
	MinimaSpacingPx  int
	GaussianKernel   int

	// MinCenterScore is the confidence floor below which center detection
	// fails instead of returning a guess.
	MinCenterScore float64

	// MaxSymmetryRMS bounds the gradient estimator's mean perpendicular
	// distance from center to the gradient lines, as a fraction of the
	// usable image radius.
	MaxSymmetryRMS float64

	// Workers fixes the profiler's worker count so the angle partition is
	// identical across machines.
	Workers int

	ErrorAnalysis ErrorAnalysisOptions
}

// DefaultMeasurementOptions returns options matching the config defaults.
func DefaultMeasurementOptions() MeasurementOptions {
	return OptionsFromConfig(config.NewConfig())
}

// OptionsFromConfig maps a validated Config onto measurement options.
func OptionsFromConfig(cfg *config.Config) MeasurementOptions {
	return MeasurementOptions{
		PixelToMM:        cfg.PixelToMM,
		WavelengthNM:     cfg.WavelengthNM,
		MinRings:         cfg.MinRings,
		MaxRings:         cfg.MaxRings,
		CenterMethod:     cfg.CenterMethod,
		NumAngles:        cfg.NumAngles,
		MinRadiusPx:      cfg.MinRadiusPx,
		MaxRadiusPx:      cfg.MaxRadiusPx,
		SmoothWindow:     cfg.SmoothWindow,
		MinimaProminence: cfg.MinimaProminence,
		MinimaSpacingPx:  cfg.MinimaSpacingPx,
		GaussianKernel:   cfg.GaussianKernel,
		MinCenterScore:   0.1,
		MaxSymmetryRMS:   0.25,
		Workers:          DefaultWorkers,
		ErrorAnalysis: ErrorAnalysisOptions{
			Enabled:      cfg.ErrorAnalysis.Enabled,
			ReferenceRMM: cfg.ErrorAnalysis.ReferenceRMM,
			MinRSquared:  cfg.ErrorAnalysis.MinRSquared,
			MaxRelError:  cfg.ErrorAnalysis.MaxRelError,
		},
	}
}

// WithCenterMethod returns a copy using the given center detection method.
func (o MeasurementOptions) WithCenterMethod(method string) MeasurementOptions {
	o.CenterMethod = method
	return o
}

// WithReferenceRadius returns a copy with the reference radius of curvature
// set. Used by callers that receive a per-request reference value, which
// takes precedence over the configured one.
func (o MeasurementOptions) WithReferenceRadius(rMM float64) MeasurementOptions {
	o.ErrorAnalysis.Enabled = true
	o.ErrorAnalysis.ReferenceRMM = &rMM
	return o
}

// WithCalibration returns a copy with the calibration constants replaced.
func (o MeasurementOptions) WithCalibration(pixelToMM, wavelengthNM float64) MeasurementOptions {
	o.PixelToMM = pixelToMM
	o.WavelengthNM = wavelengthNM
	return o
}

// WavelengthMM converts the configured wavelength to millimetres, the unit
// used throughout the fit.
func (o MeasurementOptions) WavelengthMM() float64 {
	return o.WavelengthNM * 1e-6
}
