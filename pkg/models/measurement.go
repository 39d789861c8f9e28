package models

import "time"

// Center is the estimated geometric center of the ring system in pixel
// coordinates. Score is a method-specific confidence in (0,1]: for the hough
// method it is the accumulator peak's share of edge votes, for the gradient
// method it is 1/(1+rms) of the radial symmetry residual.
type Center struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Method string  `json:"method"`
	Score  float64 `json:"score"`
}

// ProfileSample is one (radius, mean intensity) sample of the radial profile.
type ProfileSample struct {
	RadiusPx  float64 `json:"radius_px"`
	Intensity float64 `json:"intensity"`
}

// RadialProfile is the angularly averaged intensity as a function of distance
// from the ring center. Samples are at unit-pixel radii, strictly increasing
// from zero.
type RadialProfile struct {
	Samples   []ProfileSample `json:"samples"`
	NumAngles int             `json:"num_angles"`
	MaxRadius int             `json:"max_radius_px"`
}

// Fringe is a single detected dark fringe.
type Fringe struct {
	Order    int     `json:"order"`
	RadiusPx float64 `json:"radius_px"`
	RadiusMM float64 `json:"radius_mm"`
}

// FringeSet holds the detected dark fringes ordered by radius ascending.
// Orders are consecutive integers starting at 1; radii are strictly
// increasing with order.
type FringeSet struct {
	Fringes   []Fringe `json:"fringes"`
	PixelToMM float64  `json:"pixel_to_mm"`
}

// Radii returns the fringe radii in millimetres, order ascending.
func (fs FringeSet) Radii() []float64 {
	out := make([]float64, len(fs.Fringes))
	for i, f := range fs.Fringes {
		out[i] = f.RadiusMM
	}
	return out
}

// FitResult holds the least-squares fit of r^2 (mm^2) against fringe order n
// and the radius of curvature derived from the slope.
//
// RSquared is NaN when the order variance is degenerate (fewer than two
// distinct orders), which cannot happen for a valid FringeSet.
type FitResult struct {
	Slope       float64   `json:"slope_mm2"`
	Intercept   float64   `json:"intercept_mm2"`
	SlopeSE     float64   `json:"slope_se_mm2"`
	InterceptSE float64   `json:"intercept_se_mm2"`
	RSquared    float64   `json:"r_squared"`
	RadiusMM    float64   `json:"radius_of_curvature_mm"`
	RadiusSEMM  float64   `json:"radius_of_curvature_se_mm"`
	Residuals   []float64 `json:"residuals_mm2"`
}

// ErrorReport summarises fit residuals and, when a reference radius of
// curvature is available, the absolute and relative measurement error.
// Passed reflects the configured thresholds; a failed report is a diagnostic
// flag, not a fatal condition.
type ErrorReport struct {
	ResidualMean   float64  `json:"residual_mean_mm2"`
	ResidualStd    float64  `json:"residual_std_mm2"`
	ResidualMaxAbs float64  `json:"residual_max_abs_mm2"`
	ReferenceRMM   *float64 `json:"reference_r_mm,omitempty"`
	AbsErrorMM     *float64 `json:"abs_error_mm,omitempty"`
	RelError       *float64 `json:"rel_error,omitempty"`
	Passed         bool     `json:"passed"`
	Issues         []string `json:"issues,omitempty"`
}

// MeasurementResult is the complete outcome of one pipeline run. All fields
// are populated once and never mutated afterwards.
type MeasurementResult struct {
	ID                string        `json:"id"`
	ImageSource       string        `json:"image_source,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
	ProcessingTimeSec float64       `json:"processing_time_sec"`
	Center            Center        `json:"center"`
	Profile           RadialProfile `json:"profile"`
	Fringes           FringeSet     `json:"fringes"`
	Fit               FitResult     `json:"fit"`
	ErrorReport       *ErrorReport  `json:"error_report,omitempty"`
}

// ImageMetadata contains metadata about a source image.
type ImageMetadata struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
}
