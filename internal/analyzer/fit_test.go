package analyzer

import (
	"math"
	"testing"

	"go-newton-rings/pkg/models"
)

// fringeSetFromRadii builds a FringeSet with consecutive orders from radii
// given in millimetres.
func fringeSetFromRadii(radiiMM []float64, pixelToMM float64) models.FringeSet {
	fringes := make([]models.Fringe, len(radiiMM))
	for i, r := range radiiMM {
		fringes[i] = models.Fringe{Order: i + 1, RadiusPx: r / pixelToMM, RadiusMM: r}
	}
	return models.FringeSet{Fringes: fringes, PixelToMM: pixelToMM}
}

func TestFit_ExactLinearData(t *testing.T) {
	options := testOptions()

	// r_n^2 = n * slope + intercept with slope 0.81 mm^2, intercept 0.
	slope := 0.81
	radii := make([]float64, 7)
	for n := 1; n <= 7; n++ {
		radii[n-1] = math.Sqrt(float64(n) * slope)
	}

	fit := newCurveFitter().Fit(fringeSetFromRadii(radii, options.PixelToMM), options)

	if math.Abs(fit.Slope-slope) > 1e-9 {
		t.Errorf("Expected slope %f, got %f", slope, fit.Slope)
	}
	if math.Abs(fit.Intercept) > 1e-9 {
		t.Errorf("Expected intercept ~0, got %f", fit.Intercept)
	}
	if math.Abs(fit.RSquared-1.0) > 1e-9 {
		t.Errorf("Expected r_squared 1, got %f", fit.RSquared)
	}

	expectedR := slope / options.WavelengthMM()
	if math.Abs(fit.RadiusMM-expectedR) > 1e-6 {
		t.Errorf("Expected radius of curvature %f mm, got %f", expectedR, fit.RadiusMM)
	}

	if len(fit.Residuals) != 7 {
		t.Fatalf("Expected 7 residuals, got %d", len(fit.Residuals))
	}
	for i, r := range fit.Residuals {
		if math.Abs(r) > 1e-9 {
			t.Errorf("Residual %d: expected ~0, got %g", i, r)
		}
	}

	// Perfect data: standard errors collapse to zero.
	if fit.SlopeSE > 1e-9 || fit.InterceptSE > 1e-9 {
		t.Errorf("Expected ~0 standard errors, got slope_se=%g intercept_se=%g", fit.SlopeSE, fit.InterceptSE)
	}
}

func TestFit_NoisyData(t *testing.T) {
	options := testOptions()

	slope := 0.81
	offsets := []float64{0.003, -0.002, 0.004, -0.003, 0.001, -0.004, 0.002}
	radii := make([]float64, len(offsets))
	for i, off := range offsets {
		radii[i] = math.Sqrt(float64(i+1)*slope + off)
	}

	fit := newCurveFitter().Fit(fringeSetFromRadii(radii, options.PixelToMM), options)

	if math.Abs(fit.Slope-slope) > 0.01 {
		t.Errorf("Expected slope ~%f, got %f", slope, fit.Slope)
	}
	if fit.RSquared >= 1.0 || fit.RSquared < 0.99 {
		t.Errorf("Expected r_squared just below 1, got %f", fit.RSquared)
	}
	if fit.SlopeSE <= 0 {
		t.Errorf("Expected positive slope standard error, got %g", fit.SlopeSE)
	}
	if fit.RadiusSEMM <= 0 {
		t.Errorf("Expected positive radius standard error, got %g", fit.RadiusSEMM)
	}

	// The radius error propagates straight from the slope error.
	expected := fit.SlopeSE / options.WavelengthMM()
	if math.Abs(fit.RadiusSEMM-expected) > 1e-9 {
		t.Errorf("Expected radius_se %f, got %f", expected, fit.RadiusSEMM)
	}
}

func TestFit_TwoPointsHasNaNErrors(t *testing.T) {
	options := testOptions()
	radii := []float64{0.9, 0.9 * math.Sqrt2}

	fit := newCurveFitter().Fit(fringeSetFromRadii(radii, options.PixelToMM), options)

	if math.Abs(fit.RSquared-1.0) > 1e-9 {
		t.Errorf("Two points: expected r_squared 1, got %f", fit.RSquared)
	}
	if !math.IsNaN(fit.SlopeSE) || !math.IsNaN(fit.InterceptSE) {
		t.Errorf("Two points: expected NaN standard errors, got %g and %g", fit.SlopeSE, fit.InterceptSE)
	}
	if !math.IsNaN(fit.RadiusSEMM) {
		t.Errorf("Two points: expected NaN radius standard error, got %g", fit.RadiusSEMM)
	}
}
