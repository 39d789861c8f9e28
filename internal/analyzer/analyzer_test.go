package analyzer

import (
	"image"
	"math"
	"reflect"
	"sync"
	"testing"

	apperrors "go-newton-rings/internal/errors"
)

func newTestAnalyzer(t *testing.T) RingAnalyzer {
	t.Helper()
	ra := NewRingAnalyzer(4)
	t.Cleanup(func() { ra.Close() })
	return ra
}

func TestMeasure_SyntheticRings(t *testing.T) {
	for _, method := range []string{"gradient", "hough"} {
		t.Run(method, func(t *testing.T) {
			ra := newTestAnalyzer(t)
			options := testOptions().WithCenterMethod(method)
			img := makeRingImage(testImageSize, 250, 250, testPatternK)

			result, err := ra.Measure(img, options)
			if err != nil {
				t.Fatalf("Measure failed: %v", err)
			}

			if math.Abs(result.Center.X-250) > 1.0 || math.Abs(result.Center.Y-250) > 1.0 {
				t.Errorf("Expected center within 1px of (250,250), got (%.2f, %.2f)",
					result.Center.X, result.Center.Y)
			}

			expected := expectedRingRadii(testPatternK, float64(result.Profile.MaxRadius))
			if len(result.Fringes.Fringes) < options.MinRings {
				t.Fatalf("Expected at least %d fringes, got %d", options.MinRings, len(result.Fringes.Fringes))
			}
			for i, f := range result.Fringes.Fringes {
				if i < len(expected) && math.Abs(f.RadiusPx-expected[i]) > 1.0 {
					t.Errorf("Fringe %d: expected radius ~%.2f, got %.2f", i+1, expected[i], f.RadiusPx)
				}
				if i > 0 && f.RadiusPx <= result.Fringes.Fringes[i-1].RadiusPx {
					t.Errorf("Fringe radii must increase strictly with order")
				}
			}

			if result.Fit.RSquared < 0.999 {
				t.Errorf("Expected r_squared >= 0.999, got %f", result.Fit.RSquared)
			}

			// Ideal pattern: r_n^2 = n*k px^2, so the slope in mm^2 is
			// k*pixel_to_mm^2 and R follows from the wavelength.
			expectedR := testPatternK * options.PixelToMM * options.PixelToMM / options.WavelengthMM()
			if math.Abs(result.Fit.RadiusMM-expectedR)/expectedR > 0.01 {
				t.Errorf("Expected radius of curvature within 1%% of %.1fmm, got %.1fmm",
					expectedR, result.Fit.RadiusMM)
			}

			if result.ErrorReport == nil {
				t.Fatal("Expected an error report with analysis enabled")
			}
			if !result.ErrorReport.Passed {
				t.Errorf("Expected quality pass, issues: %v", result.ErrorReport.Issues)
			}
			if result.ProcessingTimeSec <= 0 {
				t.Error("Expected positive processing time")
			}
		})
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	ra := newTestAnalyzer(t)
	options := testOptions()
	img := makeRingImage(testImageSize, 246.5, 252.75, testPatternK)

	first, err := ra.Measure(img, options)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := ra.Measure(img, options)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	// Everything except run identity and wall time must agree bitwise.
	if first.Center != second.Center {
		t.Errorf("Centers differ: %+v vs %+v", first.Center, second.Center)
	}
	if !reflect.DeepEqual(first.Profile, second.Profile) {
		t.Error("Profiles differ between runs")
	}
	if !reflect.DeepEqual(first.Fringes, second.Fringes) {
		t.Error("Fringes differ between runs")
	}
	if !reflect.DeepEqual(first.Fit, second.Fit) {
		t.Error("Fits differ between runs")
	}
}

func TestMeasure_ConcurrentRunsOnSharedAnalyzer(t *testing.T) {
	ra := newTestAnalyzer(t)
	options := testOptions()
	img := makeRingImage(testImageSize, 250, 250, testPatternK)

	reference, err := ra.Measure(img, options)
	if err != nil {
		t.Fatalf("Reference run failed: %v", err)
	}

	// One analyzer serves all HTTP requests, so overlapping runs must
	// neither interfere nor block on each other's profile jobs.
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	fits := make([]float64, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			result, err := ra.Measure(img, options)
			if err != nil {
				errs <- err
				return
			}
			fits[g] = result.Fit.RadiusMM
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("Concurrent run failed: %v", err)
	}
	for g, radius := range fits {
		if radius != reference.Fit.RadiusMM {
			t.Errorf("Run %d returned R %.6f, reference %.6f", g, radius, reference.Fit.RadiusMM)
		}
	}
}

func TestMeasure_CalibrationErrorsComeFirst(t *testing.T) {
	ra := newTestAnalyzer(t)
	// A flat image would fail center detection, but calibration is checked
	// before any pixel is touched.
	img := image.NewGray(image.Rect(0, 0, 50, 50))

	testCases := []struct {
		name   string
		mutate func(*MeasurementOptions)
	}{
		{"zero pixel_to_mm", func(o *MeasurementOptions) { o.PixelToMM = 0 }},
		{"negative wavelength", func(o *MeasurementOptions) { o.WavelengthNM = -589.3 }},
		{"min_rings below two", func(o *MeasurementOptions) { o.MinRings = 1 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			options := testOptions()
			tc.mutate(&options)

			_, err := ra.Measure(img, options)
			if err == nil {
				t.Fatal("Expected calibration error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeCalibration) {
				t.Fatalf("Expected calibration error, got %v", err)
			}
		})
	}
}

func TestMeasure_UnknownMethod(t *testing.T) {
	ra := newTestAnalyzer(t)
	img := makeRingImage(201, 100, 100, 2000)

	_, err := ra.Measure(img, testOptions().WithCenterMethod("template"))
	if err == nil {
		t.Fatal("Expected validation error for unknown method")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestMeasure_InsufficientRings(t *testing.T) {
	ra := newTestAnalyzer(t)
	options := testOptions()
	options.MinRings = 20
	options.MaxRings = 0
	img := makeRingImage(testImageSize, 250, 250, testPatternK)

	_, err := ra.Measure(img, options)
	if err == nil {
		t.Fatal("Expected insufficient rings error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeInsufficientRings) {
		t.Fatalf("Expected insufficient_rings, got %v", err)
	}
}

func TestMeasure_FitQualityFlagDoesNotAbort(t *testing.T) {
	ra := newTestAnalyzer(t)
	options := testOptions()
	// An impossible threshold forces a failed report on an otherwise good run.
	options.ErrorAnalysis.MinRSquared = 1.0
	img := makeRingImage(testImageSize, 250, 250, testPatternK)

	result, err := ra.Measure(img, options)
	if err != nil {
		t.Fatalf("Run must succeed despite failed thresholds, got %v", err)
	}
	if result.ErrorReport == nil || result.ErrorReport.Passed {
		t.Error("Expected a failed error report")
	}
	if len(result.ErrorReport.Issues) == 0 {
		t.Error("Expected at least one issue on the report")
	}
}

func TestMeasure_ReferenceRadiusOverride(t *testing.T) {
	ra := newTestAnalyzer(t)
	expectedR := testPatternK * 0.01 * 0.01 / (589.3e-6)
	options := testOptions().WithReferenceRadius(expectedR)
	img := makeRingImage(testImageSize, 250, 250, testPatternK)

	result, err := ra.Measure(img, options)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if result.ErrorReport == nil || result.ErrorReport.RelError == nil {
		t.Fatal("Expected relative error against the reference radius")
	}
	if *result.ErrorReport.RelError > 0.01 {
		t.Errorf("Expected relative error under 1%%, got %f", *result.ErrorReport.RelError)
	}
}

func TestMeasure_NilImage(t *testing.T) {
	ra := newTestAnalyzer(t)
	if _, err := ra.Measure(nil, testOptions()); err == nil {
		t.Fatal("Expected error for nil image")
	}
}
