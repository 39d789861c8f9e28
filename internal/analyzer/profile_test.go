package analyzer

import (
	"math"
	"reflect"
	"testing"

	"go-newton-rings/pkg/models"
)

func TestBuildProfile_SyntheticRings(t *testing.T) {
	options := testOptions()
	img := makeRingImage(testImageSize, 250, 250, testPatternK)
	m := NewIntensityImage(img, options.GaussianKernel)
	center := models.Center{X: 250, Y: 250}

	pool := newWorkerPool(options.Workers)
	defer pool.Close()
	profile := newRadialProfiler(pool).BuildProfile(m, center, options)

	if profile.MaxRadius != 250 {
		t.Errorf("Expected max radius 250, got %d", profile.MaxRadius)
	}
	if len(profile.Samples) != 251 {
		t.Fatalf("Expected 251 samples, got %d", len(profile.Samples))
	}
	if profile.NumAngles != options.NumAngles {
		t.Errorf("Expected %d angles, got %d", options.NumAngles, profile.NumAngles)
	}

	// Radii must be the unit-pixel ladder.
	for i, s := range profile.Samples {
		if s.RadiusPx != float64(i) {
			t.Fatalf("Expected radius %d at index %d, got %f", i, i, s.RadiusPx)
		}
	}

	// The profile should be dark at the expected fringe radii and bright
	// between them.
	for n, r := range expectedRingRadii(testPatternK, 240) {
		dark := profile.Samples[int(math.Round(r))].Intensity
		if dark > 64 {
			t.Errorf("Ring %d: expected dark fringe at r=%.1f, intensity %f", n+1, r, dark)
		}
		bright := profile.Samples[int(math.Round(math.Sqrt(float64(n)+0.5)*math.Sqrt(testPatternK)))].Intensity
		if bright < 128 {
			t.Errorf("Ring %d: expected bright region, intensity %f", n+1, bright)
		}
	}
}

func TestBuildProfile_RespectsMaxRadiusOption(t *testing.T) {
	options := testOptions()
	options.MaxRadiusPx = 100
	img := makeRingImage(testImageSize, 250, 250, testPatternK)
	m := NewIntensityImage(img, options.GaussianKernel)

	pool := newWorkerPool(options.Workers)
	defer pool.Close()
	profile := newRadialProfiler(pool).BuildProfile(m, models.Center{X: 250, Y: 250}, options)

	if profile.MaxRadius != 100 {
		t.Errorf("Expected max radius 100, got %d", profile.MaxRadius)
	}
}

func TestBuildProfile_CenterOnBorder(t *testing.T) {
	options := testOptions()
	img := makeRingImage(101, 50, 50, 900)
	m := NewIntensityImage(img, options.GaussianKernel)

	pool := newWorkerPool(options.Workers)
	defer pool.Close()
	profile := newRadialProfiler(pool).BuildProfile(m, models.Center{X: 0, Y: 50}, options)

	if len(profile.Samples) != 0 {
		t.Errorf("Expected empty profile for border center, got %d samples", len(profile.Samples))
	}
}

func TestBuildProfile_Deterministic(t *testing.T) {
	options := testOptions()
	img := makeRingImage(testImageSize, 247.8, 251.2, testPatternK)
	m := NewIntensityImage(img, options.GaussianKernel)
	center := models.Center{X: 247.8, Y: 251.2}

	pool := newWorkerPool(options.Workers)
	defer pool.Close()
	profiler := newRadialProfiler(pool)

	first := profiler.BuildProfile(m, center, options)
	second := profiler.BuildProfile(m, center, options)

	// Bitwise equality, not tolerance: the chunked accumulation order is
	// fixed, so repeated runs must agree exactly.
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical profiles across runs")
	}
}
