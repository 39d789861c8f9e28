package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewIntensityImage_UniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}

	m := NewIntensityImage(img, 5)

	if m.Width() != 50 || m.Height() != 50 {
		t.Fatalf("Expected 50x50, got %dx%d", m.Width(), m.Height())
	}
	// Blurring a constant image must not change it.
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if math.Abs(m.At(x, y)-128) > 1e-9 {
				t.Fatalf("Expected 128 at (%d,%d), got %f", x, y, m.At(x, y))
			}
		}
	}
}

func TestNewIntensityImage_NoBlurBelowThree(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	img.SetGray(5, 5, color.Gray{Y: 200})

	m := NewIntensityImage(img, 0)

	if m.At(5, 5) != 200 {
		t.Errorf("Expected untouched pixel 200, got %f", m.At(5, 5))
	}
	if m.At(5, 6) != 0 {
		t.Errorf("Expected untouched pixel 0, got %f", m.At(5, 6))
	}
}

func TestBilinear_ExactOnGradient(t *testing.T) {
	// Intensity = 2x + 3y is reproduced exactly by bilinear interpolation.
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(2*x + 3*y)})
		}
	}
	m := NewIntensityImage(img, 0)

	testCases := []struct {
		x, y float64
	}{
		{5, 5},
		{5.5, 5},
		{5, 5.25},
		{7.75, 3.5},
		{0.5, 0.5},
	}
	for _, tc := range testCases {
		expected := 2*tc.x + 3*tc.y
		got := m.Bilinear(tc.x, tc.y)
		if math.Abs(got-expected) > 1e-9 {
			t.Errorf("Bilinear(%.2f, %.2f) = %f, expected %f", tc.x, tc.y, got, expected)
		}
	}
}

func TestAt_ClampsToBounds(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(3, 3, color.Gray{Y: 20})
	m := NewIntensityImage(img, 0)

	if m.At(-5, -5) != 10 {
		t.Errorf("Expected clamp to (0,0)=10, got %f", m.At(-5, -5))
	}
	if m.At(100, 100) != 20 {
		t.Errorf("Expected clamp to (3,3)=20, got %f", m.At(100, 100))
	}
}

func TestUsableRadius(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 101, 51))
	m := NewIntensityImage(img, 0)

	testCases := []struct {
		name     string
		cx, cy   float64
		expected int
	}{
		{"centered", 50, 25, 25},
		{"near left edge", 5, 25, 5},
		{"near bottom edge", 50, 48, 2},
		{"outside image", -10, 25, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.usableRadius(tc.cx, tc.cy); got != tc.expected {
				t.Errorf("usableRadius(%.0f, %.0f) = %d, expected %d", tc.cx, tc.cy, got, tc.expected)
			}
		})
	}
}
