package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"go-newton-rings/internal/analyzer"
	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/pkg/models"
)

// ringImage draws the synthetic pattern I(r) = 127.5*(1 - cos(2*pi*r^2/k)),
// whose dark fringes sit at r = sqrt(n*k).
func ringImage(size int, k float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	cx, cy := float64(size-1)/2, float64(size-1)/2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			r2 := dx*dx + dy*dy
			value := 127.5 * (1 - math.Cos(2*math.Pi*r2/k))
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(value))})
		}
	}
	return img
}

// stubRepository serves a fixed image and records fetch calls.
type stubRepository struct {
	img         image.Image
	fetchErr    error
	validateErr error
	fetchCalls  int
}

func (r *stubRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	r.fetchCalls++
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.img, nil
}

func (r *stubRepository) ValidateImageURL(imageURL string) error {
	return r.validateErr
}

func (r *stubRepository) GetImageMetadata(ctx context.Context, imageURL string) (*models.ImageMetadata, error) {
	return &models.ImageMetadata{Format: "png", ContentType: "image/png"}, nil
}

func newTestService(t *testing.T, repo *stubRepository) MeasurementService {
	t.Helper()
	ringAnalyzer := analyzer.NewRingAnalyzer(analyzer.DefaultWorkers)
	t.Cleanup(func() { ringAnalyzer.Close() })
	return NewMeasurementService(repo, ringAnalyzer, analyzer.DefaultMeasurementOptions())
}

func TestMeasureFromURL(t *testing.T) {
	repo := &stubRepository{img: ringImage(501, 8100)}
	svc := newTestService(t, repo)

	response, err := svc.MeasureFromURL(context.Background(),
		models.MeasurementRequest{URL: "https://lab.example.com/run1.png"})
	if err != nil {
		t.Fatalf("MeasureFromURL failed: %v", err)
	}

	if repo.fetchCalls != 1 {
		t.Errorf("Expected one fetch, got %d", repo.fetchCalls)
	}
	if response.FringeCount < 5 {
		t.Errorf("Expected at least 5 fringes, got %d", response.FringeCount)
	}
	if response.Fit.RSquared < 0.999 {
		t.Errorf("Expected r^2 >= 0.999, got %f", response.Fit.RSquared)
	}
	// R = k * p^2 / lambda_mm for the synthetic pattern.
	expectedR := 8100 * 0.01 * 0.01 / (589.3e-6)
	if rel := math.Abs(response.Fit.RadiusMM-expectedR) / expectedR; rel > 0.01 {
		t.Errorf("Expected R near %.1f mm, got %.1f mm (rel %.4f)",
			expectedR, response.Fit.RadiusMM, rel)
	}
	if response.ErrorReport == nil || !response.ErrorReport.Passed {
		t.Errorf("Expected a passing error report, got %+v", response.ErrorReport)
	}
	if len(response.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", response.Warnings)
	}
}

func TestMeasureFromURL_InvalidURL(t *testing.T) {
	repo := &stubRepository{validateErr: errors.New("scheme not allowed")}
	svc := newTestService(t, repo)

	_, err := svc.MeasureFromURL(context.Background(),
		models.MeasurementRequest{URL: "ftp://lab.example.com/run1.png"})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if repo.fetchCalls != 0 {
		t.Errorf("Expected no fetch for an invalid URL, got %d", repo.fetchCalls)
	}
}

func TestMeasureFromURL_UnknownCenterMethod(t *testing.T) {
	repo := &stubRepository{img: ringImage(501, 8100)}
	svc := newTestService(t, repo)

	_, err := svc.MeasureFromURL(context.Background(), models.MeasurementRequest{
		URL:          "https://lab.example.com/run1.png",
		CenterMethod: "template",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if repo.fetchCalls != 0 {
		t.Errorf("Expected no fetch when the override is rejected, got %d", repo.fetchCalls)
	}
}

func TestMeasureFromURL_NonPositiveReference(t *testing.T) {
	repo := &stubRepository{img: ringImage(501, 8100)}
	svc := newTestService(t, repo)

	bad := -100.0
	_, err := svc.MeasureFromURL(context.Background(), models.MeasurementRequest{
		URL:          "https://lab.example.com/run1.png",
		ReferenceRMM: &bad,
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestMeasureFromURL_ReferenceOverride(t *testing.T) {
	repo := &stubRepository{img: ringImage(501, 8100)}
	svc := newTestService(t, repo)

	reference := 8100 * 0.01 * 0.01 / (589.3e-6)
	response, err := svc.MeasureFromURL(context.Background(), models.MeasurementRequest{
		URL:          "https://lab.example.com/run1.png",
		ReferenceRMM: &reference,
	})
	if err != nil {
		t.Fatalf("MeasureFromURL failed: %v", err)
	}

	report := response.ErrorReport
	if report == nil || report.ReferenceRMM == nil {
		t.Fatalf("Expected an error report against the reference, got %+v", report)
	}
	if *report.ReferenceRMM != reference {
		t.Errorf("Expected reference %.1f, got %.1f", reference, *report.ReferenceRMM)
	}
	if report.RelError == nil || *report.RelError > 0.01 {
		t.Errorf("Expected relative error below 1%%, got %+v", report.RelError)
	}
}

func TestMeasureFromURL_FetchFailure(t *testing.T) {
	repo := &stubRepository{fetchErr: fmt.Errorf("connection refused")}
	svc := newTestService(t, repo)

	_, err := svc.MeasureFromURL(context.Background(),
		models.MeasurementRequest{URL: "https://lab.example.com/run1.png"})
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestMeasureFromURL_RejectsTinyImage(t *testing.T) {
	repo := &stubRepository{img: ringImage(32, 200)}
	svc := newTestService(t, repo)

	_, err := svc.MeasureFromURL(context.Background(),
		models.MeasurementRequest{URL: "https://lab.example.com/run1.png"})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for a tiny image, got %v", err)
	}
}

func TestMeasureImage_CancelledContext(t *testing.T) {
	repo := &stubRepository{img: ringImage(501, 8100)}
	svc := newTestService(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.MeasureImage(ctx, repo.img, svc.BaseOptions())
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("Expected timeout error, got %v", err)
	}
}
