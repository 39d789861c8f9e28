package service

import (
	"context"
	"fmt"
	"image"
	"strings"

	"go-newton-rings/internal/analyzer"
	"go-newton-rings/internal/config"
	apperrors "go-newton-rings/internal/errors"
	"go-newton-rings/internal/repository"
	"go-newton-rings/pkg/models"
	"go-newton-rings/pkg/validation"
)

// MeasurementService defines the interface for running ring measurements
type MeasurementService interface {
	// MeasureFromURL fetches an interferogram and measures it. Request
	// overrides (center method, reference radius) take precedence over the
	// configured base options.
	MeasureFromURL(ctx context.Context, request models.MeasurementRequest) (*models.MeasurementResponse, error)

	// MeasureImage measures an already decoded image.
	MeasureImage(ctx context.Context, img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error)

	// BaseOptions returns the configured measurement options.
	BaseOptions() analyzer.MeasurementOptions

	// Common validation
	ValidateImageURL(imageURL string) error
}

// measurementService implements MeasurementService with a single analyzer
type measurementService struct {
	imageRepo      repository.ImageRepository
	analyzer       analyzer.RingAnalyzer
	imageValidator *validation.ImageValidator
	baseOptions    analyzer.MeasurementOptions
}

// NewMeasurementService creates a new measurement service
func NewMeasurementService(
	imageRepository repository.ImageRepository,
	ringAnalyzer analyzer.RingAnalyzer,
	baseOptions analyzer.MeasurementOptions,
) MeasurementService {
	return &measurementService{
		imageRepo:      imageRepository,
		analyzer:       ringAnalyzer,
		imageValidator: validation.NewImageValidator(),
		baseOptions:    baseOptions,
	}
}

// MeasureFromURL fetches and measures a remote interferogram
func (s *measurementService) MeasureFromURL(ctx context.Context, request models.MeasurementRequest) (*models.MeasurementResponse, error) {
	if err := s.ValidateImageURL(request.URL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}

	options, err := s.applyOverrides(request)
	if err != nil {
		return nil, err
	}

	img, err := s.imageRepo.FetchImage(ctx, request.URL)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}

	issues := s.imageValidator.ValidateInterferogram(img)
	if s.imageValidator.HasCriticalIssues(issues) {
		return nil, apperrors.NewValidationError(
			strings.Join(s.imageValidator.ConvertIssuesToMessages(issues), "; "), nil)
	}

	result, err := s.MeasureImage(ctx, img, options)
	if err != nil {
		return nil, err
	}

	response := s.convertToResponse(request.URL, result)
	// Non-critical capture issues ride along as warnings.
	response.Warnings = append(response.Warnings, s.imageValidator.ConvertIssuesToMessages(issues)...)
	return response, nil
}

// MeasureImage measures an already decoded interferogram
func (s *measurementService) MeasureImage(ctx context.Context, img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("measurement cancelled", err)
	}
	return s.analyzer.Measure(img, options)
}

// BaseOptions returns the configured measurement options
func (s *measurementService) BaseOptions() analyzer.MeasurementOptions {
	return s.baseOptions
}

// ValidateImageURL validates the image URL
func (s *measurementService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

// applyOverrides layers per-request settings over the base options
func (s *measurementService) applyOverrides(request models.MeasurementRequest) (analyzer.MeasurementOptions, error) {
	options := s.baseOptions

	if request.CenterMethod != "" {
		if request.CenterMethod != config.MethodHough && request.CenterMethod != config.MethodGradient {
			return options, apperrors.NewValidationError(
				fmt.Sprintf("unknown center method %q", request.CenterMethod), nil)
		}
		options = options.WithCenterMethod(request.CenterMethod)
	}

	if request.ReferenceRMM != nil {
		if *request.ReferenceRMM <= 0 {
			return options, apperrors.NewValidationError("reference_r_mm must be positive", nil)
		}
		options = options.WithReferenceRadius(*request.ReferenceRMM)
	}

	return options, nil
}

// convertToResponse converts a measurement result to the transport response
func (s *measurementService) convertToResponse(imageURL string, result *models.MeasurementResult) *models.MeasurementResponse {
	response := &models.MeasurementResponse{
		ImageURL:          imageURL,
		Timestamp:         result.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		ProcessingTimeSec: result.ProcessingTimeSec,
		Center:            result.Center,
		FringeCount:       len(result.Fringes.Fringes),
		Fringes:           result.Fringes,
		Fit:               result.Fit,
		ErrorReport:       result.ErrorReport,
	}

	if result.ErrorReport != nil && !result.ErrorReport.Passed {
		response.Warnings = append(response.Warnings, result.ErrorReport.Issues...)
	}

	return response
}
