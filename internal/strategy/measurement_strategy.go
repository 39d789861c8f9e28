package strategy

import (
	"image"

	"go-newton-rings/internal/analyzer"
	"go-newton-rings/pkg/models"
)

// MeasurementStrategy defines the interface for different measurement strategies
type MeasurementStrategy interface {
	Measure(img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error)
	GetStrategyName() string
}

// HoughMeasurementStrategy locates the center with the hough vote, which is
// slower but robust against partial occlusion of the ring pattern
type HoughMeasurementStrategy struct {
	analyzer analyzer.RingAnalyzer
}

// NewHoughMeasurementStrategy creates a new hough measurement strategy
func NewHoughMeasurementStrategy(analyzer analyzer.RingAnalyzer) MeasurementStrategy {
	return &HoughMeasurementStrategy{
		analyzer: analyzer,
	}
}

// Measure performs a measurement with hough center detection
func (s *HoughMeasurementStrategy) Measure(img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error) {
	return s.analyzer.Measure(img, options.WithCenterMethod("hough"))
}

// GetStrategyName returns the strategy name
func (s *HoughMeasurementStrategy) GetStrategyName() string {
	return "hough_measurement"
}

// GradientMeasurementStrategy locates the center from the gradient line
// intersection, the fast default for clean imagery
type GradientMeasurementStrategy struct {
	analyzer analyzer.RingAnalyzer
}

// NewGradientMeasurementStrategy creates a new gradient measurement strategy
func NewGradientMeasurementStrategy(analyzer analyzer.RingAnalyzer) MeasurementStrategy {
	return &GradientMeasurementStrategy{
		analyzer: analyzer,
	}
}

// Measure performs a measurement with gradient center detection
func (s *GradientMeasurementStrategy) Measure(img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error) {
	return s.analyzer.Measure(img, options.WithCenterMethod("gradient"))
}

// GetStrategyName returns the strategy name
func (s *GradientMeasurementStrategy) GetStrategyName() string {
	return "gradient_measurement"
}

// FastMeasurementStrategy trades angular resolution for speed, useful for
// live previews while aligning the apparatus
type FastMeasurementStrategy struct {
	analyzer analyzer.RingAnalyzer
}

// NewFastMeasurementStrategy creates a new fast measurement strategy
func NewFastMeasurementStrategy(analyzer analyzer.RingAnalyzer) MeasurementStrategy {
	return &FastMeasurementStrategy{
		analyzer: analyzer,
	}
}

// Measure performs a reduced-resolution measurement
func (s *FastMeasurementStrategy) Measure(img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error) {
	options.NumAngles = 180
	options.ErrorAnalysis.Enabled = false
	return s.analyzer.Measure(img, options.WithCenterMethod("gradient"))
}

// GetStrategyName returns the strategy name
func (s *FastMeasurementStrategy) GetStrategyName() string {
	return "fast_measurement"
}

// MeasurementContext manages the measurement strategy
type MeasurementContext struct {
	strategy MeasurementStrategy
}

// NewMeasurementContext creates a new measurement context
func NewMeasurementContext(strategy MeasurementStrategy) *MeasurementContext {
	return &MeasurementContext{
		strategy: strategy,
	}
}

// SetStrategy changes the measurement strategy
func (c *MeasurementContext) SetStrategy(strategy MeasurementStrategy) {
	c.strategy = strategy
}

// ExecuteMeasurement performs a measurement using the current strategy
func (c *MeasurementContext) ExecuteMeasurement(img image.Image, options analyzer.MeasurementOptions) (*models.MeasurementResult, error) {
	return c.strategy.Measure(img, options)
}

// GetCurrentStrategy returns the current strategy name
func (c *MeasurementContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
