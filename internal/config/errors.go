package config

import "errors"

var (
	// ErrInvalidPixelToMM indicates a missing or non-positive calibration scale.
	ErrInvalidPixelToMM = errors.New("pixel_to_mm must be positive")

	// ErrInvalidWavelength indicates a missing or non-positive wavelength.
	ErrInvalidWavelength = errors.New("wavelength must be positive (nanometres)")

	// ErrInvalidMinRings indicates min_rings below the fit minimum.
	ErrInvalidMinRings = errors.New("min_rings must be at least 2")

	// ErrInvalidMaxRings indicates max_rings below min_rings.
	ErrInvalidMaxRings = errors.New("max_rings must be zero or >= min_rings")

	// ErrUnknownCenterMethod indicates an unrecognised center detection method.
	ErrUnknownCenterMethod = errors.New(`center_detection_method must be "hough" or "gradient"`)

	// ErrInvalidNumAngles indicates a non-positive angular sample count.
	ErrInvalidNumAngles = errors.New("profile_num_angles must be positive")

	// ErrInvalidRadiusBounds indicates inconsistent min/max radius bounds.
	ErrInvalidRadiusBounds = errors.New("radius bounds must satisfy 0 <= min_radius < max_radius")

	// ErrInvalidMinimaSpacing indicates a non-positive minima spacing.
	ErrInvalidMinimaSpacing = errors.New("minima_min_spacing_px must be at least 1")

	// ErrInvalidMinRSquared indicates a threshold outside [0,1].
	ErrInvalidMinRSquared = errors.New("error_analysis.min_r_squared must be in [0,1]")

	// ErrInvalidMaxRelError indicates a negative relative error threshold.
	ErrInvalidMaxRelError = errors.New("error_analysis.max_rel_error must be non-negative")
)
