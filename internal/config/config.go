package config

// Default measurement settings. Values mirror the behaviour of bench
// measurements with a sodium lamp and a typical USB eyepiece camera; all of
// them can be overridden from the YAML config file.
const (
	// DefaultWavelengthNM is the sodium D-line wavelength. Sodium lamps are
	// the usual monochromatic source for Newton rings experiments.
	DefaultWavelengthNM = 589.3

	// DefaultPixelToMM is a placeholder scale that must normally be replaced
	// by a real calibration of the camera/eyepiece combination.
	DefaultPixelToMM = 0.01

	// DefaultMinRings is the minimum number of dark fringes required for a
	// meaningful linear fit. Two points determine a line exactly, so five
	// gives enough redundancy for residual statistics.
	DefaultMinRings = 5

	// DefaultMaxRings caps how many fringes enter the fit. Outer fringes
	// are increasingly distorted by lens aberrations and uneven lighting.
	DefaultMaxRings = 30

	// DefaultNumAngles is the angular sampling density of the radial
	// profiler. More angles suppress directional noise at proportional
	// cost; 720 (0.5 degree steps) is plenty for bench imagery.
	DefaultNumAngles = 720

	// DefaultMinRadiusPx excludes the contact-spot artifact around the
	// center, which otherwise shows up as a spurious first minimum.
	DefaultMinRadiusPx = 10

	// DefaultSmoothWindow is the moving-average window applied to the
	// radial profile before minima detection. Must be odd; widened by one
	// when an even value is configured.
	DefaultSmoothWindow = 9

	// DefaultMinimaProminence rejects shallow local minima produced by
	// sensor noise rather than interference fringes.
	DefaultMinimaProminence = 3.0

	// DefaultMinimaSpacingPx merges minima closer together than this,
	// keeping the deeper one. The right value depends on real test imagery,
	// which is why it is a tunable and not a constant in the extractor.
	DefaultMinimaSpacingPx = 8

	// DefaultMinRSquared is the goodness-of-fit floor below which a run is
	// flagged. r^2 vs n is linear to very high accuracy for genuine Newton
	// rings, so 0.98 is a loose gate.
	DefaultMinRSquared = 0.98

	// DefaultGaussianKernel is the preprocessing blur kernel size.
	DefaultGaussianKernel = 5
)

// Center detection method names recognised in configuration.
const (
	MethodHough    = "hough"
	MethodGradient = "gradient"
)

// ErrorAnalysis holds the thresholds for the error analyzer stage.
type ErrorAnalysis struct {
	// Enabled turns the error analyzer on. When false the stage is skipped
	// and no error report appears in the output.
	Enabled bool `yaml:"enabled"`

	// ReferenceRMM is the known radius of curvature in millimetres, when
	// available. A run-time override takes precedence over this value.
	ReferenceRMM *float64 `yaml:"reference_r_mm"`

	// MinRSquared is the minimum acceptable coefficient of determination.
	MinRSquared float64 `yaml:"min_r_squared"`

	// MaxRelError is the maximum acceptable relative error of the measured
	// radius of curvature against the reference. Nil means no gate.
	MaxRelError *float64 `yaml:"max_rel_error"`
}

// Config holds all measurement settings for a pipeline run.
//
// The recognised options are fixed and validated up front by Validate;
// nothing in the pipeline reads configuration ad hoc at run time.
type Config struct {
	// PixelToMM converts pixel distances to millimetres. Must be positive;
	// comes from calibrating the imaging setup.
	PixelToMM float64 `yaml:"pixel_to_mm"`

	// WavelengthNM is the light source wavelength in nanometres.
	WavelengthNM float64 `yaml:"wavelength"`

	// MinRings is the minimum number of dark fringes required; fewer is a
	// fatal insufficient-rings condition.
	MinRings int `yaml:"min_rings"`

	// MaxRings caps the fringes entering the fit, counted from the center
	// outward. Zero means no cap.
	MaxRings int `yaml:"max_rings"`

	// CenterMethod selects the center estimation strategy: "hough" or
	// "gradient".
	CenterMethod string `yaml:"center_detection_method"`

	// NumAngles is the number of evenly spaced sampling directions used by
	// the radial profiler.
	NumAngles int `yaml:"profile_num_angles"`

	// MinRadiusPx and MaxRadiusPx bound fringe detection (and the hough
	// radius search). MaxRadiusPx zero means "up to the usable image
	// radius".
	MinRadiusPx int `yaml:"min_radius"`
	MaxRadiusPx int `yaml:"max_radius"`

	// SmoothWindow is the moving-average window for the radial profile.
	SmoothWindow int `yaml:"profile_smooth_window"`

	// MinimaProminence is the minimum depth of a profile minimum relative
	// to its surroundings.
	MinimaProminence float64 `yaml:"minima_prominence"`

	// MinimaSpacingPx is the minimum pixel spacing between accepted minima.
	MinimaSpacingPx int `yaml:"minima_min_spacing_px"`

	// GaussianKernel is the preprocessing blur kernel size (odd; even
	// values are widened by one).
	GaussianKernel int `yaml:"gaussian_kernel_size"`

	// ErrorAnalysis configures the error analyzer stage.
	ErrorAnalysis ErrorAnalysis `yaml:"error_analysis"`
}

// NewConfig creates a Config populated with the package defaults.
func NewConfig() *Config {
	return &Config{
		PixelToMM:        DefaultPixelToMM,
		WavelengthNM:     DefaultWavelengthNM,
		MinRings:         DefaultMinRings,
		MaxRings:         DefaultMaxRings,
		CenterMethod:     MethodGradient,
		NumAngles:        DefaultNumAngles,
		MinRadiusPx:      DefaultMinRadiusPx,
		SmoothWindow:     DefaultSmoothWindow,
		MinimaProminence: DefaultMinimaProminence,
		MinimaSpacingPx:  DefaultMinimaSpacingPx,
		GaussianKernel:   DefaultGaussianKernel,
		ErrorAnalysis: ErrorAnalysis{
			Enabled:     true,
			MinRSquared: DefaultMinRSquared,
		},
	}
}

// Validate checks the configuration before any detection begins. Calibration
// problems are reported first so that a bad pixel_to_mm or wavelength never
// reaches the fitter.
func (c *Config) Validate() error {
	if c.PixelToMM <= 0 {
		return ErrInvalidPixelToMM
	}
	if c.WavelengthNM <= 0 {
		return ErrInvalidWavelength
	}
	if c.MinRings < 2 {
		return ErrInvalidMinRings
	}
	if c.MaxRings != 0 && c.MaxRings < c.MinRings {
		return ErrInvalidMaxRings
	}
	if c.CenterMethod != MethodHough && c.CenterMethod != MethodGradient {
		return ErrUnknownCenterMethod
	}
	if c.NumAngles <= 0 {
		return ErrInvalidNumAngles
	}
	if c.MinRadiusPx < 0 {
		return ErrInvalidRadiusBounds
	}
	if c.MaxRadiusPx != 0 && c.MaxRadiusPx <= c.MinRadiusPx {
		return ErrInvalidRadiusBounds
	}
	if c.MinimaSpacingPx < 1 {
		return ErrInvalidMinimaSpacing
	}
	if c.ErrorAnalysis.MinRSquared < 0 || c.ErrorAnalysis.MinRSquared > 1 {
		return ErrInvalidMinRSquared
	}
	if c.ErrorAnalysis.MaxRelError != nil && *c.ErrorAnalysis.MaxRelError < 0 {
		return ErrInvalidMaxRelError
	}
	return nil
}
