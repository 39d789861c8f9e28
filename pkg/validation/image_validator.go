package validation

import (
	"image"
	"image/color"
)

// ImageThresholds defines configurable thresholds for interferogram validation
type ImageThresholds struct {
	// Resolution thresholds. Below these there are too few pixels per
	// fringe for a meaningful profile.
	MinWidth  int
	MinHeight int

	// MaxMegapixels guards against accidentally submitted full-resolution
	// scans that would make the hough vote prohibitively slow.
	MaxMegapixels float64

	// MinDynamicRange is the minimum spread between the darkest and
	// brightest sampled pixel (0-255 scale). A washed out interferogram
	// has no fringes to detect.
	MinDynamicRange float64
}

// DefaultImageThresholds returns the default interferogram thresholds
func DefaultImageThresholds() ImageThresholds {
	return ImageThresholds{
		MinWidth:        64,
		MinHeight:       64,
		MaxMegapixels:   25.0,
		MinDynamicRange: 20.0,
	}
}

// ImageIssue represents an interferogram validation issue
type ImageIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ImageValidator checks that an interferogram is usable before the
// measurement pipeline spends time on it
type ImageValidator struct {
	thresholds ImageThresholds
}

// NewImageValidator creates an image validator with default thresholds
func NewImageValidator() *ImageValidator {
	return &ImageValidator{
		thresholds: DefaultImageThresholds(),
	}
}

// NewImageValidatorWithThresholds creates an image validator with custom thresholds
func NewImageValidatorWithThresholds(thresholds ImageThresholds) *ImageValidator {
	return &ImageValidator{
		thresholds: thresholds,
	}
}

// ValidateInterferogram performs pre-flight checks on a captured image
func (v *ImageValidator) ValidateInterferogram(img image.Image) []ImageIssue {
	var issues []ImageIssue
	if img == nil {
		return []ImageIssue{{
			Type:     "missing_image",
			Message:  "No image was decoded.",
			Severity: "error",
		}}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < v.thresholds.MinWidth || height < v.thresholds.MinHeight {
		issues = append(issues, ImageIssue{
			Type:        "low_resolution",
			Message:     "Image is too small to resolve interference fringes.",
			Severity:    "error",
			ActualValue: float64(width * height),
			Threshold:   float64(v.thresholds.MinWidth * v.thresholds.MinHeight),
		})
	}

	megapixels := float64(width) * float64(height) / 1e6
	if megapixels > v.thresholds.MaxMegapixels {
		issues = append(issues, ImageIssue{
			Type:        "oversized_image",
			Message:     "Image is larger than the pipeline is tuned for. Downscale the capture.",
			Severity:    "error",
			ActualValue: megapixels,
			Threshold:   v.thresholds.MaxMegapixels,
		})
	}

	if spread := v.dynamicRange(img); spread < v.thresholds.MinDynamicRange {
		issues = append(issues, ImageIssue{
			Type:        "low_contrast",
			Message:     "Fringe contrast is very low. Check the light source and focus.",
			Severity:    "warning",
			ActualValue: spread,
			Threshold:   v.thresholds.MinDynamicRange,
		})
	}

	return issues
}

// dynamicRange samples the image on a coarse grid and returns the spread
// between the darkest and brightest sample on the 0-255 scale.
func (v *ImageValidator) dynamicRange(img image.Image) float64 {
	bounds := img.Bounds()
	stepX := bounds.Dx() / 64
	if stepX < 1 {
		stepX = 1
	}
	stepY := bounds.Dy() / 64
	if stepY < 1 {
		stepY = 1
	}

	minV, maxV := 255.0, 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			value := float64(g.Y)
			if value < minV {
				minV = value
			}
			if value > maxV {
				maxV = value
			}
		}
	}
	if maxV < minV {
		return 0
	}
	return maxV - minV
}

// ConvertIssuesToMessages converts image issues to simple messages
func (v *ImageValidator) ConvertIssuesToMessages(issues []ImageIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (v *ImageValidator) HasCriticalIssues(issues []ImageIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
