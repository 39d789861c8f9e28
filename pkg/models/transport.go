package models

// MeasurementRequest represents a request to measure a Newton rings image.
// ReferenceRMM, when present, overrides the configured reference radius of
// curvature for error analysis. CenterMethod may override the configured
// center detection method ("hough" or "gradient").
type MeasurementRequest struct {
	URL          string   `json:"url" binding:"required,url"`
	ReferenceRMM *float64 `json:"reference_r_mm,omitempty"`
	CenterMethod string   `json:"center_method,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MeasurementResponse represents the response from a measurement run.
type MeasurementResponse struct {
	ImageURL          string        `json:"image_url"`
	Timestamp         string        `json:"timestamp"`
	ProcessingTimeSec float64       `json:"processing_time_sec"`
	Center            Center        `json:"center"`
	FringeCount       int           `json:"fringe_count"`
	Fringes           FringeSet     `json:"fringes"`
	Fit               FitResult     `json:"fit"`
	ErrorReport       *ErrorReport  `json:"error_report,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
}
