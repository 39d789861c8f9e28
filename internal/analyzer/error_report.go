package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-newton-rings/pkg/models"
)

// errorAnalyzer summarises the fit residuals and, when a reference radius of
// curvature is known, the measurement error against it. A report that fails
// the thresholds is a diagnostic flag; the run still succeeds.
type errorAnalyzer struct{}

func newErrorAnalyzer() *errorAnalyzer { return &errorAnalyzer{} }

// Analyze returns nil when error analysis is disabled.
func (ea *errorAnalyzer) Analyze(fit models.FitResult, options MeasurementOptions) *models.ErrorReport {
	opts := options.ErrorAnalysis
	if !opts.Enabled {
		return nil
	}

	report := &models.ErrorReport{}
	if len(fit.Residuals) > 0 {
		report.ResidualMean = stat.Mean(fit.Residuals, nil)
		for _, r := range fit.Residuals {
			if a := math.Abs(r); a > report.ResidualMaxAbs {
				report.ResidualMaxAbs = a
			}
		}
	}
	if len(fit.Residuals) > 1 {
		report.ResidualStd = stat.StdDev(fit.Residuals, nil)
	}

	if opts.ReferenceRMM != nil && *opts.ReferenceRMM > 0 {
		ref := *opts.ReferenceRMM
		absErr := math.Abs(fit.RadiusMM - ref)
		relErr := absErr / ref
		report.ReferenceRMM = &ref
		report.AbsErrorMM = &absErr
		report.RelError = &relErr
	}

	if math.IsNaN(fit.RSquared) {
		report.Issues = append(report.Issues, "r_squared is undefined for this fit")
	} else if fit.RSquared < opts.MinRSquared {
		report.Issues = append(report.Issues,
			fmt.Sprintf("r_squared %.4f below minimum %.4f", fit.RSquared, opts.MinRSquared))
	}
	if opts.MaxRelError != nil && report.RelError != nil && *report.RelError > *opts.MaxRelError {
		report.Issues = append(report.Issues,
			fmt.Sprintf("relative error %.4f exceeds maximum %.4f", *report.RelError, *opts.MaxRelError))
	}

	report.Passed = len(report.Issues) == 0
	return report
}
