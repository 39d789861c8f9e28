// Package report renders measurement results for humans. The Markdown form
// goes next to the raw JSON so a lab notebook entry can be pasted straight
// from the output directory.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nao1215/markdown"

	"go-newton-rings/pkg/models"
)

// MarkdownWriter outputs measurement reports in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the full measurement report.
func (w *MarkdownWriter) Write(source string, result *models.MeasurementResult) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, source, result)
	w.writeFit(md, result)
	w.writeFringes(md, result)
	w.writeErrorAnalysis(md, result)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, source string, result *models.MeasurementResult) {
	md.H1("Newton Rings Measurement")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Image", "`" + source + "`"},
			{"Measured", result.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Center method", result.Center.Method},
			{"Center", fmt.Sprintf("(%.2f, %.2f) px, score %.3f", result.Center.X, result.Center.Y, result.Center.Score)},
			{"Processing time", fmt.Sprintf("%.3f s", result.ProcessingTimeSec)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFit(md *markdown.Markdown, result *models.MeasurementResult) {
	md.H2("Fit r² = slope·n + intercept")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Quantity", "Value"},
		Rows: [][]string{
			{"Slope", formatWithSE(result.Fit.Slope, result.Fit.SlopeSE, "mm²")},
			{"Intercept", formatWithSE(result.Fit.Intercept, result.Fit.InterceptSE, "mm²")},
			{"R²", formatFloat(result.Fit.RSquared, 6)},
			{"Radius of curvature", formatWithSE(result.Fit.RadiusMM, result.Fit.RadiusSEMM, "mm")},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFringes(md *markdown.Markdown, result *models.MeasurementResult) {
	md.H2("Dark Fringes")
	md.PlainText("")

	rows := make([][]string, len(result.Fringes.Fringes))
	for i, f := range result.Fringes.Fringes {
		residual := "-"
		if i < len(result.Fit.Residuals) {
			residual = fmt.Sprintf("%+.6f", result.Fit.Residuals[i])
		}
		rows[i] = []string{
			strconv.Itoa(f.Order),
			fmt.Sprintf("%.2f", f.RadiusPx),
			fmt.Sprintf("%.4f", f.RadiusMM),
			residual,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Order n", "Radius (px)", "Radius (mm)", "Residual (mm²)"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeErrorAnalysis(md *markdown.Markdown, result *models.MeasurementResult) {
	report := result.ErrorReport
	if report == nil {
		return
	}

	md.H2("Error Analysis")
	md.PlainText("")

	rows := [][]string{
		{"Residual mean", fmt.Sprintf("%.6f mm²", report.ResidualMean)},
		{"Residual std", fmt.Sprintf("%.6f mm²", report.ResidualStd)},
		{"Residual max abs", fmt.Sprintf("%.6f mm²", report.ResidualMaxAbs)},
	}
	if report.ReferenceRMM != nil {
		rows = append(rows,
			[]string{"Reference R", fmt.Sprintf("%.2f mm", *report.ReferenceRMM)},
			[]string{"Absolute error", fmt.Sprintf("%.2f mm", *report.AbsErrorMM)},
			[]string{"Relative error", fmt.Sprintf("%.4f", *report.RelError)},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Passed {
		md.Tip("Measurement passed all configured quality thresholds.")
	} else {
		md.Warningf("Measurement flagged by %d quality check(s).", len(report.Issues))
		md.PlainText("")
		md.BulletList(report.Issues...)
	}
	md.PlainText("")
}

func formatWithSE(value, se float64, unit string) string {
	if math.IsNaN(se) {
		return fmt.Sprintf("%.6f %s", value, unit)
	}
	return fmt.Sprintf("%.6f ± %.6f %s", value, se, unit)
}

func formatFloat(v float64, precision int) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
