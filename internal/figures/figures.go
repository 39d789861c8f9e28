// Package figures renders diagnostic plots for a measurement run: the
// radial intensity profile, the linear fit of r² against fringe order and
// the fit residuals.
package figures

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go-newton-rings/pkg/models"
)

// Plotter writes measurement figures as PNG files into an output directory.
type Plotter struct {
	outputDir string
}

// NewPlotter creates a plotter writing into outputDir, creating it if needed.
func NewPlotter(outputDir string) (*Plotter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create figures dir: %w", err)
	}
	return &Plotter{outputDir: outputDir}, nil
}

// GenerateFigures renders all figures for the result and returns the written
// file paths.
func (p *Plotter) GenerateFigures(result *models.MeasurementResult) ([]string, error) {
	var files []string

	profileFile, err := p.plotProfile(result)
	if err != nil {
		return files, err
	}
	files = append(files, profileFile)

	fitFile, err := p.plotFit(result)
	if err != nil {
		return files, err
	}
	files = append(files, fitFile)

	residualsFile, err := p.plotResiduals(result)
	if err != nil {
		return files, err
	}
	files = append(files, residualsFile)

	return files, nil
}

// plotProfile draws the radial intensity profile with the detected fringe
// radii marked as vertical drop lines.
func (p *Plotter) plotProfile(result *models.MeasurementResult) (string, error) {
	pl := plot.New()
	pl.Title.Text = "Radial Intensity Profile"
	pl.X.Label.Text = "Radius (px)"
	pl.Y.Label.Text = "Mean intensity"

	points := make(plotter.XYs, len(result.Profile.Samples))
	for i, s := range result.Profile.Samples {
		points[i].X = s.RadiusPx
		points[i].Y = s.Intensity
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return "", fmt.Errorf("profile line: %w", err)
	}
	pl.Add(line)
	pl.Legend.Add("profile", line)

	for _, f := range result.Fringes.Fringes {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: f.RadiusPx, Y: 0},
			{X: f.RadiusPx, Y: 255},
		})
		if err != nil {
			return "", fmt.Errorf("fringe marker: %w", err)
		}
		marker.Color = color.RGBA{R: 200, A: 255}
		marker.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		pl.Add(marker)
	}

	file := filepath.Join(p.outputDir, "profile.png")
	if err := pl.Save(10*vg.Inch, 4*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save profile plot: %w", err)
	}
	return file, nil
}

// plotFit draws r² (mm²) against fringe order together with the fitted line.
func (p *Plotter) plotFit(result *models.MeasurementResult) (string, error) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Fit: R = %.1f mm, r² of fit %.5f", result.Fit.RadiusMM, result.Fit.RSquared)
	pl.X.Label.Text = "Fringe order n"
	pl.Y.Label.Text = "r² (mm²)"

	points := make(plotter.XYs, len(result.Fringes.Fringes))
	for i, f := range result.Fringes.Fringes {
		points[i].X = float64(f.Order)
		points[i].Y = f.RadiusMM * f.RadiusMM
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", fmt.Errorf("fit scatter: %w", err)
	}
	pl.Add(scatter)
	pl.Legend.Add("measured", scatter)

	if n := len(result.Fringes.Fringes); n > 0 {
		first := float64(result.Fringes.Fringes[0].Order)
		last := float64(result.Fringes.Fringes[n-1].Order)
		fitted, err := plotter.NewLine(plotter.XYs{
			{X: first, Y: result.Fit.Intercept + result.Fit.Slope*first},
			{X: last, Y: result.Fit.Intercept + result.Fit.Slope*last},
		})
		if err != nil {
			return "", fmt.Errorf("fit line: %w", err)
		}
		fitted.Color = color.RGBA{B: 200, A: 255}
		pl.Add(fitted)
		pl.Legend.Add("fit", fitted)
	}

	file := filepath.Join(p.outputDir, "fit.png")
	if err := pl.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save fit plot: %w", err)
	}
	return file, nil
}

// plotResiduals draws the fit residuals per fringe order.
func (p *Plotter) plotResiduals(result *models.MeasurementResult) (string, error) {
	pl := plot.New()
	pl.Title.Text = "Fit Residuals"
	pl.X.Label.Text = "Fringe order n"
	pl.Y.Label.Text = "Residual (mm²)"

	points := make(plotter.XYs, len(result.Fit.Residuals))
	for i, r := range result.Fit.Residuals {
		points[i].X = float64(i + 1)
		points[i].Y = r
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", fmt.Errorf("residual scatter: %w", err)
	}
	pl.Add(scatter)

	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0.5, Y: 0},
		{X: float64(len(result.Fit.Residuals)) + 0.5, Y: 0},
	})
	if err != nil {
		return "", fmt.Errorf("zero line: %w", err)
	}
	zero.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	zero.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	pl.Add(zero)

	file := filepath.Join(p.outputDir, "residuals.png")
	if err := pl.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return "", fmt.Errorf("save residuals plot: %w", err)
	}
	return file, nil
}
