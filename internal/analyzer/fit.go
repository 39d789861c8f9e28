package analyzer

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"go-newton-rings/pkg/models"
)

// curveFitter performs the ordinary least-squares fit of squared fringe
// radius (mm^2) against fringe order n and derives the radius of curvature
// from the slope. For dark fringes r_n^2 = n * lambda * R, so the slope is
// lambda * R and the intercept absorbs any constant phase offset at the
// contact point.
type curveFitter struct{}

func newCurveFitter() *curveFitter { return &curveFitter{} }

// Fit is total over valid fringe sets: it always returns a result, using NaN
// for quantities that are undefined at the given sample size (standard
// errors need more than two points, r^2 needs order variance).
func (cf *curveFitter) Fit(fringes models.FringeSet, options MeasurementOptions) models.FitResult {
	n := len(fringes.Fringes)
	orders := make([]float64, n)
	rsq := make([]float64, n)
	for i, f := range fringes.Fringes {
		orders[i] = float64(f.Order)
		rsq[i] = f.RadiusMM * f.RadiusMM
	}

	intercept, slope := stat.LinearRegression(orders, rsq, nil, false)
	r2 := stat.RSquared(orders, rsq, nil, intercept, slope)

	residuals := make([]float64, n)
	var ssr float64
	for i := range orders {
		residuals[i] = rsq[i] - (intercept + slope*orders[i])
		ssr += residuals[i] * residuals[i]
	}

	meanOrder := stat.Mean(orders, nil)
	var sxx, sumSqX float64
	for _, x := range orders {
		d := x - meanOrder
		sxx += d * d
		sumSqX += x * x
	}

	slopeSE := math.NaN()
	interceptSE := math.NaN()
	if n > 2 && sxx > 0 {
		sigma2 := ssr / float64(n-2)
		slopeSE = math.Sqrt(sigma2 / sxx)
		interceptSE = slopeSE * math.Sqrt(sumSqX/float64(n))
	}

	lambdaMM := options.WavelengthMM()
	return models.FitResult{
		Slope:       slope,
		Intercept:   intercept,
		SlopeSE:     slopeSE,
		InterceptSE: interceptSE,
		RSquared:    r2,
		RadiusMM:    slope / lambdaMM,
		RadiusSEMM:  slopeSE / lambdaMM,
		Residuals:   residuals,
	}
}
