package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"BattFit/internal/domain/models"
	domsvc "BattFit/internal/domain/service"
)

// PolyFitter fits a models.PolyDegree polynomial by linear least squares.
type PolyFitter struct {
	degree int
}

func NewPolyFitter() *PolyFitter { return &PolyFitter{degree: models.PolyDegree} }

// Fit solves the Vandermonde least-squares problem with a QR factorization.
func (f *PolyFitter) Fit(x, y []float64) (models.FitResult, error) {
	var result models.FitResult
	need := f.degree + 1

	if len(x) != len(y) {
		return result, models.InvalidInputErrorf(models.StageFit, "got %d x values but %d y values", len(x), len(y))
	}
	if len(x) < need {
		return result, models.InsufficientDataErrorf(models.StageFit,
			"degree-%d fit needs at least %d points, got %d", f.degree, need, len(x)).
			WithParam("points", len(x))
	}
	if d := distinct(x); d < need {
		return result, models.InsufficientDataErrorf(models.StageFit,
			"degree-%d fit needs at least %d distinct x values, got %d", f.degree, need, d).
			WithParam("distinct", d)
	}

	a := vandermonde(x, f.degree)
	b := mat.NewVecDense(len(y), append([]float64(nil), y...))
	c := mat.NewVecDense(need, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		return result, models.InsufficientDataErrorf(models.StageFit, "fit did not converge").WithError(err)
	}

	// c holds ascending powers; the model stores a..e highest first.
	for j := 0; j < need; j++ {
		coef := c.AtVec(j)
		if !isFinite(coef) {
			return result, models.InsufficientDataErrorf(models.StageFit, "fit did not converge: non-finite coefficient")
		}
		result.Model.Coefficients[f.degree-j] = coef
	}

	result.Fitted = result.Model.EvalAll(x)
	result.RMSE, result.R2 = goodness(y, result.Fitted)
	return result, nil
}

// vandermonde builds the len(x) by degree+1 matrix of ascending powers of x.
func vandermonde(x []float64, degree int) *mat.Dense {
	m := mat.NewDense(len(x), degree+1, nil)
	for i := range x {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*x[i] {
			m.Set(i, j, p)
		}
	}
	return m
}

func distinct(x []float64) int {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := 0
	for i := range s {
		if i == 0 || s[i] != s[i-1] {
			n++
		}
	}
	return n
}

// goodness returns root mean squared error and coefficient of determination.
func goodness(y, fitted []float64) (rmse, r2 float64) {
	mean := stat.Mean(y, nil)
	var ssRes, ssTot float64
	for i := range y {
		d := y[i] - fitted[i]
		ssRes += d * d
		t := y[i] - mean
		ssTot += t * t
	}
	rmse = math.Sqrt(ssRes / float64(len(y)))
	if ssTot == 0 {
		if rmse < 1e-12 {
			return rmse, 1
		}
		return rmse, 0
	}
	return rmse, 1 - ssRes/ssTot
}

var _ domsvc.Fitter = (*PolyFitter)(nil)
