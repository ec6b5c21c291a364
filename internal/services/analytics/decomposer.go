package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"BattFit/internal/domain/models"
	domsvc "BattFit/internal/domain/service"
)

// Default discharge-rate multiples of the capacity factor (3C and 4C).
const (
	DefaultFirstRateMultiple  = 3.0
	DefaultSecondRateMultiple = 4.0
)

// RatesFor returns the two discharge-rate magnitudes m1*capacity and m2*capacity.
func RatesFor(capacity, m1, m2 float64) (rate1, rate2 float64) {
	return m1 * capacity, m2 * capacity
}

// ValidateRates fails unless both rates are finite and differ.
func ValidateRates(rate1, rate2 float64) error {
	if math.IsNaN(rate1) || math.IsInf(rate1, 0) || math.IsNaN(rate2) || math.IsInf(rate2, 0) {
		return models.InvalidInputErrorf(models.StageDecompose, "discharge rates must be finite, got %g and %g", rate1, rate2)
	}
	if rate1 == rate2 {
		return models.InvalidInputErrorf(models.StageDecompose, "discharge rates must differ, both are %g", rate1).
			WithParam("rate", rate1)
	}
	return nil
}

// TwoRateDecomposer solves V = V_OC - I*R at two known currents for every grid point:
//
//	R    = (V1 - V2) / (rate2 - rate1)
//	V_OC = V1 + R*rate1
type TwoRateDecomposer struct{}

func NewTwoRateDecomposer() *TwoRateDecomposer { return &TwoRateDecomposer{} }

// Decompose derives R(SOC) and V_OC(SOC). Grid points where a result is
// undefined are dropped; each series is filtered by its own mask.
func (d *TwoRateDecomposer) Decompose(first, second models.ResampledCurve, rate1, rate2 float64) (models.CircuitSampleSet, error) {
	if err := ValidateRates(rate1, rate2); err != nil {
		return models.CircuitSampleSet{}, err
	}
	if !floats.Equal(first.Grid, second.Grid) {
		return models.CircuitSampleSet{}, models.InvalidInputErrorf(models.StageDecompose,
			"curves %q and %q are not on the same SOC grid", first.Name, second.Name)
	}

	n := len(first.Grid)
	r := make([]float64, n)
	voc := make([]float64, n)
	rOK := make([]bool, n)
	vocOK := make([]bool, n)
	denom := rate2 - rate1

	for i := 0; i < n; i++ {
		v1, ok1 := first.At(i)
		v2, ok2 := second.At(i)
		if !ok1 || !ok2 {
			r[i], voc[i] = math.NaN(), math.NaN()
			continue
		}
		r[i] = (v1 - v2) / denom
		voc[i] = v1 + r[i]*rate1
		rOK[i] = isFinite(r[i])
		vocOK[i] = isFinite(voc[i])
	}

	return models.CircuitSampleSet{
		R:   filterPaired(first.Grid, r, rOK),
		VOC: filterPaired(first.Grid, voc, vocOK),
	}, nil
}

// filterPaired keeps (x[i], y[i]) together wherever keep[i] is set.
func filterPaired(x, y []float64, keep []bool) models.Series {
	var s models.Series
	for i := range x {
		if !keep[i] {
			continue
		}
		s.X = append(s.X, x[i])
		s.Y = append(s.Y, y[i])
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var _ domsvc.Decomposer = (*TwoRateDecomposer)(nil)
