package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"BattFit/internal/domain/models"
	domsvc "BattFit/internal/domain/service"
)

// DefaultGridPoints is the size of the shared SOC grid.
const DefaultGridPoints = 100

// Grid returns n evenly spaced SOC values over [0, 1], both ends included.
func Grid(n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	g := make([]float64, n)
	floats.Span(g, 0, 1)
	g[n-1] = 1
	return g
}

// LinearResampler interpolates linearly between bracketing samples and
// leaves grid points outside the curve's SOC span undefined.
type LinearResampler struct{}

func NewLinearResampler() *LinearResampler { return &LinearResampler{} }

// Resample evaluates curve at every grid point. curve.SOC must be strictly increasing.
func (r *LinearResampler) Resample(curve models.DischargeCurve, grid []float64) (models.ResampledCurve, error) {
	if err := checkInterpolable(curve); err != nil {
		return models.ResampledCurve{}, err
	}

	out := models.ResampledCurve{
		Name:    curve.Name,
		Grid:    append([]float64(nil), grid...),
		Voltage: make([]float64, len(grid)),
		Defined: make([]bool, len(grid)),
	}
	for i, x := range grid {
		v, ok := interpolate(curve.SOC, curve.Voltage, x)
		if !ok {
			out.Voltage[i] = math.NaN()
			continue
		}
		out.Voltage[i] = v
		out.Defined[i] = true
	}
	return out, nil
}

func checkInterpolable(c models.DischargeCurve) error {
	if len(c.SOC) != len(c.Voltage) {
		return models.InvalidInputErrorf(models.StageResample,
			"curve %q: %d SOC values but %d voltages", c.Name, len(c.SOC), len(c.Voltage))
	}
	if len(c.SOC) < 2 {
		return models.InvalidInputErrorf(models.StageResample,
			"curve %q: need at least 2 points to interpolate, got %d", c.Name, len(c.SOC))
	}
	for i := 1; i < len(c.SOC); i++ {
		if !(c.SOC[i] > c.SOC[i-1]) {
			return models.InvalidInputErrorf(models.StageResample,
				"curve %q: SOC not strictly increasing at row %d (%g after %g)", c.Name, i+1, c.SOC[i], c.SOC[i-1]).
				WithParam("row", i+1)
		}
	}
	return nil
}

// interpolate returns the linear interpolation of (xs, ys) at x.
// xs must be strictly increasing. ok is false outside [xs[0], xs[n-1]].
func interpolate(xs, ys []float64, x float64) (v float64, ok bool) {
	n := len(xs)
	if math.IsNaN(x) || x < xs[0] || x > xs[n-1] {
		return 0, false
	}
	j := sort.SearchFloat64s(xs, x)
	if xs[j] == x {
		return ys[j], true
	}
	x0, x1 := xs[j-1], xs[j]
	y0, y1 := ys[j-1], ys[j]
	return y0 + (x-x0)*(y1-y0)/(x1-x0), true
}

var _ domsvc.Resampler = (*LinearResampler)(nil)
