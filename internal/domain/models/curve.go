package models

import "math"

// DischargeCurve is one digitized manufacturer curve, rows kept in file order.
type DischargeCurve struct {
	Name    string
	SOC     []float64
	Voltage []float64
}

// Len returns the number of (SOC, Voltage) rows.
func (c DischargeCurve) Len() int { return len(c.SOC) }

// ResampledCurve is a DischargeCurve evaluated on a shared SOC grid.
// Voltage[i] is NaN wherever Defined[i] is false; read through At.
type ResampledCurve struct {
	Name    string
	Grid    []float64
	Voltage []float64
	Defined []bool
}

// At returns the voltage at grid index i and whether it is defined.
func (c ResampledCurve) At(i int) (float64, bool) {
	if i < 0 || i >= len(c.Grid) || !c.Defined[i] {
		return math.NaN(), false
	}
	return c.Voltage[i], true
}

// DefinedCount returns how many grid points carry a voltage.
func (c ResampledCurve) DefinedCount() int {
	n := 0
	for _, ok := range c.Defined {
		if ok {
			n++
		}
	}
	return n
}

// Series is an index-aligned (x, y) sample set.
type Series struct {
	X []float64
	Y []float64
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.X) }

// CircuitSampleSet holds R(SOC) and V_OC(SOC) samples. Each series owns its X.
type CircuitSampleSet struct {
	R   Series
	VOC Series
}
