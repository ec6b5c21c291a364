package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BattFit/internal/domain/models"
)

func TestGrid(t *testing.T) {
	g := Grid(DefaultGridPoints)
	require.Len(t, g, 100)
	assert.Equal(t, 0.0, g[0])
	assert.Equal(t, 1.0, g[99])
	assert.InDelta(t, 1.0/99, g[1], 1e-15)

	assert.Nil(t, Grid(0))
	assert.Equal(t, []float64{0}, Grid(1))
}

func TestResampleInteriorBounded(t *testing.T) {
	curve := models.DischargeCurve{
		Name:    "3C",
		SOC:     []float64{0, 0.3, 0.7, 1},
		Voltage: []float64{4.2, 3.9, 3.6, 3.0},
	}
	grid := Grid(DefaultGridPoints)

	out, err := NewLinearResampler().Resample(curve, grid)
	require.NoError(t, err)
	require.Len(t, out.Voltage, len(grid))
	assert.Equal(t, len(grid), out.DefinedCount())

	for i, x := range grid {
		v, ok := out.At(i)
		require.True(t, ok, "grid %d undefined", i)
		for j := 1; j < len(curve.SOC); j++ {
			if x >= curve.SOC[j-1] && x <= curve.SOC[j] {
				lo := math.Min(curve.Voltage[j-1], curve.Voltage[j])
				hi := math.Max(curve.Voltage[j-1], curve.Voltage[j])
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
			}
		}
	}
}

func TestResampleExactAndMidpoint(t *testing.T) {
	curve := models.DischargeCurve{SOC: []float64{0, 0.5, 1}, Voltage: []float64{4.2, 3.7, 3.0}}

	out, err := NewLinearResampler().Resample(curve, []float64{0, 0.25, 0.5, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4.2, 3.95, 3.7, 3.0}, out.Voltage, 1e-12)
}

func TestResampleOutsideSpanUndefined(t *testing.T) {
	curve := models.DischargeCurve{SOC: []float64{0.2, 0.8}, Voltage: []float64{4.0, 3.4}}
	grid := Grid(11)

	out, err := NewLinearResampler().Resample(curve, grid)
	require.NoError(t, err)

	for i, x := range grid {
		v, ok := out.At(i)
		inside := x >= 0.2 && x <= 0.8
		assert.Equal(t, inside, ok, "grid %v", x)
		if !inside {
			assert.True(t, math.IsNaN(v))
			assert.True(t, math.IsNaN(out.Voltage[i]))
		}
	}
	assert.False(t, out.Defined[0])
	assert.False(t, out.Defined[10])
}

func TestResampleRejectsUnsortedSOC(t *testing.T) {
	curve := models.DischargeCurve{Name: "bad", SOC: []float64{0, 0.6, 0.4, 1}, Voltage: []float64{4, 3.8, 3.9, 3}}

	_, err := NewLinearResampler().Resample(curve, Grid(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, models.StageResample, models.StageOf(err))
}

func TestResampleRejectsDuplicateSOC(t *testing.T) {
	curve := models.DischargeCurve{SOC: []float64{0, 0.5, 0.5, 1}, Voltage: []float64{4, 3.8, 3.7, 3}}

	_, err := NewLinearResampler().Resample(curve, Grid(10))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestResampleRejectsSinglePoint(t *testing.T) {
	curve := models.DischargeCurve{SOC: []float64{0.5}, Voltage: []float64{3.7}}

	_, err := NewLinearResampler().Resample(curve, Grid(10))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
