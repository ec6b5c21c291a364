package service

import (
	"context"

	"BattFit/internal/domain/models"
)

// Resampler evaluates a discharge curve on a shared SOC grid.
type Resampler interface {
	Resample(curve models.DischargeCurve, grid []float64) (models.ResampledCurve, error)
}

// Decomposer separates two resampled curves into R(SOC) and V_OC(SOC) samples.
type Decomposer interface {
	Decompose(first, second models.ResampledCurve, rate1, rate2 float64) (models.CircuitSampleSet, error)
}

// Fitter fits a fixed-degree polynomial to (x, y) samples.
type Fitter interface {
	Fit(x, y []float64) (models.FitResult, error)
}

// ReportSink renders and prints the outcome of a successful run.
type ReportSink interface {
	Publish(ctx context.Context, r *models.Report) error
}
