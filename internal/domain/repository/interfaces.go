package repository

import (
	"context"

	"BattFit/internal/domain/models"
)

// CurveLoader reads a discharge curve from a path.
type CurveLoader interface {
	Load(ctx context.Context, path string) (models.DischargeCurve, error)
}

// Metrics records per-run pipeline measurements.
type Metrics interface {
	RecordStage(stage string, seconds float64)
	RecordError(stage string)
	RecordSamples(series string, n int)
	RecordFit(series string, rmse float64)
}
