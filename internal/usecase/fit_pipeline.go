package usecase

import (
	"context"
	"fmt"
	"time"

	"BattFit/internal/domain/models"
	drepo "BattFit/internal/domain/repository"
	domsvc "BattFit/internal/domain/service"
	"BattFit/internal/services/analytics"
	"BattFit/pkg/logger"
)

// Series labels used in logs and metrics.
const (
	SeriesR   = "r"
	SeriesVOC = "voc"
)

// RunParams describes one fitting run.
type RunParams struct {
	FirstCurveFile     string
	SecondCurveFile    string
	Capacity           float64
	FirstRateMultiple  float64
	SecondRateMultiple float64
	GridPoints         int
}

// FitPipeline runs load, resample, decompose and fit strictly in sequence.
// Any stage error aborts the run; nothing is reported for a failed run.
type FitPipeline struct {
	loader     drepo.CurveLoader
	resampler  domsvc.Resampler
	decomposer domsvc.Decomposer
	fitter     domsvc.Fitter
	metrics    drepo.Metrics
	log        *logger.Logger
}

// NewFitPipeline creates a new FitPipeline instance.
func NewFitPipeline(
	loader drepo.CurveLoader,
	resampler domsvc.Resampler,
	decomposer domsvc.Decomposer,
	fitter domsvc.Fitter,
	metrics drepo.Metrics,
	log *logger.Logger,
) *FitPipeline {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &FitPipeline{
		loader:     loader,
		resampler:  resampler,
		decomposer: decomposer,
		fitter:     fitter,
		metrics:    metrics,
		log:        log,
	}
}

// Run executes the pipeline and returns every intermediate and final dataset.
func (p *FitPipeline) Run(ctx context.Context, params RunParams) (*models.Report, error) {
	rep := &models.Report{}
	rate1, rate2 := analytics.RatesFor(params.Capacity, params.FirstRateMultiple, params.SecondRateMultiple)
	rep.Rates = [2]float64{rate1, rate2}

	// Equal rates make the system unsolvable; fail before touching any file.
	if err := p.stage(models.StageDecompose, func() error { return analytics.ValidateRates(rate1, rate2) }); err != nil {
		return nil, err
	}

	err := p.stage(models.StageLoad, func() error {
		var err error
		if rep.First, err = p.loader.Load(ctx, params.FirstCurveFile); err != nil {
			return err
		}
		rep.Second, err = p.loader.Load(ctx, params.SecondCurveFile)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.log.Info("curves loaded",
		logger.String("first", rep.First.Name), logger.Int("first_rows", rep.First.Len()),
		logger.String("second", rep.Second.Name), logger.Int("second_rows", rep.Second.Len()))

	grid := analytics.Grid(params.GridPoints)
	err = p.stage(models.StageResample, func() error {
		var err error
		if rep.FirstResampled, err = p.resampler.Resample(rep.First, grid); err != nil {
			return err
		}
		rep.SecondResampled, err = p.resampler.Resample(rep.Second, grid)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.log.Debug("curves resampled",
		logger.Int("grid_points", len(grid)),
		logger.Int("first_defined", rep.FirstResampled.DefinedCount()),
		logger.Int("second_defined", rep.SecondResampled.DefinedCount()))

	err = p.stage(models.StageDecompose, func() error {
		var err error
		rep.Samples, err = p.decomposer.Decompose(rep.FirstResampled, rep.SecondResampled, rate1, rate2)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordSamples(SeriesR, rep.Samples.R.Len())
	p.metrics.RecordSamples(SeriesVOC, rep.Samples.VOC.Len())
	p.log.Info("circuit decomposed",
		logger.Float64("rate1", rate1), logger.Float64("rate2", rate2),
		logger.Int("r_samples", rep.Samples.R.Len()), logger.Int("voc_samples", rep.Samples.VOC.Len()))

	err = p.stage(models.StageFit, func() error {
		var err error
		if rep.R, err = p.fitSeries(SeriesR, rep.Samples.R); err != nil {
			return err
		}
		rep.VOC, err = p.fitSeries(SeriesVOC, rep.Samples.VOC)
		return err
	})
	if err != nil {
		return nil, err
	}

	return rep, nil
}

func (p *FitPipeline) fitSeries(series string, s models.Series) (models.FitResult, error) {
	res, err := p.fitter.Fit(s.X, s.Y)
	if err != nil {
		return res, fmt.Errorf("fit %s(SOC): %w", series, err)
	}
	p.metrics.RecordFit(series, res.RMSE)
	p.log.With(logger.String("series", series)).Info("polynomial fitted",
		logger.Floats64("coefficients", res.Model.Coefficients[:]),
		logger.Float64("rmse", res.RMSE),
		logger.Float64("r2", res.R2))
	return res, nil
}

// stage times fn and records its outcome under the given stage name.
func (p *FitPipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.RecordStage(name, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordError(name)
		p.log.Error("stage failed", logger.String("stage", name), logger.Error(err))
		return err
	}
	p.log.Debug("stage done", logger.String("stage", name), logger.Duration("took_ms", time.Since(start)))
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordStage(string, float64) {}

func (nopMetrics) RecordError(string) {}

func (nopMetrics) RecordSamples(string, int) {}

func (nopMetrics) RecordFit(string, float64) {}
