package server

import (
	"context"

	"BattFit/internal/domain/models"
	domsvc "BattFit/internal/domain/service"
	"BattFit/internal/usecase"
	"BattFit/pkg/config"
	applogger "BattFit/pkg/logger"
	"BattFit/pkg/metrics"
)

// App encapsulates one fitting run.
type App struct {
	cfg      *config.Config
	pipeline *usecase.FitPipeline
	sink     domsvc.ReportSink
	metrics  *metrics.Recorder
	log      *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.FitPipeline,
	sink domsvc.ReportSink,
	rec *metrics.Recorder,
	log *applogger.Logger,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		sink:     sink,
		metrics:  rec,
		log:      log,
	}
}

// Params maps the config onto pipeline parameters.
func (a *App) Params() usecase.RunParams {
	return usecase.RunParams{
		FirstCurveFile:     a.cfg.Input.FirstCurveFile,
		SecondCurveFile:    a.cfg.Input.SecondCurveFile,
		Capacity:           float64(a.cfg.Battery.Capacity),
		FirstRateMultiple:  a.cfg.Battery.FirstRateMultiple,
		SecondRateMultiple: a.cfg.Battery.SecondRateMultiple,
		GridPoints:         a.cfg.Fit.GridPoints,
	}
}

// Run executes the pipeline and publishes the report. The sink is only
// reached when every stage succeeded.
func (a *App) Run(ctx context.Context) error {
	params := a.Params()
	a.log.Info("run started",
		applogger.String("first_curve_file", params.FirstCurveFile),
		applogger.String("second_curve_file", params.SecondCurveFile),
		applogger.Float64("capacity", params.Capacity),
		applogger.Bool("sort_by_soc", a.cfg.Input.SortBySOC),
		applogger.Bool("plots", a.cfg.Output.Plots))

	rep, err := a.pipeline.Run(ctx, params)
	if err == nil {
		err = a.publish(ctx, rep)
	}
	a.flushMetrics()
	if err != nil {
		return err
	}

	a.log.Info("run complete")
	return nil
}

func (a *App) publish(ctx context.Context, rep *models.Report) error {
	if err := a.sink.Publish(ctx, rep); err != nil {
		if a.metrics != nil {
			a.metrics.RecordError(models.StageReport)
		}
		return err
	}
	return nil
}

func (a *App) flushMetrics() {
	if a.metrics == nil || a.cfg.Metrics.Textfile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("metrics textfile not written", applogger.Error(err))
		return
	}
	a.log.Debug("metrics textfile written", applogger.String("path", a.cfg.Metrics.Textfile))
}
