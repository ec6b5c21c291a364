package di

import (
	"fmt"

	"BattFit/internal/domain/models"
	"BattFit/internal/domain/repository"
	"BattFit/internal/handler/report"
	internalrepo "BattFit/internal/repository"
	"BattFit/internal/services/analytics"
	"BattFit/internal/usecase"
	"BattFit/pkg/config"
	"BattFit/pkg/logger"
	"BattFit/pkg/metrics"
	"BattFit/pkg/server"

	"github.com/google/wire"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// MetricsSet binds the recorder to the pipeline's metrics port.
var MetricsSet = wire.NewSet(
	ProvideMetrics,
	wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),
)

// ProvideCurveLoader creates the CSV curve loader.
func ProvideCurveLoader(cfg *config.Config) repository.CurveLoader {
	return internalrepo.NewCSVCurveLoader(cfg.Input.SortBySOC)
}

// ProvideFitPipeline wires the numeric stages.
func ProvideFitPipeline(loader repository.CurveLoader, rec repository.Metrics, l *logger.Logger) *usecase.FitPipeline {
	return usecase.NewFitPipeline(
		loader,
		analytics.NewLinearResampler(),
		analytics.NewTwoRateDecomposer(),
		analytics.NewPolyFitter(),
		rec,
		l,
	)
}

// ProvideReportSink creates the plot and coefficient sink.
func ProvideReportSink(cfg *config.Config, out report.Output, l *logger.Logger) *report.Sink {
	opts := []report.Option{
		report.WithFormat(models.ReportFormat(cfg.Output.ReportFormat)),
		report.WithLogger(l),
	}
	if cfg.Output.Plots {
		opts = append(opts, report.WithPlots(cfg.Output.Dir))
	}
	return report.NewSink(out, opts...)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, p *usecase.FitPipeline, sink *report.Sink, rec *metrics.Recorder, l *logger.Logger) *server.App {
	return server.New(cfg, p, sink, rec, l)
}
