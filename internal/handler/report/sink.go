// Package report renders a finished run: PNG plots of every stage and a
// coefficient report.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"BattFit/internal/domain/models"
	domsvc "BattFit/internal/domain/service"
	"BattFit/pkg/logger"
)

// Plot file names written under the output directory.
const (
	CurvesPlotFile = "discharge_curves.png"
	RPlotFile      = "r_soc.png"
	VOCPlotFile    = "voc_soc.png"
)

// Output is the stream coefficient reports are printed to.
type Output io.Writer

// Sink implements service.ReportSink.
type Sink struct {
	out    io.Writer
	dir    string
	plots  bool
	format models.ReportFormat
	log    *logger.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithPlots enables PNG rendering into dir.
func WithPlots(dir string) Option {
	return func(s *Sink) {
		s.plots = true
		s.dir = dir
	}
}

// WithFormat sets the coefficient report format.
func WithFormat(f models.ReportFormat) Option {
	return func(s *Sink) {
		s.format = models.NormalizeReportFormat(string(f))
	}
}

// WithLogger sets the sink logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Sink) {
		s.log = l
	}
}

// NewSink creates a sink printing reports to out.
func NewSink(out io.Writer, opts ...Option) *Sink {
	s := &Sink{
		out:    out,
		format: models.DefaultReportFormat(),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish renders the plots (if enabled) and then prints the coefficients.
func (s *Sink) Publish(ctx context.Context, r *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("report is nil")
	}

	if s.plots {
		if err := s.renderPlots(r); err != nil {
			return models.NewStageError(models.StageReport, models.ErrFile, "render plots").WithError(err)
		}
	}

	if err := WriteCoefficients(s.out, s.format, r); err != nil {
		return models.NewStageError(models.StageReport, models.ErrFile, "write report").WithError(err)
	}
	return nil
}

func (s *Sink) renderPlots(r *models.Report) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	jobs := []struct {
		file   string
		render func(string) error
	}{
		{CurvesPlotFile, func(p string) error { return plotCurves(p, r) }},
		{RPlotFile, func(p string) error {
			return plotFit(p, "R(SOC)", "R", r.Samples.R, r.R)
		}},
		{VOCPlotFile, func(p string) error {
			return plotFit(p, "V_OC(SOC)", "V_OC", r.Samples.VOC, r.VOC)
		}},
	}
	for _, j := range jobs {
		path := filepath.Join(s.dir, j.file)
		if err := j.render(path); err != nil {
			return fmt.Errorf("%s: %w", j.file, err)
		}
		s.log.Info("plot written", logger.String("path", path))
	}
	return nil
}

var _ domsvc.ReportSink = (*Sink)(nil)
