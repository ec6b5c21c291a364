//go:build wireinject
// +build wireinject

package di

import (
	"BattFit/internal/handler/report"
	"BattFit/pkg/config"
	"BattFit/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, out report.Output) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideLogger,
		MetricsSet,

		// Repositories
		ProvideCurveLoader,

		// Use cases
		ProvideFitPipeline,

		// Output
		ProvideReportSink,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
