package di

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BattFit/internal/domain/repository"
	"BattFit/pkg/config"
)

var _ repository.Metrics = ProvideMetrics()

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Input.FirstCurveFile = "../../testdata/curve_3c.csv"
	cfg.Input.SecondCurveFile = "../../testdata/curve_4c.csv"
	cfg.Battery.Capacity = 1
	cfg.Output.Plots = false
	cfg.Log.Level = "disabled"
	return cfg
}

func TestInitializeAppRunsEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	app, err := InitializeApp(cfg, &out)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, 3.0, app.Params().FirstRateMultiple)

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Fit results for R(SOC): [")
	assert.Contains(t, out.String(), "Fit results for V_OC(SOC): [")
}

func TestInitializeAppRejectsBadLogConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "loud"

	app, err := InitializeApp(cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Nil(t, app)
}
