package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCurves(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	first := filepath.Join(dir, "3c.csv")
	second := filepath.Join(dir, "4c.csv")
	require.NoError(t, os.WriteFile(first, []byte("SOC,Voltage\n0,4.2\n0.5,3.7\n1.0,3.0\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("SOC,Voltage\n0,4.0\n0.5,3.5\n1.0,2.6\n"), 0o600))
	return dir, first, second
}

func TestRunPrintsBothCoefficientSets(t *testing.T) {
	dir, first, second := writeCurves(t)
	metricsFile := filepath.Join(dir, "battfit.prom")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first,
		"--second-curve-file", second,
		"--battery-capacity", "1",
		"--no-plots",
		"--log-level", "disabled",
		"--metrics-file", metricsFile,
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Fit results for R(SOC): ["))
	assert.True(t, strings.HasPrefix(lines[1], "Fit results for V_OC(SOC): ["))

	b, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "battfit_samples")
}

func TestRunEqualRatesExitsBeforeReport(t *testing.T) {
	_, first, second := writeCurves(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first,
		"--second-curve-file", second,
		"--battery-capacity", "2",
		"--second-rate-multiple", "3",
		"--no-plots",
		"--log-level", "disabled",
	}, &stdout, &stderr)

	assert.Equal(t, exitInvalidInput, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "[decompose]")
}

func TestRunMissingFile(t *testing.T) {
	dir, first, _ := writeCurves(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first,
		"--second-curve-file", filepath.Join(dir, "missing.csv"),
		"--battery-capacity", "1",
		"--no-plots",
		"--log-level", "disabled",
	}, &stdout, &stderr)

	assert.Equal(t, exitFile, code)
	assert.Contains(t, stderr.String(), "[load]")
	assert.Empty(t, stdout.String())
}

func TestRunMissingConfigFile(t *testing.T) {
	dir, first, second := writeCurves(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--first-curve-file", first,
		"--second-curve-file", second,
		"--battery-capacity", "1",
	}, &stdout, &stderr)

	assert.Equal(t, exitFile, code)
	assert.Contains(t, stderr.String(), "[config]")
	assert.Empty(t, stdout.String())
}

func TestRunCurveDirectoryIsFileError(t *testing.T) {
	dir, first, _ := writeCurves(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first,
		"--second-curve-file", dir,
		"--battery-capacity", "1",
		"--no-plots",
		"--log-level", "disabled",
	}, &stdout, &stderr)

	assert.Equal(t, exitFile, code)
	assert.Empty(t, stdout.String())
}

func TestRunParseError(t *testing.T) {
	dir, first, _ := writeCurves(t)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("SOC,Voltage\n0,four\n"), 0o600))
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first, "--second-curve-file", bad, "--battery-capacity", "1",
		"--no-plots", "--log-level", "disabled",
	}, &stdout, &stderr)

	assert.Equal(t, exitParse, code)
}

func TestRunMissingFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitInvalidInput, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "[config]")
}

func TestRunPlotsToOutputDir(t *testing.T) {
	dir, first, second := writeCurves(t)
	out := filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--first-curve-file", first, "--second-curve-file", second, "--battery-capacity", "1",
		"--output-dir", out, "--report-format", "json", "--log-level", "disabled",
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.FileExists(t, filepath.Join(out, "discharge_curves.png"))
	assert.FileExists(t, filepath.Join(out, "r_soc.png"))
	assert.FileExists(t, filepath.Join(out, "voc_soc.png"))
	assert.Contains(t, stdout.String(), `"r_soc"`)
}
