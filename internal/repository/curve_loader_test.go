package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BattFit/internal/domain/models"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadSkipsHeaderKeepsOrder(t *testing.T) {
	p := writeCSV(t, "curve_3c.csv", "SOC,Voltage\n0,4.2\n0.5, 3.7\n1.0,3.0\n\n")

	c, err := NewCSVCurveLoader(false).Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "curve_3c", c.Name)
	assert.Equal(t, []float64{0, 0.5, 1.0}, c.SOC)
	assert.Equal(t, []float64{4.2, 3.7, 3.0}, c.Voltage)
}

func TestLoadKeepsUnsortedRowsUnlessAsked(t *testing.T) {
	p := writeCSV(t, "c.csv", "soc,v\n0.8,3.2\n0.1,4.1\n0.5,3.7\n")

	c, err := NewCSVCurveLoader(false).Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.8, 0.1, 0.5}, c.SOC)

	c, err = NewCSVCurveLoader(true).Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.5, 0.8}, c.SOC)
	assert.Equal(t, []float64{4.1, 3.7, 3.2}, c.Voltage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewCSVCurveLoader(false).Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, models.StageLoad, models.StageOf(err))
}

func TestLoadDirectoryIsFileError(t *testing.T) {
	_, err := NewCSVCurveLoader(false).Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFile)
	assert.NotErrorIs(t, err, models.ErrParse)
	assert.Equal(t, models.StageLoad, models.StageOf(err))
}

func TestParseReadFailureIsFileError(t *testing.T) {
	diskErr := errors.New("device gone")
	r := io.MultiReader(strings.NewReader("SOC,V\n0,4.2\n"), iotest.ErrReader(diskErr))

	_, err := ParseCurve(r, "first.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFile)
	assert.ErrorIs(t, err, diskErr)
}

func TestParseCSVSyntaxIsParseError(t *testing.T) {
	_, err := ParseCurve(strings.NewReader("SOC,V\n0,4\"2\n"), "first.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrParse)
	assert.NotErrorIs(t, err, models.ErrFile)
}

func TestLoadParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad number":   "SOC,V\n0,4.2\n0.5,abc\n",
		"extra field":  "SOC,V\n0,4.2,1\n",
		"single field": "SOC,V\n0\n",
		"header only":  "SOC,V\n",
		"empty":        "",
		"nan":          "SOC,V\nNaN,4.2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCurve(strings.NewReader(content), name)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrParse)
		})
	}
}

func TestParseErrorNamesLine(t *testing.T) {
	_, err := ParseCurve(strings.NewReader("SOC,V\n0,4.2\n0.5,x\n"), "first.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first.csv line 3")
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVCurveLoader(false).Load(ctx, "whatever.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
