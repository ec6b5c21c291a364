package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"BattFit/internal/domain/models"
	"BattFit/internal/domain/repository"
)

// CSVCurveLoader reads "SOC,Voltage" files with a single header row.
type CSVCurveLoader struct {
	sortBySOC bool
}

// NewCSVCurveLoader creates a loader. With sortBySOC the rows are sorted
// by SOC ascending after parsing; otherwise file order is kept.
func NewCSVCurveLoader(sortBySOC bool) repository.CurveLoader {
	return &CSVCurveLoader{sortBySOC: sortBySOC}
}

// Load opens path read-only, parses it and closes it before returning.
func (l *CSVCurveLoader) Load(ctx context.Context, path string) (models.DischargeCurve, error) {
	if err := ctx.Err(); err != nil {
		return models.DischargeCurve{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.DischargeCurve{}, models.FileError(models.StageLoad, path, err)
	}
	defer f.Close()

	curve, err := ParseCurve(f, path)
	if err != nil {
		return models.DischargeCurve{}, err
	}
	curve.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if l.sortBySOC {
		SortBySOC(&curve)
	}
	return curve, nil
}

// ParseCurve parses curve rows from r. source only labels error messages.
func ParseCurve(r io.Reader, source string) (models.DischargeCurve, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// 1. Header, ignored
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad, "%s: empty file", source)
		}
		return models.DischargeCurve{}, readError(source, "read header", err)
	}

	var curve models.DischargeCurve

	// 2. Rows
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.DischargeCurve{}, readError(source, "malformed csv", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) != 2 {
			return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad,
				"%s line %d: expected 2 fields, got %d", source, line, len(record)).
				WithParam("line", line)
		}

		soc, err := cast.ToFloat64E(strings.TrimSpace(record[0]))
		if err != nil {
			return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad,
				"%s line %d: invalid SOC %q", source, line, record[0]).
				WithParam("line", line).WithError(err)
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(record[1]))
		if err != nil {
			return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad,
				"%s line %d: invalid voltage %q", source, line, record[1]).
				WithParam("line", line).WithError(err)
		}

		if !isFinite(soc) || !isFinite(v) {
			return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad,
				"%s line %d: non-finite value", source, line).
				WithParam("line", line)
		}

		curve.SOC = append(curve.SOC, soc)
		curve.Voltage = append(curve.Voltage, v)
	}

	if curve.Len() == 0 {
		return models.DischargeCurve{}, models.ParseErrorf(models.StageLoad, "%s: no data rows", source)
	}
	return curve, nil
}

// readError keeps ParseError for CSV syntax faults. Anything else came from
// the underlying reader and means the file itself could not be read.
func readError(source, what string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return models.ParseErrorf(models.StageLoad, "%s: %s", source, what).
			WithParam("line", csvErr.Line).WithError(err)
	}
	return models.FileError(models.StageLoad, source, err)
}

// SortBySOC reorders the curve rows by SOC ascending, keeping each
// (SOC, Voltage) pair together. Equal SOC values keep file order.
func SortBySOC(c *models.DischargeCurve) {
	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return c.SOC[idx[a]] < c.SOC[idx[b]] })

	soc := make([]float64, len(idx))
	v := make([]float64, len(idx))
	for i, j := range idx {
		soc[i] = c.SOC[j]
		v[i] = c.Voltage[j]
	}
	c.SOC, c.Voltage = soc, v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
