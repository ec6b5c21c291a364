package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"BattFit/internal/domain/models"
)

type fitSummary struct {
	A       float64 `json:"a" yaml:"a"`
	B       float64 `json:"b" yaml:"b"`
	C       float64 `json:"c" yaml:"c"`
	D       float64 `json:"d" yaml:"d"`
	E       float64 `json:"e" yaml:"e"`
	Samples int     `json:"samples" yaml:"samples"`
	RMSE    float64 `json:"rmse" yaml:"rmse"`
	R2      float64 `json:"r2" yaml:"r2"`
}

type coefficientReport struct {
	Rates [2]float64 `json:"rates" yaml:"rates,flow"`
	R     fitSummary `json:"r_soc" yaml:"r_soc"`
	VOC   fitSummary `json:"voc_soc" yaml:"voc_soc"`
}

func summarize(fit models.FitResult) fitSummary {
	m := fit.Model
	return fitSummary{
		A: m.A(), B: m.B(), C: m.C(), D: m.D(), E: m.E(),
		Samples: len(fit.Fitted),
		RMSE:    fit.RMSE,
		R2:      fit.R2,
	}
}

// WriteCoefficients prints both coefficient sets, a through e, in format f.
func WriteCoefficients(w io.Writer, f models.ReportFormat, r *models.Report) error {
	switch f {
	case models.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(coefficientReport{Rates: r.Rates, R: summarize(r.R), VOC: summarize(r.VOC)})
	case models.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(coefficientReport{Rates: r.Rates, R: summarize(r.R), VOC: summarize(r.VOC)}); err != nil {
			return err
		}
		return enc.Close()
	default:
		if _, err := fmt.Fprintf(w, "Fit results for R(SOC): %s\n", formatCoefficients(r.R.Model)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Fit results for V_OC(SOC): %s\n", formatCoefficients(r.VOC.Model))
		return err
	}
}

func formatCoefficients(m models.PolynomialModel) string {
	parts := make([]string, len(m.Coefficients))
	for i, c := range m.Coefficients {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
