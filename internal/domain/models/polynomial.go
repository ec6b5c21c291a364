package models

// PolyDegree is the degree of every fitted model.
const PolyDegree = 4

// PolynomialModel is y = a*x^4 + b*x^3 + c*x^2 + d*x + e.
// Coefficients are stored highest degree first: a, b, c, d, e.
type PolynomialModel struct {
	Coefficients [PolyDegree + 1]float64 `json:"coefficients" yaml:"coefficients"`
}

func (p PolynomialModel) A() float64 { return p.Coefficients[0] }
func (p PolynomialModel) B() float64 { return p.Coefficients[1] }
func (p PolynomialModel) C() float64 { return p.Coefficients[2] }
func (p PolynomialModel) D() float64 { return p.Coefficients[3] }
func (p PolynomialModel) E() float64 { return p.Coefficients[4] }

// Eval evaluates the polynomial at x using Horner's scheme.
func (p PolynomialModel) Eval(x float64) float64 {
	y := 0.0
	for _, c := range p.Coefficients {
		y = y*x + c
	}
	return y
}

// EvalAll evaluates the polynomial at every x.
func (p PolynomialModel) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// FitResult is a fitted model plus its evaluation over the fitted samples.
type FitResult struct {
	Model  PolynomialModel
	Fitted []float64
	RMSE   float64
	R2     float64
}
