package models

// Report collects everything a single run produced, in pipeline order.
type Report struct {
	First           DischargeCurve
	Second          DischargeCurve
	FirstResampled  ResampledCurve
	SecondResampled ResampledCurve
	Rates           [2]float64
	Samples         CircuitSampleSet
	R               FitResult
	VOC             FitResult
}
