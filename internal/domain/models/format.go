package models

// ReportFormat selects how coefficient reports are printed.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
)

// IsValidReportFormat returns true if f is a supported report format.
func IsValidReportFormat(f ReportFormat) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// DefaultReportFormat returns the default report format.
func DefaultReportFormat() ReportFormat { return FormatText }

// NormalizeReportFormat converts raw string to a valid format (or default).
func NormalizeReportFormat(s string) ReportFormat {
	if s == "" {
		return DefaultReportFormat()
	}
	f := ReportFormat(s)
	if IsValidReportFormat(f) {
		return f
	}
	return DefaultReportFormat()
}
