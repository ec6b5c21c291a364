package models

import (
	"errors"
	"fmt"
)

// Error kinds. StageError matches these with errors.Is.
var (
	ErrFile             = errors.New("file error")
	ErrParse            = errors.New("parse error")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientData = errors.New("insufficient data")
)

// Pipeline stage names used in error messages, logs and metrics.
const (
	StageConfig    = "config"
	StageLoad      = "load"
	StageResample  = "resample"
	StageDecompose = "decompose"
	StageFit       = "fit"
	StageReport    = "report"
)

// StageError is a terminal pipeline error tagged with the stage that raised it.
type StageError struct {
	Stage   string                 `json:"stage"`
	Kind    error                  `json:"-"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Err     error                  `json:"-"`
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %v: %s: %v", e.Stage, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %v: %s", e.Stage, e.Kind, e.Message)
}

// Unwrap returns underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *StageError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// WithParam sets a single error param.
func (e *StageError) WithParam(key string, value interface{}) *StageError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *StageError) WithError(err error) *StageError {
	e.Err = err
	return e
}

// NewStageError creates a new stage error of the given kind.
func NewStageError(stage string, kind error, message string) *StageError {
	return &StageError{
		Stage:   stage,
		Kind:    kind,
		Message: message,
	}
}

// FileError reports an unreadable or missing input path.
func FileError(stage, path string, err error) *StageError {
	return NewStageError(stage, ErrFile, "cannot read "+path).
		WithParam("path", path).
		WithError(err)
}

// ParseErrorf reports a malformed input row.
func ParseErrorf(stage, format string, a ...interface{}) *StageError {
	return NewStageError(stage, ErrParse, fmt.Sprintf(format, a...))
}

// InvalidInputErrorf reports input that breaks a precondition.
func InvalidInputErrorf(stage, format string, a ...interface{}) *StageError {
	return NewStageError(stage, ErrInvalidInput, fmt.Sprintf(format, a...))
}

// InsufficientDataErrorf reports a fit that cannot be determined.
func InsufficientDataErrorf(stage, format string, a ...interface{}) *StageError {
	return NewStageError(stage, ErrInsufficientData, fmt.Sprintf(format, a...))
}

// StageOf returns the stage tag of err, or "" if err is not a StageError.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
