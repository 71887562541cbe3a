package formatting

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a missing or malformed request field.
var ErrInvalidInput = errors.New("invalid input")

// Pipeline stages, used for logging and the run ledger.
const (
	StageInput    = "input"
	StageConfig   = "config"
	StageTemplate = "template"
	StageExtract  = "extract"
	StageModel    = "model"
	StageCompile  = "compile"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the failed stage of err, or "" when unknown.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
