package converter

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names a step of the conversion pipeline in error messages and logs.
type Stage string

const (
	StageText Stage = "spreadsheet to text"
	StageXY   Stage = "text to xy"
)

// ErrColumnResolution is matched by every *ColumnResolutionError.
var ErrColumnResolution = errors.New("cannot resolve angle and intensity columns")

// ReadError reports an input file that is missing, unreadable or not in the
// format the stage expects.
type ReadError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: could not read %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports an output file that could not be created or written.
type WriteError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: could not write %s: %v", e.Stage, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ColumnResolutionError is returned when a dataset has too few columns for
// the positional fallback, or an explicit column choice is out of range.
type ColumnResolutionError struct {
	Columns []string
	Reason  string
}

func (e *ColumnResolutionError) Error() string {
	return fmt.Sprintf("%v: %s (columns: [%s])", ErrColumnResolution, e.Reason, strings.Join(e.Columns, ", "))
}

func (e *ColumnResolutionError) Is(target error) bool {
	return target == ErrColumnResolution
}
