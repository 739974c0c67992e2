package assaystat

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSheet  = errors.New("sheet not found")
	ErrMissingColumn = errors.New("column not found")
	ErrNotNumeric    = errors.New("value is not numeric")

	// ErrDegenerateControl is reported when a control value used as a
	// divisor is zero or close enough to zero that the normalized values are
	// meaningless.
	ErrDegenerateControl = errors.New("control value is zero or near zero")
)

// ConfigurationError is an unknown mode, plate type or experiment name. It
// is always fatal.
type ConfigurationError struct {
	Kind  string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("wrong %s name: %q", e.Kind, e.Value)
}

// DataError is a problem with the contents of one sheet: it is missing, or a
// column is missing or cannot be read as numbers. It is fatal to the sheet
// (or drug) being processed.
type DataError struct {
	Sheet  string
	Column string
	Err    error
}

func (e *DataError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("sheet %q, column %q: %v", e.Sheet, e.Column, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
	}
	return e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// IsDataError reports whether err is, or wraps, a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsConfigurationError reports whether err is, or wraps, a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
