package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldLength records the observed length of one request field.
type FieldLength struct {
	Field  string
	Length int
}

// ValidationError reports a malformed or inconsistent request. Nothing is
// sent to the model when it is returned.
type ValidationError struct {
	Field   string
	Msg     string
	Lengths []FieldLength
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if len(e.Lengths) > 0 {
		b.WriteString(" (")
		for i, fl := range e.Lengths {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%d", fl.Field, fl.Length)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// StatusCode maps to 422, matching schema validation failures.
func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PredictionError reports a failure after validation succeeded. Stage is
// "infer" or "shape"; Err carries the underlying cause.
type PredictionError struct {
	Stage string
	Err   error
}

func (e *PredictionError) Error() string { return e.Err.Error() }

func (e *PredictionError) Unwrap() error { return e.Err }

func (e *PredictionError) StatusCode() int { return http.StatusInternalServerError }

// IsPrediction reports whether err is, or wraps, a PredictionError.
func IsPrediction(err error) bool {
	var pe *PredictionError
	return errors.As(err, &pe)
}
