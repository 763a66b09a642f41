package rake

import (
	"errors"
	"strings"
)

// ErrorKind classifies a validation or submission failure.
type ErrorKind string

const (
	KindFormat    ErrorKind = "format"
	KindOrdering  ErrorKind = "ordering"
	KindFreshness ErrorKind = "freshness"
	KindMandatory ErrorKind = "mandatory"
	KindTransport ErrorKind = "transport"
)

// ErrTransport marks failures talking to the spreadsheet endpoint.
var ErrTransport = errors.New("transport error")

// FieldError ties a human readable reason to the field that caused it.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors accumulates every field failure of a single entry.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "no validation errors"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// HasKind reports whether any accumulated error is of the given kind.
func (v ValidationErrors) HasKind(kind ErrorKind) bool {
	for _, fe := range v {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}

// ForField returns the errors recorded against one field.
func (v ValidationErrors) ForField(field string) ValidationErrors {
	var out ValidationErrors
	for _, fe := range v {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// Err returns nil when nothing was recorded so callers can use the usual err != nil check.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) add(field string, kind ErrorKind, message string) {
	*v = append(*v, FieldError{Field: field, Kind: kind, Message: message})
}
