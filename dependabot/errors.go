package dependabot

import (
	"fmt"
)

// TransportError is returned when the surrounding client could not deliver
// the alerts document. The cause is kept unchanged.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not fetch %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors walk through the error.
func (e *TransportError) Cause() error {
	return e.Err
}

// SchemaError reports a required field that is missing or a field whose JSON
// type does not match. Path is the dotted JSON path, list elements carry
// their index (security_advisory.cwes[1].cwe_id).
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("schema error: required field %q is missing", e.Path)
	}
	return fmt.Sprintf("schema error at %q: %s", e.Path, e.Reason)
}

// UnknownEnumValueError is returned for enum literals outside the fixed
// vocabularies. Values are never coerced to a default.
type UnknownEnumValueError struct {
	Field string
	Value string
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown value %q for field %q", e.Value, e.Field)
}

// DateFormatError is returned for timestamps that are not ISO-8601 instants.
type DateFormatError struct {
	Field string
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("field %q: %q is not an ISO-8601 instant", e.Field, e.Value)
}

func (e *DateFormatError) Unwrap() error {
	return e.Err
}
