package barejson

import (
	"log/slog"

	"github.com/bearlytools/barejson/errors"
)

// DefaultExcludedNames are the field names an Encoder skips unless WithExcludedNames says
// otherwise. They are the bookkeeping fields older protobuf generated structs carry.
var DefaultExcludedNames = []string{"XXX_NoUnkeyedLiteral", "XXX_unrecognized", "XXX_sizecache"}

// Option is an optional argument to New.
type Option func(e *Encoder) error

// WithExcludedNames replaces DefaultExcludedNames. Struct fields with these names are never
// rendered. Passing no names disables exclusion.
func WithExcludedNames(names ...string) Option {
	return func(e *Encoder) error {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			if n == "" {
				return errors.Errorf("WithExcludedNames: empty name")
			}
			m[n] = true
		}
		e.excluded = m
		return nil
	}
}

// WithLogger sets the logger traversal failures are reported to when a call uses
// WithLegacyTruncation. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) error {
		if l == nil {
			return errors.Errorf("WithLogger: logger is nil")
		}
		e.log = l
		return nil
	}
}

// WithTracing wraps every Marshal call in an OpenTelemetry span recording the value's type
// and the size of the output. Errors are recorded on the span.
func WithTracing(enabled bool) Option {
	return func(e *Encoder) error {
		e.tracing = enabled
		return nil
	}
}

// marshalOptions provides options for a single call.
type marshalOptions struct {
	// PrintNull renders null valued map entries and struct fields instead of omitting them.
	PrintNull bool
	// LegacyTruncation logs traversal failures and abandons the failing object instead of
	// returning an error.
	LegacyTruncation bool
}

// MarshalOption provides options for a single Marshal call.
type MarshalOption func(marshalOptions) (marshalOptions, error)

// WithPrintNull configures whether map entries and struct fields holding null are rendered
// as null (true) or left out (false, the default). Null elements of arrays and sequences
// are always rendered.
func WithPrintNull(printNull bool) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		m.PrintNull = printNull
		return m, nil
	}
}

// WithLegacyTruncation makes traversal failures non-fatal: a failure reading a struct field
// or iterating a collection is logged, the innermost enclosing object is left unterminated,
// and encoding carries on with its parent. The call then
// returns the partial text with a nil error. Unsupported leaf types still fail the call.
//
// The output is usually not valid JSON. Only use this where a consumer depends on those
// exact bytes.
func WithLegacyTruncation(legacy bool) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		m.LegacyTruncation = legacy
		return m, nil
	}
}
