// Package barejson renders arbitrary Go values as JSON text without struct tags, marshaler
// interfaces or a JSON library.
//
// Values are classified by their runtime type only:
//
//   - nil interfaces, pointers, slices and maps render as null
//   - bools, ints, uints, floats and strings render as JSON scalars, a Char as a one
//     character string
//   - arrays and slices render as JSON arrays, as do types with an All() iter.Seq[V] method
//   - maps render as objects with keys in ascending order, as do types with an
//     All() iter.Seq2[K, V] method, in the order they yield
//   - structs render as objects holding every field, exported or not. A struct's own fields
//     come first, then the fields of each struct it embeds. Fields promoted through a nil
//     embedded pointer are null. Types implementing Record list their members themselves
//
// Strings are written as UTF-8 with each invalid byte replaced by U+FFFD.
//
// Anything else (complex numbers, uintptr, channels, funcs, unsafe.Pointer) fails the call
// with ErrUnsupportedLeaf.
//
// Null valued map entries and struct fields are left out unless WithPrintNull(true) is
// passed. Null elements of arrays are always rendered.
//
// The graph must be acyclic; a cycle recurses until the stack is exhausted.
package barejson

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/telemetry/otel/trace/span"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bearlytools/barejson/errors"
	"github.com/bearlytools/barejson/internal/conversions"
	"github.com/bearlytools/barejson/internal/fields"
	"github.com/bearlytools/barejson/internal/kind"
)

// Char is a single character. It renders as a one character JSON string, where a rune would
// render as a number.
type Char = kind.Char

var (
	// ErrUnsupportedLeaf indicates a value whose runtime type has no JSON rendering.
	ErrUnsupportedLeaf = errors.New("unsupported leaf type")
	// ErrInvalidName indicates an object member whose name could not be produced, which
	// happens for nil map keys.
	ErrInvalidName = errors.New("names must be non-nil")
	// ErrTraversal indicates a collection that could not be iterated: its All() method
	// panicked, or it was reached through an unexported field without an address.
	ErrTraversal = errors.New("traversal failure")
)

// Encoder renders values as JSON. It caches the field layout of every struct type it sees
// for its lifetime. An Encoder is safe for concurrent use.
type Encoder struct {
	cache    *fields.Cache
	excluded map[string]bool
	log      *slog.Logger
	tracing  bool
}

// New creates a new Encoder.
func New(options ...Option) (*Encoder, error) {
	e := &Encoder{cache: fields.NewCache()}
	if err := WithExcludedNames(DefaultExcludedNames...)(e); err != nil {
		return nil, err
	}
	for _, o := range options {
		if err := o(e); err != nil {
			return nil, errors.E(context.Background(), errors.CatUser, errors.TypeParameter, err)
		}
	}
	return e, nil
}

// Marshal returns the JSON text for v. If v is nil, or a nil pointer, slice or map, Marshal
// returns a nil slice and a nil error: there is nothing to render, which is different from
// rendering null.
func (e *Encoder) Marshal(ctx context.Context, v any, options ...MarshalOption) (b []byte, err error) {
	if e.tracing {
		var sp span.Span
		ctx, sp = span.New(ctx, span.WithName("barejson.Marshal"))
		defer func() {
			sp.Span.SetAttributes(
				attribute.String("barejson.type", fmt.Sprintf("%T", v)),
				attribute.Int("barejson.output_bytes", len(b)),
			)
			sp.End()
		}()
	}

	opts, err := buildOptions(ctx, options)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if kind.IsNull(rv) {
		return nil, nil
	}
	// A value passed directly is a copy nothing else can address. Give it an address so
	// pointer receiver methods and unexported fields are reachable, as when passed by pointer.
	if k := rv.Kind(); k == reflect.Struct || k == reflect.Array {
		rv = addressable(rv)
	}

	buf := getBuffer(ctx)
	defer putBuffer(ctx, buf)

	w := walker{enc: e, opts: opts, out: buf.b[:0]}
	err = w.walk(rv)
	buf.b = w.out
	if err != nil {
		return nil, categorize(ctx, err)
	}

	out := make([]byte, len(w.out))
	copy(out, w.out)
	return out, nil
}

// MarshalWriter writes the JSON text for v to w. Nothing is written if v is nil or a nil
// pointer, slice or map.
func (e *Encoder) MarshalWriter(ctx context.Context, w io.Writer, v any, options ...MarshalOption) error {
	b, err := e.Marshal(ctx, v, options...)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return errors.E(ctx, errors.CatInternal, errors.TypeWrite, err)
	}
	return nil
}

// Serialize returns the JSON text for v, leaving out null map entries and struct fields
// unless printNull is set. A nil result means v itself was nil.
func (e *Encoder) Serialize(ctx context.Context, v any, printNull bool) (*string, error) {
	b, err := e.Marshal(ctx, v, WithPrintNull(printNull))
	if err != nil || b == nil {
		return nil, err
	}
	// b is a fresh copy nothing else references.
	s := conversions.ByteSlice2String(b)
	return &s, nil
}

// CachedTypes returns the number of struct types whose field layout e has cached.
func (e *Encoder) CachedTypes() int {
	return e.cache.Len()
}

func (e *Encoder) logger() *slog.Logger {
	if e.log == nil {
		return slog.Default()
	}
	return e.log
}

var defaultEncoder = mustNew()

func mustNew() *Encoder {
	e, err := New()
	if err != nil {
		panic(err)
	}
	return e
}

// Marshal calls Encoder.Marshal on a process wide Encoder.
func Marshal(ctx context.Context, v any, options ...MarshalOption) ([]byte, error) {
	return defaultEncoder.Marshal(ctx, v, options...)
}

// MarshalWriter calls Encoder.MarshalWriter on a process wide Encoder.
func MarshalWriter(ctx context.Context, w io.Writer, v any, options ...MarshalOption) error {
	return defaultEncoder.MarshalWriter(ctx, w, v, options...)
}

// Serialize calls Encoder.Serialize on a process wide Encoder.
func Serialize(ctx context.Context, v any, printNull bool) (*string, error) {
	return defaultEncoder.Serialize(ctx, v, printNull)
}

func buildOptions(ctx context.Context, options []MarshalOption) (marshalOptions, error) {
	opts := marshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return opts, errors.E(ctx, errors.CatUser, errors.TypeParameter, err)
		}
	}
	return opts, nil
}

// categorize wraps a traversal error in an errors.Error of the matching Type.
func categorize(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedLeaf):
		return errors.E(ctx, errors.CatUser, errors.TypeUnsupportedLeaf, err)
	case errors.Is(err, ErrInvalidName):
		return errors.E(ctx, errors.CatUser, errors.TypeInvalidName, err)
	case errors.Is(err, ErrTraversal):
		return errors.E(ctx, errors.CatUser, errors.TypeTraversal, err)
	}
	return errors.E(ctx, errors.CatInternal, errors.TypeBug, err)
}
