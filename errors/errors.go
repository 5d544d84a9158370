// Package errors provides the errors package for barejson. It includes all of the stdlib's
// functions and types.
package errors

import (
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

//go:generate stringer -type=Category -linecomment

// Category represents the category of the error.
type Category uint32

func (c Category) Category() string {
	return c.String()
}

const (
	// CatUnknown represents an unknown category. This should not be used.
	CatUnknown Category = Category(0) // Unknown
	// CatUser represents an error that is caused by the value the caller asked us to encode.
	CatUser Category = Category(1) // User
	// CatInternal represents an internal error.
	CatInternal Category = Category(2) // Internal
)

//go:generate stringer -type=Type -linecomment

// Type represents the type of the error.
type Type uint16

func (t Type) Type() string {
	return t.String()
}

const (
	// TypeUnknown represents an unknown type.
	TypeUnknown Type = Type(0) // Unknown
	// TypeBug represents a bug in barejson itself, such as a switch that doesn't cover
	// a Category.
	TypeBug Type = Type(1) // Bug
	// TypeParameter represents an option that didn't pass validation.
	TypeParameter Type = Type(2) // Parameter
	// TypeWrite represents a failure writing encoded output to an io.Writer.
	TypeWrite Type = Type(3) // Write

	// TypeUnsupportedLeaf represents a value whose runtime type has no JSON rendering,
	// such as a complex number, a uintptr, a channel or a func.
	TypeUnsupportedLeaf Type = Type(1000) // UnsupportedLeaf
	// TypeInvalidName represents an object member name that could not be produced,
	// such as a nil map key.
	TypeInvalidName Type = Type(1001) // InvalidName
	// TypeTraversal represents a failure reading a struct field or iterating a collection.
	TypeTraversal Type = Type(1002) // Traversal
)

// Error is the error type for this package. Error implements github.com/gostdlib/base/errors.E .
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithCallNum is used if you need to set the runtime.CallNum() in order to get the correct filename and line.
// This defaults to 1 which sets to the frame of the caller of E().
func WithCallNum(i int) EOption {
	return errors.WithCallNum(i)
}

// E creates a new Error with the given parameters.
func E(ctx context.Context, c errors.Category, t errors.Type, msg error, options ...errors.EOption) Error {
	// We are a wrapper, so the caller is one frame further up. If they set the
	// call number, this will not override it.
	opts := make([]errors.EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)

	return errors.E(ctx, c, t, msg, opts...)
}
