// Package kind classifies runtime values into the JSON categories barejson knows how to
// render.
package kind

import (
	"reflect"
	"unsafe"
)

//go:generate stringer -type=Category -linecomment

// Category is the JSON shape a runtime value is rendered as.
type Category uint8

const (
	Unknown  Category = 0 // Unknown
	Null     Category = 1 // Null
	Boolean  Category = 2 // Boolean
	Number   Category = 3 // Number
	Text     Category = 4 // Text
	Array    Category = 5 // Array
	Sequence Category = 6 // Sequence
	Mapping  Category = 7 // Mapping
	Struct   Category = 8 // Struct
)

// IsLeaf reports if the Category renders without recursion.
func (c Category) IsLeaf() bool {
	switch c {
	case Null, Boolean, Number, Text:
		return true
	}
	return false
}

// Char is a single character. It renders as a one character JSON string instead of the
// number a rune would render as.
type Char rune

var charType = reflect.TypeFor[Char]()

// seqMethod is the method collections expose their iterator under.
const seqMethod = "All"

// Classify returns the Category of v and the value that should be rendered for it. Non-nil
// interfaces and pointers are unwrapped, so the returned value is the one holding the data.
// Only the runtime type is consulted.
func Classify(v reflect.Value) (Category, reflect.Value) {
	for {
		if !v.IsValid() {
			return Null, v
		}
		v = Expose(v)
		switch v.Kind() {
		case reflect.Interface:
			if v.IsNil() {
				return Null, v
			}
			v = v.Elem()
			continue
		case reflect.Pointer:
			if v.IsNil() {
				return Null, v
			}
			// Collections are often implemented on the pointer receiver.
			if c := capability(v.Type()); c != Unknown {
				return c, v
			}
			v = v.Elem()
			continue
		}
		break
	}

	if v.Type() == charType {
		return Text, v
	}

	switch v.Kind() {
	case reflect.Bool:
		return Boolean, v
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number, v
	case reflect.String:
		return Text, v
	case reflect.Array:
		return Array, v
	case reflect.Slice:
		if v.IsNil() {
			return Null, v
		}
		return Array, v
	}

	c := capability(v.Type())
	if c == Unknown && v.CanAddr() {
		c = capability(reflect.PointerTo(v.Type()))
		if c != Unknown {
			v = v.Addr()
		}
	}
	if c != Unknown {
		return c, v
	}

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return Null, v
		}
		return Mapping, v
	case reflect.Struct:
		return Struct, v
	}
	return Unknown, v
}

// Expose lifts the restriction reflect puts on values read through unexported struct fields,
// so their methods can be called and they can be passed on as interfaces. It needs v to be
// addressable, which holds for every field of an addressable struct. Other values are
// returned as is.
func Expose(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// IsNull reports if v classifies as Null.
func IsNull(v reflect.Value) bool {
	c, _ := Classify(v)
	return c == Null
}

// capability returns Sequence or Mapping if t has an All() method returning an iter.Seq or
// iter.Seq2. Otherwise it returns Unknown.
func capability(t reflect.Type) Category {
	m, ok := t.MethodByName(seqMethod)
	if !ok {
		return Unknown
	}
	// Method type from a reflect.Type includes the receiver.
	mt := m.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 {
		return Unknown
	}
	switch yieldArgs(mt.Out(0)) {
	case 1:
		return Sequence
	case 2:
		return Mapping
	}
	return Unknown
}

// yieldArgs returns the number of values a func(yield func(...) bool) iterator yields,
// or 0 if t is not shaped like iter.Seq or iter.Seq2.
func yieldArgs(t reflect.Type) int {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return 0
	}
	y := t.In(0)
	if y.Kind() != reflect.Func || y.NumOut() != 1 || y.Out(0).Kind() != reflect.Bool {
		return 0
	}
	switch y.NumIn() {
	case 1, 2:
		return y.NumIn()
	}
	return 0
}

