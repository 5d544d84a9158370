package barejson

import (
	"reflect"

	"github.com/bearlytools/barejson/internal/kind"
)

// Field is a named member of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is implemented by struct types that list their members themselves instead of
// having them discovered with reflection. Members render in the order returned. The
// null and print-null rules apply to Value as they would to a struct field.
type Record interface {
	JSONFields() []Field
}

var recordType = reflect.TypeFor[Record]()

// asRecord returns v as a Record if v or a pointer to it implements Record. Values read
// through unexported fields are Records too, as long as they are addressable.
func asRecord(v reflect.Value) (Record, bool) {
	v = kind.Expose(v)
	if !v.CanInterface() {
		return nil, false
	}
	if v.Type().Implements(recordType) {
		return v.Interface().(Record), true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(recordType) {
		return v.Addr().Interface().(Record), true
	}
	return nil, false
}
