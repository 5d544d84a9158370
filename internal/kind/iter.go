package kind

import (
	"fmt"
	"reflect"
)

// Range calls v.All() and feeds every value it yields to fn. For an iter.Seq, k is the
// yielded value and val is the zero Value. For an iter.Seq2, k and val are the yielded pair.
// Returning false from fn stops the iteration.
//
// v must have been classified as Sequence or Mapping by Classify and must not be a Go map.
// An error is returned if the method can't be called, which happens when v was read
// through an unexported struct field and isn't addressable, or if All() or the iterator
// it returns panics.
func Range(v reflect.Value, fn func(k, val reflect.Value) bool) (err error) {
	v = Expose(v)
	if !v.CanInterface() {
		return fmt.Errorf("cannot call %s.%s(): value was obtained through an unexported field", v.Type(), seqMethod)
	}
	m := v.MethodByName(seqMethod)
	if !m.IsValid() {
		return fmt.Errorf("%s has no %s() method", v.Type(), seqMethod)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s.%s() panicked: %v", v.Type(), seqMethod, r)
		}
	}()

	seq := m.Call(nil)[0]
	if seq.IsNil() {
		return nil
	}

	yt := seq.Type().In(0)
	pair := yt.NumIn() == 2
	stop := reflect.ValueOf(false)
	cont := reflect.ValueOf(true)

	yield := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
		var ok bool
		if pair {
			ok = fn(args[0], args[1])
		} else {
			ok = fn(args[0], reflect.Value{})
		}
		if ok {
			return []reflect.Value{cont}
		}
		return []reflect.Value{stop}
	})
	seq.Call([]reflect.Value{yield})
	return nil
}
