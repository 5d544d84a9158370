package barejson

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/bearlytools/barejson/errors"
	"github.com/bearlytools/barejson/internal/escape"
	"github.com/bearlytools/barejson/internal/kind"
)

// walker does one depth first rendering of a value into out. It is used for a single call.
type walker struct {
	enc  *Encoder
	opts marshalOptions
	out  []byte
	// path holds the member names and array indexes from the root to the current value.
	path []string
}

// walk renders v. Every error it returns is fatal to the call unless an enclosing object
// absorbs it under LegacyTruncation.
func (w *walker) walk(v reflect.Value) error {
	// Elements of []any and the like are mostly plain scalars.
	if v.Kind() == reflect.Interface && !v.IsNil() && v.CanInterface() {
		if out, ok := escape.AppendAny(w.out, v.Interface()); ok {
			w.out = out
			return nil
		}
	}
	c, v := kind.Classify(v)
	return w.render(c, v)
}

// render renders v, which kind.Classify has classified as c.
func (w *walker) render(c kind.Category, v reflect.Value) error {
	if c == kind.Null {
		w.out = escape.AppendNull(w.out)
		return nil
	}
	if c.IsLeaf() {
		var ok bool
		if w.out, ok = escape.AppendLeaf(w.out, v); !ok {
			return w.unsupported(v)
		}
		return nil
	}

	switch c {
	case kind.Array:
		return w.walkArray(v)
	case kind.Sequence:
		return w.walkSequence(v)
	case kind.Mapping:
		if v.Kind() == reflect.Map {
			return w.walkMap(v)
		}
		return w.walkPairs(v)
	case kind.Struct:
		return w.walkStruct(v)
	case kind.Unknown:
		return w.unsupported(v)
	}
	return errors.Errorf("bug: kind.Classify returned Category %v that render doesn't handle", c)
}

func (w *walker) walkArray(v reflect.Value) error {
	w.out = append(w.out, '[')
	for i := 0; i < v.Len(); i++ {
		if i != 0 {
			w.out = append(w.out, ',')
		}
		w.push("[" + strconv.Itoa(i) + "]")
		if err := w.walk(v.Index(i)); err != nil {
			return err
		}
		w.pop()
	}
	w.out = append(w.out, ']')
	return nil
}

func (w *walker) walkSequence(v reflect.Value) error {
	w.out = append(w.out, '[')
	i := 0
	var err error
	rerr := kind.Range(v, func(elem, _ reflect.Value) bool {
		if err != nil {
			return false
		}
		if i != 0 {
			w.out = append(w.out, ',')
		}
		w.push("[" + strconv.Itoa(i) + "]")
		if err = w.walk(elem); err != nil {
			return false
		}
		w.pop()
		i++
		return true
	})
	if rerr != nil {
		return w.traversal(rerr)
	}
	if err != nil {
		return err
	}
	w.out = append(w.out, ']')
	return nil
}

// entry is a map entry with its key already converted to text.
type entry struct {
	key string
	val reflect.Value
}

// walkMap renders a Go map. Go randomizes map iteration, so entries are sorted by key text
// to make the output reproducible.
func (w *walker) walkMap(v reflect.Value) (err error) {
	defer w.absorb(len(w.path), &err)

	w.out = append(w.out, '{')
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := keyText(iter.Key())
		if err != nil {
			return w.invalidName(err)
		}
		entries = append(entries, entry{key: k, val: iter.Value()})
	}
	slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

	first := true
	for _, e := range entries {
		if err := w.member(&first, e.key, e.val); err != nil {
			return err
		}
	}
	w.out = append(w.out, '}')
	return nil
}

// walkPairs renders a type with an All() iter.Seq2 method in the order it yields.
func (w *walker) walkPairs(v reflect.Value) (err error) {
	defer w.absorb(len(w.path), &err)

	w.out = append(w.out, '{')
	first := true
	rerr := kind.Range(v, func(k, val reflect.Value) bool {
		if err != nil {
			return false
		}
		var name string
		if name, err = keyText(k); err != nil {
			err = w.invalidName(err)
			return false
		}
		err = w.member(&first, name, val)
		return err == nil
	})
	if rerr != nil {
		return w.traversal(rerr)
	}
	if err != nil {
		return err
	}
	w.out = append(w.out, '}')
	return nil
}

func (w *walker) walkStruct(v reflect.Value) (err error) {
	defer w.absorb(len(w.path), &err)

	// Fields of an addressable struct are addressable, which kind.Expose needs to read
	// unexported fields that hold collections or Records.
	v = addressable(v)

	w.out = append(w.out, '{')
	first := true

	if r, ok := asRecord(v); ok {
		for _, f := range r.JSONFields() {
			if err := w.memberAny(&first, f.Name, f.Value); err != nil {
				return err
			}
		}
		w.out = append(w.out, '}')
		return nil
	}

	for _, d := range w.enc.cache.For(v.Type()) {
		if d.Synthetic || w.enc.excluded[d.Name] {
			continue
		}
		fv, err := v.FieldByIndexErr(d.Index)
		if err != nil {
			// Promoted through a nil embedded pointer, so there is no value.
			fv = reflect.Value{}
		}
		if err := w.member(&first, d.Name, fv); err != nil {
			return err
		}
	}
	w.out = append(w.out, '}')
	return nil
}

// memberAny is member for a value that arrives as an interface, which skips reflection when
// x is a plain scalar.
func (w *walker) memberAny(first *bool, name string, x any) error {
	if x == nil {
		return w.member(first, name, reflect.Value{})
	}
	mark, wasFirst := len(w.out), *first
	w.name(first, name)
	var ok bool
	if w.out, ok = escape.AppendAny(w.out, x); ok {
		return nil
	}
	w.out, *first = w.out[:mark], wasFirst
	return w.member(first, name, reflect.ValueOf(x))
}

// member renders one object member. Members whose value is null are skipped unless
// PrintNull is set. first tracks whether a comma is needed and is only cleared once a
// member is actually written.
func (w *walker) member(first *bool, name string, v reflect.Value) error {
	c, v := kind.Classify(v)
	if c == kind.Null && !w.opts.PrintNull {
		return nil
	}
	w.name(first, name)

	w.push("." + name)
	if err := w.render(c, v); err != nil {
		return err
	}
	w.pop()
	return nil
}

// name writes the separator before a member and its name.
func (w *walker) name(first *bool, name string) {
	if *first {
		*first = false
	} else {
		w.out = append(w.out, ',')
	}
	w.out = escape.AppendString(w.out, name)
	w.out = append(w.out, ':')
}

// addressable returns v if it is addressable, or an addressable copy of it.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	a := reflect.New(v.Type()).Elem()
	a.Set(v)
	return a
}

// absorb implements LegacyTruncation for an object opened at path depth depth. A failure
// anywhere below it, other than an unsupported leaf, is logged and dropped. Whatever was
// written for the object so far stays in the output without its closing brace.
func (w *walker) absorb(depth int, errp *error) {
	err := *errp
	if err == nil || !w.opts.LegacyTruncation || errors.Is(err, ErrUnsupportedLeaf) {
		return
	}
	w.enc.logger().Error(
		"barejson: abandoned object after traversal failure",
		"path", w.pathString(),
		"error", err,
	)
	w.path = w.path[:depth]
	*errp = nil
}

func (w *walker) push(seg string) {
	w.path = append(w.path, seg)
}

func (w *walker) pop() {
	w.path = w.path[:len(w.path)-1]
}

func (w *walker) pathString() string {
	return "$" + strings.Join(w.path, "")
}

func (w *walker) unsupported(v reflect.Value) error {
	t := "<invalid>"
	if v.IsValid() {
		t = v.Type().String()
	}
	return errors.Wrapf(fmt.Errorf("%w: %s", ErrUnsupportedLeaf, t), "at %s", w.pathString())
}

func (w *walker) invalidName(err error) error {
	return errors.Wrapf(fmt.Errorf("%w: %w", ErrInvalidName, err), "at %s", w.pathString())
}

func (w *walker) traversal(err error) error {
	return errors.Wrapf(fmt.Errorf("%w: %w", ErrTraversal, err), "at %s", w.pathString())
}

var (
	errNilKey = errors.New("map key is nil")
	charType  = reflect.TypeFor[Char]()
)

// keyText converts a map key to its default textual form, which is what fmt's %v prints
// for it. A Char key renders as its character.
func keyText(k reflect.Value) (string, error) {
	c, k := kind.Classify(k)
	switch {
	case c == kind.Null:
		return "", errNilKey
	case k.Kind() == reflect.String:
		return k.String(), nil
	case k.Type() == charType:
		return string(rune(k.Int())), nil
	}
	return fmt.Sprint(k), nil
}
