package kind

import (
	"iter"
	"reflect"
	"testing"
	"unsafe"

	"github.com/kylelemons/godebug/pretty"
)

// bag is a sequence implemented on the pointer receiver.
type bag struct {
	items []any
}

func (b *bag) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range b.items {
			if !yield(item) {
				return
			}
		}
	}
}

// pairs is a mapping implemented on the value receiver.
type pairs struct {
	keys []string
	vals []int
}

func (p pairs) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for i, k := range p.keys {
			if !yield(k, p.vals[i]) {
				return
			}
		}
	}
}

// notIter has an All method that isn't an iterator.
type notIter struct{ N int }

func (notIter) All() []int { return nil }

type holder struct {
	b bag
}

type point struct{ X, Y int }

func TestClassify(t *testing.T) {
	var nilPtr *point
	var nilSlice []int
	var nilMap map[string]int
	var nilIface any
	var nilBag *bag
	x := 3

	tests := []struct {
		name string
		in   any
		want Category
	}{
		{name: "untyped nil", in: nil, want: Null},
		{name: "nil pointer", in: nilPtr, want: Null},
		{name: "nil slice", in: nilSlice, want: Null},
		{name: "nil map", in: nilMap, want: Null},
		{name: "nil pointer to pointer", in: &nilPtr, want: Null},
		{name: "pointer to nil interface", in: &nilIface, want: Null},
		{name: "nil sequence pointer", in: nilBag, want: Null},
		{name: "bool", in: true, want: Boolean},
		{name: "int", in: 1, want: Number},
		{name: "uint16", in: uint16(1), want: Number},
		{name: "float32", in: float32(1), want: Number},
		{name: "pointer to int", in: &x, want: Number},
		{name: "rune", in: 'r', want: Number},
		{name: "string", in: "s", want: Text},
		{name: "char", in: Char('c'), want: Text},
		{name: "array", in: [2]int{1, 2}, want: Array},
		{name: "slice", in: []string{"a"}, want: Array},
		{name: "empty slice", in: []string{}, want: Array},
		{name: "bytes", in: []byte("ab"), want: Array},
		{name: "sequence pointer", in: &bag{}, want: Sequence},
		{name: "mapping value", in: pairs{}, want: Mapping},
		{name: "map", in: map[string]int{}, want: Mapping},
		{name: "struct", in: point{}, want: Struct},
		{name: "pointer to struct", in: &point{}, want: Struct},
		{name: "All that isn't an iterator", in: notIter{}, want: Struct},
		{name: "sequence value without pointer", in: bag{}, want: Struct},
		{name: "complex", in: complex64(1), want: Unknown},
		{name: "uintptr", in: uintptr(1), want: Unknown},
		{name: "chan", in: make(chan int), want: Unknown},
		{name: "func", in: func() {}, want: Unknown},
		{name: "unsafe pointer", in: unsafe.Pointer(&x), want: Unknown},
	}

	for _, test := range tests {
		got, _ := Classify(reflect.ValueOf(test.in))
		if got != test.want {
			t.Errorf("TestClassify(%s): got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestClassifyAddressableUsesPointerMethods(t *testing.T) {
	h := &holder{b: bag{items: []any{1}}}
	field := reflect.ValueOf(h).Elem().Field(0)

	got, v := Classify(field)
	if got != Sequence {
		t.Fatalf("TestClassifyAddressableUsesPointerMethods: got %v, want %v", got, Sequence)
	}
	if v.Kind() != reflect.Pointer {
		t.Errorf("TestClassifyAddressableUsesPointerMethods: got value kind %v, want %v", v.Kind(), reflect.Pointer)
	}
}

func TestClassifyUnwraps(t *testing.T) {
	p := &point{X: 1}
	var iface any = &p

	_, v := Classify(reflect.ValueOf(iface))
	if v.Type() != reflect.TypeFor[point]() {
		t.Fatalf("TestClassifyUnwraps: got type %v, want point", v.Type())
	}
	if v.Field(0).Int() != 1 {
		t.Errorf("TestClassifyUnwraps: got X == %d, want 1", v.Field(0).Int())
	}
}

func TestCategoryString(t *testing.T) {
	if got := Struct.String(); got != "Struct" {
		t.Errorf("TestCategoryString: got %s, want Struct", got)
	}
	if got := Category(200).String(); got != "Category(200)" {
		t.Errorf("TestCategoryString: got %s, want Category(200)", got)
	}
}

func TestRange(t *testing.T) {
	type kv struct {
		K any
		V any
	}

	tests := []struct {
		name string
		in   any
		stop int
		want []kv
	}{
		{
			name: "sequence",
			in:   &bag{items: []any{1, nil, "x"}},
			want: []kv{{K: 1}, {K: nil}, {K: "x"}},
		},
		{
			name: "sequence stops early",
			in:   &bag{items: []any{1, 2, 3}},
			stop: 2,
			want: []kv{{K: 1}, {K: 2}},
		},
		{
			name: "mapping keeps yield order",
			in:   pairs{keys: []string{"z", "a"}, vals: []int{1, 2}},
			want: []kv{{K: "z", V: 1}, {K: "a", V: 2}},
		},
	}

	for _, test := range tests {
		var got []kv
		err := Range(reflect.ValueOf(test.in), func(k, v reflect.Value) bool {
			e := kv{K: k.Interface()}
			if v.IsValid() {
				e.V = v.Interface()
			}
			got = append(got, e)
			return test.stop == 0 || len(got) < test.stop
		})
		if err != nil {
			t.Errorf("TestRange(%s): got err == %s, want err == nil", test.name, err)
			continue
		}
		if diff := pretty.Compare(test.want, got); diff != "" {
			t.Errorf("TestRange(%s): -want/+got:\n%s", test.name, diff)
		}
	}
}

func TestRangeUnexportedField(t *testing.T) {
	h := &holder{b: bag{items: []any{1, "x"}}}
	// Addressable, so Range can still call the method.
	field := reflect.ValueOf(h).Elem().Field(0)
	_, field = Classify(field)

	var got []any
	err := Range(field, func(k, v reflect.Value) bool {
		got = append(got, k.Interface())
		return true
	})
	if err != nil {
		t.Fatalf("TestRangeUnexportedField: got err == %s, want err == nil", err)
	}
	if diff := pretty.Compare([]any{1, "x"}, got); diff != "" {
		t.Errorf("TestRangeUnexportedField: -want/+got:\n%s", diff)
	}
}

func TestRangeUnexportedNotAddressable(t *testing.T) {
	h := holder{b: bag{items: []any{1}}}
	// The pointer Addr returns is itself read-only and has no address.
	field := reflect.ValueOf(&h).Elem().Field(0).Addr()

	err := Range(field, func(k, v reflect.Value) bool { return true })
	if err == nil {
		t.Errorf("TestRangeUnexportedNotAddressable: got err == nil, want err != nil")
	}
}

type failing struct{}

func (failing) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		yield(1)
		panic("gone")
	}
}

func TestRangePanic(t *testing.T) {
	n := 0
	err := Range(reflect.ValueOf(failing{}), func(k, v reflect.Value) bool {
		n++
		return true
	})
	if err == nil {
		t.Fatalf("TestRangePanic: got err == nil, want err != nil")
	}
	if n != 1 {
		t.Errorf("TestRangePanic: got %d values before the failure, want 1", n)
	}
}

func TestExpose(t *testing.T) {
	h := &holder{b: bag{items: []any{1}}}
	field := reflect.ValueOf(h).Elem().Field(0)
	if field.CanInterface() {
		t.Fatalf("TestExpose: unexported field can already be used as an interface")
	}

	got := Expose(field)
	if !got.CanInterface() {
		t.Fatalf("TestExpose: got a value that still can't be used as an interface")
	}
	if got.Interface().(bag).items[0] != 1 {
		t.Errorf("TestExpose: exposed value does not hold the field's data")
	}
	// Writes land in the original struct.
	got.Set(reflect.ValueOf(bag{}))
	if h.b.items != nil {
		t.Errorf("TestExpose: exposed value is not the field itself")
	}

	notAddr := reflect.ValueOf(holder{}).Field(0)
	if Expose(notAddr).CanInterface() {
		t.Errorf("TestExpose: a field of an unaddressable struct should stay read-only")
	}
}
