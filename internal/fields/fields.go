// Package fields discovers and caches the ordered field list of struct types.
package fields

import (
	"maps"
	"reflect"
	"sync/atomic"
)

// Descriptor describes a struct field that may be rendered as an object member.
type Descriptor struct {
	// Name is the Go name of the field.
	Name string
	// Index is the index sequence for reflect.Value.FieldByIndex from the outer struct.
	// It passes through every embedded struct between the outer struct and Declaring.
	Index []int
	// Declaring is the struct type that declares the field.
	Declaring reflect.Type
	// Synthetic is set for blank (_) fields. They exist for padding or to force keyed
	// literals and never hold data.
	Synthetic bool
}

// Cache maps struct types to their Descriptor lists. Lists are computed on first use and
// never recomputed. A Cache is safe for concurrent use.
type Cache struct {
	m atomic.Pointer[map[reflect.Type][]Descriptor]
}

// NewCache creates a new Cache.
func NewCache() *Cache {
	m := map[reflect.Type][]Descriptor{}
	c := &Cache{}
	c.m.Store(&m)
	return c
}

// For returns the Descriptors for struct type t. The list is unfiltered: synthetic fields
// and fields that a caller wants to exclude are still present. Callers must not modify it.
//
// Order is t's own fields in declaration order, then the fields of each embedded struct in
// declaration order, each embedded struct listing its own fields before its embedded ones.
// If t is not a struct, For returns nil.
func (c *Cache) For(t reflect.Type) []Descriptor {
	if d, ok := (*c.m.Load())[t]; ok {
		return d
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return c.store(t, Walk(t))
}

// Len returns the number of types in the cache.
func (c *Cache) Len() int {
	return len(*c.m.Load())
}

func (c *Cache) store(t reflect.Type, d []Descriptor) []Descriptor {
	for {
		old := c.m.Load()
		// Another caller may have stored it first. Keep theirs so every caller shares
		// one slice per type.
		if existing, ok := (*old)[t]; ok {
			return existing
		}
		n := maps.Clone(*old)
		n[t] = d
		if c.m.CompareAndSwap(old, &n) {
			return d
		}
	}
}

// Walk computes the Descriptors for struct type t without consulting a Cache.
func Walk(t reflect.Type) []Descriptor {
	var out []Descriptor
	walk(t, nil, map[reflect.Type]bool{}, &out)
	return out
}

// walk appends t's own fields, then recurses into its embedded structs. onPath holds the
// struct types between the outer struct and t, so a type that embeds itself through a
// pointer is only expanded once.
func walk(t reflect.Type, prefix []int, onPath map[reflect.Type]bool, out *[]Descriptor) {
	onPath[t] = true
	defer delete(onPath, t)

	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && embeddedStruct(sf.Type) != nil {
			embedded = append(embedded, sf)
			continue
		}
		*out = append(
			*out,
			Descriptor{
				Name:      sf.Name,
				Index:     index(prefix, sf.Index[0]),
				Declaring: t,
				Synthetic: sf.Name == "_",
			},
		)
	}

	for _, sf := range embedded {
		et := embeddedStruct(sf.Type)
		if onPath[et] {
			continue
		}
		walk(et, index(prefix, sf.Index[0]), onPath, out)
	}
}

// embeddedStruct returns the struct type of an embedded field of type t, which is t or
// what t points to. It returns nil if the field doesn't embed a struct.
func embeddedStruct(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func index(prefix []int, i int) []int {
	idx := make([]int, len(prefix)+1)
	copy(idx, prefix)
	idx[len(prefix)] = i
	return idx
}
