// Package escape renders JSON scalars: quoted and escaped strings, numbers in their default
// textual form, booleans and null. Everything appends to a caller supplied slice.
package escape

import (
	"reflect"
	"strconv"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/bearlytools/barejson/internal/kind"
)

const hex = "0123456789abcdef"

var charType = reflect.TypeFor[kind.Char]()

var (
	replacement = []byte("\uFFFD")

	litNull  = []byte("null")
	litTrue  = []byte("true")
	litFalse = []byte("false")
)

// AppendString appends s to dst as a quoted JSON string.
//
// Quote, reverse solidus and solidus are preceded by a backslash. Tab, backspace, newline,
// carriage return and form feed use their two character escapes. Every other character
// <= 0x1F becomes \u00xx in lower case hex. Each byte that isn't part of valid UTF-8 is
// replaced with U+FFFD. Everything else is copied verbatim.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, s[start:i]...)
				dst = append(dst, replacement...)
				start = i + 1
			}
			i += size
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' && c != '/' {
			i++
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\', '/':
			dst = append(dst, '\\', c)
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xF])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

// AppendChar appends r as a one character JSON string.
func AppendChar(dst []byte, r rune) []byte {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], r)
	return AppendString(dst, string(b[:n]))
}

// AppendNull appends the null literal.
func AppendNull(dst []byte) []byte {
	return append(dst, litNull...)
}

// AppendBool appends true or false.
func AppendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, litTrue...)
	}
	return append(dst, litFalse...)
}

// AppendInt appends the base 10 form of i.
func AppendInt[I constraints.Signed](dst []byte, i I) []byte {
	return strconv.AppendInt(dst, int64(i), 10)
}

// AppendUint appends the base 10 form of u.
func AppendUint[U constraints.Unsigned](dst []byte, u U) []byte {
	return strconv.AppendUint(dst, uint64(u), 10)
}

// AppendFloat appends the shortest representation of f that round trips at the given bit size.
// This is the same text fmt's %v produces. NaN and infinities are not special cased.
func AppendFloat[F constraints.Float](dst []byte, f F, bitSize int) []byte {
	return strconv.AppendFloat(dst, float64(f), 'g', -1, bitSize)
}

// AppendAny appends the JSON form of x when its dynamic type is bool, string, kind.Char or
// one of the predeclared integer and float types, without going through reflection. It
// returns false, with dst unchanged, for anything else, including named types defined on
// those. uintptr is not a number here.
func AppendAny(dst []byte, x any) ([]byte, bool) {
	switch x := x.(type) {
	case bool:
		return AppendBool(dst, x), true
	case int:
		return AppendInt(dst, x), true
	case int8:
		return AppendInt(dst, x), true
	case int16:
		return AppendInt(dst, x), true
	case int32:
		return AppendInt(dst, x), true
	case int64:
		return AppendInt(dst, x), true
	case uint:
		return AppendUint(dst, x), true
	case uint8:
		return AppendUint(dst, x), true
	case uint16:
		return AppendUint(dst, x), true
	case uint32:
		return AppendUint(dst, x), true
	case uint64:
		return AppendUint(dst, x), true
	case float32:
		return AppendFloat(dst, x, 32), true
	case float64:
		return AppendFloat(dst, x, 64), true
	case string:
		return AppendString(dst, x), true
	case kind.Char:
		return AppendChar(dst, rune(x)), true
	}
	return dst, false
}

// AppendLeaf appends the JSON form of v, which must already be unwrapped by kind.Classify.
// It returns false if v isn't a bool, one of the int, uint or float types, a string or a
// kind.Char. In that case dst is returned unchanged.
func AppendLeaf(dst []byte, v reflect.Value) ([]byte, bool) {
	if !v.IsValid() {
		return AppendNull(dst), true
	}
	if v.Type() == charType {
		return AppendChar(dst, rune(v.Int())), true
	}

	switch v.Kind() {
	case reflect.Bool:
		return AppendBool(dst, v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return AppendInt(dst, v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return AppendUint(dst, v.Uint()), true
	case reflect.Float32:
		return AppendFloat(dst, v.Float(), 32), true
	case reflect.Float64:
		return AppendFloat(dst, v.Float(), 64), true
	case reflect.String:
		return AppendString(dst, v.String()), true
	}
	return dst, false
}
