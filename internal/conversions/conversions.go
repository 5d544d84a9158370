// Package conversions holds unsafe conversions between byte slices and strings that
// barejson uses on buffers it owns outright.
package conversions

import "unsafe"

// ByteSlice2String converts bs to a string without a copy. bs must not be modified, or
// reused, after this.
func ByteSlice2String(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}
