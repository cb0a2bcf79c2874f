package reducers

import "reflect"

// Same reports whether two slice values are identical. Comparable values are
// compared with ==. Maps, slices, funcs, chans and pointers are compared by
// reference, so a reducer that rebuilds a map with equal contents still counts
// as a change. Any other uncomparable value is never the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return false
}
