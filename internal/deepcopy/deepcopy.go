// Package deepcopy provides the recursive value copy used when composing
// metadata mappings. It exists under internal because the copy semantics are
// an implementation detail of the public metadata API.
package deepcopy

import "reflect"

// Copier lets container types supply their own deep-copy implementation.
// metadata.Meta implements this so nested mappings keep insertion order.
type Copier interface {
	DeepCopy() any
}

// Value returns a copy of v that shares no mutable containers with the
// original. Maps, slices, arrays and pointers are copied recursively;
// values implementing Copier copy themselves. Other values (numbers,
// strings, structs, channels, funcs) are returned as-is, relying on Go
// value semantics.
func Value(v any) any {
	if v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return v
	}
	if c, ok := v.(Copier); ok {
		return c.DeepCopy()
	}
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = Value(e)
		}
		return out
	case []any:
		out := make([]any, len(m))
		for i, e := range m {
			out[i] = Value(e)
		}
		return out
	case []byte:
		out := make([]byte, len(m))
		copy(out, m)
		return out
	}
	return reflectCopy(reflect.ValueOf(v)).Interface()
}

func reflectCopy(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return rv
		}
	}
	if rv.CanInterface() {
		if c, ok := rv.Interface().(Copier); ok {
			return reflect.ValueOf(c.DeepCopy())
		}
	}
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			copyInto(out.Index(i), rv.Index(i))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			copyInto(out.Index(i), rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), reflectCopy(iter.Value()))
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type().Elem())
		copyInto(out.Elem(), rv.Elem())
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(reflect.ValueOf(Value(rv.Elem().Interface())))
		return out
	default:
		return rv
	}
}

// copyInto assigns a deep copy of src to dst, going through Value so Copier
// implementations are honored for interface elements.
func copyInto(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Ptr, reflect.Interface:
		dst.Set(reflectCopy(src))
	default:
		dst.Set(src)
	}
}
