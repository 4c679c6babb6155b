package dtype

import (
	"fmt"
	"reflect"

	gojson "github.com/goccy/go-json"
)

var float64Type = reflect.TypeOf(float64(0))

// Array wraps a typed Go slice together with its element-type descriptor.
// It is the array-like value the merge strategies operate on: distinct from
// a plain slice, always carrying an element DType.
type Array struct {
	data any
	elem reflect.Type
	dt   DType
}

// New builds an Array from a slice or fixed-length Go array value. A
// homogeneous []any (every element the same concrete type) is narrowed to a
// typed slice first, so New([]any{1, 2}) has numeric elements rather than
// object elements.
func New(v any) (*Array, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
	case reflect.Array:
		s := reflect.MakeSlice(reflect.SliceOf(rv.Type().Elem()), rv.Len(), rv.Len())
		reflect.Copy(s, rv)
		rv = s
	default:
		return nil, fmt.Errorf("dtype: cannot make an array from %T", v)
	}
	if rv.Type().Elem().Kind() == reflect.Interface {
		if narrowed, ok := narrow(rv); ok {
			rv = narrowed
		}
	}
	return &Array{
		data: rv.Interface(),
		elem: rv.Type().Elem(),
		dt:   dtypeFor(rv.Type().Elem(), rv),
	}, nil
}

// AsArray coerces v into an Array: an existing Array is returned unchanged,
// slices and fixed-length arrays are wrapped via New.
func AsArray(v any) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return New(v)
}

// narrow converts an interface-element slice whose dynamic element types all
// agree into the corresponding typed slice.
func narrow(rv reflect.Value) (reflect.Value, bool) {
	if rv.Len() == 0 {
		return rv, false
	}
	first := rv.Index(0).Elem()
	if !first.IsValid() {
		return rv, false
	}
	et := first.Type()
	for i := 1; i < rv.Len(); i++ {
		e := rv.Index(i).Elem()
		if !e.IsValid() || e.Type() != et {
			return rv, false
		}
	}
	out := reflect.MakeSlice(reflect.SliceOf(et), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out.Index(i).Set(rv.Index(i).Elem())
	}
	return out, true
}

// Len returns the number of elements.
func (a *Array) Len() int { return reflect.ValueOf(a.data).Len() }

// DType returns the element-type descriptor.
func (a *Array) DType() DType { return a.dt }

// Interface returns the underlying typed slice.
func (a *Array) Interface() any { return a.data }

// Index returns element i as an any.
func (a *Array) Index(i int) any { return reflect.ValueOf(a.data).Index(i).Interface() }

// MarshalJSON renders the underlying slice, so arrays show their contents
// in diagnostics rather than an empty object.
func (a *Array) MarshalJSON() ([]byte, error) { return gojson.Marshal(a.data) }

func (a *Array) String() string { return fmt.Sprintf("%v", a.data) }

// DeepCopy returns an Array backed by a fresh copy of the data slice.
func (a *Array) DeepCopy() any {
	rv := reflect.ValueOf(a.data)
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return &Array{data: out.Interface(), elem: a.elem, dt: a.dt}
}

// Concatenate joins arrs left-to-right into a single Array with their
// common element type, failing with a TypeConflictError when Common does.
func Concatenate(arrs ...*Array) (*Array, error) {
	dt, err := Common(arrs)
	if err != nil {
		return nil, err
	}
	target := targetType(dt, arrs)
	total := 0
	for _, a := range arrs {
		total += a.Len()
	}
	out := reflect.MakeSlice(reflect.SliceOf(target), 0, total)
	for _, a := range arrs {
		rv := reflect.ValueOf(a.data)
		for i := 0; i < rv.Len(); i++ {
			e := rv.Index(i)
			if e.Type() != target {
				switch {
				case target.Kind() == reflect.Interface:
					conv := reflect.New(target).Elem()
					conv.Set(reflect.ValueOf(e.Interface()))
					e = conv
				case !e.Type().ConvertibleTo(target):
					// Go permits no direct conversion from real
					// numerics to complex; go through float64.
					e = reflect.ValueOf(complex(e.Convert(float64Type).Float(), 0))
				default:
					e = e.Convert(target)
				}
			}
			out = reflect.Append(out, e)
		}
	}
	return &Array{data: out.Interface(), elem: target, dt: dt}, nil
}

// targetType picks the concrete Go element type used to materialize the
// common DType.
func targetType(dt DType, arrs []*Array) reflect.Type {
	switch dt.Kind {
	case KindBool:
		return reflect.TypeOf(false)
	case KindNumeric:
		switch dt.Name {
		case "complex128":
			return reflect.TypeOf(complex128(0))
		case "float64":
			return reflect.TypeOf(float64(0))
		case "int64":
			return reflect.TypeOf(int64(0))
		default:
			return reflect.TypeOf(uint64(0))
		}
	case KindCharacter:
		return reflect.TypeOf("")
	case KindVoid:
		// Records and byte strings only unify on an identical element
		// type, so the first array's element type is the common one.
		return arrs[0].elem
	default:
		return reflect.TypeOf((*any)(nil)).Elem()
	}
}
