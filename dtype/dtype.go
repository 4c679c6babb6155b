// Package dtype classifies array-like values by fundamental element kind and
// computes a common element type suitable for concatenation. It is the
// numeric helper behind the array merge strategy in the parent package.
package dtype

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is one of the five fundamental element categories. Values from two
// different kinds never share a common type.
type Kind int

const (
	KindBool Kind = iota
	KindObject
	KindNumeric
	KindCharacter
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindNumeric:
		return "numeric"
	case KindCharacter:
		return "character"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one member of a record element type, in declaration order.
type Field struct {
	Name string
	Type DType
}

// DType describes an element type: its fundamental kind, a printable name,
// the character width for KindCharacter, and ordered fields for record
// (struct) element types.
type DType struct {
	Kind   Kind
	Name   string
	Size   int
	Fields []Field
}

// TypeConflictError reports array element types spanning more than one
// fundamental kind. Types holds the per-array type names in input order.
type TypeConflictError struct {
	Types []string
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("dtype: arrays have incompatible types [%s]", strings.Join(e.Types, ", "))
}

// Common computes the single element type shared by arrs, or fails with a
// TypeConflictError when their kinds differ. arrs must be nonempty.
//
// For character elements each array contributes a fixed placeholder width
// (its widest element, at least one) and the common type takes the maximum,
// so empty strings never produce a zero-width type.
func Common(arrs []*Array) (DType, error) {
	if len(arrs) == 0 {
		return DType{}, fmt.Errorf("dtype: no arrays given")
	}
	kind := arrs[0].dt.Kind
	for _, a := range arrs[1:] {
		if a.dt.Kind != kind {
			names := make([]string, len(arrs))
			for i, aa := range arrs {
				names[i] = aa.dt.Name
			}
			return DType{}, &TypeConflictError{Types: names}
		}
	}

	switch kind {
	case KindBool:
		return DType{Kind: KindBool, Name: "bool"}, nil
	case KindObject:
		return DType{Kind: KindObject, Name: "object"}, nil
	case KindNumeric:
		return commonNumeric(arrs), nil
	case KindCharacter:
		width := 1
		for _, a := range arrs {
			if a.dt.Size > width {
				width = a.dt.Size
			}
		}
		return DType{Kind: KindCharacter, Name: fmt.Sprintf("str%d", width), Size: width}, nil
	default: // KindVoid
		return commonVoid(arrs)
	}
}

// commonNumeric promotes across the numeric element types of arrs:
// any complex wins, then any float, then signed over unsigned.
func commonNumeric(arrs []*Array) DType {
	var hasComplex, hasFloat, hasSigned bool
	for _, a := range arrs {
		switch a.elem.Kind() {
		case reflect.Complex64, reflect.Complex128:
			hasComplex = true
		case reflect.Float32, reflect.Float64:
			hasFloat = true
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			hasSigned = true
		}
	}
	switch {
	case hasComplex:
		return DType{Kind: KindNumeric, Name: "complex128"}
	case hasFloat:
		return DType{Kind: KindNumeric, Name: "float64"}
	case hasSigned:
		return DType{Kind: KindNumeric, Name: "int64"}
	default:
		return DType{Kind: KindNumeric, Name: "uint64"}
	}
}

// commonVoid handles opaque-binary and record element types. Records only
// unify when every array has the identical element type; mixed record shapes
// are reported as a type conflict.
func commonVoid(arrs []*Array) (DType, error) {
	first := arrs[0]
	for _, a := range arrs[1:] {
		if a.elem != first.elem {
			names := make([]string, len(arrs))
			for i, aa := range arrs {
				names[i] = aa.dt.Name
			}
			return DType{}, &TypeConflictError{Types: names}
		}
	}
	return first.dt, nil
}

// kindOf maps a Go element type onto a fundamental kind.
func kindOf(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return KindNumeric
	case reflect.String:
		return KindCharacter
	case reflect.Struct:
		return KindVoid
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindVoid
		}
		return KindObject
	default:
		return KindObject
	}
}

// dtypeFor derives the DType for a slice with element type elem, inspecting
// data (a reflect slice value) for character widths.
func dtypeFor(elem reflect.Type, data reflect.Value) DType {
	kind := kindOf(elem)
	switch kind {
	case KindBool:
		return DType{Kind: KindBool, Name: "bool"}
	case KindNumeric:
		return DType{Kind: KindNumeric, Name: elem.Kind().String()}
	case KindCharacter:
		width := 1
		for i := 0; i < data.Len(); i++ {
			if n := len(data.Index(i).String()); n > width {
				width = n
			}
		}
		return DType{Kind: KindCharacter, Name: fmt.Sprintf("str%d", width), Size: width}
	case KindVoid:
		if elem.Kind() == reflect.Struct {
			fields := make([]Field, 0, elem.NumField())
			for i := 0; i < elem.NumField(); i++ {
				f := elem.Field(i)
				fields = append(fields, Field{
					Name: f.Name,
					Type: dtypeFor(f.Type, reflect.MakeSlice(reflect.SliceOf(f.Type), 0, 0)),
				})
			}
			return DType{Kind: KindVoid, Name: "record " + elem.String(), Fields: fields}
		}
		return DType{Kind: KindVoid, Name: "bytes"}
	default:
		return DType{Kind: KindObject, Name: "object"}
	}
}
