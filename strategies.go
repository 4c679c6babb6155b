package metadata

import (
	"fmt"
	"reflect"

	"github.com/Saransh-cpp/metadata/dtype"
)

// FamilyBuiltin groups the concatenation strategies that ship enabled by
// default.
const FamilyBuiltin = "builtin"

// concatSequences joins two sequences of the same container category:
// both slices, or both fixed-length Go arrays. The result keeps the
// category of its inputs.
func concatSequences(left, right any) (any, error) {
	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	switch {
	case lv.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		if lv.Type() == rv.Type() {
			out := reflect.MakeSlice(lv.Type(), 0, lv.Len()+rv.Len())
			out = reflect.AppendSlice(out, lv)
			out = reflect.AppendSlice(out, rv)
			return out.Interface(), nil
		}
		out := make([]any, 0, lv.Len()+rv.Len())
		for i := 0; i < lv.Len(); i++ {
			out = append(out, lv.Index(i).Interface())
		}
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return out, nil
	case lv.Kind() == reflect.Array && rv.Kind() == reflect.Array:
		if lv.Type().Elem() != rv.Type().Elem() {
			return nil, fmt.Errorf("cannot concatenate %s and %s", lv.Type(), rv.Type())
		}
		out := reflect.New(reflect.ArrayOf(lv.Len()+rv.Len(), lv.Type().Elem())).Elem()
		for i := 0; i < lv.Len(); i++ {
			out.Index(i).Set(lv.Index(i))
		}
		for i := 0; i < rv.Len(); i++ {
			out.Index(lv.Len() + i).Set(rv.Index(i))
		}
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot concatenate %T and %T", left, right)
	}
}

// concatArrays coerces both sides to dtype arrays, validates that their
// element types share a fundamental kind, and concatenates left-then-right.
// The result is always a dtype array, even when one side was a plain
// sequence.
func concatArrays(left, right any) (any, error) {
	la, err := dtype.AsArray(left)
	if err != nil {
		return nil, err
	}
	ra, err := dtype.AsArray(right)
	if err != nil {
		return nil, err
	}
	return dtype.Concatenate(la, ra)
}

func init() {
	// Registration order matters: the sequence strategy is registered
	// first, so the array strategy's entries sit in front of it and win
	// when both could apply.
	Register(&Strategy{
		Name:    "concat-sequences",
		Family:  FamilyBuiltin,
		Enabled: true,
		Pairs: []TypePair{
			{Left: MatchList, Right: MatchList},
			{Left: MatchTuple, Right: MatchTuple},
		},
		Merge: concatSequences,
	})
	Register(&Strategy{
		Name:    "concat-arrays",
		Family:  FamilyBuiltin,
		Enabled: true,
		Pairs: []TypePair{
			{Left: MatchArray, Right: MatchArray},
			{Left: MatchArray, Right: MatchAny(MatchList, MatchTuple)},
			{Left: MatchAny(MatchList, MatchTuple), Right: MatchArray},
		},
		Merge: concatArrays,
	})
}
