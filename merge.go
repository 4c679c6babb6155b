package metadata

import (
	"fmt"
	"log/slog"
	"reflect"

	gojson "github.com/goccy/go-json"

	"github.com/Saransh-cpp/metadata/internal/deepcopy"
)

// ConflictPolicy selects what happens when two non-equal, non-mapping
// values under the same key cannot be resolved by a strategy.
type ConflictPolicy string

const (
	// ConflictSilent takes the right-hand value with no report.
	ConflictSilent ConflictPolicy = "silent"
	// ConflictWarn takes the right-hand value and emits one warning.
	ConflictWarn ConflictPolicy = "warn"
	// ConflictError aborts the merge with a MergeConflictError.
	ConflictError ConflictPolicy = "error"
)

// MergeFunc overrides strategy lookup for non-mapping leaf conflicts. An
// error return falls through to the conflict policy.
type MergeFunc func(left, right any) (any, error)

// FormatFunc builds the message for a conflict at key with the two
// colliding values.
type FormatFunc func(key string, left, right any) string

// Conflict describes one non-fatal collision reported under the warn
// policy.
type Conflict struct {
	Key     string
	Left    any
	Right   any
	Message string
}

// MergeOpt bundles merge options. Pass at most one; when several are given
// the last one wins, mirroring the variadic option convention used across
// this module.
type MergeOpt struct {
	// MergeFunc, when set, replaces registry lookup at leaf conflicts.
	MergeFunc MergeFunc
	// OnConflict selects the conflict policy; empty means ConflictWarn.
	OnConflict ConflictPolicy
	// WarnFormat and ErrorFormat override the default conflict messages.
	WarnFormat  FormatFunc
	ErrorFormat FormatFunc
	// WarnHandler receives non-fatal conflicts under the warn policy.
	// Nil means logging through slog at warn level.
	WarnHandler func(Conflict)
	// Registry overrides the process-wide strategy registry, giving the
	// caller isolation from scoped enabling done elsewhere.
	Registry *Registry
}

// Merge combines the left and right metadata mappings into a new Meta.
// Both inputs must be mapping-like (*Meta or map[string]any); neither is
// mutated and the result shares no mutable substructure with either.
//
// Keys present on one side are deep-copied into the result. When a key is
// present on both sides and both values are mappings, they are merged
// recursively. Otherwise the conflict is resolved by the MergeFunc override
// if any, else by the first enabled matching registry strategy, else by the
// conflict policy.
func Merge(left, right any, opts ...MergeOpt) (*Meta, error) {
	var opt MergeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.OnConflict == "" {
		opt.OnConflict = ConflictWarn
	}
	if opt.WarnFormat == nil {
		opt.WarnFormat = defaultWarnFormat
	}
	if opt.ErrorFormat == nil {
		opt.ErrorFormat = defaultErrorFormat
	}
	if opt.WarnHandler == nil {
		opt.WarnHandler = logConflict
	}
	if opt.Registry == nil {
		opt.Registry = defaultRegistry
	}

	lm, ok := asMeta(left)
	if !ok {
		return nil, &InvalidMergeInputError{Value: left}
	}
	rm, ok := asMeta(right)
	if !ok {
		return nil, &InvalidMergeInputError{Value: right}
	}
	return mergeMeta(lm, rm, opt)
}

func mergeMeta(left, right *Meta, opt MergeOpt) (*Meta, error) {
	out := left.Copy()

	var err error
	right.Range(func(key string, rval any) bool {
		if !out.Has(key) {
			out.Set(key, deepcopy.Value(rval))
			return true
		}

		lval, _ := left.Get(key)
		if lm, lok := asMeta(lval); lok {
			if rm, rok := asMeta(rval); rok {
				var nested *Meta
				nested, err = mergeMeta(lm, rm, opt)
				if err != nil {
					return false
				}
				out.Set(key, nested)
				return true
			}
		}

		var resolved any
		resolved, err = resolveLeaf(key, lval, rval, opt)
		if err != nil {
			return false
		}
		out.Set(key, resolved)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveLeaf handles a same-key conflict where the values are not both
// mappings: merge-func override, then registry strategy, then the conflict
// policy ladder.
func resolveLeaf(key string, lval, rval any, opt MergeOpt) (any, error) {
	var strategyErr error
	if opt.MergeFunc != nil {
		v, err := opt.MergeFunc(lval, rval)
		if err == nil {
			return v, nil
		}
		strategyErr = err
	} else if e, ok := opt.Registry.lookup(lval, rval); ok {
		v, err := e.apply(lval, rval)
		if err == nil {
			return v, nil
		}
		strategyErr = err
	}

	// The nil checks come first because comparing arbitrary values is not
	// always meaningful; a nil side never counts as a conflict.
	switch {
	case lval == nil:
		return deepcopy.Value(rval), nil
	case rval == nil:
		return deepcopy.Value(lval), nil
	case notEqual(lval, rval):
		switch opt.OnConflict {
		case ConflictWarn:
			opt.WarnHandler(Conflict{
				Key:     key,
				Left:    lval,
				Right:   rval,
				Message: opt.WarnFormat(key, lval, rval),
			})
		case ConflictError:
			return nil, &MergeConflictError{
				Key:     key,
				Message: opt.ErrorFormat(key, lval, rval),
				Cause:   strategyErr,
			}
		case ConflictSilent:
		default:
			return nil, &InvalidPolicyError{Policy: opt.OnConflict}
		}
		return deepcopy.Value(rval), nil
	default:
		return deepcopy.Value(rval), nil
	}
}

// notEqual compares two values, treating a failed comparison as unequal.
func notEqual(left, right any) (out bool) {
	defer func() {
		if recover() != nil {
			out = true
		}
	}()
	return !reflect.DeepEqual(left, right)
}

func defaultWarnFormat(key string, left, right any) string {
	return fmt.Sprintf("cannot merge meta key %q types %T and %T, choosing %s=%s",
		key, left, right, key, renderValue(right))
}

func defaultErrorFormat(key string, left, right any) string {
	return fmt.Sprintf("cannot merge meta key %q types %T and %T", key, left, right)
}

// renderValue produces a compact representation of a conflicting value for
// diagnostics, falling back to %v for values JSON cannot express.
func renderValue(v any) string {
	if b, err := gojson.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

// logConflict is the default warn handler.
func logConflict(c Conflict) {
	slog.Warn("metadata merge conflict", "key", c.Key, "detail", c.Message)
}
