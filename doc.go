package metadata

// Package metadata merges the metadata mappings of two higher-level objects
// into one, resolving same-key collisions through pluggable, type-directed
// merge strategies and a configurable conflict policy. It also provides the
// attribute-storage building blocks (MetaData, MetaAttribute) that let
// owner types carry a lazily-initialized metadata mapping and named values
// inside it.
//
// Design policy:
// - Public API lives in the root package; copy semantics live under internal/.
// - The array element-type helper is its own subpackage, dtype.
// - Strategy registration is an explicit call, not a side effect of type
//   declaration; the process-wide registry can be swapped per call for
//   isolation.
//
// Typical usage:
//
//	out, err := metadata.Merge(t1.Meta(), t2.Meta())
//
//	scope := metadata.EnableStrategies("concat-numbers")
//	defer scope.Restore()
//	out, err = metadata.Merge(t1.Meta(), t2.Meta(), metadata.MergeOpt{OnConflict: metadata.ConflictError})
//
// The registry's enabled flags are process-wide state. Scoped enabling is
// stack-disciplined but offers no isolation between concurrent merges;
// callers that need isolation should pass MergeOpt.Registry or serialize.
