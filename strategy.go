package metadata

import (
	"fmt"
	"reflect"

	"github.com/Saransh-cpp/metadata/dtype"
)

// Matcher reports whether a value on one side of a conflict is acceptable
// for a strategy. Built-in matchers cover the common categories; user
// strategies may supply any predicate.
type Matcher func(v any) bool

// MatchAny combines matchers into an "any of" predicate.
func MatchAny(ms ...Matcher) Matcher {
	return func(v any) bool {
		for _, m := range ms {
			if m(v) {
				return true
			}
		}
		return false
	}
}

// MatchType matches values whose concrete type equals that of sample.
func MatchType(sample any) Matcher {
	t := reflect.TypeOf(sample)
	return func(v any) bool { return reflect.TypeOf(v) == t }
}

// MatchList matches slice values (not dtype arrays, not byte slices).
func MatchList(v any) bool {
	if _, ok := v.(*dtype.Array); ok {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice
}

// MatchTuple matches fixed-length Go array values.
func MatchTuple(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Array
}

// MatchArray matches dtype arrays.
func MatchArray(v any) bool {
	_, ok := v.(*dtype.Array)
	return ok
}

// TypePair declares one (left, right) combination a strategy applies to.
type TypePair struct {
	Left  Matcher
	Right Matcher
}

// Strategy resolves a same-key conflict between two values into one output.
// Pairs declares which value combinations it handles; Family groups related
// strategies for scoped enabling (empty means the strategy is its own
// family, keyed by Name). Enabled sets the default participation; user
// strategies should normally leave it false and rely on scoped enabling.
type Strategy struct {
	Name    string
	Family  string
	Pairs   []TypePair
	Enabled bool
	Merge   func(left, right any) (any, error)
}

func (s *Strategy) family() string {
	if s.Family != "" {
		return s.Family
	}
	return s.Name
}

type registryEntry struct {
	left     Matcher
	right    Matcher
	strategy *Strategy
	enabled  bool
}

// Registry is an ordered list of strategy entries. Newly registered entries
// go to the front, so more recently registered strategies are tried first;
// there is no type-specificity ranking. The zero value is ready to use.
//
// A Registry is not safe for concurrent mutation; see EnableScope.
type Registry struct {
	entries []registryEntry
}

// NewRegistry returns an empty registry, for callers that need isolation
// from the process-wide default.
func NewRegistry() *Registry { return &Registry{} }

// Register inserts one entry per declared pair at the front of the
// registry. Pairs are walked in reverse so the first listed pair ends up
// queried first among the batch.
func (r *Registry) Register(s *Strategy) {
	for i := len(s.Pairs) - 1; i >= 0; i-- {
		p := s.Pairs[i]
		r.entries = append([]registryEntry{{
			left:     p.Left,
			right:    p.Right,
			strategy: s,
			enabled:  s.Enabled,
		}}, r.entries...)
	}
}

// lookup scans front to back for the first enabled entry whose matchers
// accept both values.
func (r *Registry) lookup(left, right any) (*registryEntry, bool) {
	for i := range r.entries {
		e := &r.entries[i]
		if e.enabled && e.left(left) && e.right(right) {
			return e, true
		}
	}
	return nil, false
}

// apply invokes the entry's strategy, normalizing every failure mode
// (returned error or panic) into a MergeConflictError so the engine has a
// single error kind to react to.
func (e *registryEntry) apply(left, right any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &MergeConflictError{
				Message: fmt.Sprintf("strategy %s panicked: %v", e.strategy.Name, rec),
			}
		}
	}()
	out, err = e.strategy.Merge(left, right)
	if err != nil {
		if _, ok := err.(*MergeConflictError); !ok {
			err = &MergeConflictError{
				Message: fmt.Sprintf("strategy %s failed", e.strategy.Name),
				Cause:   err,
			}
		}
		return nil, err
	}
	return out, nil
}

// EnableScope records the enabled flags touched by Enable so they can be
// restored. Use with defer so restoration happens on every exit path:
//
//	scope := metadata.EnableStrategies("concat-numbers")
//	defer scope.Restore()
//
// Enabling mutates shared registry state for the duration of the scope. Two
// concurrent merges under different scopes will observe each other's
// enabled sets; callers needing isolation should merge against a private
// Registry (MergeOpt.Registry) instead.
type EnableScope struct {
	registry *Registry
	prev     map[*Strategy]bool
}

// Enable forces on every entry whose strategy belongs to one of the given
// families, returning a scope that restores the prior flags. The saved
// flags are keyed by strategy identity so registrations made while the
// scope is open do not disturb restoration.
func (r *Registry) Enable(families ...string) *EnableScope {
	scope := &EnableScope{registry: r, prev: map[*Strategy]bool{}}
	for i := range r.entries {
		e := &r.entries[i]
		for _, f := range families {
			if e.strategy.family() == f || e.strategy.Name == f {
				if _, seen := scope.prev[e.strategy]; !seen {
					scope.prev[e.strategy] = e.enabled
				}
				e.enabled = true
				break
			}
		}
	}
	return scope
}

// Restore puts every touched enabled flag back to its value at Enable time.
// Calling Restore more than once is a no-op after the first call.
func (s *EnableScope) Restore() {
	for strategy, enabled := range s.prev {
		for i := range s.registry.entries {
			e := &s.registry.entries[i]
			if e.strategy == strategy {
				e.enabled = enabled
			}
		}
	}
	s.prev = nil
}

// defaultRegistry is the process-wide registry consulted by Merge when no
// explicit registry is supplied. The built-in concatenation strategies are
// registered here, enabled.
var defaultRegistry = NewRegistry()

// DefaultRegistry exposes the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a strategy to the process-wide registry.
func Register(s *Strategy) { defaultRegistry.Register(s) }

// EnableStrategies temporarily enables strategy families on the
// process-wide registry. See EnableScope for the concurrency caveat.
func EnableStrategies(families ...string) *EnableScope {
	return defaultRegistry.Enable(families...)
}
