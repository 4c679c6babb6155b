package metadata

import (
	"sort"

	"github.com/Saransh-cpp/metadata/internal/deepcopy"
)

// Meta is a string-keyed mapping that remembers insertion order. It is the
// canonical shape for metadata attached to higher-level objects (tables,
// arrays, ...) and the type produced by Merge. Reassigning an existing key
// keeps its original position.
//
// The zero value is not usable; construct with New or NewFrom.
type Meta struct {
	keys  []string
	items map[string]any
}

// New returns an empty Meta.
func New() *Meta {
	return &Meta{items: map[string]any{}}
}

// NewFrom builds a Meta from a plain map. Keys are inserted in sorted order
// so the result is deterministic; use New plus Set when a specific order
// matters.
func NewFrom(m map[string]any) *Meta {
	out := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Set(k, m[k])
	}
	return out
}

// Set stores v under key, appending the key if it is new.
func (m *Meta) Set(key string, v any) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// Get returns the value for key and whether it was present.
func (m *Meta) Get(key string) (any, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Meta) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Delete removes key if present, preserving the order of the others.
func (m *Meta) Delete(key string) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Meta) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Meta) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each key/value in insertion order until fn returns
// false. fn must not mutate m.
func (m *Meta) Range(fn func(key string, v any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}

// Copy returns a deep copy of m. Nested Meta values, maps and slices are
// copied recursively; insertion order is preserved.
func (m *Meta) Copy() *Meta {
	out := &Meta{
		keys:  make([]string, len(m.keys)),
		items: make(map[string]any, len(m.items)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.items {
		out.items[k] = deepcopy.Value(v)
	}
	return out
}

// DeepCopy implements deepcopy.Copier.
func (m *Meta) DeepCopy() any { return m.Copy() }

// Map returns the contents as a plain map[string]any. Values are shared, not
// copied; insertion order is lost.
func (m *Meta) Map() map[string]any {
	out := make(map[string]any, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// asMeta converts a mapping-like value into a Meta for merging. Plain maps
// are converted with deterministic (sorted) key order; a nil *Meta is not
// mapping-like.
func asMeta(v any) (*Meta, bool) {
	switch mv := v.(type) {
	case *Meta:
		if mv == nil {
			return nil, false
		}
		return mv, true
	case map[string]any:
		return NewFrom(mv), true
	default:
		return nil, false
	}
}
