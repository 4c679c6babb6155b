package metadata

import "github.com/Saransh-cpp/metadata/internal/deepcopy"

// MetaData is an embeddable metadata slot for owner types. The slot is
// lazily initialized to an empty Meta on first access, so owners never see
// nil, and assigning nil resets it to a fresh empty mapping.
//
// By default assigned mappings are deep-copied; construct with
// NewMetaData and CopyOnSet(false) to store by reference instead.
//
//	type Table struct {
//		metadata.MetaData
//	}
type MetaData struct {
	doc    string
	noCopy bool
	meta   *Meta
}

// MetaDataOpt bundles MetaData construction options.
type MetaDataOpt struct {
	// Doc is documentation text for the slot.
	Doc string
	// CopyOnSet controls whether SetMeta deep-copies assigned mappings.
	// Nil means true.
	CopyOnSet *bool
}

// NewMetaData builds a configured slot. The zero value of MetaData is also
// usable and behaves like NewMetaData() with defaults.
func NewMetaData(opts ...MetaDataOpt) MetaData {
	var opt MetaDataOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	md := MetaData{doc: opt.Doc}
	if opt.CopyOnSet != nil {
		md.noCopy = !*opt.CopyOnSet
	}
	return md
}

// Doc returns the slot's documentation text.
func (m *MetaData) Doc() string { return m.doc }

// Meta returns the metadata mapping, initializing an empty one on first
// access. A nil receiver returns nil, the analog of accessing the slot on
// the owning type rather than an instance.
func (m *MetaData) Meta() *Meta {
	if m == nil {
		return nil
	}
	if m.meta == nil {
		m.meta = New()
	}
	return m.meta
}

// SetMeta assigns the slot. Nil resets it to a fresh empty mapping. A
// mapping-like value (*Meta or map[string]any) is stored as a deep copy
// unless copy-on-set was disabled, in which case a *Meta is stored by
// reference. Anything else fails with an InvalidMetadataTypeError.
func (m *MetaData) SetMeta(v any) error {
	if v == nil {
		m.meta = New()
		return nil
	}
	mv, ok := asMeta(v)
	if !ok {
		return &InvalidMetadataTypeError{Value: v}
	}
	if m.noCopy {
		// asMeta copies plain maps into a fresh Meta; only a *Meta can
		// actually be shared with the caller.
		m.meta = mv
		return nil
	}
	m.meta = deepcopy.Value(mv).(*Meta)
	return nil
}
