package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Saransh-cpp/metadata/internal/deepcopy"
)

// AttributesKey is the reserved key inside a metadata mapping holding the
// named sub-attribute container. The container is created lazily on first
// write and removed entirely when its last entry is deleted, so it is never
// present but empty.
const AttributesKey = "__attributes__"

// MetaOwner is what a MetaAttribute needs from its owning object: access to
// a metadata mapping.
type MetaOwner interface {
	Meta() *Meta
}

// MetaAttribute is a named value stored inside an owner's metadata mapping
// under AttributesKey, with optional default-value semantics. Bind it to
// the owner type once, at package or type definition level:
//
//	type Table struct {
//		metadata.MetaData
//	}
//
//	var version = metadata.MustBindAttribute(Table{}, "version", 1)
//
//	v := version.Get(&t)
type MetaAttribute struct {
	name string
	def  any
}

// BindAttribute validates name against the owner type and returns the
// bound attribute. The name must not collide with any exported field
// (including fields promoted from embedded types) or method of the owner;
// a collision fails with an AttributeNameCollisionError. def may be nil.
func BindAttribute(owner any, name string, def any) (*MetaAttribute, error) {
	t := reflect.TypeOf(owner)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t != nil && collides(t, name) {
		return nil, &AttributeNameCollisionError{Name: name, Owner: t.String()}
	}
	return &MetaAttribute{name: name, def: def}, nil
}

// MustBindAttribute is BindAttribute panicking on collision, for use in
// package-level variable declarations.
func MustBindAttribute(owner any, name string, def any) *MetaAttribute {
	a, err := BindAttribute(owner, name, def)
	if err != nil {
		panic(err)
	}
	return a
}

// collides reports whether name matches, case-insensitively, an exported
// field or method of t. Promoted members of embedded types count, covering
// the owner's parents.
func collides(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.IsExported() && strings.EqualFold(f.Name, name) {
				return true
			}
			if f.Anonymous {
				ft := f.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if collides(ft, name) {
					return true
				}
			}
		}
	}
	for _, mt := range []reflect.Type{t, reflect.PointerTo(t)} {
		for i := 0; i < mt.NumMethod(); i++ {
			if strings.EqualFold(mt.Method(i).Name, name) {
				return true
			}
		}
	}
	return false
}

// Name returns the bound name.
func (a *MetaAttribute) Name() string { return a.name }

// Default returns the declared default value.
func (a *MetaAttribute) Default() any { return a.def }

func (a *MetaAttribute) String() string {
	return fmt.Sprintf("<MetaAttribute name=%s default=%v>", a.name, a.def)
}

// Get returns the stored value for the owner. With a nil default and no
// value ever set, it returns nil without creating the attribute container.
// Otherwise the container is created if needed and, when the name is
// absent, seeded with a deep copy of the default before reading.
func (a *MetaAttribute) Get(owner MetaOwner) any {
	meta := owner.Meta()
	if a.def == nil {
		if c, ok := meta.Get(AttributesKey); !ok || !containerHas(c, a.name) {
			return nil
		}
	}
	attrs := a.container(meta)
	if !attrs.Has(a.name) && a.def != nil {
		attrs.Set(a.name, deepcopy.Value(a.def))
	}
	v, _ := attrs.Get(a.name)
	return v
}

// Set stores v for the owner, creating the container if needed. The value
// is stored by reference, not copied.
func (a *MetaAttribute) Set(owner MetaOwner, v any) {
	a.container(owner.Meta()).Set(a.name, v)
}

// Delete removes the owner's value if present. When the container becomes
// empty it is removed from the metadata entirely.
func (a *MetaAttribute) Delete(owner MetaOwner) {
	meta := owner.Meta()
	c, ok := meta.Get(AttributesKey)
	if !ok {
		return
	}
	attrs, ok := c.(*Meta)
	if !ok {
		return
	}
	attrs.Delete(a.name)
	if attrs.Len() == 0 {
		meta.Delete(AttributesKey)
	}
}

// container returns meta's attribute container, creating it when absent.
func (a *MetaAttribute) container(meta *Meta) *Meta {
	if c, ok := meta.Get(AttributesKey); ok {
		if attrs, ok := c.(*Meta); ok {
			return attrs
		}
	}
	attrs := New()
	meta.Set(AttributesKey, attrs)
	return attrs
}

func containerHas(c any, name string) bool {
	attrs, ok := c.(*Meta)
	return ok && attrs.Has(name)
}
