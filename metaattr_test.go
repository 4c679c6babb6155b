package metadata_test

import (
	"errors"
	"reflect"
	"testing"

	metadata "github.com/Saransh-cpp/metadata"
)

func TestMetaAttribute_NoDefaultReadsNilWithoutContainer(t *testing.T) {
	attr, err := metadata.BindAttribute(table{}, "calibrated", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tab table
	if v := attr.Get(&tab); v != nil {
		t.Fatalf("expected nil for unset attribute, got %v", v)
	}
	if tab.Meta().Has(metadata.AttributesKey) {
		t.Fatalf("reading an unset attribute must not create the container")
	}
}

func TestMetaAttribute_SetGetDelete(t *testing.T) {
	attr := metadata.MustBindAttribute(table{}, "calibrated", nil)
	var tab table

	attr.Set(&tab, true)
	if !tab.Meta().Has(metadata.AttributesKey) {
		t.Fatalf("expected container after set")
	}
	if v := attr.Get(&tab); v != true {
		t.Fatalf("expected true, got %v", v)
	}

	attr.Delete(&tab)
	if tab.Meta().Has(metadata.AttributesKey) {
		t.Fatalf("expected emptied container to be removed from meta")
	}
	if v := attr.Get(&tab); v != nil {
		t.Fatalf("expected nil after delete, got %v", v)
	}
}

func TestMetaAttribute_DeleteKeepsSiblings(t *testing.T) {
	a := metadata.MustBindAttribute(table{}, "first", nil)
	b := metadata.MustBindAttribute(table{}, "second", nil)
	var tab table
	a.Set(&tab, 1)
	b.Set(&tab, 2)
	a.Delete(&tab)
	if !tab.Meta().Has(metadata.AttributesKey) {
		t.Fatalf("container with remaining entries must stay")
	}
	if v := b.Get(&tab); v != 2 {
		t.Fatalf("sibling attribute lost: %v", v)
	}
}

func TestMetaAttribute_DefaultSeeding(t *testing.T) {
	def := []any{"raw"}
	attr := metadata.MustBindAttribute(table{}, "history", def)
	var tab table

	got := attr.Get(&tab)
	if !reflect.DeepEqual(got, []any{"raw"}) {
		t.Fatalf("expected seeded default, got %v", got)
	}
	// The stored value is a deep copy of the default.
	got.([]any)[0] = "mutated"
	if def[0] != "raw" {
		t.Fatalf("stored default aliases the declared default")
	}

	var other table
	if v := attr.Get(&other); !reflect.DeepEqual(v, []any{"raw"}) {
		t.Fatalf("second owner sees a pristine default, got %v", v)
	}
}

func TestMetaAttribute_SetStoresByReference(t *testing.T) {
	attr := metadata.MustBindAttribute(table{}, "tags", nil)
	var tab table
	v := []any{"a"}
	attr.Set(&tab, v)
	v[0] = "b"
	if got := attr.Get(&tab); !reflect.DeepEqual(got, []any{"b"}) {
		t.Fatalf("expected set value stored by reference, got %v", got)
	}
}

func TestMetaAttribute_Introspection(t *testing.T) {
	attr := metadata.MustBindAttribute(table{}, "version", 2)
	if attr.Name() != "version" {
		t.Fatalf("unexpected name: %q", attr.Name())
	}
	if attr.Default() != 2 {
		t.Fatalf("unexpected default: %v", attr.Default())
	}
	if attr.String() == "" {
		t.Fatalf("expected printable representation")
	}
}

type owner struct {
	metadata.MetaData
	Rows int
}

func (owner) Describe() string { return "" }

func TestBindAttribute_NameCollisions(t *testing.T) {
	for _, name := range []string{
		"rows",     // exported field, case-insensitive
		"Describe", // method
		"Meta",     // promoted from the embedded MetaData
	} {
		_, err := metadata.BindAttribute(owner{}, name, nil)
		var collision *metadata.AttributeNameCollisionError
		if !errors.As(err, &collision) {
			t.Fatalf("expected collision for %q, got %v", name, err)
		}
		if collision.Name != name {
			t.Fatalf("expected name %q in error, got %q", name, collision.Name)
		}
	}

	if _, err := metadata.BindAttribute(owner{}, "calibration", nil); err != nil {
		t.Fatalf("expected non-colliding name to bind, got %v", err)
	}
}

func TestMustBindAttribute_PanicsOnCollision(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on collision")
		}
	}()
	metadata.MustBindAttribute(owner{}, "rows", nil)
}
