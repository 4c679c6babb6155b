package metadata_test

import (
	"errors"
	"testing"

	metadata "github.com/Saransh-cpp/metadata"
)

type table struct {
	metadata.MetaData
}

func TestMetaData_LazyInit(t *testing.T) {
	var tab table
	m := tab.Meta()
	if m == nil {
		t.Fatalf("expected lazily initialized meta, got nil")
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty meta, got %d entries", m.Len())
	}
	m.Set("a", 1)
	if v, _ := tab.Meta().Get("a"); v != 1 {
		t.Fatalf("expected stable meta across accesses, got %v", v)
	}
}

func TestMetaData_NilReceiverReturnsNil(t *testing.T) {
	var md *metadata.MetaData
	if md.Meta() != nil {
		t.Fatalf("expected nil meta for nil receiver")
	}
}

func TestMetaData_SetNilResets(t *testing.T) {
	var tab table
	tab.Meta().Set("a", 1)
	if err := tab.SetMeta(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab.Meta().Len() != 0 {
		t.Fatalf("expected fresh empty meta after nil assignment")
	}
}

func TestMetaData_CopyOnSet(t *testing.T) {
	var tab table
	src := metadata.New()
	src.Set("a", 1)
	if err := tab.SetMeta(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.Set("a", 99)
	if v, _ := tab.Meta().Get("a"); v != 1 {
		t.Fatalf("expected deep copy on set, got %v", v)
	}
}

func TestMetaData_ReferenceOnSet(t *testing.T) {
	shared := false
	md := metadata.NewMetaData(metadata.MetaDataOpt{
		Doc:       "observation metadata",
		CopyOnSet: &shared,
	})
	if md.Doc() != "observation metadata" {
		t.Fatalf("unexpected doc: %q", md.Doc())
	}
	src := metadata.New()
	src.Set("a", 1)
	if err := md.SetMeta(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.Set("a", 99)
	if v, _ := md.Meta().Get("a"); v != 99 {
		t.Fatalf("expected shared reference with copy-on-set disabled, got %v", v)
	}
}

func TestMetaData_MapInputAccepted(t *testing.T) {
	var tab table
	if err := tab.SetMeta(map[string]any{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := tab.Meta().Get("a"); v != 1 {
		t.Fatalf("expected map value stored, got %v", v)
	}
}

func TestMetaData_RejectsNonMapping(t *testing.T) {
	var tab table
	err := tab.SetMeta([]int{1, 2})
	var typeErr *metadata.InvalidMetadataTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected InvalidMetadataTypeError, got %v", err)
	}
}
