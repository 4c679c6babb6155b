package metadata_test

import (
	"fmt"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	metadata "github.com/Saransh-cpp/metadata"
)

func TestMeta_InsertionOrder(t *testing.T) {
	m := metadata.New()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)
	m.Set("z", 4) // reassignment keeps position
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
	if v, _ := m.Get("z"); v != 4 {
		t.Fatalf("expected reassigned value 4, got %v", v)
	}
}

func TestMeta_DeleteKeepsOrder(t *testing.T) {
	m := metadata.New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("unexpected key order after delete: %v", got)
	}
	m.Delete("missing") // no-op
	if m.Len() != 2 {
		t.Fatalf("expected len 2, got %d", m.Len())
	}
}

func TestMeta_CopyIsDeepAndOrdered(t *testing.T) {
	m := metadata.New()
	m.Set("list", []any{1, 2})
	inner := metadata.New()
	inner.Set("x", "y")
	m.Set("nested", inner)

	cp := m.Copy()
	if !reflect.DeepEqual(cp.Keys(), m.Keys()) {
		t.Fatalf("copy lost key order: %v", cp.Keys())
	}

	got, _ := cp.Get("list")
	got.([]any)[0] = 99
	if orig, _ := m.Get("list"); orig.([]any)[0] != 1 {
		t.Fatalf("copy aliases original slice")
	}

	gotNested, _ := cp.Get("nested")
	gotNested.(*metadata.Meta).Set("x", "mutated")
	if v, _ := inner.Get("x"); v != "y" {
		t.Fatalf("copy aliases nested mapping")
	}
}

func TestMeta_NewFromIsDeterministic(t *testing.T) {
	m := metadata.NewFrom(map[string]any{"c": 3, "a": 1, "b": 2})
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected sorted keys for map input, got %v", got)
	}
}

func TestMeta_RangeStopsEarly(t *testing.T) {
	m := metadata.New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	var seen []string
	m.Range(func(k string, _ any) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Fatalf("expected range to stop after two keys, got %v", seen)
	}
}

// metaFromYAML decodes a single YAML document into a Meta, going through
// yaml.Node so mapping order is preserved.
func metaFromYAML(t *testing.T, src string) *metadata.Meta {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(doc.Content) != 1 {
		t.Fatalf("expected one document, got %d", len(doc.Content))
	}
	m, err := metaFromNode(doc.Content[0])
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return m
}

func metaFromNode(n *yaml.Node) (*metadata.Meta, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping node, got kind %d", n.Kind)
	}
	m := metadata.New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		if val.Kind == yaml.MappingNode {
			nested, err := metaFromNode(val)
			if err != nil {
				return nil, err
			}
			m.Set(key, nested)
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func TestMeta_YAMLFixtureKeepsDocumentOrder(t *testing.T) {
	m := metaFromYAML(t, `
telescope: AAT
instrument:
  name: UCLES
  grating: 31
observer: unknown
`)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"telescope", "instrument", "observer"}) {
		t.Fatalf("document order lost: %v", got)
	}
	inst, _ := m.Get("instrument")
	if got := inst.(*metadata.Meta).Keys(); !reflect.DeepEqual(got, []string{"name", "grating"}) {
		t.Fatalf("nested order lost: %v", got)
	}
}

func TestMerge_YAMLFixtures(t *testing.T) {
	left := metaFromYAML(t, `
telescope: AAT
obs:
  exposure: 120
`)
	right := metaFromYAML(t, `
obs:
  seeing: 1.2
observer: Smith
`)
	out, err := metadata.Merge(left, right, metadata.MergeOpt{OnConflict: metadata.ConflictError})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Keys(); !reflect.DeepEqual(got, []string{"telescope", "obs", "observer"}) {
		t.Fatalf("unexpected merged key order: %v", got)
	}
	obs, _ := out.Get("obs")
	if got := obs.(*metadata.Meta).Keys(); !reflect.DeepEqual(got, []string{"exposure", "seeing"}) {
		t.Fatalf("unexpected nested merged order: %v", got)
	}
}
