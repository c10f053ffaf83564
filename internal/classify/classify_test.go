package classify_test

import (
	"testing"

	"github.com/reoring/schemamatch/internal/classify"
)

func TestOf_Categories(t *testing.T) {
	cases := []struct {
		name string
		node any
		want classify.Categories
	}{
		{"nil", nil, classify.Categories{}},
		{"bool schema", true, classify.Categories{}},
		{"empty", map[string]any{}, classify.Categories{}},
		{
			"object with everything",
			map[string]any{
				"type":       "object",
				"properties": map[string]any{"a": map[string]any{}},
				"required":   []any{"a"},
			},
			classify.Categories{Type: true, Properties: true, Required: true},
		},
		{"typed required", map[string]any{"required": []string{"a"}}, classify.Categories{Required: true}},
		{"bad required", map[string]any{"required": []any{"a", 1}}, classify.Categories{}},
		{"items object", map[string]any{"items": map[string]any{}}, classify.Categories{Items: true}},
		{"items tuple", map[string]any{"items": []any{map[string]any{}}}, classify.Categories{Items: true}},
		{"items bool", map[string]any{"items": true}, classify.Categories{}},
		{"enum", map[string]any{"enum": []any{"a", 1, true, nil}}, classify.Categories{Enum: true}},
		{"enum with object", map[string]any{"enum": []any{map[string]any{}}}, classify.Categories{}},
		{"ref", map[string]any{"$ref": "#/definitions/x"}, classify.Categories{Ref: true}},
		{"oneOf", map[string]any{"oneOf": []any{map[string]any{}}}, classify.Categories{AnyOf: true}},
		{"anyOf bad", map[string]any{"anyOf": []any{"x"}}, classify.Categories{}},
		{"allOf", map[string]any{"allOf": []any{map[string]any{}, []any{}}}, classify.Categories{AllOf: true}},
		{"list", []any{map[string]any{}}, classify.Categories{List: true, AllOf: true}},
		{"list of scalars", []any{1}, classify.Categories{List: true}},
	}
	for _, c := range cases {
		if got := classify.Of(c.node); got != c.want {
			t.Fatalf("%s: got %+v want %+v", c.name, got, c.want)
		}
	}
}

func TestSchemaList(t *testing.T) {
	m := map[string]any{
		"anyOf": []any{map[string]any{"type": "string"}},
		"oneOf": []any{map[string]any{"type": "number"}, map[string]any{"type": "null"}},
	}
	if got, ok := classify.SchemaList(m["oneOf"]); !ok || len(got) != 2 {
		t.Fatalf("expected 2 alternatives, got %v", got)
	}
	if _, ok := classify.SchemaList("x"); ok {
		t.Fatalf("a string is not a schema list")
	}
	if _, ok := classify.SchemaList([]any{map[string]any{}, 1}); ok {
		t.Fatalf("scalars are not schemas")
	}
	if !classify.Of(m).Any() || classify.Of(1).Any() {
		t.Fatalf("Any mismatch")
	}
}
