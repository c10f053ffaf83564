package toschema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/compile"
	"github.com/reoring/schemamatch/dsl"
	js "github.com/reoring/schemamatch/jsonschema"
	"github.com/reoring/schemamatch/toschema"
)

func schemaJSON(t *testing.T, v schemamatch.Validator) string {
	t.Helper()
	s, err := toschema.ToSchema(v)
	require.NoError(t, err)
	return s.String()
}

func TestToSchema_Primitives(t *testing.T) {
	cases := []struct {
		v    schemamatch.Validator
		want string
	}{
		{dsl.Any(), `{}`},
		{dsl.String(), `{"type":"string"}`},
		{dsl.Number(), `{"type":"number"}`},
		{dsl.Bool(), `{"type":"boolean"}`},
		{dsl.Null(), `{"type":"null"}`},
		{dsl.Object(), `{"type":"object"}`},
		{dsl.Array(), `{"type":"array"}`},
		{dsl.Guard("even", func(any) bool { return true }), `{}`},
	}
	for _, c := range cases {
		assert.JSONEq(t, c.want, schemaJSON(t, c.v), c.v.String())
	}
}

func TestToSchema_Literals(t *testing.T) {
	assert.JSONEq(t, `{"type":"string","enum":["a"]}`, schemaJSON(t, dsl.Literal("a")))
	assert.JSONEq(t, `{"type":"number","enum":[5]}`, schemaJSON(t, dsl.Literal(5)))
	assert.JSONEq(t, `{"type":"boolean","enum":[true]}`, schemaJSON(t, dsl.Literal(true)))
	assert.JSONEq(t, `{"type":"null","enum":[null]}`, schemaJSON(t, dsl.Literal(nil)))
	assert.JSONEq(t, `{}`, schemaJSON(t, dsl.Literals("a", "b")))
	assert.JSONEq(t, `{"enum":[]}`, schemaJSON(t, dsl.Literals()))
}

func TestToSchema_Structures(t *testing.T) {
	shape := dsl.Shape().
		Field("b", dsl.String()).
		Field("a", dsl.ArrayOf(dsl.Number())).
		MustBuild()
	assert.JSONEq(t, `{
		"type":"object",
		"properties":{"a":{"type":"array","items":{"type":"number"}},"b":{"type":"string"}},
		"required":["b","a"]
	}`, schemaJSON(t, shape))

	partial := dsl.PartialOf(map[string]schemamatch.Validator{"x": dsl.Bool()})
	assert.JSONEq(t, `{"type":"object","properties":{"x":{"type":"boolean"}}}`, schemaJSON(t, partial))

	assert.JSONEq(t, `{"oneOf":[{"type":"string"},{"type":"null"}]}`, schemaJSON(t, dsl.Or(dsl.String(), dsl.Null())))
	assert.JSONEq(t, `{"allOf":[{"type":"object"},{"type":"object","properties":{"k":{}},"required":["k"]}]}`,
		schemaJSON(t, dsl.And(dsl.Object(), dsl.ShapeOf(map[string]schemamatch.Validator{"k": dsl.Any()}))))

	mapped := dsl.Map(dsl.String(), func(v any) (any, error) { return len(v.(string)), nil })
	assert.JSONEq(t, `{"type":"string"}`, schemaJSON(t, mapped))
	assert.JSONEq(t, `{"type":"string"}`, schemaJSON(t, dsl.Describe(dsl.String(), "name")))
}

func TestToSchema_Named(t *testing.T) {
	currency := dsl.Named("Currency", dsl.Some(dsl.Literal("USD"), dsl.Literal("EUR")))
	v := dsl.ArrayOf(dsl.Or(currency, currency))
	s, err := toschema.ToSchema(v)
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/Currency", s.Items.OneOf[0].Ref)
	require.Len(t, s.Definitions, 1)
	assert.Len(t, s.Definitions["Currency"].OneOf, 2)

	// definitions live on the root only
	root, err := toschema.ToSchema(currency)
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/Currency", root.Ref)
	assert.Nil(t, root.Definitions["Currency"].Definitions)
}

func TestToSchema_NameConflict(t *testing.T) {
	v := dsl.And(dsl.Named("X", dsl.String()), dsl.Named("X", dsl.Number()))
	_, err := toschema.ToSchema(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schemamatch.ErrDefinitionConflict))

	same := dsl.And(dsl.Named("X", dsl.String()), dsl.Named("X", dsl.String()))
	_, err = toschema.ToSchema(same)
	require.NoError(t, err)
}

func TestToSchema_Recursive(t *testing.T) {
	var node schemamatch.Validator
	node = dsl.Named("node", dsl.Lazy(func() schemamatch.Validator {
		return dsl.Shape().
			Field("value", dsl.Number()).
			Field("next", dsl.Or(dsl.Null(), node)).Optional().
			MustBuild()
	}))
	s, err := toschema.ToSchema(node)
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/node", s.Ref)
	require.Contains(t, s.Definitions, "node")

	back := compile.MustCompile(s, nil)
	ctx := context.Background()
	assert.True(t, schemamatch.Is(ctx, back, map[string]any{"value": 1, "next": map[string]any{"value": 2, "next": nil}}))
	assert.False(t, schemamatch.Is(ctx, back, map[string]any{"value": 1, "next": map[string]any{}}))
}

type foreign struct{ kind schemamatch.Kind }

func (f foreign) Parse(_ context.Context, v any) (any, error) { return v, nil }
func (f foreign) Kind() schemamatch.Kind                      { return f.kind }
func (f foreign) String() string                              { return "foreign" }

func TestToSchema_Unsupported(t *testing.T) {
	for _, k := range []schemamatch.Kind{schemamatch.KindInvalid, schemamatch.KindShape, schemamatch.KindOr, schemamatch.KindWrapped} {
		_, err := toschema.ToSchema(dsl.ArrayOf(foreign{kind: k}))
		require.Error(t, err, k.String())
		assert.True(t, errors.Is(err, schemamatch.ErrUnsupportedValidator))
		var se *schemamatch.SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "/items", se.Location)
	}

	_, err := toschema.ToSchema(dsl.Lazy(func() schemamatch.Validator { return nil }))
	require.ErrorIs(t, err, schemamatch.ErrUnsupportedValidator)
}

// every kind the library produces has a schema
func TestToSchema_AllKinds(t *testing.T) {
	samples := map[schemamatch.Kind]schemamatch.Validator{
		schemamatch.KindAny:     dsl.Any(),
		schemamatch.KindString:  dsl.String(),
		schemamatch.KindNumber:  dsl.Number(),
		schemamatch.KindBool:    dsl.Bool(),
		schemamatch.KindNull:    dsl.Null(),
		schemamatch.KindObject:  dsl.Object(),
		schemamatch.KindArray:   dsl.Array(),
		schemamatch.KindLiteral: dsl.Literal("x"),
		schemamatch.KindShape:   dsl.ShapeOf(nil),
		schemamatch.KindArrayOf: dsl.ArrayOf(dsl.Any()),
		schemamatch.KindOr:      dsl.Or(dsl.Any(), dsl.Any()),
		schemamatch.KindAnd:     dsl.And(dsl.Any(), dsl.Any()),
		schemamatch.KindNamed:   dsl.Named("n", dsl.Any()),
		schemamatch.KindMapped:  dsl.Map(dsl.Any(), func(v any) (any, error) { return v, nil }),
		schemamatch.KindGuard:   dsl.Guard("g", func(any) bool { return true }),
		schemamatch.KindWrapped: dsl.Describe(dsl.Any(), "d"),
	}
	for _, k := range schemamatch.AllKinds() {
		v, ok := samples[k]
		require.True(t, ok, "no sample for %s", k)
		require.Equal(t, k, v.Kind())
		_, err := toschema.ToSchema(v)
		assert.NoError(t, err, k.String())
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	validators := []schemamatch.Validator{
		dsl.Shape().Field("a", dsl.String()).Field("b", dsl.Literal(3)).Optional().MustBuild(),
		dsl.ArrayOf(dsl.Or(dsl.Literal("x"), dsl.Null())),
		dsl.And(dsl.Object(), dsl.PartialOf(map[string]schemamatch.Validator{"n": dsl.Number()})),
		dsl.Named("Side", dsl.Some(dsl.Literal("Buy"), dsl.Literal("Sell"))),
	}
	inputs := []any{
		nil, "x", "Buy", "Sell", 3, true,
		[]any{"x", nil}, []any{"y"},
		map[string]any{}, map[string]any{"a": "s"}, map[string]any{"a": "s", "b": 3},
		map[string]any{"a": "s", "b": 4}, map[string]any{"n": 1}, map[string]any{"n": "1"},
	}
	for _, v := range validators {
		s, err := toschema.ToSchema(v)
		require.NoError(t, err)
		back, err := compile.Compile(s, nil)
		require.NoError(t, err, s.String())
		for _, in := range inputs {
			assert.Equal(t, schemamatch.Is(ctx, v, in), schemamatch.Is(ctx, back, in), "%s on %v", v, in)
		}
	}
}

func TestRoundTrip_CompiledSchema(t *testing.T) {
	src := map[string]any{
		"type":     "object",
		"required": []any{"side"},
		"properties": map[string]any{
			"side": map[string]any{"$ref": "#/definitions/Side"},
			"size": map[string]any{"type": "integer"},
		},
		"definitions": map[string]any{
			"Side": map[string]any{"type": "string", "enum": []any{"Buy", "Sell"}},
		},
	}
	v := compile.MustCompile(src, nil)
	s, err := toschema.ToSchemaWithOptions(v, toschema.Options{Dialect: toschema.Draft07})
	require.NoError(t, err)
	assert.Equal(t, toschema.Draft07, s.Schema)
	require.Contains(t, s.Definitions, "Side")

	back := compile.MustCompile(s, nil)
	ctx := context.Background()
	for _, in := range []any{
		map[string]any{"side": "Buy"},
		map[string]any{"side": "Sell", "size": 2},
		map[string]any{"side": "Hold"},
		map[string]any{"size": 2},
		map[string]any{"side": "Buy", "size": "2"},
		"Buy",
	} {
		assert.Equal(t, schemamatch.Is(ctx, v, in), schemamatch.Is(ctx, back, in), "%v", in)
	}

	canon, err := js.Canonical(s.Definitions["Side"])
	require.NoError(t, err)
	assert.Equal(t, `{"allOf":[{"type":"string"},{"oneOf":[{"enum":["Buy"],"type":"string"},{"enum":["Sell"],"type":"string"}]}]}`, string(canon))

	// empty alternatives match nothing, and must not widen on the way back
	for _, src := range []string{`{"anyOf":[]}`, `{"oneOf":[]}`, `{"enum":[]}`, `{"type":[]}`} {
		v := compile.MustCompile([]byte(src), nil)
		s, err := toschema.ToSchema(v)
		require.NoError(t, err, src)
		assert.JSONEq(t, `{"enum":[]}`, s.String(), src)

		back := compile.MustCompile(s, nil)
		for _, in := range []any{1, "x", nil, map[string]any{}} {
			assert.False(t, schemamatch.Is(ctx, v, in), "%s on %v", src, in)
			assert.False(t, schemamatch.Is(ctx, back, in), "%s on %v", src, in)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	b, err := toschema.MarshalJSON(dsl.Named("S", dsl.String()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$ref":"#/definitions/S","definitions":{"S":{"type":"string"}}}`, string(b))
}
