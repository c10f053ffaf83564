// Package gen emits Go type declarations for JSON Schema documents.
//
// The schema is compiled first, so generation fails with the same
// configuration errors as compile.Compile. Every definition reached through
// $ref becomes a named type; string enums become a named string type with
// one constant per value.
package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/reoring/schemamatch/compile"
	"github.com/reoring/schemamatch/internal/classify"
	js "github.com/reoring/schemamatch/jsonschema"
	"github.com/reoring/schemamatch/source"
)

const (
	defaultPackage = "schema"
	headerComment  = "Code generated by schemamatch gen. DO NOT EDIT."
	idAny          = "any"
	tagJSON        = "json"
)

// Options controls generation.
type Options struct {
	// Package is the package clause of the output. Defaults to "schema".
	Package string
	// TypeName names the root type. Required.
	TypeName string
	// Definitions backs $ref resolution as in compile.Options.
	Definitions map[string]any
}

// Generate returns formatted Go source declaring opts.TypeName for schema.
func Generate(schema any, opts Options) ([]byte, error) {
	if opts.TypeName == "" {
		return nil, fmt.Errorf("gen: type name is required")
	}
	if _, err := compile.Compile(schema, opts.Definitions); err != nil {
		return nil, err
	}
	root, err := source.Normalize(schema)
	if err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	defs, err := definitionsFor(root, opts.Definitions)
	if err != nil {
		return nil, err
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = defaultPackage
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(headerComment)

	g := &generator{f: f, defs: defs, refs: map[string]string{}, used: map[string]bool{}}
	rootName := g.unique(GoName(opts.TypeName))
	g.declare(rootName, root)
	for len(g.queue) > 0 {
		name := g.queue[0]
		g.queue = g.queue[1:]
		g.declare(g.refs[name], defs[name])
	}

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	return buf.Bytes(), nil
}

func definitionsFor(root any, explicit map[string]any) (map[string]any, error) {
	if explicit != nil {
		d, err := source.Normalize(explicit)
		if err != nil {
			return nil, fmt.Errorf("gen: definitions: %w", err)
		}
		m, _ := d.(map[string]any)
		return m, nil
	}
	if m, ok := root.(map[string]any); ok {
		d, _ := m["definitions"].(map[string]any)
		return d, nil
	}
	return nil, nil
}

// shape tells the struct builder whether an optional field needs a pointer.
type shape int

const (
	shapeAny shape = iota
	shapeScalar
	shapeStruct
	shapeNamed
	shapeSlice
	shapeMap
	shapePointer
)

func (s shape) pointable() bool {
	return s == shapeScalar || s == shapeStruct || s == shapeNamed
}

type generator struct {
	f    *jen.File
	defs map[string]any
	// refs maps definition names to their Go type names.
	refs  map[string]string
	queue []string
	used  map[string]bool
}

func (g *generator) unique(name string) string {
	out := name
	for i := 2; g.used[out]; i++ {
		out = fmt.Sprintf("%s%d", name, i)
	}
	g.used[out] = true
	return out
}

func (g *generator) declare(name string, node any) {
	m, _ := node.(map[string]any)
	if desc, ok := m["description"].(string); ok && desc != "" {
		g.f.Comment(desc)
	}
	if vals, ok := stringEnum(m); ok {
		g.f.Type().Id(name).String()
		g.f.Const().DefsFunc(func(grp *jen.Group) {
			for _, v := range vals {
				grp.Id(g.unique(name + GoName(v))).Id(name).Op("=").Lit(v)
			}
		})
		g.f.Line()
		return
	}
	code, _ := g.typeOf(node)
	g.f.Type().Id(name).Add(code)
	g.f.Line()
}

func (g *generator) ref(ref string) string {
	name, _ := js.RefName(ref)
	if goName, ok := g.refs[name]; ok {
		return goName
	}
	goName := g.unique(GoName(name))
	g.refs[name] = goName
	g.queue = append(g.queue, name)
	return goName
}

func (g *generator) typeOf(node any) (jen.Code, shape) {
	m, ok := node.(map[string]any)
	if !ok {
		return jen.Id(idAny), shapeAny
	}
	cat := classify.Of(m)
	switch {
	case cat.Ref:
		return jen.Id(g.ref(m["$ref"].(string))), shapeNamed
	case cat.Enum:
		if _, ok := stringEnum(m); ok {
			return jen.String(), shapeScalar
		}
		return jen.Id(idAny), shapeAny
	case cat.Properties || cat.Required:
		return g.structOf(m), shapeStruct
	case cat.AllOf:
		if merged, ok := mergeObjects(m["allOf"].([]any)); ok {
			return g.structOf(merged), shapeStruct
		}
		return jen.Id(idAny), shapeAny
	case cat.AnyOf:
		return jen.Id(idAny), shapeAny
	case cat.Type:
		return g.typeKeyword(m)
	case cat.Items:
		elem, _ := g.typeOf(m["items"])
		return jen.Index().Add(elem), shapeSlice
	}
	return jen.Id(idAny), shapeAny
}

func (g *generator) typeKeyword(m map[string]any) (jen.Code, shape) {
	var name string
	nullable := false
	switch t := m["type"].(type) {
	case string:
		name = t
	case []any:
		var rest []string
		for _, e := range t {
			if s, _ := e.(string); s == "null" {
				nullable = true
			} else {
				rest = append(rest, s)
			}
		}
		if len(rest) != 1 {
			return jen.Id(idAny), shapeAny
		}
		name = rest[0]
	}
	code, sh := g.primitive(name, m)
	if nullable && sh.pointable() {
		return jen.Op("*").Add(code), shapePointer
	}
	return code, sh
}

func (g *generator) primitive(name string, m map[string]any) (jen.Code, shape) {
	switch name {
	case "string":
		return jen.String(), shapeScalar
	case "integer":
		return jen.Int64(), shapeScalar
	case "number":
		return jen.Float64(), shapeScalar
	case "boolean":
		return jen.Bool(), shapeScalar
	case "array":
		if _, ok := m["items"].(map[string]any); ok {
			elem, _ := g.typeOf(m["items"])
			return jen.Index().Add(elem), shapeSlice
		}
		return jen.Index().Id(idAny), shapeSlice
	case "object":
		return jen.Map(jen.String()).Id(idAny), shapeMap
	}
	return jen.Id(idAny), shapeAny
}

func (g *generator) structOf(m map[string]any) jen.Code {
	props, _ := m["properties"].(map[string]any)
	required := map[string]bool{}
	for _, k := range stringList(m["required"]) {
		required[k] = true
	}
	keys := make([]string, 0, len(props)+len(required))
	for k := range props {
		keys = append(keys, k)
	}
	for k := range required {
		if _, ok := props[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	taken := map[string]bool{}
	fields := make([]jen.Code, 0, len(keys))
	for _, k := range keys {
		fieldName := GoName(k)
		for i := 2; taken[fieldName]; i++ {
			fieldName = fmt.Sprintf("%s%d", GoName(k), i)
		}
		taken[fieldName] = true

		var code jen.Code = jen.Id(idAny)
		sh := shapeAny
		if p, ok := props[k]; ok {
			code, sh = g.typeOf(p)
		}
		tag := k
		if !required[k] {
			tag += ",omitempty"
			if sh.pointable() {
				code = jen.Op("*").Add(code)
			}
		}
		fields = append(fields, jen.Id(fieldName).Add(code).Tag(map[string]string{tagJSON: tag}))
	}
	return jen.Struct(fields...)
}

// mergeObjects folds an allOf of plain object schemas into one node.
func mergeObjects(members []any) (map[string]any, bool) {
	props := map[string]any{}
	var required []any
	for _, mem := range members {
		m, ok := mem.(map[string]any)
		if !ok {
			return nil, false
		}
		cat := classify.Of(m)
		if cat.Ref || !(cat.Properties || cat.Required) {
			return nil, false
		}
		if p, ok := m["properties"].(map[string]any); ok {
			for k, v := range p {
				props[k] = v
			}
		}
		for _, k := range stringList(m["required"]) {
			required = append(required, k)
		}
	}
	return map[string]any{"properties": props, "required": required}, true
}

func stringEnum(m map[string]any) ([]string, bool) {
	l, ok := m["enum"].([]any)
	if !ok || len(l) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func stringList(v any) []string {
	l, _ := v.([]any)
	out := make([]string, 0, len(l))
	for _, e := range l {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var initialisms = map[string]bool{
	"api": true, "http": true, "id": true, "json": true,
	"uri": true, "url": true, "uuid": true,
}

// GoName turns a JSON property or definition name into an exported Go
// identifier: request_id becomes RequestID.
func GoName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	b := &strings.Builder{}
	for _, p := range parts {
		if initialisms[strings.ToLower(p)] {
			b.WriteString(strings.ToUpper(p))
			continue
		}
		r, n := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[n:])
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		out = "X" + out
	}
	return out
}
