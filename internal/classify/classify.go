// Package classify decides which JSON Schema clauses a raw schema node
// carries. Categories are independent; one node may carry several.
package classify

// Categories holds one flag per recognised clause.
type Categories struct {
	Type       bool // "type" key present
	Properties bool // "properties" is an object
	Required   bool // "required" is an array of strings
	Items      bool // "items" is an object or an array (tuple form)
	Enum       bool // "enum" is an array of scalars
	Ref        bool // "$ref" is a string
	AnyOf      bool // "anyOf" or "oneOf" is an array of schema objects
	AllOf      bool // "allOf" is an array of schema objects
	// List marks a bare array node, read as an implicit allOf.
	List bool
}

// Any reports whether at least one clause matched.
func (c Categories) Any() bool {
	return c.Type || c.Properties || c.Required || c.Items || c.Enum || c.Ref || c.AnyOf || c.AllOf || c.List
}

// Of classifies node. It never panics; values that are not objects or
// arrays match nothing.
func Of(node any) Categories {
	if l, ok := node.([]any); ok {
		return Categories{List: true, AllOf: allObjects(l)}
	}
	m, ok := node.(map[string]any)
	if !ok {
		return Categories{}
	}
	var c Categories
	_, c.Type = m["type"]
	_, c.Properties = m["properties"].(map[string]any)
	c.Required = stringList(m["required"])
	switch m["items"].(type) {
	case map[string]any, []any:
		c.Items = true
	}
	c.Enum = scalarList(m["enum"])
	_, c.Ref = m["$ref"].(string)
	c.AnyOf = schemaList(m["anyOf"]) || schemaList(m["oneOf"])
	c.AllOf = schemaList(m["allOf"])
	return c
}

// SchemaList returns v as a list of schema nodes when every entry is an
// object or an array.
func SchemaList(v any) ([]any, bool) {
	l, ok := v.([]any)
	if !ok || !allObjects(l) {
		return nil, false
	}
	return l, true
}

func stringList(v any) bool {
	l, ok := v.([]any)
	if !ok {
		_, ok = v.([]string)
		return ok
	}
	for _, e := range l {
		if _, ok := e.(string); !ok {
			return false
		}
	}
	return true
}

func scalarList(v any) bool {
	l, ok := v.([]any)
	if !ok {
		return false
	}
	for _, e := range l {
		switch e.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func schemaList(v any) bool {
	_, ok := SchemaList(v)
	return ok
}

func allObjects(l []any) bool {
	for _, e := range l {
		switch e.(type) {
		case map[string]any, []any:
		default:
			return false
		}
	}
	return true
}
