package jsonschema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Schema is the JSON Schema representation produced by the validator walker.
// It covers the keyword subset both directions understand plus a few
// annotations that survive a round trip unchanged.
type Schema struct {
	Schema      string `json:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Use Type for a single type, or Types for multiple types; never both.
	Type  string   `json:"-"`
	Types []string `json:"-"`

	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	// Enum is marshalled by hand: a non-nil empty Enum is written as
	// "enum": [], which matches nothing, while nil omits the keyword.
	Enum []any `json:"-"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Composition
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Definitions Definitions `json:"definitions,omitempty"`
}

// String returns a short JSON rendering for debugging.
func (s *Schema) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("<jsonschema: %v>", err)
	}
	return string(b)
}

func (s *Schema) basicChecks() error {
	if s.Type != "" && s.Types != nil {
		return errors.New("jsonschema: both Type and Types are set; at most one should be")
	}
	return nil
}

type schemaWithoutMethods Schema // doesn't implement json.{Unm,M}arshaler

func (s *Schema) MarshalJSON() ([]byte, error) {
	if err := s.basicChecks(); err != nil {
		return nil, err
	}
	// Marshal either Type or Types as "type".
	var typ any
	switch {
	case s.Type != "":
		typ = s.Type
	case s.Types != nil:
		typ = s.Types
	}
	var enum any
	if s.Enum != nil {
		enum = s.Enum
	}
	ms := struct {
		Type any `json:"type,omitempty"`
		Enum any `json:"enum,omitempty"`
		*schemaWithoutMethods
	}{
		Type:                 typ,
		Enum:                 enum,
		schemaWithoutMethods: (*schemaWithoutMethods)(s),
	}
	return json.Marshal(ms)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	// A JSON boolean is a valid schema.
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if !b {
			return errors.New("jsonschema: the false schema is not supported")
		}
		// true is the empty schema, which validates everything.
		*s = Schema{}
		return nil
	}

	ms := struct {
		Type json.RawMessage `json:"type,omitempty"`
		Enum *[]any          `json:"enum,omitempty"`
		*schemaWithoutMethods
	}{
		schemaWithoutMethods: (*schemaWithoutMethods)(s),
	}
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	if ms.Enum != nil {
		s.Enum = *ms.Enum
		if s.Enum == nil {
			s.Enum = []any{}
		}
	}
	// Unmarshal "type" as either Type or Types.
	var err error
	if t := bytes.TrimSpace(ms.Type); len(t) > 0 {
		switch t[0] {
		case '"':
			err = json.Unmarshal(t, &s.Type)
		case '[':
			err = json.Unmarshal(t, &s.Types)
		default:
			err = fmt.Errorf("jsonschema: invalid type: %q", t)
		}
	}
	return err
}
