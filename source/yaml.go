package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAML decodes the first document of a YAML stream.
func YAML(b []byte) (any, error) {
	docs, err := YAMLDocuments(b)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("source: empty YAML document")
	}
	return docs[0], nil
}

// YAMLDocuments decodes every document of a multi-document YAML stream.
func YAMLDocuments(b []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var out []any
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source: invalid YAML: %w", err)
		}
		out = append(out, yamlNormalizeValue(node))
	}
	return out, nil
}

// yamlAnyToStringMap converts YAML-decoded maps (which may be map[any]any)
// into JSON-like map[string]any recursively. Non-string keys are rendered
// with fmt.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
