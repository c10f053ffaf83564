package compile

import "fmt"

// Options controls compilation.
type Options struct {
	// Definitions backs #/definitions/<name> references. When nil, the
	// definitions member of the schema node seeds the lookup.
	Definitions map[string]any
}

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// ignoredKeywords are recognised JSON Schema keywords that compile accepts
// but does not enforce.
var ignoredKeywords = []string{
	"additionalItems",
	"additionalProperties",
	"const",
	"contains",
	"dependencies",
	"else",
	"exclusiveMaximum",
	"exclusiveMinimum",
	"format",
	"if",
	"maxItems",
	"maxLength",
	"maxProperties",
	"maximum",
	"minItems",
	"minLength",
	"minProperties",
	"minimum",
	"multipleOf",
	"not",
	"pattern",
	"patternProperties",
	"propertyNames",
	"then",
	"uniqueItems",
}

func warnIgnored(m map[string]any, at string, d *simpleDiag) {
	for _, k := range ignoredKeywords {
		if _, ok := m[k]; ok {
			d.warnf("keyword %q at %s is not enforced", k, at)
		}
	}
}
