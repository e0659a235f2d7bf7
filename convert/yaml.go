package convert

import (
	"github.com/goccy/go-yaml"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

// ToYAML renders doc's body as YAML with the same mapping rules as
// ToJSON. NaN and infinite floats stay as YAML's .nan and .inf forms.
func ToYAML(doc *ir.Document, opts ...Option) ([]byte, error) {
	root, err := buildTree(doc, newConfig(opts), func(f float64) any { return f })
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(toMapSlice(root))
}

// toMapSlice rewrites the neutral tree into yaml.MapSlice nodes, which
// marshal with their pair order intact.
func toMapSlice(m *mapping) yaml.MapSlice {
	ms := make(yaml.MapSlice, len(m.keys))
	for i, key := range m.keys {
		ms[i] = yaml.MapItem{Key: key, Value: yamlValue(m.vals[i])}
	}
	return ms
}

func yamlValue(v any) any {
	switch t := v.(type) {
	case *mapping:
		return toMapSlice(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}
		return out
	}
	return v
}
