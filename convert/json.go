package convert

import (
	"bytes"
	"math"

	json "github.com/goccy/go-json"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

// ToJSON renders doc's body as indented JSON. Object keys keep document
// order, matrix lists become arrays of column-keyed row objects with
// nested children under their child type name, references render as
// "@Type:id" strings, expressions as "$(...)" strings, and tensors as
// nested arrays. NaN and infinite floats become null.
func ToJSON(doc *ir.Document, opts ...Option) ([]byte, error) {
	root, err := buildTree(doc, newConfig(opts), jsonFloat)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(root, "", "  ")
}

func jsonFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func (m *mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
