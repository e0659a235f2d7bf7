package c14n

import (
	"github.com/dweve/hedl-format/go-hedl/ir"
)

// MustString canonicalizes doc and panics on error. Intended for tests and
// for documents built programmatically from known-good values.
func MustString(doc *ir.Document) string {
	s, err := Canonicalize(doc)
	if err != nil {
		panic(err)
	}
	return s
}
