// Package c14n renders IR documents as canonical HEDL text.
//
// Canonical form is deterministic: header directives and object keys are
// sorted, indentation is two spaces, quoting is minimal, repeated cells fold
// to dittos, and count hints are recomputed from the tree. Canonicalizing a
// parsed document and parsing the result again reproduces the same bytes.
//
// # Usage
//
//	// Canonicalize a parsed document
//	doc, err := parse.Parse(input)
//	text, err := c14n.Canonicalize(doc)
//
//	// Stream to a writer with options
//	err := c14n.Write(doc, os.Stdout, c14n.Ditto(false), c14n.WithColors(c14n.NewColors()))
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/ir - document representation
//   - github.com/dweve/hedl-format/go-hedl/parse - parse text to IR
package c14n
