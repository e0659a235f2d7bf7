// Package token provides the lexical primitives of the HEDL text format.
//
// It contains the token-shape validators (keys, type names, identifiers,
// references, alias keys), the quote/expression region scanner used for
// comment stripping, the matrix-row tokenizer, tensor literal parsing, and
// the quoting and escaping rules shared with the canonical writer.
//
// # Usage
//
//	// Validate token shapes
//	token.IsKeyToken("user_name") // true
//	token.IsTypeName("User")      // true
//	token.IsIDToken("alice-1")    // true
//
//	// Split a matrix row into cells
//	cells, err := token.SplitRow(`alice,"engineer, sr",42`)
//
//	// Parse a tensor literal
//	t, err := token.ParseTensor("[[1, 2], [3, 4]]")
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/ir - document model
//   - github.com/dweve/hedl-format/go-hedl/parse - parse text to documents
//   - github.com/dweve/hedl-format/go-hedl/c14n - canonical output
package token
