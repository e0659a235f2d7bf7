// Package parse reads HEDL text into the document model.
//
// # Usage
//
//	doc, err := parse.Parse(input)
//
//	// Lenient reference handling and custom limits
//	doc, err := parse.Parse(input,
//		parse.Strict(false),
//		parse.MaxNodes(1_000_000),
//	)
//
// Parsing runs in two phases. The first pass builds the header tables and the
// body tree line by line, enforcing resource limits as it goes. The second
// pass resolves references against the row IDs the body declared; strictness
// only affects this phase.
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/ir - Document model
//   - github.com/dweve/hedl-format/go-hedl/c14n - Canonical serialization
package parse
