// Package gomap provides conversion between matrix lists and Go struct
// slices.
//
// Struct fields bind to schema columns through hedl tags, the same tag
// grammar hedl-codegen emits:
//
//	type Team struct {
//		ID   string  `hedl:"id"`
//		Name string  `hedl:"name"`
//		Size float64 `hedl:"size"`
//
//		Member []Member `hedl:"Member,children"`
//	}
//
// # Usage
//
//	// Decode the rows under a top-level key
//	var teams []Team
//	err := gomap.FromDocument(doc, "teams", &teams)
//
//	// Encode a slice back into a matrix list
//	list, err := gomap.ToList("Team", teams)
//
// Untagged fields are ignored. A tagged column missing from the list's
// schema leaves the field at its zero value. Null cells decode to zero
// values; nil pointer fields encode to null cells.
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/ir - document model
//   - github.com/dweve/hedl-format/go-hedl/parse - text to document
package gomap
