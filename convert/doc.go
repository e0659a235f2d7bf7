// Package convert exports documents to JSON and YAML.
//
// Both bridges consume the document through the ir.Walk visitor and never
// mutate it. The output is a plain data tree by default: objects become
// mappings in document order, matrix lists become arrays of row objects
// keyed by their schema columns, and nested child rows appear under their
// child type name inside the owning row.
//
// References are not resolved; they render as their "@Type:id" text.
// Expressions render as "$(...)" strings and tensors as nested arrays.
//
// # Example: JSON
//
//	doc, err := parse.ParseString(input)
//	if err != nil {
//		return err
//	}
//	out, err := convert.ToJSON(doc)
//
// # Example: carrying type metadata
//
//	out, err := convert.ToYAML(doc, convert.Metadata(true))
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/ir - document model and Walk
//   - github.com/dweve/hedl-format/go-hedl/c14n - canonical text output
package convert
