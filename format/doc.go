// Package format names the output formats the tooling can emit.
//
// # Usage
//
//	f, err := format.ParseFormat("json")
//	if err != nil { ... }
//	out := path + f.Suffix()
//
// Format implements encoding.TextMarshaler and TextUnmarshaler, so it can
// be used directly as a command-line option type.
//
// # Related Packages
//
//   - github.com/dweve/hedl-format/go-hedl/c14n - canonical text output
//   - github.com/dweve/hedl-format/go-hedl/convert - JSON and YAML output
package format
