package stream

import "github.com/dweve/hedl-format/go-hedl/ir"

// Header is the directive section of a streamed document. It is fully
// consumed while the Decoder is built, so every field is available
// before the first body event.
type Header struct {
	Version ir.Version
	Aliases *ir.StrMap
	Structs *ir.SchemaTable
	Nests   []ir.Nest
}

// SchemaOf returns the declared columns of a type.
func (h *Header) SchemaOf(typeName string) ([]string, bool) {
	s, ok := h.Structs.Get(typeName)
	if !ok {
		return nil, false
	}
	return s.Columns, true
}

// ChildTypeOf returns the child type the parent nests via %NEST.
func (h *Header) ChildTypeOf(parent string) (string, bool) {
	for _, n := range h.Nests {
		if n.Parent == parent {
			return n.Child, true
		}
	}
	return "", false
}
