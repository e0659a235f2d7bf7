package parse

import "github.com/dweve/hedl-format/go-hedl/ir"

// Inference resolves unquoted scalar text into typed values using the
// document inference ladder: null, booleans, tensors, references,
// expressions, alias lookups, numbers, and finally strings. Alias
// expansions are cached at construction, so one Inference should be
// reused across many values.
//
// Errors carry no source position; callers that track lines attach their
// own. Quoted text is not handled here: strip the quotes with the token
// package and use the result as a string directly.
type Inference struct {
	inf *inferer
}

// NewInference builds an Inference over an alias table. A nil table
// means no aliases are defined.
func NewInference(aliases *ir.StrMap) *Inference {
	if aliases == nil {
		aliases = ir.NewStrMap()
	}
	return &Inference{inf: newInferer(aliases)}
}

// Value parses one unquoted scalar.
func (n *Inference) Value(s string) (ir.Value, error) {
	return n.inf.kv(s, 0)
}
