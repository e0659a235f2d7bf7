package parse

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// inferer resolves unquoted text into typed values. Alias expansions are
// pre-computed once per parse so repeated %name lookups stay cheap.
type inferer struct {
	aliases *ir.StrMap
	cache   map[string]ir.Value
}

func newInferer(aliases *ir.StrMap) *inferer {
	cache := make(map[string]ir.Value, aliases.Len())
	for i, key := range aliases.Keys {
		cache[key] = expandAlias(aliases.Values[i])
	}
	return &inferer{aliases: aliases, cache: cache}
}

// cellCtx carries matrix position state. A nil cellCtx means key-value
// context, where ditto has no meaning and IDs are not validated.
type cellCtx struct {
	columnIndex int
	prevRow     []ir.Value
}

func (c *cellCtx) isIDColumn() bool { return c != nil && c.columnIndex == 0 }

// kv infers a key-value payload.
func (in *inferer) kv(s string, line int) (ir.Value, error) {
	return in.infer(s, nil, line)
}

// cell infers one matrix cell. prevRow enables ditto and is nil for the
// first row of a list.
func (in *inferer) cell(s string, columnIndex int, prevRow []ir.Value, line int) (ir.Value, error) {
	return in.infer(s, &cellCtx{columnIndex: columnIndex, prevRow: prevRow}, line)
}

// infer applies the inference ladder: null, ditto, tensor, reference,
// expression, alias, boolean, number, and finally string.
func (in *inferer) infer(s string, ctx *cellCtx, line int) (ir.Value, error) {
	s = strings.TrimSpace(s)

	switch s {
	case "~":
		if ctx.isIDColumn() {
			return ir.Value{}, ir.NewError(ir.KindSemantic, line, "null (~) not permitted in ID column")
		}
		return ir.Null(), nil
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	case token.Ditto:
		if ctx == nil {
			return ir.FromString(token.Ditto), nil
		}
		return dittoValue(ctx, line)
	}

	if s != "" {
		switch s[0] {
		case '[':
			// No fallthrough to string: a '['-leading token is a tensor
			// or an error.
			t, err := token.ParseTensor(s)
			if err != nil {
				if errors.Is(err, token.ErrLimit) {
					return ir.Value{}, ir.NewError(ir.KindSecurity, line, err.Error())
				}
				return ir.Value{}, ir.NewError(ir.KindSyntax, line, err.Error())
			}
			return ir.FromTensor(t), nil
		case '@':
			typeName, id, err := token.ParseReference(s)
			if err != nil {
				return ir.Value{}, ir.NewError(ir.KindSyntax, line, err.Error())
			}
			return ir.FromRef(typeName, id), nil
		case '$':
			if len(s) > 1 && s[1] == '(' {
				end, err := token.ScanExpression(s)
				if err != nil {
					return ir.Value{}, ir.NewError(ir.KindSyntax, line, err.Error())
				}
				return ir.FromExpr(s[2 : end-1]), nil
			}
		case '%':
			key := s[1:]
			if v, ok := in.cache[key]; ok {
				return v, nil
			}
			return ir.Value{}, ir.Errorf(ir.KindAlias, line, "undefined alias: %%%s", key)
		}
	}

	if v, ok := tryNumber(s); ok {
		return v, nil
	}

	if ctx.isIDColumn() && !token.IsIDToken(s) {
		return ir.Value{}, ir.Errorf(ir.KindSemantic, line, "invalid ID format '%s' - must start with letter or underscore", s)
	}
	return ir.FromString(s), nil
}

func dittoValue(ctx *cellCtx, line int) (ir.Value, error) {
	if ctx.isIDColumn() {
		return ir.Value{}, ir.NewError(ir.KindSemantic, line, "ditto (^) not permitted in ID column")
	}
	if ctx.prevRow == nil {
		return ir.Value{}, ir.NewError(ir.KindSemantic, line, "ditto (^) not allowed in first row of list")
	}
	if ctx.columnIndex >= len(ctx.prevRow) {
		return ir.Value{}, ir.NewError(ir.KindSemantic, line, "ditto (^) column index out of range")
	}
	return ctx.prevRow[ctx.columnIndex], nil
}

// expandAlias infers the replacement text of an alias. Aliases expand to
// booleans, numbers, or strings; they never re-enter the full ladder, so an
// alias cannot name another alias or a reference.
func expandAlias(s string) ir.Value {
	switch s {
	case "true":
		return ir.FromBool(true)
	case "false":
		return ir.FromBool(false)
	}
	if v, ok := tryNumber(s); ok {
		return v
	}
	return ir.FromString(s)
}

// tryNumber parses decimal integers and floats. The shape is checked
// before any strconv call: optional minus, digits, at most one dotted
// fraction. Exponent, underscore, and hex forms stay strings, as does
// any value out of range for the target type.
func tryNumber(s string) (ir.Value, bool) {
	s = strings.TrimSpace(s)
	if !isNumberShape(s) {
		return ir.Value{}, false
	}
	if strings.ContainsRune(s, '.') {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ir.Value{}, false
		}
		return ir.FromFloat(f), true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ir.Value{}, false
	}
	return ir.FromInt(n), true
}

// isNumberShape reports whether s matches -?digits(.digits)?.
func isNumberShape(s string) bool {
	i := 0
	if strings.HasPrefix(s, "-") {
		i = 1
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	start = i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > start && i == len(s)
}

// inferQuoted wraps quoted text as a string with no further inference. The
// lexers have already processed escapes by the time this runs.
func inferQuoted(s string) ir.Value {
	return ir.FromString(s)
}
