package c14n

import "github.com/dweve/hedl-format/go-hedl/ir"

// Quoting selects when string values are wrapped in quotes.
type Quoting int

const (
	// QuoteMinimal quotes a string only when the bare text would reparse as
	// a different type or break the line structure.
	QuoteMinimal Quoting = iota
	// QuoteAlways quotes every string value.
	QuoteAlways
)

type EncState struct {
	indent        int
	quoting       Quoting
	ditto         bool
	countHints    bool
	sortKeys      bool
	inlineSchemas bool

	Color func(ir.ValueType, ColorAttr, string) string
}

type Option func(*EncState)

// Indent sets the number of spaces per nesting level. Values other than 2
// produce output the parser rejects; the knob exists for display purposes.
func Indent(n int) Option {
	return func(es *EncState) { es.indent = n }
}

func Quote(q Quoting) Option {
	return func(es *EncState) { es.quoting = q }
}

// Ditto controls folding of repeated row values into the "^" marker.
func Ditto(v bool) Option {
	return func(es *EncState) { es.ditto = v }
}

// CountHints controls the "(N)" counts on %STRUCT directives and the "[N]"
// child-count prefixes on rows.
func CountHints(v bool) Option {
	return func(es *EncState) { es.countHints = v }
}

func SortKeys(v bool) Option {
	return func(es *EncState) { es.sortKeys = v }
}

// InlineSchemas emits column lists on list declarations instead of %STRUCT
// header directives.
func InlineSchemas(v bool) Option {
	return func(es *EncState) { es.inlineSchemas = v }
}

func WithColors(c *Colors) Option {
	return func(es *EncState) { es.Color = c.Color }
}
