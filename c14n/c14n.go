package c14n

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// maxNestingDepth bounds recursion over objects and nested rows.
const maxNestingDepth = 1000

const tripleQuote = `"""`

// Canonicalize renders doc as canonical text.
func Canonicalize(doc *ir.Document, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Write(doc, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders doc to w. With no options the output is the canonical form:
// two-space indentation, sorted header directives and object keys, minimal
// quoting, ditto folding, and count hints carried through.
func Write(doc *ir.Document, w io.Writer, opts ...Option) error {
	es := &EncState{
		indent:     2,
		ditto:      true,
		countHints: true,
		sortKeys:   true,
	}
	for _, opt := range opts {
		opt(es)
	}
	cw := &canonWriter{w: w, es: es}
	return cw.writeDocument(doc)
}

type canonWriter struct {
	w  io.Writer
	es *EncState
}

func (cw *canonWriter) writeString(s string) error {
	_, err := io.WriteString(cw.w, s)
	return err
}

func (cw *canonWriter) writeDirective(name, rest string) error {
	return cw.writeString(applyColor(cw.es, ir.StringType, DirectiveColor, name+":") + " " + rest + "\n")
}

func (cw *canonWriter) writeDocument(doc *ir.Document) error {
	if err := cw.writeDirective("%VERSION", doc.Version.String()); err != nil {
		return err
	}

	aliasKeys := append([]string(nil), doc.Aliases.Keys...)
	sort.Strings(aliasKeys)
	for _, k := range aliasKeys {
		if !token.IsKeyToken(k) {
			return ir.Errorf(ir.KindSemantic, 0, "alias key '%s' is not a valid identifier", k)
		}
		v, _ := doc.Aliases.Get(k)
		if strings.IndexFunc(v, func(r rune) bool { return r < 0x20 && r != '\t' }) >= 0 {
			return ir.Errorf(ir.KindSemantic, 0, "alias '%%%s' value contains a line break or control character", k)
		}
		if err := cw.writeDirective("%ALIAS", "%"+k+": "+token.QuoteKV(v)); err != nil {
			return err
		}
	}

	if !cw.es.inlineSchemas {
		if err := cw.writeStructs(doc); err != nil {
			return err
		}
	}

	nests := append([]ir.Nest(nil), doc.Nests...)
	sort.Slice(nests, func(i, j int) bool {
		if nests[i].Parent != nests[j].Parent {
			return nests[i].Parent < nests[j].Parent
		}
		return nests[i].Child < nests[j].Child
	})
	for _, n := range nests {
		if err := cw.writeDirective("%NEST", n.Parent+" > "+n.Child); err != nil {
			return err
		}
	}

	if err := cw.writeString(applyColor(cw.es, ir.StringType, SepColor, "---") + "\n"); err != nil {
		return err
	}
	return cw.writeItems(doc.Root, 0)
}

// writeStructs emits one %STRUCT directive per type, sorted by name. Types
// declared only through inline schemas in the source are included, and the
// advisory counts are recomputed from the actual row totals.
func (cw *canonWriter) writeStructs(doc *ir.Document) error {
	schemas := map[string][]string{}
	var names []string
	for _, s := range doc.Structs.Schemas {
		if _, ok := schemas[s.TypeName]; !ok {
			schemas[s.TypeName] = s.Columns
			names = append(names, s.TypeName)
		}
	}
	counts := map[string]int{}
	collectListTypes(doc.Root, schemas, &names, counts)
	sort.Strings(names)

	for _, tn := range names {
		cols := strings.Join(schemas[tn], ",")
		n, counted := counts[tn]
		var rest string
		if counted && cw.es.countHints {
			rest = fmt.Sprintf("%s (%d): [%s]", tn, n, cols)
		} else {
			rest = tn + ": [" + cols + "]"
		}
		if err := cw.writeDirective("%STRUCT", rest); err != nil {
			return err
		}
	}
	return nil
}

func collectListTypes(o *ir.Object, schemas map[string][]string, names *[]string, counts map[string]int) {
	for _, it := range o.Items {
		switch it.Kind {
		case ir.ItemList:
			l := it.List
			if _, ok := schemas[l.TypeName]; !ok {
				schemas[l.TypeName] = l.Schema
				*names = append(*names, l.TypeName)
			}
			counts[l.TypeName] += len(l.Rows)
		case ir.ItemObject:
			collectListTypes(it.Object, schemas, names, counts)
		}
	}
}

func (cw *canonWriter) writeItems(o *ir.Object, indent int) error {
	if indent > maxNestingDepth {
		return ir.Errorf(ir.KindSyntax, 0, "maximum nesting depth of %d exceeded (current depth: %d)", maxNestingDepth, indent)
	}
	indentStr := strings.Repeat(" ", indent*cw.es.indent)

	keys := o.Keys
	if cw.es.sortKeys {
		keys = append([]string(nil), o.Keys...)
		sort.Strings(keys)
	}

	for _, key := range keys {
		if !token.IsKeyToken(key) {
			return ir.Errorf(ir.KindSemantic, 0, "key '%s' is not a valid identifier", key)
		}
		it, _ := o.Get(key)
		switch it.Kind {
		case ir.ItemScalar:
			if err := cw.writeScalar(key, it.Scalar, indentStr); err != nil {
				return err
			}
		case ir.ItemObject:
			if err := cw.writeString(indentStr + applyColor(cw.es, ir.StringType, FieldColor, key) + ":\n"); err != nil {
				return err
			}
			if err := cw.writeItems(it.Object, indent+1); err != nil {
				return err
			}
		case ir.ItemList:
			if err := cw.writeMatrixList(key, it.List, indent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cw *canonWriter) writeScalar(key string, v ir.Value, indentStr string) error {
	if v.Type == ir.StringType {
		if err := checkKVString(key, v.String); err != nil {
			return err
		}
		if strings.Contains(v.String, "\n") {
			return cw.writeBlockString(key, v.String, indentStr)
		}
	}
	formatted := applyColor(cw.es, v.Type, ValueColor, cw.formatValue(v))
	return cw.writeString(indentStr + applyColor(cw.es, ir.StringType, FieldColor, key) + ": " + formatted + "\n")
}

// checkKVString rejects string values the text form cannot express in
// key-value position: control characters outside tab and newline, multi-line
// values embedding the block delimiter, and single-line values opening with a
// quote, which would read back as a block string opener.
func checkKVString(key, s string) error {
	if strings.IndexFunc(s, func(r rune) bool { return r < 0x20 && r != '\n' && r != '\t' }) >= 0 {
		return ir.Errorf(ir.KindSemantic, 0, "value for key '%s' contains control characters that cannot be written", key)
	}
	if strings.Contains(s, "\n") {
		if strings.Contains(s, tripleQuote) {
			return ir.Errorf(ir.KindSemantic, 0, `value for key '%s' contains """ and cannot be written as a block string`, key)
		}
		return nil
	}
	if s != "" && s[0] == '"' {
		return ir.Errorf(ir.KindSemantic, 0, "value for key '%s' starts with a quote and cannot be written inline", key)
	}
	return nil
}

// writeBlockString emits a multi-line value in block form. Parsing a block
// yields a value framed by the newlines next to the delimiters, so the frame
// is stripped before writing; values without that frame gain it on reparse.
func (cw *canonWriter) writeBlockString(key, s, indentStr string) error {
	es := cw.es
	open := indentStr + applyColor(es, ir.StringType, FieldColor, key) + ": " + applyColor(es, ir.StringType, BlockColor, tripleQuote)
	if err := cw.writeString(open + "\n"); err != nil {
		return err
	}

	body := strings.TrimPrefix(s, "\n")
	if strings.HasSuffix(body, "\n") {
		for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
			if err := cw.writeString(applyColor(es, ir.StringType, BlockColor, line) + "\n"); err != nil {
				return err
			}
		}
		return cw.writeString(applyColor(es, ir.StringType, BlockColor, tripleQuote) + "\n")
	}

	lines := strings.Split(body, "\n")
	for _, line := range lines[:len(lines)-1] {
		if err := cw.writeString(applyColor(es, ir.StringType, BlockColor, line) + "\n"); err != nil {
			return err
		}
	}
	return cw.writeString(applyColor(es, ir.StringType, BlockColor, lines[len(lines)-1]+tripleQuote) + "\n")
}

func (cw *canonWriter) writeMatrixList(key string, list *ir.MatrixList, indent int) error {
	es := cw.es
	if !token.IsTypeName(list.TypeName) {
		return ir.Errorf(ir.KindSemantic, 0, "list type '%s' is not a valid type name", list.TypeName)
	}
	indentStr := strings.Repeat(" ", indent*es.indent)

	decl := applyColor(es, ir.StringType, TypeColor, "@"+list.TypeName)
	if es.inlineSchemas {
		decl += "[" + strings.Join(list.Schema, ",") + "]"
	}
	if err := cw.writeString(indentStr + applyColor(es, ir.StringType, FieldColor, key) + ": " + decl + "\n"); err != nil {
		return err
	}
	return cw.writeRows(list.Rows, indent+1)
}

func (cw *canonWriter) writeRows(rows []*ir.Node, indent int) error {
	if indent > maxNestingDepth {
		return ir.Errorf(ir.KindSyntax, 0, "maximum nesting depth of %d exceeded in matrix list (current depth: %d)", maxNestingDepth, indent)
	}
	indentStr := strings.Repeat(" ", indent*cw.es.indent)

	var last []ir.Value
	for _, row := range rows {
		cells, err := cw.formatRowCells(row.Fields, last)
		if err != nil {
			return err
		}
		if err := cw.writeRow(row, indentStr, cells, indent+1); err != nil {
			return err
		}
		last = row.Fields
	}
	return nil
}

func (cw *canonWriter) writeRow(row *ir.Node, indentStr string, cells []string, childIndent int) error {
	es := cw.es
	marker := applyColor(es, ir.StringType, SepColor, "|")
	if row.ChildCount != nil && es.countHints {
		marker += applyColor(es, ir.StringType, HintColor, "["+strconv.Itoa(*row.ChildCount)+"]") + " "
	}
	if err := cw.writeString(indentStr + marker + strings.Join(cells, ",") + "\n"); err != nil {
		return err
	}
	for _, cl := range row.Children {
		if err := cw.writeRows(cl.Rows, childIndent); err != nil {
			return err
		}
	}
	return nil
}

func (cw *canonWriter) formatRowCells(values, last []ir.Value) ([]string, error) {
	cells := make([]string, 0, len(values))
	for i, v := range values {
		if i == 0 && (v.Type != ir.StringType || !token.IsIDToken(v.String)) {
			return nil, ir.Errorf(ir.KindSemantic, 0, "row ID %s is not a valid identifier", cw.formatValue(v))
		}
		if v.Type == ir.StringType && strings.IndexFunc(v.String, func(r rune) bool {
			return r < 0x20 && r != '\n' && r != '\t' && r != '\r'
		}) >= 0 {
			return nil, ir.Errorf(ir.KindSemantic, 0, "cell value %q contains control characters that cannot be written", v.String)
		}
		if i > 0 && cw.es.ditto && i < len(last) && v.Equal(last[i]) {
			cells = append(cells, applyColor(cw.es, v.Type, DittoColor, "^"))
			continue
		}
		isLast := i == len(values)-1
		cells = append(cells, applyColor(cw.es, v.Type, ValueColor, cw.formatCell(v, isLast)))
	}
	return cells, nil
}

func (cw *canonWriter) formatCell(v ir.Value, isLast bool) string {
	if v.Type != ir.StringType {
		return cw.formatValue(v)
	}
	s := v.String
	if s == "" && isLast {
		return `""`
	}
	if cw.es.quoting == QuoteAlways || token.NeedsQuoteCell(s) || strings.ContainsAny(s, "\n\t\r\\") {
		return token.QuoteCell(s)
	}
	return s
}

func (cw *canonWriter) formatValue(v ir.Value) string {
	switch v.Type {
	case ir.NullType:
		return "~"
	case ir.BoolType:
		return strconv.FormatBool(v.Bool)
	case ir.IntType:
		return strconv.FormatInt(v.Int, 10)
	case ir.FloatType:
		return formatFloat(v.Float)
	case ir.StringType:
		if cw.es.quoting == QuoteAlways || token.NeedsQuoteKV(v.String) {
			return token.QuoteKV(v.String)
		}
		return v.String
	case ir.ReferenceType:
		return v.Ref.String()
	case ir.TensorType:
		return formatTensor(v.Tensor)
	case ir.ExpressionType:
		return "$(" + v.Expr + ")"
	}
	return ""
}

// formatFloat keeps whole floats distinguishable from integers by always
// printing at least one fractional digit.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTensor(t *token.Tensor) string {
	var b strings.Builder
	writeTensor(&b, t)
	return b.String()
}

func writeTensor(b *strings.Builder, t *token.Tensor) {
	if t.IsScalar() {
		b.WriteString(formatFloat(t.Value))
		return
	}
	b.WriteByte('[')
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		writeTensor(b, e)
	}
	b.WriteByte(']')
}
