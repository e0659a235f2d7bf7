package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dweve/hedl-format/go-hedl/ir"

	"golang.org/x/tools/imports"
)

const (
	irImport    = "github.com/dweve/hedl-format/go-hedl/ir"
	tokenImport = "github.com/dweve/hedl-format/go-hedl/token"
)

// colType is the unified Go type of one schema column, accumulated over
// every cell seen in that column across the document.
type colType int

const (
	colUnknown colType = iota
	colBool
	colInt
	colFloat
	colString
	colRef
	colTensor
	colMixed
)

func (c colType) goType() string {
	switch c {
	case colBool:
		return "bool"
	case colInt:
		return "int64"
	case colFloat:
		return "float64"
	case colString:
		return "string"
	case colRef:
		return "ir.Reference"
	case colTensor:
		return "*token.Tensor"
	default:
		return "ir.Value"
	}
}

// unify folds one more cell value into the accumulated column type. Nulls
// do not pin a type, ints widen to floats, and anything else mixed gives
// up and keeps the cell as an ir.Value.
func unify(a colType, v ir.Value) colType {
	var c colType
	switch v.Type {
	case ir.NullType:
		return a
	case ir.BoolType:
		c = colBool
	case ir.IntType:
		c = colInt
	case ir.FloatType:
		c = colFloat
	case ir.StringType:
		c = colString
	case ir.ReferenceType:
		c = colRef
	case ir.TensorType:
		c = colTensor
	default:
		c = colMixed
	}
	switch {
	case a == colUnknown:
		return c
	case a == c:
		return a
	case a == colInt && c == colFloat, a == colFloat && c == colInt:
		return colFloat
	default:
		return colMixed
	}
}

func columnTypes(doc *ir.Document) map[string][]colType {
	res := map[string][]colType{}
	ir.Walk(doc, &ir.Visitor{
		Row: func(n *ir.Node, _ []string, _ *ir.Cursor) error {
			cols := res[n.TypeName]
			for i, v := range n.Fields {
				for len(cols) <= i {
					cols = append(cols, colUnknown)
				}
				cols[i] = unify(cols[i], v)
			}
			res[n.TypeName] = cols
			return nil
		},
	})
	return res
}

type generator struct {
	buf bytes.Buffer
}

func (g *generator) Printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// Generate emits one Go struct declaration per declared type, with field
// types inferred from the document's rows, and returns gofmt-ed source.
func Generate(doc *ir.Document, pkg string) ([]byte, error) {
	cols := columnTypes(doc)

	needIR, needToken := false, false
	for _, sch := range doc.Structs.Schemas {
		ct := cols[sch.TypeName]
		for i := range sch.Columns {
			t := colUnknown
			if i < len(ct) {
				t = ct[i]
			}
			switch t {
			case colRef, colMixed, colUnknown:
				needIR = true
			case colTensor:
				needToken = true
			}
		}
	}

	g := &generator{}
	g.Printf("// Code generated by hedl-codegen. DO NOT EDIT.\n\n")
	g.Printf("package %s\n\n", pkg)
	if needIR || needToken {
		g.Printf("import (\n")
		if needIR {
			g.Printf("\t%q\n", irImport)
		}
		if needToken {
			g.Printf("\t%q\n", tokenImport)
		}
		g.Printf(")\n\n")
	}

	for _, sch := range doc.Structs.Schemas {
		g.writeStruct(doc, sch, cols[sch.TypeName])
	}

	out, err := imports.Process("hedl_gen.go", g.buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("generated code does not compile: %w", err)
	}
	return out, nil
}

func (g *generator) writeStruct(doc *ir.Document, sch *ir.Schema, cols []colType) {
	g.Printf("// %s is one row of a @%s matrix list.\n", sch.TypeName, sch.TypeName)
	g.Printf("type %s struct {\n", sch.TypeName)
	used := map[string]bool{}
	for i, col := range sch.Columns {
		name := goName(col)
		if used[name] {
			name += strconv.Itoa(i)
		}
		used[name] = true
		t := colUnknown
		if i < len(cols) {
			t = cols[i]
		}
		// Row ids are always strings.
		if t == colUnknown && i == 0 && col == "id" {
			t = colString
		}
		g.Printf("\t%s %s `hedl:%q`\n", name, t.goType(), col)
	}
	if child, ok := doc.ChildTypeOf(sch.TypeName); ok {
		name := child
		if used[name] {
			name += "Rows"
		}
		g.Printf("\n\t%s []%s `hedl:%q`\n", name, child, child+",children")
	}
	g.Printf("}\n\n")
}

// goName maps a column name to an exported Go field name: underscore and
// hyphen separated words are title-cased, common initialisms upper-cased.
func goName(col string) string {
	parts := strings.FieldsFunc(col, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return "Field"
	}
	var b strings.Builder
	for _, p := range parts {
		if u, ok := initialisms[p]; ok {
			b.WriteString(u)
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

var initialisms = map[string]string{
	"id":  "ID",
	"ip":  "IP",
	"url": "URL",
	"uri": "URI",
	"api": "API",
}
