package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"

	"go.lsp.dev/protocol"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil || doc.doc == nil {
		return nil, nil
	}

	line := lineAt(doc.content, int(params.Position.Line))
	word := wordAt(line, int(params.Position.Character))
	if word == "" {
		return nil, nil
	}

	text := hoverText(doc.doc, word)
	if text == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: text,
		},
	}, nil
}

// hoverText describes the schema entity the word under the cursor names: a
// struct type (bare, in a @Type declaration, or in a @Type:id reference) or
// an %alias.
func hoverText(d *ir.Document, word string) string {
	if name, ok := strings.CutPrefix(word, "%"); ok {
		if v, ok := d.Aliases.Get(name); ok {
			return fmt.Sprintf("**%%%s** expands to `%s`", name, v)
		}
		return ""
	}

	name := strings.TrimPrefix(word, "@")
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	sch, ok := d.Structs.Get(name)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)", sch.TypeName, strings.Join(sch.Columns, ", "))
	if sch.Count != nil {
		fmt.Fprintf(&b, "\n\ndeclares %d rows", *sch.Count)
	}
	if child, ok := d.ChildTypeOf(name); ok {
		fmt.Fprintf(&b, "\n\nnests child rows of **%s**", child)
	}
	for _, n := range d.Nests {
		if n.Child == name {
			fmt.Fprintf(&b, "\n\nnests under **%s**", n.Parent)
		}
	}
	return b.String()
}

func lineAt(content string, n int) string {
	lines := strings.Split(content, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}

func wordAt(line string, col int) string {
	rs := []rune(line)
	if len(rs) == 0 {
		return ""
	}
	if col >= len(rs) {
		col = len(rs) - 1
	}
	if !isWordRune(rs[col]) {
		if col == 0 || !isWordRune(rs[col-1]) {
			return ""
		}
		col--
	}
	start, end := col, col+1
	for start > 0 && isWordRune(rs[start-1]) {
		start--
	}
	for end < len(rs) && isWordRune(rs[end]) {
		end++
	}
	return string(rs[start:end])
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '-', '@', ':', '%':
		return true
	}
	return false
}
