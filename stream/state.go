package stream

import (
	"strconv"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

// ctxKind discriminates the decoder's structural contexts.
type ctxKind int

const (
	ctxRoot ctxKind = iota
	ctxObject
	ctxList
)

// context is one open level of the body. Object contexts track their
// keys for duplicate detection; list contexts remember the previous row
// for ditto expansion and the last decoded ID so a nested child list can
// name its parent.
type context struct {
	kind ctxKind
	key  string

	// root and object contexts
	indent int
	seen   map[string]bool

	// list contexts
	rowIndent  int
	typeName   string
	schema     []string
	lastRow    []ir.Value
	lastID     string
	rows       int
	parentType string
	parentID   string
}

func (d *Decoder) push(c *context) {
	d.stack = append(d.stack, c)
}

// popTo closes contexts the current indent has stepped out of, queueing
// an end event for each. Objects close at or above their own indent;
// lists close above row level, so a declaration at the list's indent
// still closes it.
func (d *Decoder) popTo(indent, num int) {
	for len(d.stack) > 1 {
		top := d.stack[len(d.stack)-1]
		var pop bool
		switch top.kind {
		case ctxObject:
			pop = indent <= top.indent
		case ctxList:
			pop = indent < top.rowIndent
		}
		if !pop {
			break
		}
		d.stack = d.stack[:len(d.stack)-1]
		d.emitEnd(top, num)
	}
}

func (d *Decoder) emitEnd(c *context, num int) {
	switch c.kind {
	case ctxObject:
		d.emit(&Event{Type: EventEndObject, Key: c.key, Line: num})
	case ctxList:
		d.emit(&Event{Type: EventEndList, Key: c.key, TypeName: c.typeName, Count: c.rows, Line: num})
	}
}

// listDepth counts the open list contexts.
func (d *Decoder) listDepth() int {
	n := 0
	for _, c := range d.stack {
		if c.kind == ctxList {
			n++
		}
	}
	return n
}

// pathItem is one delivered level of structure. The parse stack advances
// ahead of delivery when a single line closes several levels at once;
// the query accessors follow the events the caller has actually seen.
type pathItem struct {
	key    string
	isList bool
	rows   int
}

func (d *Decoder) track(ev *Event) {
	switch ev.Type {
	case EventBeginObject:
		d.path = append(d.path, pathItem{key: ev.Key})
	case EventBeginList:
		d.path = append(d.path, pathItem{key: ev.Key, isList: true})
	case EventEndObject, EventEndList:
		if len(d.path) > 0 {
			d.path = d.path[:len(d.path)-1]
		}
	case EventRow:
		if len(d.path) > 0 {
			d.path[len(d.path)-1].rows++
		}
	}
}

// Depth returns the delivered nesting depth (0 = top level).
func (d *Decoder) Depth() int {
	return len(d.path)
}

// CurrentPath renders the delivered structure as a dotted path with row
// indexes on list segments, such as "meta.teams[1]".
func (d *Decoder) CurrentPath() string {
	var b strings.Builder
	for _, it := range d.path {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(it.key)
		if it.isList && it.rows > 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(it.rows - 1))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// IsInObject reports whether the innermost delivered level is a keyed
// object. The document root does not count.
func (d *Decoder) IsInObject() bool {
	return len(d.path) > 0 && !d.path[len(d.path)-1].isList
}

// IsInList reports whether the innermost delivered level is a matrix
// list.
func (d *Decoder) IsInList() bool {
	return len(d.path) > 0 && d.path[len(d.path)-1].isList
}

// CurrentKey returns the key of the innermost delivered level.
func (d *Decoder) CurrentKey() (string, bool) {
	if len(d.path) == 0 {
		return "", false
	}
	return d.path[len(d.path)-1].key, true
}
