package stream

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/parse"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// Decoder reads a document as a sequence of structural events. The
// header is consumed while the Decoder is built; body lines are read
// incrementally, so memory stays proportional to the open structure
// rather than to the input. References are reported as plain values and
// never resolved.
type Decoder struct {
	lr      *lineReader
	opts    streamOpts
	header  *Header
	inf     *parse.Inference
	stack   []*context
	path    []pathItem
	pending []*Event
	blk     *blockBuf
	lineNum int
	nodes   int
	keys    int
	done    bool
	err     error
}

// NewDecoder builds a Decoder over r and consumes the header through the
// "---" separator, so header errors surface here rather than from
// ReadEvent.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	o := defaultStreamOpts()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive, got %d", o.bufSize)
	}
	d := &Decoder{opts: o}
	if err := d.init(r); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset discards all decoder state and restarts on a new reader,
// consuming its header like NewDecoder.
func (d *Decoder) Reset(r io.Reader, opts ...Option) error {
	o := defaultStreamOpts()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", o.bufSize)
	}
	d.opts = o
	return d.init(r)
}

func (d *Decoder) init(r io.Reader) error {
	d.lr = newLineReader(r, d.opts.bufSize, d.opts.limits.MaxLineLength)
	d.stack = []*context{{kind: ctxRoot, seen: make(map[string]bool)}}
	d.path = nil
	d.pending = nil
	d.blk = nil
	d.lineNum = 0
	d.nodes = 0
	d.keys = 0
	d.done = false
	d.err = nil

	hdr, err := d.readHeader()
	if err != nil {
		return err
	}
	d.header = hdr
	d.inf = parse.NewInference(hdr.Aliases)
	return nil
}

// Header returns the directive section read during construction.
func (d *Decoder) Header() *Header {
	return d.header
}

// Offset returns the number of raw input bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.lr.offset
}

// readHeader accumulates raw lines up to and including the separator and
// parses the prefix with the document parser, so directive semantics and
// error reporting match batch parsing exactly.
func (d *Decoder) readHeader() (*Header, error) {
	var buf bytes.Buffer
	for {
		line, num, err := d.lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		d.lineNum = num
		if buf.Len()+len(line)+1 > d.opts.limits.MaxFileSize {
			return nil, ir.Errorf(ir.KindSecurity, num,
				"file too large: exceeds limit of %d bytes", d.opts.limits.MaxFileSize)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		if isSeparator(strings.TrimSpace(line)) {
			break
		}
	}
	doc, err := parse.Parse(buf.Bytes(), parse.WithLimits(d.opts.limits))
	if err != nil {
		return nil, err
	}
	return &Header{
		Version: doc.Version,
		Aliases: doc.Aliases,
		Structs: doc.Structs,
		Nests:   doc.Nests,
	}, nil
}

// isSeparator matches the trimmed forms of a body separator line. It
// must accept exactly what the document parser accepts, or body lines
// would be swallowed into the header parse.
func isSeparator(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "---") {
		return false
	}
	rest := strings.TrimLeft(trimmed[3:], " \t")
	return rest == "" || strings.HasPrefix(rest, "#")
}

// ReadEvent returns the next structural event, or io.EOF once the
// document is exhausted. Events already produced by earlier lines are
// delivered before an error surfaces; the error is then sticky and every
// later call returns it again.
func (d *Decoder) ReadEvent() (*Event, error) {
	for len(d.pending) == 0 {
		if d.err != nil {
			return nil, d.err
		}
		if d.done {
			d.err = io.EOF
			return nil, io.EOF
		}
		if err := d.step(); err != nil {
			d.err = err
		}
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	d.track(ev)
	return ev, nil
}

func (d *Decoder) emit(ev *Event) {
	d.pending = append(d.pending, ev)
}

// step consumes one input line and queues any events it produces.
func (d *Decoder) step() error {
	line, num, err := d.lr.next()
	if err == io.EOF {
		return d.finish()
	}
	if err != nil {
		return err
	}
	d.lineNum = num

	// Block-string accumulation runs before anything else so that blank
	// lines, comments, and even "---" inside the block stay literal.
	if d.blk != nil {
		full, closed, err := d.blk.feed(line, num, d.opts.limits.MaxBlockString)
		if err != nil {
			return err
		}
		if closed {
			d.emit(&Event{Type: EventScalar, Key: d.blk.key, Value: ir.FromString(full), Line: d.blk.startLine})
			d.blk = nil
		}
		return nil
	}

	if isBlank(line) || isComment(line) {
		return nil
	}

	indent, ok, err := indentLevel(line, num)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if indent > d.opts.limits.MaxIndentDepth {
		return ir.Errorf(ir.KindSecurity, num,
			"indent depth %d exceeds limit %d", indent, d.opts.limits.MaxIndentDepth)
	}
	content := line[indent*2:]

	d.popTo(indent, num)

	if strings.HasPrefix(content, "|") {
		return d.row(content, indent, num)
	}

	blk, err := tryOpenBlock(content, indent, num)
	if err != nil {
		return err
	}
	if blk != nil {
		if err := d.checkChildIndent(indent, num); err != nil {
			return err
		}
		if err := d.admitKey(blk.key, num); err != nil {
			return err
		}
		d.blk = blk
		return nil
	}

	return d.keyedLine(content, indent, num)
}

// finish closes everything still open at end of input. A deepest context
// that is an empty object means the input broke off after a declaration;
// empty lists are legitimate.
func (d *Decoder) finish() error {
	if d.blk != nil {
		return ir.Errorf(ir.KindSyntax, d.blk.startLine,
			"unclosed block string starting at line %d", d.blk.startLine)
	}
	if len(d.stack) > 1 {
		top := d.stack[len(d.stack)-1]
		if top.kind == ctxObject && len(top.seen) == 0 {
			return ir.Errorf(ir.KindSyntax, 0,
				"truncated input: object '%s' has no children", top.key)
		}
	}
	for len(d.stack) > 1 {
		top := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		d.emitEnd(top, d.lineNum)
	}
	d.done = true
	return nil
}

// keyedLine handles object declarations, list declarations, and
// key-value pairs.
func (d *Decoder) keyedLine(content string, indent, num int) error {
	content = token.StripComment(content)

	keyPart, afterColon, found := strings.Cut(content, ":")
	if !found {
		return ir.NewError(ir.KindSyntax, num, "expected ':' in line")
	}

	key, hint, err := cutKeyHint(strings.TrimSpace(keyPart), num)
	if err != nil {
		return err
	}
	if !token.IsKeyToken(key) {
		return ir.Errorf(ir.KindSyntax, num, "invalid key: %s", key)
	}
	if err := d.admitKey(key, num); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(afterColon)
	switch {
	case trimmed == "":
		// Object declaration.
		if hint != nil {
			return ir.NewError(ir.KindSyntax, num, "count hint not allowed on object declarations")
		}
		if err := d.checkChildIndent(indent, num); err != nil {
			return err
		}
		d.push(&context{kind: ctxObject, key: key, indent: indent, seen: make(map[string]bool)})
		d.emit(&Event{Type: EventBeginObject, Key: key, Line: num})

	case strings.HasPrefix(trimmed, "@") && isListDecl(trimmed):
		// Matrix list declaration.
		if !strings.HasPrefix(afterColon, " ") {
			return ir.NewError(ir.KindSyntax, num, "space required after ':' before '@'")
		}
		if err := d.checkListDeclIndent(indent, num); err != nil {
			return err
		}
		typeName, schema, err := d.listDecl(trimmed, num)
		if err != nil {
			return err
		}
		c := &context{kind: ctxList, key: key, rowIndent: indent + 1, typeName: typeName, schema: schema}
		if top := d.stack[len(d.stack)-1]; top.kind == ctxList {
			c.parentType = top.typeName
			c.parentID = top.lastID
		}
		d.push(c)
		ev := &Event{Type: EventBeginList, Key: key, TypeName: typeName, Schema: schema, Line: num}
		if hint != nil {
			ev.Count = *hint
		}
		d.emit(ev)

	default:
		// Key-value pair.
		if hint != nil {
			return ir.NewError(ir.KindSyntax, num, "count hint not allowed on scalar values")
		}
		if !strings.HasPrefix(afterColon, " ") {
			return ir.NewError(ir.KindSyntax, num, "space required after ':' in key-value")
		}
		if err := d.checkChildIndent(indent, num); err != nil {
			return err
		}
		var v ir.Value
		if strings.HasPrefix(trimmed, `"`) {
			inner, uerr := token.UnquoteKV(trimmed)
			if uerr != nil {
				return ir.NewError(ir.KindSyntax, num, uerr.Error())
			}
			v = ir.FromString(inner)
		} else {
			v, err = d.value(trimmed, num)
			if err != nil {
				return err
			}
		}
		d.emit(&Event{Type: EventScalar, Key: key, Value: v, Line: num})
	}
	return nil
}

// row decodes one matrix row into a Row event, opening a child list
// context first when the row sits one level below an active list's rows.
func (d *Decoder) row(content string, indent, num int) error {
	ctx, err := d.rowContext(indent, num)
	if err != nil {
		return err
	}

	rest, childCount, hasHint := token.CutCountHint(content[1:])
	csv := strings.TrimSpace(token.StripComment(rest))

	cells, err := token.SplitRow(csv)
	if err != nil {
		return ir.NewError(ir.KindSyntax, num, err.Error())
	}
	if len(cells) != len(ctx.schema) {
		return ir.Errorf(ir.KindShape, num, "expected %d columns, got %d", len(ctx.schema), len(cells))
	}

	values := make([]ir.Value, 0, len(cells))
	for i, c := range cells {
		v, err := d.cellValue(c, i, ctx, num)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	if values[0].Type != ir.StringType {
		return ir.NewError(ir.KindSemantic, num, "ID column must be a string")
	}
	id := values[0].String
	if !token.IsIDToken(id) {
		return ir.Errorf(ir.KindSemantic, num,
			"invalid ID format '%s' - must start with letter or underscore", id)
	}

	d.nodes++
	if d.nodes > d.opts.limits.MaxNodes {
		return ir.Errorf(ir.KindSecurity, num, "too many nodes: exceeds limit of %d", d.opts.limits.MaxNodes)
	}

	ctx.lastRow = values
	ctx.lastID = id
	ctx.rows++

	node := ir.NewNode(ctx.typeName, id, values)
	if hasHint {
		node.ChildCount = &childCount
	}
	d.emit(&Event{
		Type:       EventRow,
		Key:        ctx.key,
		Node:       node,
		Depth:      d.listDepth() - 1,
		ParentType: ctx.parentType,
		ParentID:   ctx.parentID,
		Line:       num,
	})
	return nil
}

// rowContext locates the list a row belongs to. A row one level deeper
// than the innermost matching list opens a child list via the parent
// type's nesting rule; the child context takes the child type as its key.
func (d *Decoder) rowContext(indent, num int) (*context, error) {
	for idx := len(d.stack) - 1; idx >= 0; idx-- {
		ctx := d.stack[idx]
		if ctx.kind != ctxList {
			continue
		}
		if indent == ctx.rowIndent {
			return ctx, nil
		}
		if indent != ctx.rowIndent+1 {
			continue
		}

		childType, ok := d.header.ChildTypeOf(ctx.typeName)
		if !ok {
			return nil, ir.Errorf(ir.KindOrphanRow, num, "no NEST rule for parent type '%s'", ctx.typeName)
		}
		if ctx.rows == 0 {
			return nil, ir.NewError(ir.KindSemantic, num, "orphan row: child row has no parent row")
		}
		childSchema, ok := d.header.SchemaOf(childType)
		if !ok {
			return nil, ir.Errorf(ir.KindSchema, num, "child type '%s' not defined", childType)
		}
		if depth := d.listDepth(); depth >= d.opts.limits.MaxNestDepth {
			return nil, ir.Errorf(ir.KindSecurity, num,
				"NEST hierarchy depth %d exceeds maximum allowed depth %d", depth+1, d.opts.limits.MaxNestDepth)
		}

		child := &context{
			kind:       ctxList,
			key:        childType,
			rowIndent:  indent,
			typeName:   childType,
			schema:     childSchema,
			parentType: ctx.typeName,
			parentID:   ctx.lastID,
		}
		d.push(child)
		d.emit(&Event{Type: EventBeginList, Key: childType, TypeName: childType, Schema: childSchema, Line: num})
		return child, nil
	}
	return nil, ir.NewError(ir.KindSyntax, num, "matrix row outside of list context")
}

// cellValue resolves one row cell. Ditto is positional state the shared
// ladder does not carry, so it is handled here against the owning list's
// previous row.
func (d *Decoder) cellValue(c token.Cell, col int, ctx *context, num int) (ir.Value, error) {
	if c.Quoted {
		return ir.FromString(c.Text), nil
	}
	s := strings.TrimSpace(c.Text)
	switch s {
	case "~":
		if col == 0 {
			return ir.Value{}, ir.NewError(ir.KindSemantic, num, "null (~) not permitted in ID column")
		}
		return ir.Null(), nil
	case token.Ditto:
		if col == 0 {
			return ir.Value{}, ir.NewError(ir.KindSemantic, num, "ditto (^) not permitted in ID column")
		}
		if ctx.lastRow == nil {
			return ir.Value{}, ir.NewError(ir.KindSemantic, num, "ditto (^) not allowed in first row of list")
		}
		if col >= len(ctx.lastRow) {
			return ir.Value{}, ir.NewError(ir.KindSemantic, num, "ditto (^) column index out of range")
		}
		return ctx.lastRow[col], nil
	}
	return d.value(s, num)
}

// value runs the shared inference ladder, attaching the source line to
// errors since the ladder itself does not track positions.
func (d *Decoder) value(s string, num int) (ir.Value, error) {
	v, err := d.inf.Value(s)
	if err != nil {
		return v, withLine(err, num)
	}
	return v, nil
}

func withLine(err error, num int) error {
	if de, ok := ir.AsError(err); ok && de.Line == 0 {
		de.Line = num
	}
	return err
}

// admitKey records a key in the innermost object, rejecting duplicates
// and enforcing the per-object and total key limits. Keys seen inside
// list contexts belong to nested declarations and are not tracked.
func (d *Decoder) admitKey(key string, num int) error {
	top := d.stack[len(d.stack)-1]
	if top.kind == ctxList {
		return nil
	}
	if top.seen[key] {
		return ir.Errorf(ir.KindSemantic, num, "duplicate key: %s", key)
	}
	if len(top.seen) >= d.opts.limits.MaxObjectKeys {
		return ir.Errorf(ir.KindSecurity, num,
			"object has too many keys: %d (max: %d)", len(top.seen)+1, d.opts.limits.MaxObjectKeys)
	}
	top.seen[key] = true
	d.keys++
	if d.keys > d.opts.limits.MaxTotalKeys {
		return ir.Errorf(ir.KindSecurity, num,
			"too many total keys: %d exceeds limit %d", d.keys, d.opts.limits.MaxTotalKeys)
	}
	return nil
}

// checkChildIndent checks that an object, key-value, or block string
// sits exactly one level inside its parent. Scalars can never appear
// inside a list.
func (d *Decoder) checkChildIndent(indent, num int) error {
	var expected int
	switch top := d.stack[len(d.stack)-1]; top.kind {
	case ctxRoot:
		expected = 0
	case ctxObject:
		expected = top.indent + 1
	case ctxList:
		return ir.NewError(ir.KindSyntax, num, "cannot add key-value inside list context")
	}
	if indent != expected {
		return ir.Errorf(ir.KindSyntax, num, "expected indent level %d, got %d", expected, indent)
	}
	return nil
}

// checkListDeclIndent checks the indent of a list declaration, which
// unlike scalars may appear inside a list at child-row level provided a
// parent row exists to receive it.
func (d *Decoder) checkListDeclIndent(indent, num int) error {
	for idx := len(d.stack) - 1; idx >= 0; idx-- {
		switch c := d.stack[idx]; c.kind {
		case ctxList:
			if indent == c.rowIndent+1 {
				if c.rows == 0 {
					return ir.NewError(ir.KindOrphanRow, num, "nested list declaration has no parent row")
				}
				return nil
			}
		case ctxRoot:
			if indent == 0 {
				return nil
			}
		case ctxObject:
			if indent == c.indent+1 {
				return nil
			}
		}
	}
	return ir.Errorf(ir.KindSyntax, num, "invalid indent level %d for nested list declaration", indent)
}

// listDecl resolves "@TypeName" through the header schemas and
// "@TypeName[cols]" through its inline column list.
func (d *Decoder) listDecl(s string, num int) (string, []string, error) {
	rest := strings.TrimSpace(s)[1:]

	bracket := strings.IndexByte(rest, '[')
	if bracket < 0 {
		typeName := strings.TrimSpace(rest)
		if !token.IsTypeName(typeName) {
			return "", nil, ir.Errorf(ir.KindSyntax, num, "invalid type name: %s", typeName)
		}
		cols, ok := d.header.SchemaOf(typeName)
		if !ok {
			return "", nil, ir.Errorf(ir.KindSchema, num, "undefined type: %s", typeName)
		}
		return typeName, cols, nil
	}

	typeName := rest[:bracket]
	if !token.IsTypeName(typeName) {
		return "", nil, ir.Errorf(ir.KindSyntax, num, "invalid type name: %s", typeName)
	}
	schema, err := inlineSchema(rest[bracket:], num, d.opts.limits.MaxColumns)
	if err != nil {
		return "", nil, err
	}
	if declared, ok := d.header.SchemaOf(typeName); ok && !sameColumns(declared, schema) {
		return "", nil, ir.Errorf(ir.KindSchema, num,
			"inline schema for '%s' doesn't match declared schema", typeName)
	}
	return typeName, schema, nil
}

func inlineSchema(s string, num, maxColumns int) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, ir.NewError(ir.KindSyntax, num, "invalid inline schema format")
	}
	var columns []string
	for _, part := range strings.Split(s[1:len(s)-1], ",") {
		col := strings.TrimSpace(part)
		if col == "" {
			continue
		}
		if !token.IsKeyToken(col) {
			return nil, ir.Errorf(ir.KindSyntax, num, "invalid column name: %s", col)
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, ir.NewError(ir.KindSyntax, num, "empty inline schema")
	}
	if len(columns) > maxColumns {
		return nil, ir.Errorf(ir.KindSecurity, num, "too many columns: %d", len(columns))
	}
	return columns, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isListDecl reports whether the text after a colon reads as "@TypeName"
// or "@TypeName[...]" with a well-formed type name. Anything else is
// left to the key-value path, where "@x" parses as a reference.
func isListDecl(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "@") {
		return false
	}
	rest := s[1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == '[' || unicode.IsSpace(r)
	})
	if end < 0 {
		end = len(rest)
	}
	return token.IsTypeName(rest[:end])
}

// cutKeyHint splits "teams(3)" into the key and its instance count. Keys
// without parentheses pass through unchanged.
func cutKeyHint(key string, num int) (string, *int, error) {
	paren := strings.IndexByte(key, '(')
	if paren < 0 {
		return key, nil, nil
	}
	if !strings.HasSuffix(key, ")") {
		return "", nil, ir.NewError(ir.KindSyntax, num, "unclosed count hint parenthesis")
	}
	countStr := key[paren+1 : len(key)-1]
	n, err := strconv.ParseUint(countStr, 10, 63)
	if err != nil {
		return "", nil, ir.Errorf(ir.KindSyntax, num, "invalid count hint: '%s'", countStr)
	}
	if n == 0 {
		return "", nil, ir.NewError(ir.KindSyntax, num, "count hint must be greater than zero")
	}
	count := int(n)
	return key[:paren], &count, nil
}

// indentLevel counts leading spaces and converts them to an indent
// level. A tab anywhere in the indentation is an error unless the whole
// line is whitespace; ok is false for such blank lines.
func indentLevel(line string, num int) (level int, ok bool, err error) {
	spaces := 0
	for spaces < len(line) && line[spaces] == ' ' {
		spaces++
	}
	if spaces == len(line) {
		return 0, false, nil
	}
	if line[spaces] == '\t' {
		if strings.TrimSpace(line[spaces:]) == "" {
			return 0, false, nil
		}
		return 0, false, ir.NewError(ir.KindSyntax, num, "tab character not allowed in indentation")
	}
	if spaces%2 != 0 {
		return 0, false, ir.Errorf(ir.KindSyntax, num, "indentation must be a multiple of 2 spaces, got %d", spaces)
	}
	return spaces / 2, true, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isComment(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "#")
}
