package parse

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// Parse reads a complete HEDL document: header directives, the "---"
// separator, and the body tree. References are resolved after the body is
// built; in strict mode (the default) an unresolvable reference is an error,
// otherwise it degrades to null. Options adjust resource limits and the
// resolution mode.
func Parse(input []byte, opts ...ParseOption) (*ir.Document, error) {
	o := defaultParseOpts()
	for _, opt := range opts {
		opt(&o)
	}
	limits := &o.limits

	lines, err := preprocess(input, limits)
	if err != nil {
		return nil, err
	}

	hdr, bodyStart, err := parseHeader(lines, limits)
	if err != nil {
		return nil, err
	}

	reg := newTypeRegistry()
	inf := newInferer(hdr.aliases)
	root, err := parseBody(lines[bodyStart:], hdr, limits, reg, inf)
	if err != nil {
		return nil, err
	}

	doc := &ir.Document{
		Version: hdr.version,
		Aliases: hdr.aliases,
		Structs: hdr.structs,
		Nests:   hdr.nests,
		Root:    root,
	}
	if err := resolveReferences(doc, o.strictRefs, limits); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString is Parse for string input.
func ParseString(input string, opts ...ParseOption) (*ir.Document, error) {
	return Parse([]byte(input), opts...)
}

// A frame is one level of the body stack. The root and object frames collect
// key/item pairs; list frames collect rows, remembering the previous row for
// ditto expansion. rowIndent is the level rows of the list sit at, one deeper
// than the declaration.
type frameKind int

const (
	frameRoot frameKind = iota
	frameObject
	frameList
)

type frame struct {
	kind frameKind

	// root and object frames
	object *ir.Object
	indent int
	key    string

	// list frames
	rowIndent int
	typeName  string
	schema    []string
	lastRow   []ir.Value
	rows      []*ir.Node
	countHint *int
}

func parseBody(lines []srcLine, hdr *header, limits *Limits, reg *typeRegistry, inf *inferer) (*ir.Object, error) {
	stack := []*frame{{kind: frameRoot, object: ir.NewObject()}}
	nodeCount := 0
	totalKeys := 0
	var blk *blockString

	for _, ln := range lines {
		// Block-string accumulation runs before anything else so that
		// blank lines, comments, and even "---" inside the block stay
		// literal.
		if blk != nil {
			full, done, err := blk.processLine(ln.text, ln.num, limits)
			if err != nil {
				return nil, err
			}
			if done {
				popFrames(&stack, blk.indent)
				insertIntoCurrent(stack, blk.key, ir.ScalarOf(ir.FromString(full)))
				blk = nil
			}
			continue
		}

		if isBlankLine(ln.text) || isCommentLine(ln.text) {
			continue
		}

		indent, ok, err := calcIndent(ln.text, ln.num)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if indent > limits.MaxIndentDepth {
			return nil, ir.Errorf(ir.KindSecurity, ln.num,
				"indent depth %d exceeds limit %d", indent, limits.MaxIndentDepth)
		}
		content := ln.text[indent*2:]

		popFrames(&stack, indent)

		if strings.HasPrefix(content, "|") {
			if err := parseMatrixRow(&stack, content, indent, ln.num, hdr, limits, reg, inf, &nodeCount); err != nil {
				return nil, err
			}
			continue
		}

		b, err := tryStartBlockString(content, indent, ln.num)
		if err != nil {
			return nil, err
		}
		if b != nil {
			if err := validateChildIndent(stack, indent, ln.num); err != nil {
				return nil, err
			}
			if err := checkDuplicateKey(stack, b.key, ln.num, limits, &totalKeys); err != nil {
				return nil, err
			}
			blk = b
			continue
		}

		if err := parseNonMatrixLine(&stack, content, indent, ln.num, hdr, limits, inf, &totalKeys); err != nil {
			return nil, err
		}
	}

	if blk != nil {
		return nil, ir.Errorf(ir.KindSyntax, blk.startLine,
			"unclosed block string starting at line %d", blk.startLine)
	}

	return finalizeStack(stack)
}

// calcIndent counts leading spaces and converts them to an indent level. A
// tab anywhere in the indentation is an error unless the whole line is
// whitespace; ok is false for such blank lines.
func calcIndent(line string, lineNum int) (level int, ok bool, err error) {
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
		return 0, false, ir.NewError(ir.KindSyntax, lineNum,
			"tab character not allowed in indentation")
	}
	if spaces%2 != 0 {
		return 0, false, ir.Errorf(ir.KindSyntax, lineNum,
			"indentation must be a multiple of 2 spaces, got %d", spaces)
	}
	return spaces / 2, true, nil
}

// popFrames closes frames the current indent has stepped out of. An object
// frame closes when the line is at or above its own indent; a list frame
// closes when the line is above row level, so a declaration at the list's own
// indent still closes it.
func popFrames(stack *[]*frame, currentIndent int) {
	for len(*stack) > 1 {
		top := (*stack)[len(*stack)-1]
		var pop bool
		switch top.kind {
		case frameObject:
			pop = currentIndent <= top.indent
		case frameList:
			pop = currentIndent < top.rowIndent
		}
		if !pop {
			break
		}
		*stack = (*stack)[:len(*stack)-1]
		attachFrame(*stack, top)
	}
}

func attachFrame(stack []*frame, f *frame) {
	switch f.kind {
	case frameObject:
		insertIntoParent(stack, f.key, ir.ObjectOf(f.object))
	case frameList:
		ml := ir.NewMatrixList(f.typeName, f.schema)
		ml.Rows = f.rows
		ml.CountHint = f.countHint
		insertIntoParent(stack, f.key, ir.ListOf(ml))
	}
}

// insertIntoParent stores an item produced by a closing frame. When the
// parent is itself a list, the item is a nested list declaration and its rows
// attach to the parent's last row as children.
func insertIntoParent(stack []*frame, key string, item *ir.Item) {
	parent := stack[len(stack)-1]
	switch parent.kind {
	case frameRoot, frameObject:
		parent.object.Set(key, item)
	case frameList:
		if len(parent.rows) == 0 || item.Kind != ir.ItemList {
			return
		}
		last := parent.rows[len(parent.rows)-1]
		for _, row := range item.List.Rows {
			last.AddChild(item.List.TypeName, row)
		}
	}
}

func insertIntoCurrent(stack []*frame, key string, item *ir.Item) {
	top := stack[len(stack)-1]
	if top.kind == frameRoot || top.kind == frameObject {
		top.object.Set(key, item)
	}
}

func parseNonMatrixLine(stack *[]*frame, content string, indent, lineNum int, hdr *header, limits *Limits, inf *inferer, totalKeys *int) error {
	content = token.StripComment(content)

	keyPart, afterColon, found := strings.Cut(content, ":")
	if !found {
		return ir.NewError(ir.KindSyntax, lineNum, "expected ':' in line")
	}

	key, countHint, err := parseKeyWithCountHint(strings.TrimSpace(keyPart), lineNum)
	if err != nil {
		return err
	}
	if !token.IsKeyToken(key) {
		return ir.Errorf(ir.KindSyntax, lineNum, "invalid key: %s", key)
	}
	if err := checkDuplicateKey(*stack, key, lineNum, limits, totalKeys); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(afterColon)
	switch {
	case trimmed == "":
		// Object declaration.
		if countHint != nil {
			return ir.NewError(ir.KindSyntax, lineNum,
				"count hint not allowed on object declarations")
		}
		if err := validateChildIndent(*stack, indent, lineNum); err != nil {
			return err
		}
		*stack = append(*stack, &frame{
			kind:   frameObject,
			indent: indent,
			key:    key,
			object: ir.NewObject(),
		})

	case strings.HasPrefix(trimmed, "@") && isListStart(trimmed):
		// Matrix list declaration.
		if !strings.HasPrefix(afterColon, " ") {
			return ir.NewError(ir.KindSyntax, lineNum,
				"space required after ':' before '@'")
		}
		if err := validateNestedListIndent(*stack, indent, lineNum); err != nil {
			return err
		}
		typeName, schema, err := parseListStart(trimmed, lineNum, hdr, limits)
		if err != nil {
			return err
		}
		*stack = append(*stack, &frame{
			kind:      frameList,
			rowIndent: indent + 1,
			typeName:  typeName,
			schema:    schema,
			key:       key,
			countHint: countHint,
		})

	default:
		// Key-value pair.
		if countHint != nil {
			return ir.NewError(ir.KindSyntax, lineNum,
				"count hint not allowed on scalar values")
		}
		if !strings.HasPrefix(afterColon, " ") {
			return ir.NewError(ir.KindSyntax, lineNum,
				"space required after ':' in key-value")
		}
		if err := validateChildIndent(*stack, indent, lineNum); err != nil {
			return err
		}
		var v ir.Value
		if strings.HasPrefix(trimmed, `"`) {
			inner, err := token.UnquoteKV(trimmed)
			if err != nil {
				return ir.NewError(ir.KindSyntax, lineNum, err.Error())
			}
			v = inferQuoted(inner)
		} else {
			v, err = inf.kv(trimmed, lineNum)
			if err != nil {
				return err
			}
		}
		insertIntoCurrent(*stack, key, ir.ScalarOf(v))
	}

	return nil
}

// parseKeyWithCountHint splits "teams(3)" into the key and its instance
// count. Keys without parentheses pass through unchanged.
func parseKeyWithCountHint(key string, lineNum int) (string, *int, error) {
	paren := strings.IndexByte(key, '(')
	if paren < 0 {
		return key, nil, nil
	}
	if !strings.HasSuffix(key, ")") {
		return "", nil, ir.NewError(ir.KindSyntax, lineNum,
			"unclosed count hint parenthesis")
	}
	countStr := key[paren+1 : len(key)-1]
	n, err := strconv.ParseUint(countStr, 10, 63)
	if err != nil {
		return "", nil, ir.Errorf(ir.KindSyntax, lineNum,
			"invalid count hint: '%s'", countStr)
	}
	if n == 0 {
		return "", nil, ir.NewError(ir.KindSyntax, lineNum,
			"count hint must be greater than zero")
	}
	count := int(n)
	return key[:paren], &count, nil
}

// isListStart reports whether the text after a colon reads as "@TypeName" or
// "@TypeName[...]" with a well-formed type name. Anything else is left to the
// key-value path, where "@x" parses as a reference.
func isListStart(s string) bool {
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

func parseListStart(s string, lineNum int, hdr *header, limits *Limits) (string, []string, error) {
	rest := strings.TrimSpace(s)[1:]

	bracket := strings.IndexByte(rest, '[')
	if bracket < 0 {
		// Declared schema lookup.
		typeName := strings.TrimSpace(rest)
		if !token.IsTypeName(typeName) {
			return "", nil, ir.Errorf(ir.KindSyntax, lineNum, "invalid type name: %s", typeName)
		}
		cols, ok := hdr.schemaColumns(typeName)
		if !ok {
			return "", nil, ir.Errorf(ir.KindSchema, lineNum, "undefined type: %s", typeName)
		}
		return typeName, cols, nil
	}

	// Inline schema.
	typeName := rest[:bracket]
	if !token.IsTypeName(typeName) {
		return "", nil, ir.Errorf(ir.KindSyntax, lineNum, "invalid type name: %s", typeName)
	}
	schema, err := parseInlineSchema(rest[bracket:], lineNum, limits)
	if err != nil {
		return "", nil, err
	}
	if declared, ok := hdr.schemaColumns(typeName); ok && !equalColumns(declared, schema) {
		return "", nil, ir.Errorf(ir.KindSchema, lineNum,
			"inline schema for '%s' doesn't match declared schema", typeName)
	}
	return typeName, schema, nil
}

func parseInlineSchema(s string, lineNum int, limits *Limits) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, ir.NewError(ir.KindSyntax, lineNum, "invalid inline schema format")
	}
	var columns []string
	for _, part := range strings.Split(s[1:len(s)-1], ",") {
		col := strings.TrimSpace(part)
		if col == "" {
			continue
		}
		if !token.IsKeyToken(col) {
			return nil, ir.Errorf(ir.KindSyntax, lineNum, "invalid column name: %s", col)
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, ir.NewError(ir.KindSyntax, lineNum, "empty inline schema")
	}
	if len(columns) > limits.MaxColumns {
		return nil, ir.Errorf(ir.KindSecurity, lineNum,
			"too many columns: %d", len(columns))
	}
	return columns, nil
}

func parseMatrixRow(stack *[]*frame, content string, indent, lineNum int, hdr *header, limits *Limits, reg *typeRegistry, inf *inferer, nodeCount *int) error {
	listIdx, err := findListFrame(stack, indent, lineNum, hdr, limits)
	if err != nil {
		return err
	}
	lf := (*stack)[listIdx]

	rest, childCount, hasCount := token.CutCountHint(content[1:])
	csv := strings.TrimSpace(token.StripComment(rest))

	cells, err := token.SplitRow(csv)
	if err != nil {
		return ir.NewError(ir.KindSyntax, lineNum, err.Error())
	}
	if len(cells) != len(lf.schema) {
		return ir.Errorf(ir.KindShape, lineNum,
			"expected %d columns, got %d", len(lf.schema), len(cells))
	}

	values := make([]ir.Value, 0, len(cells))
	for i, c := range cells {
		var v ir.Value
		if c.Quoted {
			v = inferQuoted(c.Text)
		} else {
			v, err = inf.cell(c.Text, i, lf.lastRow, lineNum)
			if err != nil {
				return err
			}
		}
		values = append(values, v)
	}

	if values[0].Type != ir.StringType {
		return ir.NewError(ir.KindSemantic, lineNum, "ID column must be a string")
	}
	id := values[0].String
	if !token.IsIDToken(id) {
		return ir.Errorf(ir.KindSemantic, lineNum,
			"invalid ID format '%s' - must start with letter or underscore", id)
	}
	if err := reg.register(lf.typeName, id, lineNum); err != nil {
		return err
	}

	*nodeCount++
	if *nodeCount > limits.MaxNodes {
		return ir.Errorf(ir.KindSecurity, lineNum,
			"too many nodes: exceeds limit of %d", limits.MaxNodes)
	}

	lf.lastRow = values
	node := ir.NewNode(lf.typeName, id, values)
	if hasCount {
		node.ChildCount = &childCount
	}
	lf.rows = append(lf.rows, node)
	return nil
}

// findListFrame locates the list a row belongs to. A row one level deeper
// than the innermost matching list opens a child list via the parent type's
// nesting rule; the child frame takes the child type as both its type and its
// attachment key.
func findListFrame(stack *[]*frame, indent, lineNum int, hdr *header, limits *Limits) (int, error) {
	for idx := len(*stack) - 1; idx >= 0; idx-- {
		f := (*stack)[idx]
		if f.kind != frameList {
			continue
		}
		if indent == f.rowIndent {
			return idx, nil
		}
		if indent != f.rowIndent+1 {
			continue
		}

		childType, ok := hdr.childTypeOf(f.typeName)
		if !ok {
			return 0, ir.Errorf(ir.KindOrphanRow, lineNum,
				"no NEST rule for parent type '%s'", f.typeName)
		}
		if len(f.rows) == 0 {
			return 0, ir.NewError(ir.KindSemantic, lineNum, "orphan row: child row has no parent row")
		}
		childSchema, ok := hdr.schemaColumns(childType)
		if !ok {
			return 0, ir.Errorf(ir.KindSchema, lineNum,
				"child type '%s' not defined", childType)
		}

		depth := 0
		for _, fr := range *stack {
			if fr.kind == frameList {
				depth++
			}
		}
		if depth >= limits.MaxNestDepth {
			return 0, ir.Errorf(ir.KindSecurity, lineNum,
				"NEST hierarchy depth %d exceeds maximum allowed depth %d",
				depth+1, limits.MaxNestDepth)
		}

		*stack = append(*stack, &frame{
			kind:      frameList,
			rowIndent: indent,
			typeName:  childType,
			schema:    childSchema,
			key:       childType,
		})
		return len(*stack) - 1, nil
	}

	return 0, ir.NewError(ir.KindSyntax, lineNum, "matrix row outside of list context")
}

// validateChildIndent checks that an object, key-value, or block string sits
// exactly one level inside its parent. Scalars can never appear inside a
// list.
func validateChildIndent(stack []*frame, indent, lineNum int) error {
	var expected int
	switch top := stack[len(stack)-1]; top.kind {
	case frameRoot:
		expected = 0
	case frameObject:
		expected = top.indent + 1
	case frameList:
		return ir.NewError(ir.KindSyntax, lineNum, "cannot add key-value inside list context")
	}
	if indent != expected {
		return ir.Errorf(ir.KindSyntax, lineNum,
			"expected indent level %d, got %d", expected, indent)
	}
	return nil
}

// validateNestedListIndent checks the indent of a list declaration, which
// unlike scalars may appear inside a list at child-row level provided a
// parent row exists to receive it.
func validateNestedListIndent(stack []*frame, indent, lineNum int) error {
	for idx := len(stack) - 1; idx >= 0; idx-- {
		switch f := stack[idx]; f.kind {
		case frameList:
			if indent == f.rowIndent+1 {
				if len(f.rows) == 0 {
					return ir.NewError(ir.KindOrphanRow, lineNum,
						"nested list declaration has no parent row")
				}
				return nil
			}
		case frameRoot:
			if indent == 0 {
				return nil
			}
		case frameObject:
			if indent == f.indent+1 {
				return nil
			}
		}
	}
	return ir.Errorf(ir.KindSyntax, lineNum,
		"invalid indent level %d for nested list declaration", indent)
}

func checkDuplicateKey(stack []*frame, key string, lineNum int, limits *Limits, totalKeys *int) error {
	top := stack[len(stack)-1]
	if top.kind == frameList {
		return nil
	}
	obj := top.object
	if obj.Has(key) {
		return ir.Errorf(ir.KindSemantic, lineNum, "duplicate key: %s", key)
	}
	if obj.Len() >= limits.MaxObjectKeys {
		return ir.Errorf(ir.KindSecurity, lineNum,
			"object has too many keys: %d (max: %d)", obj.Len()+1, limits.MaxObjectKeys)
	}
	*totalKeys++
	if *totalKeys > limits.MaxTotalKeys {
		return ir.Errorf(ir.KindSecurity, lineNum,
			"too many total keys: %d exceeds limit %d", *totalKeys, limits.MaxTotalKeys)
	}
	return nil
}

// finalizeStack closes everything still open at end of input. A deepest
// frame that is an empty object means the input broke off after a
// declaration; empty lists are legitimate.
func finalizeStack(stack []*frame) (*ir.Object, error) {
	if len(stack) > 1 {
		top := stack[len(stack)-1]
		if top.kind == frameObject && top.object.Len() == 0 {
			return nil, ir.Errorf(ir.KindSyntax, 0,
				"truncated input: object '%s' has no children", top.key)
		}
	}
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		attachFrame(stack, top)
	}
	return stack[0].object, nil
}
