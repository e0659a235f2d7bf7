package stream

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/parse"
	"github.com/dweve/hedl-format/go-hedl/token"
	"github.com/google/go-cmp/cmp"
)

const hdrMin = "%VERSION: 1.0\n---\n"

const hdrTeams = `%VERSION: 1.0
%STRUCT: Team: [id, name]
%STRUCT: Member: [id, role]
%NEST: Team > Member
---
`

func mustDecoder(t *testing.T, input string, opts ...Option) *Decoder {
	t.Helper()
	dec, err := NewDecoder(strings.NewReader(input), opts...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	return dec
}

func decode(t *testing.T, input string, opts ...Option) []*Event {
	t.Helper()
	evs, err := Collect(mustDecoder(t, input, opts...))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return evs
}

// sketch flattens events into compact strings for sequence assertions.
func sketch(evs []*Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		switch ev.Type {
		case EventBeginObject:
			out = append(out, "obj "+ev.Key)
		case EventEndObject:
			out = append(out, "endobj "+ev.Key)
		case EventBeginList:
			out = append(out, "list "+ev.Key+" "+ev.TypeName)
		case EventEndList:
			out = append(out, fmt.Sprintf("endlist %s %d", ev.Key, ev.Count))
		case EventRow:
			out = append(out, "row "+ev.Node.ID)
		case EventScalar:
			out = append(out, "kv "+ev.Key)
		}
	}
	return out
}

func TestDecoderHeader(t *testing.T) {
	dec := mustDecoder(t, hdrTeams)
	h := dec.Header()

	if h.Version != (ir.Version{Major: 1, Minor: 0}) {
		t.Errorf("version = %v", h.Version)
	}
	cols, ok := h.SchemaOf("Team")
	if !ok {
		t.Fatal("Team schema missing")
	}
	if diff := cmp.Diff([]string{"id", "name"}, cols); diff != "" {
		t.Errorf("Team columns mismatch (-want +got):\n%s", diff)
	}
	if _, ok := h.SchemaOf("Ghost"); ok {
		t.Error("Ghost schema should not exist")
	}
	child, ok := h.ChildTypeOf("Team")
	if !ok || child != "Member" {
		t.Errorf("ChildTypeOf(Team) = %q, %v", child, ok)
	}
	if _, ok := h.ChildTypeOf("Member"); ok {
		t.Error("Member should have no child type")
	}
}

func TestDecoderEmptyBody(t *testing.T) {
	dec := mustDecoder(t, hdrMin)
	if _, err := dec.ReadEvent(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	// EOF is sticky.
	if _, err := dec.ReadEvent(); err != io.EOF {
		t.Fatalf("second err = %v, want io.EOF", err)
	}
}

func TestDecoderEventSequence(t *testing.T) {
	evs := decode(t, hdrTeams+`name: demo
meta:
  region: eu
teams: @Team
  |t1,Engineering
    |m1,lead
    |m2,dev
  |t2,Ops
`)

	want := []string{
		"kv name",
		"obj meta",
		"kv region",
		"endobj meta",
		"list teams Team",
		"row t1",
		"list Member Member",
		"row m1",
		"row m2",
		"endlist Member 2",
		"row t2",
		"endlist teams 2",
	}
	if diff := cmp.Diff(want, sketch(evs)); diff != "" {
		t.Fatalf("event sequence mismatch (-want +got):\n%s", diff)
	}

	childList := evs[6]
	if diff := cmp.Diff([]string{"id", "role"}, childList.Schema); diff != "" {
		t.Errorf("child schema mismatch (-want +got):\n%s", diff)
	}

	m1 := evs[7]
	if m1.Depth != 1 || m1.ParentType != "Team" || m1.ParentID != "t1" {
		t.Errorf("m1 parent info = depth %d, %s:%s", m1.Depth, m1.ParentType, m1.ParentID)
	}
	if m1.Node.TypeName != "Member" || m1.Key != "Member" {
		t.Errorf("m1 typing = %s key %s", m1.Node.TypeName, m1.Key)
	}

	t2 := evs[10]
	if t2.Depth != 0 || t2.ParentType != "" || t2.ParentID != "" {
		t.Errorf("t2 parent info = depth %d, %s:%s", t2.Depth, t2.ParentType, t2.ParentID)
	}
	if !t2.Node.Fields[1].Equal(ir.FromString("Ops")) {
		t.Errorf("t2 name = %+v", t2.Node.Fields[1])
	}

	if evs[0].Line != 6 || evs[3].Line != 9 || evs[7].Line != 11 {
		t.Errorf("lines = %d, %d, %d", evs[0].Line, evs[3].Line, evs[7].Line)
	}
}

func TestDecoderScalarValues(t *testing.T) {
	evs := decode(t, hdrMin+`count: 42
ratio: 2.5
on: true
off: false
empty: ~
label: hello world
quoted: "42"
home: @Team:t1
vec: [1.0, 2.0]
calc: $(a + b)
`)

	want := []struct {
		key   string
		value ir.Value
	}{
		{"count", ir.FromInt(42)},
		{"ratio", ir.FromFloat(2.5)},
		{"on", ir.FromBool(true)},
		{"off", ir.FromBool(false)},
		{"empty", ir.Null()},
		{"label", ir.FromString("hello world")},
		{"quoted", ir.FromString("42")},
		{"home", ir.FromRef("Team", "t1")},
		{"vec", ir.FromTensor(token.Array(token.Scalar(1), token.Scalar(2)))},
		{"calc", ir.FromExpr("a + b")},
	}
	if len(evs) != len(want) {
		t.Fatalf("got %d events, want %d", len(evs), len(want))
	}
	for i, w := range want {
		ev := evs[i]
		if ev.Type != EventScalar || ev.Key != w.key {
			t.Errorf("event %d = %s %q, want Scalar %q", i, ev.Type, ev.Key, w.key)
			continue
		}
		if !ev.Value.Equal(w.value) {
			t.Errorf("%s = %+v, want %+v", w.key, ev.Value, w.value)
		}
		if ev.Line != 3+i {
			t.Errorf("%s line = %d, want %d", w.key, ev.Line, 3+i)
		}
	}
}

func TestDecoderAliasExpansion(t *testing.T) {
	input := `%VERSION: 1.0
%ALIAS: %hq: "Amsterdam"
%ALIAS: %yes: "true"
---
place: %hq
active: %yes
`
	dec := mustDecoder(t, input)

	v, ok := dec.Header().Aliases.Get("hq")
	if !ok || v != "Amsterdam" {
		t.Errorf("alias hq = %q, %v", v, ok)
	}

	evs, err := Collect(dec)
	if err != nil {
		t.Fatal(err)
	}
	if !evs[0].Value.Equal(ir.FromString("Amsterdam")) {
		t.Errorf("place = %+v", evs[0].Value)
	}
	if !evs[1].Value.Equal(ir.FromBool(true)) {
		t.Errorf("active = %+v", evs[1].Value)
	}
}

func TestDecoderDittoScoping(t *testing.T) {
	evs := decode(t, hdrTeams+`teams: @Team
  |t1,Core
    |m1,lead
    |m2,^
  |t2,^
`)

	m2 := evs[4]
	if m2.Node.ID != "m2" || !m2.Node.Fields[1].Equal(ir.FromString("lead")) {
		t.Errorf("m2 ditto = %+v", m2.Node.Fields[1])
	}

	// The parent list's previous row is t1, not the child row decoded in
	// between.
	t2 := evs[6]
	if t2.Node.ID != "t2" || !t2.Node.Fields[1].Equal(ir.FromString("Core")) {
		t.Errorf("t2 ditto = %+v", t2.Node.Fields[1])
	}
}

func TestDecoderDittoFirstChildRow(t *testing.T) {
	_, err := Collect(mustDecoder(t, hdrTeams+`teams: @Team
  |t1,Core
    |m1,^
`))
	if !errors.Is(err, ir.ErrSemantic) {
		t.Fatalf("err = %v, want semantic", err)
	}
	de, _ := ir.AsError(err)
	if !strings.Contains(de.Message, "first row of list") {
		t.Errorf("message = %q", de.Message)
	}
}

func TestDecoderBlockString(t *testing.T) {
	evs := decode(t, hdrMin+`note: """
alpha
beta
"""
after: 1
`)

	if len(evs) != 2 {
		t.Fatalf("got %d events", len(evs))
	}
	if evs[0].Key != "note" || !evs[0].Value.Equal(ir.FromString("\nalpha\nbeta\n")) {
		t.Errorf("note = %+v", evs[0].Value)
	}
	if evs[0].Line != 3 {
		t.Errorf("note line = %d, want 3", evs[0].Line)
	}
	if evs[1].Key != "after" {
		t.Errorf("second event = %q", evs[1].Key)
	}
}

func TestDecoderUnclosedBlockString(t *testing.T) {
	_, err := Collect(mustDecoder(t, hdrMin+"note: \"\"\"\nalpha\n"))
	if !errors.Is(err, ir.ErrSyntax) {
		t.Fatalf("err = %v, want syntax", err)
	}
	de, _ := ir.AsError(err)
	if !strings.Contains(de.Message, "unclosed block string") {
		t.Errorf("message = %q", de.Message)
	}
}

func TestDecoderInlineSchema(t *testing.T) {
	evs := decode(t, hdrMin+`points: @P[id, x, y]
  |p1,1.5,-2.0
`)

	begin := evs[0]
	if begin.TypeName != "P" {
		t.Errorf("type = %q", begin.TypeName)
	}
	if diff := cmp.Diff([]string{"id", "x", "y"}, begin.Schema); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
	row := evs[1]
	if !row.Node.Fields[1].Equal(ir.FromFloat(1.5)) || !row.Node.Fields[2].Equal(ir.FromFloat(-2)) {
		t.Errorf("row fields = %+v", row.Node.Fields)
	}
}

func TestDecoderInlineSchemaMismatch(t *testing.T) {
	input := "%VERSION: 1.0\n%STRUCT: P: [id, x]\n---\npoints: @P[id, y]\n"
	_, err := Collect(mustDecoder(t, input))
	if !errors.Is(err, ir.ErrSchema) {
		t.Fatalf("err = %v, want schema", err)
	}
}

func TestDecoderCountHints(t *testing.T) {
	evs := decode(t, hdrTeams+`teams(2): @Team
  |[1] t1,Eng
    |m1,dev
  |t2,Ops
`)

	begin := evs[0]
	if begin.Type != EventBeginList || begin.Count != 2 {
		t.Errorf("begin hint = %d", begin.Count)
	}
	t1 := evs[1]
	if t1.Node.ChildCount == nil || *t1.Node.ChildCount != 1 {
		t.Errorf("t1 child count = %v", t1.Node.ChildCount)
	}
	last := evs[len(evs)-1]
	if last.Type != EventEndList || last.Count != 2 {
		t.Errorf("end count = %d", last.Count)
	}
}

func TestDecoderNestedListDecl(t *testing.T) {
	input := `%VERSION: 1.0
%STRUCT: Item: [id, label]
%STRUCT: Tag: [id, color]
---
items: @Item
  |i1,First
    tags: @Tag
      |g1,red
  |i2,Second
`
	evs := decode(t, input)

	want := []string{
		"list items Item",
		"row i1",
		"list tags Tag",
		"row g1",
		"endlist tags 1",
		"row i2",
		"endlist items 2",
	}
	if diff := cmp.Diff(want, sketch(evs)); diff != "" {
		t.Fatalf("event sequence mismatch (-want +got):\n%s", diff)
	}

	g1 := evs[3]
	if g1.Depth != 1 || g1.ParentType != "Item" || g1.ParentID != "i1" {
		t.Errorf("g1 parent info = depth %d, %s:%s", g1.Depth, g1.ParentType, g1.ParentID)
	}
}

func TestDecoderEmptyList(t *testing.T) {
	evs := decode(t, hdrTeams+"teams: @Team\n")
	want := []string{"list teams Team", "endlist teams 0"}
	if diff := cmp.Diff(want, sketch(evs)); diff != "" {
		t.Fatalf("event sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderBodyErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  error
		msg   string
	}{
		{"orphan child row", hdrTeams + "teams: @Team\n    |m1,lead\n", ir.ErrSemantic, "orphan row: child row has no parent row"},
		{"no nest rule", "%VERSION: 1.0\n%STRUCT: Team: [id, name]\n---\nteams: @Team\n  |t1,Eng\n    |x,y\n", ir.ErrOrphanRow, "no NEST rule"},
		{"shape mismatch", hdrTeams + "teams: @Team\n  |t1\n", ir.ErrShape, "expected 2 columns, got 1"},
		{"bad row id", hdrTeams + "teams: @Team\n  |9lives,Eng\n", ir.ErrSemantic, "invalid ID format"},
		{"null row id", hdrTeams + "teams: @Team\n  |~,Eng\n", ir.ErrSemantic, "null (~) not permitted"},
		{"row outside list", hdrMin + "|a,b\n", ir.ErrSyntax, "matrix row outside of list context"},
		{"kv inside list", hdrTeams + "teams: @Team\n  |t1,Eng\n  x: 1\n", ir.ErrSyntax, "cannot add key-value inside list"},
		{"duplicate key", hdrMin + "a: 1\na: 2\n", ir.ErrSemantic, "duplicate key: a"},
		{"tab indent", hdrMin + "\tx: 1\n", ir.ErrSyntax, "tab character not allowed"},
		{"odd indent", hdrMin + " x: 1\n", ir.ErrSyntax, "multiple of 2 spaces"},
		{"over-indented kv", hdrMin + "a:\n    b: 1\n", ir.ErrSyntax, "expected indent level 1, got 2"},
		{"undefined type", hdrMin + "xs: @Nope\n", ir.ErrSchema, "undefined type: Nope"},
		{"truncated object", hdrMin + "a:\n", ir.ErrSyntax, "truncated input"},
		{"missing colon", hdrMin + "just words\n", ir.ErrSyntax, "expected ':' in line"},
		{"undefined alias", hdrMin + "k: %ghost\n", ir.ErrAlias, "undefined alias"},
		{"invalid utf8", hdrMin + "k: \xff\xfe\n", ir.ErrSyntax, "invalid UTF-8"},
		{"bare cr", hdrMin + "k: v\rx\n", ir.ErrSyntax, "bare CR"},
		{"control char", hdrMin + "k: a\x01b\n", ir.ErrSyntax, "control character"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Collect(mustDecoder(t, tc.input))
			if err == nil {
				t.Fatal("no error")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			de, _ := ir.AsError(err)
			if !strings.Contains(de.Message, tc.msg) {
				t.Errorf("message = %q, want %q", de.Message, tc.msg)
			}
		})
	}
}

func TestDecoderErrorLineNumbers(t *testing.T) {
	_, err := Collect(mustDecoder(t, hdrMin+"ok: 1\nbad: %ghost\n"))
	de, ok := ir.AsError(err)
	if !ok {
		t.Fatalf("err = %v", err)
	}
	if de.Line != 4 {
		t.Errorf("line = %d, want 4", de.Line)
	}
}

func TestNewDecoderHeaderErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  error
	}{
		{"empty input", "", ir.ErrSyntax},
		{"missing version", "---\n", ir.ErrSyntax},
		{"missing separator", "%VERSION: 1.0\n", ir.ErrSyntax},
		{"unsupported version", "%VERSION: 2.0\n---\n", ir.ErrVersion},
		{"unknown directive", "%VERSION: 1.0\n%WAT: x\n---\n", ir.ErrSyntax},
		{"nest undefined parent", "%VERSION: 1.0\n%NEST: A > B\n---\n", ir.ErrSchema},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecoder(strings.NewReader(tc.input))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewDecoderBadBufferSize(t *testing.T) {
	_, err := NewDecoder(strings.NewReader(hdrMin), BufferSize(-1))
	if err == nil || !strings.Contains(err.Error(), "buffer size") {
		t.Fatalf("err = %v", err)
	}
}

func TestDecoderLimits(t *testing.T) {
	withLimit := func(set func(*parse.Limits)) Option {
		l := parse.DefaultLimits()
		set(&l)
		return WithLimits(l)
	}

	for _, tc := range []struct {
		name  string
		input string
		opt   Option
		msg   string
	}{
		{
			"max nodes",
			hdrTeams + "teams: @Team\n  |t1,a\n  |t2,b\n",
			withLimit(func(l *parse.Limits) { l.MaxNodes = 1 }),
			"too many nodes",
		},
		{
			"line too long",
			hdrMin + "label: " + strings.Repeat("x", 30) + "\n",
			withLimit(func(l *parse.Limits) { l.MaxLineLength = 20 }),
			"line too long",
		},
		{
			"indent depth",
			hdrMin + "a:\n  b:\n    c:\n      d: 1\n",
			withLimit(func(l *parse.Limits) { l.MaxIndentDepth = 2 }),
			"indent depth 3 exceeds limit 2",
		},
		{
			"block string size",
			hdrMin + "note: \"\"\"\nabcdef\n\"\"\"\n",
			withLimit(func(l *parse.Limits) { l.MaxBlockString = 4 }),
			"block string size",
		},
		{
			"object keys",
			hdrMin + "a: 1\nb: 2\nc: 3\n",
			withLimit(func(l *parse.Limits) { l.MaxObjectKeys = 2 }),
			"too many keys",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Collect(mustDecoder(t, tc.input, tc.opt))
			if !errors.Is(err, ir.ErrSecurity) {
				t.Fatalf("err = %v, want security", err)
			}
			de, _ := ir.AsError(err)
			if !strings.Contains(de.Message, tc.msg) {
				t.Errorf("message = %q, want %q", de.Message, tc.msg)
			}
		})
	}
}

func TestDecoderEventsBeforeError(t *testing.T) {
	// The scalar on the first body line is delivered before the error on
	// the second surfaces.
	dec := mustDecoder(t, hdrMin+"ok: 1\nbad: %ghost\n")

	ev, err := dec.ReadEvent()
	if err != nil {
		t.Fatalf("first event: %v", err)
	}
	if ev.Key != "ok" {
		t.Errorf("first event = %q", ev.Key)
	}

	if _, err := dec.ReadEvent(); !errors.Is(err, ir.ErrAlias) {
		t.Fatalf("err = %v, want alias", err)
	}
	// Errors are sticky.
	if _, err := dec.ReadEvent(); !errors.Is(err, ir.ErrAlias) {
		t.Fatalf("repeat err = %v, want alias", err)
	}
}

func TestDecoderInputHygiene(t *testing.T) {
	// BOM and CRLF line endings decode like plain LF input.
	input := "\xEF\xBB\xBF%VERSION: 1.0\r\n---\r\nname: demo\r\n"
	evs := decode(t, input)
	if len(evs) != 1 || !evs[0].Value.Equal(ir.FromString("demo")) {
		t.Fatalf("events = %v", sketch(evs))
	}
}

// buildTree reassembles the decoded events into a document tree the way
// the batch parser builds one.
func buildTree(t *testing.T, evs []*Event) *ir.Object {
	t.Helper()
	type level struct {
		obj  *ir.Object
		list *ir.MatrixList
		key  string
	}
	root := ir.NewObject()
	stack := []level{{obj: root}}

	for _, ev := range evs {
		top := &stack[len(stack)-1]
		switch ev.Type {
		case EventBeginObject:
			o := ir.NewObject()
			top.obj.Set(ev.Key, ir.ObjectOf(o))
			stack = append(stack, level{obj: o})
		case EventEndObject:
			stack = stack[:len(stack)-1]
		case EventBeginList:
			ml := ir.NewMatrixList(ev.TypeName, ev.Schema)
			if ev.Count > 0 {
				n := ev.Count
				ml.CountHint = &n
			}
			stack = append(stack, level{list: ml, key: ev.Key})
		case EventEndList:
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			if parent.list != nil {
				last := parent.list.Rows[len(parent.list.Rows)-1]
				for _, row := range done.list.Rows {
					last.AddChild(done.list.TypeName, row)
				}
			} else {
				parent.obj.Set(done.key, ir.ListOf(done.list))
			}
		case EventRow:
			top.list.Rows = append(top.list.Rows, ev.Node)
		case EventScalar:
			top.obj.Set(ev.Key, ir.ScalarOf(ev.Value))
		default:
			t.Fatalf("unexpected event %v", ev.Type)
		}
	}
	if len(stack) != 1 {
		t.Fatalf("unbalanced events: %d levels open", len(stack)-1)
	}
	return root
}

func TestDecoderMatchesParse(t *testing.T) {
	const input = `%VERSION: 1.0
%ALIAS: %hq: "Amsterdam"
%STRUCT: Team (2): [id, name, size]
%STRUCT: Member: [id, role]
%NEST: Team > Member
---
name: demo
city: %hq
active: true
meta:
  region: eu
  owner: ~
  note: """
multi
line
"""
teams: @Team
  |[2] t1,Engineering,3.5
    |m1,lead
    |m2,"dev,ops"
  |t2,^,2.0
points(1): @P[id, x]
  |p1,1.25
tags: @Team:t1
`

	batch, err := parse.ParseString(input)
	if err != nil {
		t.Fatalf("batch parse: %v", err)
	}

	dec := mustDecoder(t, input)
	evs, err := Collect(dec)
	if err != nil {
		t.Fatalf("stream decode: %v", err)
	}

	h := dec.Header()
	streamed := &ir.Document{
		Version: h.Version,
		Aliases: h.Aliases,
		Structs: h.Structs,
		Nests:   h.Nests,
		Root:    buildTree(t, evs),
	}
	if diff := cmp.Diff(batch, streamed); diff != "" {
		t.Errorf("document mismatch (-batch +stream):\n%s", diff)
	}
}

func TestDecoderUnresolvedReference(t *testing.T) {
	// The batch parser rejects dangling references in strict mode; the
	// event decoder reports them as values and leaves resolution to the
	// consumer.
	input := hdrMin + "home: @Team:nowhere\n"
	if _, err := parse.ParseString(input); err == nil {
		t.Fatal("batch parse should reject the dangling reference")
	}
	evs := decode(t, input)
	if !evs[0].Value.Equal(ir.FromRef("Team", "nowhere")) {
		t.Errorf("home = %+v", evs[0].Value)
	}
}

func TestDecoderReset(t *testing.T) {
	dec := mustDecoder(t, hdrMin+"x: 1\n")
	if _, err := Collect(dec); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.ReadEvent(); err != io.EOF {
		t.Fatalf("drained err = %v, want io.EOF", err)
	}

	if err := dec.Reset(strings.NewReader(hdrTeams + "teams: @Team\n")); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok := dec.Header().SchemaOf("Team"); !ok {
		t.Error("header not replaced")
	}
	evs, err := Collect(dec)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"list teams Team", "endlist teams 0"}
	if diff := cmp.Diff(want, sketch(evs)); diff != "" {
		t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderResetAfterError(t *testing.T) {
	dec := mustDecoder(t, hdrMin+"|a\n")
	if _, err := Collect(dec); err == nil {
		t.Fatal("no error from bad body")
	}
	if err := dec.Reset(strings.NewReader(hdrMin + "x: 1\n")); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	evs, err := Collect(dec)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 || evs[0].Key != "x" {
		t.Errorf("events = %v", sketch(evs))
	}
}
