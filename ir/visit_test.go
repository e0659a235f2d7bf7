package ir

import (
	"errors"
	"strings"
	"testing"
)

func walkDoc() *Document {
	doc := NewDocument()
	doc.Structs.Add(&Schema{TypeName: "Team", Columns: []string{"id", "name"}})
	doc.Structs.Add(&Schema{TypeName: "Member", Columns: []string{"id", "role"}})

	meta := NewObject()
	meta.Set("owner", ScalarOf(FromString("ops")))

	teams := NewMatrixList("Team", []string{"id", "name"})
	t1 := NewNode("Team", "t1", []Value{FromString("t1"), FromString("Eng")})
	t1.AddChild("Member", NewNode("Member", "m1", []Value{FromString("m1"), FromString("lead")}))
	t2 := NewNode("Team", "t2", []Value{FromString("t2"), FromString("Ops")})
	teams.Rows = append(teams.Rows, t1, t2)

	doc.Root.Set("name", ScalarOf(FromString("demo")))
	doc.Root.Set("meta", ObjectOf(meta))
	doc.Root.Set("teams", ListOf(teams))
	return doc
}

func TestWalkOrder(t *testing.T) {
	doc := walkDoc()

	var seq []string
	v := &Visitor{
		Scalar: func(key string, _ Value, _ *Cursor) error {
			seq = append(seq, "scalar "+key)
			return nil
		},
		BeginObject: func(key string, _ *Object, _ *Cursor) error {
			seq = append(seq, "beginobj "+key)
			return nil
		},
		EndObject: func(key string, _ *Object, _ *Cursor) error {
			seq = append(seq, "endobj "+key)
			return nil
		},
		BeginList: func(key string, l *MatrixList, _ *Cursor) error {
			seq = append(seq, "beginlist "+key+" "+l.TypeName)
			return nil
		},
		EndList: func(key string, _ *MatrixList, _ *Cursor) error {
			seq = append(seq, "endlist "+key)
			return nil
		},
		Row: func(n *Node, _ []string, _ *Cursor) error {
			seq = append(seq, "row "+n.ID)
			return nil
		},
	}
	if err := Walk(doc, v); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"scalar name",
		"beginobj meta",
		"scalar owner",
		"endobj meta",
		"beginlist teams Team",
		"row t1",
		"beginlist Member Member",
		"row m1",
		"endlist Member",
		"row t2",
		"endlist teams",
	}
	if len(seq) != len(want) {
		t.Fatalf("got %d callbacks, want %d: %v", len(seq), len(want), seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %q, want %q", i, seq[i], want[i])
		}
	}
}

func TestWalkCursor(t *testing.T) {
	doc := walkDoc()

	v := &Visitor{
		Scalar: func(key string, _ Value, c *Cursor) error {
			if key == "owner" {
				if c.Depth != 1 || strings.Join(c.Path, ".") != "meta" {
					t.Errorf("owner cursor = depth %d, path %v", c.Depth, c.Path)
				}
			}
			return nil
		},
		Row: func(n *Node, schema []string, c *Cursor) error {
			switch n.ID {
			case "t1":
				if c.Depth != 1 || strings.Join(c.Path, ".") != "teams" {
					t.Errorf("t1 cursor = depth %d, path %v", c.Depth, c.Path)
				}
				if len(schema) != 2 || schema[1] != "name" {
					t.Errorf("t1 schema = %v", schema)
				}
				if len(c.Schema) != 2 {
					t.Errorf("t1 cursor schema = %v", c.Schema)
				}
			case "m1":
				if c.Depth != 3 || strings.Join(c.Path, ".") != "teams.t1.Member" {
					t.Errorf("m1 cursor = depth %d, path %v", c.Depth, c.Path)
				}
				if len(schema) != 2 || schema[1] != "role" {
					t.Errorf("m1 schema = %v", schema)
				}
			}
			if c.Doc != doc {
				t.Error("cursor lost the document")
			}
			return nil
		},
	}
	if err := Walk(doc, v); err != nil {
		t.Fatal(err)
	}
}

func TestWalkChildSchemaFallback(t *testing.T) {
	doc := NewDocument()
	list := NewMatrixList("Team", []string{"id"})
	n := NewNode("Team", "t1", []Value{FromString("t1")})
	n.AddChild("Ghost", NewNode("Ghost", "g1", []Value{FromString("g1")}))
	list.Rows = append(list.Rows, n)
	doc.Root.Set("teams", ListOf(list))

	var ghostSchema []string
	seen := false
	v := &Visitor{
		Row: func(n *Node, schema []string, _ *Cursor) error {
			if n.ID == "g1" {
				seen = true
				ghostSchema = schema
			}
			return nil
		},
	}
	if err := Walk(doc, v); err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Fatal("child row not visited")
	}
	if ghostSchema != nil {
		t.Errorf("undeclared child schema = %v, want nil", ghostSchema)
	}
}

func TestWalkAborts(t *testing.T) {
	doc := walkDoc()
	boom := errors.New("boom")

	calls := 0
	v := &Visitor{
		Scalar: func(string, Value, *Cursor) error { calls++; return nil },
		Row: func(n *Node, _ []string, _ *Cursor) error {
			calls++
			if n.ID == "t1" {
				return boom
			}
			return nil
		},
	}
	err := Walk(doc, v)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	// name, owner, then the failing t1 row. Nothing after.
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWalkNilArguments(t *testing.T) {
	if err := Walk(nil, &Visitor{}); err != nil {
		t.Errorf("nil doc: %v", err)
	}
	if err := Walk(walkDoc(), nil); err != nil {
		t.Errorf("nil visitor: %v", err)
	}
	// A visitor with no callbacks still traverses without panicking.
	if err := Walk(walkDoc(), &Visitor{}); err != nil {
		t.Errorf("empty visitor: %v", err)
	}
}
