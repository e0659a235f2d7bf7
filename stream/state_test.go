package stream

import (
	"io"
	"strings"
	"testing"
)

func TestDecoderPathTracking(t *testing.T) {
	input := hdrTeams + `meta:
  owner: ops
teams: @Team
  |t1,Eng
    |m1,lead
`
	dec := mustDecoder(t, input)

	if dec.Depth() != 0 || dec.CurrentPath() != "" {
		t.Fatalf("initial state = %d %q", dec.Depth(), dec.CurrentPath())
	}
	if dec.IsInObject() || dec.IsInList() {
		t.Fatal("root should be neither object nor list")
	}

	steps := []struct {
		event    string
		depth    int
		path     string
		inObject bool
		inList   bool
	}{
		{"obj meta", 1, "meta", true, false},
		{"kv owner", 1, "meta", true, false},
		{"endobj meta", 0, "", false, false},
		{"list teams", 1, "teams", false, true},
		{"row t1", 1, "teams[0]", false, true},
		{"list Member", 2, "teams[0].Member", false, true},
		{"row m1", 2, "teams[0].Member[0]", false, true},
		{"endlist Member", 1, "teams[0]", false, true},
		{"endlist teams", 0, "", false, false},
	}
	for _, s := range steps {
		if _, err := dec.ReadEvent(); err != nil {
			t.Fatalf("%s: %v", s.event, err)
		}
		if got := dec.Depth(); got != s.depth {
			t.Errorf("%s: depth = %d, want %d", s.event, got, s.depth)
		}
		if got := dec.CurrentPath(); got != s.path {
			t.Errorf("%s: path = %q, want %q", s.event, got, s.path)
		}
		if got := dec.IsInObject(); got != s.inObject {
			t.Errorf("%s: IsInObject = %v", s.event, got)
		}
		if got := dec.IsInList(); got != s.inList {
			t.Errorf("%s: IsInList = %v", s.event, got)
		}
	}

	if _, err := dec.ReadEvent(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	if dec.Offset() != int64(len(input)) {
		t.Errorf("offset = %d, want %d", dec.Offset(), len(input))
	}
}

func TestDecoderCurrentKey(t *testing.T) {
	dec := mustDecoder(t, hdrMin+"meta:\n  x: 1\n")

	if _, ok := dec.CurrentKey(); ok {
		t.Error("root should have no current key")
	}
	if _, err := dec.ReadEvent(); err != nil {
		t.Fatal(err)
	}
	if key, ok := dec.CurrentKey(); !ok || key != "meta" {
		t.Errorf("key = %q, %v", key, ok)
	}
}

func TestDecoderOffsetAdvances(t *testing.T) {
	input := hdrMin + "a: 1\nb: 2\n"
	dec := mustDecoder(t, input)

	// The header is consumed eagerly.
	after := dec.Offset()
	if after != int64(len(hdrMin)) {
		t.Fatalf("offset after header = %d, want %d", after, len(hdrMin))
	}
	if _, err := dec.ReadEvent(); err != nil {
		t.Fatal(err)
	}
	if dec.Offset() <= after {
		t.Errorf("offset did not advance past %d", after)
	}
}

func TestDecoderPathAfterReset(t *testing.T) {
	dec := mustDecoder(t, hdrMin+"meta:\n  x: 1\n")
	if _, err := dec.ReadEvent(); err != nil {
		t.Fatal(err)
	}
	if dec.Depth() != 1 {
		t.Fatalf("depth = %d", dec.Depth())
	}

	if err := dec.Reset(strings.NewReader(hdrMin + "y: 2\n")); err != nil {
		t.Fatal(err)
	}
	if dec.Depth() != 0 || dec.CurrentPath() != "" {
		t.Errorf("state survived reset: %d %q", dec.Depth(), dec.CurrentPath())
	}
}
