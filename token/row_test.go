package token

import (
	"errors"
	"testing"
)

func TestSplitRow(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []Cell
	}{
		{"a, b, c", []Cell{{Text: "a"}, {Text: "b"}, {Text: "c"}}},
		{"a,b,c", []Cell{{Text: "a"}, {Text: "b"}, {Text: "c"}}},
		{`"hello, world", other`, []Cell{{Text: "hello, world", Quoted: true}, {Text: "other"}}},
		{`id, $(a, b), v`, []Cell{{Text: "id"}, {Text: "$(a, b)"}, {Text: "v"}}},
		{"id, [1, 2, 3]", []Cell{{Text: "id"}, {Text: "[1, 2, 3]"}}},
		{"a,,b", []Cell{{Text: "a"}, {Text: ""}, {Text: "b"}}},
		{`"say ""hi"""`, []Cell{{Text: `say "hi"`, Quoted: true}}},
		{`"line\nbreak", x`, []Cell{{Text: "line\nbreak", Quoted: true}, {Text: "x"}}},
		{`"tab\there"`, []Cell{{Text: "tab\there", Quoted: true}}},
		{`"back\\slash"`, []Cell{{Text: `back\slash`, Quoted: true}}},
		{`"esc\"quote"`, []Cell{{Text: `esc"quote`, Quoted: true}}},
		{`"keep\qit"`, []Cell{{Text: `keep\qit`, Quoted: true}}},
		{"  spaced  ,  out  ", []Cell{{Text: "spaced"}, {Text: "out"}}},
		{"^, ^, kept", []Cell{{Text: "^"}, {Text: "^"}, {Text: "kept"}}},
		{"", nil},
		{"   ", nil},
		{"[[1, 2], [3, 4]], tail", []Cell{{Text: "[[1, 2], [3, 4]]"}, {Text: "tail"}}},
		{"$(a | b), x", []Cell{{Text: "$(a | b)"}, {Text: "x"}}},
	} {
		got, err := SplitRow(tc.in)
		if err != nil {
			t.Errorf("SplitRow(%q): %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("SplitRow(%q) = %d cells, want %d", tc.in, len(got), len(tc.want))
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("SplitRow(%q)[%d] = %+v, want %+v", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSplitRowErrors(t *testing.T) {
	for _, tc := range []struct {
		in      string
		wantErr error
	}{
		{"a, b,", ErrTrailingComma},
		{"a, b,  ", ErrTrailingComma},
		{`"open`, ErrUnclosedQuote},
		{`a, "open escape\`, ErrUnclosedQuote},
		{"$(never closes", ErrUnclosedExpression},
		{`mid"quote`, ErrRow},
		{`"done" extra`, ErrRow},
		{"pi|pe", ErrRow},
	} {
		_, err := SplitRow(tc.in)
		if err == nil {
			t.Errorf("SplitRow(%q): no error", tc.in)
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("SplitRow(%q) = %v, want %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestCutCountHint(t *testing.T) {
	for _, tc := range []struct {
		in    string
		rest  string
		count int
		ok    bool
	}{
		{"[3] alice, 30", "alice, 30", 3, true},
		{"[0] solo", "solo", 0, true},
		{"[12]tight", "tight", 12, true},
		{"alice, 30", "alice, 30", 0, false},
		{"[1, 2, 3], x", "[1, 2, 3], x", 0, false},
		{"[x] data", "[x] data", 0, false},
		{"[3 data", "[3 data", 0, false},
	} {
		rest, count, ok := CutCountHint(tc.in)
		if rest != tc.rest || count != tc.count || ok != tc.ok {
			t.Errorf("CutCountHint(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tc.in, rest, count, ok, tc.rest, tc.count, tc.ok)
		}
	}
}
