package token

import (
	"errors"
	"testing"
)

func TestNeedsQuoteKV(t *testing.T) {
	for _, s := range []string{
		"", " lead", "trail ", "has # comment", `has "quote"`,
		"~null", "@ref", "$(expr)", "%alias", "[1, 2]",
		"true", "false", "42", "-7", "3.25", "1e5", "inf",
	} {
		if !NeedsQuoteKV(s) {
			t.Errorf("NeedsQuoteKV(%q) = false", s)
		}
	}
	for _, s := range []string{
		"plain", "two words", "a, b", "^caret", "pipe|ok", "truex", "10 sheep",
	} {
		if NeedsQuoteKV(s) {
			t.Errorf("NeedsQuoteKV(%q) = true", s)
		}
	}
}

func TestNeedsQuoteCell(t *testing.T) {
	for _, s := range []string{
		" lead", "a, b", "pi|pe", "has # note", `"q"`,
		"~", "@ref", "$(x)", "%a", "^", "[1]", "true", "0.5",
	} {
		if !NeedsQuoteCell(s) {
			t.Errorf("NeedsQuoteCell(%q) = false", s)
		}
	}
	for _, s := range []string{"", "plain", "two words", "mid^caret", "x~y"} {
		if NeedsQuoteCell(s) {
			t.Errorf("NeedsQuoteCell(%q) = true", s)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain",
		`say "hi"`,
		"",
		"# not a comment",
		"trailing ",
	} {
		got, err := UnquoteKV(QuoteKV(s))
		if err != nil {
			t.Errorf("UnquoteKV(QuoteKV(%q)): %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("UnquoteKV(QuoteKV(%q)) = %q", s, got)
		}
	}
}

func TestUnquoteKV(t *testing.T) {
	got, err := UnquoteKV(`"abc" trailing junk`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
	if _, err := UnquoteKV(`"never closes`); !errors.Is(err, ErrUnclosedQuote) {
		t.Errorf("unclosed = %v, want ErrUnclosedQuote", err)
	}
	if _, err := UnquoteKV(`bare`); err == nil {
		t.Error("no error for unquoted input")
	}
}

func TestUnquoteAlias(t *testing.T) {
	got, err := UnquoteAlias(`"acme corp"`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "acme corp" {
		t.Errorf("got %q", got)
	}
	got, err = UnquoteAlias(`"say ""hi"""`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `say "hi"` {
		t.Errorf("got %q", got)
	}
	for _, s := range []string{`"abc" junk`, `"a"b"`, `bare`, `"open`, `"`} {
		if _, err := UnquoteAlias(s); err == nil {
			t.Errorf("UnquoteAlias(%q): no error", s)
		}
	}
}

func TestEscapeCell(t *testing.T) {
	got := EscapeCell("a\nb\tc\rd\\e\"f")
	want := `a\nb\tc\rd\\e""f`
	if got != want {
		t.Errorf("EscapeCell = %q, want %q", got, want)
	}
}

func TestScanExpression(t *testing.T) {
	for _, tc := range []struct {
		in  string
		end int
	}{
		{"$(a + b)", 8},
		{"$(f(x, y))", 10},
		{`$(concat(")", x))`, 17},
		{`$(")(")`, 7},
		{"$(x) tail", 4},
	} {
		end, err := ScanExpression(tc.in)
		if err != nil {
			t.Errorf("ScanExpression(%q): %v", tc.in, err)
			continue
		}
		if end != tc.end {
			t.Errorf("ScanExpression(%q) = %d, want %d", tc.in, end, tc.end)
		}
	}
	for _, s := range []string{"$(open", "$(f(x)", "$(a\nb)", "plain", "$"} {
		if _, err := ScanExpression(s); err == nil {
			t.Errorf("ScanExpression(%q): no error", s)
		}
	}
}
