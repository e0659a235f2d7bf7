package token

import (
	"fmt"
	"strconv"
	"strings"
)

// NeedsQuoteKV reports whether a string value must be quoted in key-value
// position to survive a reparse: empty strings, surrounding whitespace,
// embedded comment or quote characters, a leading inference trigger, and text
// that reads as a boolean or number.
func NeedsQuoteKV(s string) bool {
	if s == "" {
		return true
	}
	if s != strings.TrimSpace(s) || strings.ContainsAny(s, `#"`) {
		return true
	}
	switch s[0] {
	case '~', '@', '$', '%', '[':
		return true
	}
	return readsAsScalar(s)
}

// NeedsQuoteCell is the matrix-cell variant of NeedsQuoteKV. Cells also
// reserve ',', '|' and a leading ditto marker. Empty cells do not need quotes;
// the writer quotes an empty final cell itself.
func NeedsQuoteCell(s string) bool {
	if s == "" {
		return false
	}
	if s != strings.TrimSpace(s) || strings.ContainsAny(s, `,|#"`) {
		return true
	}
	switch s[0] {
	case '~', '@', '$', '%', '^', '[':
		return true
	}
	return readsAsScalar(s)
}

func readsAsScalar(s string) bool {
	if s == "true" || s == "false" {
		return true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

// EscapeQuoted doubles quote characters for key-value and directive output.
func EscapeQuoted(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// EscapeCell escapes a string for quoted matrix-cell output: quotes are
// doubled and newline, tab, carriage return and backslash become escape
// pairs.
func EscapeCell(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`""`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// QuoteKV wraps s in quotes with key-value escaping applied.
func QuoteKV(s string) string { return `"` + EscapeQuoted(s) + `"` }

// QuoteCell wraps s in quotes with cell escaping applied.
func QuoteCell(s string) string { return `"` + EscapeCell(s) + `"` }

// UnquoteKV reads a quoted key-value string. Only the "" escape is
// recognized; the scan stops at the first unescaped closing quote and any
// text after it is discarded.
func UnquoteKV(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return "", fmt.Errorf("%w: expected quoted string", ErrQuotedString)
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] == '"' {
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			return b.String(), nil
		}
		b.WriteByte(s[i])
	}
	return "", ErrUnclosedQuote
}

// UnquoteAlias reads an alias value: a quoted string that must span the whole
// token, with "" as the only escape. An unescaped quote anywhere but the end
// is an error.
func UnquoteAlias(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("%w: value must be a quoted string", ErrQuotedString)
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '"' {
			if i+1 < len(inner) && inner[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			return "", ErrUnclosedQuote
		}
		b.WriteByte(inner[i])
	}
	return b.String(), nil
}

// ScanExpression scans an expression token starting at "$(" and returns the
// byte offset just past the closing parenthesis. Parentheses inside quotes do
// not affect the depth; "" is an escaped quote. A newline or the end of input
// before closure is an error.
func ScanExpression(s string) (int, error) {
	if !strings.HasPrefix(s, "$(") {
		return 0, fmt.Errorf("%w: expected '$('", ErrExpression)
	}
	depth := 1
	inQuote := false
	for i := 2; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\n':
			return 0, ErrUnclosedExpression
		case c == '"':
			if inQuote && i+1 < len(s) && s[i+1] == '"' {
				i++
				continue
			}
			inQuote = !inQuote
		case c == '(' && !inQuote:
			depth++
		case c == ')' && !inQuote:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, ErrUnclosedExpression
}
