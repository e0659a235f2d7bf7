package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one matrix-row field. Quoted cells carry their text with escapes
// already processed and are exempt from type inference.
type Cell struct {
	Text   string
	Quoted bool
}

type splitState int

const (
	stateStart splitState = iota
	stateUnquoted
	stateQuoted
	stateAfterQuote
	stateExpression
)

// CutCountHint strips a leading "[N]" child-count hint from row content (the
// text after the '|' marker). The hint is informational only. A bracketed
// prefix that does not parse as a non-negative integer is left in place and
// treated as cell data.
func CutCountHint(s string) (rest string, count int, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return s, 0, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return s, 0, false
	}
	n, err := strconv.ParseUint(s[1:end], 10, 63)
	if err != nil {
		return s, 0, false
	}
	return strings.TrimLeft(s[end+1:], " \t"), int(n), true
}

// SplitRow splits matrix-row content into cells. The delimiter is ',' and the
// quote character is '"'. Commas inside quotes, inside bracketed tensor
// literals, and inside expressions opened at the start of a field do not
// delimit. Unquoted cells are trimmed of surrounding whitespace and may not
// contain a quote character, nor a pipe character outside an expression.
// Inside quotes, "" yields a literal quote and the escape pairs \n \t \r \\
// \" are processed; an unrecognized escape keeps the backslash as-is.
func SplitRow(s string) ([]Cell, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasSuffix(strings.TrimRight(s, " \t"), ",") {
		return nil, ErrTrailingComma
	}

	var (
		cells     []Cell
		buf       strings.Builder
		state     = stateStart
		exprDepth int
		brackets  int
	)

	finishUnquoted := func() error {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if strings.ContainsRune(text, '"') {
			return fmt.Errorf("%w: quote character found in unquoted cell: %q", ErrRow, text)
		}
		if strings.ContainsRune(text, '|') && !strings.HasPrefix(text, "$(") {
			return fmt.Errorf("%w: pipe character found in unquoted cell: %q", ErrRow, text)
		}
		cells = append(cells, Cell{Text: text})
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateStart:
			switch {
			case c == ' ' || c == '\t':
			case c == ',':
				cells = append(cells, Cell{})
			case c == '"':
				state = stateQuoted
			case c == '$' && i+1 < len(s) && s[i+1] == '(':
				buf.WriteString("$(")
				i++
				exprDepth = 1
				state = stateExpression
			case c == '[':
				brackets = 1
				buf.WriteByte(c)
				state = stateUnquoted
			default:
				buf.WriteByte(c)
				state = stateUnquoted
			}
		case stateUnquoted:
			switch {
			case c == '[':
				brackets++
				buf.WriteByte(c)
			case c == ']':
				if brackets > 0 {
					brackets--
				}
				buf.WriteByte(c)
			case c == ',' && brackets == 0:
				if err := finishUnquoted(); err != nil {
					return nil, err
				}
				state = stateStart
			default:
				buf.WriteByte(c)
			}
		case stateQuoted:
			switch {
			case c == '"':
				if i+1 < len(s) && s[i+1] == '"' {
					buf.WriteByte('"')
					i++
				} else {
					state = stateAfterQuote
				}
			case c == '\\' && i+1 < len(s):
				switch s[i+1] {
				case 'n':
					buf.WriteByte('\n')
					i++
				case 't':
					buf.WriteByte('\t')
					i++
				case 'r':
					buf.WriteByte('\r')
					i++
				case '\\':
					buf.WriteByte('\\')
					i++
				case '"':
					buf.WriteByte('"')
					i++
				default:
					buf.WriteByte(c)
				}
			default:
				buf.WriteByte(c)
			}
		case stateAfterQuote:
			switch {
			case c == ' ' || c == '\t':
			case c == ',':
				cells = append(cells, Cell{Text: buf.String(), Quoted: true})
				buf.Reset()
				state = stateStart
			default:
				return nil, fmt.Errorf("%w: expected comma after closing quote, got %q", ErrRow, c)
			}
		case stateExpression:
			buf.WriteByte(c)
			if c == '(' {
				exprDepth++
			} else if c == ')' {
				exprDepth--
				if exprDepth == 0 {
					state = stateUnquoted
				}
			}
		}
	}

	switch state {
	case stateQuoted:
		return nil, ErrUnclosedQuote
	case stateExpression:
		return nil, ErrUnclosedExpression
	case stateAfterQuote:
		cells = append(cells, Cell{Text: buf.String(), Quoted: true})
	case stateUnquoted:
		if err := finishUnquoted(); err != nil {
			return nil, err
		}
	}
	return cells, nil
}
