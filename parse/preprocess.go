package parse

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// srcLine is one physical line of input with its 1-based line number.
type srcLine struct {
	num  int
	text string
}

// preprocess validates raw input and splits it into lines. It enforces the
// file size and line length limits, validates UTF-8, strips a leading BOM,
// rejects control characters, and normalizes CRLF line endings to LF. A bare
// CR is rejected.
func preprocess(input []byte, limits *Limits) ([]srcLine, error) {
	if len(input) > limits.MaxFileSize {
		return nil, ir.Errorf(ir.KindSecurity, 0, "file too large: exceeds limit of %d bytes", limits.MaxFileSize)
	}

	if !utf8.Valid(input) {
		return nil, ir.Errorf(ir.KindSyntax, 1, "invalid UTF-8 encoding at byte offset %d", invalidUTF8Offset(input))
	}

	input = bytes.TrimPrefix(input, bom)

	lineNum := 1
	for _, b := range input {
		switch {
		case b == '\n':
			lineNum++
		case b < 0x20 && b != '\t' && b != '\r':
			return nil, ir.Errorf(ir.KindSyntax, lineNum, "control character U+%04X not allowed", b)
		}
	}

	text := string(input)
	if strings.ContainsRune(text, '\r') {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		if i := strings.IndexByte(text, '\r'); i >= 0 {
			line := strings.Count(text[:i], "\n") + 1
			return nil, ir.NewError(ir.KindSyntax, line, "bare CR (U+000D) not allowed - use LF or CRLF")
		}
	}

	lines := make([]srcLine, 0, strings.Count(text, "\n")+1)
	num := 1
	for {
		i := strings.IndexByte(text, '\n')
		var line string
		if i < 0 {
			line = text
		} else {
			line = text[:i]
		}
		if len(line) > limits.MaxLineLength {
			return nil, ir.Errorf(ir.KindSecurity, num, "line too long: exceeds limit of %d bytes", limits.MaxLineLength)
		}
		lines = append(lines, srcLine{num: num, text: line})
		if i < 0 {
			break
		}
		text = text[i+1:]
		num++
	}
	return lines, nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// isBlankLine reports whether the line is empty or whitespace only.
func isBlankLine(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isCommentLine reports whether the first non-whitespace character is '#'.
func isCommentLine(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "#")
}
