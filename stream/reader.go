package stream

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

const bomPrefix = "\xEF\xBB\xBF"

// lineReader reads input one line at a time. The line length limit is
// enforced while reading, so an unterminated line never buffers more
// than the limit. A leading BOM is stripped, CRLF endings are
// normalized, and each line is checked for UTF-8 validity and control
// characters.
type lineReader struct {
	br     *bufio.Reader
	maxLen int
	line   int
	offset int64
	first  bool
	eof    bool
}

func newLineReader(r io.Reader, size, maxLen int) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, size), maxLen: maxLen, first: true}
}

// next returns the next line with its 1-based number, or io.EOF.
func (lr *lineReader) next() (string, int, error) {
	if lr.eof {
		return "", lr.line, io.EOF
	}

	var raw []byte
	terminated := false
	for {
		chunk, err := lr.br.ReadSlice('\n')
		raw = append(raw, chunk...)
		if err == bufio.ErrBufferFull {
			if len(raw) > lr.maxLen+1 {
				return "", 0, ir.Errorf(ir.KindSecurity, lr.line+1,
					"line too long: exceeds limit of %d bytes", lr.maxLen)
			}
			continue
		}
		if err == io.EOF {
			lr.eof = true
		} else if err != nil {
			return "", 0, err
		} else {
			terminated = true
		}
		break
	}
	if len(raw) == 0 {
		return "", lr.line, io.EOF
	}

	lr.line++
	lr.offset += int64(len(raw))

	line := string(raw)
	if terminated {
		line = strings.TrimSuffix(line[:len(line)-1], "\r")
	}
	if lr.first {
		line = strings.TrimPrefix(line, bomPrefix)
		lr.first = false
	}
	if len(line) > lr.maxLen {
		return "", 0, ir.Errorf(ir.KindSecurity, lr.line,
			"line too long: exceeds limit of %d bytes", lr.maxLen)
	}
	if err := checkLine(line, lr.line); err != nil {
		return "", 0, err
	}
	return line, lr.line, nil
}

// checkLine rejects lines the document grammar can never contain. A CR
// that survives CRLF normalization is bare and gets its own message.
func checkLine(line string, num int) error {
	if !utf8.ValidString(line) {
		return ir.NewError(ir.KindSyntax, num, "invalid UTF-8 encoding")
	}
	for i := 0; i < len(line); i++ {
		b := line[i]
		if b == '\r' {
			return ir.NewError(ir.KindSyntax, num, "bare CR (U+000D) not allowed - use LF or CRLF")
		}
		if b < 0x20 && b != '\t' {
			return ir.Errorf(ir.KindSyntax, num, "control character U+%04X not allowed", b)
		}
	}
	return nil
}
