package stream

import (
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

const blockDelim = `"""`

// blockBuf accumulates the lines of a block string value between
// triple-quote delimiters. Content is captured verbatim; the delimiter
// lines contribute the newlines around it.
type blockBuf struct {
	key       string
	indent    int
	startLine int
	content   []string
	size      int
}

// tryOpenBlock inspects a non-row line for the `key: """` opening form.
// content is the line with indentation already stripped. It returns nil
// when the line is not a block string opener.
func tryOpenBlock(content string, indent, line int) (*blockBuf, error) {
	keyPart, afterColon, ok := strings.Cut(content, ":")
	if !ok {
		return nil, nil
	}
	key := strings.TrimSpace(keyPart)
	if afterColon != "" && !strings.HasPrefix(afterColon, " ") {
		return nil, nil
	}
	valueStr := strings.TrimSpace(afterColon)
	if !strings.HasPrefix(valueStr, blockDelim) {
		return nil, nil
	}

	if !token.IsKeyToken(key) {
		return nil, ir.Errorf(ir.KindSyntax, line, "invalid key: '%s'", key)
	}

	afterOpen := valueStr[len(blockDelim):]
	rest := strings.TrimSpace(afterOpen)
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return nil, ir.NewError(ir.KindSyntax, line, `block string must have newline after opening """ (single-line block strings are not allowed)`)
	}

	return &blockBuf{
		key:       key,
		indent:    indent,
		startLine: line,
		content:   []string{afterOpen},
		size:      len(afterOpen),
	}, nil
}

// feed consumes one raw line while accumulating. It returns the finished
// value and closed=true once the closing delimiter is seen.
func (b *blockBuf) feed(line string, lineNum, maxSize int) (string, bool, error) {
	if end := strings.Index(line, blockDelim); end >= 0 {
		beforeClose := line[:end]
		if err := b.grow(len(beforeClose), lineNum, maxSize); err != nil {
			return "", false, err
		}
		b.content = append(b.content, beforeClose)

		afterClose := strings.TrimSpace(line[end+len(blockDelim):])
		if afterClose != "" && !strings.HasPrefix(afterClose, "#") {
			return "", false, ir.NewError(ir.KindSyntax, lineNum, `unexpected content after closing """`)
		}
		return strings.Join(b.content, "\n"), true, nil
	}

	// One extra byte accounts for the newline restored when joining.
	if err := b.grow(len(line)+1, lineNum, maxSize); err != nil {
		return "", false, err
	}
	b.content = append(b.content, line)
	return "", false, nil
}

func (b *blockBuf) grow(n, line, maxSize int) error {
	b.size += n
	if b.size > maxSize {
		return ir.Errorf(ir.KindSecurity, line, "block string size %d exceeds limit %d", b.size, maxSize)
	}
	return nil
}
