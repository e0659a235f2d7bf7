package parse

import (
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

const blockDelim = `"""`

// blockString accumulates the lines of a multi-line string value between
// triple-quote delimiters. Lines are captured verbatim, so content keeps its
// exact whitespace, and the opening and closing delimiter lines contribute
// the newlines around the content.
type blockString struct {
	key       string
	content   []string
	startLine int
	indent    int
	totalSize int
}

// tryStartBlockString inspects a non-row line for the `key: """` opening
// form. content is the line with indentation already stripped. It returns
// nil when the line is not a block string opener.
func tryStartBlockString(content string, indent, line int) (*blockString, error) {
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

	return &blockString{
		key:       key,
		content:   []string{afterOpen},
		startLine: line,
		indent:    indent,
		totalSize: len(afterOpen),
	}, nil
}

// processLine consumes one raw line while accumulating. It returns the
// finished value and done=true once the closing delimiter is seen.
func (b *blockString) processLine(line string, lineNum int, limits *Limits) (string, bool, error) {
	if end := strings.Index(line, blockDelim); end >= 0 {
		beforeClose := line[:end]
		if err := b.grow(len(beforeClose), lineNum, limits); err != nil {
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
	if err := b.grow(len(line)+1, lineNum, limits); err != nil {
		return "", false, err
	}
	b.content = append(b.content, line)
	return "", false, nil
}

func (b *blockString) grow(n, line int, limits *Limits) error {
	b.totalSize += n
	if b.totalSize > limits.MaxBlockString {
		return ir.Errorf(ir.KindSecurity, line, "block string size %d exceeds limit %d", b.totalSize, limits.MaxBlockString)
	}
	return nil
}
