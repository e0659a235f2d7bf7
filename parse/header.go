package parse

import (
	"strconv"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// supportedMajor is the highest major version this parser understands.
// Lower majors and any minor at a supported major are accepted.
const supportedMajor = 1

// header holds the parsed directive section.
type header struct {
	version ir.Version
	aliases *ir.StrMap
	structs *ir.SchemaTable
	nests   []ir.Nest
}

func (h *header) schemaColumns(typeName string) ([]string, bool) {
	s, ok := h.structs.Get(typeName)
	if !ok {
		return nil, false
	}
	return s.Columns, true
}

func (h *header) childTypeOf(parent string) (string, bool) {
	for _, n := range h.nests {
		if n.Parent == parent {
			return n.Child, true
		}
	}
	return "", false
}

func (h *header) hasNest(parent string) bool {
	_, ok := h.childTypeOf(parent)
	return ok
}

// parseHeader consumes directive lines up to and including the separator.
// It returns the header and the index of the first body line.
func parseHeader(lines []srcLine, limits *Limits) (*header, int, error) {
	h := &header{
		aliases: ir.NewStrMap(),
		structs: ir.NewSchemaTable(),
	}
	haveVersion := false
	firstDirective := true

	for idx, ln := range lines {
		trimmed := strings.TrimSpace(ln.text)

		if isSeparator(trimmed) {
			if strings.HasPrefix(ln.text, " ") || strings.HasPrefix(ln.text, "\t") {
				return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "separator '---' must not have leading whitespace")
			}
			if !haveVersion {
				return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "missing %VERSION directive before separator")
			}
			return h, idx + 1, nil
		}

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if !strings.HasPrefix(trimmed, "%") {
			// A trailing "-" or "--" reads as a truncated separator.
			if isPartialSeparator(trimmed) && blankTail(lines[idx+1:]) {
				return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "missing separator '---'")
			}
			return nil, 0, ir.Errorf(ir.KindSyntax, ln.num, "expected directive starting with '%%', got: %s", trimmed)
		}

		name, rest, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "directive missing ':'")
		}
		if !strings.HasPrefix(rest, " ") {
			return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "directive ':' must be followed by space")
		}
		payload := token.StripComment(strings.TrimLeft(rest, " \t"))

		switch name {
		case "%VERSION":
			if !firstDirective {
				return nil, 0, ir.NewError(ir.KindSyntax, ln.num, "%VERSION must be the first directive")
			}
			v, err := parseVersion(payload, ln.num)
			if err != nil {
				return nil, 0, err
			}
			if v.Major > supportedMajor {
				return nil, 0, ir.Errorf(ir.KindVersion, ln.num, "unsupported version %d.%d, only %d.0 is supported", v.Major, v.Minor, supportedMajor)
			}
			h.version = v
			haveVersion = true
		case "%STRUCT":
			typeName, columns, count, err := parseStruct(payload, ln.num, limits)
			if err != nil {
				return nil, 0, err
			}
			if existing, ok := h.structs.Get(typeName); ok {
				if !equalColumns(existing.Columns, columns) {
					return nil, 0, ir.Errorf(ir.KindSchema, ln.num, "struct '%s' redefined with different columns", typeName)
				}
				if count != nil {
					existing.Count = count
				}
			} else {
				h.structs.Add(&ir.Schema{TypeName: typeName, Columns: columns, Count: count})
			}
		case "%ALIAS":
			key, value, err := parseAlias(payload, ln.num)
			if err != nil {
				return nil, 0, err
			}
			if h.aliases.Has(key) {
				return nil, 0, ir.Errorf(ir.KindAlias, ln.num, "alias '%%%s' already defined", key)
			}
			if h.aliases.Len() >= limits.MaxAliases {
				return nil, 0, ir.Errorf(ir.KindSecurity, ln.num, "too many aliases: exceeds limit of %d", limits.MaxAliases)
			}
			h.aliases.Set(key, value)
		case "%NEST":
			parent, child, err := parseNest(payload, ln.num, h.structs)
			if err != nil {
				return nil, 0, err
			}
			if h.hasNest(parent) {
				return nil, 0, ir.Errorf(ir.KindSchema, ln.num, "multiple NEST rules for parent type '%s'", parent)
			}
			h.nests = append(h.nests, ir.Nest{Parent: parent, Child: child})
		default:
			return nil, 0, ir.Errorf(ir.KindSyntax, ln.num, "unknown directive: %s", name)
		}

		firstDirective = false
	}

	lastLine := 1
	if len(lines) > 0 {
		lastLine = lines[len(lines)-1].num
	}
	return nil, 0, ir.NewError(ir.KindSyntax, lastLine, "missing separator '---'")
}

// isSeparator matches the trimmed forms of a body separator line. A bare
// "---" may be followed only by whitespace or a comment; any other
// "---"-prefixed line is not a separator.
func isSeparator(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "---") {
		return false
	}
	rest := strings.TrimLeft(trimmed[3:], " \t")
	return rest == "" || strings.HasPrefix(rest, "#")
}

func isPartialSeparator(trimmed string) bool {
	return trimmed == "-" || trimmed == "--"
}

// blankTail reports whether every line is blank or a comment.
func blankTail(lines []srcLine) bool {
	for _, ln := range lines {
		t := strings.TrimSpace(ln.text)
		if t != "" && !strings.HasPrefix(t, "#") {
			return false
		}
	}
	return true
}

func parseVersion(payload string, line int) (ir.Version, error) {
	parts := strings.Split(payload, ".")
	if len(parts) != 2 {
		return ir.Version{}, ir.Errorf(ir.KindVersion, line, "invalid version format '%s', expected major.minor", payload)
	}
	major, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return ir.Version{}, ir.Errorf(ir.KindVersion, line, "invalid major version: %s", parts[0])
	}
	minor, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return ir.Version{}, ir.Errorf(ir.KindVersion, line, "invalid minor version: %s", parts[1])
	}
	if hasLeadingZero(parts[0]) || hasLeadingZero(parts[1]) {
		return ir.Version{}, ir.NewError(ir.KindVersion, line, "leading zeros not allowed in version")
	}
	return ir.Version{Major: int(major), Minor: int(minor)}, nil
}

func hasLeadingZero(s string) bool {
	return len(s) > 1 && s[0] == '0'
}

// parseStruct handles "TypeName: [col1, col2]" and the counted form
// "TypeName (N): [col1, col2]".
func parseStruct(payload string, line int, limits *Limits) (string, []string, *int, error) {
	before, columnsPart, ok := strings.Cut(payload, ":")
	if !ok {
		return "", nil, nil, ir.NewError(ir.KindSyntax, line, "STRUCT directive missing ':' after type name")
	}
	beforeColon := strings.TrimSpace(before)

	typeName := beforeColon
	var count *int
	if parenStart := strings.LastIndexByte(beforeColon, '('); parenStart >= 0 {
		countPart := beforeColon[parenStart+1:]
		if parenEnd := strings.IndexByte(countPart, ')'); parenEnd >= 0 {
			countStr := strings.TrimSpace(countPart[:parenEnd])
			if remaining := strings.TrimSpace(countPart[parenEnd+1:]); remaining != "" {
				return "", nil, nil, ir.Errorf(ir.KindSyntax, line, "unexpected content after count: %s", remaining)
			}
			n, err := strconv.ParseUint(countStr, 10, 63)
			if err != nil {
				return "", nil, nil, ir.Errorf(ir.KindSyntax, line, "invalid count value: %s", countStr)
			}
			if hasLeadingZero(countStr) {
				return "", nil, nil, ir.NewError(ir.KindSyntax, line, "leading zeros not allowed in count")
			}
			typeName = strings.TrimSpace(beforeColon[:parenStart])
			c := int(n)
			count = &c
		}
		// An unclosed parenthesis stays in the name and fails validation.
	}

	if !token.IsTypeName(typeName) {
		return "", nil, nil, ir.Errorf(ir.KindSyntax, line, "invalid type name: %s", typeName)
	}

	columns, err := parseColumnList(columnsPart, line, limits)
	if err != nil {
		return "", nil, nil, err
	}
	return typeName, columns, count, nil
}

func parseColumnList(s string, line int, limits *Limits) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, ir.NewError(ir.KindSyntax, line, "column list must be enclosed in []")
	}
	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return nil, ir.NewError(ir.KindSyntax, line, "column list cannot be empty")
	}

	var columns []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(inner, ",") {
		col := strings.TrimSpace(part)
		if col == "" {
			continue
		}
		if !token.IsKeyToken(col) {
			return nil, ir.Errorf(ir.KindSyntax, line, "invalid column name: %s", col)
		}
		if seen[col] {
			return nil, ir.Errorf(ir.KindSchema, line, "duplicate column name: %s", col)
		}
		seen[col] = true
		columns = append(columns, col)
	}

	if len(columns) == 0 {
		return nil, ir.NewError(ir.KindSyntax, line, "column list cannot be empty")
	}
	if len(columns) > limits.MaxColumns {
		return nil, ir.Errorf(ir.KindSecurity, line, "too many columns: %d exceeds limit of %d", len(columns), limits.MaxColumns)
	}
	return columns, nil
}

func parseAlias(payload string, line int) (string, string, error) {
	keyPart, valuePart, ok := strings.Cut(payload, ":")
	if !ok {
		return "", "", ir.NewError(ir.KindSyntax, line, "ALIAS directive missing ':' after key")
	}
	keyPart = strings.TrimSpace(keyPart)
	if !strings.HasPrefix(keyPart, "%") {
		return "", "", ir.NewError(ir.KindSyntax, line, "alias key must start with '%'")
	}
	key := keyPart[1:]
	if !token.IsKeyToken(key) {
		return "", "", ir.Errorf(ir.KindSyntax, line, "invalid alias key: %s", key)
	}
	value, err := token.UnquoteAlias(valuePart)
	if err != nil {
		return "", "", ir.NewError(ir.KindSyntax, line, "alias value must be a quoted string")
	}
	return key, value, nil
}

func parseNest(payload string, line int, structs *ir.SchemaTable) (string, string, error) {
	parts := strings.Split(payload, ">")
	if len(parts) != 2 {
		return "", "", ir.NewError(ir.KindSyntax, line, "NEST directive must have format 'Parent > Child'")
	}
	parent := strings.TrimSpace(parts[0])
	child := strings.TrimSpace(parts[1])

	if !token.IsTypeName(parent) {
		return "", "", ir.Errorf(ir.KindSyntax, line, "invalid parent type name: %s", parent)
	}
	if !token.IsTypeName(child) {
		return "", "", ir.Errorf(ir.KindSyntax, line, "invalid child type name: %s", child)
	}
	if _, ok := structs.Get(parent); !ok {
		return "", "", ir.Errorf(ir.KindSchema, line, "NEST parent type '%s' not defined", parent)
	}
	if _, ok := structs.Get(child); !ok {
		return "", "", ir.Errorf(ir.KindSchema, line, "NEST child type '%s' not defined", child)
	}
	return parent, child, nil
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
