package ir

import (
	"errors"
	"fmt"
)

// ErrKind classifies document errors. Security is reserved for resource-limit
// violations so callers can tell oversized input apart from malformed input.
type ErrKind int

const (
	KindSyntax ErrKind = iota
	KindVersion
	KindSchema
	KindAlias
	KindShape
	KindSemantic
	KindOrphanRow
	KindCollision
	KindReference
	KindSecurity
)

func (k ErrKind) String() string {
	s, ok := map[ErrKind]string{
		KindSyntax:    "SyntaxError",
		KindVersion:   "VersionError",
		KindSchema:    "SchemaError",
		KindAlias:     "AliasError",
		KindShape:     "ShapeError",
		KindSemantic:  "SemanticError",
		KindOrphanRow: "OrphanRowError",
		KindCollision: "CollisionError",
		KindReference: "ReferenceError",
		KindSecurity:  "SecurityError",
	}[k]
	if ok {
		return s
	}
	return "<unknown error kind>"
}

// Kind sentinels for errors.Is matching. Every *Error unwraps to the sentinel
// of its kind.
var (
	ErrSyntax    = errors.New("syntax error")
	ErrVersion   = errors.New("version error")
	ErrSchema    = errors.New("schema error")
	ErrAlias     = errors.New("alias error")
	ErrShape     = errors.New("shape error")
	ErrSemantic  = errors.New("semantic error")
	ErrOrphanRow = errors.New("orphan row error")
	ErrCollision = errors.New("collision error")
	ErrReference = errors.New("reference error")
	ErrSecurity  = errors.New("security error")
)

func (k ErrKind) sentinel() error {
	switch k {
	case KindSyntax:
		return ErrSyntax
	case KindVersion:
		return ErrVersion
	case KindSchema:
		return ErrSchema
	case KindAlias:
		return ErrAlias
	case KindShape:
		return ErrShape
	case KindSemantic:
		return ErrSemantic
	case KindOrphanRow:
		return ErrOrphanRow
	case KindCollision:
		return ErrCollision
	case KindReference:
		return ErrReference
	case KindSecurity:
		return ErrSecurity
	}
	return nil
}

// Error is the document error type shared by every stage. Line is 1-based;
// writers that have no source position use line 0. Column is 0 when unknown.
type Error struct {
	Kind    ErrKind
	Message string
	Line    int
	Column  int
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind.sentinel() }

// NewError builds an error of the given kind at a source line.
func NewError(kind ErrKind, line int, message string) *Error {
	return &Error{Kind: kind, Message: message, Line: line}
}

// Errorf is NewError with formatting.
func Errorf(kind ErrKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line}
}

// WithColumn sets the 1-based column.
func (e *Error) WithColumn(col int) *Error {
	e.Column = col
	return e
}

// WithContext attaches free-form context such as the enclosing list.
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
