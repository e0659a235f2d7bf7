package parse

import "math"

// Limits bounds resource consumption during parsing. Every limit guards a
// distinct exhaustion vector, so a hostile document cannot blow up memory or
// stack no matter which construct it abuses. Exceeding any of them surfaces
// as a SecurityError.
type Limits struct {
	// MaxFileSize is the largest accepted input, in bytes.
	MaxFileSize int
	// MaxLineLength is the largest accepted single line, in bytes.
	MaxLineLength int
	// MaxIndentDepth is the deepest accepted indentation level.
	MaxIndentDepth int
	// MaxNodes bounds the total number of matrix rows in a document.
	MaxNodes int
	// MaxAliases bounds the number of %ALIAS directives.
	MaxAliases int
	// MaxColumns bounds the number of columns in a single schema.
	MaxColumns int
	// MaxNestDepth bounds the depth of the parent/child row hierarchy.
	MaxNestDepth int
	// MaxBlockString bounds the byte size of one block string value.
	MaxBlockString int
	// MaxObjectKeys bounds the number of keys in a single object.
	MaxObjectKeys int
	// MaxTotalKeys bounds the number of keys across all objects.
	MaxTotalKeys int
}

// DefaultLimits returns the limits applied when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:    1024 * 1024 * 1024,
		MaxLineLength:  1024 * 1024,
		MaxIndentDepth: 50,
		MaxNodes:       10_000_000,
		MaxAliases:     10_000,
		MaxColumns:     100,
		MaxNestDepth:   100,
		MaxBlockString: 10 * 1024 * 1024,
		MaxObjectKeys:  10_000,
		MaxTotalKeys:   10_000_000,
	}
}

// Unlimited returns limits with every bound effectively disabled. Intended
// for tests and trusted inputs.
func Unlimited() Limits {
	return Limits{
		MaxFileSize:    math.MaxInt,
		MaxLineLength:  math.MaxInt,
		MaxIndentDepth: math.MaxInt,
		MaxNodes:       math.MaxInt,
		MaxAliases:     math.MaxInt,
		MaxColumns:     math.MaxInt,
		MaxNestDepth:   math.MaxInt,
		MaxBlockString: math.MaxInt,
		MaxObjectKeys:  math.MaxInt,
		MaxTotalKeys:   math.MaxInt,
	}
}
