package parse

type parseOpts struct {
	limits     Limits
	strictRefs bool
}

func defaultParseOpts() parseOpts {
	return parseOpts{
		limits:     DefaultLimits(),
		strictRefs: true,
	}
}

// ParseOption configures a call to Parse.
type ParseOption func(*parseOpts)

// Strict controls reference checking. When true (the default), a reference
// that resolves to no row is an error. When false, unresolved references are
// replaced with null, though ambiguous unqualified references still fail.
func Strict(v bool) ParseOption {
	return func(o *parseOpts) { o.strictRefs = v }
}

// WithLimits replaces the full resource limit set.
func WithLimits(l Limits) ParseOption {
	return func(o *parseOpts) { o.limits = l }
}

// MaxDepth sets the maximum indentation depth.
func MaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.limits.MaxIndentDepth = n }
}

// MaxNodes sets the maximum number of matrix rows.
func MaxNodes(n int) ParseOption {
	return func(o *parseOpts) { o.limits.MaxNodes = n }
}

// MaxFileSize sets the maximum input size in bytes.
func MaxFileSize(n int) ParseOption {
	return func(o *parseOpts) { o.limits.MaxFileSize = n }
}

// MaxLineLength sets the maximum line length in bytes.
func MaxLineLength(n int) ParseOption {
	return func(o *parseOpts) { o.limits.MaxLineLength = n }
}
