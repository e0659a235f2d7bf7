package stream

import "github.com/dweve/hedl-format/go-hedl/parse"

// Option configures a Decoder.
type Option func(*streamOpts)

type streamOpts struct {
	limits  parse.Limits
	bufSize int
}

func defaultStreamOpts() streamOpts {
	return streamOpts{
		limits:  parse.DefaultLimits(),
		bufSize: 64 * 1024,
	}
}

// WithLimits replaces the full resource limit set. MaxFileSize bounds
// the header section only; the body streams without a total size bound.
func WithLimits(l parse.Limits) Option {
	return func(o *streamOpts) { o.limits = l }
}

// BufferSize sets the read buffer size in bytes.
func BufferSize(n int) Option {
	return func(o *streamOpts) { o.bufSize = n }
}
