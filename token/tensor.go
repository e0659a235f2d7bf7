package token

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	maxTensorDepth    = 100
	maxTensorElements = 10_000_000
)

// Tensor is a numeric literal: either a scalar or a nested array whose
// sub-arrays all share one shape. Elems is nil for scalars; parsed arrays are
// never empty.
type Tensor struct {
	Value float64
	Elems []*Tensor
}

// Scalar returns a scalar tensor holding v.
func Scalar(v float64) *Tensor { return &Tensor{Value: v} }

// Array returns an array tensor over the given elements.
func Array(elems ...*Tensor) *Tensor { return &Tensor{Elems: elems} }

// IsScalar reports whether t is a single number.
func (t *Tensor) IsScalar() bool { return t.Elems == nil }

// IsInt reports whether every leaf value has a zero fractional part.
func (t *Tensor) IsInt() bool {
	if t.Elems == nil {
		return t.Value == math.Trunc(t.Value)
	}
	for _, e := range t.Elems {
		if !e.IsInt() {
			return false
		}
	}
	return true
}

// Shape returns the dimensions of t, outermost first. Scalars have an empty
// shape.
func (t *Tensor) Shape() []int {
	if t.Elems == nil {
		return nil
	}
	return append([]int{len(t.Elems)}, t.Elems[0].Shape()...)
}

// Len returns the total number of scalar elements.
func (t *Tensor) Len() int {
	if t.Elems == nil {
		return 1
	}
	n := 0
	for _, e := range t.Elems {
		n += e.Len()
	}
	return n
}

// Flatten returns all leaf values in row-major order.
func (t *Tensor) Flatten() []float64 {
	out := make([]float64, 0, t.Len())
	return t.appendFlat(out)
}

func (t *Tensor) appendFlat(out []float64) []float64 {
	if t.Elems == nil {
		return append(out, t.Value)
	}
	for _, e := range t.Elems {
		out = e.appendFlat(out)
	}
	return out
}

// Equal reports structural equality. NaN leaves compare equal to NaN.
func (t *Tensor) Equal(o *Tensor) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Elems == nil || o.Elems == nil {
		if t.Elems != nil || o.Elems != nil {
			return false
		}
		if math.IsNaN(t.Value) && math.IsNaN(o.Value) {
			return true
		}
		return t.Value == o.Value
	}
	if len(t.Elems) != len(o.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

// String renders t as a tensor literal that ParseTensor accepts. Integral
// leaves print without a decimal point.
func (t *Tensor) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Tensor) write(b *strings.Builder) {
	if t.Elems == nil {
		v := t.Value
		if v == math.Trunc(v) && !math.IsInf(v, 0) && v >= math.MinInt64 && v <= math.MaxInt64 {
			b.WriteString(strconv.FormatInt(int64(v), 10))
		} else {
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		return
	}
	b.WriteByte('[')
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		e.write(b)
	}
	b.WriteByte(']')
}

// IsTensorLiteral is a cheap shape check for tensor-looking text: balanced
// brackets around digits, dots, minus signs, commas and spaces. ParseTensor
// performs the full validation.
func IsTensorLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth < 0 {
				return false
			}
		case c >= '0' && c <= '9', c == '.', c == '-', c == ',', c == ' ', c == '\t':
		default:
			return false
		}
	}
	return depth == 0
}

// ParseTensor parses a bracketed tensor literal. Arrays may not be empty or
// ragged, elements are numbers without exponents, and a trailing comma before
// the closing bracket is tolerated. Nesting beyond 100 levels or more than
// ten million elements wraps ErrLimit; all other failures wrap ErrTensor.
func ParseTensor(s string) (*Tensor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil, fmt.Errorf("%w: expected '['", ErrTensor)
	}
	t, rest, err := parseTensorInner(s, 0)
	if err != nil {
		return nil, err
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return nil, fmt.Errorf("%w: unexpected content %q after tensor", ErrTensor, clip(rest, 10))
	}
	if n := t.Len(); n > maxTensorElements {
		return nil, fmt.Errorf("%w: tensor element count %d exceeds limit of %d", ErrLimit, n, maxTensorElements)
	}
	return t, nil
}

func parseTensorInner(s string, depth int) (*Tensor, string, error) {
	if depth > maxTensorDepth {
		return nil, "", fmt.Errorf("%w: tensor nesting depth exceeds limit of %d", ErrLimit, maxTensorDepth)
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "[")
	if !ok {
		v, r, err := cutNumber(s)
		if err != nil {
			return nil, "", err
		}
		return &Tensor{Value: v}, r, nil
	}

	var elems []*Tensor
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return nil, "", fmt.Errorf("%w: unbalanced brackets", ErrTensor)
		}
		if rest[0] == ']' {
			rest = rest[1:]
			break
		}
		if len(elems) > 0 {
			if rest[0] != ',' {
				return nil, "", fmt.Errorf("%w: expected ',' or ']', got %q", ErrTensor, rest[0])
			}
			rest = strings.TrimLeft(rest[1:], " \t")
			if strings.HasPrefix(rest, "]") {
				rest = rest[1:]
				break
			}
		}
		if strings.HasPrefix(rest, "[") {
			elem, r, err := parseTensorInner(rest, depth+1)
			if err != nil {
				return nil, "", err
			}
			elems = append(elems, elem)
			rest = r
		} else {
			v, r, err := cutNumber(rest)
			if err != nil {
				return nil, "", err
			}
			elems = append(elems, &Tensor{Value: v})
			rest = r
		}
	}

	if len(elems) == 0 {
		return nil, "", fmt.Errorf("%w: empty tensor", ErrTensor)
	}
	if len(elems) > 1 {
		shape := elems[0].Shape()
		for _, e := range elems[1:] {
			if !equalShape(e.Shape(), shape) {
				return nil, "", fmt.Errorf("%w: inconsistent dimensions", ErrTensor)
			}
		}
	}
	return &Tensor{Elems: elems}, rest, nil
}

func cutNumber(s string) (float64, string, error) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	dot := false
	if strings.HasPrefix(s, "-") {
		end = 1
	}
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
		} else if c == '.' && !dot {
			dot = true
			end++
		} else {
			break
		}
	}
	if end == 0 || (end == 1 && s[0] == '-') {
		return 0, "", fmt.Errorf("%w: invalid number at %q", ErrTensor, clip(s, 10))
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid number %q", ErrTensor, clip(s[:end], 80))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, "", fmt.Errorf("%w: non-finite number %q", ErrTensor, s[:end])
	}
	return v, s[end:], nil
}

func equalShape(a, b []int) bool {
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

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
