package token

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTensor(t *testing.T) {
	for _, tc := range []struct {
		in    string
		shape []int
		flat  []float64
	}{
		{"[1, 2, 3]", []int{3}, []float64{1, 2, 3}},
		{"[[1, 2], [3, 4]]", []int{2, 2}, []float64{1, 2, 3, 4}},
		{"[1.5, 2.5]", []int{2}, []float64{1.5, 2.5}},
		{"[-1, -2.5]", []int{2}, []float64{-1, -2.5}},
		{"[1, 2,]", []int{2}, []float64{1, 2}},
		{"[[[1], [2]], [[3], [4]]]", []int{2, 2, 1}, []float64{1, 2, 3, 4}},
		{"[ 7 ]", []int{1}, []float64{7}},
	} {
		tensor, err := ParseTensor(tc.in)
		if err != nil {
			t.Errorf("ParseTensor(%q): %v", tc.in, err)
			continue
		}
		if !equalShape(tensor.Shape(), tc.shape) {
			t.Errorf("ParseTensor(%q).Shape() = %v, want %v", tc.in, tensor.Shape(), tc.shape)
		}
		flat := tensor.Flatten()
		if len(flat) != len(tc.flat) {
			t.Errorf("ParseTensor(%q).Flatten() = %v, want %v", tc.in, flat, tc.flat)
			continue
		}
		for i := range flat {
			if flat[i] != tc.flat[i] {
				t.Errorf("ParseTensor(%q).Flatten()[%d] = %v, want %v", tc.in, i, flat[i], tc.flat[i])
			}
		}
	}
}

func TestParseTensorErrors(t *testing.T) {
	for _, s := range []string{
		"[]",
		"[1, 2",
		"[1, [2, 3]]",
		"[[1, 2], [3]]",
		"[a, b]",
		"[1 2]",
		"[1, 2] extra",
		"[-]",
		"not a tensor",
		"[1e5]",
	} {
		if _, err := ParseTensor(s); err == nil {
			t.Errorf("ParseTensor(%q): no error", s)
		}
	}
}

func TestParseTensorDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", 200) + "1" + strings.Repeat("]", 200)
	_, err := ParseTensor(deep)
	if err == nil {
		t.Fatal("no error for 200-level nesting")
	}
	if !errors.Is(err, ErrLimit) {
		t.Errorf("deep tensor error = %v, want ErrLimit", err)
	}
}

func TestTensorString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"[1,2,3]", "[1, 2, 3]"},
		{"[[1, 2], [3, 4]]", "[[1, 2], [3, 4]]"},
		{"[1.5, 2.25]", "[1.5, 2.25]"},
		{"[-3]", "[-3]"},
	} {
		tensor, err := ParseTensor(tc.in)
		if err != nil {
			t.Fatalf("ParseTensor(%q): %v", tc.in, err)
		}
		if got := tensor.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
		again, err := ParseTensor(tensor.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", tensor.String(), err)
		}
		if !again.Equal(tensor) {
			t.Errorf("reparse of %q not equal", tensor.String())
		}
	}
}

func TestTensorIsInt(t *testing.T) {
	ints, err := ParseTensor("[1, 2, 3]")
	if err != nil {
		t.Fatal(err)
	}
	if !ints.IsInt() {
		t.Error("[1, 2, 3] not integral")
	}
	floats, err := ParseTensor("[1.5, 2]")
	if err != nil {
		t.Fatal(err)
	}
	if floats.IsInt() {
		t.Error("[1.5, 2] reported integral")
	}
}

func TestIsTensorLiteral(t *testing.T) {
	for _, s := range []string{"[1, 2, 3]", "[[1, 2], [3, 4]]", "[-1.5]", "[1,]"} {
		if !IsTensorLiteral(s) {
			t.Errorf("IsTensorLiteral(%q) = false", s)
		}
	}
	for _, s := range []string{"hello", "@ref", "[1, 2", "1, 2]", "[a]", "(1)", ""} {
		if IsTensorLiteral(s) {
			t.Errorf("IsTensorLiteral(%q) = true", s)
		}
	}
}
