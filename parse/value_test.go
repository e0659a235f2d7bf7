package parse

import (
	"errors"
	"testing"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

func TestInferenceValue(t *testing.T) {
	aliases := ir.NewStrMap()
	aliases.Set("hq", "Amsterdam")
	aliases.Set("limit", "100")
	inf := NewInference(aliases)

	for _, tc := range []struct {
		in   string
		want ir.Value
	}{
		{"~", ir.Null()},
		{"true", ir.FromBool(true)},
		{"42", ir.FromInt(42)},
		{"2.5", ir.FromFloat(2.5)},
		{"%hq", ir.FromString("Amsterdam")},
		{"%limit", ir.FromInt(100)},
		{"@User:u1", ir.FromRef("User", "u1")},
		{"plain text", ir.FromString("plain text")},
	} {
		got, err := inf.Value(tc.in)
		if err != nil {
			t.Errorf("Value(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Value(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestInferenceValueErrors(t *testing.T) {
	inf := NewInference(nil)

	_, err := inf.Value("%ghost")
	if !errors.Is(err, ir.ErrAlias) {
		t.Errorf("undefined alias: err = %v, want alias error", err)
	}
	de, ok := ir.AsError(err)
	if !ok || de.Line != 0 {
		t.Errorf("error line = %v, want 0", err)
	}

	if _, err := inf.Value("@Bad:"); !errors.Is(err, ir.ErrSyntax) {
		t.Errorf("malformed reference: err = %v, want syntax error", err)
	}
}
