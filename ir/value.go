package ir

import (
	"math"

	"github.com/dweve/hedl-format/go-hedl/token"
)

// Reference names a node by identifier, optionally qualified with its type.
// References are plain data: resolution validates them without rewriting.
type Reference struct {
	Type string
	ID   string
}

func (r Reference) String() string {
	if r.Type == "" {
		return "@" + r.ID
	}
	return "@" + r.Type + ":" + r.ID
}

// Value is one scalar cell or key-value payload. The Type field selects which
// of the remaining fields carries the value.
type Value struct {
	Type   ValueType
	Bool   bool
	Int    int64
	Float  float64
	String string
	Ref    Reference
	Tensor *token.Tensor
	Expr   string
}

func Null() Value { return Value{Type: NullType} }

func FromBool(v bool) Value { return Value{Type: BoolType, Bool: v} }

func FromInt(v int64) Value { return Value{Type: IntType, Int: v} }

func FromFloat(v float64) Value { return Value{Type: FloatType, Float: v} }

func FromString(v string) Value { return Value{Type: StringType, String: v} }

func FromRef(typeName, id string) Value {
	return Value{Type: ReferenceType, Ref: Reference{Type: typeName, ID: id}}
}

func FromTensor(t *token.Tensor) Value { return Value{Type: TensorType, Tensor: t} }

// FromExpr holds the expression body without its "$(" and ")" delimiters.
func FromExpr(body string) Value { return Value{Type: ExpressionType, Expr: body} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Type == NullType }

// Equal reports whether two values have the same type and payload. Float NaN
// compares equal to NaN so repeated rows stay foldable.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case NullType:
		return true
	case BoolType:
		return v.Bool == o.Bool
	case IntType:
		return v.Int == o.Int
	case FloatType:
		if math.IsNaN(v.Float) && math.IsNaN(o.Float) {
			return true
		}
		return v.Float == o.Float
	case StringType:
		return v.String == o.String
	case ReferenceType:
		return v.Ref == o.Ref
	case TensorType:
		return v.Tensor.Equal(o.Tensor)
	case ExpressionType:
		return v.Expr == o.Expr
	}
	return false
}
