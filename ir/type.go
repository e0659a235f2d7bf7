package ir

import "fmt"

// ValueType discriminates the scalar value variants.
type ValueType int

const (
	NullType ValueType = iota
	BoolType
	IntType
	FloatType
	StringType
	ReferenceType
	TensorType
	ExpressionType
)

func (t ValueType) String() string {
	s, ok := map[ValueType]string{
		NullType:       "Null",
		BoolType:       "Bool",
		IntType:        "Int",
		FloatType:      "Float",
		StringType:     "String",
		ReferenceType:  "Reference",
		TensorType:     "Tensor",
		ExpressionType: "Expression",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t ValueType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ValueType) UnmarshalText(d []byte) error {
	tt, ok := map[string]ValueType{
		"Null":       NullType,
		"Bool":       BoolType,
		"Int":        IntType,
		"Float":      FloatType,
		"String":     StringType,
		"Reference":  ReferenceType,
		"Tensor":     TensorType,
		"Expression": ExpressionType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized value type %q", d)
	}
	*t = tt
	return nil
}

func ValueTypes() []ValueType {
	return []ValueType{
		NullType,
		BoolType,
		IntType,
		FloatType,
		StringType,
		ReferenceType,
		TensorType,
		ExpressionType,
	}
}
