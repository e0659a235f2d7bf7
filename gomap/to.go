package gomap

import (
	"fmt"
	"math"
	"reflect"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

// ToList encodes a slice of tagged structs as a matrix list. The schema is
// the bound columns in field declaration order, and the first bound column
// supplies each row's id, so it must hold non-empty strings.
func ToList(typeName string, src any) (*ir.MatrixList, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Struct {
		return nil, &MarshalError{Message: fmt.Sprintf("source must be a slice of structs, got %T", src)}
	}
	b, err := bindStruct(v.Type().Elem())
	if err != nil {
		return nil, &MarshalError{FieldPath: typeName, Message: err.Error()}
	}

	schema := make([]string, len(b.columns))
	for i, cb := range b.columns {
		schema[i] = cb.column
	}
	list := ir.NewMatrixList(typeName, schema)
	for i := 0; i < v.Len(); i++ {
		n, err := encodeRow(typeName, v.Index(i), b, fmt.Sprintf("%s[%d]", typeName, i))
		if err != nil {
			return nil, err
		}
		list.Rows = append(list.Rows, n)
	}
	return list, nil
}

func encodeRow(typeName string, rv reflect.Value, b *structBindings, path string) (*ir.Node, error) {
	fields := make([]ir.Value, len(b.columns))
	for i, cb := range b.columns {
		cell, err := cellOf(rv.Field(cb.index), path+"."+cb.column)
		if err != nil {
			return nil, err
		}
		fields[i] = cell
	}
	if fields[0].Type != ir.StringType || fields[0].String == "" {
		return nil, &MarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("first bound column %q must hold a non-empty string id", b.columns[0].column),
		}
	}

	n := ir.NewNode(typeName, fields[0].String, fields)
	if b.children == nil {
		return n, nil
	}
	cv := rv.Field(b.children.index)
	if cv.Len() == 0 {
		return n, nil
	}
	cb, err := bindStruct(cv.Type().Elem())
	if err != nil {
		return nil, &MarshalError{FieldPath: path, Message: err.Error()}
	}
	for j := 0; j < cv.Len(); j++ {
		cn, err := encodeRow(b.children.child, cv.Index(j), cb,
			fmt.Sprintf("%s.%s[%d]", path, b.children.child, j))
		if err != nil {
			return nil, err
		}
		n.AddChild(b.children.child, cn)
	}
	return n, nil
}

// cellOf converts one struct field into a cell value. Nil pointers, nil
// tensors, and zero references become null.
func cellOf(fv reflect.Value, path string) (ir.Value, error) {
	switch fv.Type() {
	case valueType:
		return fv.Interface().(ir.Value), nil
	case refType:
		r := fv.Interface().(ir.Reference)
		if r == (ir.Reference{}) {
			return ir.Null(), nil
		}
		return ir.FromRef(r.Type, r.ID), nil
	case tensorType:
		if fv.IsNil() {
			return ir.Null(), nil
		}
		return ir.FromTensor(fv.Interface().(*token.Tensor)), nil
	}

	switch fv.Kind() {
	case reflect.Ptr:
		if fv.IsNil() {
			return ir.Null(), nil
		}
		return cellOf(fv.Elem(), path)
	case reflect.String:
		return ir.FromString(fv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(fv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := fv.Uint()
		if u > math.MaxInt64 {
			return ir.Value{}, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("value %d overflows int64", u),
			}
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(fv.Float()), nil
	case reflect.Bool:
		return ir.FromBool(fv.Bool()), nil
	}
	return ir.Value{}, &MarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("unsupported field type %s", fv.Type()),
	}
}
