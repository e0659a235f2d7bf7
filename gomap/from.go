package gomap

import (
	"fmt"
	"reflect"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

var (
	valueType  = reflect.TypeOf(ir.Value{})
	refType    = reflect.TypeOf(ir.Reference{})
	tensorType = reflect.TypeOf((*token.Tensor)(nil))
)

// FromDocument decodes the matrix list stored under a top-level key into
// dst, which must be a non-nil pointer to a slice of structs. Child rows
// resolve their schemas through the document's schema table.
func FromDocument(doc *ir.Document, key string, dst any) error {
	it, ok := doc.Root.Get(key)
	if !ok || it.Kind != ir.ItemList {
		return &UnmarshalError{Message: fmt.Sprintf("no matrix list under key %q", key)}
	}
	list := it.List
	return fromRows(list.TypeName, list.Rows, list.Schema, dst, func(name string) ([]string, bool) {
		if s, ok := doc.Structs.Get(name); ok {
			return s.Columns, true
		}
		return nil, false
	})
}

// FromList decodes one matrix list into dst. Without a document there is
// no schema table, so rows carrying child rows fail unless the child type
// matches the list's own.
func FromList(list *ir.MatrixList, dst any) error {
	return fromRows(list.TypeName, list.Rows, list.Schema, dst, func(name string) ([]string, bool) {
		if name == list.TypeName {
			return list.Schema, true
		}
		return nil, false
	})
}

func fromRows(typeName string, rows []*ir.Node, schema []string, dst any, schemas func(string) ([]string, bool)) error {
	v := reflect.ValueOf(dst)
	if dst == nil || v.Kind() != reflect.Ptr || v.IsNil() {
		return &UnmarshalError{Message: "destination must be a non-nil pointer to a slice of structs"}
	}
	sl := v.Elem()
	if sl.Kind() != reflect.Slice || sl.Type().Elem().Kind() != reflect.Struct {
		return &UnmarshalError{Message: fmt.Sprintf("destination must point to a slice of structs, got %s", v.Type())}
	}
	d := &decoder{schemas: schemas}
	return d.list(rows, schema, sl, typeName)
}

type decoder struct {
	schemas func(typeName string) ([]string, bool)
}

func (d *decoder) list(rows []*ir.Node, schema []string, dst reflect.Value, path string) error {
	b, err := bindStruct(dst.Type().Elem())
	if err != nil {
		return &UnmarshalError{FieldPath: path, Message: err.Error()}
	}

	// Column positions in the schema; -1 leaves the field zero.
	idx := make([]int, len(b.columns))
	for i, cb := range b.columns {
		idx[i] = -1
		for si, col := range schema {
			if col == cb.column {
				idx[i] = si
				break
			}
		}
	}

	out := reflect.MakeSlice(dst.Type(), len(rows), len(rows))
	for ri, row := range rows {
		rv := out.Index(ri)
		rpath := fmt.Sprintf("%s[%d]", path, ri)
		for i, cb := range b.columns {
			if idx[i] < 0 {
				continue
			}
			cell, ok := row.Field(idx[i])
			if !ok {
				continue
			}
			if err := setCell(cell, rv.Field(cb.index), rpath+"."+cb.column); err != nil {
				return err
			}
		}
		if b.children == nil {
			continue
		}
		cl, ok := row.ChildrenOf(b.children.child)
		if !ok || len(cl.Rows) == 0 {
			continue
		}
		cs, ok := d.schemas(b.children.child)
		if !ok {
			return &UnmarshalError{
				FieldPath: rpath,
				Message:   fmt.Sprintf("no schema for child type %q", b.children.child),
			}
		}
		if err := d.list(cl.Rows, cs, rv.Field(b.children.index), rpath+"."+b.children.child); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

// setCell stores one cell into a struct field. ir.Value fields take the
// cell verbatim; everything else converts with strict type matching, the
// one widening being int cells into float fields.
func setCell(cell ir.Value, fv reflect.Value, path string) error {
	switch fv.Type() {
	case valueType:
		fv.Set(reflect.ValueOf(cell))
		return nil
	case refType:
		if cell.IsNull() {
			fv.Set(reflect.Zero(refType))
			return nil
		}
		if cell.Type != ir.ReferenceType {
			return typeErr(path, ir.ReferenceType, cell.Type)
		}
		fv.Set(reflect.ValueOf(cell.Ref))
		return nil
	case tensorType:
		if cell.IsNull() {
			fv.Set(reflect.Zero(tensorType))
			return nil
		}
		if cell.Type != ir.TensorType {
			return typeErr(path, ir.TensorType, cell.Type)
		}
		fv.Set(reflect.ValueOf(cell.Tensor))
		return nil
	}

	if fv.Kind() == reflect.Ptr {
		if cell.IsNull() {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return setCell(cell, fv.Elem(), path)
	}
	if cell.IsNull() {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		if cell.Type != ir.StringType {
			return typeErr(path, ir.StringType, cell.Type)
		}
		fv.SetString(cell.String)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cell.Type != ir.IntType {
			return typeErr(path, ir.IntType, cell.Type)
		}
		if fv.OverflowInt(cell.Int) {
			return &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("value %d overflows %s", cell.Int, fv.Type()),
			}
		}
		fv.SetInt(cell.Int)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if cell.Type != ir.IntType {
			return typeErr(path, ir.IntType, cell.Type)
		}
		if cell.Int < 0 {
			return &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("negative value %d for %s", cell.Int, fv.Type()),
			}
		}
		u := uint64(cell.Int)
		if fv.OverflowUint(u) {
			return &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("value %d overflows %s", cell.Int, fv.Type()),
			}
		}
		fv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		switch cell.Type {
		case ir.FloatType:
			fv.SetFloat(cell.Float)
		case ir.IntType:
			fv.SetFloat(float64(cell.Int))
		default:
			return typeErr(path, ir.FloatType, cell.Type)
		}
	case reflect.Bool:
		if cell.Type != ir.BoolType {
			return typeErr(path, ir.BoolType, cell.Type)
		}
		fv.SetBool(cell.Bool)
	default:
		return &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("unsupported field type %s", fv.Type()),
		}
	}
	return nil
}

func typeErr(path string, want, got ir.ValueType) error {
	return &UnmarshalError{
		FieldPath: path,
		Message:   fmt.Sprintf("expected %s, got %s", want, got),
	}
}
