package gomap

import (
	"fmt"
	"reflect"
	"strings"
)

// binding ties one struct field to a schema column, or to the nested rows
// of a child type.
type binding struct {
	index  int
	column string
	child  string
}

// structBindings is the parsed tag layout of one row struct: column
// bindings in field declaration order, plus at most one children binding.
type structBindings struct {
	columns  []binding
	children *binding
}

func bindStruct(t reflect.Type) (*structBindings, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("rows map to structs, got %s", t)
	}
	b := &structBindings{}
	seen := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("hedl")
		if !ok || tag == "" || tag == "-" {
			continue
		}
		name, children := cutTag(tag)
		if children {
			if b.children != nil {
				return nil, fmt.Errorf("%s has more than one children binding", t.Name())
			}
			if f.Type.Kind() != reflect.Slice || f.Type.Elem().Kind() != reflect.Struct {
				return nil, fmt.Errorf("children field %s.%s must be a slice of structs", t.Name(), f.Name)
			}
			b.children = &binding{index: i, child: name}
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("%s binds column %q twice", t.Name(), name)
		}
		seen[name] = true
		b.columns = append(b.columns, binding{index: i, column: name})
	}
	if len(b.columns) == 0 {
		return nil, fmt.Errorf("%s has no hedl column tags", t.Name())
	}
	return b, nil
}

func cutTag(tag string) (name string, children bool) {
	name, rest, ok := strings.Cut(tag, ",")
	return name, ok && rest == "children"
}
