package ir

import "fmt"

// Version is the format version from the %VERSION directive.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// StrMap is an insertion-ordered string table, used for the alias directives.
type StrMap struct {
	Keys   []string
	Values []string
}

func NewStrMap() *StrMap { return &StrMap{} }

func (m *StrMap) Len() int { return len(m.Keys) }

func (m *StrMap) Get(key string) (string, bool) {
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}
	return "", false
}

func (m *StrMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *StrMap) Set(key, value string) {
	for i, k := range m.Keys {
		if k == key {
			m.Values[i] = value
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

// Schema is one struct declaration: a type with its ordered column names and
// an optional advisory instance count.
type Schema struct {
	TypeName string
	Columns  []string
	Count    *int
}

// SchemaTable maps type names to schemas in declaration order.
type SchemaTable struct {
	Schemas []*Schema
}

func NewSchemaTable() *SchemaTable { return &SchemaTable{} }

func (t *SchemaTable) Len() int { return len(t.Schemas) }

func (t *SchemaTable) Get(typeName string) (*Schema, bool) {
	for _, s := range t.Schemas {
		if s.TypeName == typeName {
			return s, true
		}
	}
	return nil, false
}

func (t *SchemaTable) Add(s *Schema) {
	t.Schemas = append(t.Schemas, s)
}

// Nest is one parent/child nesting rule. Each parent type has at most one
// child type.
type Nest struct {
	Parent string
	Child  string
}

// Document is a parsed HEDL document: the header tables plus the body tree.
type Document struct {
	Version Version
	Aliases *StrMap
	Structs *SchemaTable
	Nests   []Nest
	Root    *Object
}

// NewDocument returns an empty version 1.0 document.
func NewDocument() *Document {
	return &Document{
		Version: Version{Major: 1, Minor: 0},
		Aliases: NewStrMap(),
		Structs: NewSchemaTable(),
		Root:    NewObject(),
	}
}

// ChildTypeOf returns the declared child type for parent.
func (d *Document) ChildTypeOf(parent string) (string, bool) {
	for _, n := range d.Nests {
		if n.Parent == parent {
			return n.Child, true
		}
	}
	return "", false
}

// HasNest reports whether a nesting rule for parent exists.
func (d *Document) HasNest(parent string) bool {
	_, ok := d.ChildTypeOf(parent)
	return ok
}
