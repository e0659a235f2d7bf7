package ir

// ItemKind discriminates the three body constructs an object key can hold.
type ItemKind int

const (
	ItemScalar ItemKind = iota
	ItemObject
	ItemList
)

func (k ItemKind) String() string {
	switch k {
	case ItemScalar:
		return "Scalar"
	case ItemObject:
		return "Object"
	case ItemList:
		return "List"
	}
	return "<unknown item kind>"
}

// Item is one body construct: a scalar value, a nested object, or a typed
// matrix list.
type Item struct {
	Kind   ItemKind
	Scalar Value
	Object *Object
	List   *MatrixList
}

func ScalarOf(v Value) *Item { return &Item{Kind: ItemScalar, Scalar: v} }

func ObjectOf(o *Object) *Item { return &Item{Kind: ItemObject, Object: o} }

func ListOf(l *MatrixList) *Item { return &Item{Kind: ItemList, List: l} }

// Object is an insertion-ordered key/item table. Keys and Items move in
// lockstep; serialization sorts keys, the object itself never does.
type Object struct {
	Keys  []string
	Items []*Item
}

func NewObject() *Object { return &Object{} }

func (o *Object) Len() int { return len(o.Keys) }

// Get returns the item stored under key.
func (o *Object) Get(key string) (*Item, bool) {
	for i, k := range o.Keys {
		if k == key {
			return o.Items[i], true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set appends key with it, replacing the existing entry when key is already
// present.
func (o *Object) Set(key string, it *Item) {
	for i, k := range o.Keys {
		if k == key {
			o.Items[i] = it
			return
		}
	}
	o.Keys = append(o.Keys, key)
	o.Items = append(o.Items, it)
}

// MatrixList is a typed list of rows sharing one column schema. CountHint is
// the advisory instance count from a declaration such as "teams(3): @Team";
// nil when absent.
type MatrixList struct {
	TypeName  string
	Schema    []string
	Rows      []*Node
	CountHint *int
}

func NewMatrixList(typeName string, schema []string) *MatrixList {
	return &MatrixList{TypeName: typeName, Schema: schema}
}

// Node is one matrix row: an identified entity with one value per schema
// column. Fields[0] always holds the identity as a string. ChildCount is the
// advisory "[N]" hint from the row prefix; nil when absent.
type Node struct {
	TypeName   string
	ID         string
	Fields     []Value
	Children   []*ChildList
	ChildCount *int
}

// ChildList groups a node's nested rows of one type.
type ChildList struct {
	TypeName string
	Rows     []*Node
}

func NewNode(typeName, id string, fields []Value) *Node {
	return &Node{TypeName: typeName, ID: id, Fields: fields}
}

// ChildrenOf returns the child list for typeName.
func (n *Node) ChildrenOf(typeName string) (*ChildList, bool) {
	for _, cl := range n.Children {
		if cl.TypeName == typeName {
			return cl, true
		}
	}
	return nil, false
}

// AddChild appends child to the list for typeName, creating the list on first
// use.
func (n *Node) AddChild(typeName string, child *Node) {
	if cl, ok := n.ChildrenOf(typeName); ok {
		cl.Rows = append(cl.Rows, child)
		return
	}
	n.Children = append(n.Children, &ChildList{TypeName: typeName, Rows: []*Node{child}})
}

// NumChildren returns the total number of direct children across all child
// lists.
func (n *Node) NumChildren() int {
	total := 0
	for _, cl := range n.Children {
		total += len(cl.Rows)
	}
	return total
}

// Field returns the value at column index i.
func (n *Node) Field(i int) (Value, bool) {
	if i < 0 || i >= len(n.Fields) {
		return Value{}, false
	}
	return n.Fields[i], true
}
