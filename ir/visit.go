package ir

// EachItem calls fn for every key/item pair in the object tree, depth first
// in document order. Matrix lists are visited as items; their rows are not
// descended into.
func EachItem(o *Object, fn func(key string, it *Item)) {
	if o == nil {
		return
	}
	for i, key := range o.Keys {
		it := o.Items[i]
		fn(key, it)
		if it.Kind == ItemObject {
			EachItem(it.Object, fn)
		}
	}
}

// EachNode calls fn for every row reachable from the object tree, parents
// before their children.
func EachNode(o *Object, fn func(n *Node)) {
	if o == nil {
		return
	}
	for i := range o.Keys {
		switch it := o.Items[i]; it.Kind {
		case ItemObject:
			EachNode(it.Object, fn)
		case ItemList:
			for _, n := range it.List.Rows {
				eachNode(n, fn)
			}
		}
	}
}

func eachNode(n *Node, fn func(n *Node)) {
	fn(n)
	for _, cl := range n.Children {
		for _, child := range cl.Rows {
			eachNode(child, fn)
		}
	}
}

// Cursor reports where in the body a Walk callback fires. Path holds the
// keys from the root down to the current element's container; descending
// from a row into its children appends the row's ID.
type Cursor struct {
	Depth  int
	Path   []string
	Doc    *Document
	Schema []string
}

func (c *Cursor) child(key string) *Cursor {
	path := make([]string, len(c.Path)+1)
	copy(path, c.Path)
	path[len(c.Path)] = key
	return &Cursor{Depth: c.Depth + 1, Path: path, Doc: c.Doc}
}

// Visitor receives body elements in document order. Nil callbacks are
// skipped; a returned error aborts the walk. Begin and End bracket the
// contents of objects and lists. A row's nested children arrive between
// that row and the next one, wrapped in their own BeginList/EndList pair
// keyed by the child type name, so a consumer can rebuild the tree with a
// plain stack.
type Visitor struct {
	Scalar      func(key string, v Value, c *Cursor) error
	BeginObject func(key string, o *Object, c *Cursor) error
	EndObject   func(key string, o *Object, c *Cursor) error
	BeginList   func(key string, l *MatrixList, c *Cursor) error
	EndList     func(key string, l *MatrixList, c *Cursor) error
	Row         func(n *Node, schema []string, c *Cursor) error
}

// Walk traverses doc's body and drives v. The document is read-only to
// the visitor; format bridges and analyzers build their output on this
// seam instead of recursing over Items themselves.
func Walk(doc *Document, v *Visitor) error {
	if doc == nil || doc.Root == nil || v == nil {
		return nil
	}
	return walkObject(doc.Root, v, &Cursor{Doc: doc})
}

func walkObject(o *Object, v *Visitor, c *Cursor) error {
	for i, key := range o.Keys {
		switch it := o.Items[i]; it.Kind {
		case ItemScalar:
			if v.Scalar != nil {
				if err := v.Scalar(key, it.Scalar, c); err != nil {
					return err
				}
			}
		case ItemObject:
			if v.BeginObject != nil {
				if err := v.BeginObject(key, it.Object, c); err != nil {
					return err
				}
			}
			if err := walkObject(it.Object, v, c.child(key)); err != nil {
				return err
			}
			if v.EndObject != nil {
				if err := v.EndObject(key, it.Object, c); err != nil {
					return err
				}
			}
		case ItemList:
			if err := walkList(key, it.List, v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkList(key string, l *MatrixList, v *Visitor, c *Cursor) error {
	if v.BeginList != nil {
		if err := v.BeginList(key, l, c); err != nil {
			return err
		}
	}
	lc := c.child(key)
	lc.Schema = l.Schema
	for _, n := range l.Rows {
		if err := walkRow(n, l.Schema, v, lc); err != nil {
			return err
		}
	}
	if v.EndList != nil {
		if err := v.EndList(key, l, c); err != nil {
			return err
		}
	}
	return nil
}

func walkRow(n *Node, schema []string, v *Visitor, c *Cursor) error {
	if v.Row != nil {
		if err := v.Row(n, schema, c); err != nil {
			return err
		}
	}
	if len(n.Children) == 0 {
		return nil
	}
	cc := c.child(n.ID)
	for _, cl := range n.Children {
		view := &MatrixList{TypeName: cl.TypeName, Schema: childColumns(c.Doc, cl.TypeName), Rows: cl.Rows}
		if err := walkList(cl.TypeName, view, v, cc); err != nil {
			return err
		}
	}
	return nil
}

func childColumns(doc *Document, typeName string) []string {
	if doc == nil || doc.Structs == nil {
		return nil
	}
	if s, ok := doc.Structs.Get(typeName); ok {
		return s.Columns
	}
	return nil
}

// Stats summarizes the size of a document body.
type Stats struct {
	Objects int
	Keys    int
	Lists   int
	Rows    int
	Values  int
}

// Collect walks doc and tallies its body constructs. Rows count every nesting
// level; Values counts scalar items and row cells.
func Collect(doc *Document) Stats {
	var st Stats
	if doc == nil || doc.Root == nil {
		return st
	}
	st.Objects = 1
	collectObject(doc.Root, &st)
	return st
}

func collectObject(o *Object, st *Stats) {
	st.Keys += len(o.Keys)
	for i := range o.Keys {
		switch it := o.Items[i]; it.Kind {
		case ItemScalar:
			st.Values++
		case ItemObject:
			st.Objects++
			collectObject(it.Object, st)
		case ItemList:
			st.Lists++
			for _, n := range it.List.Rows {
				collectNode(n, st)
			}
		}
	}
}

func collectNode(n *Node, st *Stats) {
	st.Rows++
	st.Values += len(n.Fields)
	for _, cl := range n.Children {
		for _, child := range cl.Rows {
			collectNode(child, st)
		}
	}
}
