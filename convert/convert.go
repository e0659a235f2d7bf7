package convert

import (
	"strconv"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/token"
)

type config struct {
	metadata bool
}

// Option configures a conversion.
type Option func(*config)

// Metadata controls whether type information is carried into the output:
// every row gains a "__type__" entry and declared lists are wrapped as
// {__type__, __schema__, __count_hint__?, items}. Off by default; the
// default output is a plain data tree.
func Metadata(v bool) Option {
	return func(c *config) { c.metadata = v }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// mapping is an insertion-ordered key/value container. Both renderers
// emit its pairs in order; canonical sorting belongs to the
// canonicalizer, not the bridges.
type mapping struct {
	keys []string
	vals []any
}

func (m *mapping) set(key string, v any) {
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

func (m *mapping) get(key string) (any, bool) {
	for i, k := range m.keys {
		if k == key {
			return m.vals[i], true
		}
	}
	return nil, false
}

// floatFunc adapts float values per output format. JSON cannot represent
// NaN or infinities and maps them to null; YAML keeps them.
type floatFunc func(float64) any

// builder assembles the output tree from walk callbacks with a frame
// stack: objects collect key/value pairs, lists collect row mappings. A
// child list closing under a list frame attaches to that frame's last
// row.
type builder struct {
	cfg    config
	floats floatFunc
	stack  []*frame
}

type frame struct {
	key  string
	obj  *mapping
	list *ir.MatrixList
	rows []any
}

func buildTree(doc *ir.Document, cfg config, floats floatFunc) (*mapping, error) {
	b := &builder{cfg: cfg, floats: floats, stack: []*frame{{obj: &mapping{}}}}
	err := ir.Walk(doc, &ir.Visitor{
		Scalar:      b.scalar,
		BeginObject: b.beginObject,
		EndObject:   b.endObject,
		BeginList:   b.beginList,
		EndList:     b.endList,
		Row:         b.row,
	})
	if err != nil {
		return nil, err
	}
	return b.stack[0].obj, nil
}

func (b *builder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *builder) scalar(key string, v ir.Value, _ *ir.Cursor) error {
	b.top().obj.set(key, b.value(v))
	return nil
}

func (b *builder) beginObject(key string, _ *ir.Object, _ *ir.Cursor) error {
	b.stack = append(b.stack, &frame{key: key, obj: &mapping{}})
	return nil
}

func (b *builder) endObject(string, *ir.Object, *ir.Cursor) error {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	b.top().obj.set(f.key, f.obj)
	return nil
}

func (b *builder) beginList(key string, l *ir.MatrixList, _ *ir.Cursor) error {
	b.stack = append(b.stack, &frame{key: key, list: l, rows: []any{}})
	return nil
}

func (b *builder) endList(string, *ir.MatrixList, *ir.Cursor) error {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]

	parent := b.top()
	if parent.list != nil {
		// Nested child rows attach to the row that owns them, which is
		// always the last one decoded.
		last := parent.rows[len(parent.rows)-1].(*mapping)
		last.set(f.key, f.rows)
		return nil
	}
	if b.cfg.metadata {
		wrap := &mapping{}
		wrap.set("__type__", f.list.TypeName)
		wrap.set("__schema__", f.list.Schema)
		if f.list.CountHint != nil {
			wrap.set("__count_hint__", int64(*f.list.CountHint))
		}
		wrap.set("items", f.rows)
		parent.obj.set(f.key, wrap)
		return nil
	}
	parent.obj.set(f.key, f.rows)
	return nil
}

func (b *builder) row(n *ir.Node, schema []string, _ *ir.Cursor) error {
	rm := &mapping{}
	if len(schema) > 0 {
		for i, col := range schema {
			if i < len(n.Fields) {
				rm.set(col, b.value(n.Fields[i]))
			}
		}
	} else {
		// No schema to name the columns by; fall back to positional
		// names.
		rm.set("id", n.ID)
		for i, fv := range n.Fields {
			rm.set("field_"+strconv.Itoa(i), b.value(fv))
		}
	}
	if b.cfg.metadata {
		rm.set("__type__", n.TypeName)
	}

	top := b.top()
	top.rows = append(top.rows, rm)
	return nil
}

func (b *builder) value(v ir.Value) any {
	switch v.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return v.Bool
	case ir.IntType:
		return v.Int
	case ir.FloatType:
		return b.floats(v.Float)
	case ir.StringType:
		return v.String
	case ir.ReferenceType:
		return v.Ref.String()
	case ir.TensorType:
		return b.tensor(v.Tensor)
	case ir.ExpressionType:
		return "$(" + v.Expr + ")"
	}
	return nil
}

func (b *builder) tensor(t *token.Tensor) any {
	if t == nil {
		return nil
	}
	if t.IsScalar() {
		return b.floats(t.Value)
	}
	out := make([]any, len(t.Elems))
	for i, e := range t.Elems {
		out[i] = b.tensor(e)
	}
	return out
}
