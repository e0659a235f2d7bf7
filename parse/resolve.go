package parse

import (
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"
)

// typeRegistry indexes declared row IDs two ways: by type for qualified
// lookups and by bare ID for unqualified ones. The per-ID type lists keep
// document order so ambiguity reports are stable.
type typeRegistry struct {
	byType map[string]map[string]int
	byID   map[string][]string
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		byType: make(map[string]map[string]int),
		byID:   make(map[string][]string),
	}
}

func (r *typeRegistry) register(typeName, id string, lineNum int) error {
	ids := r.byType[typeName]
	if ids == nil {
		ids = make(map[string]int)
		r.byType[typeName] = ids
	}
	if prev, ok := ids[id]; ok {
		return ir.Errorf(ir.KindCollision, lineNum,
			"duplicate ID '%s' in type '%s', previously defined at line %d",
			id, typeName, prev)
	}
	ids[id] = lineNum
	r.byID[id] = append(r.byID[id], typeName)
	return nil
}

func (r *typeRegistry) containsInType(typeName, id string) bool {
	_, ok := r.byType[typeName][id]
	return ok
}

func (r *typeRegistry) typesWithID(id string) []string {
	return r.byID[id]
}

// ResolveReferences checks every reference in doc against the IDs its matrix
// rows declare. Qualified references must exist in their named type.
// Unqualified references search every type regardless of where they appear; a
// bare ID present in more than one type is ambiguous in either mode. A
// reference that resolves nowhere is an error in strict mode and degrades to
// null otherwise, mutating the document.
func ResolveReferences(doc *ir.Document, strict bool) error {
	limits := DefaultLimits()
	return resolveReferences(doc, strict, &limits)
}

func resolveReferences(doc *ir.Document, strict bool, limits *Limits) error {
	reg := newTypeRegistry()
	if err := collectObjectIDs(doc.Root, reg, 0, limits.MaxNestDepth); err != nil {
		return err
	}
	return resolveObject(doc.Root, reg, strict, 0, limits.MaxNestDepth)
}

// Resolution walks have no source positions left, so depth violations report
// line 0 like every other post-parse check.
func checkNestDepth(depth, maxDepth int) error {
	if depth > maxDepth {
		return ir.Errorf(ir.KindSecurity, 0,
			"NEST hierarchy depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}

func collectObjectIDs(obj *ir.Object, reg *typeRegistry, depth, maxDepth int) error {
	if err := checkNestDepth(depth, maxDepth); err != nil {
		return err
	}
	for _, it := range obj.Items {
		switch it.Kind {
		case ir.ItemList:
			for _, row := range it.List.Rows {
				if err := reg.register(it.List.TypeName, row.ID, 0); err != nil {
					return err
				}
			}
			for _, row := range it.List.Rows {
				for _, cl := range row.Children {
					for _, child := range cl.Rows {
						if err := collectNodeIDs(child, reg, depth+1, maxDepth); err != nil {
							return err
						}
					}
				}
			}
		case ir.ItemObject:
			if err := collectObjectIDs(it.Object, reg, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectNodeIDs(node *ir.Node, reg *typeRegistry, depth, maxDepth int) error {
	if err := checkNestDepth(depth, maxDepth); err != nil {
		return err
	}
	if err := reg.register(node.TypeName, node.ID, 0); err != nil {
		return err
	}
	for _, cl := range node.Children {
		for _, child := range cl.Rows {
			if err := collectNodeIDs(child, reg, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveObject(obj *ir.Object, reg *typeRegistry, strict bool, depth, maxDepth int) error {
	if err := checkNestDepth(depth, maxDepth); err != nil {
		return err
	}
	for _, it := range obj.Items {
		switch it.Kind {
		case ir.ItemScalar:
			if err := resolveValue(&it.Scalar, reg, strict); err != nil {
				return err
			}
		case ir.ItemList:
			for _, row := range it.List.Rows {
				if err := resolveNode(row, reg, strict, depth, maxDepth); err != nil {
					return err
				}
			}
		case ir.ItemObject:
			if err := resolveObject(it.Object, reg, strict, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveNode(node *ir.Node, reg *typeRegistry, strict bool, depth, maxDepth int) error {
	if err := checkNestDepth(depth, maxDepth); err != nil {
		return err
	}
	for i := range node.Fields {
		if err := resolveValue(&node.Fields[i], reg, strict); err != nil {
			return err
		}
	}
	for _, cl := range node.Children {
		for _, child := range cl.Rows {
			if err := resolveNode(child, reg, strict, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveValue(v *ir.Value, reg *typeRegistry, strict bool) error {
	if v.Type != ir.ReferenceType {
		return nil
	}
	ref := v.Ref

	var resolved bool
	if ref.Type != "" {
		resolved = reg.containsInType(ref.Type, ref.ID)
	} else {
		types := reg.typesWithID(ref.ID)
		switch len(types) {
		case 0:
		case 1:
			resolved = true
		default:
			return ir.Errorf(ir.KindReference, 0,
				"Ambiguous unqualified reference '@%s' matches multiple types: [%s]",
				ref.ID, strings.Join(types, ", "))
		}
	}
	if resolved {
		return nil
	}
	if strict {
		return ir.Errorf(ir.KindReference, 0, "unresolved reference %s", ref.String())
	}
	*v = ir.Null()
	return nil
}
