package fieldtree

import (
	"github.com/raymyers/zinit/pkg/ctypes"
	"github.com/raymyers/zinit/pkg/typedef"
)

// Resolver expands aliases against one typedef database.
type Resolver struct {
	DB typedef.Database
	// Primitives terminates the recursion. Nil means ctypes.Default().
	Primitives *ctypes.Set
}

// Resolve expands alias into a field tree rooted at a node called name,
// using the default primitive set.
func Resolve(db typedef.Database, alias, name string) (*Node, error) {
	r := &Resolver{DB: db}
	return r.Resolve(alias, name)
}

// Resolve expands alias into a field tree rooted at a node called name.
//
// Plain aliases are transparent and array typedefs annotate the node they
// resolve to rather than adding a level. Pointer and raw array struct
// members are rejected, as is any alias that refers back to itself.
func (r *Resolver) Resolve(alias, name string) (*Node, error) {
	if r.Primitives == nil {
		r.Primitives = ctypes.Default()
	}
	return r.resolve(alias, name, nil)
}

func (r *Resolver) resolve(alias, name string, path []string) (*Node, error) {
	if r.Primitives.Contains(alias) {
		return &Node{Name: name, DataType: alias, Kind: Leaf}, nil
	}

	// path is shared by siblings; cap it so append always copies.
	path = append(path[:len(path):len(path)], alias)
	for _, seen := range path[:len(path)-1] {
		if seen == alias {
			return nil, typedef.Cycle(path)
		}
	}

	td, err := r.DB.Lookup(alias)
	if err != nil {
		return nil, err
	}

	switch td.Shape {
	case typedef.ShapeStruct:
		node := &Node{Name: name, DataType: td.Alias, Kind: Struct}
		for _, elem := range td.Elements {
			if elem.Kind != typedef.DeclNormal {
				return nil, typedef.Unsupported(td.Alias, elem)
			}
			child, err := r.resolve(elem.Type, elem.Name, path)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil

	case typedef.ShapeArray:
		node, err := r.resolve(td.Type, name, path)
		if err != nil {
			return nil, err
		}
		node.DataType = ctypes.Annotate(node.DataType, td.Size)
		return node, nil

	default:
		return r.resolve(td.Type, name, path)
	}
}
