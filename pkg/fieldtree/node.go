// Package fieldtree resolves a typedef alias into the tree of fields it
// expands to, following struct members, array typedefs and alias chains
// down to primitive leaves.
package fieldtree

// Kind distinguishes primitive leaves from expanded structs.
type Kind int

const (
	Leaf Kind = iota
	Struct
)

func (k Kind) String() string {
	if k == Struct {
		return "struct"
	}
	return "leaf"
}

// Node is one field of the expanded tree. DataType is the primitive or
// struct alias, followed by one "[n]" annotation per array typedef that was
// passed through on the way to it.
type Node struct {
	Name     string
	DataType string
	Kind     Kind
	Children []*Node
}

// IsLeaf reports whether n is a primitive field.
func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Leaves counts the primitive fields reachable from n.
func (n *Node) Leaves() int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.Leaves()
	}
	return total
}

// Walk visits n and its descendants depth-first, passing each node's depth.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
