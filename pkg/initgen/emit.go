// Package initgen turns a resolved field tree into C zero-initialization
// statements, rewriting array accesses into nested for loops.
package initgen

import (
	"strings"

	"github.com/raymyers/zinit/pkg/ctypes"
	"github.com/raymyers/zinit/pkg/fieldtree"
)

// Emit returns one "<access> = 0;" statement per primitive leaf of root,
// depth-first in member declaration order. Each path segment carries the
// node's array annotations, e.g. "root.a[3].x = 0;".
func Emit(root *fieldtree.Node) []string {
	var out []string
	emit(root, "", &out)
	return out
}

func emit(n *fieldtree.Node, prefix string, out *[]string) {
	expr := prefix + n.Name + ctypes.Annotations(n.DataType) + "."
	if n.IsLeaf() {
		*out = append(*out, strings.TrimSuffix(expr, ".")+" = 0;")
		return
	}
	for _, c := range n.Children {
		emit(c, expr, out)
	}
}
