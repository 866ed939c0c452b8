package fieldtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/zinit/pkg/ctypes"
)

// Printer dumps a field tree, one node per line.
type Printer struct {
	w          io.Writer
	primitives *ctypes.Set
}

// NewPrinter creates a tree printer. Leaves are annotated with the C type
// their primitive maps to when prims knows it.
func NewPrinter(w io.Writer, prims *ctypes.Set) *Printer {
	if prims == nil {
		prims = ctypes.Default()
	}
	return &Printer{w: w, primitives: prims}
}

// PrintTree prints root and all its descendants.
func (p *Printer) PrintTree(root *Node) {
	root.Walk(func(n *Node, depth int) {
		fmt.Fprintf(p.w, "%s%s: %s", strings.Repeat("  ", depth), n.Name, n.DataType)
		if n.IsLeaf() {
			if k, ok := p.primitives.Kind(ctypes.Base(n.DataType)); ok {
				fmt.Fprintf(p.w, " /* %s */", k)
			}
		}
		fmt.Fprintln(p.w)
	})
}
