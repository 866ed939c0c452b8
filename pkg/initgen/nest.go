package initgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/zinit/pkg/ctypes"
)

// Loop variable prefix and per-depth indentation used when a Nester leaves
// them empty.
const (
	DefaultIndexPrefix = "my"
	DefaultIndent      = "\t"
)

// Index variable letters, in allocation order.
const indexLetters = "ijklmnopqrstuvwxyz"

// IndexName returns the i-th loop variable name: myi, myj, ... myz, then
// myi1, myj1, ... and so on without limit.
func IndexName(prefix string, i int) string {
	name := prefix + string(indexLetters[i%len(indexLetters)])
	if round := i / len(indexLetters); round > 0 {
		name += strconv.Itoa(round)
	}
	return name
}

// Nester rewrites indexed assignments into loop nests.
type Nester struct {
	IndexPrefix string
	Indent      string
}

// Nest rewrites stmt with the default prefix and indent.
func Nest(stmt string) string {
	return Nester{}.Nest(stmt)
}

// Nest converts every "[n]" in stmt into a for loop over a fresh index
// variable, outermost first, and substitutes the variable for the literal.
// A statement without annotations is returned unchanged. The result has no
// trailing newline.
func (n Nester) Nest(stmt string) string {
	locs := ctypes.AnnotationRe.FindAllStringSubmatchIndex(stmt, -1)
	if len(locs) == 0 {
		return stmt
	}
	prefix, indent := n.IndexPrefix, n.Indent
	if prefix == "" {
		prefix = DefaultIndexPrefix
	}
	if indent == "" {
		indent = DefaultIndent
	}

	depth := len(locs)
	vars := make([]string, depth)
	for i := range vars {
		vars[i] = IndexName(prefix, i)
	}

	// Bounds are printed in canonical form; literals too large for an int
	// are kept as written.
	dims := ctypes.Dimensions(stmt)
	var b strings.Builder
	for i, loc := range locs {
		bound := stmt[loc[2]:loc[3]]
		if len(dims) == depth {
			bound = strconv.Itoa(dims[i])
		}
		b.WriteString(strings.Repeat(indent, i))
		fmt.Fprintf(&b, "for (int %s = 0; %s < %s; %s++) {\n", vars[i], vars[i], bound, vars[i])
	}

	b.WriteString(strings.Repeat(indent, depth))
	last := 0
	for i, loc := range locs {
		b.WriteString(stmt[last:loc[0]])
		b.WriteString("[" + vars[i] + "]")
		last = loc[1]
	}
	b.WriteString(stmt[last:])

	for i := depth - 1; i >= 0; i-- {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(indent, i))
		b.WriteString("}")
	}
	return b.String()
}
