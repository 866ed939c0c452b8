package typedef

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes a typedef database back out as C declarations.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new database printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintDatabase prints every typedef in database order.
func (p *Printer) PrintDatabase(db Database) {
	for _, td := range db {
		p.PrintTypedef(td)
	}
}

// PrintTypedef prints a single typedef.
func (p *Printer) PrintTypedef(td Typedef) {
	switch td.Shape {
	case ShapeStruct:
		if td.Type != "" {
			fmt.Fprintf(p.w, "typedef struct %s {\n", td.Type)
		} else {
			fmt.Fprint(p.w, "typedef struct {\n")
		}
		p.indent++
		for _, d := range td.Elements {
			p.writeIndent()
			fmt.Fprintln(p.w, d.String())
		}
		p.indent--
		fmt.Fprintf(p.w, "} %s;\n", td.Alias)
	case ShapeArray:
		fmt.Fprintf(p.w, "typedef %s %s[%d];\n", td.Type, td.Alias, td.Size)
	default:
		fmt.Fprintf(p.w, "typedef %s %s;\n", td.Type, td.Alias)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}
