package typedef

import (
	"regexp"
	"sort"
)

// Shape is one of the recognized typedef forms.
type Shape int

const (
	ShapeStruct Shape = iota
	ShapeArray
	ShapeNormal
)

// Shapes lists the typedef forms in the order they are tried.
var Shapes = []Shape{ShapeStruct, ShapeArray, ShapeNormal}

func (s Shape) String() string {
	switch s {
	case ShapeStruct:
		return "struct"
	case ShapeArray:
		return "array"
	case ShapeNormal:
		return "normal"
	}
	return "?"
}

var (
	structRe = regexp.MustCompile(`\btypedef\s+struct(?:\s+(?P<type>\w+))?\s*\{(?P<body>[^}]*)\}\s*(?P<alias>\w+)\s*;`)
	arrayRe  = regexp.MustCompile(`\btypedef\s+(?P<type>\w+)\s+(?P<alias>\w+)\s*\[\s*(?P<size>\d+)\s*\]\s*;`)
	normalRe = regexp.MustCompile(`\btypedef\s+(?P<type>\w+)\s+(?P<alias>\w+)\s*;`)
)

// Pattern returns the matcher for the shape.
func (s Shape) Pattern() *regexp.Regexp {
	switch s {
	case ShapeStruct:
		return structRe
	case ShapeArray:
		return arrayRe
	default:
		return normalRe
	}
}

// DeclKind is one of the recognized struct member forms.
type DeclKind int

const (
	DeclPointer DeclKind = iota
	DeclArray
	DeclNormal
)

// DeclKinds lists the member forms in priority order.
var DeclKinds = []DeclKind{DeclPointer, DeclArray, DeclNormal}

func (k DeclKind) String() string {
	switch k {
	case DeclPointer:
		return "pointer"
	case DeclArray:
		return "array"
	case DeclNormal:
		return "normal"
	}
	return "?"
}

var (
	pointerDeclRe = regexp.MustCompile(`(?P<type>\w+)\s*\*\s*(?P<name>\w+)\s*;`)
	arrayDeclRe   = regexp.MustCompile(`(?P<type>\w+)\s+(?P<name>\w+)\s*\[\s*(?P<size>\d+)\s*\]\s*;`)
	normalDeclRe  = regexp.MustCompile(`(?P<type>\w+)\s+(?P<name>\w+)\s*;`)
)

// Pattern returns the matcher for the member form.
func (k DeclKind) Pattern() *regexp.Regexp {
	switch k {
	case DeclPointer:
		return pointerDeclRe
	case DeclArray:
		return arrayDeclRe
	default:
		return normalDeclRe
	}
}

// group returns the named capture from a submatch slice, or "".
func group(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

type span struct{ start, end int }

// claims records which byte ranges of a source text have been consumed by
// a higher-priority pattern. Spans are kept sorted by start.
type claims struct {
	spans []span
}

// claim takes [start, end) if it overlaps nothing taken so far.
func (c *claims) claim(start, end int) bool {
	i := sort.Search(len(c.spans), func(i int) bool { return c.spans[i].end > start })
	if i < len(c.spans) && c.spans[i].start < end {
		return false
	}
	c.spans = append(c.spans, span{})
	copy(c.spans[i+1:], c.spans[i:])
	c.spans[i] = span{start, end}
	return true
}
