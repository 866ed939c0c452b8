// Package ctypes defines the scalar type catalog that terminates typedef
// resolution, and helpers for the bracket annotations carried by array types.
package ctypes

import (
	"regexp"
	"strconv"
	"strings"
)

// Signedness represents signed/unsigned for integer types
type Signedness int

const (
	Signed Signedness = iota
	Unsigned
)

func (s Signedness) String() string {
	if s == Signed {
		return "signed"
	}
	return "unsigned"
}

// IntSize represents the size of integer types
type IntSize int

const (
	I8 IntSize = iota
	I16
	I32
	IBool
)

func (s IntSize) String() string {
	names := []string{"i8", "i16", "i32", "ibool"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Tint is the machine representation of a primitive alias.
type Tint struct {
	Size IntSize
	Sign Signedness
}

// String renders the C spelling of the integer kind.
func (t Tint) String() string {
	sign := ""
	if t.Sign == Unsigned {
		sign = "unsigned "
	}
	switch t.Size {
	case I8:
		return sign + "char"
	case I16:
		return sign + "short"
	case I32:
		return sign + "int"
	case IBool:
		return "_Bool"
	}
	return sign + "int"
}

// DefaultPrimitives is the closed list of scalar names recognized when no
// configuration overrides it.
var DefaultPrimitives = []string{
	"boolean",
	"uint8",
	"uint16",
	"uint32",
	"int8",
	"int16",
	"int32",
	"sint8",
	"sint16",
	"sint32",
}

var intNameRe = regexp.MustCompile(`^(u|s)?int(8|16|32)$`)

// Classify maps a primitive name onto its integer kind. Names that do not
// follow the [u|s]intN or boolean convention are treated as signed 32-bit.
func Classify(name string) Tint {
	if name == "boolean" || name == "bool" {
		return Tint{Size: IBool, Sign: Unsigned}
	}
	m := intNameRe.FindStringSubmatch(name)
	if m == nil {
		return Tint{Size: I32, Sign: Signed}
	}
	t := Tint{Sign: Signed}
	if m[1] == "u" {
		t.Sign = Unsigned
	}
	switch m[2] {
	case "8":
		t.Size = I8
	case "16":
		t.Size = I16
	default:
		t.Size = I32
	}
	return t
}

// Set is a closed set of primitive type names. Membership is an exact,
// case-sensitive string match.
type Set struct {
	names []string
	kinds map[string]Tint
}

// NewSet builds a set from the given names, preserving their order.
// Duplicates are ignored.
func NewSet(names ...string) *Set {
	s := &Set{kinds: make(map[string]Tint, len(names))}
	for _, n := range names {
		if _, dup := s.kinds[n]; dup {
			continue
		}
		s.names = append(s.names, n)
		s.kinds[n] = Classify(n)
	}
	return s
}

// Default returns a set holding DefaultPrimitives.
func Default() *Set {
	return NewSet(DefaultPrimitives...)
}

// Contains reports whether name is a primitive.
func (s *Set) Contains(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// Kind returns the integer kind of a primitive.
func (s *Set) Kind(name string) (Tint, bool) {
	t, ok := s.kinds[name]
	return t, ok
}

// Names returns the primitives in declaration order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// AnnotationRe matches one bracket-size annotation such as "[4]" and
// captures the size.
var AnnotationRe = regexp.MustCompile(`\[[\s]*(\d+)[\s]*\]`)

// Annotate appends a bracket-size annotation to a data type string.
func Annotate(dataType string, size int) string {
	return dataType + "[" + strconv.Itoa(size) + "]"
}

// Annotations returns every bracket annotation in dataType, concatenated
// in their original order.
func Annotations(dataType string) string {
	return strings.Join(AnnotationRe.FindAllString(dataType, -1), "")
}

// Dimensions returns the sizes of every bracket annotation in dataType.
func Dimensions(dataType string) []int {
	var dims []int
	for _, m := range AnnotationRe.FindAllStringSubmatch(dataType, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		dims = append(dims, n)
	}
	return dims
}

// Base strips every bracket annotation from dataType.
func Base(dataType string) string {
	return strings.TrimSpace(AnnotationRe.ReplaceAllString(dataType, ""))
}
