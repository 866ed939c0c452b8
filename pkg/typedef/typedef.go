// Package typedef extracts typedef declarations from C-like header text
// and lexicalizes them into a typedef database.
//
// Only a restricted subset of C is recognized: struct typedefs, fixed-size
// array typedefs and plain aliases, each matched by a regular expression.
package typedef

import (
	"fmt"
	"sort"
	"strconv"
)

// RawTypedef is one unparsed typedef fragment tagged with the shape that
// matched it. Offset is the byte position of Text in the header.
type RawTypedef struct {
	Shape  Shape
	Text   string
	Offset int
}

// Declaration is one struct member.
type Declaration struct {
	Kind   DeclKind
	Name   string
	Type   string
	Size   int // DeclArray only
	Offset int // position within the struct body
}

func (d Declaration) String() string {
	switch d.Kind {
	case DeclPointer:
		return fmt.Sprintf("%s *%s;", d.Type, d.Name)
	case DeclArray:
		return fmt.Sprintf("%s %s[%d];", d.Type, d.Name, d.Size)
	}
	return fmt.Sprintf("%s %s;", d.Type, d.Name)
}

// Typedef is a lexicalized typedef. Type is the struct tag for ShapeStruct
// and the underlying (element) type otherwise.
type Typedef struct {
	Shape    Shape
	Alias    string
	Type     string
	Size     int           // ShapeArray only
	Elements []Declaration // ShapeStruct only
}

// Extract returns every typedef fragment in src. Shapes are tried in the
// order of Shapes; within a shape, fragments are in document order. A match
// that overlaps a fragment already taken by an earlier shape is dropped.
func Extract(src string) []RawTypedef {
	var (
		out   []RawTypedef
		taken claims
	)
	for _, shape := range Shapes {
		for _, loc := range shape.Pattern().FindAllStringIndex(src, -1) {
			if !taken.claim(loc[0], loc[1]) {
				continue
			}
			out = append(out, RawTypedef{
				Shape:  shape,
				Text:   src[loc[0]:loc[1]],
				Offset: loc[0],
			})
		}
	}
	return out
}

// ExtractDeclarations returns the member declarations in a struct body.
// Member forms are tried in priority order pointer, array, normal; text
// consumed by a higher-priority form is not matched again. The result is
// in declaration order.
func ExtractDeclarations(body string) ([]Declaration, error) {
	var (
		out   []Declaration
		taken claims
	)
	for _, kind := range DeclKinds {
		re := kind.Pattern()
		for _, loc := range re.FindAllStringSubmatchIndex(body, -1) {
			if !taken.claim(loc[0], loc[1]) {
				continue
			}
			m := submatches(body, loc)
			d := Declaration{
				Kind:   kind,
				Name:   group(re, m, "name"),
				Type:   group(re, m, "type"),
				Offset: loc[0],
			}
			if kind == DeclArray {
				size, err := strconv.Atoi(group(re, m, "size"))
				if err != nil {
					return nil, Mismatch(re.String(), m[0])
				}
				d.Size = size
			}
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out, nil
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// Lexicalize re-applies the fragment's own pattern and builds the
// structured typedef. A fragment that does not match its pattern yields a
// PatternMismatch error.
func Lexicalize(raw RawTypedef) (Typedef, error) {
	re := raw.Shape.Pattern()
	m := re.FindStringSubmatch(raw.Text)
	if m == nil {
		return Typedef{}, Mismatch(re.String(), raw.Text)
	}

	td := Typedef{
		Shape: raw.Shape,
		Alias: group(re, m, "alias"),
		Type:  group(re, m, "type"),
	}
	switch raw.Shape {
	case ShapeStruct:
		elems, err := ExtractDeclarations(group(re, m, "body"))
		if err != nil {
			return Typedef{}, fmt.Errorf("typedef %s: %w", td.Alias, err)
		}
		td.Elements = elems
	case ShapeArray:
		size, err := strconv.Atoi(group(re, m, "size"))
		if err != nil {
			return Typedef{}, Mismatch(re.String(), raw.Text)
		}
		td.Size = size
	}
	return td, nil
}

// Parse extracts and lexicalizes every typedef in src.
func Parse(src string) (Database, error) {
	raws := Extract(src)
	db := make(Database, 0, len(raws))
	for _, raw := range raws {
		td, err := Lexicalize(raw)
		if err != nil {
			return nil, err
		}
		db = append(db, td)
	}
	return db, nil
}
