package typedef

import (
	"fmt"
	"strings"
)

// Kind classifies a failure of the typedef pipeline.
type Kind int

const (
	PatternMismatch Kind = iota + 1
	AliasNotFound
	AmbiguousAlias
	UnsupportedDeclaration
	CycleDetected
)

func (k Kind) String() string {
	switch k {
	case PatternMismatch:
		return "pattern mismatch"
	case AliasNotFound:
		return "alias not found"
	case AmbiguousAlias:
		return "ambiguous alias"
	case UnsupportedDeclaration:
		return "unsupported declaration"
	case CycleDetected:
		return "cycle detected"
	}
	return "unknown error"
}

// Error is the error type returned by parsing and resolution. Subject is the
// alias, pattern or member the failure is about.
type Error struct {
	Kind    Kind
	Subject string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of subject.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrPatternMismatch        = &Error{Kind: PatternMismatch}
	ErrAliasNotFound          = &Error{Kind: AliasNotFound}
	ErrAmbiguousAlias         = &Error{Kind: AmbiguousAlias}
	ErrUnsupportedDeclaration = &Error{Kind: UnsupportedDeclaration}
	ErrCycleDetected          = &Error{Kind: CycleDetected}
)

// Mismatch reports text that its originating pattern does not match.
func Mismatch(pattern, text string) *Error {
	return &Error{
		Kind:    PatternMismatch,
		Subject: pattern,
		Detail:  fmt.Sprintf("error capturing %s in %q", pattern, text),
	}
}

// NotFound reports an alias absent from the database.
func NotFound(alias string) *Error {
	return &Error{
		Kind:    AliasNotFound,
		Subject: alias,
		Detail:  fmt.Sprintf("%s is not found", alias),
	}
}

// Ambiguous reports an alias defined n > 1 times.
func Ambiguous(alias string, n int) *Error {
	return &Error{
		Kind:    AmbiguousAlias,
		Subject: alias,
		Detail:  fmt.Sprintf("%s is found %d times", alias, n),
	}
}

// Unsupported reports a struct member that cannot be zero-initialized
// field by field.
func Unsupported(owner string, d Declaration) *Error {
	var why string
	switch d.Kind {
	case DeclPointer:
		why = "pointer members are not supported"
	case DeclArray:
		why = "array members must be declared through an array typedef"
	default:
		why = "declaration is not supported"
	}
	return &Error{
		Kind:    UnsupportedDeclaration,
		Subject: d.Name,
		Detail:  fmt.Sprintf("%s in %s: %s", d, owner, why),
	}
}

// Cycle reports an alias that reappears on its own resolution path.
func Cycle(path []string) *Error {
	subject := ""
	if len(path) > 0 {
		subject = path[len(path)-1]
	}
	return &Error{
		Kind:    CycleDetected,
		Subject: subject,
		Detail:  strings.Join(path, " -> "),
	}
}
