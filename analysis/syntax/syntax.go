// Package syntax defines the structured program tree consumed by the CFG builder.
//
// The tree is a closed union: every construct kind the builder understands is a
// concrete type in this package, and no other package can add one. Frontends
// (see frontend/java and frontend/golang) produce trees out of source code;
// Link must be called on every routine before it is handed to the analyses, so
// that constructs can find their enclosing routine.
package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind enumerates construct kinds.
type Kind int

const (
	KindRoutine Kind = iota
	KindParam
	KindBlock
	KindEmpty
	KindExprStmt
	KindVarDecl
	KindIf
	KindWhile
	KindDo
	KindFor
	KindForEach
	KindSwitch
	KindCase
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindTry
	KindCatch
	KindLabeled
	KindSync
	KindName
	KindLiteral
	KindAssign
	KindBinary
	KindLogical
	KindUnary
	KindIncDec
	KindCall
	KindConditional
	KindParen
	KindField
	KindIndex
	KindNew
	KindCast
	KindTypeTest
	KindOpaque
)

var kindNames = [...]string{
	KindRoutine:     "Routine",
	KindParam:       "Param",
	KindBlock:       "Block",
	KindEmpty:       "Empty",
	KindExprStmt:    "ExprStmt",
	KindVarDecl:     "VarDecl",
	KindIf:          "If",
	KindWhile:       "While",
	KindDo:          "Do",
	KindFor:         "For",
	KindForEach:     "ForEach",
	KindSwitch:      "Switch",
	KindCase:        "Case",
	KindBreak:       "Break",
	KindContinue:    "Continue",
	KindReturn:      "Return",
	KindThrow:       "Throw",
	KindTry:         "Try",
	KindCatch:       "Catch",
	KindLabeled:     "Labeled",
	KindSync:        "Sync",
	KindName:        "Name",
	KindLiteral:     "Literal",
	KindAssign:      "Assign",
	KindBinary:      "Binary",
	KindLogical:     "Logical",
	KindUnary:       "Unary",
	KindIncDec:      "IncDec",
	KindCall:        "Call",
	KindConditional: "Conditional",
	KindParen:       "Paren",
	KindField:       "Field",
	KindIndex:       "Index",
	KindNew:         "New",
	KindCast:        "Cast",
	KindTypeTest:    "TypeTest",
	KindOpaque:      "Opaque",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Construct is a node of the structured program tree.
type Construct interface {
	Kind() Kind
	// Children returns the sub-constructs in evaluation order. Absent optional
	// parts are omitted.
	Children() []Construct
	// Parent is the enclosing construct, or nil for routines and unlinked trees.
	Parent() Construct
	Span() Span
	// Text is the source text the construct was parsed from.
	Text() string
	String() string

	base() *Base
}

// Span locates a construct in its source file. Line and Col are 1-based.
type Span struct {
	File       string
	Start, End int
	Line, Col  int
}

func (s Span) IsValid() bool {
	return s.Line > 0
}

func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Base carries the data shared by all constructs. Frontends fill in Pos and Src;
// the parent link is established by Link.
type Base struct {
	Pos Span
	Src string

	parent Construct
}

func (b *Base) Parent() Construct { return b.parent }
func (b *Base) Span() Span        { return b.Pos }
func (b *Base) Text() string      { return b.Src }
func (b *Base) base() *Base       { return b }

// Summary renders the source text of a construct on a single line, collapsing
// whitespace and truncating long texts. Constructs without source text are
// rendered by kind.
func Summary(c Construct) string {
	const max = 40

	txt := strings.Join(strings.Fields(c.Text()), " ")
	if txt == "" {
		return ""
	}
	if utf8.RuneCountInString(txt) > max {
		runes := []rune(txt)
		txt = string(runes[:max-1]) + "…"
	}
	return txt
}

func describe(c Construct) string {
	if s := Summary(c); s != "" {
		return c.Kind().String() + " `" + s + "`"
	}
	return c.Kind().String()
}

// nonNil filters absent optional parts out of a child list.
func nonNil(cs ...Construct) []Construct {
	res := make([]Construct, 0, len(cs))
	for _, c := range cs {
		if c != nil && !isNilPointer(c) {
			res = append(res, c)
		}
	}
	return res
}

// isNilPointer catches typed nil pointers stored in Construct fields, e.g. a nil
// *Block assigned to an interface.
func isNilPointer(c Construct) bool {
	switch c := c.(type) {
	case *Block:
		return c == nil
	case *Param:
		return c == nil
	case *Catch:
		return c == nil
	case *Routine:
		return c == nil
	}
	return false
}

// IsAbsent reports whether an optional construct slot is empty.
func IsAbsent(c Construct) bool {
	return c == nil || isNilPointer(c)
}
