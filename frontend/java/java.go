// Package java converts Java source files to program trees, using the
// tree-sitter Java grammar. Every method and constructor with a body becomes a
// routine named after its enclosing classes, e.g. Outer.Inner.method.
// Constructors are named <init>.
package java

import (
	"context"
	"errors"
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"

	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"
)

var (
	// ErrSyntax is reported for sources tree-sitter could not parse cleanly.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is reported for statements without a control-flow model,
	// such as local class declarations or yield.
	ErrUnsupported = errors.New("unsupported construct")
)

// Error locates a conversion failure.
type Error struct {
	Pos  syntax.Span
	Node string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Pos, e.Err, e.Node)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// bailout carries a conversion failure to Parse.
type bailout struct {
	err *Error
}

type converter struct {
	src  []byte
	path string
}

// Parse converts a Java compilation unit. The routines of the unit are linked
// (see syntax.Link).
func Parse(ctx context.Context, src []byte, path string) (unit *syntax.Unit, err error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsjava.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	c := &converter{src, path}
	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		if bad == nil {
			bad = root
		}
		return nil, &Error{Pos: c.span(bad), Node: c.text(bad), Err: ErrSyntax}
	}

	defer func() {
		if p := recover(); p != nil {
			bo, ok := p.(bailout)
			if !ok {
				panic(p)
			}
			unit, err = nil, bo.err
		}
	}()

	unit = &syntax.Unit{Path: path, Source: src}
	c.declarations(root, "", unit)
	for _, r := range unit.Routines {
		syntax.Link(r)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return unit, nil
}

// firstError finds the first erroneous or missing node in pre-order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func (c *converter) unsupported(n *sitter.Node) {
	panic(bailout{&Error{Pos: c.span(n), Node: n.Type(), Err: ErrUnsupported}})
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	return syntax.Span{
		File:  c.path,
		Start: int(n.StartByte()),
		End:   int(n.EndByte()),
		Line:  int(n.StartPoint().Row) + 1,
		Col:   int(n.StartPoint().Column) + 1,
	}
}

func (c *converter) base(n *sitter.Node) syntax.Base {
	return syntax.Base{Pos: c.span(n), Src: c.text(n)}
}

// children returns the named children of n, skipping comments.
func children(n *sitter.Node) []*sitter.Node {
	var res []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "line_comment", "block_comment", "comment":
			continue
		}
		res = append(res, ch)
	}
	return res
}

// fields returns the children of n stored under the given field name.
func fields(n *sitter.Node, name string) []*sitter.Node {
	var res []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == name {
			res = append(res, n.Child(i))
		}
	}
	return res
}

func qualify(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + "." + name
}

func (c *converter) declarations(n *sitter.Node, outer string, unit *syntax.Unit) {
	for _, ch := range children(n) {
		switch ch.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration":
			name := qualify(outer, c.text(ch.ChildByFieldName("name")))
			if body := ch.ChildByFieldName("body"); body != nil {
				c.declarations(body, name, unit)
			}

		case "enum_body_declarations":
			c.declarations(ch, outer, unit)

		case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
			if r := c.routine(ch, outer); r != nil {
				unit.Routines = append(unit.Routines, r)
			}
		}
	}
}

func (c *converter) routine(n *sitter.Node, outer string) *syntax.Routine {
	body := n.ChildByFieldName("body")
	if body == nil {
		// Abstract and interface methods.
		return nil
	}

	name := c.text(n.ChildByFieldName("name"))
	if n.Type() != "method_declaration" {
		name = "<init>"
	}

	r := &syntax.Routine{Base: c.base(n), Name: qualify(outer, name)}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for _, p := range children(params) {
			switch p.Type() {
			case "formal_parameter":
				r.Params = append(r.Params, &syntax.Param{
					Base: c.base(p),
					Name: c.text(p.ChildByFieldName("name")),
				})
			case "spread_parameter":
				for _, d := range children(p) {
					if d.Type() == "variable_declarator" {
						r.Params = append(r.Params, &syntax.Param{
							Base: c.base(p),
							Name: c.text(d.ChildByFieldName("name")),
						})
					}
				}
			}
		}
	}

	r.Body = c.block(body)
	return r
}
