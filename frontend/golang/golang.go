// Package golang converts Go source files to program trees. Every function and
// method with a body becomes a routine, named pkg.Func for functions and
// Type.Method for methods. Function literals are opaque values.
package golang

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/cs-au-dk/flow/analysis/syntax"

	"golang.org/x/tools/go/ast/inspector"
)

var (
	// ErrSyntax is reported for sources go/parser rejects.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is reported for statements without a control-flow model:
	// goto, select, go and defer.
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

type bailout struct {
	err *Error
}

type converter struct {
	fset *token.FileSet
	src  []byte
	path string
}

// Parse converts a Go source file. The routines of the unit are linked (see
// syntax.Link).
func Parse(src []byte, path string) (unit *syntax.Unit, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
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

	c := &converter{fset, src, path}
	unit = &syntax.Unit{Path: path, Source: src}

	in := inspector.New([]*ast.File{file})
	in.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		if r := c.routine(file.Name.Name, n.(*ast.FuncDecl)); r != nil {
			unit.Routines = append(unit.Routines, r)
		}
	})

	for _, r := range unit.Routines {
		syntax.Link(r)
	}
	return unit, nil
}

func (c *converter) unsupported(n ast.Node) {
	panic(bailout{&Error{Pos: c.span(n), Node: fmt.Sprintf("%T", n), Err: ErrUnsupported}})
}

func (c *converter) span(n ast.Node) syntax.Span {
	start, end := c.fset.Position(n.Pos()), c.fset.Position(n.End())
	return syntax.Span{
		File:  c.path,
		Start: start.Offset,
		End:   end.Offset,
		Line:  start.Line,
		Col:   start.Column,
	}
}

func (c *converter) base(n ast.Node) syntax.Base {
	s := c.span(n)
	return syntax.Base{Pos: s, Src: string(c.src[s.Start:s.End])}
}

func (c *converter) text(n ast.Node) string {
	s := c.span(n)
	return string(c.src[s.Start:s.End])
}

// receiverType names the type of a method receiver, without pointers and type
// parameters.
func receiverType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.StarExpr:
		return receiverType(e.X)
	case *ast.ParenExpr:
		return receiverType(e.X)
	case *ast.IndexExpr:
		return receiverType(e.X)
	case *ast.IndexListExpr:
		return receiverType(e.X)
	case *ast.Ident:
		return e.Name
	}
	return "?"
}

func (c *converter) routine(pkg string, fd *ast.FuncDecl) *syntax.Routine {
	if fd.Body == nil {
		return nil
	}

	name := pkg + "." + fd.Name.Name
	r := &syntax.Routine{Base: c.base(fd)}

	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		recv := fd.Recv.List[0]
		name = receiverType(recv.Type) + "." + fd.Name.Name
		r.Params = append(r.Params, c.params(recv)...)
	}
	for _, field := range fd.Type.Params.List {
		r.Params = append(r.Params, c.params(field)...)
	}

	r.Name = name
	r.Body = c.block(fd.Body)
	return r
}

func (c *converter) params(field *ast.Field) []*syntax.Param {
	var ps []*syntax.Param
	for _, id := range field.Names {
		if id.Name == "_" {
			continue
		}
		ps = append(ps, &syntax.Param{Base: c.base(field), Name: id.Name})
	}
	return ps
}
