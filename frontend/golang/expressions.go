package golang

import (
	"go/ast"
	"go/token"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

func (c *converter) expr(e ast.Expr) syntax.Construct {
	if e == nil {
		return nil
	}

	switch e := e.(type) {
	case *ast.Ident:
		switch e.Name {
		case "nil":
			return &syntax.Literal{Base: c.base(e), Lit: syntax.LitNull, Value: e.Name}
		case "true", "false":
			return &syntax.Literal{Base: c.base(e), Lit: syntax.LitBool, Value: e.Name}
		}
		return &syntax.Name{Base: c.base(e), Ident: e.Name}

	case *ast.BasicLit:
		lit := syntax.LitOther
		switch e.Kind {
		case token.INT, token.FLOAT, token.IMAG:
			lit = syntax.LitNumber
		case token.STRING:
			lit = syntax.LitString
		}
		return &syntax.Literal{Base: c.base(e), Lit: lit, Value: e.Value}

	case *ast.ParenExpr:
		return &syntax.Paren{Base: c.base(e), X: c.expr(e.X)}

	case *ast.BinaryExpr:
		x, y := c.expr(e.X), c.expr(e.Y)
		if e.Op == token.LAND || e.Op == token.LOR {
			return &syntax.Logical{Base: c.base(e), Op: e.Op.String(), X: x, Y: y}
		}
		return &syntax.Binary{Base: c.base(e), Op: e.Op.String(), X: x, Y: y}

	case *ast.UnaryExpr:
		if e.Op == token.AND {
			if cl, ok := e.X.(*ast.CompositeLit); ok {
				// &T{...} allocates.
				return c.composite(e, cl)
			}
		}
		return &syntax.Unary{Base: c.base(e), Op: e.Op.String(), X: c.expr(e.X)}

	case *ast.StarExpr:
		return &syntax.Unary{Base: c.base(e), Op: "*", X: c.expr(e.X)}

	case *ast.CallExpr:
		call := &syntax.Call{Base: c.base(e)}
		switch fun := e.Fun.(type) {
		case *ast.SelectorExpr:
			call.Recv, call.Method = c.expr(fun.X), fun.Sel.Name
		case *ast.Ident:
			call.Method = fun.Name
		default:
			call.Recv = c.expr(fun)
		}
		for _, a := range e.Args {
			call.Args = append(call.Args, c.expr(a))
		}
		return call

	case *ast.SelectorExpr:
		return &syntax.Field{Base: c.base(e), X: c.expr(e.X), Name: e.Sel.Name}

	case *ast.IndexExpr:
		return &syntax.Index{Base: c.base(e), X: c.expr(e.X), Index: c.expr(e.Index)}

	case *ast.SliceExpr:
		return &syntax.Opaque{
			Base:  c.base(e),
			Parts: []syntax.Construct{c.expr(e.X), c.expr(e.Low), c.expr(e.High), c.expr(e.Max)},
		}

	case *ast.TypeAssertExpr:
		typ := "type"
		if e.Type != nil {
			typ = c.text(e.Type)
		}
		return &syntax.TypeTest{Base: c.base(e), X: c.expr(e.X), Type: typ}

	case *ast.CompositeLit:
		return c.composite(e, e)

	case *ast.KeyValueExpr:
		return c.expr(e.Value)
	}

	// Function literals and types evaluate without observable control flow.
	return &syntax.Opaque{Base: c.base(e)}
}

func (c *converter) composite(e ast.Expr, cl *ast.CompositeLit) *syntax.New {
	n := &syntax.New{Base: c.base(e)}
	if cl.Type != nil {
		n.Type = c.text(cl.Type)
	}
	for _, elt := range cl.Elts {
		n.Args = append(n.Args, c.expr(elt))
	}
	return n
}
