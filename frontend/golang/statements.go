package golang

import (
	"go/ast"
	"go/token"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

func (c *converter) block(b *ast.BlockStmt) *syntax.Block {
	res := &syntax.Block{Base: c.base(b)}
	res.Stmts = c.list(b.List)
	return res
}

func (c *converter) list(stmts []ast.Stmt) []syntax.Construct {
	var res []syntax.Construct
	for _, s := range stmts {
		res = append(res, c.statements(s)...)
	}
	return res
}

// stmt converts a statement in a position admitting exactly one.
func (c *converter) stmt(s ast.Stmt) syntax.Construct {
	if s == nil {
		return nil
	}
	stmts := c.statements(s)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &syntax.Block{Base: c.base(s), Stmts: stmts}
}

// withInit prepends the init statement of if and switch statements.
func (c *converter) withInit(s ast.Stmt, init ast.Stmt, main syntax.Construct) []syntax.Construct {
	if init == nil {
		return []syntax.Construct{main}
	}
	return []syntax.Construct{&syntax.Block{
		Base:  c.base(s),
		Stmts: append(c.statements(init), main),
	}}
}

func (c *converter) statements(s ast.Stmt) []syntax.Construct {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return []syntax.Construct{c.block(s)}

	case *ast.EmptyStmt:
		return []syntax.Construct{&syntax.Empty{Base: c.base(s)}}

	case *ast.ExprStmt:
		if call, ok := s.X.(*ast.CallExpr); ok {
			if id, ok := call.Fun.(*ast.Ident); ok && id.Name == "panic" && len(call.Args) == 1 {
				return []syntax.Construct{&syntax.Throw{Base: c.base(s), X: c.expr(call.Args[0])}}
			}
		}
		return []syntax.Construct{&syntax.ExprStmt{Base: c.base(s), X: c.expr(s.X)}}

	case *ast.AssignStmt:
		return []syntax.Construct{&syntax.ExprStmt{Base: c.base(s), X: c.assign(s)}}

	case *ast.IncDecStmt:
		return []syntax.Construct{&syntax.ExprStmt{
			Base: c.base(s),
			X:    &syntax.IncDec{Base: c.base(s), Op: s.Tok.String(), X: c.expr(s.X)},
		}}

	case *ast.SendStmt:
		return []syntax.Construct{&syntax.ExprStmt{
			Base: c.base(s),
			X:    &syntax.Opaque{Base: c.base(s), Parts: []syntax.Construct{c.expr(s.Chan), c.expr(s.Value)}},
		}}

	case *ast.DeclStmt:
		return c.declaration(s.Decl.(*ast.GenDecl))

	case *ast.IfStmt:
		i := &syntax.If{
			Base: c.base(s),
			Cond: c.expr(s.Cond),
			Then: c.block(s.Body),
		}
		if s.Else != nil {
			i.Else = c.stmt(s.Else)
		}
		return c.withInit(s, s.Init, i)

	case *ast.ForStmt:
		f := &syntax.For{Base: c.base(s), Body: c.block(s.Body)}
		if s.Init != nil {
			f.Init = c.statements(s.Init)
		}
		if s.Cond != nil {
			f.Cond = c.expr(s.Cond)
		}
		if s.Post != nil {
			f.Update = c.statements(s.Post)
		}
		return []syntax.Construct{f}

	case *ast.RangeStmt:
		f := &syntax.ForEach{Base: c.base(s), Iterable: c.expr(s.X), Body: c.block(s.Body)}
		for _, v := range []ast.Expr{s.Key, s.Value} {
			if id, ok := v.(*ast.Ident); ok && id.Name != "_" {
				f.Vars = append(f.Vars, id.Name)
			}
		}
		return []syntax.Construct{f}

	case *ast.SwitchStmt:
		sw := &syntax.Switch{Base: c.base(s)}
		if s.Tag != nil {
			sw.Selector = c.expr(s.Tag)
		} else {
			// A tagless switch compares against true.
			sw.Selector = &syntax.Literal{
				Base:  syntax.Base{Pos: c.span(s), Src: "true"},
				Lit:   syntax.LitBool,
				Value: "true",
			}
		}
		sw.Body = c.clauses(s.Body, true)
		return c.withInit(s, s.Init, sw)

	case *ast.TypeSwitchStmt:
		sw := &syntax.Switch{Base: c.base(s), Body: c.clauses(s.Body, false)}
		switch a := s.Assign.(type) {
		case *ast.AssignStmt:
			sw.Selector = c.assign(a)
		case *ast.ExprStmt:
			sw.Selector = c.expr(a.X)
		}
		return c.withInit(s, s.Init, sw)

	case *ast.BranchStmt:
		var label string
		if s.Label != nil {
			label = s.Label.Name
		}
		switch s.Tok {
		case token.BREAK:
			return []syntax.Construct{&syntax.Break{Base: c.base(s), Label: label}}
		case token.CONTINUE:
			return []syntax.Construct{&syntax.Continue{Base: c.base(s), Label: label}}
		}
		// goto, and fallthrough outside of the end of a case clause.
		c.unsupported(s)

	case *ast.ReturnStmt:
		r := &syntax.Return{Base: c.base(s)}
		for _, x := range s.Results {
			r.Results = append(r.Results, c.expr(x))
		}
		return []syntax.Construct{r}

	case *ast.LabeledStmt:
		return []syntax.Construct{&syntax.Labeled{
			Base:  c.base(s),
			Label: s.Label.Name,
			Stmt:  c.stmt(s.Stmt),
		}}

	case *ast.GoStmt, *ast.DeferStmt, *ast.SelectStmt:
		c.unsupported(s)
	}

	c.unsupported(s)
	return nil
}

func (c *converter) assign(s *ast.AssignStmt) *syntax.Assign {
	a := &syntax.Assign{Base: c.base(s), Op: s.Tok.String()}
	for _, l := range s.Lhs {
		a.LHS = append(a.LHS, c.expr(l))
	}
	for _, r := range s.Rhs {
		a.RHS = append(a.RHS, c.expr(r))
	}
	return a
}

// declaration converts var declarations to one declaration per name.
// Constant and type declarations have no effect on control flow.
func (c *converter) declaration(d *ast.GenDecl) []syntax.Construct {
	if d.Tok != token.VAR {
		return []syntax.Construct{&syntax.Empty{Base: c.base(d)}}
	}

	var res []syntax.Construct
	for _, spec := range d.Specs {
		vs := spec.(*ast.ValueSpec)
		for i, id := range vs.Names {
			v := &syntax.VarDecl{Base: c.base(vs), Name: id.Name}
			switch {
			case len(vs.Values) == len(vs.Names):
				v.Init = c.expr(vs.Values[i])
			case len(vs.Values) == 1 && i == 0:
				// Multi-valued initializer.
				v.Init = c.expr(vs.Values[0])
			}
			res = append(res, v)
		}
	}
	return res
}

// clauses flattens case clauses into case markers and statements. Clauses end
// in an implicit break, unless they fall through.
func (c *converter) clauses(body *ast.BlockStmt, values bool) []syntax.Construct {
	var res []syntax.Construct
	for _, s := range body.List {
		cc := s.(*ast.CaseClause)

		cs := &syntax.Case{Base: c.base(cc), Default: cc.List == nil}
		if values {
			for _, v := range cc.List {
				cs.Values = append(cs.Values, c.expr(v))
			}
		}
		res = append(res, cs)

		stmts := cc.Body
		fallsThrough := false
		if n := len(stmts); n > 0 {
			if br, ok := stmts[n-1].(*ast.BranchStmt); ok && br.Tok == token.FALLTHROUGH {
				stmts, fallsThrough = stmts[:n-1], true
			}
		}
		res = append(res, c.list(stmts)...)

		if !fallsThrough {
			res = append(res, &syntax.Break{
				Base:     syntax.Base{Pos: c.span(cc)},
				Implicit: true,
			})
		}
	}
	return res
}
