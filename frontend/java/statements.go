package java

import (
	"strings"

	"github.com/cs-au-dk/flow/analysis/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

func (c *converter) block(n *sitter.Node) *syntax.Block {
	b := &syntax.Block{Base: c.base(n)}
	for _, ch := range children(n) {
		b.Stmts = append(b.Stmts, c.statements(ch)...)
	}
	return b
}

// stmt converts a statement in a position admitting exactly one.
func (c *converter) stmt(n *sitter.Node) syntax.Construct {
	if n == nil {
		return nil
	}
	stmts := c.statements(n)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &syntax.Block{Base: c.base(n), Stmts: stmts}
}

// statements converts one statement. Declarations of several variables yield
// one declaration per variable.
func (c *converter) statements(n *sitter.Node) []syntax.Construct {
	switch n.Type() {
	case ";":
		return []syntax.Construct{&syntax.Empty{Base: c.base(n)}}

	case "block", "constructor_body":
		return []syntax.Construct{c.block(n)}

	case "local_variable_declaration":
		return c.declaration(n)

	case "expression_statement":
		return []syntax.Construct{&syntax.ExprStmt{
			Base: c.base(n),
			X:    c.expr(children(n)[0]),
		}}

	case "explicit_constructor_invocation":
		call := &syntax.Call{Base: c.base(n), Method: c.text(n.ChildByFieldName("constructor"))}
		if obj := n.ChildByFieldName("object"); obj != nil {
			call.Recv = c.expr(obj)
		}
		call.Args = c.arguments(n.ChildByFieldName("arguments"))
		return []syntax.Construct{&syntax.ExprStmt{Base: c.base(n), X: call}}

	case "assert_statement":
		o := &syntax.Opaque{Base: c.base(n)}
		for _, ch := range children(n) {
			o.Parts = append(o.Parts, c.expr(ch))
		}
		return []syntax.Construct{&syntax.ExprStmt{Base: c.base(n), X: o}}

	case "if_statement":
		s := &syntax.If{
			Base: c.base(n),
			Cond: c.expr(n.ChildByFieldName("condition")),
			Then: c.stmt(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			s.Else = c.stmt(alt)
		}
		return []syntax.Construct{s}

	case "while_statement":
		return []syntax.Construct{&syntax.While{
			Base: c.base(n),
			Cond: c.expr(n.ChildByFieldName("condition")),
			Body: c.stmt(n.ChildByFieldName("body")),
		}}

	case "do_statement":
		return []syntax.Construct{&syntax.Do{
			Base: c.base(n),
			Body: c.stmt(n.ChildByFieldName("body")),
			Cond: c.expr(n.ChildByFieldName("condition")),
		}}

	case "for_statement":
		return []syntax.Construct{c.forStmt(n)}

	case "enhanced_for_statement":
		return []syntax.Construct{&syntax.ForEach{
			Base:     c.base(n),
			Vars:     []string{c.text(n.ChildByFieldName("name"))},
			Iterable: c.expr(n.ChildByFieldName("value")),
			Body:     c.stmt(n.ChildByFieldName("body")),
		}}

	case "switch_statement", "switch_expression":
		return []syntax.Construct{c.switchStmt(n)}

	case "break_statement":
		return []syntax.Construct{&syntax.Break{Base: c.base(n), Label: c.label(n)}}

	case "continue_statement":
		return []syntax.Construct{&syntax.Continue{Base: c.base(n), Label: c.label(n)}}

	case "return_statement":
		r := &syntax.Return{Base: c.base(n)}
		for _, ch := range children(n) {
			r.Results = append(r.Results, c.expr(ch))
		}
		return []syntax.Construct{r}

	case "throw_statement":
		return []syntax.Construct{&syntax.Throw{Base: c.base(n), X: c.expr(children(n)[0])}}

	case "try_statement", "try_with_resources_statement":
		return []syntax.Construct{c.tryStmt(n)}

	case "labeled_statement":
		chs := children(n)
		return []syntax.Construct{&syntax.Labeled{
			Base:  c.base(n),
			Label: c.text(chs[0]),
			Stmt:  c.stmt(chs[len(chs)-1]),
		}}

	case "synchronized_statement":
		s := &syntax.Sync{Base: c.base(n), Body: c.block(n.ChildByFieldName("body"))}
		for _, ch := range children(n) {
			if ch.Type() == "parenthesized_expression" {
				s.Lock = c.expr(ch)
			}
		}
		return []syntax.Construct{s}
	}

	c.unsupported(n)
	return nil
}

// label returns the target label of a break or continue statement.
func (c *converter) label(n *sitter.Node) string {
	for _, ch := range children(n) {
		if ch.Type() == "identifier" {
			return c.text(ch)
		}
	}
	return ""
}

func (c *converter) declaration(n *sitter.Node) []syntax.Construct {
	decls := fields(n, "declarator")
	res := make([]syntax.Construct, 0, len(decls))
	for _, d := range decls {
		v := &syntax.VarDecl{Base: c.base(d), Name: c.text(d.ChildByFieldName("name"))}
		if len(decls) == 1 {
			v.Base = c.base(n)
		}
		if init := d.ChildByFieldName("value"); init != nil {
			v.Init = c.expr(init)
		}
		res = append(res, v)
	}
	return res
}

func (c *converter) forStmt(n *sitter.Node) *syntax.For {
	s := &syntax.For{Base: c.base(n), Body: c.stmt(n.ChildByFieldName("body"))}
	for _, i := range fields(n, "init") {
		if i.Type() == "local_variable_declaration" {
			s.Init = append(s.Init, c.declaration(i)...)
		} else {
			s.Init = append(s.Init, c.expr(i))
		}
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		s.Cond = c.expr(cond)
	}
	for _, u := range fields(n, "update") {
		s.Update = append(s.Update, c.expr(u))
	}
	return s
}

// switchStmt flattens the switch block into case markers and statements.
// Rules of the arrow form do not fall through, and end in an implicit break.
func (c *converter) switchStmt(n *sitter.Node) *syntax.Switch {
	s := &syntax.Switch{Base: c.base(n), Selector: c.expr(n.ChildByFieldName("condition"))}

	body := n.ChildByFieldName("body")
	if body == nil {
		return s
	}

	for _, item := range children(body) {
		switch item.Type() {
		case "switch_label":
			s.Body = append(s.Body, c.caseLabel(item))

		case "switch_block_statement_group":
			for _, ch := range children(item) {
				if ch.Type() == "switch_label" {
					s.Body = append(s.Body, c.caseLabel(ch))
				} else {
					s.Body = append(s.Body, c.statements(ch)...)
				}
			}

		case "switch_rule":
			for _, ch := range children(item) {
				switch ch.Type() {
				case "switch_label":
					s.Body = append(s.Body, c.caseLabel(ch))
				case "expression_statement", "block", "throw_statement":
					s.Body = append(s.Body, c.statements(ch)...)
				default:
					s.Body = append(s.Body, &syntax.ExprStmt{Base: c.base(ch), X: c.expr(ch)})
				}
			}
			s.Body = append(s.Body, &syntax.Break{Base: c.base(item), Implicit: true})

		default:
			s.Body = append(s.Body, c.statements(item)...)
		}
	}
	return s
}

func (c *converter) caseLabel(n *sitter.Node) *syntax.Case {
	cs := &syntax.Case{Base: c.base(n)}
	if strings.HasPrefix(c.text(n), "default") {
		cs.Default = true
		return cs
	}
	for _, v := range children(n) {
		cs.Values = append(cs.Values, c.expr(v))
	}
	return cs
}

func (c *converter) tryStmt(n *sitter.Node) *syntax.Try {
	t := &syntax.Try{Base: c.base(n), Body: c.block(n.ChildByFieldName("body"))}

	if res := n.ChildByFieldName("resources"); res != nil {
		for _, r := range children(res) {
			if r.Type() != "resource" {
				continue
			}
			if name := r.ChildByFieldName("name"); name != nil {
				t.Resources = append(t.Resources, &syntax.VarDecl{
					Base: c.base(r),
					Name: c.text(name),
					Init: c.expr(r.ChildByFieldName("value")),
				})
			} else {
				t.Resources = append(t.Resources, c.expr(children(r)[0]))
			}
		}
	}

	for _, ch := range children(n) {
		switch ch.Type() {
		case "catch_clause":
			catch := &syntax.Catch{Base: c.base(ch), Body: c.block(ch.ChildByFieldName("body"))}
			for _, p := range children(ch) {
				if p.Type() == "catch_formal_parameter" {
					catch.Param = &syntax.Param{Base: c.base(p), Name: c.text(p.ChildByFieldName("name"))}
				}
			}
			t.Catches = append(t.Catches, catch)

		case "finally_clause":
			for _, b := range children(ch) {
				if b.Type() == "block" {
					t.Finally = c.block(b)
				}
			}
		}
	}
	return t
}
