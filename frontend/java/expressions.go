package java

import (
	"github.com/cs-au-dk/flow/analysis/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

var literals = map[string]syntax.LitKind{
	"decimal_integer_literal":        syntax.LitNumber,
	"hex_integer_literal":            syntax.LitNumber,
	"octal_integer_literal":          syntax.LitNumber,
	"binary_integer_literal":         syntax.LitNumber,
	"decimal_floating_point_literal": syntax.LitNumber,
	"hex_floating_point_literal":     syntax.LitNumber,
	"true":                           syntax.LitBool,
	"false":                          syntax.LitBool,
	"null_literal":                   syntax.LitNull,
	"string_literal":                 syntax.LitString,
	"text_block":                     syntax.LitString,
	"character_literal":              syntax.LitOther,
	"class_literal":                  syntax.LitOther,
}

func (c *converter) expr(n *sitter.Node) syntax.Construct {
	if n == nil {
		return nil
	}

	if lit, ok := literals[n.Type()]; ok {
		return &syntax.Literal{Base: c.base(n), Lit: lit, Value: c.text(n)}
	}

	switch n.Type() {
	case "parenthesized_expression":
		return &syntax.Paren{Base: c.base(n), X: c.expr(children(n)[0])}

	case "identifier", "this", "super":
		return &syntax.Name{Base: c.base(n), Ident: c.text(n)}

	case "assignment_expression":
		return &syntax.Assign{
			Base: c.base(n),
			Op:   c.text(n.ChildByFieldName("operator")),
			LHS:  []syntax.Construct{c.expr(n.ChildByFieldName("left"))},
			RHS:  []syntax.Construct{c.expr(n.ChildByFieldName("right"))},
		}

	case "binary_expression":
		op := c.text(n.ChildByFieldName("operator"))
		x, y := c.expr(n.ChildByFieldName("left")), c.expr(n.ChildByFieldName("right"))
		if op == "&&" || op == "||" {
			return &syntax.Logical{Base: c.base(n), Op: op, X: x, Y: y}
		}
		return &syntax.Binary{Base: c.base(n), Op: op, X: x, Y: y}

	case "unary_expression":
		return &syntax.Unary{
			Base: c.base(n),
			Op:   c.text(n.ChildByFieldName("operator")),
			X:    c.expr(n.ChildByFieldName("operand")),
		}

	case "update_expression":
		u := &syntax.IncDec{Base: c.base(n)}
		for i := 0; i < int(n.ChildCount()); i++ {
			ch := n.Child(i)
			if ch.IsNamed() {
				u.X = c.expr(ch)
				continue
			}
			u.Op = c.text(ch)
			u.Prefix = u.X == nil
		}
		return u

	case "method_invocation":
		call := &syntax.Call{
			Base:   c.base(n),
			Method: c.text(n.ChildByFieldName("name")),
			Args:   c.arguments(n.ChildByFieldName("arguments")),
		}
		if obj := n.ChildByFieldName("object"); obj != nil {
			call.Recv = c.expr(obj)
		}
		return call

	case "field_access":
		return &syntax.Field{
			Base: c.base(n),
			X:    c.expr(n.ChildByFieldName("object")),
			Name: c.text(n.ChildByFieldName("field")),
		}

	case "array_access":
		return &syntax.Index{
			Base:  c.base(n),
			X:     c.expr(n.ChildByFieldName("array")),
			Index: c.expr(n.ChildByFieldName("index")),
		}

	case "object_creation_expression":
		return &syntax.New{
			Base: c.base(n),
			Type: c.text(n.ChildByFieldName("type")),
			Args: c.arguments(n.ChildByFieldName("arguments")),
		}

	case "array_creation_expression":
		arr := &syntax.New{Base: c.base(n), Type: c.text(n.ChildByFieldName("type")) + "[]"}
		for _, ch := range children(n) {
			switch ch.Type() {
			case "dimensions_expr":
				for _, d := range children(ch) {
					arr.Args = append(arr.Args, c.expr(d))
				}
			case "array_initializer":
				arr.Args = append(arr.Args, c.expr(ch))
			}
		}
		return arr

	case "array_initializer":
		o := &syntax.Opaque{Base: c.base(n)}
		for _, ch := range children(n) {
			o.Parts = append(o.Parts, c.expr(ch))
		}
		return o

	case "cast_expression":
		return &syntax.Cast{
			Base: c.base(n),
			Type: c.text(n.ChildByFieldName("type")),
			X:    c.expr(n.ChildByFieldName("value")),
		}

	case "instanceof_expression":
		return &syntax.TypeTest{
			Base: c.base(n),
			X:    c.expr(n.ChildByFieldName("left")),
			Type: c.text(n.ChildByFieldName("right")),
		}

	case "ternary_expression":
		return &syntax.Conditional{
			Base: c.base(n),
			Cond: c.expr(n.ChildByFieldName("condition")),
			Then: c.expr(n.ChildByFieldName("consequence")),
			Else: c.expr(n.ChildByFieldName("alternative")),
		}

	case "switch_expression":
		// Switches yielding values.
		c.unsupported(n)
	}

	// Lambdas, method references and the like are evaluated without
	// observable control flow.
	return &syntax.Opaque{Base: c.base(n)}
}

func (c *converter) arguments(n *sitter.Node) []syntax.Construct {
	if n == nil {
		return nil
	}
	var args []syntax.Construct
	for _, ch := range children(n) {
		args = append(args, c.expr(ch))
	}
	return args
}
