package cfg

import (
	"strings"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

// Helpers for assembling routines by hand. Source texts are derived from the
// children, Java style.

type C = syntax.Construct

func base(src string) syntax.Base {
	return syntax.Base{Src: src}
}

func texts(cs []C, sep string) string {
	strs := make([]string, 0, len(cs))
	for _, c := range cs {
		strs = append(strs, c.Text())
	}
	return strings.Join(strs, sep)
}

func name(id string) *syntax.Name {
	return &syntax.Name{Base: base(id), Ident: id}
}

func num(v string) *syntax.Literal {
	return &syntax.Literal{Base: base(v), Lit: syntax.LitNumber, Value: v}
}

func boolean(v string) *syntax.Literal {
	return &syntax.Literal{Base: base(v), Lit: syntax.LitBool, Value: v}
}

func null() *syntax.Literal {
	return &syntax.Literal{Base: base("null"), Lit: syntax.LitNull, Value: "null"}
}

func paren(x C) *syntax.Paren {
	return &syntax.Paren{Base: base("(" + x.Text() + ")"), X: x}
}

func assign(op string, l, r C) *syntax.Assign {
	return &syntax.Assign{Base: base(l.Text() + " " + op + " " + r.Text()), Op: op, LHS: []C{l}, RHS: []C{r}}
}

func bin(op string, x, y C) *syntax.Binary {
	return &syntax.Binary{Base: base(x.Text() + " " + op + " " + y.Text()), Op: op, X: x, Y: y}
}

func and(x, y C) *syntax.Logical {
	return &syntax.Logical{Base: base(x.Text() + " && " + y.Text()), Op: "&&", X: x, Y: y}
}

func or(x, y C) *syntax.Logical {
	return &syntax.Logical{Base: base(x.Text() + " || " + y.Text()), Op: "||", X: x, Y: y}
}

func not(x C) *syntax.Unary {
	return &syntax.Unary{Base: base("!" + x.Text()), Op: "!", X: x}
}

func incdec(op string, x C) *syntax.IncDec {
	return &syntax.IncDec{Base: base(x.Text() + op), Op: op, X: x}
}

func call(method string, args ...C) *syntax.Call {
	return &syntax.Call{Base: base(method + "(" + texts(args, ", ") + ")"), Method: method, Args: args}
}

func stmt(x C) *syntax.ExprStmt {
	return &syntax.ExprStmt{Base: base(x.Text() + ";"), X: x}
}

func decl(n string, init C) *syntax.VarDecl {
	src := "int " + n
	if init != nil {
		src += " = " + init.Text()
	}
	return &syntax.VarDecl{Base: base(src + ";"), Name: n, Init: init}
}

func block(stmts ...C) *syntax.Block {
	if len(stmts) == 0 {
		return &syntax.Block{Base: base("{}")}
	}
	return &syntax.Block{Base: base("{ " + texts(stmts, " ") + " }"), Stmts: stmts}
}

func empty() *syntax.Empty {
	return &syntax.Empty{Base: base(";")}
}

func ifs(cond, then, els C) *syntax.If {
	src := "if (" + cond.Text() + ") " + then.Text()
	if els != nil {
		src += " else " + els.Text()
		return &syntax.If{Base: base(src), Cond: paren(cond), Then: then, Else: els}
	}
	return &syntax.If{Base: base(src), Cond: paren(cond), Then: then}
}

func while(cond, body C) *syntax.While {
	return &syntax.While{Base: base("while (" + cond.Text() + ") " + body.Text()), Cond: paren(cond), Body: body}
}

func do(body, cond C) *syntax.Do {
	return &syntax.Do{Base: base("do " + body.Text() + " while (" + cond.Text() + ");"), Body: body, Cond: paren(cond)}
}

func forLoop(init, cond, update, body C) *syntax.For {
	f := &syntax.For{Body: body}
	src := "for ("
	if init != nil {
		f.Init = []C{init}
		src += init.Text()
	}
	src += "; "
	if cond != nil {
		f.Cond = cond
		src += cond.Text()
	}
	src += "; "
	if update != nil {
		f.Update = []C{update}
		src += update.Text()
	}
	f.Base = base(src + ") " + body.Text())
	return f
}

func forEach(v string, iterable, body C) *syntax.ForEach {
	return &syntax.ForEach{
		Base:     base("for (int " + v + " : " + iterable.Text() + ") " + body.Text()),
		Vars:     []string{v},
		Iterable: iterable,
		Body:     body,
	}
}

func caseOf(v string) *syntax.Case {
	return &syntax.Case{Base: base("case " + v + ":"), Values: []C{num(v)}}
}

func defaultCase() *syntax.Case {
	return &syntax.Case{Base: base("default:"), Default: true}
}

func switchOf(sel C, body ...C) *syntax.Switch {
	return &syntax.Switch{Base: base("switch (" + sel.Text() + ") { " + texts(body, " ") + " }"), Selector: paren(sel), Body: body}
}

func brk(label string) *syntax.Break {
	if label == "" {
		return &syntax.Break{Base: base("break;")}
	}
	return &syntax.Break{Base: base("break " + label + ";"), Label: label}
}

func cont(label string) *syntax.Continue {
	if label == "" {
		return &syntax.Continue{Base: base("continue;")}
	}
	return &syntax.Continue{Base: base("continue " + label + ";"), Label: label}
}

func ret(x C) *syntax.Return {
	if x == nil {
		return &syntax.Return{Base: base("return;")}
	}
	return &syntax.Return{Base: base("return " + x.Text() + ";"), Results: []C{x}}
}

func throw(x C) *syntax.Throw {
	return &syntax.Throw{Base: base("throw " + x.Text() + ";"), X: x}
}

func labeled(label string, s C) *syntax.Labeled {
	return &syntax.Labeled{Base: base(label + ": " + s.Text()), Label: label, Stmt: s}
}

func catch(param string, body *syntax.Block) *syntax.Catch {
	return &syntax.Catch{
		Base:  base("catch (Exception " + param + ") " + body.Text()),
		Param: &syntax.Param{Base: base("Exception " + param), Name: param},
		Body:  body,
	}
}

func try(body *syntax.Block, finally *syntax.Block, catches ...*syntax.Catch) *syntax.Try {
	src := "try " + body.Text()
	for _, c := range catches {
		src += " " + c.Text()
	}
	if finally != nil {
		src += " finally " + finally.Text()
	}
	return &syntax.Try{Base: base(src), Body: body, Catches: catches, Finally: finally}
}

func routine(params []string, stmts ...C) *syntax.Routine {
	r := &syntax.Routine{Name: "T.m", Body: block(stmts...)}
	for _, p := range params {
		r.Params = append(r.Params, &syntax.Param{Base: base("int " + p), Name: p})
	}
	return r
}
