// Package nullness tracks whether references may be null, refining the
// knowledge along the branches of null checks. Branches that a check makes
// impossible are unreachable, which DeadBranches reports.
package nullness

import (
	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/dataflow"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/syntax"

	"golang.org/x/exp/slices"
)

// Config holds the entry assumptions of the analysis.
type Config struct {
	// NonNullParams assumes every parameter to be non-null.
	NonNullParams bool
	// NonNull lists names assumed to be non-null on entry, including
	// parameters.
	NonNull []string
}

type transfer struct {
	conf Config
}

// New creates the transfer function of the analysis.
func New(conf Config) dataflow.Transfer[Env] {
	return transfer{conf}
}

// NewAnalysis creates an on-demand nullness analysis.
func NewAnalysis(conf Config, options ...dataflow.Option[Env]) *dataflow.Analysis[Env] {
	return dataflow.NewAnalysis(New(conf), options...)
}

func (transfer) Direction() dataflow.Direction { return dataflow.Forward }

func (t transfer) Lattice(*syntax.Routine) lattice.Lattice[Env] {
	return lattice.Of(Reachable(t.conf.NonNull...), Unreachable())
}

// eval approximates the nullness of the value of an expression, whose
// sub-expressions have been evaluated in env.
func eval(x syntax.Construct, env Env) Value {
	switch x := syntax.Unparen(x).(type) {
	case *syntax.Literal:
		if x.IsNull() {
			return Null
		}
		return NonNull
	case *syntax.Name:
		if x.Ident == "this" || x.Ident == "super" {
			return NonNull
		}
		return env.Get(x.Ident)
	case *syntax.Assign:
		if len(x.RHS) == 1 && x.IsPlain() {
			return eval(x.RHS[0], env)
		}
		return MaybeNull
	case *syntax.Cast:
		return eval(x.X, env)
	case *syntax.Conditional:
		return eval(x.Then, env).Join(eval(x.Else, env))
	case *syntax.New, *syntax.Binary, *syntax.Logical, *syntax.Unary,
		*syntax.IncDec, *syntax.TypeTest:
		return NonNull
	}
	return MaybeNull
}

// variable returns the name referenced by x, if any.
func variable(x syntax.Construct) (string, bool) {
	if name, ok := syntax.Unparen(x).(*syntax.Name); ok && name.Ident != "this" && name.Ident != "super" {
		return name.Ident, true
	}
	return "", false
}

// dereference records that evaluation continues only if x is not null.
func dereference(x syntax.Construct, env Env) Env {
	if v, ok := variable(x); ok {
		return env.Refine(v, NonNull)
	}
	return env
}

// nullCheck recognizes comparisons of a name against null.
func nullCheck(b *syntax.Binary) (string, bool) {
	if b.Op != "==" && b.Op != "!=" {
		return "", false
	}
	x, y := syntax.Unparen(b.X), syntax.Unparen(b.Y)
	if lit, ok := x.(*syntax.Literal); ok && lit.IsNull() {
		x, y = y, x
	}
	if lit, ok := y.(*syntax.Literal); !ok || !lit.IsNull() {
		return "", false
	}
	return variable(x)
}

func (t transfer) param(p *syntax.Param, env Env) Env {
	if _, ok := p.Parent().(*syntax.Catch); ok {
		return env.Set(p.Name, NonNull)
	}
	if t.conf.NonNullParams || slices.Contains(t.conf.NonNull, p.Name) {
		return env.Set(p.Name, NonNull)
	}
	return env.Set(p.Name, MaybeNull)
}

func (t transfer) Transfer(n *cfg.Node, in Env, label cfg.Label) dataflow.LabeledResult[Env] {
	if !in.IsReachable() {
		return dataflow.Uniform(in)
	}

	switch c := n.Construct().(type) {
	case *syntax.Param:
		return dataflow.Uniform(t.param(c, in))

	case *syntax.VarDecl:
		if syntax.IsAbsent(c.Init) {
			return dataflow.Uniform(in.Set(c.Name, MaybeNull))
		}
		return dataflow.Uniform(in.Set(c.Name, eval(c.Init, in)))

	case *syntax.Assign:
		out := in
		for i, l := range c.LHS {
			v, ok := variable(l)
			if !ok {
				// Writing to a field or element dereferences its container.
				switch l := syntax.Unparen(l).(type) {
				case *syntax.Field:
					out = dereference(l.X, out)
				case *syntax.Index:
					out = dereference(l.X, out)
				}
				continue
			}

			switch {
			case !c.IsPlain():
				out = out.Set(v, NonNull)
			case len(c.LHS) == len(c.RHS):
				out = out.Set(v, eval(c.RHS[i], in))
			default:
				out = out.Set(v, MaybeNull)
			}
		}
		return dataflow.Uniform(out)

	case *syntax.IncDec:
		if v, ok := variable(c.X); ok {
			return dataflow.Uniform(in.Set(v, NonNull))
		}

	case *syntax.ForEach:
		if n.Iteration() {
			out := dereference(c.Iterable, in)
			for _, v := range c.Vars {
				out = out.Set(v, MaybeNull)
			}
			return dataflow.Uniform(out)
		}

	case *syntax.Field:
		return dataflow.Uniform(dereference(c.X, in))
	case *syntax.Index:
		return dataflow.Uniform(dereference(c.X, in))
	case *syntax.Call:
		return dataflow.Uniform(dereference(c.Recv, in))
	case *syntax.Sync:
		return dataflow.Uniform(dereference(c.Lock, in))

	case *syntax.Binary:
		if v, ok := nullCheck(c); ok {
			eq, ne := in.Refine(v, Null), in.Refine(v, NonNull)
			if c.Op == "!=" {
				eq, ne = ne, eq
			}
			return dataflow.Branches(eq, ne)
		}

	case *syntax.TypeTest:
		if v, ok := variable(c.X); ok {
			return dataflow.Branches(in.Refine(v, NonNull), in)
		}

	case *syntax.Literal:
		if c.Lit == syntax.LitBool {
			if c.Value == "true" {
				return dataflow.Branches(in, Unreachable())
			}
			return dataflow.Branches(Unreachable(), in)
		}

	case *syntax.Unary:
		if c.IsNot() {
			return swap(in, label)
		}

	case *syntax.Logical:
		return forward(in, label)
	}

	return dataflow.Uniform(in)
}

// swap negates the outcome of the condition a value arrived from.
func swap(in Env, label cfg.Label) dataflow.LabeledResult[Env] {
	switch label {
	case cfg.True:
		return dataflow.Branches(Unreachable(), in)
	case cfg.False:
		return dataflow.Branches(in, Unreachable())
	}
	return dataflow.Uniform(in)
}

// forward keeps the outcome of the condition a value arrived from.
func forward(in Env, label cfg.Label) dataflow.LabeledResult[Env] {
	switch label {
	case cfg.True:
		return dataflow.Branches(in, Unreachable())
	case cfg.False:
		return dataflow.Branches(Unreachable(), in)
	}
	return dataflow.Uniform(in)
}
