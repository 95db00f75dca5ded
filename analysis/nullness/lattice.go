package nullness

import (
	"strings"

	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Value func(...interface{}) string
	Const func(...interface{}) string
}{
	Value: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
	},
}

type state int8

const (
	isNull state = iota
	isNonNull
)

func (s state) String() string {
	if s == isNull {
		return "null"
	}
	return "non-null"
}

// Value is the nullness of a reference.
type Value struct {
	flat lattice.Flat[state]
}

var (
	Null      = Value{lattice.FlatValue(isNull)}
	NonNull   = Value{lattice.FlatValue(isNonNull)}
	MaybeNull = Value{lattice.FlatTop[state]()}
)

// ParseValue reads a value in the notation of String, ignoring case and
// dashes.
func ParseValue(s string) (Value, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "null":
		return Null, true
	case "nonnull":
		return NonNull, true
	case "maybenull":
		return MaybeNull, true
	}
	return Value{}, false
}

func (v Value) Copy() Value { return v }

func (v Value) Join(o Value) Value {
	return Value{v.flat.Join(o.flat)}
}

func (v Value) AtLeastAsPrecise(o Value) bool {
	return v.flat.AtLeastAsPrecise(o.flat)
}

// meet narrows v to s. It reports false when v excludes s.
func (v Value) meet(s state) (Value, bool) {
	switch {
	case v.flat.IsTop(), v.flat.IsBot():
		return Value{lattice.FlatValue(s)}, true
	case v.flat.Is(s):
		return v, true
	}
	return v, false
}

func (v Value) String() string {
	if s, ok := v.flat.Value(); ok {
		return colorize.Value(s.String())
	}
	if v.flat.IsTop() {
		return colorize.Value("maybe-null")
	}
	return v.flat.String()
}

// Env maps names to their nullness at a program point. The zero Env is the
// environment of unreachable points.
type Env struct {
	reachable bool
	vars      lattice.Map[Value]
}

// Unreachable is the bottom element.
func Unreachable() Env {
	return Env{}
}

// Reachable creates an environment where every name maybe null, except for
// the given ones.
func Reachable(nonNull ...string) Env {
	e := Env{true, lattice.MakeMap(MaybeNull)}
	for _, n := range nonNull {
		e = e.Set(n, NonNull)
	}
	return e
}

func (e Env) IsReachable() bool { return e.reachable }

// Get returns the nullness of a name. Names of unreachable environments are
// MaybeNull.
func (e Env) Get(name string) Value {
	if !e.reachable {
		return MaybeNull
	}
	v, _ := e.vars.Get(name)
	return v
}

func (e Env) Set(name string, v Value) Env {
	if !e.reachable {
		return e
	}
	e.vars = e.vars.Update(name, v)
	return e
}

// Refine narrows the nullness of name. Narrowing to a contradicting value
// makes the environment unreachable.
func (e Env) Refine(name string, to Value) Env {
	s, ok := to.flat.Value()
	if !e.reachable || !ok {
		return e
	}
	v, ok := e.Get(name).meet(s)
	if !ok {
		return Unreachable()
	}
	return e.Set(name, v)
}

// Names returns the names with an explicit binding, in sorted order.
func (e Env) Names() []string {
	if !e.reachable {
		return nil
	}
	return e.vars.Keys()
}

func (e Env) Copy() Env { return e }

func (e1 Env) Join(e2 Env) Env {
	switch {
	case !e1.reachable:
		return e2
	case !e2.reachable:
		return e1
	}
	return Env{true, e1.vars.Join(e2.vars)}
}

func (e1 Env) AtLeastAsPrecise(e2 Env) bool {
	switch {
	case !e1.reachable:
		return true
	case !e2.reachable:
		return false
	}
	return e1.vars.AtLeastAsPrecise(e2.vars)
}

func (e Env) String() string {
	if !e.reachable {
		return colorize.Const("unreachable")
	}
	return e.vars.String()
}
