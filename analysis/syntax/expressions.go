package syntax

// Name is a reference to a local variable, parameter or other identifier.
type Name struct {
	Base
	Ident string
}

func (*Name) Kind() Kind            { return KindName }
func (*Name) Children() []Construct { return nil }
func (n *Name) String() string      { return describe(n) }

// LitKind classifies literals.
type LitKind int

const (
	LitOther LitKind = iota
	LitNull
	LitBool
	LitNumber
	LitString
)

type Literal struct {
	Base
	Lit   LitKind
	Value string
}

func (*Literal) Kind() Kind            { return KindLiteral }
func (*Literal) Children() []Construct { return nil }
func (l *Literal) String() string      { return describe(l) }
func (l *Literal) IsNull() bool        { return l.Lit == LitNull }

// Assign is a (possibly compound, possibly parallel) assignment. Op is "=" for
// plain assignments, ":=" for Go short variable declarations and the operator
// spelling otherwise ("+=", "<<=", ...).
type Assign struct {
	Base
	Op  string
	LHS []Construct
	RHS []Construct
}

func (*Assign) Kind() Kind { return KindAssign }
func (a *Assign) Children() []Construct {
	return append(nonNil(a.LHS...), nonNil(a.RHS...)...)
}
func (a *Assign) String() string { return describe(a) }

// IsPlain reports whether the assignment overwrites its targets without
// reading them.
func (a *Assign) IsPlain() bool {
	return a.Op == "=" || a.Op == ":="
}

// Binary is a strict binary operation. Short-circuiting operators are
// represented by Logical.
type Binary struct {
	Base
	Op   string
	X, Y Construct
}

func (*Binary) Kind() Kind              { return KindBinary }
func (b *Binary) Children() []Construct { return nonNil(b.X, b.Y) }
func (b *Binary) String() string        { return describe(b) }

// Logical is a short-circuiting && or ||.
type Logical struct {
	Base
	Op   string
	X, Y Construct
}

func (*Logical) Kind() Kind              { return KindLogical }
func (l *Logical) Children() []Construct { return nonNil(l.X, l.Y) }
func (l *Logical) String() string        { return describe(l) }
func (l *Logical) IsAnd() bool           { return l.Op == "&&" }

type Unary struct {
	Base
	Op string
	X  Construct
}

func (*Unary) Kind() Kind              { return KindUnary }
func (u *Unary) Children() []Construct { return nonNil(u.X) }
func (u *Unary) String() string        { return describe(u) }

// IsNot reports whether the operation is a boolean negation.
func (u *Unary) IsNot() bool { return u.Op == "!" }

// IncDec is ++ or --, prefix or postfix.
type IncDec struct {
	Base
	Op     string
	Prefix bool
	X      Construct
}

func (*IncDec) Kind() Kind              { return KindIncDec }
func (u *IncDec) Children() []Construct { return nonNil(u.X) }
func (u *IncDec) String() string        { return describe(u) }

// Call is a method or function call. Recv is absent for unqualified calls.
type Call struct {
	Base
	Recv   Construct
	Method string
	Args   []Construct
}

func (*Call) Kind() Kind { return KindCall }
func (c *Call) Children() []Construct {
	return append(nonNil(c.Recv), nonNil(c.Args...)...)
}
func (c *Call) String() string { return describe(c) }

// Conditional is the ternary c ? a : b.
type Conditional struct {
	Base
	Cond, Then, Else Construct
}

func (*Conditional) Kind() Kind              { return KindConditional }
func (c *Conditional) Children() []Construct { return nonNil(c.Cond, c.Then, c.Else) }
func (c *Conditional) String() string        { return describe(c) }

// Paren is a parenthesized expression. It is transparent for control flow.
type Paren struct {
	Base
	X Construct
}

func (*Paren) Kind() Kind              { return KindParen }
func (p *Paren) Children() []Construct { return nonNil(p.X) }
func (p *Paren) String() string        { return describe(p) }

// Field is a field (or qualified name) access X.Name.
type Field struct {
	Base
	X    Construct
	Name string
}

func (*Field) Kind() Kind              { return KindField }
func (f *Field) Children() []Construct { return nonNil(f.X) }
func (f *Field) String() string        { return describe(f) }

type Index struct {
	Base
	X, Index Construct
}

func (*Index) Kind() Kind              { return KindIndex }
func (i *Index) Children() []Construct { return nonNil(i.X, i.Index) }
func (i *Index) String() string        { return describe(i) }

// New is an object or array creation.
type New struct {
	Base
	Type string
	Args []Construct
}

func (*New) Kind() Kind              { return KindNew }
func (n *New) Children() []Construct { return nonNil(n.Args...) }
func (n *New) String() string        { return describe(n) }

type Cast struct {
	Base
	Type string
	X    Construct
}

func (*Cast) Kind() Kind              { return KindCast }
func (c *Cast) Children() []Construct { return nonNil(c.X) }
func (c *Cast) String() string        { return describe(c) }

// TypeTest is an instanceof check (or a Go type assertion used as a value).
type TypeTest struct {
	Base
	X    Construct
	Type string
}

func (*TypeTest) Kind() Kind              { return KindTypeTest }
func (t *TypeTest) Children() []Construct { return nonNil(t.X) }
func (t *TypeTest) String() string        { return describe(t) }

// Opaque stands for an expression the frontend does not model in detail
// (lambdas, method references, composite literals...). Its Parts are evaluated
// in order.
type Opaque struct {
	Base
	Parts []Construct
}

func (*Opaque) Kind() Kind              { return KindOpaque }
func (o *Opaque) Children() []Construct { return nonNil(o.Parts...) }
func (o *Opaque) String() string        { return describe(o) }

// Unparen strips any number of enclosing parentheses.
func Unparen(c Construct) Construct {
	for {
		p, ok := c.(*Paren)
		if !ok || IsAbsent(p.X) {
			return c
		}
		c = p.X
	}
}
