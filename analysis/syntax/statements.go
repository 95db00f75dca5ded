package syntax

// Routine is a method, constructor or function body: the unit of analysis.
type Routine struct {
	Base
	Name   string
	Params []*Param
	Body   *Block
}

func (*Routine) Kind() Kind { return KindRoutine }
func (r *Routine) Children() []Construct {
	cs := make([]Construct, 0, len(r.Params)+1)
	for _, p := range r.Params {
		cs = append(cs, p)
	}
	return append(cs, nonNil(r.Body)...)
}
func (r *Routine) String() string { return "routine " + r.Name }

// Param declares a routine parameter or a catch clause variable.
type Param struct {
	Base
	Name string
}

func (*Param) Kind() Kind            { return KindParam }
func (*Param) Children() []Construct { return nil }
func (p *Param) String() string      { return describe(p) }

type Block struct {
	Base
	Stmts []Construct
}

func (*Block) Kind() Kind              { return KindBlock }
func (b *Block) Children() []Construct { return nonNil(b.Stmts...) }
func (b *Block) String() string        { return describe(b) }

// Empty is the empty statement.
type Empty struct {
	Base
}

func (*Empty) Kind() Kind            { return KindEmpty }
func (*Empty) Children() []Construct { return nil }
func (e *Empty) String() string      { return describe(e) }

type ExprStmt struct {
	Base
	X Construct
}

func (*ExprStmt) Kind() Kind              { return KindExprStmt }
func (s *ExprStmt) Children() []Construct { return nonNil(s.X) }
func (s *ExprStmt) String() string        { return describe(s) }

// VarDecl declares a single local variable, with an optional initializer.
type VarDecl struct {
	Base
	Name string
	Init Construct
}

func (*VarDecl) Kind() Kind              { return KindVarDecl }
func (d *VarDecl) Children() []Construct { return nonNil(d.Init) }
func (d *VarDecl) String() string        { return describe(d) }

type If struct {
	Base
	Cond, Then, Else Construct
}

func (*If) Kind() Kind              { return KindIf }
func (s *If) Children() []Construct { return nonNil(s.Cond, s.Then, s.Else) }
func (s *If) String() string        { return describe(s) }

// While is a pre-test loop.
type While struct {
	Base
	Cond, Body Construct
}

func (*While) Kind() Kind              { return KindWhile }
func (s *While) Children() []Construct { return nonNil(s.Cond, s.Body) }
func (s *While) String() string        { return describe(s) }

// Do is a post-test loop.
type Do struct {
	Base
	Body, Cond Construct
}

func (*Do) Kind() Kind              { return KindDo }
func (s *Do) Children() []Construct { return nonNil(s.Body, s.Cond) }
func (s *Do) String() string        { return describe(s) }

// For is a three-clause loop. Cond may be absent, in which case the loop only
// exits through jumps.
type For struct {
	Base
	Init   []Construct
	Cond   Construct
	Update []Construct
	Body   Construct
}

func (*For) Kind() Kind { return KindFor }
func (s *For) Children() []Construct {
	cs := nonNil(s.Init...)
	cs = append(cs, nonNil(s.Cond)...)
	cs = append(cs, nonNil(s.Update...)...)
	return append(cs, nonNil(s.Body)...)
}
func (s *For) String() string { return describe(s) }

// ForEach iterates over the elements of Iterable, binding Vars on every
// iteration.
type ForEach struct {
	Base
	Vars     []string
	Iterable Construct
	Body     Construct
}

func (*ForEach) Kind() Kind              { return KindForEach }
func (s *ForEach) Children() []Construct { return nonNil(s.Iterable, s.Body) }
func (s *ForEach) String() string        { return describe(s) }

// Switch holds its case markers and statements in one flat list, in source
// order, so that control falls through from one case into the next unless a
// jump intervenes.
type Switch struct {
	Base
	Selector Construct
	Body     []Construct
}

func (*Switch) Kind() Kind { return KindSwitch }
func (s *Switch) Children() []Construct {
	return append(nonNil(s.Selector), nonNil(s.Body...)...)
}
func (s *Switch) String() string { return describe(s) }

// HasDefault reports whether one of the switch's case markers is a default case.
func (s *Switch) HasDefault() bool {
	for _, c := range s.Body {
		if cs, ok := c.(*Case); ok && cs.IsDefault() {
			return true
		}
	}
	return false
}

// Case marks the start of a case (or default) group inside a Switch. Case
// values are constants and are not evaluated.
type Case struct {
	Base
	Values  []Construct
	Default bool
}

func (*Case) Kind() Kind              { return KindCase }
func (c *Case) Children() []Construct { return nonNil(c.Values...) }
func (c *Case) String() string        { return describe(c) }
func (c *Case) IsDefault() bool       { return c.Default }

// Break leaves the nearest loop or switch, or the construct labeled Label.
// Implicit breaks are inserted by frontends for languages without fallthrough.
type Break struct {
	Base
	Label    string
	Implicit bool
}

func (*Break) Kind() Kind            { return KindBreak }
func (*Break) Children() []Construct { return nil }
func (b *Break) String() string      { return describe(b) }

type Continue struct {
	Base
	Label string
}

func (*Continue) Kind() Kind            { return KindContinue }
func (*Continue) Children() []Construct { return nil }
func (c *Continue) String() string      { return describe(c) }

type Return struct {
	Base
	Results []Construct
}

func (*Return) Kind() Kind              { return KindReturn }
func (r *Return) Children() []Construct { return nonNil(r.Results...) }
func (r *Return) String() string        { return describe(r) }

type Throw struct {
	Base
	X Construct
}

func (*Throw) Kind() Kind              { return KindThrow }
func (t *Throw) Children() []Construct { return nonNil(t.X) }
func (t *Throw) String() string        { return describe(t) }

// Try is a try statement with optional resources, catch clauses and finally block.
type Try struct {
	Base
	Resources []Construct
	Body      *Block
	Catches   []*Catch
	Finally   *Block
}

func (*Try) Kind() Kind { return KindTry }
func (t *Try) Children() []Construct {
	cs := nonNil(t.Resources...)
	cs = append(cs, nonNil(t.Body)...)
	for _, c := range t.Catches {
		cs = append(cs, c)
	}
	return append(cs, nonNil(t.Finally)...)
}
func (t *Try) String() string { return describe(t) }

type Catch struct {
	Base
	Param *Param
	Body  *Block
}

func (*Catch) Kind() Kind              { return KindCatch }
func (c *Catch) Children() []Construct { return nonNil(c.Param, c.Body) }
func (c *Catch) String() string        { return describe(c) }

type Labeled struct {
	Base
	Label string
	Stmt  Construct
}

func (*Labeled) Kind() Kind              { return KindLabeled }
func (l *Labeled) Children() []Construct { return nonNil(l.Stmt) }
func (l *Labeled) String() string        { return describe(l) }

// Sync is a synchronized block.
type Sync struct {
	Base
	Lock Construct
	Body *Block
}

func (*Sync) Kind() Kind              { return KindSync }
func (s *Sync) Children() []Construct { return nonNil(s.Lock, s.Body) }
func (s *Sync) String() string        { return describe(s) }
