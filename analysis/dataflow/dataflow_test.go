package dataflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/testutil"
)

// assigned collects the names assigned on some path to a point.
type assigned struct{ dir Direction }

func (a assigned) Direction() Direction { return a.dir }

func (assigned) Lattice(*syntax.Routine) lattice.Lattice[lattice.NameSet] {
	return lattice.NameSetLattice()
}

func (assigned) Flow(n *cfg.Node, in lattice.NameSet) lattice.NameSet {
	switch c := n.Construct().(type) {
	case *syntax.Param:
		return in.Add(c.Name)
	case *syntax.VarDecl:
		return in.Add(c.Name)
	case *syntax.Assign:
		for _, l := range c.LHS {
			if name, ok := syntax.Unparen(l).(*syntax.Name); ok {
				in = in.Add(name.Ident)
			}
		}
	}
	return in
}

// used collects names read before being overwritten. Every node has at most
// one effect.
type used struct{ dir Direction }

func (u used) Direction() Direction { return u.dir }

func (used) Lattice(*syntax.Routine) lattice.Lattice[lattice.NameSet] {
	return lattice.NameSetLattice()
}

func (used) Flow(n *cfg.Node, in lattice.NameSet) lattice.NameSet {
	switch c := n.Construct().(type) {
	case *syntax.Name:
		return in.Add(c.Ident)
	case *syntax.Assign:
		if name, ok := syntax.Unparen(c.LHS[0]).(*syntax.Name); ok {
			return in.Remove(name.Ident)
		}
	}
	return in
}

// truth records the outcome of every name evaluated as a condition.
type truth struct{}

func (truth) Direction() Direction { return Forward }

func (truth) Lattice(*syntax.Routine) lattice.Lattice[lattice.NameSet] {
	return lattice.NameSetLattice()
}

func (truth) Transfer(n *cfg.Node, in lattice.NameSet, _ cfg.Label) LabeledResult[lattice.NameSet] {
	if name, ok := n.Construct().(*syntax.Name); ok {
		return Branches(in.Add(name.Ident+"+"), in.Add(name.Ident+"-"))
	}
	return Uniform(in)
}

type counting[E lattice.Element[E]] struct {
	inner Transfer[E]
	calls *int
}

func (c counting[E]) Direction() Direction                        { return c.inner.Direction() }
func (c counting[E]) Lattice(r *syntax.Routine) lattice.Lattice[E] { return c.inner.Lattice(r) }
func (c counting[E]) MergesLabels() bool                           { return mergesLabels(c.inner) }

func (c counting[E]) Transfer(n *cfg.Node, in E, label cfg.Label) LabeledResult[E] {
	*c.calls++
	return c.inner.Transfer(n, in, label)
}

var errBoom = errors.New("boom")

type exploding struct{ assigned }

func (exploding) Flow(n *cfg.Node, in lattice.NameSet) lattice.NameSet {
	if name, ok := n.Construct().(*syntax.Name); ok && name.Ident == "boom" {
		panic(fmt.Errorf("%w: evaluated %s", errBoom, name))
	}
	return in
}

const loops = `
class T {
	int m(int n, boolean c) {
		int s = 0;
		for (int i = 0; i < n; i++) {
			if (c) { s = s + i; continue; }
			while (s > 10) {
				s = s - 1;
				if (s == 3) break;
			}
		}
		try { s = n / s; } catch (Exception e) { s = 0; } finally { n = 1; }
		return s;
	}

	void other(int x) {
		x = x + 1;
	}
}`

// checkStable reruns every transfer of a solution and checks that nothing
// would change.
func checkStable[E lattice.Element[E]](t *testing.T, sol *Solution[E], tr Transfer[E]) {
	t.Helper()
	merge := mergesLabels(tr)
	sol.Graph().ForEach(func(n *cfg.Node) {
		if !sol.Reached(n) {
			return
		}

		res, err := sol.apply(tr, n, merge)
		if err != nil {
			t.Fatal(err)
		}
		stored := sol.out[n.ID()]
		if !res.AtLeastAsPrecise(stored) || !stored.AtLeastAsPrecise(res) {
			t.Errorf("Transfer of %s is not stable: got %s, stored %s", n, res, stored)
		}

		for _, e := range sol.outgoing(n) {
			to := sol.target(e)
			v, found := sol.in[to.ID()].Lookup(e.Label.Canonical())
			if !found || !res.Get(e.Label).AtLeastAsPrecise(v) {
				t.Errorf("Propagating %s along %s would change %s", res.Get(e.Label), e, sol.in[to.ID()])
			}
		}
	})
}

func TestFixedPointStable(t *testing.T) {
	res := testutil.LoadJava(t, loops)
	g, err := cfg.Build(res.Routine(t, "m"))
	if err != nil {
		t.Fatal(err)
	}

	transfers := map[string]Transfer[lattice.NameSet]{
		"assigned": BranchInsensitive[lattice.NameSet](assigned{Forward}),
		"used":     BranchInsensitive[lattice.NameSet](used{Backward}),
		"truth":    truth{},
	}
	for name, tr := range transfers {
		t.Run(name, func(t *testing.T) {
			sol, err := Solve(g, tr, lattice.NameSetLattice())
			if err != nil {
				t.Fatal(err)
			}
			checkStable(t, sol, tr)
		})
	}
}

func TestQueryIdempotence(t *testing.T) {
	res := testutil.LoadJava(t, loops)
	r := res.Routine(t, "m")
	ret := testutil.Find(t, r, syntax.KindReturn, "return s;")

	calls, solved := 0, 0
	a := NewAnalysis[lattice.NameSet](
		counting[lattice.NameSet]{BranchInsensitive[lattice.NameSet](assigned{Forward}), &calls},
		WithValidation[lattice.NameSet](),
		OnSolved(func(*Solution[lattice.NameSet]) { solved++ }),
	)

	first, err := a.ResultsAfter(ret)
	if err != nil {
		t.Fatal(err)
	}
	after := calls

	second, err := a.ResultsAfter(ret)
	if err != nil {
		t.Fatal(err)
	}
	if calls != after {
		t.Errorf("Repeated query made %d more transfer calls", calls-after)
	}
	if !lattice.Eq(first, second) {
		t.Errorf("Repeated query answered %s, then %s", first, second)
	}
	if a.Runs() != 1 || solved != 1 {
		t.Errorf("Solved %d times (%d callbacks), expected once", a.Runs(), solved)
	}

	expected := lattice.MakeNameSet("c", "e", "i", "n", "s")
	if !lattice.Eq(first, expected) {
		t.Errorf("Assigned after %s: got %s, expected %s", ret, first, expected)
	}
}

func TestRoutineSwitch(t *testing.T) {
	res := testutil.LoadJava(t, loops)
	m, other := res.Routine(t, "m"), res.Routine(t, "other")

	a := NewAnalysis(BranchInsensitive[lattice.NameSet](assigned{Forward}))
	for i, r := range []*syntax.Routine{m, other, other, m} {
		if _, err := a.EndResults(r); err != nil {
			t.Fatal(err)
		}
		if a.Routine() != r {
			t.Errorf("Query %d: cached %v, expected %s", i, a.Routine(), r)
		}
	}
	if a.Runs() != 3 {
		t.Errorf("Solved %d times, expected 3", a.Runs())
	}

	start, _ := a.StartResults(other)
	if !start.Empty() {
		t.Errorf("Start of %s: got %s, expected ∅", other, start)
	}
	end, _ := a.EndResults(other)
	if !lattice.Eq(end, lattice.MakeNameSet("x")) {
		t.Errorf("End of %s: got %s, expected { x }", other, end)
	}
}

func TestDirectionSymmetry(t *testing.T) {
	res := testutil.LoadJava(t, loops)
	g, err := cfg.Build(res.Routine(t, "m"))
	if err != nil {
		t.Fatal(err)
	}
	rg := g.Reversed()

	back, err := Solve(g, BranchInsensitive[lattice.NameSet](used{Backward}), lattice.NameSetLattice())
	if err != nil {
		t.Fatal(err)
	}
	fwd, err := Solve(rg, BranchInsensitive[lattice.NameSet](used{Forward}), lattice.NameSetLattice())
	if err != nil {
		t.Fatal(err)
	}

	for id := 0; id < g.Len(); id++ {
		n, rn := g.Node(id), rg.Node(id)
		if b, f := back.Before(n), fwd.After(rn); !lattice.Eq(b, f) {
			t.Errorf("Before %s: backward %s, forward over reversed graph %s", n, b, f)
		}
		if b, f := back.After(n), fwd.Before(rn); !lattice.Eq(b, f) {
			t.Errorf("After %s: backward %s, forward over reversed graph %s", n, b, f)
		}
	}
}

func TestBranchLabels(t *testing.T) {
	res := testutil.LoadJavaBody(t, "boolean c", "int a, b;\nif (c) a = 1; else b = 2;")
	r := res.Routine(t, "m")
	a := NewAnalysis[lattice.NameSet](truth{})

	then, _ := a.ResultsBefore(testutil.Find(t, r, syntax.KindLiteral, "1"))
	if !lattice.Eq(then, lattice.MakeNameSet("c+")) {
		t.Errorf("Before then branch: got %s, expected { c+ }", then)
	}
	els, _ := a.ResultsBefore(testutil.Find(t, r, syntax.KindLiteral, "2"))
	if !lattice.Eq(els, lattice.MakeNameSet("c-")) {
		t.Errorf("Before else branch: got %s, expected { c- }", els)
	}

	cond, err := a.LabeledResultsAfter(testutil.FindName(t, r, "c"))
	if err != nil {
		t.Fatal(err)
	}
	if labels := cond.Labels(); len(labels) != 2 || labels[0] != cfg.True || labels[1] != cfg.False {
		t.Errorf("Condition results carry labels %v", labels)
	}
	if !lattice.Eq(cond.Get(cfg.Normal), lattice.MakeNameSet("c+", "c-")) {
		t.Errorf("Normal continuation of the condition: got %s", cond.Get(cfg.Normal))
	}

	ifStmt := testutil.Find(t, r, syntax.KindIf, "if (c) a = 1; else b = 2;")
	merged, _ := a.ResultsAfter(ifStmt)
	if !lattice.Eq(merged, lattice.MakeNameSet("c+", "c-")) {
		t.Errorf("After %s: got %s, expected { c+, c- }", ifStmt, merged)
	}
}

func TestTransferPanic(t *testing.T) {
	res := testutil.LoadJavaBody(t, "int boom", "int a = 1;\nint b = boom;")
	r := res.Routine(t, "m")
	a := NewAnalysis(BranchInsensitive[lattice.NameSet](exploding{}))

	_, err := a.EndResults(r)
	if err == nil {
		t.Fatal("Expected the transfer to fail")
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("Error %v does not wrap the panic", err)
	}

	var terr *TransferError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected a *TransferError, got %T", err)
	}
	if terr.Routine != "T.m" || terr.Node.Construct().Text() != "boom" {
		t.Errorf("Error located at %s in %s", terr.Node, terr.Routine)
	}
	if !strings.Contains(err.Error(), "T.m") {
		t.Errorf("Error message %q does not name the routine", err)
	}
	if a.Routine() != nil {
		t.Errorf("Failed fixed point of %s was cached", a.Routine())
	}
}

func TestPointsWithoutNodes(t *testing.T) {
	res := testutil.LoadJavaBody(t, "int p", "int a;\na = 1;")
	r := res.Routine(t, "m")
	a := NewAnalysis(BranchInsensitive[lattice.NameSet](assigned{Forward}))

	before, _ := a.ResultsBefore(testutil.Find(t, r, syntax.KindLiteral, "1"))
	if !lattice.Eq(before, lattice.MakeNameSet("a", "p")) {
		t.Errorf("Before 1: got %s, expected { a, p }", before)
	}

	// Assignment targets own no nodes.
	target := testutil.Find(t, r, syntax.KindAssign, "a = 1").(*syntax.Assign).LHS[0]
	if bot, _ := a.ResultsBefore(target); !bot.Empty() {
		t.Errorf("Before %s: got %s, expected bottom", target, bot)
	}

	_, err := a.ResultsBefore(&syntax.Name{Ident: "detached"})
	if !errors.Is(err, ErrDetached) {
		t.Errorf("Expected ErrDetached, got %v", err)
	}
}

func expectStale(t *testing.T, do func()) {
	t.Helper()
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrStaleRoutine) {
			t.Errorf("Expected a stale routine panic, got %v", err)
		}
	}()
	do()
}

func TestNodeResults(t *testing.T) {
	res := testutil.LoadJava(t, loops)
	m, other := res.Routine(t, "m"), res.Routine(t, "other")
	a := NewAnalysis(BranchInsensitive[lattice.NameSet](assigned{Forward}))

	foreign, err := cfg.Build(other)
	if err != nil {
		t.Fatal(err)
	}
	expectStale(t, func() { a.NodeResults(foreign.Start()) })

	g, err := a.Graph(m)
	if err != nil {
		t.Fatal(err)
	}
	before, after := a.NodeResults(g.End())
	if !lattice.Eq(before, after) {
		t.Errorf("The end node changed %s into %s", before, after)
	}
	expectStale(t, func() { a.NodeResults(foreign.End()) })
}

func TestSequencedOrder(t *testing.T) {
	lower := LoweringFunc[string](func(*cfg.Node) []string {
		return []string{"a", "b", "c"}
	})

	for _, test := range []struct {
		dir      Direction
		expected string
	}{
		{Forward, "abc"},
		{Backward, "cba"},
	} {
		var order []string
		f := Sequenced[string, lattice.NameSet](lower, recorder{test.dir, &order})
		out := f.Flow(nil, lattice.MakeNameSet())
		if got := strings.Join(order, ""); got != test.expected {
			t.Errorf("%s fold visited %s, expected %s", test.dir, got, test.expected)
		}
		if out.Size() != 3 {
			t.Errorf("%s fold produced %s", test.dir, out)
		}
	}
}

type recorder struct {
	dir   Direction
	order *[]string
}

func (r recorder) Direction() Direction { return r.dir }

func (recorder) Lattice(*syntax.Routine) lattice.Lattice[lattice.NameSet] {
	return lattice.NameSetLattice()
}

func (r recorder) Step(instr string, in lattice.NameSet) lattice.NameSet {
	*r.order = append(*r.order, instr)
	return in.Add(instr)
}
