package java

import (
	"context"
	"errors"
	"testing"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.Unit {
	t.Helper()
	unit, err := Parse(context.Background(), []byte(src), "Test.java")
	require.NoError(t, err)
	return unit
}

func routine(t *testing.T, unit *syntax.Unit, name string) *syntax.Routine {
	t.Helper()
	r, ok := unit.Routine(name)
	require.True(t, ok, "routine %s not found", name)
	return r
}

func TestRoutineNames(t *testing.T) {
	unit := parse(t, `
class A {
	int f;
	A() { f = 0; }
	void m(int x, String... ys) { f = x; }
	abstract void skipped();
	interface I { void n(); default int d() { return 1; } }
	static class B { int k() { return 1; } }
}
enum E { X, Y; int ord() { return 0; } }
`)

	var names []string
	for _, r := range unit.Routines {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"A.<init>", "A.m", "A.I.d", "A.B.k", "E.ord"}, names)

	m := routine(t, unit, "A.m")
	require.Len(t, m.Params, 2)
	assert.Equal(t, "x", m.Params[0].Name)
	assert.Equal(t, "ys", m.Params[1].Name)
	assert.Equal(t, 5, m.Span().Line)
}

func TestDeclarators(t *testing.T) {
	unit := parse(t, `class A { void m() { int a = 1, b; int c = a; } }`)
	stmts := routine(t, unit, "A.m").Body.Stmts
	require.Len(t, stmts, 3)

	a, ok := stmts[0].(*syntax.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "a = 1", a.Text())
	require.IsType(t, &syntax.Literal{}, a.Init)

	b := stmts[1].(*syntax.VarDecl)
	assert.Equal(t, "b", b.Name)
	assert.Nil(t, b.Init)

	c := stmts[2].(*syntax.VarDecl)
	assert.Equal(t, "int c = a;", c.Text())
}

func TestExpressions(t *testing.T) {
	unit := parse(t, `
class A {
	void m(Object o, int i) {
		boolean b = o != null && i > 0 || !(o instanceof String);
		i += ++i;
		o.toString().length();
		int[] xs = new int[] { i, 2 };
		String s = (String) o;
		int j = b ? xs[0] : i--;
	}
}`)
	r := routine(t, unit, "A.m")

	or, ok := r.Body.Stmts[0].(*syntax.VarDecl).Init.(*syntax.Logical)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	assert.True(t, or.X.(*syntax.Logical).IsAnd())
	assert.True(t, or.Y.(*syntax.Unary).IsNot())

	assign := r.Body.Stmts[1].(*syntax.ExprStmt).X.(*syntax.Assign)
	assert.Equal(t, "+=", assign.Op)
	assert.False(t, assign.IsPlain())
	inc := assign.RHS[0].(*syntax.IncDec)
	assert.True(t, inc.Prefix)
	assert.Equal(t, "++", inc.Op)

	call := r.Body.Stmts[2].(*syntax.ExprStmt).X.(*syntax.Call)
	assert.Equal(t, "length", call.Method)
	assert.Equal(t, "toString", call.Recv.(*syntax.Call).Method)

	arr := r.Body.Stmts[3].(*syntax.VarDecl).Init.(*syntax.New)
	require.Len(t, arr.Args, 1)
	assert.IsType(t, &syntax.Opaque{}, arr.Args[0])

	assert.IsType(t, &syntax.Cast{}, r.Body.Stmts[4].(*syntax.VarDecl).Init)

	cond := r.Body.Stmts[5].(*syntax.VarDecl).Init.(*syntax.Conditional)
	assert.IsType(t, &syntax.Index{}, cond.Then)
	dec := cond.Else.(*syntax.IncDec)
	assert.False(t, dec.Prefix)
	assert.Equal(t, "--", dec.Op)
}

func TestSwitchRules(t *testing.T) {
	unit := parse(t, `
class A {
	int m(int s) {
		switch (s) {
			case 1, 2 -> s++;
			default -> { s = 0; }
		}
		return s;
	}
}`)
	sw := routine(t, unit, "A.m").Body.Stmts[0].(*syntax.Switch)
	require.Len(t, sw.Body, 6)

	first := sw.Body[0].(*syntax.Case)
	assert.Len(t, first.Values, 2)
	assert.True(t, sw.Body[2].(*syntax.Break).Implicit)
	assert.True(t, sw.Body[3].(*syntax.Case).IsDefault())
	assert.True(t, sw.HasDefault())
}

func TestTryAndLabels(t *testing.T) {
	unit := parse(t, `
class A {
	boolean m(java.io.Reader in) {
		outer:
		for (int i = 0, j = 1; i < 10; i++, j++) {
			try (java.io.Reader r = in) {
				if (i == j) continue outer;
				break outer;
			} catch (java.io.IOException e) {
				return false;
			} finally {
				synchronized (this) { i = 0; }
			}
		}
		return true;
	}
}`)
	r := routine(t, unit, "A.m")

	lbl := r.Body.Stmts[0].(*syntax.Labeled)
	assert.Equal(t, "outer", lbl.Label)
	loop := lbl.Stmt.(*syntax.For)
	assert.Len(t, loop.Init, 2)
	assert.Len(t, loop.Update, 2)

	try := loop.Body.(*syntax.Block).Stmts[0].(*syntax.Try)
	require.Len(t, try.Resources, 1)
	assert.Equal(t, "r", try.Resources[0].(*syntax.VarDecl).Name)
	require.Len(t, try.Catches, 1)
	assert.Equal(t, "e", try.Catches[0].Param.Name)
	require.NotNil(t, try.Finally)
	assert.IsType(t, &syntax.Sync{}, try.Finally.Stmts[0])

	cont := try.Body.Stmts[0].(*syntax.If).Then.(*syntax.Continue)
	assert.Equal(t, "outer", cont.Label)

	g, err := cfg.Build(r)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
}

func TestLinked(t *testing.T) {
	unit := parse(t, `class A { void m(int x) { while (x > 0) { x--; } } }`)
	r := routine(t, unit, "A.m")

	names := syntax.Find(r, func(c syntax.Construct) bool {
		_, ok := c.(*syntax.Name)
		return ok
	})
	require.NotEmpty(t, names)
	for _, n := range names {
		assert.Same(t, r, syntax.RoutineOf(n))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected error
	}{
		{"syntax", `class A { void m() { if ( } }`, ErrSyntax},
		{"local class", `class A { void m() { class L {} } }`, ErrUnsupported},
		{"yield", `class A { int m(int s) { return switch (s) { default: yield 1; }; } }`, ErrUnsupported},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			unit, err := Parse(context.Background(), []byte(test.src), "Test.java")
			assert.Nil(t, unit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.expected), "got %v", err)

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.True(t, perr.Pos.IsValid())
		})
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, []byte(`class A { void m() {} }`), "Test.java")
	assert.Error(t, err)
}
