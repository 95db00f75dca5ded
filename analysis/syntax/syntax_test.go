package syntax

import "testing"

func sampleRoutine() *Routine {
	// void m(x) { if (x) y = 1; else ; }
	assign := &Assign{
		Base: Base{Src: "y = 1"},
		Op:   "=",
		LHS:  []Construct{&Name{Base: Base{Src: "y"}, Ident: "y"}},
		RHS:  []Construct{&Literal{Base: Base{Src: "1"}, Lit: LitNumber, Value: "1"}},
	}
	ifs := &If{
		Base: Base{Src: "if (x) y = 1; else ;"},
		Cond: &Paren{Base: Base{Src: "(x)"}, X: &Name{Base: Base{Src: "x"}, Ident: "x"}},
		Then: &ExprStmt{Base: Base{Src: "y = 1;"}, X: assign},
		Else: &Empty{Base: Base{Src: ";"}},
	}
	r := &Routine{
		Name:   "C.m",
		Params: []*Param{{Base: Base{Src: "x"}, Name: "x"}},
		Body:   &Block{Stmts: []Construct{ifs}},
	}
	Link(r)
	return r
}

func TestLinkAndRoutineOf(t *testing.T) {
	r := sampleRoutine()

	count := 0
	Walk(r, func(c Construct) bool {
		count++
		if c == r {
			return true
		}
		if c.Parent() == nil {
			t.Errorf("%s has no parent after linking", c)
		}
		if got := RoutineOf(c); got != r {
			t.Errorf("RoutineOf(%s) = %v, expected %s", c, got, r)
		}
		return true
	})

	if count != 11 {
		t.Errorf("visited %d constructs, expected 11", count)
	}
}

func TestRoutineOfUnlinked(t *testing.T) {
	n := &Name{Ident: "z"}
	if r := RoutineOf(n); r != nil {
		t.Errorf("RoutineOf(unlinked) = %s, expected nil", r)
	}
}

func TestFindText(t *testing.T) {
	r := sampleRoutine()

	c, err := FindText(r, KindName, "y")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Parent().(*Assign); !ok {
		t.Errorf("parent of %s is %s, expected an assignment", c, c.Parent())
	}

	if _, err := FindText(r, KindName, "w"); err == nil {
		t.Error("expected an error for missing construct")
	}
}

func TestChildrenSkipAbsent(t *testing.T) {
	ifs := &If{Cond: &Name{Ident: "c"}, Then: &Empty{}}
	if n := len(ifs.Children()); n != 2 {
		t.Errorf("if without else has %d children, expected 2", n)
	}

	var body *Block
	tr := &Try{Body: body}
	if n := len(tr.Children()); n != 0 {
		t.Errorf("try with nil body has %d children, expected 0", n)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		src, expected string
	}{
		{"x", "x"},
		{"if (x)\n\t\ty = 1;", "if (x) y = 1;"},
		{"", ""},
		{"aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeee", "aaaaaaaaaabbbbbbbbbbccccccccccddddddddd…"},
	}

	for _, test := range tests {
		if got := Summary(&Opaque{Base: Base{Src: test.src}}); got != test.expected {
			t.Errorf("Summary(%q) = %q, expected %q", test.src, got, test.expected)
		}
	}
}

func TestSelect(t *testing.T) {
	u := &Unit{Routines: []*Routine{{Name: "A.run"}, {Name: "B.run"}, {Name: "B.stop"}}}

	if n := len(u.Select("")); n != 3 {
		t.Errorf("Select(\"\") returned %d routines, expected 3", n)
	}
	if n := len(u.Select("run")); n != 2 {
		t.Errorf("Select(run) returned %d routines, expected 2", n)
	}
	if rs := u.Select("B.stop"); len(rs) != 1 || rs[0].Name != "B.stop" {
		t.Errorf("Select(B.stop) = %v", rs)
	}
}
