package lattice

import "testing"

func TestNameSetJoin(t *testing.T) {
	empty := MakeNameSet()
	a := MakeNameSet("a")
	b := MakeNameSet("b")
	ab := MakeNameSet("a", "b")

	tests := []struct{ a, b, expected NameSet }{
		{empty, empty, empty},
		{empty, a, a},
		{a, empty, a},
		{a, b, ab},
		{ab, a, ab},
		{b, ab, ab},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if !Eq(res, test.expected) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestNameSetOrder(t *testing.T) {
	empty := MakeNameSet()
	a := MakeNameSet("a")
	b := MakeNameSet("b")
	ab := MakeNameSet("a", "b")

	tests := []struct {
		a, b     NameSet
		expected bool
	}{
		{empty, empty, true},
		{empty, a, true},
		{a, empty, false},
		{a, b, false},
		{a, ab, true},
		{ab, a, false},
		{ab, ab, true},
		{NameSet{}, a, true},
	}

	for _, test := range tests {
		res := test.a.AtLeastAsPrecise(test.b)
		if res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestNameSetOps(t *testing.T) {
	s := MakeNameSet("x", "y")
	s2 := s.Remove("x").Add("z")

	if !s.Contains("x") {
		t.Errorf("%s was modified by Remove", s)
	}
	if got := s2.Entries(); len(got) != 2 || got[0] != "y" || got[1] != "z" {
		t.Errorf("Entries() = %v, expected [y z]", got)
	}
	if m := s.Meet(s2); !Eq(m, MakeNameSet("y")) {
		t.Errorf("%s ⊓ %s = %s, expected { y }", s, s2, m)
	}
}

func TestFlatJoin(t *testing.T) {
	bot, top := FlatBot[int](), FlatTop[int]()
	one, two := FlatValue(1), FlatValue(2)

	tests := []struct{ a, b, expected Flat[int] }{
		{bot, bot, bot},
		{bot, one, one},
		{one, bot, one},
		{one, one, one},
		{one, two, top},
		{top, one, top},
		{bot, top, top},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if res != test.expected {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestFlatOrder(t *testing.T) {
	bot, top := FlatBot[int](), FlatTop[int]()
	one, two := FlatValue(1), FlatValue(2)

	tests := []struct {
		a, b     Flat[int]
		expected bool
	}{
		{bot, one, true},
		{one, bot, false},
		{one, one, true},
		{one, two, false},
		{one, top, true},
		{top, one, false},
		{top, top, true},
	}

	for _, test := range tests {
		res := test.a.AtLeastAsPrecise(test.b)
		if res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestMapJoin(t *testing.T) {
	empty := MakeMap(FlatBot[int]())
	a1 := empty.Update("a", FlatValue(1))
	a2 := empty.Update("a", FlatValue(2))
	b1 := empty.Update("b", FlatValue(1))

	tests := []struct {
		a, b     Map[Flat[int]]
		expected map[string]Flat[int]
	}{
		{empty, empty, map[string]Flat[int]{}},
		{a1, a1, map[string]Flat[int]{"a": FlatValue(1)}},
		{a1, a2, map[string]Flat[int]{"a": FlatTop[int]()}},
		{a1, b1, map[string]Flat[int]{"a": FlatValue(1), "b": FlatValue(1)}},
		{empty, b1, map[string]Flat[int]{"b": FlatValue(1)}},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		for k, v := range test.expected {
			if got, _ := res.Get(k); got != v {
				t.Errorf("(%s ⊔ %s)(%s) = %s, expected %s\n", test.a, test.b, k, got, v)
			}
		}
		if res.Size() != len(test.expected) {
			t.Errorf("%s ⊔ %s = %s has %d bindings, expected %d", test.a, test.b, res, res.Size(), len(test.expected))
		}
	}
}

func TestMapDefault(t *testing.T) {
	// Unbound names are ⊤.
	unknown := MakeMap(FlatTop[int]())
	known := unknown.Update("a", FlatValue(1))

	if !known.AtLeastAsPrecise(unknown) {
		t.Errorf("%s ⊑ %s should hold", known, unknown)
	}
	if unknown.AtLeastAsPrecise(known) {
		t.Errorf("%s ⊑ %s should not hold", unknown, known)
	}

	joined := known.Join(unknown)
	if v, _ := joined.Get("a"); !v.IsTop() {
		t.Errorf("%s ⊔ %s maps a to %s, expected ⊤", known, unknown, v)
	}

	if v, bound := known.Remove("a").Get("a"); bound || !v.IsTop() {
		t.Errorf("removed binding is %s (bound: %v), expected unbound ⊤", v, bound)
	}
}

func TestMapJoinSharedBindings(t *testing.T) {
	bot := MakeMap(FlatBot[int]()).Update("a", FlatValue(1))
	top := Map[Flat[int]]{bot.mp, FlatTop[int]()}

	for _, joined := range []Map[Flat[int]]{bot.Join(top), top.Join(bot)} {
		if v, _ := joined.Get("b"); !v.IsTop() {
			t.Errorf("%s ⊔ %s maps b to %s, expected ⊤", bot, top, v)
		}
		if v, _ := joined.Get("a"); v != FlatValue(1) {
			t.Errorf("%s ⊔ %s maps a to %s, expected 1", bot, top, v)
		}
	}
}

func TestFixedLattice(t *testing.T) {
	lat := NameSetLattice("r")
	if e := lat.Entry(); !e.Contains("r") || e.Size() != 1 {
		t.Errorf("Entry() = %s, expected { r }", e)
	}
	if b := lat.Bottom(); !b.Empty() {
		t.Errorf("Bottom() = %s, expected ∅", b)
	}
	if j := JoinAll(MakeNameSet("a"), MakeNameSet("b"), MakeNameSet("c")); j.Size() != 3 {
		t.Errorf("JoinAll = %s, expected three names", j)
	}
}
