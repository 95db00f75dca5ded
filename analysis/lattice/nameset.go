package lattice

import (
	"strings"

	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/slices"
)

// NameSet is an immutable set of variable names, ordered by inclusion.
type NameSet struct {
	mp *immutable.Map[string, struct{}]
}

// MakeNameSet creates a set containing the given names.
func MakeNameSet(names ...string) NameSet {
	mp := immutable.NewMap[string, struct{}](nil)
	for _, n := range names {
		mp = mp.Set(n, struct{}{})
	}
	return NameSet{mp}
}

func (s NameSet) Size() int {
	if s.mp == nil {
		return 0
	}
	return s.mp.Len()
}

func (s NameSet) Empty() bool {
	return s.Size() == 0
}

// Contains checks whether the set contains n:
//
//	n ∈ s
func (s NameSet) Contains(n string) bool {
	if s.mp == nil {
		return false
	}
	_, ok := s.mp.Get(n)
	return ok
}

// Add computes s ∪ {n}.
func (s NameSet) Add(n string) NameSet {
	if s.Contains(n) {
		return s
	}
	if s.mp == nil {
		return MakeNameSet(n)
	}
	return NameSet{s.mp.Set(n, struct{}{})}
}

// Remove computes s \ {n}.
func (s NameSet) Remove(n string) NameSet {
	if !s.Contains(n) {
		return s
	}
	return NameSet{s.mp.Delete(n)}
}

// ForEach executes the provided procedure for each name in the set.
func (s NameSet) ForEach(do func(string)) {
	if s.mp == nil {
		return
	}
	for iter := s.mp.Iterator(); !iter.Done(); {
		n, _, _ := iter.Next()
		do(n)
	}
}

// Entries returns the names in the set in sorted order.
func (s NameSet) Entries() []string {
	ns := make([]string, 0, s.Size())
	s.ForEach(func(n string) {
		ns = append(ns, n)
	})
	slices.Sort(ns)
	return ns
}

func (s NameSet) Copy() NameSet {
	return s
}

// Join computes the union of two name sets:
//
//	s1 ∪ s2
func (s1 NameSet) Join(s2 NameSet) NameSet {
	if s1.mp == s2.mp {
		return s1
	} else if s2.Size() < s1.Size() {
		s1, s2 = s2, s1
	}

	s1.ForEach(func(n string) {
		s2 = s2.Add(n)
	})
	return s2
}

// Meet computes the intersection of two name sets:
//
//	s1 ∩ s2
func (s1 NameSet) Meet(s2 NameSet) NameSet {
	if s1.mp == s2.mp {
		return s1
	}

	ns := make([]string, 0, s1.Size())
	s1.ForEach(func(n string) {
		if s2.Contains(n) {
			ns = append(ns, n)
		}
	})
	return MakeNameSet(ns...)
}

// AtLeastAsPrecise checks inclusion:
//
//	s1 ⊆ s2
func (s1 NameSet) AtLeastAsPrecise(s2 NameSet) bool {
	if s1.mp == s2.mp {
		return true
	} else if s1.Size() > s2.Size() {
		return false
	}

	ok := true
	s1.ForEach(func(n string) {
		ok = ok && s2.Contains(n)
	})
	return ok
}

func (s NameSet) String() string {
	if s.Empty() {
		return colorize.Const("∅")
	}

	ns := s.Entries()
	for i, n := range ns {
		ns[i] = colorize.Element(n)
	}
	return "{ " + strings.Join(ns, ", ") + " }"
}

// NameSetLattice is the powerset lattice of variable names with the given
// entry element.
func NameSetLattice(entry ...string) Lattice[NameSet] {
	return Of(MakeNameSet(entry...), MakeNameSet())
}
