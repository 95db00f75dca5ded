package lattice

import (
	"strings"

	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/slices"
)

// Map is an immutable map from variable names to elements of V, ordered
// pointwise. Names without a binding are mapped to the default element given at
// construction.
type Map[V Element[V]] struct {
	mp  *immutable.Map[string, V]
	def V
}

// MakeMap creates an empty map where every name is bound to def.
func MakeMap[V Element[V]](def V) Map[V] {
	return Map[V]{immutable.NewMap[string, V](nil), def}
}

// Default returns the element of unbound names.
func (m Map[V]) Default() V {
	return m.def
}

func (m Map[V]) Size() int {
	return m.mp.Len()
}

// Get retrieves the element bound to k. The boolean reports whether k has an
// explicit binding.
func (m Map[V]) Get(k string) (V, bool) {
	if v, ok := m.mp.Get(k); ok {
		return v, true
	}
	return m.def, false
}

// Update binds k to v.
func (m Map[V]) Update(k string, v V) Map[V] {
	m.mp = m.mp.Set(k, v)
	return m
}

// WeakUpdate joins v into the binding of k.
func (m Map[V]) WeakUpdate(k string, v V) Map[V] {
	prev, _ := m.Get(k)
	return m.Update(k, prev.Join(v))
}

// Remove resets k to the default element.
func (m Map[V]) Remove(k string) Map[V] {
	m.mp = m.mp.Delete(k)
	return m
}

// ForEach executes the provided procedure for each explicit binding.
func (m Map[V]) ForEach(do func(string, V)) {
	for iter := m.mp.Iterator(); !iter.Done(); {
		k, v, _ := iter.Next()
		do(k, v)
	}
}

// Keys returns the explicitly bound names in sorted order.
func (m Map[V]) Keys() []string {
	ks := make([]string, 0, m.Size())
	m.ForEach(func(k string, _ V) {
		ks = append(ks, k)
	})
	slices.Sort(ks)
	return ks
}

func (m Map[V]) Copy() Map[V] {
	return m
}

// Join computes the pointwise least upper bound. Names bound in only one of the
// maps are joined with the default element of the other.
func (m1 Map[V]) Join(m2 Map[V]) Map[V] {
	if m1.mp == m2.mp {
		m1.def = m1.def.Join(m2.def)
		return m1
	}

	res := m1
	res.def = m1.def.Join(m2.def)
	m2.ForEach(func(k string, v2 V) {
		v1, _ := m1.Get(k)
		res = res.Update(k, v1.Join(v2))
	})
	m1.ForEach(func(k string, v1 V) {
		if _, ok := m2.mp.Get(k); !ok {
			res = res.Update(k, v1.Join(m2.def))
		}
	})
	return res
}

// AtLeastAsPrecise checks the pointwise order on the union of the bound names.
func (m1 Map[V]) AtLeastAsPrecise(m2 Map[V]) bool {
	if m1.mp == m2.mp {
		return m1.def.AtLeastAsPrecise(m2.def)
	}

	if !m1.def.AtLeastAsPrecise(m2.def) {
		return false
	}

	ok := true
	m1.ForEach(func(k string, v1 V) {
		if ok {
			v2, _ := m2.Get(k)
			ok = v1.AtLeastAsPrecise(v2)
		}
	})
	m2.ForEach(func(k string, v2 V) {
		if ok {
			if _, bound := m1.mp.Get(k); !bound {
				ok = m1.def.AtLeastAsPrecise(v2)
			}
		}
	})
	return ok
}

func (m Map[V]) String() string {
	ks := m.Keys()
	if len(ks) == 0 {
		return "[ ]"
	}

	strs := make([]string, 0, len(ks))
	for _, k := range ks {
		v, _ := m.Get(k)
		strs = append(strs, colorize.Key(k)+" ↦ "+v.String())
	}
	return "[ " + strings.Join(strs, ", ") + " ]"
}
