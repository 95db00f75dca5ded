// Package lattice defines the contract between the dataflow engine and the
// abstract domains of client analyses, together with a few reusable domains.
package lattice

import (
	"github.com/cs-au-dk/flow/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Lattice func(...interface{}) string
	Element func(...interface{}) string
	Const   func(...interface{}) string
	Key     func(...interface{}) string
}{
	Lattice: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Key: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
}

// Element is an abstract value of type E. E is normally the implementing type
// itself.
type Element[E any] interface {
	// Copy returns a value that can be modified without affecting the receiver.
	// Immutable elements may return themselves.
	Copy() E
	// Join computes the least upper bound of the receiver and the argument:
	//	a ⊔ b
	Join(E) E
	// AtLeastAsPrecise checks the partial order:
	//	a ⊑ b
	AtLeastAsPrecise(E) bool
	String() string
}

// Lattice supplies the distinguished elements the engine needs for a routine.
type Lattice[E Element[E]] interface {
	// Entry is the value at the start node of a forward analysis, or at the end
	// node of a backward one.
	Entry() E
	// Bottom is the answer for program points the analysis never reached.
	Bottom() E
}

// Eq checks whether two elements are equivalent under the partial order:
//
//	a ⊑ b ∧ b ⊑ a
func Eq[E Element[E]](a, b E) bool {
	return a.AtLeastAsPrecise(b) && b.AtLeastAsPrecise(a)
}

// JoinAll folds Join over a non-empty list of elements.
func JoinAll[E Element[E]](first E, rest ...E) E {
	res := first
	for _, e := range rest {
		res = res.Join(e)
	}
	return res
}

// fixed is a lattice with constant entry and bottom elements.
type fixed[E Element[E]] struct {
	entry, bottom E
}

func (l fixed[E]) Entry() E  { return l.entry.Copy() }
func (l fixed[E]) Bottom() E { return l.bottom.Copy() }

// Of creates a lattice with the given entry and bottom elements.
func Of[E Element[E]](entry, bottom E) Lattice[E] {
	return fixed[E]{entry, bottom}
}
