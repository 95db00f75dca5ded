package lattice

import "fmt"

type flatState int8

const (
	flatBot flatState = iota
	flatVal
	flatTop
)

// Flat is an element of the flat lattice over T:
//
//	  ⊤
//	/ | \
//	v1 v2 ...
//	\ | /
//	  ⊥
type Flat[T comparable] struct {
	state flatState
	v     T
}

func FlatBot[T comparable]() Flat[T] {
	return Flat[T]{state: flatBot}
}

func FlatTop[T comparable]() Flat[T] {
	return Flat[T]{state: flatTop}
}

func FlatValue[T comparable](v T) Flat[T] {
	return Flat[T]{state: flatVal, v: v}
}

func (e Flat[T]) IsBot() bool { return e.state == flatBot }
func (e Flat[T]) IsTop() bool { return e.state == flatTop }

// Value returns the wrapped value. The boolean is false for ⊥ and ⊤.
func (e Flat[T]) Value() (T, bool) {
	return e.v, e.state == flatVal
}

// Is checks whether the element is exactly the value v.
func (e Flat[T]) Is(v T) bool {
	return e.state == flatVal && e.v == v
}

func (e Flat[T]) Copy() Flat[T] {
	return e
}

func (e1 Flat[T]) Join(e2 Flat[T]) Flat[T] {
	switch {
	case e1.state == flatBot:
		return e2
	case e2.state == flatBot:
		return e1
	case e1.state == flatVal && e2.state == flatVal && e1.v == e2.v:
		return e1
	default:
		return FlatTop[T]()
	}
}

func (e1 Flat[T]) AtLeastAsPrecise(e2 Flat[T]) bool {
	switch {
	case e1.state == flatBot || e2.state == flatTop:
		return true
	case e1.state == flatVal && e2.state == flatVal:
		return e1.v == e2.v
	default:
		return false
	}
}

func (e Flat[T]) String() string {
	switch e.state {
	case flatBot:
		return colorize.Const("⊥")
	case flatTop:
		return colorize.Const("⊤")
	default:
		return colorize.Element(fmt.Sprint(e.v))
	}
}
