package syntax

import (
	"fmt"
	"strings"
)

// Unit is the result of parsing one source file.
type Unit struct {
	Path     string
	Source   []byte
	Routines []*Routine
}

// Routine looks up a routine by its fully qualified name.
func (u *Unit) Routine(name string) (*Routine, bool) {
	for _, r := range u.Routines {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Select returns the routines whose name equals or ends in "."+name. An empty
// name selects every routine.
func (u *Unit) Select(name string) []*Routine {
	if name == "" {
		return u.Routines
	}

	var res []*Routine
	for _, r := range u.Routines {
		if r.Name == name || strings.HasSuffix(r.Name, "."+name) {
			res = append(res, r)
		}
	}
	return res
}

// Link establishes parent links in the tree rooted at r. Constructs must not be
// shared between trees.
func Link(r *Routine) {
	r.parent = nil
	var link func(Construct)
	link = func(c Construct) {
		for _, ch := range c.Children() {
			ch.base().parent = c
			link(ch)
		}
	}
	link(r)
}

// Walk visits the tree rooted at c in pre-order. Children of a construct are
// skipped when visit returns false.
func Walk(c Construct, visit func(Construct) bool) {
	if IsAbsent(c) || !visit(c) {
		return
	}
	for _, ch := range c.Children() {
		Walk(ch, visit)
	}
}

// RoutineOf returns the routine enclosing c, following parent links. It
// returns nil for unlinked constructs.
func RoutineOf(c Construct) *Routine {
	for ; !IsAbsent(c); c = c.Parent() {
		if r, ok := c.(*Routine); ok {
			return r
		}
	}
	return nil
}

// Find returns every construct under root for which pred holds, in pre-order.
func Find(root Construct, pred func(Construct) bool) (res []Construct) {
	Walk(root, func(c Construct) bool {
		if pred(c) {
			res = append(res, c)
		}
		return true
	})
	return
}

// FindText returns the first construct under root, in pre-order, of the given
// kind whose source text is txt.
func FindText(root Construct, kind Kind, txt string) (Construct, error) {
	found := Find(root, func(c Construct) bool {
		return c.Kind() == kind && c.Text() == txt
	})
	if len(found) == 0 {
		return nil, fmt.Errorf("no %s with text %q in %s", kind, txt, root)
	}
	return found[0], nil
}

// Dump writes an indented outline of the tree rooted at c.
func Dump(c Construct) string {
	var sb strings.Builder
	var dump func(Construct, int)
	dump = func(c Construct, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(c.String())
		sb.WriteByte('\n')
		for _, ch := range c.Children() {
			dump(ch, depth+1)
		}
	}
	dump(c, 0)
	return sb.String()
}
