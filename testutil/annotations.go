package testutil

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/syntax"
)

type Annotation interface {
	Name() string
	Note() *Note
	// Returns related annotations (created from notes on the same line).
	Related() annList
	// The outermost statement on the annotated line.
	Statement() (syntax.Construct, bool)
	Manager() NotesManager
	String() string
}

type annList []Annotation

func (l annList) Exists(pred func(Annotation) bool) bool {
	_, found := l.Find(pred)
	return found
}

func (l annList) Find(pred func(Annotation) bool) (Annotation, bool) {
	for _, a := range l {
		if pred(a) {
			return a, true
		}
	}
	return nil, false
}

type basicAnnotation struct {
	note *Note
	mgr  NotesManager
}

func (a basicAnnotation) Name() string          { return a.note.Name }
func (a basicAnnotation) Note() *Note           { return a.note }
func (a basicAnnotation) Manager() NotesManager { return a.mgr }
func (a basicAnnotation) Related() annList      { return a.mgr.Related(a.note) }

func (a basicAnnotation) Statement() (syntax.Construct, bool) {
	return a.mgr.StatementOn(a.note)
}

func (a basicAnnotation) String() string {
	return At(a.note.Name + "(" + strings.Join(a.note.Args, ", ") + ")")
}

// AnnLive lists the variables live before the annotated statement.
type AnnLive struct {
	basicAnnotation
	vars []string
}

func (a AnnLive) Vars() []string { return a.vars }

// AnnNullness states the nullness of a variable after the annotated statement.
type AnnNullness struct {
	basicAnnotation
	variable string
	value    string
}

func (a AnnNullness) Var() string   { return a.variable }
func (a AnnNullness) Value() string { return a.value }

// AnnDead marks a branch of the condition on the annotated line as dead.
type AnnDead struct {
	basicAnnotation
	label cfg.Label
}

func (a AnnDead) Label() cfg.Label { return a.label }

// AnnUnreachable marks a statement no execution reaches.
type AnnUnreachable struct {
	basicAnnotation
}

func (n NotesManager) CreateAnnotation(note *Note) (Annotation, error) {
	basic := basicAnnotation{note, n}

	switch note.Name {
	case id_LIVE:
		return AnnLive{basic, note.Args}, nil

	case id_NULLNESS:
		if len(note.Args) != 2 {
			return nil, fmt.Errorf("%s: expected a variable and a value", note)
		}
		return AnnNullness{basic, note.Args[0], note.Args[1]}, nil

	case id_DEAD:
		if len(note.Args) != 1 {
			return nil, fmt.Errorf("%s: expected a branch label", note)
		}
		for _, l := range []cfg.Label{cfg.True, cfg.False} {
			if strings.EqualFold(l.String(), note.Args[0]) {
				return AnnDead{basic, l}, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not a branch label", note, note.Args[0])

	case id_UNREACHABLE:
		return AnnUnreachable{basic}, nil
	}

	return nil, fmt.Errorf("unknown annotation %s", note)
}
