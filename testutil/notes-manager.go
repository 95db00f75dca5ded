package testutil

import (
	"fmt"
	"go/token"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/cs-au-dk/flow/analysis/syntax"

	"golang.org/x/tools/go/expect"
)

// Note is a //@ name(args...) annotation found in a source comment.
type Note struct {
	Name string
	Args []string
	Line int
}

func (n *Note) String() string {
	return fmt.Sprintf("%s(%s) at line %d", n.Name, strings.Join(n.Args, ", "), n.Line)
}

// A NoteExtractor finds the notes in a source file.
type NoteExtractor func(path string, src []byte) ([]*Note, error)

// GoNotes extracts notes with the go/expect note syntax.
func GoNotes(path string, src []byte) ([]*Note, error) {
	fset := token.NewFileSet()
	notes, err := expect.Parse(fset, path, src)
	if err != nil {
		return nil, err
	}

	res := make([]*Note, 0, len(notes))
	for _, n := range notes {
		note := &Note{Name: n.Name, Line: fset.Position(n.Pos).Line}
		for _, arg := range n.Args {
			note.Args = append(note.Args, fmt.Sprint(arg))
		}
		res = append(res, note)
	}
	return res, nil
}

var (
	javaNoteComment = regexp.MustCompile(`//@(.*)$`)
	javaNote        = regexp.MustCompile(`(\w+)\s*(?:\(([^)]*)\))?`)
)

// JavaNotes extracts notes from line comments. A comment may contain several
// comma separated notes.
func JavaNotes(path string, src []byte) ([]*Note, error) {
	var res []*Note
	for i, line := range strings.Split(string(src), "\n") {
		m := javaNoteComment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, nm := range javaNote.FindAllStringSubmatch(m[1], -1) {
			note := &Note{Name: nm[1], Line: i + 1}
			if strings.TrimSpace(nm[2]) != "" {
				for _, arg := range strings.Split(nm[2], ",") {
					note.Args = append(note.Args, strings.Trim(strings.TrimSpace(arg), `"`))
				}
			}
			res = append(res, note)
		}
	}
	return res, nil
}

type NotesManager struct {
	unit  *syntax.Unit
	anns  map[*Note]Annotation
	notes []*Note

	// Book-keeping of notes on the same line
	related map[*Note]map[*Note]struct{}
}

func MakeNotesManager(t *testing.T, unit *syntax.Unit, extract NoteExtractor) (n NotesManager) {
	t.Helper()

	notes, err := extract(unit.Path, unit.Source)
	if err != nil {
		t.Fatal(err)
	}

	n.unit = unit
	n.notes = notes
	n.anns = make(map[*Note]Annotation)
	n.related = make(map[*Note]map[*Note]struct{})

	for _, note1 := range n.notes {
		n.related[note1] = make(map[*Note]struct{})
		for _, note2 := range n.notes {
			if note1 != note2 && note1.Line == note2.Line {
				n.related[note1][note2] = struct{}{}
			}
		}
	}

	for _, note := range n.notes {
		ann, err := n.CreateAnnotation(note)
		if err != nil {
			t.Fatal(err)
		}
		n.anns[note] = ann
	}
	return
}

func (n NotesManager) ForEachNote(do func(i int, note *Note)) {
	for i, note := range n.notes {
		do(i, note)
	}
}

// ForEachAnnotation visits annotations in source order.
func (n NotesManager) ForEachAnnotation(do func(a Annotation)) {
	for _, note := range n.notes {
		do(n.anns[note])
	}
}

func (n NotesManager) AnnotationOf(note *Note) Annotation {
	return n.anns[note]
}

func (n NotesManager) Notes() []*Note {
	return n.notes
}

// FindNote returns the first note satisfying pred.
func (n NotesManager) FindNote(pred func(*Note) bool) (*Note, bool) {
	for _, note := range n.notes {
		if pred(note) {
			return note, true
		}
	}
	return nil, false
}

// ConstructsOn returns the constructs starting on the line of the note, in
// pre-order.
func (n NotesManager) ConstructsOn(note *Note) []syntax.Construct {
	var res []syntax.Construct
	for _, r := range n.unit.Routines {
		res = append(res, syntax.Find(r, func(c syntax.Construct) bool {
			return c.Span().Line == note.Line
		})...)
	}
	return res
}

// StatementOn returns the outermost statement starting on the line of the note.
func (n NotesManager) StatementOn(note *Note) (syntax.Construct, bool) {
	for _, c := range n.ConstructsOn(note) {
		if isStatement(c.Kind()) {
			return c, true
		}
	}
	return nil, false
}

func isStatement(k syntax.Kind) bool {
	switch k {
	case syntax.KindRoutine, syntax.KindBlock, syntax.KindCase, syntax.KindCatch:
		return false
	}
	return k < syntax.KindName
}

func (n NotesManager) String() (str string) {
	str = "Note manager found the following notes:\n\n"
	for _, note := range n.notes {
		str += note.String() + ", on the following constructs:\n"
		for _, c := range n.ConstructsOn(note) {
			str += "- " + syntax.Summary(c) + "\n"
		}
		str += "Annotation:\n" + n.anns[note].String() + "\n"
	}
	return
}

// Related returns the annotations on the same line as the note, sorted by name.
func (n NotesManager) Related(note *Note) annList {
	as := make(annList, 0, len(n.related[note]))
	for n2 := range n.related[note] {
		as = append(as, n.anns[n2])
	}
	sort.Slice(as, func(i, j int) bool {
		return as[i].Name() < as[j].Name()
	})
	return as
}
