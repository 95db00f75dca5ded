// Package testutil loads source snippets for tests, and extracts the
// annotations embedded in their comments.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/frontend/golang"
	"github.com/cs-au-dk/flow/frontend/java"
)

type LoadResult struct {
	Unit  *syntax.Unit
	Notes NotesManager
}

// LoadJava parses a Java compilation unit.
func LoadJava(t *testing.T, src string) LoadResult {
	t.Helper()
	unit, err := java.Parse(context.Background(), []byte(src), "Test.java")
	if err != nil {
		t.Fatalf("Failed to parse snippet: %v\n%s", err, src)
	}
	return LoadResult{unit, MakeNotesManager(t, unit, JavaNotes)}
}

// LoadJavaBody wraps the given statements in the method T.m with the given
// parameter list. The first line of body is line 2 of the unit.
func LoadJavaBody(t *testing.T, params string, body string) LoadResult {
	t.Helper()
	return LoadJava(t, fmt.Sprintf("class T { void m(%s) {\n%s\n} }", params, body))
}

// LoadGo parses a Go source file.
func LoadGo(t *testing.T, src string) LoadResult {
	t.Helper()
	unit, err := golang.Parse([]byte(src), "test.go")
	if err != nil {
		t.Fatalf("Failed to parse snippet: %v\n%s", err, src)
	}
	return LoadResult{unit, MakeNotesManager(t, unit, GoNotes)}
}

// Routine retrieves a routine by name, or the single routine of the unit if
// name is empty.
func (res LoadResult) Routine(t *testing.T, name string) *syntax.Routine {
	t.Helper()
	return Routine(t, res.Unit, name)
}

func Routine(t *testing.T, unit *syntax.Unit, name string) *syntax.Routine {
	t.Helper()
	rs := unit.Select(name)
	if len(rs) != 1 {
		t.Fatalf("Expected exactly one routine matching %q, found %d", name, len(rs))
	}
	return rs[0]
}

// Find retrieves the first construct of the given kind below root whose source
// text is txt.
func Find(t *testing.T, root syntax.Construct, kind syntax.Kind, txt string) syntax.Construct {
	t.Helper()
	c, err := syntax.FindText(root, kind, txt)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// FindName retrieves the first reference to the given identifier below root.
func FindName(t *testing.T, root syntax.Construct, ident string) *syntax.Name {
	t.Helper()
	return Find(t, root, syntax.KindName, ident).(*syntax.Name)
}

// Source numbers the lines of a snippet, for failure messages.
func Source(unit *syntax.Unit) string {
	var sb strings.Builder
	for i, line := range strings.Split(string(unit.Source), "\n") {
		fmt.Fprintf(&sb, "%3d  %s\n", i+1, line)
	}
	return sb.String()
}
