package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/frontend/golang"
	"github.com/cs-au-dk/flow/frontend/java"
)

// pipeline loads source files and selects the routines a task runs on.
type pipeline struct {
	ctx context.Context
	// lang forces the frontend. It is inferred from the file extension if empty.
	lang string
	// fun selects routines by (suffix of their) qualified name.
	fun string
}

// language picks the frontend for a file.
func (p pipeline) language(path string) (string, error) {
	if p.lang != "" {
		return p.lang, nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".java":
		return "java", nil
	case ".go":
		return "go", nil
	default:
		return "", fmt.Errorf("cannot infer the language of %s from extension %q, use -lang", path, ext)
	}
}

// load reads and parses a source file.
func (p pipeline) load(path string) (*syntax.Unit, error) {
	lang, err := p.language(path)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch lang {
	case "java":
		return java.Parse(p.ctx, src, path)
	case "go":
		return golang.Parse(src, path)
	}
	return nil, fmt.Errorf("unsupported language %q", lang)
}

// routines selects the routines of unit named by -fun.
func (p pipeline) routines(unit *syntax.Unit) ([]*syntax.Routine, error) {
	rs := unit.Select(p.fun)
	if len(rs) == 0 {
		if p.fun == "" {
			return nil, fmt.Errorf("%s contains no routines", unit.Path)
		}
		return nil, fmt.Errorf("%s contains no routine named %s", unit.Path, p.fun)
	}
	return rs, nil
}
