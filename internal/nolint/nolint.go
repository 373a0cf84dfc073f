// Package nolint implements //nolint comment handling. A directive may name
// the rules it suppresses (//nolint:rule-a,rule-b) or suppress every rule
// (//nolint). Its scope is the commented line, the statement or declaration
// directly below a standalone directive, or the whole file when the
// directive appears before the package clause.
package nolint

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//nolint"

// Manager answers whether an issue position falls inside a nolint scope.
type Manager struct {
	// scopes maps filename to the nolint scopes found in that file.
	scopes map[string][]scope
}

// scope is a line range during which a set of rules is suppressed. An empty
// rule set suppresses every rule.
type scope struct {
	rules     map[string]struct{}
	filename  string
	startLine int
	endLine   int
}

// ParseComments collects the nolint directives of the given file.
func ParseComments(f *ast.File, fset *token.FileSet) *Manager {
	m := &Manager{
		scopes: make(map[string][]scope, len(f.Comments)),
	}
	nodes := indexNodesByLine(f, fset)
	packageLine := fset.Position(f.Package).Line

	for _, cg := range f.Comments {
		for _, comment := range cg.List {
			rules, ok := parseDirective(comment.Text)
			if !ok {
				// not a (valid) nolint comment
				continue
			}
			s := resolveScope(comment, f, fset, nodes, packageLine)
			s.rules = rules
			m.scopes[s.filename] = append(m.scopes[s.filename], s)
		}
	}
	return m
}

// IsNolint reports whether the rule is suppressed at the given position.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	for _, s := range m.scopes[pos.Filename] {
		if pos.Line < s.startLine || pos.Line > s.endLine {
			continue
		}
		if len(s.rules) == 0 {
			return true
		}
		if _, ok := s.rules[ruleName]; ok {
			return true
		}
	}
	return false
}

// parseDirective validates a comment against the nolint syntax and returns
// the named rules. A bare //nolint yields an empty set.
func parseDirective(text string) (map[string]struct{}, bool) {
	if !strings.HasPrefix(text, directivePrefix) {
		return nil, false
	}

	rest := text[len(directivePrefix):]
	if rest == "" {
		return map[string]struct{}{}, true
	}
	if rest[0] != ':' {
		return nil, false
	}

	rules := make(map[string]struct{})
	for _, name := range strings.Split(rest[1:], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			rules[name] = struct{}{}
		}
	}
	if len(rules) == 0 {
		// a colon with nothing usable after it
		return nil, false
	}
	return rules, true
}

// resolveScope determines the line range a directive applies to.
func resolveScope(
	comment *ast.Comment,
	f *ast.File,
	fset *token.FileSet,
	nodes map[int]ast.Node,
	packageLine int,
) scope {
	pos := fset.Position(comment.Slash)
	s := scope{filename: pos.Filename, startLine: pos.Line, endLine: pos.Line}

	// Before the package clause the directive covers the whole file.
	if pos.Line < packageLine {
		s.startLine = fset.Position(f.Pos()).Line
		s.endLine = fset.Position(f.End()).Line
		return s
	}

	// Inline directive: extend over the commented statement or declaration.
	if node, ok := nodes[pos.Line]; ok {
		if fset.Position(node.Pos()).Offset < pos.Offset {
			s.startLine = fset.Position(node.Pos()).Line
			s.endLine = fset.Position(node.End()).Line
			return s
		}
	}

	// Standalone directive: cover the statement or declaration starting on
	// the next line, if any.
	if node, ok := nodes[pos.Line+1]; ok {
		s.endLine = fset.Position(node.End()).Line
		return s
	}

	return s
}

// indexNodesByLine maps each line to the first statement or declaration
// starting on it.
func indexNodesByLine(f *ast.File, fset *token.FileSet) map[int]ast.Node {
	nodes := make(map[int]ast.Node)
	ast.Inspect(f, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		switch n.(type) {
		case ast.Stmt, ast.Decl:
			line := fset.Position(n.Pos()).Line
			if _, ok := nodes[line]; !ok {
				nodes[line] = n
			}
		}
		return true
	})
	return nodes
}
