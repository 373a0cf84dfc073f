package internal

import (
	"go/ast"
	"go/token"

	"github.com/etalint/etalint/internal/lints"
	tt "github.com/etalint/etalint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(filename string, node *ast.File, fset *token.FileSet) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity attached to the rule's issues.
	Severity() tt.Severity

	// SetSeverity overrides the rule's default severity.
	SetSeverity(severity tt.Severity)
}

type RedundantClosureRule struct {
	severity tt.Severity
}

func NewRedundantClosureRule() LintRule {
	return &RedundantClosureRule{severity: tt.SeverityWarning}
}

func (r *RedundantClosureRule) Check(filename string, node *ast.File, fset *token.FileSet) ([]tt.Issue, error) {
	return lints.DetectRedundantClosure(filename, node, fset, r.severity)
}

func (r *RedundantClosureRule) Name() string {
	return "redundant-closure"
}

func (r *RedundantClosureRule) Severity() tt.Severity {
	return r.severity
}

func (r *RedundantClosureRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}

// RedundantClosureForMethodCallsRule reports closures forwarding to a single
// method call. Off by default because the rewrite has to name the receiver
// type, which reads worse than the closure in some codebases. Enable it per
// project via the config file.
type RedundantClosureForMethodCallsRule struct {
	severity tt.Severity
}

func NewRedundantClosureForMethodCallsRule() LintRule {
	return &RedundantClosureForMethodCallsRule{severity: tt.SeverityOff}
}

func (r *RedundantClosureForMethodCallsRule) Check(filename string, node *ast.File, fset *token.FileSet) ([]tt.Issue, error) {
	return lints.DetectRedundantClosureForMethods(filename, node, fset, r.severity)
}

func (r *RedundantClosureForMethodCallsRule) Name() string {
	return "redundant-closure-for-method-calls"
}

func (r *RedundantClosureForMethodCallsRule) Severity() tt.Severity {
	return r.severity
}

func (r *RedundantClosureForMethodCallsRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
