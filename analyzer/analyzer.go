// Package analyzer exposes redundant closure detection as a
// golang.org/x/tools/go/analysis pass, for use with go vet, multicheckers,
// and editor integrations.
package analyzer

import (
	"fmt"
	"go/ast"

	"golang.org/x/tools/go/analysis"

	"github.com/etalint/etalint/internal/lints"
)

var Analyzer = &analysis.Analyzer{
	Name: "redundantclosure",
	Doc:  "report function literals that only forward their parameters to another function or method",
	Run:  run,
}

var methods bool

func init() {
	Analyzer.Flags.BoolVar(&methods, "methods", false,
		"also report closures forwarding to a method call on their first parameter")
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		report(pass, file, false)
		if methods {
			report(pass, file, true)
		}
	}
	return nil, nil
}

func report(pass *analysis.Pass, file *ast.File, methodCalls bool) {
	for _, fc := range lints.FindForwardingClosures(pass.TypesInfo, pass.Pkg, file, methodCalls) {
		diag := analysis.Diagnostic{
			Pos:     fc.Lit.Pos(),
			End:     fc.Lit.End(),
			Message: "redundant closure found",
		}
		if fc.Replacement != "" {
			diag.SuggestedFixes = []analysis.SuggestedFix{{
				Message: fmt.Sprintf("replace the function literal with %s", fc.Replacement),
				TextEdits: []analysis.TextEdit{{
					Pos:     fc.Lit.Pos(),
					End:     fc.Lit.End(),
					NewText: []byte(fc.Replacement),
				}},
			}}
		}
		pass.Report(diag)
	}
}
