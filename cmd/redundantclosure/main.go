// Command redundantclosure runs the redundant closure analyzer as a
// standalone go/analysis driver, so it can also be used with
// `go vet -vettool`.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/etalint/etalint/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
