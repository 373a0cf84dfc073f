package fixer

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"sort"

	tt "github.com/etalint/etalint/internal/types"
)

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for applying suggestions
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
	}
}

// Fix replaces each issue's byte span with its suggestion. Spans are applied
// back to front so earlier offsets stay valid, and a span overlapping an
// already rewritten one is skipped. The result is reformatted before it is
// written back; a file with no applicable suggestion is left untouched.
func (f *Fixer) Fix(filename string, issues []tt.Issue) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Start.Offset > issues[j].Start.Offset
	})

	applied := 0
	lastStart := len(content)

	for _, issue := range issues {
		if issue.Confidence < f.MinConfidence || issue.Suggestion == "" {
			continue
		}

		start, end := issue.Start.Offset, issue.End.Offset
		if start < 0 || end > len(content) || start >= end || end > lastStart {
			continue
		}

		if f.DryRun {
			fmt.Printf("Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Printf("Replacement: %s\n", issue.Suggestion)
			continue
		}

		content = append(content[:start], append([]byte(issue.Suggestion), content[end:]...)...)
		lastStart = start
		applied++
	}

	if f.DryRun || applied == 0 {
		return nil
	}

	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, filename, content, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, astFile); err != nil {
		return fmt.Errorf("failed to format file: %w", err)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Fixed issues in %s\n", filename)
	return nil
}
