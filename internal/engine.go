package internal

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/etalint/etalint/internal/lints"
	"github.com/etalint/etalint/internal/nolint"
	tt "github.com/etalint/etalint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	rules        map[string]LintRule
	ignoredRules map[string]bool

	ignorePatterns []string
	ignoreMatcher  *ignore.GitIgnore

	cache  *Cache
	logger *zap.Logger

	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
}

// NewEngine creates a new lint engine.
func NewEngine(rootDir string, source []byte, rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{logger: zap.NewNop()}
	engine.applyRules(rules)

	return engine, nil
}

// SetLogger replaces the engine logger. The zero logger is a no-op.
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// EnableCache loads (or creates) a result cache under cacheDir. Files whose
// content hash is unchanged since the cached run are not re-analyzed.
func (e *Engine) EnableCache(cacheDir string) error {
	cache, err := NewCache(cacheDir)
	if err != nil {
		return err
	}
	e.cache = cache
	return nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"redundant-closure":                  NewRedundantClosureRule,
	"redundant-closure-for-method-calls": NewRedundantClosureForMethodCallsRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			newRule := newRuleCstr()
			newRule.SetSeverity(rule.Severity)
			if rule.Severity != tt.SeverityOff {
				e.rules[key] = newRule
			}
		} else {
			if rule.Severity == tt.SeverityOff {
				e.IgnoreRule(key)
			}
			r.SetSeverity(rule.Severity)
		}
	}
}

func (e *Engine) registerDefaultRules() {
	// iterate over allRuleConstructors and add them to the rules map if severity is not off
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			return issues, nil
		}
	}

	node, fset, err := lints.ParseFile(filename, nil)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	issues := e.runRules(filename, node, fset)

	if e.cache != nil {
		if err := e.cache.Set(filename, issues); err != nil {
			e.logger.Warn("failed to update lint cache", zap.String("file", filename), zap.Error(err))
		}
	}

	return issues, nil
}

// RunSource applies all lint rules to the given source and returns a slice of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	node, fset, err := lints.ParseFile("", source)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}

	return e.runRules("", node, fset), nil
}

// runRules applies every registered rule to one parsed file. Rules run
// concurrently; the nolint manager is per call so that distinct files can be
// linted from concurrent goroutines sharing the engine.
func (e *Engine) runRules(filename string, node *ast.File, fset *token.FileSet) []tt.Issue {
	nolintMgr := nolint.ParseComments(node, fset)

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			if e.ignoredRules[r.Name()] {
				return
			}
			issues, err := r.Check(filename, node, fset)
			if err != nil {
				return
			}

			nolinted := filterNolintIssues(nolintMgr, issues)

			mu.Lock()
			allIssues = append(allIssues, nolinted...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	return allIssues
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath adds a gitignore-style pattern; files matching any added
// pattern are skipped by Run.
func (e *Engine) IgnorePath(pattern string) {
	if pattern == "" {
		return
	}
	e.ignorePatterns = append(e.ignorePatterns, pattern)
	e.ignoreMatcher = ignore.CompileIgnoreLines(e.ignorePatterns...)
}

func (e *Engine) isIgnoredPath(filename string) bool {
	if e.ignoreMatcher == nil {
		return false
	}
	return e.ignoreMatcher.MatchesPath(filename)
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		pos := token.Position{
			Filename: issue.Filename,
			Line:     issue.Start.Line,
		}
		if !mgr.IsNolint(pos, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
