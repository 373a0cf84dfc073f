// Package internal implements the etalint engine.
//
// The engine owns the rule registry, parses each file once and runs every
// registered rule against the parsed tree. Rules run concurrently per file;
// the engine filters their issues through //nolint directives, an ignore-rule
// set and a gitignore-style path matcher before returning them. An optional
// content-hash cache skips files that have not changed since the last run,
// and a filesystem watcher re-lints files as they are written.
//
// Key components:
//
// Engine: coordinates parsing, rule execution, nolint filtering, the result
// cache and the watch loop.
//
// LintRule: the contract rules implement. Each rule checks one parsed file
// and returns the issues it found. The shipped rules wrap the detectors in
// internal/lints, which in turn drive the decision core in internal/eta.
//
// Usage:
//
//	engine, err := internal.NewEngine(".", nil, rules)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.go")
//	if err != nil {
//	    // handle error
//	}
//
// This package is intended for internal use within etalint and should not be
// imported by external packages.
package internal
