// Package eta decides whether a function literal is a redundant
// wrapper around the single call in its body, that is, whether
//
//	func(a, b T) R { return f(a, b) }
//
// can be replaced by f itself with no change in behavior.
//
// The package is deliberately host-agnostic. It never inspects a
// syntax tree or a type checker directly; hosts translate each
// candidate closure into the small expression model defined here
// (Closure, Call, MethodCall) and answer semantic questions through
// the TypeQuery interface. This keeps the decision rules testable in
// isolation and reusable across different analysis pipelines.
//
// Two detectors cover the two body shapes. The direct-call detector
// handles bodies of the form callee(args) and suggests the callee's
// own spelling. The method-call detector handles receiver.name(args)
// bodies and synthesizes a method expression such as T.Name,
// (*T).Name, or Iface.Name, abstaining whenever no spelling is
// guaranteed to denote the same method.
//
// Every check is conservative: any shape or type question that cannot
// be answered in the affirmative makes the candidate silently
// non-redundant. Detection never returns an error.
//
// All functions are pure and all types immutable after construction,
// so distinct candidates may be checked concurrently as long as the
// TypeQuery implementation tolerates concurrent reads.
package eta
