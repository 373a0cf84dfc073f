package lints

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"os"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/etalint/etalint/internal/eta"
	tt "github.com/etalint/etalint/internal/types"
)

// DetectRedundantClosure reports function literals that merely forward
// their parameters to a plain function call, such as
//
//	apply(xs, func(x int) int { return double(x) })
//
// which can pass double directly.
func DetectRedundantClosure(filename string, node *ast.File, fset *token.FileSet, severity tt.Severity) ([]tt.Issue, error) {
	return detectForwardingClosures(filename, node, fset, severity, false)
}

// DetectRedundantClosureForMethods reports function literals that
// merely forward their parameters to a method call on their first
// parameter, such as
//
//	describe(func(s fmt.Stringer) string { return s.String() })
//
// which can pass the method expression fmt.Stringer.String directly.
// Method rewrites change the call's spelling more drastically, so the
// rule ships disabled and is enabled through configuration.
func DetectRedundantClosureForMethods(filename string, node *ast.File, fset *token.FileSet, severity tt.Severity) ([]tt.Issue, error) {
	return detectForwardingClosures(filename, node, fset, severity, true)
}

func detectForwardingClosures(filename string, node *ast.File, fset *token.FileSet, severity tt.Severity, methods bool) ([]tt.Issue, error) {
	if ast.IsGenerated(node) {
		return nil, nil
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
	}

	conf := types.Config{
		Importer: importer.Default(),
		Error:    func(error) {},
	}
	// Single-file checking is best effort. Expressions the checker
	// could not resolve stay out of the info maps, and candidates
	// touching them are dropped by the conservative queries below.
	pkg, _ := conf.Check("", fset, []*ast.File{node}, info)

	// Suggestions quote the callee the way the author spelled it.
	// In-memory sources have no file to read and fall back to the
	// canonical rendering.
	src, _ := os.ReadFile(filename)

	scope := &fileScope{
		info:    info,
		pkg:     pkg,
		fset:    fset,
		src:     src,
		imports: importNames(node),
	}

	ruleName := "redundant-closure"
	if methods {
		ruleName = "redundant-closure-for-method-calls"
	}

	var issues []tt.Issue
	for _, fc := range findForwardingClosures(scope, node, methods) {
		issues = append(issues, forwardingIssue(filename, fset, fc, severity, ruleName))
	}

	return issues, nil
}

// ForwardedClosure pairs a redundant function literal with the
// replacement synthesized for it. Replacement is empty when the
// callee's spelling could not be recovered.
type ForwardedClosure struct {
	Lit         *ast.FuncLit
	Replacement string
	MethodExpr  bool
}

// FindForwardingClosures inspects one typed file for function literals
// in call-argument position that only forward their parameters. The
// methods flag selects between plain-call and method-call bodies. The
// caller supplies the file's type information; generated files report
// nothing. Replacements spell callees with types.ExprString, since no
// source bytes are available here.
func FindForwardingClosures(info *types.Info, pkg *types.Package, file *ast.File, methods bool) []ForwardedClosure {
	if ast.IsGenerated(file) {
		return nil
	}

	scope := &fileScope{
		info:    info,
		pkg:     pkg,
		imports: importNames(file),
	}
	return findForwardingClosures(scope, file, methods)
}

func findForwardingClosures(scope *fileScope, file *ast.File, methods bool) []ForwardedClosure {
	var found []ForwardedClosure
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		for _, arg := range call.Args {
			lit, ok := arg.(*ast.FuncLit)
			if !ok {
				continue
			}
			closure, query := buildCandidate(scope, lit, methods)
			if closure == nil {
				continue
			}
			finding, ok := eta.Check(query, closure)
			if !ok {
				continue
			}
			found = append(found, ForwardedClosure{
				Lit:         lit,
				Replacement: finding.Replacement,
				MethodExpr:  finding.MethodExpr,
			})
		}
		return true
	})

	return found
}

func forwardingIssue(filename string, fset *token.FileSet, fc ForwardedClosure, severity tt.Severity, rule string) tt.Issue {
	issue := tt.Issue{
		Rule:       rule,
		Category:   "style",
		Filename:   filename,
		Message:    "redundant closure found",
		Suggestion: fc.Replacement,
		Start:      fset.Position(fc.Lit.Pos()),
		End:        fset.Position(fc.Lit.End()),
		Severity:   severity,
		Confidence: 1.0,
	}
	switch {
	case fc.MethodExpr:
		issue.Note = fmt.Sprintf("the function literal only forwards its parameters to %s; use the method expression directly", fc.Replacement)
	case fc.Replacement == "":
		issue.Note = "the function literal only forwards its parameters; call the function directly"
		issue.Confidence = 0.5
	default:
		issue.Note = fmt.Sprintf("the function literal only forwards its parameters to %s; pass the function directly", fc.Replacement)
	}
	return issue
}

// buildCandidate translates a function literal into the engine's
// candidate model. It returns nils for every shape the engine does
// not handle: multi-statement bodies, non-call bodies, dynamic
// callees, struct-field callees, and bare generic callees that cannot
// stand alone as a value.
func buildCandidate(scope *fileScope, lit *ast.FuncLit, methods bool) (*eta.Closure, *closureQuery) {
	call := forwardedCall(lit)
	if call == nil {
		return nil, nil
	}

	litSig, ok := scope.info.TypeOf(lit).(*types.Signature)
	if !ok {
		return nil, nil
	}

	query := &closureQuery{scope: scope, call: call, litSig: litSig}

	if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
		if s := scope.info.Selections[sel]; s != nil {
			if !methods || s.Kind() != types.MethodVal {
				return nil, nil
			}
			fn, ok := s.Obj().(*types.Func)
			if !ok {
				return nil, nil
			}
			msig, ok := fn.Type().(*types.Signature)
			if !ok {
				return nil, nil
			}
			query.calleeSig = msig
			query.selection = s
			body := &eta.MethodCall{
				Expr:     wrapExpr(call),
				Name:     sel.Sel.Name,
				Receiver: wrapExpr(sel.X),
				Args:     wrapExprs(call.Args),
			}
			return &eta.Closure{Params: closureParams(lit), Body: body}, query
		}
	}
	if methods {
		return nil, nil
	}

	fun := astutil.Unparen(call.Fun)
	if !pathLikeCallee(scope.info, fun) {
		return nil, nil
	}
	if typeutil.Callee(scope.info, call) == nil {
		return nil, nil
	}
	calleeSig, _ := scope.info.TypeOf(fun).(*types.Signature)
	query.calleeSig = calleeSig
	body := &eta.Call{
		Expr:   wrapExpr(call),
		Callee: wrapExpr(fun),
		Args:   wrapExprs(call.Args),
	}
	return &eta.Closure{Params: closureParams(lit), Body: body}, query
}

// forwardedCall extracts the lone call expression a candidate body
// consists of, either `return f(args)` or a bare `f(args)` statement.
func forwardedCall(lit *ast.FuncLit) *ast.CallExpr {
	if lit.Body == nil || len(lit.Body.List) != 1 {
		return nil
	}
	switch stmt := lit.Body.List[0].(type) {
	case *ast.ReturnStmt:
		if len(stmt.Results) != 1 {
			return nil
		}
		call, _ := stmt.Results[0].(*ast.CallExpr)
		return call
	case *ast.ExprStmt:
		call, _ := stmt.X.(*ast.CallExpr)
		return call
	default:
		return nil
	}
}

func closureParams(lit *ast.FuncLit) []eta.Param {
	if lit.Type == nil || lit.Type.Params == nil {
		return nil
	}
	var params []eta.Param
	for _, field := range lit.Type.Params.List {
		if len(field.Names) == 0 {
			params = append(params, eta.Param{})
			continue
		}
		for _, name := range field.Names {
			params = append(params, eta.Param{Name: name.Name})
		}
	}
	return params
}

// pathLikeCallee reports whether fun spells a standalone reference: a
// plain identifier, a package-qualified identifier, or an explicit
// generic instantiation of either. Struct-field selectors and
// index expressions over collections do not qualify; evaluating them
// once at rewrite time could observe different state than evaluating
// them on every closure invocation.
func pathLikeCallee(info *types.Info, fun ast.Expr) bool {
	switch f := fun.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		if info.Selections[f] != nil {
			return false
		}
		id, ok := f.X.(*ast.Ident)
		if !ok {
			return false
		}
		_, ok = info.Uses[id].(*types.PkgName)
		return ok
	case *ast.IndexExpr:
		return instantiatedCallee(info, f.X)
	case *ast.IndexListExpr:
		return instantiatedCallee(info, f.X)
	default:
		return false
	}
}

// instantiatedCallee distinguishes f[T] from indexing a map or slice of
// functions: only the former has an instantiation recorded for its
// operand, and only the former is a compile-time expression.
func instantiatedCallee(info *types.Info, x ast.Expr) bool {
	if !pathLikeCallee(info, x) {
		return false
	}
	id := instanceIdent(x)
	if id == nil {
		return false
	}
	_, ok := info.Instances[id]
	return ok
}

// instanceIdent returns the identifier the checker keys an
// instantiation on: a bare reference itself, or the selected name of
// a package-qualified one.
func instanceIdent(x ast.Expr) *ast.Ident {
	switch f := x.(type) {
	case *ast.Ident:
		return f
	case *ast.SelectorExpr:
		return f.Sel
	default:
		return nil
	}
}

// goExpr adapts an ast.Expr to the engine's expression capability.
type goExpr struct {
	node ast.Expr
}

func (e *goExpr) Ident() (string, bool) {
	id, ok := e.node.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func wrapExpr(node ast.Expr) eta.Expr {
	return &goExpr{node: node}
}

func wrapExprs(nodes []ast.Expr) []eta.Expr {
	wrapped := make([]eta.Expr, len(nodes))
	for i, n := range nodes {
		wrapped[i] = wrapExpr(n)
	}
	return wrapped
}

func unwrapExpr(e eta.Expr) ast.Expr {
	ge, ok := e.(*goExpr)
	if !ok || ge == nil {
		return nil
	}
	return ge.node
}

// fileScope carries the per-file typing state shared by all candidate
// queries of one detection pass. fset and src are optional; without
// them, replacements use the canonical expression rendering instead
// of the file's own spelling.
type fileScope struct {
	info    *types.Info
	pkg     *types.Package
	fset    *token.FileSet
	src     []byte
	imports map[string]string // import path -> local name; "" keeps the package's own name
}

// sliceSource returns the bytes src holds for node, the spelling the
// author wrote. Offsets are only meaningful against the exact bytes
// the file was parsed from, so a size mismatch rejects the slice.
func (s *fileScope) sliceSource(node ast.Expr) (string, bool) {
	if s.fset == nil || len(s.src) == 0 {
		return "", false
	}
	file := s.fset.File(node.Pos())
	if file == nil || file.Size() != len(s.src) {
		return "", false
	}
	start := file.Offset(node.Pos())
	end := file.Offset(node.End())
	if start < 0 || end > len(s.src) || start >= end {
		return "", false
	}
	return string(s.src[start:end]), true
}

func importNames(node *ast.File) map[string]string {
	names := make(map[string]string, len(node.Imports))
	for _, imp := range node.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := ""
		if imp.Name != nil {
			name = imp.Name.Name
		}
		names[path] = name
	}
	return names
}

// spell renders t the way this file can reference it. It returns ""
// when a named component is not reachable through the file's imports.
func (s *fileScope) spell(t types.Type) string {
	missing := false
	out := types.TypeString(t, func(p *types.Package) string {
		if p == nil || p == s.pkg {
			return ""
		}
		alias, ok := s.imports[p.Path()]
		if !ok {
			missing = true
			return p.Name()
		}
		switch alias {
		case "":
			return p.Name()
		case ".":
			return ""
		case "_":
			missing = true
			return p.Name()
		default:
			return alias
		}
	})
	if missing {
		return ""
	}
	return out
}

// describe maps a host type onto the engine's structural descriptor.
func (s *fileScope) describe(t types.Type) eta.TypeDesc {
	switch u := unalias(t).(type) {
	case *types.Named:
		return eta.TypeDesc{
			Kind: eta.KindNominal,
			ID:   types.TypeString(u, nil),
			Name: s.spell(u),
		}
	case *types.Pointer:
		elem := s.describe(u.Elem())
		return eta.TypeDesc{Kind: eta.KindRef, Elem: &elem}
	case *types.Slice:
		elem := s.describe(u.Elem())
		return eta.TypeDesc{Kind: eta.KindSlice, Elem: &elem}
	case *types.Array:
		elem := s.describe(u.Elem())
		return eta.TypeDesc{Kind: eta.KindArray, Elem: &elem}
	case *types.Basic:
		return describeBasic(u)
	default:
		return eta.TypeDesc{}
	}
}

func describeBasic(b *types.Basic) eta.TypeDesc {
	switch b.Kind() {
	case types.Bool:
		return eta.TypeDesc{Kind: eta.KindBool}
	case types.String:
		return eta.TypeDesc{Kind: eta.KindStr}
	case types.Int:
		return eta.TypeDesc{Kind: eta.KindInt}
	case types.Int8:
		return eta.TypeDesc{Kind: eta.KindInt, Bits: 8}
	case types.Int16:
		return eta.TypeDesc{Kind: eta.KindInt, Bits: 16}
	case types.Int32:
		return eta.TypeDesc{Kind: eta.KindInt, Bits: 32}
	case types.Int64:
		return eta.TypeDesc{Kind: eta.KindInt, Bits: 64}
	case types.Uint:
		return eta.TypeDesc{Kind: eta.KindUint}
	case types.Uint8:
		return eta.TypeDesc{Kind: eta.KindUint, Bits: 8}
	case types.Uint16:
		return eta.TypeDesc{Kind: eta.KindUint, Bits: 16}
	case types.Uint32:
		return eta.TypeDesc{Kind: eta.KindUint, Bits: 32}
	case types.Uint64:
		return eta.TypeDesc{Kind: eta.KindUint, Bits: 64}
	default:
		return eta.TypeDesc{}
	}
}

// closureQuery answers the engine's type questions for one candidate.
type closureQuery struct {
	scope     *fileScope
	call      *ast.CallExpr
	calleeSig *types.Signature
	selection *types.Selection
	litSig    *types.Signature
}

func (q *closureQuery) Adjusted(e eta.Expr) bool {
	node := unwrapExpr(e)
	if node == nil {
		return true
	}
	if node == q.call {
		return q.callAdjusted()
	}
	return q.argAdjusted(node)
}

// callAdjusted reports a shape difference between the closure and the
// callee that the argument scan cannot see: result types and
// variadicity. A mismatch means the bare callee would not have the
// closure's type.
func (q *closureQuery) callAdjusted() bool {
	if q.calleeSig == nil {
		return true
	}
	if q.litSig.Variadic() != q.calleeSig.Variadic() {
		return true
	}
	return !identicalTuples(q.litSig.Results(), q.calleeSig.Results())
}

func (q *closureQuery) argAdjusted(arg ast.Expr) bool {
	if q.calleeSig == nil {
		return true
	}
	idx := -1
	for i, a := range q.call.Args {
		if a == arg {
			idx = i
			break
		}
	}
	if idx < 0 {
		return true
	}
	params := q.calleeSig.Params()
	if idx >= params.Len() {
		return true
	}
	at := q.scope.info.TypeOf(arg)
	if at == nil {
		return true
	}
	return !types.Identical(types.Default(at), params.At(idx).Type())
}

func (q *closureQuery) FuncKind(e eta.Expr) bool {
	node := unwrapExpr(e)
	if node == nil {
		return false
	}
	tv, ok := q.scope.info.Types[node]
	if !ok || !tv.IsValue() {
		return false
	}
	if _, ok := tv.Type.(*types.Signature); !ok {
		return false
	}
	// A generic function without explicit type arguments cannot stand
	// alone as a value, whether spelled bare or package-qualified.
	if id := instanceIdent(node); id != nil {
		if _, instantiated := q.scope.info.Instances[id]; instantiated {
			return false
		}
	}
	return true
}

func (q *closureQuery) UnsafeFunc(e eta.Expr) bool {
	node := unwrapExpr(e)
	if node == nil {
		return true
	}
	sig, ok := q.scope.info.TypeOf(node).(*types.Signature)
	if !ok {
		return true
	}
	return signatureMentionsUnsafe(sig)
}

func (q *closureQuery) Method(call *eta.MethodCall) (eta.MethodSig, bool) {
	s := q.selection
	if s == nil || s.Kind() != types.MethodVal {
		return eta.MethodSig{}, false
	}
	fn, ok := s.Obj().(*types.Func)
	if !ok {
		return eta.MethodSig{}, false
	}
	msig, ok := fn.Type().(*types.Signature)
	if !ok || msig.Recv() == nil {
		return eta.MethodSig{}, false
	}
	recvType := msig.Recv().Type()
	sig := eta.MethodSig{
		Self:   q.scope.describe(recvType),
		Unsafe: signatureMentionsUnsafe(msig),
	}
	if types.IsInterface(recvType) {
		// The rewrite must spell the receiver's own interface type. A
		// method expression on the declaring interface, which may be
		// reached through embedding, would not have the closure's
		// type.
		if recv := unwrapExpr(call.Receiver); recv != nil {
			if actual := q.scope.info.TypeOf(recv); actual != nil && types.IsInterface(actual) {
				if _, named := unalias(actual).(*types.Named); named {
					sig.Trait = q.scope.spell(actual)
				}
			}
		}
	} else {
		sig.Inherent = true
	}
	return sig, true
}

func (q *closureQuery) TypeOf(e eta.Expr) eta.TypeDesc {
	node := unwrapExpr(e)
	if node == nil {
		return eta.TypeDesc{}
	}
	t := q.scope.info.TypeOf(node)
	if t == nil {
		return eta.TypeDesc{}
	}
	return q.scope.describe(t)
}

func (q *closureQuery) SourceText(e eta.Expr) (string, bool) {
	node := unwrapExpr(e)
	if node == nil {
		return "", false
	}
	if s, ok := q.scope.sliceSource(node); ok {
		return s, true
	}
	s := types.ExprString(node)
	return s, s != ""
}

func identicalTuples(a, b *types.Tuple) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !types.Identical(a.At(i).Type(), b.At(i).Type()) {
			return false
		}
	}
	return true
}

// signatureMentionsUnsafe reports whether any parameter or result of
// sig involves unsafe.Pointer. Named types are not unfolded.
func signatureMentionsUnsafe(sig *types.Signature) bool {
	return tupleMentionsUnsafe(sig.Params()) || tupleMentionsUnsafe(sig.Results())
}

func tupleMentionsUnsafe(t *types.Tuple) bool {
	for i := 0; i < t.Len(); i++ {
		if typeMentionsUnsafe(t.At(i).Type()) {
			return true
		}
	}
	return false
}

func typeMentionsUnsafe(t types.Type) bool {
	switch u := unalias(t).(type) {
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	case *types.Pointer:
		return typeMentionsUnsafe(u.Elem())
	case *types.Slice:
		return typeMentionsUnsafe(u.Elem())
	case *types.Array:
		return typeMentionsUnsafe(u.Elem())
	case *types.Map:
		return typeMentionsUnsafe(u.Key()) || typeMentionsUnsafe(u.Elem())
	case *types.Chan:
		return typeMentionsUnsafe(u.Elem())
	case *types.Signature:
		return tupleMentionsUnsafe(u.Params()) || tupleMentionsUnsafe(u.Results())
	default:
		return false
	}
}

// unalias stands in for go/types.Unalias, which requires Go 1.22. Type
// checkers before Go 1.22 never materialize *types.Alias nodes, so
// resolving aliases there is the identity.
func unalias(t types.Type) types.Type { return t }
