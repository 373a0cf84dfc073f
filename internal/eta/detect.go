package eta

// Finding reports a closure that only forwards its parameters and can
// be replaced by a direct reference.
type Finding struct {
	// Replacement is the reference to write in place of the closure.
	// Empty when the callee's spelling could not be recovered; the
	// redundancy itself still holds.
	Replacement string
	// MethodExpr reports that Replacement is a synthesized method
	// expression rather than the callee's verbatim spelling.
	MethodExpr bool
}

// Check decides whether a candidate closure is redundant. It returns
// the finding and true on success. Every precondition failure is a
// plain false with no error; the detectors abstain from anything they
// cannot prove.
func Check(q TypeQuery, c *Closure) (Finding, bool) {
	if q == nil || c == nil {
		return Finding{}, false
	}
	switch body := c.Body.(type) {
	case *Call:
		return checkCall(q, c.Params, body)
	case *MethodCall:
		return checkMethod(q, c.Params, body)
	default:
		return Finding{}, false
	}
}

func checkCall(q TypeQuery, params []Param, call *Call) (Finding, bool) {
	if call.Callee == nil || len(call.Args) != len(params) {
		return Finding{}, false
	}
	if q.Adjusted(call.Expr) || anyAdjusted(q, call.Args) {
		return Finding{}, false
	}
	if !q.FuncKind(call.Callee) || q.UnsafeFunc(call.Callee) {
		return Finding{}, false
	}
	if !forwards(params, call.Args) {
		return Finding{}, false
	}
	text, _ := q.SourceText(call.Callee)
	return Finding{Replacement: text}, true
}

func checkMethod(q TypeQuery, params []Param, call *MethodCall) (Finding, bool) {
	if call.Receiver == nil || call.Name == "" {
		return Finding{}, false
	}
	full := make([]Expr, 0, len(call.Args)+1)
	full = append(full, call.Receiver)
	full = append(full, call.Args...)
	if len(full) != len(params) {
		return Finding{}, false
	}
	// The receiver slot is exempt from the adjustment scan. The
	// matcher below still requires it to name the first parameter.
	if q.Adjusted(call.Expr) || anyAdjusted(q, full[1:]) {
		return Finding{}, false
	}
	sig, ok := q.Method(call)
	if !ok || sig.Unsafe {
		return Finding{}, false
	}
	if !forwards(params, full) {
		return Finding{}, false
	}
	name, ok := qualifiedName(q, sig, call.Receiver)
	if !ok {
		return Finding{}, false
	}
	return Finding{Replacement: name + "." + call.Name, MethodExpr: true}, true
}

// qualifiedName synthesizes the type or interface prefix of a method
// expression standing in for receiver.name. It fails when no prefix
// is guaranteed to denote the same method at the call site.
//
// Interface methods are dispatched by interface identity, so only the
// reference depth of the receiver has to line up with the declared
// self type. Methods on concrete types can be reached through
// embedding, where the receiver's apparent type differs from the
// declared one, so those require full structural equality and are
// spelled by the actual receiver type.
func qualifiedName(q TypeQuery, sig MethodSig, receiver Expr) (string, bool) {
	actual := q.TypeOf(receiver)
	if sig.Trait != "" {
		if MatchBorrowDepth(sig.Self, actual) {
			return sig.Trait, true
		}
		return "", false
	}
	if !sig.Inherent || !MatchTypes(sig.Self, actual) {
		return "", false
	}
	name := receiverName(actual)
	return name, name != ""
}

// receiverName spells a receiver type for use in a method expression.
// Pointer receivers take the parenthesized form.
func receiverName(t TypeDesc) string {
	switch t.Kind {
	case KindRef:
		if t.Elem == nil {
			return ""
		}
		inner := receiverName(*t.Elem)
		if inner == "" {
			return ""
		}
		return "(*" + inner + ")"
	case KindNominal:
		return t.Name
	default:
		return t.String()
	}
}

// forwards reports whether the closure parameters are passed through
// in order, each as a bare identifier argument with the same
// spelling. Pairs are compared up to the shorter sequence; callers
// reject length mismatches beforehand.
func forwards(params []Param, args []Expr) bool {
	for i := 0; i < len(params) && i < len(args); i++ {
		if params[i].Name == "" || params[i].Name == "_" {
			return false
		}
		if args[i] == nil {
			return false
		}
		name, ok := args[i].Ident()
		if !ok || name != params[i].Name {
			return false
		}
	}
	return true
}

func anyAdjusted(q TypeQuery, exprs []Expr) bool {
	for _, e := range exprs {
		if q.Adjusted(e) {
			return true
		}
	}
	return false
}
