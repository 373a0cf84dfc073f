package eta

// Expr is an opaque handle to a host expression. Detectors inspect
// host expressions only through this capability and through the
// TypeQuery passed alongside a candidate.
type Expr interface {
	// Ident returns the name the expression spells when it is a bare,
	// unqualified reference to a single identifier, and reports
	// whether it is one.
	Ident() (string, bool)
}

// Param is one declared parameter of a candidate closure. Parameters
// that bind no usable name, unnamed or blank, leave Name empty and
// disqualify the closure during matching.
type Param struct {
	Name string
}

// Body is the single call expression forming a candidate closure's
// body. Exactly two shapes exist: Call and MethodCall.
type Body interface{ isBody() }

// Call is a closure body of the form callee(args).
type Call struct {
	// Expr is the entire call expression.
	Expr   Expr
	Callee Expr
	Args   []Expr
}

// MethodCall is a closure body of the form receiver.name(args). The
// receiver is conceptually argument zero and Args holds the rest.
type MethodCall struct {
	// Expr is the entire call expression.
	Expr     Expr
	Name     string
	Receiver Expr
	Args     []Expr
}

func (*Call) isBody()       {}
func (*MethodCall) isBody() {}

// Closure is one candidate. Hosts construct a Closure per function
// literal found in call-argument position; literals whose body is
// anything but a lone forwarded call are not candidates and must not
// be represented.
type Closure struct {
	Params []Param
	Body   Body
}

// MethodSig describes the method resolved for a MethodCall body.
type MethodSig struct {
	// Self is the declared receiver type.
	Self TypeDesc
	// Unsafe reports that invoking the method without a wrapper is
	// unsafe.
	Unsafe bool
	// Trait is the call-site spelling of the interface declaring the
	// method. Empty when the method is not interface-dispatched or
	// the interface cannot be named at the call site.
	Trait string
	// Inherent reports a method defined directly on a concrete type.
	Inherent bool
}

// TypeQuery is a read-only window onto the host's type information.
// Implementations must tolerate concurrent calls; detectors never
// mutate anything reachable through the interface.
type TypeQuery interface {
	// Adjusted reports whether the host recorded an implicit
	// conversion on expr when it type-checked the closure body.
	Adjusted(expr Expr) bool

	// FuncKind reports whether callee's type is a callable function
	// kind rather than a type name, builtin, or other non-function.
	FuncKind(callee Expr) bool

	// UnsafeFunc reports whether callee's function type is unsafe to
	// invoke without a wrapper.
	UnsafeFunc(callee Expr) bool

	// Method resolves the method a MethodCall names. ok is false when
	// resolution fails and the candidate must be abandoned.
	Method(call *MethodCall) (sig MethodSig, ok bool)

	// TypeOf describes the type of an expression.
	TypeOf(expr Expr) TypeDesc

	// SourceText recovers the spelling of an expression at the call
	// site.
	SourceText(expr Expr) (string, bool)
}
