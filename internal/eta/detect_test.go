package eta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ident is a test expression spelling a bare identifier.
type ident string

func (i ident) Ident() (string, bool) { return string(i), true }

// opaqueExpr is a test expression that is not an identifier.
type opaqueExpr string

func (opaqueExpr) Ident() (string, bool) { return "", false }

type fakeQuery struct {
	adjusted map[Expr]bool
	nonFunc  map[Expr]bool
	unsafeFn map[Expr]bool
	sig      MethodSig
	sigOK    bool
	types    map[Expr]TypeDesc
	source   map[Expr]string
}

func (q *fakeQuery) Adjusted(e Expr) bool   { return q.adjusted[e] }
func (q *fakeQuery) FuncKind(e Expr) bool   { return !q.nonFunc[e] }
func (q *fakeQuery) UnsafeFunc(e Expr) bool { return q.unsafeFn[e] }
func (q *fakeQuery) TypeOf(e Expr) TypeDesc { return q.types[e] }

func (q *fakeQuery) Method(*MethodCall) (MethodSig, bool) { return q.sig, q.sigOK }

func (q *fakeQuery) SourceText(e Expr) (string, bool) {
	s, ok := q.source[e]
	return s, ok
}

func params(names ...string) []Param {
	ps := make([]Param, len(names))
	for i, n := range names {
		ps[i] = Param{Name: n}
	}
	return ps
}

func TestCheckDirectCall(t *testing.T) {
	t.Parallel()

	callee := ident("f")
	whole := opaqueExpr("f(...)")

	closure := func(ps []Param, args ...Expr) *Closure {
		return &Closure{Params: ps, Body: &Call{Expr: whole, Callee: callee, Args: args}}
	}

	tests := []struct {
		name    string
		closure *Closure
		setup   func(*fakeQuery)
		want    Finding
		wantOK  bool
	}{
		{
			name:    "forwards both parameters",
			closure: closure(params("a", "b"), ident("a"), ident("b")),
			want:    Finding{Replacement: "f"},
			wantOK:  true,
		},
		{
			name:    "no parameters at all",
			closure: closure(params()),
			want:    Finding{Replacement: "f"},
			wantOK:  true,
		},
		{
			name:    "swapped arguments",
			closure: closure(params("a", "b"), ident("b"), ident("a")),
		},
		{
			name:    "arity mismatch",
			closure: closure(params("a"), ident("a"), ident("extra")),
		},
		{
			name:    "argument is not an identifier",
			closure: closure(params("a"), opaqueExpr("a+0")),
		},
		{
			name:    "blank parameter",
			closure: closure(params("_"), ident("_")),
		},
		{
			name:    "unnamed parameter",
			closure: closure(params(""), ident("a")),
		},
		{
			name:    "adjusted argument",
			closure: closure(params("a"), ident("a")),
			setup:   func(q *fakeQuery) { q.adjusted = map[Expr]bool{ident("a"): true} },
		},
		{
			name:    "adjusted call result",
			closure: closure(params("a"), ident("a")),
			setup:   func(q *fakeQuery) { q.adjusted = map[Expr]bool{whole: true} },
		},
		{
			name:    "callee is not a function",
			closure: closure(params("a"), ident("a")),
			setup:   func(q *fakeQuery) { q.nonFunc = map[Expr]bool{callee: true} },
		},
		{
			name:    "unsafe callee",
			closure: closure(params("a"), ident("a")),
			setup:   func(q *fakeQuery) { q.unsafeFn = map[Expr]bool{callee: true} },
		},
		{
			name:    "unrecoverable callee spelling keeps the finding",
			closure: closure(params("a"), ident("a")),
			setup:   func(q *fakeQuery) { q.source = nil },
			want:    Finding{},
			wantOK:  true,
		},
		{
			name:    "closure without a body",
			closure: &Closure{Params: params("a")},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := &fakeQuery{source: map[Expr]string{callee: "f"}}
			if tt.setup != nil {
				tt.setup(q)
			}
			got, ok := Check(q, tt.closure)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckMethodCall(t *testing.T) {
	t.Parallel()

	recv := ident("s")
	whole := opaqueExpr("s.m(...)")

	counter := nominal("p.Counter", "Counter")
	stringer := nominal("fmt.Stringer", "fmt.Stringer")

	closure := func(ps []Param, name string, args ...Expr) *Closure {
		return &Closure{Params: ps, Body: &MethodCall{Expr: whole, Name: name, Receiver: recv, Args: args}}
	}

	tests := []struct {
		name    string
		closure *Closure
		sig     MethodSig
		sigOK   bool
		setup   func(*fakeQuery)
		want    Finding
		wantOK  bool
	}{
		{
			name:    "interface method",
			closure: closure(params("s"), "String"),
			sig:     MethodSig{Self: stringer, Trait: "fmt.Stringer"},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: stringer} },
			want:    Finding{Replacement: "fmt.Stringer.String", MethodExpr: true},
			wantOK:  true,
		},
		{
			name:    "interface method with mismatched reference depth",
			closure: closure(params("s"), "String"),
			sig:     MethodSig{Self: ref(stringer), Trait: "fmt.Stringer"},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: stringer} },
		},
		{
			name:    "value receiver method",
			closure: closure(params("s", "d"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: counter} },
			want:    Finding{Replacement: "Counter.Add", MethodExpr: true},
			wantOK:  true,
		},
		{
			name:    "pointer receiver method",
			closure: closure(params("s", "d"), "Inc", ident("d")),
			sig:     MethodSig{Self: ref(counter), Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: ref(counter)} },
			want:    Finding{Replacement: "(*Counter).Inc", MethodExpr: true},
			wantOK:  true,
		},
		{
			name:    "promoted method declared on another type",
			closure: closure(params("s"), "Reset"),
			sig:     MethodSig{Self: nominal("p.Inner", "Inner"), Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: nominal("p.Outer", "Outer")} },
		},
		{
			name:    "receiver needs an implicit address",
			closure: closure(params("s", "d"), "Inc", ident("d")),
			sig:     MethodSig{Self: ref(counter), Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: counter} },
		},
		{
			name:    "unsafe method",
			closure: closure(params("s"), "Raw"),
			sig:     MethodSig{Self: counter, Inherent: true, Unsafe: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: counter} },
		},
		{
			name:    "method resolution fails",
			closure: closure(params("s"), "Add"),
		},
		{
			name:    "receiver does not name the first parameter",
			closure: closure(params("x", "d"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: counter} },
		},
		{
			name:    "adjusted receiver is tolerated by the scan",
			closure: closure(params("s", "d"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup: func(q *fakeQuery) {
				q.adjusted = map[Expr]bool{recv: true}
				q.types = map[Expr]TypeDesc{recv: counter}
			},
			want:   Finding{Replacement: "Counter.Add", MethodExpr: true},
			wantOK: true,
		},
		{
			name:    "adjusted trailing argument",
			closure: closure(params("s", "d"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup: func(q *fakeQuery) {
				q.adjusted = map[Expr]bool{ident("d"): true}
				q.types = map[Expr]TypeDesc{recv: counter}
			},
		},
		{
			name:    "adjusted call result",
			closure: closure(params("s", "d"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup: func(q *fakeQuery) {
				q.adjusted = map[Expr]bool{whole: true}
				q.types = map[Expr]TypeDesc{recv: counter}
			},
		},
		{
			name:    "arity mismatch including the receiver",
			closure: closure(params("s"), "Add", ident("d")),
			sig:     MethodSig{Self: counter, Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: counter} },
		},
		{
			name:    "receiver type cannot be named",
			closure: closure(params("s"), "Add"),
			sig:     MethodSig{Self: nominal("p.hidden", ""), Inherent: true},
			sigOK:   true,
			setup:   func(q *fakeQuery) { q.types = map[Expr]TypeDesc{recv: nominal("p.hidden", "")} },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := &fakeQuery{sig: tt.sig, sigOK: tt.sigOK}
			if tt.setup != nil {
				tt.setup(q)
			}
			got, ok := Check(q, tt.closure)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckIsRepeatable(t *testing.T) {
	t.Parallel()

	callee := ident("f")
	q := &fakeQuery{source: map[Expr]string{callee: "f"}}
	c := &Closure{
		Params: params("a"),
		Body:   &Call{Expr: opaqueExpr("f(a)"), Callee: callee, Args: []Expr{ident("a")}},
	}

	first, ok := Check(q, c)
	require.True(t, ok)
	second, ok := Check(q, c)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestCheckSiblingsDoNotInterfere(t *testing.T) {
	t.Parallel()

	callee := ident("f")
	q := &fakeQuery{source: map[Expr]string{callee: "f"}}

	redundant := &Closure{
		Params: params("a"),
		Body:   &Call{Expr: opaqueExpr("f(a)"), Callee: callee, Args: []Expr{ident("a")}},
	}
	swapped := &Closure{
		Params: params("a", "b"),
		Body:   &Call{Expr: opaqueExpr("f(b,a)"), Callee: callee, Args: []Expr{ident("b"), ident("a")}},
	}

	_, ok := Check(q, swapped)
	assert.False(t, ok)

	got, ok := Check(q, redundant)
	require.True(t, ok)
	assert.Equal(t, Finding{Replacement: "f"}, got)

	_, ok = Check(q, swapped)
	assert.False(t, ok)
}

func TestCheckNilInputs(t *testing.T) {
	t.Parallel()

	_, ok := Check(nil, &Closure{})
	assert.False(t, ok)

	_, ok = Check(&fakeQuery{}, nil)
	assert.False(t, ok)

	_, ok = Check(&fakeQuery{}, &Closure{})
	assert.False(t, ok)
}
