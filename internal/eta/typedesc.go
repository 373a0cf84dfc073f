package eta

import "strconv"

// TypeKind tags a TypeDesc variant.
type TypeKind int

const (
	// KindOpaque describes any type the model does not cover. Opaque
	// descriptors never match structurally and do not count as a
	// reference layer.
	KindOpaque TypeKind = iota
	KindBool
	KindChar
	KindInt
	KindUint
	KindStr
	KindRef
	KindArray
	KindSlice
	KindNominal
)

// TypeDesc is a structural description of a type, detailed enough for
// the receiver compatibility checks and nothing more. It is not a
// substitute for the host's type checker.
//
// The zero value is an opaque descriptor.
type TypeDesc struct {
	Kind TypeKind
	// Bits is the width of an Int or Uint kind. Zero means the
	// platform-sized variant.
	Bits int
	// Elem is the referent of a Ref and the element of an Array or
	// Slice.
	Elem *TypeDesc
	// ID identifies a Nominal type. Two descriptors denote the same
	// declared type exactly when their IDs are equal and non-empty.
	ID string
	// Name is the spelling of a Nominal type at the analyzed call
	// site. Empty when the type cannot be named there.
	Name string
}

func (t TypeDesc) String() string {
	switch t.Kind {
	case KindBool:
		return "bool"
	case KindChar:
		return "rune"
	case KindInt:
		if t.Bits == 0 {
			return "int"
		}
		return "int" + strconv.Itoa(t.Bits)
	case KindUint:
		if t.Bits == 0 {
			return "uint"
		}
		return "uint" + strconv.Itoa(t.Bits)
	case KindStr:
		return "string"
	case KindRef:
		if t.Elem == nil {
			return "*?"
		}
		return "*" + t.Elem.String()
	case KindArray:
		if t.Elem == nil {
			return "[...]?"
		}
		return "[...]" + t.Elem.String()
	case KindSlice:
		if t.Elem == nil {
			return "[]?"
		}
		return "[]" + t.Elem.String()
	case KindNominal:
		if t.Name != "" {
			return t.Name
		}
		return t.ID
	default:
		return "?"
	}
}

// MatchBorrowDepth reports whether two types carry the same number of
// reference layers. Matching layers are stripped in lockstep; the
// walk succeeds only when both sides run out of references at the
// same depth. The unwrapped types themselves are not compared.
func MatchBorrowDepth(lhs, rhs TypeDesc) bool {
	if lhs.Kind == KindRef && rhs.Kind == KindRef {
		if lhs.Elem == nil || rhs.Elem == nil {
			return false
		}
		return MatchBorrowDepth(*lhs.Elem, *rhs.Elem)
	}
	return lhs.Kind != KindRef && rhs.Kind != KindRef
}

// MatchTypes reports structural equality of two descriptors.
// Primitive kinds match same to same, references and containers match
// when their element types match, and nominal types match only when
// they denote the same declaration. Every other pairing, opaque
// descriptors included, fails.
func MatchTypes(lhs, rhs TypeDesc) bool {
	if lhs.Kind != rhs.Kind {
		return false
	}
	switch lhs.Kind {
	case KindBool, KindChar, KindStr:
		return true
	case KindInt, KindUint:
		return lhs.Bits == rhs.Bits
	case KindRef, KindArray, KindSlice:
		if lhs.Elem == nil || rhs.Elem == nil {
			return false
		}
		return MatchTypes(*lhs.Elem, *rhs.Elem)
	case KindNominal:
		return lhs.ID != "" && lhs.ID == rhs.ID
	default:
		return false
	}
}
