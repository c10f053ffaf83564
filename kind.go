package schemamatch

// Kind tags the composition variant of a Validator. The set is closed: the
// schema walker handles every Kind returned by AllKinds.
type Kind int

const (
	KindInvalid Kind = iota
	KindAny
	KindString
	KindNumber
	KindBool
	KindNull
	KindObject
	KindArray
	KindLiteral
	KindShape
	KindArrayOf
	KindOr
	KindAnd
	KindNamed
	KindMapped
	KindGuard
	// KindWrapped marks a transparent decorator; its Unwrap result carries
	// the schema-relevant identity.
	KindWrapped
)

// AllKinds lists every valid Kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, int(KindWrapped))
	for k := KindAny; k <= KindWrapped; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindLiteral:
		return "literal"
	case KindShape:
		return "shape"
	case KindArrayOf:
		return "arrayOf"
	case KindOr:
		return "or"
	case KindAnd:
		return "and"
	case KindNamed:
		return "named"
	case KindMapped:
		return "mapped"
	case KindGuard:
		return "guard"
	case KindWrapped:
		return "wrapped"
	}
	return "invalid"
}
