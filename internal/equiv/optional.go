package equiv

// arity is the number of sides on which an optional part is present.
type arity int

const (
	arityNone arity = iota
	arityOne
	arityBoth
)

func presenceArity(aPresent, bPresent bool) arity {
	switch {
	case aPresent && bPresent:
		return arityBoth
	case aPresent || bPresent:
		return arityOne
	default:
		return arityNone
	}
}

// comparePresence applies the arity template: absent on both sides is
// equivalent, absent on one side is not, present on both defers to eq.
func comparePresence(aPresent, bPresent bool, eq func() bool) bool {
	switch presenceArity(aPresent, bPresent) {
	case arityNone:
		return true
	case arityOne:
		return false
	default:
		return eq()
	}
}

// compareOptional applies the arity template to two optional values.
// eq is only called when both are non-nil.
func compareOptional[T any](a, b *T, eq func(a, b *T) bool) bool {
	return comparePresence(a != nil, b != nil, func() bool { return eq(a, b) })
}
