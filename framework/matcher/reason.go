package matcher

// Reason is a simple enum so that callers can keep
// track of what matched and why.
type Reason int

const (

	// ReasonNone indicates the engine ran and reported no match,
	// implemented so that callers can rely on having a result
	// instead of having to deal with nils.
	ReasonNone Reason = iota + 1

	// ReasonMatch indicates the engine reported a match.
	ReasonMatch

	// ReasonNegated indicates the pattern carried a leading "!" and
	// the outcome of the engine was inverted.
	ReasonNegated

	// ReasonComment indicates a pattern starting with "#", which
	// never matches unless comments are disabled.
	ReasonComment

	// ReasonEmpty indicates an empty pattern or candidate.
	ReasonEmpty

	// ReasonHidden indicates a candidate segment starting with "."
	// that the pattern did not name explicitly.
	ReasonHidden

	// ReasonError indicates the pattern could not be compiled.
	ReasonError
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "no match"
	case ReasonMatch:
		return "match"
	case ReasonNegated:
		return "negated"
	case ReasonComment:
		return "comment"
	case ReasonEmpty:
		return "empty"
	case ReasonHidden:
		return "hidden segment"
	case ReasonError:
		return "error"
	default:
		return "unknown"
	}
}
