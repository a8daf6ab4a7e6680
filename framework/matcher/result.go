package matcher

// Result holds the outcome of a single match along with
// the reason, so a playground can explain why a candidate
// did or did not match.
type Result struct {
	success bool
	reason  Reason
	err     error
}

func (mr Result) Reason() Reason { return mr.reason }
func (mr Result) Success() bool  { return mr.success }
func (mr Result) Failure() bool  { return !mr.Success() }
func (mr Result) Err() error     { return mr.err }

func ResultNoMatch(r Reason) Result {
	return Result{success: false, reason: r}
}

func ResultBoolean(b bool) Result {
	if b {
		return Result{success: true, reason: ReasonMatch}
	}
	return Result{success: false, reason: ReasonNone}
}

// ResultNegated inverts b unless flip is set, in which case the
// un-negated outcome stands.
func ResultNegated(b, flip bool) Result {
	if flip {
		return Result{success: b, reason: ReasonNegated}
	}
	return Result{success: !b, reason: ReasonNegated}
}

func ResultError(err error) Result {
	return Result{success: false, reason: ReasonError, err: err}
}
