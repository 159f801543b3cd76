package build

// Decision is the outcome of the link gate
type Decision int

const (
	// DecisionLink runs the linker
	DecisionLink Decision = iota
	// DecisionSkipFailed skips linking because at least one unit failed
	DecisionSkipFailed
	// DecisionSkipNoop skips linking because nothing changed and the output exists
	DecisionSkipNoop
)

func (d Decision) String() string {
	switch d {
	case DecisionLink:
		return "link"
	case DecisionSkipFailed:
		return "skip-failed"
	case DecisionSkipNoop:
		return "skip-noop"
	default:
		return "unknown"
	}
}

// Gate decides whether the link stage may run. Any failed unit blocks the
// link; otherwise the link runs when an artifact changed or no output exists.
func Gate(failed int, changed, outputExists bool) Decision {
	if failed > 0 {
		return DecisionSkipFailed
	}

	if changed || !outputExists {
		return DecisionLink
	}

	return DecisionSkipNoop
}
