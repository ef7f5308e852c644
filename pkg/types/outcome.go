package types

// UpdateOutcome classifies the result of checking and rolling out a single
// image. It drives notification priority, housekeeping, and the global
// rate-limit short-circuit.
type UpdateOutcome int

// Outcome values, in rough pipeline order.
const (
	// OutcomeNotNeeded means local and remote digests match; nothing to do.
	OutcomeNotNeeded UpdateOutcome = iota
	// OutcomeUpdateNeeded means the remote digest differs and a rollout is pending.
	OutcomeUpdateNeeded
	// OutcomeApplied means the pull and recreate steps both succeeded.
	OutcomeApplied
	// OutcomeFailed means the pull or recreate step failed for this image.
	OutcomeFailed
	// OutcomeAuthOrNetworkError means token or digest resolution failed; the
	// image is skipped and the run continues.
	OutcomeAuthOrNetworkError
	// OutcomeRateLimited means the registry answered 429; the whole run is
	// aborted, not just this image.
	OutcomeRateLimited
)

// String returns a human-readable name for the outcome, used in logs and
// notifications.
func (o UpdateOutcome) String() string {
	switch o {
	case OutcomeNotNeeded:
		return "up to date"
	case OutcomeUpdateNeeded:
		return "update needed"
	case OutcomeApplied:
		return "updated"
	case OutcomeFailed:
		return "update failed"
	case OutcomeAuthOrNetworkError:
		return "resolution failed"
	case OutcomeRateLimited:
		return "rate limited"
	default:
		return "unknown"
	}
}
