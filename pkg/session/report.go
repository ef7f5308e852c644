// Package session aggregates the per-image results of one rollout pass into
// an explicit report value. Housekeeping and notifications consume the report
// instead of a mutated run-level flag.
package session

import (
	"fmt"
	"strings"

	"github.com/amanshallow/freshDock/pkg/types"
)

// Report collects the outcome of each image processed during a single run.
// The zero value is ready to use.
type Report struct {
	applied []types.ImageReference // Images pulled and recreated successfully.
	failed  []types.ImageReference // Images whose pull or recreate step failed.
	skipped []types.ImageReference // Images skipped on auth or network failure.
	fresh   []types.ImageReference // Images already up to date.
}

// AddApplied records a successful rollout.
func (r *Report) AddApplied(ref types.ImageReference) {
	r.applied = append(r.applied, ref)
}

// AddFailed records a failed pull or recreate step.
func (r *Report) AddFailed(ref types.ImageReference) {
	r.failed = append(r.failed, ref)
}

// AddSkipped records an image whose digest could not be resolved.
func (r *Report) AddSkipped(ref types.ImageReference) {
	r.skipped = append(r.skipped, ref)
}

// AddFresh records an image that needed no update.
func (r *Report) AddFresh(ref types.ImageReference) {
	r.fresh = append(r.fresh, ref)
}

// Applied returns the images updated in this run, in processing order.
func (r *Report) Applied() []types.ImageReference { return r.applied }

// Failed returns the images whose rollout failed.
func (r *Report) Failed() []types.ImageReference { return r.failed }

// Skipped returns the images skipped on resolution failure.
func (r *Report) Skipped() []types.ImageReference { return r.skipped }

// Fresh returns the images that were already current.
func (r *Report) Fresh() []types.ImageReference { return r.fresh }

// AppliedCount returns the number of successful rollouts; housekeeping runs
// if and only if it is non-zero.
func (r *Report) AppliedCount() int { return len(r.applied) }

// Summary renders a one-line account of the run for logs and notifications.
func (r *Report) Summary() string {
	parts := []string{
		fmt.Sprintf("%d updated", len(r.applied)),
		fmt.Sprintf("%d failed", len(r.failed)),
		fmt.Sprintf("%d skipped", len(r.skipped)),
		fmt.Sprintf("%d up to date", len(r.fresh)),
	}

	return strings.Join(parts, ", ")
}
