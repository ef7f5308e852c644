package actions

import "errors"

// Errors surfaced by the rollout pipeline.
var (
	// ErrRateLimited signals the registry answered 429. It aborts the whole
	// run, not just the current image, and maps to process exit code 1.
	ErrRateLimited = errors.New("registry rate limit reached")
	// errBuildInventoryFailed indicates the container inventory could not be built.
	errBuildInventoryFailed = errors.New("failed to build container inventory")
)
