package types

// Inventory is the per-run snapshot of the host's running containers, built
// fresh on every invocation and read-only afterwards.
//
// All three structures are keyed by repository name with the tag stripped.
// Running two tags of the same repository therefore collapses to the
// last-seen mapping; this is an accepted approximation of the design, not a
// guaranteed-correct multi-tag scheme.
type Inventory struct {
	// ProjectDirs maps repository -> compose project working directory.
	// The value is empty for containers not started via compose.
	ProjectDirs map[string]string
	// LocalDigests maps repository -> content-addressed local image ID.
	// The value is empty when runtime introspection failed for the container.
	LocalDigests map[string]string
	// Running lists the image references of all running containers, in the
	// order the runtime reported them.
	Running []ImageReference
}

// NewInventory returns an empty inventory with initialized maps.
func NewInventory() Inventory {
	return Inventory{
		ProjectDirs:  map[string]string{},
		LocalDigests: map[string]string{},
	}
}

// ProjectDir returns the compose project directory recorded for a repository,
// or an empty string when the container was not started via compose.
func (i Inventory) ProjectDir(repository string) string {
	return i.ProjectDirs[repository]
}

// LocalDigest returns the content-addressed local image ID recorded for a
// repository, or an empty string when introspection failed.
func (i Inventory) LocalDigest(repository string) string {
	return i.LocalDigests[repository]
}
