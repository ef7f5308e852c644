package types

import "context"

// Client abstracts the container runtime operations freshDock needs: building
// the per-run inventory from live state and the post-run destructive cleanup.
type Client interface {
	// BuildInventory enumerates running containers and returns the three
	// aligned lookup structures described on Inventory. Failures for an
	// individual container degrade to empty entries; only a failure to list
	// containers at all is returned as an error.
	BuildInventory(ctx context.Context) (Inventory, error)

	// PruneUnused removes unused images and stopped containers from the host.
	// It is invoked once per run, and only when at least one rollout applied.
	PruneUnused(ctx context.Context) error

	// Ping verifies that the runtime daemon is reachable. Used by preflight.
	Ping(ctx context.Context) error
}

// RegistryClient resolves an image reference against its remote registry:
// first an anonymous pull token, then the manifest's config digest.
type RegistryClient interface {
	// FetchToken exchanges an anonymous bearer-token request scoped to
	// "repository:<repo>:pull". An empty token is reported as an error.
	FetchToken(ctx context.Context, repository string) (string, error)

	// FetchManifestDigest requests the V2 manifest for repository:tag and
	// returns the remote config digest together with the HTTP status code.
	// The digest may be empty even on a 200-class status; callers treat that
	// as a resolution failure, not as an update.
	FetchManifestDigest(
		ctx context.Context,
		repository string,
		tag string,
		token string,
	) (digest string, status int, err error)
}

// ComposeRunner invokes the compose orchestration tool for one project
// directory. Both steps are external processes; their exit status decides
// whether a rollout counts as applied.
type ComposeRunner interface {
	// Pull fetches the updated images for the project in dir.
	Pull(ctx context.Context, dir string) error

	// Up recreates the project's containers in detached mode.
	Up(ctx context.Context, dir string) error
}
