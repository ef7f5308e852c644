// Package container wraps the Docker API client for freshDock: enumerating
// running containers into the per-run inventory and pruning unused images and
// stopped containers after a successful rollout pass.
package container

import (
	"context"
	"errors"
	"fmt"

	dockerTypes "github.com/docker/docker/api/types"
	dockerContainer "github.com/docker/docker/api/types/container"
	dockerFilters "github.com/docker/docker/api/types/filters"
	dockerImage "github.com/docker/docker/api/types/image"
	dockerClient "github.com/docker/docker/client"
	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/pkg/types"
)

// Errors for runtime client operations.
var (
	// errInitClientFailed indicates the Docker API client could not be created.
	errInitClientFailed = errors.New("failed to initialize Docker client")
	// errDaemonUnreachable indicates the Docker daemon did not answer a ping.
	errDaemonUnreachable = errors.New("docker daemon unreachable")
)

// dockerAPI is the subset of the Docker API client the package consumes.
// Narrowing the surface keeps test doubles small.
type dockerAPI interface {
	ContainerList(
		ctx context.Context,
		options dockerContainer.ListOptions,
	) ([]dockerContainer.Summary, error)
	ContainerInspect(
		ctx context.Context,
		containerID string,
	) (dockerContainer.InspectResponse, error)
	ImagesPrune(
		ctx context.Context,
		pruneFilters dockerFilters.Args,
	) (dockerImage.PruneReport, error)
	ContainersPrune(
		ctx context.Context,
		pruneFilters dockerFilters.Args,
	) (dockerContainer.PruneReport, error)
	Ping(ctx context.Context) (dockerTypes.Ping, error)
}

// client is the concrete implementation of types.Client on top of the Docker
// API.
type client struct {
	api dockerAPI
}

// NewClient initializes a runtime client from the environment (DOCKER_HOST
// and friends) with API version negotiation, the same way the Docker CLI
// bootstraps itself.
func NewClient() (types.Client, error) {
	cli, err := dockerClient.NewClientWithOpts(
		dockerClient.FromEnv,
		dockerClient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInitClientFailed, err)
	}

	logrus.WithField("client_version", cli.ClientVersion()).Debug("Initialized Docker client")

	return &client{api: cli}, nil
}

// Ping verifies the daemon is reachable. Preflight calls this before any work
// so a stopped daemon surfaces as a clean startup failure.
func (c *client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		logrus.WithError(err).Debug("Docker daemon ping failed")

		return fmt.Errorf("%w: %w", errDaemonUnreachable, err)
	}

	return nil
}
