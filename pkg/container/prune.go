package container

import (
	"context"
	"errors"
	"fmt"

	dockerFilters "github.com/docker/docker/api/types/filters"
	"github.com/sirupsen/logrus"
)

// Errors for prune operations.
var (
	// errPruneImagesFailed indicates the unused-image prune did not complete.
	errPruneImagesFailed = errors.New("failed to prune unused images")
	// errPruneContainersFailed indicates the stopped-container prune did not complete.
	errPruneContainersFailed = errors.New("failed to prune stopped containers")
)

// PruneUnused removes all unused images and stopped containers from the host.
// This is the deliberately destructive post-run cleanup: it is not scoped to
// the images that were updated in this run.
func (c *client) PruneUnused(ctx context.Context) error {
	// dangling=false widens the image prune from dangling-only to everything
	// not referenced by a container.
	imageReport, err := c.api.ImagesPrune(
		ctx,
		dockerFilters.NewArgs(dockerFilters.Arg("dangling", "false")),
	)
	if err != nil {
		logrus.WithError(err).Debug("Image prune failed")

		return fmt.Errorf("%w: %w", errPruneImagesFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"images_deleted":  len(imageReport.ImagesDeleted),
		"space_reclaimed": imageReport.SpaceReclaimed,
	}).Info("Pruned unused images")

	containerReport, err := c.api.ContainersPrune(ctx, dockerFilters.NewArgs())
	if err != nil {
		logrus.WithError(err).Debug("Container prune failed")

		return fmt.Errorf("%w: %w", errPruneContainersFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"containers_deleted": len(containerReport.ContainersDeleted),
		"space_reclaimed":    containerReport.SpaceReclaimed,
	}).Info("Pruned stopped containers")

	return nil
}
