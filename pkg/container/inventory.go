package container

import (
	"context"
	"errors"
	"fmt"

	dockerContainer "github.com/docker/docker/api/types/container"
	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/pkg/compose"
	"github.com/amanshallow/freshDock/pkg/registry"
	"github.com/amanshallow/freshDock/pkg/types"
)

// errListContainersFailed indicates the runtime could not list containers.
var errListContainersFailed = errors.New("failed to list containers")

// BuildInventory enumerates the currently running containers and derives the
// three aligned lookup structures: repository -> compose project directory,
// repository -> local image ID, and the ordered list of running image
// references.
//
// An introspection failure for an individual container degrades to empty
// entries for that repository and the build continues; only a failure to list
// containers at all is fatal. Because the maps are keyed by repository with
// the tag stripped, multiple running tags of one repository collapse to the
// last-seen mapping.
func (c *client) BuildInventory(ctx context.Context) (types.Inventory, error) {
	summaries, err := c.api.ContainerList(ctx, dockerContainer.ListOptions{})
	if err != nil {
		logrus.WithError(err).Debug("Failed to list containers")

		return types.Inventory{}, fmt.Errorf("%w: %w", errListContainersFailed, err)
	}

	logrus.WithField("count", len(summaries)).Debug("Listed running containers")

	inventory := types.NewInventory()

	for _, summary := range summaries {
		ref := types.ParseImageReference(summary.Image)
		fields := logrus.Fields{
			"container_id": shortID(summary.ID),
			"image":        ref.String(),
		}

		projectDir, localDigest := c.introspect(ctx, summary.ID, fields)

		inventory.Running = append(inventory.Running, ref)
		inventory.ProjectDirs[ref.Repository] = projectDir
		inventory.LocalDigests[ref.Repository] = localDigest

		logrus.WithFields(fields).WithFields(logrus.Fields{
			"project_dir":  projectDir,
			"local_digest": localDigest,
		}).Debug("Recorded container in inventory")
	}

	return inventory, nil
}

// introspect queries the runtime for one container's compose working
// directory label and content-addressed image ID. Both degrade to empty
// strings when the label is absent or the query fails; missing data for one
// container must never abort the whole build.
func (c *client) introspect(
	ctx context.Context,
	containerID string,
	fields logrus.Fields,
) (projectDir string, localDigest string) {
	inspect, err := c.api.ContainerInspect(ctx, containerID)
	if err != nil {
		logrus.WithError(err).WithFields(fields).
			Warn("Failed to inspect container, recording empty entries")

		return "", ""
	}

	if inspect.Config != nil {
		projectDir = inspect.Config.Labels[compose.WorkingDirLabel]
	}

	return projectDir, registry.NormalizeDigest(inspect.Image)
}

// shortID truncates a container ID for log output.
func shortID(containerID string) string {
	const shortLen = 12
	if len(containerID) > shortLen {
		return containerID[:shortLen]
	}

	return containerID
}
