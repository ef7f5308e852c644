package actions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/internal/logging"
	"github.com/amanshallow/freshDock/pkg/session"
	"github.com/amanshallow/freshDock/pkg/types"
)

// notificationTitle heads every outbound notification.
const notificationTitle = "freshDock"

// Update runs one full rollout pass: it builds the container inventory,
// checks every discovered image in order, and applies the compose pull and
// recreate cycle where an update is needed.
//
// Per-image failures are recorded and the loop continues; only a registry
// rate limit (HTTP 429) aborts the pass, returning ErrRateLimited alongside
// the partial report. The report is the single aggregated result value;
// housekeeping decides on it, not on shared mutable state.
func Update(
	ctx context.Context,
	client types.Client,
	reg types.RegistryClient,
	runner types.ComposeRunner,
	notifier types.Notifier,
) (*session.Report, error) {
	report := &session.Report{}

	inventory, err := client.BuildInventory(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", errBuildInventoryFailed, err)
	}

	logrus.WithField("count", len(inventory.Running)).Info("Discovered running images")

	for _, ref := range inventory.Running {
		outcome := CheckImage(ctx, reg, ref, inventory.LocalDigest(ref.Repository))

		switch outcome {
		case types.OutcomeRateLimited:
			logrus.WithFields(logrus.Fields{
				"image":              ref.String(),
				logging.CategoryField: logging.CategoryError,
			}).Error("Registry rate limit reached, aborting run")
			notifier.Notify(
				notificationTitle,
				"Registry rate limit reached (HTTP 429); aborting update run",
				types.PriorityHigh,
			)

			return report, ErrRateLimited

		case types.OutcomeAuthOrNetworkError:
			report.AddSkipped(ref)

		case types.OutcomeNotNeeded:
			report.AddFresh(ref)

		case types.OutcomeUpdateNeeded:
			applyUpdate(ctx, runner, notifier, ref, inventory.ProjectDir(ref.Repository), report)

		case types.OutcomeApplied, types.OutcomeFailed:
			// CheckImage never returns terminal apply outcomes.
		}
	}

	logrus.WithFields(logrus.Fields{
		"summary":            report.Summary(),
		logging.CategoryField: logging.CategoryInfo,
	}).Info("Completed update pass")

	return report, nil
}

// applyUpdate drives the pull and recreate steps for one image. Both steps
// must succeed for the rollout to count as applied; any failure is recorded,
// notified at high priority, and the caller moves on to the next image.
func applyUpdate(
	ctx context.Context,
	runner types.ComposeRunner,
	notifier types.Notifier,
	ref types.ImageReference,
	projectDir string,
	report *session.Report,
) {
	fields := logrus.Fields{
		"image":       ref.String(),
		"project_dir": projectDir,
	}

	if err := runner.Pull(ctx, projectDir); err != nil {
		logrus.WithError(err).WithFields(fields).WithField(
			logging.CategoryField, logging.CategoryError,
		).Error("Compose pull failed")
		report.AddFailed(ref)
		notifier.Notify(
			notificationTitle,
			fmt.Sprintf("Update of %s failed during pull: %v", ref, err),
			types.PriorityHigh,
		)

		return
	}

	if err := runner.Up(ctx, projectDir); err != nil {
		logrus.WithError(err).WithFields(fields).WithField(
			logging.CategoryField, logging.CategoryError,
		).Error("Compose up failed")
		report.AddFailed(ref)
		notifier.Notify(
			notificationTitle,
			fmt.Sprintf("Update of %s failed during recreate: %v", ref, err),
			types.PriorityHigh,
		)

		return
	}

	logrus.WithFields(fields).WithField(
		logging.CategoryField, logging.CategoryInfo,
	).Info("Updated container image")
	report.AddApplied(ref)
	notifier.Notify(
		notificationTitle,
		fmt.Sprintf("Updated %s", ref),
		types.PriorityNormal,
	)
}
