package actions

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/internal/logging"
	"github.com/amanshallow/freshDock/pkg/session"
	"github.com/amanshallow/freshDock/pkg/types"
)

// Cleanup performs the post-run housekeeping: if at least one image was
// applied during the pass, unused images and stopped containers are pruned
// from the host. The prune is deliberately unconditional in scope, not
// limited to the images updated in this run. Prune failures are logged and
// never escalate.
func Cleanup(ctx context.Context, client types.Client, report *session.Report) {
	if report.AppliedCount() == 0 {
		logrus.Debug("No containers updated, skipping cleanup")

		return
	}

	logrus.WithFields(logrus.Fields{
		"updated":            report.AppliedCount(),
		logging.CategoryField: logging.CategoryInfo,
	}).Info("Pruning unused images and stopped containers")

	if err := client.PruneUnused(ctx); err != nil {
		logrus.WithError(err).WithField(
			logging.CategoryField, logging.CategoryError,
		).Error("Cleanup failed")
	}
}
