// Package scheduling runs periodic update passes from a cron specification.
// A single-slot lock channel guarantees passes never overlap, and SIGINT or
// SIGTERM shuts the scheduler down after any in-flight pass completes.
package scheduling

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// updateWaitTimeout bounds the wait for an in-flight pass during shutdown.
const updateWaitTimeout = 60 * time.Second

// RunOnSchedule executes runUpdate according to the cron specification until
// the context is cancelled or an interrupt signal arrives. The first pass runs
// immediately before the scheduler starts.
func RunOnSchedule(ctx context.Context, scheduleSpec string, runUpdate func()) error {
	lock := make(chan bool, 1)
	lock <- true

	guarded := func() {
		select {
		case v := <-lock:
			defer func() { lock <- v }()
			runUpdate()
		default:
			logrus.Debug("Skipped scheduled pass, another update is still running")
		}
	}

	scheduler := cron.New()
	if err := scheduler.AddFunc(scheduleSpec, guarded); err != nil {
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	// Run once up front so a long cron interval does not delay the first pass.
	guarded()

	scheduler.Start()

	if len(scheduler.Entries()) > 0 {
		next := scheduler.Entries()[0].Schedule.Next(time.Now())
		logrus.WithField("next_run", next.Format(time.RFC3339)).Info("Scheduled next update pass")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logrus.Debug("Context cancelled, stopping scheduler")
	case <-interrupt:
		logrus.Debug("Received interrupt signal, stopping scheduler")
	}

	scheduler.Stop()
	waitForRunningUpdate(ctx, lock)

	return nil
}

// waitForRunningUpdate blocks until any in-flight pass releases the lock,
// bounded by updateWaitTimeout.
func waitForRunningUpdate(ctx context.Context, lock chan bool) {
	select {
	case <-lock:
		logrus.Debug("No update running, shutting down")
	case <-time.After(updateWaitTimeout):
		logrus.Warn("Timeout waiting for running update to finish, shutting down anyway")
	case <-ctx.Done():
		logrus.Warn("Context cancelled while waiting for running update")
	}
}
