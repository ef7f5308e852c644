// Package cmd wires the freshDock command line: flag registration, preflight
// checks, collaborator construction, and the run-once or scheduled execution
// of the update pass.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/amanshallow/freshDock/internal/actions"
	"github.com/amanshallow/freshDock/internal/flags"
	"github.com/amanshallow/freshDock/internal/logging"
	"github.com/amanshallow/freshDock/internal/preflight"
	"github.com/amanshallow/freshDock/internal/scheduling"
	"github.com/amanshallow/freshDock/pkg/compose"
	"github.com/amanshallow/freshDock/pkg/container"
	"github.com/amanshallow/freshDock/pkg/notifications"
	"github.com/amanshallow/freshDock/pkg/registry"
)

// Execute runs the root command. Preflight failures and the registry
// rate-limit short-circuit exit with code 1; a normally completed pass, even
// a partially failed one, exits 0.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// NewRootCmd constructs the root command with all flags registered.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freshdock",
		Short: "Automatically update compose-managed containers",
		Long: `freshDock checks every running compose-managed container for a newer
image in its registry. When one is found it pulls the image, recreates the
container through its compose project, notifies the operator, and prunes
unused images and stopped containers afterwards.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return flags.SetupLogging(cmd.PersistentFlags())
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.RegisterSystemFlags(rootCmd)
	flags.RegisterNotificationFlags(rootCmd)

	return rootCmd
}

// run performs preflight, builds the collaborators, and executes the update
// pass once or on the configured cron schedule.
func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := container.NewClient()
	if err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	if err := preflight.Check(ctx, client); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	logPath, _ := cmd.PersistentFlags().GetString("log-file")

	runLog, err := logging.Open(afero.NewOsFs(), logPath)
	if err != nil {
		// The run log is a side channel; its absence never blocks updates.
		logrus.WithError(err).Warn("Failed to open run log, continuing without it")
	} else {
		logrus.AddHook(runLog)
		defer runLog.Close()
	}

	notifier := notifications.NewNotifier(notificationConfig(cmd))
	reg := registry.NewClient()
	runner := compose.NewRunner()

	runPass := func() error {
		if runLog != nil {
			if err := runLog.StartRun(); err != nil {
				logrus.WithError(err).Warn("Failed to start run log section")
			}
		}

		report, err := actions.Update(ctx, client, reg, runner, notifier)
		if err != nil {
			return err
		}

		actions.Cleanup(ctx, client, report)

		return nil
	}

	scheduleSpec, _ := cmd.PersistentFlags().GetString("schedule")
	if scheduleSpec == "" {
		// A failed pass is either the registry rate limit or an environment
		// failure on par with preflight; both exit non-zero. Per-image
		// failures are recorded in the report and do not fail the pass.
		return runPass()
	}

	return scheduling.RunOnSchedule(ctx, scheduleSpec, func() {
		if err := runPass(); err != nil {
			logrus.WithError(err).Error("Update pass failed")
		}
	})
}

// notificationConfig collects the notification channel flags.
func notificationConfig(cmd *cobra.Command) notifications.Config {
	persistentFlags := cmd.PersistentFlags()

	gotifyURL, _ := persistentFlags.GetString("notification-gotify-url")
	gotifyToken, _ := persistentFlags.GetString("notification-gotify-token")
	shoutrrrURLs, _ := persistentFlags.GetStringSlice("notification-url")

	return notifications.Config{
		GotifyURL:    gotifyURL,
		GotifyToken:  gotifyToken,
		ShoutrrrURLs: shoutrrrURLs,
	}
}
