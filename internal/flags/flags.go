// Package flags manages command-line flags and environment variables for
// freshDock configuration. Every flag has a FRESHDOCK_* environment fallback
// bound through Viper.
package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/amanshallow/freshDock/internal/logging"
)

// Errors for flag handling.
var (
	// errInvalidLogFormat indicates an invalid log format was specified.
	errInvalidLogFormat = errors.New("invalid log format specified")
	// errInvalidLogLevel indicates an invalid log level was specified.
	errInvalidLogLevel = errors.New("invalid log level specified")
	// errGetFlagFailed indicates a flag lookup failed.
	errGetFlagFailed = errors.New("failed to read flag value")
)

// init binds the FRESHDOCK_* environment namespace.
func init() {
	viper.SetEnvPrefix("FRESHDOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// RegisterSystemFlags adds flags that control freshDock's program flow:
// scheduling, logging, and the run-log file location.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"schedule",
		"s",
		envString("schedule"),
		"Cron expression for periodic update passes; empty runs a single pass and exits")

	flags.String(
		"log-file",
		envStringWithDefault("log-file", logging.DefaultLogPath),
		"Path of the append-only run log")

	flags.String(
		"log-level",
		envStringWithDefault("log-level", "info"),
		"Console log level (trace, debug, info, warn, error, fatal, panic)")

	flags.String(
		"log-format",
		envStringWithDefault("log-format", "auto"),
		"Console log format (auto, logfmt, json, pretty)")

	flags.Bool(
		"no-color",
		envBool("no-color"),
		"Disable ANSI colors in console output")
}

// RegisterNotificationFlags adds the notification channel flags. All of them
// are optional; leaving them unset disables notification only and never
// blocks updates.
func RegisterNotificationFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.String(
		"notification-gotify-url",
		envString("notification-gotify-url"),
		"Base URL of the gotify server receiving update notifications")

	flags.String(
		"notification-gotify-token",
		envString("notification-gotify-token"),
		"Application token for the gotify server")

	flags.StringSlice(
		"notification-url",
		envStringSlice("notification-url"),
		"Additional shoutrrr service URLs to notify")
}

// SetupLogging configures the console logger from the log-level, log-format,
// and no-color flags.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter for the requested format.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// envString retrieves a string from the FRESHDOCK_* environment via Viper.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envStringWithDefault retrieves a string from the environment, falling back
// to the given default when unset.
func envStringWithDefault(key string, defaultValue string) string {
	if value := envString(key); value != "" {
		return value
	}

	return defaultValue
}

// envStringSlice retrieves a string slice from the environment via Viper.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	return viper.GetStringSlice(key)
}

// envBool retrieves a boolean from the environment via Viper.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}
