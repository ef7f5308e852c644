// Package preflight verifies the environment before any update work starts:
// privilege level, operating system, required binaries, and daemon
// reachability. Any failure here aborts the process with exit code 1 before
// a single container is touched.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/pkg/types"
)

// Errors for preflight failures.
var (
	// ErrNotRoot indicates the process lacks root privileges.
	ErrNotRoot = errors.New("freshDock must run as root")
	// ErrUnsupportedOS indicates a non-Linux host.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrMissingDependency indicates a required binary or plugin is absent.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrDaemonUnreachable indicates the container runtime did not respond.
	ErrDaemonUnreachable = errors.New("container runtime unreachable")
)

// Seams for tests; production code never reassigns these.
var (
	geteuid  = os.Geteuid
	goos     = func() string { return runtime.GOOS }
	lookPath = exec.LookPath
	runCheck = func(ctx context.Context, name string, args ...string) error {
		return exec.CommandContext(ctx, name, args...).Run()
	}
)

// Check runs every preflight verification in order and returns the first
// failure. The client may be nil when daemon reachability is checked
// elsewhere.
func Check(ctx context.Context, client types.Client) error {
	if geteuid() != 0 {
		return ErrNotRoot
	}

	if goos() != "linux" {
		return fmt.Errorf("%w: %s", ErrUnsupportedOS, goos())
	}

	if _, err := lookPath("docker"); err != nil {
		return fmt.Errorf("%w: docker binary not found in PATH", ErrMissingDependency)
	}

	if err := runCheck(ctx, "docker", "compose", "version"); err != nil {
		return fmt.Errorf("%w: docker compose plugin unavailable: %w", ErrMissingDependency, err)
	}

	if client != nil {
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrDaemonUnreachable, err)
		}
	}

	logrus.Debug("Preflight checks passed")

	return nil
}
