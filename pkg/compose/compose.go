// Package compose invokes the compose orchestration tool for a project
// directory. Rollouts run "docker compose pull" followed by
// "docker compose up -d" with the working directory passed explicitly to the
// subprocess, so no process-global state is mutated between images.
package compose

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Docker Compose labels consumed by the inventory builder.
const (
	// ProjectLabel holds the compose project name of a container.
	ProjectLabel = "com.docker.compose.project"
	// WorkingDirLabel holds the filesystem path of the compose project that
	// owns a container. Absent for containers not started via compose.
	WorkingDirLabel = "com.docker.compose.project.working_dir"
	// ServiceLabel holds the compose service name of a container.
	ServiceLabel = "com.docker.compose.service"
)

// Errors for compose invocations.
var (
	// errEmptyProjectDir indicates the container carries no compose working
	// directory, so there is no project to roll out.
	errEmptyProjectDir = errors.New("no compose project directory recorded")
	// errInvalidProjectDir indicates the recorded directory does not exist or
	// is not a directory.
	errInvalidProjectDir = errors.New("invalid compose project directory")
	// errPullFailed indicates the compose pull step exited non-zero.
	errPullFailed = errors.New("compose pull failed")
	// errUpFailed indicates the compose up step exited non-zero.
	errUpFailed = errors.New("compose up failed")
)

// Runner executes compose steps as external processes. The command prefix is
// a field so tests can substitute a harmless binary for the compose plugin.
type Runner struct {
	fs      afero.Fs
	command []string
}

// NewRunner returns a Runner that shells out to the docker compose plugin on
// the host filesystem.
func NewRunner() *Runner {
	return &Runner{
		fs:      afero.NewOsFs(),
		command: []string{"docker", "compose"},
	}
}

// NewRunnerWithOptions returns a Runner with an explicit filesystem and
// command prefix, used by tests.
func NewRunnerWithOptions(fs afero.Fs, command []string) *Runner {
	return &Runner{fs: fs, command: command}
}

// Pull fetches updated images for the compose project in dir.
func (r *Runner) Pull(ctx context.Context, dir string) error {
	if err := r.validateDir(dir); err != nil {
		return err
	}

	if err := r.run(ctx, dir, "pull"); err != nil {
		return fmt.Errorf("%w: %w", errPullFailed, err)
	}

	return nil
}

// Up recreates the compose project's containers in detached mode, picking up
// the freshly pulled images.
func (r *Runner) Up(ctx context.Context, dir string) error {
	if err := r.validateDir(dir); err != nil {
		return err
	}

	if err := r.run(ctx, dir, "up", "-d"); err != nil {
		return fmt.Errorf("%w: %w", errUpFailed, err)
	}

	return nil
}

// run executes one compose step with the working directory set on the
// subprocess. Combined output is captured into the debug log; the exit status
// decides success.
func (r *Runner) run(ctx context.Context, dir string, args ...string) error {
	argv := append(append([]string{}, r.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.command[0], argv...)
	cmd.Dir = dir

	fields := logrus.Fields{
		"dir":     dir,
		"command": strings.Join(append([]string{r.command[0]}, argv...), " "),
	}
	logrus.WithFields(fields).Debug("Invoking compose")

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		logrus.WithFields(fields).Debug(strings.TrimSpace(string(output)))
	}

	if err != nil {
		logrus.WithFields(fields).WithError(err).Debug("Compose invocation failed")

		return err
	}

	return nil
}

// validateDir rejects empty, missing, or non-directory project paths before
// any subprocess is started.
func (r *Runner) validateDir(dir string) error {
	if dir == "" {
		return errEmptyProjectDir
	}

	info, err := r.fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidProjectDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errInvalidProjectDir, dir)
	}

	return nil
}
