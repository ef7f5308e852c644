// Package logging maintains the append-only run log file. Each run starts
// with a timestamped separator block followed by single-line entries tagged
// with a category; once the file exceeds the size threshold it is truncated
// at the start of the next run.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultLogPath is the log file location relative to the running process.
const DefaultLogPath = "freshdock.log"

// SizeLimit is the file size in bytes beyond which the next run truncates
// the log before appending its header.
const SizeLimit = 30000

// CategoryField is the logrus field consulted for the entry category; entries
// without it fall back to a level-based category.
const CategoryField = "category"

// Entry categories written to the run log.
const (
	CategoryChecking = "Checking"
	CategoryInfo     = "Info"
	CategoryError    = "Error"
)

// timeLayout is the timestamp format used in log lines and run headers.
const timeLayout = "2006-01-02 15:04:05"

// RunLog is the file sink for the run log. It implements logrus.Hook so
// every log call above debug level lands in the file as a categorized line.
// StartRun is called once per update pass to apply rotation and write the
// pass's separator block.
type RunLog struct {
	fs   afero.Fs
	path string
	file afero.File
	now  func() time.Time
}

// Open prepares the run log at path. No header is written until StartRun.
func Open(fs afero.Fs, path string) (*RunLog, error) {
	return open(fs, path, time.Now)
}

// open is the clock-injectable constructor used by tests.
func open(fs afero.Fs, path string, now func() time.Time) (*RunLog, error) {
	file, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &RunLog{fs: fs, path: path, file: file, now: now}, nil
}

// StartRun begins a new run in the log: if the file has outgrown SizeLimit
// it is truncated first, then the timestamped separator block is appended.
func (l *RunLog) StartRun() error {
	if info, err := l.fs.Stat(l.path); err == nil && info.Size() > SizeLimit {
		logrus.WithFields(logrus.Fields{
			"path": l.path,
			"size": info.Size(),
		}).Debug("Log file over size limit, truncating")

		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file for truncation: %w", err)
		}

		file, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to truncate log file: %w", err)
		}

		l.file = file
	}

	header := fmt.Sprintf(
		"\n========================================\nfreshDock run %s\n========================================\n",
		l.now().Format(timeLayout),
	)

	if _, err := l.file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write log header: %w", err)
	}

	return nil
}

// Write appends one categorized line to the run log.
func (l *RunLog) Write(category string, message string) error {
	line := fmt.Sprintf("%s [%s] %s\n", l.now().Format(timeLayout), category, message)

	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}

	return nil
}

// Close releases the underlying file.
func (l *RunLog) Close() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	return nil
}

// Levels registers the hook for every level the file should record.
func (l *RunLog) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire writes a logrus entry to the run log. The category comes from the
// CategoryField when set; otherwise warnings and worse map to Error and
// everything else to Info.
func (l *RunLog) Fire(entry *logrus.Entry) error {
	category := CategoryInfo
	if entry.Level <= logrus.WarnLevel {
		category = CategoryError
	}

	if value, ok := entry.Data[CategoryField].(string); ok && value != "" {
		category = value
	}

	return l.Write(category, entry.Message)
}
