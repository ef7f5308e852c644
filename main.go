package main

import (
	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/cmd"
)

// init configures the initial logging level for freshDock.
//
// It sets logrus to InfoLevel by default, ensuring basic operational logs
// are visible unless overridden by --log-level in cmd.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the freshDock application.
//
// It delegates execution to the cmd package, which handles CLI setup,
// flag parsing, and the update-detection and rollout pipeline.
func main() {
	cmd.Execute()
}
