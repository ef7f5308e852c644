// Package types defines the shared data model and collaborator interfaces for
// freshDock: image references, the per-run inventory, update outcomes, and the
// contracts for the container runtime, registry, compose, and notification
// collaborators.
package types
