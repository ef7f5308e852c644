// Package actions provides the core update-detection and rollout pipeline:
// deciding per image whether an update is needed, driving the compose pull
// and recreate cycle, and the post-run housekeeping prune.
package actions
