// Package mocks provides shared test doubles for the rollout pipeline's
// collaborators: the container runtime, the registry, the compose runner,
// and the notifier.
package mocks

import (
	"context"

	"github.com/amanshallow/freshDock/pkg/types"
)

// ManifestResult scripts the registry's answer for one repository.
type ManifestResult struct {
	Digest string
	Status int
	Err    error
}

// Registry is a scripted types.RegistryClient. Repositories are keyed in
// their normalized form (e.g. "library/ubuntu").
type Registry struct {
	// Token returned for every repository unless TokenErrs overrides it.
	Token string
	// TokenErrs scripts FetchToken failures per repository.
	TokenErrs map[string]error
	// Results scripts FetchManifestDigest answers per repository.
	Results map[string]ManifestResult

	// TokenCalls and ManifestCalls record the repositories requested, in order.
	TokenCalls    []string
	ManifestCalls []string
}

// FetchToken returns the scripted token or error for the repository.
func (r *Registry) FetchToken(_ context.Context, repository string) (string, error) {
	r.TokenCalls = append(r.TokenCalls, repository)

	if err := r.TokenErrs[repository]; err != nil {
		return "", err
	}

	return r.Token, nil
}

// FetchManifestDigest returns the scripted manifest result for the repository.
func (r *Registry) FetchManifestDigest(
	_ context.Context,
	repository string,
	_ string,
	_ string,
) (string, int, error) {
	r.ManifestCalls = append(r.ManifestCalls, repository)

	result := r.Results[repository]
	if result.Status == 0 && result.Err == nil {
		result.Status = 200
	}

	return result.Digest, result.Status, result.Err
}

// Client is a scripted types.Client backed by a fixed inventory.
type Client struct {
	Inventory    types.Inventory
	InventoryErr error
	PruneErr     error
	PingErr      error

	// PruneCalls counts PruneUnused invocations.
	PruneCalls int
}

// BuildInventory returns the fixture inventory.
func (c *Client) BuildInventory(_ context.Context) (types.Inventory, error) {
	if c.InventoryErr != nil {
		return types.Inventory{}, c.InventoryErr
	}

	return c.Inventory, nil
}

// PruneUnused records the invocation and returns the scripted error.
func (c *Client) PruneUnused(_ context.Context) error {
	c.PruneCalls++

	return c.PruneErr
}

// Ping returns the scripted error.
func (c *Client) Ping(_ context.Context) error {
	return c.PingErr
}

// Runner is a scripted types.ComposeRunner recording every invocation.
type Runner struct {
	// PullErrs and UpErrs script failures per project directory.
	PullErrs map[string]error
	UpErrs   map[string]error

	// PullCalls and UpCalls record the project directories, in order.
	PullCalls []string
	UpCalls   []string
}

// Pull records the call and returns the scripted error for the directory.
func (r *Runner) Pull(_ context.Context, dir string) error {
	r.PullCalls = append(r.PullCalls, dir)

	return r.PullErrs[dir]
}

// Up records the call and returns the scripted error for the directory.
func (r *Runner) Up(_ context.Context, dir string) error {
	r.UpCalls = append(r.UpCalls, dir)

	return r.UpErrs[dir]
}

// Notification is one recorded Notify call.
type Notification struct {
	Title    string
	Message  string
	Priority int
}

// Notifier records every notification instead of delivering it.
type Notifier struct {
	Notifications []Notification
}

// Notify records the call.
func (n *Notifier) Notify(title string, message string, priority int) {
	n.Notifications = append(n.Notifications, Notification{
		Title:    title,
		Message:  message,
		Priority: priority,
	})
}
