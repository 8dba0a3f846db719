package provisioning

import (
	"context"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
)

// State holds the shared results of deployment phases. It is
// progressively populated as each phase completes; later phases consume
// what earlier phases resolved. EnvironmentID is the readiness token:
// the app phase refuses to run without it.
type State struct {
	// Infrastructure results
	RegistryCredential *azure.RegistryCredential

	// Environment results
	EnvironmentID string

	// App results
	AppCreated bool // true when this deploy created the app, false on update
	AppFQDN    string
	AppImage   string
}

// Context wraps all dependencies and state needed for a deployment phase.
type Context struct {
	context.Context
	Config   *config.Spec
	State    *State
	Azure    azure.ResourceManager
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new deployment context.
func NewContext(ctx context.Context, cfg *config.Spec, client azure.ResourceManager) *Context {
	observer := NewConsoleObserver()
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    &State{},
		Azure:    client,
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
	}
}
