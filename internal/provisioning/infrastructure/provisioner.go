// Package infrastructure ensures the Azure resources a deployment sits
// on: the resource group, and the container registry credential when a
// private registry is configured.
package infrastructure

import (
	"fmt"

	"github.com/imamik/azship/internal/provisioning"
)

type Provisioner struct{}

func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

func (p *Provisioner) Name() string { return "infrastructure" }

func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreating,
		Phase:    p.Name(),
		Resource: cfg.ResourceGroup,
		Message:  fmt.Sprintf("ensuring resource group in %s", cfg.Location),
	})
	if err := ctx.Azure.EnsureResourceGroup(ctx); err != nil {
		return fmt.Errorf("ensuring resource group %q: %w", cfg.ResourceGroup, err)
	}

	if cfg.Registry == "" {
		// Public image, nothing to authenticate against.
		return nil
	}

	cred, err := ctx.Azure.GetRegistryCredential(ctx, cfg.Registry)
	if err != nil {
		return fmt.Errorf("fetching credentials for registry %q: %w", cfg.Registry, err)
	}
	ctx.State.RegistryCredential = &cred

	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceExists,
		Phase:    p.Name(),
		Resource: cfg.Registry,
		Message:  fmt.Sprintf("registry credential resolved for %s", cred.Server),
	})
	return nil
}
