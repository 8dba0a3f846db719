package environment

import (
	"fmt"

	"github.com/imamik/azship/internal/provisioning"
)

// Provisioner runs the environment reconciliation as a pipeline phase
// and publishes the ready environment's resource ID into shared state.
type Provisioner struct{}

// NewProvisioner creates a new environment provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phaseName
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	reconciler := NewReconciler(
		ctx.Azure,
		ctx.Config.Environment,
		ctx.Timeouts.Provisioning,
		ctx.Timeouts.Deletion,
		ctx.Observer,
	)

	if err := reconciler.Reconcile(ctx); err != nil {
		return err
	}

	id, err := ctx.Azure.GetEnvironmentID(ctx, ctx.Config.Environment)
	if err != nil {
		return fmt.Errorf("environment ready but resource ID lookup failed: %w", err)
	}
	ctx.State.EnvironmentID = id
	return nil
}
