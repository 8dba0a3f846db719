package environment

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
	"github.com/imamik/azship/internal/util/retry"
)

const phaseName = "environment"

// Reconciler drives a managed environment from whatever state it is in
// to Succeeded, deleting and recreating it when the platform reports a
// terminal state.
type Reconciler struct {
	envs      azure.EnvironmentManager
	name      string
	provision retry.Budget
	deletion  retry.Budget
	observer  provisioning.Observer
}

// NewReconciler creates a reconciler for the named environment.
func NewReconciler(envs azure.EnvironmentManager, name string, provision, deletion retry.Budget, observer provisioning.Observer) *Reconciler {
	return &Reconciler{
		envs:      envs,
		name:      name,
		provision: provision,
		deletion:  deletion,
		observer:  observer,
	}
}

// Reconcile observes the environment and brings it to Succeeded. It
// either returns nil with the environment ready, or a fatal error; there
// is no partial success.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	state, err := r.envs.GetEnvironmentState(ctx, r.name)
	if err != nil {
		return fmt.Errorf("failed to observe environment %s: %w", r.name, err)
	}

	switch {
	case state == azure.StateNotFound:
		r.observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceCreating,
			Phase:    phaseName,
			Resource: r.name,
			Message:  "creating managed environment",
		})
		if err := r.envs.CreateEnvironment(ctx, r.name); err != nil {
			return err
		}
	case state.NeedsRecreate():
		if err := r.recreate(ctx, state); err != nil {
			return err
		}
	}

	return r.waitReady(ctx)
}

// waitReady polls the environment under the provisioning budget until
// it reaches Succeeded. A terminal state observed mid-wait triggers a
// recreate and the wait continues; the budget is shared across the
// whole call, so a flapping environment cannot keep the loop alive
// forever.
func (r *Reconciler) waitReady(ctx context.Context) error {
	var last azure.ProvisioningState

	attempts, err := retry.Poll(ctx, r.provision, func() (bool, error) {
		state, err := r.envs.GetEnvironmentState(ctx, r.name)
		if err != nil {
			return false, err
		}
		last = state

		switch {
		case state == azure.StateSucceeded:
			return true, nil
		case state.NeedsRecreate():
			// The environment degraded after waiting began. Heal it and
			// keep polling on the remaining budget.
			if err := r.recreate(ctx, state); err != nil {
				return false, err
			}
			return false, nil
		default:
			// Creating, Deleting, Unknown, NotFound: nothing to do but wait.
			return false, nil
		}
	})
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return &ProvisioningTimeoutError{Environment: r.name, LastState: last, Attempts: attempts}
		}
		return fmt.Errorf("failed while waiting for environment %s: %w", r.name, err)
	}

	provisioning.LogStateObserved(r.observer, phaseName, r.name, string(azure.StateSucceeded), attempts)
	return nil
}

// recreate deletes the environment and, once it is observably gone,
// creates it again. The delete itself is asynchronous and no-wait;
// disappearance is confirmed by polling under the deletion budget, and
// no create is ever issued before NotFound has been observed.
func (r *Reconciler) recreate(ctx context.Context, observed azure.ProvisioningState) error {
	r.observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceDeleting,
		Phase:    phaseName,
		Resource: r.name,
		Message:  "deleting unhealthy managed environment",
		Fields:   map[string]string{"state": string(observed)},
	})

	if err := r.envs.DeleteEnvironment(ctx, r.name); err != nil {
		return fmt.Errorf("failed to delete environment %s: %w", r.name, err)
	}

	last := observed
	attempts, err := retry.Poll(ctx, r.deletion, func() (bool, error) {
		state, err := r.envs.GetEnvironmentState(ctx, r.name)
		if err != nil {
			return false, err
		}
		last = state
		return state == azure.StateNotFound, nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return &DeletionTimeoutError{Environment: r.name, LastState: last, Attempts: attempts}
		}
		return fmt.Errorf("failed while waiting for environment %s to disappear: %w", r.name, err)
	}

	r.observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceDeleted,
		Phase:    phaseName,
		Resource: r.name,
		Message:  "managed environment deleted",
	})

	r.observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreating,
		Phase:    phaseName,
		Resource: r.name,
		Message:  "recreating managed environment",
	})
	if err := r.envs.CreateEnvironment(ctx, r.name); err != nil {
		return fmt.Errorf("failed to recreate environment %s: %w", r.name, err)
	}
	return nil
}
