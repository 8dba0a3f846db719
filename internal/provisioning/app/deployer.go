package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
	"github.com/imamik/azship/internal/util/retry"
)

// Deployer converges the container app onto the configured image. An
// absent app is created from the full spec; an existing app receives an
// image-only update. Exactly one mutation happens per run.
type Deployer struct{}

func NewDeployer() *Deployer {
	return &Deployer{}
}

func (d *Deployer) Name() string { return "app" }

func (d *Deployer) Provision(ctx *provisioning.Context) error {
	if ctx.State.EnvironmentID == "" {
		return errors.New("environment ID not resolved; environment phase must run first")
	}

	cfg := ctx.Config
	existing, err := ctx.Azure.GetApp(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("looking up container app %q: %w", cfg.Name, err)
	}

	if existing == nil {
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceCreating,
			Phase:    d.Name(),
			Resource: cfg.Name,
			Message:  fmt.Sprintf("creating container app with image %s", cfg.Image),
		})
		opts := azure.AppCreateOpts{
			Name:          cfg.Name,
			EnvironmentID: ctx.State.EnvironmentID,
			Image:         cfg.Image,
			TargetPort:    cfg.Port,
			MinReplicas:   cfg.Replicas.Min,
			MaxReplicas:   cfg.Replicas.Max,
			Env:           cfg.Env,
			Registry:      ctx.State.RegistryCredential,
		}
		if err := ctx.Azure.CreateApp(ctx, opts); err != nil {
			return fmt.Errorf("creating container app %q: %w", cfg.Name, err)
		}
		ctx.State.AppCreated = true
	} else {
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceUpdating,
			Phase:    d.Name(),
			Resource: cfg.Name,
			Message:  fmt.Sprintf("updating image to %s", cfg.Image),
		})
		if err := ctx.Azure.UpdateAppImage(ctx, cfg.Name, cfg.Image); err != nil {
			return fmt.Errorf("updating container app %q: %w", cfg.Name, err)
		}
	}
	ctx.State.AppImage = cfg.Image

	// The control plane needs a moment before the new revision shows up
	// in GET responses; polling immediately observes the old revision as
	// Succeeded and declares victory too early.
	if ctx.Timeouts.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ctx.Timeouts.SettleDelay):
		}
	}

	if err := d.waitReady(ctx); err != nil {
		return err
	}

	app, err := ctx.Azure.GetApp(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("reading container app %q after deploy: %w", cfg.Name, err)
	}
	if app != nil {
		ctx.State.AppFQDN = app.FQDN
	}
	return nil
}

func (d *Deployer) waitReady(ctx *provisioning.Context) error {
	name := ctx.Config.Name
	var lastState azure.ProvisioningState

	attempt := 0
	attempts, err := retry.Poll(ctx, ctx.Timeouts.Provisioning, func() (bool, error) {
		attempt++
		state, err := ctx.Azure.GetAppState(ctx, name)
		if err != nil {
			return false, err
		}
		lastState = state
		provisioning.LogStateObserved(ctx.Observer, d.Name(), name, string(state), attempt)

		switch state {
		case azure.StateSucceeded:
			return true, nil
		case azure.StateFailed:
			return false, retry.Fatal(fmt.Errorf("container app %q entered Failed state", name))
		default:
			return false, nil
		}
	})
	if errors.Is(err, retry.ErrBudgetExhausted) {
		return fmt.Errorf("container app %q not ready after %d attempts (last state %s)", name, attempts, lastState)
	}
	return err
}
