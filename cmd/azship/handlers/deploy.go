// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
	"github.com/imamik/azship/internal/provisioning/app"
	"github.com/imamik/azship/internal/provisioning/environment"
	"github.com/imamik/azship/internal/provisioning/infrastructure"
	"github.com/imamik/azship/internal/provisioning/verify"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newAzureClient creates the real Azure resource manager.
	newAzureClient = func(subscriptionID, resourceGroup, location string) (azure.ResourceManager, error) {
		return azure.NewRealClient(subscriptionID, resourceGroup, location)
	}

	// loadSpecFile loads a deployment config from file.
	loadSpecFile = config.LoadSpec

	// findConfigFile locates the default config file.
	findConfigFile = config.FindConfigFile

	// loadTimeouts reads polling budgets from the environment.
	loadTimeouts = config.LoadTimeouts

	// newObserver builds the deployment observer.
	newObserver = func() provisioning.Observer {
		return provisioning.NewConsoleObserver()
	}
)

// Deploy runs the full deployment pipeline against Azure.
//
// The pipeline converges rather than assumes: the resource group is
// created when missing, a broken Container Apps environment is deleted
// and recreated, and the app is created or image-patched depending on
// whether it exists. imageOverride, when non-empty, replaces the image
// from the config file; CI passes the freshly pushed tag this way.
func Deploy(ctx context.Context, configPath, imageOverride string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if imageOverride != "" {
		cfg.Image = imageOverride
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid image override: %w", err)
		}
	}

	subscriptionID, err := cfg.ResolveSubscriptionID()
	if err != nil {
		return err
	}

	log.Printf("Deploying %s to container app %s", cfg.Image, cfg.Name)

	client, err := newAzureClient(subscriptionID, cfg.ResourceGroup, cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to initialize Azure client: %w", err)
	}

	depCtx := &provisioning.Context{
		Context:  ctx,
		Config:   cfg,
		State:    &provisioning.State{},
		Azure:    client,
		Observer: newObserver(),
		Timeouts: loadTimeouts(),
	}

	phases := []provisioning.Phase{
		infrastructure.NewProvisioner(),
		environment.NewProvisioner(),
		app.NewDeployer(),
		verify.NewVerifier(),
	}

	if err := provisioning.RunPhases(depCtx, phases); err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}

	printDeploySuccess(cfg, depCtx.State)
	return nil
}

// loadConfig loads and validates the deployment configuration. If
// configPath is empty, it looks for azship.yaml in the current directory.
func loadConfig(configPath string) (*config.Spec, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'azship init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadSpecFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// printDeploySuccess outputs completion message and next steps.
func printDeploySuccess(cfg *config.Spec, state *provisioning.State) {
	fmt.Printf("\nDeployment complete!\n")
	if state.AppCreated {
		fmt.Printf("Container app %s created.\n", cfg.Name)
	} else {
		fmt.Printf("Container app %s updated to %s.\n", cfg.Name, state.AppImage)
	}
	if state.AppFQDN != "" {
		fmt.Printf("\nYour app is reachable at:\n")
		fmt.Printf("  https://%s\n", state.AppFQDN)
	}
	fmt.Printf("\nInspect it with:\n")
	fmt.Printf("  azship status\n")
	fmt.Printf("  azship logs\n")
}
