package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/imamik/azship/internal/platform/azure"
)

// StatusReport is the machine-readable output of the status command.
type StatusReport struct {
	App              string `json:"app"`
	ResourceGroup    string `json:"resourceGroup"`
	Environment      string `json:"environment"`
	EnvironmentState string `json:"environmentState"`
	AppState         string `json:"appState,omitempty"`
	Image            string `json:"image,omitempty"`
	FQDN             string `json:"fqdn,omitempty"`
}

// Status reports the observed provisioning state of the environment and
// the app. It never mutates anything.
func Status(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	subscriptionID, err := cfg.ResolveSubscriptionID()
	if err != nil {
		return err
	}

	client, err := newAzureClient(subscriptionID, cfg.ResourceGroup, cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to initialize Azure client: %w", err)
	}

	report := StatusReport{
		App:           cfg.Name,
		ResourceGroup: cfg.ResourceGroup,
		Environment:   cfg.Environment,
	}

	envState, err := client.GetEnvironmentState(ctx, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to read environment state: %w", err)
	}
	report.EnvironmentState = string(envState)

	app, err := client.GetApp(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to read container app: %w", err)
	}
	if app != nil {
		report.AppState = string(app.State)
		report.Image = app.Image
		report.FQDN = app.FQDN
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printStatus(report, app != nil)
	return nil
}

func printStatus(report StatusReport, appExists bool) {
	fmt.Printf("App:            %s\n", report.App)
	fmt.Printf("Resource group: %s\n", report.ResourceGroup)
	fmt.Printf("Environment:    %s (%s)\n", report.Environment, report.EnvironmentState)

	if !appExists {
		fmt.Printf("Container app:  not deployed\n")
		return
	}

	fmt.Printf("Container app:  %s\n", report.AppState)
	fmt.Printf("Image:          %s\n", report.Image)
	if report.FQDN != "" {
		fmt.Printf("URL:            https://%s\n", report.FQDN)
	}

	if azure.ProvisioningState(report.EnvironmentState).NeedsRecreate() {
		fmt.Printf("\nThe environment is in a broken state; the next 'azship deploy' will recreate it.\n")
	}
}
