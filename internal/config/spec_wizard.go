package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	Name          string
	ResourceGroup string
	Location      string
	Environment   string
	Image         string
	Registry      string
	Port          string
	MaxReplicas   int
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Location:    "westeurope",
		Port:        "8080",
		MaxReplicas: 1,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Application name").
				Description("Used for the container app and its container (DNS-safe, lowercase)").
				Placeholder("my-app").
				Value(&result.Name).
				Validate(func(s string) error { return validateName("name", s) }),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Resource group").
				Description("Created if it does not exist").
				Placeholder("my-app-rg").
				Value(&result.ResourceGroup).
				Validate(requireValue("resource group")),

			huh.NewSelect[string]().
				Title("Location").
				Description("Azure region for all resources").
				Options(
					huh.NewOption("West Europe (westeurope)", "westeurope"),
					huh.NewOption("North Europe (northeurope)", "northeurope"),
					huh.NewOption("East US (eastus)", "eastus"),
					huh.NewOption("West US 2 (westus2)", "westus2"),
					huh.NewOption("Southeast Asia (southeastasia)", "southeastasia"),
				).
				Value(&result.Location),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Managed environment").
				Description("Container Apps environment, reconciled on every deploy").
				Placeholder("my-app-env").
				Value(&result.Environment).
				Validate(func(s string) error { return validateName("environment", s) }),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Image reference").
				Description("Full reference with an explicit tag").
				Placeholder("myregistry.azurecr.io/my-app:v1").
				Value(&result.Image).
				Validate(validateImageRef),

			huh.NewInput().
				Title("Container registry (optional)").
				Description("ACR name for private images; leave empty for public images").
				Placeholder("myregistry").
				Value(&result.Registry),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Target port").
				Description("Container port ingress traffic is routed to").
				Value(&result.Port).
				Validate(validatePort),

			huh.NewSelect[int]().
				Title("Maximum replicas").
				Options(
					huh.NewOption("1 replica", 1),
					huh.NewOption("2 replicas", 2),
					huh.NewOption("3 replicas", 3),
					huh.NewOption("5 replicas", 5),
					huh.NewOption("10 replicas", 10),
				).
				Value(&result.MaxReplicas),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToSpec converts the wizard result to a Spec.
func (r *WizardResult) ToSpec() *Spec {
	port, _ := strconv.Atoi(r.Port)
	return &Spec{
		Name:          r.Name,
		ResourceGroup: r.ResourceGroup,
		Location:      r.Location,
		Environment:   r.Environment,
		Image:         r.Image,
		Registry:      r.Registry,
		Port:          int32(port),
		Replicas: ReplicaSpec{
			Min: 1,
			Max: int32(r.MaxReplicas),
		},
		Verify: VerifySpec{Path: "/"},
	}
}

func requireValue(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateImageRef(s string) error {
	if s == "" {
		return fmt.Errorf("image is required")
	}
	if !strings.Contains(s, ":") {
		return fmt.Errorf("image needs an explicit tag")
	}
	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
