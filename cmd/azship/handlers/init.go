package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/azship/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeSpecFile writes the config to a file.
	writeSpecFile = config.WriteSpecYAML
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToSpec()

	if err := writeSpecFile(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("azship - Azure Container Apps deployment")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println("Answer a few questions and commit the generated YAML with your service.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Spec) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  App:            %s\n", cfg.Name)
	fmt.Printf("  Resource Group: %s\n", cfg.ResourceGroup)
	fmt.Printf("  Location:       %s\n", cfg.Location)
	fmt.Printf("  Environment:    %s\n", cfg.Environment)
	fmt.Printf("  Image:          %s\n", cfg.Image)
	if cfg.Registry != "" {
		fmt.Printf("  Registry:       %s\n", cfg.Registry)
	}
	fmt.Printf("  Port:           %d\n", cfg.Port)
	fmt.Printf("  Replicas:       %d-%d\n", cfg.Replicas.Min, cfg.Replicas.Max)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Sign in to Azure and select your subscription:")
	fmt.Println("     az login")
	fmt.Println("     export AZURE_SUBSCRIPTION_ID=<your-subscription>")
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Deploy your app:")
	fmt.Printf("     azship deploy\n")
	fmt.Println()
}
