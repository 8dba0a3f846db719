package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/azship/cmd/azship/handlers"
)

// Deploy returns the command for deploying an image to Azure Container Apps.
//
// This command runs the full deployment pipeline: ensuring the resource
// group and registry access, converging the Container Apps environment
// onto a healthy state, creating or updating the app, and verifying the
// result.
//
// Optional flags:
//
//	--config, -c: Path to deployment configuration YAML file (default: auto-detect azship.yaml)
//	--image, -i:  Override the image from the config file
//
// Environment variables:
//
//	AZURE_SUBSCRIPTION_ID: Azure subscription (required unless set in config)
func Deploy() *cobra.Command {
	var configPath string
	var image string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create or update the container app",
		Long: `Deploy your container image to Azure Container Apps.

This command provisions everything the app needs and converges the
environment onto the configured state. A broken environment (Failed or
ScheduledForDelete) is deleted and recreated automatically.

If no config file is specified, it looks for azship.yaml in the current
directory. Use 'azship init' to create a configuration file.

Examples:
  # Deploy using azship.yaml in current directory
  azship deploy

  # Deploy using a specific config file
  azship deploy -c production.yaml

  # Deploy a specific image tag (CI usage)
  azship deploy -i myacr.azurecr.io/app:v42`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, image)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: azship.yaml)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "Image to deploy, overriding the config file")

	return cmd
}
