package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/azship/cmd/azship/handlers"
	"github.com/imamik/azship/internal/config"
)

// Init returns the command for creating a deployment configuration.
//
// Runs an interactive wizard and writes the answers as azship.yaml.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a deployment configuration interactively",
		Long: `Create a deployment configuration file.

The wizard asks for the app name, resource group, location, environment
name and image, and writes an azship.yaml you can commit alongside your
service.

Examples:
  # Create azship.yaml in the current directory
  azship init

  # Write the config somewhere else
  azship init -o deploy/azship.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Where to write the configuration file")

	return cmd
}
