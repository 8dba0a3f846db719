package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/azship/cmd/azship/handlers"
)

// Status returns the command for inspecting the deployed app.
//
// Optional flags:
//
//	--config, -c: Path to deployment configuration YAML file
//	--json:       Emit machine-readable JSON instead of text
func Status() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show environment and app state",
		Long: `Show the provisioning state of the Container Apps environment and
the app: observed states, the running image and the public FQDN.

Examples:
  azship status
  azship status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: azship.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")

	return cmd
}
