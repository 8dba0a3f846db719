package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/azship/cmd/azship/handlers"
)

// Logs returns the command for tailing recent app console logs.
//
// Requires verify.workspaceId in the configuration, pointing at the Log
// Analytics workspace the environment ships logs to.
func Logs() *cobra.Command {
	var configPath string
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent app console logs",
		Long: `Print recent console logs of the deployed app, read from the Log
Analytics workspace configured under verify.workspaceId.

Examples:
  azship logs
  azship logs --since 2h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Logs(cmd.Context(), configPath, since)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: azship.yaml)")
	cmd.Flags().DurationVar(&since, "since", 30*time.Minute, "How far back to read logs")

	return cmd
}
