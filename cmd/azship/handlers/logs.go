package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/azship/internal/config"
)

// Logs prints recent console logs of the deployed app.
func Logs(ctx context.Context, configPath string, since time.Duration) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Verify.WorkspaceID == "" {
		return fmt.Errorf("no Log Analytics workspace configured: set verify.workspaceId in %s", config.DefaultConfigFilename)
	}

	subscriptionID, err := cfg.ResolveSubscriptionID()
	if err != nil {
		return err
	}

	client, err := newAzureClient(subscriptionID, cfg.ResourceGroup, cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to initialize Azure client: %w", err)
	}

	lines, err := client.TailAppLogs(ctx, cfg.Verify.WorkspaceID, cfg.Name, since)
	if err != nil {
		return fmt.Errorf("failed to query logs: %w", err)
	}

	if len(lines) == 0 {
		fmt.Printf("No logs for %s in the last %v.\n", cfg.Name, since)
		return nil
	}

	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
