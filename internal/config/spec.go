package config

import (
	"fmt"
	"os"
	"strings"
)

// Spec is the deployment configuration for azship. It names the target
// Azure resources and the application to deploy; retry budgets and
// timeouts are environment-tunable and live in Timeouts.
type Spec struct {
	// Name is the container app name, also used for the single container
	// inside it. Must be DNS-safe: lowercase alphanumeric and hyphens.
	Name string `yaml:"name"`

	// SubscriptionID is the Azure subscription. Falls back to the
	// AZURE_SUBSCRIPTION_ID environment variable when empty.
	SubscriptionID string `yaml:"subscription_id,omitempty"`

	// ResourceGroup is the resource group everything is deployed into.
	ResourceGroup string `yaml:"resource_group"`

	// Location is the Azure region, e.g. "westeurope".
	Location string `yaml:"location"`

	// Environment is the Container Apps managed environment name.
	Environment string `yaml:"environment"`

	// Image is the full image reference (registry/repo:tag).
	Image string `yaml:"image"`

	// Registry is the Azure Container Registry name whose admin
	// credentials are plumbed into the app. Empty for public images.
	Registry string `yaml:"registry,omitempty"`

	// Port is the container port ingress traffic is routed to.
	Port int32 `yaml:"port"`

	// Replicas bounds horizontal scaling.
	Replicas ReplicaSpec `yaml:"replicas"`

	// Env is the application environment variables. Keys are unique by
	// construction (YAML mapping).
	Env map[string]string `yaml:"env,omitempty"`

	// Verify configures the post-deploy verification step.
	Verify VerifySpec `yaml:"verify,omitempty"`

	// Archive configures the optional deployment-record archive.
	Archive *ArchiveSpec `yaml:"archive,omitempty"`
}

// ReplicaSpec bounds the app's replica count.
type ReplicaSpec struct {
	Min int32 `yaml:"min"`
	Max int32 `yaml:"max"`
}

// VerifySpec configures the best-effort post-deploy checks.
type VerifySpec struct {
	// Path is the HTTP path probed on the app's ingress FQDN.
	// Empty disables the probe.
	Path string `yaml:"path,omitempty"`

	// WorkspaceID is the Log Analytics workspace GUID used for the
	// post-deploy log tail. Empty disables the tail.
	WorkspaceID string `yaml:"workspace_id,omitempty"`
}

// ArchiveSpec configures the S3-compatible deployment-record archive.
// Credentials come from AZSHIP_S3_ACCESS_KEY / AZSHIP_S3_SECRET_KEY.
type ArchiveSpec struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
}

// ResolveSubscriptionID returns the configured subscription ID, falling
// back to AZURE_SUBSCRIPTION_ID.
func (s *Spec) ResolveSubscriptionID() (string, error) {
	if s.SubscriptionID != "" {
		return s.SubscriptionID, nil
	}
	if id := os.Getenv("AZURE_SUBSCRIPTION_ID"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no subscription ID: set subscription_id in the config or AZURE_SUBSCRIPTION_ID in the environment")
}

// validateName checks a DNS-safe resource name.
func validateName(field, s string) error {
	if s == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(s) > 32 {
		return fmt.Errorf("%s must be 32 characters or less", field)
	}
	if s != strings.ToLower(s) {
		return fmt.Errorf("%s must be lowercase", field)
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("%s can only contain lowercase letters, numbers, and hyphens", field)
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("%s cannot start or end with a hyphen", field)
	}
	return nil
}
