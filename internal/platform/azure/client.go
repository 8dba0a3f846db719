package azure

import (
	"context"
	"time"
)

// App is a normalized view of a deployed container app: the handful of
// attributes the deployment driver and status command care about.
type App struct {
	Name  string
	Image string
	FQDN  string
	State ProvisioningState
}

// RegistryCredential carries the registry block for a container app:
// server hostname plus admin username/password resolved from ACR.
type RegistryCredential struct {
	Server   string
	Username string
	Password string
}

// AppCreateOpts holds all parameters for creating a container app.
type AppCreateOpts struct {
	Name          string
	EnvironmentID string
	Image         string
	TargetPort    int32
	MinReplicas   int32
	MaxReplicas   int32
	Env           map[string]string
	Registry      *RegistryCredential
}

// ResourceGroupManager defines the interface for the resource group the
// deployment lives in.
type ResourceGroupManager interface {
	// EnsureResourceGroup creates the resource group if it does not
	// exist. CreateOrUpdate on an existing group is a no-op.
	EnsureResourceGroup(ctx context.Context) error
}

// EnvironmentManager defines the interface for managed environments.
// Create and delete are fire-and-poll: they issue the asynchronous ARM
// operation and return without waiting for it.
type EnvironmentManager interface {
	// GetEnvironmentState observes the environment's provisioning state.
	// An absent environment yields StateNotFound with a nil error; any
	// other API failure yields a *TransientError.
	GetEnvironmentState(ctx context.Context, name string) (ProvisioningState, error)
	// CreateEnvironment issues an asynchronous create for the environment.
	CreateEnvironment(ctx context.Context, name string) error
	// DeleteEnvironment issues an asynchronous no-wait delete. Deleting
	// an absent environment is not an error.
	DeleteEnvironment(ctx context.Context, name string) error
	// GetEnvironmentID returns the ARM resource ID of the environment,
	// required when creating a container app inside it.
	GetEnvironmentID(ctx context.Context, name string) (string, error)
}

// AppManager defines the interface for container apps.
type AppManager interface {
	// GetApp returns the app by name, or nil if it does not exist.
	GetApp(ctx context.Context, name string) (*App, error)
	// CreateApp issues an asynchronous create with the full app spec.
	CreateApp(ctx context.Context, opts AppCreateOpts) error
	// UpdateAppImage patches only the image reference of an existing
	// app. Repeating the patch with the same image is a no-op.
	UpdateAppImage(ctx context.Context, name, image string) error
	// GetAppState observes the app's own provisioning state.
	GetAppState(ctx context.Context, name string) (ProvisioningState, error)
}

// RegistryManager resolves container registry credentials.
type RegistryManager interface {
	// GetRegistryCredential returns the login server and admin
	// credentials for an Azure Container Registry in the resource group.
	GetRegistryCredential(ctx context.Context, registryName string) (RegistryCredential, error)
}

// LogReader retrieves recent console logs for a container app.
type LogReader interface {
	// TailAppLogs queries Log Analytics for the app's console logs over
	// the given lookback window.
	TailAppLogs(ctx context.Context, workspaceID, appName string, since time.Duration) ([]string, error)
}

// ResourceManager combines all Azure capabilities the deployment
// pipeline consumes.
type ResourceManager interface {
	ResourceGroupManager
	EnvironmentManager
	AppManager
	RegistryManager
	LogReader
}
