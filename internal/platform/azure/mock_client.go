package azure

import (
	"context"
	"time"
)

// MockClient is a configurable fake ResourceManager for tests. Each
// method delegates to the corresponding Func field when set and falls
// back to a benign default otherwise.
type MockClient struct {
	EnsureResourceGroupFunc   func(ctx context.Context) error
	GetEnvironmentStateFunc   func(ctx context.Context, name string) (ProvisioningState, error)
	CreateEnvironmentFunc     func(ctx context.Context, name string) error
	DeleteEnvironmentFunc     func(ctx context.Context, name string) error
	GetEnvironmentIDFunc      func(ctx context.Context, name string) (string, error)
	GetAppFunc                func(ctx context.Context, name string) (*App, error)
	CreateAppFunc             func(ctx context.Context, opts AppCreateOpts) error
	UpdateAppImageFunc        func(ctx context.Context, name, image string) error
	GetAppStateFunc           func(ctx context.Context, name string) (ProvisioningState, error)
	GetRegistryCredentialFunc func(ctx context.Context, registryName string) (RegistryCredential, error)
	TailAppLogsFunc           func(ctx context.Context, workspaceID, appName string, since time.Duration) ([]string, error)
}

// EnsureResourceGroup implements ResourceGroupManager.
func (m *MockClient) EnsureResourceGroup(ctx context.Context) error {
	if m.EnsureResourceGroupFunc != nil {
		return m.EnsureResourceGroupFunc(ctx)
	}
	return nil
}

// GetEnvironmentState implements EnvironmentManager.
func (m *MockClient) GetEnvironmentState(ctx context.Context, name string) (ProvisioningState, error) {
	if m.GetEnvironmentStateFunc != nil {
		return m.GetEnvironmentStateFunc(ctx, name)
	}
	return StateSucceeded, nil
}

// CreateEnvironment implements EnvironmentManager.
func (m *MockClient) CreateEnvironment(ctx context.Context, name string) error {
	if m.CreateEnvironmentFunc != nil {
		return m.CreateEnvironmentFunc(ctx, name)
	}
	return nil
}

// DeleteEnvironment implements EnvironmentManager.
func (m *MockClient) DeleteEnvironment(ctx context.Context, name string) error {
	if m.DeleteEnvironmentFunc != nil {
		return m.DeleteEnvironmentFunc(ctx, name)
	}
	return nil
}

// GetEnvironmentID implements EnvironmentManager.
func (m *MockClient) GetEnvironmentID(ctx context.Context, name string) (string, error) {
	if m.GetEnvironmentIDFunc != nil {
		return m.GetEnvironmentIDFunc(ctx, name)
	}
	return "/subscriptions/mock/resourceGroups/mock/providers/Microsoft.App/managedEnvironments/" + name, nil
}

// GetApp implements AppManager.
func (m *MockClient) GetApp(ctx context.Context, name string) (*App, error) {
	if m.GetAppFunc != nil {
		return m.GetAppFunc(ctx, name)
	}
	return nil, nil
}

// CreateApp implements AppManager.
func (m *MockClient) CreateApp(ctx context.Context, opts AppCreateOpts) error {
	if m.CreateAppFunc != nil {
		return m.CreateAppFunc(ctx, opts)
	}
	return nil
}

// UpdateAppImage implements AppManager.
func (m *MockClient) UpdateAppImage(ctx context.Context, name, image string) error {
	if m.UpdateAppImageFunc != nil {
		return m.UpdateAppImageFunc(ctx, name, image)
	}
	return nil
}

// GetAppState implements AppManager.
func (m *MockClient) GetAppState(ctx context.Context, name string) (ProvisioningState, error) {
	if m.GetAppStateFunc != nil {
		return m.GetAppStateFunc(ctx, name)
	}
	return StateSucceeded, nil
}

// GetRegistryCredential implements RegistryManager.
func (m *MockClient) GetRegistryCredential(ctx context.Context, registryName string) (RegistryCredential, error) {
	if m.GetRegistryCredentialFunc != nil {
		return m.GetRegistryCredentialFunc(ctx, registryName)
	}
	return RegistryCredential{
		Server:   registryName + ".azurecr.io",
		Username: registryName,
		Password: "mock-password",
	}, nil
}

// TailAppLogs implements LogReader.
func (m *MockClient) TailAppLogs(ctx context.Context, workspaceID, appName string, since time.Duration) ([]string, error) {
	if m.TailAppLogsFunc != nil {
		return m.TailAppLogsFunc(ctx, workspaceID, appName, since)
	}
	return nil, nil
}
