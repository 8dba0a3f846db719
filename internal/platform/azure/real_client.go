package azure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v3"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// RealClient implements ResourceManager against the Azure Resource
// Manager APIs. One client is scoped to a single resource group and
// location; all resource names are relative to that group.
type RealClient struct {
	resourceGroup string
	location      string

	groups     *armresources.ResourceGroupsClient
	envs       *armappcontainers.ManagedEnvironmentsClient
	apps       *armappcontainers.ContainerAppsClient
	registries *armcontainerregistry.RegistriesClient
	logs       *azquery.LogsClient
}

// NewRealClient creates a RealClient authenticated via the default Azure
// credential chain (environment, workload identity, managed identity,
// CLI). Credential material itself is never handled here.
func NewRealClient(subscriptionID, resourceGroup, location string) (*RealClient, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Azure credential: %w", err)
	}
	return NewRealClientWithCredential(cred, subscriptionID, resourceGroup, location)
}

// NewRealClientWithCredential creates a RealClient with an explicit
// token credential (useful for testing against fakes).
func NewRealClientWithCredential(cred azcore.TokenCredential, subscriptionID, resourceGroup, location string) (*RealClient, error) {
	factory, err := armappcontainers.NewClientFactory(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build container apps clients: %w", err)
	}

	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource groups client: %w", err)
	}

	registries, err := armcontainerregistry.NewRegistriesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registries client: %w", err)
	}

	logs, err := azquery.NewLogsClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build logs client: %w", err)
	}

	return &RealClient{
		resourceGroup: resourceGroup,
		location:      location,
		groups:        groups,
		envs:          factory.NewManagedEnvironmentsClient(),
		apps:          factory.NewContainerAppsClient(),
		registries:    registries,
		logs:          logs,
	}, nil
}

// EnsureResourceGroup implements ResourceGroupManager.
func (c *RealClient) EnsureResourceGroup(ctx context.Context) error {
	_, err := c.groups.CreateOrUpdate(ctx, c.resourceGroup, armresources.ResourceGroup{
		Location: to.Ptr(c.location),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to ensure resource group %s: %w", c.resourceGroup, err)
	}
	return nil
}

// GetEnvironmentState implements EnvironmentManager. A 404 from ARM is
// a valid observation (StateNotFound), every other failure is wrapped as
// a transient fault so callers never mistake an auth or transport error
// for absence.
func (c *RealClient) GetEnvironmentState(ctx context.Context, name string) (ProvisioningState, error) {
	resp, err := c.envs.Get(ctx, c.resourceGroup, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return StateNotFound, nil
		}
		return StateUnknown, &TransientError{Op: "get managed environment", Err: err}
	}

	if resp.Properties == nil || resp.Properties.ProvisioningState == nil {
		return StateUnknown, nil
	}
	return NormalizeEnvironmentState(string(*resp.Properties.ProvisioningState)), nil
}

// CreateEnvironment implements EnvironmentManager. The ARM operation is
// asynchronous; the returned poller is deliberately dropped and the
// provisioning layer observes progress via GetEnvironmentState.
func (c *RealClient) CreateEnvironment(ctx context.Context, name string) error {
	env := armappcontainers.ManagedEnvironment{
		Location: to.Ptr(c.location),
	}

	_, err := c.envs.BeginCreateOrUpdate(ctx, c.resourceGroup, name, env, nil)
	if err != nil {
		return fmt.Errorf("failed to create managed environment %s: %w", name, err)
	}
	return nil
}

// DeleteEnvironment implements EnvironmentManager. No-wait delete:
// issues the operation and returns. Deleting an absent environment
// succeeds.
func (c *RealClient) DeleteEnvironment(ctx context.Context, name string) error {
	_, err := c.envs.BeginDelete(ctx, c.resourceGroup, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete managed environment %s: %w", name, err)
	}
	return nil
}

// GetEnvironmentID implements EnvironmentManager.
func (c *RealClient) GetEnvironmentID(ctx context.Context, name string) (string, error) {
	resp, err := c.envs.Get(ctx, c.resourceGroup, name, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get managed environment %s: %w", name, err)
	}
	if resp.ID == nil {
		return "", fmt.Errorf("managed environment %s has no resource ID", name)
	}
	return *resp.ID, nil
}

// GetApp implements AppManager. Returns nil without error when the app
// does not exist, so callers can branch create-vs-update.
func (c *RealClient) GetApp(ctx context.Context, name string) (*App, error) {
	resp, err := c.apps.Get(ctx, c.resourceGroup, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get container app %s: %w", name, err)
	}
	return appFromARM(name, resp.ContainerApp), nil
}

// CreateApp implements AppManager. Fire-and-poll like environment
// creation: readiness is observed separately via GetAppState.
func (c *RealClient) CreateApp(ctx context.Context, opts AppCreateOpts) error {
	app := armappcontainers.ContainerApp{
		Location:   to.Ptr(c.location),
		Properties: appProperties(opts),
	}

	_, err := c.apps.BeginCreateOrUpdate(ctx, c.resourceGroup, opts.Name, app, nil)
	if err != nil {
		return fmt.Errorf("failed to create container app %s: %w", opts.Name, err)
	}
	return nil
}

// UpdateAppImage implements AppManager. Only the image reference is
// patched; everything else on the app is left untouched.
func (c *RealClient) UpdateAppImage(ctx context.Context, name, image string) error {
	patch := armappcontainers.ContainerApp{
		Properties: &armappcontainers.ContainerAppProperties{
			Template: &armappcontainers.Template{
				Containers: []*armappcontainers.Container{{
					Name:  to.Ptr(name),
					Image: to.Ptr(image),
				}},
			},
		},
	}

	_, err := c.apps.BeginUpdate(ctx, c.resourceGroup, name, patch, nil)
	if err != nil {
		return fmt.Errorf("failed to update container app %s: %w", name, err)
	}
	return nil
}

// GetAppState implements AppManager.
func (c *RealClient) GetAppState(ctx context.Context, name string) (ProvisioningState, error) {
	resp, err := c.apps.Get(ctx, c.resourceGroup, name, nil)
	if err != nil {
		if IsNotFound(err) {
			return StateNotFound, nil
		}
		return StateUnknown, &TransientError{Op: "get container app", Err: err}
	}

	if resp.Properties == nil || resp.Properties.ProvisioningState == nil {
		return StateUnknown, nil
	}
	return NormalizeAppState(string(*resp.Properties.ProvisioningState)), nil
}

// GetRegistryCredential implements RegistryManager using the registry's
// admin account. The password never leaves the create-app request it is
// plumbed into.
func (c *RealClient) GetRegistryCredential(ctx context.Context, registryName string) (RegistryCredential, error) {
	server := registryName + ".azurecr.io"

	reg, err := c.registries.Get(ctx, c.resourceGroup, registryName, nil)
	if err != nil {
		return RegistryCredential{}, fmt.Errorf("failed to get registry %s: %w", registryName, err)
	}
	if reg.Properties != nil && reg.Properties.LoginServer != nil {
		server = *reg.Properties.LoginServer
	}

	creds, err := c.registries.ListCredentials(ctx, c.resourceGroup, registryName, nil)
	if err != nil {
		return RegistryCredential{}, fmt.Errorf("failed to list credentials for registry %s: %w", registryName, err)
	}
	if creds.Username == nil || len(creds.Passwords) == 0 || creds.Passwords[0].Value == nil {
		return RegistryCredential{}, fmt.Errorf("registry %s has no admin credentials; enable the admin user", registryName)
	}

	return RegistryCredential{
		Server:   server,
		Username: *creds.Username,
		Password: *creds.Passwords[0].Value,
	}, nil
}

// TailAppLogs implements LogReader by querying the Log Analytics
// workspace the environment ships console logs to.
func (c *RealClient) TailAppLogs(ctx context.Context, workspaceID, appName string, since time.Duration) ([]string, error) {
	query := fmt.Sprintf(
		"ContainerAppConsoleLogs_CL | where ContainerAppName_s == %q | project TimeGenerated, Log_s | order by TimeGenerated asc | take 100",
		appName,
	)
	timespan := azquery.TimeInterval(fmt.Sprintf("PT%dM", int(since.Minutes())))

	resp, err := c.logs.QueryWorkspace(ctx, workspaceID, azquery.Body{
		Query:    to.Ptr(query),
		Timespan: to.Ptr(timespan),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs for %s: %w", appName, err)
	}

	var lines []string
	for _, table := range resp.Tables {
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row {
				if cell != nil {
					cells = append(cells, fmt.Sprint(cell))
				}
			}
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return lines, nil
}

// appProperties maps AppCreateOpts to the ARM container app payload.
func appProperties(opts AppCreateOpts) *armappcontainers.ContainerAppProperties {
	cfg := &armappcontainers.Configuration{
		Ingress: &armappcontainers.Ingress{
			External:   to.Ptr(true),
			TargetPort: to.Ptr(opts.TargetPort),
		},
	}

	if opts.Registry != nil {
		// The password travels as a secret referenced by the registry
		// block, mirroring how the ARM API expects credentials.
		secretName := "registry-password"
		cfg.Secrets = []*armappcontainers.Secret{{
			Name:  to.Ptr(secretName),
			Value: to.Ptr(opts.Registry.Password),
		}}
		cfg.Registries = []*armappcontainers.RegistryCredentials{{
			Server:            to.Ptr(opts.Registry.Server),
			Username:          to.Ptr(opts.Registry.Username),
			PasswordSecretRef: to.Ptr(secretName),
		}}
	}

	var env []*armappcontainers.EnvironmentVar
	for _, name := range sortedKeys(opts.Env) {
		env = append(env, &armappcontainers.EnvironmentVar{
			Name:  to.Ptr(name),
			Value: to.Ptr(opts.Env[name]),
		})
	}

	return &armappcontainers.ContainerAppProperties{
		ManagedEnvironmentID: to.Ptr(opts.EnvironmentID),
		Configuration:        cfg,
		Template: &armappcontainers.Template{
			Containers: []*armappcontainers.Container{{
				Name:  to.Ptr(opts.Name),
				Image: to.Ptr(opts.Image),
				Env:   env,
			}},
			Scale: &armappcontainers.Scale{
				MinReplicas: to.Ptr(opts.MinReplicas),
				MaxReplicas: to.Ptr(opts.MaxReplicas),
			},
		},
	}
}

// appFromARM flattens the ARM payload into the normalized App view.
func appFromARM(name string, app armappcontainers.ContainerApp) *App {
	out := &App{Name: name, State: StateUnknown}

	props := app.Properties
	if props == nil {
		return out
	}

	if props.ProvisioningState != nil {
		out.State = NormalizeAppState(string(*props.ProvisioningState))
	}
	if props.Configuration != nil && props.Configuration.Ingress != nil && props.Configuration.Ingress.Fqdn != nil {
		out.FQDN = *props.Configuration.Ingress.Fqdn
	}
	if props.Template != nil && len(props.Template.Containers) > 0 {
		if img := props.Template.Containers[0].Image; img != nil {
			out.Image = *img
		}
	}
	return out
}

// sortedKeys returns map keys in stable order so the generated env block
// is deterministic across deploys.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
