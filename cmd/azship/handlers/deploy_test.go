package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
	"github.com/imamik/azship/internal/util/retry"
)

func testSpec() *config.Spec {
	return &config.Spec{
		Name:           "demo",
		SubscriptionID: "sub-123",
		ResourceGroup:  "demo-rg",
		Location:       "westeurope",
		Environment:    "demo-env",
		Image:          "demo.azurecr.io/demo:v1",
		Registry:       "demoacr",
		Port:           8080,
		Replicas:       config.ReplicaSpec{Min: 1, Max: 2},
	}
}

// fastTimeouts keeps handler tests from sleeping on real budgets.
func fastTimeouts() *config.Timeouts {
	return &config.Timeouts{
		Provisioning: retry.Budget{MaxAttempts: 5, Interval: time.Millisecond},
		Deletion:     retry.Budget{MaxAttempts: 5, Interval: time.Millisecond},
	}
}

func injectDeployDefaults(t *testing.T, client azure.ResourceManager) {
	t.Helper()
	saveAndRestoreFactories(t)

	loadSpecFile = func(string) (*config.Spec, error) { return testSpec(), nil }
	loadTimeouts = fastTimeouts
	newObserver = func() provisioning.Observer { return provisioning.NopObserver{} }
	newAzureClient = func(subscriptionID, resourceGroup, location string) (azure.ResourceManager, error) {
		assert.Equal(t, "sub-123", subscriptionID)
		assert.Equal(t, "demo-rg", resourceGroup)
		assert.Equal(t, "westeurope", location)
		return client, nil
	}
}

func TestDeploy_FullPipelineAgainstHealthySubscription(t *testing.T) {
	var created []azure.AppCreateOpts
	client := &azure.MockClient{
		CreateAppFunc: func(_ context.Context, opts azure.AppCreateOpts) error {
			created = append(created, opts)
			return nil
		},
	}
	injectDeployDefaults(t, client)

	err := Deploy(context.Background(), "azship.yaml", "")

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "demo.azurecr.io/demo:v1", created[0].Image)
	require.NotNil(t, created[0].Registry, "registry credential must flow into app creation")
}

func TestDeploy_ImageOverrideWins(t *testing.T) {
	var created []azure.AppCreateOpts
	client := &azure.MockClient{
		CreateAppFunc: func(_ context.Context, opts azure.AppCreateOpts) error {
			created = append(created, opts)
			return nil
		},
	}
	injectDeployDefaults(t, client)

	err := Deploy(context.Background(), "azship.yaml", "demo.azurecr.io/demo:v42")

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "demo.azurecr.io/demo:v42", created[0].Image)
}

func TestDeploy_RejectsUntaggedImageOverride(t *testing.T) {
	injectDeployDefaults(t, &azure.MockClient{})

	err := Deploy(context.Background(), "azship.yaml", "not-a-tagged-image")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image override")
}

func TestDeploy_PhaseFailureAborts(t *testing.T) {
	boom := errors.New("forbidden")
	var appTouched bool
	client := &azure.MockClient{
		EnsureResourceGroupFunc: func(context.Context) error { return boom },
		CreateAppFunc: func(context.Context, azure.AppCreateOpts) error {
			appTouched = true
			return nil
		},
	}
	injectDeployDefaults(t, client)

	err := Deploy(context.Background(), "azship.yaml", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "infrastructure phase failed")
	assert.False(t, appTouched, "later phases must not run after a failure")
}

func TestDeploy_RecreatesBrokenEnvironment(t *testing.T) {
	envStates := []azure.ProvisioningState{
		azure.StateFailed,   // entry observation
		azure.StateNotFound, // deletion confirmed
		azure.StateSucceeded,
	}
	var mutations []string
	client := &azure.MockClient{
		GetEnvironmentStateFunc: func(context.Context, string) (azure.ProvisioningState, error) {
			state := envStates[0]
			if len(envStates) > 1 {
				envStates = envStates[1:]
			}
			return state, nil
		},
		DeleteEnvironmentFunc: func(context.Context, string) error {
			mutations = append(mutations, "delete")
			return nil
		},
		CreateEnvironmentFunc: func(context.Context, string) error {
			mutations = append(mutations, "create")
			return nil
		},
	}
	injectDeployDefaults(t, client)

	err := Deploy(context.Background(), "azship.yaml", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"delete", "create"}, mutations)
}

func TestLoadConfig_EmptyPath_NoDefaultFile(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) {
		return "", errors.New("config file azship.yaml not found")
	}

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
	assert.Contains(t, err.Error(), "azship init")
}

func TestLoadConfig_EmptyPath_WithDefaultFile(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) { return "/work/azship.yaml", nil }
	loadSpecFile = func(path string) (*config.Spec, error) {
		assert.Equal(t, "/work/azship.yaml", path)
		return testSpec(), nil
	}

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
}

func TestLoadConfig_LoadFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	loadSpecFile = func(string) (*config.Spec, error) {
		return nil, errors.New("yaml: line 3: mapping values are not allowed")
	}

	_, err := loadConfig("broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
