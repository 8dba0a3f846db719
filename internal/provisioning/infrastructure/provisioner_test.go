package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
)

func testContext(client azure.ResourceManager, registry string) *provisioning.Context {
	return &provisioning.Context{
		Context: context.Background(),
		Config: &config.Spec{
			Name:          "demo",
			ResourceGroup: "demo-rg",
			Location:      "westeurope",
			Environment:   "demo-env",
			Image:         "demo.azurecr.io/demo:v1",
			Registry:      registry,
		},
		State:    &provisioning.State{},
		Azure:    client,
		Observer: provisioning.NopObserver{},
		Timeouts: &config.Timeouts{},
	}
}

func TestProvision_EnsuresResourceGroupAndCredential(t *testing.T) {
	t.Parallel()

	var ensured bool
	client := &azure.MockClient{
		EnsureResourceGroupFunc: func(_ context.Context) error {
			ensured = true
			return nil
		},
		GetRegistryCredentialFunc: func(_ context.Context, name string) (azure.RegistryCredential, error) {
			return azure.RegistryCredential{Server: name + ".azurecr.io", Username: name, Password: "pw"}, nil
		},
	}

	ctx := testContext(client, "demoacr")
	err := NewProvisioner().Provision(ctx)

	require.NoError(t, err)
	assert.True(t, ensured)
	require.NotNil(t, ctx.State.RegistryCredential)
	assert.Equal(t, "demoacr.azurecr.io", ctx.State.RegistryCredential.Server)
}

func TestProvision_SkipsCredentialForPublicImage(t *testing.T) {
	t.Parallel()

	var credentialLookups int
	client := &azure.MockClient{
		GetRegistryCredentialFunc: func(_ context.Context, _ string) (azure.RegistryCredential, error) {
			credentialLookups++
			return azure.RegistryCredential{}, nil
		},
	}

	ctx := testContext(client, "")
	err := NewProvisioner().Provision(ctx)

	require.NoError(t, err)
	assert.Zero(t, credentialLookups)
	assert.Nil(t, ctx.State.RegistryCredential)
}

func TestProvision_ResourceGroupErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("forbidden")
	client := &azure.MockClient{
		EnsureResourceGroupFunc: func(_ context.Context) error { return boom },
	}

	err := NewProvisioner().Provision(testContext(client, "demoacr"))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "demo-rg")
}

func TestProvision_CredentialErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("admin user disabled")
	client := &azure.MockClient{
		GetRegistryCredentialFunc: func(_ context.Context, _ string) (azure.RegistryCredential, error) {
			return azure.RegistryCredential{}, boom
		},
	}

	ctx := testContext(client, "demoacr")
	err := NewProvisioner().Provision(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, ctx.State.RegistryCredential)
}
