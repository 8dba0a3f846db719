package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
)

type stubPhase struct {
	name string
	err  error
	runs *[]string
}

func (s *stubPhase) Name() string { return s.name }

func (s *stubPhase) Provision(*Context) error {
	*s.runs = append(*s.runs, s.name)
	return s.err
}

func newTestContext() *Context {
	return &Context{
		Context:  context.Background(),
		Config:   &config.Spec{Name: "demo"},
		State:    &State{},
		Azure:    &azure.MockClient{},
		Observer: NopObserver{},
		Timeouts: &config.Timeouts{},
	}
}

func TestRunPhases_ExecutesInOrder(t *testing.T) {
	t.Parallel()

	var runs []string
	phases := []Phase{
		&stubPhase{name: "infrastructure", runs: &runs},
		&stubPhase{name: "environment", runs: &runs},
		&stubPhase{name: "app", runs: &runs},
	}

	err := RunPhases(newTestContext(), phases)

	require.NoError(t, err)
	assert.Equal(t, []string{"infrastructure", "environment", "app"}, runs)
}

func TestRunPhases_StopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("environment broken")
	var runs []string
	phases := []Phase{
		&stubPhase{name: "infrastructure", runs: &runs},
		&stubPhase{name: "environment", err: boom, runs: &runs},
		&stubPhase{name: "app", runs: &runs},
	}

	err := RunPhases(newTestContext(), phases)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "environment phase failed")
	assert.Equal(t, []string{"infrastructure", "environment"}, runs, "phases after a failure must not run")
}

func TestRunPhases_EmptyPipeline(t *testing.T) {
	t.Parallel()
	require.NoError(t, RunPhases(newTestContext(), nil))
}

func TestNewContext_Defaults(t *testing.T) {
	cfg := &config.Spec{Name: "demo"}
	ctx := NewContext(context.Background(), cfg, &azure.MockClient{})

	assert.Same(t, cfg, ctx.Config)
	assert.NotNil(t, ctx.State)
	assert.NotNil(t, ctx.Observer)
	assert.NotNil(t, ctx.Timeouts)
}
