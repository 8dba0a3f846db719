package verify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/azship/internal/config"
	"github.com/imamik/azship/internal/platform/azure"
	"github.com/imamik/azship/internal/provisioning"
)

type recordingObserver struct {
	provisioning.NopObserver
	mu       sync.Mutex
	warnings []string
}

func (r *recordingObserver) Event(event provisioning.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.Type == provisioning.EventVerifyWarning {
		r.warnings = append(r.warnings, event.Message)
	}
}

func (r *recordingObserver) WithFields(map[string]string) provisioning.Observer { return r }

type fakeArchive struct {
	ensureErr error
	putErr    error
	keys      []string
	objects   map[string][]byte
}

func (f *fakeArchive) EnsureBucket(context.Context) error { return f.ensureErr }

func (f *fakeArchive) Put(_ context.Context, key string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.keys = append(f.keys, key)
	f.objects[key] = data
	return nil
}

func testContext(client azure.ResourceManager, obs provisioning.Observer) *provisioning.Context {
	return &provisioning.Context{
		Context: context.Background(),
		Config: &config.Spec{
			Name:          "demo",
			ResourceGroup: "demo-rg",
			Environment:   "demo-env",
			Image:         "demo.azurecr.io/demo:v2",
			Verify:        config.VerifySpec{Path: "/healthz"},
		},
		State: &provisioning.State{
			AppFQDN:  "demo.happysea.azurecontainerapps.io",
			AppImage: "demo.azurecr.io/demo:v2",
		},
		Azure:    client,
		Observer: obs,
		Timeouts: &config.Timeouts{ProbeTimeout: time.Second, LogLookback: 30 * time.Minute},
	}
}

func TestVerify_ProbeHitsConfiguredPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()

	err := v.Provision(testContext(&azure.MockClient{}, obs))

	require.NoError(t, err)
	assert.Equal(t, "/healthz", gotPath)
	assert.Empty(t, obs.warnings)
}

func TestVerify_ProbeFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()

	err := v.Provision(testContext(&azure.MockClient{}, obs))

	require.NoError(t, err, "a failed probe must not fail the deployment")
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "503")
}

func TestVerify_UnreachableEndpointIsNonFatal(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	v := NewVerifier()
	v.baseURL = "http://127.0.0.1:1" // nothing listens here
	v.httpClient = &http.Client{Timeout: 200 * time.Millisecond}

	err := v.Provision(testContext(&azure.MockClient{}, obs))

	require.NoError(t, err)
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "endpoint probe failed")
}

func TestVerify_SkipsProbeWithoutFQDN(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	ctx := testContext(&azure.MockClient{}, obs)
	ctx.State.AppFQDN = ""

	err := NewVerifier().Provision(ctx)

	require.NoError(t, err)
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "no FQDN")
}

func TestVerify_TailsLogsWhenWorkspaceConfigured(t *testing.T) {
	t.Parallel()

	client := &azure.MockClient{
		TailAppLogsFunc: func(_ context.Context, workspaceID, appName string, since time.Duration) ([]string, error) {
			assert.Equal(t, "ws-123", workspaceID)
			assert.Equal(t, "demo", appName)
			assert.Equal(t, 30*time.Minute, since)
			return []string{"listening on :8080"}, nil
		},
	}

	obs := &recordingObserver{}
	v := NewVerifier()
	v.baseURL = "http://127.0.0.1:1"
	v.httpClient = &http.Client{Timeout: 100 * time.Millisecond}

	ctx := testContext(client, obs)
	ctx.Config.Verify.WorkspaceID = "ws-123"

	require.NoError(t, v.Provision(ctx))
}

func TestVerify_LogQueryFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	client := &azure.MockClient{
		TailAppLogsFunc: func(context.Context, string, string, time.Duration) ([]string, error) {
			return nil, errors.New("workspace not found")
		},
	}

	obs := &recordingObserver{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()

	ctx := testContext(client, obs)
	ctx.Config.Verify.WorkspaceID = "ws-123"

	require.NoError(t, v.Provision(ctx))
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "tailing console logs")
}

func TestVerify_ArchivesDeploymentRecord(t *testing.T) {
	t.Setenv(EnvArchiveAccessKey, "ak")
	t.Setenv(EnvArchiveSecretKey, "sk")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &fakeArchive{}
	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()
	v.newArchiver = func(endpoint, region, bucket, accessKey, secretKey string) (archiver, error) {
		assert.Equal(t, "https://minio.internal", endpoint)
		assert.Equal(t, "records", bucket)
		assert.Equal(t, "ak", accessKey)
		assert.Equal(t, "sk", secretKey)
		return store, nil
	}

	obs := &recordingObserver{}
	ctx := testContext(&azure.MockClient{}, obs)
	ctx.Config.Archive = &config.ArchiveSpec{Endpoint: "https://minio.internal", Region: "auto", Bucket: "records"}
	ctx.State.AppCreated = true

	require.NoError(t, v.Provision(ctx))
	require.Len(t, store.keys, 1)
	assert.Contains(t, store.keys[0], "deployments/demo/")

	var record Record
	require.NoError(t, json.Unmarshal(store.objects[store.keys[0]], &record))
	assert.Equal(t, "demo", record.App)
	assert.Equal(t, "demo.azurecr.io/demo:v2", record.Image)
	assert.True(t, record.Created)
	assert.Equal(t, http.StatusOK, record.ProbeStatus)
	assert.Empty(t, obs.warnings)
}

func TestVerify_MissingArchiveCredentialsSkipsUpload(t *testing.T) {
	t.Setenv(EnvArchiveAccessKey, "")
	t.Setenv(EnvArchiveSecretKey, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	archiverBuilt := false
	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()
	v.newArchiver = func(string, string, string, string, string) (archiver, error) {
		archiverBuilt = true
		return &fakeArchive{}, nil
	}

	obs := &recordingObserver{}
	ctx := testContext(&azure.MockClient{}, obs)
	ctx.Config.Archive = &config.ArchiveSpec{Endpoint: "https://minio.internal", Bucket: "records"}

	require.NoError(t, v.Provision(ctx))
	assert.False(t, archiverBuilt)
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "skipping")
}

func TestVerify_ArchiveFailureIsNonFatal(t *testing.T) {
	t.Setenv(EnvArchiveAccessKey, "ak")
	t.Setenv(EnvArchiveSecretKey, "sk")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewVerifier()
	v.baseURL = srv.URL
	v.httpClient = srv.Client()
	v.newArchiver = func(string, string, string, string, string) (archiver, error) {
		return &fakeArchive{putErr: errors.New("access denied")}, nil
	}

	obs := &recordingObserver{}
	ctx := testContext(&azure.MockClient{}, obs)
	ctx.Config.Archive = &config.ArchiveSpec{Endpoint: "https://minio.internal", Bucket: "records"}

	require.NoError(t, v.Provision(ctx))
	require.Len(t, obs.warnings, 1)
	assert.Contains(t, obs.warnings[0], "writing deployment record")
}
