// Package verify performs post-deployment checks: an HTTP probe against
// the app's public endpoint, a tail of recent console logs, and an
// archive record pushed to S3-compatible storage. Every check is best
// effort. A deployment that converged is a success even when the
// verification surface is degraded, so failures here surface as
// warnings, never as phase errors.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/imamik/azship/internal/platform/objstore"
	"github.com/imamik/azship/internal/provisioning"
	"github.com/imamik/azship/internal/util/async"
)

const (
	// EnvArchiveAccessKey names the env var holding the archive access key.
	EnvArchiveAccessKey = "AZSHIP_S3_ACCESS_KEY"
	// EnvArchiveSecretKey names the env var holding the archive secret key.
	EnvArchiveSecretKey = "AZSHIP_S3_SECRET_KEY"
)

// archiver is the slice of objstore.Client the verifier needs.
type archiver interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte) error
}

// Record is the deployment summary written to the archive bucket.
type Record struct {
	App           string    `json:"app"`
	Image         string    `json:"image"`
	FQDN          string    `json:"fqdn,omitempty"`
	ResourceGroup string    `json:"resourceGroup"`
	Environment   string    `json:"environment"`
	Created       bool      `json:"created"`
	ProbeStatus   int       `json:"probeStatus,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Logs          []string  `json:"logs,omitempty"`
}

// Verifier is the final deployment phase.
type Verifier struct {
	// httpClient overrides the probe client in tests; when nil a client
	// scoped to the configured probe timeout is used.
	httpClient *http.Client
	// baseURL overrides the probe target in tests; when empty the app's
	// FQDN is used over https.
	baseURL string
	// newArchiver overrides archive construction in tests.
	newArchiver func(endpoint, region, bucket, accessKey, secretKey string) (archiver, error)
}

func NewVerifier() *Verifier {
	return &Verifier{
		newArchiver: func(endpoint, region, bucket, accessKey, secretKey string) (archiver, error) {
			return objstore.NewClient(endpoint, region, bucket, accessKey, secretKey)
		},
	}
}

func (v *Verifier) Name() string { return "verify" }

func (v *Verifier) Provision(ctx *provisioning.Context) error {
	record := Record{
		App:           ctx.Config.Name,
		Image:         ctx.State.AppImage,
		FQDN:          ctx.State.AppFQDN,
		ResourceGroup: ctx.Config.ResourceGroup,
		Environment:   ctx.Config.Environment,
		Created:       ctx.State.AppCreated,
		Timestamp:     time.Now().UTC(),
	}

	// Probe and log query are independent network reads; overlap them.
	// Both report problems as warnings and never return an error.
	_ = async.RunParallel(ctx, []async.Task{
		{Name: "probe", Func: func(context.Context) error {
			record.ProbeStatus = v.probe(ctx)
			return nil
		}},
		{Name: "logs", Func: func(context.Context) error {
			record.Logs = v.tailLogs(ctx)
			return nil
		}},
	})

	v.archive(ctx, record)

	return nil
}

// probe issues a GET against the app endpoint and returns the observed
// status code, or 0 when the probe could not run.
func (v *Verifier) probe(ctx *provisioning.Context) int {
	path := ctx.Config.Verify.Path
	if path == "" {
		path = "/"
	}

	base := v.baseURL
	if base == "" {
		if ctx.State.AppFQDN == "" {
			v.warn(ctx, "no FQDN resolved, skipping endpoint probe")
			return 0
		}
		base = "https://" + ctx.State.AppFQDN
	}

	client := v.httpClient
	if client == nil {
		client = &http.Client{Timeout: ctx.Timeouts.ProbeTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		v.warn(ctx, fmt.Sprintf("building probe request: %v", err))
		return 0
	}

	resp, err := client.Do(req)
	if err != nil {
		v.warn(ctx, fmt.Sprintf("endpoint probe failed: %v", err))
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		v.warn(ctx, fmt.Sprintf("endpoint probe returned %s for %s", resp.Status, path))
	} else {
		ctx.Observer.Printf("endpoint probe: %s %s", resp.Status, base+path)
	}
	return resp.StatusCode
}

func (v *Verifier) tailLogs(ctx *provisioning.Context) []string {
	workspaceID := ctx.Config.Verify.WorkspaceID
	if workspaceID == "" {
		return nil
	}

	lines, err := ctx.Azure.TailAppLogs(ctx, workspaceID, ctx.Config.Name, ctx.Timeouts.LogLookback)
	if err != nil {
		v.warn(ctx, fmt.Sprintf("tailing console logs: %v", err))
		return nil
	}
	for _, line := range lines {
		ctx.Observer.Printf("app log: %s", line)
	}
	return lines
}

func (v *Verifier) archive(ctx *provisioning.Context, record Record) {
	cfg := ctx.Config.Archive
	if cfg == nil {
		return
	}

	accessKey := os.Getenv(EnvArchiveAccessKey)
	secretKey := os.Getenv(EnvArchiveSecretKey)
	if accessKey == "" || secretKey == "" {
		v.warn(ctx, fmt.Sprintf("archive configured but %s/%s not set, skipping", EnvArchiveAccessKey, EnvArchiveSecretKey))
		return
	}

	store, err := v.newArchiver(cfg.Endpoint, cfg.Region, cfg.Bucket, accessKey, secretKey)
	if err != nil {
		v.warn(ctx, fmt.Sprintf("connecting to archive: %v", err))
		return
	}

	if err := store.EnsureBucket(ctx); err != nil {
		v.warn(ctx, fmt.Sprintf("ensuring archive bucket: %v", err))
		return
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		v.warn(ctx, fmt.Sprintf("encoding deployment record: %v", err))
		return
	}

	key := fmt.Sprintf("deployments/%s/%s.json", record.App, record.Timestamp.Format("20060102T150405Z"))
	if err := store.Put(ctx, key, data); err != nil {
		v.warn(ctx, fmt.Sprintf("writing deployment record: %v", err))
		return
	}
	ctx.Observer.Printf("deployment record archived as %s", key)
}

func (v *Verifier) warn(ctx *provisioning.Context, msg string) {
	ctx.Observer.Event(provisioning.Event{
		Type:    provisioning.EventVerifyWarning,
		Phase:   v.Name(),
		Message: msg,
	})
}
