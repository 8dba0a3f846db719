package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imamik/azship/internal/util/retry"
)

// Timeouts holds the retry budgets and delays for every wait in the
// deployment pipeline. All values can be customized via environment
// variables.
type Timeouts struct {
	// Provisioning bounds the environment wait phase and the app
	// readiness poll.
	Provisioning retry.Budget
	// Deletion bounds the wait for a deleted environment to disappear.
	// It must be exhausted before any recreate is attempted.
	Deletion retry.Budget
	// SettleDelay is the pause between issuing an app create/update and
	// the first readiness observation.
	SettleDelay time.Duration
	// ProbeTimeout is the HTTP timeout for the post-deploy probe.
	ProbeTimeout time.Duration
	// LogLookback is the window queried by the post-deploy log tail.
	LogLookback time.Duration
}

// LoadTimeouts loads timeout configuration from environment variables.
// If a variable is not set or invalid, the default is used.
//
// Environment Variables:
//   - AZSHIP_POLL_MAX_ATTEMPTS (default: 60)
//   - AZSHIP_POLL_INTERVAL (default: 10s)
//   - AZSHIP_DELETE_MAX_ATTEMPTS (default: 30)
//   - AZSHIP_DELETE_INTERVAL (default: 10s)
//   - AZSHIP_SETTLE_DELAY (default: 5s)
//   - AZSHIP_PROBE_TIMEOUT (default: 15s)
//   - AZSHIP_LOG_LOOKBACK (default: 30m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Provisioning: retry.Budget{
			MaxAttempts: parseInt("AZSHIP_POLL_MAX_ATTEMPTS", 60),
			Interval:    parseDuration("AZSHIP_POLL_INTERVAL", 10*time.Second),
		},
		Deletion: retry.Budget{
			MaxAttempts: parseInt("AZSHIP_DELETE_MAX_ATTEMPTS", 30),
			Interval:    parseDuration("AZSHIP_DELETE_INTERVAL", 10*time.Second),
		},
		SettleDelay:  parseDuration("AZSHIP_SETTLE_DELAY", 5*time.Second),
		ProbeTimeout: parseDuration("AZSHIP_PROBE_TIMEOUT", 15*time.Second),
		LogLookback:  parseDuration("AZSHIP_LOG_LOOKBACK", 30*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
