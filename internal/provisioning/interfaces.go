package provisioning

// Phase defines the interface for a deployment phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logging surface phases rely on.
type Logger interface {
	Printf(format string, v ...interface{})
}
