package launch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

// Spec is the configuration snapshot stamped onto a process handle at
// materialization time. It is pure data: independent of the descriptor
// that produced it and of every other handle.
type Spec struct {
	// FileName is the resolved executable path.
	FileName string

	// Arguments is the real, unredacted command line. Display paths
	// must use the descriptor's public argument join instead.
	Arguments string

	// HasArguments distinguishes "no arguments supplied" from an empty
	// argument string.
	HasArguments bool

	// WorkingDirectory is the directory the process starts in, if set.
	WorkingDirectory string

	// Priority is the requested scheduling class.
	Priority Priority

	// Environment is the process environment as KEY=VALUE pairs in
	// deterministic order.
	Environment []string

	// TimeOut is the maximum execution time, enforced by the execution
	// layer rather than by this library.
	TimeOut time.Duration

	// StreamEncoding is the text encoding for the process streams.
	StreamEncoding encoding.Encoding

	// StandardInput is the payload written to the process stdin.
	StandardInput string

	// HasStandardInput reports whether a stdin payload was supplied.
	HasStandardInput bool
}

// Process is an unstarted, caller-owned process handle. Start and Wait
// belong to the execution collaborator; this library ships no
// executing implementation.
type Process interface {
	// FileName returns the configured executable path.
	FileName() string

	// Start launches the process.
	Start(ctx context.Context) error

	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
}

// Factory is the process-creation capability. The descriptor hands it
// a finished Spec and receives the handle it returns.
type Factory interface {
	NewProcess(spec Spec) Process
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(spec Spec) Process

// NewProcess implements Factory.
func (f FactoryFunc) NewProcess(spec Spec) Process {
	return f(spec)
}

// DefaultFactory emits pure-data handles. Execution layers replace it
// with a factory producing startable processes.
func DefaultFactory() Factory {
	return FactoryFunc(func(spec Spec) Process {
		return NewHandle(spec)
	})
}

// Handle is the default data-only process handle. It carries the full
// configuration snapshot plus a unique launch ID, and refuses to
// start: running processes is out of scope for this library.
type Handle struct {
	launchID string
	spec     Spec
}

// NewHandle creates a handle for the given snapshot.
func NewHandle(spec Spec) *Handle {
	return &Handle{
		launchID: uuid.New().String(),
		spec:     spec,
	}
}

// LaunchID returns the unique identifier of this materialization.
func (h *Handle) LaunchID() string {
	return h.launchID
}

// FileName implements Process.
func (h *Handle) FileName() string {
	return h.spec.FileName
}

// Spec returns the configuration snapshot.
func (h *Handle) Spec() Spec {
	return h.spec
}

// Start implements Process. Data-only handles never start.
func (h *Handle) Start(ctx context.Context) error {
	return NewNotStartableError(h.spec.FileName)
}

// Wait implements Process.
func (h *Handle) Wait() (int, error) {
	return 0, NewNotStartableError(h.spec.FileName)
}
