package golaunch

import (
	"context"
	"errors"
	"time"

	"github.com/victoralfred/golaunch/hooks"
	"github.com/victoralfred/golaunch/launch"
	"github.com/victoralfred/golaunch/observability"
	"github.com/victoralfred/golaunch/resilience"
	"github.com/victoralfred/golaunch/secret"
	"github.com/victoralfred/golaunch/validation"
)

// =============================================================================
// Core Types
// =============================================================================

// ProcessInfo is the launch descriptor. Use New() to create one.
type ProcessInfo = launch.ProcessInfo

// FileSystem is the injected file-system capability every descriptor
// requires.
type FileSystem = launch.FileSystem

// Process is a materialized, unstarted process handle.
type Process = launch.Process

// Spec is the independent configuration snapshot a handle carries.
type Spec = launch.Spec

// Factory creates process handles from snapshots.
type Factory = launch.Factory

// Option configures descriptor construction.
type Option = launch.Option

// Priority represents the scheduling class of a launch.
type Priority = launch.Priority

// Priority constants.
const (
	PriorityIdle        = launch.PriorityIdle
	PriorityBelowNormal = launch.PriorityBelowNormal
	PriorityNormal      = launch.PriorityNormal
	PriorityAboveNormal = launch.PriorityAboveNormal
	PriorityHigh        = launch.PriorityHigh
	PriorityRealTime    = launch.PriorityRealTime
)

// DefaultTimeOut is the timeout stamped onto descriptors that do not
// override it.
const DefaultTimeOut = launch.DefaultTimeOut

// Construction options re-exported from the launch package.
var (
	WithArguments        = launch.WithArguments
	WithWorkingDirectory = launch.WithWorkingDirectory
	WithPriority         = launch.WithPriority
	WithSuccessExitCodes = launch.WithSuccessExitCodes
	WithEnvironment      = launch.WithEnvironment
	WithFactory          = launch.WithFactory
)

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrNilFileSystem indicates a descriptor was built without its
	// file-system capability.
	ErrNilFileSystem = launch.ErrNilFileSystem

	// ErrWorkingDirNotFound indicates the working directory failed its
	// existence check at materialization.
	ErrWorkingDirNotFound = launch.ErrWorkingDirNotFound

	// ErrNotStartable indicates a data-only handle was asked to run.
	ErrNotStartable = launch.ErrNotStartable

	// ErrRateLimited indicates the launch rate limit was exceeded.
	ErrRateLimited = errors.New("launch rate limit exceeded")

	// ErrCircuitOpen indicates the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// =============================================================================
// Factory Functions
// =============================================================================

// New constructs a launch descriptor for the given executable. The
// file-system capability is mandatory.
//
// Example:
//
//	info, err := golaunch.New(fs, "/usr/bin/deploy",
//	    golaunch.WithWorkingDirectory("/srv/jobs"),
//	)
func New(fs FileSystem, fileName string, opts ...Option) (*ProcessInfo, error) {
	return launch.New(fs, fileName, opts...)
}

// =============================================================================
// Argument Construction
// =============================================================================

// Private wraps a sensitive value in a redacting fragment.
func Private(value string) secret.Fragment {
	return secret.New(value)
}

// Plain wraps a non-sensitive value in a fragment.
func Plain(value string) secret.Fragment {
	return secret.Plain(value)
}

// Args builds an argument sequence from fragments.
//
// Example:
//
//	args := golaunch.Args(golaunch.Plain("--token"), golaunch.Private("s3cr3t"))
func Args(fragments ...secret.Fragment) secret.Arguments {
	return secret.NewArguments(fragments...)
}

// =============================================================================
// Launchpad
// =============================================================================

// Launchpad wraps descriptor materialization with hooks, rate
// limiting, circuit breaking, audit logging, and telemetry. All
// collaborators are optional; a zero Builder produces a pad that only
// materializes.
type Launchpad struct {
	hooks     *hooks.Registry
	limiter   resilience.RateLimiter
	breaker   resilience.CircuitBreaker
	audit     observability.AuditLogger
	telemetry observability.Telemetry
	metrics   *observability.Metrics
}

// Builder configures a Launchpad.
type Builder struct {
	hooks     *hooks.Registry
	limiter   resilience.RateLimiter
	breaker   resilience.CircuitBreaker
	audit     observability.AuditLogger
	telemetry observability.Telemetry
}

// NewBuilder creates a Launchpad builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithHooks sets the hook registry.
func (b *Builder) WithHooks(registry *hooks.Registry) *Builder {
	b.hooks = registry
	return b
}

// WithRateLimiter sets the rate limiter.
func (b *Builder) WithRateLimiter(limiter resilience.RateLimiter) *Builder {
	b.limiter = limiter
	return b
}

// WithCircuitBreaker sets the circuit breaker.
func (b *Builder) WithCircuitBreaker(breaker resilience.CircuitBreaker) *Builder {
	b.breaker = breaker
	return b
}

// WithAudit sets the audit logger.
func (b *Builder) WithAudit(audit observability.AuditLogger) *Builder {
	b.audit = audit
	return b
}

// WithTelemetry sets the telemetry sink.
func (b *Builder) WithTelemetry(telemetry observability.Telemetry) *Builder {
	b.telemetry = telemetry
	return b
}

// Build assembles the Launchpad. Unset collaborators default to no-op
// implementations.
func (b *Builder) Build() (*Launchpad, error) {
	pad := &Launchpad{
		hooks:     b.hooks,
		limiter:   b.limiter,
		breaker:   b.breaker,
		audit:     b.audit,
		telemetry: b.telemetry,
		metrics:   observability.NewMetrics(),
	}

	if pad.hooks == nil {
		pad.hooks = hooks.NewRegistry()
	}
	if pad.audit == nil {
		pad.audit = observability.NoopAuditLogger()
	}
	if pad.telemetry == nil {
		pad.telemetry = observability.NoopTelemetry()
	}

	return pad, nil
}

// Create runs the launch pipeline for a descriptor: pre-launch hooks,
// rate limiting, circuit breaking, then materialization. The audit
// trail and telemetry see every outcome.
func (p *Launchpad) Create(ctx context.Context, info *ProcessInfo) (Process, error) {
	ctx, endSpan := p.telemetry.StartSpan(ctx, "launchpad.create",
		observability.WithAttribute("file_name", info.FileName()),
	)
	defer endSpan()

	if err := p.hooks.RunPreLaunch(ctx, info); err != nil {
		return p.deny(ctx, info, err)
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, info.FileName()); err != nil {
			return p.deny(ctx, info, ErrRateLimited)
		}
	}

	if p.breaker != nil && !p.breaker.Allow(info.FileName()) {
		return p.deny(ctx, info, ErrCircuitOpen)
	}

	proc, err := info.CreateProcess()
	if err != nil {
		return p.deny(ctx, info, err)
	}

	p.metrics.RecordMaterialized(info.FileName())
	p.telemetry.RecordLaunch(map[string]string{"file_name": info.FileName()})

	//nolint:errcheck // audit sink failures never block a launch
	_ = p.audit.Log(ctx, observability.CreateLaunchEvent(info, proc, nil))

	if hookErr := p.hooks.RunPostLaunch(ctx, info, proc, nil); hookErr != nil {
		return proc, hookErr
	}

	return proc, nil
}

func (p *Launchpad) deny(ctx context.Context, info *ProcessInfo, cause error) (Process, error) {
	p.metrics.RecordRejected(info.FileName())
	p.telemetry.RecordDenied(map[string]string{"file_name": info.FileName()})

	//nolint:errcheck // audit sink failures never block a launch
	_ = p.audit.Log(ctx, observability.CreateLaunchEvent(info, nil, cause))
	//nolint:errcheck // the denial itself is the error the caller needs
	_ = p.hooks.RunPostLaunch(ctx, info, nil, cause)

	return nil, cause
}

// ReportExit classifies a reported exit code against the descriptor's
// success set, feeds the circuit breaker and metrics, and returns the
// classification.
func (p *Launchpad) ReportExit(ctx context.Context, info *ProcessInfo, exitCode int, ran time.Duration) bool {
	success := info.CheckIfSuccess(exitCode)

	p.metrics.RecordExit(info.FileName(), success)
	p.telemetry.RecordExitDuration(ran.Seconds(), map[string]string{"file_name": info.FileName()})

	if p.breaker != nil {
		p.breaker.RecordExit(info.FileName(), success)
	}

	//nolint:errcheck // audit sink failures never block exit accounting
	_ = p.audit.Log(ctx, observability.CreateExitEvent(info, exitCode))
	//nolint:errcheck // exit hooks are observers
	_ = p.hooks.RunExit(ctx, info, exitCode, success)

	return success
}

// Stats returns the in-process launch statistics for a file name.
func (p *Launchpad) Stats(fileName string) observability.FileStats {
	return p.metrics.Stats(fileName)
}

// =============================================================================
// Validation
// =============================================================================

// SanitizePath cleans a path and validates it for safety.
func SanitizePath(path string) (string, error) {
	return validation.SanitizePath(path)
}

// ValidateDescriptor runs the default validator set against a
// descriptor using its own file-system capability semantics.
func ValidateDescriptor(ctx context.Context, fs FileSystem, info *ProcessInfo) error {
	return validation.DefaultRegistry(fs).ValidateAll(ctx, info)
}

// =============================================================================
// Version Information
// =============================================================================

// Version returns the library version.
func Version() string {
	return "1.0.0"
}
