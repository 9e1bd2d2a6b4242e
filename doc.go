// Package golaunch builds secure process-launch descriptors.
//
// GoLaunch is a library that describes how a process should be started
// without starting it. A descriptor carries the file name, redacting
// argument list, working directory, scheduling priority, environment
// mapping, timeout, stream encoding, and the exit codes that count as
// success. File-system checks go through an injected capability, so
// descriptors stay fully testable without touching the host.
//
// # Quick Start
//
//	info, err := golaunch.New(fs, "/usr/bin/deploy",
//	    golaunch.WithArguments(golaunch.Args(
//	        golaunch.Plain("--token"),
//	        golaunch.Private("s3cr3t"),
//	    )),
//	    golaunch.WithWorkingDirectory("/srv/jobs"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	proc, err := info.CreateProcess()
//
// Rendering the arguments publicly always redacts private fragments:
//
//	public, _ := info.Arguments().Public() // "--token <hidden>"
//
// # Launch Pipeline
//
// For production use, wrap descriptors in a Launchpad to get hooks,
// rate limiting, circuit breaking, audit logging, and telemetry:
//
//	pad, err := golaunch.NewBuilder().
//	    WithRateLimiter(resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig())).
//	    WithAudit(auditLogger).
//	    Build()
//
//	proc, err := pad.Create(ctx, info)
//	// ... run proc through your own supervisor ...
//	pad.ReportExit(ctx, info, exitCode)
//
// # Secret Handling
//
// Private argument fragments never leak through formatting, JSON
// marshaling, logging hooks, or audit events; every public rendering
// shows the redaction marker instead.
//
// # Package Structure
//
//   - golaunch: Main entry point and convenience functions
//   - launch: Descriptor core, exit-code classification, handles
//   - secret: Redacting string fragments and argument lists
//   - validation: Opt-in path, argument, and environment validation
//   - config: YAML launch defaults
//   - resilience: Rate limiting, circuit breaker, retry backoff
//   - observability: OpenTelemetry metrics and audit logging
//   - hooks: Extension points for the launch lifecycle
//
// # Thread Safety
//
// Launchpad and the resilience and observability types are safe for
// concurrent use. A single ProcessInfo is not; confine it to one
// goroutine or copy via CreateProcess snapshots.
package golaunch
