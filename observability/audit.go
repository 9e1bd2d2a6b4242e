package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/victoralfred/golaunch/launch"
	"github.com/victoralfred/gowritter/safepath"
)

// AuditLogger provides immutable audit logging for launch events.
type AuditLogger interface {
	// Log logs an audit event.
	Log(ctx context.Context, event *LaunchEvent) error

	// Close closes the audit logger.
	Close() error
}

// LaunchEvent is an audit record of a launch intent. Arguments are
// always the redacted public form; the private line never reaches the
// audit trail.
type LaunchEvent struct {
	Timestamp  time.Time      `json:"timestamp"`
	ID         string         `json:"id"`
	LaunchID   string         `json:"launch_id,omitempty"`
	Type       AuditEventType `json:"type"`
	FileName   string         `json:"file_name"`
	WorkingDir string         `json:"working_dir,omitempty"`
	Arguments  string         `json:"arguments,omitempty"`
	Priority   string         `json:"priority"`
	TimeOut    time.Duration  `json:"timeout"`
	Status     string         `json:"status"`
	ExitCode   *int           `json:"exit_code,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// AuditEventType represents the type of audit event.
type AuditEventType string

const (
	// AuditEventMaterialized marks a descriptor turned into a handle.
	AuditEventMaterialized AuditEventType = "materialized"

	// AuditEventRejected marks a descriptor that failed its environment
	// or configuration checks.
	AuditEventRejected AuditEventType = "rejected"

	// AuditEventRateLimited marks a launch held back by rate limiting.
	AuditEventRateLimited AuditEventType = "rate_limited"

	// AuditEventExit marks a reported process exit.
	AuditEventExit AuditEventType = "exit"
)

// AuditConfig configures the audit logger.
type AuditConfig struct {
	LogLevel AuditLogLevel
	BasePath string
	FilePath string
	Enabled  bool
}

// AuditLogLevel determines what events to log.
type AuditLogLevel string

const (
	// AuditLogAll logs all events.
	AuditLogAll AuditLogLevel = "all"

	// AuditLogFailures logs only rejections and failed exits.
	AuditLogFailures AuditLogLevel = "failures"
)

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:  true,
		LogLevel: AuditLogAll,
		BasePath: "/var/log",
		FilePath: "golaunch/audit.log",
	}
}

// fileAuditLogger implements AuditLogger using gowritter.
type fileAuditLogger struct {
	safePath *safepath.SafePath
	config   AuditConfig
	mu       sync.Mutex
}

// NewFileAuditLogger creates a new file-based audit logger.
func NewFileAuditLogger(config AuditConfig) (AuditLogger, error) {
	sp, err := safepath.New(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	return &fileAuditLogger{
		config:   config,
		safePath: sp,
	}, nil
}

// Log implements AuditLogger.Log.
func (l *fileAuditLogger) Log(ctx context.Context, event *LaunchEvent) error {
	if !l.config.Enabled || !shouldLog(l.config.LogLevel, event) {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.safePath.AppendFile(l.config.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	return nil
}

// Close implements AuditLogger.Close.
func (l *fileAuditLogger) Close() error {
	return nil
}

func shouldLog(level AuditLogLevel, event *LaunchEvent) bool {
	switch level {
	case AuditLogAll:
		return true
	case AuditLogFailures:
		return event.Status != "success"
	default:
		return true
	}
}

// zerologAuditLogger writes audit events through a zerolog logger.
type zerologAuditLogger struct {
	logger zerolog.Logger
	config AuditConfig
}

// NewZerologAuditLogger creates an audit logger that emits structured
// log lines instead of a dedicated file.
func NewZerologAuditLogger(w io.Writer, config AuditConfig) AuditLogger {
	return &zerologAuditLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
		config: config,
	}
}

// Log implements AuditLogger.Log.
func (l *zerologAuditLogger) Log(ctx context.Context, event *LaunchEvent) error {
	if !l.config.Enabled || !shouldLog(l.config.LogLevel, event) {
		return nil
	}

	e := l.logger.Info().
		Str("audit_id", event.ID).
		Str("type", string(event.Type)).
		Str("file_name", event.FileName).
		Str("priority", event.Priority).
		Dur("timeout", event.TimeOut).
		Str("status", event.Status)

	if event.LaunchID != "" {
		e = e.Str("launch_id", event.LaunchID)
	}
	if event.WorkingDir != "" {
		e = e.Str("working_dir", event.WorkingDir)
	}
	if event.Arguments != "" {
		e = e.Str("arguments", event.Arguments)
	}
	if event.ExitCode != nil {
		e = e.Int("exit_code", *event.ExitCode)
	}
	if event.Error != "" {
		e = e.Str("error", event.Error)
	}

	e.Msg("launch audit")
	return nil
}

// Close implements AuditLogger.Close.
func (l *zerologAuditLogger) Close() error {
	return nil
}

// CreateLaunchEvent builds an audit event from a descriptor and the
// outcome of materializing it. Only the public argument form is
// recorded.
func CreateLaunchEvent(info *launch.ProcessInfo, proc launch.Process, launchErr error) *LaunchEvent {
	event := &LaunchEvent{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Type:       AuditEventMaterialized,
		FileName:   info.FileName(),
		WorkingDir: info.WorkingDirectory(),
		Priority:   info.Priority().String(),
		TimeOut:    info.TimeOut(),
		Status:     "success",
	}

	if public, ok := info.Arguments().Public(); ok {
		event.Arguments = public
	}

	if handle, ok := proc.(*launch.Handle); ok && handle != nil {
		event.LaunchID = handle.LaunchID()
	}

	if launchErr != nil {
		event.Type = AuditEventRejected
		event.Status = "rejected"
		event.Error = launchErr.Error()
	}

	return event
}

// CreateExitEvent builds an audit event for a reported process exit,
// classified by the descriptor's success exit codes.
func CreateExitEvent(info *launch.ProcessInfo, exitCode int) *LaunchEvent {
	event := CreateLaunchEvent(info, nil, nil)
	event.Type = AuditEventExit
	event.ExitCode = &exitCode
	if info.CheckIfSuccess(exitCode) {
		event.Status = "success"
	} else {
		event.Status = "failure"
	}
	return event
}

// NoopAuditLogger returns a no-op audit logger.
func NoopAuditLogger() AuditLogger {
	return &noopAuditLogger{}
}

type noopAuditLogger struct{}

func (l *noopAuditLogger) Log(ctx context.Context, event *LaunchEvent) error { return nil }
func (l *noopAuditLogger) Close() error                                      { return nil }
