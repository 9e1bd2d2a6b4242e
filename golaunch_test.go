package golaunch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/victoralfred/golaunch/hooks"
	"github.com/victoralfred/golaunch/launch"
	"github.com/victoralfred/golaunch/observability"
	"github.com/victoralfred/golaunch/resilience"
	"github.com/victoralfred/golaunch/secret"
)

type fakeFS struct {
	files map[string]bool
	dirs  map[string]bool
}

func (f fakeFS) FileExists(path string) bool      { return f.files[path] }
func (f fakeFS) DirectoryExists(path string) bool { return f.dirs[path] }

func toolFS() fakeFS {
	return fakeFS{
		files: map[string]bool{"/usr/bin/deploy": true},
		dirs:  map[string]bool{"/srv/jobs": true},
	}
}

func TestNew_Defaults(t *testing.T) {
	info, err := New(toolFS(), "/usr/bin/deploy")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if info.TimeOut() != DefaultTimeOut {
		t.Errorf("Expected default timeout, got %v", info.TimeOut())
	}
	if info.Priority() != PriorityNormal {
		t.Errorf("Expected normal priority, got %v", info.Priority())
	}
	if !info.CheckIfSuccess(0) || info.CheckIfSuccess(1) {
		t.Error("Default success set should be exactly {0}")
	}
}

func TestNew_NilFileSystem(t *testing.T) {
	if _, err := New(nil, "/usr/bin/deploy"); !errors.Is(err, ErrNilFileSystem) {
		t.Errorf("Expected ErrNilFileSystem, got %v", err)
	}
}

func TestLaunchpad_CreateAndReportExit(t *testing.T) {
	pad, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "/usr/bin/deploy",
		WithWorkingDirectory("/srv/jobs"),
		WithSuccessExitCodes(0, 2),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	proc, err := pad.Create(context.Background(), info)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if proc.FileName() != "/srv/jobs/usr/bin/deploy" {
		t.Errorf("Unexpected handle file name: %s", proc.FileName())
	}

	if !pad.ReportExit(context.Background(), info, 2, time.Second) {
		t.Error("Exit code 2 should classify as success")
	}
	if pad.ReportExit(context.Background(), info, 1, time.Second) {
		t.Error("Exit code 1 should classify as failure")
	}

	stats := pad.Stats(info.FileName())
	if stats.Materialized != 1 {
		t.Errorf("Expected 1 materialization, got %d", stats.Materialized)
	}
	if stats.Successes != 1 || stats.Failures != 1 {
		t.Errorf("Unexpected exit stats: %+v", stats)
	}
}

func TestLaunchpad_MissingWorkingDirectory(t *testing.T) {
	pad, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "deploy", WithWorkingDirectory("/gone"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	proc, err := pad.Create(context.Background(), info)
	if !errors.Is(err, ErrWorkingDirNotFound) {
		t.Errorf("Expected ErrWorkingDirNotFound, got %v", err)
	}
	if proc != nil {
		t.Error("No handle should be produced on rejection")
	}

	if got := pad.Stats(info.FileName()); got.Rejected != 1 {
		t.Errorf("Expected 1 rejection, got %d", got.Rejected)
	}
}

func TestLaunchpad_CircuitBreakerOpens(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		PerFileName:      true,
	})

	pad, err := NewBuilder().WithCircuitBreaker(breaker).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "/usr/bin/deploy")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pad.ReportExit(context.Background(), info, 1, time.Second)
	pad.ReportExit(context.Background(), info, 1, time.Second)

	if _, err := pad.Create(context.Background(), info); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen after repeated failures, got %v", err)
	}
}

func TestLaunchpad_RateLimited(t *testing.T) {
	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		DefaultLimit: 0.001,
		DefaultBurst: 1,
		PerFileName:  true,
	})

	pad, err := NewBuilder().WithRateLimiter(limiter).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "/usr/bin/deploy")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := pad.Create(context.Background(), info); err != nil {
		t.Fatalf("First launch should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := pad.Create(ctx, info); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestLaunchpad_PreLaunchHookDenies(t *testing.T) {
	registry := hooks.NewRegistry()
	registry.Register(denyHook{})

	pad, err := NewBuilder().WithHooks(registry).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "/usr/bin/deploy")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := pad.Create(context.Background(), info); err == nil {
		t.Error("Denying hook should reject the launch")
	}
}

type denyHook struct{}

func (denyHook) Name() string  { return "deny" }
func (denyHook) Priority() int { return 1 }

func (denyHook) PreLaunch(ctx context.Context, info *launch.ProcessInfo) error {
	return errors.New("launch window closed")
}

func TestLaunchpad_AuditNeverSeesPrivateValues(t *testing.T) {
	var buf bytes.Buffer
	audit := observability.NewZerologAuditLogger(&buf, observability.AuditConfig{
		Enabled:  true,
		LogLevel: observability.AuditLogAll,
	})

	pad, err := NewBuilder().WithAudit(audit).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := New(toolFS(), "/usr/bin/deploy", WithArguments(
		Args(Plain("--token"), Private("s3cr3t-value")),
	))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := pad.Create(context.Background(), info); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	pad.ReportExit(context.Background(), info, 0, time.Second)

	out := buf.String()
	if strings.Contains(out, "s3cr3t-value") {
		t.Error("Audit trail leaked a private argument value")
	}
	if !strings.Contains(out, secret.Marker) {
		t.Error("Expected redaction marker in audit trail")
	}
}

func TestArgs_Rendering(t *testing.T) {
	args := Args(Plain("--token"), Private("hunter2"))

	private, ok := args.Private()
	if !ok || private != "--token hunter2" {
		t.Errorf("Unexpected private rendering: %q", private)
	}

	public, ok := args.Public()
	if !ok || public != "--token "+secret.Marker {
		t.Errorf("Unexpected public rendering: %q", public)
	}
}

func TestSanitizePath(t *testing.T) {
	if _, err := SanitizePath("../../etc/passwd"); err == nil {
		t.Error("Traversal should be rejected")
	}
	if _, err := SanitizePath("/usr/bin/deploy"); err != nil {
		t.Errorf("Clean path should pass: %v", err)
	}
}

func TestValidateDescriptor(t *testing.T) {
	fs := toolFS()
	info, err := New(fs, "/usr/bin/deploy")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := ValidateDescriptor(context.Background(), fs, info); err != nil {
		t.Errorf("Clean descriptor should validate: %v", err)
	}

	missing, err := New(fs, "/usr/bin/missing")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := ValidateDescriptor(context.Background(), fs, missing); err == nil {
		t.Error("Missing executable should fail validation")
	}
}
