package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/victoralfred/golaunch/launch"
)

type namedValidator struct {
	name     string
	priority int
	err      error
	calls    *[]string
}

func (v namedValidator) Name() string  { return v.name }
func (v namedValidator) Priority() int { return v.priority }

func (v namedValidator) Validate(ctx context.Context, info *launch.ProcessInfo) error {
	if v.calls != nil {
		*v.calls = append(*v.calls, v.name)
	}
	return v.err
}

func TestRegistry_OrderedByPriority(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(namedValidator{name: "third", priority: 30, calls: &calls})
	r.Register(namedValidator{name: "first", priority: 10, calls: &calls})
	r.Register(namedValidator{name: "second", priority: 20, calls: &calls})

	if err := r.ValidateAll(context.Background(), newInfo(t)); err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if calls[i] != name {
			t.Errorf("Call %d = %s, want %s", i, calls[i], name)
		}
	}
}

func TestRegistry_CollectsAllErrors(t *testing.T) {
	sentinel1 := errors.New("boom one")
	sentinel2 := errors.New("boom two")

	r := NewRegistry()
	r.Register(namedValidator{name: "one", priority: 10, err: sentinel1})
	r.Register(namedValidator{name: "two", priority: 20, err: sentinel2})

	err := r.ValidateAll(context.Background(), newInfo(t))
	if err == nil {
		t.Fatal("Expected errors")
	}

	var verrs *Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected *Errors, got %T", err)
	}
	if len(verrs.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(verrs.Errors))
	}
	if !errors.Is(err, sentinel1) || !errors.Is(err, sentinel2) {
		t.Error("Errors should match both sentinels")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	sentinel := errors.New("boom")

	r := NewRegistry()
	r.Register(namedValidator{name: "failing", priority: 10, err: sentinel})
	r.Unregister("failing")

	if err := r.ValidateAll(context.Background(), newInfo(t)); err != nil {
		t.Errorf("Unregistered validator should not run: %v", err)
	}
}

func TestEnvironmentValidator_DeniedKeys(t *testing.T) {
	v := NewEnvironmentValidator(nil)

	info := newInfo(t)
	info.Setenv("LD_PRELOAD", "/tmp/evil.so")
	if err := v.Validate(context.Background(), info); !errors.Is(err, ErrDeniedEnvVar) {
		t.Errorf("LD_PRELOAD should be denied, got %v", err)
	}

	clean := newInfo(t)
	clean.Setenv("LANG", "C.UTF-8")
	if err := v.Validate(context.Background(), clean); err != nil {
		t.Errorf("LANG should pass: %v", err)
	}
}

func TestEnvironmentValidator_Wildcards(t *testing.T) {
	v := NewEnvironmentValidator(&EnvironmentValidatorConfig{
		AllowedKeys: []string{"APP_*", "PATH"},
	})

	info := newInfo(t)
	info.Setenv("APP_MODE", "batch")
	info.Setenv("PATH", "/usr/bin")
	if err := v.Validate(context.Background(), info); err != nil {
		t.Errorf("Allowed keys should pass: %v", err)
	}

	info.Setenv("HOME", "/root")
	if err := v.Validate(context.Background(), info); !errors.Is(err, ErrDeniedEnvVar) {
		t.Errorf("Key outside allowed set should fail, got %v", err)
	}
}

func TestEnvironmentValidator_InvalidKey(t *testing.T) {
	_ = NewEnvironmentValidator(&EnvironmentValidatorConfig{})

	tests := []struct {
		key   string
		valid bool
	}{
		{"PATH", true},
		{"APP_MODE_2", true},
		{"_private", true},
		{"2FAST", false},
		{"BAD-KEY", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isValidEnvKey(tt.key); got != tt.valid {
				t.Errorf("isValidEnvKey(%q) = %v, want %v", tt.key, got, tt.valid)
			}
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	fs := fakeFS{files: map[string]bool{"tool": true}}

	r := DefaultRegistry(fs)
	info, err := launch.New(fs, "tool")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.ValidateAll(context.Background(), info); err != nil {
		t.Errorf("Default registry should pass a clean descriptor: %v", err)
	}
}
