package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/victoralfred/golaunch/launch"
	"github.com/victoralfred/golaunch/secret"
)

func newInfo(t *testing.T, opts ...launch.Option) *launch.ProcessInfo {
	t.Helper()
	fs := fakeFS{files: map[string]bool{"tool": true}}
	info, err := launch.New(fs, "tool", opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return info
}

func TestArgumentValidator_PlainSecretsRejected(t *testing.T) {
	v := NewArgumentValidator(nil)

	tests := []struct {
		name string
		args secret.Arguments
		want error
	}{
		{
			"plain password",
			secret.NewArguments(secret.Plain("password=hunter2")),
			ErrSecretInPlainArgument,
		},
		{
			"plain api key",
			secret.NewArguments(secret.Plain("--api-key=abc123")),
			ErrSecretInPlainArgument,
		},
		{
			"plain bearer token",
			secret.NewArguments(secret.Plain("Bearer eyJhbGciOi")),
			ErrSecretInPlainArgument,
		},
		{
			"innocuous flag",
			secret.NewArguments(secret.Plain("--verbose")),
			nil,
		},
		{
			"private fragment carries anything",
			secret.NewArguments(secret.New("password=hunter2")),
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := newInfo(t, launch.WithArguments(tt.args))
			err := v.Validate(context.Background(), info)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Expected pass, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestArgumentValidator_DenyPatterns(t *testing.T) {
	v := NewArgumentValidator(&ArgumentValidatorConfig{
		DenyPatterns: []string{`--unsafe`},
	})

	info := newInfo(t, launch.WithArguments(
		secret.NewArguments(secret.Plain("--unsafe-perm")),
	))
	if err := v.Validate(context.Background(), info); !errors.Is(err, ErrDeniedArgument) {
		t.Errorf("Expected denied argument, got %v", err)
	}
}

func TestArgumentValidator_MaxLength(t *testing.T) {
	v := NewArgumentValidator(&ArgumentValidatorConfig{MaxArgumentLength: 16})

	info := newInfo(t, launch.WithArguments(
		secret.NewArguments(secret.Plain(strings.Repeat("a", 32))),
	))
	if err := v.Validate(context.Background(), info); err == nil {
		t.Error("Expected length error")
	}
}

func TestArgumentValidator_NoArguments(t *testing.T) {
	v := NewArgumentValidator(nil)
	if err := v.Validate(context.Background(), newInfo(t)); err != nil {
		t.Errorf("Absent arguments should pass: %v", err)
	}
}

func TestContainsShellMetacharacters(t *testing.T) {
	if !ContainsShellMetacharacters("foo;rm -rf") {
		t.Error("Semicolon should be detected")
	}
	if ContainsShellMetacharacters("--flag=value") {
		t.Error("Plain flag should not be detected")
	}
}
