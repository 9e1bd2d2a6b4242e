package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/victoralfred/golaunch/launch"
)

// Environment validation errors.
var (
	// ErrDeniedEnvVar indicates an environment variable is denied.
	ErrDeniedEnvVar = errors.New("denied environment variable")

	// ErrInvalidEnvKey indicates an invalid environment variable name.
	ErrInvalidEnvKey = errors.New("invalid environment variable name")
)

// EnvironmentValidatorConfig configures the environment validator.
type EnvironmentValidatorConfig struct {
	// AllowedKeys are allowed variable names (supports * wildcard).
	// Empty means all keys are allowed.
	AllowedKeys []string

	// DeniedKeys are denied variable names (supports * wildcard).
	// Denials win over allowances.
	DeniedKeys []string
}

// EnvironmentValidator validates the descriptor's environment mapping.
type EnvironmentValidator struct {
	config  *EnvironmentValidatorConfig
	allowed []*regexp.Regexp
	denied  []*regexp.Regexp
}

// NewEnvironmentValidator creates a new environment validator.
func NewEnvironmentValidator(config *EnvironmentValidatorConfig) *EnvironmentValidator {
	if config == nil {
		config = &EnvironmentValidatorConfig{
			DeniedKeys: []string{
				"LD_PRELOAD", "LD_LIBRARY_PATH", "DYLD_*",
				"*_PASSWORD*", "*_SECRET*", "*_TOKEN*",
			},
		}
	}

	v := &EnvironmentValidator{config: config}
	for _, k := range config.AllowedKeys {
		v.allowed = append(v.allowed, wildcardToRegexp(k))
	}
	for _, k := range config.DeniedKeys {
		v.denied = append(v.denied, wildcardToRegexp(k))
	}
	return v
}

// Name returns the validator name.
func (v *EnvironmentValidator) Name() string {
	return "environment_validator"
}

// Priority returns the execution priority.
func (v *EnvironmentValidator) Priority() int {
	return 30
}

// Validate validates the descriptor's environment mapping.
func (v *EnvironmentValidator) Validate(ctx context.Context, info *launch.ProcessInfo) error {
	for key := range info.Environment() {
		if !isValidEnvKey(key) {
			return fmt.Errorf("%w: %q", ErrInvalidEnvKey, key)
		}

		for _, re := range v.denied {
			if re.MatchString(key) {
				return fmt.Errorf("%w: %s", ErrDeniedEnvVar, key)
			}
		}

		if len(v.allowed) > 0 && !v.isAllowed(key) {
			return fmt.Errorf("%w: %s is not in the allowed set", ErrDeniedEnvVar, key)
		}
	}

	return nil
}

func (v *EnvironmentValidator) isAllowed(key string) bool {
	for _, re := range v.allowed {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func wildcardToRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
