package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/victoralfred/golaunch/launch"
	"github.com/victoralfred/golaunch/secret"
)

// Argument validation errors.
var (
	// ErrDeniedArgument indicates an argument matched a deny pattern.
	ErrDeniedArgument = errors.New("denied argument")

	// ErrSecretInPlainArgument indicates a plain argument looks like a
	// credential and should have been a private fragment.
	ErrSecretInPlainArgument = errors.New("secret material in plain argument")
)

// Patterns that mark a plain argument as likely credential material.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|secret|token)\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`),
	regexp.MustCompile(`-----BEGIN\s+\w+\s+PRIVATE KEY-----`),
}

// ArgumentValidatorConfig configures the argument validator.
type ArgumentValidatorConfig struct {
	// DenyPatterns are regular expressions no argument may match.
	DenyPatterns []string

	// MaxArgumentLength limits the length of the joined argument line.
	// Zero means unlimited.
	MaxArgumentLength int

	// DetectSecrets rejects plain arguments that look like credentials.
	DetectSecrets bool
}

// ArgumentValidator checks the descriptor's arguments without ever
// touching their rendered private form. Fragments are inspected one at
// a time so a finding can name a position instead of a value.
type ArgumentValidator struct {
	config *ArgumentValidatorConfig
	deny   []*regexp.Regexp
}

// NewArgumentValidator creates a new argument validator.
func NewArgumentValidator(config *ArgumentValidatorConfig) *ArgumentValidator {
	if config == nil {
		config = &ArgumentValidatorConfig{
			MaxArgumentLength: 32768,
			DetectSecrets:     true,
		}
	}

	v := &ArgumentValidator{config: config}
	for _, p := range config.DenyPatterns {
		if re, err := regexp.Compile(p); err == nil {
			v.deny = append(v.deny, re)
		}
	}
	return v
}

// Name returns the validator name.
func (v *ArgumentValidator) Name() string {
	return "argument_validator"
}

// Priority returns the execution priority.
func (v *ArgumentValidator) Priority() int {
	return 20
}

// Validate validates the descriptor's arguments.
func (v *ArgumentValidator) Validate(ctx context.Context, info *launch.ProcessInfo) error {
	args := info.Arguments()

	if v.config.MaxArgumentLength > 0 {
		if line, ok := args.Private(); ok && len(line) > v.config.MaxArgumentLength {
			return fmt.Errorf("argument line exceeds %d bytes", v.config.MaxArgumentLength)
		}
	}

	for i, fragment := range args {
		if err := v.validateFragment(i, fragment); err != nil {
			return err
		}
	}

	return nil
}

func (v *ArgumentValidator) validateFragment(position int, fragment secret.Fragment) error {
	value := fragment.PrivateValue()

	for _, re := range v.deny {
		if re.MatchString(value) {
			return fmt.Errorf("%w: argument %d matches %q", ErrDeniedArgument, position, re.String())
		}
	}

	// A fragment that already redacts itself may carry anything.
	if fragment.PublicValue() != value {
		return nil
	}

	if v.config.DetectSecrets && looksLikeSecret(value) {
		return fmt.Errorf("%w: argument %d", ErrSecretInPlainArgument, position)
	}

	return nil
}

func looksLikeSecret(value string) bool {
	for _, re := range secretPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// ContainsShellMetacharacters reports whether an argument carries shell
// control characters. Descriptors are launched without a shell, so this
// is advisory rather than enforced by default.
func ContainsShellMetacharacters(value string) bool {
	return strings.ContainsAny(value, ";|&`$(){}<>")
}
