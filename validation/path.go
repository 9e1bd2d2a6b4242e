package validation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/victoralfred/golaunch/launch"
)

// Path validation errors.
var (
	// ErrInvalidPath indicates an invalid path.
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathTraversal indicates path traversal was detected.
	ErrPathTraversal = errors.New("path traversal detected")
)

// PathValidatorConfig configures the path validator.
type PathValidatorConfig struct {
	// RequireExecutableExists requires the resolved file name to exist.
	RequireExecutableExists bool

	// RequireAbsolute requires the resolved file name to be absolute.
	RequireAbsolute bool

	// AllowRelativeWorkDir allows relative working directories.
	AllowRelativeWorkDir bool
}

// PathValidator validates descriptor paths through the same injected
// file-system capability the descriptor uses.
type PathValidator struct {
	config *PathValidatorConfig
	fs     launch.FileSystem
}

// NewPathValidator creates a new path validator.
func NewPathValidator(config *PathValidatorConfig, fs launch.FileSystem) *PathValidator {
	if config == nil {
		config = &PathValidatorConfig{
			RequireExecutableExists: true,
			RequireAbsolute:         false,
			AllowRelativeWorkDir:    false,
		}
	}

	return &PathValidator{config: config, fs: fs}
}

// Name returns the validator name.
func (v *PathValidator) Name() string {
	return "path_validator"
}

// Priority returns the execution priority.
func (v *PathValidator) Priority() int {
	return 10
}

// Validate validates a descriptor's paths.
func (v *PathValidator) Validate(ctx context.Context, info *launch.ProcessInfo) error {
	if err := v.validateFileName(info.FileName()); err != nil {
		return fmt.Errorf("file name: %w", err)
	}

	if dir := info.WorkingDirectory(); dir != "" {
		if err := v.validateWorkingDir(dir); err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
	}

	return nil
}

func (v *PathValidator) validateFileName(path string) error {
	if path == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidPath)
	}

	cleaned, err := SanitizePath(path)
	if err != nil {
		return err
	}

	if v.config.RequireAbsolute && !filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: must be absolute path", ErrInvalidPath)
	}

	if v.config.RequireExecutableExists && v.fs != nil && !v.fs.FileExists(cleaned) {
		return fmt.Errorf("%w: executable does not exist", ErrInvalidPath)
	}

	return nil
}

func (v *PathValidator) validateWorkingDir(path string) error {
	if !v.config.AllowRelativeWorkDir && !filepath.IsAbs(path) {
		return fmt.Errorf("%w: must be absolute path", ErrInvalidPath)
	}

	cleaned, err := SanitizePath(path)
	if err != nil {
		return err
	}

	if v.fs != nil && !v.fs.DirectoryExists(cleaned) {
		return fmt.Errorf("%w: directory does not exist", ErrInvalidPath)
	}

	return nil
}

// SanitizePath cleans and validates a path.
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	cleaned := filepath.Clean(path)

	if strings.Contains(cleaned, "..") {
		return "", ErrPathTraversal
	}

	if strings.ContainsRune(cleaned, 0) {
		return "", fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	return cleaned, nil
}

// IsPathSafe checks if a path is safe (no traversal, etc).
func IsPathSafe(path string) bool {
	_, err := SanitizePath(path)
	return err == nil
}

// ResolvePath resolves a path relative to a base directory safely.
func ResolvePath(base, path string) (string, error) {
	if filepath.IsAbs(path) {
		return SanitizePath(path)
	}

	cleaned := filepath.Clean(filepath.Join(base, path))

	// The result must stay under base.
	if !strings.HasPrefix(cleaned, filepath.Clean(base)) {
		return "", ErrPathTraversal
	}

	return cleaned, nil
}
