package launch

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLaunchError_Error(t *testing.T) {
	err := &LaunchError{
		Op:       "create_process",
		FileName: "/srv/app/tool",
		Err:      ErrWorkingDirNotFound,
		Details:  "directory \"/srv/app\" does not exist",
	}

	msg := err.Error()
	if !strings.Contains(msg, "create_process") || !strings.Contains(msg, "/srv/app/tool") {
		t.Errorf("Unexpected message: %q", msg)
	}
}

func TestLaunchError_ErrorWithoutDetails(t *testing.T) {
	err := &LaunchError{
		Op:       "start",
		FileName: "tool",
		Err:      ErrNotStartable,
	}

	if !strings.Contains(err.Error(), ErrNotStartable.Error()) {
		t.Errorf("Expected wrapped error in message, got %q", err.Error())
	}
}

func TestLaunchError_Unwrap(t *testing.T) {
	err := NewEnvironmentError("tool", "/missing")

	if !errors.Is(err, ErrWorkingDirNotFound) {
		t.Error("errors.Is should match the sentinel through Unwrap")
	}

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatal("errors.As should extract *LaunchError")
	}
	if launchErr.Code != ErrCodeEnvironment {
		t.Errorf("Expected environment code, got %s", launchErr.Code)
	}
}

func TestLaunchError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("materializing: %w", NewConfigurationError("fileSystem"))

	if !errors.Is(wrapped, ErrNilFileSystem) {
		t.Error("Sentinel should match through an extra wrapping layer")
	}
	if GetErrorCode(wrapped) != ErrCodeConfiguration {
		t.Errorf("Expected configuration code, got %s", GetErrorCode(wrapped))
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(NewConfigurationError("fileSystem")) {
		t.Error("Configuration errors are not retryable")
	}
	if !IsRetryable(NewEnvironmentError("tool", "/missing")) {
		t.Error("Environment errors are retryable after remediation")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("Plain errors are not retryable")
	}
}

func TestGetErrorCode_Unknown(t *testing.T) {
	if GetErrorCode(errors.New("plain")) != ErrCodeInternal {
		t.Error("Unknown errors should map to the internal code")
	}
}

func TestNewEnvironmentError_NamesPath(t *testing.T) {
	err := NewEnvironmentError("tool", "/srv/missing")
	if !strings.Contains(err.Error(), "/srv/missing") {
		t.Errorf("Error should identify the missing path, got %q", err.Error())
	}
}
