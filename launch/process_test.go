package launch

import (
	"context"
	"errors"
	"testing"
)

func TestHandle_StartRefused(t *testing.T) {
	handle := NewHandle(Spec{FileName: "tool"})

	err := handle.Start(context.Background())
	if !errors.Is(err, ErrNotStartable) {
		t.Errorf("Expected ErrNotStartable, got %v", err)
	}

	if _, err := handle.Wait(); !errors.Is(err, ErrNotStartable) {
		t.Errorf("Expected ErrNotStartable from Wait, got %v", err)
	}
}

func TestHandle_LaunchIDsUnique(t *testing.T) {
	spec := Spec{FileName: "tool"}
	a := NewHandle(spec)
	b := NewHandle(spec)

	if a.LaunchID() == "" {
		t.Error("LaunchID should not be empty")
	}
	if a.LaunchID() == b.LaunchID() {
		t.Error("Handles should carry distinct launch IDs")
	}
}

func TestFactoryFunc(t *testing.T) {
	called := false
	factory := FactoryFunc(func(spec Spec) Process {
		called = true
		return NewHandle(spec)
	})

	proc := factory.NewProcess(Spec{FileName: "tool"})
	if !called {
		t.Error("FactoryFunc was not invoked")
	}
	if proc.FileName() != "tool" {
		t.Errorf("Unexpected filename: %s", proc.FileName())
	}
}
