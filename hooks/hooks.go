// Package hooks provides extension points for the launch lifecycle.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/victoralfred/golaunch/launch"
)

// Hook identifies an extension point implementation.
type Hook interface {
	// Name returns a unique identifier for the hook.
	Name() string

	// Priority determines execution order (lower = earlier).
	Priority() int
}

// PreLaunchHook is called before a descriptor is materialized. It may
// mutate the descriptor, for example to stamp environment defaults.
type PreLaunchHook interface {
	Hook
	PreLaunch(ctx context.Context, info *launch.ProcessInfo) error
}

// PostLaunchHook is called after materialization, successful or not.
type PostLaunchHook interface {
	Hook
	PostLaunch(ctx context.Context, info *launch.ProcessInfo, proc launch.Process, launchErr error) error
}

// ExitHook is called when a process exit is reported.
type ExitHook interface {
	Hook
	OnExit(ctx context.Context, info *launch.ProcessInfo, exitCode int, success bool) error
}

// Registry manages hook registration and invocation.
type Registry struct {
	preLaunch  []PreLaunchHook
	postLaunch []PostLaunchHook
	exitHooks  []ExitHook
	mu         sync.RWMutex
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		preLaunch:  make([]PreLaunchHook, 0),
		postLaunch: make([]PostLaunchHook, 0),
		exitHooks:  make([]ExitHook, 0),
	}
}

// Register adds a hook to the registry. A hook may implement several
// extension points at once.
func (r *Registry) Register(hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := hook.(PreLaunchHook); ok {
		r.preLaunch = append(r.preLaunch, h)
		sort.Slice(r.preLaunch, func(i, j int) bool {
			return r.preLaunch[i].Priority() < r.preLaunch[j].Priority()
		})
	}

	if h, ok := hook.(PostLaunchHook); ok {
		r.postLaunch = append(r.postLaunch, h)
		sort.Slice(r.postLaunch, func(i, j int) bool {
			return r.postLaunch[i].Priority() < r.postLaunch[j].Priority()
		})
	}

	if h, ok := hook.(ExitHook); ok {
		r.exitHooks = append(r.exitHooks, h)
		sort.Slice(r.exitHooks, func(i, j int) bool {
			return r.exitHooks[i].Priority() < r.exitHooks[j].Priority()
		})
	}
}

// Unregister removes a hook by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.preLaunch = removePre(r.preLaunch, name)
	r.postLaunch = removePost(r.postLaunch, name)
	r.exitHooks = removeExit(r.exitHooks, name)
}

// RunPreLaunch runs all pre-launch hooks.
func (r *Registry) RunPreLaunch(ctx context.Context, info *launch.ProcessInfo) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.preLaunch {
		if err := hook.PreLaunch(ctx, info); err != nil {
			return fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
	}
	return nil
}

// RunPostLaunch runs all post-launch hooks.
func (r *Registry) RunPostLaunch(ctx context.Context, info *launch.ProcessInfo, proc launch.Process, launchErr error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.postLaunch {
		if err := hook.PostLaunch(ctx, info, proc, launchErr); err != nil {
			return fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
	}
	return nil
}

// RunExit runs all exit hooks.
func (r *Registry) RunExit(ctx context.Context, info *launch.ProcessInfo, exitCode int, success bool) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.exitHooks {
		if err := hook.OnExit(ctx, info, exitCode, success); err != nil {
			return fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
	}
	return nil
}

func removePre(hooks []PreLaunchHook, name string) []PreLaunchHook {
	result := make([]PreLaunchHook, 0, len(hooks))
	for _, h := range hooks {
		if h.Name() != name {
			result = append(result, h)
		}
	}
	return result
}

func removePost(hooks []PostLaunchHook, name string) []PostLaunchHook {
	result := make([]PostLaunchHook, 0, len(hooks))
	for _, h := range hooks {
		if h.Name() != name {
			result = append(result, h)
		}
	}
	return result
}

func removeExit(hooks []ExitHook, name string) []ExitHook {
	result := make([]ExitHook, 0, len(hooks))
	for _, h := range hooks {
		if h.Name() != name {
			result = append(result, h)
		}
	}
	return result
}

// LoggingHook is a built-in hook that logs the launch lifecycle. It
// only ever logs the public argument form.
type LoggingHook struct {
	logger zerolog.Logger
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger zerolog.Logger) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) Name() string  { return "logging" }
func (h *LoggingHook) Priority() int { return 1000 }

// PreLaunch implements PreLaunchHook.
func (h *LoggingHook) PreLaunch(ctx context.Context, info *launch.ProcessInfo) error {
	e := h.logger.Debug().
		Str("file_name", info.FileName()).
		Str("priority", info.Priority().String())
	if public, ok := info.Arguments().Public(); ok {
		e = e.Str("arguments", public)
	}
	e.Msg("launching")
	return nil
}

// PostLaunch implements PostLaunchHook.
func (h *LoggingHook) PostLaunch(ctx context.Context, info *launch.ProcessInfo, proc launch.Process, launchErr error) error {
	if launchErr != nil {
		h.logger.Warn().
			Str("file_name", info.FileName()).
			Err(launchErr).
			Msg("launch rejected")
		return nil
	}

	h.logger.Info().
		Str("file_name", info.FileName()).
		Msg("launch materialized")
	return nil
}

// OnExit implements ExitHook.
func (h *LoggingHook) OnExit(ctx context.Context, info *launch.ProcessInfo, exitCode int, success bool) error {
	h.logger.Info().
		Str("file_name", info.FileName()).
		Int("exit_code", exitCode).
		Bool("success", success).
		Msg("process exited")
	return nil
}
