package config

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"
)

// Loader loads and manages launch defaults from YAML files.
type Loader struct {
	path       string
	safePath   *safepath.SafePath
	defaults   *Defaults
	mu         sync.RWMutex
	lastHash   []byte
	lastLoad   time.Time
	validators []DefaultsValidator
	onChange   []func(*Defaults)
	watchStop  chan struct{}
}

// DefaultsValidator validates a loaded defaults document.
type DefaultsValidator interface {
	Validate(defaults *Defaults) error
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithValidator adds a defaults validator.
func WithValidator(v DefaultsValidator) LoaderOption {
	return func(l *Loader) {
		l.validators = append(l.validators, v)
	}
}

// WithOnChange adds a callback for defaults changes.
func WithOnChange(fn func(*Defaults)) LoaderOption {
	return func(l *Loader) {
		l.onChange = append(l.onChange, fn)
	}
}

// NewLoader creates a new defaults loader rooted at basePath.
func NewLoader(basePath, defaultsFile string, opts ...LoaderOption) (*Loader, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	l := &Loader{
		path:       defaultsFile,
		safePath:   sp,
		validators: make([]DefaultsValidator, 0),
		onChange:   make([]func(*Defaults), 0),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Load loads the defaults from the file. Unchanged files return the
// cached document.
func (l *Loader) Load(ctx context.Context) (*Defaults, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.safePath.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file: %w", err)
	}

	hash := sha256.Sum256(data)
	if l.defaults != nil && string(hash[:]) == string(l.lastHash) {
		return l.defaults, nil
	}

	defaults, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}

	for _, v := range l.validators {
		if err := v.Validate(defaults); err != nil {
			return nil, fmt.Errorf("defaults validation failed: %w", err)
		}
	}

	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	l.defaults = defaults
	l.lastHash = hash[:]
	l.lastLoad = time.Now()

	for _, fn := range l.onChange {
		fn(defaults)
	}

	return defaults, nil
}

// Get returns the current defaults without reloading.
func (l *Loader) Get() *Defaults {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaults
}

// Reload reloads the defaults from the file.
func (l *Loader) Reload(ctx context.Context) error {
	_, err := l.Load(ctx)
	return err
}

// Watch starts polling for defaults file changes.
func (l *Loader) Watch(ctx context.Context, interval time.Duration) {
	l.watchStop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.watchStop:
				return
			case <-ticker.C:
				if _, err := l.Load(ctx); err != nil {
					// Keep watching; the previous document stays active.
					_ = err
				}
			}
		}
	}()
}

// StopWatch stops watching for defaults changes.
func (l *Loader) StopWatch() {
	if l.watchStop != nil {
		close(l.watchStop)
	}
}

// ParseYAML parses a YAML defaults document.
func ParseYAML(data []byte) (*Defaults, error) {
	var defaults Defaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return &defaults, nil
}

// ExampleDefaults returns an example defaults document. Use it as a
// starting point for a deployment-specific file.
func ExampleDefaults() *Defaults {
	return &Defaults{
		TimeOut:          Duration{90 * time.Second},
		Priority:         "below-normal",
		SuccessExitCodes: []int{0, 2},
		Environment: map[string]string{
			"PATH": "/usr/bin:/bin",
			"LANG": "C.UTF-8",
		},
	}
}
