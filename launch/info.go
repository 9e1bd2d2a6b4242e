// Package launch provides the secure process-launch descriptor: a
// configuration value that decides WHAT to launch and WHETHER it
// succeeded, while execution itself stays behind injected
// collaborators.
package launch

import (
	"path/filepath"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/victoralfred/golaunch/internal/envutil"
	"github.com/victoralfred/golaunch/secret"
)

// DefaultTimeOut is the timeout stamped onto descriptors that do not
// override it.
const DefaultTimeOut = 2 * time.Minute

// ProcessInfo fully specifies how an external process should be
// started, validated, and judged successful or failed.
//
// ProcessInfo is a single-owner configuration value: configure it on
// one goroutine, then hand the materialized handle to the execution
// layer. It holds no live OS resources.
type ProcessInfo struct {
	fs      FileSystem
	factory Factory

	rawFileName string
	fileName    string
	workingDir  string

	args             secret.Arguments
	priority         Priority
	successExitCodes []int
	env              map[string]string
	timeout          time.Duration
	streamEncoding   encoding.Encoding
	stdin            string
	stdinSet         bool
}

// Option configures a ProcessInfo at construction.
type Option func(*ProcessInfo)

// WithArguments sets the argument sequence. The descriptor keeps the
// sequence by reference; it is not copied.
func WithArguments(args secret.Arguments) Option {
	return func(p *ProcessInfo) {
		p.args = args
	}
}

// WithWorkingDirectory sets the working directory, which also anchors
// filename resolution.
func WithWorkingDirectory(dir string) Option {
	return func(p *ProcessInfo) {
		p.workingDir = dir
	}
}

// WithPriority sets the scheduling class.
func WithPriority(priority Priority) Option {
	return func(p *ProcessInfo) {
		p.priority = priority
	}
}

// WithSuccessExitCodes replaces the default {0} success set. An empty
// set is valid and classifies every exit code as failure.
func WithSuccessExitCodes(codes ...int) Option {
	return func(p *ProcessInfo) {
		p.successExitCodes = append([]int{}, codes...)
	}
}

// WithEnvironment seeds the environment mapping.
func WithEnvironment(env map[string]string) Option {
	return func(p *ProcessInfo) {
		p.env = envutil.Merge(p.env, env)
	}
}

// WithFactory replaces the process-creation capability consulted by
// CreateProcess.
func WithFactory(factory Factory) Option {
	return func(p *ProcessInfo) {
		if factory != nil {
			p.factory = factory
		}
	}
}

// New constructs a descriptor for the given executable. The
// file-system capability is mandatory; passing nil is a configuration
// error for any filename value, including the empty string.
//
// Defaults: timeout 2 minutes, success exit codes {0}, priority
// normal, UTF-8 stream encoding, no arguments, no stdin payload, and
// an initialized empty environment mapping.
func New(fs FileSystem, fileName string, opts ...Option) (*ProcessInfo, error) {
	if fs == nil {
		return nil, NewConfigurationError("fileSystem")
	}

	p := &ProcessInfo{
		fs:               fs,
		factory:          DefaultFactory(),
		rawFileName:      fileName,
		priority:         PriorityNormal,
		successExitCodes: []int{0},
		env:              make(map[string]string),
		timeout:          DefaultTimeOut,
		streamEncoding:   unicode.UTF8,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.resolveFileName()
	return p, nil
}

// resolveFileName applies the resolution rule: once a working
// directory is present the raw filename is always combined with it;
// without one, a bare name is anchored only when the file system
// reports it exists as a file, and is otherwise left unchanged.
func (p *ProcessInfo) resolveFileName() {
	if p.workingDir != "" || p.fs.FileExists(p.rawFileName) {
		p.fileName = filepath.Join(p.workingDir, p.rawFileName)
		return
	}
	p.fileName = p.rawFileName
}

// FileName returns the resolved executable path.
func (p *ProcessInfo) FileName() string {
	return p.fileName
}

// RawFileName returns the filename as originally supplied.
func (p *ProcessInfo) RawFileName() string {
	return p.rawFileName
}

// WorkingDirectory returns the working directory, empty when unset.
func (p *ProcessInfo) WorkingDirectory() string {
	return p.workingDir
}

// SetWorkingDirectory changes the working directory and re-resolves
// FileName from the stored raw filename and the new value.
func (p *ProcessInfo) SetWorkingDirectory(dir string) {
	p.workingDir = dir
	p.resolveFileName()
}

// Arguments returns the argument sequence, nil when none was supplied.
func (p *ProcessInfo) Arguments() secret.Arguments {
	return p.args
}

// SetArguments replaces the argument sequence.
func (p *ProcessInfo) SetArguments(args secret.Arguments) {
	p.args = args
}

// Priority returns the scheduling class.
func (p *ProcessInfo) Priority() Priority {
	return p.priority
}

// SetPriority changes the scheduling class.
func (p *ProcessInfo) SetPriority(priority Priority) {
	p.priority = priority
}

// SuccessExitCodes returns the exit codes classified as success.
func (p *ProcessInfo) SuccessExitCodes() []int {
	return append([]int{}, p.successExitCodes...)
}

// TimeOut returns the configured timeout. The descriptor never
// enforces it; the execution layer consumes it.
func (p *ProcessInfo) TimeOut() time.Duration {
	return p.timeout
}

// SetTimeOut changes the timeout.
func (p *ProcessInfo) SetTimeOut(d time.Duration) {
	p.timeout = d
}

// StreamEncoding returns the text encoding for the process streams.
func (p *ProcessInfo) StreamEncoding() encoding.Encoding {
	return p.streamEncoding
}

// SetStreamEncoding changes the stream encoding.
func (p *ProcessInfo) SetStreamEncoding(enc encoding.Encoding) {
	p.streamEncoding = enc
}

// StandardInput returns the stdin payload and whether one was set.
func (p *ProcessInfo) StandardInput() (string, bool) {
	return p.stdin, p.stdinSet
}

// SetStandardInput sets the stdin payload.
func (p *ProcessInfo) SetStandardInput(content string) {
	p.stdin = content
	p.stdinSet = true
}

// Environment returns the live environment mapping. Mutations are
// visible to subsequent materializations but never to handles already
// produced.
func (p *ProcessInfo) Environment() map[string]string {
	return p.env
}

// Setenv sets a single environment variable.
func (p *ProcessInfo) Setenv(key, value string) {
	p.env[key] = value
}

// CheckIfSuccess reports whether the exit code is a member of the
// success set. With an empty set nothing is ever classified
// successful.
func (p *ProcessInfo) CheckIfSuccess(exitCode int) bool {
	for _, code := range p.successExitCodes {
		if code == exitCode {
			return true
		}
	}
	return false
}

// CreateProcess validates the environment and materializes an
// unstarted, caller-owned process handle carrying an independent
// snapshot of the current configuration. A custom working directory
// that the file system reports missing is an environment error and no
// handle is produced. Each call yields a new handle.
func (p *ProcessInfo) CreateProcess() (Process, error) {
	if p.workingDir != "" && !p.fs.DirectoryExists(p.workingDir) {
		return nil, NewEnvironmentError(p.fileName, p.workingDir)
	}

	return p.factory.NewProcess(p.snapshot()), nil
}

// snapshot captures the current configuration as independent data.
func (p *ProcessInfo) snapshot() Spec {
	args, hasArgs := p.args.Private()

	return Spec{
		FileName:         p.fileName,
		Arguments:        args,
		HasArguments:     hasArgs,
		WorkingDirectory: p.workingDir,
		Priority:         p.priority,
		Environment:      envutil.Build(p.env),
		TimeOut:          p.timeout,
		StreamEncoding:   p.streamEncoding,
		StandardInput:    p.stdin,
		HasStandardInput: p.stdinSet,
	}
}
