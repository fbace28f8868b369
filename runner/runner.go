package runner

// This file groups resolved descriptors by execution backend and
// dispatches the emitted run commands.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
)

// Command is one harness invocation ready to execute.
type Command struct {
	Executable string
	Args       []string
	// Env entries appended to the inherited environment.
	Env []string
}

// String renders the command shell-quoted for logs and dry runs.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Executable}, c.Args...))
}

// TestRunner emits the invocation for one execution backend.
type TestRunner interface {
	Name() model.Backend
	// BuildReqs are targets the backend itself needs built before any
	// of its tests can run.
	BuildReqs() []string
	// Commands translates the backend's descriptors into invocations.
	Commands(descriptors []model.TestDescriptor, extraArgs []string) []Command
}

// Dispatcher owns the closed backend registry.
type Dispatcher struct {
	logger  zerolog.Logger
	runners map[model.Backend]TestRunner
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	runners := make(map[model.Backend]TestRunner)
	for _, r := range []TestRunner{
		NewTradefedRunner(logger),
		NewRobolectricRunner(logger),
		NewVtsRunner(logger),
	} {
		runners[r.Name()] = r
	}
	return &Dispatcher{logger: logger, runners: runners}
}

// groupByBackend splits descriptors per backend, backends ordered by
// name for deterministic dispatch.
func (d *Dispatcher) groupByBackend(descriptors []model.TestDescriptor) ([]model.Backend, map[model.Backend][]model.TestDescriptor, error) {
	grouped := make(map[model.Backend][]model.TestDescriptor)
	for _, descriptor := range descriptors {
		if _, ok := d.runners[descriptor.Backend]; !ok {
			return nil, nil, fmt.Errorf("unknown execution backend: %s", descriptor.Backend)
		}
		grouped[descriptor.Backend] = append(grouped[descriptor.Backend], descriptor)
	}
	backends := make([]model.Backend, 0, len(grouped))
	for backend := range grouped {
		backends = append(backends, backend)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i] < backends[j] })
	return backends, grouped, nil
}

// BuildReqs unions the build requirements of every backend the
// descriptors touch.
func (d *Dispatcher) BuildReqs(descriptors []model.TestDescriptor) ([]string, error) {
	backends, _, err := d.groupByBackend(descriptors)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, backend := range backends {
		for _, req := range d.runners[backend].BuildReqs() {
			set[req] = struct{}{}
		}
	}
	reqs := make([]string, 0, len(set))
	for req := range set {
		reqs = append(reqs, req)
	}
	sort.Strings(reqs)
	return reqs, nil
}

// Commands emits every backend's invocations without executing them.
func (d *Dispatcher) Commands(descriptors []model.TestDescriptor, extraArgs []string) ([]Command, error) {
	backends, grouped, err := d.groupByBackend(descriptors)
	if err != nil {
		return nil, err
	}
	var commands []Command
	for _, backend := range backends {
		commands = append(commands, d.runners[backend].Commands(grouped[backend], extraArgs)...)
	}
	return commands, nil
}

// RunAll executes the emitted commands sequentially, capturing combined
// output for history while mirroring it to the terminal. Test failures
// surface as errors carrying the exit code.
func (d *Dispatcher) RunAll(descriptors []model.TestDescriptor, extraArgs []string, stdout, stderr *string) error {
	commands, err := d.Commands(descriptors, extraArgs)
	if err != nil {
		return err
	}
	var stdoutBuf, stderrBuf bytes.Buffer
	defer func() {
		*stdout = stdoutBuf.String()
		*stderr = stderrBuf.String()
	}()
	for _, command := range commands {
		d.logger.Info().Str("command", command.String()).Msg("Running tests")
		cmd := exec.Command(command.Executable, command.Args...)
		if len(command.Env) > 0 {
			cmd.Env = append(os.Environ(), command.Env...)
		}
		cmd.Stdout = io.MultiWriter(os.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)
		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				d.logger.Info().Int("exit_code", exitErr.ExitCode()).Msg("Tests completed with failures")
				return fmt.Errorf("tests failed with exit code %d", exitErr.ExitCode())
			}
			return fmt.Errorf("failed to execute %s: %w", command.Executable, err)
		}
	}
	d.logger.Info().Msg("Tests completed successfully")
	return nil
}
