package build

// This file shells out to the external build system for target builds
// and module-manifest regeneration.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// moduleInfoTarget asks the build system to (re)generate the module
// manifest consumed by the module index.
const moduleInfoTarget = "module-info.json"

// Runner invokes the external build command. The command line comes
// from configuration; targets are appended to it verbatim.
type Runner struct {
	logger   zerolog.Logger
	buildTop string
	command  []string
}

func NewRunner(logger zerolog.Logger, buildTop string, command []string) *Runner {
	return &Runner{logger: logger, buildTop: buildTop, command: command}
}

// Build builds the given targets, streaming output through while it runs.
func (r *Runner) Build(targets []string) error {
	if len(r.command) == 0 {
		return fmt.Errorf("no build command configured")
	}
	if len(targets) == 0 {
		return nil
	}
	args := append(append([]string{}, r.command[1:]...), targets...)
	cmd := exec.Command(r.command[0], args...)
	cmd.Dir = r.buildTop

	var stderrBuf bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)

	r.logger.Info().
		Str("command", shellescape.QuoteCommand(append([]string{r.command[0]}, args...))).
		Msg("Building targets")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build failed: %w (stderr: %s)", err, stderrBuf.String())
	}
	return nil
}

// RegenerateModuleInfo rebuilds the module manifest.
func (r *Runner) RegenerateModuleInfo() error {
	return r.Build([]string{moduleInfoTarget})
}
