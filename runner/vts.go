package runner

import (
	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
)

// VtsRunner emits invocations of the vts harness, one per module.
type VtsRunner struct {
	logger zerolog.Logger
}

func NewVtsRunner(logger zerolog.Logger) *VtsRunner {
	return &VtsRunner{logger: logger}
}

func (r *VtsRunner) Name() model.Backend { return model.BackendVts }

func (r *VtsRunner) BuildReqs() []string {
	return []string{"vts-test-core"}
}

func (r *VtsRunner) Commands(descriptors []model.TestDescriptor, extraArgs []string) []Command {
	var commands []Command
	for _, descriptor := range descriptors {
		args := []string{"run", "commandAndExit", "vts-staging-default", "-m", descriptor.TestName}
		args = append(args, extraArgs...)
		commands = append(commands, Command{Executable: "vts-tradefed", Args: args})
	}
	return commands
}
