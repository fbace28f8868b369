package runner

import (
	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
)

// RobolectricRunner drives robolectric pairs through the build system:
// each Run<module> target executes its test when built. Method filters
// pass through the ROBOTEST_FILTER environment variable.
type RobolectricRunner struct {
	logger zerolog.Logger
}

func NewRobolectricRunner(logger zerolog.Logger) *RobolectricRunner {
	return &RobolectricRunner{logger: logger}
}

func (r *RobolectricRunner) Name() model.Backend { return model.BackendRobolectric }

func (r *RobolectricRunner) BuildReqs() []string { return nil }

func (r *RobolectricRunner) Commands(descriptors []model.TestDescriptor, extraArgs []string) []Command {
	var commands []Command
	for _, descriptor := range descriptors {
		command := Command{
			Executable: "make",
			Args:       append([]string{"-j", descriptor.TestName}, extraArgs...),
		}
		if len(descriptor.Filters) > 0 {
			command.Env = []string{"ROBOTEST_FILTER=" + descriptor.Filters[0].String()}
		}
		commands = append(commands, command)
	}
	return commands
}
