package runner

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
)

// TradefedRunner emits the default harness invocation. All tradefed
// descriptors share one invocation; include filters narrow it per
// module and per class/method.
type TradefedRunner struct {
	logger zerolog.Logger
}

func NewTradefedRunner(logger zerolog.Logger) *TradefedRunner {
	return &TradefedRunner{logger: logger}
}

func (r *TradefedRunner) Name() model.Backend { return model.BackendTradefed }

func (r *TradefedRunner) BuildReqs() []string {
	return []string{"tradefed-all", "atest-tradefed-launcher"}
}

func (r *TradefedRunner) Commands(descriptors []model.TestDescriptor, extraArgs []string) []Command {
	args := []string{
		"template/atest_local_min",
		"--template:map", "test=atest",
		"--log-level", "WARN",
	}
	for _, descriptor := range descriptors {
		args = append(args, "--include-filter", descriptor.TestName)
		for _, filter := range descriptor.Filters {
			args = append(args, "--atest-include-filter",
				fmt.Sprintf("%s:%s", descriptor.TestName, filter.String()))
		}
	}
	args = append(args, extraArgs...)
	return []Command{{Executable: "atest_tradefed.sh", Args: args}}
}
