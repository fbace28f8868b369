package model

import "time"

// Invocation records one atgo run: the references the user gave, what
// they resolved to, and how the dispatched run went. Written as
// invocation.json inside the per-run history directory.
type Invocation struct {
	// Unique ID for this invocation (UUID).
	ID string `json:"id"`
	// Timestamp when the invocation started.
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name).
	Args []string `json:"args"`
	// Working directory, relative to the repo root.
	WorkDir string `json:"workdir"`
	// References the user supplied (or TEST_MAPPING expanded into).
	References []string `json:"references,omitempty"`
	// Group names the TEST_MAPPING group when references were discovered.
	Group string `json:"group,omitempty"`
	// Descriptors the references resolved to.
	Descriptors []TestDescriptor `json:"descriptors,omitempty"`
	// BuildTargets is the aggregated target set handed to the build.
	BuildTargets []string `json:"build_targets,omitempty"`
	// DryRun is set when nothing was built or executed.
	DryRun bool `json:"dry_run,omitempty"`
	// Exit code of the invocation.
	ExitCode int `json:"exit_code"`
	// Duration of the invocation.
	Duration time.Duration `json:"duration"`
	// Git information, when available.
	Git *Git `json:"git,omitempty"`
	// Standard output file name (relative to run dir).
	StdoutFile string `json:"stdout_file,omitempty"`
	// Standard error file name (relative to run dir).
	StderrFile string `json:"stderr_file,omitempty"`
}

// Git contains git repository information captured at invocation time.
type Git struct {
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
	Repo   string `json:"repo,omitempty"`
}
