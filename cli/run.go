package cli

// This file contains the run command: resolve the references, build the
// aggregated targets and dispatch the per-backend run commands, with the
// invocation recorded to history on the way out.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/atgo/atgo/build"
	"github.com/atgo/atgo/config"
	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
	"github.com/atgo/atgo/runner"
	"github.com/atgo/atgo/translator"
)

func (a *App) run(ctx *cli.Context) error {
	references, extraArgs := splitReferences(ctx.Args().Slice())

	buildTop, err := a.resolveBuildTop(ctx.String("build-top"))
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.logger, buildTop)
	if err != nil {
		return err
	}
	group := cfg.Group
	if ctx.String("group") != "" {
		group = ctx.String("group")
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	invocation := &model.Invocation{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Args:      os.Args,
		WorkDir:   workDir,
		DryRun:    ctx.Bool("dry-run"),
	}
	if commit, branch, err := getGitInfo(); err == nil {
		invocation.Git = &model.Git{Commit: commit, Branch: branch, Repo: filepath.Base(buildTop)}
	} else {
		a.logger.Debug().Err(err).Msg("No git information available")
	}

	start := time.Now()
	exitCode := 0
	var stdout, stderr string
	defer func() {
		invocation.Duration = time.Since(start)
		invocation.ExitCode = exitCode
		if err := a.recordInvocation(buildTop, invocation, stdout, stderr); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record invocation")
		}
	}()

	builder := build.NewRunner(a.logger, buildTop, cfg.BuildCmd)
	index, err := moduleinfo.Load(a.logger, buildTop, cfg.ModuleInfoPath, builder)
	if err != nil {
		exitCode = 1
		return err
	}

	interactive := cfg.Interactive && !ctx.Bool("no-prompt") && !ctx.Bool("dry-run")
	trans := a.newTranslator(cfg, index, buildTop, interactive)
	result, err := trans.Translate(references, workDir, group)
	if err != nil {
		exitCode = 1
		return err
	}
	invocation.References = result.References
	invocation.Descriptors = result.Descriptors
	if len(references) == 0 {
		invocation.Group = group
	}

	dispatcher := runner.NewDispatcher(a.logger)
	reqs, err := dispatcher.BuildReqs(result.Descriptors)
	if err != nil {
		exitCode = 1
		return err
	}
	targets := unionTargets(result.BuildTargets, reqs)
	invocation.BuildTargets = targets

	runArgs := append(append([]string{}, cfg.ExtraArgs...), extraArgs...)
	if ctx.Bool("dry-run") {
		commands, err := dispatcher.Commands(result.Descriptors, runArgs)
		if err != nil {
			exitCode = 1
			return err
		}
		a.printPlan(result.Descriptors, targets, commands)
		return nil
	}

	if ctx.Bool("no-build") {
		a.logger.Info().Msg("Skipping build step")
	} else if err := builder.Build(targets); err != nil {
		exitCode = 1
		return err
	}

	if err := dispatcher.RunAll(result.Descriptors, runArgs, &stdout, &stderr); err != nil {
		exitCode = 1
		return err
	}
	return nil
}

func (a *App) newTranslator(cfg *config.Config, index *moduleinfo.Index, buildTop string, interactive bool) *translator.Translator {
	resolver := translator.NewResolver(a.logger, buildTop, index, cfg.IntegrationDirs)
	if interactive {
		resolver.SetChooser(a.chooseCandidate)
	}
	return translator.New(a.logger, resolver, buildTop)
}

// resolveBuildTop locates the repo root: the flag wins, then
// $ANDROID_BUILD_TOP, then the enclosing git checkout.
func (a *App) resolveBuildTop(flag string) (string, error) {
	if flag != "" {
		abs, err := filepath.Abs(flag)
		if err != nil {
			return "", fmt.Errorf("invalid build top %s: %w", flag, err)
		}
		return abs, nil
	}
	if env := os.Getenv("ANDROID_BUILD_TOP"); env != "" {
		return env, nil
	}
	top, err := gitTopLevel()
	if err != nil {
		return "", fmt.Errorf("cannot determine repo root: set --build-top or ANDROID_BUILD_TOP")
	}
	a.logger.Debug().Str("build_top", top).Msg("Using git top level as repo root")
	return top, nil
}

// splitReferences separates test references from harness arguments at
// the first "--".
func splitReferences(args []string) (references, extraArgs []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func unionTargets(targets, reqs []string) []string {
	set := make(map[string]struct{})
	for _, target := range targets {
		set[target] = struct{}{}
	}
	for _, req := range reqs {
		set[req] = struct{}{}
	}
	union := make([]string, 0, len(set))
	for target := range set {
		union = append(union, target)
	}
	sort.Strings(union)
	return union
}
