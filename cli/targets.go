package cli

// This file contains the targets command and the dry-run plan output:
// resolved descriptors, aggregated build targets and the run commands
// that would be dispatched.

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"

	"github.com/atgo/atgo/build"
	"github.com/atgo/atgo/config"
	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
	"github.com/atgo/atgo/runner"
)

func (a *App) targets(ctx *cli.Context) error {
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

	builder := build.NewRunner(a.logger, buildTop, cfg.BuildCmd)
	index, err := moduleinfo.Load(a.logger, buildTop, cfg.ModuleInfoPath, builder)
	if err != nil {
		return err
	}

	interactive := cfg.Interactive && !ctx.Bool("no-prompt")
	trans := a.newTranslator(cfg, index, buildTop, interactive)
	result, err := trans.Translate(references, workDir, group)
	if err != nil {
		return err
	}

	dispatcher := runner.NewDispatcher(a.logger)
	reqs, err := dispatcher.BuildReqs(result.Descriptors)
	if err != nil {
		return err
	}
	allTargets := unionTargets(result.BuildTargets, reqs)

	runArgs := append(append([]string{}, cfg.ExtraArgs...), extraArgs...)
	commands, err := dispatcher.Commands(result.Descriptors, runArgs)
	if err != nil {
		return err
	}
	a.printPlan(result.Descriptors, allTargets, commands)
	return nil
}

func (a *App) printPlan(descriptors []model.TestDescriptor, targets []string, commands []runner.Command) {
	t := newTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("TEST"),
		text.FgHiCyan.Sprint("BACKEND"),
		text.FgHiCyan.Sprint("CONFIG"),
		text.FgHiCyan.Sprint("FILTERS"),
	})
	for _, descriptor := range descriptors {
		filters := make([]string, 0, len(descriptor.Filters))
		for _, filter := range descriptor.Filters {
			filters = append(filters, filter.String())
		}
		t.AppendRow(table.Row{
			descriptor.TestName,
			string(descriptor.Backend),
			descriptor.ConfigReference,
			strings.Join(filters, "\n"),
		})
	}
	t.Render()

	t = newTable()
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("BUILD TARGET")})
	for _, target := range targets {
		t.AppendRow(table.Row{target})
	}
	t.Render()

	fmt.Println("\nRun commands:")
	for _, command := range commands {
		fmt.Printf("  %s\n", command.String())
		for _, env := range command.Env {
			fmt.Printf("    env %s\n", env)
		}
	}
}

// newTable creates a new table with standard styling
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}
