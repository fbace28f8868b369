package cli

// This file contains the list command for displaying previous
// invocations.

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v2"

	"github.com/atgo/atgo/history"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	buildTop, err := a.resolveBuildTop(ctx.String("build-top"))
	if err != nil {
		return err
	}
	root, err := history.Root(buildTop)
	if err != nil {
		return err
	}
	entries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No invocations recorded")
		return nil
	}

	// Sort by timestamp (newest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Invocation.Timestamp.After(entries[j].Invocation.Timestamp)
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	t := newTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("STATUS"),
		text.FgHiCyan.Sprint("TIME"),
		text.FgHiCyan.Sprint("DURATION"),
		text.FgHiCyan.Sprint("ID"),
		text.FgHiCyan.Sprint("REFERENCES"),
		text.FgHiCyan.Sprint("PATH"),
	})
	for _, entry := range entries {
		inv := entry.Invocation

		status := "✓"
		if inv.ExitCode != 0 {
			status = fmt.Sprintf("✗ (%d)", inv.ExitCode)
		}
		if inv.DryRun {
			status = "dry"
		}

		shortID := inv.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		references := strings.Join(inv.References, " ")
		if references == "" && inv.Group != "" {
			references = "group:" + inv.Group
		}

		t.AppendRow(table.Row{
			status,
			inv.Timestamp.Format("2006-01-02 15:04:05"),
			inv.Duration.Round(time.Millisecond),
			shortID,
			references,
			inv.WorkDir,
		})
	}
	t.Render()

	fmt.Println("\nView test output: cat <run dir>/stdout.txt")
	return nil
}
