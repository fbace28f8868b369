package cli

// This file contains the interactive prompt used to narrow an ambiguous
// reference to one of its candidates.

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/atgo/atgo/model"
)

func (a *App) chooseCandidate(amb *model.AmbiguousTestError) (string, error) {
	color.Yellow("Multiple tests match %q:", amb.Reference)
	for i, candidate := range amb.Candidates {
		fmt.Printf("  %s %s\n", color.CyanString("[%d]", i+1), candidate)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.GreenString("Select a test [1]: "),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			// Declining the prompt surfaces the original ambiguity.
			return "", amb
		}
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return amb.Candidates[0], nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(amb.Candidates) {
			color.Red("Enter a number between 1 and %d", len(amb.Candidates))
			continue
		}
		return amb.Candidates[n-1], nil
	}
}
