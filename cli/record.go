package cli

// This file contains invocation recording: saving per-run metadata and
// captured output to the history directory.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atgo/atgo/history"
	"github.com/atgo/atgo/model"
)

func (a *App) recordInvocation(buildTop string, invocation *model.Invocation, stdout, stderr string) error {
	// Store the working directory relative to the repo root
	if invocation.WorkDir != "" {
		if rel, err := filepath.Rel(buildTop, invocation.WorkDir); err == nil {
			invocation.WorkDir = rel
		}
	}

	// Create directory in .atgo/history/<timestamp>-<id>
	timestamp := invocation.Timestamp.Format("20060102-150405")
	shortID := invocation.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	runName := fmt.Sprintf("%s-%s", timestamp, shortID)
	runDir := filepath.Join(buildTop, history.DirName, "history", runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	if stdout != "" {
		stdoutPath := filepath.Join(runDir, "stdout.txt")
		if err := os.WriteFile(stdoutPath, []byte(stdout), 0644); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		invocation.StdoutFile = "stdout.txt"
	}

	if stderr != "" {
		stderrPath := filepath.Join(runDir, "stderr.txt")
		if err := os.WriteFile(stderrPath, []byte(stderr), 0644); err != nil {
			return fmt.Errorf("failed to write stderr: %w", err)
		}
		invocation.StderrFile = "stderr.txt"
	}

	metadataPath := filepath.Join(runDir, history.RecordFile)
	metadataJSON, err := json.MarshalIndent(invocation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal invocation: %w", err)
	}
	if err := os.WriteFile(metadataPath, metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write invocation metadata: %w", err)
	}

	a.logger.Debug().Str("dir", runDir).Str("id", invocation.ID).Msg("Recorded invocation")
	return nil
}
