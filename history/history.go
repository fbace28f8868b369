package history

// This file contains shared history utilities for loading and parsing
// recorded invocations.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
)

// DirName is the history root under the repo top.
const DirName = ".atgo"

// RecordFile is the per-invocation metadata file.
const RecordFile = "invocation.json"

type Entry struct {
	Invocation model.Invocation
	FullPath   string
}

// Root returns the history directory under the given repo root.
func Root(buildTop string) (string, error) {
	root := filepath.Join(buildTop, DirName, "history")
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", fmt.Errorf("no invocations recorded in %s", root)
	}
	return root, nil
}

// LoadEntries loads every recorded invocation under the history root.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			recordPath := filepath.Join(path, RecordFile)
			if _, err := os.Stat(recordPath); err == nil {
				invocation, err := parseRecord(recordPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", recordPath).Msg("Failed to parse invocation record")
					return nil
				}
				entries = append(entries, Entry{
					Invocation: invocation,
					FullPath:   path,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}
	return entries, nil
}

func parseRecord(path string) (model.Invocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Invocation{}, err
	}
	var invocation model.Invocation
	if err := json.Unmarshal(data, &invocation); err != nil {
		return model.Invocation{}, err
	}
	return invocation, nil
}
