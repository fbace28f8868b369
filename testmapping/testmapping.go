package testmapping

// This file loads TEST_MAPPING grouping files: JSON objects keyed by
// group name ("presubmit", "postsubmit", ...) listing test references,
// with flags controlling traversal across the directory tree.

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileName is the grouping file looked for in each directory.
const FileName = "TEST_MAPPING"

const (
	keyIncludeParent  = "include_parent"
	keyIncludeSubdirs = "include_subdirs"
)

// Test is one entry in a grouping file.
type Test struct {
	Name string `json:"name"`
	// Options narrow the run for this entry; include-filter values are
	// applied to the resolved test, other keys are ignored.
	Options []map[string]string `json:"options,omitempty"`
}

// File is one parsed TEST_MAPPING.
type File struct {
	Path           string
	Groups         map[string][]Test
	IncludeParent  bool
	IncludeSubdirs bool
}

// Parse reads a TEST_MAPPING file.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	f := &File{Path: path, Groups: make(map[string][]Test)}
	for key, value := range raw {
		switch key {
		case keyIncludeParent:
			if err := json.Unmarshal(value, &f.IncludeParent); err != nil {
				return nil, fmt.Errorf("bad %s in %s: %w", key, path, err)
			}
		case keyIncludeSubdirs:
			if err := json.Unmarshal(value, &f.IncludeSubdirs); err != nil {
				return nil, fmt.Errorf("bad %s in %s: %w", key, path, err)
			}
		default:
			var tests []Test
			if err := json.Unmarshal(value, &tests); err != nil {
				return nil, fmt.Errorf("bad group %q in %s: %w", key, path, err)
			}
			f.Groups[key] = tests
		}
	}
	return f, nil
}

// Discover collects the grouping entries applying to startDir for the
// given group. The nearest TEST_MAPPING walking up from startDir to root
// is authoritative; its include_parent flag pulls in ancestor files and
// include_subdirs pulls in every file below its directory.
func Discover(logger zerolog.Logger, root, startDir, group string) ([]Test, error) {
	nearest, err := findUp(root, startDir)
	if err != nil || nearest == nil {
		return nil, err
	}
	files := []*File{nearest}

	if nearest.IncludeParent {
		parent := filepath.Dir(filepath.Dir(nearest.Path))
		for {
			f, err := findUp(root, parent)
			if err != nil {
				return nil, err
			}
			if f == nil {
				break
			}
			files = append(files, f)
			if !f.IncludeParent {
				break
			}
			parent = filepath.Dir(filepath.Dir(f.Path))
		}
	}

	if nearest.IncludeSubdirs {
		baseDir := filepath.Dir(nearest.Path)
		err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != FileName || path == nearest.Path {
				return nil
			}
			f, err := Parse(path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Skipping unparsable TEST_MAPPING")
				return nil
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var tests []Test
	seen := make(map[string]struct{})
	for _, f := range files {
		for _, t := range f.Groups[group] {
			if _, dup := seen[t.Name]; dup {
				continue
			}
			seen[t.Name] = struct{}{}
			tests = append(tests, t)
		}
		logger.Debug().Str("path", f.Path).Str("group", group).
			Int("tests", len(f.Groups[group])).Msg("TEST_MAPPING consulted")
	}
	return tests, nil
}

// findUp returns the nearest parsed TEST_MAPPING from startDir walking
// up to root, or nil when none exists.
func findUp(root, startDir string) (*File, error) {
	current := filepath.Clean(startDir)
	root = filepath.Clean(root)
	rel, err := filepath.Rel(root, current)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return nil, nil
	}
	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Parse(candidate)
		}
		if current == root {
			return nil, nil
		}
		current = filepath.Dir(current)
	}
}
