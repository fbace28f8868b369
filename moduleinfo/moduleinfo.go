package moduleinfo

// This file contains the read-only module index built from the build
// system's generated module-info.json manifest.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultManifestPath is where the build system drops the generated
// manifest, relative to the repo root.
const DefaultManifestPath = "out/module-info.json"

const robolectricRunPrefix = "Run"

// Entry is the read-only metadata the manifest records per module.
type Entry struct {
	Name                string   `json:"module_name"`
	Class               []string `json:"class"`
	Path                []string `json:"path"`
	Installed           []string `json:"installed"`
	CompatibilitySuites []string `json:"compatibility_suites"`
	AutoTestConfig      []bool   `json:"auto_test_config"`
	TestConfig          []string `json:"test_config"`
}

// Regenerator requests regeneration of the manifest through the external
// build system. The index never builds anything itself.
type Regenerator interface {
	RegenerateModuleInfo() error
}

// Index is a lookup structure over the module manifest. It is fully
// populated by Load and never mutated afterwards, so concurrent reads
// need no synchronization.
type Index struct {
	logger  zerolog.Logger
	modules map[string]Entry
	// byPath reverse-maps a source-root-relative path to the modules
	// declared there; multiple modules may share a path.
	byPath map[string][]string
}

// Load reads the manifest under buildTop, asking regen to produce a
// fresh one when it is missing or unreadable. relPath is the manifest
// location relative to buildTop; empty means DefaultManifestPath.
// Content staleness against the build graph is the build system's
// problem: regenerating runs an incremental build, so a usable manifest
// is taken at face value.
func Load(logger zerolog.Logger, buildTop, relPath string, regen Regenerator) (*Index, error) {
	if relPath == "" {
		relPath = DefaultManifestPath
	}
	manifest := filepath.Join(buildTop, relPath)
	modules, err := readManifest(manifest)
	if err != nil {
		if regen == nil {
			return nil, err
		}
		logger.Info().Err(err).Str("manifest", manifest).
			Msg("Module manifest missing or unreadable, regenerating")
		if err := regen.RegenerateModuleInfo(); err != nil {
			return nil, fmt.Errorf("failed to regenerate module manifest: %w", err)
		}
		modules, err = readManifest(manifest)
		if err != nil {
			return nil, err
		}
	}

	idx := &Index{
		logger:  logger,
		modules: make(map[string]Entry, len(modules)),
		byPath:  make(map[string][]string),
	}
	for name, entry := range modules {
		if entry.Name == "" {
			entry.Name = name
		}
		idx.modules[name] = entry
		for _, p := range entry.Path {
			idx.byPath[p] = append(idx.byPath[p], name)
		}
	}
	logger.Debug().Int("modules", len(idx.modules)).Msg("Module index loaded")
	return idx, nil
}

func readManifest(manifest string) (map[string]Entry, error) {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to read module manifest: %w", err)
	}
	var modules map[string]Entry
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("failed to parse module manifest %s: %w", manifest, err)
	}
	return modules, nil
}

// ModuleInfo looks up the entry for a module name.
func (i *Index) ModuleInfo(name string) (Entry, bool) {
	e, ok := i.modules[name]
	return e, ok
}

// IsModule reports whether name is a known module.
func (i *Index) IsModule(name string) bool {
	_, ok := i.modules[name]
	return ok
}

// Paths returns the source-root-relative paths declared for a module.
// The first element is authoritative.
func (i *Index) Paths(name string) []string {
	return i.modules[name].Path
}

// ModuleNames reverse-looks-up the modules declared at a relative path.
func (i *Index) ModuleNames(path string) []string {
	return i.byPath[path]
}

// IsTestableModule reports whether an entry can actually be run as a
// test: it must install something and either declare a test config, have
// one auto-generated, or be a robolectric run pair. Pure libraries fail
// this check.
func (i *Index) IsTestableModule(e Entry) bool {
	if len(e.Installed) == 0 {
		return false
	}
	if len(e.TestConfig) > 0 || i.IsAutoGenTestConfig(e.Name) {
		return true
	}
	return i.IsRobolectricTest(e.Name)
}

// IsAutoGenTestConfig reports whether the module's test config is
// generated by the build rather than written by hand.
func (i *Index) IsAutoGenTestConfig(name string) bool {
	e, ok := i.modules[name]
	if !ok {
		return false
	}
	return len(e.AutoTestConfig) > 0 && e.AutoTestConfig[0]
}

// TestConfig returns the explicitly declared test config path for the
// module, or empty when the config is auto-generated or absent.
func (i *Index) TestConfig(name string) string {
	e, ok := i.modules[name]
	if !ok || i.IsAutoGenTestConfig(name) {
		return ""
	}
	if len(e.TestConfig) > 0 {
		return e.TestConfig[0]
	}
	return ""
}

// RobolectricTestName returns the run-module ("Run<name>") paired with
// the given module in the same directory, or empty when there is none.
// Robolectric tests exist in pairs: one module builds the test, its Run
// sibling executes it.
func (i *Index) RobolectricTestName(name string) string {
	e, ok := i.modules[name]
	if !ok || len(e.Path) == 0 {
		return ""
	}
	if strings.HasPrefix(name, robolectricRunPrefix) {
		return name
	}
	for _, sibling := range i.byPath[e.Path[0]] {
		if strings.HasPrefix(sibling, robolectricRunPrefix) {
			return sibling
		}
	}
	return ""
}

// IsRobolectricTest reports whether the module is part of a robolectric
// build/run pair.
func (i *Index) IsRobolectricTest(name string) bool {
	return i.RobolectricTestName(name) != ""
}
