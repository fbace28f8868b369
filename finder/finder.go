package finder

// This file contains the finder contract shared by every typed finder
// and the helpers they all lean on for module bookkeeping.

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
	"github.com/atgo/atgo/testconfig"
)

// ModuleConfig is the per-module test config marker file. A directory
// containing one is a module boundary.
const ModuleConfig = "AndroidTest.xml"

// modulesInFormat is the build graph's per-directory presence marker.
const modulesInFormat = "MODULES-IN-%s"

// Suites listed in compatibility_suites that aren't really suites.
var suitesToIgnore = map[string]struct{}{
	"general-tests": {},
	"device-tests":  {},
	"tests":         {},
}

// FindOpts carries already-known context into a finder, letting a
// module:class lookup scope the class search to the module's tree.
type FindOpts struct {
	// ModuleName is the owning module, when the caller already knows it.
	ModuleName string
	// RelConfig is the module config path relative to the repo root.
	RelConfig string
}

// Finder resolves one reference grammar to a test descriptor. A nil
// descriptor with a nil error means "not found" and lets the dispatcher
// fall through to the next candidate kind; errors are reserved for
// malformed input and unrecoverable conditions.
type Finder interface {
	Find(reference string, opts FindOpts) (*model.TestDescriptor, error)
}

// base bundles what every finder needs: the repo root, the module index
// and a logger.
type base struct {
	logger zerolog.Logger
	root   string
	info   *moduleinfo.Index
}

// moduleTestConfig prefers the module's explicitly declared test config
// over the conventional <module dir>/AndroidTest.xml fallback.
func (b *base) moduleTestConfig(moduleName, relConfig string) string {
	if explicit := b.info.TestConfig(moduleName); explicit != "" {
		return explicit
	}
	return relConfig
}

// buildTargets computes the build deps for a module: targets scraped
// from its config (unless auto-generated) plus the MODULES-IN presence
// marker for each of its directories.
func (b *base) buildTargets(moduleName, relConfig string) ([]string, error) {
	var targets []string
	if !b.info.IsAutoGenTestConfig(moduleName) && relConfig != "" {
		configTargets, err := testconfig.Targets(b.logger, filepath.Join(b.root, relConfig), b.info)
		if err != nil {
			return nil, err
		}
		targets = append(targets, configTargets...)
	}
	for _, modulePath := range b.info.Paths(moduleName) {
		targets = append(targets, fmt.Sprintf(modulesInFormat, strings.ReplaceAll(modulePath, "/", "-")))
	}
	return targets, nil
}

// isVtsModule reports whether the module belongs to the vts suite and
// nothing else, which routes it to the vts backend.
func (b *base) isVtsModule(moduleName string) bool {
	entry, ok := b.info.ModuleInfo(moduleName)
	if !ok {
		return false
	}
	var suites []string
	for _, suite := range entry.CompatibilitySuites {
		if _, ignore := suitesToIgnore[suite]; !ignore {
			suites = append(suites, suite)
		}
	}
	return len(suites) == 1 && suites[0] == "vts"
}

// processTestInfo finishes a descriptor a find method filled out:
// verifies the module is known, picks the execution backend, and
// computes build targets. Returns nil when the module is unknown.
func (b *base) processTestInfo(d model.TestDescriptor) (*model.TestDescriptor, error) {
	if _, ok := b.info.ModuleInfo(d.TestName); !ok {
		return nil, nil
	}
	if b.isVtsModule(d.TestName) {
		d.Backend = model.BackendVts
		d = d.WithTargets("vts-test-core", d.TestName)
		return &d, nil
	}
	if b.info.IsRobolectricTest(d.TestName) {
		d.Backend = model.BackendRobolectric
		runName := b.info.RobolectricTestName(d.TestName)
		targets, err := b.buildTargets(d.TestName, d.ConfigReference)
		if err != nil {
			return nil, err
		}
		d.TestName = runName
		d = d.WithTargets(targets...)
		return &d, nil
	}
	d.Backend = model.BackendTradefed
	targets, err := b.buildTargets(d.TestName, d.ConfigReference)
	if err != nil {
		return nil, err
	}
	d = d.WithTargets(targets...)
	return &d, nil
}

// determineTestableModule picks the module to test for a directory.
// Several modules may share a directory; robolectric pairs win outright,
// more than one testable candidate is an ambiguity the caller must
// resolve, none at all means the path is unregistered.
func (b *base) determineTestableModule(relDir string) (string, error) {
	var testable []string
	for _, name := range b.info.ModuleNames(relDir) {
		if b.info.IsRobolectricTest(name) {
			return name, nil
		}
		entry, ok := b.info.ModuleInfo(name)
		if ok && b.info.IsTestableModule(entry) {
			testable = append(testable, name)
		}
	}
	switch len(testable) {
	case 0:
		return "", &model.UnregisteredModuleError{Path: relDir}
	case 1:
		return testable[0], nil
	}
	return "", &model.AmbiguousTestError{Reference: relDir, Candidates: testable}
}
