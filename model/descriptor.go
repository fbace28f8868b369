package model

import "sort"

// Backend identifies which execution harness runs a resolved test.
type Backend string

const (
	BackendTradefed    Backend = "AtestTradefedTestRunner"
	BackendRobolectric Backend = "RobolectricTestRunner"
	BackendVts         Backend = "VtsTradefedTestRunner"
)

// TestDescriptor is the normalized unit of work produced by resolution:
// a buildable, runnable test plus the filters narrowing it. Descriptors
// are values; the flatten step produces new merged instances instead of
// mutating in place.
type TestDescriptor struct {
	// TestName is the buildable/runnable unit, usually a module name;
	// for suite and integration references it is the config name.
	TestName string `json:"test_name"`
	// Backend decides the downstream run-command shape.
	Backend Backend `json:"backend"`
	// BuildTargets are the targets required to build and install this
	// test and its dependencies. Kept sorted and deduplicated.
	BuildTargets []string `json:"build_targets,omitempty"`
	// ConfigReference is the resolved test configuration path relative
	// to the repo root, empty when none applies.
	ConfigReference string `json:"config_reference,omitempty"`
	// Filters narrow which classes/methods run. Empty means the whole
	// module/config runs.
	Filters []TestFilter `json:"filters,omitempty"`
}

// WithTargets returns a copy of the descriptor with the given targets
// merged into its build-target set.
func (d TestDescriptor) WithTargets(targets ...string) TestDescriptor {
	d.BuildTargets = normalizeSet(append(append([]string{}, d.BuildTargets...), targets...))
	return d
}

// FlattenDescriptors merges descriptors referring to the same test on the
// same backend. Build targets union, the config reference is last-wins
// (same module implies same config), and filters flatten per
// FlattenFilters. A member with no filter at all is a whole-module run
// and forces the merged descriptor to carry no filter.
func FlattenDescriptors(descriptors []TestDescriptor) []TestDescriptor {
	type key struct {
		name    string
		backend Backend
	}
	type group struct {
		targets     map[string]struct{}
		config      string
		filters     []TestFilter
		wholeModule bool
	}
	groups := make(map[key]*group)
	var order []key
	for _, d := range descriptors {
		k := key{d.TestName, d.Backend}
		g, ok := groups[k]
		if !ok {
			g = &group{targets: make(map[string]struct{})}
			groups[k] = g
			order = append(order, k)
		}
		for _, t := range d.BuildTargets {
			g.targets[t] = struct{}{}
		}
		if d.ConfigReference != "" {
			g.config = d.ConfigReference
		}
		if len(d.Filters) == 0 {
			g.wholeModule = true
		} else {
			g.filters = append(g.filters, d.Filters...)
		}
	}

	flattened := make([]TestDescriptor, 0, len(order))
	for _, k := range order {
		g := groups[k]
		targets := make([]string, 0, len(g.targets))
		for t := range g.targets {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		merged := TestDescriptor{
			TestName:        k.name,
			Backend:         k.backend,
			BuildTargets:    targets,
			ConfigReference: g.config,
		}
		if !g.wholeModule {
			merged.Filters = FlattenFilters(g.filters)
		}
		flattened = append(flattened, merged)
	}
	return flattened
}
