package translator

// This file contains the aggregation step: resolving every reference,
// flattening the resulting descriptors and computing the union of build
// targets for the external build invocation.

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/testmapping"
)

// Translator turns raw test references into build targets plus
// normalized, de-duplicated test descriptors. Stateless across calls
// given the module index snapshot behind the resolver.
type Translator struct {
	logger   zerolog.Logger
	resolver *Resolver
	root     string
}

func New(logger zerolog.Logger, resolver *Resolver, root string) *Translator {
	return &Translator{logger: logger, resolver: resolver, root: root}
}

// Result is the aggregated outcome of one translation.
type Result struct {
	// References actually translated; differs from the user's input
	// when they were discovered from a TEST_MAPPING file.
	References []string
	// BuildTargets is the union across all descriptors.
	BuildTargets []string
	// Descriptors are flattened: one entry per (test, backend).
	Descriptors []model.TestDescriptor
}

// Translate resolves each reference independently and flattens the
// results. An empty reference list falls back to the TEST_MAPPING group
// discovered from workDir upward; nothing there either is a
// NoTestFoundError.
func (t *Translator) Translate(references []string, workDir, group string) (*Result, error) {
	tests := make([]testmapping.Test, 0, len(references))
	for _, reference := range references {
		tests = append(tests, testmapping.Test{Name: reference})
	}
	if len(tests) == 0 {
		discovered, err := testmapping.Discover(t.logger, t.root, workDir, group)
		if err != nil {
			return nil, err
		}
		tests = discovered
		if len(tests) == 0 {
			return nil, &model.NoTestFoundError{Reference: group}
		}
		references = make([]string, 0, len(tests))
		for _, test := range tests {
			references = append(references, test.Name)
		}
		t.logger.Info().Strs("references", references).Str("group", group).
			Msg("References discovered from TEST_MAPPING")
	}

	t.logger.Info().Strs("references", references).Msg("Finding tests")
	var raw []model.TestDescriptor
	for _, test := range tests {
		descriptor, err := t.resolver.Resolve(test.Name)
		if err != nil {
			return nil, err
		}
		narrowed, err := t.applyOptions(*descriptor, test)
		if err != nil {
			return nil, err
		}
		raw = append(raw, narrowed)
	}

	descriptors := model.FlattenDescriptors(raw)
	targets := make(map[string]struct{})
	for _, d := range descriptors {
		for _, target := range d.BuildTargets {
			targets[target] = struct{}{}
		}
	}
	union := make([]string, 0, len(targets))
	for target := range targets {
		union = append(union, target)
	}
	sort.Strings(union)

	return &Result{
		References:   references,
		BuildTargets: union,
		Descriptors:  descriptors,
	}, nil
}

// applyOptions narrows a resolved descriptor with the grouping entry's
// options. Only include-filter is understood; other keys are harness
// tuning atgo does not act on and are dropped with a warning.
func (t *Translator) applyOptions(descriptor model.TestDescriptor, test testmapping.Test) (model.TestDescriptor, error) {
	for _, option := range test.Options {
		for key, value := range option {
			if key != "include-filter" {
				t.logger.Warn().Str("test", test.Name).Str("option", key).Str("value", value).
					Msg("Unsupported TEST_MAPPING option ignored")
				continue
			}
			class, methods, err := model.SplitMethods(value)
			if err != nil {
				return model.TestDescriptor{}, err
			}
			descriptor.Filters = append(descriptor.Filters, model.NewTestFilter(class, methods))
		}
	}
	return descriptor, nil
}
