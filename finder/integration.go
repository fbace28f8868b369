package finder

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
	"github.com/atgo/atgo/testconfig"
)

// harnessTarget is the build target every integration/suite run needs.
const harnessTarget = "tradefed-all"

// IntegrationFinder locates a named XML configuration under the known
// integration config roots. An optional ":Class#method" suffix narrows
// the run within the integration.
type IntegrationFinder struct {
	base
	dirs []string
}

func NewIntegrationFinder(logger zerolog.Logger, root string, info *moduleinfo.Index, dirs []string) *IntegrationFinder {
	return &IntegrationFinder{base: base{logger: logger, root: root, info: info}, dirs: dirs}
}

func (f *IntegrationFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	name, classQuery, hasClass := strings.Cut(reference, ":")
	var methods []string
	if !hasClass {
		base, m, err := model.SplitMethods(name)
		if err != nil {
			return nil, err
		}
		name, methods = base, m
	}

	matches, err := f.search(name)
	if err != nil {
		return nil, err
	}
	// The reference may still be a class or module; only a name that
	// actually names a config is this finder's to reject.
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		return nil, &model.AmbiguousTestError{Reference: reference, Candidates: matches}
	}
	if len(methods) > 0 {
		return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
	}

	relConfig, err := filepath.Rel(f.root, matches[0])
	if err != nil {
		return nil, err
	}
	descriptor := model.TestDescriptor{
		TestName:        name,
		Backend:         model.BackendTradefed,
		ConfigReference: relConfig,
		BuildTargets:    []string{harnessTarget},
	}
	if hasClass {
		class, methods, err := model.SplitMethods(classQuery)
		if err != nil {
			return nil, err
		}
		if class == "" {
			return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
		}
		descriptor.Filters = []model.TestFilter{model.NewTestFilter(class, methods)}
	}
	return &descriptor, nil
}

// search matches name against every xml config under the integration
// dirs, either by bare file name or by dir-qualified path.
func (f *IntegrationFinder) search(name string) ([]string, error) {
	seen := make(map[string]struct{})
	var matches []string
	for _, dir := range f.dirs {
		absDir := filepath.Join(f.root, dir)
		err := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Integration roots are optional; skip missing ones.
				return filepath.SkipAll
			}
			if d.IsDir() {
				if path != absDir && shouldSkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".xml") {
				return nil
			}
			rel, err := filepath.Rel(absDir, path)
			if err != nil {
				return nil
			}
			relNoExt := strings.TrimSuffix(rel, ".xml")
			baseNoExt := strings.TrimSuffix(d.Name(), ".xml")
			if relNoExt == name || baseNoExt == name {
				if _, dup := seen[path]; !dup {
					seen[path] = struct{}{}
					matches = append(matches, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// SuiteFinder resolves a suite tag to a suite-level run by scanning the
// integration configs for a matching run-suite-tag declaration.
type SuiteFinder struct {
	base
	dirs []string
}

func NewSuiteFinder(logger zerolog.Logger, root string, info *moduleinfo.Index, dirs []string) *SuiteFinder {
	return &SuiteFinder{base: base{logger: logger, root: root, info: info}, dirs: dirs}
}

func (f *SuiteFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	suite, methods, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}
	for _, dir := range f.dirs {
		absDir := filepath.Join(f.root, dir)
		var found bool
		err := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return filepath.SkipAll
			}
			if d.IsDir() {
				if path != absDir && shouldSkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".xml") {
				return nil
			}
			tags, err := testconfig.SuiteTags(path)
			if err != nil {
				return nil
			}
			for _, tag := range tags {
				if tag == suite {
					found = true
					return filepath.SkipAll
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if found {
			// Only a name that really is a suite tag rejects methods;
			// anything else falls through to the next kind.
			if len(methods) > 0 {
				return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
			}
			return &model.TestDescriptor{
				TestName:     suite,
				Backend:      model.BackendTradefed,
				BuildTargets: []string{harnessTarget},
			}, nil
		}
	}
	return nil, nil
}
