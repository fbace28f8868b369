package finder

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// ClassFinder locates the source file for a bare or qualified class name
// and derives the owning module from the file's actual location. Both
// java/kt classes and native gtest classes are covered; java wins when
// both match.
type ClassFinder struct {
	base
}

func NewClassFinder(logger zerolog.Logger, root string, info *moduleinfo.Index) *ClassFinder {
	return &ClassFinder{base{logger: logger, root: root, info: info}}
}

func (f *ClassFinder) Find(reference string, opts FindOpts) (*model.TestDescriptor, error) {
	className, methods, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}

	searchDir := f.root
	if opts.RelConfig != "" {
		searchDir = filepath.Join(f.root, filepath.Dir(opts.RelConfig))
	}

	native := false
	matches, err := findClassFiles(searchDir, className, false)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		matches, err = findClassFiles(searchDir, className, true)
		if err != nil {
			return nil, err
		}
		native = len(matches) > 0
	}
	// A class living outside the assumed module's tree is not an error;
	// widen to the repo root and re-derive ownership from the hit.
	if len(matches) == 0 && searchDir != f.root {
		f.logger.Info().Str("class", className).Str("scope", opts.RelConfig).
			Msg("Class not under module path, searching from repo root")
		matches, err = findClassFiles(f.root, className, false)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			matches, err = findClassFiles(f.root, className, true)
			if err != nil {
				return nil, err
			}
			native = len(matches) > 0
		}
		// Ownership no longer follows the caller's module.
		opts = FindOpts{}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		return nil, &model.AmbiguousTestError{Reference: reference, Candidates: matches}
	}
	testPath := matches[0]

	var filter model.TestFilter
	if native {
		filter = model.NewTestFilter(className, methods)
	} else {
		fqcn, err := FullyQualifiedClassName(testPath)
		if err != nil {
			return nil, err
		}
		filter = model.NewTestFilter(fqcn, methods)
	}

	relConfig := opts.RelConfig
	if relConfig == "" {
		relModuleDir, err := FindParentModuleDir(f.root, filepath.Dir(testPath), f.info)
		if err != nil {
			return nil, err
		}
		relConfig = filepath.Join(relModuleDir, ModuleConfig)
	}
	moduleName := opts.ModuleName
	if moduleName == "" {
		moduleName, err = f.determineTestableModule(filepath.Dir(relConfig))
		if err != nil {
			// Several modules claiming the directory is re-resolvable:
			// surface module:class candidates instead of bare names.
			var amb *model.AmbiguousTestError
			if errors.As(err, &amb) {
				candidates := make([]string, len(amb.Candidates))
				for i, name := range amb.Candidates {
					candidates[i] = name + ":" + reference
				}
				return nil, &model.AmbiguousTestError{Reference: reference, Candidates: candidates}
			}
			return nil, err
		}
	}
	relConfig = f.moduleTestConfig(moduleName, relConfig)

	return f.processTestInfo(model.TestDescriptor{
		TestName:        moduleName,
		ConfigReference: relConfig,
		Filters:         []model.TestFilter{filter},
	})
}
