package finder

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// PackageFinder resolves a java package name to the module owning the
// package's directory. Package references are whole-class-or-broader, so
// method filters are rejected outright.
type PackageFinder struct {
	base
}

func NewPackageFinder(logger zerolog.Logger, root string, info *moduleinfo.Index) *PackageFinder {
	return &PackageFinder{base{logger: logger, root: root, info: info}}
}

func (f *PackageFinder) Find(reference string, opts FindOpts) (*model.TestDescriptor, error) {
	pkg, methods, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}
	if len(methods) > 0 {
		return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
	}

	searchDir := f.root
	if opts.RelConfig != "" {
		searchDir = filepath.Join(f.root, filepath.Dir(opts.RelConfig))
	}
	matches, err := findPackageDirs(searchDir, pkg)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		return nil, &model.AmbiguousTestError{Reference: reference, Candidates: matches}
	}
	packageDir := matches[0]

	relConfig := opts.RelConfig
	if relConfig == "" {
		relModuleDir, err := FindParentModuleDir(f.root, packageDir, f.info)
		if err != nil {
			return nil, err
		}
		relConfig = filepath.Join(relModuleDir, ModuleConfig)
	}
	moduleName := opts.ModuleName
	if moduleName == "" {
		moduleName, err = f.determineTestableModule(filepath.Dir(relConfig))
		if err != nil {
			return nil, err
		}
	}
	relConfig = f.moduleTestConfig(moduleName, relConfig)

	return f.processTestInfo(model.TestDescriptor{
		TestName:        moduleName,
		ConfigReference: relConfig,
		Filters:         []model.TestFilter{model.NewTestFilter(pkg, nil)},
	})
}
