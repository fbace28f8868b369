package finder

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// ModuleFinder resolves a bare module name through the module index.
type ModuleFinder struct {
	base
}

func NewModuleFinder(logger zerolog.Logger, root string, info *moduleinfo.Index) *ModuleFinder {
	return &ModuleFinder{base{logger: logger, root: root, info: info}}
}

// Find looks the reference up as a module name. Unknown or untestable
// modules fall through; a method filter on a module that does resolve is
// a user error since methods require a class scope.
func (f *ModuleFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	name, methods, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}
	entry, ok := f.info.ModuleInfo(name)
	if !ok || !f.info.IsTestableModule(entry) {
		return nil, nil
	}
	if len(methods) > 0 {
		return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
	}
	if len(entry.Path) == 0 {
		return nil, nil
	}
	relConfig := f.moduleTestConfig(name, filepath.Join(entry.Path[0], ModuleConfig))
	return f.processTestInfo(model.TestDescriptor{
		TestName:        name,
		ConfigReference: relConfig,
	})
}

// ModuleClassFinder resolves MODULE:CLASS references. The module half
// must resolve; a bad left side never falls back to a bare class search.
type ModuleClassFinder struct {
	modules *ModuleFinder
	classes *ClassFinder
}

func NewModuleClassFinder(modules *ModuleFinder, classes *ClassFinder) *ModuleClassFinder {
	return &ModuleClassFinder{modules: modules, classes: classes}
}

func (f *ModuleClassFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	moduleName, classRef, found := strings.Cut(reference, ":")
	if !found {
		return nil, nil
	}
	moduleDesc, err := f.modules.Find(moduleName, FindOpts{})
	if err != nil || moduleDesc == nil {
		return nil, err
	}
	return f.classes.Find(classRef, FindOpts{
		ModuleName: moduleDesc.TestName,
		RelConfig:  moduleDesc.ConfigReference,
	})
}

// ModulePackageFinder resolves MODULE:PACKAGE references, scoping the
// package search to the module's tree.
type ModulePackageFinder struct {
	modules  *ModuleFinder
	packages *PackageFinder
}

func NewModulePackageFinder(modules *ModuleFinder, packages *PackageFinder) *ModulePackageFinder {
	return &ModulePackageFinder{modules: modules, packages: packages}
}

func (f *ModulePackageFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	moduleName, pkgRef, found := strings.Cut(reference, ":")
	if !found {
		return nil, nil
	}
	moduleDesc, err := f.modules.Find(moduleName, FindOpts{})
	if err != nil || moduleDesc == nil {
		return nil, err
	}
	return f.packages.Find(pkgRef, FindOpts{
		ModuleName: moduleDesc.TestName,
		RelConfig:  moduleDesc.ConfigReference,
	})
}
