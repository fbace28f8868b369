package finder

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// PathFinder resolves filesystem references: a source file becomes a
// class filter on its owning module, a module directory a whole-module
// run, a bare source directory a package filter, and anything else
// resolves to the nearest ancestor module.
type PathFinder struct {
	base
}

func NewPathFinder(logger zerolog.Logger, root string, info *moduleinfo.Index) *PathFinder {
	return &PathFinder{base{logger: logger, root: root, info: info}}
}

func (f *PathFinder) Find(reference string, _ FindOpts) (*model.TestDescriptor, error) {
	rawPath, methods, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}
	path, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, nil
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}
	dirPath, fileName := path, ""
	if !stat.IsDir() {
		dirPath, fileName = filepath.Split(path)
		dirPath = filepath.Clean(dirPath)
	}

	relModuleDir, err := FindParentModuleDir(f.root, dirPath, f.info)
	if err != nil {
		return nil, err
	}
	moduleName, err := f.determineTestableModule(relModuleDir)
	if err != nil {
		return nil, err
	}
	relConfig := f.moduleTestConfig(moduleName, filepath.Join(relModuleDir, ModuleConfig))

	descriptor := model.TestDescriptor{
		TestName:        moduleName,
		ConfigReference: relConfig,
	}

	switch {
	case fileName != "" && javaExtRe.MatchString(fileName):
		fqcn, err := FullyQualifiedClassName(path)
		if err != nil {
			return nil, err
		}
		descriptor.Filters = []model.TestFilter{model.NewTestFilter(fqcn, methods)}
	case fileName != "" && ccExtRe.MatchString(fileName):
		if len(methods) > 0 {
			descriptor.Filters = []model.TestFilter{model.NewTestFilter("*", methods)}
		}
	case fileName == "":
		relPath, err := filepath.Rel(f.root, path)
		if err != nil {
			return nil, err
		}
		// A directory below the module boundary with its own sources is
		// a package-scoped run, not the whole module.
		if relPath != relModuleDir && !f.info.IsAutoGenTestConfig(moduleName) {
			if pkg, ok := packageOfDir(path); ok {
				if len(methods) > 0 {
					return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
				}
				descriptor.Filters = []model.TestFilter{model.NewTestFilter(pkg, nil)}
			}
		}
	}
	if len(descriptor.Filters) == 0 && len(methods) > 0 {
		return nil, &model.MethodWithoutClassError{Reference: reference, Methods: methods}
	}
	return f.processTestInfo(descriptor)
}

// packageOfDir returns the package declared by the first java/kt source
// directly inside dir.
func packageOfDir(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() || !javaExtRe.MatchString(entry.Name()) {
			continue
		}
		if pkg, ok := PackageName(filepath.Join(dir, entry.Name())); ok {
			return pkg, true
		}
	}
	return "", false
}
