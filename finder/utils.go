package finder

// This file contains the filesystem search primitives shared by the
// class, package and path finders.

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// Group matches "foo.bar" in a "package foo.bar;" declaration line.
var packageRe = regexp.MustCompile(`^\s*package\s+([^;\s]+)\s*;`)

var (
	javaExtRe = regexp.MustCompile(`(?i)\.(java|kt)$`)
	ccExtRe   = regexp.MustCompile(`(?i)\.(cc|cpp)$`)
)

// Directories never worth descending into during a search.
var skipDirs = map[string]struct{}{
	".git":  {},
	".repo": {},
	"out":   {},
}

func shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	_, skip := skipDirs[name]
	return skip
}

// PackageName reads the package declaration of a java/kt source file.
func PackageName(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if match := packageRe.FindStringSubmatch(scanner.Text()); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// FullyQualifiedClassName derives "foo.bar.Baz" from a source file at
// .../Baz.java declaring "package foo.bar;".
func FullyQualifiedClassName(path string) (string, error) {
	pkg, ok := PackageName(path)
	if !ok {
		return "", &model.MissingPackageNameError{Path: path}
	}
	base := filepath.Base(path)
	class := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s.%s", pkg, class), nil
}

// isEqualOrSubDir reports whether sub equals parent or sits below it.
// Both are resolved through symlinks first.
func isEqualOrSubDir(sub, parent string) bool {
	subReal, err := filepath.EvalSymlinks(sub)
	if err != nil {
		return false
	}
	parentReal, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(parentReal, subReal)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// FindParentModuleDir walks up from startDir toward rootDir looking for
// the nearest directory carrying a module config, or failing that, one
// the index maps to a module: generated configs leave no marker file on
// disk. Returns the module dir relative to root.
func FindParentModuleDir(rootDir, startDir string, info *moduleinfo.Index) (string, error) {
	if !isEqualOrSubDir(startDir, rootDir) {
		return "", fmt.Errorf("%s not inside repo %s", startDir, rootDir)
	}
	current := filepath.Clean(startDir)
	root := filepath.Clean(rootDir)
	for {
		rel, err := filepath.Rel(root, current)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(filepath.Join(current, ModuleConfig)); err == nil {
			return rel, nil
		}
		if info != nil && rel != "." && len(info.ModuleNames(rel)) > 0 {
			return rel, nil
		}
		if current == root {
			return "", &model.TestWithNoModuleError{Path: startDir}
		}
		current = filepath.Dir(current)
	}
}

// findClassFiles searches under searchDir for source files matching the
// class name. A qualified name must match the trailing path segments
// (a.b.Foo matches */a/b/Foo.java); a bare name matches the file name.
// Native searches scan cc/cpp files for a gtest TEST macro naming the
// class instead.
func findClassFiles(searchDir, className string, native bool) ([]string, error) {
	var matches []string
	var matchFile func(path string) bool
	if native {
		macroRe := regexp.MustCompile(`\bTEST(_F|_P)?\s*\(\s*` + regexp.QuoteMeta(className) + `\s*,`)
		matchFile = func(path string) bool {
			if !ccExtRe.MatchString(path) {
				return false
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return false
			}
			return macroRe.Match(data)
		}
	} else if strings.Contains(className, ".") {
		suffix := string(filepath.Separator) + strings.ReplaceAll(className, ".", string(filepath.Separator))
		matchFile = func(path string) bool {
			if !javaExtRe.MatchString(path) {
				return false
			}
			trimmed := javaExtRe.ReplaceAllString(path, "")
			return strings.HasSuffix(trimmed, suffix)
		}
	} else {
		matchFile = func(path string) bool {
			base := filepath.Base(path)
			return javaExtRe.MatchString(base) && strings.TrimSuffix(base, filepath.Ext(base)) == className
		}
	}

	err := filepath.WalkDir(searchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != searchDir && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchFile(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("class search failed under %s: %w", searchDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// findPackageDirs searches under searchDir for directories whose path
// ends with the package's directory form (a.b -> a/b) and which contain
// at least one source file declaring that package.
func findPackageDirs(searchDir, pkg string) ([]string, error) {
	suffix := string(filepath.Separator) + strings.ReplaceAll(pkg, ".", string(filepath.Separator))
	var matches []string
	err := filepath.WalkDir(searchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != searchDir && shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if !strings.HasSuffix(path, suffix) {
			return nil
		}
		if dirDeclaresPackage(path, pkg) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("package search failed under %s: %w", searchDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// dirDeclaresPackage reports whether any java/kt file directly in dir
// declares the given package.
func dirDeclaresPackage(dir, pkg string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() || !javaExtRe.MatchString(entry.Name()) {
			continue
		}
		if declared, ok := PackageName(filepath.Join(dir, entry.Name())); ok && declared == pkg {
			return true
		}
	}
	return false
}
