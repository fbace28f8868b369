package finder

import (
	"strings"

	"github.com/atgo/atgo/model"
)

// Classify maps the lexical shape of a reference (method suffix already
// stripped) to the candidate kinds finders should try, in priority
// order. The first finder to produce a descriptor wins; later kinds are
// fallbacks, never competing matches.
//
// The precedence is fixed:
//   - a leading '.' is an explicit relative path marker;
//   - a '/' means a path, falling back to integration and suite names;
//   - a ':' splits module from class/package, the suffix's dots deciding
//     whether a package interpretation is also plausible;
//   - a dotted reference may be an extensionless relative path, a fully
//     qualified class, or a package;
//   - a bare identifier is most likely a module, then an integration
//     config, then a class.
func Classify(reference string) []model.ReferenceKind {
	if strings.HasPrefix(reference, ".") {
		return []model.ReferenceKind{model.KindFilePath}
	}
	if strings.Contains(reference, "/") {
		return []model.ReferenceKind{model.KindFilePath, model.KindIntegration, model.KindSuite}
	}
	if _, suffix, found := strings.Cut(reference, ":"); found {
		if strings.Contains(suffix, ".") {
			return []model.ReferenceKind{model.KindModuleClass, model.KindModulePackage}
		}
		return []model.ReferenceKind{model.KindModuleClass}
	}
	if strings.Contains(reference, ".") {
		return []model.ReferenceKind{model.KindFilePath, model.KindQualifiedClass, model.KindPackage}
	}
	return []model.ReferenceKind{model.KindModule, model.KindIntegration, model.KindClass}
}
