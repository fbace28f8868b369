package translator

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atgo/atgo/finder"
	"github.com/atgo/atgo/model"
	"github.com/atgo/atgo/moduleinfo"
)

// Chooser picks one candidate out of an ambiguous match. Candidates are
// themselves resolvable references (file paths or module:class forms).
type Chooser func(*model.AmbiguousTestError) (string, error)

// Resolver owns the closed kind-to-finder table and runs the
// first-match-wins dispatch over a reference's candidate kinds. Finders
// themselves never see the ordering.
type Resolver struct {
	logger  zerolog.Logger
	finders map[model.ReferenceKind]finder.Finder
	chooser Chooser
}

// NewResolver wires one finder per reference kind against a loaded
// module index. integrationDirs are the config roots, relative to root.
func NewResolver(logger zerolog.Logger, root string, info *moduleinfo.Index, integrationDirs []string) *Resolver {
	modules := finder.NewModuleFinder(logger, root, info)
	classes := finder.NewClassFinder(logger, root, info)
	packages := finder.NewPackageFinder(logger, root, info)
	return &Resolver{
		logger: logger,
		finders: map[model.ReferenceKind]finder.Finder{
			model.KindModule:         modules,
			model.KindClass:          classes,
			model.KindQualifiedClass: classes,
			model.KindPackage:        packages,
			model.KindModuleClass:    finder.NewModuleClassFinder(modules, classes),
			model.KindModulePackage:  finder.NewModulePackageFinder(modules, packages),
			model.KindFilePath:       finder.NewPathFinder(logger, root, info),
			model.KindIntegration:    finder.NewIntegrationFinder(logger, root, info, integrationDirs),
			model.KindSuite:          finder.NewSuiteFinder(logger, root, info, integrationDirs),
		},
	}
}

// SetChooser installs an ambiguity handler. Without one, ambiguous
// references fail with the AmbiguousTestError so batch callers see the
// candidate list.
func (r *Resolver) SetChooser(chooser Chooser) {
	r.chooser = chooser
}

// Resolve dispatches the reference, consulting the chooser once when
// the match is ambiguous and retrying with the chosen candidate.
func (r *Resolver) Resolve(reference string) (*model.TestDescriptor, error) {
	descriptor, err := r.resolveOnce(reference)
	var amb *model.AmbiguousTestError
	if err == nil || r.chooser == nil || !errors.As(err, &amb) {
		return descriptor, err
	}
	choice, chooseErr := r.chooser(amb)
	if chooseErr != nil {
		return nil, chooseErr
	}
	// Candidates from a file search drop the method suffix; carry it over.
	if _, methods, _ := model.SplitMethods(reference); len(methods) > 0 && !strings.Contains(choice, "#") {
		choice += "#" + strings.Join(methods, ",")
	}
	r.logger.Info().Str("reference", reference).Str("choice", choice).
		Msg("Ambiguous reference narrowed")
	return r.resolveOnce(choice)
}

// resolveOnce classifies the reference and tries each candidate kind in
// order, returning the first descriptor found. Exhausting every kind is
// a NoTestFoundError; any error a finder raises propagates untouched.
func (r *Resolver) resolveOnce(reference string) (*model.TestDescriptor, error) {
	stripped, _, err := model.SplitMethods(reference)
	if err != nil {
		return nil, err
	}
	kinds := finder.Classify(stripped)
	r.logger.Debug().Str("reference", reference).
		Interface("kinds", kinds).Msg("Classified reference")
	for _, kind := range kinds {
		f, ok := r.finders[kind]
		if !ok {
			continue
		}
		descriptor, err := f.Find(reference, finder.FindOpts{})
		if err != nil {
			return nil, err
		}
		if descriptor != nil {
			r.logger.Debug().Str("reference", reference).Str("kind", string(kind)).
				Str("test", descriptor.TestName).Msg("Reference resolved")
			return descriptor, nil
		}
		r.logger.Debug().Str("reference", reference).Str("kind", string(kind)).
			Msg("No match for kind")
	}
	return nil, &model.NoTestFoundError{Reference: reference}
}
