package model

import (
	"fmt"
	"strings"
)

// NoTestFoundError is returned when every candidate kind for a reference
// has been exhausted without a match.
type NoTestFoundError struct {
	Reference string
}

func (e *NoTestFoundError) Error() string {
	return fmt.Sprintf("no test found for: %s", e.Reference)
}

// TooManyMethodsError is returned when a single reference carries more
// than one class#method clause.
type TooManyMethodsError struct {
	Reference string
}

func (e *TooManyMethodsError) Error() string {
	return fmt.Sprintf("too many methods specified with # in %q: only one class#method combination is supported per reference, separate multiple classes with spaces", e.Reference)
}

// MethodWithoutClassError is returned when a method filter is applied to
// a reference that resolves wider than a class (module or package).
type MethodWithoutClassError struct {
	Reference string
	Methods   []string
}

func (e *MethodWithoutClassError) Error() string {
	return fmt.Sprintf("%s: method filtering (%s) requires a class", e.Reference, strings.Join(e.Methods, ","))
}

// TestWithNoModuleError is returned when a path exists in the tree but no
// enclosing module marker was found walking up to the repo root.
type TestWithNoModuleError struct {
	Path string
}

func (e *TestWithNoModuleError) Error() string {
	return fmt.Sprintf("no parent module dir for: %s", e.Path)
}

// MissingPackageNameError is returned when a source file carries no
// package declaration, so its fully qualified class name cannot be derived.
type MissingPackageNameError struct {
	Path string
}

func (e *MissingPackageNameError) Error() string {
	return fmt.Sprintf("no package declaration found in: %s", e.Path)
}

// UnregisteredModuleError is returned when a path maps to no known module
// name in the index.
type UnregisteredModuleError struct {
	Path string
}

func (e *UnregisteredModuleError) Error() string {
	return fmt.Sprintf("no registered module for path: %s", e.Path)
}

// AmbiguousTestError carries every candidate a search produced when more
// than one matched. The engine never picks one silently; callers decide
// whether to prompt or fail.
type AmbiguousTestError struct {
	Reference  string
	Candidates []string
}

func (e *AmbiguousTestError) Error() string {
	return fmt.Sprintf("%d tests found for %q: %s", len(e.Candidates), e.Reference, strings.Join(e.Candidates, ", "))
}
