package model

import (
	"sort"
	"strings"
)

// TestFilter narrows a module-level test run to a single class, and
// optionally to a set of methods within that class. An empty method set
// means "run the entire class".
type TestFilter struct {
	ClassName string   `json:"class_name"`
	Methods   []string `json:"methods,omitempty"`
}

// NewTestFilter returns a filter with its method set deduplicated and
// sorted so filters compare deterministically.
func NewTestFilter(className string, methods []string) TestFilter {
	return TestFilter{ClassName: className, Methods: normalizeSet(methods)}
}

// String renders the filter the way the harness expects it on the wire,
// e.g. "a.b.Foo#m1,m2" or just "a.b.Foo".
func (f TestFilter) String() string {
	if len(f.Methods) == 0 {
		return f.ClassName
	}
	return f.ClassName + "#" + strings.Join(f.Methods, ",")
}

// SplitMethods splits a raw reference into its base reference and the set
// of method names given after '#'. A comma inside the method clause
// separates multiple methods. More than one '#' clause is a user error:
// "a#m,b#n" is two class#method combos crammed into one reference.
func SplitMethods(reference string) (string, []string, error) {
	parts := strings.Split(reference, "#")
	switch len(parts) {
	case 1:
		return parts[0], nil, nil
	case 2:
		return parts[0], normalizeSet(strings.Split(parts[1], ",")), nil
	}
	return "", nil, &TooManyMethodsError{Reference: reference}
}

// FlattenFilters collapses filters sharing a class name into the minimal
// equivalent set. Method sets union, except that any whole-class member
// (empty method set) subsumes the method filters for that class.
func FlattenFilters(filters []TestFilter) []TestFilter {
	type group struct {
		methods    map[string]struct{}
		wholeClass bool
	}
	groups := make(map[string]*group)
	var order []string
	for _, f := range filters {
		g, ok := groups[f.ClassName]
		if !ok {
			g = &group{methods: make(map[string]struct{})}
			groups[f.ClassName] = g
			order = append(order, f.ClassName)
		}
		if len(f.Methods) == 0 {
			g.wholeClass = true
			continue
		}
		for _, m := range f.Methods {
			g.methods[m] = struct{}{}
		}
	}

	sort.Strings(order)
	flattened := make([]TestFilter, 0, len(order))
	for _, class := range order {
		g := groups[class]
		if g.wholeClass {
			flattened = append(flattened, TestFilter{ClassName: class})
			continue
		}
		methods := make([]string, 0, len(g.methods))
		for m := range g.methods {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		flattened = append(flattened, TestFilter{ClassName: class, Methods: methods})
	}
	return flattened
}

func normalizeSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
