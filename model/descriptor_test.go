package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTargets(t *testing.T) {
	d := TestDescriptor{TestName: "FooTests", BuildTargets: []string{"b", "a"}}
	got := d.WithTargets("c", "a")
	assert.Equal(t, []string{"a", "b", "c"}, got.BuildTargets)
	// The receiver is untouched.
	assert.Equal(t, []string{"b", "a"}, d.BuildTargets)
}

func TestFlattenDescriptors(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []TestDescriptor
		want        []TestDescriptor
	}{
		{
			name: "same test and backend merge",
			descriptors: []TestDescriptor{
				{
					TestName:     "FooTests",
					Backend:      BackendTradefed,
					BuildTargets: []string{"t2", "t1"},
					Filters:      []TestFilter{NewTestFilter("a.Foo", []string{"m1"})},
				},
				{
					TestName:        "FooTests",
					Backend:         BackendTradefed,
					BuildTargets:    []string{"t3", "t1"},
					ConfigReference: "foo/AndroidTest.xml",
					Filters:         []TestFilter{NewTestFilter("a.Foo", []string{"m2"})},
				},
			},
			want: []TestDescriptor{
				{
					TestName:        "FooTests",
					Backend:         BackendTradefed,
					BuildTargets:    []string{"t1", "t2", "t3"},
					ConfigReference: "foo/AndroidTest.xml",
					Filters:         []TestFilter{{ClassName: "a.Foo", Methods: []string{"m1", "m2"}}},
				},
			},
		},
		{
			name: "whole module run drops filters",
			descriptors: []TestDescriptor{
				{
					TestName: "FooTests",
					Backend:  BackendTradefed,
					Filters:  []TestFilter{NewTestFilter("a.Foo", []string{"m1"})},
				},
				{
					TestName: "FooTests",
					Backend:  BackendTradefed,
				},
			},
			want: []TestDescriptor{
				{
					TestName:     "FooTests",
					Backend:      BackendTradefed,
					BuildTargets: []string{},
				},
			},
		},
		{
			name: "different backends stay separate",
			descriptors: []TestDescriptor{
				{TestName: "FooTests", Backend: BackendTradefed},
				{TestName: "FooTests", Backend: BackendVts},
			},
			want: []TestDescriptor{
				{TestName: "FooTests", Backend: BackendTradefed, BuildTargets: []string{}},
				{TestName: "FooTests", Backend: BackendVts, BuildTargets: []string{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenDescriptors(tt.descriptors)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}
