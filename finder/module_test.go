package finder

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atgo/atgo/model"
)

func TestModuleFinder(t *testing.T) {
	root, index := fixtureTree(t)
	f := NewModuleFinder(zerolog.Nop(), root, index)

	t.Run("known module", func(t *testing.T) {
		d, err := f.Find("FooTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "FooTests", d.TestName)
		assert.Equal(t, model.BackendTradefed, d.Backend)
		assert.Equal(t, "platform/tests/foo/AndroidTest.xml", d.ConfigReference)
		assert.Equal(t, []string{"FooHelper", "MODULES-IN-platform-tests-foo"}, d.BuildTargets)
		assert.Empty(t, d.Filters)
	})

	t.Run("unknown module falls through", func(t *testing.T) {
		d, err := f.Find("NoSuchModule", FindOpts{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("untestable module falls through", func(t *testing.T) {
		d, err := f.Find("FooLib", FindOpts{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("methods on a module are rejected", func(t *testing.T) {
		_, err := f.Find("FooTests#testA", FindOpts{})
		var methodErr *model.MethodWithoutClassError
		require.ErrorAs(t, err, &methodErr)
		assert.Equal(t, []string{"testA"}, methodErr.Methods)
	})

	t.Run("auto-generated config skips target scraping", func(t *testing.T) {
		d, err := f.Find("GenTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, []string{"MODULES-IN-platform-tests-gen"}, d.BuildTargets)
	})

	t.Run("robolectric module runs as its Run pair", func(t *testing.T) {
		d, err := f.Find("RoboTest", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "RunRoboTest", d.TestName)
		assert.Equal(t, model.BackendRobolectric, d.Backend)
		assert.Equal(t, []string{"MODULES-IN-platform-tests-robo"}, d.BuildTargets)
	})

	t.Run("vts module routes to the vts backend", func(t *testing.T) {
		d, err := f.Find("VtsFooTest", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, model.BackendVts, d.Backend)
		assert.Equal(t, []string{"VtsFooTest", "vts-test-core"}, d.BuildTargets)
	})
}

func TestModuleClassFinder(t *testing.T) {
	root, index := fixtureTree(t)
	modules := NewModuleFinder(zerolog.Nop(), root, index)
	classes := NewClassFinder(zerolog.Nop(), root, index)
	f := NewModuleClassFinder(modules, classes)

	t.Run("module scoped class", func(t *testing.T) {
		d, err := f.Find("FooTests:FooUnitTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "FooTests", d.TestName)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo.FooUnitTests", d.Filters[0].ClassName)
	})

	t.Run("methods carry into the filter", func(t *testing.T) {
		d, err := f.Find("FooTests:FooUnitTests#testA,testB", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, []string{"testA", "testB"}, d.Filters[0].Methods)
	})

	t.Run("unknown module never falls back to a bare class search", func(t *testing.T) {
		d, err := f.Find("NoSuchModule:FooUnitTests", FindOpts{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})
}

func TestModulePackageFinder(t *testing.T) {
	root, index := fixtureTree(t)
	modules := NewModuleFinder(zerolog.Nop(), root, index)
	packages := NewPackageFinder(zerolog.Nop(), root, index)
	f := NewModulePackageFinder(modules, packages)

	d, err := f.Find("FooTests:com.example.foo", FindOpts{})
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "FooTests", d.TestName)
	require.Len(t, d.Filters, 1)
	assert.Equal(t, "com.example.foo", d.Filters[0].ClassName)
	assert.Empty(t, d.Filters[0].Methods)
}
