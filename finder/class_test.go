package finder

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atgo/atgo/model"
)

func TestClassFinder(t *testing.T) {
	root, index := fixtureTree(t)
	f := NewClassFinder(zerolog.Nop(), root, index)

	t.Run("bare class name", func(t *testing.T) {
		d, err := f.Find("FooUnitTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "FooTests", d.TestName)
		assert.Equal(t, model.BackendTradefed, d.Backend)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo.FooUnitTests", d.Filters[0].ClassName)
		assert.Empty(t, d.Filters[0].Methods)
	})

	t.Run("class with methods", func(t *testing.T) {
		d, err := f.Find("FooUnitTests#testA,testB", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo.FooUnitTests", d.Filters[0].ClassName)
		assert.Equal(t, []string{"testA", "testB"}, d.Filters[0].Methods)
	})

	t.Run("fully qualified class name", func(t *testing.T) {
		d, err := f.Find("com.example.foo.FooUnitTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "FooTests", d.TestName)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo.FooUnitTests", d.Filters[0].ClassName)
	})

	t.Run("unknown class falls through", func(t *testing.T) {
		d, err := f.Find("NoSuchClass", FindOpts{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("class in several trees is ambiguous", func(t *testing.T) {
		_, err := f.Find("DupTests", FindOpts{})
		var amb *model.AmbiguousTestError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, []string{
			filepath.Join(root, "platform/tests/foo/src/com/example/foo/DupTests.java"),
			filepath.Join(root, "platform/tests/robo/src/com/example/robo/DupTests.java"),
		}, amb.Candidates)
	})

	t.Run("shared directory yields module-scoped candidates", func(t *testing.T) {
		_, err := f.Find("MultiTests#testA", FindOpts{})
		var amb *model.AmbiguousTestError
		require.ErrorAs(t, err, &amb)
		assert.ElementsMatch(t, []string{"Alpha:MultiTests#testA", "Beta:MultiTests#testA"}, amb.Candidates)
	})

	t.Run("class in a module without a config marker", func(t *testing.T) {
		// GenTests' config is auto-generated, so ownership comes from the
		// module index rather than an AndroidTest.xml on disk.
		d, err := f.Find("GenUnitTests#testGen", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "GenTests", d.TestName)
		assert.Equal(t, []string{"MODULES-IN-platform-tests-gen"}, d.BuildTargets)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.gen.GenUnitTests", d.Filters[0].ClassName)
		assert.Equal(t, []string{"testGen"}, d.Filters[0].Methods)
	})

	t.Run("native gtest class", func(t *testing.T) {
		d, err := f.Find("NativeTests", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "NativeTests", d.TestName)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "NativeTests", d.Filters[0].ClassName)
	})

	t.Run("scoped search widens to the root on a miss", func(t *testing.T) {
		// The class lives under foo, not under the robo scope given here.
		d, err := f.Find("FooUnitTests", FindOpts{
			ModuleName: "RoboTest",
			RelConfig:  "platform/tests/robo/AndroidTest.xml",
		})
		require.NoError(t, err)
		require.NotNil(t, d)
		// Ownership is re-derived from where the class actually lives.
		assert.Equal(t, "FooTests", d.TestName)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo.FooUnitTests", d.Filters[0].ClassName)
	})
}
