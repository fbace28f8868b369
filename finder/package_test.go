package finder

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atgo/atgo/model"
)

func TestPackageFinder(t *testing.T) {
	root, index := fixtureTree(t)
	f := NewPackageFinder(zerolog.Nop(), root, index)

	t.Run("package resolves to owning module", func(t *testing.T) {
		d, err := f.Find("com.example.foo", FindOpts{})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "FooTests", d.TestName)
		require.Len(t, d.Filters, 1)
		assert.Equal(t, "com.example.foo", d.Filters[0].ClassName)
		assert.Empty(t, d.Filters[0].Methods)
	})

	t.Run("methods on a package are rejected", func(t *testing.T) {
		_, err := f.Find("com.example.foo#testA", FindOpts{})
		var methodErr *model.MethodWithoutClassError
		require.ErrorAs(t, err, &methodErr)
	})

	t.Run("unknown package falls through", func(t *testing.T) {
		d, err := f.Find("com.example.nowhere", FindOpts{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})
}
