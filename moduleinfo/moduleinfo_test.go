package moduleinfo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, buildTop string, modules map[string]Entry) {
	t.Helper()
	data, err := json.Marshal(modules)
	require.NoError(t, err)
	path := filepath.Join(buildTop, DefaultManifestPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func testManifest() map[string]Entry {
	return map[string]Entry{
		"FooTests": {
			Class:      []string{"APPS"},
			Path:       []string{"platform/tests/foo"},
			Installed:  []string{"out/testcases/FooTests.apk"},
			TestConfig: []string{"platform/tests/foo/AndroidTest.xml"},
		},
		"FooLib": {
			Class: []string{"JAVA_LIBRARIES"},
			Path:  []string{"platform/tests/foo"},
		},
		"GenTests": {
			Class:          []string{"APPS"},
			Path:           []string{"platform/tests/gen"},
			Installed:      []string{"out/testcases/GenTests.apk"},
			AutoTestConfig: []bool{true},
		},
		"RoboTest": {
			Class:     []string{"JAVA_LIBRARIES"},
			Path:      []string{"platform/tests/robo"},
			Installed: []string{"out/robo/RoboTest.jar"},
		},
		"RunRoboTest": {
			Class:     []string{"ROBOLECTRIC"},
			Path:      []string{"platform/tests/robo"},
			Installed: []string{"out/robo/RunRoboTest"},
		},
	}
}

func TestLoad(t *testing.T) {
	buildTop := t.TempDir()
	writeManifest(t, buildTop, testManifest())

	index, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.NoError(t, err)

	assert.True(t, index.IsModule("FooTests"))
	assert.False(t, index.IsModule("NoSuch"))

	entry, ok := index.ModuleInfo("FooTests")
	require.True(t, ok)
	// The key fills in the name when the manifest entry omits it.
	assert.Equal(t, "FooTests", entry.Name)

	assert.Equal(t, []string{"platform/tests/foo"}, index.Paths("FooTests"))
	assert.ElementsMatch(t, []string{"FooTests", "FooLib"}, index.ModuleNames("platform/tests/foo"))
}

func TestLoadRegeneratesMissingManifest(t *testing.T) {
	buildTop := t.TempDir()

	_, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.Error(t, err)

	regen := &fakeRegenerator{t: t, buildTop: buildTop}
	index, err := Load(zerolog.Nop(), buildTop, "", regen)
	require.NoError(t, err)
	assert.True(t, regen.called)
	assert.True(t, index.IsModule("FooTests"))
}

func TestLoadRegeneratesCorruptManifest(t *testing.T) {
	buildTop := t.TempDir()
	path := filepath.Join(buildTop, DefaultManifestPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	// A build interrupted mid-write leaves a truncated manifest behind.
	require.NoError(t, os.WriteFile(path, []byte(`{"FooTests": {"class"`), 0644))

	_, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.Error(t, err)

	regen := &fakeRegenerator{t: t, buildTop: buildTop}
	index, err := Load(zerolog.Nop(), buildTop, "", regen)
	require.NoError(t, err)
	assert.True(t, regen.called)
	assert.True(t, index.IsModule("FooTests"))
}

type fakeRegenerator struct {
	t        *testing.T
	buildTop string
	called   bool
}

func (f *fakeRegenerator) RegenerateModuleInfo() error {
	f.called = true
	writeManifest(f.t, f.buildTop, testManifest())
	return nil
}

func TestIsTestableModule(t *testing.T) {
	buildTop := t.TempDir()
	writeManifest(t, buildTop, testManifest())
	index, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.NoError(t, err)

	tests := []struct {
		module string
		want   bool
	}{
		{"FooTests", true},  // installed with explicit config
		{"GenTests", true},  // installed with auto-generated config
		{"RoboTest", true},  // robolectric pair
		{"FooLib", false},   // nothing installed
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			entry, ok := index.ModuleInfo(tt.module)
			require.True(t, ok)
			assert.Equal(t, tt.want, index.IsTestableModule(entry))
		})
	}
}

func TestTestConfig(t *testing.T) {
	buildTop := t.TempDir()
	writeManifest(t, buildTop, testManifest())
	index, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "platform/tests/foo/AndroidTest.xml", index.TestConfig("FooTests"))
	// Auto-generated configs have no path worth returning.
	assert.True(t, index.IsAutoGenTestConfig("GenTests"))
	assert.Empty(t, index.TestConfig("GenTests"))
	assert.Empty(t, index.TestConfig("FooLib"))
}

func TestRobolectric(t *testing.T) {
	buildTop := t.TempDir()
	writeManifest(t, buildTop, testManifest())
	index, err := Load(zerolog.Nop(), buildTop, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "RunRoboTest", index.RobolectricTestName("RoboTest"))
	assert.Equal(t, "RunRoboTest", index.RobolectricTestName("RunRoboTest"))
	assert.True(t, index.IsRobolectricTest("RoboTest"))
	assert.False(t, index.IsRobolectricTest("FooTests"))
	assert.Empty(t, index.RobolectricTestName("FooTests"))
}
