package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(zerolog.Nop(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, []string{"build/soong/soong_ui.bash", "--make-mode"}, cfg.BuildCmd)
	assert.Equal(t, "out/module-info.json", cfg.ModuleInfoPath)
	assert.Equal(t, "presubmit", cfg.Group)
	assert.True(t, cfg.Interactive)
}

func TestLoadOverlaysFile(t *testing.T) {
	buildTop := t.TempDir()
	content := `build_cmd: ["make"]
group: postsubmit
extra_args: ["--log-level", "INFO"]
`
	require.NoError(t, os.WriteFile(filepath.Join(buildTop, FileName), []byte(content), 0644))

	cfg, err := Load(zerolog.Nop(), buildTop)
	require.NoError(t, err)
	assert.Equal(t, []string{"make"}, cfg.BuildCmd)
	assert.Equal(t, "postsubmit", cfg.Group)
	assert.Equal(t, []string{"--log-level", "INFO"}, cfg.ExtraArgs)
	// Settings the file leaves out keep their defaults.
	assert.Equal(t, "out/module-info.json", cfg.ModuleInfoPath)
	assert.Equal(t, Defaults().IntegrationDirs, cfg.IntegrationDirs)
}

func TestLoadMalformedFile(t *testing.T) {
	buildTop := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(buildTop, FileName), []byte("build_cmd: {nope"), 0644))

	_, err := Load(zerolog.Nop(), buildTop)
	require.Error(t, err)
}
