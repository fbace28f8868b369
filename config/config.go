package config

// This file loads the optional .atgo.yaml at the repo root. Defaults
// are constructed first and the file overlays whatever it sets.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// FileName is the per-repo configuration file.
const FileName = ".atgo.yaml"

// Config holds the knobs the resolution and dispatch layers need from
// the environment.
type Config struct {
	// BuildCmd invokes the external build system; targets get appended.
	BuildCmd []string `yaml:"build_cmd"`
	// ModuleInfoPath locates the generated module manifest, relative
	// to the repo root.
	ModuleInfoPath string `yaml:"module_info_path"`
	// IntegrationDirs are the roots searched for integration configs,
	// relative to the repo root.
	IntegrationDirs []string `yaml:"integration_dirs"`
	// Group is the default TEST_MAPPING group to expand.
	Group string `yaml:"group"`
	// Interactive enables the disambiguation prompt when a reference
	// matches several tests.
	Interactive bool `yaml:"interactive"`
	// ExtraArgs are appended to every emitted harness invocation.
	ExtraArgs []string `yaml:"extra_args"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		BuildCmd:       []string{"build/soong/soong_ui.bash", "--make-mode"},
		ModuleInfoPath: "out/module-info.json",
		IntegrationDirs: []string{
			"tools/tradefederation/core/res/config",
			"tools/tradefederation/contrib/res/config",
			"test/vts/tools/vts-tradefed/res/config",
		},
		Group:       "presubmit",
		Interactive: true,
	}
}

// Load reads <buildTop>/.atgo.yaml over the defaults. A missing file is
// fine; a malformed one is an error rather than silently ignored
// configuration.
func Load(logger zerolog.Logger, buildTop string) (*Config, error) {
	cfg := Defaults()
	path := filepath.Join(buildTop, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("Loaded configuration file")
	return cfg, nil
}
