package testconfig

// This file extracts build-target hints from a module's test
// configuration XML. The schema belongs to the external harness; only
// option values and class attributes are of interest here.

import (
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Matches "filename.apk" in <option name="foo" value="filename.apk" />.
var apkRe = regexp.MustCompile(`(?i)^[^/]+\.apk$`)

const (
	compatibilityPackagePrefix = "com.android.compatibility"
	ctsJar                     = "cts-tradefed"
	perfSetupLabel             = "perf-setup.sh"
)

// ModuleChecker verifies that an extracted target is actually buildable.
type ModuleChecker interface {
	IsModule(name string) bool
}

// Targets scrapes build targets out of the given config file: apk files
// named in option values, the perf setup script, and the compatibility
// jar when any element is backed by a compatibility class.
func Targets(logger zerolog.Logger, path string, checker ModuleChecker) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test config: %w", err)
	}
	return parseTargets(logger, data, checker)
}

func parseTargets(logger zerolog.Logger, data []byte, checker ModuleChecker) ([]string, error) {
	targets := make(map[string]struct{})
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "value":
				value := strings.TrimSpace(attr.Value)
				if apkRe.MatchString(value) {
					target := strings.TrimSuffix(value, ".apk")
					if checker == nil || checker.IsModule(target) {
						targets[target] = struct{}{}
					} else {
						logger.Warn().Str("target", target).Msg("Build target not present in module index, skipping")
					}
				} else if strings.Contains(value, perfSetupLabel) {
					targets[perfSetupLabel] = struct{}{}
				}
			case "class":
				// Runtime dependencies on the compatibility harness are
				// not listed as build deps, so infer the jar here.
				if strings.HasPrefix(strings.TrimSpace(attr.Value), compatibilityPackagePrefix) {
					targets[ctsJar] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(targets))
	for t := range targets {
		out = append(out, t)
	}
	sort.Strings(out)
	logger.Debug().Strs("targets", out).Msg("Targets found in config file")
	return out, nil
}
