package testconfig

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Suite-tag option names recognized in harness configs. run-suite-tag
// appears in integration configs, test-suite-tag in module configs.
var suiteTagOptions = map[string]struct{}{
	"run-suite-tag":  {},
	"test-suite-tag": {},
}

// SuiteTags returns the suite tags declared by a config file.
func SuiteTags(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var tags []string
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "option" {
			continue
		}
		var name, value string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "name":
				name = strings.TrimSpace(attr.Value)
			case "value":
				value = strings.TrimSpace(attr.Value)
			}
		}
		if _, ok := suiteTagOptions[name]; ok && value != "" {
			tags = append(tags, value)
		}
	}
	return tags, nil
}
