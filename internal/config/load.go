package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// substituteEnv replaces every "${VAR}" reference with the named
// environment variable's value (empty string if unset), before any YAML
// parsing happens.
func substituteEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

func loadMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = substituteEnv(data)
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the primary config file, then each overlay file in order,
// merging every overlay onto the accumulated document per Merge, and
// decodes the final result into a Document.
func Load(primary string, overlays ...string) (*Document, error) {
	merged, err := loadMap(primary)
	if err != nil {
		return nil, err
	}
	for _, overlay := range overlays {
		om, err := loadMap(overlay)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, om)
	}

	// Remarshal the merged generic map and decode it into the typed
	// Document: yaml.v3 round-trips map[string]any cleanly, and this
	// avoids hand-rolling a second reflective decoder for the overlay
	// result.
	remarshaled, err := yaml.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(remarshaled, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
