package config

import (
	_ "embed"

	"laureld/internal/schema"
)

//go:embed bundled/core.yaml
var coreBundleYAML []byte

// LoadCoreBundle loads the embedded baseline schema into reg. It is always
// loaded first, before any operator-supplied schema directory (§6 "Schema
// configuration", SPEC_FULL.md SUPPLEMENTED FEATURES #2).
func LoadCoreBundle(reg *schema.Registry) error {
	return LoadSchemaBytes(reg, coreBundleYAML)
}
