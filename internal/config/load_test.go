package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"laureld/internal/config"
)

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("LAURELD_TEST_VENDOR", "Acme Directory")
	dir := t.TempDir()
	primary := writeYAML(t, dir, "primary.yaml", "vendor_name: \"${LAURELD_TEST_VENDOR}\"\n")
	doc, err := config.Load(primary)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.VendorName != "Acme Directory" {
		t.Fatalf("got %q", doc.VendorName)
	}
}

func TestLoadMergesOverlaysInOrder(t *testing.T) {
	dir := t.TempDir()
	primary := writeYAML(t, dir, "primary.yaml", `
schema_dir: /etc/base
dit:
  dc=example:
    data_backend: memory
    default: true
`)
	overlay := writeYAML(t, dir, "overlay.yaml", `
schema_dir: /etc/overlay
`)
	doc, err := config.Load(primary, overlay)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.SchemaDir != "/etc/overlay" {
		t.Fatalf("got %q", doc.SchemaDir)
	}
	spec, ok := doc.DIT["dc=example"]
	if !ok || !spec.Default || spec.DataBackend != "memory" {
		t.Fatalf("got %+v, ok=%v", spec, ok)
	}
}
