package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"laureld/internal/auth"
	"laureld/internal/config"
	"laureld/internal/dn"
)

func TestBuildWiresRouterAndAuthStack(t *testing.T) {
	dir := t.TempDir()
	flatPath := filepath.Join(dir, "passwd.flat")
	if err := os.WriteFile(flatPath, []byte("dWlkPWFsaWNlLGRjPWV4YW1wbGU=:{CLEARTEXT}hunter2\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	primary := writeYAML(t, dir, "primary.yaml", `
dit:
  dc=example:
    data_backend: memory
    default: true
auth_backends:
  localflat:
    type: simple
    storage: flat
    path: `+flatPath+`
auth_stack:
  - backend: localflat
    user_unknown: continue
    bad_creds: break
`)
	doc, err := config.Load(primary)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	built, err := config.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	suffix, _ := dn.Parse("dc=example", built.Registry)
	backend, err := built.Router.BackendFor(suffix)
	if err != nil {
		t.Fatalf("BackendFor: %v", err)
	}
	if backend.Name != "memory" {
		t.Fatalf("got backend name %q", backend.Name)
	}

	if len(built.Auth.Entries) != 1 {
		t.Fatalf("got %d auth entries", len(built.Auth.Entries))
	}

	name, err := built.Auth.Authenticate("uid=alice,dc=example", auth.Choice{Credentials: "hunter2"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if name != "uid=alice,dc=example" {
		t.Fatalf("got name %q", name)
	}
}
