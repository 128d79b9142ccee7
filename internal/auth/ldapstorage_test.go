package auth_test

import (
	"testing"

	"laureld/internal/auth"
	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/password"
	"laureld/internal/schema"
)

func newTestClient(t *testing.T) (*dit.Client, *schema.Registry) {
	t.Helper()
	reg := schema.NewRegistry()
	reg.Resolve()

	suffix, err := dn.Parse("dc=example", reg)
	if err != nil {
		t.Fatalf("dn.Parse: %v", err)
	}
	root := schema.NewAttrsDict()
	at, _ := reg.AttributeType("objectClass")
	root.Set("objectClass", at, []string{"top"})
	backend, err := dit.NewBackend("memory", suffix, reg, root)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	router := dit.NewRouter(reg)
	router.Add(backend, true)

	userDN, err := dn.Parse("uid=alice,dc=example", reg)
	if err != nil {
		t.Fatalf("dn.Parse: %v", err)
	}
	stored, err := password.Hash(password.SchemeSSHA1, "hunter2")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := backend.Add(userDN, []string{"top", "extensibleObject"}, []string{"objectClass", "uid", "userPassword"},
		map[string][]string{
			"objectclass":  {"top", "extensibleObject"},
			"uid":          {"alice"},
			"userpassword": {stored},
		}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	return dit.NewClient(router), reg
}

func TestLDAPStorageLookupFound(t *testing.T) {
	client, _ := newTestClient(t)
	s := &auth.LDAPStorage{Client: client}
	res, err := s.Lookup("uid=alice,dc=example")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !res.Found || len(res.Values) != 1 {
		t.Fatalf("got %+v", res)
	}
}

func TestLDAPStorageLookupNoSuchObject(t *testing.T) {
	client, _ := newTestClient(t)
	s := &auth.LDAPStorage{Client: client}
	res, err := s.Lookup("uid=bob,dc=example")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Found {
		t.Fatal("expected not found")
	}
}

func TestSimpleBackendLDAPStorageEndToEnd(t *testing.T) {
	client, _ := newTestClient(t)
	b := &auth.SimpleBackend{Storage: &auth.LDAPStorage{Client: client}}
	name, _, err := b.Authenticate("uid=alice,dc=example", auth.Choice{Credentials: "hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "uid=alice,dc=example" {
		t.Fatalf("got name %q", name)
	}

	_, kind, err := b.Authenticate("uid=alice,dc=example", auth.Choice{Credentials: "wrong"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != auth.FailureBadCreds {
		t.Fatalf("got kind %v", kind)
	}
}
