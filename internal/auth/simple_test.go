package auth_test

import (
	"testing"

	"laureld/internal/auth"
	"laureld/internal/password"
)

type fakeStorage struct {
	result auth.LookupResult
	err    error
}

func (f *fakeStorage) Lookup(mappedName string) (auth.LookupResult, error) {
	return f.result, f.err
}

func TestSimpleBackendSuccess(t *testing.T) {
	stored, err := password.Hash(password.SchemeSSHA1, "hunter2")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b := &auth.SimpleBackend{
		Storage: &fakeStorage{result: auth.LookupResult{Found: true, Values: []string{stored}}},
	}
	name, _, err := b.Authenticate("alice", auth.Choice{Credentials: "hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "alice" {
		t.Fatalf("got name %q", name)
	}
}

func TestSimpleBackendUserUnknown(t *testing.T) {
	b := &auth.SimpleBackend{Storage: &fakeStorage{result: auth.LookupResult{Found: false}}}
	_, kind, err := b.Authenticate("alice", auth.Choice{Credentials: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != auth.FailureUserUnknown {
		t.Fatalf("got kind %v", kind)
	}
}

func TestSimpleBackendBadCreds(t *testing.T) {
	stored, _ := password.Hash(password.SchemeSHA1, "hunter2")
	b := &auth.SimpleBackend{
		Storage: &fakeStorage{result: auth.LookupResult{Found: true, Values: []string{stored}}},
	}
	_, kind, err := b.Authenticate("alice", auth.Choice{Credentials: "wrong"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != auth.FailureBadCreds {
		t.Fatalf("got kind %v", kind)
	}
}

func TestSimpleBackendMultipleValuesRejectedByDefault(t *testing.T) {
	s1, _ := password.Hash(password.SchemeSHA1, "hunter2")
	s2, _ := password.Hash(password.SchemeSHA1, "hunter3")
	b := &auth.SimpleBackend{
		Storage: &fakeStorage{result: auth.LookupResult{Found: true, Values: []string{s1, s2}}},
	}
	_, kind, err := b.Authenticate("alice", auth.Choice{Credentials: "hunter2"})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind != auth.FailureOther {
		t.Fatalf("got kind %v", kind)
	}
}

func TestSimpleBackendNameMapping(t *testing.T) {
	stored, _ := password.Hash(password.SchemeClear, "hunter2")
	mapper, err := auth.NewNameMapper([][2]string{{`^(\w+)$`, `uid=$1,dc=example`}})
	if err != nil {
		t.Fatalf("NewNameMapper: %v", err)
	}
	var seenName string
	b := &auth.SimpleBackend{
		Mapper: mapper,
		Storage: &recordingStorage{
			seen:   &seenName,
			result: auth.LookupResult{Found: true, Values: []string{stored}},
		},
	}
	name, _, err := b.Authenticate("alice", auth.Choice{Credentials: "hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "uid=alice,dc=example" {
		t.Fatalf("got name %q", name)
	}
	if seenName != "uid=alice,dc=example" {
		t.Fatalf("storage saw unmapped name %q", seenName)
	}
}

type recordingStorage struct {
	seen   *string
	result auth.LookupResult
}

func (r *recordingStorage) Lookup(mappedName string) (auth.LookupResult, error) {
	*r.seen = mappedName
	return r.result, nil
}
