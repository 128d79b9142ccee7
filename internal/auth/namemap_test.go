package auth_test

import (
	"testing"

	"laureld/internal/auth"
)

func TestNameMapperAppliesRulesInOrder(t *testing.T) {
	m, err := auth.NewNameMapper([][2]string{
		{`^(\w+)$`, `uid=$1,ou=people,dc=example`},
		{`ou=people`, `ou=staff`},
	})
	if err != nil {
		t.Fatalf("NewNameMapper: %v", err)
	}
	got := m.Map("alice")
	want := "uid=alice,ou=staff,dc=example"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNameMapperNilPassesThrough(t *testing.T) {
	var m *auth.NameMapper
	if got := m.Map("alice"); got != "alice" {
		t.Fatalf("got %q", got)
	}
}

func TestNewNameMapperRejectsBadPattern(t *testing.T) {
	if _, err := auth.NewNameMapper([][2]string{{`(`, ""}}); err == nil {
		t.Fatal("expected compile error")
	}
}
