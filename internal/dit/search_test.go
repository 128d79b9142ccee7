package dit_test

import (
	"testing"

	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/schema"
)

func newSearchBackend(t *testing.T, n int) *dit.Backend {
	t.Helper()
	reg := schema.NewRegistry()
	reg.Resolve()

	suffix, err := dn.Parse("dc=example", reg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := schema.NewAttrsDict()
	at, _ := reg.AttributeType("objectClass")
	root.Set("objectClass", at, []string{"top"})
	backend, err := dit.NewBackend("memory", suffix, reg, root)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	for i := 0; i < n; i++ {
		target, err := dn.Parse("uid=user"+string(rune('a'+i))+",dc=example", reg)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := backend.Add(target, []string{"top", "extensibleObject"}, []string{"objectClass", "uid"},
			map[string][]string{
				"objectclass": {"top", "extensibleObject"},
				"uid":         {"user" + string(rune('a'+i))},
			}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return backend
}

func allMatch(*schema.AttrsDict) (bool, error) { return true, nil }

// TestSearchSizeLimitTruncatesSilently exercises the scenario the review
// named: sizeLimit below the candidate count stops the scan early but
// completes as a plain success, not a sizeLimitExceeded error.
func TestSearchSizeLimitTruncatesSilently(t *testing.T) {
	backend := newSearchBackend(t, 20)

	entries, err := backend.Search(dit.SearchParams{
		Base:      backend.Suffix,
		Scope:     dit.ScopeSub,
		Match:     allMatch,
		SizeLimit: 17,
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if len(entries) != 17 {
		t.Fatalf("got %d entries, want 17", len(entries))
	}
}

func TestSearchNoSizeLimitReturnsAll(t *testing.T) {
	backend := newSearchBackend(t, 5)

	entries, err := backend.Search(dit.SearchParams{
		Base:  backend.Suffix,
		Scope: dit.ScopeSub,
		Match: allMatch,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// root entry plus the 5 children.
	if len(entries) != 6 {
		t.Fatalf("got %d entries, want 6", len(entries))
	}
}
