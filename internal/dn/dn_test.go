package dn_test

import (
	"testing"

	"laureld/internal/dn"
	"laureld/internal/schema"
)

func TestParseRoundTrip(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()

	d, err := dn.Parse("uid=alice,dc=example,dc=com", reg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := d.String(), "uid=alice,dc=example,dc=com"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if len(d) != 3 {
		t.Fatalf("got %d RDNs", len(d))
	}
}

func TestParseMissingEquals(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()

	if _, err := dn.Parse("uidalice,dc=example", reg); err == nil {
		t.Fatal("expected error for missing '='")
	}
}

func TestParseUndefinedAttributeOID(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()

	// An OID with no registered attribute type fails to resolve; only
	// fabrication-by-name is permitted under the undefined-attribute policy.
	if _, err := dn.Parse("9.9.9.9=x,dc=example", reg); err == nil {
		t.Fatal("expected error for undefined attribute OID")
	}
}

func TestParseAttributeLacksMatchingRule(t *testing.T) {
	reg := schema.NewRegistry()
	reg.AddAttributeType(&schema.AttributeType{Name: "noEqRule", OID: "1.2.3.4.5"})
	reg.Resolve()

	if _, err := dn.Parse("noEqRule=x,dc=example", reg); err == nil {
		t.Fatal("expected error for attribute type lacking a matching rule")
	}
}

func TestParseRDN(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()

	r, err := dn.ParseRDN("uid=alice", reg)
	if err != nil {
		t.Fatalf("ParseRDN: %v", err)
	}
	if got, want := r.String(), "uid=alice"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	if _, err := dn.ParseRDN("uid=alice,dc=example", reg); err == nil {
		t.Fatal("expected error for multi-RDN input")
	}
}

func TestEqualSchemaUndefinedTypeIsCaseSensitive(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()

	a, err := dn.Parse("dc=Example", reg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := dn.Parse("dc=example", reg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// dc is undefined here, so it fabricates bytewiseMatch equality (literal
	// comparison), and the differing case must not match.
	if a.EqualSchema(b, reg) {
		t.Fatal("expected case-sensitive fallback to reject differing case")
	}
}
