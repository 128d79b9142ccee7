package config_test

import (
	"testing"

	"laureld/internal/config"
	"laureld/internal/schema"
)

func TestLoadCoreBundleRegistersCommonTypes(t *testing.T) {
	reg := schema.NewRegistry()
	if err := config.LoadCoreBundle(reg); err != nil {
		t.Fatalf("LoadCoreBundle: %v", err)
	}
	reg.Resolve()

	if _, ok := reg.AttributeType("cn"); !ok {
		t.Fatal("expected cn to be registered")
	}
	if _, ok := reg.ObjectClass("inetOrgPerson"); !ok {
		t.Fatal("expected inetOrgPerson to be registered")
	}
	oc, _ := reg.ObjectClass("inetOrgPerson")
	if !oc.RequiredSet()["cn"] {
		t.Fatal("expected inetOrgPerson to require cn via its person superclass")
	}
}

func TestLoadSchemaBytesCustomAttribute(t *testing.T) {
	reg := schema.NewRegistry()
	if err := config.LoadCoreBundle(reg); err != nil {
		t.Fatalf("LoadCoreBundle: %v", err)
	}
	data := []byte(`
attribute_types:
  employeeNumber:
    oid: 1.2.3.4.5
    equality: caseExactMatch
    syntax: directoryString
    single_value: true
object_classes:
  employee:
    oid: 1.2.3.4.6
    type: structural
    superior: top
    required_attributes: [employeeNumber]
`)
	if err := config.LoadSchemaBytes(reg, data); err != nil {
		t.Fatalf("LoadSchemaBytes: %v", err)
	}
	reg.Resolve()

	at, ok := reg.AttributeType("employeeNumber")
	if !ok || !at.SingleValue {
		t.Fatalf("got %+v, ok=%v", at, ok)
	}
	oc, ok := reg.ObjectClass("employee")
	if !ok || !oc.RequiredSet()["employeenumber"] {
		t.Fatalf("got %+v, ok=%v", oc, ok)
	}
}
