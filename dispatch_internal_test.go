package laureld

import (
	"testing"

	"laureld/internal/dit"
	"laureld/internal/schema"
)

func TestAuthChoiceSimple(t *testing.T) {
	choice, errRes := (&BindRequest{AuthType: AuthenticationTypeSimple, Credentials: "hunter2"}).AuthChoice()
	if errRes != nil {
		t.Fatalf("unexpected error result: %+v", errRes)
	}
	if choice.SASL || choice.Credentials != "hunter2" {
		t.Fatalf("got %+v", choice)
	}
}

func TestAuthChoiceSASL(t *testing.T) {
	choice, errRes := (&BindRequest{
		AuthType:    AuthenticationTypeSASL,
		Credentials: &SASLCredentials{Mechanism: "PLAIN", Credentials: "blob"},
	}).AuthChoice()
	if errRes != nil {
		t.Fatalf("unexpected error result: %+v", errRes)
	}
	if !choice.SASL || choice.Mechanism != "PLAIN" || choice.Credentials != "blob" {
		t.Fatalf("got %+v", choice)
	}
}

func TestAuthChoiceMalformedSASL(t *testing.T) {
	_, errRes := (&BindRequest{AuthType: AuthenticationTypeSASL, Credentials: "not-sasl-creds"}).AuthChoice()
	if errRes == nil || errRes.ResultCode != ResultAuthMethodNotSupported {
		t.Fatalf("got %+v", errRes)
	}
}

func TestAuthChoiceUnknown(t *testing.T) {
	_, errRes := (&BindRequest{AuthType: AuthenticationType(99)}).AuthChoice()
	if errRes == nil || errRes.ResultCode != ResultAuthMethodNotSupported {
		t.Fatalf("got %+v", errRes)
	}
}

func TestSearchScopeToScope(t *testing.T) {
	cases := map[SearchScope]dit.Scope{
		SearchScopeBaseObject:         dit.ScopeBase,
		SearchScopeSingleLevel:        dit.ScopeOne,
		SearchScopeWholeSubtree:       dit.ScopeSub,
		SearchScopeSubordinateSubtree: dit.ScopeSub,
	}
	for in, want := range cases {
		if got := in.ToScope(); got != want {
			t.Errorf("SearchScope(%v).ToScope() = %v, want %v", in, got, want)
		}
	}
}

func TestAliasDerefTypeToDerefMode(t *testing.T) {
	cases := map[AliasDerefType]dit.DerefMode{
		AliasDerefNever:          dit.DerefNever,
		AliasDerefInSearching:    dit.DerefSearching,
		AliasDerefFindingBaseObj: dit.DerefFinding,
		AliasDerefAlways:         dit.DerefAlways,
	}
	for in, want := range cases {
		if got := in.ToDerefMode(); got != want {
			t.Errorf("AliasDerefType(%v).ToDerefMode() = %v, want %v", in, got, want)
		}
	}
}

func TestModifyOperationToDIT(t *testing.T) {
	cases := map[ModifyOperation]dit.ModifyOp{
		ModifyAdd:     dit.ModifyAdd,
		ModifyDelete:  dit.ModifyDelete,
		ModifyReplace: dit.ModifyReplace,
	}
	for in, want := range cases {
		if got := in.ToDIT(); got != want {
			t.Errorf("ModifyOperation(%v).ToDIT() = %v, want %v", in, got, want)
		}
	}
}

func TestIsRootDSEQuery(t *testing.T) {
	if !isRootDSEQuery(&SearchRequest{BaseObject: "", Scope: SearchScopeBaseObject}) {
		t.Fatal("expected root DSE query")
	}
	if isRootDSEQuery(&SearchRequest{BaseObject: "dc=example", Scope: SearchScopeBaseObject}) {
		t.Fatal("non-empty base must not be treated as root DSE")
	}
	if isRootDSEQuery(&SearchRequest{BaseObject: "", Scope: SearchScopeWholeSubtree}) {
		t.Fatal("non-base scope must not be treated as root DSE")
	}
}

func TestAsResultWraps(t *testing.T) {
	if res := asResult(nil); res.ResultCode != ResultSuccess {
		t.Fatalf("got %+v", res)
	}
	if res := asResult(errPlain{"boom"}); res.ResultCode != LDAPResultOther || res.DiagnosticMessage != "boom" {
		t.Fatalf("got %+v", res)
	}
}

type errPlain struct{ msg string }

func (e errPlain) Error() string { return e.msg }

func TestGlobalsParseDN(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Resolve()
	g := &Globals{Registry: reg}

	if _, errRes := g.parseDN("not a dn ="); errRes == nil || errRes.ResultCode != LDAPResultInvalidDNSyntax {
		t.Fatalf("expected invalidDNSyntax, got %+v", errRes)
	}
	d, errRes := g.parseDN("dc=example")
	if errRes != nil || d.String() != "dc=example" {
		t.Fatalf("d=%v errRes=%+v", d, errRes)
	}
}
