package laureld_test

import (
	"net"
	"testing"
	"time"

	"laureld"
	"laureld/internal/auth"
	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/password"
	"laureld/internal/schema"
)

func deadlineSoon() time.Time {
	return time.Now().Add(100 * time.Millisecond)
}

// newTestHandler wires a Globals backed by a single in-memory backend
// rooted at dc=example, with one user entry (uid=alice) whose password is
// "hunter2", and an auth stack that checks it, mirroring the pattern used
// by internal/auth's own backend tests.
func newTestHandler(t *testing.T) (*laureld.LDAPHandler, *dit.Backend) {
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
	client := dit.NewClient(router)

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

	stack := &auth.Stack{Entries: []*auth.StackEntry{
		{Name: "ldap", Backend: &auth.SimpleBackend{Storage: &auth.LDAPStorage{Client: client}}},
	}}

	globals := &laureld.Globals{
		Registry:   reg,
		Router:     router,
		Client:     client,
		Auth:       stack,
		VendorName: "laureld",
	}
	return laureld.NewLDAPHandler(globals), backend
}

// readResult reads one LDAPMessage from r and decodes its protocol op data
// as a plain Result, which covers every response op this package emits
// except SearchResultEntry (Add/Modify/ModifyDN/Delete/Compare responses,
// SearchResultDone, and BindResult without SASL credentials all encode
// identically to Result).
func readResult(t *testing.T, r net.Conn) (*laureld.Result, laureld.BerType) {
	t.Helper()
	msg, err := laureld.ReadLDAPMessage(r)
	if err != nil {
		t.Fatalf("ReadLDAPMessage: %v", err)
	}
	res, err := laureld.GetResult(msg.ProtocolOp.Data)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	return res, msg.ProtocolOp.Type
}

func TestHandlerBindSuccess(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Bind(conn, &laureld.Message{MessageID: 1}, &laureld.BindRequest{
		Name: "uid=alice,dc=example", AuthType: laureld.AuthenticationTypeSimple, Credentials: "hunter2",
	})

	res, op := readResult(t, client)
	if op != laureld.TypeBindResponseOp {
		t.Fatalf("got op %v", op)
	}
	if res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("got %+v", res)
	}
}

func TestHandlerBindBadCredentials(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Bind(conn, &laureld.Message{MessageID: 1}, &laureld.BindRequest{
		Name: "uid=alice,dc=example", AuthType: laureld.AuthenticationTypeSimple, Credentials: "wrong",
	})

	res, _ := readResult(t, client)
	if res.ResultCode != laureld.LDAPResultInvalidCredentials {
		t.Fatalf("got %+v", res)
	}
}

func TestHandlerAddAndDelete(t *testing.T) {
	h, _ := newTestHandler(t)

	addClient, addServer := net.Pipe()
	conn := &laureld.Conn{Conn: addServer}
	go h.Add(conn, &laureld.Message{MessageID: 2}, &laureld.AddRequest{
		Entry: "uid=bob,dc=example",
		Attributes: []laureld.Attribute{
			{Description: "objectClass", Values: []string{"top", "extensibleObject"}},
			{Description: "uid", Values: []string{"bob"}},
		},
	})
	res, op := readResult(t, addClient)
	addClient.Close()
	if op != laureld.TypeAddResponseOp || res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("add: op=%v res=%+v", op, res)
	}

	delClient, delServer := net.Pipe()
	conn = &laureld.Conn{Conn: delServer}
	go h.Delete(conn, &laureld.Message{MessageID: 3}, "uid=bob,dc=example")
	res, op = readResult(t, delClient)
	delClient.Close()
	if op != laureld.TypeDeleteResponseOp || res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("delete: op=%v res=%+v", op, res)
	}
}

func TestHandlerAddInvalidDN(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Add(conn, &laureld.Message{MessageID: 2}, &laureld.AddRequest{Entry: "="})
	res, _ := readResult(t, client)
	if res.ResultCode != laureld.LDAPResultInvalidDNSyntax {
		t.Fatalf("got %+v", res)
	}
}

func TestHandlerCompare(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Compare(conn, &laureld.Message{MessageID: 4}, &laureld.CompareRequest{
		Object: "uid=alice,dc=example", Attribute: "uid", Value: "alice",
	})
	res, op := readResult(t, client)
	if op != laureld.TypeCompareResponseOp || res.ResultCode != laureld.LDAPResultCompareTrue {
		t.Fatalf("got op=%v res=%+v", op, res)
	}
}

func TestHandlerModify(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Modify(conn, &laureld.Message{MessageID: 5}, &laureld.ModifyRequest{
		Object: "uid=alice,dc=example",
		Changes: []laureld.ModifyChange{
			{Operation: laureld.ModifyReplace, Modification: laureld.Attribute{Description: "uid", Values: []string{"alice"}}},
		},
	})
	res, op := readResult(t, client)
	if op != laureld.TypeModifyResponseOp || res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("got op=%v res=%+v", op, res)
	}
}

func TestHandlerModifyDN(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.ModifyDN(conn, &laureld.Message{MessageID: 6}, &laureld.ModifyDNRequest{
		Object: "uid=alice,dc=example", NewRDN: "uid=alicia", DeleteOldRDN: true,
	})
	res, op := readResult(t, client)
	if op != laureld.TypeModifyDNResponseOp || res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("got op=%v res=%+v", op, res)
	}
}

func TestHandlerSearchRootDSE(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Search(conn, &laureld.Message{MessageID: 7}, &laureld.SearchRequest{
		BaseObject: "", Scope: laureld.SearchScopeBaseObject,
	})

	entryMsg, err := laureld.ReadLDAPMessage(client)
	if err != nil {
		t.Fatalf("ReadLDAPMessage: %v", err)
	}
	if entryMsg.ProtocolOp.Type != laureld.TypeSearchResultEntryOp {
		t.Fatalf("got op %v", entryMsg.ProtocolOp.Type)
	}

	doneMsg, err := laureld.ReadLDAPMessage(client)
	if err != nil {
		t.Fatalf("ReadLDAPMessage: %v", err)
	}
	if doneMsg.ProtocolOp.Type != laureld.TypeSearchResultDoneOp {
		t.Fatalf("got op %v", doneMsg.ProtocolOp.Type)
	}
	res, err := laureld.GetResult(doneMsg.ProtocolOp.Data)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("got %+v", res)
	}
}

func TestHandlerSearchEntry(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Search(conn, &laureld.Message{MessageID: 8}, &laureld.SearchRequest{
		BaseObject: "uid=alice,dc=example", Scope: laureld.SearchScopeBaseObject,
	})

	entryMsg, err := laureld.ReadLDAPMessage(client)
	if err != nil {
		t.Fatalf("ReadLDAPMessage: %v", err)
	}
	if entryMsg.ProtocolOp.Type != laureld.TypeSearchResultEntryOp {
		t.Fatalf("got op %v", entryMsg.ProtocolOp.Type)
	}

	doneMsg, err := laureld.ReadLDAPMessage(client)
	if err != nil {
		t.Fatalf("ReadLDAPMessage: %v", err)
	}
	res, err := laureld.GetResult(doneMsg.ProtocolOp.Data)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if res.ResultCode != laureld.ResultSuccess {
		t.Fatalf("got %+v", res)
	}
}

func TestHandlerSearchNoSuchObject(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	go h.Search(conn, &laureld.Message{MessageID: 9}, &laureld.SearchRequest{
		BaseObject: "uid=ghost,dc=example", Scope: laureld.SearchScopeBaseObject,
	})
	res, op := readResult(t, client)
	if op != laureld.TypeSearchResultDoneOp || res.ResultCode != laureld.LDAPResultNoSuchObject {
		t.Fatalf("got op=%v res=%+v", op, res)
	}
}

func TestHandlerAbandonDoesNotReply(t *testing.T) {
	h, _ := newTestHandler(t)
	client, server := net.Pipe()
	defer client.Close()
	conn := &laureld.Conn{Conn: server}

	done := make(chan struct{})
	go func() {
		h.Abandon(conn, &laureld.Message{MessageID: 10}, laureld.MessageID(5))
		close(done)
	}()
	<-done
	client.SetReadDeadline(deadlineSoon())
	if _, err := laureld.ReadLDAPMessage(client); err == nil {
		t.Fatal("expected no reply for Abandon")
	}
}
