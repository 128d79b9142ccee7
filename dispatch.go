package laureld

import (
	"log"

	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

// LDAPHandler dispatches decoded requests against the shared Globals
// (schema registry, DIT router, auth stack), converting wire types to
// their internal/* counterparts at the boundary and internal result-coded
// errors back to wire Results (§4.H, §4.I). It embeds BaseHandler to
// inherit StartTLS/"Who am I?"/unknown-Extended handling; every operation
// BaseHandler otherwise stubs to UnsupportedOperation is overridden here.
type LDAPHandler struct {
	BaseHandler
	Globals *Globals
}

func NewLDAPHandler(g *Globals) *LDAPHandler {
	return &LDAPHandler{Globals: g}
}

// Abandon is explicitly not honored (§5 "Cancellation"): the in-flight
// operation, if any, runs to completion regardless.
func (h *LDAPHandler) Abandon(conn *Conn, msg *Message, messageID MessageID) {
	log.Println("Abandon request for message", messageID, "ignored")
}

func (h *LDAPHandler) Bind(conn *Conn, msg *Message, req *BindRequest) {
	choice, errRes := req.AuthChoice()
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeBindResponseOp, &BindResult{Result: *errRes})
		return
	}
	name, err := h.Globals.Auth.Authenticate(req.Name, choice)
	if err != nil {
		conn.SendResult(msg.MessageID, nil, TypeBindResponseOp, &BindResult{Result: *asResult(err)})
		return
	}
	conn.Authentication = name
	conn.SendResult(msg.MessageID, nil, TypeBindResponseOp, &BindResult{Result: *ResultSuccess.AsResult("")})
}

func (h *LDAPHandler) Add(conn *Conn, msg *Message, req *AddRequest) {
	target, errRes := h.Globals.parseDN(req.Entry)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeAddResponseOp, errRes)
		return
	}
	classNames, attrNames, values := req.ForAdd()
	err := h.Globals.Client.Add(target, classNames, attrNames, values)
	conn.SendResult(msg.MessageID, nil, TypeAddResponseOp, asResult(err))
}

func (h *LDAPHandler) Delete(conn *Conn, msg *Message, entry string) {
	target, errRes := h.Globals.parseDN(entry)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeDeleteResponseOp, errRes)
		return
	}
	err := h.Globals.Client.Delete(target)
	conn.SendResult(msg.MessageID, nil, TypeDeleteResponseOp, asResult(err))
}

func (h *LDAPHandler) Compare(conn *Conn, msg *Message, req *CompareRequest) {
	target, errRes := h.Globals.parseDN(req.Object)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeCompareResponseOp, errRes)
		return
	}
	conn.SendResult(msg.MessageID, nil, TypeCompareResponseOp, req.Check(h.Globals.Client, target))
}

func (h *LDAPHandler) Modify(conn *Conn, msg *Message, req *ModifyRequest) {
	target, errRes := h.Globals.parseDN(req.Object)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeModifyResponseOp, errRes)
		return
	}
	err := h.Globals.Client.Modify(target, req.ToDIT())
	conn.SendResult(msg.MessageID, nil, TypeModifyResponseOp, asResult(err))
}

func (h *LDAPHandler) ModifyDN(conn *Conn, msg *Message, req *ModifyDNRequest) {
	target, errRes := h.Globals.parseDN(req.Object)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeModifyDNResponseOp, errRes)
		return
	}
	newRDN, err := req.ParseNewRDN(h.Globals.Registry)
	if err != nil {
		conn.SendResult(msg.MessageID, nil, TypeModifyDNResponseOp, LDAPResultInvalidDNSyntax.AsResult(err.Error()))
		return
	}
	var newSuperior dn.DN
	if req.HasNewSuperior() {
		newSuperior, errRes = h.Globals.parseDN(req.NewSuperior)
		if errRes != nil {
			conn.SendResult(msg.MessageID, nil, TypeModifyDNResponseOp, errRes)
			return
		}
	}
	modErr := h.Globals.Client.ModDN(target, newRDN, req.DeleteOldRDN, newSuperior)
	conn.SendResult(msg.MessageID, nil, TypeModifyDNResponseOp, asResult(modErr))
}

func (h *LDAPHandler) Search(conn *Conn, msg *Message, req *SearchRequest) {
	if isRootDSEQuery(req) {
		conn.SendResult(msg.MessageID, nil, TypeSearchResultEntryOp, h.Globals.rootDSE())
		conn.SendResult(msg.MessageID, nil, TypeSearchResultDoneOp, ResultSuccess.AsResult(""))
		return
	}
	base, errRes := h.Globals.parseDN(req.BaseObject)
	if errRes != nil {
		conn.SendResult(msg.MessageID, nil, TypeSearchResultDoneOp, errRes)
		return
	}
	reg := h.Globals.Registry
	match := func(entry *schema.AttrsDict) (bool, error) {
		ok, res := req.Filter.Matches(entry, reg, DefaultApproxMatchThreshold)
		if res != nil {
			return false, resultcode.New(resultcode.Code(res.ResultCode), res.DiagnosticMessage)
		}
		return ok, nil
	}
	entries, err := h.Globals.Client.Search(req.ToParams(base, match))
	wire := make([]*SearchResultEntry, 0, len(entries))
	for _, e := range entries {
		wire = append(wire, entryToWire(e))
	}
	conn.SendSearchResults(msg.MessageID, wire, asResult(err))
}

func entryToWire(e dit.Entry) *SearchResultEntry {
	return &SearchResultEntry{ObjectName: e.DN.String(), Attributes: AttributesFromDict(e.Attrs)}
}
