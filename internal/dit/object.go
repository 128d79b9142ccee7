// Package dit implements Components E, F, and L: the in-memory backend
// (LDAPObject tree with search/compare/add/modify/delete/modDN), the DIT
// router (suffix-based backend selection), and the internal client facade.
//
// Grounded directly on spec.md §4.E/§4.F/§4.L — no repo in the example pack
// implements a general in-memory DIT tree (oid-directory-go-radir models
// registration records, not a free-form directory) — written in the
// teacher's style of small, explicit structs with no hidden allocation.
package dit

import (
	"strings"

	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

// Object is one entry in the tree: an RDN, its cached full DN, its
// attributes, and a child map keyed by the lowercased RDN string (§3 Data
// Model). The key is not schema-aware and depends on AVA order, so a
// multi-valued RDN written with its AVAs in another order, or with values
// that differ only under the attribute's equality rule (e.g. in spacing),
// gets a different key.
type Object struct {
	RDN      dn.RDN
	DN       dn.DN
	Attrs    *schema.AttrsDict
	Children map[string]*Object
}

func childKey(r dn.RDN) string { return strings.ToLower(r.String()) }

// NewObject builds a leaf object for rdn under parentDN, folding the RDN's
// (attr, value) pairs into attrs if not already present (§3 Invariant 1).
func NewObject(rdn dn.RDN, parentDN dn.DN, attrs *schema.AttrsDict, reg *schema.Registry) *Object {
	full := append(dn.DN{rdn}, parentDN...)
	for _, ava := range rdn {
		at, _ := reg.AttributeType(ava.Type)
		attrs.Add(ava.Type, at, []string{ava.Value})
	}
	return &Object{RDN: rdn, DN: full, Attrs: attrs, Children: map[string]*Object{}}
}

// Child looks up an immediate child by its lowercased RDN string.
func (o *Object) Child(rdn dn.RDN) (*Object, bool) {
	c, ok := o.Children[childKey(rdn)]
	return c, ok
}

func (o *Object) setChild(c *Object) { o.Children[childKey(c.RDN)] = c }

func (o *Object) removeChild(rdn dn.RDN) { delete(o.Children, childKey(rdn)) }

// ObjectClasses returns the object's objectClass attribute values, or nil.
func (o *Object) ObjectClasses() []string {
	list, ok := o.Attrs.Get("objectClass")
	if !ok {
		return nil
	}
	return list.Values
}

// IsAlias reports whether the object is an alias entry per §4.E step 2.
func (o *Object) IsAlias() bool {
	for _, oc := range o.ObjectClasses() {
		if strings.EqualFold(oc, "alias") {
			_, ok := o.Attrs.Get("aliasedObjectName")
			return ok
		}
	}
	return false
}

// AliasTarget returns the aliasedObjectName value, if any.
func (o *Object) AliasTarget() (string, bool) {
	list, ok := o.Attrs.Get("aliasedObjectName")
	if !ok || len(list.Values) == 0 {
		return "", false
	}
	return list.Values[0], true
}

// navigate walks from root to the object whose DN's RDNs (read
// right-to-left, matching the backend's own suffix prefix) equal relPath,
// where relPath is ordered from the backend root's immediate child down to
// the target (i.e. the reverse of DN order). Returns the deepest matched
// object and how many of relPath's components were consumed.
func navigate(root *Object, relPath []dn.RDN) (matched *Object, depth int) {
	cur := root
	for i, r := range relPath {
		next, ok := cur.Child(r)
		if !ok {
			return cur, i
		}
		cur = next
	}
	return cur, len(relPath)
}

// relativePath returns target's RDNs ordered from the backend root's
// immediate child down to target, given target.HasSuffix(suffix).
func relativePath(target dn.DN, suffix dn.DN) []dn.RDN {
	rel := target.TrimSuffix(suffix)
	out := make([]dn.RDN, len(rel))
	for i, r := range rel {
		out[len(rel)-1-i] = r
	}
	return out
}

// ErrObjectNotFound is returned by internal navigation helpers; callers
// translate it to resultcode.NoSuchObject with the deepest matched DN.
var ErrObjectNotFound = resultcode.New(resultcode.NoSuchObject, "no such object")
