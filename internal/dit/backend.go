package dit

import (
	"strings"

	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

// Backend is one in-memory DIT rooted at Suffix (§4.E).
type Backend struct {
	Name   string
	Suffix dn.DN
	Root   *Object
	reg    *schema.Registry
}

// NewBackend creates an empty backend rooted at suffix. The root object's
// RDN is the suffix's own leading RDN, folded into attrs.
func NewBackend(name string, suffix dn.DN, reg *schema.Registry, attrs *schema.AttrsDict) (*Backend, error) {
	if len(suffix) == 0 {
		return nil, resultcode.New(resultcode.InvalidDNSyntax, "backend suffix must be non-empty")
	}
	root := NewObject(suffix[0], suffix[1:], attrs, reg)
	return &Backend{Name: name, Suffix: suffix, Root: root, reg: reg}, nil
}

// locate finds the object addressed by target (which must be inside this
// backend's suffix). If the full path resolves it returns that object,
// true and target; otherwise the deepest matched object, false and that
// object's DN.
func (b *Backend) locate(target dn.DN) (obj *Object, fullyMatched bool, deepestDN dn.DN) {
	rel := relativePath(target, b.Suffix)
	if len(rel) == 0 {
		return b.Root, true, target
	}
	matched, depth := navigate(b.Root, rel)
	if depth == len(rel) {
		return matched, true, target
	}
	return matched, false, matched.DN
}

// Compare implements §4.E "Compare": a three-valued outcome surfaced via
// (equal, err). err is non-nil (NoSuchAttribute) iff the attribute is
// absent on the target.
func (b *Backend) Compare(target dn.DN, attrType, value string) (equal bool, err error) {
	obj, ok, deepest := b.locate(target)
	if !ok {
		return false, resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "no such object")
	}
	list, present := obj.Attrs.Get(attrType)
	if !present {
		return false, resultcode.New(resultcode.NoSuchAttribute, "attribute not present: "+attrType)
	}
	return list.Contains(value), nil
}

// Add implements §4.E "Add".
func (b *Backend) Add(target dn.DN, classNames []string, attrNames []string, values map[string][]string) error {
	if len(target) <= len(b.Suffix) {
		return resultcode.New(resultcode.UnwillingToPerform, "cannot add at or above the backend suffix")
	}
	parentDN := target[1:]
	rdn := target[0]
	parent, ok, deepest := b.locate(parentDN)
	if !ok {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "parent entry does not exist")
	}
	if _, exists := parent.Child(rdn); exists {
		return resultcode.NewWithMatch(resultcode.EntryAlreadyExists, target.String(), "entry already exists")
	}
	attrs := schema.NewAttrsDict()
	for _, name := range attrNames {
		at, _ := b.reg.AttributeType(name)
		attrs.Set(name, at, values[strings.ToLower(name)])
	}
	if err := b.reg.ValidateEntry(classNames, append(attrNames, "objectClass"), func(n string) ([]string, bool) {
		l, ok := attrs.Get(n)
		if !ok {
			return nil, false
		}
		return l.Values, true
	}); err != nil {
		return resultcode.NewWithMatch(resultcode.ObjectClassViolation, target.String(), err.Error())
	}
	child := NewObject(rdn, parentDN, attrs, b.reg)
	parent.setChild(child)
	return nil
}

// Delete implements §4.E "Delete": refuses non-leaf deletion.
func (b *Backend) Delete(target dn.DN) error {
	if len(target) <= len(b.Suffix) {
		return resultcode.New(resultcode.UnwillingToPerform, "cannot delete the backend suffix")
	}
	parentDN := target[1:]
	rdn := target[0]
	parent, ok, deepest := b.locate(parentDN)
	if !ok {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "no such object")
	}
	child, exists := parent.Child(rdn)
	if !exists {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, target.String(), "no such object")
	}
	if len(child.Children) > 0 {
		return resultcode.NewWithMatch(resultcode.NotAllowedOnNonLeaf, target.String(), "entry has children")
	}
	parent.removeChild(rdn)
	return nil
}

// ModifyChange is one (op, attrType, values) tuple per §4.E "Modify".
type ModifyChange struct {
	Op     ModifyOp
	Type   string
	Values []string
}

type ModifyOp uint8

const (
	ModifyAdd ModifyOp = iota
	ModifyDelete
	ModifyReplace
)

// Modify implements §4.E "Modify".
func (b *Backend) Modify(target dn.DN, changes []ModifyChange) error {
	obj, ok, deepest := b.locate(target)
	if !ok {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "no such object")
	}
	for _, ch := range changes {
		at, _ := b.reg.AttributeType(ch.Type)
		switch ch.Op {
		case ModifyAdd:
			obj.Attrs.Add(ch.Type, at, ch.Values)
		case ModifyReplace:
			if len(ch.Values) == 0 {
				obj.Attrs.Delete(ch.Type, nil)
			} else {
				obj.Attrs.Set(ch.Type, at, ch.Values)
			}
		case ModifyDelete:
			if len(ch.Values) == 0 {
				if !obj.Attrs.Has(ch.Type) {
					return resultcode.NewWithMatch(resultcode.NoSuchAttribute, target.String(), "attribute not present: "+ch.Type)
				}
				obj.Attrs.Delete(ch.Type, nil)
			} else {
				if !obj.Attrs.Has(ch.Type) {
					return resultcode.NewWithMatch(resultcode.NoSuchAttribute, target.String(), "attribute not present: "+ch.Type)
				}
				obj.Attrs.Delete(ch.Type, ch.Values)
			}
		default:
			return resultcode.New(resultcode.ProtocolError, "invalid modify operation")
		}
	}
	if err := b.reg.ValidateEntry(obj.ObjectClasses(), obj.Attrs.Names(), func(n string) ([]string, bool) {
		l, ok := obj.Attrs.Get(n)
		if !ok {
			return nil, false
		}
		return l.Values, true
	}); err != nil {
		return resultcode.NewWithMatch(resultcode.ObjectClassViolation, target.String(), err.Error())
	}
	return nil
}

// ModDN implements §4.E "Mod-DN".
func (b *Backend) ModDN(target dn.DN, newRDN dn.RDN, deleteOldRDN bool, newSuperior dn.DN) error {
	parentDN := target[1:]
	oldRDN := target[0]
	oldParent, ok, deepest := b.locate(parentDN)
	if !ok {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "no such object")
	}
	obj, exists := oldParent.Child(oldRDN)
	if !exists {
		return resultcode.NewWithMatch(resultcode.NoSuchObject, target.String(), "no such object")
	}

	newParent := oldParent
	newParentDN := parentDN
	if len(newSuperior) > 0 {
		np, ok, deepest := b.locate(newSuperior)
		if !ok {
			return resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "new superior does not exist")
		}
		newParent = np
		newParentDN = newSuperior
	}

	if oldRDN.Equal(newRDN) && newParent == oldParent {
		return nil
	}
	if _, collide := newParent.Child(newRDN); collide {
		return resultcode.NewWithMatch(resultcode.EntryAlreadyExists, newRDN.String(), "entry already exists at target RDN")
	}

	oldParent.removeChild(oldRDN)
	if !oldRDN.Equal(newRDN) {
		if deleteOldRDN {
			for _, ava := range oldRDN {
				obj.Attrs.Delete(ava.Type, []string{ava.Value})
			}
		}
		for _, ava := range newRDN {
			at, _ := b.reg.AttributeType(ava.Type)
			obj.Attrs.Add(ava.Type, at, []string{ava.Value})
		}
		obj.RDN = newRDN
	}
	obj.DN = append(dn.DN{obj.RDN}, newParentDN...)
	renumberDescendants(obj)
	newParent.setChild(obj)
	return nil
}

// renumberDescendants recomputes the cached DN of every descendant after a
// subtree move (ModDN with newSuperior, or rename).
func renumberDescendants(parent *Object) {
	for _, child := range parent.Children {
		child.DN = append(dn.DN{child.RDN}, parent.DN...)
		renumberDescendants(child)
	}
}
