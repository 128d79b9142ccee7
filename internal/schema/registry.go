package schema

import "laureld/internal/errs"

// Registry is the schema catalog: four case-insensitive name-indexed maps
// plus a parallel OID index (§4.A). It is constructed once at startup and
// is read-only after Resolve(); see spec §5 "Shared resources".
type Registry struct {
	syntaxesByName map[string]*SyntaxRule
	syntaxesByOID  map[string]*SyntaxRule

	matchingByName map[string]*MatchingRule
	matchingByOID  map[string]*MatchingRule

	attrsByName map[string]*AttributeType
	attrsByOID  map[string]*AttributeType

	classesByName map[string]*ObjectClass
	classesByOID  map[string]*ObjectClass
}

// NewRegistry constructs a registry preloaded with the fixed bootstrap
// elements of §4.A: the oid syntax, the objectClass attribute type, and
// the top/extensibleObject object classes.
func NewRegistry() *Registry {
	r := &Registry{
		syntaxesByName: map[string]*SyntaxRule{},
		syntaxesByOID:  map[string]*SyntaxRule{},
		matchingByName: map[string]*MatchingRule{},
		matchingByOID:  map[string]*MatchingRule{},
		attrsByName:    map[string]*AttributeType{},
		attrsByOID:     map[string]*AttributeType{},
		classesByName:  map[string]*ObjectClass{},
		classesByOID:   map[string]*ObjectClass{},
	}
	r.registerBuiltinSyntaxes()
	r.registerBuiltinMatchingRules()
	r.registerBootstrapElements()
	return r
}

func (r *Registry) registerBootstrapElements() {
	oidSyntax, _ := r.Syntax("oid")
	equalityOID, _ := r.MatchingRule("objectIdentifierMatch")

	objectClassAttr := &AttributeType{
		Name:     "objectClass",
		OID:      "2.5.4.0",
		Syntax:   oidSyntax,
		Equality: equalityOID,
	}
	r.AddAttributeType(objectClassAttr)

	top := &ObjectClass{
		Name:     "top",
		OID:      "2.5.6.0",
		Kind:     ObjectClassAbstract,
		Required: []string{"objectClass"},
	}
	r.AddObjectClass(top)

	extensible := &ObjectClass{
		Name:           "extensibleObject",
		OID:            "1.3.6.1.4.1.1466.101.120.111",
		Kind:           ObjectClassAuxiliary,
		SuperclassName: "top",
	}
	r.AddObjectClass(extensible)
}

// --- lookup ---

func (r *Registry) Syntax(nameOrOID string) (*SyntaxRule, bool) {
	if isDigitFirst(nameOrOID) {
		s, ok := r.syntaxesByOID[nameOrOID]
		return s, ok
	}
	s, ok := r.syntaxesByName[foldCase(nameOrOID)]
	return s, ok
}

func (r *Registry) MatchingRule(nameOrOID string) (*MatchingRule, bool) {
	if isDigitFirst(nameOrOID) {
		m, ok := r.matchingByOID[nameOrOID]
		return m, ok
	}
	m, ok := r.matchingByName[foldCase(nameOrOID)]
	return m, ok
}

// AttributeType looks up an attribute type by name or OID. If the name is
// not found and is not an OID, a default definition is fabricated per the
// "Undefined-attribute policy" of §4.A: syntax octetString, equality
// bytewiseMatch. Lookup of an undefined OID fails.
func (r *Registry) AttributeType(nameOrOID string) (*AttributeType, bool) {
	if isDigitFirst(nameOrOID) {
		a, ok := r.attrsByOID[nameOrOID]
		return a, ok
	}
	key := foldCase(nameOrOID)
	if a, ok := r.attrsByName[key]; ok {
		return a, true
	}
	octets, _ := r.Syntax("octetString")
	bytewise, _ := r.MatchingRule("bytewiseMatch")
	fabricated := &AttributeType{
		Name:     nameOrOID,
		Syntax:   octets,
		Equality: bytewise,
		resolved: true,
	}
	return fabricated, true
}

// AttributeTypeStrict behaves like AttributeType but reports an undefined
// OID as an UndefinedSchemaElement error instead of a bare false; an
// undefined name still gets the fabricated default definition. Used for
// RDN attribute-type resolution in dn.Parse.
func (r *Registry) AttributeTypeStrict(nameOrOID string) (*AttributeType, error) {
	if isDigitFirst(nameOrOID) {
		if a, ok := r.attrsByOID[nameOrOID]; ok {
			return a, nil
		}
		return nil, errs.New(errs.KindUndefinedElement, "undefined attribute OID: "+nameOrOID)
	}
	if a, ok := r.attrsByName[foldCase(nameOrOID)]; ok {
		return a, nil
	}
	// Undefined by name still fabricates (§4.A); only undefined OIDs fail.
	a, _ := r.AttributeType(nameOrOID)
	return a, nil
}

func (r *Registry) ObjectClass(nameOrOID string) (*ObjectClass, bool) {
	if isDigitFirst(nameOrOID) {
		o, ok := r.classesByOID[nameOrOID]
		return o, ok
	}
	o, ok := r.classesByName[foldCase(nameOrOID)]
	return o, ok
}

// --- insertion ---

func (r *Registry) AddSyntax(s *SyntaxRule) {
	r.syntaxesByName[foldCase(s.Name)] = s
	if s.OID != "" {
		r.syntaxesByOID[s.OID] = s
	}
}

func (r *Registry) AddMatchingRule(m *MatchingRule) {
	r.matchingByName[foldCase(m.Name)] = m
	if m.OID != "" {
		r.matchingByOID[m.OID] = m
	}
}

func (r *Registry) AddAttributeType(a *AttributeType) {
	r.attrsByName[foldCase(a.Name)] = a
	if a.OID != "" {
		r.attrsByOID[a.OID] = a
	}
}

func (r *Registry) AddObjectClass(o *ObjectClass) {
	r.classesByName[foldCase(o.Name)] = o
	if o.OID != "" {
		r.classesByOID[o.OID] = o
	}
}

// Resolve finalizes inheritance for every attribute type and object class
// currently registered. Idempotent; call after all schema is loaded.
func (r *Registry) Resolve() {
	for _, a := range r.attrsByName {
		a.Resolve(r)
	}
	for _, o := range r.classesByName {
		o.Resolve(r)
	}
}

// MergedClass combines one or more object classes attached to an entry
// into a virtual class whose required/allowed sets are the union (§4.A
// "Object-class merge").
type MergedClass struct {
	classes  []*ObjectClass
	required map[string]bool
	allowed  map[string]bool
}

func (r *Registry) Merge(names []string) *MergedClass {
	m := &MergedClass{required: map[string]bool{}, allowed: map[string]bool{}}
	for _, n := range names {
		oc, ok := r.ObjectClass(n)
		if !ok {
			continue
		}
		oc.Resolve(r)
		m.classes = append(m.classes, oc)
		for k := range oc.RequiredSet() {
			m.required[k] = true
		}
		for k := range oc.AllowedSet() {
			m.allowed[k] = true
		}
	}
	return m
}

func (m *MergedClass) hasExtensible() bool {
	for _, c := range m.classes {
		if foldCase(c.Name) == "extensibleobject" {
			return true
		}
	}
	return false
}

// ValidateEntry checks attrNames (compared case-insensitively, with values
// fetched through lookup) against the merged class's required/allowed
// sets of classNames, then validates each
// present attribute's values against its AttributeType (§4.A
// "ObjectClass.validate").
func (r *Registry) ValidateEntry(classNames []string, attrNames []string, lookup func(name string) ([]string, bool)) error {
	merged := r.Merge(classNames)
	present := map[string]bool{}
	for _, n := range attrNames {
		present[foldCase(n)] = true
	}
	for req := range merged.required {
		if !present[req] {
			return errs.New(errs.KindSchemaValidation, "missing required attribute: "+req)
		}
	}
	extensible := merged.hasExtensible()
	for _, n := range attrNames {
		key := foldCase(n)
		if merged.required[key] || merged.allowed[key] {
			// explicitly permitted
		} else if extensible {
			at, _ := r.AttributeType(n)
			if at.Usage != UsageUserApplications {
				return errs.New(errs.KindSchemaValidation, "attribute not permitted by extensibleObject usage: "+n)
			}
		} else {
			return errs.New(errs.KindSchemaValidation, "attribute not permitted by object class: "+n)
		}
		values, _ := lookup(n)
		at, _ := r.AttributeType(n)
		at.Resolve(r)
		if err := at.Validate(values); err != nil {
			return err
		}
	}
	return nil
}
