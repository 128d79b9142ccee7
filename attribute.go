package laureld

import (
	"bytes"
	"strings"

	"laureld/internal/schema"
)

// AttributeDescription ::= LDAPString
//                          -- Constrained to <attributedescription>
//                          -- [RFC4512]
// AttributeValue ::= OCTET STRING
// PartialAttribute ::= SEQUENCE {
// 		type       AttributeDescription,
//      vals       SET OF value AttributeValue }
// Attribute ::= PartialAttribute(WITH COMPONENTS {
//      ...,
//      vals (SIZE(1..MAX))})
type Attribute struct {
	Description string
	Values      []string
}

// AttributeDescription ::= LDAPString
//                          -- Constrained to <attributedescription>
//                          -- [RFC4512]
// AttributeValue ::= OCTET STRING
// AttributeValueAssertion ::= SEQUENCE {
// 		attributeDesc   AttributeDescription,
//      assertionValue  AssertionValue }
type AttributeValueAssertion struct {
	Description string
	Value       string
}

// Returns an Attribute from BER-encoded data
func GetAttribute(data []byte) (attr Attribute, err error) {
	seq, err := BerGetSequence(data)
	if err != nil {
		return
	}
	if len(seq) < 2 {
		err = ErrWrongSequenceLength.WithInfo("LDAPAttribute sequence length", len(seq))
		return
	}
	if seq[0].Type != BerTypeOctetString {
		err = ErrWrongElementType.WithInfo("LDAPAttribute description type", seq[0].Type)
		return
	}
	attr.Description = BerGetOctetString(seq[0].Data)
	if seq[1].Type != BerTypeSet {
		err = ErrWrongElementType.WithInfo("LDAPAttribute vals type", seq[1].Type)
		return
	}
	v_set, err := BerGetSet(seq[1].Data)
	if err != nil {
		return
	}
	for _, rv := range v_set {
		if rv.Type != BerTypeOctetString {
			err = ErrWrongElementType.WithInfo("AttributeValue type", rv.Type)
			return
		}
		attr.Values = append(attr.Values, BerGetOctetString(rv.Data))
	}
	return
}

// Return an AttributeValueAssertion from BER-encoded data
func GetAttributeValueAssertion(data []byte) (*AttributeValueAssertion, error) {
	seq, err := BerGetSequence(data)
	if err != nil {
		return nil, err
	}
	if len(seq) != 2 {
		return nil, ErrWrongSequenceLength.WithInfo("AttributeValueAssertion sequence length", len(seq))
	}
	if seq[0].Type != BerTypeOctetString {
		return nil, ErrWrongElementType.WithInfo("AttributeValueAssertion attributeDesc type", seq[0].Type)
	}
	if seq[1].Type != BerTypeOctetString {
		return nil, ErrWrongElementType.WithInfo("AttributeValueAssertion assertionValue type", seq[1].Type)
	}
	return &AttributeValueAssertion{Description: BerGetOctetString(seq[0].Data), Value: BerGetOctetString(seq[1].Data)}, nil
}

// Return the BER-encoded struct (without element header)
func (a *Attribute) Encode() []byte {
	b := bytes.NewBuffer(nil)
	b.Write(BerEncodeOctetString(a.Description))
	vb := bytes.NewBuffer(nil)
	for _, v := range a.Values {
		vb.Write(BerEncodeOctetString(v))
	}
	b.Write(BerEncodeSet(vb.Bytes()))
	return b.Bytes()
}

// AttributesForAdd splits an AddRequest's AttributeList into the
// (classNames, attrNames, values) shape internal/dit.Client.Add consumes:
// classNames is the objectClass attribute's values, found
// case-insensitively since AttributeDescription is case-insensitive on the
// wire (§4.H Add); values is keyed by lowercased attribute name, matching
// internal/dit's own lowercase lookup convention.
func AttributesForAdd(attrs []Attribute) (classNames, attrNames []string, values map[string][]string) {
	values = make(map[string][]string, len(attrs))
	for _, a := range attrs {
		attrNames = append(attrNames, a.Description)
		values[strings.ToLower(a.Description)] = a.Values
		if strings.EqualFold(a.Description, "objectClass") {
			classNames = a.Values
		}
	}
	return classNames, attrNames, values
}

// AttributesFromDict renders a schema.AttrsDict's projected attributes back
// to a wire AttributeList, in the dict's own attribute order (§4.I
// SearchResultEntry projection).
func AttributesFromDict(dict *schema.AttrsDict) []Attribute {
	names := dict.Names()
	attrs := make([]Attribute, 0, len(names))
	for _, n := range names {
		list, ok := dict.Get(n)
		if !ok {
			continue
		}
		attrs = append(attrs, Attribute{Description: n, Values: list.Values})
	}
	return attrs
}
