package laureld

import (
	"bytes"

	"laureld/internal/schema"
)

// Defined filter types
const (
	FilterTypeAnd             uint8 = 0
	FilterTypeOr              uint8 = 1
	FilterTypeNot             uint8 = 2
	FilterTypeEqual           uint8 = 3
	FilterTypeSubstrings      uint8 = 4
	FilterTypeGreaterOrEqual  uint8 = 5
	FilterTypeLessOrEqual     uint8 = 6
	FilterTypePresent         uint8 = 7
	FilterTypeApproxMatch     uint8 = 8
	FilterTypeExtensibleMatch uint8 = 9
)

//	Filter ::= CHOICE {
//		and             [0] SET SIZE (1..MAX) OF filter Filter,
//		or              [1] SET SIZE (1..MAX) OF filter Filter,
//		not             [2] Filter,
//		equalityMatch   [3] AttributeValueAssertion,
//		substrings      [4] SubstringFilter,
//		greaterOrEqual  [5] AttributeValueAssertion,
//		lessOrEqual     [6] AttributeValueAssertion,
//		present         [7] AttributeDescription,
//		approxMatch     [8] AttributeValueAssertion,
//		extensibleMatch [9] MatchingRuleAssertion,
//		...  }
type Filter struct {
	Type uint8
	Data any
}

// SubstringFilter ::= SEQUENCE {
// 		type           AttributeDescription,
// 		substrings     SEQUENCE SIZE (1..MAX) OF substring CHOICE {
// 		 	initial [0] AssertionValue,  -- can occur at most once
// 		 	any     [1] AssertionValue,
// 		 	final   [2] AssertionValue } -- can occur at most once
// 		}
type SubstringFilter struct {
	Type    string
	Initial string
	Any     []string
	Final   string
}

// MatchingRuleAssertion ::= SEQUENCE {
// 		matchingRule    [1] MatchingRuleId OPTIONAL,
// 		type            [2] AttributeDescription OPTIONAL,
// 		matchValue      [3] AssertionValue,
// 		dnAttributes    [4] BOOLEAN DEFAULT FALSE }
type MatchingRuleAssertion struct {
	MatchingRule string
	Type         string
	MatchValue   string
	DNAttributes bool
}

// Return a Filter from a raw BER element
func GetFilter(raw BerRawElement) (*Filter, error) {
	if raw.Type.Class() != BerClassContextSpecific {
		return nil, ErrWrongElementType.WithInfo("Filter type", raw.Type)
	}
	f := &Filter{
		Type: raw.Type.TagNumber(),
	}
	switch f.Type {
	case FilterTypeAnd, FilterTypeOr:
		var filters []Filter
		seq, err := BerGetSequence(raw.Data)
		if err != nil {
			return nil, err
		}
		for _, rf := range seq {
			filter, err := GetFilter(rf)
			if err != nil {
				return nil, err
			}
			filters = append(filters, *filter)
		}
		f.Data = filters
	case FilterTypeNot:
		elmt, err := BerReadElement(bytes.NewReader(raw.Data))
		if err != nil {
			return nil, err
		}
		filter, err := GetFilter(elmt)
		if err != nil {
			return nil, err
		}
		f.Data = filter
	case FilterTypeEqual, FilterTypeGreaterOrEqual, FilterTypeLessOrEqual, FilterTypeApproxMatch:
		ass, err := GetAttributeValueAssertion(raw.Data)
		if err != nil {
			return nil, err
		}
		f.Data = ass
	case FilterTypeSubstrings:
		seq, err := BerGetSequence(raw.Data)
		if err != nil {
			return nil, err
		}
		if len(seq) != 2 {
			return nil, ErrWrongSequenceLength.WithInfo("SubstringFilter sequence length", len(seq))
		}
		if seq[0].Type != BerTypeOctetString {
			return nil, ErrWrongElementType.WithInfo("SubstringFilter type type", seq[0].Type)
		}
		sf := &SubstringFilter{Type: BerGetOctetString(seq[0].Data)}
		if seq[1].Type != BerTypeSequence {
			return nil, ErrWrongElementType.WithInfo("SubstringFilter substrings type", seq[1].Type)
		}
		seq, err = BerGetSequence(seq[1].Data)
		if err != nil {
			return nil, err
		}
		for _, rs := range seq {
			if rs.Type.Class() != BerClassContextSpecific {
				return nil, ErrWrongElementType.WithInfo("SubstringFilter substring type", rs.Type)
			}
			switch rs.Type.TagNumber() {
			case 0:
				if sf.Initial != "" {
					return nil, ErrWrongElementType.WithInfo("Multiple initial substrings", string(rs.Data))
				}
				sf.Initial = BerGetOctetString(rs.Data)
			case 1:
				sf.Any = append(sf.Any, BerGetOctetString(rs.Data))
			case 2:
				if sf.Final != "" {
					return nil, ErrWrongElementType.WithInfo("Multiple final substrings", string(rs.Data))
				}
				sf.Final = BerGetOctetString(rs.Data)
			default:
				return nil, ErrWrongElementType.WithInfo("SubstringFilter substring type", rs.Type)
			}
		}
		f.Data = sf
	case FilterTypePresent:
		f.Data = BerGetOctetString(raw.Data)
	case FilterTypeExtensibleMatch:
		seq, err := BerGetSequence(raw.Data)
		if err != nil {
			return nil, err
		}
		m := MatchingRuleAssertion{}
		i := 0
		if len(seq) > i && seq[i].Type == BerContextSpecificType(1, false) {
			m.MatchingRule = BerGetOctetString(seq[i].Data)
			i++
		}
		if len(seq) > i && seq[i].Type == BerContextSpecificType(2, false) {
			m.Type = BerGetOctetString(seq[i].Data)
			i++
		}
		if len(seq) <= i || len(seq) > i+2 {
			return nil, ErrWrongSequenceLength.WithInfo("MatchingRuleAssertion sequence length", len(seq))
		}
		if seq[i].Type != BerContextSpecificType(3, false) {
			return nil, ErrWrongElementType.WithInfo("MatchingRuleAssertion matchValue type", seq[i].Type)
		}
		m.MatchValue = BerGetOctetString(seq[i].Data)
		i++
		if i < len(seq) {
			if seq[i].Type != BerContextSpecificType(4, false) {
				return nil, ErrWrongElementType.WithInfo("MatchingRuleAssertion dnAttributes type", seq[i].Type)
			}
			dna, err := BerGetBoolean(seq[i].Data)
			if err != nil {
				return nil, err
			}
			m.DNAttributes = dna
		}
		f.Data = &m
	default:
		f.Data = &raw
	}
	return f, nil
}

// DefaultApproxMatchThreshold is the minimum similarity score (0-100)
// required for approxMatch when no server-configured override applies.
const DefaultApproxMatchThreshold = 75

// Matches reports whether entry satisfies f (Component D, §4.D). A nil
// Filter matches every entry. Unknown filter variants and rule lookup
// failures return a non-nil *Result carrying LDAPResultOther, for the
// caller to send directly as the operation's outcome.
func (f *Filter) Matches(entry *schema.AttrsDict, reg *schema.Registry, threshold int) (bool, *Result) {
	if f == nil {
		return true, nil
	}
	if threshold <= 0 {
		threshold = DefaultApproxMatchThreshold
	}
	switch f.Type {
	case FilterTypeAnd:
		filters, _ := f.Data.([]Filter)
		for i := range filters {
			ok, res := filters[i].Matches(entry, reg, threshold)
			if res != nil {
				return false, res
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case FilterTypeOr:
		filters, _ := f.Data.([]Filter)
		for i := range filters {
			ok, res := filters[i].Matches(entry, reg, threshold)
			if res != nil {
				return false, res
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case FilterTypeNot:
		child, ok := f.Data.(*Filter)
		if !ok {
			return false, errFilterOther
		}
		ok2, res := child.Matches(entry, reg, threshold)
		if res != nil {
			return false, res
		}
		return !ok2, nil
	case FilterTypeEqual:
		ava, ok := f.Data.(*AttributeValueAssertion)
		if !ok {
			return false, errFilterOther
		}
		list, present := entry.Get(ava.Description)
		if !present {
			return false, nil
		}
		return list.Contains(ava.Value), nil
	case FilterTypeGreaterOrEqual:
		ava, ok := f.Data.(*AttributeValueAssertion)
		if !ok {
			return false, errFilterOther
		}
		list, present := entry.Get(ava.Description)
		if !present {
			return false, nil
		}
		return list.GreaterOrEqual(ava.Value), nil
	case FilterTypeLessOrEqual:
		ava, ok := f.Data.(*AttributeValueAssertion)
		if !ok {
			return false, errFilterOther
		}
		list, present := entry.Get(ava.Description)
		if !present {
			return false, nil
		}
		return list.LessOrEqual(ava.Value), nil
	case FilterTypeApproxMatch:
		ava, ok := f.Data.(*AttributeValueAssertion)
		if !ok {
			return false, errFilterOther
		}
		list, present := entry.Get(ava.Description)
		if !present {
			return false, nil
		}
		return list.ApproxMatch(ava.Value, threshold), nil
	case FilterTypeSubstrings:
		sf, ok := f.Data.(*SubstringFilter)
		if !ok {
			return false, errFilterOther
		}
		list, present := entry.Get(sf.Type)
		if !present {
			return false, nil
		}
		return list.MatchesSubstring(sf.Initial, sf.Any, sf.Final), nil
	case FilterTypePresent:
		name, ok := f.Data.(string)
		if !ok {
			return false, errFilterOther
		}
		if equalFoldObjectClass(name) {
			return true, nil
		}
		return entry.Has(name), nil
	case FilterTypeExtensibleMatch:
		// Not implemented (§4.D); callers map errFilterOther to "other".
		return false, errFilterOther
	default:
		return false, errFilterOther
	}
}

func equalFoldObjectClass(name string) bool {
	if len(name) != len("objectClass") {
		return false
	}
	const want = "objectclass"
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

var errFilterOther = LDAPResultOther.AsResult("unsupported or malformed filter")
