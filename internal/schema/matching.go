package schema

// registerBuiltinMatchingRules populates the registry's matching-rule
// catalog with the rules the bootstrap attribute types need plus the
// common equality/ordering/substring rules used by schema loaded from
// config (§4.A, §4.D).
func (r *Registry) registerBuiltinMatchingRules() {
	add := func(oid string, m *MatchingRule) {
		m.OID = oid
		r.matchingByName[foldCase(m.Name)] = m
		r.matchingByOID[oid] = m
	}

	add("2.5.13.0", &MatchingRule{
		Name:         "objectIdentifierMatch",
		Kind:         KindEquality,
		Prepare:      []PrepStep{PrepCollapseSpace},
		compareEqual: func(a, b string) bool { return a == b },
	})
	add("2.5.13.2", &MatchingRule{
		Name:         "caseIgnoreMatch",
		Kind:         KindEquality,
		Prepare:      []PrepStep{PrepMap, PrepCollapseSpace},
		compareEqual: func(a, b string) bool { return a == b },
	})
	add("2.5.13.3", &MatchingRule{
		Name:      "caseIgnoreOrderingMatch",
		Kind:      KindOrdering,
		Prepare:   []PrepStep{PrepMap, PrepCollapseSpace},
		compareLE: func(a, b string) bool { return a <= b },
	})
	add("2.5.13.4", &MatchingRule{
		Name:    "caseIgnoreSubstringsMatch",
		Kind:    KindSubstring,
		Prepare: []PrepStep{PrepMap, PrepCollapseSpace},
	})
	add("2.5.13.5", &MatchingRule{
		Name:         "caseExactMatch",
		Kind:         KindEquality,
		Prepare:      []PrepStep{PrepCollapseSpace},
		compareEqual: func(a, b string) bool { return a == b },
	})
	add("2.5.13.6", &MatchingRule{
		Name:      "caseExactOrderingMatch",
		Kind:      KindOrdering,
		Prepare:   []PrepStep{PrepCollapseSpace},
		compareLE: func(a, b string) bool { return a <= b },
	})
	add("2.5.13.7", &MatchingRule{
		Name:    "caseExactSubstringsMatch",
		Kind:    KindSubstring,
		Prepare: []PrepStep{PrepCollapseSpace},
	})
	add("2.5.13.1", &MatchingRule{
		Name:         "distinguishedNameMatch",
		Kind:         KindEquality,
		Prepare:      []PrepStep{PrepParseDN},
		compareEqual: func(a, b string) bool { return a == b },
	})
	add("2.5.13.14", &MatchingRule{
		Name:         "integerMatch",
		Kind:         KindEquality,
		compareEqual: func(a, b string) bool { return a == b },
	})
	add("2.5.13.15", &MatchingRule{
		Name:      "integerOrderingMatch",
		Kind:      KindOrdering,
		compareLE: integerLessOrEqual,
	})
	// bytewiseMatch is the default equality rule fabricated for
	// undefined attribute types (§4.A "Undefined-attribute policy").
	add("1.3.6.1.4.1.1466.109.114.1", &MatchingRule{
		Name:         "bytewiseMatch",
		Kind:         KindEquality,
		compareEqual: func(a, b string) bool { return a == b },
	})
}

// NewMatchingRule constructs a matching rule from config-supplied name/OID/
// kind/preparation steps (§4.D, §6 "Schema configuration"). Comparison is
// always literal equality/lexicographic order over the prepared value,
// since the Prepare pipeline's case-folding and space-collapsing steps
// already do the semantic work caseIgnore-style rules need; this mirrors
// the generic comparators used by the built-in rules above.
func NewMatchingRule(name, oid string, kind Kind, prepare []PrepStep) *MatchingRule {
	m := &MatchingRule{Name: name, OID: oid, Kind: kind, Prepare: prepare}
	switch kind {
	case KindEquality:
		m.compareEqual = func(a, b string) bool { return a == b }
	case KindOrdering:
		m.compareLE = func(a, b string) bool { return a <= b }
	}
	return m
}

func integerLessOrEqual(a, b string) bool {
	ai, aok := parseSignedInt(a)
	bi, bok := parseSignedInt(b)
	if !aok || !bok {
		return a <= b
	}
	return ai <= bi
}

func parseSignedInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
