package auth

import "regexp"

// mapRule is one (pattern, replacement) pair of the name-mapping pipeline
// (§4.G "Name mapping"), grounded on original_source/laurelin's auth.py
// regex-pipeline behavior (SUPPLEMENTED FEATURES #3 in SPEC_FULL.md).
type mapRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NameMapper applies an ordered list of regex substitutions to a
// client-supplied bind name before storage lookup. Each rule's output
// feeds the next.
type NameMapper struct {
	rules []mapRule
}

// NewNameMapper compiles pattern/replacement pairs in order.
func NewNameMapper(pairs [][2]string) (*NameMapper, error) {
	m := &NameMapper{rules: make([]mapRule, 0, len(pairs))}
	for _, p := range pairs {
		re, err := regexp.Compile(p[0])
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, mapRule{pattern: re, replacement: p[1]})
	}
	return m, nil
}

// Map runs name through the pipeline, returning the final mapped name.
func (m *NameMapper) Map(name string) string {
	if m == nil {
		return name
	}
	for _, r := range m.rules {
		name = r.pattern.ReplaceAllString(name, r.replacement)
	}
	return name
}
