package schema

import "strings"

// AttrValueList is an ordered list of values bound to one attribute type,
// carrying the attribute's matching rules for contains/ordering/substring/
// approximate comparisons (§3 Data Model).
type AttrValueList struct {
	Type   *AttributeType
	Values []string
}

// Contains reports whether value equals some element under the
// attribute's equality rule (falls back to literal equality if the
// attribute carries none).
func (l *AttrValueList) Contains(value string) bool {
	for _, v := range l.Values {
		if l.equal(v, value) {
			return true
		}
	}
	return false
}

func (l *AttrValueList) equal(a, b string) bool {
	if l.Type != nil && l.Type.Equality != nil {
		return l.Type.Equality.Equal(a, b)
	}
	return a == b
}

// GreaterOrEqual reports whether some value in the list is >= bound under
// the attribute's ordering rule.
func (l *AttrValueList) GreaterOrEqual(bound string) bool {
	rule := l.orderingRule()
	for _, v := range l.Values {
		if rule.LessOrEqual(bound, v) {
			return true
		}
	}
	return false
}

// LessOrEqual reports whether some value in the list is <= bound under
// the attribute's ordering rule.
func (l *AttrValueList) LessOrEqual(bound string) bool {
	rule := l.orderingRule()
	for _, v := range l.Values {
		if rule.LessOrEqual(v, bound) {
			return true
		}
	}
	return false
}

func (l *AttrValueList) orderingRule() *MatchingRule {
	if l.Type != nil {
		if l.Type.Ordering != nil {
			return l.Type.Ordering
		}
		if l.Type.Equality != nil {
			return l.Type.Equality
		}
	}
	return &MatchingRule{compareLE: func(a, b string) bool { return a <= b }}
}

// MatchesSubstring reports whether some value, prepared under the
// attribute's substring rule, matches the anchored pattern built from
// initial/any/final per §4.D.
func (l *AttrValueList) MatchesSubstring(initial string, any []string, final string) bool {
	rule := l.Type.Substring
	if rule == nil && l.Type != nil {
		rule = l.Type.Equality
	}
	prep := func(s string) string {
		if rule != nil {
			return rule.Prepared(s)
		}
		return s
	}
	pInitial, pFinal := prep(initial), prep(final)
	pAny := make([]string, len(any))
	for i, a := range any {
		pAny[i] = prep(a)
	}
	for _, v := range l.Values {
		pv := prep(v)
		if substringMatch(pv, pInitial, pAny, pFinal) {
			return true
		}
	}
	return false
}

func substringMatch(v, initial string, any []string, final string) bool {
	rest := v
	if initial != "" {
		if !strings.HasPrefix(rest, initial) {
			return false
		}
		rest = rest[len(initial):]
	}
	if final != "" {
		if !strings.HasSuffix(rest, final) {
			return false
		}
		rest = rest[:len(rest)-len(final)]
	}
	for _, a := range any {
		if a == "" {
			continue
		}
		idx := strings.Index(rest, a)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(a):]
	}
	return true
}

// ApproxMatch reports whether some value scores at least threshold
// against target under a normalized Levenshtein similarity, after equality
// preparation (§4.D, default threshold 75).
func (l *AttrValueList) ApproxMatch(target string, threshold int) bool {
	prep := func(s string) string {
		if l.Type != nil && l.Type.Equality != nil {
			return l.Type.Equality.Prepared(s)
		}
		return s
	}
	pt := prep(target)
	for _, v := range l.Values {
		if similarityScore(prep(v), pt) >= threshold {
			return true
		}
	}
	return false
}

// similarityScore returns an integer 0-100 similarity score based on
// normalized Levenshtein distance.
func similarityScore(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	dist := levenshtein(a, b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	score := 100 - (dist*100)/maxLen
	if score < 0 {
		score = 0
	}
	return score
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// AttrsDict is a case-insensitive mapping from attribute type name to a
// value list. Insertion order within a value list is preserved; duplicate
// values (by the attribute's equality rule) are rejected by Add.
type AttrsDict struct {
	order []string
	byKey map[string]*AttrValueList
	names map[string]string // lowercased key -> original-case name
}

func NewAttrsDict() *AttrsDict {
	return &AttrsDict{byKey: map[string]*AttrValueList{}, names: map[string]string{}}
}

func dictKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Get returns the value list for name, if present.
func (d *AttrsDict) Get(name string) (*AttrValueList, bool) {
	l, ok := d.byKey[dictKey(name)]
	return l, ok
}

// Has reports whether the attribute is present (per-object-class
// "present" semantics treat objectClass specially; callers handle that).
func (d *AttrsDict) Has(name string) bool {
	_, ok := d.byKey[dictKey(name)]
	return ok
}

// Names returns the attribute names in insertion order.
func (d *AttrsDict) Names() []string {
	out := make([]string, len(d.order))
	for i, k := range d.order {
		out[i] = d.names[k]
	}
	return out
}

// Set replaces (or creates) the value list for name.
func (d *AttrsDict) Set(name string, typ *AttributeType, values []string) {
	key := dictKey(name)
	if _, exists := d.byKey[key]; !exists {
		d.order = append(d.order, key)
	}
	d.names[key] = name
	d.byKey[key] = &AttrValueList{Type: typ, Values: append([]string{}, values...)}
}

// Add appends values to name's list, rejecting duplicates under the
// attribute's equality rule. Creates the list if absent.
func (d *AttrsDict) Add(name string, typ *AttributeType, values []string) {
	key := dictKey(name)
	l, ok := d.byKey[key]
	if !ok {
		l = &AttrValueList{Type: typ}
		d.byKey[key] = l
		d.names[key] = name
		d.order = append(d.order, key)
	}
	for _, v := range values {
		if l.Contains(v) {
			continue
		}
		l.Values = append(l.Values, v)
	}
}

// Delete removes name entirely, or removes the listed values if given.
// Returns true iff something existed to remove.
func (d *AttrsDict) Delete(name string, values []string) bool {
	key := dictKey(name)
	l, ok := d.byKey[key]
	if !ok {
		return false
	}
	if len(values) == 0 {
		delete(d.byKey, key)
		delete(d.names, key)
		for i, k := range d.order {
			if k == key {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
		return true
	}
	removed := false
	for _, v := range values {
		kept := l.Values[:0:0]
		for _, existing := range l.Values {
			if l.equal(existing, v) {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		l.Values = kept
	}
	if len(l.Values) == 0 {
		delete(d.byKey, key)
		delete(d.names, key)
		for i, k := range d.order {
			if k == key {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	return removed
}
