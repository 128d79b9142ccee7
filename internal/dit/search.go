package dit

import (
	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

type Scope uint8

const (
	ScopeBase Scope = iota
	ScopeOne
	ScopeSub
)

type DerefMode uint8

const (
	DerefNever DerefMode = iota
	DerefSearching
	DerefFinding
	DerefAlways
)

// MatchFunc reports whether entry satisfies the caller's filter; it is
// supplied by the root package, which owns the decoded Filter tree and its
// Matches method (see filter_eval.go) — kept out of this package to avoid
// importing the root package here.
type MatchFunc func(entry *schema.AttrsDict) (bool, error)

// SearchParams bundles the inputs of §4.E "Search".
type SearchParams struct {
	Base         dn.DN
	Scope        Scope
	Match        MatchFunc
	RequestAttrs []string
	TypesOnly    bool
	DerefAliases DerefMode
	SizeLimit    int
	TimeLimit    int
}

// Entry is one projected search result.
type Entry struct {
	DN    dn.DN
	Attrs *schema.AttrsDict
}

const maxAliasChainLength = 16

// Search implements §4.E "Search" resolution steps 1-7, except time-limit
// cancellation (left to the caller, which owns the timer and the
// streaming transport).
func (b *Backend) Search(p SearchParams) ([]Entry, error) {
	base, ok, deepest := b.locate(p.Base)
	if !ok {
		return nil, resultcode.NewWithMatch(resultcode.NoSuchObject, deepest.String(), "no such object")
	}

	if (p.DerefAliases == DerefFinding || p.DerefAliases == DerefAlways) && base.IsAlias() {
		followed, err := b.followAlias(base)
		if err != nil {
			return nil, err
		}
		base = followed
	}

	var candidates []*Object
	switch p.Scope {
	case ScopeBase:
		candidates = []*Object{base}
	case ScopeOne:
		candidates = append(candidates, base)
		for _, c := range base.Children {
			candidates = append(candidates, c)
		}
	case ScopeSub:
		candidates = append(candidates, base)
		collectDescendants(base, &candidates)
	}

	var out []Entry
	for _, obj := range candidates {
		target := obj
		if p.DerefAliases == DerefSearching || p.DerefAliases == DerefAlways {
			if target.IsAlias() {
				followed, err := b.followAlias(target)
				if err != nil {
					continue
				}
				target = followed
			}
		}
		ok, err := p.Match(target.Attrs)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, project(target, p.RequestAttrs, p.TypesOnly))
		if p.SizeLimit > 0 && len(out) >= p.SizeLimit {
			return out, nil
		}
	}
	return out, nil
}

func collectDescendants(obj *Object, out *[]*Object) {
	for _, c := range obj.Children {
		*out = append(*out, c)
		collectDescendants(c, out)
	}
}

func (b *Backend) followAlias(obj *Object) (*Object, error) {
	seen := map[*Object]bool{}
	cur := obj
	for i := 0; i < maxAliasChainLength; i++ {
		if !cur.IsAlias() {
			return cur, nil
		}
		if seen[cur] {
			return nil, resultcode.New(resultcode.AliasDereferencingProblem, "alias loop detected")
		}
		seen[cur] = true
		target, ok := cur.AliasTarget()
		if !ok {
			return nil, resultcode.New(resultcode.AliasDereferencingProblem, "dangling alias")
		}
		targetDN, err := dn.Parse(target, b.reg)
		if err != nil {
			return nil, resultcode.New(resultcode.AliasDereferencingProblem, "malformed aliasedObjectName")
		}
		next, ok, _ := b.locate(targetDN)
		if !ok {
			return nil, resultcode.New(resultcode.AliasDereferencingProblem, "dangling alias")
		}
		cur = next
	}
	return nil, resultcode.New(resultcode.AliasDereferencingProblem, "alias chain too long")
}

func project(obj *Object, requested []string, typesOnly bool) Entry {
	if len(requested) == 0 {
		if !typesOnly {
			return Entry{DN: obj.DN, Attrs: obj.Attrs}
		}
		out := schema.NewAttrsDict()
		for _, name := range obj.Attrs.Names() {
			out.Set(name, nil, nil)
		}
		return Entry{DN: obj.DN, Attrs: out}
	}
	out := schema.NewAttrsDict()
	for _, name := range requested {
		list, ok := obj.Attrs.Get(name)
		if !ok {
			continue
		}
		if typesOnly {
			out.Set(name, list.Type, nil)
		} else {
			out.Set(name, list.Type, list.Values)
		}
	}
	return Entry{DN: obj.DN, Attrs: out}
}
