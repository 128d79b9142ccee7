package auth

import (
	"errors"

	"laureld/internal/dit"
	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

// LDAPStorage is the "ldap" simple-backend storage: a base-scope in-process
// search for the mapped name (treated as the entry's own DN), requiring
// userPassword=* optionally AND-combined with a caller-supplied match
// (§4.G "ldap"). It depends on internal/dit.Client rather than the root
// package's Filter type, so internal/auth stays clear of the root package
// (same cycle-avoidance reasoning as internal/dit's own MatchFunc).
type LDAPStorage struct {
	Client     *dit.Client
	ExtraMatch dit.MatchFunc
	Deref      dit.DerefMode
}

func (s *LDAPStorage) Lookup(mappedName string) (LookupResult, error) {
	target, err := dn.Parse(mappedName, s.Client.Router.Registry())
	if err != nil {
		return LookupResult{}, err
	}

	match := func(attrs *schema.AttrsDict) (bool, error) {
		if !attrs.Has("userPassword") {
			return false, nil
		}
		if s.ExtraMatch != nil {
			return s.ExtraMatch(attrs)
		}
		return true, nil
	}

	entries, err := s.Client.Search(dit.SearchParams{
		Base:         target,
		Scope:        dit.ScopeBase,
		Match:        match,
		DerefAliases: s.Deref,
	})
	if err != nil {
		var rcErr *resultcode.Error
		if errors.As(err, &rcErr) && rcErr.Code == resultcode.NoSuchObject {
			return LookupResult{Found: false}, nil
		}
		return LookupResult{}, err
	}
	if len(entries) == 0 {
		return LookupResult{Found: false}, nil
	}

	pw, ok := entries[0].Attrs.Get("userPassword")
	if !ok {
		return LookupResult{Found: true}, nil
	}
	return LookupResult{Found: true, Values: pw.Values}, nil
}
