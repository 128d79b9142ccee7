package dit

import (
	"sort"

	"laureld/internal/dn"
	"laureld/internal/resultcode"
	"laureld/internal/schema"
)

// Router implements §4.F: a list of (suffix, backend, default-flag),
// sorted by descending RDN count so the longest suffix is tried first.
type Router struct {
	reg      *schema.Registry
	entries  []*routerEntry
	defaultB *Backend
}

type routerEntry struct {
	suffix  dn.DN
	backend *Backend
	isDflt  bool
}

func NewRouter(reg *schema.Registry) *Router {
	return &Router{reg: reg}
}

// Registry returns the schema registry the router was constructed with,
// for callers (e.g. internal/auth's "ldap" storage) that need to parse a
// DN against the same schema the router routes by.
func (r *Router) Registry() *schema.Registry {
	return r.reg
}

// Add registers backend at its own Suffix. isDefault marks it as the
// default naming context (§3 Invariant 3: exactly one default; if none is
// marked and only one suffix exists, that suffix becomes the default).
func (r *Router) Add(backend *Backend, isDefault bool) {
	r.entries = append(r.entries, &routerEntry{suffix: backend.Suffix, backend: backend, isDflt: isDefault})
	sort.SliceStable(r.entries, func(i, j int) bool {
		return len(r.entries[i].suffix) > len(r.entries[j].suffix)
	})
	if isDefault {
		r.defaultB = backend
		return
	}
	for _, e := range r.entries {
		if e.isDflt {
			return
		}
	}
	r.defaultB = nil
	if len(r.entries) == 1 {
		r.defaultB = backend
	}
}

// BackendFor selects the first suffix that is an RDN-wise (schema-aware)
// suffix of target.
func (r *Router) BackendFor(target dn.DN) (*Backend, error) {
	for _, e := range r.entries {
		if target.HasSuffix(e.suffix, r.reg) {
			return e.backend, nil
		}
	}
	return nil, resultcode.New(resultcode.NoSuchObject, "no backend configured for this DN")
}

// Suffixes returns every configured suffix in canonical string form, for
// Root DSE synthesis (§6 "Root DSE").
func (r *Router) Suffixes() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.suffix.String()
	}
	return out
}

// DefaultNamingContext returns the configured default suffix's string
// form, or "" if none is configured and more than one suffix exists.
func (r *Router) DefaultNamingContext() string {
	if r.defaultB == nil {
		return ""
	}
	return r.defaultB.Suffix.String()
}
